package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/iksnae/aisync/internal/model"
)

// YAMLExporter exports sessions in YAML format
type YAMLExporter struct{}

// Export exports a session to YAML format
func (e *YAMLExporter) Export(session *model.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(session)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
