package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/iksnae/aisync/internal/model"
	"github.com/iksnae/aisync/internal/redact"
)

// Writer fans a session out to the configured formats under one output
// directory. Message content is redacted immediately before anything is
// persisted; the in-memory session handed in by the caller is never
// mutated.
type Writer struct {
	dir       string
	exporters []Exporter
	store     *Store
	redactor  *redact.Redactor
	log       *zap.Logger
}

// NewWriter builds a writer for the given formats. The "sqlite" format
// is backed by a sessions.db store in dir; the rest write one file per
// session. A nil redactor disables redaction.
func NewWriter(dir string, formats []string, redactor *redact.Redactor, log *zap.Logger) (*Writer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", dir, err)
	}

	w := &Writer{dir: dir, redactor: redactor, log: log}
	for _, format := range formats {
		format = strings.ToLower(format)
		if format == "sqlite" {
			if w.store != nil {
				continue
			}
			store, err := OpenStore(filepath.Join(dir, "sessions.db"))
			if err != nil {
				return nil, err
			}
			w.store = store
			continue
		}
		exp, err := NewExporter(format)
		if err != nil {
			return nil, err
		}
		w.exporters = append(w.exporters, exp)
	}
	return w, nil
}

// Write persists one session in every configured format. It reports
// whether anything was actually written: a session whose output files
// are already newer than its source is skipped wholesale.
func (w *Writer) Write(session *model.Session) (bool, error) {
	clean := w.redacted(session)
	wrote := false

	for _, exp := range w.exporters {
		path := filepath.Join(w.dir, w.fileName(clean, exp.Extension()))
		if upToDate(path, clean.SourceMtime) {
			w.log.Debug("output up to date", zap.String("path", path))
			continue
		}
		if err := w.writeFile(clean, exp, path); err != nil {
			return wrote, err
		}
		wrote = true
	}

	if w.store != nil {
		stored, err := w.store.Upsert(clean)
		if err != nil {
			return wrote, err
		}
		wrote = wrote || stored
	}
	return wrote, nil
}

// Close releases the sqlite store, if one was configured.
func (w *Writer) Close() error {
	if w.store != nil {
		return w.store.Close()
	}
	return nil
}

func (w *Writer) writeFile(session *model.Session, exp Exporter, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := exp.Export(session, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// fileName is <provider>-<date>-<hhmm>-<id>.<ext>, stable across runs so
// re-syncing overwrites rather than duplicates.
func (w *Writer) fileName(session *model.Session, ext string) string {
	return fmt.Sprintf("%s-%s-%s.%s",
		session.Provider,
		session.CreatedAt.Format("2006-01-02-1504"),
		session.ID,
		ext)
}

// upToDate reports whether path exists and was written at or after the
// session source's mtime.
func upToDate(path string, sourceMtime float64) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return float64(info.ModTime().UnixNano())/1e9 >= sourceMtime
}

// redacted returns a copy of session with secrets stripped from every
// message. The copy shares nothing mutable with the original.
func (w *Writer) redacted(session *model.Session) *model.Session {
	if w.redactor == nil {
		return session
	}
	clean := *session
	clean.Messages = make([]model.Message, len(session.Messages))
	for i, msg := range session.Messages {
		msg.Content = w.redactor.RedactString(msg.Content)
		if msg.ToolResult != "" {
			msg.ToolResult = w.redactor.RedactString(msg.ToolResult)
		}
		clean.Messages[i] = msg
	}
	return &clean
}
