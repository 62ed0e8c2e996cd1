package parser

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// idNamespace seeds deterministic path-derived identifiers. It must never
// change: repeated syncs have to produce the same id for the same file.
var idNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// shortIDLen is the fixed short form used for session identifiers.
const shortIDLen = 8

// PathID derives a stable short identifier from a source path. The same
// path always yields the same id regardless of parse run.
func PathID(path string) string {
	u := uuid.NewSHA1(idNamespace, []byte(filepath.Clean(path)))
	return u.String()[:shortIDLen]
}

// ShortID truncates a provider-native identifier to the fixed short form,
// falling back to a path-derived id when the source carries none.
func ShortID(native, path string) string {
	if native != "" {
		if len(native) > shortIDLen {
			return native[:shortIDLen]
		}
		return native
	}
	return PathID(path)
}

// StemID derives the short id from a file's base name without extension,
// the common case for tools that name session files after their session id.
func StemID(path string) string {
	stem := filepath.Base(path)
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	return ShortID(stem, path)
}

// ContainerID addresses one session inside a container file holding many:
// container path plus zero-based index. Identity stays cheap, deterministic,
// and independent of message-text mutation.
func ContainerID(path string, index int) string {
	return fmt.Sprintf("%s-%02d", PathID(path), index)
}
