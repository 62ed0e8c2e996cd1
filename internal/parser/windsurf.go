package parser

import (
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// windsurfMessageKeys is the candidate-key order for Windsurf documents.
// The order is part of the adapter contract: tool versions have used each
// of these, and the first populated array wins.
var windsurfMessageKeys = []string{"messages", "conversation", "history", "turns"}

// WindsurfParser reads Windsurf (Codeium) IDE history from the editor's
// VS Code-like User/globalStorage tree: the codeium.codeium extension
// directory plus any extension directory carrying conversation*/history*
// documents.
//
// Role handling: standard synonym mapping with the "type" field as a
// fallback role key; unrecognized roles dropped.
type WindsurfParser struct {
	env Environment
}

// NewWindsurfParser returns a parser rooted at env's home directory.
func NewWindsurfParser(env Environment) *WindsurfParser {
	return &WindsurfParser{env: env}
}

// Provider implements Parser.
func (p *WindsurfParser) Provider() model.Provider {
	return model.ProviderWindsurf
}

// appDir resolves Windsurf's per-platform application-data directory.
func (p *WindsurfParser) appDir() string {
	switch p.env.GOOS {
	case "darwin":
		return filepath.Join(p.env.HomeDir, "Library", "Application Support", "Windsurf")
	case "linux":
		return filepath.Join(p.env.HomeDir, ".config", "Windsurf")
	case "windows":
		return filepath.Join(p.env.appData(), "Windsurf")
	default:
		return filepath.Join(p.env.HomeDir, ".config", "Windsurf")
	}
}

// SessionPaths implements Parser.
func (p *WindsurfParser) SessionPaths() []string {
	globalStorage := filepath.Join(p.appDir(), "User", "globalStorage")
	if !dirExists(globalStorage) {
		return nil
	}

	var paths []string
	paths = append(paths, FindFiles(filepath.Join(globalStorage, "codeium.codeium"), "*.json", DefaultMaxDepth)...)
	for _, ext := range subDirs(globalStorage) {
		paths = append(paths, FindFiles(ext, "conversation*.json", DefaultMaxDepth)...)
		paths = append(paths, FindFiles(ext, "history*.json", DefaultMaxDepth)...)
	}
	return dedupePaths(paths)
}

// Parse implements Parser.
func (p *WindsurfParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(data)

	var messages []model.Message
	switch {
	case doc.IsArray():
		doc.ForEach(func(_, entry gjson.Result) bool {
			messages = windsurfMessages(messages, entry)
			return true
		})
	case doc.IsObject():
		messages = windsurfMessages(messages, doc)
	default:
		return nil, nil
	}

	if len(messages) == 0 {
		return nil, nil
	}

	created, mtime := fileMtime(path)
	return []*model.Session{{
		ID:          StemID(path),
		Provider:    p.Provider(),
		Messages:    messages,
		CreatedAt:   created,
		Model:       "windsurf",
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"windsurf", "codeium", "ai-session", "coding"},
	}}, nil
}

// windsurfMessages extracts turns from one document.
func windsurfMessages(messages []model.Message, doc gjson.Result) []model.Message {
	raw, ok := firstArray(doc, windsurfMessageKeys)
	if !ok {
		return messages
	}
	raw.ForEach(func(_, msg gjson.Result) bool {
		if !msg.IsObject() {
			return true
		}
		role := msg.Get("role").String()
		if role == "" {
			role = msg.Get("type").String()
		}
		content := msg.Get("content")
		if !content.Exists() {
			content = msg.Get("text")
		}
		if !content.Exists() {
			content = msg.Get("message")
		}
		messages = appendMessage(messages, role, flattenParts(content), messageTime(msg))
		return true
	})
	return messages
}
