package parser

import (
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// rooMessageKeys is the candidate-key order for Roo Code documents.
var rooMessageKeys = []string{"messages", "conversation"}

// RooCodeParser reads Roo Code VS Code extension history: per-task
// conversation.json / messages.json documents and a history.json container
// under rooveterinaryinc.roo-cline, plus anything under ~/.roo-code.
//
// Role handling: standard synonym mapping (user/human, assistant/ai);
// unrecognized roles dropped. history.json yields one session per entry.
type RooCodeParser struct {
	env Environment
}

// NewRooCodeParser returns a parser rooted at env's home directory.
func NewRooCodeParser(env Environment) *RooCodeParser {
	return &RooCodeParser{env: env}
}

// Provider implements Parser.
func (p *RooCodeParser) Provider() model.Provider {
	return model.ProviderRooCode
}

// SessionPaths implements Parser.
func (p *RooCodeParser) SessionPaths() []string {
	var paths []string

	rooDir := filepath.Join(p.env.VSCodeGlobalStorage(), "rooveterinaryinc.roo-cline")
	if dirExists(rooDir) {
		for _, task := range subDirs(filepath.Join(rooDir, "tasks")) {
			for _, name := range []string{"conversation.json", "messages.json"} {
				if f := filepath.Join(task, name); fileExists(f) {
					paths = append(paths, f)
				}
			}
		}
		if history := filepath.Join(rooDir, "history.json"); fileExists(history) {
			paths = append(paths, history)
		}
	}
	paths = append(paths, FindFiles(filepath.Join(p.env.HomeDir, ".roo-code"), "*.json", DefaultMaxDepth)...)
	return dedupePaths(paths)
}

// Parse implements Parser.
func (p *RooCodeParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(data)
	created, mtime := fileMtime(path)

	tags := []string{"roo-code", "ai-session", "coding"}

	if doc.IsArray() {
		var sessions []*model.Session
		index := 0
		doc.ForEach(func(_, entry gjson.Result) bool {
			if messages := rooMessages(entry); len(messages) > 0 {
				sessions = append(sessions, &model.Session{
					ID:          ContainerID(path, index),
					Provider:    p.Provider(),
					Messages:    messages,
					CreatedAt:   created,
					SourceFile:  path,
					SourceMtime: mtime,
					Tags:        tags,
				})
			}
			index++
			return true
		})
		return sessions, nil
	}
	if !doc.IsObject() {
		return nil, nil
	}

	messages := rooMessages(doc)
	if len(messages) == 0 {
		return nil, nil
	}

	id := StemID(path)
	switch filepath.Base(path) {
	case "conversation.json", "messages.json":
		id = ShortID(filepath.Base(filepath.Dir(path)), path)
	}

	return []*model.Session{{
		ID:          id,
		Provider:    p.Provider(),
		Messages:    messages,
		CreatedAt:   created,
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        tags,
	}}, nil
}

// rooMessages extracts normalized turns from one document.
func rooMessages(doc gjson.Result) []model.Message {
	raw, ok := firstArray(doc, rooMessageKeys)
	if !ok {
		return nil
	}
	var messages []model.Message
	raw.ForEach(func(_, msg gjson.Result) bool {
		if msg.IsObject() {
			content := msg.Get("content")
			if !content.Exists() {
				content = msg.Get("text")
			}
			messages = appendMessage(messages, msg.Get("role").String(), flattenParts(content), messageTime(msg))
		}
		return true
	})
	return messages
}
