package parser

import (
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// continueMessageKeys is the candidate-key order for Continue.dev session
// documents.
var continueMessageKeys = []string{"history", "messages"}

// ContinueParser reads Continue.dev history: per-session JSON documents
// under the VS Code globalStorage continue.continue/sessions directory and
// ~/.continue/sessions, plus a history.json container holding an array of
// past sessions.
//
// Role handling: standard synonym mapping; unrecognized roles dropped.
// history.json yields one session per array entry, addressed by container
// path plus zero-based index.
type ContinueParser struct {
	env Environment
}

// NewContinueParser returns a parser rooted at env's home directory.
func NewContinueParser(env Environment) *ContinueParser {
	return &ContinueParser{env: env}
}

// Provider implements Parser.
func (p *ContinueParser) Provider() model.Provider {
	return model.ProviderContinue
}

// SessionPaths implements Parser.
func (p *ContinueParser) SessionPaths() []string {
	var paths []string

	continueDir := filepath.Join(p.env.VSCodeGlobalStorage(), "continue.continue")
	if dirExists(continueDir) {
		paths = append(paths, globFiles(filepath.Join(continueDir, "sessions"), "*.json")...)
		if history := filepath.Join(continueDir, "history.json"); fileExists(history) {
			paths = append(paths, history)
		}
	}
	paths = append(paths, globFiles(filepath.Join(p.env.HomeDir, ".continue", "sessions"), "*.json")...)
	return paths
}

// Parse implements Parser.
func (p *ContinueParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(data)
	created, mtime := fileMtime(path)

	build := func(id string, entry gjson.Result) *model.Session {
		messages := continueMessages(entry)
		if len(messages) == 0 {
			return nil
		}
		return &model.Session{
			ID:          id,
			Provider:    p.Provider(),
			Messages:    messages,
			CreatedAt:   created,
			Model:       entry.Get("model").String(),
			SourceFile:  path,
			SourceMtime: mtime,
			Tags:        []string{"continue", "ai-session", "coding"},
		}
	}

	if doc.IsArray() {
		var sessions []*model.Session
		index := 0
		doc.ForEach(func(_, entry gjson.Result) bool {
			if s := build(ContainerID(path, index), entry); s != nil {
				sessions = append(sessions, s)
			}
			index++
			return true
		})
		return sessions, nil
	}
	if !doc.IsObject() {
		return nil, nil
	}
	if s := build(StemID(path), doc); s != nil {
		return []*model.Session{s}, nil
	}
	return nil, nil
}

// continueMessages extracts normalized turns from one session document.
func continueMessages(entry gjson.Result) []model.Message {
	raw, ok := firstArray(entry, continueMessageKeys)
	if !ok {
		return nil
	}
	var messages []model.Message
	raw.ForEach(func(_, msg gjson.Result) bool {
		if msg.IsObject() {
			content := msg.Get("content")
			if !content.Exists() {
				content = msg.Get("message")
			}
			messages = appendMessage(messages, msg.Get("role").String(), flattenParts(content), messageTime(msg))
		}
		return true
	})
	return messages
}
