package parser

import (
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// copilotMessageKeys is the candidate-key order for Copilot Chat documents.
var copilotMessageKeys = []string{"turns", "messages", "conversation"}

// CopilotParser reads GitHub Copilot Chat history: conversation documents
// under the github.copilot-chat globalStorage directory of both VS Code and
// Cursor. Turns come in two shapes, request/response pairs and role-tagged
// entries; both are handled, pairs first.
//
// Role handling: standard synonym mapping for role-tagged entries;
// unrecognized roles dropped.
type CopilotParser struct {
	env Environment
}

// NewCopilotParser returns a parser rooted at env's home directory.
func NewCopilotParser(env Environment) *CopilotParser {
	return &CopilotParser{env: env}
}

// Provider implements Parser.
func (p *CopilotParser) Provider() model.Provider {
	return model.ProviderCopilot
}

// SessionPaths implements Parser.
func (p *CopilotParser) SessionPaths() []string {
	var paths []string
	for _, storage := range []string{p.env.VSCodeGlobalStorage(), p.env.CursorGlobalStorage()} {
		copilotDir := filepath.Join(storage, "github.copilot-chat")
		if !dirExists(copilotDir) {
			continue
		}
		paths = append(paths, globFiles(filepath.Join(copilotDir, "conversations"), "*.json")...)
		if history := filepath.Join(copilotDir, "history.json"); fileExists(history) {
			paths = append(paths, history)
		}
	}
	return dedupePaths(paths)
}

// Parse implements Parser.
func (p *CopilotParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(data)

	var messages []model.Message
	switch {
	case doc.IsArray():
		doc.ForEach(func(_, entry gjson.Result) bool {
			messages = copilotMessages(messages, entry)
			return true
		})
	case doc.IsObject():
		messages = copilotMessages(messages, doc)
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
		Model:       "copilot",
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"copilot", "github", "ai-session", "coding"},
	}}, nil
}

// copilotMessages extracts turns from one conversation document.
func copilotMessages(messages []model.Message, doc gjson.Result) []model.Message {
	raw, ok := firstArray(doc, copilotMessageKeys)
	if !ok {
		return messages
	}
	raw.ForEach(func(_, turn gjson.Result) bool {
		if !turn.IsObject() {
			return true
		}

		request := turn.Get("request")
		if !request.Exists() {
			request = turn.Get("userMessage")
		}
		response := turn.Get("response")
		if !response.Exists() {
			response = turn.Get("assistantMessage")
		}

		if request.Exists() {
			messages = appendMessage(messages, "user", rawValueText(request), nil)
		}
		if response.Exists() {
			messages = appendMessage(messages, "assistant", rawValueText(response), nil)
		}

		// Role-tagged shape, only when the pair shape is absent.
		if !request.Exists() && !response.Exists() {
			content := turn.Get("content")
			if !content.Exists() {
				content = turn.Get("text")
			}
			messages = appendMessage(messages, turn.Get("role").String(), flattenParts(content), nil)
		}
		return true
	})
	return messages
}

// rawValueText renders request/response values that may be strings or
// nested objects with a message field.
func rawValueText(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	if v.IsObject() {
		if text := v.Get("message").String(); text != "" {
			return text
		}
		if text := v.Get("text").String(); text != "" {
			return text
		}
	}
	return v.Raw
}
