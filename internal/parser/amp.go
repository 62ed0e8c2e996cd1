package parser

import (
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// ampMessageKeys is the candidate-key order for Amp/Cody documents.
var ampMessageKeys = []string{"messages", "interactions", "conversation", "history"}

// AmpParser reads Sourcegraph Amp history: JSON and JSONL session files
// under ~/.amp plus Cody-style conversation documents in the
// sourcegraph.cody-ai VS Code globalStorage directory. Interactions come as
// humanMessage/assistantMessage pairs or role-tagged entries.
//
// Role handling: standard synonym mapping with "speaker" as a fallback role
// key; unrecognized roles dropped.
type AmpParser struct {
	env Environment
}

// NewAmpParser returns a parser rooted at env's home directory.
func NewAmpParser(env Environment) *AmpParser {
	return &AmpParser{env: env}
}

// Provider implements Parser.
func (p *AmpParser) Provider() model.Provider {
	return model.ProviderAmp
}

// SessionPaths implements Parser.
func (p *AmpParser) SessionPaths() []string {
	var paths []string

	ampDir := filepath.Join(p.env.HomeDir, ".amp")
	if dirExists(ampDir) {
		sessions := filepath.Join(ampDir, "sessions")
		paths = append(paths, globFiles(sessions, "*.json")...)
		paths = append(paths, globFiles(sessions, "*.jsonl")...)
		paths = append(paths, globFiles(filepath.Join(ampDir, "conversations"), "*.json")...)
		if history := filepath.Join(ampDir, "history.json"); fileExists(history) {
			paths = append(paths, history)
		}
	}

	codyDir := filepath.Join(p.env.VSCodeGlobalStorage(), "sourcegraph.cody-ai")
	if dirExists(codyDir) {
		paths = append(paths, FindFiles(codyDir, "conversation*.json", DefaultMaxDepth)...)
		paths = append(paths, FindFiles(codyDir, "history*.json", DefaultMaxDepth)...)
	}
	return dedupePaths(paths)
}

// Parse implements Parser.
func (p *AmpParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}

	var messages []model.Message
	modelName := ""
	var createdAt time.Time
	haveCreated := false

	if filepath.Ext(path) == ".jsonl" {
		for _, line := range ndjsonLines(data) {
			entry := gjson.Parse(line)
			if !entry.IsObject() {
				continue
			}
			if m := entry.Get("model").String(); m != "" {
				modelName = m
			}
			if !haveCreated {
				if t, ok := parseTime(entry.Get("timestamp")); ok {
					createdAt, haveCreated = t, true
				}
			}
			content := entry.Get("content")
			if !content.Exists() {
				content = entry.Get("message")
			}
			messages = appendMessage(messages, entry.Get("role").String(), flattenParts(content), nil)
		}
	} else {
		doc := gjson.ParseBytes(data)
		switch {
		case doc.IsArray():
			doc.ForEach(func(_, entry gjson.Result) bool {
				if entry.IsObject() {
					messages = ampMessages(messages, entry)
					if m := entry.Get("model").String(); m != "" && modelName == "" {
						modelName = m
					}
				}
				return true
			})
		case doc.IsObject():
			modelName = doc.Get("model").String()
			messages = ampMessages(messages, doc)
		default:
			return nil, nil
		}
	}

	if len(messages) == 0 {
		return nil, nil
	}

	created, mtime := resolveCreatedAt(createdAt, haveCreated, path)
	return []*model.Session{{
		ID:          StemID(path),
		Provider:    p.Provider(),
		Messages:    messages,
		CreatedAt:   created,
		Model:       modelName,
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"amp", "sourcegraph", "ai-session", "coding"},
	}}, nil
}

// ampMessages extracts turns from one document, handling both the Cody
// pair shape and role-tagged entries.
func ampMessages(messages []model.Message, doc gjson.Result) []model.Message {
	raw, ok := firstArray(doc, ampMessageKeys)
	if !ok {
		return messages
	}
	raw.ForEach(func(_, msg gjson.Result) bool {
		if !msg.IsObject() {
			return true
		}

		human := msg.Get("humanMessage")
		assistant := msg.Get("assistantMessage")
		if human.IsObject() {
			messages = appendMessage(messages, "user", pairText(human), nil)
		}
		if assistant.IsObject() {
			messages = appendMessage(messages, "assistant", pairText(assistant), nil)
		}
		if human.Exists() || assistant.Exists() {
			return true
		}

		role := msg.Get("role").String()
		if role == "" {
			role = msg.Get("speaker").String()
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

// pairText reads the text of one side of a Cody interaction pair.
func pairText(side gjson.Result) string {
	if text := side.Get("text").String(); text != "" {
		return text
	}
	return side.Get("content").String()
}
