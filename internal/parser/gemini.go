package parser

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// geminiMessageKeys is the candidate-key order for Gemini CLI documents.
var geminiMessageKeys = []string{"contents", "messages"}

// GeminiCLIParser reads Google Gemini CLI history: *.json and *.jsonl
// session files plus history.json under ~/.gemini. Messages carry Gemini's
// "parts" arrays; the "model" role maps to ASSISTANT.
//
// Role handling: standard synonym mapping ("model" is the usual assistant
// tag here); unrecognized roles dropped.
type GeminiCLIParser struct {
	env Environment
}

// NewGeminiCLIParser returns a parser rooted at env's home directory.
func NewGeminiCLIParser(env Environment) *GeminiCLIParser {
	return &GeminiCLIParser{env: env}
}

// Provider implements Parser.
func (p *GeminiCLIParser) Provider() model.Provider {
	return model.ProviderGeminiCLI
}

// SessionPaths implements Parser.
func (p *GeminiCLIParser) SessionPaths() []string {
	geminiDir := filepath.Join(p.env.HomeDir, ".gemini")

	var paths []string
	sessions := filepath.Join(geminiDir, "sessions")
	paths = append(paths, globFiles(sessions, "*.json")...)
	paths = append(paths, globFiles(sessions, "*.jsonl")...)
	if history := filepath.Join(geminiDir, "history.json"); fileExists(history) {
		paths = append(paths, history)
	}
	return paths
}

// Parse implements Parser.
func (p *GeminiCLIParser) Parse(path string) ([]*model.Session, error) {
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
			messages = geminiAppend(messages, entry)
			if m := entry.Get("model").String(); m != "" {
				modelName = m
			}
			if !haveCreated {
				if t, ok := parseTime(entry.Get("timestamp")); ok {
					createdAt, haveCreated = t, true
				}
			}
		}
	} else {
		doc := gjson.ParseBytes(data)
		switch {
		case doc.IsArray():
			doc.ForEach(func(_, entry gjson.Result) bool {
				messages = geminiAppend(messages, entry)
				return true
			})
		case doc.IsObject():
			modelName = doc.Get("model").String()
			if raw, ok := firstArray(doc, geminiMessageKeys); ok {
				raw.ForEach(func(_, entry gjson.Result) bool {
					messages = geminiAppend(messages, entry)
					return true
				})
			}
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
		Tags:        []string{"gemini", "google", "ai-session", "coding"},
	}}, nil
}

// geminiAppend extracts one turn, preferring Gemini's parts array over a
// flat content field.
func geminiAppend(messages []model.Message, entry gjson.Result) []model.Message {
	if !entry.IsObject() {
		return messages
	}
	content := ""
	if parts := entry.Get("parts"); parts.IsArray() && len(parts.Array()) > 0 {
		var texts []string
		parts.ForEach(func(_, part gjson.Result) bool {
			switch {
			case part.Type == gjson.String:
				texts = append(texts, part.String())
			case part.IsObject() && part.Get("text").String() != "":
				texts = append(texts, part.Get("text").String())
			default:
				texts = append(texts, part.Raw)
			}
			return true
		})
		content = strings.Join(texts, "\n\n")
	} else {
		content = flattenParts(entry.Get("content"))
		if content == "" {
			content = entry.Get("text").String()
		}
	}
	return appendMessage(messages, entry.Get("role").String(), content, messageTime(entry))
}
