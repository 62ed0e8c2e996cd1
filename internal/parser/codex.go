package parser

import (
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// CodexParser reads OpenAI Codex CLI history: NDJSON files under
// ~/.codex/sessions/*.jsonl where each line carries role and content
// directly.
//
// Role handling: standard synonym mapping; lines with unrecognized roles
// are dropped.
type CodexParser struct {
	env Environment
}

// NewCodexParser returns a parser rooted at env's home directory.
func NewCodexParser(env Environment) *CodexParser {
	return &CodexParser{env: env}
}

// Provider implements Parser.
func (p *CodexParser) Provider() model.Provider {
	return model.ProviderCodex
}

// SessionPaths implements Parser.
func (p *CodexParser) SessionPaths() []string {
	root := filepath.Join(p.env.HomeDir, ".codex", "sessions")
	return FindFiles(root, "*.jsonl", DefaultMaxDepth)
}

// Parse implements Parser.
func (p *CodexParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	lines := ndjsonLines(data)
	if len(lines) == 0 {
		return nil, nil
	}

	var createdAt time.Time
	haveCreated := false
	modelName := ""
	var messages []model.Message

	for _, line := range lines {
		entry := gjson.Parse(line)
		if !entry.IsObject() {
			continue
		}
		if !haveCreated {
			if t, ok := parseTime(entry.Get("timestamp")); ok {
				createdAt = t
				haveCreated = true
			}
		}
		if m := entry.Get("model").String(); m != "" {
			modelName = m
		}
		messages = appendMessage(messages, entry.Get("role").String(), flattenParts(entry.Get("content")), nil)
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
		Tags:        []string{"codex", "ai-session", "coding"},
	}}, nil
}
