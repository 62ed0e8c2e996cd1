package parser

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// ClaudeCodeParser reads Claude Code CLI history: newline-delimited JSON
// event logs under ~/.claude/projects/**/*.jsonl. Each line is a typed
// envelope — session metadata (sessionId, cwd, model, timestamp) mixed with
// per-turn "user"/"assistant" events whose message content is either a
// string or an array of typed blocks.
//
// Role handling: the envelope type names the role directly; lines with any
// other type are skipped, never defaulted.
type ClaudeCodeParser struct {
	env Environment
}

// NewClaudeCodeParser returns a parser rooted at env's home directory.
func NewClaudeCodeParser(env Environment) *ClaudeCodeParser {
	return &ClaudeCodeParser{env: env}
}

// Provider implements Parser.
func (p *ClaudeCodeParser) Provider() model.Provider {
	return model.ProviderClaudeCode
}

// SessionPaths implements Parser.
func (p *ClaudeCodeParser) SessionPaths() []string {
	root := filepath.Join(p.env.HomeDir, ".claude", "projects")
	return FindFiles(root, "*.jsonl", DefaultMaxDepth)
}

// Parse implements Parser.
func (p *ClaudeCodeParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	lines := ndjsonLines(data)
	if len(lines) == 0 {
		return nil, nil
	}

	sessionID := ""
	var createdAt time.Time
	haveCreated := false
	workingDir := ""
	modelName := ""
	var messages []model.Message

	for _, line := range lines {
		entry := gjson.Parse(line)
		if !entry.IsObject() {
			continue
		}

		if sessionID == "" {
			if sid := entry.Get("sessionId").String(); sid != "" {
				sessionID = sid
			}
		}
		if !haveCreated {
			if t, ok := parseTime(entry.Get("timestamp")); ok {
				createdAt = t
				haveCreated = true
			}
		}
		if cwd := entry.Get("cwd").String(); cwd != "" {
			workingDir = cwd
		}
		if m := entry.Get("model").String(); m != "" {
			modelName = m
		}

		content := entry.Get("message.content")
		if !content.Exists() {
			continue
		}
		switch entry.Get("type").String() {
		case "user":
			text := flattenBlocks(content)
			if strings.HasPrefix(text, "<environment_context") {
				continue // injected scaffolding, not a user turn
			}
			messages = appendMessage(messages, "user", text, nil)
		case "assistant":
			messages = appendMessage(messages, "assistant", flattenBlocks(content), nil)
		}
	}

	if len(messages) == 0 {
		return nil, nil
	}

	id := StemID(path)
	if sessionID != "" {
		id = ShortID(sessionID, path)
	}

	created, mtime := resolveCreatedAt(createdAt, haveCreated, path)
	return []*model.Session{{
		ID:          id,
		Provider:    p.Provider(),
		Messages:    messages,
		CreatedAt:   created,
		WorkingDir:  workingDir,
		Model:       modelName,
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"claude-code", "ai-session", "coding"},
	}}, nil
}
