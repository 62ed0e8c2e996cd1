package parser

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// opencodeMessageKeys is the candidate-key order for OpenCode documents.
var opencodeMessageKeys = []string{"messages", "conversation", "history"}

// OpenCodeParser reads OpenCode history under ~/.local/share/opencode:
// project/<slug>/storage for git projects, global/storage for the rest,
// plus session*/messages* documents directly in project directories. JSON
// and JSONL shapes both occur.
//
// Role handling: full synonym mapping including system and tool/function;
// unrecognized roles dropped. Tool turns keep their tool name.
type OpenCodeParser struct {
	env Environment
}

// NewOpenCodeParser returns a parser rooted at env's home directory.
func NewOpenCodeParser(env Environment) *OpenCodeParser {
	return &OpenCodeParser{env: env}
}

// Provider implements Parser.
func (p *OpenCodeParser) Provider() model.Provider {
	return model.ProviderOpenCode
}

// dataDir resolves OpenCode's data directory; every platform uses the
// ~/.local/share layout.
func (p *OpenCodeParser) dataDir() string {
	if p.env.GOOS == "windows" {
		if profile := p.env.getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, ".local", "share", "opencode")
		}
	}
	return filepath.Join(p.env.HomeDir, ".local", "share", "opencode")
}

// SessionPaths implements Parser.
func (p *OpenCodeParser) SessionPaths() []string {
	root := p.dataDir()
	if !dirExists(root) {
		return nil
	}

	var paths []string
	projectDirs := subDirs(filepath.Join(root, "project"))
	for _, project := range projectDirs {
		storage := filepath.Join(project, "storage")
		paths = append(paths, FindFiles(storage, "*.json", DefaultMaxDepth)...)
		paths = append(paths, FindFiles(storage, "*.jsonl", DefaultMaxDepth)...)
	}

	globalStorage := filepath.Join(root, "global", "storage")
	paths = append(paths, FindFiles(globalStorage, "*.json", DefaultMaxDepth)...)
	paths = append(paths, FindFiles(globalStorage, "*.jsonl", DefaultMaxDepth)...)

	for _, project := range projectDirs {
		paths = append(paths, FindFiles(project, "session*.json", DefaultMaxDepth)...)
		paths = append(paths, FindFiles(project, "messages*.json", DefaultMaxDepth)...)
	}
	return dedupePaths(paths)
}

// Parse implements Parser.
func (p *OpenCodeParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}

	var messages []model.Message
	modelName := ""
	workingDir := ""
	var createdAt time.Time
	haveCreated := false

	if filepath.Ext(path) == ".jsonl" {
		for _, line := range ndjsonLines(data) {
			entry := gjson.Parse(line)
			if !entry.IsObject() {
				continue
			}
			messages = opencodeAppend(messages, entry)
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
				messages = opencodeAppend(messages, entry)
				if m := entry.Get("model").String(); m != "" {
					modelName = m
				}
				return true
			})
		case doc.IsObject():
			modelName = doc.Get("model").String()
			workingDir = doc.Get("cwd").String()
			if workingDir == "" {
				workingDir = doc.Get("working_dir").String()
			}
			if raw, ok := firstArray(doc, opencodeMessageKeys); ok {
				raw.ForEach(func(_, entry gjson.Result) bool {
					messages = opencodeAppend(messages, entry)
					return true
				})
			}
			if t, ok := firstTime(doc, "created_at", "timestamp"); ok {
				createdAt, haveCreated = t, true
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
		WorkingDir:  workingDir,
		ProjectName: projectFromPath(path),
		Model:       modelName,
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"opencode", "ai-session", "coding"},
	}}, nil
}

// opencodeAppend extracts one turn, keeping tool names on tool turns.
func opencodeAppend(messages []model.Message, entry gjson.Result) []model.Message {
	if !entry.IsObject() {
		return messages
	}
	content := entry.Get("content")
	if !content.Exists() {
		content = entry.Get("text")
	}
	text := flattenParts(content)
	if text == "" {
		return messages
	}

	role, ok := model.ParseRole(entry.Get("role").String())
	if !ok || strings.TrimSpace(text) == "" {
		return messages
	}
	msg := model.Message{Role: role, Content: text, Timestamp: messageTime(entry)}
	if role == model.RoleTool {
		msg.ToolName = entry.Get("name").String()
		if msg.ToolName == "" {
			msg.ToolName = entry.Get("tool_name").String()
		}
	}
	return append(messages, msg)
}

// projectFromPath lifts the project slug out of a
// .../opencode/project/<slug>/... path.
func projectFromPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for i, part := range parts {
		if part == "project" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
