package parser

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// openrouterMessageKeys is the candidate-key order for OpenRouter exports.
var openrouterMessageKeys = []string{"messages", "conversation", "history", "chat"}

// openrouterExportPatterns are the filename globs checked in each export
// directory.
var openrouterExportPatterns = []string{
	"openrouter*.json",
	"openrouter*.jsonl",
	"chat*.json",
	"conversation*.json",
	"*.openrouter.json",
}

// openrouterModelPatterns extract a model name from export filenames when
// the document itself carries none.
var openrouterModelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`claude[_-]?3[_-]?(opus|sonnet|haiku)`),
	regexp.MustCompile(`gpt[_-]?4[_-]?(turbo|o)?`),
	regexp.MustCompile(`gemini[_-]?(pro|ultra|flash)`),
	regexp.MustCompile(`llama[_-]?3`),
	regexp.MustCompile(`mistral[_-]?(large|medium|small)?`),
	regexp.MustCompile(`perplexity`),
}

// OpenRouterParser reads OpenRouter conversation exports: JSON documents
// saved to Downloads, dedicated export directories, or the openrouter-kit
// DiskHistoryStorage location. An export may be a single conversation or an
// array of them (container file, one session per entry).
//
// Role handling: full synonym mapping including system and tool/function;
// unrecognized roles dropped. Image blocks render as "[Image]".
type OpenRouterParser struct {
	env Environment
}

// NewOpenRouterParser returns a parser rooted at env's home directory.
func NewOpenRouterParser(env Environment) *OpenRouterParser {
	return &OpenRouterParser{env: env}
}

// Provider implements Parser.
func (p *OpenRouterParser) Provider() model.Provider {
	return model.ProviderOpenRouter
}

// SessionPaths implements Parser.
func (p *OpenRouterParser) SessionPaths() []string {
	exportDirs := []string{
		filepath.Join(p.env.HomeDir, "Downloads"),
		filepath.Join(p.env.HomeDir, "openrouter-exports"),
		filepath.Join(p.env.HomeDir, ".config", "openrouter", "exports"),
		filepath.Join(p.env.HomeDir, ".openrouter"),
		filepath.Join(p.env.HomeDir, ".openrouter-kit", "history"),
	}

	var paths []string
	for _, dir := range exportDirs {
		if !dirExists(dir) {
			continue
		}
		for _, pattern := range openrouterExportPatterns {
			paths = append(paths, globFiles(dir, pattern)...)
		}
		for _, sub := range subDirs(dir) {
			if strings.Contains(strings.ToLower(filepath.Base(sub)), "openrouter") {
				paths = append(paths, FindFiles(sub, "*.json", DefaultMaxDepth)...)
				paths = append(paths, FindFiles(sub, "*.jsonl", DefaultMaxDepth)...)
			}
		}
	}
	return dedupePaths(paths)
}

// Parse implements Parser.
func (p *OpenRouterParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) == ".jsonl" {
		return p.parseLines(path, data)
	}

	doc := gjson.ParseBytes(data)
	switch {
	case doc.IsArray():
		return p.parseContainer(path, doc), nil
	case doc.IsObject():
		if s := p.buildSession(path, doc, StemID(path)); s != nil {
			return []*model.Session{s}, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// parseLines handles JSONL exports: one role-tagged message per line.
func (p *OpenRouterParser) parseLines(path string, data []byte) ([]*model.Session, error) {
	var messages []model.Message
	modelName := ""
	var createdAt time.Time
	haveCreated := false

	for _, line := range ndjsonLines(data) {
		entry := gjson.Parse(line)
		if !entry.IsObject() {
			continue
		}
		messages = openrouterAppend(messages, entry)
		if m := entry.Get("model").String(); m != "" && modelName == "" {
			modelName = m
		}
		if !haveCreated {
			if t, ok := parseTime(entry.Get("timestamp")); ok {
				createdAt, haveCreated = t, true
			}
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
		Model:       p.modelName(modelName, path),
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"openrouter", "ai-session", "multi-model"},
	}}, nil
}

// parseContainer handles the exported array-of-conversations shape: one
// session per entry, addressed by container path plus zero-based index.
func (p *OpenRouterParser) parseContainer(path string, doc gjson.Result) []*model.Session {
	var sessions []*model.Session
	index := 0
	doc.ForEach(func(_, entry gjson.Result) bool {
		if entry.IsObject() {
			if s := p.buildSession(path, entry, ContainerID(path, index)); s != nil {
				sessions = append(sessions, s)
			}
		}
		index++
		return true
	})
	return sessions
}

// buildSession normalizes one conversation object.
func (p *OpenRouterParser) buildSession(path string, doc gjson.Result, fallbackID string) *model.Session {
	raw, ok := firstArray(doc, openrouterMessageKeys)
	if !ok {
		return nil
	}

	var messages []model.Message
	raw.ForEach(func(_, entry gjson.Result) bool {
		messages = openrouterAppend(messages, entry)
		return true
	})
	if len(messages) == 0 {
		return nil
	}

	id := fallbackID
	if native := doc.Get("id").String(); native != "" {
		id = ShortID(native, path)
	}

	explicit, haveExplicit := firstTime(doc, "created_at", "createdAt", "timestamp")
	created, mtime := resolveCreatedAt(explicit, haveExplicit, path)

	return &model.Session{
		ID:          id,
		Provider:    p.Provider(),
		Messages:    messages,
		CreatedAt:   created,
		Model:       p.modelName(doc.Get("model").String(), path),
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"openrouter", "ai-session", "multi-model"},
	}
}

// openrouterAppend extracts one turn, rendering image blocks as "[Image]".
func openrouterAppend(messages []model.Message, entry gjson.Result) []model.Message {
	if !entry.IsObject() {
		return messages
	}

	content := entry.Get("content")
	if !content.Exists() {
		content = entry.Get("text")
	}
	var text string
	if content.IsArray() {
		var parts []string
		content.ForEach(func(_, item gjson.Result) bool {
			switch {
			case item.Type == gjson.String:
				parts = append(parts, item.String())
			case item.IsObject() && item.Get("type").String() == "text":
				if t := item.Get("text").String(); t != "" {
					parts = append(parts, t)
				}
			case item.IsObject() && item.Get("type").String() == "image_url":
				parts = append(parts, "[Image]")
			}
			return true
		})
		text = strings.Join(parts, "\n\n")
	} else {
		text = content.String()
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

// modelName falls back to the filename heuristic when the export carries no
// model field.
func (p *OpenRouterParser) modelName(fromDoc, path string) string {
	if fromDoc != "" {
		return fromDoc
	}
	name := strings.ToLower(filepath.Base(path))
	for _, re := range openrouterModelPatterns {
		if m := re.FindString(name); m != "" {
			return strings.ReplaceAll(m, "_", "-")
		}
	}
	return ""
}
