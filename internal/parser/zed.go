package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// zedMessageKeys is the candidate-key order for Zed conversation documents.
var zedMessageKeys = []string{"messages", "conversation", "history"}

// zedHeadingMarker splits a Zed markdown transcript into speaker turns on
// "## " headings ("## User", "## Assistant").
var zedHeadingMarker = regexp.MustCompile(`(?m)^##\s+`)

// ZedAIParser reads Zed editor assistant history: JSON conversation
// documents and markdown transcripts under the Zed application directory
// (conversations/, assistant/, prompts/).
//
// Role handling: JSON documents use standard synonym mapping with
// unrecognized roles dropped; markdown headings map by substring ("user" /
// "assistant" / "ai"), other headings dropped.
type ZedAIParser struct {
	env Environment
}

// NewZedAIParser returns a parser rooted at env's home directory.
func NewZedAIParser(env Environment) *ZedAIParser {
	return &ZedAIParser{env: env}
}

// Provider implements Parser.
func (p *ZedAIParser) Provider() model.Provider {
	return model.ProviderZedAI
}

// appDir resolves Zed's per-platform application-data directory.
func (p *ZedAIParser) appDir() string {
	switch p.env.GOOS {
	case "darwin":
		return filepath.Join(p.env.HomeDir, "Library", "Application Support", "Zed")
	case "linux":
		return filepath.Join(p.env.HomeDir, ".config", "zed")
	default:
		return filepath.Join(p.env.HomeDir, ".zed")
	}
}

// SessionPaths implements Parser.
func (p *ZedAIParser) SessionPaths() []string {
	zedDir := p.appDir()
	if !dirExists(zedDir) {
		return nil
	}

	var paths []string
	conversations := filepath.Join(zedDir, "conversations")
	paths = append(paths, globFiles(conversations, "*.json")...)
	paths = append(paths, globFiles(conversations, "*.md")...)
	paths = append(paths, FindFiles(filepath.Join(zedDir, "assistant"), "*.json", DefaultMaxDepth)...)
	paths = append(paths, globFiles(filepath.Join(zedDir, "prompts"), "*.json")...)
	return paths
}

// Parse implements Parser.
func (p *ZedAIParser) Parse(path string) ([]*model.Session, error) {
	if filepath.Ext(path) == ".md" {
		return p.parseMarkdown(path)
	}

	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(data)

	var messages []model.Message
	modelName := ""
	switch {
	case doc.IsArray():
		doc.ForEach(func(_, entry gjson.Result) bool {
			messages = zedMessages(messages, entry)
			return true
		})
	case doc.IsObject():
		modelName = doc.Get("model").String()
		if modelName == "" {
			modelName = doc.Get("provider").String()
		}
		messages = zedMessages(messages, doc)
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
		Model:       modelName,
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"zed", "ai-session", "coding"},
	}}, nil
}

// parseMarkdown handles Zed's "## User" / "## Assistant" transcripts.
func (p *ZedAIParser) parseMarkdown(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}

	var messages []model.Message
	for _, section := range zedHeadingMarker.Split(string(data), -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}
		header, body, _ := strings.Cut(section, "\n")
		header = strings.ToLower(strings.TrimSpace(header))
		body = strings.TrimSpace(body)

		switch {
		case strings.Contains(header, "user"):
			messages = appendMessage(messages, "user", body, nil)
		case strings.Contains(header, "assistant"), strings.Contains(header, "ai"):
			messages = appendMessage(messages, "assistant", body, nil)
		}
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
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"zed", "ai-session", "coding"},
	}}, nil
}

// zedMessages extracts turns from one JSON document.
func zedMessages(messages []model.Message, doc gjson.Result) []model.Message {
	raw, ok := firstArray(doc, zedMessageKeys)
	if !ok {
		return messages
	}
	raw.ForEach(func(_, msg gjson.Result) bool {
		if !msg.IsObject() {
			return true
		}
		content := msg.Get("content")
		if !content.Exists() {
			content = msg.Get("text")
		}
		if !content.Exists() {
			content = msg.Get("body")
		}
		messages = appendMessage(messages, msg.Get("role").String(), flattenParts(content), messageTime(msg))
		return true
	})
	return messages
}
