package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/iksnae/aisync/internal/model"
)

// aiderTurnMarker splits an aider transcript into speaker turns: every
// "#### " heading opens a user prompt, the body below it is the reply.
var aiderTurnMarker = regexp.MustCompile(`(?m)^####\s+`)

// AiderParser reads aider's free-form markdown transcripts:
// .aider.chat.history.md in the home directory, ~/.config/aider/*.md, and
// per-project history files under common development directories.
//
// Role handling: this adapter is the documented exception that defaults to
// USER — a heading line is always the human's prompt in aider transcripts,
// whether or not it starts with a slash command.
type AiderParser struct {
	env Environment
}

// NewAiderParser returns a parser rooted at env's home directory.
func NewAiderParser(env Environment) *AiderParser {
	return &AiderParser{env: env}
}

// Provider implements Parser.
func (p *AiderParser) Provider() model.Provider {
	return model.ProviderAider
}

// SessionPaths implements Parser.
func (p *AiderParser) SessionPaths() []string {
	var paths []string

	if home := filepath.Join(p.env.HomeDir, ".aider.chat.history.md"); fileExists(home) {
		paths = append(paths, home)
	}
	paths = append(paths, globFiles(filepath.Join(p.env.HomeDir, ".config", "aider"), "*.md")...)

	for _, dev := range []string{"Projects", "Development", "code", "repos"} {
		root := filepath.Join(p.env.HomeDir, dev)
		paths = append(paths, FindFiles(root, ".aider.chat.history.md", DefaultMaxDepth)...)
	}
	return dedupePaths(paths)
}

// Parse implements Parser.
func (p *AiderParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	var messages []model.Message
	for _, section := range aiderTurnMarker.Split(content, -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}
		header, body, _ := strings.Cut(section, "\n")
		messages = appendMessage(messages, "user", strings.TrimSpace(header), nil)
		messages = appendMessage(messages, "assistant", strings.TrimSpace(body), nil)
	}
	if len(messages) == 0 {
		return nil, nil
	}

	parent := filepath.Dir(path)
	id := StemID(path)
	if name := filepath.Base(parent); parent != p.env.HomeDir && name != "" {
		id = ShortID(name, path)
	}

	created, mtime := fileMtime(path)
	return []*model.Session{{
		ID:          id,
		Provider:    p.Provider(),
		Messages:    messages,
		CreatedAt:   created,
		WorkingDir:  parent,
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"aider", "ai-session", "coding"},
	}}, nil
}
