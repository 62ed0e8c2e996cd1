package parser

import (
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// clineMessageKeys is the candidate-key order for Cline task documents.
var clineMessageKeys = []string{"messages", "conversation"}

// ClineParser reads Cline (Claude Dev) VS Code extension history: either a
// tasks.json container holding every historical task, or per-task
// conversation.json documents under saoudrizwan.claude-dev/tasks/.
//
// Role handling: standard synonym mapping (user/human, assistant/ai);
// unrecognized roles dropped. A tasks.json container yields one session per
// task entry, addressed by container path plus zero-based index.
type ClineParser struct {
	env Environment
}

// NewClineParser returns a parser rooted at env's home directory.
func NewClineParser(env Environment) *ClineParser {
	return &ClineParser{env: env}
}

// Provider implements Parser.
func (p *ClineParser) Provider() model.Provider {
	return model.ProviderCline
}

// SessionPaths implements Parser.
func (p *ClineParser) SessionPaths() []string {
	clineDir := filepath.Join(p.env.VSCodeGlobalStorage(), "saoudrizwan.claude-dev")
	if !dirExists(clineDir) {
		return nil
	}
	if tasks := filepath.Join(clineDir, "tasks", "tasks.json"); fileExists(tasks) {
		return []string{tasks}
	}
	var paths []string
	for _, task := range subDirs(filepath.Join(clineDir, "tasks")) {
		if conv := filepath.Join(task, "conversation.json"); fileExists(conv) {
			paths = append(paths, conv)
		}
	}
	return paths
}

// Parse implements Parser.
func (p *ClineParser) Parse(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(data)

	_, mtime := fileMtime(path)
	created, _ := fileMtime(path)

	// Container file: one session per task entry.
	if doc.IsArray() {
		var sessions []*model.Session
		index := 0
		doc.ForEach(func(_, task gjson.Result) bool {
			messages := clineMessages(task)
			if len(messages) > 0 {
				sessions = append(sessions, &model.Session{
					ID:          ContainerID(path, index),
					Provider:    p.Provider(),
					Messages:    messages,
					CreatedAt:   created,
					SourceFile:  path,
					SourceMtime: mtime,
					Tags:        []string{"cline", "claude-dev", "ai-session", "coding"},
				})
			}
			index++
			return true
		})
		return sessions, nil
	}

	if !doc.IsObject() {
		return nil, nil
	}
	messages := clineMessages(doc)
	if len(messages) == 0 {
		return nil, nil
	}

	id := StemID(path)
	if filepath.Base(path) == "conversation.json" {
		id = ShortID(filepath.Base(filepath.Dir(path)), path)
	}

	return []*model.Session{{
		ID:          id,
		Provider:    p.Provider(),
		Messages:    messages,
		CreatedAt:   created,
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"cline", "claude-dev", "ai-session", "coding"},
	}}, nil
}

// clineMessages extracts normalized turns from one task document.
func clineMessages(task gjson.Result) []model.Message {
	raw, ok := firstArray(task, clineMessageKeys)
	if !ok {
		return nil
	}
	var messages []model.Message
	raw.ForEach(func(_, msg gjson.Result) bool {
		if msg.IsObject() {
			content := msg.Get("content")
			if !content.Exists() {
				content = msg.Get("text")
			}
			messages = appendMessage(messages, msg.Get("role").String(), flattenParts(content), messageTime(msg))
		}
		return true
	})
	return messages
}
