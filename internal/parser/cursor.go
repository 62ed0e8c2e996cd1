package parser

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	_ "modernc.org/sqlite"

	"github.com/iksnae/aisync/internal/model"
)

// cursorMessageKeys is the candidate-key order for Cursor chat documents.
var cursorMessageKeys = []string{"messages", "conversation"}

// CursorParser reads Cursor IDE history from two sources under the Cursor
// globalStorage directory: per-project chat export documents
// (anysphere.cursor-chat/*/*.json) and the state.vscdb sqlite database,
// whose cursorDiskKV table holds composer metadata and message "bubbles"
// (type 1=user, 2=assistant).
//
// Role handling: JSON documents use standard synonym mapping with
// unrecognized roles dropped; bubble types other than 1 and 2 are dropped.
type CursorParser struct {
	env Environment
}

// NewCursorParser returns a parser rooted at env's home directory.
func NewCursorParser(env Environment) *CursorParser {
	return &CursorParser{env: env}
}

// Provider implements Parser.
func (p *CursorParser) Provider() model.Provider {
	return model.ProviderCursor
}

// SessionPaths implements Parser.
func (p *CursorParser) SessionPaths() []string {
	storage := p.env.CursorGlobalStorage()

	var paths []string
	for _, project := range subDirs(filepath.Join(storage, "anysphere.cursor-chat")) {
		paths = append(paths, globFiles(project, "*.json")...)
	}
	if db := filepath.Join(storage, "state.vscdb"); fileExists(db) {
		paths = append(paths, db)
	}
	return paths
}

// Parse implements Parser.
func (p *CursorParser) Parse(path string) ([]*model.Session, error) {
	if filepath.Ext(path) == ".vscdb" {
		return p.parseStateDB(path)
	}
	return p.parseDocument(path)
}

// parseDocument handles the exported chat JSON shape.
func (p *CursorParser) parseDocument(path string) ([]*model.Session, error) {
	data, err := readFileCapped(path)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, nil
	}

	raw, ok := firstArray(doc, cursorMessageKeys)
	if !ok {
		return nil, nil
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
	if len(messages) == 0 {
		return nil, nil
	}

	created, haveCreated := firstTime(doc, "createdAt", "created_at")
	createdAt, mtime := resolveCreatedAt(created, haveCreated, path)

	id := StemID(path)
	if native := doc.Get("id").String(); native != "" {
		id = ShortID(native, path)
	}

	return []*model.Session{{
		ID:          id,
		Provider:    p.Provider(),
		Messages:    messages,
		CreatedAt:   createdAt,
		Model:       doc.Get("model").String(),
		SourceFile:  path,
		SourceMtime: mtime,
		Tags:        []string{"cursor", "ai-session", "coding"},
	}}, nil
}

// parseStateDB extracts composer sessions from Cursor's sqlite store. One
// database yields zero or more sessions, one per composer with bubbles.
func (p *CursorParser) parseStateDB(path string) ([]*model.Session, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	defer db.Close()

	bubbles, err := queryDiskKV(db, "bubbleId:%")
	if err != nil {
		return nil, err
	}
	composers, err := queryDiskKV(db, "composerData:%")
	if err != nil {
		return nil, err
	}

	// Bubbles keyed bubbleId:<chatId>:<bubbleId>; group by chat.
	byChat := make(map[string][]cursorBubble)
	for _, kv := range bubbles {
		parts := strings.Split(strings.TrimPrefix(kv.key, "bubbleId:"), ":")
		if len(parts) != 2 {
			continue
		}
		entry := gjson.Parse(kv.value)
		if !entry.IsObject() {
			continue
		}
		byChat[parts[0]] = append(byChat[parts[0]], cursorBubble{
			text:      entry.Get("text").String(),
			kind:      int(entry.Get("type").Int()),
			timestamp: entry.Get("timestamp").Float(),
		})
	}

	_, mtime := fileMtime(path)
	var sessions []*model.Session
	for _, kv := range composers {
		composerID := strings.TrimPrefix(kv.key, "composerData:")
		entry := gjson.Parse(kv.value)
		if !entry.IsObject() {
			continue
		}

		chat := byChat[composerID]
		sort.SliceStable(chat, func(i, j int) bool { return chat[i].timestamp < chat[j].timestamp })

		var messages []model.Message
		for _, b := range chat {
			role := ""
			switch b.kind {
			case 1:
				role = "user"
			case 2:
				role = "assistant"
			}
			var ts *time.Time
			if t, ok := epochTime(b.timestamp); ok {
				ts = &t
			}
			messages = appendMessage(messages, role, b.text, ts)
		}
		if len(messages) == 0 {
			continue
		}

		created, haveCreated := firstTime(entry, "createdAt")
		createdAt, _ := resolveCreatedAt(created, haveCreated, path)
		var updatedAt *time.Time
		if t, ok := firstTime(entry, "lastUpdatedAt"); ok {
			updatedAt = &t
		}

		sessions = append(sessions, &model.Session{
			ID:          ShortID(composerID, path),
			Provider:    p.Provider(),
			Messages:    messages,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
			ProjectName: entry.Get("name").String(),
			SourceFile:  path,
			SourceMtime: mtime,
			Tags:        []string{"cursor", "ai-session", "coding"},
		})
	}

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions, nil
}

type cursorBubble struct {
	text      string
	kind      int
	timestamp float64
}

type diskKV struct {
	key   string
	value string
}

// queryDiskKV reads key/value rows from Cursor's cursorDiskKV table.
func queryDiskKV(db *sql.DB, pattern string) ([]diskKV, error) {
	rows, err := db.Query(
		"SELECT key, value FROM cursorDiskKV WHERE key LIKE ? AND value IS NOT NULL", pattern)
	if err != nil {
		return nil, fmt.Errorf("query cursorDiskKV: %w", err)
	}
	defer rows.Close()

	var pairs []diskKV
	for rows.Next() {
		var kv diskKV
		var value sql.NullString
		if err := rows.Scan(&kv.key, &value); err != nil {
			return nil, fmt.Errorf("scan cursorDiskKV: %w", err)
		}
		if value.Valid {
			kv.value = value.String
			pairs = append(pairs, kv)
		}
	}
	return pairs, rows.Err()
}
