package testutil

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CursorBubble is one message bubble for a state.vscdb fixture.
// Kind 1 is a user turn, kind 2 an assistant turn.
type CursorBubble struct {
	ChatID    string
	BubbleID  string
	Text      string
	Kind      int
	Timestamp int64
}

// CursorComposer is one composer row for a state.vscdb fixture.
type CursorComposer struct {
	ID        string
	Name      string
	CreatedAt int64
}

// CreateCursorStateDB writes a Cursor state.vscdb fixture containing the
// given composers and bubbles in the cursorDiskKV layout.
func CreateCursorStateDB(t *testing.T, dbPath string, composers []CursorComposer, bubbles []CursorBubble) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cursorDiskKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`); err != nil {
		t.Fatalf("failed to create cursorDiskKV: %v", err)
	}

	insert := func(key string, value any) {
		data, err := json.Marshal(value)
		if err != nil {
			t.Fatalf("failed to marshal fixture value: %v", err)
		}
		if _, err := db.Exec(
			"INSERT INTO cursorDiskKV (key, value) VALUES (?, ?)", key, string(data)); err != nil {
			t.Fatalf("failed to insert fixture row: %v", err)
		}
	}

	for _, c := range composers {
		insert("composerData:"+c.ID, map[string]any{
			"composerId": c.ID,
			"name":       c.Name,
			"createdAt":  c.CreatedAt,
		})
	}
	for _, b := range bubbles {
		insert(fmt.Sprintf("bubbleId:%s:%s", b.ChatID, b.BubbleID), map[string]any{
			"bubbleId":  b.BubbleID,
			"text":      b.Text,
			"type":      b.Kind,
			"timestamp": b.Timestamp,
		})
	}
}
