package parser_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/aisync/internal/model"
	"github.com/iksnae/aisync/internal/parser"
	"github.com/iksnae/aisync/testutil"
)

func TestCursorParseChatDocument(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home,
		".config/Cursor/User/globalStorage/anysphere.cursor-chat/proj/chat.json",
		`{"id":"chat-abc-123","createdAt":1741944360000,"model":"gpt-4",
		  "messages":[
		    {"role":"user","content":"fix the bug"},
		    {"role":"assistant","content":"done"}
		  ]}`)

	p := parser.NewCursorParser(env)
	assert.Equal(t, []string{path}, p.SessionPaths())

	sessions, err := p.Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "chat-abc", s.ID)
	assert.Equal(t, model.ProviderCursor, s.Provider)
	assert.Equal(t, "gpt-4", s.Model)
	assert.Equal(t, int64(1741944360), s.CreatedAt.Unix())
	require.Len(t, s.Messages, 2)
	assert.Equal(t, "fix the bug", s.Messages[0].Content)
}

func TestCursorParseStateDB(t *testing.T) {
	home, env := testutil.Home(t)
	dbPath := filepath.Join(home, ".config/Cursor/User/globalStorage/state.vscdb")
	testutil.CreateCursorStateDB(t, dbPath,
		[]testutil.CursorComposer{{ID: "composer-1", Name: "Refactor", CreatedAt: 1741944360000}},
		[]testutil.CursorBubble{
			{ChatID: "composer-1", BubbleID: "b2", Text: "sure, refactoring", Kind: 2, Timestamp: 1741944370000},
			{ChatID: "composer-1", BubbleID: "b1", Text: "refactor this", Kind: 1, Timestamp: 1741944360000},
			{ChatID: "composer-1", BubbleID: "b3", Text: "ignored", Kind: 7, Timestamp: 1741944380000},
		})

	p := parser.NewCursorParser(env)
	require.Contains(t, p.SessionPaths(), dbPath)

	sessions, err := p.Parse(dbPath)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "composer", s.ID)
	assert.Equal(t, "Refactor", s.ProjectName)
	require.Len(t, s.Messages, 2, "unknown bubble types dropped")
	assert.Equal(t, model.RoleUser, s.Messages[0].Role)
	assert.Equal(t, "refactor this", s.Messages[0].Content, "bubbles ordered by timestamp")
	assert.Equal(t, model.RoleAssistant, s.Messages[1].Role)
}

func TestCursorEmptyComposerIsAbsent(t *testing.T) {
	home, env := testutil.Home(t)
	dbPath := filepath.Join(home, ".config/Cursor/User/globalStorage/state.vscdb")
	testutil.CreateCursorStateDB(t, dbPath,
		[]testutil.CursorComposer{{ID: "lonely", Name: "Empty"}}, nil)

	sessions, err := parser.NewCursorParser(env).Parse(dbPath)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestCursorGarbageDocumentIsAbsent(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home,
		".config/Cursor/User/globalStorage/anysphere.cursor-chat/proj/bad.json",
		"not json")

	sessions, err := parser.NewCursorParser(env).Parse(path)
	require.NoError(t, err)
	assert.Nil(t, sessions)
}
