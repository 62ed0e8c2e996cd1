package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/aisync/internal/model"
	"github.com/iksnae/aisync/internal/parser"
	"github.com/iksnae/aisync/testutil"
)

func TestClaudeCodeParseSession(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteLines(t, home, ".claude/projects/proj/abc.jsonl",
		`{"type":"user","sessionId":"abc-123-def","timestamp":"2025-03-14T09:26:00Z","cwd":"/tmp/proj","message":{"role":"user","content":"fix the bug"}}`,
		`{"type":"assistant","timestamp":"2025-03-14T09:26:30Z","message":{"role":"assistant","content":[{"type":"text","text":"done"}]}}`,
	)

	p := parser.NewClaudeCodeParser(env)
	sessions, err := p.Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "abc-123-", s.ID, "native session id truncated")
	assert.Equal(t, model.ProviderClaudeCode, s.Provider)
	assert.Equal(t, "/tmp/proj", s.WorkingDir)
	assert.Equal(t, "2025-03-14T09:26:00Z", s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, path, s.SourceFile)
	assert.Contains(t, s.Tags, "claude-code")

	require.Len(t, s.Messages, 2)
	assert.Equal(t, model.RoleUser, s.Messages[0].Role)
	assert.Equal(t, "fix the bug", s.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, s.Messages[1].Role)
	assert.Equal(t, "done", s.Messages[1].Content)
}

func TestClaudeCodeToolUseRendering(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteLines(t, home, ".claude/projects/proj/tools.jsonl",
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"grep","input":{"command":"grep -r TODO"}}]}}`,
	)

	sessions, err := parser.NewClaudeCodeParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	content := sessions[0].Messages[0].Content
	assert.Contains(t, content, "**🔧 Tool: grep**")
	assert.Contains(t, content, "```\n")
	assert.Contains(t, content, "grep -r TODO")
}

func TestClaudeCodeDropsEnvironmentContext(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteLines(t, home, ".claude/projects/proj/ctx.jsonl",
		`{"type":"user","message":{"content":"<environment_context>stuff</environment_context>"}}`,
		`{"type":"user","message":{"content":"real question"}}`,
	)

	sessions, err := parser.NewClaudeCodeParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Messages, 1)
	assert.Equal(t, "real question", sessions[0].Messages[0].Content)
}

func TestClaudeCodeMetadataOnlyFileIsAbsent(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteLines(t, home, ".claude/projects/proj/meta.jsonl",
		`{"sessionId":"abc","timestamp":"2025-03-14T09:26:00Z","cwd":"/tmp/proj"}`,
	)

	sessions, err := parser.NewClaudeCodeParser(env).Parse(path)
	require.NoError(t, err)
	assert.Nil(t, sessions)
}

func TestClaudeCodeGarbageBytesAreAbsent(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home, ".claude/projects/proj/bad.jsonl",
		"\x00\x01 not json at all\n{{{{\n")

	sessions, err := parser.NewClaudeCodeParser(env).Parse(path)
	require.NoError(t, err)
	assert.Nil(t, sessions)
}

func TestClaudeCodeIdempotent(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteLines(t, home, ".claude/projects/proj/same.jsonl",
		`{"type":"user","sessionId":"stable-session-id","timestamp":"2025-03-14T09:26:00Z","message":{"content":"hello"}}`,
	)

	p := parser.NewClaudeCodeParser(env)
	first, err := p.Parse(path)
	require.NoError(t, err)
	second, err := p.Parse(path)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].Messages, second[0].Messages)
	assert.Equal(t, first[0].CreatedAt, second[0].CreatedAt)
}

func TestClaudeCodeSessionPaths(t *testing.T) {
	home, env := testutil.Home(t)
	p := parser.NewClaudeCodeParser(env)
	assert.Empty(t, p.SessionPaths(), "empty home discovers nothing")

	path := testutil.WriteLines(t, home, ".claude/projects/a/b/s.jsonl", `{}`)
	assert.Equal(t, []string{path}, p.SessionPaths())
}
