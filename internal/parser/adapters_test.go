package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/aisync/internal/model"
	"github.com/iksnae/aisync/internal/parser"
	"github.com/iksnae/aisync/testutil"
)

func TestCodexParseLines(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteLines(t, home, ".codex/sessions/rollout.jsonl",
		`{"role":"user","content":"write a test","timestamp":1741944360,"model":"o3"}`,
		`{"role":"assistant","content":"here you go"}`,
		`{"record_type":"state"}`,
	)

	sessions, err := parser.NewCodexParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, model.ProviderCodex, s.Provider)
	assert.Equal(t, "o3", s.Model)
	require.Len(t, s.Messages, 2, "non-message lines dropped")
	assert.Equal(t, int64(1741944360), s.CreatedAt.Unix())
}

func TestContinueHistoryContainer(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home,
		".config/Code/User/globalStorage/continue.continue/history.json",
		`[
		  {"history":[{"role":"user","content":"one"},{"role":"assistant","content":"ok"}]},
		  {"history":[{"role":"user","content":"two"}]}
		]`)

	sessions, err := parser.NewContinueParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.NotEqual(t, sessions[0].ID, sessions[1].ID)
	assert.Equal(t, "one", sessions[0].Messages[0].Content)
	assert.Equal(t, "two", sessions[1].Messages[0].Content)
}

func TestCopilotRequestResponsePairs(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home,
		".config/Code/User/globalStorage/github.copilot-chat/conversations/c.json",
		`{"turns":[{"request":"explain goroutines","response":{"message":"lightweight threads"}}]}`)

	sessions, err := parser.NewCopilotParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "copilot", s.Model)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, model.RoleUser, s.Messages[0].Role)
	assert.Equal(t, "explain goroutines", s.Messages[0].Content)
	assert.Equal(t, "lightweight threads", s.Messages[1].Content)
}

func TestRooCodePerTaskDocument(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home,
		".config/Code/User/globalStorage/rooveterinaryinc.roo-cline/tasks/task-99/messages.json",
		`{"messages":[{"role":"user","text":"do the thing"}]}`)

	p := parser.NewRooCodeParser(env)
	require.Equal(t, []string{path}, p.SessionPaths())

	sessions, err := p.Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "task-99", sessions[0].ID)
}

func TestWindsurfTypeFallbackRole(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home,
		".config/Windsurf/User/globalStorage/codeium.codeium/conversations/c.json",
		`{"turns":[{"type":"user","message":"hi windsurf"},{"type":"assistant","message":"hello"}]}`)

	sessions, err := parser.NewWindsurfParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Messages, 2)
	assert.Equal(t, model.RoleUser, sessions[0].Messages[0].Role)
	assert.Equal(t, "hi windsurf", sessions[0].Messages[0].Content)
}

func TestAmpCodyInteractionPairs(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home, ".amp/conversations/c.json",
		`{"interactions":[
		   {"humanMessage":{"text":"rename this"},"assistantMessage":{"text":"renamed"}}
		 ]}`)

	sessions, err := parser.NewAmpParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Messages, 2)
	assert.Equal(t, "rename this", sessions[0].Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, sessions[0].Messages[1].Role)
}

func TestAmpSpeakerFallbackRole(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home, ".amp/sessions/s.json",
		`{"messages":[{"speaker":"human","text":"hello amp"}]}`)

	sessions, err := parser.NewAmpParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, model.RoleUser, sessions[0].Messages[0].Role)
}

func TestOpenCodeToolTurnsKeepToolName(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home,
		".local/share/opencode/project/myrepo/storage/session.json",
		`{"messages":[
		   {"role":"user","content":"run the linter"},
		   {"role":"tool","name":"lint","content":"0 issues"}
		 ]}`)

	sessions, err := parser.NewOpenCodeParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	s := sessions[0]
	assert.Equal(t, "myrepo", s.ProjectName)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, model.RoleTool, s.Messages[1].Role)
	assert.Equal(t, "lint", s.Messages[1].ToolName)
}

func TestOpenRouterContainerAndImages(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home, "Downloads/openrouter-export.json",
		`[
		  {"id":"conv-aaaa-bbbb","model":"anthropic/claude-3-sonnet","messages":[
		     {"role":"user","content":[{"type":"text","text":"what is this"},{"type":"image_url","image_url":{"url":"x"}}]},
		     {"role":"assistant","content":"a diagram"}
		  ]},
		  {"messages":[{"role":"user","content":"second conversation"}]}
		]`)

	p := parser.NewOpenRouterParser(env)
	require.Equal(t, []string{path}, p.SessionPaths())

	sessions, err := p.Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	first := sessions[0]
	assert.Equal(t, "conv-aaa", first.ID, "native id truncated")
	assert.Equal(t, "anthropic/claude-3-sonnet", first.Model)
	assert.Equal(t, "what is this\n\n[Image]", first.Messages[0].Content)

	assert.Contains(t, sessions[1].ID, "-01", "container index id")
}

func TestOpenRouterModelFromFilename(t *testing.T) {
	home, env := testutil.Home(t)
	path := testutil.WriteFile(t, home, "Downloads/chat-claude-3-opus.json",
		`{"messages":[{"role":"user","content":"hi"}]}`)

	sessions, err := parser.NewOpenRouterParser(env).Parse(path)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "claude-3-opus", sessions[0].Model)
}
