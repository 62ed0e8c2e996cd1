package sync

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/aisync/internal/export"
	"github.com/iksnae/aisync/internal/model"
	"github.com/iksnae/aisync/internal/parser"
	"github.com/iksnae/aisync/testutil"
)

const claudeSessionLines = `{"type":"user","sessionId":"abc-123","timestamp":"2025-03-14T09:26:00Z","cwd":"/tmp/proj","message":{"role":"user","content":"fix the bug"}}
{"type":"assistant","timestamp":"2025-03-14T09:26:30Z","message":{"role":"assistant","content":[{"type":"text","text":"done"}]}}
`

func TestSyncerRun(t *testing.T) {
	home, env := testutil.Home(t)
	testutil.WriteFile(t, home, ".claude/projects/proj/session.jsonl", claudeSessionLines)

	outDir := t.TempDir()
	writer, err := export.NewWriter(outDir, []string{"json"}, nil, nil)
	require.NoError(t, err)
	defer writer.Close()

	syncer := New(parser.NewRegistry(env, nil), writer, nil)
	results, err := syncer.Run(context.Background(),
		[]model.Provider{model.ProviderClaudeCode, model.ProviderCodex}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	claude := results[0]
	assert.Equal(t, model.ProviderClaudeCode, claude.Provider)
	assert.Equal(t, 1, claude.Found)
	assert.Equal(t, 1, claude.Synced)
	assert.Zero(t, claude.Failed)

	codex := results[1]
	assert.Equal(t, model.ProviderCodex, codex.Provider)
	assert.Zero(t, codex.Found)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSyncerSecondRunSkips(t *testing.T) {
	home, env := testutil.Home(t)
	testutil.WriteFile(t, home, ".claude/projects/proj/session.jsonl", claudeSessionLines)

	writer, err := export.NewWriter(t.TempDir(), []string{"json"}, nil, nil)
	require.NoError(t, err)
	defer writer.Close()

	syncer := New(parser.NewRegistry(env, nil), writer, nil)
	providers := []model.Provider{model.ProviderClaudeCode}

	results, err := syncer.Run(context.Background(), providers, 1)
	require.NoError(t, err)
	require.Equal(t, 1, results[0].Synced)

	results, err = syncer.Run(context.Background(), providers, 1)
	require.NoError(t, err)
	assert.Zero(t, results[0].Synced)
	assert.Equal(t, 1, results[0].Skipped)
}

func TestSyncerCancellation(t *testing.T) {
	_, env := testutil.Home(t)
	writer, err := export.NewWriter(t.TempDir(), []string{"json"}, nil, nil)
	require.NoError(t, err)
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	syncer := New(parser.NewRegistry(env, nil), writer, nil)
	_, err = syncer.Run(ctx, model.AllProviders(), 4)
	assert.ErrorIs(t, err, context.Canceled)
}
