package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/aisync/internal/model"
	"github.com/iksnae/aisync/internal/parser"
	"github.com/iksnae/aisync/testutil"
)

func TestRegistryCoversEveryProvider(t *testing.T) {
	_, env := testutil.Home(t)
	registry := parser.NewRegistry(env, nil)

	all := registry.All()
	require.Len(t, all, len(model.AllProviders()))
	for _, p := range model.AllProviders() {
		got, ok := registry.Get(p)
		require.True(t, ok, p)
		assert.Equal(t, p, got.Provider())
	}

	// All() is sorted by provider tag.
	for i := 1; i < len(all); i++ {
		assert.Less(t, string(all[i-1].Provider()), string(all[i].Provider()))
	}
}

func TestRegistryEmptyHomeYieldsNothing(t *testing.T) {
	_, env := testutil.Home(t)
	registry := parser.NewRegistry(env, nil)

	for _, p := range model.AllProviders() {
		assert.Empty(t, registry.SessionPaths(p), p)
		count := 0
		for range registry.ParseAll(context.Background(), p) {
			count++
		}
		assert.Zero(t, count, p)
	}
}

func TestRegistryParseAllSkipsBrokenLocations(t *testing.T) {
	home, env := testutil.Home(t)
	testutil.WriteFile(t, home, ".claude/projects/p/broken.jsonl", "\x00garbage")
	testutil.WriteLines(t, home, ".claude/projects/p/good.jsonl",
		`{"type":"user","message":{"content":"still works"}}`,
	)

	registry := parser.NewRegistry(env, nil)
	var sessions []*model.Session
	for s := range registry.ParseAll(context.Background(), model.ProviderClaudeCode) {
		sessions = append(sessions, s)
	}

	require.Len(t, sessions, 1)
	assert.Equal(t, "still works", sessions[0].Messages[0].Content)
}

func TestRegistryParseAllUnknownProvider(t *testing.T) {
	_, env := testutil.Home(t)
	registry := parser.NewRegistry(env, nil)

	count := 0
	for range registry.ParseAll(context.Background(), model.Provider("notepad")) {
		count++
	}
	assert.Zero(t, count)
	assert.Nil(t, registry.SessionPaths(model.Provider("notepad")))
}

func TestRegistryParseAllHonorsCancellation(t *testing.T) {
	home, env := testutil.Home(t)
	testutil.WriteLines(t, home, ".claude/projects/p/s.jsonl",
		`{"type":"user","message":{"content":"hello"}}`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	registry := parser.NewRegistry(env, nil)
	count := 0
	for range registry.ParseAll(ctx, model.ProviderClaudeCode) {
		count++
	}
	assert.Zero(t, count)
}
