package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw  string
		want Role
	}{
		{"user", RoleUser},
		{"human", RoleUser},
		{"USER", RoleUser},
		{" Human ", RoleUser},
		{"assistant", RoleAssistant},
		{"ai", RoleAssistant},
		{"model", RoleAssistant},
		{"system", RoleSystem},
		{"tool", RoleTool},
		{"function", RoleTool},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.raw)
		assert.True(t, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	for _, raw := range []string{"", "robot", "observer"} {
		_, ok := ParseRole(raw)
		assert.False(t, ok, raw)
	}
}

func TestSessionSummary(t *testing.T) {
	s := &Session{Messages: []Message{
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "fix\nthe bug"},
	}}
	assert.Equal(t, "fix the bug...", s.Summary())
}

func TestSessionSummaryTruncates(t *testing.T) {
	s := &Session{Messages: []Message{
		{Role: RoleUser, Content: strings.Repeat("a", 150)},
	}}
	summary := s.Summary()
	assert.Len(t, summary, 103)
	assert.True(t, strings.HasSuffix(summary, "..."))
}

func TestSessionSummaryNoUserMessage(t *testing.T) {
	s := &Session{Messages: []Message{{Role: RoleAssistant, Content: "hi"}}}
	assert.Equal(t, "Session", s.Summary())
}

func TestSessionCounts(t *testing.T) {
	s := &Session{Messages: []Message{
		{Role: RoleUser, Content: "a"},
		{Role: RoleAssistant, Content: "b"},
		{Role: RoleAssistant, Content: "c"},
		{Role: RoleSystem, Content: "d"},
	}}
	user, assistant := s.Counts()
	assert.Equal(t, 1, user)
	assert.Equal(t, 2, assistant)
}

func TestParseProvider(t *testing.T) {
	p, ok := ParseProvider("claude-code")
	assert.True(t, ok)
	assert.Equal(t, ProviderClaudeCode, p)

	_, ok = ParseProvider("notepad")
	assert.False(t, ok)

	assert.Len(t, AllProviders(), 14)
}
