package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

func TestNdjsonLines(t *testing.T) {
	lines := ndjsonLines([]byte("{\"a\":1}\n\n  \n{\"b\":2}\n"))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, lines)

	assert.Empty(t, ndjsonLines(nil))
}

func TestFirstArrayCandidateOrder(t *testing.T) {
	doc := gjson.Parse(`{"conversation":[{"role":"user"}],"messages":[{"role":"ai"}]}`)

	got, ok := firstArray(doc, []string{"messages", "conversation"})
	require.True(t, ok)
	assert.Equal(t, "ai", got.Array()[0].Get("role").String())
}

func TestFirstArraySkipsEmptyAndMissing(t *testing.T) {
	doc := gjson.Parse(`{"messages":[],"history":[{"role":"user"}]}`)

	got, ok := firstArray(doc, []string{"messages", "turns", "history"})
	require.True(t, ok)
	assert.Len(t, got.Array(), 1)

	_, ok = firstArray(doc, []string{"messages", "turns"})
	assert.False(t, ok)
}

func TestFlattenBlocksString(t *testing.T) {
	assert.Equal(t, "plain", flattenBlocks(gjson.Parse(`"plain"`)))
}

func TestFlattenBlocksTypedArray(t *testing.T) {
	content := gjson.Parse(`[
		{"type":"text","text":"let me search"},
		{"type":"tool_use","name":"grep","input":{"command":"grep -r TODO"}},
		{"type":"tool_result","content":"3 matches"}
	]`)

	out := flattenBlocks(content)
	assert.Contains(t, out, "let me search")
	assert.Contains(t, out, "**🔧 Tool: grep**")
	assert.Contains(t, out, "grep -r TODO")
	assert.Contains(t, out, "**📤 Result:**\n```\n3 matches\n```")
}

func TestFlattenBlocksDropsUnknownShapes(t *testing.T) {
	content := gjson.Parse(`[{"type":"thinking","thinking":"hmm"},{"type":"text","text":"kept"}]`)
	assert.Equal(t, "kept", flattenBlocks(content))

	assert.Equal(t, "", flattenBlocks(gjson.Parse(`{"not":"array"}`)))
}

func TestFlattenParts(t *testing.T) {
	content := gjson.Parse(`["plain",{"text":"typed"},{"content":"nested"},{"other":1}]`)
	assert.Equal(t, "plain\n\ntyped\n\nnested", flattenParts(content))

	assert.Equal(t, "bare", flattenParts(gjson.Parse(`"bare"`)))
}

func TestAppendMessage(t *testing.T) {
	msgs := appendMessage(nil, "human", "hello", nil)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)

	msgs = appendMessage(msgs, "robot", "dropped", nil)
	assert.Len(t, msgs, 1, "unknown role dropped")

	msgs = appendMessage(msgs, "assistant", "   \n ", nil)
	assert.Len(t, msgs, 1, "whitespace-only content dropped")
}

func TestMessageTime(t *testing.T) {
	ts := messageTime(gjson.Parse(`{"timestamp":"2025-03-14T09:26:00Z"}`))
	require.NotNil(t, ts)
	assert.Equal(t, 2025, ts.Year())

	assert.Nil(t, messageTime(gjson.Parse(`{"other":1}`)))
}
