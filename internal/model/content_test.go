package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBlocksText(t *testing.T) {
	out := RenderBlocks([]Block{
		{Kind: BlockText, Text: "first"},
		{Kind: BlockText, Text: "second"},
	})
	assert.Equal(t, "first\n\nsecond", out)
}

func TestRenderBlocksToolCall(t *testing.T) {
	out := RenderBlocks([]Block{
		{Kind: BlockToolCall, ToolName: "grep", ToolInput: "grep -r TODO"},
	})
	assert.Equal(t, "**🔧 Tool: grep**\n\n```\ngrep -r TODO\n```", out)
}

func TestRenderBlocksToolCallUnnamed(t *testing.T) {
	out := RenderBlocks([]Block{{Kind: BlockToolCall}})
	assert.Equal(t, "**🔧 Tool: tool**", out)
}

func TestRenderBlocksToolResult(t *testing.T) {
	out := RenderBlocks([]Block{
		{Kind: BlockToolResult, Result: "3 matches"},
	})
	assert.Equal(t, "**📤 Result:**\n```\n3 matches\n```", out)
}

func TestRenderBlocksTruncatesToolInput(t *testing.T) {
	long := strings.Repeat("x", MaxToolInputChars+50)
	out := RenderBlocks([]Block{
		{Kind: BlockToolCall, ToolName: "bash", ToolInput: long},
	})
	assert.Contains(t, out, strings.Repeat("x", MaxToolInputChars))
	assert.NotContains(t, out, strings.Repeat("x", MaxToolInputChars+1))
}

func TestRenderBlocksTruncatesToolResult(t *testing.T) {
	long := strings.Repeat("y", MaxToolResultChars+1)
	out := RenderBlocks([]Block{
		{Kind: BlockToolResult, Result: long},
	})
	assert.NotContains(t, out, long)
	assert.Contains(t, out, strings.Repeat("y", MaxToolResultChars))
}

func TestRenderBlocksSkipsEmpty(t *testing.T) {
	out := RenderBlocks([]Block{
		{Kind: BlockText, Text: ""},
		{Kind: BlockToolResult, Result: ""},
		{Kind: BlockText, Text: "kept"},
	})
	assert.Equal(t, "kept", out)
}
