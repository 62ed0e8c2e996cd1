package model

import "fmt"

// Truncation limits applied when rendering structured content to text.
const (
	MaxToolInputChars  = 500
	MaxToolResultChars = 1000
)

// BlockKind tags the variant of a content block. The same conceptual
// message varies in shape across schema versions of one tool; blocks are
// classified into these variants before rendering rather than type-probed
// at render time.
type BlockKind int

const (
	// BlockText is plain text, either a bare string or a typed text block.
	BlockText BlockKind = iota
	// BlockToolCall is a tool invocation carrying a name and argument dump.
	BlockToolCall
	// BlockToolResult is the output returned by a prior tool invocation.
	BlockToolResult
)

// Block is one classified content block within a structured message.
type Block struct {
	Kind BlockKind

	// Text holds the content for BlockText.
	Text string

	// ToolName and ToolInput hold the invocation for BlockToolCall.
	// ToolInput is already pretty-printed by the classifier.
	ToolName  string
	ToolInput string

	// Result holds the dump for BlockToolResult.
	Result string
}

// RenderBlocks flattens classified blocks into one text blob: blank-line
// separated, in source order. Tool invocations render as an annotation line
// naming the tool followed by a fenced, truncated argument dump; tool
// results render as a fenced, truncated result dump.
func RenderBlocks(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		switch b.Kind {
		case BlockText:
			if b.Text != "" {
				parts = append(parts, b.Text)
			}
		case BlockToolCall:
			name := b.ToolName
			if name == "" {
				name = "tool"
			}
			parts = append(parts, fmt.Sprintf("**🔧 Tool: %s**", name))
			if b.ToolInput != "" {
				parts = append(parts, fence(truncate(b.ToolInput, MaxToolInputChars)))
			}
		case BlockToolResult:
			if b.Result != "" {
				parts = append(parts, "**📤 Result:**\n"+fence(truncate(b.Result, MaxToolResultChars)))
			}
		}
	}
	return joinBlankLine(parts)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func fence(s string) string {
	return "```\n" + s + "\n```"
}

func joinBlankLine(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}
