package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/iksnae/aisync/internal/model"
)

// Byte caps bounding the cost of adversarial or corrupted inputs.
const (
	maxFileBytes = 64 << 20 // per session file
	maxLineBytes = 10 << 20 // per NDJSON line
)

// readFileCapped reads at most maxFileBytes from path.
func readFileCapped(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ndjsonLines splits raw content into non-empty NDJSON lines, dropping any
// single line that exceeds the per-line cap.
func ndjsonLines(data []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > maxLineBytes {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// firstArray probes the document for a message array under the given
// candidate keys, in order. First match wins; the candidate order is a
// per-adapter contract declared next to each adapter.
func firstArray(doc gjson.Result, keys []string) (gjson.Result, bool) {
	for _, key := range keys {
		v := doc.Get(key)
		if v.IsArray() && len(v.Array()) > 0 {
			return v, true
		}
	}
	return gjson.Result{}, false
}

// classifyBlock maps one raw content item onto the block union. Unknown
// object shapes are dropped (ok=false).
func classifyBlock(item gjson.Result) (model.Block, bool) {
	if item.Type == gjson.String {
		return model.Block{Kind: model.BlockText, Text: item.String()}, true
	}
	if !item.IsObject() {
		return model.Block{}, false
	}
	switch item.Get("type").String() {
	case "text":
		if text := item.Get("text").String(); text != "" {
			return model.Block{Kind: model.BlockText, Text: text}, true
		}
	case "tool_use":
		b := model.Block{Kind: model.BlockToolCall, ToolName: item.Get("name").String()}
		if input := item.Get("input"); input.Exists() {
			b.ToolInput = prettyValue(input)
		}
		return b, true
	case "tool_result":
		if content := item.Get("content"); content.Exists() {
			return model.Block{Kind: model.BlockToolResult, Result: rawValue(content)}, true
		}
	}
	return model.Block{}, false
}

// flattenBlocks renders a typed content value (claude-style: a bare string
// or an array of typed blocks) into one text blob.
func flattenBlocks(content gjson.Result) string {
	if content.Type == gjson.String {
		return content.String()
	}
	if !content.IsArray() {
		return ""
	}
	var blocks []model.Block
	content.ForEach(func(_, item gjson.Result) bool {
		if b, ok := classifyBlock(item); ok {
			blocks = append(blocks, b)
		}
		return true
	})
	return model.RenderBlocks(blocks)
}

// flattenParts renders a lenient content value: a bare string, or an array
// whose items are strings, {text: ...} objects, or {content: ...} objects.
// Items with no recognizable text are dropped.
func flattenParts(content gjson.Result) string {
	if content.Type == gjson.String {
		return content.String()
	}
	if !content.IsArray() {
		return ""
	}
	var parts []string
	content.ForEach(func(_, item gjson.Result) bool {
		switch {
		case item.Type == gjson.String:
			parts = append(parts, item.String())
		case item.IsObject():
			if text := item.Get("text").String(); text != "" {
				parts = append(parts, text)
			} else if text := item.Get("content").String(); text != "" {
				parts = append(parts, text)
			}
		}
		return true
	})
	return strings.Join(parts, "\n\n")
}

// prettyValue pretty-prints an object or array value; scalars pass through.
func prettyValue(v gjson.Result) string {
	if v.IsObject() || v.IsArray() {
		if out, err := json.MarshalIndent(v.Value(), "", "  "); err == nil {
			return string(out)
		}
	}
	return v.String()
}

// rawValue renders any value as text: strings verbatim, everything else as
// its JSON form.
func rawValue(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}

// appendMessage normalizes one turn onto msgs. Unrecognized roles and
// whitespace-only content are dropped.
func appendMessage(msgs []model.Message, rawRole, content string, ts *time.Time) []model.Message {
	role, ok := model.ParseRole(rawRole)
	if !ok {
		return msgs
	}
	if strings.TrimSpace(content) == "" {
		return msgs
	}
	return append(msgs, model.Message{Role: role, Content: content, Timestamp: ts})
}

// messageTime reads a per-message timestamp from the common candidate keys.
func messageTime(entry gjson.Result) *time.Time {
	if t, ok := firstTime(entry, "timestamp", "created_at", "createdAt"); ok {
		return &t
	}
	return nil
}
