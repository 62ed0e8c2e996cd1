package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/aisync/internal/model"
)

// MarkdownExporter exports sessions as Obsidian-ready markdown notes with
// YAML front matter.
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *model.Session, w io.Writer) error {
	date := session.CreatedAt.Format("2006-01-02")
	clock := session.CreatedAt.Format("15:04")

	// Front matter
	_, _ = fmt.Fprintf(w, "---\n")
	_, _ = fmt.Fprintf(w, "type: %s-session\n", session.Provider)
	_, _ = fmt.Fprintf(w, "date: %s\n", date)
	_, _ = fmt.Fprintf(w, "time: %q\n", clock)
	_, _ = fmt.Fprintf(w, "session_id: %q\n", session.ID)
	if session.WorkingDir != "" {
		_, _ = fmt.Fprintf(w, "working_dir: %q\n", session.WorkingDir)
	}
	if session.Model != "" {
		_, _ = fmt.Fprintf(w, "model: %q\n", session.Model)
	}
	if len(session.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "tags:\n")
		for _, tag := range session.Tags {
			_, _ = fmt.Fprintf(w, "  - %s\n", tag)
		}
	}
	_, _ = fmt.Fprintf(w, "---\n")

	// Header with a property table
	_, _ = fmt.Fprintf(w, "# 🤖 %s Session — %s %s\n\n",
		providerTitle(session.Provider), date, strings.ReplaceAll(clock, ":", ""))
	_, _ = fmt.Fprintf(w, "| Property | Value |\n")
	_, _ = fmt.Fprintf(w, "|----------|-------|\n")
	_, _ = fmt.Fprintf(w, "| **Date** | %s %s |\n", date, clock)
	_, _ = fmt.Fprintf(w, "| **Session ID** | `%s` |\n", session.ID)
	if session.WorkingDir != "" {
		_, _ = fmt.Fprintf(w, "| **Working Dir** | `%s` |\n", session.WorkingDir)
	}
	if session.Model != "" {
		_, _ = fmt.Fprintf(w, "| **Model** | %s |\n", session.Model)
	}
	_, _ = fmt.Fprintf(w, "\n---\n")

	for _, msg := range session.Messages {
		_, _ = fmt.Fprintf(w, "\n## %s\n\n%s\n\n---\n", roleHeading(msg.Role), msg.Content)
	}

	_, _ = fmt.Fprintf(w, "\n---\n*Session exported from %s — secrets redacted*\n",
		providerTitle(session.Provider))
	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

func roleHeading(role model.Role) string {
	switch role {
	case model.RoleUser:
		return "👤 User"
	case model.RoleAssistant:
		return "🤖 Assistant"
	case model.RoleSystem:
		return "⚙️ System"
	case model.RoleTool:
		return "🔧 Tool"
	default:
		return string(role)
	}
}

func providerTitle(p model.Provider) string {
	words := strings.Split(string(p), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
