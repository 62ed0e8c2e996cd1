package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/aisync/internal/parser"
)

var listProviders []string

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	providerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show what each provider has on disk",
	Long: `List every provider's discovered session locations and how many
sessions they contain, without exporting anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(listProviders) > 0 {
			cfg.Providers = listProviders
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		registry := parser.NewRegistry(environment(), log)

		fmt.Println(headerStyle.Render("📋 Discovered sessions"))
		fmt.Println()

		w := newTable()
		_, _ = fmt.Fprintln(w, titleStyle.Render("Provider")+"\t"+
			titleStyle.Render("Locations")+"\t"+
			titleStyle.Render("Sessions")+"\t")

		var totalPaths, totalSessions int
		for _, p := range registry.All() {
			if !cfg.WantsProvider(p.Provider()) {
				continue
			}
			paths := p.SessionPaths()
			sessions := 0
			for range registry.ParseAll(cmd.Context(), p.Provider()) {
				sessions++
			}
			if len(paths) == 0 && sessions == 0 {
				continue
			}
			totalPaths += len(paths)
			totalSessions += sessions

			_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t\n",
				providerStyle.Render(string(p.Provider())),
				len(paths),
				countStyle.Render(strconv.Itoa(sessions)))
		}
		_ = w.Flush()

		fmt.Println()
		if totalSessions == 0 {
			fmt.Println(dateStyle.Render("No sessions found."))
			return nil
		}
		fmt.Printf("%s %d session(s) across %d location(s)\n",
			headerStyle.Render("Σ"), totalSessions, totalPaths)
		fmt.Println(dateStyle.Render("💡 Tip: run `aisync sync` to export them"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringSliceVar(&listProviders, "provider", nil, "Only list the named providers (repeatable)")
}
