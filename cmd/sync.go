package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/aisync/internal/export"
	"github.com/iksnae/aisync/internal/model"
	"github.com/iksnae/aisync/internal/parser"
	"github.com/iksnae/aisync/internal/redact"
	internalsync "github.com/iksnae/aisync/internal/sync"
)

var (
	syncProviders []string
	syncFormats   []string
	syncOutDir    string
	syncNoRedact  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export sessions from every provider to the output directory",
	Long: `Sweep each provider's session locations, normalize what is found,
redact secrets, and write the results in the configured formats.

Already-exported sessions whose source files have not changed are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(syncProviders) > 0 {
			cfg.Providers = syncProviders
		}
		if len(syncFormats) > 0 {
			cfg.Formats = syncFormats
		}
		if syncOutDir != "" {
			cfg.OutputDir = syncOutDir
		}
		if syncNoRedact {
			cfg.Redact = false
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		var redactor *redact.Redactor
		if cfg.Redact {
			redactor = redact.Default(log)
		}
		writer, err := export.NewWriter(cfg.OutputDir, cfg.Formats, redactor, log)
		if err != nil {
			return err
		}
		defer func() { _ = writer.Close() }()

		var providers []model.Provider
		for _, p := range model.AllProviders() {
			if cfg.WantsProvider(p) {
				providers = append(providers, p)
			}
		}

		registry := parser.NewRegistry(environment(), log)
		syncer := internalsync.New(registry, writer, log)
		results, err := syncer.Run(cmd.Context(), providers, cfg.Concurrency)
		if err != nil {
			return err
		}

		displaySyncResults(results)
		return nil
	},
}

func displaySyncResults(results []internalsync.Result) {
	var totalFound, totalSynced, totalSkipped, totalFailed int

	fmt.Println(headerStyle.Render("🔄 Sync complete"))
	fmt.Println()

	w := newTable()
	_, _ = fmt.Fprintln(w, titleStyle.Render("Provider")+"\t"+
		titleStyle.Render("Found")+"\t"+
		titleStyle.Render("Synced")+"\t"+
		titleStyle.Render("Skipped")+"\t"+
		titleStyle.Render("Failed")+"\t")

	for _, r := range results {
		if r.Found == 0 {
			continue
		}
		totalFound += r.Found
		totalSynced += r.Synced
		totalSkipped += r.Skipped
		totalFailed += r.Failed

		failed := strconv.Itoa(r.Failed)
		if r.Failed > 0 {
			failed = errorStyle.Render(failed)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t\n",
			providerStyle.Render(string(r.Provider)),
			r.Found,
			countStyle.Render(strconv.Itoa(r.Synced)),
			dateStyle.Render(strconv.Itoa(r.Skipped)),
			failed)
	}
	_ = w.Flush()

	fmt.Println()
	fmt.Printf("%s %d found, %d synced, %d skipped, %d failed → %s\n",
		headerStyle.Render("Σ"),
		totalFound, totalSynced, totalSkipped, totalFailed,
		lipgloss.NewStyle().Bold(true).Render(cfg.OutputDir))

	for _, r := range results {
		for _, msg := range r.Errors {
			fmt.Println(errorStyle.Render("  ✗ " + string(r.Provider) + ": " + msg))
		}
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringSliceVar(&syncProviders, "provider", nil, "Only sync the named providers (repeatable)")
	syncCmd.Flags().StringSliceVar(&syncFormats, "format", nil, "Export formats: markdown, json, jsonl, yaml, sqlite (repeatable)")
	syncCmd.Flags().StringVar(&syncOutDir, "out", "", "Output directory (default from config)")
	syncCmd.Flags().BoolVar(&syncNoRedact, "no-redact", false, "Disable secret redaction (not recommended)")
}
