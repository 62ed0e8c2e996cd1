package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iksnae/aisync/internal/redact"
)

var redactQuiet bool

var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Redact secrets from a file or stdin",
	Long: `Run the secret-redaction rules over arbitrary text. Reads the given
file, or stdin when no file is named, and writes redacted text to stdout.
A per-category summary of what was removed goes to stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
		}

		redactor := redact.Default(log)
		out, report := redactor.Redact(string(data))

		if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
			return err
		}

		if redactQuiet {
			return nil
		}
		if report.Total == 0 {
			fmt.Fprintln(os.Stderr, "no secrets found")
			return nil
		}
		fmt.Fprintf(os.Stderr, "redacted %d secret(s):\n", report.Total)
		categories := make([]string, 0, len(report.ByCategory))
		for c := range report.ByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Fprintf(os.Stderr, "  %-14s %d\n", c, report.ByCategory[c])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redactCmd)
	redactCmd.Flags().BoolVarP(&redactQuiet, "quiet", "q", false, "Suppress the redaction summary")
}
