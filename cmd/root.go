package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iksnae/aisync/internal/config"
	"github.com/iksnae/aisync/internal/logging"
	"github.com/iksnae/aisync/internal/parser"
)

var (
	verbose    bool
	configPath string
	homeDir    string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"

	log *zap.Logger
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aisync",
	Short: "Collect and export AI coding sessions from every tool you use",
	Long: `aisync finds the session history that AI coding tools leave on disk,
normalizes it into one conversation format, and exports it.

Supported tools include Claude Code, Codex CLI, Cursor, Aider, Cline,
Gemini CLI, Continue, GitHub Copilot Chat, Roo Code, Windsurf, Zed AI,
Amp, opencode, and OpenRouter exports.

Features:
  • Discovers session files in each tool's storage locations
  • Normalizes every format into one session model
  • Redacts API keys, tokens, and credentials before writing
  • Exports as Markdown (Obsidian-ready), JSON, JSONL, YAML, or SQLite

Quick Start:
  aisync list                       # Show what each tool has on disk
  aisync sync                       # Export everything to ~/ai-sessions
  aisync sync --provider cursor     # Export one tool's sessions

For detailed usage, see: https://github.com/iksnae/aisync`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logging.New(verbose)
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.aisync.yaml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Override the home directory used for session discovery")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// environment resolves the discovery environment, honoring --home.
func environment() parser.Environment {
	env := parser.DefaultEnvironment()
	if homeDir != "" {
		env.HomeDir = homeDir
	}
	return env
}
