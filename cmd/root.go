// Package cmd wires the CLI commands.
package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnakai/typedrill/internal/config"
	"github.com/rnakai/typedrill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "typedrill",
	Short: "Terminal typing practice for code snippets",
	Long:  "Typedrill — timed typing practice against code snippets fetched from a study backend, scored and ranked locally.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPractice(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TYPEDRILL_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file")

	rootCmd.Flags().String("pool", "", "Problem pool: system, user or mixed")
	rootCmd.Flags().StringSlice("lang", nil, "Languages to practice (repeatable)")
	rootCmd.Flags().String("rule", "", "Ordering rule: random, newest-first, oldest-first, weak-priority or strong-priority")
	rootCmd.Flags().Int("minutes", 0, "Session time limit in minutes")
	rootCmd.Flags().Int("count", 0, "Number of problems per session")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then TYPEDRILL_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadFileConfig reads the TOML config from --config or the default path.
func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

// newLogger builds the process logger. The TUI owns the terminal, so
// interactive runs log to TYPEDRILL_LOG when set and are silent
// otherwise; non-interactive commands log to stderr.
func newLogger(interactive bool) *slog.Logger {
	var w io.Writer = os.Stderr
	if interactive {
		w = io.Discard
		if path := os.Getenv("TYPEDRILL_LOG"); path != "" {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				w = f
			}
		}
	}
	level := slog.LevelInfo
	if os.Getenv("TYPEDRILL_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
