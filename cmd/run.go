package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnakai/typedrill/internal/backend"
	"github.com/rnakai/typedrill/internal/config"
	"github.com/rnakai/typedrill/internal/problem"
	"github.com/rnakai/typedrill/internal/resultsync"
	"github.com/rnakai/typedrill/internal/session"
	"github.com/rnakai/typedrill/internal/store"
	"github.com/rnakai/typedrill/internal/tui"
)

// runPractice opens the store, builds the session, and launches the TUI.
func runPractice(cmd *cobra.Command) error {
	logger := newLogger(true)

	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = st.Close() }()

	backendCfg := resolveBackendConfig(fileCfg)
	client := backend.NewHTTPClient(backendCfg.BaseURL, backendCfg.Timeout)

	sessCfg := sessionConfig(cmd, fileCfg)
	// When nothing picked a language, repeat the last practiced one.
	if !cmd.Flags().Changed("lang") && len(fileCfg.Practice.Languages) == 0 {
		if lang, found, err := st.GetKV(cmd.Context(), resultsync.LastLanguageKey); err == nil && found && lang != "" {
			sessCfg.Languages = []string{lang}
		}
	}

	ctrl := session.New(session.Options{
		Config:        sessCfg,
		Probe:         &backend.Probe{Client: client, Logger: logger},
		Source:        backend.NewSource(client, logger),
		Sink:          resultsync.NewSyncer(st, client, logger),
		ProbeMaxWait:  backendCfg.ProbeMaxWait,
		ProbeInterval: backendCfg.ProbeInterval,
		Logger:        logger,
	})
	defer ctrl.Teardown()

	return tui.Run(ctrl)
}

// sessionConfig layers flag values over the config file over defaults.
// Invalid values fall through to session normalization, which logs and
// substitutes defaults field by field.
func sessionConfig(cmd *cobra.Command, fileCfg config.FileConfig) session.Config {
	cfg := session.DefaultConfig()
	p := fileCfg.Practice

	if p.Pool != nil {
		cfg.Pool = problem.Pool(*p.Pool)
	}
	if len(p.Languages) > 0 {
		cfg.Languages = p.Languages
	}
	if p.Rule != nil {
		cfg.Rule = problem.OrderRule(*p.Rule)
	}
	if p.Minutes != nil {
		cfg.TimeLimitMinutes = *p.Minutes
	}
	if p.Count != nil {
		cfg.ProblemCount = *p.Count
	}

	if cmd.Flags().Changed("pool") {
		v, _ := cmd.Flags().GetString("pool")
		cfg.Pool = problem.Pool(v)
	}
	if cmd.Flags().Changed("lang") {
		v, _ := cmd.Flags().GetStringSlice("lang")
		cfg.Languages = v
	}
	if cmd.Flags().Changed("rule") {
		v, _ := cmd.Flags().GetString("rule")
		cfg.Rule = problem.OrderRule(v)
	}
	if cmd.Flags().Changed("minutes") {
		v, _ := cmd.Flags().GetInt("minutes")
		cfg.TimeLimitMinutes = v
	}
	if cmd.Flags().Changed("count") {
		v, _ := cmd.Flags().GetInt("count")
		cfg.ProblemCount = v
	}

	return cfg
}

// resolveBackendConfig layers the config file over environment variables.
func resolveBackendConfig(fileCfg config.FileConfig) backend.Config {
	cfg := backend.ConfigFromEnv()
	if fileCfg.Backend.URL != nil {
		cfg.BaseURL = *fileCfg.Backend.URL
	}
	if fileCfg.Backend.TimeoutSeconds != nil && *fileCfg.Backend.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(*fileCfg.Backend.TimeoutSeconds) * time.Second
	}
	return cfg
}
