package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnakai/typedrill/internal/backend"
	"github.com/rnakai/typedrill/internal/resultsync"
	"github.com/rnakai/typedrill/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Forward locally buffered results to the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(false)

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
		syncer := resultsync.NewSyncer(st, client, logger)

		flushed, err := syncer.FlushUnsynced(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync stopped after %d result(s): %w", flushed, err)
		}
		if flushed == 0 {
			fmt.Println("Nothing to sync.")
			return nil
		}
		fmt.Printf("Synced %d result(s).\n", flushed)
		return nil
	},
}
