package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/HerbHall/comparenet/internal/backup"
	"github.com/HerbHall/comparenet/internal/config"
	"github.com/HerbHall/comparenet/internal/store"
)

func newBackupCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the SQLite session store and config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if d := a.cfg.GetString("storage.driver"); d != config.DriverSQLite {
				return fmt.Errorf("backup needs storage.driver=%s, have %s", config.DriverSQLite, d)
			}
			if output == "" {
				output = fmt.Sprintf("comparenet-backup-%s.tar.gz", time.Now().Format("20060102-150405"))
			}

			path := a.cfg.GetString("storage.path")
			s, err := store.New(path)
			if err != nil {
				return fmt.Errorf("open sqlite %s: %w", path, err)
			}
			defer s.Close()

			if err := backup.Backup(cmd.Context(), s, filepath.Base(path), a.configPath, output); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Backup created: %s\n", output)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default comparenet-backup-<timestamp>.tar.gz)")
	return cmd
}

func newRestoreCmd(*app) *cobra.Command {
	var (
		input   string
		dataDir string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a backup archive into a data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := backup.Restore(cmd.Context(), input, dataDir, force); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Restore complete: files restored to %s\n", dataDir)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "backup archive to restore")
	cmd.Flags().StringVar(&dataDir, "data-dir", ".", "target directory for restored files")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
