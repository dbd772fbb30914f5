package main

import (
	"fmt"

	"github.com/axiome/analytics/internal/di"
	"github.com/spf13/cobra"
)

func newBackupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a market.db archive to the configured bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := a.backupContainer(cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			key, err := container.BackupService.CreateAndUploadBackup(cmd.Context())
			if err != nil {
				return err
			}
			if a.cfg.Backup.RetentionDays > 0 {
				if _, err := container.BackupService.RotateOldBackups(cmd.Context(), a.cfg.Backup.RetentionDays); err != nil {
					a.log.Warn().Err(err).Msg("Backup rotation failed")
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s\n", key)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored archives, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := a.backupContainer(cmd)
			if err != nil {
				return err
			}
			defer container.Close()

			backups, err := container.BackupService.ListBackups(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), backups)
		},
	})

	return cmd
}

func (a *app) backupContainer(cmd *cobra.Command) (*di.Container, error) {
	if !a.cfg.Backup.Enabled() {
		return nil, fmt.Errorf("no backup bucket configured (set AXIOME_BACKUP_BUCKET)")
	}

	container, err := di.InitializeDatabases(a.cfg, a.log)
	if err != nil {
		return nil, err
	}
	if err := di.InitializeBackup(cmd.Context(), container, a.cfg, a.log); err != nil {
		container.Close()
		return nil, err
	}
	return container, nil
}
