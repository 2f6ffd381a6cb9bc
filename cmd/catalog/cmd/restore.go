package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celiapp/catalog/internal/usecase"
)

var restoreDryRun bool

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore gluten-free scores and descriptors from the backup sheet",
	Long: "Matches every catalog record against the backup sheet by fuzzy similarity and " +
		"copies curated fields from the best match. Duplicates are left in place.",
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false, "Report without writing the catalog sheet")
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Sheet.BackupName == "" && cfg.Sheet.BackupPath == "" {
		return fmt.Errorf("no backup sheet: pass --backup-name or set sheet.backup_name")
	}

	opts := usecase.PipelineOptions{RestoreFromBackup: true}
	return runPipeline(cmd.Context(), cmd.OutOrStdout(), cfg, cfg.Engine(), opts, restoreDryRun)
}
