package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celiapp/catalog/config"
	"github.com/celiapp/catalog/internal/infrastructure/runstore"
)

var (
	configPath string
	debugFlag  bool
	jsonOutput bool

	sheetPath    string
	sheetName    string
	backupPath   string
	backupName   string
	snapshotName string
)

var rootCmd = &cobra.Command{
	Use:          "catalog",
	Short:        "Product catalog cleaning engine",
	Long:         "Maps sheet headers, normalizes brands and subcategories, merges duplicate products and restores curated fields from a backup sheet.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every subcommand.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "Config file (default: ./config.yaml, ./config/config.yaml, /etc/catalog/config.yaml)")
	f.BoolVar(&debugFlag, "debug", false, "Log every pipeline decision")
	f.BoolVar(&jsonOutput, "json", false, "Output as JSON")
	f.StringVar(&sheetPath, "sheet", "", "Catalog workbook (.xlsx), overrides sheet.path")
	f.StringVar(&sheetName, "sheet-name", "", "Catalog worksheet, overrides sheet.name (default: first sheet)")
	f.StringVar(&backupPath, "backup", "", "Backup workbook, overrides sheet.backup_path (default: the catalog workbook)")
	f.StringVar(&backupName, "backup-name", "", "Backup worksheet, overrides sheet.backup_name")
	f.StringVar(&snapshotName, "snapshot", "", "Copy the current sheet into this worksheet before writing, overrides sheet.snapshot_name")

	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(mappingCmd)
	rootCmd.AddCommand(runsCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags that were set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Log.Debug = debugFlag
	}
	if flags.Changed("sheet") {
		cfg.Sheet.Path = sheetPath
	}
	if flags.Changed("sheet-name") {
		cfg.Sheet.Name = sheetName
	}
	if flags.Changed("backup") {
		cfg.Sheet.BackupPath = backupPath
	}
	if flags.Changed("backup-name") {
		cfg.Sheet.BackupName = backupName
	}
	if flags.Changed("snapshot") {
		cfg.Sheet.SnapshotName = snapshotName
	}
	return cfg, nil
}

// requireSheet fails when no catalog workbook is configured.
func requireSheet(cfg *config.Config) error {
	if cfg.Sheet.Path == "" {
		return fmt.Errorf("no catalog workbook: pass --sheet or set sheet.path")
	}
	return nil
}

// openStore opens the configured run store.
func openStore(cfg *config.Config) (runstore.Store, error) {
	store, err := runstore.Open(cfg.Store.Type, cfg.Store.Path, cfg.Store.TTL)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return store, nil
}
