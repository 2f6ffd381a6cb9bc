package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/celiapp/catalog/config"
	"github.com/celiapp/catalog/internal/domain"
	"github.com/celiapp/catalog/internal/infrastructure/sheet"
	"github.com/celiapp/catalog/internal/usecase"
)

// runPipeline reads the catalog and backup sheets, processes them and,
// unless dryRun is set, writes the canonical rows back to the catalog sheet.
func runPipeline(ctx context.Context, out io.Writer, cfg *config.Config, engine usecase.EngineConfig, opts usecase.PipelineOptions, dryRun bool) error {
	if err := requireSheet(cfg); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := sheet.NewWorkbook(cfg.Sheet.Path, cfg.Sheet.Name).ReadRows(ctx)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	req := usecase.ProcessRequest{
		Rows:     rows,
		Engine:   &engine,
		Pipeline: &opts,
	}

	if opts.RestoreFromBackup {
		backup, err := readBackup(ctx, cfg)
		if err != nil {
			return err
		}
		req.BackupRows = backup
	}

	svc := usecase.NewCatalogService(store, cfg.CatalogService())
	result, report, err := svc.Process(ctx, req)
	if err != nil {
		return err
	}

	if dryRun {
		report.Warnings = append(report.Warnings, "dry run: catalog sheet not written")
	} else {
		writer := sheet.NewWorkbook(cfg.Sheet.Path, cfg.Sheet.Name)
		if cfg.Sheet.SnapshotName != "" {
			writer.WithSnapshot(cfg.Sheet.SnapshotName)
		}
		if err := writer.WriteRows(ctx, result.Rows); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
	}

	return printReport(out, report)
}

// readBackup returns the backup rows, or nil when no backup sheet is
// configured or the configured worksheet does not exist.
func readBackup(ctx context.Context, cfg *config.Config) ([][]string, error) {
	if cfg.Sheet.BackupName == "" && cfg.Sheet.BackupPath == "" {
		return nil, nil
	}

	path := cfg.Sheet.BackupPath
	if path == "" {
		path = cfg.Sheet.Path
	}

	rows, err := sheet.NewWorkbook(path, cfg.Sheet.BackupName).ReadRows(ctx)
	if errors.Is(err, domain.ErrSheetNotFound) {
		log.Printf("[PIPELINE] No backup sheet %q in %s, skipping restore", cfg.Sheet.BackupName, path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return rows, nil
}
