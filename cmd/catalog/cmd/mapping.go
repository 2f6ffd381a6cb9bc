package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celiapp/catalog/internal/domain"
	"github.com/celiapp/catalog/internal/infrastructure/sheet"
	"github.com/celiapp/catalog/internal/usecase"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Show how the catalog header row maps onto canonical fields",
	RunE:  runMapping,
}

func runMapping(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireSheet(cfg); err != nil {
		return err
	}

	rows, err := sheet.NewWorkbook(cfg.Sheet.Path, cfg.Sheet.Name).ReadRows(cmd.Context())
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: sheet has no header row", domain.ErrSchema)
	}

	report, err := usecase.NewCatalogService(nil, cfg.CatalogService()).MapHeaders(rows[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprint(out, formatSchema(rows[0], report))
	return nil
}
