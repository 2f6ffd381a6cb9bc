package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celiapp/catalog/internal/infrastructure/runstore"
	"github.com/celiapp/catalog/internal/usecase"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List recent pipeline runs, or show one run report",
	Long:  "Reads run reports from the run store. History survives between invocations only with store.type=bolt.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Number of runs to list")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	svc := usecase.NewCatalogService(store, cfg.CatalogService())

	if len(args) == 1 {
		report, err := svc.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printReport(out, report)
	}

	if cfg.Store.Type != runstore.TypeBolt {
		fmt.Fprintf(cmd.ErrOrStderr(), "%snote: store.type is %q, run history is not kept between invocations%s\n",
			colorYellow, cfg.Store.Type, colorReset)
	}

	reports, err := svc.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	fmt.Fprint(out, formatRuns(reports))
	return nil
}
