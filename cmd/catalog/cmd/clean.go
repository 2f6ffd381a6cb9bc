package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celiapp/catalog/internal/usecase"
)

var (
	cleanFillNames   bool
	cleanConsolidate bool
	cleanNoDedupe    bool
	cleanNoRestore   bool
	cleanMode        string
	cleanPolicy      string
	cleanThreshold   float64
	cleanDryRun      bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the full cleaning pipeline on the catalog sheet",
	Long: "Normalizes brands and subcategories, merges duplicate products and restores " +
		"curated fields from the backup sheet, then writes the canonical rows back.",
	RunE: runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.BoolVar(&cleanFillNames, "fill-product-names", false, "Extract missing product names from brand and subcategory")
	f.BoolVar(&cleanConsolidate, "consolidate-brands", false, "Rewrite brand spellings to the most common form")
	f.BoolVar(&cleanNoDedupe, "no-dedupe", false, "Skip duplicate grouping and merging")
	f.BoolVar(&cleanNoRestore, "no-restore", false, "Skip restoring fields from the backup sheet")
	f.StringVar(&cleanMode, "mode", "", "Duplicate mode: exact or fuzzy")
	f.StringVar(&cleanPolicy, "policy", "", "Fuzzy cluster policy: star or transitive")
	f.Float64Var(&cleanThreshold, "threshold", 0, "Fuzzy duplicate threshold in (0, 1]")
	f.BoolVar(&cleanDryRun, "dry-run", false, "Report without writing the catalog sheet")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := cfg.PipelineOptions()
	flags := cmd.Flags()
	if flags.Changed("fill-product-names") {
		opts.FillProductNames = cleanFillNames
	}
	if flags.Changed("consolidate-brands") {
		opts.ConsolidateBrands = cleanConsolidate
	}
	if flags.Changed("no-dedupe") {
		opts.RemoveDuplicates = !cleanNoDedupe
	}
	if flags.Changed("no-restore") {
		opts.RestoreFromBackup = !cleanNoRestore
	}

	engine := cfg.Engine()
	if flags.Changed("mode") {
		switch usecase.DuplicateMode(cleanMode) {
		case usecase.DuplicateModeExact, usecase.DuplicateModeFuzzy:
			engine.DuplicateMode = usecase.DuplicateMode(cleanMode)
		default:
			return fmt.Errorf("--mode must be 'exact' or 'fuzzy', got: %s", cleanMode)
		}
	}
	if flags.Changed("policy") {
		switch usecase.ClusterPolicy(cleanPolicy) {
		case usecase.ClusterPolicyStar, usecase.ClusterPolicyTransitive:
			engine.ClusterPolicy = usecase.ClusterPolicy(cleanPolicy)
		default:
			return fmt.Errorf("--policy must be 'star' or 'transitive', got: %s", cleanPolicy)
		}
	}
	if flags.Changed("threshold") {
		if cleanThreshold <= 0 || cleanThreshold > 1 {
			return fmt.Errorf("--threshold must be in (0, 1], got: %v", cleanThreshold)
		}
		engine.FuzzyDuplicateThreshold = cleanThreshold
	}

	return runPipeline(cmd.Context(), cmd.OutOrStdout(), cfg, engine, opts, cleanDryRun)
}
