package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bugloc/bugloc/internal/config"
	"github.com/bugloc/bugloc/internal/evaluation"
	"github.com/bugloc/bugloc/internal/hitset"
	"github.com/bugloc/bugloc/internal/ingest"
	"github.com/bugloc/bugloc/internal/pkg/errors"
	"github.com/bugloc/bugloc/internal/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Local overrides for the BUGLOC_* environment, if present.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "bugloc",
		Short: "Bugloc - bug-localization evaluation toolkit",
		Long: `Bugloc scores ranked file-localization predictions against
patch-derived ground truth.

Run 'bugloc evaluate' to print Accuracy@k, MRR and MAP for one trial.
Run 'bugloc hits' to export one trial's per-threshold hit-set table.
Run 'bugloc variability' to compare hit-set tables across three trials.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")

	// Add subcommands
	rootCmd.AddCommand(
		evaluateCmd(),
		hitsCmd(),
		variabilityCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(errors.ExitCode(err))
	}
}

func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.Log.Level, cfg.Log.Format), nil
}

// buildSet runs the shared ingestion path: model output plus patch dataset
// into one evaluation set. Both evaluate and hits go through here so their
// ingestion semantics cannot drift apart.
func buildSet(cfg *config.Config, log *logger.Logger, root string, trial int) (*evaluation.Set, ingest.BuildStats, error) {
	norm := ingest.NewNormalizer(cfg.Eval.SourceExt)

	results, err := ingest.LoadResults(cfg.ModelOutputPattern(root, trial), norm, log.WithTrial(trial))
	if err != nil {
		return nil, ingest.BuildStats{}, err
	}

	dataset, err := ingest.ReadDataset(cfg.DatasetFile(root))
	if err != nil {
		return nil, ingest.BuildStats{}, err
	}

	set, stats := ingest.BuildSet(dataset, results)
	return set, stats, nil
}

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute Accuracy@k, MRR and MAP for one trial",
		Long: `Build the evaluation set from the patch dataset and one trial's
model output, then print the localization metrics report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			root, _ := cmd.Flags().GetString("root")
			trial, _ := cmd.Flags().GetInt("trial")

			set, stats, err := buildSet(cfg, log, root, trial)
			if err != nil {
				return err
			}

			fmt.Printf("\nBuilt evaluation set: %d\n", stats.Built)
			fmt.Printf("Skipped (no fixed_files from patch): %d\n", stats.SkippedNoFix)
			fmt.Printf("Instances with no found_files in jsonl: %d\n", stats.MissingResult)

			report := evaluation.Evaluate(set, cfg.Eval.Thresholds, cfg.Eval.RankCutoff)
			report.Write(os.Stdout)
			return nil
		},
	}

	cmd.Flags().String("root", ".", "root directory containing the trial outputs and dataset")
	cmd.Flags().Int("trial", 1, "trial number")

	return cmd
}

func hitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hits",
		Short: "Export one trial's per-threshold hit-set table",
		Long: `Build the evaluation set for one trial, test each bug against each
accuracy threshold, and write the hit bug IDs as a padded wide CSV.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			root, _ := cmd.Flags().GetString("root")
			trial, _ := cmd.Flags().GetInt("trial")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = cfg.HitsFile(trial)
			}

			set, stats, err := buildSet(cfg, log, root, trial)
			if err != nil {
				return err
			}
			log.Info("built evaluation set",
				"built", stats.Built,
				"skipped_no_fix", stats.SkippedNoFix,
				"missing_result", stats.MissingResult)

			table := hitset.Build(set, cfg.Eval.Thresholds)
			if err := table.WriteFile(out); err != nil {
				return err
			}

			fmt.Printf("Wrote bug IDs to %s\n", out)
			return nil
		},
	}

	cmd.Flags().String("root", ".", "root directory containing the trial outputs and dataset")
	cmd.Flags().Int("trial", 1, "trial number")
	cmd.Flags().String("out", "", "output CSV path (default: per-trial name from config)")

	return cmd
}

func variabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variability TRIAL1.csv TRIAL2.csv TRIAL3.csv [UNION_OUT] [INTERSECTION_OUT]",
		Short: "Compare hit-set tables across three trials",
		Long: `Read three trials' hit-set tables and write, per accuracy threshold,
the union and intersection of their bug IDs, naturally sorted.`,
		Args: cobra.RangeArgs(3, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			ks := cfg.Eval.Thresholds
			tables := make([]*hitset.Table, 0, 3)
			for _, path := range args[:3] {
				table, err := hitset.ReadFile(path, ks)
				if err != nil {
					return err
				}
				tables = append(tables, table)
			}

			combined, err := hitset.Combine(tables, ks)
			if err != nil {
				return err
			}

			unionOut := cfg.Output.UnionFile
			intersectionOut := cfg.Output.IntersectionFile
			if len(args) > 3 {
				unionOut = args[3]
			}
			if len(args) > 4 {
				intersectionOut = args[4]
			}

			if err := combined.Union.WriteFile(unionOut); err != nil {
				return err
			}
			if err := combined.Intersection.WriteFile(intersectionOut); err != nil {
				return err
			}

			log.Info("wrote combined tables", "union", unionOut, "intersection", intersectionOut)
			return nil
		},
	}

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bugloc %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}
