package main

import (
	"fmt"
	"os"

	"yieldplot/adapters/excel"
	"yieldplot/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := testkit.DefaultWeeklyConfig()
	var out, sheet string

	cmd := &cobra.Command{
		Use:   "samplegen",
		Short: "Write a synthetic Week/Yield/Tests workbook",
		Long: `Generate a deterministic weekly yield workbook with the same layout as
Mombasa_Week.xlsx, for trying the charts without the real data.

Example: samplegen --out Mombasa_Week.xlsx --weeks 52 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Weeks <= 0 {
				return fmt.Errorf("weeks must be > 0")
			}
			if cfg.TestsMin < 0 || cfg.TestsMax < cfg.TestsMin {
				return fmt.Errorf("invalid tests range [%d, %d]", cfg.TestsMin, cfg.TestsMax)
			}

			observations := testkit.NewWeeklyGenerator(cfg).Generate()
			if err := testkit.WriteWeeklyWorkbook(out, sheet, observations); err != nil {
				return fmt.Errorf("error writing workbook: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d weeks to %s (%s)\n", len(observations), out, sheet)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", excel.DefaultExcelConfig().FilePath, "output workbook path")
	cmd.Flags().StringVar(&sheet, "sheet", excel.DefaultSheet, "sheet name")
	cmd.Flags().IntVar(&cfg.Weeks, "weeks", cfg.Weeks, "number of weekly rows")
	cmd.Flags().Float64Var(&cfg.BaseYield, "base-yield", cfg.BaseYield, "yield (%) in week 1")
	cmd.Flags().Float64Var(&cfg.WeeklyTrend, "trend", cfg.WeeklyTrend, "yield points gained per week")
	cmd.Flags().IntVar(&cfg.TestsMin, "tests-min", cfg.TestsMin, "fewest tests in a week")
	cmd.Flags().IntVar(&cfg.TestsMax, "tests-max", cfg.TestsMax, "most tests in a week")
	cmd.Flags().Float64Var(&cfg.TestsEffect, "tests-effect", cfg.TestsEffect, "yield points per weekly test")
	cmd.Flags().Float64Var(&cfg.Noise, "noise", cfg.Noise, "std dev of the yield residual")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed (deterministic)")

	return cmd
}
