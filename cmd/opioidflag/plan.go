package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyeh/opioidstats/internal/anomaly"
	"github.com/gyeh/opioidstats/internal/config"
	"github.com/gyeh/opioidstats/internal/output"
	"github.com/gyeh/opioidstats/internal/pipeline"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run the analysis and print stats (no report written)",
	Args:  cobra.NoArgs,
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := setup()

	a, err := pipeline.Analyze(log, &cfg)
	if err != nil {
		exitFor(log, err)
	}
	s := a.Summary
	in := cfg.Inputs()

	fmt.Println("=== opioidflag plan ===")
	for _, role := range config.InputRoles {
		fmt.Printf("%-14s %s\n", role+":", in[role])
		fmt.Printf("%-14s %s\n", "  SHA-256:", s.InputSHA256[role])
	}
	fmt.Println()
	fmt.Printf("Prescription rows:   %d (%d unmatched substance codes)\n", s.PrescriptionRows, s.UnmatchedRows)
	fmt.Printf("Practices:           %d rows, %d unique\n", s.PracticeRows, s.UniquePractices)
	fmt.Printf("Substances:          %d rows, %d unique, %d opioid\n", s.SubstanceRows, s.UniqueSubstances, s.OpioidSubstances)
	fmt.Printf("Global opioid rate:  %.6f (std dev %.6f, ddof %d)\n", s.GlobalOpioidRate, s.GlobalStdDev, cfg.StdDDOF)
	fmt.Printf("Scored practices:    %d (%d degenerate)\n", s.ScoredPractices, s.DegenerateScores)
	fmt.Printf("Ranked in directory: %d (top %d considered)\n", s.RankedPractices, anomaly.TopN)
	fmt.Printf("Cutoffs:             z > %d, count > %d\n", cfg.ZScoreCutoff, cfg.RawCountCutoff)
	fmt.Printf("Would flag:          %d practices\n", s.FlaggedPractices)

	if len(a.Results) > 0 {
		fmt.Println()
		for _, r := range a.Results {
			fmt.Printf("  %-8s %-40s z=%-10s n=%d\n", r.Code, r.Name, output.FormatFloat(r.ZScore), r.Count)
		}
	}
	return nil
}
