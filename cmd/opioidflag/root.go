package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/opioidstats/internal/config"
	"github.com/gyeh/opioidstats/internal/exitcode"
	"github.com/gyeh/opioidstats/internal/logging"
	"github.com/gyeh/opioidstats/internal/pipeline"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "opioidflag",
	Short: "Flag practices with anomalous opioid prescribing",
	Long: "Joins a monthly prescription extract to the practice directory and chemical substance " +
		"registry, scores each practice's opioid prescription rate against the population, and " +
		"writes the practices exceeding both cutoffs to a CSV report.",
	Args: cobra.NoArgs,
	RunE: runFlag,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.ConfigFile, "config", "", "YAML file with input paths and analysis options")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.IntVar(&cfg.ZScoreCutoff, "z_score_cutoff", cfg.ZScoreCutoff, "The Z-score cutoff for flagging practices")
	pf.IntVar(&cfg.RawCountCutoff, "raw_count_cutoff", cfg.RawCountCutoff, "The raw count cutoff for flagging practices")
}

// setup builds the run logger and resolves configuration, exiting on any
// usage or input problem.
func setup() zerolog.Logger {
	log, _ := logging.WithRun(logging.Setup(cfg.LogFormat, os.Stderr))

	if cfg.ConfigFile != "" {
		if err := cfg.LoadFromFile(cfg.ConfigFile); err != nil {
			log.Error().Err(err).Str("config", cfg.ConfigFile).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateInputs(); err != nil {
		log.Error().Err(err).Msg("input check failed")
		os.Exit(exitcode.InputError)
	}
	return log
}

// exitCode maps a pipeline failure to its process exit code.
func exitCode(err error) int {
	var pe *pipeline.PipelineError
	if errors.As(err, &pe) {
		switch pe.Phase {
		case pipeline.PhaseLoad:
			return exitcode.InputError
		case pipeline.PhaseWrite:
			return exitcode.OutputError
		}
	}
	return exitcode.AnalysisError
}

func exitFor(log zerolog.Logger, err error) {
	var pe *pipeline.PipelineError
	if errors.As(err, &pe) {
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("analysis failed")
	} else {
		log.Error().Err(err).Msg("analysis failed")
	}
	os.Exit(exitCode(err))
}

func runFlag(cmd *cobra.Command, args []string) error {
	log := setup()
	log.Info().
		Int("z_score_cutoff", cfg.ZScoreCutoff).
		Int("raw_count_cutoff", cfg.RawCountCutoff).
		Msg("starting analysis")

	summary, err := pipeline.Run(log, &cfg)
	if err != nil {
		exitFor(log, err)
	}

	fmt.Printf("Analysis complete: %d prescriptions, %d practices scored, %d flagged → %s (%.1fs)\n",
		summary.PrescriptionRows, summary.ScoredPractices, summary.FlaggedPractices,
		summary.OutputPath, summary.DurationTotal.Seconds())
	return nil
}
