// Package pipeline runs the load → classify → aggregate → filter → write
// sequence for one analysis run.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/opioidstats/internal/anomaly"
	"github.com/gyeh/opioidstats/internal/classify"
	"github.com/gyeh/opioidstats/internal/config"
	"github.com/gyeh/opioidstats/internal/loader"
	"github.com/gyeh/opioidstats/internal/model"
	"github.com/gyeh/opioidstats/internal/normalize"
	"github.com/gyeh/opioidstats/internal/output"
	"github.com/gyeh/opioidstats/internal/stats"
)

// Pipeline phases, reported in PipelineError.
const (
	PhaseLoad      = "load"
	PhaseAggregate = "aggregate"
	PhaseWrite     = "write"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Analysis is the in-memory result of a run, before anything is written.
type Analysis struct {
	Results []model.AnomalyResult
	Summary *model.RunSummary
}

// Inputs holds the three loaded tables.
type Inputs struct {
	Prescriptions []model.Prescription
	Practices     []model.Practice
	Substances    []model.Substance
}

// Load reads all three inputs named by cfg and records their hashes in summary.
func Load(log zerolog.Logger, cfg *config.Config, summary *model.RunSummary) (*Inputs, error) {
	start := time.Now()
	paths := cfg.Inputs()

	summary.InputSHA256 = make(map[string]string, len(paths))
	for _, role := range config.InputRoles {
		sha, err := normalize.FileHash(paths[role])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", role, err)
		}
		summary.InputSHA256[role] = sha
	}

	rx, err := loader.LoadPrescriptions(paths["prescriptions"])
	if err != nil {
		return nil, err
	}
	practices, err := loader.LoadPractices(paths["practices"])
	if err != nil {
		return nil, err
	}
	subs, err := loader.LoadSubstances(paths["chem"])
	if err != nil {
		return nil, err
	}

	summary.PrescriptionRows = int64(len(rx))
	summary.PracticeRows = int64(len(practices))
	summary.SubstanceRows = int64(len(subs))
	summary.DurationLoad = time.Since(start)

	log.Info().
		Int64("prescriptions", summary.PrescriptionRows).
		Int64("practices", summary.PracticeRows).
		Int64("substances", summary.SubstanceRows).
		Dur("duration", summary.DurationLoad).
		Msg("inputs loaded")

	return &Inputs{Prescriptions: rx, Practices: practices, Substances: subs}, nil
}

// Score classifies substances, computes z-scores and applies the cutoffs.
func Score(log zerolog.Logger, cfg *config.Config, in *Inputs, summary *model.RunSummary) ([]model.AnomalyResult, error) {
	start := time.Now()

	subs := loader.DedupSubstances(in.Substances)
	flagged := classify.FlagOpioids(subs, classify.NewVocabulary(cfg.OpioidTerms))
	summary.UniqueSubstances = int64(len(subs))
	summary.OpioidSubstances = int64(classify.CountOpioids(flagged))

	agg, err := stats.ZScores(in.Prescriptions, stats.Flags(flagged), stats.Options{
		DDOF:  cfg.StdDDOF,
		Match: cfg.SubstanceMatch,
	})
	if err != nil {
		return nil, err
	}
	summary.UnmatchedRows = agg.Unmatched
	summary.ScoredPractices = int64(len(agg.Scores))
	summary.DegenerateScores = agg.Degenerate()
	summary.GlobalOpioidRate = agg.GlobalRate
	summary.GlobalStdDev = agg.StdDev

	if summary.DegenerateScores > 0 {
		log.Warn().
			Int64("practices", summary.DegenerateScores).
			Float64("std_dev", agg.StdDev).
			Msg("degenerate z-scores (NaN/Inf) propagated into ranking")
	}

	practices := loader.DedupPractices(in.Practices)
	summary.UniquePractices = int64(len(practices))

	opts := anomaly.Options{
		ZCutoff:     float64(cfg.ZScoreCutoff),
		CountCutoff: int64(cfg.RawCountCutoff),
	}
	ranked := anomaly.Rank(practices, agg.Scores, agg.Counts)
	results := anomaly.Select(ranked, opts)
	summary.RankedPractices = int64(len(ranked))
	summary.FlaggedPractices = int64(len(results))
	summary.DurationAnalyze = time.Since(start)

	log.Info().
		Int64("opioid_substances", summary.OpioidSubstances).
		Int64("unmatched_rows", summary.UnmatchedRows).
		Int64("scored_practices", summary.ScoredPractices).
		Float64("global_rate", summary.GlobalOpioidRate).
		Float64("z_score_cutoff", opts.ZCutoff).
		Int64("raw_count_cutoff", opts.CountCutoff).
		Int64("flagged", summary.FlaggedPractices).
		Dur("duration", summary.DurationAnalyze).
		Msg("analysis complete")

	return results, nil
}

// Analyze loads and scores without writing any output.
func Analyze(log zerolog.Logger, cfg *config.Config) (*Analysis, error) {
	totalStart := time.Now()
	summary := &model.RunSummary{}

	in, err := Load(log, cfg, summary)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseLoad, Err: err}
	}

	results, err := Score(log, cfg, in, summary)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseAggregate, Err: err}
	}

	summary.DurationTotal = time.Since(totalStart)
	return &Analysis{Results: results, Summary: summary}, nil
}

// Run executes the full pipeline and writes the report to cfg.OutputPath.
func Run(log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()

	a, err := Analyze(log, cfg)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := output.WriteCSV(cfg.OutputPath, a.Results); err != nil {
		return nil, &PipelineError{Phase: PhaseWrite, Err: err}
	}
	a.Summary.OutputPath = cfg.OutputPath
	a.Summary.DurationWrite = time.Since(start)
	a.Summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Str("output", cfg.OutputPath).
		Int64("rows", a.Summary.FlaggedPractices).
		Str("total_duration", a.Summary.DurationTotal.String()).
		Msg("report written")

	return a.Summary, nil
}
