package model

import "time"

// RunSummary captures metrics from a single analysis run.
type RunSummary struct {
	OutputPath string

	// SHA-256 of each input, keyed by role ("prescriptions", "practices", "chem").
	InputSHA256 map[string]string

	PrescriptionRows int64
	PracticeRows     int64
	UniquePractices  int64
	SubstanceRows    int64
	UniqueSubstances int64
	OpioidSubstances int64
	UnmatchedRows    int64
	ScoredPractices  int64
	DegenerateScores int64
	GlobalOpioidRate float64
	GlobalStdDev     float64
	RankedPractices  int64
	FlaggedPractices int64

	DurationLoad    time.Duration
	DurationAnalyze time.Duration
	DurationWrite   time.Duration
	DurationTotal   time.Duration
}
