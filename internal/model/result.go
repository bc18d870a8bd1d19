package model

// AnomalyResult is a practice that survived ranking and both cutoffs.
type AnomalyResult struct {
	Practice
	ZScore float64
	Count  int64
}
