// Package stats computes per-practice opioid z-scores.
package stats

import (
	"fmt"
	"math"

	"github.com/gyeh/opioidstats/internal/config"
	"github.com/gyeh/opioidstats/internal/model"
	"github.com/gyeh/opioidstats/internal/normalize"
)

// Options controls the join and the standard deviation estimator.
type Options struct {
	// DDOF is the delta degrees of freedom: 0 for the population standard
	// deviation, 1 for the sample standard deviation.
	DDOF int
	// Match is config.MatchExact or config.MatchChemicalPrefix.
	Match string
}

// Aggregate is the output of ZScores.
type Aggregate struct {
	// Scores maps practice code to z-score. Degenerate inputs yield NaN or
	// ±Inf, which are kept as-is.
	Scores map[string]float64
	// Counts maps practice code to its number of prescription rows.
	Counts map[string]int64

	Rows       int64
	Unmatched  int64 // rows whose substance code had no registry entry
	GlobalRate float64
	StdDev     float64
}

// Degenerate returns how many scores are NaN or infinite.
func (a *Aggregate) Degenerate() int64 {
	var n int64
	for _, z := range a.Scores {
		if math.IsNaN(z) || math.IsInf(z, 0) {
			n++
		}
	}
	return n
}

// Flags builds the substance code → opioid lookup used for the join.
func Flags(subs []model.FlaggedSubstance) map[string]bool {
	m := make(map[string]bool, len(subs))
	for _, s := range subs {
		m[s.ChemSub] = s.IsOpioid
	}
	return m
}

// ZScores left-joins prescriptions to flags and scores every practice seen:
//
//	z_i = (p_i - p) / (sd / sqrt(n_i))
//
// where p_i is the practice's opioid fraction, p the fraction over all rows,
// sd the standard deviation of the flag over all rows and n_i the practice's
// row count.
func ZScores(rx []model.Prescription, flags map[string]bool, opts Options) (*Aggregate, error) {
	key, err := joinKey(opts.Match)
	if err != nil {
		return nil, err
	}

	var global accumulator
	groups := make(map[string]*accumulator)
	var unmatched int64

	for i := range rx {
		isOpioid, ok := flags[key(rx[i].BNFCode)]
		if !ok {
			// absent from the registry: non-opioid, still counted
			isOpioid = false
			unmatched++
		}

		x := 0.0
		if isOpioid {
			x = 1
		}
		global.add(x)

		g := groups[rx[i].Practice]
		if g == nil {
			g = &accumulator{}
			groups[rx[i].Practice] = g
		}
		g.add(x)
	}

	agg := &Aggregate{
		Scores:     make(map[string]float64, len(groups)),
		Counts:     make(map[string]int64, len(groups)),
		Rows:       global.n,
		Unmatched:  unmatched,
		GlobalRate: global.mean(),
		StdDev:     global.std(opts.DDOF),
	}
	for practice, g := range groups {
		se := agg.StdDev / math.Sqrt(float64(g.n))
		agg.Scores[practice] = (g.mean() - agg.GlobalRate) / se
		agg.Counts[practice] = g.n
	}
	return agg, nil
}

func joinKey(match string) (func(string) string, error) {
	switch match {
	case "", config.MatchExact:
		return func(code string) string { return code }, nil
	case config.MatchChemicalPrefix:
		return normalize.ChemicalPrefix, nil
	default:
		return nil, fmt.Errorf("unknown substance match mode %q", match)
	}
}
