// Package anomaly ranks scored practices and applies the reporting cutoffs.
package anomaly

import (
	"math"
	"sort"

	"github.com/gyeh/opioidstats/internal/model"
)

// TopN is how many of the highest-scoring practices are considered before the
// cutoffs are applied. Qualifying practices ranked below TopN are dropped.
const TopN = 100

// Options holds the two reporting cutoffs. Both comparisons are strict.
type Options struct {
	ZCutoff     float64
	CountCutoff int64
}

// DefaultOptions returns the stock cutoffs: z > 3 and more than 50 items.
func DefaultOptions() Options {
	return Options{ZCutoff: 3, CountCutoff: 50}
}

// Rank attaches z-score and raw count to each practice and orders them by
// z-score, highest first. Practices without a score are dropped. NaN scores
// sort last; ties keep the input order.
func Rank(practices []model.Practice, scores map[string]float64, counts map[string]int64) []model.AnomalyResult {
	ranked := make([]model.AnomalyResult, 0, len(scores))
	for _, p := range practices {
		z, ok := scores[p.Code]
		if !ok {
			continue
		}
		ranked = append(ranked, model.AnomalyResult{Practice: p, ZScore: z, Count: counts[p.Code]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return descending(ranked[i].ZScore, ranked[j].ZScore)
	})
	return ranked
}

func descending(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

// Filter ranks practices, keeps the first TopN, then keeps only rows with
// ZScore > ZCutoff and Count > CountCutoff. practices must already be
// deduplicated by code.
func Filter(practices []model.Practice, counts map[string]int64, scores map[string]float64, opts Options) []model.AnomalyResult {
	return Select(Rank(practices, scores, counts), opts)
}

// Select applies the TopN cap and then both cutoffs to an already ranked slice.
func Select(ranked []model.AnomalyResult, opts Options) []model.AnomalyResult {
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}

	out := make([]model.AnomalyResult, 0, len(ranked))
	for _, r := range ranked {
		if r.ZScore > opts.ZCutoff && r.Count > opts.CountCutoff {
			out = append(out, r)
		}
	}
	return out
}
