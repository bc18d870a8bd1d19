// Package classify flags opioid substances by name.
package classify

import (
	"strings"

	"github.com/gyeh/opioidstats/internal/model"
	"github.com/gyeh/opioidstats/internal/normalize"
)

// DefaultTerms is the named-drug vocabulary used when none is configured.
var DefaultTerms = []string{
	"morphine",
	"oxycodone",
	"methadone",
	"fentanyl",
	"pethidine",
	"buprenorphine",
	"propoxyphene",
	"codeine",
}

// Vocabulary is a set of lower-cased terms matched as substrings.
type Vocabulary []string

// NewVocabulary lower-cases terms and drops blanks. An empty input yields
// the default vocabulary.
func NewVocabulary(terms []string) Vocabulary {
	v := make(Vocabulary, 0, len(terms))
	for _, t := range terms {
		t = normalize.LowerName(strings.TrimSpace(t))
		if t != "" {
			v = append(v, t)
		}
	}
	if len(v) == 0 {
		return NewVocabulary(DefaultTerms)
	}
	return v
}

// Match reports whether name contains any term, ignoring case.
func (v Vocabulary) Match(name string) bool {
	name = normalize.LowerName(name)
	for _, t := range v {
		if strings.Contains(name, t) {
			return true
		}
	}
	return false
}

// FlagOpioids returns a copy of subs with IsOpioid set from the vocabulary.
func FlagOpioids(subs []model.Substance, vocab Vocabulary) []model.FlaggedSubstance {
	out := make([]model.FlaggedSubstance, len(subs))
	for i, s := range subs {
		out[i] = model.FlaggedSubstance{Substance: s, IsOpioid: vocab.Match(s.Name)}
	}
	return out
}

// CountOpioids returns how many substances are flagged.
func CountOpioids(flagged []model.FlaggedSubstance) int {
	n := 0
	for _, f := range flagged {
		if f.IsOpioid {
			n++
		}
	}
	return n
}
