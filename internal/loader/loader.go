// Package loader turns the three input files into typed, deduplicated records.
package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gyeh/opioidstats/internal/model"
	"github.com/gyeh/opioidstats/internal/parquetread"
	"github.com/gyeh/opioidstats/internal/table"
)

// Column names in the prescription and substance files.
const (
	ColPractice = "practice"
	ColBNFCode  = "bnf_code"
	ColChemSub  = "CHEM SUB"
	ColChemName = "NAME"
)

// LoadPrescriptions reads the prescription table. Parquet files are read
// through parquetread; anything else is parsed as (optionally gzipped) CSV.
func LoadPrescriptions(path string) ([]model.Prescription, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		r, err := parquetread.Open(path)
		if err != nil {
			return nil, fmt.Errorf("load prescriptions: %w", err)
		}
		defer r.Close()
		rx, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("load prescriptions: %w", err)
		}
		return rx, nil
	}

	t, err := table.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load prescriptions: %w", err)
	}
	idx, err := t.Require(ColPractice, ColBNFCode)
	if err != nil {
		return nil, fmt.Errorf("load prescriptions %s: %w", path, err)
	}

	out := make([]model.Prescription, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = model.Prescription{Practice: row[idx[0]], BNFCode: row[idx[1]]}
	}
	return out, nil
}

// LoadPractices reads the header-less practice directory using
// model.PracticeColumns as column names. Rows are returned in file order.
func LoadPractices(path string) ([]model.Practice, error) {
	t, err := table.Open(path, table.WithColumns(model.PracticeColumns...))
	if err != nil {
		return nil, fmt.Errorf("load practices: %w", err)
	}

	out := make([]model.Practice, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = model.Practice{
			Code:     row[0],
			Name:     row[1],
			Addr1:    row[2],
			Addr2:    row[3],
			Borough:  row[4],
			Village:  row[5],
			PostCode: row[6],
		}
	}
	return out, nil
}

// LoadSubstances reads the chemical substance registry. Rows are returned in
// file order; call DedupSubstances to enforce unique codes.
func LoadSubstances(path string) ([]model.Substance, error) {
	t, err := table.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load chem: %w", err)
	}
	idx, err := t.Require(ColChemSub, ColChemName)
	if err != nil {
		return nil, fmt.Errorf("load chem %s: %w", path, err)
	}

	out := make([]model.Substance, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = model.Substance{ChemSub: row[idx[0]], Name: row[idx[1]]}
	}
	return out, nil
}

// DedupSubstances keeps, per CHEM SUB, the entry whose name sorts first.
// The result is ordered by name; the input is not modified.
func DedupSubstances(subs []model.Substance) []model.Substance {
	sorted := make([]model.Substance, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	seen := make(map[string]bool, len(sorted))
	out := sorted[:0]
	for _, s := range sorted {
		if seen[s.ChemSub] {
			continue
		}
		seen[s.ChemSub] = true
		out = append(out, s)
	}
	return out
}

// DedupPractices keeps, per practice code, the record whose name sorts
// first. The result is ordered by name; the input is not modified.
func DedupPractices(practices []model.Practice) []model.Practice {
	sorted := make([]model.Practice, len(practices))
	copy(sorted, practices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	seen := make(map[string]bool, len(sorted))
	out := sorted[:0]
	for _, p := range sorted {
		if seen[p.Code] {
			continue
		}
		seen[p.Code] = true
		out = append(out, p)
	}
	return out
}
