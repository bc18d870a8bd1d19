// Package output writes the flagged-practice report.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gyeh/opioidstats/internal/model"
)

// Columns is the report header: practice metadata, then score and count.
var Columns = append(append([]string(nil), model.PracticeColumns...), "z_scores", "count")

// Write encodes results as CSV with a header row and no index column.
func Write(w io.Writer, results []model.AnomalyResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range results {
		r := &results[i]
		rec := append(r.Practice.Values(), FormatFloat(r.ZScore), strconv.FormatInt(r.Count, 10))
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes results to path. The file is written under a temporary name
// and renamed into place, so a failed write never leaves a partial report.
func WriteCSV(path string, results []model.AnomalyResult) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, results); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// FormatFloat renders the shortest decimal that round-trips. Infinities are
// written as "inf"/"-inf" and NaN as an empty field.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
