// Package table loads delimited text files into memory.
package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table is a fully materialized CSV file.
type Table struct {
	Columns []string
	Rows    [][]string

	colIdx map[string]int
}

// ErrInvalidUTF8 is returned when a field is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

type options struct {
	columns []string
}

// Option configures Open.
type Option func(*options)

// WithColumns supplies column names for a file that has no header row.
func WithColumns(names ...string) Option {
	return func(o *options) { o.columns = names }
}

// Open reads the whole file at path. Files ending in ".gz" are gunzipped.
// A row whose field count differs from the header, or a field that is not
// valid UTF-8, is a load error.
func Open(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReaderSize(f, 256*1024)
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	t, err := Read(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV from r. See Open.
func Read(r io.Reader, opts ...Option) (*Table, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Strip a UTF-8 BOM if present. Bytes pass through untouched so that
	// invalid sequences are caught below rather than replaced with U+FFFD.
	r = transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	t := &Table{}
	if o.columns != nil {
		t.Columns = append([]string(nil), o.columns...)
		cr.FieldsPerRecord = len(o.columns)
	} else {
		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		if err := checkUTF8(cr, header); err != nil {
			return nil, err
		}
		t.Columns = header
		cr.FieldsPerRecord = len(header)
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := checkUTF8(cr, rec); err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, rec)
	}

	t.colIdx = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.colIdx[c]; !dup {
			t.colIdx[c] = i
		}
	}
	return t, nil
}

func checkUTF8(cr *csv.Reader, rec []string) error {
	for i, field := range rec {
		if !utf8.ValidString(field) {
			line, col := cr.FieldPos(i)
			return fmt.Errorf("line %d, column %d: %w", line, col, ErrInvalidUTF8)
		}
	}
	return nil
}

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.colIdx[name]
	return i, ok
}

// Require returns the positions of all named columns, or an error naming the
// first one missing.
func (t *Table) Require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		p, ok := t.Index(name)
		if !ok {
			return nil, fmt.Errorf("missing required column: %s", name)
		}
		idx[i] = p
	}
	return idx, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
