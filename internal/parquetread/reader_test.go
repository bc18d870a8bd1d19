package parquetread

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/opioidstats/internal/model"
)

func writeParquet[T any](t *testing.T, rows []T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scripts.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return path
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func TestReadAll(t *testing.T) {
	rows := []model.PrescriptionRow{
		{Practice: "N81013", BNFCode: "0407020A0AAA0A0", BNFName: strPtr("Morphine Sulf_Tab 10mg"), Items: int64Ptr(2)},
		{Practice: "N81013", BNFCode: "0407010H0AAAMAM"},
		{Practice: "Y05366", BNFCode: "0101010G0AAABAB"},
	}
	path := writeParquet(t, rows)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.NumRows() != 3 {
		t.Errorf("NumRows: got %d, want 3", r.NumRows())
	}

	got, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows: got %d, want 3", len(got))
	}
	if got[0].Practice != "N81013" || got[0].BNFCode != "0407020A0AAA0A0" {
		t.Errorf("row 0: %+v", got[0])
	}
	if got[2].Practice != "Y05366" {
		t.Errorf("row 2: %+v", got[2])
	}
}

func TestRead_EOF(t *testing.T) {
	path := writeParquet(t, []model.PrescriptionRow{{Practice: "A", BNFCode: "B"}})
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	buf := make([]model.PrescriptionRow, 4)
	n, err := r.Read(buf)
	if n != 1 {
		t.Errorf("n: got %d, want 1", n)
	}
	if err != nil && err != io.EOF {
		t.Errorf("unexpected error: %v", err)
	}
}

type practiceOnly struct {
	Practice string `parquet:"practice"`
	Items    int64  `parquet:"items"`
}

func TestOpen_MissingColumn(t *testing.T) {
	path := writeParquet(t, []practiceOnly{{Practice: "A", Items: 1}})
	if _, err := Open(path); err == nil {
		t.Fatal("expected schema validation error")
	}
}

func TestOpen_NotParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.parquet")
	if err := os.WriteFile(path, []byte("practice,bnf_code\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for non-parquet file")
	}
}
