package output

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/opioidstats/internal/model"
)

var sample = []model.AnomalyResult{
	{
		Practice: model.Practice{
			Code: "N81013", Name: "SMITH, JONES & PARTNERS", Addr1: "1 HIGH ST",
			Addr2: "", Borough: "CREWE", Village: "CHESHIRE", PostCode: "CW1 2AB",
		},
		ZScore: 4.25,
		Count:  120,
	},
	{
		Practice: model.Practice{Code: "Y05366", Name: "WALK-IN CENTRE"},
		ZScore:   math.Inf(1),
		Count:    51,
	},
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "code,name,addr_1,addr_2,borough,village,post_code,z_scores,count\n" +
		"N81013,\"SMITH, JONES & PARTNERS\",1 HIGH ST,,CREWE,CHESHIRE,CW1 2AB,4.25,120\n" +
		"Y05366,WALK-IN CENTRE,,,,,,inf,51\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "code,name,addr_1,addr_2,borough,village,post_code,z_scores,count\n" {
		t.Errorf("empty report should be header only, got %q", got)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3.5, "3.5"},
		{math.Sqrt2, "1.4142135623730951"},
		{-2, "-2"},
		{1e21, "1000000000000000000000"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), ""},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "practices_flagged.csv")

	if err := WriteCSV(path, sample); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	Write(&buf, sample)
	if !bytes.Equal(data, buf.Bytes()) {
		t.Errorf("file content differs from Write output")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestWriteCSV_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.csv")
	if err := WriteCSV(path, sample); err == nil {
		t.Fatal("expected error")
	}
}
