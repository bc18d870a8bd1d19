// mkfixture writes a small synthetic prescribing extract for local runs.
// A handful of practices are seeded with a high opioid share so the report is
// never empty at the default cutoffs.
// Usage: go run ./cmd/mkfixture --out dw-data --practices 300 --rows 120 --parquet
package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/opioidstats/internal/config"
	"github.com/gyeh/opioidstats/internal/model"
)

type substance struct {
	code   string
	name   string
	opioid bool
}

var substances = []substance{
	{"0407020A0", "Morphine Sulfate", true},
	{"0407020Q0", "Oxycodone HCl", true},
	{"0410030A0", "Methadone HCl", true},
	{"0407020T0", "Fentanyl", true},
	{"0407020C0", "Codeine Phosphate", true},
	{"0407020B0", "Buprenorphine HCl", true},
	{"0407010H0", "Paracetamol", false},
	{"0101010G0", "Co-Magaldrox(Magnesium/Aluminium Hydrox)", false},
	{"0212000B0", "Atorvastatin", false},
	{"0601022B0", "Metformin HCl", false},
	{"0206020A0", "Amlodipine", false},
	{"1001010J0", "Ibuprofen", false},
}

func main() {
	out := flag.String("out", config.DefaultDataDir, "output directory")
	numPractices := flag.Int("practices", 300, "number of practices")
	rowsPer := flag.Int("rows", 120, "mean prescription rows per practice")
	hot := flag.Int("hot", 5, "practices seeded with a high opioid share")
	seed := flag.Uint64("seed", 1, "random seed")
	asParquet := flag.Bool("parquet", false, "write prescriptions as Parquet instead of gzipped CSV")
	flag.Parse()

	if err := os.MkdirAll(*out, 0755); err != nil {
		fail("create output dir", err)
	}
	rng := rand.New(rand.NewPCG(*seed, *seed))

	var opioids, others []substance
	for _, s := range substances {
		if s.opioid {
			opioids = append(opioids, s)
		} else {
			others = append(others, s)
		}
	}

	// Practice directory, with one historical duplicate for every tenth code.
	var practices [][]string
	codes := make([]string, *numPractices)
	for i := range codes {
		codes[i] = fmt.Sprintf("P%05d", 81000+i)
		row := []string{codes[i], fmt.Sprintf("PRACTICE %05d", i), fmt.Sprintf("%d HIGH STREET", i+1), "",
			"BOROUGH", "COUNTY", fmt.Sprintf("AB%d %dCD", i%90+1, i%9+1)}
		practices = append(practices, row)
		if i%10 == 0 {
			dup := append([]string(nil), row...)
			dup[1] = "ZZ FORMER " + row[1]
			practices = append(practices, dup)
		}
	}

	var rows []model.PrescriptionRow
	for i, code := range codes {
		share := 0.04
		if i < *hot {
			share = 0.6
		}
		n := *rowsPer/2 + rng.IntN(*rowsPer+1)
		for j := 0; j < n; j++ {
			s := others[rng.IntN(len(others))]
			if rng.Float64() < share {
				s = opioids[rng.IntN(len(opioids))]
			}
			name := s.name
			items := int64(1 + rng.IntN(5))
			rows = append(rows, model.PrescriptionRow{
				Practice: code,
				BNFCode:  s.code,
				BNFName:  &name,
				Items:    &items,
			})
		}
	}

	// Registry, with a duplicate code whose later-sorting name must lose.
	chem := [][]string{{"CHEM SUB", "NAME"}}
	for _, s := range substances {
		chem = append(chem, []string{s.code, s.name})
	}
	chem = append(chem, []string{"0407010H0", "Zz Paracetamol/Codeine (retired)"})

	if err := writeGzipCSV(filepath.Join(*out, config.DefaultPractices), practices); err != nil {
		fail("write practices", err)
	}
	if err := writeGzipCSV(filepath.Join(*out, config.DefaultSubstances), chem); err != nil {
		fail("write chem", err)
	}

	scriptsPath := filepath.Join(*out, config.DefaultPrescriptions)
	if *asParquet {
		scriptsPath = filepath.Join(*out, "scripts.parquet")
		if err := writeParquet(scriptsPath, rows); err != nil {
			fail("write prescriptions", err)
		}
	} else {
		recs := [][]string{{"practice", "bnf_code", "bnf_name", "items"}}
		for _, r := range rows {
			recs = append(recs, []string{r.Practice, r.BNFCode, *r.BNFName, fmt.Sprint(*r.Items)})
		}
		if err := writeGzipCSV(scriptsPath, recs); err != nil {
			fail("write prescriptions", err)
		}
	}

	fmt.Printf("Wrote %d practices (%d directory rows), %d prescriptions to %s\n",
		len(codes), len(practices), len(rows), *out)
	fmt.Printf("Prescriptions: %s\n", scriptsPath)
}

func writeGzipCSV(path string, recs [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	zw := gzip.NewWriter(bw)
	cw := csv.NewWriter(zw)
	if err := cw.WriteAll(recs); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func writeParquet(path string, rows []model.PrescriptionRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := goparquet.NewGenericWriter[model.PrescriptionRow](f)
	if _, err := w.Write(rows); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}
