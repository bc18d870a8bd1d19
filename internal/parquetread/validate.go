package parquetread

import (
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// RequiredColumns are the prescription columns the analysis joins on.
var RequiredColumns = []string{"practice", "bnf_code"}

// ValidateSchema checks that the Parquet schema carries every required
// column as a non-repeated leaf.
func ValidateSchema(schema *parquet.Schema) error {
	fields := make(map[string]parquet.Field)
	for _, field := range schema.Fields() {
		fields[field.Name()] = field
	}

	for _, col := range RequiredColumns {
		f, ok := fields[col]
		if !ok {
			return fmt.Errorf("missing required column: %s", col)
		}
		if !f.Leaf() || f.Repeated() {
			return fmt.Errorf("column %s must be a flat value", col)
		}
	}
	return nil
}
