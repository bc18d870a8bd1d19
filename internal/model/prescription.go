package model

// PrescriptionRow mirrors the Parquet schema for a single dispensed item.
// Only Practice and BNFCode take part in the analysis.
type PrescriptionRow struct {
	Practice string   `parquet:"practice"`
	BNFCode  string   `parquet:"bnf_code"`
	BNFName  *string  `parquet:"bnf_name,optional"`
	Items    *int64   `parquet:"items,optional"`
	NIC      *float64 `parquet:"nic,optional"`
	ActCost  *float64 `parquet:"act_cost,optional"`
	Quantity *int64   `parquet:"quantity,optional"`
}

// Prescription is one dispensed item attributed to a practice.
type Prescription struct {
	Practice string // practice code
	BNFCode  string // substance code, joined against Substance.ChemSub
}

// ToPrescription drops the columns the analysis never reads.
func (r *PrescriptionRow) ToPrescription() Prescription {
	return Prescription{Practice: r.Practice, BNFCode: r.BNFCode}
}
