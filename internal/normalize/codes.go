package normalize

// ChemicalSubstanceLen is the length of the chemical-substance segment at the
// start of a 15-character BNF presentation code.
const ChemicalSubstanceLen = 9

// ChemicalPrefix returns the chemical-substance segment of a BNF code.
// Codes shorter than the segment are returned unchanged.
func ChemicalPrefix(bnfCode string) string {
	if len(bnfCode) <= ChemicalSubstanceLen {
		return bnfCode
	}
	return bnfCode[:ChemicalSubstanceLen]
}
