package model

// Substance is one entry of the chemical substance registry.
type Substance struct {
	ChemSub string // "CHEM SUB"
	Name    string // "NAME"
}

// FlaggedSubstance is a Substance with its opioid classification attached.
type FlaggedSubstance struct {
	Substance
	IsOpioid bool
}
