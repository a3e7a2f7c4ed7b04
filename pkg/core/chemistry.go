package core

import (
	"math"
	"strings"
	"unicode"
)

// Atomic masses (monoisotopic)
const (
	MassH = 1.0078250321
	MassC = 12.0000000000
	MassN = 14.0030740052
	MassO = 15.9949146221
	MassS = 31.9720706900

	// Average residue mass used for quick protein mass estimates
	AverageResidueMassKDa = 0.110
)

// AminoAcidComposition stores elemental composition
type AminoAcidComposition struct {
	C, H, N, O, S int
}

// AminoAcidMasses maps amino acid one-letter codes to elemental composition
var AminoAcidMasses = map[rune]AminoAcidComposition{
	'A': {C: 3, H: 5, N: 1, O: 1, S: 0},
	'R': {C: 6, H: 12, N: 4, O: 1, S: 0},
	'N': {C: 4, H: 6, N: 2, O: 2, S: 0},
	'D': {C: 4, H: 5, N: 1, O: 3, S: 0},
	'C': {C: 3, H: 5, N: 1, O: 1, S: 1},
	'E': {C: 5, H: 7, N: 1, O: 3, S: 0},
	'Q': {C: 5, H: 8, N: 2, O: 2, S: 0},
	'G': {C: 2, H: 3, N: 1, O: 1, S: 0},
	'H': {C: 6, H: 7, N: 3, O: 1, S: 0},
	'I': {C: 6, H: 11, N: 1, O: 1, S: 0},
	'L': {C: 6, H: 11, N: 1, O: 1, S: 0},
	'K': {C: 6, H: 12, N: 2, O: 1, S: 0},
	'M': {C: 5, H: 9, N: 1, O: 1, S: 1},
	'F': {C: 9, H: 9, N: 1, O: 1, S: 0},
	'P': {C: 5, H: 7, N: 1, O: 1, S: 0},
	'S': {C: 3, H: 5, N: 1, O: 2, S: 0},
	'T': {C: 4, H: 7, N: 1, O: 2, S: 0},
	'W': {C: 11, H: 10, N: 2, O: 1, S: 0},
	'Y': {C: 9, H: 9, N: 1, O: 2, S: 0},
	'V': {C: 5, H: 9, N: 1, O: 1, S: 0},
}

// CalculateNeutralMass computes the neutral monoisotopic mass of a protein
// sequence in Da. Residues without a known composition are skipped.
func CalculateNeutralMass(sequence string) float64 {
	comp := AminoAcidComposition{C: 0, H: 2, N: 0, O: 1, S: 0} // Add water

	for _, aa := range sequence {
		if aaComp, ok := AminoAcidMasses[aa]; ok {
			comp.C += aaComp.C
			comp.H += aaComp.H
			comp.N += aaComp.N
			comp.O += aaComp.O
			comp.S += aaComp.S
		}
	}

	return float64(comp.C)*MassC +
		float64(comp.H)*MassH +
		float64(comp.N)*MassN +
		float64(comp.O)*MassO +
		float64(comp.S)*MassS
}

// EstimateMassKDa estimates a protein mass from its length alone.
func EstimateMassKDa(length int) float64 {
	return float64(length) * AverageResidueMassKDa
}

// CountCysteines returns the number of cysteine residues in a sequence.
func CountCysteines(sequence string) int {
	return strings.Count(strings.ToUpper(sequence), "C")
}

// NormalizeSequence uppercases a sequence and drops whitespace and digits.
func NormalizeSequence(sequence string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsDigit(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, sequence)
}

// Summarize derives the scalars used by the redox engine from a sequence.
func Summarize(accession, sequence string) ProteinSummary {
	seq := NormalizeSequence(sequence)
	s := ProteinSummary{
		Accession: accession,
		Length:    len(seq),
		Cysteines: CountCysteines(seq),
		MassKDa:   EstimateMassKDa(len(seq)),
	}
	if len(seq) > 0 {
		s.MonoisotopicMassDa = CalculateNeutralMass(seq)
	}
	return s
}

// OxidisedMassKDa returns the mass of a protein with every cysteine labelled.
func OxidisedMassKDa(reducedKDa float64, cysteines int, shiftKDa float64) float64 {
	return reducedKDa + float64(cysteines)*shiftKDa
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
