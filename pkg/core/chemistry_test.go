package core

import (
	"math"
	"testing"
)

func TestCalculateNeutralMass(t *testing.T) {
	tests := []struct {
		name      string
		sequence  string
		wantMass  float64
		tolerance float64
	}{
		{
			name:      "simple tripeptide",
			sequence:  "AAA",
			wantMass:  231.121, // Approximate neutral mass
			tolerance: 0.1,
		},
		{
			name:      "cysteine tripeptide",
			sequence:  "CCC",
			wantMass:  327.038, // Approximate neutral mass
			tolerance: 0.1,
		},
		{
			name:      "unknown residues skipped",
			sequence:  "AXAXA",
			wantMass:  231.121,
			tolerance: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateNeutralMass(tt.sequence)
			if math.Abs(got-tt.wantMass) > tt.tolerance {
				t.Errorf("CalculateNeutralMass() = %.3f, want %.3f (within %.3f)", got, tt.wantMass, tt.tolerance)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name          string
		sequence      string
		wantLength    int
		wantCysteines int
	}{
		{"plain", "MCKCA", 5, 2},
		{"lower case and whitespace", "mck ca\nC\t", 6, 3},
		{"no cysteines", "MKA", 3, 0},
		{"empty", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize("P00000", tt.sequence)
			if got.Length != tt.wantLength {
				t.Errorf("Length = %d, want %d", got.Length, tt.wantLength)
			}
			if got.Cysteines != tt.wantCysteines {
				t.Errorf("Cysteines = %d, want %d", got.Cysteines, tt.wantCysteines)
			}
			wantMass := float64(tt.wantLength) * AverageResidueMassKDa
			if math.Abs(got.MassKDa-wantMass) > 1e-12 {
				t.Errorf("MassKDa = %f, want %f", got.MassKDa, wantMass)
			}
			if got.Accession != "P00000" {
				t.Errorf("Accession = %q", got.Accession)
			}
		})
	}
}

func TestSummarizeMonoisotopicMass(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		wantMass float64
	}{
		{"cysteine tripeptide", "ccc", 327.038},
		{"whitespace ignored", "A A\nA", 231.121},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize("P00000", tt.sequence)
			if math.Abs(got.MonoisotopicMassDa-tt.wantMass) > 0.01 {
				t.Errorf("MonoisotopicMassDa = %.3f, want %.3f", got.MonoisotopicMassDa, tt.wantMass)
			}
		})
	}
}

func TestOxidisedMassKDa(t *testing.T) {
	got := OxidisedMassKDa(36.0, 4, 5)
	if got != 56.0 {
		t.Errorf("OxidisedMassKDa() = %v, want 56", got)
	}
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		name      string
		val       float64
		precision int
		want      float64
	}{
		{"round to 2 decimals", 3.14159, 2, 3.14},
		{"round to 4 decimals", 3.14159, 4, 3.1416},
		{"round to 0 decimals", 3.6, 0, 4.0},
		{"round negative", -3.14159, 2, -3.14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundFloat(tt.val, tt.precision)
			if got != tt.want {
				t.Errorf("RoundFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}
