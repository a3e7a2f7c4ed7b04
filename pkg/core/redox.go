// Package core provides the value types shared by the calibration and redox
// proteoform engines, along with input validation and chemistry helpers.
package core

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// MarkerPoint is one band of a molecular weight ladder.
type MarkerPoint struct {
	WeightKDa float64 // Nominal molecular weight
	Pixel     float64 // Observed position on the gel image
}

// Validate checks that the marker can take part in a log-linear fit.
func (m MarkerPoint) Validate() error {
	if math.IsNaN(m.WeightKDa) || math.IsInf(m.WeightKDa, 0) || m.WeightKDa <= 0 {
		return &ValidationError{
			Field:   "MarkerPoint",
			Message: fmt.Sprintf("molecular weight must be positive and finite, got %v", m.WeightKDa),
		}
	}
	if math.IsNaN(m.Pixel) || math.IsInf(m.Pixel, 0) {
		return &ValidationError{
			Field:   "MarkerPoint",
			Message: fmt.Sprintf("pixel position must be finite, got %v", m.Pixel),
		}
	}
	return nil
}

// CalibrationModel is the fitted relation
//
//	log10(weight) = Slope*pixel + Intercept
type CalibrationModel struct {
	Slope     float64
	Intercept float64
	RSquared  float64 // Coefficient of determination of the fit
	Markers   int     // Number of markers used for the fit
}

// Validate reports whether the model may be used for predictions.
func (m CalibrationModel) Validate() error {
	for _, v := range []float64{m.Slope, m.Intercept} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite coefficient (slope %v, intercept %v)",
				ErrDegenerateFit, m.Slope, m.Intercept)
		}
	}
	return nil
}

// Proteoform is a binary oxidation state vector over cysteine sites.
// 1 marks an oxidised site, 0 a reduced one.
type Proteoform []uint8

// Oxidised returns the number of oxidised sites (the Hamming weight).
func (p Proteoform) Oxidised() int {
	n := 0
	for _, s := range p {
		if s != 0 {
			n++
		}
	}
	return n
}

// Sites returns the indices of oxidised sites in ascending order.
func (p Proteoform) Sites() []int {
	var sites []int
	for i, s := range p {
		if s != 0 {
			sites = append(sites, i)
		}
	}
	return sites
}

// String returns the state vector as a string of 0s and 1s.
func (p Proteoform) String() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, s := range p {
		if s != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ProteoformGroup holds all proteoforms with the same oxidation count.
type ProteoformGroup struct {
	Oxidised int
	Sites    int
	Members  []Proteoform
}

// Percent returns the redox percentage of the group, 100*k/N.
// A protein without cysteines is reported as 0%.
func (g ProteoformGroup) Percent() float64 {
	return OxidationPercent(g.Oxidised, g.Sites)
}

// OxidationPercent returns 100*k/n, or 0 when n is 0.
func OxidationPercent(k, n int) float64 {
	if n == 0 {
		return 0
	}
	return 100 * float64(k) / float64(n)
}

// OxidationClass is a discrete redox state with its percentage.
type OxidationClass struct {
	Label   string
	Percent float64
}

// Composition assigns a molecule count to each class of a search. Classes is
// shared between all compositions of one search and must not be modified.
type Composition struct {
	Classes []OxidationClass
	Counts  []int
}

// Total returns the number of molecules in the composition.
func (c Composition) Total() int {
	total := 0
	for _, n := range c.Counts {
		total += n
	}
	return total
}

// WeightedAverage returns sum(percent*count)/total, or NaN for an empty composition.
func (c Composition) WeightedAverage() float64 {
	total := c.Total()
	if total == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i, n := range c.Counts {
		sum += c.Classes[i].Percent * float64(n)
	}
	return sum / float64(total)
}

// Count returns the molecule count of the class with the given label.
func (c Composition) Count(label string) (int, bool) {
	for i, cl := range c.Classes {
		if cl.Label == label {
			return c.Counts[i], true
		}
	}
	return 0, false
}

// String returns the composition in format "label=count;label=count;..."
func (c Composition) String() string {
	parts := make([]string, len(c.Counts))
	for i, n := range c.Counts {
		parts[i] = fmt.Sprintf("%s=%d", c.Classes[i].Label, n)
	}
	return strings.Join(parts, ";")
}

// SolutionSpaceEstimate is the number of ways to distribute MoleculeCount
// indistinguishable molecules over ClassCount classes.
type SolutionSpaceEstimate struct {
	MoleculeCount int
	ClassCount    int
	SpaceSize     *big.Int
}

// ProteinSummary holds the scalars the engine needs from a protein sequence.
type ProteinSummary struct {
	Accession string
	Length    int     // Residues
	Cysteines int     // Cysteine residue count
	MassKDa   float64 // Average mass estimate

	// Monoisotopic neutral mass from the residue compositions, in Da.
	// Zero when only length and cysteine count are known.
	MonoisotopicMassDa float64
}
