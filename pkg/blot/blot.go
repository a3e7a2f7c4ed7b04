// Package blot places reference ladder bands and simulated proteoform bands
// on the pixel axis of a gel image. Every position is derived from a single
// calibration model held by a Mapper, so marker and sample bands share the
// same scale.
package blot

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ChrisMcGann/RedoxBlot/pkg/calibration"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/proteoform"
)

// MarkerBand is a reference ladder band placed on the display axis.
type MarkerBand struct {
	WeightKDa float64
	Pixel     float64
}

// Band is one simulated band: all proteoforms with the same number of
// labelled (oxidised) cysteines migrate together.
type Band struct {
	Label            string   // Redox grade, the reduced percentage
	Oxidised         int      // Oxidised cysteines in this band
	Proteoforms      *big.Int // C(N, Oxidised)
	OxidationPercent float64  // 100*k/N
	ReducedPercent   float64  // 100*(N-k)/N
	WeightKDa        float64
	Pixel            float64
	Intensity        float64 // Relative band width in (0, 1]
}

// Mapper converts molecular weights to display positions.
type Mapper struct {
	model core.CalibrationModel
}

// NewMapper validates the model and returns a mapper that uses it for all
// positions.
func NewMapper(model core.CalibrationModel) (*Mapper, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if model.Slope == 0 {
		return nil, fmt.Errorf("%w: slope is zero", core.ErrDivisionByZero)
	}
	return &Mapper{model: model}, nil
}

// Model returns the calibration model behind the mapper.
func (m *Mapper) Model() core.CalibrationModel {
	return m.model
}

// Position returns the display pixel position of a band of the given weight.
func (m *Mapper) Position(weightKDa float64) (float64, error) {
	return calibration.PredictPixel(weightKDa, m.model)
}

// Markers places reference ladder bands.
func (m *Mapper) Markers(weights []float64) ([]MarkerBand, error) {
	bands := make([]MarkerBand, len(weights))
	for i, w := range weights {
		px, err := m.Position(w)
		if err != nil {
			return nil, fmt.Errorf("marker %v kDa: %w", w, err)
		}
		bands[i] = MarkerBand{WeightKDa: w, Pixel: px}
	}
	return bands, nil
}

// Simulate returns one band per oxidation count k = 0..cysteines of a protein
// with reduced mass massKDa. Band k runs at massKDa + k*shiftKDa, and its
// intensity falls linearly with k, from 1 for the fully reduced band to
// 1/(N+1) for the fully oxidised one.
func (m *Mapper) Simulate(massKDa float64, cysteines int, shiftKDa float64) ([]Band, error) {
	if cysteines < 0 {
		return nil, &core.ValidationError{
			Field:   "cysteines",
			Message: fmt.Sprintf("must be non-negative, got %d", cysteines),
		}
	}
	if math.IsNaN(shiftKDa) || math.IsInf(shiftKDa, 0) || shiftKDa < 0 {
		return nil, &core.ValidationError{
			Field:   "shift",
			Message: fmt.Sprintf("label shift must be non-negative and finite, got %v", shiftKDa),
		}
	}

	sizes := proteoform.GroupSizes(cysteines)
	bands := make([]Band, cysteines+1)
	for k := range bands {
		weight := core.OxidisedMassKDa(massKDa, k, shiftKDa)
		px, err := m.Position(weight)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", k, err)
		}
		ox := core.OxidationPercent(k, cysteines)
		bands[k] = Band{
			Label:            fmt.Sprintf("%.1f%%", 100-ox),
			Oxidised:         k,
			Proteoforms:      sizes[k],
			OxidationPercent: ox,
			ReducedPercent:   100 - ox,
			WeightKDa:        weight,
			Pixel:            px,
			Intensity:        float64(cysteines-k+1) / float64(cysteines+1),
		}
	}
	return bands, nil
}

// SimulateProtein is Simulate for a summarized protein sequence.
func (m *Mapper) SimulateProtein(p core.ProteinSummary, shiftKDa float64) ([]Band, error) {
	return m.Simulate(p.MassKDa, p.Cysteines, shiftKDa)
}
