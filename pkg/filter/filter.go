// Package filter selects proteins whose redox proteoforms can be resolved on
// a gel after thiol labelling.
package filter

import (
	"fmt"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	MaxReducedKDa  float64 // Upper mass limit of the unlabelled protein (0 = no limit)
	MaxOxidisedKDa float64 // Upper mass limit with every cysteine labelled (0 = no limit)
	ShiftKDa       float64 // Label mass shift per cysteine
	MinCysteines   int     // Proteins with fewer cysteines are dropped
}

// DefaultConfig returns limits suited to a 4-15% gradient gel with a 5 kDa
// PEG label.
func DefaultConfig() Config {
	return Config{
		MaxReducedKDa:  150,
		MaxOxidisedKDa: 200,
		ShiftKDa:       5,
		MinCysteines:   1,
	}
}

// Measurement is a protein that passed the filter.
type Measurement struct {
	Protein     core.ProteinSummary
	ReducedKDa  float64
	OxidisedKDa float64
}

// Validate checks the configured limits.
func (c *Config) Validate() error {
	if c.MaxReducedKDa < 0 || c.MaxOxidisedKDa < 0 {
		return &core.ValidationError{Field: "filter.Config", Message: "mass limits must be non-negative"}
	}
	if c.ShiftKDa < 0 {
		return &core.ValidationError{Field: "filter.Config", Message: fmt.Sprintf("negative shift %v", c.ShiftKDa)}
	}
	return nil
}

// Measure reports whether a protein is measurable, along with its reduced and
// fully oxidised masses.
func (c *Config) Measure(p core.ProteinSummary) (Measurement, bool) {
	m := Measurement{
		Protein:     p,
		ReducedKDa:  p.MassKDa,
		OxidisedKDa: core.OxidisedMassKDa(p.MassKDa, p.Cysteines, c.ShiftKDa),
	}

	if p.Cysteines < c.MinCysteines {
		return m, false
	}
	if c.MaxReducedKDa > 0 && m.ReducedKDa > c.MaxReducedKDa {
		return m, false
	}
	if c.MaxOxidisedKDa > 0 && m.OxidisedKDa > c.MaxOxidisedKDa {
		return m, false
	}
	return m, true
}

// Apply returns the measurable proteins in input order.
func (c *Config) Apply(proteins []core.ProteinSummary) ([]Measurement, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var kept []Measurement
	for _, p := range proteins {
		if m, ok := c.Measure(p); ok {
			kept = append(kept, m)
		}
	}
	return kept, nil
}
