// Package proteome summarizes how much of a proteome can be studied by
// redox immunoblotting, grouped by cysteine count.
package proteome

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/filter"
)

// MergeFrom is the smallest cysteine count folded into the open-ended class.
const MergeFrom = 50

// ClassShare is the measurable fraction of one cysteine-count class.
type ClassShare struct {
	Class      string // Cysteine count, or "50+"
	Total      int
	Measurable int
	Percent    float64
}

// Report is the outcome of an amenability analysis.
type Report struct {
	Measurable []filter.Measurement
	Classes    []ClassShare
}

// Amenability filters proteins with cfg and returns the percentage of
// measurable proteins per cysteine count. Proteins without cysteines are not
// counted. Classes from MergeFrom upwards are reported as one class whose
// percentage is the mean of the member class percentages.
func Amenability(proteins []core.ProteinSummary, cfg filter.Config) (*Report, error) {
	measurable, err := cfg.Apply(proteins)
	if err != nil {
		return nil, fmt.Errorf("failed to filter proteins: %w", err)
	}

	totals := make(map[int]int)
	for _, p := range proteins {
		if p.Cysteines > 0 {
			totals[p.Cysteines]++
		}
	}
	kept := make(map[int]int)
	for _, m := range measurable {
		kept[m.Protein.Cysteines]++
	}

	counts := make([]int, 0, len(totals))
	for c := range totals {
		counts = append(counts, c)
	}
	sort.Ints(counts)

	report := &Report{Measurable: measurable}
	merged := ClassShare{Class: strconv.Itoa(MergeFrom) + "+"}
	mergedClasses := 0
	for _, c := range counts {
		share := ClassShare{
			Class:      strconv.Itoa(c),
			Total:      totals[c],
			Measurable: kept[c],
			Percent:    100 * float64(kept[c]) / float64(totals[c]),
		}
		if c < MergeFrom {
			report.Classes = append(report.Classes, share)
			continue
		}
		merged.Total += share.Total
		merged.Measurable += share.Measurable
		merged.Percent += share.Percent
		mergedClasses++
	}
	if mergedClasses > 0 {
		merged.Percent /= float64(mergedClasses)
		report.Classes = append(report.Classes, merged)
	}
	return report, nil
}
