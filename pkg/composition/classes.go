package composition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// UniformClasses returns n classes evenly spaced from 0% to 100%, labelled
// by their percentage ("p0", "p20", ..., "p100" for n=6). A single class
// sits at 0%.
func UniformClasses(n int) ([]core.OxidationClass, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least one class, got %d",
			core.ErrInvalidSearchParameters, n)
	}
	classes := make([]core.OxidationClass, n)
	for i := range classes {
		pct := 0.0
		if n > 1 {
			pct = 100 * float64(i) / float64(n-1)
		}
		classes[i] = core.OxidationClass{
			Label:   "p" + strconv.FormatFloat(core.RoundFloat(pct, 2), 'f', -1, 64),
			Percent: pct,
		}
	}
	return classes, nil
}

// CysteineClasses returns one class per oxidation count of a protein with the
// given number of cysteines, with percentage 100*k/cysteines.
func CysteineClasses(cysteines int) ([]core.OxidationClass, error) {
	if cysteines < 1 {
		return nil, fmt.Errorf("%w: need at least one cysteine, got %d",
			core.ErrInvalidSearchParameters, cysteines)
	}
	classes := make([]core.OxidationClass, cysteines+1)
	for k := range classes {
		classes[k] = core.OxidationClass{
			Label:   fmt.Sprintf("ox%d", k),
			Percent: core.OxidationPercent(k, cysteines),
		}
	}
	return classes, nil
}

// ParseClasses parses a comma-separated class list. Entries are either a bare
// percentage ("20") or "label=percentage" ("beta=20"). Bare entries are
// labelled like UniformClasses.
func ParseClasses(s string) ([]core.OxidationClass, error) {
	var classes []core.OxidationClass
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		label, value, named := strings.Cut(part, "=")
		if !named {
			value = label
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("class %d: invalid percentage '%s': %w", i+1, value, err)
		}
		if named {
			label = strings.TrimSpace(label)
		} else {
			label = "p" + strconv.FormatFloat(pct, 'f', -1, 64)
		}
		classes = append(classes, core.OxidationClass{Label: label, Percent: pct})
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: no classes in %q", core.ErrInvalidSearchParameters, s)
	}
	return classes, nil
}
