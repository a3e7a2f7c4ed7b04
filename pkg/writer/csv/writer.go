// Package csv writes analysis records as comma separated tables.
package csv

import (
	gocsv "encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ChrisMcGann/RedoxBlot/pkg/blot"
	"github.com/ChrisMcGann/RedoxBlot/pkg/calibration"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/filter"
	"github.com/ChrisMcGann/RedoxBlot/pkg/proteome"
	"github.com/ChrisMcGann/RedoxBlot/pkg/solutionspace"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeTable writes a header and rows, then flushes.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	cw := gocsv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteCalibration writes the model coefficients as a single row.
func WriteCalibration(w io.Writer, model core.CalibrationModel) error {
	return writeTable(w,
		[]string{"Slope", "Intercept", "R Squared", "Markers"},
		[][]string{{
			formatFloat(model.Slope),
			formatFloat(model.Intercept),
			formatFloat(model.RSquared),
			strconv.Itoa(model.Markers),
		}})
}

// WriteMarkers writes each marker with its residual against the model.
func WriteMarkers(w io.Writer, markers []core.MarkerPoint, model core.CalibrationModel) error {
	residuals := calibration.Residuals(markers, model)
	rows := make([][]string, len(markers))
	for i, m := range markers {
		rows[i] = []string{formatFloat(m.WeightKDa), formatFloat(m.Pixel), formatFloat(residuals[i])}
	}
	return writeTable(w, []string{"Molecular Weight (kDa)", "Pixel", "Residual"}, rows)
}

// WriteCompositions writes one row per composition with a column per class
// label followed by the weighted average.
func WriteCompositions(w io.Writer, classes []core.OxidationClass, comps []core.Composition) error {
	header := make([]string, 0, len(classes)+1)
	for _, c := range classes {
		header = append(header, c.Label)
	}
	header = append(header, "Weighted Average")

	rows := make([][]string, len(comps))
	for i, c := range comps {
		if len(c.Counts) != len(classes) {
			return fmt.Errorf("composition %d has %d counts, want %d", i, len(c.Counts), len(classes))
		}
		row := make([]string, 0, len(header))
		for _, n := range c.Counts {
			row = append(row, strconv.Itoa(n))
		}
		rows[i] = append(row, formatFloat(c.WeightedAverage()))
	}
	return writeTable(w, header, rows)
}

// WriteTrace writes the steps of a threshold search.
func WriteTrace(w io.Writer, trace []solutionspace.TracePoint) error {
	rows := make([][]string, len(trace))
	for i, p := range trace {
		rows[i] = []string{strconv.Itoa(p.MoleculeCount), p.SpaceSize.String()}
	}
	return writeTable(w, []string{"Molecule Count", "Solution Space Size"}, rows)
}

// WriteBands writes simulated bands in oxidation order.
func WriteBands(w io.Writer, bands []blot.Band) error {
	rows := make([][]string, len(bands))
	for i, b := range bands {
		rows[i] = []string{
			b.Label,
			strconv.Itoa(b.Oxidised),
			b.Proteoforms.String(),
			formatFloat(b.OxidationPercent),
			formatFloat(b.ReducedPercent),
			formatFloat(b.WeightKDa),
			formatFloat(b.Pixel),
			formatFloat(b.Intensity),
		}
	}
	return writeTable(w, []string{
		"Label", "Oxidised", "Proteoforms", "Oxidation %", "Reduced %",
		"Molecular Weight (kDa)", "Pixel", "Intensity",
	}, rows)
}

// WriteMarkerBands writes ladder band positions.
func WriteMarkerBands(w io.Writer, bands []blot.MarkerBand) error {
	rows := make([][]string, len(bands))
	for i, b := range bands {
		rows[i] = []string{formatFloat(b.WeightKDa), formatFloat(b.Pixel)}
	}
	return writeTable(w, []string{"Molecular Weight (kDa)", "Pixel"}, rows)
}

// WriteProteoforms writes the proteoform matrix: one row per proteoform and
// one 0/1 column per cysteine site.
func WriteProteoforms(w io.Writer, sites int, proteoforms []core.Proteoform) error {
	header := make([]string, 0, sites+1)
	for i := 1; i <= sites; i++ {
		header = append(header, "C"+strconv.Itoa(i))
	}
	header = append(header, "Oxidised")

	rows := make([][]string, len(proteoforms))
	for i, p := range proteoforms {
		if len(p) != sites {
			return fmt.Errorf("proteoform %d has %d sites, want %d", i, len(p), sites)
		}
		row := make([]string, 0, len(header))
		for _, s := range p {
			row = append(row, strconv.Itoa(int(s)))
		}
		rows[i] = append(row, strconv.Itoa(p.Oxidised()))
	}
	return writeTable(w, header, rows)
}

// WriteMeasurements writes proteins that passed the measurability filter.
func WriteMeasurements(w io.Writer, ms []filter.Measurement) error {
	rows := make([][]string, len(ms))
	for i, m := range ms {
		rows[i] = []string{
			m.Protein.Accession,
			strconv.Itoa(m.Protein.Cysteines),
			formatFloat(m.ReducedKDa),
			formatFloat(m.OxidisedKDa),
		}
	}
	return writeTable(w, []string{"Accession", "Cysteines", "Reduced (kDa)", "Oxidised (kDa)"}, rows)
}

// WriteAmenability writes the per-class shares of a report.
func WriteAmenability(w io.Writer, report *proteome.Report) error {
	rows := make([][]string, len(report.Classes))
	for i, c := range report.Classes {
		rows[i] = []string{c.Class, strconv.Itoa(c.Total), strconv.Itoa(c.Measurable), formatFloat(c.Percent)}
	}
	return writeTable(w, []string{"Cysteines", "Proteins", "Measurable", "Percent"}, rows)
}
