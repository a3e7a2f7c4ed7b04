package csv

import (
	"bytes"
	gocsv "encoding/csv"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/RedoxBlot/pkg/blot"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/filter"
	"github.com/ChrisMcGann/RedoxBlot/pkg/proteome"
	"github.com/ChrisMcGann/RedoxBlot/pkg/solutionspace"
)

func lines(b *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

func records(t *testing.T, b *bytes.Buffer) [][]string {
	t.Helper()
	recs, err := gocsv.NewReader(bytes.NewReader(b.Bytes())).ReadAll()
	require.NoError(t, err)
	return recs
}

func number(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

func TestWriteCalibration(t *testing.T) {
	var buf bytes.Buffer
	model := core.CalibrationModel{Slope: -0.01, Intercept: 3, RSquared: 1, Markers: 2}
	require.NoError(t, WriteCalibration(&buf, model))
	assert.Equal(t, []string{"Slope,Intercept,R Squared,Markers", "-0.01,3,1,2"}, lines(&buf))

	buf.Reset()
	markers := []core.MarkerPoint{{WeightKDa: 100, Pixel: 100}, {WeightKDa: 10, Pixel: 200}}
	require.NoError(t, WriteMarkers(&buf, markers, model))
	recs := records(t, &buf)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Molecular Weight (kDa)", "Pixel", "Residual"}, recs[0])
	assert.Equal(t, []string{"100", "100"}, recs[1][:2])
	assert.Equal(t, []string{"10", "200"}, recs[2][:2])
	for _, r := range recs[1:] {
		assert.InDelta(t, 0, number(t, r[2]), 1e-12)
	}
}

func TestWriteCompositions(t *testing.T) {
	classes := []core.OxidationClass{{Label: "p0", Percent: 0}, {Label: "p50", Percent: 50}, {Label: "p100", Percent: 100}}
	comps := []core.Composition{
		{Classes: classes, Counts: []int{0, 4, 0}},
		{Classes: classes, Counts: []int{2, 0, 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCompositions(&buf, classes, comps))
	assert.Equal(t, []string{
		"p0,p50,p100,Weighted Average",
		"0,4,0,50",
		"2,0,2,50",
	}, lines(&buf))

	bad := []core.Composition{{Classes: classes[:2], Counts: []int{1, 1}}}
	assert.Error(t, WriteCompositions(&buf, classes, bad))
}

func TestWriteCompositionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	classes := []core.OxidationClass{{Label: "a"}, {Label: "b", Percent: 100}}
	require.NoError(t, WriteCompositions(&buf, classes, nil))
	assert.Equal(t, []string{"a,b,Weighted Average"}, lines(&buf))
}

func TestWriteTrace(t *testing.T) {
	huge, _ := new(big.Int).SetString("5487047088365540744742707079627776406541428871353977987282369670888329690160254744416", 10)
	trace := []solutionspace.TracePoint{
		{MoleculeCount: 1, SpaceSize: big.NewInt(6)},
		{MoleculeCount: 1000, SpaceSize: huge},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrace(&buf, trace))
	assert.Equal(t, []string{
		"Molecule Count,Solution Space Size",
		"1,6",
		"1000," + huge.String(),
	}, lines(&buf))
}

func TestWriteBands(t *testing.T) {
	mapper, err := blot.NewMapper(core.CalibrationModel{Slope: -0.01, Intercept: 3})
	require.NoError(t, err)
	bands, err := mapper.Simulate(10, 1, 90)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBands(&buf, bands))
	recs := records(t, &buf)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{
		"Label", "Oxidised", "Proteoforms", "Oxidation %", "Reduced %",
		"Molecular Weight (kDa)", "Pixel", "Intensity",
	}, recs[0])
	assert.Equal(t, []string{"100.0%", "0", "1", "0", "100"}, recs[1][:5])
	assert.Equal(t, []string{"0.0%", "1", "1", "100", "0"}, recs[2][:5])

	wantPixels := []float64{200, 100}
	wantIntensity := []float64{1, 0.5}
	for i, r := range recs[1:] {
		assert.InDelta(t, wantPixels[i], number(t, r[6]), 1e-9)
		assert.InDelta(t, wantIntensity[i], number(t, r[7]), 1e-12)
	}

	buf.Reset()
	markers, err := mapper.Markers([]float64{100, 10})
	require.NoError(t, err)
	require.NoError(t, WriteMarkerBands(&buf, markers))
	recs = records(t, &buf)
	require.Len(t, recs, 3)
	assert.Equal(t, "100", recs[1][0])
	assert.InDelta(t, 100, number(t, recs[1][1]), 1e-9)
	assert.InDelta(t, 200, number(t, recs[2][1]), 1e-9)
}

func TestWriteProteoforms(t *testing.T) {
	forms := []core.Proteoform{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	var buf bytes.Buffer
	require.NoError(t, WriteProteoforms(&buf, 2, forms))
	assert.Equal(t, []string{"C1,C2,Oxidised", "0,0,0", "1,0,1", "0,1,1", "1,1,2"}, lines(&buf))

	assert.Error(t, WriteProteoforms(&buf, 3, forms))
}

func TestWriteProteome(t *testing.T) {
	proteins := []core.ProteinSummary{
		{Accession: "A", Cysteines: 2, MassKDa: 40},
		{Accession: "B", Cysteines: 2, MassKDa: 190},
	}
	report, err := proteome.Amenability(proteins, filter.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteAmenability(&buf, report))
	assert.Equal(t, []string{"Cysteines,Proteins,Measurable,Percent", "2,2,1,50"}, lines(&buf))

	buf.Reset()
	require.NoError(t, WriteMeasurements(&buf, report.Measurable))
	assert.Equal(t, []string{"Accession,Cysteines,Reduced (kDa),Oxidised (kDa)", "A,2,40,50"}, lines(&buf))
}
