package blot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/RedoxBlot/pkg/calibration"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// log10(w) = -0.01*p + 3
var exactModel = core.CalibrationModel{Slope: -0.01, Intercept: 3}

func TestNewMapperRejectsBadModel(t *testing.T) {
	_, err := NewMapper(core.CalibrationModel{Slope: math.NaN()})
	assert.ErrorIs(t, err, core.ErrDegenerateFit)

	_, err = NewMapper(core.CalibrationModel{Slope: 0, Intercept: 2})
	assert.ErrorIs(t, err, core.ErrDivisionByZero)
}

func TestMapperPosition(t *testing.T) {
	m, err := NewMapper(exactModel)
	require.NoError(t, err)
	assert.Equal(t, exactModel, m.Model())

	px, err := m.Position(100)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, px, 1e-9)

	want, err := calibration.PredictPixel(37, exactModel)
	require.NoError(t, err)
	got, err := m.Position(37)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = m.Position(-1)
	assert.Error(t, err)
}

func TestMarkers(t *testing.T) {
	m, err := NewMapper(exactModel)
	require.NoError(t, err)

	bands, err := m.Markers([]float64{1000, 100, 10})
	require.NoError(t, err)
	require.Len(t, bands, 3)
	for i, want := range []float64{0, 100, 200} {
		assert.InDelta(t, want, bands[i].Pixel, 1e-9)
	}

	_, err = m.Markers([]float64{50, 0})
	assert.Error(t, err)
}

func TestSimulate(t *testing.T) {
	m, err := NewMapper(exactModel)
	require.NoError(t, err)

	bands, err := m.Simulate(10, 2, 90)
	require.NoError(t, err)
	require.Len(t, bands, 3)

	wantWeights := []float64{10, 100, 190}
	wantPixels := []float64{200, 100, 72.12463990471711}
	wantIntensity := []float64{1, 2.0 / 3, 1.0 / 3}
	wantOx := []float64{0, 50, 100}
	wantProteoforms := []int64{1, 2, 1}

	for k, b := range bands {
		assert.Equal(t, k, b.Oxidised)
		assert.InDelta(t, wantWeights[k], b.WeightKDa, 1e-9)
		assert.InDelta(t, wantPixels[k], b.Pixel, 1e-6)
		assert.InDelta(t, wantIntensity[k], b.Intensity, 1e-12)
		assert.InDelta(t, wantOx[k], b.OxidationPercent, 1e-12)
		assert.InDelta(t, 100-wantOx[k], b.ReducedPercent, 1e-12)
		assert.Equal(t, wantProteoforms[k], b.Proteoforms.Int64())
	}
	assert.Equal(t, "50.0%", bands[1].Label)
}

func TestSimulateSharesMarkerScale(t *testing.T) {
	model, err := calibration.Fit([]core.MarkerPoint{
		{WeightKDa: 250, Pixel: 10},
		{WeightKDa: 100, Pixel: 70},
		{WeightKDa: 50, Pixel: 130},
		{WeightKDa: 15, Pixel: 250},
	})
	require.NoError(t, err)
	m, err := NewMapper(model)
	require.NoError(t, err)

	bands, err := m.Simulate(40, 2, 5)
	require.NoError(t, err)
	markers, err := m.Markers([]float64{50})
	require.NoError(t, err)

	// The 2x oxidised band weighs 50 kDa and must sit on the 50 kDa marker.
	assert.InDelta(t, markers[0].Pixel, bands[2].Pixel, 1e-9)
	// Heavier bands migrate less when the slope is negative.
	assert.Less(t, bands[2].Pixel, bands[0].Pixel)
}

func TestSimulateNoCysteines(t *testing.T) {
	m, err := NewMapper(exactModel)
	require.NoError(t, err)

	bands, err := m.SimulateProtein(core.ProteinSummary{MassKDa: 100, Cysteines: 0}, 5)
	require.NoError(t, err)
	require.Len(t, bands, 1)
	assert.Equal(t, 1.0, bands[0].Intensity)
	assert.Equal(t, 0.0, bands[0].OxidationPercent)
	assert.Equal(t, 100.0, bands[0].ReducedPercent)
}

func TestSimulateInvalid(t *testing.T) {
	m, err := NewMapper(exactModel)
	require.NoError(t, err)

	_, err = m.Simulate(10, -1, 5)
	assert.Error(t, err)
	_, err = m.Simulate(10, 2, -5)
	assert.Error(t, err)
	_, err = m.Simulate(0, 2, 0)
	assert.Error(t, err)
}

func TestSimulateLabelsRedoxGrade(t *testing.T) {
	m, err := NewMapper(exactModel)
	require.NoError(t, err)

	bands, err := m.Simulate(20, 4, 5)
	require.NoError(t, err)

	got := make([]string, len(bands))
	for i, b := range bands {
		got[i] = b.Label
	}
	assert.Equal(t, []string{"100.0%", "75.0%", "50.0%", "25.0%", "0.0%"}, got)

	bands, err = m.Simulate(20, 0, 5)
	require.NoError(t, err)
	require.Len(t, bands, 1)
	assert.Equal(t, "100.0%", bands[0].Label)
}
