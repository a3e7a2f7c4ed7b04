// Package calibration fits and inverts the log-linear relation between the
// pixel position of a gel band and its molecular weight.
//
// A fit is an ordinary least-squares regression of log10(weight) on pixel
// position. The resulting core.CalibrationModel is immutable and is passed
// explicitly to every prediction.
package calibration

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// Fit performs a degree-1 least-squares fit of log10(weight) against pixel
// position. It needs at least two markers with distinct pixel positions.
func Fit(markers []core.MarkerPoint) (core.CalibrationModel, error) {
	var model core.CalibrationModel

	if len(markers) < 2 {
		return model, fmt.Errorf("%w: need at least 2 markers, got %d",
			core.ErrInsufficientData, len(markers))
	}

	pixels := make([]float64, len(markers))
	logWeights := make([]float64, len(markers))
	for i, m := range markers {
		if err := m.Validate(); err != nil {
			return model, fmt.Errorf("marker %d: %w", i, err)
		}
		pixels[i] = m.Pixel
		logWeights[i] = math.Log10(m.WeightKDa)
	}

	if !hasDistinct(pixels) {
		return model, fmt.Errorf("%w: all %d markers share pixel position %v",
			core.ErrDegenerateFit, len(markers), pixels[0])
	}

	intercept, slope := stat.LinearRegression(pixels, logWeights, nil, false)
	model = core.CalibrationModel{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  stat.RSquared(pixels, logWeights, nil, intercept, slope),
		Markers:   len(markers),
	}
	if err := model.Validate(); err != nil {
		return core.CalibrationModel{}, err
	}
	return model, nil
}

// PredictWeight returns the molecular weight (kDa) of a band at the given
// pixel position. Extrapolation outside the ladder is not checked.
func PredictWeight(pixel float64, model core.CalibrationModel) (float64, error) {
	if err := model.Validate(); err != nil {
		return 0, err
	}
	return math.Pow(10, model.Slope*pixel+model.Intercept), nil
}

// PredictPixel returns the pixel position at which a band of the given
// molecular weight (kDa) is expected.
func PredictPixel(weightKDa float64, model core.CalibrationModel) (float64, error) {
	if err := model.Validate(); err != nil {
		return 0, err
	}
	if model.Slope == 0 {
		return 0, fmt.Errorf("%w: slope is zero", core.ErrDivisionByZero)
	}
	if math.IsNaN(weightKDa) || math.IsInf(weightKDa, 0) || weightKDa <= 0 {
		return 0, &core.ValidationError{
			Field:   "weight",
			Message: fmt.Sprintf("molecular weight must be positive and finite, got %v", weightKDa),
		}
	}
	return (math.Log10(weightKDa) - model.Intercept) / model.Slope, nil
}

// Residuals returns observed minus fitted log10(weight) for each marker.
func Residuals(markers []core.MarkerPoint, model core.CalibrationModel) []float64 {
	res := make([]float64, len(markers))
	for i, m := range markers {
		res[i] = math.Log10(m.WeightKDa) - (model.Slope*m.Pixel + model.Intercept)
	}
	return res
}

func hasDistinct(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return true
		}
	}
	return false
}
