package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/RedoxBlot/pkg/calibration"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/reader/markers"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/csv"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/sqlite"
)

var (
	// Flags for calibrate command
	calMarkersFile string
	calLadder      string
	calPixels      []float64
	calWeights     []float64
	calOut         string
	calCSV         string
)

func init() {
	calibrateCmd.Flags().StringVarP(&calMarkersFile, "markers", "m", "", "Marker ladder CSV (weight_kda,pixel)")
	calibrateCmd.Flags().StringVar(&calLadder, "ladder", "", "Inline marker ladder, e.g. '250:10,150:40,100:75'")
	calibrateCmd.Flags().Float64SliceVar(&calPixels, "pixel", nil, "Pixel positions to convert to molecular weight")
	calibrateCmd.Flags().Float64SliceVar(&calWeights, "weight", nil, "Molecular weights (kDa) to convert to pixel positions")
	calibrateCmd.Flags().StringVarP(&calOut, "out", "o", "", "Output SQLite database")
	calibrateCmd.Flags().StringVar(&calCSV, "csv", "", "Output CSV file for the model coefficients")

	calibrateCmd.MarkFlagsOneRequired("markers", "ladder")
	calibrateCmd.MarkFlagsMutuallyExclusive("markers", "ladder")
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Fit a molecular weight calibration to a marker ladder",
	Long: `Fit log10(molecular weight) = slope * pixel + intercept to a marker ladder
and convert between pixel positions and molecular weights.

Examples:
  # Fit a ladder from file and predict two unknown bands
  redoxblot calibrate --markers ladder.csv --pixel 180 --pixel 95

  # Inline ladder, predict band positions for 36.9 kDa and 52 kDa
  redoxblot calibrate --ladder 250:10,100:75,50:130,25:200 --weight 36.9,52`,
	RunE: runCalibrate,
}

// loadMarkers reads the ladder from a file or an inline list
func loadMarkers(path, pairs string) ([]core.MarkerPoint, error) {
	if path != "" {
		return markers.ReadFile(path)
	}
	return markers.ParsePairs(pairs)
}

// fitMarkers loads a ladder and fits a calibration model to it
func fitMarkers(path, pairs string) ([]core.MarkerPoint, core.CalibrationModel, error) {
	points, err := loadMarkers(path, pairs)
	if err != nil {
		return nil, core.CalibrationModel{}, fmt.Errorf("failed to load markers: %w", err)
	}

	model, err := calibration.Fit(points)
	if err != nil {
		return nil, core.CalibrationModel{}, fmt.Errorf("calibration failed: %w", err)
	}
	slog.Debug("fitted calibration",
		"markers", model.Markers, "slope", model.Slope, "intercept", model.Intercept, "r2", model.RSquared)
	return points, model, nil
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	points, model, err := fitMarkers(calMarkersFile, calLadder)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Markers:    %d\n", model.Markers)
	fmt.Fprintf(out, "Slope:      %.6g\n", model.Slope)
	fmt.Fprintf(out, "Intercept:  %.6g\n", model.Intercept)
	fmt.Fprintf(out, "R squared:  %.4f\n", model.RSquared)

	if len(calPixels) > 0 || len(calWeights) > 0 {
		fmt.Fprintln(out)
		tw := newTable(out)
		fmt.Fprintln(tw, "Pixel\tWeight (kDa)")
		for _, p := range calPixels {
			w, err := calibration.PredictWeight(p, model)
			if err != nil {
				return fmt.Errorf("pixel %v: %w", p, err)
			}
			fmt.Fprintf(tw, "%.2f\t%.2f\n", p, w)
		}
		for _, w := range calWeights {
			p, err := calibration.PredictPixel(w, model)
			if err != nil {
				return fmt.Errorf("weight %v: %w", w, err)
			}
			fmt.Fprintf(tw, "%.2f\t%.2f\n", p, w)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if calCSV != "" {
		if err := writeCSVFile(calCSV, func(w io.Writer) error {
			return csv.WriteCalibration(w, model)
		}); err != nil {
			return err
		}
	}

	if calOut != "" {
		return writeDatabase(calOut, func(w *sqlite.Writer) error {
			_, err := w.WriteCalibration(model, points)
			return err
		})
	}

	return nil
}
