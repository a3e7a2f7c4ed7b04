package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/proteoform"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/csv"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/sqlite"
)

var (
	// Flags for proteoforms command
	pfCysteines int
	pfMax       int64
	pfMatrix    bool
	pfPascal    int
	pfOut       string
	pfCSV       string
)

func init() {
	proteoformsCmd.Flags().IntVarP(&pfCysteines, "cysteines", "n", 0, "Number of cysteine sites (required)")
	proteoformsCmd.Flags().Int64Var(&pfMax, "max", 0, "Maximum number of proteoforms to enumerate (0 = no limit)")
	proteoformsCmd.Flags().BoolVar(&pfMatrix, "matrix", false, "Print every proteoform state vector")
	proteoformsCmd.Flags().IntVar(&pfPascal, "pascal", 0, "Print the first ROWS rows of Pascal's triangle")
	proteoformsCmd.Flags().StringVarP(&pfOut, "out", "o", "", "Output SQLite database for the proteoform matrix")
	proteoformsCmd.Flags().StringVar(&pfCSV, "csv", "", "Output CSV file for the proteoform matrix")

	proteoformsCmd.MarkFlagRequired("cysteines")
}

var proteoformsCmd = &cobra.Command{
	Use:   "proteoforms",
	Short: "Enumerate redox proteoforms of a protein with N cysteines",
	Long: `Enumerate all 2^N oxidised/reduced combinations of N cysteine sites,
grouped by the number of oxidised sites.

Examples:
  # Group sizes and percentages for 4 cysteines
  redoxblot proteoforms --cysteines 4

  # Full state matrix as CSV, with the first 8 rows of Pascal's triangle
  redoxblot proteoforms --cysteines 6 --matrix --csv matrix.csv --pascal 8`,
	RunE: runProteoforms,
}

func runProteoforms(cmd *cobra.Command, args []string) error {
	if pfCysteines < 0 {
		return fmt.Errorf("--cysteines must be non-negative, got %d", pfCysteines)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Cysteines:    %d\n", pfCysteines)
	fmt.Fprintf(out, "Proteoforms:  %s\n\n", proteoform.Count(pfCysteines))

	tw := newTable(out)
	fmt.Fprintln(tw, "Oxidised\tOxidation\tProteoforms")
	for k, n := range proteoform.GroupSizes(pfCysteines) {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", k, formatPercent(core.OxidationPercent(k, pfCysteines)), n)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if pfPascal > 0 {
		rows, err := proteoform.PascalTriangle(pfPascal)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		for _, row := range rows {
			for i, v := range row {
				if i > 0 {
					fmt.Fprint(out, " ")
				}
				fmt.Fprint(out, v)
			}
			fmt.Fprintln(out)
		}
	}

	if !pfMatrix && pfCSV == "" && pfOut == "" {
		return nil
	}

	if pfMax == 0 && pfCysteines > 20 {
		slog.Warn("enumerating a large proteoform matrix without --max", "proteoforms", proteoform.Count(pfCysteines).String())
	}
	forms, err := proteoform.Matrix(cmd.Context(), pfCysteines, proteoform.WithMaxProteoforms(pfMax))
	if err != nil {
		return fmt.Errorf("enumeration failed: %w", err)
	}
	slog.Debug("enumerated proteoforms", "cysteines", pfCysteines, "count", len(forms))

	if pfMatrix {
		fmt.Fprintln(out)
		for _, p := range forms {
			fmt.Fprintf(out, "%s\t%d\n", p, p.Oxidised())
		}
	}

	if pfCSV != "" {
		if err := writeCSVFile(pfCSV, func(w io.Writer) error {
			return csv.WriteProteoforms(w, pfCysteines, forms)
		}); err != nil {
			return err
		}
	}

	if pfOut != "" {
		return writeDatabase(pfOut, func(w *sqlite.Writer) error {
			return w.WriteProteoforms(forms)
		})
	}

	return nil
}
