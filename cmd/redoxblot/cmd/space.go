package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/RedoxBlot/pkg/solutionspace"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/csv"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/sqlite"
)

var (
	// Flags for space command
	spClasses      int
	spTarget       float64
	spMolecules    int
	spMaxMolecules int
	spTrace        bool
	spOut          string
	spCSV          string
)

func init() {
	spaceCmd.Flags().IntVarP(&spClasses, "classes", "k", 0, "Number of oxidation classes (required)")
	spaceCmd.Flags().Float64VarP(&spTarget, "target", "t", 0, "Find the fewest molecules whose solution space reaches this size")
	spaceCmd.Flags().IntVarP(&spMolecules, "molecules", "m", -1, "Report the solution space size for this many molecules")
	spaceCmd.Flags().IntVar(&spMaxMolecules, "max-molecules", solutionspace.DefaultMaxMoleculeCount, "Give up the threshold search beyond this molecule count")
	spaceCmd.Flags().BoolVar(&spTrace, "trace", false, "Print every step of the threshold search")
	spaceCmd.Flags().StringVarP(&spOut, "out", "o", "", "Output SQLite database for the threshold trace")
	spaceCmd.Flags().StringVar(&spCSV, "csv", "", "Output CSV file for the threshold trace")

	spaceCmd.MarkFlagRequired("classes")
	spaceCmd.MarkFlagsOneRequired("target", "molecules")
	spaceCmd.MarkFlagsMutuallyExclusive("target", "molecules")
}

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Size the composition search space",
	Long: `Count the ways to distribute M molecules over K oxidation classes,
C(M+K-1, K-1), or find the smallest M whose count reaches a target.

Examples:
  # Size of the space for 1000 molecules in 50 classes
  redoxblot space --classes 50 --molecules 1000

  # Fewest molecules giving 2.9e16 compositions over 11 classes
  redoxblot space --classes 11 --target 2.9e16 --csv trace.csv`,
	RunE: runSpace,
}

func runSpace(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if cmd.Flags().Changed("molecules") {
		size, err := solutionspace.EstimateSize(spMolecules, spClasses)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Classes:         %d\n", spClasses)
		fmt.Fprintf(out, "Molecules:       %d\n", spMolecules)
		fmt.Fprintf(out, "Solution space:  %s\n", size)
		return nil
	}

	th, err := solutionspace.FindMinimumMoleculeCount(spTarget, spClasses,
		solutionspace.WithMaxMoleculeCount(spMaxMolecules))
	if err != nil {
		return err
	}
	slog.Debug("threshold search finished", "steps", len(th.Trace))

	fmt.Fprintf(out, "Classes:         %d\n", spClasses)
	fmt.Fprintf(out, "Target:          %g\n", spTarget)
	fmt.Fprintf(out, "Molecules:       %d\n", th.MoleculeCount)
	fmt.Fprintf(out, "Solution space:  %s\n", th.SpaceSize)

	if spTrace {
		fmt.Fprintln(out)
		tw := newTable(out)
		fmt.Fprintln(tw, "Molecules\tSolution space")
		for _, p := range th.Trace {
			fmt.Fprintf(tw, "%d\t%s\n", p.MoleculeCount, p.SpaceSize)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if spCSV != "" {
		if err := writeCSVFile(spCSV, func(w io.Writer) error {
			return csv.WriteTrace(w, th.Trace)
		}); err != nil {
			return err
		}
	}

	if spOut != "" {
		return writeDatabase(spOut, func(w *sqlite.Writer) error {
			return w.WriteThreshold(spClasses, spTarget, th)
		})
	}

	return nil
}
