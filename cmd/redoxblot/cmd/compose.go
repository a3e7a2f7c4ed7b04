package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/RedoxBlot/pkg/composition"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/solutionspace"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/csv"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/sqlite"
)

var (
	// Flags for compose command
	cmpClasses       int
	cmpPercentages   string
	cmpCysteines     int
	cmpMolecules     int
	cmpTarget        float64
	cmpTolerance     float64
	cmpWorkers       int
	cmpMaxCandidates int64
	cmpTimeout       time.Duration
	cmpLimit         int
	cmpOut           string
	cmpCSV           string
)

func init() {
	composeCmd.Flags().IntVarP(&cmpClasses, "classes", "k", 0, "Number of evenly spaced oxidation classes from 0% to 100%")
	composeCmd.Flags().StringVarP(&cmpPercentages, "percentages", "p", "", "Class percentages, e.g. '0,20,40' or 'low=0,high=100'")
	composeCmd.Flags().IntVar(&cmpCysteines, "cysteines", 0, "Use the N+1 oxidation classes of a protein with N cysteines")
	composeCmd.Flags().IntVarP(&cmpMolecules, "molecules", "m", 0, "Total number of molecules (required)")
	composeCmd.Flags().Float64VarP(&cmpTarget, "target", "t", 0, "Target mean oxidation percentage (required)")
	composeCmd.Flags().Float64Var(&cmpTolerance, "tolerance", composition.DefaultTolerance, "Absolute tolerance on the weighted average, in percentage points")
	composeCmd.Flags().IntVar(&cmpWorkers, "workers", 1, "Number of search workers (0 = one per CPU)")
	composeCmd.Flags().Int64Var(&cmpMaxCandidates, "max-candidates", 0, "Abort after examining this many compositions (0 = no limit)")
	composeCmd.Flags().DurationVar(&cmpTimeout, "timeout", 0, "Abort the search after this duration (0 = no limit)")
	composeCmd.Flags().IntVar(&cmpLimit, "limit", 50, "Maximum number of compositions to print (0 = all)")
	composeCmd.Flags().StringVarP(&cmpOut, "out", "o", "", "Output SQLite database")
	composeCmd.Flags().StringVar(&cmpCSV, "csv", "", "Output CSV file with every matching composition")

	composeCmd.MarkFlagRequired("molecules")
	composeCmd.MarkFlagRequired("target")
	composeCmd.MarkFlagsOneRequired("classes", "percentages", "cysteines")
	composeCmd.MarkFlagsMutuallyExclusive("classes", "percentages", "cysteines")
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Find molecule compositions matching a mean oxidation percentage",
	Long: `Search every distribution of M molecules over the oxidation classes for
those whose weighted mean oxidation equals the target within the tolerance.

The number of candidates is C(M+K-1, K-1) for K classes and grows quickly;
check it first with 'redoxblot space'.

Examples:
  # Six classes (0, 20, ..., 100%), 10 molecules, 20% mean oxidation
  redoxblot compose --classes 6 --molecules 10 --target 20

  # Custom classes on 4 workers with a candidate budget
  redoxblot compose --percentages 0,25,50,75,100 --molecules 40 --target 33 --tolerance 0.5 --workers 4 --max-candidates 100000000`,
	RunE: runCompose,
}

// composeClasses resolves the class flags
func composeClasses() ([]core.OxidationClass, error) {
	switch {
	case cmpPercentages != "":
		return composition.ParseClasses(cmpPercentages)
	case cmpCysteines > 0:
		return composition.CysteineClasses(cmpCysteines)
	default:
		return composition.UniformClasses(cmpClasses)
	}
}

func runCompose(cmd *cobra.Command, args []string) error {
	classes, err := composeClasses()
	if err != nil {
		return err
	}

	if size, err := solutionspace.EstimateSize(cmpMolecules, len(classes)); err == nil {
		slog.Info("searching compositions",
			"classes", len(classes), "molecules", cmpMolecules, "candidates", size.String(), "workers", cmpWorkers)
	}

	ctx := cmd.Context()
	if cmpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmpTimeout)
		defer cancel()
	}

	solver := composition.NewSolver(
		composition.WithWorkers(cmpWorkers),
		composition.WithMaxCandidates(cmpMaxCandidates),
	)
	start := time.Now()
	res, err := solver.Search(ctx, classes, cmpMolecules, cmpTarget, cmpTolerance)
	if err != nil {
		if errors.Is(err, core.ErrSearchBudgetExceeded) {
			return fmt.Errorf("%w (raise --max-candidates or --timeout, or use fewer molecules)", err)
		}
		return err
	}
	slog.Debug("search finished", "candidates", res.Candidates, "solutions", len(res.Compositions), "elapsed", time.Since(start))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Candidates examined: %d\n", res.Candidates)
	fmt.Fprintf(out, "Matching compositions: %d\n", len(res.Compositions))

	if len(res.Compositions) > 0 {
		fmt.Fprintln(out)
		tw := newTable(out)
		for _, c := range classes {
			fmt.Fprintf(tw, "%s\t", c.Label)
		}
		fmt.Fprintln(tw, "Mean")
		for i, comp := range res.Compositions {
			if cmpLimit > 0 && i >= cmpLimit {
				break
			}
			for _, n := range comp.Counts {
				fmt.Fprintf(tw, "%d\t", n)
			}
			fmt.Fprintf(tw, "%s\n", formatPercent(comp.WeightedAverage()))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if cmpLimit > 0 && len(res.Compositions) > cmpLimit {
			fmt.Fprintf(out, "... %d more (use --csv or --limit 0)\n", len(res.Compositions)-cmpLimit)
		}
	}

	if cmpCSV != "" {
		if err := writeCSVFile(cmpCSV, func(w io.Writer) error {
			return csv.WriteCompositions(w, classes, res.Compositions)
		}); err != nil {
			return err
		}
	}

	if cmpOut != "" {
		return writeDatabase(cmpOut, func(w *sqlite.Writer) error {
			_, err := w.WriteSearch(classes, cmpMolecules, cmpTarget, cmpTolerance, res)
			return err
		})
	}

	return nil
}
