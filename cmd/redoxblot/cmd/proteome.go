package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/filter"
	"github.com/ChrisMcGann/RedoxBlot/pkg/proteome"
	"github.com/ChrisMcGann/RedoxBlot/pkg/reader/fasta"
	proteometable "github.com/ChrisMcGann/RedoxBlot/pkg/reader/proteome"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/csv"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/sqlite"
)

var (
	// Flags for proteome command
	prInput         string
	prFasta         string
	prMaxReduced    float64
	prMaxOxidised   float64
	prShift         string
	prMinCysteines  int
	prOut           string
	prCSV           string
	prMeasurableCSV string
)

func init() {
	defaults := filter.DefaultConfig()

	proteomeCmd.Flags().StringVarP(&prInput, "in", "i", "", "Proteome table CSV (accession,cysteines,mass_da)")
	proteomeCmd.Flags().StringVar(&prFasta, "fasta", "", "Proteome FASTA file")
	proteomeCmd.Flags().Float64Var(&prMaxReduced, "max-reduced", defaults.MaxReducedKDa, "Largest measurable unlabelled mass in kDa (0 = no limit)")
	proteomeCmd.Flags().Float64Var(&prMaxOxidised, "max-oxidised", defaults.MaxOxidisedKDa, "Largest measurable fully labelled mass in kDa (0 = no limit)")
	proteomeCmd.Flags().StringVar(&prShift, "shift", "5", "Thiol label name or mass shift per cysteine in kDa")
	proteomeCmd.Flags().IntVar(&prMinCysteines, "min-cysteines", defaults.MinCysteines, "Fewest cysteines a measurable protein must have")
	proteomeCmd.Flags().StringVarP(&prOut, "out", "o", "", "Output SQLite database")
	proteomeCmd.Flags().StringVar(&prCSV, "csv", "", "Output CSV file for the per-class shares")
	proteomeCmd.Flags().StringVar(&prMeasurableCSV, "measurable-csv", "", "Output CSV file listing measurable proteins")

	proteomeCmd.MarkFlagsOneRequired("in", "fasta")
	proteomeCmd.MarkFlagsMutuallyExclusive("in", "fasta")
}

var proteomeCmd = &cobra.Command{
	Use:   "proteome",
	Short: "Estimate how much of a proteome is measurable by redox immunoblot",
	Long: fmt.Sprintf(`Filter a proteome by gel mass limits with and without thiol labels and
report the share of measurable proteins per cysteine count. Proteins with
%d or more cysteines are pooled into one class.

Examples:
  # Proteome table with the default 150/200 kDa limits and a 5 kDa label
  redoxblot proteome --in proteome.csv

  # FASTA proteome with a 2 kDa label and a wider gel
  redoxblot proteome --fasta uniprot_human.fasta --shift PEG2k --max-oxidised 250 --csv amenability.csv`, proteome.MergeFrom),
	RunE: runProteome,
}

// loadProteome reads protein summaries from the table or FASTA input
func loadProteome() ([]core.ProteinSummary, error) {
	if prInput != "" {
		f, err := os.Open(prInput)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		return proteometable.ReadAll(f)
	}

	f, err := os.Open(prFasta)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA file: %w", err)
	}
	defer f.Close()

	var proteins []core.ProteinSummary
	reader := fasta.NewReader(f)
	for reader.Next() {
		proteins = append(proteins, reader.Record().Summary())
		if len(proteins)%10000 == 0 {
			slog.Debug("reading proteome", "proteins", len(proteins))
		}
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("error reading FASTA file: %w", err)
	}
	return proteins, nil
}

func runProteome(cmd *cobra.Command, args []string) error {
	labels, err := loadLabels()
	if err != nil {
		return err
	}
	shift, err := labels.ParseShift(prShift)
	if err != nil {
		return err
	}

	proteins, err := loadProteome()
	if err != nil {
		return err
	}
	slog.Info("loaded proteome", "proteins", len(proteins))

	cfg := filter.Config{
		MaxReducedKDa:  prMaxReduced,
		MaxOxidisedKDa: prMaxOxidised,
		ShiftKDa:       shift,
		MinCysteines:   prMinCysteines,
	}
	report, err := proteome.Amenability(proteins, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Proteins:    %d\n", len(proteins))
	fmt.Fprintf(out, "Measurable:  %d\n\n", len(report.Measurable))

	tw := newTable(out)
	fmt.Fprintln(tw, "Cysteines\tProteins\tMeasurable\tPercent")
	for _, c := range report.Classes {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", c.Class, c.Total, c.Measurable, formatPercent(c.Percent))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if prCSV != "" {
		if err := writeCSVFile(prCSV, func(w io.Writer) error {
			return csv.WriteAmenability(w, report)
		}); err != nil {
			return err
		}
	}

	if prMeasurableCSV != "" {
		if err := writeCSVFile(prMeasurableCSV, func(w io.Writer) error {
			return csv.WriteMeasurements(w, report.Measurable)
		}); err != nil {
			return err
		}
	}

	if prOut != "" {
		return writeDatabase(prOut, func(w *sqlite.Writer) error {
			return w.WriteAmenability(report)
		})
	}

	return nil
}
