package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/RedoxBlot/pkg/blot"
	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
	"github.com/ChrisMcGann/RedoxBlot/pkg/reader/fasta"
	"github.com/ChrisMcGann/RedoxBlot/pkg/uniprot"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/csv"
	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/sqlite"
)

var (
	// Flags for simulate command
	simMarkersFile string
	simLadder      string
	simAccession   string
	simFasta       string
	simLength      int
	simCysteines   int
	simLabel       string
	simCacheDir    string
	simUniProtURL  string
	simOut         string
	simCSV         string
)

func init() {
	simulateCmd.Flags().StringVarP(&simMarkersFile, "markers", "m", "", "Marker ladder CSV (weight_kda,pixel)")
	simulateCmd.Flags().StringVar(&simLadder, "ladder", "", "Inline marker ladder, e.g. '250:10,150:40,100:75'")
	simulateCmd.Flags().StringVar(&simAccession, "uniprot", "", "UniProt accession to fetch, or to select from --fasta")
	simulateCmd.Flags().StringVar(&simFasta, "fasta", "", "FASTA file with the protein sequence")
	simulateCmd.Flags().IntVar(&simLength, "length", 0, "Protein length in residues")
	simulateCmd.Flags().IntVar(&simCysteines, "cysteines", 0, "Number of cysteines (with --length)")
	simulateCmd.Flags().StringVar(&simLabel, "label", core.DefaultLabel, "Thiol label name or mass shift per cysteine in kDa")
	simulateCmd.Flags().StringVar(&simCacheDir, "cache", "", "Directory for cached UniProt entries")
	simulateCmd.Flags().StringVar(&simUniProtURL, "uniprot-url", uniprot.DefaultBaseURL, "UniProtKB REST endpoint")
	simulateCmd.Flags().StringVarP(&simOut, "out", "o", "", "Output SQLite database")
	simulateCmd.Flags().StringVar(&simCSV, "csv", "", "Output CSV file for the simulated bands")

	simulateCmd.Flags().MarkHidden("uniprot-url")
	simulateCmd.MarkFlagsOneRequired("markers", "ladder")
	simulateCmd.MarkFlagsMutuallyExclusive("markers", "ladder")
	simulateCmd.MarkFlagsOneRequired("uniprot", "fasta", "length")
	simulateCmd.MarkFlagsMutuallyExclusive("length", "uniprot")
	simulateCmd.MarkFlagsMutuallyExclusive("length", "fasta")
	simulateCmd.MarkFlagsRequiredTogether("length", "cysteines")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate the redox immunoblot of a protein",
	Long: `Place the bands of every oxidation class of a protein on a gel calibrated
by a marker ladder. Band k carries k thiol labels and runs at
mass + k * shift; its intensity falls from 1 (fully reduced) to 1/(N+1).

Examples:
  # GAPDH from UniProt with the default PEG5k label
  redoxblot simulate --markers ladder.csv --uniprot P04406

  # Protein from a FASTA file with a 2 kDa label
  redoxblot simulate --markers ladder.csv --fasta protein.fasta --label PEG2k

  # Protein described by length and cysteine count
  redoxblot simulate --ladder 250:10,100:75,25:200 --length 335 --cysteines 3 --csv bands.csv`,
	RunE: runSimulate,
}

// resolveProtein summarizes the protein selected by the simulate flags
func resolveProtein(cmd *cobra.Command) (core.ProteinSummary, error) {
	switch {
	case simFasta != "":
		f, err := os.Open(simFasta)
		if err != nil {
			return core.ProteinSummary{}, fmt.Errorf("failed to open FASTA file: %w", err)
		}
		defer f.Close()

		reader := fasta.NewReader(f)
		for reader.Next() {
			rec := reader.Record()
			if simAccession == "" || strings.EqualFold(rec.Accession, simAccession) {
				return rec.Summary(), nil
			}
		}
		if err := reader.Err(); err != nil {
			return core.ProteinSummary{}, fmt.Errorf("error reading FASTA file: %w", err)
		}
		if simAccession != "" {
			return core.ProteinSummary{}, fmt.Errorf("accession %s not found in %s", simAccession, simFasta)
		}
		return core.ProteinSummary{}, fmt.Errorf("no sequences in %s", simFasta)

	case simAccession != "":
		client := uniprot.NewClient(simCacheDir)
		client.BaseURL = simUniProtURL
		rec, err := client.Fetch(cmd.Context(), simAccession)
		if err != nil {
			return core.ProteinSummary{}, err
		}
		slog.Debug("fetched UniProt entry", "accession", rec.Accession, "header", rec.Header)
		return rec.Summary(), nil

	default:
		if simLength <= 0 || simCysteines < 0 || simCysteines > simLength {
			return core.ProteinSummary{}, &core.ValidationError{
				Field:   "length",
				Message: fmt.Sprintf("need 0 <= cysteines <= length and length > 0, got %d and %d", simCysteines, simLength),
			}
		}
		return core.ProteinSummary{
			Accession: "custom",
			Length:    simLength,
			Cysteines: simCysteines,
			MassKDa:   core.EstimateMassKDa(simLength),
		}, nil
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	labels, err := loadLabels()
	if err != nil {
		return err
	}
	shift, err := labels.ParseShift(simLabel)
	if err != nil {
		return err
	}

	points, model, err := fitMarkers(simMarkersFile, simLadder)
	if err != nil {
		return err
	}
	mapper, err := blot.NewMapper(model)
	if err != nil {
		return err
	}

	protein, err := resolveProtein(cmd)
	if err != nil {
		return err
	}

	weights := make([]float64, len(points))
	for i, p := range points {
		weights[i] = p.WeightKDa
	}
	ladder, err := mapper.Markers(weights)
	if err != nil {
		return err
	}
	bands, err := mapper.SimulateProtein(protein, shift)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Protein:    %s\n", protein.Accession)
	fmt.Fprintf(out, "Length:     %d\n", protein.Length)
	fmt.Fprintf(out, "Cysteines:  %d\n", protein.Cysteines)
	fmt.Fprintf(out, "Mass:       %.2f kDa\n", protein.MassKDa)
	if protein.MonoisotopicMassDa > 0 {
		fmt.Fprintf(out, "Mono mass:  %.3f Da\n", protein.MonoisotopicMassDa)
	}
	fmt.Fprintf(out, "Label:      %s (%g kDa per cysteine)\n\n", simLabel, shift)

	tw := newTable(out)
	fmt.Fprintln(tw, "Marker (kDa)\tPixel")
	for _, m := range ladder {
		fmt.Fprintf(tw, "%g\t%.1f\n", m.WeightKDa, m.Pixel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	tw = newTable(out)
	fmt.Fprintln(tw, "Band\tOxidised\tProteoforms\tWeight (kDa)\tPixel\tIntensity")
	for _, b := range bands {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\t%.1f\t%.3f\n",
			b.Label, b.Oxidised, b.Proteoforms, b.WeightKDa, b.Pixel, b.Intensity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if simCSV != "" {
		if err := writeCSVFile(simCSV, func(w io.Writer) error {
			return csv.WriteBands(w, bands)
		}); err != nil {
			return err
		}
	}

	if simOut != "" {
		return writeDatabase(simOut, func(w *sqlite.Writer) error {
			if _, err := w.WriteCalibration(model, points); err != nil {
				return err
			}
			if _, err := w.WriteProtein(protein); err != nil {
				return err
			}
			return w.WriteBands(protein.Accession, bands)
		})
	}

	return nil
}
