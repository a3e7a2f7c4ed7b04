// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

var (
	// Persistent flags
	logLevel  string
	logFormat string
	labelsCSV string
)

var rootCmd = &cobra.Command{
	Use:   "redoxblot",
	Short: "RedoxBlot - redox proteoform analysis for immunoblots",
	Long: `RedoxBlot models cysteine oxidation states of proteins resolved on
thiol-labelled immunoblots.

- Molecular weight calibration from a marker ladder
- Enumeration of redox proteoforms for N cysteines
- Search for molecule compositions matching a mean oxidation percentage
- Sizing of the composition search space
- Simulated immunoblots and proteome-wide measurability`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command with ctx, which cancels long searches.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(proteoformsCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(spaceCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(proteomeCmd)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&labelsCSV, "labels", "", "Path to a label CSV (name,shift_kda) extending the built-in labels")
}

// newLogger builds the slog logger selected by the persistent flags
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format '%s', must be text or json", format)
	}
}

// loadLabels returns the built-in labels, extended by --labels if given
func loadLabels() (*core.LabelDatabase, error) {
	db := core.DefaultLabelDatabase()
	if labelsCSV == "" {
		return db, nil
	}

	f, err := os.Open(labelsCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()

	if err := db.LoadFromCSV(f); err != nil {
		return nil, fmt.Errorf("failed to load label file %s: %w", labelsCSV, err)
	}
	slog.Debug("loaded labels", "path", labelsCSV, "labels", len(db.Names()))
	return db, nil
}
