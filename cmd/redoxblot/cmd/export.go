package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ChrisMcGann/RedoxBlot/pkg/writer/sqlite"
)

// newTable returns a tabwriter for aligned stdout output
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// writeCSVFile creates path and fills it with write
func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	slog.Info("wrote CSV", "path", path)
	return nil
}

// writeDatabase opens a SQLite database, applies write and finalizes it
func writeDatabase(path string, write func(*sqlite.Writer) error) error {
	writer, err := sqlite.NewWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create output database: %w", err)
	}
	defer writer.Close()

	if err := write(writer); err != nil {
		return err
	}

	if err := writer.Finalize(); err != nil {
		return fmt.Errorf("failed to finalize database: %w", err)
	}
	slog.Info("wrote database", "path", path)
	return nil
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
