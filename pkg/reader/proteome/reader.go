// Package proteome provides a streaming reader for per-protein cysteine
// tables (format: accession,cysteines,mass_da)
package proteome

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// Column names accepted in the header line, lower-cased.
var (
	accessionColumns = []string{"accession", "uniprot_id", "id"}
	cysteineColumns  = []string{"cysteines", "cysteine_residue_count"}
	massDaColumns    = []string{"mass_da", "molecular_mass_da"}
	massKDaColumns   = []string{"mass_kda", "molecular_mass_kda"}
)

// Reader provides streaming access to proteome tables
type Reader struct {
	scanner   *bufio.Scanner
	lineNum   int
	columns   map[string]int
	massScale float64 // Multiplier from the mass column to kDa
	current   core.ProteinSummary
	err       error
}

// NewReader creates a new proteome table reader
func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
	}
}

// Next advances to the next protein. Returns false when no more rows or error.
func (r *Reader) Next() bool {
	r.current = core.ProteinSummary{}
	if r.err != nil {
		return false
	}

	if r.columns == nil {
		if err := r.readHeader(); err != nil {
			if err != io.EOF {
				r.err = err
			}
			return false
		}
	}

	p, err := r.readRow()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = p
	return true
}

// Protein returns the current protein
func (r *Reader) Protein() core.ProteinSummary {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) readHeader() error {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return fmt.Errorf("error reading CSV: %w", err)
		}
		return io.EOF
	}
	r.lineNum++

	index := make(map[string]int)
	for i, name := range strings.Split(r.scanner.Text(), ",") {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := make(map[string]int)
	find := func(key string, names []string) bool {
		for _, n := range names {
			if i, ok := index[n]; ok {
				columns[key] = i
				return true
			}
		}
		return false
	}

	if !find("accession", accessionColumns) {
		return fmt.Errorf("line 1: missing accession column")
	}
	if !find("cysteines", cysteineColumns) {
		return fmt.Errorf("line 1: missing cysteine count column")
	}
	switch {
	case find("mass", massDaColumns):
		r.massScale = 1.0 / 1000
	case find("mass", massKDaColumns):
		r.massScale = 1
	default:
		return fmt.Errorf("line 1: missing mass column (mass_da or mass_kda)")
	}

	r.columns = columns
	return nil
}

func (r *Reader) readRow() (core.ProteinSummary, error) {
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		field := func(key string) (string, error) {
			i := r.columns[key]
			if i >= len(parts) {
				return "", fmt.Errorf("line %d: missing %s field", r.lineNum, key)
			}
			return strings.TrimSpace(parts[i]), nil
		}

		accession, err := field("accession")
		if err != nil {
			return core.ProteinSummary{}, err
		}
		cysStr, err := field("cysteines")
		if err != nil {
			return core.ProteinSummary{}, err
		}
		massStr, err := field("mass")
		if err != nil {
			return core.ProteinSummary{}, err
		}

		cys, err := strconv.Atoi(cysStr)
		if err != nil {
			return core.ProteinSummary{}, fmt.Errorf("line %d: invalid cysteine count '%s': %w", r.lineNum, cysStr, err)
		}
		if cys < 0 {
			return core.ProteinSummary{}, fmt.Errorf("line %d: negative cysteine count %d", r.lineNum, cys)
		}
		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return core.ProteinSummary{}, fmt.Errorf("line %d: invalid mass '%s': %w", r.lineNum, massStr, err)
		}

		return core.ProteinSummary{
			Accession: accession,
			Cysteines: cys,
			MassKDa:   mass * r.massScale,
		}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return core.ProteinSummary{}, fmt.Errorf("error reading CSV: %w", err)
	}
	return core.ProteinSummary{}, io.EOF
}

// ReadAll reads every protein of a table.
func ReadAll(r io.Reader) ([]core.ProteinSummary, error) {
	reader := NewReader(r)
	var proteins []core.ProteinSummary
	for reader.Next() {
		proteins = append(proteins, reader.Protein())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return proteins, nil
}
