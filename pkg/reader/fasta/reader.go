// Package fasta provides a streaming reader for FASTA protein sequence files
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// Record is a single FASTA entry.
type Record struct {
	Header    string // Header line without the leading '>'
	Accession string
	Sequence  string
}

// Summary returns the scalars of the record used by the redox engine.
func (r *Record) Summary() core.ProteinSummary {
	return core.Summarize(r.Accession, r.Sequence)
}

// Reader provides streaming access to FASTA files
type Reader struct {
	scanner *bufio.Scanner
	lineNum int
	pending string // Header line read ahead of the current record
	current *Record
	err     error
}

// NewReader creates a new FASTA reader
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Reader{scanner: scanner}
}

// Next advances to the next record. Returns false when no more records or error.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil {
		return false
	}

	rec, err := r.readRecord()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = rec
	return true
}

// Record returns the current record
func (r *Reader) Record() *Record {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readRecord reads a header and its sequence lines up to the next header
func (r *Reader) readRecord() (*Record, error) {
	header := r.pending
	r.pending = ""

	var seq strings.Builder
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, ">") {
			if header == "" {
				header = line
				continue
			}
			r.pending = line
			break
		}

		if header == "" {
			return nil, fmt.Errorf("line %d: sequence data before first header", r.lineNum)
		}
		seq.WriteString(line)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading FASTA: %w", err)
	}

	if header == "" {
		return nil, io.EOF
	}

	header = strings.TrimPrefix(header, ">")
	return &Record{
		Header:    header,
		Accession: ParseAccession(header),
		Sequence:  core.NormalizeSequence(seq.String()),
	}, nil
}

// ParseAccession extracts the accession from a header. UniProt headers
// ("sp|P04406|G3P_HUMAN ...") yield the middle field, anything else the first
// whitespace-separated word.
func ParseAccession(header string) string {
	header = strings.TrimPrefix(strings.TrimSpace(header), ">")
	word, _, _ := strings.Cut(header, " ")
	parts := strings.Split(word, "|")
	if len(parts) >= 3 && (parts[0] == "sp" || parts[0] == "tr") {
		return parts[1]
	}
	return word
}

// ReadAll reads every record of a FASTA stream.
func ReadAll(r io.Reader) ([]*Record, error) {
	reader := NewReader(r)
	var records []*Record
	for reader.Next() {
		records = append(records, reader.Record())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
