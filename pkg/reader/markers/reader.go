// Package markers reads molecular weight ladder positions measured on a gel
// image.
package markers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// Read parses a marker table (format: weight_kda,pixel). The first line is a
// header. Blank lines and lines starting with '#' are skipped.
func Read(r io.Reader) ([]core.MarkerPoint, error) {
	scanner := bufio.NewScanner(r)

	// Skip header line
	scanner.Scan()

	var points []core.MarkerPoint
	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields (weight_kda,pixel), got %d", lineNum, len(parts))
		}

		weightStr := strings.TrimSpace(parts[0])
		pixelStr := strings.TrimSpace(parts[1])

		weight, err := strconv.ParseFloat(weightStr, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid weight value '%s': %w", lineNum, weightStr, err)
		}
		pixel, err := strconv.ParseFloat(pixelStr, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid pixel value '%s': %w", lineNum, pixelStr, err)
		}

		p := core.MarkerPoint{WeightKDa: weight, Pixel: pixel}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		points = append(points, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	return points, nil
}

// ReadFile reads a marker table from a file.
func ReadFile(path string) ([]core.MarkerPoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// ParsePairs parses inline markers of the form "250:10,150:40".
func ParsePairs(s string) ([]core.MarkerPoint, error) {
	var points []core.MarkerPoint
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		weightStr, pixelStr, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid marker '%s', expected 'weight:pixel'", pair)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight in marker '%s': %w", pair, err)
		}
		pixel, err := strconv.ParseFloat(strings.TrimSpace(pixelStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid pixel in marker '%s': %w", pair, err)
		}
		p := core.MarkerPoint{WeightKDa: weight, Pixel: pixel}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}
