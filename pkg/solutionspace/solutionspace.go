// Package solutionspace sizes the composition search space. The number of
// ways to distribute m indistinguishable molecules over k distinguishable
// oxidation classes is the stars-and-bars count C(m+k-1, k-1), computed here
// with exact integer arithmetic.
package solutionspace

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// DefaultMaxMoleculeCount bounds FindMinimumMoleculeCount.
const DefaultMaxMoleculeCount = 1_000_000

// TracePoint is one step of a threshold search.
type TracePoint struct {
	MoleculeCount int
	SpaceSize     *big.Int
}

// Threshold is the result of FindMinimumMoleculeCount.
type Threshold struct {
	MoleculeCount int
	SpaceSize     *big.Int
	Trace         []TracePoint // Every attempt, including the final one
}

// Estimate returns the estimate as a core value.
func (t *Threshold) Estimate(classCount int) core.SolutionSpaceEstimate {
	return core.SolutionSpaceEstimate{
		MoleculeCount: t.MoleculeCount,
		ClassCount:    classCount,
		SpaceSize:     new(big.Int).Set(t.SpaceSize),
	}
}

// EstimateSize returns C(moleculeCount+classCount-1, classCount-1).
func EstimateSize(moleculeCount, classCount int) (*big.Int, error) {
	if moleculeCount < 0 {
		return nil, fmt.Errorf("%w: molecule count must be non-negative, got %d",
			core.ErrInvalidSearchParameters, moleculeCount)
	}
	if classCount < 1 {
		return nil, fmt.Errorf("%w: class count must be positive, got %d",
			core.ErrInvalidSearchParameters, classCount)
	}
	n := int64(moleculeCount) + int64(classCount) - 1
	return new(big.Int).Binomial(n, int64(classCount-1)), nil
}

// Option configures FindMinimumMoleculeCount.
type Option func(*config)

type config struct {
	maxMolecules int
}

// WithMaxMoleculeCount sets the ceiling after which the search gives up with
// core.ErrUnreachableTarget.
func WithMaxMoleculeCount(n int) Option {
	return func(c *config) {
		c.maxMolecules = n
	}
}

// FindMinimumMoleculeCount returns the smallest molecule count, starting
// from 1, whose solution space holds at least targetSize compositions.
func FindMinimumMoleculeCount(targetSize float64, classCount int, opts ...Option) (*Threshold, error) {
	cfg := config{maxMolecules: DefaultMaxMoleculeCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	if classCount < 1 {
		return nil, fmt.Errorf("%w: class count must be positive, got %d",
			core.ErrUnreachableTarget, classCount)
	}
	if math.IsNaN(targetSize) || targetSize <= 0 {
		return nil, fmt.Errorf("%w: target size must be positive, got %v",
			core.ErrInvalidSearchParameters, targetSize)
	}
	if math.IsInf(targetSize, 1) {
		return nil, fmt.Errorf("%w: target size is infinite", core.ErrUnreachableTarget)
	}

	target := new(big.Float).SetFloat64(targetSize)
	result := &Threshold{}
	var prev *big.Int
	for m := 1; m <= cfg.maxMolecules; m++ {
		size, err := EstimateSize(m, classCount)
		if err != nil {
			return nil, err
		}
		if prev != nil && size.Cmp(prev) < 0 {
			return nil, fmt.Errorf("%w: %d molecules gave %s after %s",
				core.ErrNonMonotone, m, size, prev)
		}
		prev = size
		result.Trace = append(result.Trace, TracePoint{MoleculeCount: m, SpaceSize: size})

		if new(big.Float).SetInt(size).Cmp(target) >= 0 {
			result.MoleculeCount = m
			result.SpaceSize = size
			return result, nil
		}
	}
	return nil, fmt.Errorf("%w: %d classes stay below %g up to %d molecules",
		core.ErrUnreachableTarget, classCount, targetSize, cfg.maxMolecules)
}
