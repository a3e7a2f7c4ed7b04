// Package composition searches for molecule-count compositions whose
// population-average oxidation matches a target percentage.
//
// The search is a complete enumeration of every way to split a fixed number
// of molecules over the oxidation classes. That space has
// C(molecules+classes-1, classes-1) members and grows combinatorially: six
// classes and ten molecules give 3003 candidates, eleven classes and fifty
// molecules already give about 7.5e10. Use solutionspace.EstimateSize before
// running large searches, and bound them with WithMaxCandidates or a context
// deadline.
package composition

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// DefaultTolerance is the absolute tolerance, in percentage points, used to
// match a weighted average against the target.
const DefaultTolerance = 1e-6

// ctxCheckInterval is how many candidates are examined between context checks.
const ctxCheckInterval = 1 << 12

// Result holds the outcome of a search that ran to completion. An empty
// Compositions slice means no composition matched.
type Result struct {
	Compositions []core.Composition
	Candidates   int64 // Number of count vectors examined
}

// Option configures a Solver.
type Option func(*Solver)

// WithWorkers sets the number of goroutines the search is split over.
// Values below 1 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *Solver) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		s.workers = n
	}
}

// WithMaxCandidates aborts the search with core.ErrSearchBudgetExceeded once
// more than n candidates would be examined. Zero means no limit.
func WithMaxCandidates(n int64) Option {
	return func(s *Solver) {
		s.maxCandidates = n
	}
}

// Solver runs composition searches. A Solver holds no per-search state and
// may be shared.
type Solver struct {
	workers       int
	maxCandidates int64
}

// NewSolver creates a solver. Without options it runs on one goroutine with
// no candidate limit.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns every composition of total molecules over classes whose
// weighted average oxidation is within tolerance of target. Results are in
// ascending lexicographic order of their count vectors regardless of the
// number of workers.
func (s *Solver) Search(ctx context.Context, classes []core.OxidationClass, total int, target, tolerance float64) (*Result, error) {
	if err := validate(classes, total, target, tolerance); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSearchBudgetExceeded, err)
	}

	cls := slices.Clone(classes)
	m := &matcher{
		classes:   cls,
		total:     total,
		target:    target,
		tolerance: tolerance,
		max:       s.maxCandidates,
	}

	if s.workers <= 1 || len(cls) == 1 {
		comps, err := m.run(ctx, nil, total)
		if err != nil {
			return nil, err
		}
		return &Result{Compositions: comps, Candidates: m.seen.Load()}, nil
	}
	return s.searchParallel(ctx, m)
}

// searchParallel partitions the space on the count of the first class. Each
// partition is itself in lexicographic order, so concatenating partitions in
// increasing first count keeps the overall order.
func (s *Solver) searchParallel(ctx context.Context, m *matcher) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parts := make([][]core.Composition, m.total+1)
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	workers := min(s.workers, m.total+1)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for first := range jobs {
				comps, err := m.run(ctx, []int{first}, m.total-first)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				parts[first] = comps
			}
		}()
	}

feed:
	for first := 0; first <= m.total; first++ {
		select {
		case jobs <- first:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrSearchBudgetExceeded, err)
	}

	var comps []core.Composition
	for _, p := range parts {
		comps = append(comps, p...)
	}
	return &Result{Compositions: comps, Candidates: m.seen.Load()}, nil
}

// matcher evaluates candidates for one search. seen is shared by workers.
type matcher struct {
	classes   []core.OxidationClass
	total     int
	target    float64
	tolerance float64
	max       int64
	seen      atomic.Int64
}

// run enumerates every candidate that starts with prefix and distributes the
// remaining molecules over the other classes.
func (m *matcher) run(ctx context.Context, prefix []int, remaining int) ([]core.Composition, error) {
	var comps []core.Composition

	it := NewIterator(len(m.classes)-len(prefix), remaining)
	var local int64
	for it.Next() {
		n := m.seen.Add(1)
		if m.max > 0 && n > m.max {
			return nil, fmt.Errorf("%w: more than %d candidates for %d molecules over %d classes",
				core.ErrSearchBudgetExceeded, m.max, m.total, len(m.classes))
		}
		local++
		if local%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", core.ErrSearchBudgetExceeded, err)
			}
		}

		sum := 0.0
		for i, c := range prefix {
			sum += m.classes[i].Percent * float64(c)
		}
		for i, c := range it.Counts() {
			sum += m.classes[len(prefix)+i].Percent * float64(c)
		}
		avg := sum / float64(m.total)
		if !scalar.EqualWithinAbs(avg, m.target, m.tolerance) {
			continue
		}

		counts := make([]int, 0, len(m.classes))
		counts = append(counts, prefix...)
		counts = append(counts, it.Counts()...)
		comps = append(comps, core.Composition{Classes: m.classes, Counts: counts})
	}
	return comps, nil
}

func validate(classes []core.OxidationClass, total int, target, tolerance float64) error {
	if total <= 0 {
		return fmt.Errorf("%w: total molecules must be positive, got %d",
			core.ErrInvalidSearchParameters, total)
	}
	if len(classes) == 0 {
		return fmt.Errorf("%w: no oxidation classes", core.ErrInvalidSearchParameters)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return fmt.Errorf("%w: target must be finite, got %v",
			core.ErrInvalidSearchParameters, target)
	}
	if math.IsNaN(tolerance) || tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be non-negative, got %v",
			core.ErrInvalidSearchParameters, tolerance)
	}

	seen := make(map[string]bool, len(classes))
	for i, c := range classes {
		if math.IsNaN(c.Percent) || math.IsInf(c.Percent, 0) {
			return fmt.Errorf("%w: class %d (%s) has non-finite percentage",
				core.ErrInvalidSearchParameters, i, c.Label)
		}
		if seen[c.Label] {
			return fmt.Errorf("%w: duplicate class label %q",
				core.ErrInvalidSearchParameters, c.Label)
		}
		seen[c.Label] = true
	}
	return nil
}
