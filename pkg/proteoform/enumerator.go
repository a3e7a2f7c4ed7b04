package proteoform

import (
	"context"
	"fmt"
	"math/big"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// Option configures an Enumerator.
type Option func(*Enumerator)

// WithMaxProteoforms stops the enumeration with core.ErrSearchBudgetExceeded
// once more than n proteoforms would be emitted. Zero means no limit.
func WithMaxProteoforms(n int64) Option {
	return func(e *Enumerator) {
		e.max = n
	}
}

// Enumerator streams the proteoforms of a protein with a fixed number of
// cysteine sites in group order.
type Enumerator struct {
	sites   int
	max     int64
	k       int
	gen     *combin.CombinationGenerator
	combo   []int
	current core.Proteoform
	emitted int64
	err     error
}

// NewEnumerator creates an enumerator over sites cysteines.
func NewEnumerator(sites int, opts ...Option) (*Enumerator, error) {
	if sites < 0 {
		return nil, &core.ValidationError{
			Field:   "sites",
			Message: fmt.Sprintf("number of cysteine sites must be non-negative, got %d", sites),
		}
	}
	e := &Enumerator{sites: sites}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e, nil
}

// Reset rewinds the enumerator to the first proteoform.
func (e *Enumerator) Reset() {
	e.k = 0
	e.gen = combin.NewCombinationGenerator(e.sites, 0)
	e.combo = make([]int, 0, e.sites)
	e.current = nil
	e.emitted = 0
	e.err = nil
}

// Next advances to the next proteoform. Returns false when all proteoforms
// were produced or the budget ran out.
func (e *Enumerator) Next() bool {
	e.current = nil
	if e.err != nil {
		return false
	}

	for !e.gen.Next() {
		if e.k >= e.sites {
			return false
		}
		e.k++
		e.gen = combin.NewCombinationGenerator(e.sites, e.k)
	}

	if e.max > 0 && e.emitted >= e.max {
		e.err = fmt.Errorf("%w: more than %d proteoforms for %d sites",
			core.ErrSearchBudgetExceeded, e.max, e.sites)
		return false
	}

	e.combo = e.gen.Combination(e.combo[:e.k])
	p := make(core.Proteoform, e.sites)
	for _, site := range e.combo {
		p[site] = 1
	}
	e.current = p
	e.emitted++
	return true
}

// Proteoform returns the current proteoform. The returned vector is not
// reused by later calls to Next.
func (e *Enumerator) Proteoform() core.Proteoform {
	return e.current
}

// Oxidised returns the oxidation count of the current proteoform.
func (e *Enumerator) Oxidised() int {
	return e.k
}

// Err returns any error encountered during enumeration
func (e *Enumerator) Err() error {
	return e.err
}

// Generate materializes all proteoforms grouped by oxidation count 0..sites.
func Generate(ctx context.Context, sites int, opts ...Option) ([]core.ProteoformGroup, error) {
	e, err := NewEnumerator(sites, opts...)
	if err != nil {
		return nil, err
	}

	if e.max > 0 && Count(sites).Cmp(big.NewInt(e.max)) > 0 {
		return nil, fmt.Errorf("%w: %s proteoforms for %d sites exceed the limit of %d",
			core.ErrSearchBudgetExceeded, Count(sites), sites, e.max)
	}

	groups := make([]core.ProteoformGroup, sites+1)
	for k := range groups {
		groups[k] = core.ProteoformGroup{Oxidised: k, Sites: sites}
	}

	for e.Next() {
		if e.emitted%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", core.ErrSearchBudgetExceeded, err)
			}
		}
		groups[e.Oxidised()].Members = append(groups[e.Oxidised()].Members, e.Proteoform())
	}
	if err := e.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// Matrix returns all proteoforms in generation order, one row per proteoform.
func Matrix(ctx context.Context, sites int, opts ...Option) ([]core.Proteoform, error) {
	groups, err := Generate(ctx, sites, opts...)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, g := range groups {
		n += len(g.Members)
	}
	rows := make([]core.Proteoform, 0, n)
	for _, g := range groups {
		rows = append(rows, g.Members...)
	}
	return rows, nil
}
