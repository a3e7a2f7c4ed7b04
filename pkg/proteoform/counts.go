package proteoform

import (
	"fmt"
	"math/big"

	"github.com/ChrisMcGann/RedoxBlot/pkg/core"
)

// Count returns the total number of proteoforms, 2^sites.
func Count(sites int) *big.Int {
	if sites < 0 {
		return new(big.Int)
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(sites))
}

// GroupSizes returns C(sites, k) for k = 0..sites.
func GroupSizes(sites int) []*big.Int {
	if sites < 0 {
		return nil
	}
	sizes := make([]*big.Int, sites+1)
	for k := range sizes {
		sizes[k] = new(big.Int).Binomial(int64(sites), int64(k))
	}
	return sizes
}

// maxPascalRows keeps every entry of the triangle within an int64.
const maxPascalRows = 63

// PascalTriangle returns the first rows of Pascal's triangle. Row n holds the
// group sizes of a protein with n cysteines.
func PascalTriangle(rows int) ([][]int, error) {
	if rows < 0 || rows > maxPascalRows {
		return nil, &core.ValidationError{
			Field:   "rows",
			Message: fmt.Sprintf("must be in [0, %d], got %d", maxPascalRows, rows),
		}
	}
	triangle := make([][]int, rows)
	for n := range triangle {
		row := make([]int, n+1)
		row[0], row[n] = 1, 1
		for k := 1; k < n; k++ {
			row[k] = triangle[n-1][k-1] + triangle[n-1][k]
		}
		triangle[n] = row
	}
	return triangle, nil
}
