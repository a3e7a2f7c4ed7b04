package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData indicates fewer than two calibration markers.
	ErrInsufficientData = errors.New("insufficient calibration data")

	// ErrDegenerateFit indicates a calibration whose pixel positions have zero
	// variance, or a model whose coefficients are not finite.
	ErrDegenerateFit = errors.New("degenerate calibration fit")

	// ErrDivisionByZero indicates an inverse mapping through a flat model.
	ErrDivisionByZero = errors.New("division by zero in inverse calibration")

	// ErrInvalidSearchParameters indicates a search that cannot be run, such as
	// zero molecules or an empty class set.
	ErrInvalidSearchParameters = errors.New("invalid search parameters")

	// ErrUnreachableTarget indicates the solution space estimator hit its
	// iteration ceiling before reaching the target size.
	ErrUnreachableTarget = errors.New("target unreachable")

	// ErrSearchBudgetExceeded indicates an enumeration stopped because its
	// iteration budget ran out or its context was done.
	ErrSearchBudgetExceeded = errors.New("search budget exceeded")

	// ErrNonMonotone indicates a solution space trace that decreased.
	ErrNonMonotone = errors.New("solution space size decreased")
)

// ValidationError represents an error found during input validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}
