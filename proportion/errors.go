package proportion

import (
	"errors"
	"fmt"
)

// ErrDomain is matched by every input error returned from this package.
var ErrDomain = errors.New("domain error")

// ErrEqualRates is returned when the baseline and target rates coincide, so
// the effect size in the denominator is zero.
var ErrEqualRates = &DomainError{Op: "sample size", Reason: "baseline and target rates are equal (division by zero)"}

// DomainError describes an argument outside the domain of a calculation.
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrDomain, e.Op, e.Reason)
}

func (e *DomainError) Is(target error) bool {
	if target == ErrDomain {
		return true
	}
	t, ok := target.(*DomainError)
	return ok && t.Op == e.Op && t.Reason == e.Reason
}

func domainErrorf(op, format string, args ...any) error {
	return &DomainError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// checkOpenUnit fails unless 0 < v < 1.
func checkOpenUnit(op, name string, v float64) error {
	if !(v > 0 && v < 1) {
		return domainErrorf(op, "%s must be in (0, 1), got %v", name, v)
	}
	return nil
}
