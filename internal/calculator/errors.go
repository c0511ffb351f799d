package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNonConvergentSchedule = errors.New("schedule does not converge")
)

// InvalidInputError reports a caller-supplied value the scheduler refuses to work with.
// It matches ErrInvalidInput with errors.Is.
type InvalidInputError struct {
	DebtID string // empty when the error is not tied to one debt
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.DebtID == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s for debt %q: %s", e.Field, e.DebtID, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NonConvergentScheduleError reports that the debts can never be paid off with the given
// minimums and surplus. Months is how many months were simulated before giving up.
type NonConvergentScheduleError struct {
	Months int
}

func (e *NonConvergentScheduleError) Error() string {
	return fmt.Sprintf("payments never cover accrued interest: gave up after %d months", e.Months)
}

func (e *NonConvergentScheduleError) Unwrap() error { return ErrNonConvergentSchedule }
