package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested entity does not exist or is
// inactive.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the actor's role does not permit the
// operation.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports malformed input (bad dates, non-positive
// quantities, unknown enum values). It is always raised before any
// mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// StockInsufficientError reports that a requested or approved quantity
// exceeds the stock that can be promised. It carries the figures the UI
// shows to the requester.
type StockInsufficientError struct {
	AssetID   string
	Available int32
	Pending   int32
	Effective int32
	Requested int32
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("insufficient stock for asset %s: requested %d, available %d, pending %d, effective %d",
		e.AssetID, e.Requested, e.Available, e.Pending, e.Effective)
}

// InvalidStateError reports an operation attempted against a loan that is
// not in the required source state (double approval, return before
// approval, and similar).
type InvalidStateError struct {
	LoanID   string
	Current  LoanStatus
	Expected []LoanStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("loan %s is %s, expected one of %v", e.LoanID, e.Current, e.Expected)
}

// QuantityMismatchError reports a return breakdown whose quantities do not
// sum to the quantity originally loaned.
type QuantityMismatchError struct {
	LoanID   string
	Loaned   int32
	Returned int32
}

func (e *QuantityMismatchError) Error() string {
	return fmt.Sprintf("return breakdown for loan %s sums to %d, loaned %d", e.LoanID, e.Returned, e.Loaned)
}
