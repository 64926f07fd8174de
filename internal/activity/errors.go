package activity

import (
	"errors"
	"fmt"

	"nearActivity/internal/model"
)

var (
	// ErrUpstreamUnavailable marks failures of the change log, receipt or transaction source.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInconsistentIndex marks index data that breaks the feed invariants.
	ErrInconsistentIndex = model.ErrInconsistentIndex
	// ErrInvalidRequest marks caller input that cannot produce a page.
	ErrInvalidRequest = errors.New("invalid request")
)

// Upstream sources named in UpstreamError.
const (
	SourceChangeLog    = "change_log"
	SourceReceipts     = "receipts"
	SourceTransactions = "transactions"
)

// UpstreamError wraps a collaborator failure without hiding it.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes every UpstreamError match ErrUpstreamUnavailable.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// upstream wraps a collaborator failure. Errors that already report
// inconsistent index data are returned unchanged.
func upstream(source string, err error) error {
	if errors.Is(err, ErrInconsistentIndex) {
		return err
	}
	return &UpstreamError{Source: source, Err: err}
}

func inconsistent(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInconsistentIndex, fmt.Sprintf(format, args...))
}
