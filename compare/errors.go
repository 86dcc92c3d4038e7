/*
errors.go - Centralized error types for the comparison engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  The service layer maps these onto HTTP statuses; callers use errors.Is.

ERROR CATEGORIES:
  1. Validation errors - bad input, rejected before any scoring happens
  2. Scoring errors - one policy failed; recovered by dropping the policy
  3. Criterion errors - one field failed for one policy; recovered by
     omitting that field from the weighted sum
  4. Aggregate failure - every candidate failed, nothing to rank

USAGE:
  out, err := engine.Compare(ctx, input)
  if errors.Is(err, compare.ErrTooFewPolicies) {
      // 400 to the client
  }

SEE ALSO:
  - engine.go: where validation and aggregate failures surface
  - aggregate.go: where per-policy and per-criterion recovery happens
*/
package compare

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrTooFewPolicies is returned when fewer policies than the configured
	// minimum are supplied, or survive the filter gate.
	ErrTooFewPolicies = errors.New("at least 2 policies are required for comparison")

	// ErrTooManyPolicies is returned when more policies than the configured
	// maximum are supplied.
	ErrTooManyPolicies = errors.New("maximum 10 policies can be compared at once")

	// ErrNoComparablePolicies is returned when none of the requested policy
	// IDs resolve to an active, approved policy.
	ErrNoComparablePolicies = errors.New("no valid policies found for comparison")

	// ErrAllPoliciesFailed is returned when every candidate failed to score.
	ErrAllPoliciesFailed = errors.New("failed to score any policies")

	// ErrUnknownCategory is returned for a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown policy category")

	// ErrMixedCategories is returned when candidates span categories; a
	// comparison is only meaningful within one line of insurance.
	ErrMixedCategories = errors.New("policies must belong to a single category")

	// ErrUnknownAxis is returned for an unrecognized quick-comparison axis.
	ErrUnknownAxis = errors.New("unknown quick comparison axis")

	// errNilPolicyView guards against caller bugs in the read path.
	errNilPolicyView = errors.New("nil policy view")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports invalid comparison input. It always unwraps to
// one of the sentinel validation errors above.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid comparison input: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ScoringError reports that a single policy could not be scored. The engine
// recovers by dropping the policy and logging; it surfaces only inside
// ErrAllPoliciesFailed joins or warn logs.
type ScoringError struct {
	PolicyID PolicyID
	Err      error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring policy %s: %v", e.PolicyID, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

// CriterionError reports that one field evaluation failed for one policy.
// The aggregator recovers by omitting the field from the weighted sum.
type CriterionError struct {
	PolicyID PolicyID
	Field    FieldName
	Err      error
}

func (e *CriterionError) Error() string {
	return fmt.Sprintf("evaluating %s on policy %s: %v", e.Field, e.PolicyID, e.Err)
}

func (e *CriterionError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input
// rather than an engine fault.
func IsClientError(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrTooFewPolicies) ||
		errors.Is(err, ErrTooManyPolicies) ||
		errors.Is(err, ErrNoComparablePolicies) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrMixedCategories) ||
		errors.Is(err, ErrUnknownAxis)
}

// IsAggregateFailure returns true when scoring collapsed entirely and the
// caller should treat the run as failed rather than degraded.
func IsAggregateFailure(err error) bool {
	return errors.Is(err, ErrAllPoliciesFailed)
}
