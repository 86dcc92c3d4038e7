/*
Package compare provides the core policy scoring and ranking engine.

PURPOSE:
  This package contains the domain-agnostic machinery for comparing
  insurance policies against a user's stated criteria. Whether comparing
  health plans or funeral covers, the same engine evaluates per-field
  criteria, aggregates weighted scores, applies survey-driven adjustments,
  ranks the field, and explains the outcome in plain language.

KEY CONCEPTS IN THIS FILE (types.go):
  - Value: A typed, optional field value (bool, number, string, or range)
  - Criterion: A named comparison rule bound to a policy field
  - UserCriteria: The user's targets and weight overrides
  - Category: Closed set of supported insurance lines

DESIGN PRINCIPLES:
  1. Purity: The engine mutates nothing; every call computes from inputs
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Type Safety: Strong typing for IDs and field values, no reflection
  4. Explainability: Every score carries its per-field breakdown

USAGE:
  criteria := health.DefaultCriteria()
  engine := compare.NewEngine(compare.StandardOptions(), log)
  out, err := engine.Compare(ctx, compare.Input{
      Category: compare.CategoryHealth,
      Policies: views,
      Criteria: criteria,
      User: compare.UserCriteria{
          Targets: map[compare.FieldName]compare.Value{
              compare.FieldBasePremium: compare.NumberFromInt(500),
          },
      },
  })

SEE ALSO:
  - engine.go: Compare orchestration and options
  - evaluate.go: Per-field comparison rules
  - aggregate.go: Weighted score aggregation
*/
package compare

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PolicyID string
type OrganizationID string
type CriterionID string

// FieldName identifies an evaluable policy attribute, e.g. "base_premium".
type FieldName string

// Well-known fields the engine treats specially.
const (
	FieldPolicyName        FieldName = "name"
	FieldBasePremium       FieldName = "base_premium"
	FieldCoverageAmount    FieldName = "coverage_amount"
	FieldWaitingPeriod     FieldName = "waiting_period_days"
	FieldMinimumAge        FieldName = "minimum_age"
	FieldMaximumAge        FieldName = "maximum_age"
	FieldIsFeatured        FieldName = "is_featured"
	FieldInHospitalLevel   FieldName = "in_hospital_benefit_level"
	FieldOutHospitalLevel  FieldName = "out_hospital_benefit_level"
	FieldAnnualLimitFamily FieldName = "annual_limit_family_range"
	FieldAnnualLimitMember FieldName = "annual_limit_member_range"
)

// Title renders a field name for user-facing text: "waiting_period_days"
// becomes "Waiting Period Days".
func (f FieldName) Title() string {
	parts := strings.Split(string(f), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// Spaced renders a field name lowercase with spaces: "base_premium"
// becomes "base premium".
func (f FieldName) Spaced() string {
	return strings.ReplaceAll(string(f), "_", " ")
}

// =============================================================================
// CATEGORY - Closed set of supported insurance lines
// =============================================================================

type Category string

const (
	CategoryHealth  Category = "health"
	CategoryFuneral Category = "funeral"
)

// ParseCategory normalizes a category string, reporting whether it names a
// supported line.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryHealth:
		return CategoryHealth, true
	case CategoryFuneral:
		return CategoryFuneral, true
	}
	return "", false
}

// =============================================================================
// VALUE - Typed optional field value
// =============================================================================

// ValueKind tags the concrete type held by a Value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindRange
)

// Value is a tagged union over the types a policy field or user target can
// hold. The zero Value is absent; absence is always explicit, never nil
// probing.
type Value struct {
	kind ValueKind
	b    bool
	n    decimal.Decimal
	s    string
	lo   *decimal.Decimal
	hi   *decimal.Decimal
}

func Bool(b bool) Value               { return Value{kind: KindBool, b: b} }
func Number(n decimal.Decimal) Value  { return Value{kind: KindNumber, n: n} }
func NumberFromInt(i int64) Value     { return Value{kind: KindNumber, n: decimal.NewFromInt(i)} }
func NumberFromFloat(f float64) Value { return Value{kind: KindNumber, n: decimal.NewFromFloat(f)} }
func String(s string) Value           { return Value{kind: KindString, s: s} }

// NumRange builds a range target; either bound may be nil (open).
func NumRange(lo, hi *decimal.Decimal) Value {
	return Value{kind: KindRange, lo: lo, hi: hi}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsAbsent() bool  { return v.kind == KindAbsent }

// Bool returns the boolean payload if the value holds one.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Number returns a numeric payload. Numeric strings coerce; other kinds do
// not.
func (v Value) Number() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindString:
		d, err := decimal.NewFromString(strings.TrimSpace(v.s))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// Str returns the string payload if the value holds one.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Range returns the bounds of a range value. Nil bounds are open.
func (v Value) Range() (lo, hi *decimal.Decimal, ok bool) {
	if v.kind != KindRange {
		return nil, nil, false
	}
	return v.lo, v.hi, true
}

// Truthy reports the value's truthiness: false/zero/empty are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return !v.n.IsZero()
	case KindString:
		return v.s != ""
	case KindRange:
		return v.lo != nil || v.hi != nil
	}
	return false
}

// Equal compares two values. Numbers compare numerically; booleans compare
// against numbers as 0/1; everything else requires matching kinds.
func (v Value) Equal(o Value) bool {
	if v.kind == KindBool && o.kind == KindNumber {
		return boolAsNumber(v.b).Equal(o.n)
	}
	if v.kind == KindNumber && o.kind == KindBool {
		return v.n.Equal(boolAsNumber(o.b))
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n.Equal(o.n)
	case KindString:
		return v.s == o.s
	case KindRange:
		return decimalPtrEqual(v.lo, o.lo) && decimalPtrEqual(v.hi, o.hi)
	}
	return false
}

// Text renders the value for explanation strings.
func (v Value) Text() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.n.String()
	case KindString:
		return v.s
	case KindRange:
		lo, hi := "", ""
		if v.lo != nil {
			lo = v.lo.String()
		}
		if v.hi != nil {
			hi = v.hi.String()
		}
		return lo + "-" + hi
	}
	return ""
}

func boolAsNumber(b bool) decimal.Decimal {
	if b {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// =============================================================================
// CRITERION - A named comparison rule bound to a policy field
// =============================================================================

// ComparisonType selects the evaluation rule for a criterion.
type ComparisonType string

const (
	LowerBetter  ComparisonType = "LOWER_BETTER"  // premiums, waiting periods
	HigherBetter ComparisonType = "HIGHER_BETTER" // coverage amounts, visit counts
	ExactMatch   ComparisonType = "EXACT_MATCH"   // plan type, cover type
	WithinRange  ComparisonType = "RANGE"         // target {min, max} bands
	BooleanMatch ComparisonType = "BOOLEAN"       // feature present / absent
)

// Criterion defines how one policy field is scored.
type Criterion struct {
	ID           CriterionID
	Name         string
	Description  string
	Field        FieldName
	Compare      ComparisonType
	Weight       decimal.Decimal // relative importance, default 50
	Required     bool
	Active       bool
	DisplayOrder int
}

// DefaultCriterionWeight applies when a criterion definition omits a weight.
var DefaultCriterionWeight = decimal.NewFromInt(50)

// =============================================================================
// USER CRITERIA - Targets and weight overrides supplied by the caller
// =============================================================================

type UserCriteria struct {
	// Targets maps field names to desired values. Fields without a target
	// still score through their criterion rule's no-target default.
	Targets map[FieldName]Value

	// Weights overrides criterion weights per field. Fields named here but
	// absent from the criteria set are evaluated with the generic fallback
	// rule.
	Weights map[FieldName]decimal.Decimal
}

// Target returns the user's desired value for a field, if any.
func (u UserCriteria) Target(f FieldName) Value {
	if u.Targets == nil {
		return Value{}
	}
	return u.Targets[f]
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var (
	decZero    = decimal.Zero
	decOne     = decimal.NewFromInt(1)
	decTen     = decimal.NewFromInt(10)
	decFifty   = decimal.NewFromInt(50)
	decHundred = decimal.NewFromInt(100)
)

func dec(i int64) decimal.Decimal { return decimal.NewFromInt(i) }

func decF(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// clampScore bounds a score to [0, 100].
func clampScore(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decZero) {
		return decZero
	}
	if d.GreaterThan(decHundred) {
		return decHundred
	}
	return d
}

// roundScore rounds half-up to two decimal places.
func roundScore(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

func decMin(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

func decMax(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// sortedFields returns map keys in deterministic order so breakdowns and
// explanations are stable run to run.
func sortedFields[V any](m map[FieldName]V) []FieldName {
	out := make([]FieldName, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
