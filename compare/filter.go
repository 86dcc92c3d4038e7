/*
filter.go - Hard requirement filter gate

PURPOSE:
  Removes candidate policies that fail the survey's hard requirements
  before any scoring happens. Filters use suffixed operator keys in the
  style of ORM lookups:

    base_premium__lte:  660      premium must be at most 660
    minimum_age__lte:   35       policy must accept a 35-year-old
    includes_dental_cover: true  feature must be present

OPERATORS:
  __lte  __gte  __lt  __gt     ordered comparison (numeric, then string)
  __exact                      equality
  __icontains                  case-insensitive substring
  (bare key)                   truthiness match for booleans, equality
                               otherwise

  A policy missing the filtered attribute is excluded: a hard requirement
  cannot be verified against absent data. Unrecognized operator suffixes
  do not constrain.

SEE ALSO:
  - engine.go: gate runs before validation of the post-filter count
  - survey.go: SurveyContext.Filters
*/
package compare

import "strings"

// =============================================================================
// FILTER SET
// =============================================================================

// FilterSet maps raw filter keys (field name plus optional "__op" suffix)
// to required values.
type FilterSet map[string]Value

// FilterOp is a parsed filter operator.
type FilterOp string

const (
	OpLTE       FilterOp = "lte"
	OpGTE       FilterOp = "gte"
	OpLT        FilterOp = "lt"
	OpGT        FilterOp = "gt"
	OpExact     FilterOp = "exact"
	OpIContains FilterOp = "icontains"
	OpIs        FilterOp = "" // bare key
)

// splitFilterKey separates "base_premium__lte" into field and operator.
// Keys without a "__" separator use the bare operator.
func splitFilterKey(key string) (FieldName, FilterOp) {
	field, op, found := strings.Cut(key, "__")
	if !found {
		return FieldName(key), OpIs
	}
	return FieldName(field), FilterOp(op)
}

// =============================================================================
// GATE
// =============================================================================

// applyFilters returns the candidates that satisfy every filter. It never
// errors; the caller re-checks the minimum candidate count afterwards.
func applyFilters(views []PolicyView, filters FilterSet) []PolicyView {
	if len(filters) == 0 {
		return views
	}
	kept := make([]PolicyView, 0, len(views))
	for _, v := range views {
		if policyMeetsFilters(v, filters) {
			kept = append(kept, v)
		}
	}
	return kept
}

func policyMeetsFilters(view PolicyView, filters FilterSet) bool {
	for key, want := range filters {
		if !policyMeetsFilter(view, key, want) {
			return false
		}
	}
	return true
}

func policyMeetsFilter(view PolicyView, key string, want Value) bool {
	field, op := splitFilterKey(key)

	got, ok := view.Field(field)
	if !ok {
		return false
	}

	switch op {
	case OpLTE:
		cmp, ok := orderedCompare(got, want)
		return ok && cmp <= 0
	case OpGTE:
		cmp, ok := orderedCompare(got, want)
		return ok && cmp >= 0
	case OpLT:
		cmp, ok := orderedCompare(got, want)
		return ok && cmp < 0
	case OpGT:
		cmp, ok := orderedCompare(got, want)
		return ok && cmp > 0
	case OpExact:
		return got.Equal(want)
	case OpIContains:
		return strings.Contains(strings.ToLower(got.Text()), strings.ToLower(want.Text()))
	case OpIs:
		if wb, isBool := want.Bool(); isBool {
			return got.Truthy() == wb
		}
		return got.Equal(want)
	}
	// Unknown operator suffixes do not constrain.
	return true
}

// orderedCompare compares two values for the ordered operators: numeric
// when both sides coerce, lexicographic otherwise. The result follows
// strings.Compare conventions. Incomparable pairs report !ok and fail the
// requirement.
func orderedCompare(got, want Value) (int, bool) {
	gn, gok := got.Number()
	wn, wok := want.Number()
	if gok && wok {
		return gn.Cmp(wn), true
	}
	gs, gok2 := got.Str()
	ws, wok2 := want.Str()
	if gok2 && wok2 {
		return strings.Compare(gs, ws), true
	}
	return 0, false
}
