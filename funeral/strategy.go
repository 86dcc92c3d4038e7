/*
strategy.go - Funeral category strategy

PURPOSE:
  Contributes the funeral-specific slices of a comparison result: extra
  pros/cons per policy and a cross-policy note on repatriation
  prevalence. The core engine stays category-agnostic and resolves this
  strategy through the registry.

BEHAVIOR:
  Pros:
    - Spouse plus children cover reads as full family coverage
    - Repatriation services are called out
    - Claim payout within 48 hours counts as fast

  Cons:
    - Natural death waiting periods longer than 6 months
    - Missing children cover

  Insight notes:
    - How many of the compared policies include repatriation

SEE ALSO:
  - compare/category.go: strategy interface and registry
  - compare/explain.go: where pros/cons join the standard explanations
  - health/strategy.go: the health counterpart
*/
package funeral

import (
	"fmt"

	"github.com/coverly/compare-engine/compare"
)

func init() {
	compare.RegisterCategory(Strategy{})
}

// Strategy implements compare.CategoryStrategy for funeral insurance.
type Strategy struct{}

// Category implements compare.CategoryStrategy.
func (Strategy) Category() compare.Category { return compare.CategoryFuneral }

// Pros returns funeral-specific strengths of one policy.
func (Strategy) Pros(view compare.PolicyView) []string {
	var pros []string
	if flag(view, fieldSpouseCover) && flag(view, fieldChildrenCover) {
		pros = append(pros, "Full family coverage included")
	}
	if flag(view, compare.FieldRepatriation) {
		pros = append(pros, "Repatriation services covered")
	}
	if hours, ok := count(view, compare.FieldClaimPayoutHours); ok && hours <= 48 {
		pros = append(pros, fmt.Sprintf("Fast claim payout (%d hours)", hours))
	}
	return pros
}

// Cons returns funeral-specific weaknesses of one policy.
func (Strategy) Cons(view compare.PolicyView) []string {
	var cons []string
	if months, ok := count(view, fieldNaturalWaiting); ok && months > 6 {
		cons = append(cons, fmt.Sprintf("Long natural death waiting period (%d months)", months))
	}
	if !flag(view, fieldChildrenCover) {
		cons = append(cons, "Children not covered")
	}
	return cons
}

// InsightNotes reports repatriation prevalence across the compared set.
func (Strategy) InsightNotes(views []compare.PolicyView) []compare.InsightNote {
	covered := 0
	for _, v := range views {
		if flag(v, compare.FieldRepatriation) {
			covered++
		}
	}
	if covered == 0 {
		return nil
	}
	return []compare.InsightNote{{
		Type:    "info",
		Title:   "Repatriation Services",
		Message: fmt.Sprintf("%d of %d policies include repatriation services.", covered, len(views)),
	}}
}

func flag(view compare.PolicyView, field compare.FieldName) bool {
	v, ok := view.Field(field)
	return ok && v.Truthy()
}

func count(view compare.PolicyView, field compare.FieldName) (int64, bool) {
	v, ok := view.Field(field)
	if !ok {
		return 0, false
	}
	n, ok := v.Number()
	if !ok {
		return 0, false
	}
	return n.IntPart(), true
}
