/*
strategy.go - Health category strategy

PURPOSE:
  Contributes the health-specific slices of a comparison result: extra
  pros/cons per policy and a cross-policy note on chronic medication
  prevalence. The core engine stays category-agnostic and resolves this
  strategy through the registry.

BEHAVIOR:
  Pros:
    - Hospital plus outpatient cover reads as comprehensive
    - Chronic medication coverage is called out
    - More than 10 GP visits per year counts as generous

  Cons:
    - Missing dental, optical, or chronic medication coverage

  Insight notes:
    - How many of the compared policies include chronic medication

SEE ALSO:
  - compare/category.go: strategy interface and registry
  - compare/explain.go: where pros/cons join the standard explanations
  - funeral/strategy.go: the funeral counterpart
*/
package health

import (
	"fmt"

	"github.com/coverly/compare-engine/compare"
)

func init() {
	compare.RegisterCategory(Strategy{})
}

// Strategy implements compare.CategoryStrategy for health insurance.
type Strategy struct{}

// Category implements compare.CategoryStrategy.
func (Strategy) Category() compare.Category { return compare.CategoryHealth }

// Pros returns health-specific strengths of one policy.
func (Strategy) Pros(view compare.PolicyView) []string {
	var pros []string
	if flag(view, fieldHospitalCover) && flag(view, fieldOutpatientCover) {
		pros = append(pros, "Comprehensive hospital and day-to-day cover")
	}
	if flag(view, compare.FieldChronicMedication) {
		pros = append(pros, "Includes chronic medication")
	}
	if visits, ok := count(view, fieldGPVisits); ok && visits > 10 {
		pros = append(pros, fmt.Sprintf("Generous GP visits (%d/year)", visits))
	}
	return pros
}

// Cons returns health-specific weaknesses of one policy.
func (Strategy) Cons(view compare.PolicyView) []string {
	var cons []string
	if !flag(view, compare.FieldIncludesDental) {
		cons = append(cons, "No dental coverage")
	}
	if !flag(view, compare.FieldIncludesOptical) {
		cons = append(cons, "No optical/vision coverage")
	}
	if !flag(view, compare.FieldChronicMedication) {
		cons = append(cons, "Chronic medication not covered")
	}
	return cons
}

// InsightNotes reports chronic medication prevalence across the compared set.
func (Strategy) InsightNotes(views []compare.PolicyView) []compare.InsightNote {
	covered := 0
	for _, v := range views {
		if flag(v, compare.FieldChronicMedication) {
			covered++
		}
	}
	if covered == 0 {
		return nil
	}
	return []compare.InsightNote{{
		Type:    "info",
		Title:   "Chronic Medication Coverage",
		Message: fmt.Sprintf("%d of %d policies include chronic medication coverage.", covered, len(views)),
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
