/*
enhance.go - Survey-driven score enhancement

PURPOSE:
  Layers a completed survey on top of the standard breakdown. Three
  adjustments happen, in order:

    1. Confidence weighting: each field score AND its weight are scaled
       by a multiplier derived from the user's 1-5 confidence in that
       area, then the criteria dimension is re-averaged. Low confidence
       pulls a field toward irrelevance rather than toward zero.
    2. Priority boost: policies are spot-checked against the user's
       stated priorities and the criteria score moves by an averaged
       boost in [-5, +5].
    3. Personalization factors: short human-readable reasons (at most
       five) explaining why this policy fits this user.

  Only the criteria dimension is recomputed; value, review and
  organization scores carry over unchanged, and the overall score is
  re-blended from the adjusted parts.

KEY CONCEPTS:
  - Confidence multiplier: 5 -> 1.00, 4 -> 0.95, 3 -> 0.85, 2 -> 0.75,
    1 -> 0.60. Fields the survey never asked about default to level 3.
  - Priority alignment: strong performance in a high-priority area earns
    +3, decent performance in a medium-priority area +1, weak
    performance in a high-priority area -2; the per-field boosts are
    averaged and clamped to [-5, +5].

SEE ALSO:
  - aggregate.go: the standard breakdown this builds on
  - explain.go: survey-aware pros and cons use the same profile
*/
package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIDENCE WEIGHTING
// =============================================================================

// defaultConfidenceLevel applies when the survey never asked about a field.
const defaultConfidenceLevel = 3

// confidenceMultiplier maps a 1-5 confidence level to the factor applied
// to both the score and the weight of the matching field.
func confidenceMultiplier(level int) decimal.Decimal {
	switch level {
	case 5:
		return decOne
	case 4:
		return decF(0.95)
	case 3:
		return decF(0.85)
	case 2:
		return decF(0.75)
	case 1:
		return decF(0.60)
	default:
		return decF(0.85)
	}
}

// enhanceWithSurvey rebuilds a breakdown with confidence weighting, the
// priority boost, and personalization factors. The input breakdown is
// not modified.
func enhanceWithSurvey(sc *scoringContext, view PolicyView, base Breakdown) Breakdown {
	survey := sc.survey

	enhanced := make(map[FieldName]FieldScore, len(base.FieldScores))
	totalWeighted := decZero
	totalWeight := decZero

	for _, field := range sortedFields(base.FieldScores) {
		info := base.FieldScores[field]

		level, ok := survey.Confidence[field]
		if !ok {
			level = defaultConfidenceLevel
		}
		multiplier := confidenceMultiplier(level)

		adjScore := info.Score.Mul(multiplier)
		adjWeight := info.Weight.Mul(multiplier)
		weighted := adjScore.Mul(adjWeight).Div(decHundred)

		enhanced[field] = FieldScore{
			Score:                adjScore,
			Weight:               adjWeight,
			WeightedScore:        weighted,
			ConfidenceLevel:      level,
			ConfidenceMultiplier: multiplier,
			OriginalScore:        info.Score,
		}

		totalWeighted = totalWeighted.Add(weighted)
		totalWeight = totalWeight.Add(adjWeight)
	}

	criteriaScore := base.CriteriaScore
	if totalWeight.GreaterThan(decZero) {
		criteriaScore = totalWeighted.Div(totalWeight).Mul(decHundred)
	}

	boost := priorityBoost(view, survey)
	criteriaScore = clampScore(criteriaScore.Add(boost))

	out := Breakdown{
		CriteriaScore:     criteriaScore,
		ValueScore:        base.ValueScore,
		ReviewScore:       base.ReviewScore,
		OrganizationScore: base.OrganizationScore,
		FieldScores:       enhanced,
		Survey: &SurveyEnhancements{
			ConfidenceWeighted:     true,
			PriorityBoost:          boost,
			PersonalizationFactors: personalizationFactors(view, survey, sc.opts.MaxFactors),
			ProfileStrength:        survey.ProfileStrength,
		},
	}
	out.blendOverall(sc.opts.Blend)
	return out
}

// =============================================================================
// PRIORITY BOOST
// =============================================================================

// priorityBoost rewards or penalizes a policy for how it performs in the
// areas the user called out as priorities.
func priorityBoost(view PolicyView, survey *SurveyContext) decimal.Decimal {
	if len(survey.Priorities) == 0 {
		return decZero
	}

	boost := decZero
	counted := 0

	for _, field := range sortedFields(survey.Priorities) {
		priority, ok := priorityScore(survey.Priorities[field])
		if !ok {
			continue
		}

		performance := evaluatePerformance(view, field)

		switch {
		case performance.GreaterThanOrEqual(dec(80)) && priority.GreaterThanOrEqual(dec(80)):
			boost = boost.Add(dec(3))
		case performance.GreaterThanOrEqual(dec(60)) && priority.GreaterThanOrEqual(dec(60)):
			boost = boost.Add(decOne)
		case performance.LessThanOrEqual(dec(40)) && priority.GreaterThanOrEqual(dec(80)):
			boost = boost.Sub(dec(2))
		}
		counted++
	}

	if counted > 0 {
		boost = boost.Div(dec(int64(counted)))
	}
	return decMin(decMax(boost, dec(-5)), dec(5))
}

// priorityVocabulary maps the survey's priority words to 0-100.
var priorityVocabulary = map[string]int64{
	"very_high":          100,
	"essential":          100,
	"high":               85,
	"very_important":     85,
	"important":          70,
	"medium":             60,
	"somewhat_important": 50,
	"low":                40,
	"nice_to_have":       30,
	"very_low":           20,
	"not_important":      10,
	"not_needed":         0,
}

// priorityScore converts a stated priority to 0-100. Strings use the
// vocabulary (unknown words read as neutral 50); numbers on a 1-5 scale
// multiply by 20 and on a 1-10 scale by 10. Anything else is skipped.
func priorityScore(v Value) (decimal.Decimal, bool) {
	if s, ok := v.Str(); ok {
		if mapped, known := priorityVocabulary[strings.ToLower(s)]; known {
			return dec(mapped), true
		}
		return decFifty, true
	}

	if n, ok := v.Number(); ok {
		switch {
		case n.GreaterThanOrEqual(decOne) && n.LessThanOrEqual(dec(5)):
			return n.Mul(dec(20)), true
		case n.GreaterThanOrEqual(decOne) && n.LessThanOrEqual(decTen):
			return n.Mul(decTen), true
		}
	}

	return decimal.Decimal{}, false
}

// =============================================================================
// PERFORMANCE SPOT CHECKS
// =============================================================================

// Survey priority areas checked against concrete policy attributes.
const (
	priorityBudget        FieldName = "monthly_budget"
	priorityCoverage      FieldName = "coverage_amount_preference"
	priorityWaiting       FieldName = "waiting_period_tolerance"
	priorityChronic       FieldName = "chronic_medication_needed"
	priorityDental        FieldName = "dental_cover_needed"
	priorityOptical       FieldName = "optical_cover_needed"
	priorityMaternity     FieldName = "maternity_cover_needed"
	priorityRepatriation  FieldName = "repatriation_needed"
	priorityInflation     FieldName = "inflation_protection_wanted"
	priorityClaimSpeed    FieldName = "claim_payout_speed_importance"
	priorityFamilyMembers FieldName = "family_members_to_cover"
)

// Policy feature fields the priority areas map onto.
const (
	FieldChronicMedication   FieldName = "chronic_medication_covered"
	FieldIncludesDental      FieldName = "includes_dental_cover"
	FieldIncludesOptical     FieldName = "includes_optical_cover"
	FieldIncludesMaternity   FieldName = "includes_maternity_cover"
	FieldRepatriation        FieldName = "repatriation_covered"
	FieldInflationProtection FieldName = "inflation_protection_included"
	FieldClaimPayoutHours    FieldName = "claim_payout_hours"
	FieldMaximumFamilySize   FieldName = "maximum_family_size"
)

// evaluatePerformance rates how a policy does in one priority area on a
// coarse 0-100 band. Areas without a dedicated check read as neutral 50.
func evaluatePerformance(view PolicyView, field FieldName) decimal.Decimal {
	switch field {
	case priorityBudget:
		return bandLowerBetter(view.Premium(), dec(500), dec(1000), dec(2000))
	case priorityCoverage:
		return bandHigherBetter(view.Coverage(), dec(1000000), dec(500000), dec(100000))
	case priorityWaiting:
		return bandLowerBetter(dec(int64(view.WaitingPeriodDays())), dec(30), dec(90), dec(180))
	case priorityChronic:
		return featurePerformance(view, FieldChronicMedication)
	case priorityDental:
		return featurePerformance(view, FieldIncludesDental)
	case priorityOptical:
		return featurePerformance(view, FieldIncludesOptical)
	case priorityMaternity:
		return featurePerformance(view, FieldIncludesMaternity)
	case priorityRepatriation:
		return featurePerformance(view, FieldRepatriation)
	case priorityInflation:
		return featurePerformance(view, FieldInflationProtection)
	case priorityClaimSpeed:
		hours, ok := view.Field(FieldClaimPayoutHours)
		if !ok || hours.IsAbsent() {
			return decFifty
		}
		n, ok := hours.Number()
		if !ok {
			return decFifty
		}
		return bandLowerBetter(n, dec(48), dec(120), dec(240))
	case priorityFamilyMembers:
		size, ok := view.Field(FieldMaximumFamilySize)
		if !ok || size.IsAbsent() {
			return decFifty
		}
		n, ok := size.Number()
		if !ok {
			return decFifty
		}
		return bandHigherBetter(n, dec(8), dec(6), dec(4))
	default:
		return decFifty
	}
}

// featurePerformance: a present, truthy feature scores 90, anything else 20.
func featurePerformance(view PolicyView, field FieldName) decimal.Decimal {
	if v, ok := view.Field(field); ok && v.Truthy() {
		return dec(90)
	}
	return dec(20)
}

// bandLowerBetter buckets a lower-is-better quantity into 90/70/50/30.
func bandLowerBetter(v, excellent, good, fair decimal.Decimal) decimal.Decimal {
	switch {
	case v.LessThanOrEqual(excellent):
		return dec(90)
	case v.LessThanOrEqual(good):
		return dec(70)
	case v.LessThanOrEqual(fair):
		return dec(50)
	default:
		return dec(30)
	}
}

// bandHigherBetter buckets a higher-is-better quantity into 90/70/50/30.
func bandHigherBetter(v, excellent, good, fair decimal.Decimal) decimal.Decimal {
	switch {
	case v.GreaterThanOrEqual(excellent):
		return dec(90)
	case v.GreaterThanOrEqual(good):
		return dec(70)
	case v.GreaterThanOrEqual(fair):
		return dec(50)
	default:
		return dec(30)
	}
}

// =============================================================================
// PERSONALIZATION FACTORS
// =============================================================================

// personalizationFactors lists up to max short reasons this policy fits
// the surveyed profile.
func personalizationFactors(view PolicyView, survey *SurveyContext, max int) []string {
	factors := make([]string, 0, max)
	profile := survey.Profile

	if budget, ok := profile.MonthlyBudget.Number(); ok {
		if view.Premium().LessThanOrEqual(budget.Mul(decF(1.1))) {
			factors = append(factors, fmt.Sprintf("Fits within your budget of R%s/month", budget.Round(0)))
		}
	} else if s, ok := profile.MonthlyBudget.Str(); ok {
		if strings.Contains(strings.ToLower(s), "affordable") {
			factors = append(factors, "Matches your preference for affordable coverage")
		}
	}

	if pref, ok := profile.CoveragePreference.Number(); ok && pref.GreaterThan(decZero) {
		if view.Coverage().GreaterThanOrEqual(pref.Mul(decF(0.9))) {
			factors = append(factors, fmt.Sprintf("Provides coverage close to your preferred R%s", groupThousands(pref)))
		}
	}

	featureFactors := []struct {
		want  FieldName
		field FieldName
		text  string
	}{
		{priorityChronic, FieldChronicMedication, "Covers chronic medication as you requested"},
		{priorityDental, FieldIncludesDental, "Includes dental coverage as preferred"},
		{priorityOptical, FieldIncludesOptical, "Includes optical coverage as needed"},
		{priorityRepatriation, FieldRepatriation, "Provides repatriation services as required"},
	}
	for _, ff := range featureFactors {
		if !profile.WantsFeature(ff.want) {
			continue
		}
		if v, ok := view.Field(ff.field); ok && v.Truthy() {
			factors = append(factors, ff.text)
		}
	}

	if tolerance, ok := profile.WaitingTolerance.Number(); ok {
		if dec(int64(view.WaitingPeriodDays())).LessThanOrEqual(tolerance) {
			factors = append(factors, fmt.Sprintf("Waiting period of %d days meets your tolerance", view.WaitingPeriodDays()))
		}
	}

	for _, field := range sortedFields(survey.Priorities) {
		priority, ok := priorityScore(survey.Priorities[field])
		if !ok || priority.LessThan(dec(70)) {
			continue
		}
		if evaluatePerformance(view, field).GreaterThanOrEqual(dec(70)) {
			factors = append(factors, fmt.Sprintf("Strong performance in %s (high priority for you)", field.Spaced()))
		}
	}

	if len(factors) > max {
		factors = factors[:max]
	}
	return factors
}
