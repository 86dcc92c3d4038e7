/*
explain.go - Pros, cons and recommendation reasons

PURPOSE:
  Produces the human-readable side of a comparison: per-policy pro and
  con lists and a ranked recommendation paragraph. Two generations
  exist: the standard one reads only the breakdown, the survey-aware
  one leads with reasons phrased against the user's own answers
  ("Saves you R150/month from your budget") and falls back to the
  standard items for the remaining slots.

KEY CONCEPTS:
  - Cap of 8: a policy never shows more than eight pros or cons; survey
    items take the front slots and standard items fill in, deduplicated.
  - Category texts: health and funeral strategies contribute their own
    items through CategoryStrategy.

SEE ALSO:
  - enhance.go: personalization factors reused inside reasons
  - insights.go: comparison-wide texts
*/
package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// explainResults attaches pros, cons and the recommendation reason to
// every ranked result, in rank order.
func explainResults(sc *scoringContext, results []RankedResult) {
	for i := range results {
		r := &results[i]
		if sc.survey != nil {
			r.Pros = surveyAwarePros(sc, r.Policy, r.Scores)
			r.Cons = surveyAwareCons(sc, r.Policy, r.Scores)
		} else {
			r.Pros = standardPros(sc, r.Policy, r.Scores)
			r.Cons = standardCons(sc, r.Policy, r.Scores)
		}
		r.RecommendationReason = recommendationReason(*r)
	}
}

// =============================================================================
// STANDARD PROS AND CONS
// =============================================================================

func standardPros(sc *scoringContext, view PolicyView, bd Breakdown) []string {
	pros := make([]string, 0, sc.opts.MaxProsCons)

	for _, field := range sortedFields(bd.FieldScores) {
		if bd.FieldScores[field].Score.GreaterThanOrEqual(dec(85)) {
			if criterion, ok := sc.criteria[field]; ok && criterion.Name != "" {
				pros = append(pros, "Excellent "+strings.ToLower(criterion.Name))
			} else {
				pros = append(pros, "Strong "+field.Spaced())
			}
		}
	}

	switch {
	case bd.ValueScore.GreaterThanOrEqual(dec(75)):
		pros = append(pros, "Outstanding value for money")
	case bd.ValueScore.GreaterThanOrEqual(dec(60)):
		pros = append(pros, "Good value for money")
	}

	switch {
	case bd.ReviewScore.GreaterThanOrEqual(dec(85)):
		pros = append(pros, "Highly rated by customers")
	case bd.ReviewScore.GreaterThanOrEqual(dec(70)):
		pros = append(pros, "Well-reviewed by customers")
	}

	if bd.OrganizationScore.GreaterThanOrEqual(dec(80)) {
		pros = append(pros, "Reputable insurance provider")
	}
	if view.Organization().Verified {
		pros = append(pros, "Verified organization")
	}
	if view.IsFeatured() {
		pros = append(pros, "Featured policy")
	}
	if view.WaitingPeriodDays() <= 30 {
		pros = append(pros, "Short waiting period")
	}

	pros = append(pros, sc.strategy.Pros(view)...)

	return capList(pros, sc.opts.MaxProsCons)
}

func standardCons(sc *scoringContext, view PolicyView, bd Breakdown) []string {
	cons := make([]string, 0, sc.opts.MaxProsCons)

	for _, field := range sortedFields(bd.FieldScores) {
		if bd.FieldScores[field].Score.LessThanOrEqual(dec(35)) {
			if criterion, ok := sc.criteria[field]; ok && criterion.Name != "" {
				cons = append(cons, "Limited "+strings.ToLower(criterion.Name))
			} else {
				cons = append(cons, "Weak "+field.Spaced())
			}
		}
	}

	switch {
	case bd.ValueScore.LessThanOrEqual(dec(35)):
		cons = append(cons, "Poor value for money")
	case bd.ValueScore.LessThanOrEqual(decFifty):
		cons = append(cons, "Below average value")
	}

	if bd.ReviewScore.LessThanOrEqual(dec(40)) {
		cons = append(cons, "Lower customer satisfaction")
	}
	if bd.OrganizationScore.LessThanOrEqual(dec(40)) {
		cons = append(cons, "Organization reputation concerns")
	}

	switch days := view.WaitingPeriodDays(); {
	case days > 180:
		cons = append(cons, fmt.Sprintf("Very long waiting period (%d days)", days))
	case days > 90:
		cons = append(cons, fmt.Sprintf("Long waiting period (%d days)", days))
	}

	if target, ok := sc.user.Targets[FieldBasePremium]; ok {
		if n, ok := target.Number(); ok && !n.IsZero() {
			if view.Premium().GreaterThan(n.Mul(decF(1.3))) {
				cons = append(cons, "Higher premium than preferred")
			}
		}
	}
	if target, ok := sc.user.Targets[FieldCoverageAmount]; ok {
		if n, ok := target.Number(); ok && !n.IsZero() {
			if view.Coverage().LessThan(n.Mul(decF(0.7))) {
				cons = append(cons, "Lower coverage than desired")
			}
		}
	}

	cons = append(cons, sc.strategy.Cons(view)...)

	return capList(cons, sc.opts.MaxProsCons)
}

// =============================================================================
// SURVEY-AWARE PROS AND CONS
// =============================================================================

// surveyFeaturePair links a wanted-feature survey answer to the policy
// field that satisfies it.
type surveyFeaturePair struct {
	want    FieldName
	field   FieldName
	pro     string
	missing string
}

var surveyFeaturePairs = []surveyFeaturePair{
	{priorityChronic, FieldChronicMedication,
		"Covers chronic medication as you need",
		"No chronic medication coverage (you need this)"},
	{priorityDental, FieldIncludesDental,
		"Includes dental coverage you requested",
		"Missing dental coverage you requested"},
	{priorityOptical, FieldIncludesOptical,
		"Provides optical coverage as preferred",
		"No optical coverage (you wanted this)"},
	{priorityMaternity, FieldIncludesMaternity,
		"Includes maternity benefits you wanted",
		"Missing maternity benefits you need"},
	{priorityRepatriation, FieldRepatriation,
		"Covers repatriation services as required",
		"No repatriation coverage (you require this)"},
	{priorityInflation, FieldInflationProtection,
		"Includes inflation protection you requested",
		"Missing inflation protection you wanted"},
}

func surveyAwarePros(sc *scoringContext, view PolicyView, bd Breakdown) []string {
	profile := sc.survey.Profile
	var pros []string

	if budget, ok := profile.MonthlyBudget.Number(); ok {
		if view.Premium().LessThanOrEqual(budget) {
			savings := budget.Sub(view.Premium())
			if savings.GreaterThan(decZero) {
				pros = append(pros, fmt.Sprintf("Saves you R%s/month from your budget", savings.Round(0)))
			} else {
				pros = append(pros, "Fits exactly within your stated budget")
			}
		}
	}

	if pref, ok := profile.CoveragePreference.Number(); ok {
		if view.Coverage().GreaterThanOrEqual(pref) {
			excess := view.Coverage().Sub(pref)
			if excess.GreaterThan(decZero) {
				pros = append(pros, fmt.Sprintf("Provides R%s more coverage than you requested", groupThousands(excess)))
			} else {
				pros = append(pros, "Matches your exact coverage requirement")
			}
		}
	}

	for _, pair := range surveyFeaturePairs {
		if !profile.WantsFeature(pair.want) {
			continue
		}
		if v, ok := view.Field(pair.field); ok && v.Truthy() {
			pros = append(pros, pair.pro)
		}
	}

	for _, field := range sortedFields(sc.survey.Priorities) {
		priority, ok := priorityScore(sc.survey.Priorities[field])
		if !ok || priority.LessThan(dec(70)) {
			continue
		}
		if evaluatePerformance(view, field).GreaterThanOrEqual(dec(80)) {
			pros = append(pros, fmt.Sprintf("Excels in %s (your high priority)", field.Title()))
		}
	}

	if tolerance, ok := profile.WaitingTolerance.Number(); ok {
		half := tolerance.Div(dec(2))
		if dec(int64(view.WaitingPeriodDays())).LessThanOrEqual(half) {
			pros = append(pros, fmt.Sprintf("Much shorter waiting period than your %s-day tolerance", tolerance))
		}
	}

	for _, field := range sortedFields(sc.survey.Confidence) {
		if sc.survey.Confidence[field] < 4 {
			continue
		}
		if info, ok := bd.FieldScores[field]; ok && info.Score.GreaterThanOrEqual(dec(80)) {
			pros = append(pros, fmt.Sprintf("Strong match for %s (high confidence area)", field.Title()))
		}
	}

	return mergeExplanations(pros, standardPros(sc, view, bd), sc.opts.MaxProsCons)
}

func surveyAwareCons(sc *scoringContext, view PolicyView, bd Breakdown) []string {
	profile := sc.survey.Profile
	var cons []string

	if budget, ok := profile.MonthlyBudget.Number(); ok {
		if view.Premium().GreaterThan(budget) {
			excess := view.Premium().Sub(budget)
			cons = append(cons, fmt.Sprintf("R%s/month over your stated budget", excess.Round(0)))
		}
	}

	if pref, ok := profile.CoveragePreference.Number(); ok {
		if view.Coverage().LessThan(pref) {
			shortfall := pref.Sub(view.Coverage())
			cons = append(cons, fmt.Sprintf("R%s less coverage than you wanted", groupThousands(shortfall)))
		}
	}

	for _, pair := range surveyFeaturePairs {
		if !profile.WantsFeature(pair.want) {
			continue
		}
		if v, ok := view.Field(pair.field); !ok || !v.Truthy() {
			cons = append(cons, pair.missing)
		}
	}

	for _, field := range sortedFields(sc.survey.Priorities) {
		priority, ok := priorityScore(sc.survey.Priorities[field])
		if !ok || priority.LessThan(dec(70)) {
			continue
		}
		if evaluatePerformance(view, field).LessThanOrEqual(dec(40)) {
			cons = append(cons, fmt.Sprintf("Weak performance in %s (your high priority)", field.Title()))
		}
	}

	if tolerance, ok := profile.WaitingTolerance.Number(); ok {
		days := dec(int64(view.WaitingPeriodDays()))
		if days.GreaterThan(tolerance) {
			cons = append(cons, fmt.Sprintf("Waiting period %s days longer than your tolerance", days.Sub(tolerance)))
		}
	}

	if age, ok := profile.Age.Number(); ok {
		switch {
		case age.LessThan(dec(int64(view.MinimumAge()))):
			cons = append(cons, fmt.Sprintf("You're too young (minimum age: %d)", view.MinimumAge()))
		case age.GreaterThan(dec(int64(view.MaximumAge()))):
			cons = append(cons, fmt.Sprintf("You're over the maximum age (%d)", view.MaximumAge()))
		}
	}

	if familySize, ok := profile.FamilySize.Number(); ok {
		if maxSize, present := view.Field(FieldMaximumFamilySize); present {
			if limit, isNum := maxSize.Number(); isNum && familySize.GreaterThan(limit) {
				cons = append(cons, fmt.Sprintf("Cannot cover all %s family members (max: %s)", familySize, limit))
			}
		}
	}

	for _, field := range sortedFields(sc.survey.Confidence) {
		if sc.survey.Confidence[field] < 4 {
			continue
		}
		if info, ok := bd.FieldScores[field]; ok && info.Score.LessThanOrEqual(dec(40)) {
			cons = append(cons, fmt.Sprintf("Poor match for %s (important to you)", field.Title()))
		}
	}

	return mergeExplanations(cons, standardCons(sc, view, bd), sc.opts.MaxProsCons)
}

// mergeExplanations puts survey-specific items first, appends standard
// items not already present, and applies the cap.
func mergeExplanations(surveyItems, standardItems []string, max int) []string {
	seen := make(map[string]bool, len(surveyItems))
	for _, item := range surveyItems {
		seen[item] = true
	}

	merged := surveyItems
	for _, item := range standardItems {
		if !seen[item] {
			merged = append(merged, item)
		}
	}
	return capList(merged, max)
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

// =============================================================================
// RECOMMENDATION REASON
// =============================================================================

// recommendationReason writes the ranked explanation paragraph for one
// result, appending up to two personalization factors and a note on how
// personalized the recommendation is.
func recommendationReason(r RankedResult) string {
	name := r.Policy.Name()
	score := r.Scores.OverallScore.StringFixed(1)

	var reason string
	switch {
	case r.Rank == 1:
		reason = fmt.Sprintf(
			"%s is your best match with a score of %s/100. "+
				"It excels in your priority areas and offers the best overall combination "+
				"of coverage, value, and quality for your specific needs.",
			name, score)
	case r.Rank == 2:
		reason = fmt.Sprintf(
			"%s is a strong alternative with a score of %s/100. "+
				"While not the top match, it offers excellent value and may be worth "+
				"considering if certain factors are particularly important to you.",
			name, score)
	case r.Rank == 3:
		reason = fmt.Sprintf(
			"%s scored %s/100 and ranks third. "+
				"It's a solid option that meets most of your requirements, though "+
				"other policies align better with your stated priorities.",
			name, score)
	case r.Scores.OverallScore.GreaterThanOrEqual(dec(70)):
		reason = fmt.Sprintf(
			"%s scored %s/100 (ranked #%d). "+
				"This is a good policy that meets many of your needs, though there "+
				"are better matches available based on your criteria.",
			name, score, r.Rank)
	case r.Scores.OverallScore.GreaterThanOrEqual(decFifty):
		reason = fmt.Sprintf(
			"%s scored %s/100 (ranked #%d). "+
				"While this policy provides adequate coverage, it doesn't align as "+
				"closely with your priorities as other options. Review the trade-offs carefully.",
			name, score, r.Rank)
	default:
		reason = fmt.Sprintf(
			"%s scored %s/100 (ranked #%d). "+
				"This policy has significant gaps compared to your requirements. "+
				"Consider whether the compromises are acceptable for your situation.",
			name, score, r.Rank)
	}

	if r.Scores.Survey == nil {
		return reason
	}

	if factors := r.Scores.Survey.PersonalizationFactors; len(factors) > 0 {
		top := factors
		if len(top) > 2 {
			top = top[:2]
		}
		reason += " Specifically: " + strings.Join(top, "; ") + "."
	}

	if r.Scores.Survey.ConfidenceWeighted {
		switch strength := r.Scores.Survey.ProfileStrength; {
		case strength >= 0.8:
			reason += " This recommendation is highly personalized based on your detailed survey responses."
		case strength >= 0.6:
			reason += " This recommendation is personalized based on your survey responses."
		}
	}

	return reason
}

// =============================================================================
// AMOUNT FORMATTING
// =============================================================================

// groupThousands renders a decimal rounded to whole units with comma
// thousand separators, the way large rand amounts read in explanations.
func groupThousands(d decimal.Decimal) string {
	s := d.Round(0).String()

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	if len(s) > 3 {
		var b strings.Builder
		first := len(s) % 3
		if first > 0 {
			b.WriteString(s[:first])
		}
		for i := first; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}

	if neg {
		return "-" + s
	}
	return s
}
