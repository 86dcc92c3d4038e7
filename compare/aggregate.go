/*
aggregate.go - Weighted score aggregation for a single policy

PURPOSE:
  Composes the per-field criterion scores into one 0-100 breakdown per
  policy across four dimensions:

    criteria      weighted average of field evaluations (the user's voice)
    value         coverage-per-premium with waiting/age adjustments
    review        star ratings dampened by review-count credibility
    organization  issuer standing (verified, active, licensed, featured)

  The overall score blends the four with the context's blend weights
  (standard 0.60/0.25/0.10/0.05) and rounds half-up to two decimals.

FAILURE RECOVERY:
  A criterion that fails to evaluate is logged and omitted: neither its
  score nor its weight enters the sum, so the remaining criteria keep
  their relative importance. If every weight drops out the criteria
  dimension is neutral 50.

SEE ALSO:
  - evaluate.go: the per-field rules
  - enhance.go: survey adjustments layered on this breakdown
  - rank.go: ordering of finished breakdowns
*/
package compare

import "github.com/shopspring/decimal"

// =============================================================================
// BREAKDOWN TYPES
// =============================================================================

// FieldScore records how one field contributed to the criteria dimension.
// The confidence fields are populated only on the survey-enhanced path.
type FieldScore struct {
	Score         decimal.Decimal `json:"score"`
	Weight        decimal.Decimal `json:"weight"`
	WeightedScore decimal.Decimal `json:"weighted_score"`

	ConfidenceLevel      int             `json:"confidence_level,omitempty"`
	ConfidenceMultiplier decimal.Decimal `json:"confidence_multiplier,omitempty"`
	OriginalScore        decimal.Decimal `json:"original_score,omitempty"`
}

// Contributions shows how much each dimension added to the overall score.
type Contributions struct {
	Criteria     decimal.Decimal `json:"criteria_contribution"`
	Value        decimal.Decimal `json:"value_contribution"`
	Review       decimal.Decimal `json:"review_contribution"`
	Organization decimal.Decimal `json:"organization_contribution"`
}

// SurveyEnhancements carries the survey-path extras on a breakdown.
type SurveyEnhancements struct {
	ConfidenceWeighted     bool            `json:"confidence_weighted"`
	PriorityBoost          decimal.Decimal `json:"priority_boost"`
	PersonalizationFactors []string        `json:"personalization_factors"`
	ProfileStrength        float64         `json:"profile_strength"`
}

// Breakdown is the complete score card for one policy.
type Breakdown struct {
	OverallScore      decimal.Decimal          `json:"overall_score"`
	CriteriaScore     decimal.Decimal          `json:"criteria_score"`
	ValueScore        decimal.Decimal          `json:"value_score"`
	ReviewScore       decimal.Decimal          `json:"review_score"`
	OrganizationScore decimal.Decimal          `json:"organization_score"`
	FieldScores       map[FieldName]FieldScore `json:"criteria_scores"`
	Contributions     Contributions            `json:"score_breakdown"`
	Survey            *SurveyEnhancements      `json:"survey_enhancements,omitempty"`
}

// =============================================================================
// POLICY SCORING
// =============================================================================

// scorePolicy produces the standard (non-survey) breakdown for one policy.
func scorePolicy(sc *scoringContext, view PolicyView) (Breakdown, error) {
	if view == nil {
		return Breakdown{}, errNilPolicyView
	}

	fieldScores := make(map[FieldName]FieldScore, len(sc.fields))
	totalWeighted := decZero
	totalWeight := decZero

	for _, field := range sc.fields {
		weight := sc.weights[field]
		if !weight.GreaterThan(decZero) {
			continue
		}

		score, err := evaluateField(sc, view, field)
		if err != nil {
			cerr := &CriterionError{PolicyID: view.ID(), Field: field, Err: err}
			sc.log.Warn("criterion evaluation failed, omitting field", map[string]interface{}{
				"policy_id": string(view.ID()),
				"field":     string(field),
				"error":     cerr.Err.Error(),
			})
			continue
		}

		weighted := score.Mul(weight).Div(decHundred)
		fieldScores[field] = FieldScore{Score: score, Weight: weight, WeightedScore: weighted}
		totalWeighted = totalWeighted.Add(weighted)
		totalWeight = totalWeight.Add(weight)
	}

	criteriaScore := decFifty
	if totalWeight.GreaterThan(decZero) {
		criteriaScore = totalWeighted.Div(totalWeight).Mul(decHundred)
	}

	valueScore := valueScore(view)
	reviewScore := reviewScore(view.ReviewStats())
	orgScore := organizationScore(view)

	bd := Breakdown{
		CriteriaScore:     criteriaScore,
		ValueScore:        valueScore,
		ReviewScore:       reviewScore,
		OrganizationScore: orgScore,
		FieldScores:       fieldScores,
	}
	bd.blendOverall(sc.opts.Blend)
	return bd, nil
}

// blendOverall recomputes the overall score and contributions from the
// four dimension scores.
func (b *Breakdown) blendOverall(w BlendWeights) {
	b.Contributions = Contributions{
		Criteria:     b.CriteriaScore.Mul(w.Criteria),
		Value:        b.ValueScore.Mul(w.Value),
		Review:       b.ReviewScore.Mul(w.Review),
		Organization: b.OrganizationScore.Mul(w.Organization),
	}
	overall := b.Contributions.Criteria.
		Add(b.Contributions.Value).
		Add(b.Contributions.Review).
		Add(b.Contributions.Organization)
	b.OverallScore = roundScore(overall)
}

// =============================================================================
// DIMENSION SCORES
// =============================================================================

// valueScore rates coverage-per-premium. A ratio of 150:1 saturates the
// base score; long waiting periods cost up to 20 points and age windows
// narrower than 30 years cost up to 10.
func valueScore(view PolicyView) decimal.Decimal {
	premium := view.Premium()
	if premium.IsZero() {
		return decHundred
	}

	ratio := view.Coverage().Div(premium)
	score := decMin(ratio.Div(dec(150)).Mul(decHundred), decHundred)

	if view.WaitingPeriodDays() > 0 {
		waitingPenalty := decMin(dec(int64(view.WaitingPeriodDays())).Div(decTen), dec(20))
		score = score.Sub(waitingPenalty)
	}

	ageRange := view.MaximumAge() - view.MinimumAge()
	if ageRange < 30 {
		agePenalty := dec(int64(30 - ageRange)).Div(dec(3))
		score = score.Sub(agePenalty)
	}

	return decMax(score, decZero)
}

// reviewScore converts the 5-star average to 0-100, then pulls it toward
// neutral 50 when few reviews back it.
func reviewScore(stats ReviewSummary) decimal.Decimal {
	if stats.Count == 0 {
		return decFifty
	}

	base := stats.Average.Mul(dec(20))

	var credibility decimal.Decimal
	switch {
	case stats.Count >= 50:
		credibility = decOne
	case stats.Count >= 20:
		credibility = decF(0.95)
	case stats.Count >= 10:
		credibility = decF(0.90)
	case stats.Count >= 5:
		credibility = decF(0.85)
	default:
		credibility = decF(0.75)
	}

	return base.Mul(credibility).Add(decFifty.Mul(decOne.Sub(credibility)))
}

// organizationScore rates the issuer from a neutral 50: verification +20,
// active status +10, valid license +15 (expired -30), featured policy +5.
func organizationScore(view PolicyView) decimal.Decimal {
	score := decFifty
	org := view.Organization()

	if org.Verified {
		score = score.Add(dec(20))
	}
	if org.Active {
		score = score.Add(decTen)
	}
	if org.LicenseValid {
		score = score.Add(dec(15))
	} else {
		score = score.Sub(dec(30))
	}
	if view.IsFeatured() {
		score = score.Add(dec(5))
	}

	return clampScore(score)
}
