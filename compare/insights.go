/*
insights.go - Cross-policy recommendations, analysis and insights

PURPOSE:
  Everything derived from the ranked set as a whole rather than from one
  policy: the categorized recommendation picks (best overall, best
  value, most popular, budget friendly, premium coverage, and the
  survey-only priority match), the statistical analysis block, and the
  actionable insight texts.

KEY CONCEPTS:
  - Picks reuse the ranked results; each pick is the stable-sort winner
    under its own key, so a pick never disagrees with the ranking math.
  - Spread classification: the gap across all overall scores classifies
    the comparison as close (<10 points) or clear-cut (>30 points).
  - Common strengths/weaknesses: pro/con texts shared by at least 40%
    of the compared policies.

SEE ALSO:
  - explain.go: the per-policy texts these aggregates are built from
  - category.go: category strategies contribute typed insight notes
*/
package compare

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECOMMENDATION PICKS
// =============================================================================

// Recommendations names one standout policy per shopping angle.
type Recommendations struct {
	BestOverall     *BestOverallPick   `json:"best_overall,omitempty"`
	BestValue       *BestValuePick     `json:"best_value,omitempty"`
	MostPopular     *MostPopularPick   `json:"most_popular,omitempty"`
	BudgetFriendly  *AffordabilityPick `json:"budget_friendly,omitempty"`
	PremiumCoverage *AffordabilityPick `json:"premium_coverage,omitempty"`
	PriorityMatch   *PriorityMatchPick `json:"priority_match,omitempty"`
}

// BestOverallPick is the top-ranked policy.
type BestOverallPick struct {
	PolicyID     PolicyID        `json:"policy_id"`
	PolicyName   string          `json:"policy_name"`
	Organization string          `json:"organization"`
	Score        decimal.Decimal `json:"score"`
	Premium      decimal.Decimal `json:"premium"`
	Coverage     decimal.Decimal `json:"coverage"`
	Rank         int             `json:"rank"`
	Reason       string          `json:"reason"`
	TopPros      []string        `json:"top_pros"`
}

// BestValuePick is the policy with the best coverage-to-premium ratio.
type BestValuePick struct {
	PolicyID     PolicyID        `json:"policy_id"`
	PolicyName   string          `json:"policy_name"`
	Organization string          `json:"organization"`
	ValueScore   decimal.Decimal `json:"value_score"`
	Premium      decimal.Decimal `json:"premium"`
	Coverage     decimal.Decimal `json:"coverage"`
	ValueRatio   decimal.Decimal `json:"value_ratio"`
	Reason       string          `json:"reason"`
}

// MostPopularPick is the best-reviewed policy; only present when its
// review score clears neutral.
type MostPopularPick struct {
	PolicyID     PolicyID        `json:"policy_id"`
	PolicyName   string          `json:"policy_name"`
	Organization string          `json:"organization"`
	ReviewScore  decimal.Decimal `json:"review_score"`
	Reason       string          `json:"reason"`
}

// AffordabilityPick serves both the cheapest-premium and the
// highest-coverage angles.
type AffordabilityPick struct {
	PolicyID     PolicyID        `json:"policy_id"`
	PolicyName   string          `json:"policy_name"`
	Organization string          `json:"organization"`
	Premium      decimal.Decimal `json:"premium"`
	Coverage     decimal.Decimal `json:"coverage"`
	OverallScore decimal.Decimal `json:"overall_score"`
	Reason       string          `json:"reason"`
}

// PriorityMatchPick is the policy that performs best in the user's top
// stated priority; only produced on survey-driven comparisons.
type PriorityMatchPick struct {
	PolicyID     PolicyID        `json:"policy_id"`
	PolicyName   string          `json:"policy_name"`
	Organization string          `json:"organization"`
	Priority     FieldName       `json:"priority"`
	Score        decimal.Decimal `json:"score"`
	Reason       string          `json:"reason"`
}

// buildRecommendations derives all picks from the ranked results.
func buildRecommendations(sc *scoringContext, results []RankedResult) Recommendations {
	if len(results) == 0 {
		return Recommendations{}
	}

	var recs Recommendations

	best := results[0]
	topPros := best.Pros
	if len(topPros) > 3 {
		topPros = topPros[:3]
	}
	recs.BestOverall = &BestOverallPick{
		PolicyID:     best.Policy.ID(),
		PolicyName:   best.Policy.Name(),
		Organization: best.Policy.Organization().Name,
		Score:        best.Scores.OverallScore,
		Premium:      best.Policy.Premium(),
		Coverage:     best.Policy.Coverage(),
		Rank:         best.Rank,
		Reason:       fmt.Sprintf("Best match based on your priorities with a score of %s/100", best.Scores.OverallScore.StringFixed(1)),
		TopPros:      topPros,
	}

	byValue := sortedCopy(results, func(a, b RankedResult) bool {
		return a.Scores.ValueScore.GreaterThan(b.Scores.ValueScore)
	})
	value := byValue[0]
	ratio := decZero
	if value.Policy.Premium().GreaterThan(decZero) {
		ratio = value.Policy.Coverage().Div(value.Policy.Premium())
	}
	recs.BestValue = &BestValuePick{
		PolicyID:     value.Policy.ID(),
		PolicyName:   value.Policy.Name(),
		Organization: value.Policy.Organization().Name,
		ValueScore:   value.Scores.ValueScore,
		Premium:      value.Policy.Premium(),
		Coverage:     value.Policy.Coverage(),
		ValueRatio:   ratio,
		Reason:       "Offers the best coverage-to-premium ratio",
	}

	byReview := sortedCopy(results, func(a, b RankedResult) bool {
		return a.Scores.ReviewScore.GreaterThan(b.Scores.ReviewScore)
	})
	if popular := byReview[0]; popular.Scores.ReviewScore.GreaterThan(decFifty) {
		recs.MostPopular = &MostPopularPick{
			PolicyID:     popular.Policy.ID(),
			PolicyName:   popular.Policy.Name(),
			Organization: popular.Policy.Organization().Name,
			ReviewScore:  popular.Scores.ReviewScore,
			Reason:       "Highest rated by other customers",
		}
	}

	byPremium := sortedCopy(results, func(a, b RankedResult) bool {
		return a.Policy.Premium().LessThan(b.Policy.Premium())
	})
	cheapest := byPremium[0]
	recs.BudgetFriendly = &AffordabilityPick{
		PolicyID:     cheapest.Policy.ID(),
		PolicyName:   cheapest.Policy.Name(),
		Organization: cheapest.Policy.Organization().Name,
		Premium:      cheapest.Policy.Premium(),
		Coverage:     cheapest.Policy.Coverage(),
		OverallScore: cheapest.Scores.OverallScore,
		Reason:       "Most affordable option",
	}

	byCoverage := sortedCopy(results, func(a, b RankedResult) bool {
		return a.Policy.Coverage().GreaterThan(b.Policy.Coverage())
	})
	richest := byCoverage[0]
	recs.PremiumCoverage = &AffordabilityPick{
		PolicyID:     richest.Policy.ID(),
		PolicyName:   richest.Policy.Name(),
		Organization: richest.Policy.Organization().Name,
		Premium:      richest.Policy.Premium(),
		Coverage:     richest.Policy.Coverage(),
		OverallScore: richest.Scores.OverallScore,
		Reason:       "Highest coverage amount available",
	}

	if sc.survey.HasPriorities() {
		recs.PriorityMatch = priorityMatchPick(sc, results)
	}

	return recs
}

// priorityMatchPick finds the user's strongest priority and the policy
// that scores best in it. Ties on priority value break alphabetically
// so the pick is deterministic.
func priorityMatchPick(sc *scoringContext, results []RankedResult) *PriorityMatchPick {
	var topField FieldName
	topValue := decimal.Decimal{}
	found := false

	for _, field := range sortedFields(sc.survey.Priorities) {
		score, ok := priorityScore(sc.survey.Priorities[field])
		if !ok {
			continue
		}
		if !found || score.GreaterThan(topValue) {
			topField, topValue, found = field, score, true
		}
	}
	if !found {
		return nil
	}

	fieldScore := func(r RankedResult) decimal.Decimal {
		if info, ok := r.Scores.FieldScores[topField]; ok {
			return info.Score
		}
		return evaluatePerformance(r.Policy, topField)
	}

	bestIdx := 0
	bestScore := fieldScore(results[0])
	for i := 1; i < len(results); i++ {
		if s := fieldScore(results[i]); s.GreaterThan(bestScore) {
			bestIdx, bestScore = i, s
		}
	}

	winner := results[bestIdx]
	return &PriorityMatchPick{
		PolicyID:     winner.Policy.ID(),
		PolicyName:   winner.Policy.Name(),
		Organization: winner.Policy.Organization().Name,
		Priority:     topField,
		Score:        bestScore,
		Reason:       fmt.Sprintf("Best match for your top priority: %s", topField.Title()),
	}
}

// sortedCopy stable-sorts a copy so picks never disturb the ranked order.
func sortedCopy(results []RankedResult, less func(a, b RankedResult) bool) []RankedResult {
	out := make([]RankedResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// =============================================================================
// ANALYSIS
// =============================================================================

// ScoreRange summarizes the overall-score distribution.
type ScoreRange struct {
	Highest decimal.Decimal `json:"highest"`
	Lowest  decimal.Decimal `json:"lowest"`
	Average decimal.Decimal `json:"average"`
	Spread  decimal.Decimal `json:"spread"`
}

// AmountRange summarizes a money attribute across the compared set.
type AmountRange struct {
	Minimum decimal.Decimal `json:"minimum"`
	Maximum decimal.Decimal `json:"maximum"`
	Average decimal.Decimal `json:"average"`
}

// ValueLeader is one of the top value-score policies.
type ValueLeader struct {
	PolicyID   PolicyID        `json:"policy_id"`
	PolicyName string          `json:"policy_name"`
	ValueScore decimal.Decimal `json:"value_score"`
}

// Analysis is the statistical block of a comparison.
type Analysis struct {
	ScoreRange          ScoreRange    `json:"score_range"`
	TopPolicyAdvantages []string      `json:"top_policy_advantages"`
	CommonStrengths     []string      `json:"common_strengths"`
	CommonWeaknesses    []string      `json:"common_weaknesses"`
	ValueLeaders        []ValueLeader `json:"value_leaders"`
	PriceRange          AmountRange   `json:"price_range"`
	CoverageRange       AmountRange   `json:"coverage_range"`
}

func buildAnalysis(sc *scoringContext, results []RankedResult) Analysis {
	if len(results) == 0 {
		return Analysis{}
	}

	scores := make([]decimal.Decimal, len(results))
	premiums := make([]decimal.Decimal, len(results))
	coverages := make([]decimal.Decimal, len(results))
	for i, r := range results {
		scores[i] = r.Scores.OverallScore
		premiums[i] = r.Policy.Premium()
		coverages[i] = r.Policy.Coverage()
	}

	scoreStats := rangeOf(scores)

	byValue := sortedCopy(results, func(a, b RankedResult) bool {
		return a.Scores.ValueScore.GreaterThan(b.Scores.ValueScore)
	})
	leaders := make([]ValueLeader, 0, 3)
	for _, r := range byValue {
		leaders = append(leaders, ValueLeader{
			PolicyID:   r.Policy.ID(),
			PolicyName: r.Policy.Name(),
			ValueScore: r.Scores.ValueScore,
		})
		if len(leaders) == 3 {
			break
		}
	}

	return Analysis{
		ScoreRange: ScoreRange{
			Highest: scoreStats.Maximum,
			Lowest:  scoreStats.Minimum,
			Average: scoreStats.Average,
			Spread:  scoreStats.Maximum.Sub(scoreStats.Minimum),
		},
		TopPolicyAdvantages: results[0].Pros,
		CommonStrengths:     sharedItems(results, sc.opts.MaxCommonThemes, func(r RankedResult) []string { return r.Pros }),
		CommonWeaknesses:    sharedItems(results, sc.opts.MaxCommonThemes, func(r RankedResult) []string { return r.Cons }),
		ValueLeaders:        leaders,
		PriceRange:          rangeOf(premiums),
		CoverageRange:       rangeOf(coverages),
	}
}

// sharedItems returns texts appearing on at least 40% of the policies,
// in first-appearance order, up to the given cap.
func sharedItems(results []RankedResult, limit int, pick func(RankedResult) []string) []string {
	counts := make(map[string]int)
	var order []string

	for _, r := range results {
		for _, item := range pick(r) {
			if counts[item] == 0 {
				order = append(order, item)
			}
			counts[item]++
		}
	}

	threshold := float64(len(results)) * 0.4
	common := make([]string, 0, limit)
	for _, item := range order {
		if float64(counts[item]) >= threshold {
			common = append(common, item)
			if len(common) == limit {
				break
			}
		}
	}
	return common
}

func rangeOf(values []decimal.Decimal) AmountRange {
	minVal, maxVal, sum := values[0], values[0], decZero
	for _, v := range values {
		minVal = decMin(minVal, v)
		maxVal = decMax(maxVal, v)
		sum = sum.Add(v)
	}
	return AmountRange{
		Minimum: minVal,
		Maximum: maxVal,
		Average: sum.Div(dec(int64(len(values)))),
	}
}

// =============================================================================
// INSIGHTS
// =============================================================================

// InsightNote is a short typed callout for the results page.
type InsightNote struct {
	Type    string `json:"type"` // info, tip, success, warning
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Insights carries the actionable observations across the compared set.
type Insights struct {
	Summary        []string      `json:"recommendations_summary"`
	TradeOffs      []string      `json:"trade_offs"`
	KeyDifferences []string      `json:"key_differences"`
	Notes          []InsightNote `json:"notes,omitempty"`
}

// Spread thresholds classifying how decisive a comparison came out.
var (
	closeSpread = decTen
	wideSpread  = dec(30)
)

func buildInsights(sc *scoringContext, results []RankedResult) Insights {
	insights := Insights{
		Summary:        []string{},
		TradeOffs:      []string{},
		KeyDifferences: []string{},
	}

	if len(results) < 2 {
		return insights
	}

	best, second := results[0], results[1]

	if best.Policy.Premium().GreaterThan(second.Policy.Premium()) &&
		best.Policy.Coverage().GreaterThan(second.Policy.Coverage()) {
		extraCoverage := best.Policy.Coverage().Sub(second.Policy.Coverage()).Div(dec(1000))
		extraPremium := best.Policy.Premium().Sub(second.Policy.Premium())
		insights.TradeOffs = append(insights.TradeOffs, fmt.Sprintf(
			"Top match offers %sk more coverage for %s extra per month",
			extraCoverage.StringFixed(1), extraPremium.StringFixed(2)))
	}

	spread := scoreSpread(results)
	switch {
	case spread.LessThan(closeSpread):
		insights.Summary = append(insights.Summary,
			"Top two policies are very closely matched - consider other factors like provider preference")
	case spread.GreaterThan(wideSpread):
		insights.Summary = append(insights.Summary,
			"Clear best match identified with significantly better score")
	}

	for _, field := range sortedFields(best.Scores.FieldScores) {
		secondInfo, ok := second.Scores.FieldScores[field]
		if !ok {
			continue
		}
		diff := best.Scores.FieldScores[field].Score.Sub(secondInfo.Score).Abs()
		if diff.GreaterThan(dec(30)) {
			insights.KeyDifferences = append(insights.KeyDifferences, fmt.Sprintf(
				"%s: Top policy scores %s points higher", field.Title(), diff.StringFixed(1)))
		}
	}

	insights.Notes = append(insights.Notes, surveyNotes(sc, results)...)
	insights.Notes = append(insights.Notes, sc.strategy.InsightNotes(viewsOf(results))...)

	return insights
}

func scoreSpread(results []RankedResult) decimal.Decimal {
	minScore, maxScore := results[0].Scores.OverallScore, results[0].Scores.OverallScore
	for _, r := range results[1:] {
		minScore = decMin(minScore, r.Scores.OverallScore)
		maxScore = decMax(maxScore, r.Scores.OverallScore)
	}
	return maxScore.Sub(minScore)
}

// surveyNotes derives callouts from the survey answers themselves: how
// confident the user was overall and how much of the set fits the budget.
func surveyNotes(sc *scoringContext, results []RankedResult) []InsightNote {
	if sc.survey == nil {
		return nil
	}

	var notes []InsightNote

	if len(sc.survey.Confidence) > 0 {
		sum := 0
		for _, level := range sc.survey.Confidence {
			sum += level
		}
		avg := float64(sum) / float64(len(sc.survey.Confidence))
		switch {
		case avg < 3:
			notes = append(notes, InsightNote{
				Type:    "tip",
				Title:   "Consider Additional Research",
				Message: "Your survey responses showed lower confidence levels. Consider researching specific features before deciding.",
			})
		case avg >= 4:
			notes = append(notes, InsightNote{
				Type:    "success",
				Title:   "Strong Preferences Identified",
				Message: "Your confident responses helped create highly personalized recommendations.",
			})
		}
	}

	if budget, ok := sc.survey.Profile.MonthlyBudget.Number(); ok {
		within := 0
		for _, r := range results {
			if r.Policy.Premium().LessThanOrEqual(budget) {
				within++
			}
		}
		if float64(within) < float64(len(results))/2 {
			notes = append(notes, InsightNote{
				Type:    "warning",
				Title:   "Budget Considerations",
				Message: fmt.Sprintf("Only %d of %d policies fit your R%s budget.", within, len(results), budget.Round(0)),
			})
		}
	}

	return notes
}

func viewsOf(results []RankedResult) []PolicyView {
	views := make([]PolicyView, len(results))
	for i, r := range results {
		views[i] = r.Policy
	}
	return views
}
