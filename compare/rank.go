/*
rank.go - Ordering of scored policies

PURPOSE:
  Turns a bag of per-policy breakdowns into the ranked result list the
  caller sees. Ordering is by overall score, with value score and then
  review score breaking exact ties in the blend.

KEY CONCEPTS:
  - Tie ranks: overall scores closer than 0.01 share a rank, so two
    82.30 policies are both rank 1 and the next one is rank 3.
  - Match percentage: the overall score rounded to one decimal; the
    user-facing "82.3% match" number.

SEE ALSO:
  - aggregate.go: where the breakdowns come from
  - explain.go: pros, cons and reasons attached after ranking
*/
package compare

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RankedResult is one policy's final position in a comparison.
type RankedResult struct {
	Policy               PolicyView
	Rank                 int
	MatchPercentage      decimal.Decimal
	Scores               Breakdown
	Pros                 []string
	Cons                 []string
	RecommendationReason string
}

// rankPolicies sorts the scored policies and assigns tie-aware ranks.
// Overall scores closer than epsilon share a rank. The sort is stable,
// so equally-scored policies keep their input order.
func rankPolicies(results []RankedResult, epsilon decimal.Decimal) []RankedResult {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Scores, results[j].Scores
		if !a.OverallScore.Equal(b.OverallScore) {
			return a.OverallScore.GreaterThan(b.OverallScore)
		}
		if !a.ValueScore.Equal(b.ValueScore) {
			return a.ValueScore.GreaterThan(b.ValueScore)
		}
		return a.ReviewScore.GreaterThan(b.ReviewScore)
	})

	currentRank := 1
	var previous *decimal.Decimal

	for i := range results {
		score := results[i].Scores.OverallScore

		if previous != nil && score.Sub(*previous).Abs().LessThan(epsilon) {
			results[i].Rank = currentRank
		} else {
			results[i].Rank = i + 1
			currentRank = i + 1
		}

		prev := score
		previous = &prev

		results[i].MatchPercentage = score.Round(1)
	}

	return results
}
