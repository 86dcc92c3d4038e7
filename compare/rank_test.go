package compare_test

import (
	"context"
	"testing"

	"github.com/coverly/compare-engine/compare"
)

// =============================================================================
// RANK ASSIGNMENT
// =============================================================================

func TestRank_TiesShareRank(t *testing.T) {
	// GIVEN: Two policies scoring identically and one scoring lower
	// WHEN: Ranking the comparison
	// THEN: The twins share rank 1 and the third lands at rank 3

	a := basePolicy("a")
	a.BasePremium = d("450")
	b := basePolicy("b")
	b.BasePremium = d("450")
	c := basePolicy("c")
	c.BasePremium = d("650")

	out, err := stdEngine(t).Compare(context.Background(), compare.Input{
		Category: compare.CategoryHealth,
		Policies: []compare.PolicyView{a, b, c},
		Criteria: []compare.Criterion{criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80)},
		User: compare.UserCriteria{Targets: map[compare.FieldName]compare.Value{
			compare.FieldBasePremium: compare.Number(d("500")),
		}},
	})
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	if got := out.Results[0].Rank; got != 1 {
		t.Errorf("first result should rank 1, got %d", got)
	}
	if got := out.Results[1].Rank; got != 1 {
		t.Errorf("tied result should share rank 1, got %d", got)
	}
	if got := out.Results[2].Rank; got != 3 {
		t.Errorf("result after a two-way tie should rank 3, got %d", got)
	}

	// Stable sort keeps the twins in input order.
	if out.Results[0].Policy.ID() != "a" || out.Results[1].Policy.ID() != "b" {
		t.Errorf("tied policies reordered: %s, %s",
			out.Results[0].Policy.ID(), out.Results[1].Policy.ID())
	}

	eq(t, "94", out.Results[0].Scores.OverallScore)
	eq(t, "73", out.Results[2].Scores.OverallScore)
}

func TestRank_OrdersByOverallScore(t *testing.T) {
	a := basePolicy("a")
	a.BasePremium = d("650")
	b := basePolicy("b")
	b.BasePremium = d("450")
	c := basePolicy("c")
	c.BasePremium = d("550")

	out, err := stdEngine(t).Compare(context.Background(), compare.Input{
		Category: compare.CategoryHealth,
		Policies: []compare.PolicyView{a, b, c},
		Criteria: []compare.Criterion{criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80)},
		User: compare.UserCriteria{Targets: map[compare.FieldName]compare.Value{
			compare.FieldBasePremium: compare.Number(d("500")),
		}},
	})
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	wantOrder := []compare.PolicyID{"b", "c", "a"}
	for i, want := range wantOrder {
		if got := out.Results[i].Policy.ID(); got != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got)
		}
		if out.Results[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, out.Results[i].Rank)
		}
	}

	if out.BestMatch.Policy.ID() != "b" {
		t.Errorf("best match should be b, got %s", out.BestMatch.Policy.ID())
	}
}

func TestRank_ValueScoreBreaksExactTies(t *testing.T) {
	// GIVEN: Two policies with equal overall scores but different value
	//        scores (offset through the review dimension)
	// WHEN: Ranking them
	// THEN: The higher value score sorts first, and they still tie on rank

	a := basePolicy("a")
	a.BasePremium = d("1000")
	a.CoverageAmount = d("150000")
	a.WaitingDays = 0 // value 100, review 50

	// Waiting costs b two value points; reviews add the same back in the blend.
	b := basePolicy("b")
	b.BasePremium = d("1000")
	b.CoverageAmount = d("150000")
	b.WaitingDays = 20
	b.Reviews = compare.ReviewSummary{Count: 50, Average: d("2.75")}

	out, err := stdEngine(t).Compare(context.Background(), compare.Input{
		Category: compare.CategoryHealth,
		Policies: []compare.PolicyView{b, a}, // b first on purpose
	})
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	if !out.Results[0].Scores.OverallScore.Equal(out.Results[1].Scores.OverallScore) {
		t.Fatalf("expected equal overall scores, got %s and %s",
			out.Results[0].Scores.OverallScore, out.Results[1].Scores.OverallScore)
	}
	if out.Results[0].Policy.ID() != "a" {
		t.Errorf("higher value score should sort first, got %s", out.Results[0].Policy.ID())
	}
	if out.Results[0].Rank != 1 || out.Results[1].Rank != 1 {
		t.Errorf("equal scores should share rank 1, got %d and %d",
			out.Results[0].Rank, out.Results[1].Rank)
	}
}

func TestRank_MatchPercentageRoundsToOneDecimal(t *testing.T) {
	p := basePolicy("p")
	p.BasePremium = d("0") // overall lands at 64.75

	out, err := probeEngine(t).Compare(context.Background(), compare.Input{
		Category: compare.CategoryHealth,
		Policies: []compare.PolicyView{p},
	})
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}

	eq(t, "64.75", out.BestMatch.Scores.OverallScore)
	eq(t, "64.8", out.BestMatch.MatchPercentage)
}
