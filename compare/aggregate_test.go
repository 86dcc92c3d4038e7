package compare_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coverly/compare-engine/compare"
	"github.com/coverly/compare-engine/logger/loggertest"
)

// =============================================================================
// VALUE SCORE
// =============================================================================

func TestValueScore_RatioSaturation(t *testing.T) {
	// GIVEN: Coverage at 150x the premium, no waiting period, a wide age window
	// WHEN: Scoring value for money
	// THEN: The base ratio saturates at 100 with no penalties

	p := basePolicy("p")
	p.BasePremium = d("1000")
	p.CoverageAmount = d("150000")
	p.WaitingDays = 0

	bd := breakdownOf(t, p, nil, compare.UserCriteria{})
	eq(t, "100", bd.ValueScore)
}

func TestValueScore_ZeroPremiumIsPerfect(t *testing.T) {
	p := basePolicy("p")
	p.BasePremium = d("0")
	p.WaitingDays = 120 // irrelevant: free cover short-circuits

	bd := breakdownOf(t, p, nil, compare.UserCriteria{})
	eq(t, "100", bd.ValueScore)
}

func TestValueScore_WaitingPenalty(t *testing.T) {
	p := basePolicy("p")
	p.BasePremium = d("1000")
	p.CoverageAmount = d("150000")

	p.WaitingDays = 50
	eq(t, "95", breakdownOf(t, p, nil, compare.UserCriteria{}).ValueScore)

	// The waiting penalty caps at 20 points.
	p.WaitingDays = 400
	eq(t, "80", breakdownOf(t, p, nil, compare.UserCriteria{}).ValueScore)
}

func TestValueScore_NarrowAgeWindowPenalty(t *testing.T) {
	p := basePolicy("p")
	p.BasePremium = d("1000")
	p.CoverageAmount = d("150000")
	p.WaitingDays = 0
	p.MinAge = 30
	p.MaxAge = 45 // 15-year window, 15 short of the 30-year norm

	bd := breakdownOf(t, p, nil, compare.UserCriteria{})
	eq(t, "95", bd.ValueScore)
}

func TestValueScore_PartialRatio(t *testing.T) {
	p := basePolicy("p")
	p.BasePremium = d("1000")
	p.CoverageAmount = d("75000")
	p.WaitingDays = 0

	bd := breakdownOf(t, p, nil, compare.UserCriteria{})
	eq(t, "50", bd.ValueScore)
}

func TestValueScore_FloorsAtZero(t *testing.T) {
	p := basePolicy("p")
	p.BasePremium = d("1000")
	p.CoverageAmount = d("0")
	p.WaitingDays = 100

	bd := breakdownOf(t, p, nil, compare.UserCriteria{})
	eq(t, "0", bd.ValueScore)
}

// =============================================================================
// REVIEW SCORE
// =============================================================================

func TestReviewScore_CredibilityBands(t *testing.T) {
	cases := []struct {
		name    string
		count   int
		average string
		want    string
	}{
		{"no reviews is neutral", 0, "0", "50"},
		{"few reviews pull hard toward neutral", 3, "1", "27.5"},
		{"handful of reviews", 5, "4", "75.5"},
		{"ten reviews", 10, "3.5", "68"},
		{"twenty reviews", 20, "3", "59.5"},
		{"a dozen good reviews", 12, "4.2", "80.6"},
		{"fully credible five stars", 50, "5", "100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := basePolicy("p")
			p.Reviews = compare.ReviewSummary{Count: tc.count, Average: d(tc.average)}
			bd := breakdownOf(t, p, nil, compare.UserCriteria{})
			assert.True(t, bd.ReviewScore.Equal(d(tc.want)),
				"count %d avg %s: expected %s, got %s", tc.count, tc.average, tc.want, bd.ReviewScore)
		})
	}
}

// =============================================================================
// ORGANIZATION SCORE
// =============================================================================

func TestOrganizationScore_Ladder(t *testing.T) {
	cases := []struct {
		name     string
		org      compare.Organization
		featured bool
		want     string
	}{
		{"everything plus featured", compare.Organization{Verified: true, Active: true, LicenseValid: true}, true, "100"},
		{"everything", compare.Organization{Verified: true, Active: true, LicenseValid: true}, false, "95"},
		{"unverified but licensed", compare.Organization{Active: true, LicenseValid: true}, false, "75"},
		{"expired license", compare.Organization{Active: true}, false, "30"},
		{"nothing going for it", compare.Organization{}, false, "20"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := basePolicy("p")
			p.Provider = tc.org
			p.Featured = tc.featured
			bd := breakdownOf(t, p, nil, compare.UserCriteria{})
			assert.True(t, bd.OrganizationScore.Equal(d(tc.want)),
				"expected %s, got %s", tc.want, bd.OrganizationScore)
		})
	}
}

// =============================================================================
// CRITERIA AGGREGATION
// =============================================================================

func TestCriteria_WeightedAverage(t *testing.T) {
	// GIVEN: A perfect premium (weight 80) and a failed boolean (weight 20)
	// WHEN: Aggregating the criteria dimension
	// THEN: The weighted average lands at 80

	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		compare.FieldChronicMedication: compare.Bool(false),
	})
	p.BasePremium = d("450")

	criteria := []compare.Criterion{
		criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80),
		criterionOn(compare.FieldChronicMedication, compare.BooleanMatch, 20),
	}
	user := compare.UserCriteria{Targets: map[compare.FieldName]compare.Value{
		compare.FieldBasePremium:       compare.Number(d("500")),
		compare.FieldChronicMedication: compare.Bool(true),
	}}

	bd := breakdownOf(t, p, criteria, user)

	eq(t, "80", bd.CriteriaScore)

	premium := bd.FieldScores[compare.FieldBasePremium]
	eq(t, "100", premium.Score)
	eq(t, "80", premium.Weight)
	eq(t, "80", premium.WeightedScore)

	chronic := bd.FieldScores[compare.FieldChronicMedication]
	eq(t, "0", chronic.Score)
	eq(t, "20", chronic.Weight)
	eq(t, "0", chronic.WeightedScore)
}

func TestCriteria_NoWeightsIsNeutral(t *testing.T) {
	// All weights zero: the criteria dimension reads exactly neutral.
	criteria := []compare.Criterion{
		criterionOn(compare.FieldBasePremium, compare.LowerBetter, 0),
	}
	user := compare.UserCriteria{Targets: map[compare.FieldName]compare.Value{
		compare.FieldBasePremium: compare.Number(d("500")),
	}}

	bd := breakdownOf(t, basePolicy("p"), criteria, user)

	assert.Empty(t, bd.FieldScores)
	eq(t, "50", bd.CriteriaScore)
}

func TestCriteria_InactiveCriterionIgnored(t *testing.T) {
	inactive := criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80)
	inactive.Active = false

	bd := breakdownOf(t, basePolicy("p"), []compare.Criterion{inactive}, compare.UserCriteria{})

	assert.Empty(t, bd.FieldScores)
	eq(t, "50", bd.CriteriaScore)
}

func TestCriteria_UserWeightOverride(t *testing.T) {
	criteria := []compare.Criterion{
		criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80),
	}
	user := compare.UserCriteria{
		Targets: map[compare.FieldName]compare.Value{
			compare.FieldBasePremium: compare.Number(d("500")),
		},
		Weights: map[compare.FieldName]decimal.Decimal{
			compare.FieldBasePremium: d("20"),
		},
	}

	bd := breakdownOf(t, basePolicy("p"), criteria, user)
	eq(t, "20", bd.FieldScores[compare.FieldBasePremium].Weight)
}

// =============================================================================
// BLEND
// =============================================================================

func TestBlend_StandardContributions(t *testing.T) {
	// Dimensions pinned: criteria 50 (no criteria), value 100 (free cover),
	// review 50 (no reviews), organization 95.
	p := basePolicy("p")
	p.BasePremium = d("0")

	bd := breakdownOf(t, p, nil, compare.UserCriteria{})

	eq(t, "30", bd.Contributions.Criteria)
	eq(t, "25", bd.Contributions.Value)
	eq(t, "5", bd.Contributions.Review)
	eq(t, "4.75", bd.Contributions.Organization)
	eq(t, "64.75", bd.OverallScore)
}

func TestBlend_QuickProfileLeansOnCriteria(t *testing.T) {
	p := basePolicy("p")
	p.BasePremium = d("0")

	engine := compare.NewEngine(compare.QuickOptions(), loggertest.NewLogger(t))
	out, err := engine.Compare(context.Background(), compare.Input{
		Category: compare.CategoryHealth,
		Policies: []compare.PolicyView{p},
	})
	require.NoError(t, err)

	eq(t, "62.25", out.BestMatch.Scores.OverallScore)
}
