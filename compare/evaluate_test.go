package compare_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coverly/compare-engine/compare"
)

// =============================================================================
// LOWER_BETTER
// =============================================================================

func TestLowerBetter(t *testing.T) {
	crit := criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80)

	cases := []struct {
		name    string
		premium string
		target  string
		want    string
	}{
		{"under target", "450", "500", "100"},
		{"at target", "500", "500", "100"},
		{"free beats any target", "0", "500", "100"},
		{"slight overage", "550", "500", "90"},
		{"moderate overage", "650", "500", "65"},
		{"heavy overage", "750", "500", "35"},
		{"extreme overage floors at zero", "1100", "500", "0"},
		{"zero target met", "0", "0", "100"},
		{"zero target missed", "10", "0", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := basePolicy("p")
			p.BasePremium = d(tc.premium)
			got := fieldScore(t, crit, p, compare.Number(d(tc.target)))
			assert.True(t, got.Equal(d(tc.want)), "premium %s vs %s: expected %s, got %s",
				tc.premium, tc.target, tc.want, got)
		})
	}
}

func TestLowerBetter_NoTargetIsNeutral(t *testing.T) {
	crit := criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80)
	got := fieldScore(t, crit, basePolicy("p"), compare.Value{})
	eq(t, "50", got)
}

func TestLowerBetter_Monotonic(t *testing.T) {
	// GIVEN: A fixed premium target
	// WHEN: The policy premium rises past it
	// THEN: The score never increases

	crit := criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80)
	target := compare.Number(d("500"))

	previous := d("101")
	for _, premium := range []string{"400", "500", "600", "700", "800", "1000"} {
		p := basePolicy("p")
		p.BasePremium = d(premium)
		got := fieldScore(t, crit, p, target)
		require.True(t, got.LessThanOrEqual(previous),
			"premium %s scored %s, above previous %s", premium, got, previous)
		previous = got
	}
}

// =============================================================================
// HIGHER_BETTER
// =============================================================================

func TestHigherBetter(t *testing.T) {
	crit := criterionOn(compare.FieldCoverageAmount, compare.HigherBetter, 75)

	cases := []struct {
		name     string
		coverage string
		target   string
		want     string
	}{
		{"over target", "150000", "100000", "100"},
		{"at target", "100000", "100000", "100"},
		{"slight shortfall", "80000", "100000", "80"},
		{"heavy shortfall", "50000", "100000", "35"},
		{"extreme shortfall floors at zero", "20000", "100000", "0"},
		{"zero target always met", "5000", "0", "100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := basePolicy("p")
			p.CoverageAmount = d(tc.coverage)
			got := fieldScore(t, crit, p, compare.Number(d(tc.target)))
			assert.True(t, got.Equal(d(tc.want)), "coverage %s vs %s: expected %s, got %s",
				tc.coverage, tc.target, tc.want, got)
		})
	}
}

func TestHigherBetter_NoTargetIsNeutral(t *testing.T) {
	crit := criterionOn(compare.FieldCoverageAmount, compare.HigherBetter, 75)
	got := fieldScore(t, crit, basePolicy("p"), compare.Value{})
	eq(t, "50", got)
}

// =============================================================================
// EXACT_MATCH
// =============================================================================

func TestExactMatch(t *testing.T) {
	crit := criterionOn("plan_type", compare.ExactMatch, 40)

	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		"plan_type": compare.String("gold"),
	})

	eq(t, "100", fieldScore(t, crit, p, compare.String("gold")))
	eq(t, "0", fieldScore(t, crit, p, compare.String("silver")))

	// No stated preference means nothing can match.
	eq(t, "0", fieldScore(t, crit, p, compare.Value{}))
}

func TestExactMatch_NumbersAndBooleans(t *testing.T) {
	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		"tier":    compare.NumberFromInt(2),
		"has_gym": compare.Bool(true),
	})

	tier := criterionOn("tier", compare.ExactMatch, 40)
	eq(t, "100", fieldScore(t, tier, p, compare.NumberFromInt(2)))
	eq(t, "0", fieldScore(t, tier, p, compare.NumberFromInt(3)))

	// Booleans equal their 0/1 numeric form.
	gym := criterionOn("has_gym", compare.ExactMatch, 40)
	eq(t, "100", fieldScore(t, gym, p, compare.NumberFromInt(1)))
}

// =============================================================================
// RANGE
// =============================================================================

func TestWithinRange(t *testing.T) {
	crit := criterionOn("gp_visits_per_year", compare.WithinRange, 30)
	lo, hi := d("10"), d("20")
	band := compare.NumRange(&lo, &hi)

	cases := []struct {
		name   string
		visits int64
		want   string
	}{
		{"inside band", 15, "100"},
		{"at lower bound", 10, "100"},
		{"below band decays", 8, "80"},
		{"above band decays", 21, "90"},
		{"far outside floors at zero", 35, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := withFeatures(basePolicy("p"), compare.FeatureBag{
				"gp_visits_per_year": compare.NumberFromInt(tc.visits),
			})
			got := fieldScore(t, crit, p, band)
			assert.True(t, got.Equal(d(tc.want)), "%d visits: expected %s, got %s",
				tc.visits, tc.want, got)
		})
	}
}

func TestWithinRange_OpenEnded(t *testing.T) {
	crit := criterionOn("gp_visits_per_year", compare.WithinRange, 30)
	lo := d("10")
	openBand := compare.NumRange(&lo, nil)

	many := withFeatures(basePolicy("a"), compare.FeatureBag{
		"gp_visits_per_year": compare.NumberFromInt(1000),
	})
	eq(t, "100", fieldScore(t, crit, many, openBand))

	few := withFeatures(basePolicy("b"), compare.FeatureBag{
		"gp_visits_per_year": compare.NumberFromInt(9),
	})
	eq(t, "90", fieldScore(t, crit, few, openBand))
}

func TestWithinRange_NonRangeTargetIsNeutral(t *testing.T) {
	crit := criterionOn("gp_visits_per_year", compare.WithinRange, 30)
	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		"gp_visits_per_year": compare.NumberFromInt(15),
	})

	eq(t, "50", fieldScore(t, crit, p, compare.NumberFromInt(15)))
	eq(t, "50", fieldScore(t, crit, p, compare.Value{}))
}

// =============================================================================
// BOOLEAN
// =============================================================================

func TestBooleanMatch(t *testing.T) {
	crit := criterionOn(compare.FieldChronicMedication, compare.BooleanMatch, 55)

	covered := withFeatures(basePolicy("a"), compare.FeatureBag{
		compare.FieldChronicMedication: compare.Bool(true),
	})
	missing := withFeatures(basePolicy("b"), compare.FeatureBag{
		compare.FieldChronicMedication: compare.Bool(false),
	})

	eq(t, "100", fieldScore(t, crit, covered, compare.Bool(true)))
	eq(t, "0", fieldScore(t, crit, missing, compare.Bool(true)))
	eq(t, "100", fieldScore(t, crit, missing, compare.Bool(false)))
	eq(t, "50", fieldScore(t, crit, covered, compare.Value{}))
}

func TestBooleanMatch_TruthyNumbers(t *testing.T) {
	crit := criterionOn(compare.FieldChronicMedication, compare.BooleanMatch, 55)
	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		compare.FieldChronicMedication: compare.NumberFromInt(1),
	})
	eq(t, "100", fieldScore(t, crit, p, compare.Bool(true)))
}

// =============================================================================
// MISSING DATA AND BAD CONFIGURATION
// =============================================================================

func TestMissingPolicyValue_ScoresZero(t *testing.T) {
	// GIVEN: A criterion on a field the policy never declares
	// WHEN: Evaluating it
	// THEN: The field scores zero but stays in the breakdown

	crit := criterionOn(compare.FieldIncludesDental, compare.BooleanMatch, 40)
	got := fieldScore(t, crit, basePolicy("p"), compare.Bool(true))
	eq(t, "0", got)
}

func TestTypeMismatch_OmitsFieldFromBreakdown(t *testing.T) {
	// GIVEN: A lower-better rule on a string-valued field
	// WHEN: Scoring against a numeric target
	// THEN: The field is omitted and the other criteria keep full weight

	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		"plan_type": compare.String("gold"),
	})
	criteria := []compare.Criterion{
		criterionOn(compare.FieldBasePremium, compare.LowerBetter, 80),
		criterionOn("plan_type", compare.LowerBetter, 20),
	}
	user := compare.UserCriteria{Targets: map[compare.FieldName]compare.Value{
		compare.FieldBasePremium: compare.Number(d("500")),
		"plan_type":              compare.Number(d("3")),
	}}

	bd := breakdownOf(t, p, criteria, user)

	require.NotContains(t, bd.FieldScores, compare.FieldName("plan_type"))
	require.Contains(t, bd.FieldScores, compare.FieldBasePremium)
	// Premium scored 100 and is the only surviving weight.
	eq(t, "100", bd.CriteriaScore)
}

func TestUnsupportedComparisonType_OmitsField(t *testing.T) {
	crit := criterionOn(compare.FieldBasePremium, compare.ComparisonType("FUZZY"), 80)
	user := compare.UserCriteria{Targets: map[compare.FieldName]compare.Value{
		compare.FieldBasePremium: compare.Number(d("500")),
	}}

	bd := breakdownOf(t, basePolicy("p"), []compare.Criterion{crit}, user)

	assert.Empty(t, bd.FieldScores)
	eq(t, "50", bd.CriteriaScore)
}

// =============================================================================
// GENERIC FALLBACK - fields without a criterion definition
// =============================================================================

func TestGenericFallback_Numbers(t *testing.T) {
	cases := []struct {
		name   string
		value  int64
		target int64
		want   string
	}{
		{"close match decays with distance", 90, 100, "90"},
		{"double the target bottoms out", 200, 100, "0"},
		{"zero meets zero", 0, 0, "100"},
		{"nonzero misses zero", 5, 0, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := withFeatures(basePolicy("p"), compare.FeatureBag{
				"custom_metric": compare.NumberFromInt(tc.value),
			})
			got := fallbackScore(t, "custom_metric", p, compare.NumberFromInt(tc.target))
			assert.True(t, got.Equal(d(tc.want)), "%d vs %d: expected %s, got %s",
				tc.value, tc.target, tc.want, got)
		})
	}
}

func TestGenericFallback_Strings(t *testing.T) {
	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		"network": compare.String("Gold"),
	})

	// Case-insensitive match wins; mismatch keeps a soft 50 floor.
	eq(t, "100", fallbackScore(t, "network", p, compare.String("gold")))
	eq(t, "50", fallbackScore(t, "network", p, compare.String("silver")))
}

func TestGenericFallback_Booleans(t *testing.T) {
	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		"flag": compare.Bool(true),
	})

	eq(t, "100", fallbackScore(t, "flag", p, compare.Bool(true)))
	eq(t, "100", fallbackScore(t, "flag", p, compare.NumberFromInt(1)))
	eq(t, "0", fallbackScore(t, "flag", p, compare.Bool(false)))
	eq(t, "0", fallbackScore(t, "flag", p, compare.String("yes")))
}

func TestGenericFallback_NeutralCases(t *testing.T) {
	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		"custom_metric": compare.NumberFromInt(42),
	})

	// No target, and a target the rule cannot compare against.
	eq(t, "50", fallbackScore(t, "custom_metric", p, compare.Value{}))
	eq(t, "50", fallbackScore(t, "custom_metric", p, compare.String("high")))
}

// =============================================================================
// BENEFIT LEVELS - ordered vocabulary
// =============================================================================

func TestBenefitLevel_Ladder(t *testing.T) {
	crit := criterionOn(compare.FieldInHospitalLevel, compare.ExactMatch, 60)

	cases := []struct {
		name   string
		policy string
		target string
		want   string
	}{
		{"exact level", "comprehensive", "comprehensive", "100"},
		{"one step above", "extensive", "moderate", "95"},
		{"two steps above caps", "comprehensive", "moderate", "100"},
		{"one step short", "moderate", "extensive", "75"},
		{"two steps short", "basic", "extensive", "50"},
		{"four steps short", "no_cover", "comprehensive", "0"},
		{"mixed case and spacing", "Extensive ", "moderate", "95"},
		{"unknown level reads neutral", "platinum", "moderate", "50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := withFeatures(basePolicy("p"), compare.FeatureBag{
				compare.FieldInHospitalLevel: compare.String(tc.policy),
			})
			got := fieldScore(t, crit, p, compare.String(tc.target))
			assert.True(t, got.Equal(d(tc.want)), "%s vs %s: expected %s, got %s",
				tc.policy, tc.target, tc.want, got)
		})
	}
}

func TestBenefitLevel_MissingSidesAreNeutral(t *testing.T) {
	crit := criterionOn(compare.FieldInHospitalLevel, compare.ExactMatch, 60)

	// Policy without the field still evaluates, neutrally.
	eq(t, "50", fieldScore(t, crit, basePolicy("a"), compare.String("moderate")))

	p := withFeatures(basePolicy("b"), compare.FeatureBag{
		compare.FieldInHospitalLevel: compare.String("extensive"),
	})
	eq(t, "50", fieldScore(t, crit, p, compare.Value{}))
}

func TestBenefitLevel_OutHospitalVocabulary(t *testing.T) {
	crit := criterionOn(compare.FieldOutHospitalLevel, compare.ExactMatch, 55)
	p := withFeatures(basePolicy("p"), compare.FeatureBag{
		compare.FieldOutHospitalLevel: compare.String("routine_care"),
	})

	eq(t, "75", fieldScore(t, crit, p, compare.String("extended_care")))
	eq(t, "100", fieldScore(t, crit, p, compare.String("routine_care")))
}

// =============================================================================
// ANNUAL LIMIT RANGES - bucket overlap
// =============================================================================

func TestAnnualLimitRange(t *testing.T) {
	crit := criterionOn(compare.FieldAnnualLimitFamily, compare.ExactMatch, 45)

	cases := []struct {
		name   string
		policy string
		target string
		want   string
	}{
		{"same band", "500k-1m", "500k-1m", "100"},
		{"policy band contains request", "100k-250k", "100k-200k", "100"},
		{"adjacent band above", "200k-500k", "100k-200k", "20"},
		{"disjoint band above protects", "1m-2m", "10k-25k", "70"},
		{"band below decays with gap", "50k-100k", "200k-500k", "20"},
		{"band far below floors at ten", "10k-25k", "100k-200k", "10"},
		{"open band satisfies open request", "5m-plus", "2m-plus", "100"},
		{"unknown band reads neutral", "weird-band", "100k-200k", "50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := withFeatures(basePolicy("p"), compare.FeatureBag{
				compare.FieldAnnualLimitFamily: compare.String(tc.policy),
			})
			got := fieldScore(t, crit, p, compare.String(tc.target))
			assert.True(t, got.Equal(d(tc.want)), "%s vs %s: expected %s, got %s",
				tc.policy, tc.target, tc.want, got)
		})
	}
}

func TestAnnualLimitRange_NotSure(t *testing.T) {
	// GIVEN: A user who answered "not sure" about their limit band
	// WHEN: Scoring any policy, even one without the field
	// THEN: The mild default applies

	crit := criterionOn(compare.FieldAnnualLimitFamily, compare.ExactMatch, 45)
	eq(t, "75", fieldScore(t, crit, basePolicy("p"), compare.String("not_sure")))
}

func TestAnnualLimitRange_MissingSidesAreNeutral(t *testing.T) {
	crit := criterionOn(compare.FieldAnnualLimitMember, compare.ExactMatch, 40)

	eq(t, "50", fieldScore(t, crit, basePolicy("a"), compare.String("100k-200k")))

	p := withFeatures(basePolicy("b"), compare.FeatureBag{
		compare.FieldAnnualLimitMember: compare.String("100k-200k"),
	})
	eq(t, "50", fieldScore(t, crit, p, compare.Value{}))
}
