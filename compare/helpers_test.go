package compare_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
	"github.com/coverly/compare-engine/logger/loggertest"
)

// =============================================================================
// SHARED TEST HELPERS
// =============================================================================

// d parses a decimal literal.
func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// eq fails the test unless got equals the decimal literal want.
func eq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

// basePolicy builds a neutral snapshot: verified, active, licensed issuer,
// no reviews, premium 500 / coverage 100000, 30-day wait, ages 18-65.
// Tests tweak individual fields from here.
func basePolicy(id string) *compare.Snapshot {
	return &compare.Snapshot{
		PolicyID:   compare.PolicyID(id),
		PolicyName: "Policy " + id,
		Line:       compare.CategoryHealth,
		Provider: compare.Organization{
			ID:           "org-" + compare.OrganizationID(id),
			Name:         "Insurer " + id,
			Verified:     true,
			Active:       true,
			LicenseValid: true,
		},
		BasePremium:    d("500"),
		CoverageAmount: d("100000"),
		WaitingDays:    30,
		MinAge:         18,
		MaxAge:         65,
	}
}

// withFeatures attaches a free-form feature bag to a snapshot.
func withFeatures(s *compare.Snapshot, feats compare.FeatureBag) *compare.Snapshot {
	s.Fields = append(s.Fields, feats)
	return s
}

// criterionOn builds an active probe criterion with no display name.
func criterionOn(field compare.FieldName, cmp compare.ComparisonType, weight int64) compare.Criterion {
	return compare.Criterion{
		ID:      compare.CriterionID("probe-" + string(field)),
		Field:   field,
		Compare: cmp,
		Weight:  decimal.NewFromInt(weight),
		Active:  true,
	}
}

// probeEngine accepts single-policy comparisons so rule tests can inspect
// one breakdown at a time.
func probeEngine(t testing.TB) *compare.Engine {
	return compare.NewEngine(compare.Options{MinPolicies: 1}, loggertest.NewLogger(t))
}

func stdEngine(t testing.TB) *compare.Engine {
	return compare.NewEngine(compare.StandardOptions(), loggertest.NewLogger(t))
}

// breakdownOf scores a lone policy and returns its breakdown.
func breakdownOf(t *testing.T, view compare.PolicyView, criteria []compare.Criterion, user compare.UserCriteria) compare.Breakdown {
	t.Helper()
	out, err := probeEngine(t).Compare(context.Background(), compare.Input{
		Category: compare.CategoryHealth,
		Policies: []compare.PolicyView{view},
		Criteria: criteria,
		User:     user,
	})
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	return out.BestMatch.Scores
}

// fieldScore runs a one-criterion comparison and returns that field's score.
func fieldScore(t *testing.T, crit compare.Criterion, view compare.PolicyView, target compare.Value) decimal.Decimal {
	t.Helper()
	user := compare.UserCriteria{}
	if !target.IsAbsent() {
		user.Targets = map[compare.FieldName]compare.Value{crit.Field: target}
	}
	bd := breakdownOf(t, view, []compare.Criterion{crit}, user)
	info, ok := bd.FieldScores[crit.Field]
	if !ok {
		t.Fatalf("field %s was not scored", crit.Field)
	}
	return info.Score
}

// containsID reports whether a ranked result set includes a policy.
func containsID(results []compare.RankedResult, id compare.PolicyID) bool {
	for _, r := range results {
		if r.Policy.ID() == id {
			return true
		}
	}
	return false
}

// fallbackScore scores a field that carries a user weight but no criterion
// definition, exercising the generic rule.
func fallbackScore(t *testing.T, field compare.FieldName, view compare.PolicyView, target compare.Value) decimal.Decimal {
	t.Helper()
	user := compare.UserCriteria{
		Weights: map[compare.FieldName]decimal.Decimal{field: d("50")},
	}
	if !target.IsAbsent() {
		user.Targets = map[compare.FieldName]compare.Value{field: target}
	}
	bd := breakdownOf(t, view, nil, user)
	info, ok := bd.FieldScores[field]
	if !ok {
		t.Fatalf("field %s was not scored", field)
	}
	return info.Score
}
