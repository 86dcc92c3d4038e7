package compare_test

import (
	"context"
	"errors"
	"testing"

	"github.com/coverly/compare-engine/compare"
)

// runFiltered compares the given policies through an engine that accepts a
// single survivor, with the filters attached to a survey context.
func runFiltered(t *testing.T, filters compare.FilterSet, policies ...compare.PolicyView) (compare.Output, error) {
	t.Helper()
	in := compare.Input{
		Category: compare.CategoryHealth,
		Policies: policies,
		Survey:   &compare.SurveyContext{Filters: filters},
	}
	return probeEngine(t).Compare(context.Background(), in)
}

// =============================================================================
// OPERATORS
// =============================================================================

func TestFilters_PremiumCeiling(t *testing.T) {
	a := basePolicy("a")
	a.BasePremium = d("450")
	b := basePolicy("b")
	b.BasePremium = d("650")
	c := basePolicy("c")
	c.BasePremium = d("800")

	out, err := runFiltered(t, compare.FilterSet{
		"base_premium__lte": compare.Number(d("660")),
	}, a, b, c)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if out.TotalPolicies != 2 {
		t.Fatalf("expected 2 surviving policies, got %d", out.TotalPolicies)
	}
	if !containsID(out.Results, "a") || !containsID(out.Results, "b") {
		t.Errorf("expected a and b to survive the ceiling")
	}
	if containsID(out.Results, "c") {
		t.Errorf("policy c at 800 should not pass base_premium__lte 660")
	}
}

func TestFilters_OrderedOperators(t *testing.T) {
	cases := []struct {
		name     string
		key      string
		want     compare.Value
		keep     string
		drop     string
		keepView func() *compare.Snapshot
		dropView func() *compare.Snapshot
	}{
		{
			name: "gte keeps high coverage",
			key:  "coverage_amount__gte",
			want: compare.Number(d("100000")),
			keep: "big", drop: "small",
			keepView: func() *compare.Snapshot {
				s := basePolicy("big")
				s.CoverageAmount = d("150000")
				return s
			},
			dropView: func() *compare.Snapshot {
				s := basePolicy("small")
				s.CoverageAmount = d("50000")
				return s
			},
		},
		{
			name: "lt excludes the boundary",
			key:  "base_premium__lt",
			want: compare.Number(d("500")),
			keep: "cheap", drop: "edge",
			keepView: func() *compare.Snapshot {
				s := basePolicy("cheap")
				s.BasePremium = d("450")
				return s
			},
			dropView: func() *compare.Snapshot {
				s := basePolicy("edge")
				s.BasePremium = d("500")
				return s
			},
		},
		{
			name: "gt excludes zero",
			key:  "waiting_period_days__gt",
			want: compare.NumberFromInt(0),
			keep: "waits", drop: "instant",
			keepView: func() *compare.Snapshot {
				s := basePolicy("waits")
				s.WaitingDays = 30
				return s
			},
			dropView: func() *compare.Snapshot {
				s := basePolicy("instant")
				s.WaitingDays = 0
				return s
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runFiltered(t, compare.FilterSet{tc.key: tc.want}, tc.keepView(), tc.dropView())
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if !containsID(out.Results, compare.PolicyID(tc.keep)) {
				t.Errorf("expected %q to survive %s", tc.keep, tc.key)
			}
			if containsID(out.Results, compare.PolicyID(tc.drop)) {
				t.Errorf("expected %q to be excluded by %s", tc.drop, tc.key)
			}
		})
	}
}

func TestFilters_ExactMatch(t *testing.T) {
	a := withFeatures(basePolicy("a"), compare.FeatureBag{"plan_type": compare.String("gold")})
	b := withFeatures(basePolicy("b"), compare.FeatureBag{"plan_type": compare.String("silver")})

	out, err := runFiltered(t, compare.FilterSet{
		"plan_type__exact": compare.String("gold"),
	}, a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if out.TotalPolicies != 1 || !containsID(out.Results, "a") {
		t.Fatalf("expected only the gold plan to survive, got %d results", out.TotalPolicies)
	}
}

func TestFilters_SubstringIsCaseInsensitive(t *testing.T) {
	a := basePolicy("a")
	a.PolicyName = "Premier Health Plus"
	b := basePolicy("b")
	b.PolicyName = "Basic Saver"

	out, err := runFiltered(t, compare.FilterSet{
		"name__icontains": compare.String("PREMIER"),
	}, a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if out.TotalPolicies != 1 || !containsID(out.Results, "a") {
		t.Fatalf("expected only the Premier plan to survive, got %d results", out.TotalPolicies)
	}
}

func TestFilters_BareKeyMatchesTruthiness(t *testing.T) {
	withDental := withFeatures(basePolicy("yes"), compare.FeatureBag{
		compare.FieldIncludesDental: compare.Bool(true),
	})
	withoutDental := withFeatures(basePolicy("no"), compare.FeatureBag{
		compare.FieldIncludesDental: compare.Bool(false),
	})
	silent := basePolicy("silent")

	t.Run("want true", func(t *testing.T) {
		out, err := runFiltered(t, compare.FilterSet{
			string(compare.FieldIncludesDental): compare.Bool(true),
		}, withDental, withoutDental, silent)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if out.TotalPolicies != 1 || !containsID(out.Results, "yes") {
			t.Fatalf("expected only the dental policy to survive, got %d results", out.TotalPolicies)
		}
	})

	t.Run("want false", func(t *testing.T) {
		// A policy that says nothing about dental cover is not the same as
		// one that explicitly excludes it; the silent one stays excluded.
		out, err := runFiltered(t, compare.FilterSet{
			string(compare.FieldIncludesDental): compare.Bool(false),
		}, withDental, withoutDental, silent)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if out.TotalPolicies != 1 || !containsID(out.Results, "no") {
			t.Fatalf("expected only the explicit no-dental policy to survive, got %d results", out.TotalPolicies)
		}
	})
}

// =============================================================================
// MISSING DATA AND UNKNOWN OPERATORS
// =============================================================================

func TestFilters_MissingAttributeExcludes(t *testing.T) {
	covered := withFeatures(basePolicy("covered"), compare.FeatureBag{
		"gp_visits_per_year": compare.NumberFromInt(6),
	})
	silent := basePolicy("silent")

	out, err := runFiltered(t, compare.FilterSet{
		"gp_visits_per_year__gte": compare.NumberFromInt(3),
	}, covered, silent)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if out.TotalPolicies != 1 || !containsID(out.Results, "covered") {
		t.Fatalf("a policy without the filtered attribute must not pass, got %d results", out.TotalPolicies)
	}
}

func TestFilters_UnknownOperatorDoesNotConstrain(t *testing.T) {
	a := basePolicy("a")
	a.BasePremium = d("450")
	b := basePolicy("b")
	b.BasePremium = d("9000")

	out, err := runFiltered(t, compare.FilterSet{
		"base_premium__approx": compare.Number(d("500")),
	}, a, b)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if out.TotalPolicies != 2 {
		t.Fatalf("unknown operator should keep all policies, got %d results", out.TotalPolicies)
	}
}

func TestFilters_UnknownOperatorStillRequiresTheAttribute(t *testing.T) {
	_, err := runFiltered(t, compare.FilterSet{
		"special_rider__approx": compare.Bool(true),
	}, basePolicy("a"), basePolicy("b"))

	if !errors.Is(err, compare.ErrNoComparablePolicies) {
		t.Fatalf("expected ErrNoComparablePolicies when no policy carries the attribute, got %v", err)
	}
}

func TestFilters_IncomparableOrderedPairExcludes(t *testing.T) {
	_, err := runFiltered(t, compare.FilterSet{
		"base_premium__lte": compare.String("cheap"),
	}, basePolicy("a"), basePolicy("b"))

	if !errors.Is(err, compare.ErrNoComparablePolicies) {
		t.Fatalf("expected ErrNoComparablePolicies for an incomparable bound, got %v", err)
	}
}

func TestFilters_EmptyFilterSetKeepsAll(t *testing.T) {
	out, err := runFiltered(t, compare.FilterSet{}, basePolicy("a"), basePolicy("b"))
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if out.TotalPolicies != 2 {
		t.Fatalf("an empty filter set must not exclude anything, got %d results", out.TotalPolicies)
	}
}

// =============================================================================
// STARVATION
// =============================================================================

func TestFilters_StarvationIsClientError(t *testing.T) {
	a := basePolicy("a")
	a.BasePremium = d("450")
	b := basePolicy("b")
	b.BasePremium = d("650")

	in := compare.Input{
		Category: compare.CategoryHealth,
		Policies: []compare.PolicyView{a, b},
		Survey: &compare.SurveyContext{Filters: compare.FilterSet{
			"base_premium__lte": compare.NumberFromInt(10),
		}},
	}
	_, err := stdEngine(t).Compare(context.Background(), in)

	if !errors.Is(err, compare.ErrNoComparablePolicies) {
		t.Fatalf("expected ErrNoComparablePolicies, got %v", err)
	}
	if !compare.IsClientError(err) {
		t.Errorf("filter starvation should read as a client error")
	}
}

func TestFilters_SingleSurvivorBelowMinimum(t *testing.T) {
	a := basePolicy("a")
	a.BasePremium = d("450")
	b := basePolicy("b")
	b.BasePremium = d("650")
	c := basePolicy("c")
	c.BasePremium = d("800")

	in := compare.Input{
		Category: compare.CategoryHealth,
		Policies: []compare.PolicyView{a, b, c},
		Survey: &compare.SurveyContext{Filters: compare.FilterSet{
			"base_premium__lte": compare.NumberFromInt(500),
		}},
	}
	_, err := stdEngine(t).Compare(context.Background(), in)

	if !errors.Is(err, compare.ErrTooFewPolicies) {
		t.Fatalf("expected ErrTooFewPolicies with one survivor, got %v", err)
	}
	if !compare.IsClientError(err) {
		t.Errorf("a too-small survivor set should read as a client error")
	}
}
