package compare_test

import (
	"errors"
	"testing"

	"github.com/coverly/compare-engine/compare"
)

func viewIDs(views []compare.PolicyView) []string {
	ids := make([]string, len(views))
	for i, v := range views {
		ids[i] = string(v.ID())
	}
	return ids
}

func assertOrder(t *testing.T, views []compare.PolicyView, want ...string) {
	t.Helper()
	got := viewIDs(views)
	if len(got) != len(want) {
		t.Fatalf("expected %d views, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestQuickCompare_PriceAxis(t *testing.T) {
	a := basePolicy("a")
	a.BasePremium = d("800")
	b := basePolicy("b")
	b.BasePremium = d("300")
	c := basePolicy("c")
	c.BasePremium = d("500")

	out, err := compare.QuickCompare([]compare.PolicyView{a, b, c}, compare.QuickByPrice)
	if err != nil {
		t.Fatalf("QuickCompare: %v", err)
	}
	assertOrder(t, out, "b", "c", "a")
}

func TestQuickCompare_CoverageAxis(t *testing.T) {
	a := basePolicy("a")
	a.CoverageAmount = d("50000")
	b := basePolicy("b")
	b.CoverageAmount = d("240000")
	c := basePolicy("c")
	c.CoverageAmount = d("100000")

	out, err := compare.QuickCompare([]compare.PolicyView{a, b, c}, compare.QuickByCoverage)
	if err != nil {
		t.Fatalf("QuickCompare: %v", err)
	}
	assertOrder(t, out, "b", "c", "a")
}

func TestQuickCompare_ValueAxis(t *testing.T) {
	// b and c share a 300:1 ratio; the bigger coverage breaks the tie.
	// A free policy beats any ratio outright.
	a := basePolicy("a")
	a.CoverageAmount = d("100000")
	b := basePolicy("b")
	b.CoverageAmount = d("150000")
	c := basePolicy("c")
	c.BasePremium = d("800")
	c.CoverageAmount = d("240000")
	free := basePolicy("free")
	free.BasePremium = d("0")
	free.CoverageAmount = d("10000")

	out, err := compare.QuickCompare([]compare.PolicyView{a, b, c, free}, compare.QuickByValue)
	if err != nil {
		t.Fatalf("QuickCompare: %v", err)
	}
	assertOrder(t, out, "free", "c", "b", "a")
}

func TestQuickCompare_RatingAxis(t *testing.T) {
	a := basePolicy("a")
	a.Reviews = compare.ReviewSummary{Count: 10, Average: d("4.5")}
	b := basePolicy("b")
	b.Reviews = compare.ReviewSummary{Count: 40, Average: d("4.5")}
	c := basePolicy("c")
	c.Reviews = compare.ReviewSummary{Count: 100, Average: d("3")}
	unrated := basePolicy("unrated")

	out, err := compare.QuickCompare([]compare.PolicyView{a, b, c, unrated}, compare.QuickByRating)
	if err != nil {
		t.Fatalf("QuickCompare: %v", err)
	}
	assertOrder(t, out, "b", "a", "c", "unrated")
}

func TestQuickCompare_UnknownAxis(t *testing.T) {
	_, err := compare.QuickCompare([]compare.PolicyView{basePolicy("a")}, compare.QuickBy("fanciness"))
	if !errors.Is(err, compare.ErrUnknownAxis) {
		t.Fatalf("expected ErrUnknownAxis, got %v", err)
	}
	if !compare.IsClientError(err) {
		t.Errorf("an unknown axis should read as a client error")
	}
}

func TestQuickCompare_InputUntouched(t *testing.T) {
	a := basePolicy("a")
	a.BasePremium = d("800")
	b := basePolicy("b")
	b.BasePremium = d("300")
	views := []compare.PolicyView{a, b}

	out, err := compare.QuickCompare(views, compare.QuickByPrice)
	if err != nil {
		t.Fatalf("QuickCompare: %v", err)
	}

	assertOrder(t, out, "b", "a")
	assertOrder(t, views, "a", "b")
}

func TestParseQuickBy(t *testing.T) {
	for _, axis := range []string{"price", "coverage", "value", "rating"} {
		got, err := compare.ParseQuickBy(axis)
		if err != nil {
			t.Fatalf("ParseQuickBy(%q): %v", axis, err)
		}
		if string(got) != axis {
			t.Errorf("ParseQuickBy(%q) = %q", axis, got)
		}
	}

	if _, err := compare.ParseQuickBy("cheapness"); !errors.Is(err, compare.ErrUnknownAxis) {
		t.Fatalf("expected ErrUnknownAxis for an unsupported axis, got %v", err)
	}
}
