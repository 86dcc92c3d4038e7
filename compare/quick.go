/*
quick.go - Single-axis quick comparisons

PURPOSE:
  Cheap orderings for browsing pages that want "cheapest first" or
  "highest rated first" without running the full scoring pipeline.
  These run on already-loaded policy views and never error on policy
  content; only an unknown axis is rejected.

AXES:
  price     premium ascending
  coverage  coverage amount descending
  value     coverage-to-premium ratio descending
  rating    review average descending, review count breaking ties

SEE ALSO:
  - engine.go: QuickOptions for the simplified full comparison
*/
package compare

import "sort"

// QuickBy selects the axis of a quick comparison.
type QuickBy string

const (
	QuickByPrice    QuickBy = "price"
	QuickByCoverage QuickBy = "coverage"
	QuickByValue    QuickBy = "value"
	QuickByRating   QuickBy = "rating"
)

// ParseQuickBy validates a raw axis string.
func ParseQuickBy(s string) (QuickBy, error) {
	switch QuickBy(s) {
	case QuickByPrice, QuickByCoverage, QuickByValue, QuickByRating:
		return QuickBy(s), nil
	}
	return "", ErrUnknownAxis
}

// QuickCompare returns a new slice ordered on the requested axis.
func QuickCompare(views []PolicyView, by QuickBy) ([]PolicyView, error) {
	switch by {
	case QuickByPrice:
		return ByPremium(views), nil
	case QuickByCoverage:
		return ByCoverage(views), nil
	case QuickByValue:
		return ByValueRatio(views), nil
	case QuickByRating:
		return ByRating(views), nil
	}
	return nil, ErrUnknownAxis
}

// ByPremium orders cheapest first.
func ByPremium(views []PolicyView) []PolicyView {
	return sortedViews(views, func(a, b PolicyView) bool {
		return a.Premium().LessThan(b.Premium())
	})
}

// ByCoverage orders the largest coverage amount first.
func ByCoverage(views []PolicyView) []PolicyView {
	return sortedViews(views, func(a, b PolicyView) bool {
		return a.Coverage().GreaterThan(b.Coverage())
	})
}

// ByValueRatio orders by coverage per premium unit, best ratio first.
// Cross-multiplying sidesteps zero premiums: free cover with any
// coverage beats everything.
func ByValueRatio(views []PolicyView) []PolicyView {
	return sortedViews(views, func(a, b PolicyView) bool {
		left := a.Coverage().Mul(b.Premium())
		right := b.Coverage().Mul(a.Premium())
		if !left.Equal(right) {
			return left.GreaterThan(right)
		}
		return a.Coverage().GreaterThan(b.Coverage())
	})
}

// ByRating orders by review average, more-reviewed policies winning ties.
func ByRating(views []PolicyView) []PolicyView {
	return sortedViews(views, func(a, b PolicyView) bool {
		as, bs := a.ReviewStats(), b.ReviewStats()
		if !as.Average.Equal(bs.Average) {
			return as.Average.GreaterThan(bs.Average)
		}
		return as.Count > bs.Count
	})
}

// sortedViews stable-sorts a copy, leaving the input untouched.
func sortedViews(views []PolicyView, less func(a, b PolicyView) bool) []PolicyView {
	out := make([]PolicyView, len(views))
	copy(out, views)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
