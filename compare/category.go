/*
category.go - Category strategy registration and lookup

PURPOSE:
  Provides a registry for category packages to register their strategy
  implementations. Category-specific behavior (pros, cons, cross-policy
  coverage notes) stays out of the core engine; the engine resolves the
  strategy once per compare call and threads it through the context.

HOW IT WORKS:
  1. Category packages define their CategoryStrategy implementations
  2. Category packages register them on init()
  3. The engine looks the strategy up by the input's category

USAGE:
  // In health/types.go
  func init() {
      compare.RegisterCategory(Strategy{})
  }

  // In the engine
  strat, ok := compare.StrategyFor(compare.CategoryHealth)

SEE ALSO:
  - health/strategy.go: health strategy implementation
  - funeral/strategy.go: funeral strategy implementation
  - explain.go: where category pros/cons feed into explanations
*/
package compare

import "sync"

// =============================================================================
// CATEGORY STRATEGY
// =============================================================================

// CategoryStrategy supplies the category-specific slices of a comparison:
// extra pros/cons per policy and coverage-prevalence notes across the
// compared set. Implementations must be stateless values.
type CategoryStrategy interface {
	// Category names the insurance line this strategy serves.
	Category() Category

	// Pros returns category-specific strengths of one policy.
	Pros(view PolicyView) []string

	// Cons returns category-specific weaknesses of one policy.
	Cons(view PolicyView) []string

	// InsightNotes returns cross-policy observations, e.g. how many of the
	// compared policies include a notable cover.
	InsightNotes(views []PolicyView) []InsightNote
}

// =============================================================================
// STRATEGY REGISTRY
// =============================================================================

var (
	categoryRegistry = make(map[Category]CategoryStrategy)
	categoryMu       sync.RWMutex
)

// RegisterCategory adds a strategy to the global registry. Call this from
// category package init() functions.
func RegisterCategory(s CategoryStrategy) {
	categoryMu.Lock()
	defer categoryMu.Unlock()
	categoryRegistry[s.Category()] = s
}

// StrategyFor finds the registered strategy for a category.
func StrategyFor(c Category) (CategoryStrategy, bool) {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	s, ok := categoryRegistry[c]
	return s, ok
}

// RegisteredCategories returns the categories with a registered strategy.
func RegisteredCategories() []Category {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	out := make([]Category, 0, len(categoryRegistry))
	for c := range categoryRegistry {
		out = append(out, c)
	}
	return out
}

// noopStrategy keeps comparisons usable for categories without a
// registered package: no extra pros/cons, no notes.
type noopStrategy struct{ category Category }

func (n noopStrategy) Category() Category                      { return n.category }
func (n noopStrategy) Pros(PolicyView) []string                { return nil }
func (n noopStrategy) Cons(PolicyView) []string                { return nil }
func (n noopStrategy) InsightNotes([]PolicyView) []InsightNote { return nil }

// strategyOrNoop resolves a strategy, falling back to the no-op when the
// category package is not linked in.
func strategyOrNoop(c Category) CategoryStrategy {
	if s, ok := StrategyFor(c); ok {
		return s
	}
	return noopStrategy{category: c}
}
