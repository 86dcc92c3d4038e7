/*
engine.go - Policy comparison engine entry point

PURPOSE:
  The front door of the package. An Engine holds only immutable options
  and a logger; every Compare call builds its own scoring context, so
  one Engine value serves concurrent comparisons safely.

PIPELINE:
  1. Validate candidate count against the configured bounds
  2. Filter gate: drop candidates failing survey hard requirements
  3. Score each survivor (standard breakdown, then survey enhancement)
  4. Rank with tie handling
  5. Attach pros/cons/recommendation reasons
  6. Derive recommendations, analysis and insights across the set

FAILURE RECOVERY:
  A policy that fails to score is dropped with a warning and the
  comparison continues; the run fails outright only when validation
  rejects the input or every single policy failed.

USAGE:
  engine := compare.NewEngine(compare.StandardOptions(), log)
  out, err := engine.Compare(ctx, compare.Input{
      Category: compare.CategoryHealth,
      Policies: views,
      Criteria: criteria,
      User:     user,
  })

SEE ALSO:
  - context.go: the per-call state
  - quick.go: the single-axis quick comparison helpers
*/
package compare

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/logger"
)

// =============================================================================
// BLEND WEIGHTS
// =============================================================================

// BlendWeights sets how the four dimension scores combine into the
// overall score. The four weights are expected to sum to 1.
type BlendWeights struct {
	Criteria     decimal.Decimal
	Value        decimal.Decimal
	Review       decimal.Decimal
	Organization decimal.Decimal
}

// StandardBlend weights the full comparison: the user's criteria dominate,
// value for money matters, reviews and issuer standing nudge.
func StandardBlend() BlendWeights {
	return BlendWeights{
		Criteria:     decF(0.60),
		Value:        decF(0.25),
		Review:       decF(0.10),
		Organization: decF(0.05),
	}
}

// QuickBlend weights the simplified single-axis comparison, leaning even
// harder on the criteria dimension.
func QuickBlend() BlendWeights {
	return BlendWeights{
		Criteria:     decF(0.70),
		Value:        decF(0.20),
		Review:       decF(0.05),
		Organization: decF(0.05),
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options bound and tune one engine's comparisons. The cutoff counts are
// presentation limits, not scoring inputs.
type Options struct {
	Blend           BlendWeights
	MinPolicies     int
	MaxPolicies     int
	MaxProsCons     int             // per-policy pro/con list cap
	MaxFactors      int             // personalization factor cap
	MaxCommonThemes int             // shared strength/weakness list cap
	TieEpsilon      decimal.Decimal // overall-score gap under which policies share a rank
}

// StandardOptions is the full comparison mode: 2 to 10 policies.
func StandardOptions() Options {
	return Options{
		Blend:           StandardBlend(),
		MinPolicies:     2,
		MaxPolicies:     10,
		MaxProsCons:     8,
		MaxFactors:      5,
		MaxCommonThemes: 5,
		TieEpsilon:      decF(0.01),
	}
}

// QuickOptions is the simplified mode used by single-axis browsing:
// a lone policy is fine and the candidate cap is looser.
func QuickOptions() Options {
	return Options{
		Blend:           QuickBlend(),
		MinPolicies:     1,
		MaxPolicies:     20,
		MaxProsCons:     8,
		MaxFactors:      5,
		MaxCommonThemes: 5,
		TieEpsilon:      decF(0.01),
	}
}

// withDefaults fills zero-valued fields so a partially built Options
// still behaves like the standard mode.
func (o Options) withDefaults() Options {
	std := StandardOptions()
	if o.Blend == (BlendWeights{}) {
		o.Blend = std.Blend
	}
	if o.MinPolicies == 0 {
		o.MinPolicies = std.MinPolicies
	}
	if o.MaxPolicies == 0 {
		o.MaxPolicies = std.MaxPolicies
	}
	if o.MaxProsCons == 0 {
		o.MaxProsCons = std.MaxProsCons
	}
	if o.MaxFactors == 0 {
		o.MaxFactors = std.MaxFactors
	}
	if o.MaxCommonThemes == 0 {
		o.MaxCommonThemes = std.MaxCommonThemes
	}
	if o.TieEpsilon.IsZero() {
		o.TieEpsilon = std.TieEpsilon
	}
	return o
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine compares policies. It is stateless apart from options and the
// logger, and safe for concurrent use.
type Engine struct {
	opts Options
	log  logger.Logger
}

// NewEngine builds an engine. A nil logger means silent operation.
func NewEngine(opts Options, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{opts: opts.withDefaults(), log: log}
}

// Input is everything one comparison needs, resolved up front by the
// caller: no I/O happens inside Compare.
type Input struct {
	Category Category
	Policies []PolicyView
	Criteria []Criterion
	User     UserCriteria
	Survey   *SurveyContext // nil for standard comparisons
}

// Output is the complete result set of one comparison.
type Output struct {
	Category        Category
	TotalPolicies   int
	BestMatch       RankedResult
	Results         []RankedResult
	Recommendations Recommendations
	Analysis        Analysis
	Insights        Insights
}

// =============================================================================
// COMPARE
// =============================================================================

// Compare scores, ranks and explains the candidate policies.
func (e *Engine) Compare(ctx context.Context, in Input) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	if len(in.Policies) < e.opts.MinPolicies {
		return Output{}, &ValidationError{
			Reason: fmt.Sprintf("at least %d policies required for comparison", e.opts.MinPolicies),
			Err:    ErrTooFewPolicies,
		}
	}
	if len(in.Policies) > e.opts.MaxPolicies {
		return Output{}, &ValidationError{
			Reason: fmt.Sprintf("maximum %d policies can be compared at once", e.opts.MaxPolicies),
			Err:    ErrTooManyPolicies,
		}
	}

	sc := newScoringContext(in, e.opts, e.log)

	views := in.Policies
	if in.Survey != nil && len(in.Survey.Filters) > 0 {
		views = applyFilters(in.Policies, in.Survey.Filters)
		e.log.Debug("survey filters applied", map[string]interface{}{
			"category": string(in.Category),
			"before":   len(in.Policies),
			"after":    len(views),
		})
	}

	if len(views) == 0 {
		return Output{}, &ValidationError{
			Reason: "no valid policies found for comparison",
			Err:    ErrNoComparablePolicies,
		}
	}
	if len(views) < e.opts.MinPolicies {
		return Output{}, &ValidationError{
			Reason: fmt.Sprintf("at least %d valid policies required for comparison", e.opts.MinPolicies),
			Err:    ErrTooFewPolicies,
		}
	}

	e.log.Info("scoring policies", map[string]interface{}{
		"category": string(in.Category),
		"policies": len(views),
		"survey":   in.Survey != nil,
	})

	results := make([]RankedResult, 0, len(views))
	for _, view := range views {
		breakdown, err := scorePolicy(sc, view)
		if err != nil {
			serr := &ScoringError{PolicyID: viewID(view), Err: err}
			e.log.WithError(serr).Warn("failed to score policy, dropping it", map[string]interface{}{
				"policy_id": string(serr.PolicyID),
			})
			continue
		}
		if sc.survey != nil {
			breakdown = enhanceWithSurvey(sc, view, breakdown)
		}
		results = append(results, RankedResult{Policy: view, Scores: breakdown})
	}

	if len(results) == 0 {
		return Output{}, ErrAllPoliciesFailed
	}

	results = rankPolicies(results, e.opts.TieEpsilon)
	explainResults(sc, results)

	return Output{
		Category:        in.Category,
		TotalPolicies:   len(results),
		BestMatch:       results[0],
		Results:         results,
		Recommendations: buildRecommendations(sc, results),
		Analysis:        buildAnalysis(sc, results),
		Insights:        buildInsights(sc, results),
	}, nil
}

// viewID tolerates nil views when building error context.
func viewID(view PolicyView) PolicyID {
	if view == nil {
		return ""
	}
	return view.ID()
}
