/*
evaluate.go - Per-field comparison rules

PURPOSE:
  Scores a single policy field against the user's target, producing a
  0-100 score. This is the innermost layer of the engine: everything
  above it (aggregation, enhancement, ranking) composes these scores.

RULES:
  LOWER_BETTER   at or under target scores 100; overage is penalized on a
                 three-tier curve (1x up to 20%, 1.5x to 50%, 2x beyond)
  HIGHER_BETTER  mirror image of LOWER_BETTER
  EXACT_MATCH    equality scores 100, anything else 0
  RANGE          inside the target band scores 100; distance decays 10
                 points per unit of gap
  BOOLEAN        truthiness match scores 100, mismatch 0

  Two field families bypass the rule table: benefit levels score on an
  ordered five-step vocabulary, and annual-limit ranges score on bucket
  overlap. Fields with no criterion definition fall back to a generic
  type-sensitive rule.

MISSING DATA:
  No policy value -> 0 (no data earns no points), except the benefit
  level and limit range rules which treat one-sided data as neutral 50.
  No user target -> neutral 50, except EXACT_MATCH where nothing can
  match and the score is 0.

SEE ALSO:
  - aggregate.go: weighted composition of these scores
  - types.go: Value semantics (coercion, truthiness, equality)
*/
package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DISPATCH
// =============================================================================

// evaluateField scores one field of one policy. An error marks the field
// unscorable (bad criterion configuration, or a type mismatch between the
// value and its rule); the aggregator omits such fields from the weighted
// sum rather than scoring them zero.
func evaluateField(sc *scoringContext, view PolicyView, field FieldName) (decimal.Decimal, error) {
	switch field {
	case FieldInHospitalLevel, FieldOutHospitalLevel:
		return scoreBenefitLevel(view, field, sc.user.Target(field)), nil
	case FieldAnnualLimitFamily, FieldAnnualLimitMember:
		return scoreLimitRange(view, field, sc.user.Target(field)), nil
	}

	policyVal, ok := view.Field(field)
	if !ok {
		// No data earns no points.
		return decZero, nil
	}

	target := sc.user.Target(field)

	crit, defined := sc.criteria[field]
	if !defined {
		return smartScore(policyVal, target), nil
	}

	switch crit.Compare {
	case LowerBetter:
		return scoreLowerBetter(policyVal, target)
	case HigherBetter:
		return scoreHigherBetter(policyVal, target)
	case ExactMatch:
		return scoreExactMatch(policyVal, target), nil
	case WithinRange:
		return scoreRange(policyVal, target)
	case BooleanMatch:
		return scoreBoolean(policyVal, target), nil
	}
	return decZero, fmt.Errorf("criterion %q has unsupported comparison type %q", crit.Field, crit.Compare)
}

// =============================================================================
// DIRECTIONAL RULES
// =============================================================================

func scoreLowerBetter(policyVal, target Value) (decimal.Decimal, error) {
	if target.IsAbsent() {
		return decFifty, nil
	}
	tv, ok := target.Number()
	if !ok {
		return decZero, fmt.Errorf("lower-better target %q is not numeric", target.Text())
	}
	pv, ok := policyVal.Number()
	if !ok {
		return decZero, fmt.Errorf("policy value %q is not numeric", policyVal.Text())
	}

	if pv.LessThanOrEqual(tv) {
		// Free always beats a positive target outright.
		if pv.IsZero() && tv.GreaterThan(decZero) {
			return decHundred, nil
		}
		savingsPct := decZero
		if !tv.IsZero() {
			savingsPct = tv.Sub(pv).Div(tv).Mul(decHundred)
		}
		bonus := decMin(savingsPct.Div(decTen), decTen)
		return decMin(decHundred.Add(bonus), decHundred), nil
	}

	if tv.IsZero() {
		return decZero, nil
	}
	excessPct := pv.Sub(tv).Div(tv).Mul(decHundred)
	return decMax(decZero, decHundred.Sub(overagePenalty(excessPct))), nil
}

func scoreHigherBetter(policyVal, target Value) (decimal.Decimal, error) {
	if target.IsAbsent() {
		return decFifty, nil
	}
	tv, ok := target.Number()
	if !ok {
		return decZero, fmt.Errorf("higher-better target %q is not numeric", target.Text())
	}
	pv, ok := policyVal.Number()
	if !ok {
		return decZero, fmt.Errorf("policy value %q is not numeric", policyVal.Text())
	}

	if pv.GreaterThanOrEqual(tv) {
		bonus := decZero
		if tv.GreaterThan(decZero) {
			excessPct := pv.Sub(tv).Div(tv).Mul(decHundred)
			bonus = decMin(excessPct.Div(dec(20)), decTen)
		}
		return decMin(decHundred.Add(bonus), decHundred), nil
	}

	if tv.IsZero() {
		return decZero, fmt.Errorf("higher-better shortfall against zero target")
	}
	shortfallPct := tv.Sub(pv).Div(tv).Mul(decHundred)
	return decMax(decZero, decHundred.Sub(overagePenalty(shortfallPct))), nil
}

// overagePenalty maps a percentage miss onto the shared three-tier penalty
// curve: linear to 20%, 1.5x from 20-50%, 2x beyond 50%.
func overagePenalty(missPct decimal.Decimal) decimal.Decimal {
	twenty := dec(20)
	fifty := dec(50)
	switch {
	case missPct.LessThanOrEqual(twenty):
		return missPct
	case missPct.LessThanOrEqual(fifty):
		return twenty.Add(missPct.Sub(twenty).Mul(decF(1.5)))
	default:
		return dec(65).Add(missPct.Sub(fifty).Mul(dec(2)))
	}
}

// =============================================================================
// MATCH RULES
// =============================================================================

func scoreExactMatch(policyVal, target Value) decimal.Decimal {
	if target.IsAbsent() {
		return decZero
	}
	if policyVal.Equal(target) {
		return decHundred
	}
	return decZero
}

func scoreRange(policyVal, target Value) (decimal.Decimal, error) {
	if target.IsAbsent() {
		return decFifty, nil
	}
	lo, hi, ok := target.Range()
	if !ok || (lo == nil && hi == nil) {
		// A non-range target cannot band-check anything; stay neutral.
		return decFifty, nil
	}
	pv, ok := policyVal.Number()
	if !ok {
		return decZero, fmt.Errorf("policy value %q is not numeric", policyVal.Text())
	}

	belowLo := lo != nil && pv.LessThan(*lo)
	aboveHi := hi != nil && pv.GreaterThan(*hi)
	if !belowLo && !aboveHi {
		return decHundred, nil
	}

	var gap decimal.Decimal
	if belowLo {
		gap = lo.Sub(pv)
	} else {
		gap = pv.Sub(*hi)
	}
	penalty := decMin(gap.Mul(decTen), decHundred)
	return decHundred.Sub(penalty), nil
}

func scoreBoolean(policyVal, target Value) decimal.Decimal {
	if target.IsAbsent() {
		return decFifty
	}
	if policyVal.Truthy() == target.Truthy() {
		return decHundred
	}
	return decZero
}

// =============================================================================
// GENERIC FALLBACK - fields without a criterion definition
// =============================================================================

// smartScore applies a type-sensitive generic rule: booleans exact-match,
// numbers decay with relative distance, strings match case-insensitively
// with a soft 50 floor for mismatches.
func smartScore(policyVal, target Value) decimal.Decimal {
	if target.IsAbsent() {
		return decFifty
	}

	if pb, ok := policyVal.Bool(); ok {
		if tb, ok := target.Bool(); ok {
			if pb == tb {
				return decHundred
			}
			return decZero
		}
		if tn, ok := target.Number(); ok {
			if boolAsNumber(pb).Equal(tn) {
				return decHundred
			}
			return decZero
		}
		return decZero
	}

	if policyVal.Kind() == KindNumber {
		pn, _ := policyVal.Number()
		tn, ok := target.Number()
		if !ok {
			return decFifty
		}
		var diffPct decimal.Decimal
		switch {
		case !tn.IsZero():
			diffPct = pn.Sub(tn).Div(tn).Mul(decHundred).Abs()
		case pn.IsZero():
			diffPct = decZero
		default:
			diffPct = decHundred
		}
		return decMax(decZero, decHundred.Sub(diffPct))
	}

	if ps, ok := policyVal.Str(); ok {
		if strings.EqualFold(ps, target.Text()) {
			return decHundred
		}
		return decFifty
	}

	return decFifty
}

// =============================================================================
// BENEFIT LEVELS - ordered five-step vocabulary per field
// =============================================================================

var benefitVocab = map[FieldName][]string{
	FieldInHospitalLevel:  {"no_cover", "basic", "moderate", "extensive", "comprehensive"},
	FieldOutHospitalLevel: {"no_cover", "basic_visits", "routine_care", "extended_care", "comprehensive_care"},
}

// scoreBenefitLevel compares two benefit levels on their ordered ladder.
// Meeting the user's level exactly is best (100); each step above earns
// back 90 + 5 per step of headroom; each step short costs 25 points.
func scoreBenefitLevel(view PolicyView, field FieldName, target Value) decimal.Decimal {
	levels := benefitVocab[field]

	policyVal, ok := view.Field(field)
	if !ok || target.IsAbsent() {
		return decFifty
	}
	ps, _ := policyVal.Str()
	ts, _ := target.Str()
	if ps == "" || ts == "" {
		return decFifty
	}

	pi := levelIndex(levels, ps)
	ti := levelIndex(levels, ts)
	if pi < 0 || ti < 0 {
		return decFifty
	}

	switch {
	case pi == ti:
		return decHundred
	case pi > ti:
		return decMin(decHundred, dec(90).Add(dec(5).Mul(dec(int64(pi-ti)))))
	default:
		return decMax(decZero, decHundred.Sub(dec(25).Mul(dec(int64(ti-pi)))))
	}
}

func levelIndex(levels []string, s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, l := range levels {
		if l == s {
			return i
		}
	}
	return -1
}

// =============================================================================
// ANNUAL LIMIT RANGES - bucket overlap scoring
// =============================================================================

// limitBucket is a named annual-limit band. Open marks an unbounded upper
// end ("2m-plus").
type limitBucket struct {
	min  decimal.Decimal
	max  decimal.Decimal
	open bool
}

var limitBuckets = map[string]limitBucket{
	"10k-25k":   {min: dec(10_000), max: dec(25_000)},
	"10k-50k":   {min: dec(10_000), max: dec(50_000)},
	"25k-50k":   {min: dec(25_000), max: dec(50_000)},
	"50k-100k":  {min: dec(50_000), max: dec(100_000)},
	"100k-200k": {min: dec(100_000), max: dec(200_000)},
	"100k-250k": {min: dec(100_000), max: dec(250_000)},
	"200k-500k": {min: dec(200_000), max: dec(500_000)},
	"250k-500k": {min: dec(250_000), max: dec(500_000)},
	"500k-1m":   {min: dec(500_000), max: dec(1_000_000)},
	"1m-2m":     {min: dec(1_000_000), max: dec(2_000_000)},
	"2m-5m":     {min: dec(2_000_000), max: dec(5_000_000)},
	"2m-plus":   {min: dec(2_000_000), open: true},
	"5m-plus":   {min: dec(5_000_000), open: true},
}

// scoreLimitRange scores a policy's annual-limit band against the user's
// requested band by overlap. Full containment of the user's band scores
// 100; a policy band above the request keeps a safe 70; a band below decays
// with the relative gap down to a floor of 10. "not_sure" earns a mild 75
// for any policy.
func scoreLimitRange(view PolicyView, field FieldName, target Value) decimal.Decimal {
	policyVal, hasPolicy := view.Field(field)
	ts, _ := target.Str()
	ts = strings.ToLower(strings.TrimSpace(ts))

	if ts == "not_sure" {
		return dec(75)
	}
	ps, _ := policyVal.Str()
	ps = strings.ToLower(strings.TrimSpace(ps))
	if !hasPolicy || ps == "" || ts == "" {
		return decFifty
	}
	if ps == ts {
		return decHundred
	}

	pb, okP := limitBuckets[ps]
	ub, okU := limitBuckets[ts]
	if !okP || !okU {
		return decFifty
	}

	if overlaps(pb, ub) {
		coverage := overlapCoverage(pb, ub)
		base := coverage.Mul(dec(80))
		if pb.min.GreaterThanOrEqual(ub.min) {
			base = base.Add(dec(20))
		}
		return decMin(base, decHundred)
	}

	// Disjoint bands: a policy band above the request still protects the
	// requested amounts; a band below leaves the user exposed.
	if !ub.open && pb.min.GreaterThan(ub.max) {
		return dec(70)
	}
	gap := ub.min.Sub(pb.max)
	gapRatio := decOne
	if ub.min.GreaterThan(decZero) {
		gapRatio = gap.Div(ub.min)
	}
	return decMax(decTen, decFifty.Sub(gapRatio.Mul(dec(60))))
}

func overlaps(a, b limitBucket) bool {
	lo := decMax(a.min, b.min)
	if a.open && b.open {
		return true
	}
	if a.open {
		return lo.LessThanOrEqual(b.max)
	}
	if b.open {
		return lo.LessThanOrEqual(a.max)
	}
	return lo.LessThanOrEqual(decMin(a.max, b.max))
}

// overlapCoverage returns what fraction of the user's band the policy band
// covers, in [0, 1]. An unbounded user band is covered only by an equally
// unbounded policy band.
func overlapCoverage(policy, user limitBucket) decimal.Decimal {
	if user.open {
		if policy.open {
			return decOne
		}
		return decZero
	}
	lo := decMax(policy.min, user.min)
	hi := user.max
	if !policy.open {
		hi = decMin(policy.max, user.max)
	}
	if hi.LessThan(lo) {
		return decZero
	}
	size := user.max.Sub(user.min)
	if size.LessThanOrEqual(decZero) {
		return decOne
	}
	return hi.Sub(lo).Div(size)
}
