/*
view.go - Read-only policy view consumed by the engine

PURPOSE:
  Defines PolicyView, the engine's only window onto a policy. Category
  packages (health, funeral) build Snapshot values from their typed
  records; the engine never touches storage models or reflection.

HOW FIELD LOOKUP WORKS:
  1. Core attributes (premium, coverage, waiting period, ages, featured,
     name) resolve directly from the snapshot
  2. "organization.*" paths resolve against the issuing organization
  3. Everything else walks the ordered FieldProvider chain: the category
     package's typed provider first, then the free-form feature bag

  Absence is explicit: Field returns (Value{}, false) and the evaluator
  applies the documented missing-value defaults.

USAGE:
  snap := compare.Snapshot{
      PolicyID:    "pol-1",
      PolicyName:  "Essential Health",
      Line:        compare.CategoryHealth,
      BasePremium: decimal.NewFromInt(450),
      Fields:      []compare.FieldProvider{healthFields, extras},
  }
  v, ok := snap.Field("includes_dental_cover")

SEE ALSO:
  - health/types.go: typed health policy and its field provider
  - funeral/types.go: typed funeral policy and its field provider
  - evaluate.go: missing-value semantics
*/
package compare

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ORGANIZATION & REVIEWS
// =============================================================================

// Organization is the policy issuer as the engine sees it. LicenseValid is
// resolved by the caller at load time so the engine stays clock-free.
type Organization struct {
	ID           OrganizationID
	Name         string
	Verified     bool
	Active       bool
	LicenseValid bool
}

// Review is a single approved customer review.
type Review struct {
	Rating   int // 1..5 stars
	Approved bool
}

// ReviewSummary is the aggregate the scorer consumes.
type ReviewSummary struct {
	Count   int
	Average decimal.Decimal // 0 when Count == 0
}

// SummarizeReviews aggregates approved reviews into the form the review
// scorer consumes.
func SummarizeReviews(reviews []Review) ReviewSummary {
	count := 0
	total := decZero
	for _, r := range reviews {
		if !r.Approved {
			continue
		}
		count++
		total = total.Add(dec(int64(r.Rating)))
	}
	if count == 0 {
		return ReviewSummary{}
	}
	return ReviewSummary{Count: count, Average: total.Div(dec(int64(count)))}
}

// =============================================================================
// POLICY VIEW - The engine's read model
// =============================================================================

// PolicyView exposes everything the engine may read from a policy. Named
// accessors cover the core attributes every policy carries; Field serves
// criterion evaluation over the full attribute space.
type PolicyView interface {
	ID() PolicyID
	Name() string
	Category() Category
	Premium() decimal.Decimal
	Coverage() decimal.Decimal
	WaitingPeriodDays() int
	MinimumAge() int
	MaximumAge() int
	IsFeatured() bool
	Organization() Organization
	ReviewStats() ReviewSummary

	// Field resolves an evaluable attribute by name, reporting absence
	// explicitly.
	Field(FieldName) (Value, bool)
}

// FieldProvider supplies values for fields beyond the core attributes.
// Providers are consulted in order; the first hit wins.
type FieldProvider interface {
	FieldValue(FieldName) (Value, bool)
}

// FeatureBag is a free-form provider for ad-hoc attributes, typically
// parsed from a policy's stored feature JSON.
type FeatureBag map[FieldName]Value

func (b FeatureBag) FieldValue(f FieldName) (Value, bool) {
	v, ok := b[f]
	return v, ok
}

// =============================================================================
// SNAPSHOT - Concrete PolicyView
// =============================================================================

// Snapshot is an immutable, in-memory view of one policy at comparison
// time. Category packages construct it; the engine only reads it.
type Snapshot struct {
	PolicyID          PolicyID
	PolicyName        string
	Line              Category
	Provider          Organization
	BasePremium       decimal.Decimal // monthly premium
	CoverageAmount    decimal.Decimal
	WaitingDays       int
	MinAge            int
	MaxAge            int
	Featured          bool
	Reviews           ReviewSummary
	Fields            []FieldProvider
}

var _ PolicyView = (*Snapshot)(nil)

func (s *Snapshot) ID() PolicyID               { return s.PolicyID }
func (s *Snapshot) Name() string               { return s.PolicyName }
func (s *Snapshot) Category() Category         { return s.Line }
func (s *Snapshot) Premium() decimal.Decimal   { return s.BasePremium }
func (s *Snapshot) Coverage() decimal.Decimal  { return s.CoverageAmount }
func (s *Snapshot) WaitingPeriodDays() int     { return s.WaitingDays }
func (s *Snapshot) MinimumAge() int            { return s.MinAge }
func (s *Snapshot) MaximumAge() int            { return s.MaxAge }
func (s *Snapshot) IsFeatured() bool           { return s.Featured }
func (s *Snapshot) Organization() Organization { return s.Provider }
func (s *Snapshot) ReviewStats() ReviewSummary { return s.Reviews }

// Field resolves core attributes, one level of "organization." dot-path,
// then the provider chain.
func (s *Snapshot) Field(f FieldName) (Value, bool) {
	switch f {
	case FieldPolicyName:
		return String(s.PolicyName), true
	case FieldBasePremium:
		return Number(s.BasePremium), true
	case FieldCoverageAmount:
		return Number(s.CoverageAmount), true
	case FieldWaitingPeriod:
		return NumberFromInt(int64(s.WaitingDays)), true
	case FieldMinimumAge:
		return NumberFromInt(int64(s.MinAge)), true
	case FieldMaximumAge:
		return NumberFromInt(int64(s.MaxAge)), true
	case FieldIsFeatured:
		return Bool(s.Featured), true
	}

	if rest, ok := strings.CutPrefix(string(f), "organization."); ok {
		return s.organizationField(rest)
	}

	for _, p := range s.Fields {
		if v, ok := p.FieldValue(f); ok {
			return v, true
		}
	}
	return Value{}, false
}

func (s *Snapshot) organizationField(name string) (Value, bool) {
	switch name {
	case "name":
		return String(s.Provider.Name), true
	case "is_verified":
		return Bool(s.Provider.Verified), true
	case "is_active":
		return Bool(s.Provider.Active), true
	case "license_valid":
		return Bool(s.Provider.LicenseValid), true
	}
	return Value{}, false
}
