// Package funeral implements the funeral-insurance category: the typed
// policy record, its field provider for the comparison engine, the
// category strategy, and the default criteria set.
package funeral

import (
	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
)

// =============================================================================
// FUNERAL-SPECIFIC FIELD NAMES
// =============================================================================

// Field names resolved through the provider chain. Shared names
// (repatriation, claim payout hours, family size, inflation protection)
// live in the compare package.
const (
	fieldCoverType         compare.FieldName = "cover_type"
	fieldServiceType       compare.FieldName = "service_type"
	fieldSpouseCover       compare.FieldName = "includes_spouse_cover"
	fieldChildrenCover     compare.FieldName = "includes_children_cover"
	fieldParentsCover      compare.FieldName = "includes_parents_cover"
	fieldNaturalWaiting    compare.FieldName = "natural_death_waiting_period"
	fieldAccidentalWaiting compare.FieldName = "accidental_death_waiting_period"
	fieldGroceryBenefit    compare.FieldName = "grocery_benefit"
)

// Cover types: who the policy pays out for.
const (
	CoverIndividual     = "INDIVIDUAL"
	CoverFamily         = "FAMILY"
	CoverExtendedFamily = "EXTENDED_FAMILY"
)

// Service types: what the insurer provides at claim time.
const (
	ServiceCashPayout = "CASH_PAYOUT"
	ServiceManaged    = "MANAGED_SERVICE"
	ServiceHybrid     = "HYBRID"
)

// =============================================================================
// POLICY
// =============================================================================

// Policy is a funeral-insurance product. Waiting periods are in months
// (claims for natural death are typically locked for the first six);
// claim payout time is in hours. Zero counts mean "not specified".
type Policy struct {
	ID           compare.PolicyID
	PolicyNumber string
	Name         string
	Description  string
	Org          compare.Organization

	BasePremium       decimal.Decimal
	CoverageAmount    decimal.Decimal
	WaitingPeriodDays int
	MinimumAge        int
	MaximumAge        int
	Active            bool
	Featured          bool

	CoverType   string
	ServiceType string

	IncludesSpouseCover   bool
	IncludesChildrenCover bool
	IncludesParentsCover  bool
	MaximumFamilySize     int

	NaturalDeathWaitingMonths    int
	AccidentalDeathWaitingMonths int

	RepatriationCovered         bool
	ClaimPayoutHours            int
	InflationProtectionIncluded bool
	GroceryBenefit              bool
}

// FieldValue resolves funeral-specific attributes by field name.
// Implements compare.FieldProvider.
func (p Policy) FieldValue(field compare.FieldName) (compare.Value, bool) {
	switch field {
	case fieldCoverType:
		return stringValue(p.CoverType)
	case fieldServiceType:
		return stringValue(p.ServiceType)
	case fieldSpouseCover:
		return compare.Bool(p.IncludesSpouseCover), true
	case fieldChildrenCover:
		return compare.Bool(p.IncludesChildrenCover), true
	case fieldParentsCover:
		return compare.Bool(p.IncludesParentsCover), true
	case compare.FieldMaximumFamilySize:
		return countValue(p.MaximumFamilySize)
	case fieldNaturalWaiting:
		return compare.NumberFromInt(int64(p.NaturalDeathWaitingMonths)), true
	case fieldAccidentalWaiting:
		return compare.NumberFromInt(int64(p.AccidentalDeathWaitingMonths)), true
	case compare.FieldRepatriation:
		return compare.Bool(p.RepatriationCovered), true
	case compare.FieldClaimPayoutHours:
		return countValue(p.ClaimPayoutHours)
	case compare.FieldInflationProtection:
		return compare.Bool(p.InflationProtectionIncluded), true
	case fieldGroceryBenefit:
		return compare.Bool(p.GroceryBenefit), true
	}
	return compare.Value{}, false
}

// Snapshot builds the engine view of the policy. Review stats come from
// the caller because reviews live outside the policy record.
func (p Policy) Snapshot(reviews compare.ReviewSummary) *compare.Snapshot {
	return &compare.Snapshot{
		PolicyID:       p.ID,
		PolicyName:     p.Name,
		Line:           compare.CategoryFuneral,
		Provider:       p.Org,
		BasePremium:    p.BasePremium,
		CoverageAmount: p.CoverageAmount,
		WaitingDays:    p.WaitingPeriodDays,
		MinAge:         p.MinimumAge,
		MaxAge:         p.MaximumAge,
		Featured:       p.Featured,
		Reviews:        reviews,
		Fields:         []compare.FieldProvider{p},
	}
}

func stringValue(s string) (compare.Value, bool) {
	if s == "" {
		return compare.Value{}, false
	}
	return compare.String(s), true
}

func countValue(n int) (compare.Value, bool) {
	if n <= 0 {
		return compare.Value{}, false
	}
	return compare.NumberFromInt(int64(n)), true
}
