/*
Package factory provides JSON to Go policy conversion.

PURPOSE:
  Converts JSON policy documents into typed health and funeral records,
  criteria sets, user targets, and survey contexts. Insurer catalogs
  arrive as documents, not code - the factory turns them into the
  structs the comparison engine scores.

WHY JSON?
  - Insurers and brokers ship catalogs as documents
  - Demo scenarios seed the store from the same format
  - Database storage of policy documents
  - Easy integration with an admin UI

JSON SCHEMA:
  {
    "id": "pol-acme-hospital",
    "policy_number": "AH-2024-001",
    "name": "Acme Hospital Plan",
    "category": "health",
    "organization": {
      "id": "org-acme",
      "name": "Acme Health",
      "is_verified": true,
      "license_expiry": "2027-01-31"
    },
    "base_premium": 450.50,
    "coverage_amount": 250000,
    "waiting_period_days": 30,
    "minimum_age": 18,
    "maximum_age": 65,
    "health_details": {
      "includes_dental_cover": true,
      "in_hospital_benefit_level": "comprehensive"
    },
    "features": {"plan_tier": "gold"},
    "reviews": [{"rating": 5, "is_approved": true}]
  }

KEY FEATURES:
  - Validates document structure and category vocabulary
  - Sets sensible defaults (active unless stated, default weight)
  - Resolves license validity against a clock
  - Parses flexible field values (bool, number, string, range)

USAGE:
  factory := NewPolicyFactory()

  // From a JSON document
  parsed, err := factory.ParsePolicy(doc)

  // Engine view with live organization and review stats
  view := parsed.Snapshot(org, reviewStats)

  // Whole catalogs (demo scenarios, bulk imports)
  entries, err := factory.ParseCatalog(catalogJSON)

SEE ALSO:
  - health/types.go: health.Policy definition
  - funeral/types.go: funeral.Policy definition
  - compare/types.go: criteria, targets, value kinds
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
	"github.com/coverly/compare-engine/funeral"
	"github.com/coverly/compare-engine/health"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of one policy document. Exactly
// one of HealthDetails/FuneralDetails may be set, and it must match
// Category.
type PolicyJSON struct {
	ID           string           `json:"id"`
	PolicyNumber string           `json:"policy_number,omitempty"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Category     string           `json:"category"`
	Organization OrganizationJSON `json:"organization"`

	BasePremium       decimal.Decimal `json:"base_premium"`
	CoverageAmount    decimal.Decimal `json:"coverage_amount"`
	WaitingPeriodDays int             `json:"waiting_period_days,omitempty"`
	MinimumAge        int             `json:"minimum_age,omitempty"`
	MaximumAge        int             `json:"maximum_age,omitempty"`
	IsActive          *bool           `json:"is_active,omitempty"` // default true
	IsFeatured        bool            `json:"is_featured,omitempty"`

	HealthDetails  *HealthJSON  `json:"health_details,omitempty"`
	FuneralDetails *FuneralJSON `json:"funeral_details,omitempty"`

	// Features carries free-form attributes outside the typed schema.
	// Values may be booleans, numbers, strings, or {"min","max"} ranges.
	Features map[string]json.RawMessage `json:"features,omitempty"`

	Reviews []ReviewJSON `json:"reviews,omitempty"`
}

// OrganizationJSON is the JSON representation of the underwriting insurer.
type OrganizationJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsVerified bool   `json:"is_verified,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"` // default true

	// LicenseExpiry is a YYYY-MM-DD date. Empty means no expiry on
	// record, which counts as valid.
	LicenseExpiry string `json:"license_expiry,omitempty"`
}

// HealthJSON carries the health-category attributes of a policy document.
type HealthJSON struct {
	HospitalNetworkType      string `json:"hospital_network_type,omitempty"`
	IncludesHospitalCover    bool   `json:"includes_hospital_cover,omitempty"`
	IncludesOutpatientCover  bool   `json:"includes_outpatient_cover,omitempty"`
	IncludesDentalCover      bool   `json:"includes_dental_cover,omitempty"`
	IncludesOpticalCover     bool   `json:"includes_optical_cover,omitempty"`
	IncludesMaternityCover   bool   `json:"includes_maternity_cover,omitempty"`
	GPVisitsPerYear          int    `json:"gp_visits_per_year,omitempty"`
	SpecialistVisitsPerYear  int    `json:"specialist_visits_per_year,omitempty"`
	ChronicMedicationCovered bool   `json:"chronic_medication_covered,omitempty"`
	AmbulanceCover           bool   `json:"ambulance_cover,omitempty"`
	EmergencyRoomCover       bool   `json:"emergency_room_cover,omitempty"`
	MentalHealthCover        bool   `json:"mental_health_cover,omitempty"`
	InHospitalBenefitLevel   string `json:"in_hospital_benefit_level,omitempty"`
	OutHospitalBenefitLevel  string `json:"out_hospital_benefit_level,omitempty"`
	AnnualLimitFamilyRange   string `json:"annual_limit_family_range,omitempty"`
	AnnualLimitMemberRange   string `json:"annual_limit_member_range,omitempty"`
}

// FuneralJSON carries the funeral-category attributes of a policy document.
type FuneralJSON struct {
	CoverType                    string `json:"cover_type,omitempty"`
	ServiceType                  string `json:"service_type,omitempty"`
	IncludesSpouseCover          bool   `json:"includes_spouse_cover,omitempty"`
	IncludesChildrenCover        bool   `json:"includes_children_cover,omitempty"`
	IncludesParentsCover         bool   `json:"includes_parents_cover,omitempty"`
	MaximumFamilySize            int    `json:"maximum_family_size,omitempty"`
	NaturalDeathWaitingMonths    int    `json:"natural_death_waiting_months,omitempty"`
	AccidentalDeathWaitingMonths int    `json:"accidental_death_waiting_months,omitempty"`
	RepatriationCovered          bool   `json:"repatriation_covered,omitempty"`
	ClaimPayoutHours             int    `json:"claim_payout_hours,omitempty"`
	InflationProtectionIncluded  bool   `json:"inflation_protection_included,omitempty"`
	GroceryBenefit               bool   `json:"grocery_benefit,omitempty"`
}

// ReviewJSON is one customer review embedded in a policy document.
type ReviewJSON struct {
	Rating     int  `json:"rating"`
	IsApproved bool `json:"is_approved"`
}

// =============================================================================
// PARSED POLICY
// =============================================================================

// ParsedPolicy is one policy document converted to domain form. Exactly
// one of Health/Funeral is set, matching Category. Organization and
// Reviews are the document's own copies; callers holding live data pass
// theirs to Snapshot instead.
type ParsedPolicy struct {
	Category     compare.Category
	Organization compare.Organization

	// LicenseExpiry is the document's raw expiry date, kept for callers
	// that persist the organization. Nil when none was recorded.
	LicenseExpiry *time.Time

	Health  *health.Policy
	Funeral *funeral.Policy
	Reviews []compare.Review
	Extras  compare.FeatureBag
}

// ID returns the policy identifier.
func (p *ParsedPolicy) ID() compare.PolicyID {
	if p.Health != nil {
		return p.Health.ID
	}
	return p.Funeral.ID
}

// Name returns the policy display name.
func (p *ParsedPolicy) Name() string {
	if p.Health != nil {
		return p.Health.Name
	}
	return p.Funeral.Name
}

// PolicyNumber returns the insurer's reference number, if any.
func (p *ParsedPolicy) PolicyNumber() string {
	if p.Health != nil {
		return p.Health.PolicyNumber
	}
	return p.Funeral.PolicyNumber
}

// Premium returns the monthly base premium.
func (p *ParsedPolicy) Premium() decimal.Decimal {
	if p.Health != nil {
		return p.Health.BasePremium
	}
	return p.Funeral.BasePremium
}

// Coverage returns the total coverage amount.
func (p *ParsedPolicy) Coverage() decimal.Decimal {
	if p.Health != nil {
		return p.Health.CoverageAmount
	}
	return p.Funeral.CoverageAmount
}

// Active reports whether the document marks the policy as sellable.
func (p *ParsedPolicy) Active() bool {
	if p.Health != nil {
		return p.Health.Active
	}
	return p.Funeral.Active
}

// Featured reports whether the document marks the policy as featured.
func (p *ParsedPolicy) Featured() bool {
	if p.Health != nil {
		return p.Health.Featured
	}
	return p.Funeral.Featured
}

// Snapshot builds the engine view of the policy. Organization standing
// and review stats come from the caller because both live outside the
// policy document.
func (p *ParsedPolicy) Snapshot(org compare.Organization, reviews compare.ReviewSummary) *compare.Snapshot {
	var snap *compare.Snapshot
	if p.Health != nil {
		rec := *p.Health
		rec.Org = org
		snap = rec.Snapshot(reviews)
	} else {
		rec := *p.Funeral
		rec.Org = org
		snap = rec.Snapshot(reviews)
	}
	if len(p.Extras) > 0 {
		snap.Fields = append(snap.Fields, p.Extras)
	}
	return snap
}

// View builds the engine view from the document alone, using its
// embedded organization and reviews.
func (p *ParsedPolicy) View() *compare.Snapshot {
	return p.Snapshot(p.Organization, compare.SummarizeReviews(p.Reviews))
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON documents to domain structs.
type PolicyFactory struct {
	// Now supplies the reference time for license-expiry checks.
	Now func() time.Time
}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{Now: time.Now}
}

// ParsePolicy parses one JSON policy document.
func (f *PolicyFactory) ParsePolicy(data []byte) (*ParsedPolicy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts an already-decoded policy document.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (*ParsedPolicy, error) {
	if pj.ID == "" {
		return nil, fmt.Errorf("policy id is required")
	}
	if pj.Name == "" {
		return nil, fmt.Errorf("policy %s: name is required", pj.ID)
	}

	category, ok := compare.ParseCategory(pj.Category)
	if !ok {
		return nil, fmt.Errorf("policy %s: %w: %q", pj.ID, compare.ErrUnknownCategory, pj.Category)
	}

	org, expiry, err := f.organization(pj.Organization)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", pj.ID, err)
	}

	extras, err := parseValueMap(pj.Features)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", pj.ID, err)
	}

	parsed := &ParsedPolicy{
		Category:      category,
		Organization:  org,
		LicenseExpiry: expiry,
		Reviews:       parseReviews(pj.Reviews),
		Extras:        compare.FeatureBag(extras),
	}

	switch category {
	case compare.CategoryHealth:
		if pj.FuneralDetails != nil {
			return nil, fmt.Errorf("policy %s: funeral_details on a health policy", pj.ID)
		}
		rec := healthPolicy(pj, org)
		parsed.Health = &rec
	case compare.CategoryFuneral:
		if pj.HealthDetails != nil {
			return nil, fmt.Errorf("policy %s: health_details on a funeral policy", pj.ID)
		}
		rec := funeralPolicy(pj, org)
		parsed.Funeral = &rec
	}

	return parsed, nil
}

// CatalogEntry pairs a parsed policy with its verbatim source document,
// which callers persist alongside the typed form.
type CatalogEntry struct {
	Policy *ParsedPolicy
	Raw    json.RawMessage
}

// ParseCatalog parses a JSON array of policy documents. Catalogs may mix
// categories; single-category checks belong to comparison time.
func (f *PolicyFactory) ParseCatalog(data []byte) ([]CatalogEntry, error) {
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	entries := make([]CatalogEntry, 0, len(docs))
	for i, doc := range docs {
		parsed, err := f.ParsePolicy(doc)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		entries = append(entries, CatalogEntry{Policy: parsed, Raw: doc})
	}
	return entries, nil
}

// =============================================================================
// DOCUMENT TO RECORD CONVERSION
// =============================================================================

func (f *PolicyFactory) organization(oj OrganizationJSON) (compare.Organization, *time.Time, error) {
	licenseValid := true
	var licenseExpiry *time.Time
	if oj.LicenseExpiry != "" {
		expiry, err := time.Parse("2006-01-02", oj.LicenseExpiry)
		if err != nil {
			return compare.Organization{}, nil, fmt.Errorf("invalid license_expiry %q: %w", oj.LicenseExpiry, err)
		}
		licenseValid = expiry.After(f.now())
		licenseExpiry = &expiry
	}

	org := compare.Organization{
		ID:           compare.OrganizationID(oj.ID),
		Name:         oj.Name,
		Verified:     oj.IsVerified,
		Active:       boolOrDefault(oj.IsActive, true),
		LicenseValid: licenseValid,
	}
	return org, licenseExpiry, nil
}

func healthPolicy(pj PolicyJSON, org compare.Organization) health.Policy {
	rec := health.Policy{
		ID:           compare.PolicyID(pj.ID),
		PolicyNumber: pj.PolicyNumber,
		Name:         pj.Name,
		Description:  pj.Description,
		Org:          org,

		BasePremium:       pj.BasePremium,
		CoverageAmount:    pj.CoverageAmount,
		WaitingPeriodDays: pj.WaitingPeriodDays,
		MinimumAge:        pj.MinimumAge,
		MaximumAge:        pj.MaximumAge,
		Active:            boolOrDefault(pj.IsActive, true),
		Featured:          pj.IsFeatured,
	}

	if hd := pj.HealthDetails; hd != nil {
		rec.HospitalNetworkType = hd.HospitalNetworkType
		rec.IncludesHospitalCover = hd.IncludesHospitalCover
		rec.IncludesOutpatientCover = hd.IncludesOutpatientCover
		rec.IncludesDentalCover = hd.IncludesDentalCover
		rec.IncludesOpticalCover = hd.IncludesOpticalCover
		rec.IncludesMaternityCover = hd.IncludesMaternityCover
		rec.GPVisitsPerYear = hd.GPVisitsPerYear
		rec.SpecialistVisitsPerYear = hd.SpecialistVisitsPerYear
		rec.ChronicMedicationCovered = hd.ChronicMedicationCovered
		rec.AmbulanceCover = hd.AmbulanceCover
		rec.EmergencyRoomCover = hd.EmergencyRoomCover
		rec.MentalHealthCover = hd.MentalHealthCover
		rec.InHospitalBenefitLevel = hd.InHospitalBenefitLevel
		rec.OutHospitalBenefitLevel = hd.OutHospitalBenefitLevel
		rec.AnnualLimitFamilyRange = hd.AnnualLimitFamilyRange
		rec.AnnualLimitMemberRange = hd.AnnualLimitMemberRange
	}
	return rec
}

func funeralPolicy(pj PolicyJSON, org compare.Organization) funeral.Policy {
	rec := funeral.Policy{
		ID:           compare.PolicyID(pj.ID),
		PolicyNumber: pj.PolicyNumber,
		Name:         pj.Name,
		Description:  pj.Description,
		Org:          org,

		BasePremium:       pj.BasePremium,
		CoverageAmount:    pj.CoverageAmount,
		WaitingPeriodDays: pj.WaitingPeriodDays,
		MinimumAge:        pj.MinimumAge,
		MaximumAge:        pj.MaximumAge,
		Active:            boolOrDefault(pj.IsActive, true),
		Featured:          pj.IsFeatured,
	}

	if fd := pj.FuneralDetails; fd != nil {
		rec.CoverType = fd.CoverType
		rec.ServiceType = fd.ServiceType
		rec.IncludesSpouseCover = fd.IncludesSpouseCover
		rec.IncludesChildrenCover = fd.IncludesChildrenCover
		rec.IncludesParentsCover = fd.IncludesParentsCover
		rec.MaximumFamilySize = fd.MaximumFamilySize
		rec.NaturalDeathWaitingMonths = fd.NaturalDeathWaitingMonths
		rec.AccidentalDeathWaitingMonths = fd.AccidentalDeathWaitingMonths
		rec.RepatriationCovered = fd.RepatriationCovered
		rec.ClaimPayoutHours = fd.ClaimPayoutHours
		rec.InflationProtectionIncluded = fd.InflationProtectionIncluded
		rec.GroceryBenefit = fd.GroceryBenefit
	}
	return rec
}

func parseReviews(rjs []ReviewJSON) []compare.Review {
	if len(rjs) == 0 {
		return nil
	}
	reviews := make([]compare.Review, 0, len(rjs))
	for _, rj := range rjs {
		reviews = append(reviews, compare.Review{Rating: rj.Rating, Approved: rj.IsApproved})
	}
	return reviews
}

func (f *PolicyFactory) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
