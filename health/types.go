// Package health implements the health-insurance category: the typed
// policy record, its field provider for the comparison engine, the
// category strategy, and the default criteria set.
package health

import (
	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
)

// =============================================================================
// HEALTH-SPECIFIC FIELD NAMES
// =============================================================================

// Field names resolved through the provider chain. Shared names
// (dental, optical, chronic medication, benefit levels, annual limit
// ranges) live in the compare package.
const (
	fieldHospitalNetworkType compare.FieldName = "hospital_network_type"
	fieldHospitalCover       compare.FieldName = "includes_hospital_cover"
	fieldOutpatientCover     compare.FieldName = "includes_outpatient_cover"
	fieldGPVisits            compare.FieldName = "gp_visits_per_year"
	fieldSpecialistVisits    compare.FieldName = "specialist_visits_per_year"
	fieldAmbulanceCover      compare.FieldName = "ambulance_cover"
	fieldEmergencyRoomCover  compare.FieldName = "emergency_room_cover"
	fieldMentalHealthCover   compare.FieldName = "mental_health_cover"
)

// In-hospital benefit levels, weakest to strongest.
const (
	InHospitalNone          = "no_cover"
	InHospitalBasic         = "basic"
	InHospitalModerate      = "moderate"
	InHospitalExtensive     = "extensive"
	InHospitalComprehensive = "comprehensive"
)

// Out-of-hospital benefit levels, weakest to strongest.
const (
	OutHospitalNone          = "no_cover"
	OutHospitalBasicVisits   = "basic_visits"
	OutHospitalRoutineCare   = "routine_care"
	OutHospitalExtendedCare  = "extended_care"
	OutHospitalComprehensive = "comprehensive_care"
)

// =============================================================================
// POLICY
// =============================================================================

// Policy is a health-insurance product. Zero values mean "not specified"
// for optional attributes: an empty benefit level or limit range and a
// zero visit count are reported as absent to the evaluator.
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

	HospitalNetworkType     string
	IncludesHospitalCover   bool
	IncludesOutpatientCover bool
	IncludesDentalCover     bool
	IncludesOpticalCover    bool
	IncludesMaternityCover  bool

	GPVisitsPerYear          int
	SpecialistVisitsPerYear  int
	ChronicMedicationCovered bool
	AmbulanceCover           bool
	EmergencyRoomCover       bool
	MentalHealthCover        bool

	InHospitalBenefitLevel  string
	OutHospitalBenefitLevel string
	AnnualLimitFamilyRange  string
	AnnualLimitMemberRange  string
}

// FieldValue resolves health-specific attributes by field name.
// Implements compare.FieldProvider.
func (p Policy) FieldValue(field compare.FieldName) (compare.Value, bool) {
	switch field {
	case fieldHospitalNetworkType:
		return stringValue(p.HospitalNetworkType)
	case fieldHospitalCover:
		return compare.Bool(p.IncludesHospitalCover), true
	case fieldOutpatientCover:
		return compare.Bool(p.IncludesOutpatientCover), true
	case compare.FieldIncludesDental:
		return compare.Bool(p.IncludesDentalCover), true
	case compare.FieldIncludesOptical:
		return compare.Bool(p.IncludesOpticalCover), true
	case compare.FieldIncludesMaternity:
		return compare.Bool(p.IncludesMaternityCover), true
	case fieldGPVisits:
		return countValue(p.GPVisitsPerYear)
	case fieldSpecialistVisits:
		return countValue(p.SpecialistVisitsPerYear)
	case compare.FieldChronicMedication:
		return compare.Bool(p.ChronicMedicationCovered), true
	case fieldAmbulanceCover:
		return compare.Bool(p.AmbulanceCover), true
	case fieldEmergencyRoomCover:
		return compare.Bool(p.EmergencyRoomCover), true
	case fieldMentalHealthCover:
		return compare.Bool(p.MentalHealthCover), true
	case compare.FieldInHospitalLevel:
		return stringValue(p.InHospitalBenefitLevel)
	case compare.FieldOutHospitalLevel:
		return stringValue(p.OutHospitalBenefitLevel)
	case compare.FieldAnnualLimitFamily:
		return stringValue(p.AnnualLimitFamilyRange)
	case compare.FieldAnnualLimitMember:
		return stringValue(p.AnnualLimitMemberRange)
	}
	return compare.Value{}, false
}

// Snapshot builds the engine view of the policy. Review stats come from
// the caller because reviews live outside the policy record.
func (p Policy) Snapshot(reviews compare.ReviewSummary) *compare.Snapshot {
	return &compare.Snapshot{
		PolicyID:       p.ID,
		PolicyName:     p.Name,
		Line:           compare.CategoryHealth,
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
