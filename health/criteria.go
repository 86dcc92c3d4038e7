/*
criteria.go - Built-in health comparison criteria

PURPOSE:
  Provides the default criteria set for health-insurance comparisons,
  used when the store carries no criteria rows for the category. Weights
  reflect how most applicants rank these factors; callers override any
  of them through UserCriteria.Weights.

SEE ALSO:
  - compare/evaluate.go: how each comparison type scores a field
  - funeral/criteria.go: the funeral counterpart
*/
package health

import (
	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
)

// DefaultCriteria returns the built-in health criteria set, ordered for
// display. Benefit levels and annual-limit ranges score through their
// vocabulary matchers regardless of the comparison type recorded here.
func DefaultCriteria() []compare.Criterion {
	return []compare.Criterion{
		{
			ID:           "health-base-premium",
			Name:         "Monthly Premium",
			Description:  "Lower monthly premiums score higher against your target budget.",
			Field:        compare.FieldBasePremium,
			Compare:      compare.LowerBetter,
			Weight:       decimal.NewFromInt(80),
			Required:     true,
			Active:       true,
			DisplayOrder: 1,
		},
		{
			ID:           "health-coverage-amount",
			Name:         "Coverage Amount",
			Description:  "Higher overall coverage scores better, with a bonus past your target.",
			Field:        compare.FieldCoverageAmount,
			Compare:      compare.HigherBetter,
			Weight:       decimal.NewFromInt(75),
			Required:     true,
			Active:       true,
			DisplayOrder: 2,
		},
		{
			ID:           "health-waiting-period",
			Name:         "Waiting Period",
			Description:  "Shorter general waiting periods score higher.",
			Field:        compare.FieldWaitingPeriod,
			Compare:      compare.LowerBetter,
			Weight:       compare.DefaultCriterionWeight,
			Active:       true,
			DisplayOrder: 3,
		},
		{
			ID:           "health-in-hospital-level",
			Name:         "In-Hospital Benefit Level",
			Description:  "How closely the in-hospital benefit level matches your preference.",
			Field:        compare.FieldInHospitalLevel,
			Compare:      compare.ExactMatch,
			Weight:       decimal.NewFromInt(60),
			Active:       true,
			DisplayOrder: 4,
		},
		{
			ID:           "health-out-hospital-level",
			Name:         "Out-of-Hospital Benefit Level",
			Description:  "How closely the day-to-day benefit level matches your preference.",
			Field:        compare.FieldOutHospitalLevel,
			Compare:      compare.ExactMatch,
			Weight:       decimal.NewFromInt(55),
			Active:       true,
			DisplayOrder: 5,
		},
		{
			ID:           "health-chronic-medication",
			Name:         "Chronic Medication",
			Description:  "Whether chronic medication is covered.",
			Field:        compare.FieldChronicMedication,
			Compare:      compare.BooleanMatch,
			Weight:       decimal.NewFromInt(55),
			Active:       true,
			DisplayOrder: 6,
		},
		{
			ID:           "health-annual-limit-family",
			Name:         "Annual Family Limit",
			Description:  "How the annual limit per family compares to the range you need.",
			Field:        compare.FieldAnnualLimitFamily,
			Compare:      compare.ExactMatch,
			Weight:       decimal.NewFromInt(45),
			Active:       true,
			DisplayOrder: 7,
		},
		{
			ID:           "health-annual-limit-member",
			Name:         "Annual Member Limit",
			Description:  "How the annual limit per member compares to the range you need.",
			Field:        compare.FieldAnnualLimitMember,
			Compare:      compare.ExactMatch,
			Weight:       decimal.NewFromInt(40),
			Active:       true,
			DisplayOrder: 8,
		},
		{
			ID:           "health-dental",
			Name:         "Dental Cover",
			Description:  "Whether dental treatment is covered.",
			Field:        compare.FieldIncludesDental,
			Compare:      compare.BooleanMatch,
			Weight:       decimal.NewFromInt(40),
			Active:       true,
			DisplayOrder: 9,
		},
		{
			ID:           "health-optical",
			Name:         "Optical Cover",
			Description:  "Whether optical and vision care is covered.",
			Field:        compare.FieldIncludesOptical,
			Compare:      compare.BooleanMatch,
			Weight:       decimal.NewFromInt(35),
			Active:       true,
			DisplayOrder: 10,
		},
		{
			ID:           "health-maternity",
			Name:         "Maternity Cover",
			Description:  "Whether maternity benefits are included.",
			Field:        compare.FieldIncludesMaternity,
			Compare:      compare.BooleanMatch,
			Weight:       decimal.NewFromInt(30),
			Active:       true,
			DisplayOrder: 11,
		},
	}
}
