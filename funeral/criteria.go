/*
criteria.go - Built-in funeral comparison criteria

PURPOSE:
  Provides the default criteria set for funeral-insurance comparisons,
  used when the store carries no criteria rows for the category. Funeral
  buyers weigh affordability and payout speed heavily; family reach and
  waiting periods follow.

SEE ALSO:
  - compare/evaluate.go: how each comparison type scores a field
  - health/criteria.go: the health counterpart
*/
package funeral

import (
	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
)

// DefaultCriteria returns the built-in funeral criteria set, ordered for
// display.
func DefaultCriteria() []compare.Criterion {
	return []compare.Criterion{
		{
			ID:           "funeral-base-premium",
			Name:         "Monthly Premium",
			Description:  "Lower monthly premiums score higher against your target budget.",
			Field:        compare.FieldBasePremium,
			Compare:      compare.LowerBetter,
			Weight:       decimal.NewFromInt(85),
			Required:     true,
			Active:       true,
			DisplayOrder: 1,
		},
		{
			ID:           "funeral-coverage-amount",
			Name:         "Cover Amount",
			Description:  "Higher payout amounts score better, with a bonus past your target.",
			Field:        compare.FieldCoverageAmount,
			Compare:      compare.HigherBetter,
			Weight:       decimal.NewFromInt(70),
			Required:     true,
			Active:       true,
			DisplayOrder: 2,
		},
		{
			ID:           "funeral-natural-waiting",
			Name:         "Natural Death Waiting Period",
			Description:  "Shorter waiting periods for natural death claims score higher.",
			Field:        fieldNaturalWaiting,
			Compare:      compare.LowerBetter,
			Weight:       decimal.NewFromInt(60),
			Active:       true,
			DisplayOrder: 3,
		},
		{
			ID:           "funeral-claim-payout",
			Name:         "Claim Payout Speed",
			Description:  "Faster claim payouts score higher; 48 hours is the market benchmark.",
			Field:        compare.FieldClaimPayoutHours,
			Compare:      compare.LowerBetter,
			Weight:       decimal.NewFromInt(55),
			Active:       true,
			DisplayOrder: 4,
		},
		{
			ID:           "funeral-spouse-cover",
			Name:         "Spouse Cover",
			Description:  "Whether a spouse is covered under the same policy.",
			Field:        fieldSpouseCover,
			Compare:      compare.BooleanMatch,
			Weight:       compare.DefaultCriterionWeight,
			Active:       true,
			DisplayOrder: 5,
		},
		{
			ID:           "funeral-children-cover",
			Name:         "Children Cover",
			Description:  "Whether children are covered under the same policy.",
			Field:        fieldChildrenCover,
			Compare:      compare.BooleanMatch,
			Weight:       compare.DefaultCriterionWeight,
			Active:       true,
			DisplayOrder: 6,
		},
		{
			ID:           "funeral-general-waiting",
			Name:         "General Waiting Period",
			Description:  "Shorter general waiting periods score higher.",
			Field:        compare.FieldWaitingPeriod,
			Compare:      compare.LowerBetter,
			Weight:       decimal.NewFromInt(45),
			Active:       true,
			DisplayOrder: 7,
		},
		{
			ID:           "funeral-repatriation",
			Name:         "Repatriation",
			Description:  "Whether transport of the deceased back home is covered.",
			Field:        compare.FieldRepatriation,
			Compare:      compare.BooleanMatch,
			Weight:       decimal.NewFromInt(40),
			Active:       true,
			DisplayOrder: 8,
		},
		{
			ID:           "funeral-parents-cover",
			Name:         "Parents Cover",
			Description:  "Whether parents can be added to the policy.",
			Field:        fieldParentsCover,
			Compare:      compare.BooleanMatch,
			Weight:       decimal.NewFromInt(35),
			Active:       true,
			DisplayOrder: 9,
		},
		{
			ID:           "funeral-inflation-protection",
			Name:         "Inflation Protection",
			Description:  "Whether the cover amount grows automatically over time.",
			Field:        compare.FieldInflationProtection,
			Compare:      compare.BooleanMatch,
			Weight:       decimal.NewFromInt(30),
			Active:       true,
			DisplayOrder: 10,
		},
	}
}
