/*
context.go - Immutable per-comparison state

PURPOSE:
  Gathers everything one Compare call needs into a single value built
  up front: resolved category strategy, the merged criterion/weight
  maps, the user's targets, the optional survey context, and the
  options in force. Every scoring function receives this context and
  nothing mutates it afterward, so comparisons can run concurrently on
  one Engine without coordination.

WEIGHT MERGING:
  Active criterion definitions seed the weight map with their default
  weights; user-supplied weights override per field. A user weight for
  a field with no criterion definition still enters the map, so custom
  fields are scored through the generic fallback rule.

SEE ALSO:
  - engine.go: builds the context at the top of Compare
  - aggregate.go: iterates the context's field list
*/
package compare

import (
	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/logger"
)

// scoringContext threads one comparison's state through the pipeline.
type scoringContext struct {
	category Category
	strategy CategoryStrategy
	criteria map[FieldName]Criterion
	weights  map[FieldName]decimal.Decimal
	fields   []FieldName // weight map keys in deterministic order
	user     UserCriteria
	survey   *SurveyContext
	opts     Options
	log      logger.Logger
}

// newScoringContext merges criterion defaults with user weights and
// resolves the category strategy. The field list is sorted so every run
// evaluates (and logs) in the same order.
func newScoringContext(in Input, opts Options, log logger.Logger) *scoringContext {
	criteria := make(map[FieldName]Criterion, len(in.Criteria))
	weights := make(map[FieldName]decimal.Decimal, len(in.Criteria)+len(in.User.Weights))

	for _, c := range in.Criteria {
		if !c.Active {
			continue
		}
		weight := c.Weight
		if userWeight, ok := in.User.Weights[c.Field]; ok {
			weight = userWeight
		}
		weights[c.Field] = weight
		criteria[c.Field] = c
	}

	for field, weight := range in.User.Weights {
		if _, ok := weights[field]; !ok {
			weights[field] = weight
		}
	}

	return &scoringContext{
		category: in.Category,
		strategy: strategyOrNoop(in.Category),
		criteria: criteria,
		weights:  weights,
		fields:   sortedFields(weights),
		user:     in.User,
		survey:   in.Survey,
		opts:     opts,
		log:      log,
	}
}
