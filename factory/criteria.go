/*
criteria.go - Criterion and user-criteria documents

PURPOSE:
  Converts JSON criterion definitions into engine criteria, and user
  target/weight documents into compare.UserCriteria. Criterion documents
  come from the store's criteria table or from scenario seeds; user
  criteria arrive on every comparison request.

JSON SCHEMA:
  criterion:
    {
      "id": "he-premium",
      "name": "Monthly Premium",
      "field": "base_premium",
      "comparison": "LOWER_BETTER",
      "weight": 80,
      "is_required": true,
      "display_order": 1
    }

  user criteria:
    {
      "targets": {"base_premium": 500, "includes_dental_cover": true},
      "weights": {"base_premium": 90}
    }
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
)

// =============================================================================
// CRITERION DOCUMENTS
// =============================================================================

// CriterionJSON is the JSON representation of one scoring criterion.
type CriterionJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Field        string          `json:"field"`
	Comparison   string          `json:"comparison"`
	Weight       decimal.Decimal `json:"weight,omitempty"` // zero means default
	IsRequired   bool            `json:"is_required,omitempty"`
	IsActive     *bool           `json:"is_active,omitempty"` // default true
	DisplayOrder int             `json:"display_order,omitempty"`
}

// ParseCriteria parses a JSON array of criterion definitions.
func (f *PolicyFactory) ParseCriteria(data []byte) ([]compare.Criterion, error) {
	var cjs []CriterionJSON
	if err := json.Unmarshal(data, &cjs); err != nil {
		return nil, fmt.Errorf("failed to parse criteria JSON: %w", err)
	}

	criteria := make([]compare.Criterion, 0, len(cjs))
	for i, cj := range cjs {
		crit, err := f.FromCriterionJSON(cj)
		if err != nil {
			return nil, fmt.Errorf("criterion %d: %w", i, err)
		}
		criteria = append(criteria, crit)
	}
	return criteria, nil
}

// FromCriterionJSON converts one criterion definition.
func (f *PolicyFactory) FromCriterionJSON(cj CriterionJSON) (compare.Criterion, error) {
	if cj.ID == "" {
		return compare.Criterion{}, fmt.Errorf("criterion id is required")
	}
	if cj.Field == "" {
		return compare.Criterion{}, fmt.Errorf("criterion %s: field is required", cj.ID)
	}

	comparison, err := ParseComparison(cj.Comparison)
	if err != nil {
		return compare.Criterion{}, fmt.Errorf("criterion %s: %w", cj.ID, err)
	}

	if cj.Weight.IsNegative() {
		return compare.Criterion{}, fmt.Errorf("criterion %s: weight must not be negative", cj.ID)
	}
	weight := cj.Weight
	if weight.IsZero() {
		weight = compare.DefaultCriterionWeight
	}

	return compare.Criterion{
		ID:           compare.CriterionID(cj.ID),
		Name:         cj.Name,
		Description:  cj.Description,
		Field:        compare.FieldName(cj.Field),
		Compare:      comparison,
		Weight:       weight,
		Required:     cj.IsRequired,
		Active:       boolOrDefault(cj.IsActive, true),
		DisplayOrder: cj.DisplayOrder,
	}, nil
}

// ParseComparison maps a comparison name onto the engine's comparison
// types. Unknown names are an error, not a default.
func ParseComparison(s string) (compare.ComparisonType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOWER_BETTER":
		return compare.LowerBetter, nil
	case "HIGHER_BETTER":
		return compare.HigherBetter, nil
	case "EXACT_MATCH":
		return compare.ExactMatch, nil
	case "RANGE", "WITHIN_RANGE":
		return compare.WithinRange, nil
	case "BOOLEAN", "BOOLEAN_MATCH":
		return compare.BooleanMatch, nil
	}
	return "", fmt.Errorf("unknown comparison type: %q", s)
}

// =============================================================================
// USER CRITERIA DOCUMENTS
// =============================================================================

// UserCriteriaJSON is the JSON representation of per-user targets and
// weight overrides, keyed by field name.
type UserCriteriaJSON struct {
	Targets map[string]json.RawMessage `json:"targets,omitempty"`
	Weights map[string]decimal.Decimal `json:"weights,omitempty"`
}

// FromUserCriteriaJSON converts user targets and weight overrides.
func (f *PolicyFactory) FromUserCriteriaJSON(uj UserCriteriaJSON) (compare.UserCriteria, error) {
	targets, err := parseValueMap(uj.Targets)
	if err != nil {
		return compare.UserCriteria{}, fmt.Errorf("user targets: %w", err)
	}

	var weights map[compare.FieldName]decimal.Decimal
	if len(uj.Weights) > 0 {
		weights = make(map[compare.FieldName]decimal.Decimal, len(uj.Weights))
		for field, w := range uj.Weights {
			if w.IsNegative() {
				return compare.UserCriteria{}, fmt.Errorf("user weight for %q must not be negative", field)
			}
			weights[compare.FieldName(field)] = w
		}
	}

	return compare.UserCriteria{Targets: targets, Weights: weights}, nil
}
