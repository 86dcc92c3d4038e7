/*
survey.go - Survey context documents

PURPOSE:
  Converts the survey_context block of a comparison request into the
  engine's SurveyContext: profile answers, per-area confidence levels,
  stated priorities, hard filters, and profile strength. Strength may
  arrive precomputed or as completion counts the engine blends itself.

JSON SCHEMA:
  {
    "user_profile": {
      "monthly_budget": 600,
      "coverage_preference": 250000,
      "age": 34,
      "family_size": 4,
      "features": {"includes_dental_cover": true}
    },
    "confidence_levels": {"monthly_budget": 5, "coverage_amount_preference": 3},
    "priorities": {"monthly_budget": "essential"},
    "filters": {"base_premium__lte": 800},
    "sections_completed": 4,
    "sections_total": 5
  }
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/coverly/compare-engine/compare"
)

// =============================================================================
// SURVEY DOCUMENTS
// =============================================================================

// SurveyJSON is the JSON representation of a completed needs survey.
type SurveyJSON struct {
	Profile    ProfileJSON                `json:"user_profile,omitempty"`
	Confidence map[string]int             `json:"confidence_levels,omitempty"`
	Priorities map[string]json.RawMessage `json:"priorities,omitempty"`
	Filters    map[string]json.RawMessage `json:"filters,omitempty"`

	// ProfileStrength, when present, wins over the completion counts.
	ProfileStrength   *float64 `json:"profile_strength,omitempty"`
	SectionsCompleted int      `json:"sections_completed,omitempty"`
	SectionsTotal     int      `json:"sections_total,omitempty"`
}

// ProfileJSON carries the answers that describe the user rather than a
// specific policy preference. Any value form is accepted; a budget may
// be a number or a vocabulary string like "affordable".
type ProfileJSON struct {
	MonthlyBudget      json.RawMessage            `json:"monthly_budget,omitempty"`
	CoveragePreference json.RawMessage            `json:"coverage_preference,omitempty"`
	WaitingTolerance   json.RawMessage            `json:"waiting_tolerance,omitempty"`
	Age                json.RawMessage            `json:"age,omitempty"`
	FamilySize         json.RawMessage            `json:"family_size,omitempty"`
	Features           map[string]json.RawMessage `json:"features,omitempty"`
}

// FromSurveyJSON converts a survey document. A nil document means the
// user skipped the survey and yields a nil context.
func (f *PolicyFactory) FromSurveyJSON(sj *SurveyJSON) (*compare.SurveyContext, error) {
	if sj == nil {
		return nil, nil
	}

	profile, err := f.profile(sj.Profile)
	if err != nil {
		return nil, fmt.Errorf("user profile: %w", err)
	}

	var confidence map[compare.FieldName]int
	if len(sj.Confidence) > 0 {
		confidence = make(map[compare.FieldName]int, len(sj.Confidence))
		for field, level := range sj.Confidence {
			if level < 1 || level > 5 {
				return nil, fmt.Errorf("confidence level for %q must be between 1 and 5", field)
			}
			confidence[compare.FieldName(field)] = level
		}
	}

	priorities, err := parseValueMap(sj.Priorities)
	if err != nil {
		return nil, fmt.Errorf("priorities: %w", err)
	}

	var filters compare.FilterSet
	if len(sj.Filters) > 0 {
		filters = make(compare.FilterSet, len(sj.Filters))
		for expr, raw := range sj.Filters {
			v, err := parseValue(raw)
			if err != nil {
				return nil, fmt.Errorf("filter %q: %w", expr, err)
			}
			filters[expr] = v
		}
	}

	strength := compare.ProfileStrength(confidence, sj.SectionsCompleted, sj.SectionsTotal)
	if sj.ProfileStrength != nil {
		strength = clamp01(*sj.ProfileStrength)
	}

	return &compare.SurveyContext{
		Profile:         profile,
		Confidence:      confidence,
		Priorities:      priorities,
		Filters:         filters,
		ProfileStrength: strength,
	}, nil
}

func (f *PolicyFactory) profile(pj ProfileJSON) (compare.UserProfile, error) {
	var profile compare.UserProfile
	var err error

	if profile.MonthlyBudget, err = parseValue(pj.MonthlyBudget); err != nil {
		return compare.UserProfile{}, fmt.Errorf("monthly_budget: %w", err)
	}
	if profile.CoveragePreference, err = parseValue(pj.CoveragePreference); err != nil {
		return compare.UserProfile{}, fmt.Errorf("coverage_preference: %w", err)
	}
	if profile.WaitingTolerance, err = parseValue(pj.WaitingTolerance); err != nil {
		return compare.UserProfile{}, fmt.Errorf("waiting_tolerance: %w", err)
	}
	if profile.Age, err = parseValue(pj.Age); err != nil {
		return compare.UserProfile{}, fmt.Errorf("age: %w", err)
	}
	if profile.FamilySize, err = parseValue(pj.FamilySize); err != nil {
		return compare.UserProfile{}, fmt.Errorf("family_size: %w", err)
	}

	features, err := parseValueMap(pj.Features)
	if err != nil {
		return compare.UserProfile{}, fmt.Errorf("features: %w", err)
	}
	profile.Features = features

	return profile, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
