/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Comparison:
    CompareRequest (wraps factory.UserCriteriaJSON and factory.SurveyJSON)
    ComparisonDTO, ResultDTO

  Catalog:
    PolicyDTO, OrganizationDTO, ReviewStatsDTO
    CriterionDTO, CriteriaDTO
    QuickCompareDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Request types carry validate struct tags checked by the package-level
  validator before any work happens. Deeper document validation (value
  forms, vocabularies) lives in the factory.

DECIMALS:
  Monetary amounts and scores marshal as JSON strings, the decimal
  package's default. Every numeric amount in a response is exact; no
  float round-trips.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: document schema types
  - compare/aggregate.go, insights.go: score and insight wire types
*/
package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
	"github.com/coverly/compare-engine/factory"
)

// validate is the package-level validator instance used for request validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// =============================================================================
// COMPARISON TYPES
// =============================================================================

// CompareRequest is the body of POST /api/comparisons.
type CompareRequest struct {
	Category     string                   `json:"category" validate:"required,oneof=health funeral"`
	PolicyIDs    []string                 `json:"policy_ids" validate:"required,min=2,max=10,dive,required"`
	UserCriteria factory.UserCriteriaJSON `json:"user_criteria"`
	Survey       *factory.SurveyJSON      `json:"survey_context,omitempty"`
}

// ComparisonDTO is the envelope returned by POST /api/comparisons and
// replayed verbatim by GET /api/comparisons/{key}.
type ComparisonDTO struct {
	Success         bool                    `json:"success"`
	ComparisonID    string                  `json:"comparison_id"`
	Category        string                  `json:"category"`
	TotalPolicies   int                     `json:"total_policies"`
	BestMatch       ResultDTO               `json:"best_match"`
	Results         []ResultDTO             `json:"results"`
	Recommendations compare.Recommendations `json:"recommendations"`
	Analysis        compare.Analysis        `json:"analysis"`
	Insights        compare.Insights        `json:"insights"`
	CreatedAt       string                  `json:"created_at"`
	ExpiresAt       string                  `json:"expires_at"`
}

// ResultDTO is one ranked policy with its scores and explanations.
type ResultDTO struct {
	PolicyID             string            `json:"policy_id"`
	PolicyName           string            `json:"policy_name"`
	Organization         string            `json:"organization"`
	BasePremium          decimal.Decimal   `json:"base_premium"`
	CoverageAmount       decimal.Decimal   `json:"coverage_amount"`
	Rank                 int               `json:"rank"`
	MatchPercentage      decimal.Decimal   `json:"match_percentage"`
	Scores               compare.Breakdown `json:"scores"`
	Pros                 []string          `json:"pros"`
	Cons                 []string          `json:"cons"`
	RecommendationReason string            `json:"recommendation_reason"`
}

// =============================================================================
// CATALOG TYPES
// =============================================================================

// PolicyDTO represents a policy in API responses.
type PolicyDTO struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Organization      OrganizationDTO `json:"organization"`
	BasePremium       decimal.Decimal `json:"base_premium"`
	CoverageAmount    decimal.Decimal `json:"coverage_amount"`
	WaitingPeriodDays int             `json:"waiting_period_days"`
	MinimumAge        int             `json:"minimum_age"`
	MaximumAge        int             `json:"maximum_age"`
	IsActive          bool            `json:"is_active"`
	IsFeatured        bool            `json:"is_featured"`
	Reviews           ReviewStatsDTO  `json:"reviews"`
}

// OrganizationDTO represents the underwriting insurer.
type OrganizationDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsVerified bool   `json:"is_verified"`
}

// ReviewStatsDTO summarizes approved reviews.
type ReviewStatsDTO struct {
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

// CriterionDTO represents one scoring criterion.
type CriterionDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Field        string          `json:"field"`
	Comparison   string          `json:"comparison"`
	Weight       decimal.Decimal `json:"weight"`
	IsRequired   bool            `json:"is_required"`
	DisplayOrder int             `json:"display_order"`
}

// CriteriaDTO is the response of GET /api/criteria. Source reports
// whether the set came from the store or from the built-in defaults.
type CriteriaDTO struct {
	Success  bool           `json:"success"`
	Category string         `json:"category"`
	Source   string         `json:"source"`
	Criteria []CriterionDTO `json:"criteria"`
}

// QuickCompareDTO is the response of GET /api/quick-compare: the active
// policies of one category ordered on a single axis.
type QuickCompareDTO struct {
	Success  bool        `json:"success"`
	Category string      `json:"category"`
	By       string      `json:"by"`
	Policies []PolicyDTO `json:"policies"`
}

// =============================================================================
// SCENARIO TYPES
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"` // "health", "funeral" or "mixed"
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toResultDTO(r compare.RankedResult) ResultDTO {
	view := r.Policy
	return ResultDTO{
		PolicyID:             string(view.ID()),
		PolicyName:           view.Name(),
		Organization:         view.Organization().Name,
		BasePremium:          view.Premium(),
		CoverageAmount:       view.Coverage(),
		Rank:                 r.Rank,
		MatchPercentage:      r.MatchPercentage,
		Scores:               r.Scores,
		Pros:                 r.Pros,
		Cons:                 r.Cons,
		RecommendationReason: r.RecommendationReason,
	}
}

func toResultDTOs(results []compare.RankedResult) []ResultDTO {
	dtos := make([]ResultDTO, len(results))
	for i, r := range results {
		dtos[i] = toResultDTO(r)
	}
	return dtos
}

func toPolicyDTO(view compare.PolicyView, active bool) PolicyDTO {
	org := view.Organization()
	stats := view.ReviewStats()
	return PolicyDTO{
		ID:       string(view.ID()),
		Name:     view.Name(),
		Category: string(view.Category()),
		Organization: OrganizationDTO{
			ID:         string(org.ID),
			Name:       org.Name,
			IsVerified: org.Verified,
		},
		BasePremium:       view.Premium(),
		CoverageAmount:    view.Coverage(),
		WaitingPeriodDays: view.WaitingPeriodDays(),
		MinimumAge:        view.MinimumAge(),
		MaximumAge:        view.MaximumAge(),
		IsActive:          active,
		IsFeatured:        view.IsFeatured(),
		Reviews:           ReviewStatsDTO{Count: stats.Count, Average: stats.Average},
	}
}

func toCriterionDTO(c compare.Criterion) CriterionDTO {
	return CriterionDTO{
		ID:           string(c.ID),
		Name:         c.Name,
		Description:  c.Description,
		Field:        string(c.Field),
		Comparison:   string(c.Compare),
		Weight:       c.Weight,
		IsRequired:   c.Required,
		DisplayOrder: c.DisplayOrder,
	}
}

func toCriterionDTOs(criteria []compare.Criterion) []CriterionDTO {
	dtos := make([]CriterionDTO, len(criteria))
	for i, c := range criteria {
		dtos[i] = toCriterionDTO(c)
	}
	return dtos
}
