/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  catalogs for testing and demos. Each scenario resets the store, then
  seeds organizations, policy documents, and reviews; the full catalog
  additionally seeds store-backed criteria.

AVAILABLE SCENARIOS:
  health-budget:  Three entry-level health plans for premium-driven shoppers
  health-family:  Four family health plans with maternity and dental spread
  funeral-family: Three funeral plans across payout styles
  full-catalog:   Everything above plus stored scoring criteria

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Parse a catalog document via the factory
 3. Save organizations, policies (verbatim documents), and reviews
 4. Optionally save criteria so GET /api/criteria reports source "store"

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "health-budget"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add a catalog JSON constant
 3. Add a case to LoadScenario

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler struct, writeJSON/writeError
  - factory/policy.go: catalog document schema
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coverly/compare-engine/compare"
	"github.com/coverly/compare-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "health-budget",
		Name:        "Health: Budget Shopper",
		Description: "Three entry-level hospital plans for a premium-driven comparison",
		Category:    "health",
	},
	{
		ID:          "health-family",
		Name:        "Health: Growing Family",
		Description: "Four family plans with maternity, dental, and benefit-level spread",
		Category:    "health",
	},
	{
		ID:          "funeral-family",
		Name:        "Funeral: Family Cover",
		Description: "Three funeral plans across managed-service, cash, and hybrid payouts",
		Category:    "funeral",
	},
	{
		ID:          "full-catalog",
		Name:        "Full Catalog",
		Description: "All demo policies plus store-backed scoring criteria",
		Category:    "mixed",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.scenarioID()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          current,
		Name:        current,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scenario request", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.setCurrentScenario("")

	var err error
	switch req.ScenarioID {
	case "health-budget":
		err = h.seedCatalog(ctx, []byte(healthBudgetCatalog))
	case "health-family":
		err = h.seedCatalog(ctx, []byte(healthFamilyCatalog))
	case "funeral-family":
		err = h.seedCatalog(ctx, []byte(funeralFamilyCatalog))
	case "full-catalog":
		err = h.loadFullCatalog(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.setCurrentScenario(req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.setCurrentScenario("")

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) setCurrentScenario(id string) {
	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()
}

func (h *Handler) scenarioID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentScenario
}

// =============================================================================
// SEEDING
// =============================================================================

func (h *Handler) loadFullCatalog(ctx context.Context) error {
	for _, catalog := range []string{healthBudgetCatalog, healthFamilyCatalog, funeralFamilyCatalog} {
		if err := h.seedCatalog(ctx, []byte(catalog)); err != nil {
			return err
		}
	}
	if err := h.seedCriteria(ctx, compare.CategoryHealth, []byte(healthCriteriaSeed)); err != nil {
		return err
	}
	return h.seedCriteria(ctx, compare.CategoryFuneral, []byte(funeralCriteriaSeed))
}

// seedCatalog parses a catalog document and persists its organizations,
// policies, and reviews. The verbatim per-policy JSON is stored so reads
// reparse exactly what the catalog shipped.
func (h *Handler) seedCatalog(ctx context.Context, data []byte) error {
	entries, err := h.Factory.ParseCatalog(data)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		p := entry.Policy

		org := sqlite.OrganizationRecord{
			ID:            string(p.Organization.ID),
			Name:          p.Organization.Name,
			IsVerified:    p.Organization.Verified,
			IsActive:      p.Organization.Active,
			LicenseExpiry: p.LicenseExpiry,
		}
		if err := h.Store.SaveOrganization(ctx, org); err != nil {
			return err
		}

		rec := sqlite.PolicyRecord{
			ID:             string(p.ID()),
			OrganizationID: string(p.Organization.ID),
			Category:       string(p.Category),
			PolicyNumber:   p.PolicyNumber(),
			Name:           p.Name(),
			BasePremium:    p.Premium(),
			CoverageAmount: p.Coverage(),
			IsActive:       p.Active(),
			IsFeatured:     p.Featured(),
			DocumentJSON:   string(entry.Raw),
		}
		if err := h.Store.SavePolicy(ctx, rec); err != nil {
			return err
		}

		for _, review := range p.Reviews {
			if err := h.Store.AddReview(ctx, string(p.ID()), review); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handler) seedCriteria(ctx context.Context, category compare.Category, data []byte) error {
	criteria, err := h.Factory.ParseCriteria(data)
	if err != nil {
		return err
	}

	for _, c := range criteria {
		rec := sqlite.CriterionRecord{
			ID:           string(c.ID),
			Category:     string(category),
			Name:         c.Name,
			Description:  c.Description,
			Field:        string(c.Field),
			Comparison:   string(c.Compare),
			Weight:       c.Weight,
			IsRequired:   c.Required,
			IsActive:     c.Active,
			DisplayOrder: c.DisplayOrder,
		}
		if err := h.Store.SaveCriterion(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// CATALOG DOCUMENTS
// =============================================================================

const healthBudgetCatalog = `[
  {
    "id": "pol-meridian-essential",
    "policy_number": "MH-ESS-001",
    "name": "Meridian Essential Care",
    "description": "Entry-level hospital plan that keeps premiums down for healthy adults.",
    "category": "health",
    "organization": {
      "id": "org-meridian",
      "name": "Meridian Health",
      "is_verified": true,
      "license_expiry": "2030-06-30"
    },
    "base_premium": 420,
    "coverage_amount": 150000,
    "waiting_period_days": 30,
    "minimum_age": 18,
    "maximum_age": 64,
    "health_details": {
      "hospital_network_type": "NETWORK_ONLY",
      "includes_hospital_cover": true,
      "includes_outpatient_cover": true,
      "gp_visits_per_year": 3,
      "emergency_room_cover": true,
      "in_hospital_benefit_level": "moderate",
      "annual_limit_member_range": "100k-250k"
    },
    "reviews": [
      {"rating": 4, "is_approved": true},
      {"rating": 5, "is_approved": true},
      {"rating": 4, "is_approved": true},
      {"rating": 1, "is_approved": false}
    ]
  },
  {
    "id": "pol-atlas-core",
    "policy_number": "AM-CORE-77",
    "name": "Atlas Core Hospital Plan",
    "description": "Any-provider hospital cover with chronic medication support.",
    "category": "health",
    "organization": {
      "id": "org-atlas",
      "name": "Atlas Mutual",
      "is_verified": true,
      "license_expiry": "2031-12-31"
    },
    "base_premium": 510,
    "coverage_amount": 220000,
    "waiting_period_days": 60,
    "minimum_age": 18,
    "maximum_age": 70,
    "health_details": {
      "hospital_network_type": "ANY_PROVIDER",
      "includes_hospital_cover": true,
      "chronic_medication_covered": true,
      "ambulance_cover": true,
      "emergency_room_cover": true,
      "in_hospital_benefit_level": "comprehensive",
      "annual_limit_member_range": "100k-250k"
    },
    "reviews": [
      {"rating": 5, "is_approved": true},
      {"rating": 4, "is_approved": true}
    ]
  },
  {
    "id": "pol-pinnacle-value",
    "policy_number": "PA-VAL-19",
    "name": "Pinnacle Value Saver",
    "description": "Lowest premium on the panel, network-only with a longer wait.",
    "category": "health",
    "organization": {
      "id": "org-pinnacle",
      "name": "Pinnacle Assurance",
      "is_verified": false
    },
    "base_premium": 380,
    "coverage_amount": 120000,
    "waiting_period_days": 90,
    "minimum_age": 18,
    "maximum_age": 60,
    "health_details": {
      "hospital_network_type": "NETWORK_ONLY",
      "includes_hospital_cover": true,
      "gp_visits_per_year": 2,
      "in_hospital_benefit_level": "basic",
      "annual_limit_member_range": "50k-100k"
    },
    "reviews": [
      {"rating": 3, "is_approved": true},
      {"rating": 4, "is_approved": true},
      {"rating": 2, "is_approved": true}
    ]
  }
]`

const healthFamilyCatalog = `[
  {
    "id": "pol-meridian-family",
    "policy_number": "MH-FAM-002",
    "name": "Meridian Family Complete",
    "description": "Flagship family plan with full maternity, dental, and optical cover.",
    "category": "health",
    "organization": {
      "id": "org-meridian",
      "name": "Meridian Health",
      "is_verified": true,
      "license_expiry": "2030-06-30"
    },
    "base_premium": 980,
    "coverage_amount": 500000,
    "waiting_period_days": 30,
    "minimum_age": 18,
    "maximum_age": 70,
    "is_featured": true,
    "health_details": {
      "hospital_network_type": "ANY_PROVIDER",
      "includes_hospital_cover": true,
      "includes_outpatient_cover": true,
      "includes_dental_cover": true,
      "includes_optical_cover": true,
      "includes_maternity_cover": true,
      "gp_visits_per_year": 8,
      "specialist_visits_per_year": 4,
      "chronic_medication_covered": true,
      "ambulance_cover": true,
      "emergency_room_cover": true,
      "mental_health_cover": true,
      "in_hospital_benefit_level": "comprehensive",
      "out_hospital_benefit_level": "comprehensive_care",
      "annual_limit_family_range": "500k-1m",
      "annual_limit_member_range": "250k-500k"
    },
    "features": {
      "wellness_program": true
    },
    "reviews": [
      {"rating": 5, "is_approved": true},
      {"rating": 5, "is_approved": true},
      {"rating": 4, "is_approved": true},
      {"rating": 5, "is_approved": true},
      {"rating": 2, "is_approved": false}
    ]
  },
  {
    "id": "pol-atlas-family",
    "policy_number": "AM-FAM-81",
    "name": "Atlas Family Select",
    "description": "Balanced family plan with dental and maternity on a network panel.",
    "category": "health",
    "organization": {
      "id": "org-atlas",
      "name": "Atlas Mutual",
      "is_verified": true,
      "license_expiry": "2031-12-31"
    },
    "base_premium": 760,
    "coverage_amount": 350000,
    "waiting_period_days": 45,
    "minimum_age": 18,
    "maximum_age": 70,
    "health_details": {
      "hospital_network_type": "NETWORK_ONLY",
      "includes_hospital_cover": true,
      "includes_outpatient_cover": true,
      "includes_dental_cover": true,
      "includes_maternity_cover": true,
      "gp_visits_per_year": 6,
      "specialist_visits_per_year": 2,
      "ambulance_cover": true,
      "emergency_room_cover": true,
      "in_hospital_benefit_level": "comprehensive",
      "out_hospital_benefit_level": "routine_care",
      "annual_limit_family_range": "250k-500k"
    },
    "reviews": [
      {"rating": 4, "is_approved": true},
      {"rating": 4, "is_approved": true},
      {"rating": 5, "is_approved": true}
    ]
  },
  {
    "id": "pol-pinnacle-family",
    "policy_number": "PA-FAM-23",
    "name": "Pinnacle Family Starter",
    "description": "Affordable family entry point with maternity but no dental.",
    "category": "health",
    "organization": {
      "id": "org-pinnacle",
      "name": "Pinnacle Assurance",
      "is_verified": false
    },
    "base_premium": 540,
    "coverage_amount": 200000,
    "waiting_period_days": 90,
    "minimum_age": 18,
    "maximum_age": 65,
    "health_details": {
      "hospital_network_type": "NETWORK_ONLY",
      "includes_hospital_cover": true,
      "includes_outpatient_cover": true,
      "includes_maternity_cover": true,
      "gp_visits_per_year": 4,
      "emergency_room_cover": true,
      "in_hospital_benefit_level": "moderate",
      "annual_limit_family_range": "100k-250k"
    },
    "reviews": [
      {"rating": 3, "is_approved": true},
      {"rating": 4, "is_approved": true}
    ]
  },
  {
    "id": "pol-atlas-maternity",
    "policy_number": "AM-MAT-90",
    "name": "Atlas Maternity Plus",
    "description": "Maternity-focused plan for couples planning a first child.",
    "category": "health",
    "organization": {
      "id": "org-atlas",
      "name": "Atlas Mutual",
      "is_verified": true,
      "license_expiry": "2031-12-31"
    },
    "base_premium": 680,
    "coverage_amount": 300000,
    "waiting_period_days": 60,
    "minimum_age": 18,
    "maximum_age": 45,
    "health_details": {
      "hospital_network_type": "ANY_PROVIDER",
      "includes_hospital_cover": true,
      "includes_outpatient_cover": true,
      "includes_optical_cover": true,
      "includes_maternity_cover": true,
      "gp_visits_per_year": 6,
      "specialist_visits_per_year": 3,
      "in_hospital_benefit_level": "comprehensive",
      "out_hospital_benefit_level": "extended_care",
      "annual_limit_member_range": "100k-250k"
    },
    "reviews": [
      {"rating": 4, "is_approved": true},
      {"rating": 5, "is_approved": true}
    ]
  }
]`

const funeralFamilyCatalog = `[
  {
    "id": "pol-dignity-family",
    "policy_number": "DC-FAM-101",
    "name": "Dignity Family Plan",
    "description": "Managed funeral service covering the immediate family.",
    "category": "funeral",
    "organization": {
      "id": "org-dignity",
      "name": "Dignity Cover",
      "is_verified": true,
      "license_expiry": "2030-03-31"
    },
    "base_premium": 180,
    "coverage_amount": 50000,
    "waiting_period_days": 180,
    "minimum_age": 18,
    "maximum_age": 75,
    "funeral_details": {
      "cover_type": "FAMILY",
      "service_type": "MANAGED_SERVICE",
      "includes_spouse_cover": true,
      "includes_children_cover": true,
      "maximum_family_size": 6,
      "natural_death_waiting_months": 6,
      "claim_payout_hours": 48,
      "inflation_protection_included": true
    },
    "reviews": [
      {"rating": 4, "is_approved": true},
      {"rating": 5, "is_approved": true},
      {"rating": 4, "is_approved": true}
    ]
  },
  {
    "id": "pol-horizon-cash",
    "policy_number": "HL-CASH-55",
    "name": "Horizon Cash Benefit",
    "description": "Straight cash payout within a day of an approved claim.",
    "category": "funeral",
    "organization": {
      "id": "org-horizon",
      "name": "Horizon Life",
      "is_verified": true
    },
    "base_premium": 95,
    "coverage_amount": 30000,
    "waiting_period_days": 90,
    "minimum_age": 18,
    "maximum_age": 80,
    "funeral_details": {
      "cover_type": "INDIVIDUAL",
      "service_type": "CASH_PAYOUT",
      "natural_death_waiting_months": 3,
      "claim_payout_hours": 24
    },
    "reviews": [
      {"rating": 5, "is_approved": true},
      {"rating": 4, "is_approved": true},
      {"rating": 3, "is_approved": false}
    ]
  },
  {
    "id": "pol-solace-extended",
    "policy_number": "SB-EXT-12",
    "name": "Solace Extended Family",
    "description": "Hybrid service and cash plan stretching to parents and in-laws.",
    "category": "funeral",
    "organization": {
      "id": "org-solace",
      "name": "Solace Benefits",
      "is_verified": false
    },
    "base_premium": 260,
    "coverage_amount": 75000,
    "waiting_period_days": 180,
    "minimum_age": 18,
    "maximum_age": 85,
    "funeral_details": {
      "cover_type": "EXTENDED_FAMILY",
      "service_type": "HYBRID",
      "includes_spouse_cover": true,
      "includes_children_cover": true,
      "includes_parents_cover": true,
      "maximum_family_size": 10,
      "natural_death_waiting_months": 6,
      "claim_payout_hours": 72,
      "grocery_benefit": true
    },
    "features": {
      "legal_assistance": true
    },
    "reviews": [
      {"rating": 4, "is_approved": true},
      {"rating": 3, "is_approved": true},
      {"rating": 5, "is_approved": true}
    ]
  }
]`

// =============================================================================
// CRITERIA SEEDS
// =============================================================================
// Loaded only by full-catalog so the other scenarios demonstrate the
// built-in default criteria path.

const healthCriteriaSeed = `[
  {
    "id": "crit-health-premium",
    "name": "Monthly Premium",
    "description": "Lower premiums score higher",
    "field": "base_premium",
    "comparison": "LOWER_BETTER",
    "weight": 90,
    "is_required": true,
    "display_order": 1
  },
  {
    "id": "crit-health-coverage",
    "name": "Coverage Amount",
    "description": "Higher annual cover scores higher",
    "field": "coverage_amount",
    "comparison": "HIGHER_BETTER",
    "weight": 85,
    "is_required": true,
    "display_order": 2
  },
  {
    "id": "crit-health-waiting",
    "name": "Waiting Period",
    "field": "waiting_period_days",
    "comparison": "LOWER_BETTER",
    "weight": 60,
    "display_order": 3
  },
  {
    "id": "crit-health-gp-visits",
    "name": "GP Visits Per Year",
    "field": "gp_visits_per_year",
    "comparison": "HIGHER_BETTER",
    "weight": 45,
    "display_order": 4
  },
  {
    "id": "crit-health-chronic",
    "name": "Chronic Medication Cover",
    "field": "chronic_medication_covered",
    "comparison": "BOOLEAN",
    "weight": 55,
    "display_order": 5
  }
]`

const funeralCriteriaSeed = `[
  {
    "id": "crit-funeral-premium",
    "name": "Monthly Premium",
    "description": "Lower premiums score higher",
    "field": "base_premium",
    "comparison": "LOWER_BETTER",
    "weight": 90,
    "is_required": true,
    "display_order": 1
  },
  {
    "id": "crit-funeral-coverage",
    "name": "Cover Amount",
    "description": "Higher payout scores higher",
    "field": "coverage_amount",
    "comparison": "HIGHER_BETTER",
    "weight": 80,
    "is_required": true,
    "display_order": 2
  },
  {
    "id": "crit-funeral-payout-speed",
    "name": "Claim Payout Speed",
    "field": "claim_payout_hours",
    "comparison": "LOWER_BETTER",
    "weight": 70,
    "display_order": 3
  },
  {
    "id": "crit-funeral-waiting",
    "name": "Waiting Period",
    "field": "waiting_period_days",
    "comparison": "LOWER_BETTER",
    "weight": 60,
    "display_order": 4
  },
  {
    "id": "crit-funeral-family-size",
    "name": "Family Members Covered",
    "field": "maximum_family_size",
    "comparison": "HIGHER_BETTER",
    "weight": 50,
    "display_order": 5
  }
]`
