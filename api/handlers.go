/*
handlers.go - HTTP API handlers for the policy comparison service

PURPOSE:
  Exposes the comparison engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Comparisons:
    POST   /api/comparisons            Run a weighted comparison
    GET    /api/comparisons/{key}      Replay a saved comparison

  Catalog:
    GET    /api/policies               List active policies
    GET    /api/policies/{id}          Get policy details
    GET    /api/criteria               Scoring criteria for a category
    GET    /api/quick-compare          Single-axis policy ordering

  Scenarios:
    GET    /api/scenarios              List demo scenarios
    GET    /api/scenarios/current      Currently loaded scenario
    POST   /api/scenarios/load         Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Factory: JSON document to domain conversion
  - Engine: The scoring and ranking engine

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (struct tags, category/axis vocabularies)
  3. Assemble policy views (document + live org standing + reviews)
  4. Call domain logic (engine, quick sort, criteria lookup)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found, expired session
  - 422: Valid request but unsatisfiable (every policy failed filters)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
  - janitor.go: Expired session cleanup
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/coverly/compare-engine/compare"
	"github.com/coverly/compare-engine/factory"
	"github.com/coverly/compare-engine/funeral"
	"github.com/coverly/compare-engine/health"
	"github.com/coverly/compare-engine/logger"
	"github.com/coverly/compare-engine/store/sqlite"
)

// DefaultSessionTTL is how long a saved comparison stays retrievable.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Criteria source labels reported by GET /api/criteria.
const (
	criteriaSourceStore   = "store"
	criteriaSourceDefault = "default"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Factory    *factory.PolicyFactory
	Engine     *compare.Engine
	Log        logger.Logger
	SessionTTL time.Duration

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		Store:      store,
		Factory:    factory.NewPolicyFactory(),
		Engine:     compare.NewEngine(compare.StandardOptions(), log),
		Log:        log,
		SessionTTL: DefaultSessionTTL,
	}
}

// =============================================================================
// COMPARISON HANDLERS
// =============================================================================

// CreateComparison runs the engine over the requested policies and saves
// the result as a replayable session.
func (h *Handler) CreateComparison(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comparison request", err)
		return
	}

	category, ok := compare.ParseCategory(req.Category)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown category", compare.ErrUnknownCategory)
		return
	}

	ctx := r.Context()
	now := time.Now()

	records, err := h.Store.GetPoliciesByIDs(ctx, req.PolicyIDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policies", err)
		return
	}
	byID := make(map[string]sqlite.PolicyRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	views := make([]compare.PolicyView, 0, len(req.PolicyIDs))
	for _, id := range req.PolicyIDs {
		rec, found := byID[id]
		if !found || !rec.IsActive {
			h.writeCompareError(w, &compare.ValidationError{
				Reason: fmt.Sprintf("policy %s is not available for comparison", id),
				Err:    compare.ErrNoComparablePolicies,
			})
			return
		}
		if rec.Category != string(category) {
			h.writeCompareError(w, &compare.ValidationError{
				Reason: fmt.Sprintf("policy %s belongs to category %q", id, rec.Category),
				Err:    compare.ErrMixedCategories,
			})
			return
		}

		view, err := h.assembleView(ctx, rec, now)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load policy", err)
			return
		}
		views = append(views, view)
	}

	criteria, _, err := h.criteriaFor(ctx, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load criteria", err)
		return
	}

	user, err := h.Factory.FromUserCriteriaJSON(req.UserCriteria)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user criteria", err)
		return
	}

	survey, err := h.Factory.FromSurveyJSON(req.Survey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid survey context", err)
		return
	}

	output, err := h.Engine.Compare(ctx, compare.Input{
		Category: category,
		Policies: views,
		Criteria: criteria,
		User:     user,
		Survey:   survey,
	})
	if err != nil {
		h.writeCompareError(w, err)
		return
	}

	key := uuid.NewString()
	createdAt := now.UTC()
	expiresAt := createdAt.Add(h.SessionTTL)

	dto := ComparisonDTO{
		Success:         true,
		ComparisonID:    key,
		Category:        string(output.Category),
		TotalPolicies:   output.TotalPolicies,
		BestMatch:       toResultDTO(output.BestMatch),
		Results:         toResultDTOs(output.Results),
		Recommendations: output.Recommendations,
		Analysis:        output.Analysis,
		Insights:        output.Insights,
		CreatedAt:       createdAt.Format(time.RFC3339),
		ExpiresAt:       expiresAt.Format(time.RFC3339),
	}

	// A failed save degrades replay, not the response itself.
	if err := h.saveSession(ctx, key, req, dto, createdAt, expiresAt); err != nil {
		h.Log.Warn("failed to save comparison session", map[string]interface{}{
			"comparison_id": key,
			"error":         err.Error(),
		})
	}

	writeJSON(w, http.StatusOK, dto)
}

// saveSession persists the full response envelope so GET can replay it
// byte-for-byte without rescoring.
func (h *Handler) saveSession(ctx context.Context, key string, req CompareRequest, dto ComparisonDTO, createdAt, expiresAt time.Time) error {
	resultJSON, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	policyIDs, err := json.Marshal(req.PolicyIDs)
	if err != nil {
		return err
	}
	userCriteria, err := json.Marshal(req.UserCriteria)
	if err != nil {
		return err
	}

	return h.Store.SaveSession(ctx, sqlite.SessionRecord{
		Key:              key,
		Category:         dto.Category,
		PolicyIDsJSON:    string(policyIDs),
		UserCriteriaJSON: string(userCriteria),
		ResultJSON:       string(resultJSON),
		CreatedAt:        createdAt,
		ExpiresAt:        expiresAt,
	})
}

// GetComparison replays a saved comparison. Expired sessions read as
// missing even before the janitor removes them.
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	sess, err := h.Store.GetSession(r.Context(), key, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load comparison", err)
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "Comparison not found or expired", nil)
		return
	}

	writeJSON(w, http.StatusOK, json.RawMessage(sess.ResultJSON))
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListPolicies returns all active policies, optionally for one category.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := r.URL.Query().Get("category")
	if category != "" {
		if _, ok := compare.ParseCategory(category); !ok {
			writeError(w, http.StatusBadRequest, "Unknown category", compare.ErrUnknownCategory)
			return
		}
	}

	records, err := h.Store.ListPolicies(ctx, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	now := time.Now()
	dtos := make([]PolicyDTO, 0, len(records))
	for _, rec := range records {
		view, err := h.assembleView(ctx, rec, now)
		if err != nil {
			h.Log.Warn("skipping unreadable policy", map[string]interface{}{
				"policy_id": rec.ID,
				"error":     err.Error(),
			})
			continue
		}
		dtos = append(dtos, toPolicyDTO(view, rec.IsActive))
	}

	writeJSON(w, http.StatusOK, dtos)
}

// GetPolicy returns a single policy, including inactive ones.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetPolicy(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get policy", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Policy not found", nil)
		return
	}

	view, err := h.assembleView(r.Context(), *rec, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load policy", err)
		return
	}

	writeJSON(w, http.StatusOK, toPolicyDTO(view, rec.IsActive))
}

// ListCriteria returns the scoring criteria for a category, reporting
// whether they came from the store or the built-in defaults.
func (h *Handler) ListCriteria(w http.ResponseWriter, r *http.Request) {
	category, ok := compare.ParseCategory(r.URL.Query().Get("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown category", compare.ErrUnknownCategory)
		return
	}

	criteria, source, err := h.criteriaFor(r.Context(), category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list criteria", err)
		return
	}

	writeJSON(w, http.StatusOK, CriteriaDTO{
		Success:  true,
		Category: string(category),
		Source:   source,
		Criteria: toCriterionDTOs(criteria),
	})
}

// QuickCompare orders a category's active policies on a single axis.
func (h *Handler) QuickCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, ok := compare.ParseCategory(r.URL.Query().Get("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown category", compare.ErrUnknownCategory)
		return
	}
	by, err := compare.ParseQuickBy(r.URL.Query().Get("by"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown sort axis", err)
		return
	}

	records, err := h.Store.ListPolicies(ctx, string(category))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list policies", err)
		return
	}

	now := time.Now()
	views := make([]compare.PolicyView, 0, len(records))
	for _, rec := range records {
		view, err := h.assembleView(ctx, rec, now)
		if err != nil {
			h.Log.Warn("skipping unreadable policy", map[string]interface{}{
				"policy_id": rec.ID,
				"error":     err.Error(),
			})
			continue
		}
		views = append(views, view)
	}

	sorted, err := compare.QuickCompare(views, by)
	if err != nil {
		h.writeCompareError(w, err)
		return
	}

	dtos := make([]PolicyDTO, len(sorted))
	for i, v := range sorted {
		dtos[i] = toPolicyDTO(v, true)
	}

	writeJSON(w, http.StatusOK, QuickCompareDTO{
		Success:  true,
		Category: string(category),
		By:       string(by),
		Policies: dtos,
	})
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// VIEW ASSEMBLY
// =============================================================================

// assembleView joins a stored policy document with live organization and
// review rows. Live data wins over whatever the document embeds.
func (h *Handler) assembleView(ctx context.Context, rec sqlite.PolicyRecord, now time.Time) (compare.PolicyView, error) {
	parsed, err := h.Factory.ParsePolicy([]byte(rec.DocumentJSON))
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", rec.ID, err)
	}

	org, err := h.Store.GetOrganization(ctx, rec.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("policy %s: organization %s not found", rec.ID, rec.OrganizationID)
	}

	reviews, err := h.Store.ListApprovedReviews(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	return parsed.Snapshot(org.Standing(now), compare.SummarizeReviews(reviews)), nil
}

// criteriaFor loads the active criteria for a category, falling back to
// the built-in defaults when the store holds none.
func (h *Handler) criteriaFor(ctx context.Context, category compare.Category) ([]compare.Criterion, string, error) {
	records, err := h.Store.ListCriteria(ctx, string(category))
	if err != nil {
		return nil, "", err
	}

	if len(records) == 0 {
		switch category {
		case compare.CategoryFuneral:
			return funeral.DefaultCriteria(), criteriaSourceDefault, nil
		default:
			return health.DefaultCriteria(), criteriaSourceDefault, nil
		}
	}

	criteria := make([]compare.Criterion, 0, len(records))
	for _, rec := range records {
		cmp, err := factory.ParseComparison(rec.Comparison)
		if err != nil {
			return nil, "", fmt.Errorf("criterion %s: %w", rec.ID, err)
		}
		criteria = append(criteria, compare.Criterion{
			ID:           compare.CriterionID(rec.ID),
			Name:         rec.Name,
			Description:  rec.Description,
			Field:        compare.FieldName(rec.Field),
			Compare:      cmp,
			Weight:       rec.Weight,
			Required:     rec.IsRequired,
			Active:       rec.IsActive,
			DisplayOrder: rec.DisplayOrder,
		})
	}
	return criteria, criteriaSourceStore, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeCompareError maps engine errors onto HTTP statuses: bad input is
// the caller's fault, a total scoring collapse is unsatisfiable rather
// than broken, anything else is ours.
func (h *Handler) writeCompareError(w http.ResponseWriter, err error) {
	switch {
	case compare.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Comparison rejected", err)
	case compare.IsAggregateFailure(err):
		writeError(w, http.StatusUnprocessableEntity, "No policies could be scored", err)
	default:
		h.Log.Error("comparison failed", map[string]interface{}{
			"error": err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Comparison failed", err)
	}
}
