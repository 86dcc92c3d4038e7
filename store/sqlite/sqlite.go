/*
Package sqlite provides the SQLite-backed catalog and session store.

PURPOSE:
  Persists everything the comparison service serves: insurer
  organizations, policy documents, customer reviews, per-category
  scoring criteria, and saved comparison sessions. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

KEY TABLES:
  organizations:       Insurers underwriting the policies
  policies:            Typed lookup columns plus the full JSON document
  reviews:             Customer ratings; only approved ones are served
  criteria:            Per-category scoring criteria definitions
  comparison_sessions: Saved comparison results with an expiry

DOCUMENT STORAGE:
  Policies keep their source JSON document verbatim in document_json
  next to the queryable columns. The factory package re-parses the
  document when a comparison needs the typed record, so the store never
  learns category schemas.

LIVE VS DOCUMENT DATA:
  Organization standing (verification, license) and reviews change
  after a document is imported, so they live in their own tables and
  override whatever the document embedded.

INDEXES:
  - idx_policies_category: catalog listing and quick compare
  - idx_reviews_policy: review summaries per policy
  - idx_criteria_category: criteria set lookup
  - idx_sessions_expires: janitor purge scans

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/coverly.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - factory/policy.go: document parsing
  - api/handlers.go: request-time assembly of engine views
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/compare"
)

// Store persists the policy catalog and comparison sessions in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps :memory: databases coherent across the pool.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Insurers underwriting the policies
	CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		is_verified BOOLEAN DEFAULT FALSE,
		is_active BOOLEAN DEFAULT TRUE,
		license_expiry TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Policies: queryable columns plus the verbatim source document
	CREATE TABLE IF NOT EXISTS policies (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		category TEXT NOT NULL,
		policy_number TEXT,
		name TEXT NOT NULL,
		base_premium TEXT NOT NULL,
		coverage_amount TEXT NOT NULL,
		is_active BOOLEAN DEFAULT TRUE,
		is_featured BOOLEAN DEFAULT FALSE,
		document_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_policies_category
		ON policies(category, is_active);
	CREATE INDEX IF NOT EXISTS idx_policies_organization
		ON policies(organization_id);

	-- Customer reviews; only approved ones reach scoring
	CREATE TABLE IF NOT EXISTS reviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		policy_id TEXT NOT NULL,
		rating INTEGER NOT NULL,
		is_approved BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_policy
		ON reviews(policy_id, is_approved);

	-- Per-category scoring criteria
	CREATE TABLE IF NOT EXISTS criteria (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		field TEXT NOT NULL,
		comparison TEXT NOT NULL,
		weight TEXT NOT NULL,
		is_required BOOLEAN DEFAULT FALSE,
		is_active BOOLEAN DEFAULT TRUE,
		display_order INTEGER DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_criteria_category
		ON criteria(category, is_active);

	-- Saved comparison results, replayable until they expire
	CREATE TABLE IF NOT EXISTS comparison_sessions (
		session_key TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		policy_ids_json TEXT NOT NULL,
		user_criteria_json TEXT,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_expires
		ON comparison_sessions(expires_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ORGANIZATIONS
// =============================================================================

// OrganizationRecord is a stored insurer.
type OrganizationRecord struct {
	ID            string
	Name          string
	IsVerified    bool
	IsActive      bool
	LicenseExpiry *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Standing resolves the organization's live standing at the given time.
// A missing expiry date counts as a valid license.
func (o OrganizationRecord) Standing(now time.Time) compare.Organization {
	return compare.Organization{
		ID:           compare.OrganizationID(o.ID),
		Name:         o.Name,
		Verified:     o.IsVerified,
		Active:       o.IsActive,
		LicenseValid: o.LicenseExpiry == nil || o.LicenseExpiry.After(now),
	}
}

// SaveOrganization inserts or updates an organization.
func (s *Store) SaveOrganization(ctx context.Context, org OrganizationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO organizations (id, name, is_verified, is_active, license_expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_verified = excluded.is_verified,
			is_active = excluded.is_active,
			license_expiry = excluded.license_expiry,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		org.ID, org.Name, org.IsVerified, org.IsActive,
		nullTime(org.LicenseExpiry), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save organization: %w", err)
	}
	return nil
}

// GetOrganization retrieves an organization by ID. Returns nil when the
// organization does not exist.
func (s *Store) GetOrganization(ctx context.Context, id string) (*OrganizationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var o OrganizationRecord
	var licenseExpiry sql.NullString
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, is_verified, is_active, license_expiry, created_at, updated_at FROM organizations WHERE id = ?",
		id,
	).Scan(&o.ID, &o.Name, &o.IsVerified, &o.IsActive, &licenseExpiry, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if licenseExpiry.Valid {
		t, _ := time.Parse(time.RFC3339, licenseExpiry.String)
		o.LicenseExpiry = &t
	}
	o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	o.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &o, nil
}

// =============================================================================
// POLICIES
// =============================================================================

// PolicyRecord is a stored policy: the queryable columns plus the
// verbatim source document.
type PolicyRecord struct {
	ID             string
	OrganizationID string
	Category       string
	PolicyNumber   string
	Name           string
	BasePremium    decimal.Decimal
	CoverageAmount decimal.Decimal
	IsActive       bool
	IsFeatured     bool
	DocumentJSON   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SavePolicy inserts or updates a policy.
func (s *Store) SavePolicy(ctx context.Context, p PolicyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO policies (id, organization_id, category, policy_number, name,
			base_premium, coverage_amount, is_active, is_featured, document_json,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			organization_id = excluded.organization_id,
			category = excluded.category,
			policy_number = excluded.policy_number,
			name = excluded.name,
			base_premium = excluded.base_premium,
			coverage_amount = excluded.coverage_amount,
			is_active = excluded.is_active,
			is_featured = excluded.is_featured,
			document_json = excluded.document_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.OrganizationID, p.Category, nullString(p.PolicyNumber), p.Name,
		p.BasePremium.String(), p.CoverageAmount.String(), p.IsActive, p.IsFeatured,
		p.DocumentJSON, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}
	return nil
}

// GetPolicy retrieves a policy by ID regardless of its active flag.
// Returns nil when the policy does not exist.
func (s *Store) GetPolicy(ctx context.Context, id string) (*PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, category, policy_number, name, base_premium,
		       coverage_amount, is_active, is_featured, document_json, created_at, updated_at
		FROM policies
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	p, err := scanPolicy(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPoliciesByIDs retrieves the policies whose IDs match. Missing IDs
// are simply absent from the result; callers decide whether that is an
// error.
func (s *Store) GetPoliciesByIDs(ctx context.Context, ids []string) ([]PolicyRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		SELECT id, organization_id, category, policy_number, name, base_premium,
		       coverage_amount, is_active, is_featured, document_json, created_at, updated_at
		FROM policies
		WHERE id IN (%s)
	`, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return s.queryPolicies(ctx, query, args...)
}

// ListPolicies returns active policies, optionally restricted to one
// category, ordered by name.
func (s *Store) ListPolicies(ctx context.Context, category string) ([]PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, organization_id, category, policy_number, name, base_premium,
		       coverage_amount, is_active, is_featured, document_json, created_at, updated_at
		FROM policies
		WHERE is_active = TRUE
	`
	var args []any
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY name"

	return s.queryPolicies(ctx, query, args...)
}

func (s *Store) queryPolicies(ctx context.Context, query string, args ...any) ([]PolicyRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query policies: %w", err)
	}
	defer rows.Close()

	var policies []PolicyRecord
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}

	return policies, rows.Err()
}

func scanPolicy(rows *sql.Rows) (PolicyRecord, error) {
	var (
		p            PolicyRecord
		policyNumber sql.NullString
		premium      string
		coverage     string
		createdAt    string
		updatedAt    string
	)

	err := rows.Scan(
		&p.ID, &p.OrganizationID, &p.Category, &policyNumber, &p.Name,
		&premium, &coverage, &p.IsActive, &p.IsFeatured, &p.DocumentJSON,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return p, fmt.Errorf("failed to scan policy: %w", err)
	}

	p.PolicyNumber = policyNumber.String
	if p.BasePremium, err = decimal.NewFromString(premium); err != nil {
		return p, fmt.Errorf("policy %s: invalid base_premium %q: %w", p.ID, premium, err)
	}
	if p.CoverageAmount, err = decimal.NewFromString(coverage); err != nil {
		return p, fmt.Errorf("policy %s: invalid coverage_amount %q: %w", p.ID, coverage, err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return p, nil
}

// =============================================================================
// REVIEWS
// =============================================================================

// AddReview records one customer review for a policy.
func (s *Store) AddReview(ctx context.Context, policyID string, review compare.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reviews (policy_id, rating, is_approved, created_at) VALUES (?, ?, ?, ?)",
		policyID, review.Rating, review.Approved, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to add review: %w", err)
	}
	return nil
}

// ListApprovedReviews returns the approved reviews for a policy.
// Unapproved reviews never reach scoring or display.
func (s *Store) ListApprovedReviews(ctx context.Context, policyID string) ([]compare.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT rating FROM reviews WHERE policy_id = ? AND is_approved = TRUE",
		policyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []compare.Review
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, compare.Review{Rating: rating, Approved: true})
	}

	return reviews, rows.Err()
}

// =============================================================================
// CRITERIA
// =============================================================================

// CriterionRecord is a stored scoring criterion. Comparison is kept as
// its stored string; the factory validates the vocabulary on the way
// out.
type CriterionRecord struct {
	ID           string
	Category     string
	Name         string
	Description  string
	Field        string
	Comparison   string
	Weight       decimal.Decimal
	IsRequired   bool
	IsActive     bool
	DisplayOrder int
}

// SaveCriterion inserts or updates a criterion.
func (s *Store) SaveCriterion(ctx context.Context, c CriterionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO criteria (id, category, name, description, field, comparison,
			weight, is_required, is_active, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			name = excluded.name,
			description = excluded.description,
			field = excluded.field,
			comparison = excluded.comparison,
			weight = excluded.weight,
			is_required = excluded.is_required,
			is_active = excluded.is_active,
			display_order = excluded.display_order,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Category, c.Name, nullString(c.Description), c.Field, c.Comparison,
		c.Weight.String(), c.IsRequired, c.IsActive, c.DisplayOrder, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save criterion: %w", err)
	}
	return nil
}

// ListCriteria returns the active criteria for a category in display
// order. An empty result means the category has no stored criteria and
// callers fall back to the built-in defaults.
func (s *Store) ListCriteria(ctx context.Context, category string) ([]CriterionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, name, description, field, comparison, weight,
		       is_required, is_active, display_order
		FROM criteria
		WHERE category = ? AND is_active = TRUE
		ORDER BY display_order, id
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query criteria: %w", err)
	}
	defer rows.Close()

	var criteria []CriterionRecord
	for rows.Next() {
		var (
			c           CriterionRecord
			description sql.NullString
			weight      string
		)
		if err := rows.Scan(
			&c.ID, &c.Category, &c.Name, &description, &c.Field, &c.Comparison,
			&weight, &c.IsRequired, &c.IsActive, &c.DisplayOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan criterion: %w", err)
		}

		c.Description = description.String
		if c.Weight, err = decimal.NewFromString(weight); err != nil {
			return nil, fmt.Errorf("criterion %s: invalid weight %q: %w", c.ID, weight, err)
		}
		criteria = append(criteria, c)
	}

	return criteria, rows.Err()
}

// =============================================================================
// COMPARISON SESSIONS
// =============================================================================

// SessionRecord is a saved comparison: the inputs that produced it and
// the rendered result, replayable by key until it expires.
type SessionRecord struct {
	Key              string
	Category         string
	PolicyIDsJSON    string
	UserCriteriaJSON string
	ResultJSON       string
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// SaveSession persists a comparison session.
func (s *Store) SaveSession(ctx context.Context, sess SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO comparison_sessions (session_key, category, policy_ids_json,
			user_criteria_json, result_json, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_key) DO UPDATE SET
			category = excluded.category,
			policy_ids_json = excluded.policy_ids_json,
			user_criteria_json = excluded.user_criteria_json,
			result_json = excluded.result_json,
			expires_at = excluded.expires_at
	`

	_, err := s.db.ExecContext(ctx, query,
		sess.Key, sess.Category, sess.PolicyIDsJSON,
		nullString(sess.UserCriteriaJSON), sess.ResultJSON,
		sess.CreatedAt.UTC().Format(time.RFC3339), sess.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by key. Expired sessions read as
// missing even before the janitor removes them.
func (s *Store) GetSession(ctx context.Context, key string, now time.Time) (*SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sess         SessionRecord
		userCriteria sql.NullString
		createdAt    string
		expiresAt    string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT session_key, category, policy_ids_json, user_criteria_json, result_json,
		       created_at, expires_at
		FROM comparison_sessions
		WHERE session_key = ? AND expires_at > ?
	`, key, now.UTC().Format(time.RFC3339)).Scan(
		&sess.Key, &sess.Category, &sess.PolicyIDsJSON, &userCriteria, &sess.ResultJSON,
		&createdAt, &expiresAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sess.UserCriteriaJSON = userCriteria.String
	sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sess.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	return &sess, nil
}

// PurgeExpiredSessions deletes sessions whose expiry is at or before
// now and reports how many were removed.
func (s *Store) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM comparison_sessions WHERE expires_at <= ?",
		now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data. Used when loading demo scenarios.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"comparison_sessions", "reviews", "criteria", "policies", "organizations"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}
