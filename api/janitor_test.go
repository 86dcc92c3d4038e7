/*
janitor_test.go - Unit tests for the expired-session janitor
*/
package api

import (
	"context"
	"testing"
	"time"

	"github.com/coverly/compare-engine/logger/loggertest"
	"github.com/coverly/compare-engine/store/sqlite"
)

func TestSessionJanitor_PurgesExpiredSessions(t *testing.T) {
	// GIVEN: One expired and one live session
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Now()

	expired := sqlite.SessionRecord{
		Key:              "sess-old",
		Category:         "health",
		PolicyIDsJSON:    `["pol-a","pol-b"]`,
		UserCriteriaJSON: `{}`,
		ResultJSON:       `{"success":true}`,
		CreatedAt:        now.Add(-48 * time.Hour),
		ExpiresAt:        now.Add(-24 * time.Hour),
	}
	live := expired
	live.Key = "sess-live"
	live.CreatedAt = now
	live.ExpiresAt = now.Add(24 * time.Hour)

	if err := store.SaveSession(ctx, expired); err != nil {
		t.Fatalf("Failed to save expired session: %v", err)
	}
	if err := store.SaveSession(ctx, live); err != nil {
		t.Fatalf("Failed to save live session: %v", err)
	}

	// WHEN: Running the janitor once
	j := NewSessionJanitor(store, loggertest.NewLogger(t))
	j.RunNow()

	// THEN: Only the expired session is gone
	n, err := store.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		t.Fatalf("Failed to purge: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected nothing left to purge, got %d", n)
	}

	sess, err := store.GetSession(ctx, "sess-live", time.Now())
	if err != nil {
		t.Fatalf("Failed to get live session: %v", err)
	}
	if sess == nil {
		t.Error("Live session should have survived the purge")
	}
}

func TestSessionJanitor_StartStop(t *testing.T) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	j := NewSessionJanitor(store, loggertest.NewLogger(t))
	j.Interval = time.Hour

	j.Start()
	j.Stop()
}

func TestSessionJanitor_DisabledDoesNotStart(t *testing.T) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	j := NewSessionJanitor(store, loggertest.NewLogger(t))
	j.Enabled = false

	// Start is a no-op when disabled; Stop must tolerate that.
	j.Start()
	j.Stop()
}
