/*
janitor.go - Expired comparison session cleanup

PURPOSE:
  Periodically deletes comparison sessions whose expiry has passed.
  Expired sessions already read as missing (GetSession filters on
  expires_at), so the janitor only reclaims storage.

DESIGN:
  - Runs a background goroutine with a configurable sweep interval
  - Deletes in one statement; the expires_at index keeps it cheap
  - Safe to run alongside readers because expiry is checked on read too

CONFIGURATION:
  - Interval: How often to sweep (default: 1 hour)
  - Enabled: Whether the janitor is active (default: true)

USAGE:
  janitor := NewSessionJanitor(store, log)
  janitor.Start()
  // ... later
  janitor.Stop()

SEE ALSO:
  - handlers.go: GetComparison (expiry-aware reads)
  - store/sqlite/sqlite.go: PurgeExpiredSessions
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/coverly/compare-engine/logger"
	"github.com/coverly/compare-engine/store/sqlite"
)

// SessionJanitor removes expired comparison sessions in the background.
type SessionJanitor struct {
	Store    *sqlite.Store
	Log      logger.Logger
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSessionJanitor creates a new janitor.
func NewSessionJanitor(store *sqlite.Store, log logger.Logger) *SessionJanitor {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionJanitor{
		Store:    store,
		Log:      log,
		Interval: 1 * time.Hour,
		Enabled:  true,
		stop:     make(chan bool),
	}
}

// Start begins the janitor.
func (sj *SessionJanitor) Start() {
	sj.mu.Lock()
	defer sj.mu.Unlock()

	if !sj.Enabled {
		sj.Log.Info("session janitor disabled, not starting", nil)
		return
	}

	sj.ticker = time.NewTicker(sj.Interval)
	sj.wg.Add(1)

	go sj.run()

	sj.Log.Info("session janitor started", map[string]interface{}{
		"interval": sj.Interval.String(),
	})
}

// Stop stops the janitor.
func (sj *SessionJanitor) Stop() {
	sj.mu.Lock()
	defer sj.mu.Unlock()

	if sj.ticker != nil {
		sj.ticker.Stop()
		close(sj.stop)
		sj.wg.Wait()
		sj.Log.Info("session janitor stopped", nil)
	}
}

func (sj *SessionJanitor) run() {
	defer sj.wg.Done()

	// Sweep immediately on start
	sj.purge()

	for {
		select {
		case <-sj.ticker.C:
			sj.purge()
		case <-sj.stop:
			return
		}
	}
}

func (sj *SessionJanitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := sj.Store.PurgeExpiredSessions(ctx, time.Now())
	if err != nil {
		sj.Log.Warn("session purge failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if n > 0 {
		sj.Log.Info("purged expired comparison sessions", map[string]interface{}{
			"count": n,
		})
	}
}

// RunNow triggers an immediate sweep (for testing/admin).
func (sj *SessionJanitor) RunNow() {
	sj.purge()
}
