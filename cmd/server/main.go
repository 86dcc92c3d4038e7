/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Coverly policy comparison server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and load configuration
  2. Build the structured logger
  3. Initialize SQLite store
  4. Create API handler and session janitor
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to a YAML config file (default: config.yaml if present)
  -db      SQLite database path, overrides store.path
           Use ":memory:" for an in-memory database
  -port    HTTP server port, overrides server.port

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Stop the session janitor
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/compare.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run with explicit config
  ./server -config="/etc/coverly/config.yaml"

ENVIRONMENT:
  COMPARE_* variables override config keys, e.g. COMPARE_SERVER_PORT,
  COMPARE_LOGGING_LEVEL. See config/config.go for the full tree.

SEE ALSO:
  - config/config.go: Configuration schema and precedence
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/coverly/compare-engine/api"
	"github.com/coverly/compare-engine/compare"
	"github.com/coverly/compare-engine/config"
	"github.com/coverly/compare-engine/logger"
	"github.com/coverly/compare-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "path to YAML config file")
	dbPath := flag.String("db", "", "SQLite database path (overrides store.path)")
	port := flag.Int("port", 0, "HTTP server port (overrides server.port)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Explicit flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.Store.Path = *dbPath
		case "port":
			cfg.Server.Port = *port
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	// Initialize store
	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, logg)
	handler.SessionTTL = cfg.Sessions.TTL

	// Engine overrides from config
	opts := compare.StandardOptions()
	if cfg.Engine.MaxPolicies > 0 {
		opts.MaxPolicies = cfg.Engine.MaxPolicies
	}
	if cfg.Engine.TieEpsilon > 0 {
		opts.TieEpsilon = decimal.NewFromFloat(cfg.Engine.TieEpsilon)
	}
	handler.Engine = compare.NewEngine(opts, logg)

	// Expired-session cleanup
	janitor := api.NewSessionJanitor(store, logg)
	janitor.Enabled = cfg.Janitor.Enabled
	janitor.Interval = cfg.Janitor.Interval
	janitor.Start()
	defer janitor.Stop()

	// Create router
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logg.Info("server starting", map[string]interface{}{
			"addr":     server.Addr,
			"database": cfg.Store.Path,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("server failed", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error("server forced to shutdown", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	logg.Info("server stopped", nil)
}
