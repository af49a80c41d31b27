// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and CORS. AppConfig carries everything
// specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: acadconnect-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for OAuth callbacks (e.g., "https://acadconnect.example.com")
	BaseURL string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Suggestion ranker bound: total profile documents read per request.
	SuggestionMaxReads int

	// Background job tuning
	OutboxInterval    time.Duration // how often the outbox delivery job runs
	OutboxBatchSize   int           // intents drained per delivery run
	ReconcileInterval time.Duration // how often counters are reconciled

	// Per-user cap on connection request sends.
	RequestRateLimit  int
	RequestRateWindow time.Duration
}
