// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers file and env on top.
// - External errors are wrapped via this package's error helpers.
package config

import "time"

// Store backend selectors.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend selects the score store: "mongo" or "memory".
	StoreBackend string `koanf:"store_backend"`

	// MongoURI is the document-database connection string. Required
	// for the mongo backend.
	MongoURI string `koanf:"mongodb_uri"`

	// MongoDatabase names the database holding score collections.
	MongoDatabase string `koanf:"mongo_database"`

	// ScoresCollection and EventsCollection name the two collections.
	ScoresCollection string `koanf:"scores_collection"`
	EventsCollection string `koanf:"events_collection"`

	// GDELTBaseURL overrides the GDELT DOC API endpoint (tests).
	GDELTBaseURL string `koanf:"gdelt_base_url"`

	// ACLEDBaseURL overrides the ACLED read endpoint (tests).
	ACLEDBaseURL string `koanf:"acled_base_url"`

	// ACLEDKey and ACLEDEmail authenticate against the ACLED API.
	// An empty key disables ACLED fetching.
	ACLEDKey   string `koanf:"acled_api_key"`
	ACLEDEmail string `koanf:"acled_email"`

	// DaysBack is the default lookback window for upstream fetches.
	DaysBack int `koanf:"days_back"`

	// FetchLimit caps events fetched per source per run.
	FetchLimit int `koanf:"fetch_limit"`

	// RunInterval is the periodic scoring cadence. Zero disables the
	// scheduler; runs are then trigger-only.
	RunInterval time.Duration `koanf:"run_interval"`

	// MaxListLimit caps GET /sgm/countries?limit.
	MaxListLimit int `koanf:"max_list_limit"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		StoreBackend:     StoreMongo,
		MongoDatabase:    "gdelt_db",
		ScoresCollection: "sgm_scores",
		EventsCollection: "acled_events",
		GDELTBaseURL:     "https://api.gdeltproject.org/api/v2/doc/doc",
		ACLEDBaseURL:     "https://api.acleddata.com/acled/read",
		DaysBack:         30,
		FetchLimit:       250,
		RunInterval:      6 * time.Hour,
		MaxListLimit:     200,
	}
}
