package remote

import "os"

// Config holds the remote persistence settings. The remote backend is
// optional: an empty DSN disables it entirely.
type Config struct {
	// DSN is the Postgres connection string. Empty disables remote sync.
	DSN string

	// UserID labels sessions created by this client. Default: "anonymous".
	UserID string
}

// DefaultConfig returns a disabled remote configuration.
func DefaultConfig() Config {
	return Config{UserID: "anonymous"}
}

// ConfigFromEnv builds a Config from environment variables.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if dsn := os.Getenv("STUDYPAL_DATABASE_URL"); dsn != "" {
		cfg.DSN = dsn
	}
	if u := os.Getenv("STUDYPAL_REMOTE_USER"); u != "" {
		cfg.UserID = u
	}
	return cfg
}
