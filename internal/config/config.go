package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Identity provider selection values for AUTH_PROVIDER.
const (
	ProviderFirebase = "firebase"
	ProviderLocal    = "local"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Version     string `envconfig:"VERSION" default:"dev"`

	// AuthProvider selects the identity authority: "firebase" verifies ID
	// tokens against Firebase Auth; "local" uses an HS256 secret and an
	// in-memory claim store (development only).
	AuthProvider      string `envconfig:"AUTH_PROVIDER" default:"firebase"`
	FirebaseProjectID string `envconfig:"FIREBASE_PROJECT_ID" default:""`
	// CredentialsFile overrides application-default credentials when set.
	CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS" default:""`
	AuthSecret      string `envconfig:"AUTH_SECRET" default:""`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	switch cfg.AuthProvider {
	case ProviderFirebase:
		if cfg.FirebaseProjectID == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required when AUTH_PROVIDER=%s", ProviderFirebase)
		}
	case ProviderLocal:
		if cfg.AuthSecret == "" {
			return nil, fmt.Errorf("AUTH_SECRET is required when AUTH_PROVIDER=%s", ProviderLocal)
		}
	default:
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.AuthProvider)
	}

	return &cfg, nil
}
