package supabase

import (
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Config holds the project coordinates every Supabase call needs.
type Config struct {
	// URL is the project base URL, e.g. https://xyzcompany.supabase.co
	URL string `env:"SUPABASE_URL"`
	// AnonKey is the public anon API key; per-user access is enforced by
	// row level security once a user token is attached.
	AnonKey string `env:"SUPABASE_ANON_KEY"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `env:"SUPABASE_TIMEOUT" envDefault:"30s"`

	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client `env:"-"`
}

// LoadConfigFromEnv reads the configuration from the environment, loading a
// local .env file first when one exists.
func LoadConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.CategoryBadInput, "failed to parse supabase environment")
	}

	return cfg, cfg.Validate()
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("supabase URL is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	if c.AnonKey == "" {
		return errors.New("supabase anon key is required", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return nil
}
