package datasource

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is where the prediction backend listens in a local setup
const DefaultBaseURL = "http://localhost:8000"

// BaseURLEnv overrides Config.BaseURL when set
const BaseURLEnv = "SOLWINDX_API_BASE"

// Duration is a time.Duration that reads "10s" style strings from JSON
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(b, &seconds); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the application configuration
type Config struct {
	// Root of the prediction backend
	BaseURL string `json:"baseURL"`

	// Per-request timeout for backend calls
	Timeout Duration `json:"timeout"`

	RateLimit struct {
		Enabled bool    `json:"enabled"`
		RPS     float64 `json:"rps"`
		Burst   int     `json:"burst"`
	} `json:"rateLimit"`

	// How long a fetched city list is reused; zero disables caching
	CitiesCacheTTL Duration `json:"citiesCacheTTL"`
}

// LoadConfig loads configuration from a JSON file.
// Fields missing from the file keep their defaults.
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{
		BaseURL:        DefaultBaseURL,
		Timeout:        Duration(20 * time.Second),
		CitiesCacheTTL: Duration(10 * time.Minute),
	}
	config.RateLimit.Enabled = true
	config.RateLimit.RPS = 2
	config.RateLimit.Burst = 4
	return config
}

// ApplyEnv overrides fields from the environment
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(BaseURLEnv)); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
}

// NewService builds the backend client described by the configuration,
// wrapped with rate limiting when enabled
func (c *Config) NewService(logger *zap.Logger) PredictionService {
	var service PredictionService = NewSolWindXService(c.BaseURL, time.Duration(c.Timeout), logger)
	if c.RateLimit.Enabled && c.RateLimit.RPS > 0 {
		service = NewRateLimitedService(service, c.RateLimit.RPS, c.RateLimit.Burst)
	}
	return service
}
