// Package config provides configuration loading and validation for the
// generation service and CLI. Every resilience knob is tunable: nothing in
// the breaker, governor, or retry path is hardcoded.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the service configuration. All fields are optional; missing
// values use defaults. The presence of an API key toggles the remote path
// entirely.
type Config struct {
	// Remote provider
	APIKey string `json:"api_key,omitempty"` // Gemini API key; empty disables the remote path
	Model  string `json:"model,omitempty"`   // Gemini model name

	// Quota & rate governor
	DailyCallLimit  int      `json:"daily_call_limit,omitempty"`  // daily remote-call ceiling
	MinCallInterval Duration `json:"min_call_interval,omitempty"` // minimum spacing between remote calls

	// Circuit breaker
	BreakerThreshold int      `json:"breaker_threshold,omitempty"` // consecutive failures before opening
	BreakerCoolDown  Duration `json:"breaker_cooldown,omitempty"`  // time the breaker stays open

	// Per-operation remote call behavior
	RequestTimeout Duration `json:"request_timeout,omitempty"` // hard timeout per remote attempt
	MaxAttempts    int      `json:"max_attempts,omitempty"`    // remote attempts including retries

	Verbose bool `json:"verbose,omitempty"`
}

// Duration wraps time.Duration with JSON string support ("30s", "1m").
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		parsed, err := time.ParseDuration(asString)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", asString, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var asInt int64
	if err := json.Unmarshal(data, &asInt); err != nil {
		return fmt.Errorf("invalid duration value: %s", string(data))
	}
	*d = Duration(asInt)
	return nil
}

// MarshalJSON emits the duration string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the baseline configuration with conservative budgets.
func Default() *Config {
	return &Config{
		Model:            "gemini-2.5-flash",
		DailyCallLimit:   15,
		MinCallInterval:  Duration(time.Second),
		BreakerThreshold: 3,
		BreakerCoolDown:  Duration(60 * time.Second),
		RequestTimeout:   Duration(20 * time.Second),
		MaxAttempts:      2,
	}
}

// Load reads configuration from a JSON file, fills unset fields from
// environment variables, and applies defaults last.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// FromEnv builds a configuration from environment variables and defaults
// only, for callers without a config file.
func FromEnv() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Model == "" {
		c.Model = os.Getenv("GEMINI_MODEL")
	}
	if c.DailyCallLimit == 0 {
		c.DailyCallLimit = envInt("AI_DAILY_CALL_LIMIT")
	}
	if c.MinCallInterval == 0 {
		c.MinCallInterval = envDuration("AI_MIN_CALL_INTERVAL")
	}
	if c.BreakerThreshold == 0 {
		c.BreakerThreshold = envInt("AI_BREAKER_THRESHOLD")
	}
	if c.BreakerCoolDown == 0 {
		c.BreakerCoolDown = envDuration("AI_BREAKER_COOLDOWN")
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = envDuration("AI_REQUEST_TIMEOUT")
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = envInt("AI_MAX_ATTEMPTS")
	}
}

func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.DailyCallLimit == 0 {
		c.DailyCallLimit = defaults.DailyCallLimit
	}
	if c.MinCallInterval == 0 {
		c.MinCallInterval = defaults.MinCallInterval
	}
	if c.BreakerThreshold == 0 {
		c.BreakerThreshold = defaults.BreakerThreshold
	}
	if c.BreakerCoolDown == 0 {
		c.BreakerCoolDown = defaults.BreakerCoolDown
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = defaults.MaxAttempts
	}
}

// Validate checks numeric ranges.
func (c *Config) Validate() error {
	if c.DailyCallLimit < 0 {
		return fmt.Errorf("config error: 'daily_call_limit' must be non-negative")
	}
	if c.BreakerThreshold < 0 {
		return fmt.Errorf("config error: 'breaker_threshold' must be non-negative")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config error: 'max_attempts' must be at least 1")
	}
	if time.Duration(c.RequestTimeout) < time.Second {
		return fmt.Errorf("config error: 'request_timeout' must be at least 1s")
	}
	return nil
}

// RemoteEnabled reports whether a provider credential is configured.
func (c *Config) RemoteEnabled() bool {
	return c.APIKey != ""
}

func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envDuration(name string) Duration {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return Duration(d)
}
