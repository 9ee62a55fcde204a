package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lab1702/ballistics-web/ballistics"
)

// Duration wraps time.Duration so YAML configs can say "10s" or "1m".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration back as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds the solve service settings. It is loaded once at startup
// from an optional YAML file; anything left unset keeps its default.
type Config struct {
	// Port the HTTP/websocket listener binds to.
	Port string `yaml:"port"`

	// ReadTimeout / WriteTimeout / IdleTimeout apply to the HTTP server.
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`

	// Solver is the search configuration used for requests that carry no
	// per-request override.
	Solver ballistics.SolverConfig `yaml:"solver"`

	// MaxConfigSamples caps the phase-2 sample count a per-request config
	// override may imply, bounding worst-case CPU per solve. Zero
	// disables the cap.
	MaxConfigSamples int `yaml:"max_config_samples"`
}

// DefaultConfig returns the standard service configuration.
func DefaultConfig() Config {
	return Config{
		Port:             "8080",
		ReadTimeout:      Duration(10 * time.Second),
		WriteTimeout:     Duration(10 * time.Second),
		IdleTimeout:      Duration(60 * time.Second),
		Solver:           ballistics.DefaultSolverConfig(),
		MaxConfigSamples: 100000,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the service settings, including the embedded solver
// configuration. The solver invariants are enforced here, at load time,
// so the core never has to re-check them per call.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.IdleTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxConfigSamples < 0 {
		return fmt.Errorf("max config samples must not be negative, got %d", c.MaxConfigSamples)
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver defaults: %w", err)
	}
	return nil
}
