package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROSELINE_"

// Config holds the merged proseline settings.
type Config struct {
	// Schema is a YAML or TOML schema spec file. Empty selects the built-in schema.
	Schema string `toml:"schema"`

	// Snapshot is a state snapshot to open at startup.
	Snapshot string `toml:"snapshot"`

	Log      LogConfig     `toml:"log"`
	Handlers HandlerConfig `toml:"handlers"`
	Metrics  MetricsConfig `toml:"metrics"`
	Editor   EditorConfig  `toml:"editor"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn warning error"`

	// File receives log output. Empty logs to stderr.
	File string `toml:"file"`
}

// HandlerConfig controls Lua input handlers.
type HandlerConfig struct {
	// Paths are searched in order; the first file with a given name wins.
	Paths []string `toml:"paths" validate:"dive,required"`

	// TimeoutMS bounds a single handler call.
	TimeoutMS int `toml:"timeout_ms" validate:"gte=1,lte=10000"`

	Disabled bool `toml:"disabled"`
}

// Timeout returns TimeoutMS as a duration.
func (h HandlerConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutMS) * time.Millisecond
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address. Empty disables the endpoint.
	Addr string `toml:"addr" validate:"omitempty,hostname_port"`
}

// EditorConfig holds terminal editor settings.
type EditorConfig struct {
	// WatchSchema reloads the schema file when it changes.
	WatchSchema bool `toml:"watch_schema"`

	// DebounceMS coalesces bursts of file events.
	DebounceMS int `toml:"debounce_ms" validate:"gte=0,lte=60000"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Handlers: HandlerConfig{
			TimeoutMS: 100,
		},
		Editor: EditorConfig{
			WatchSchema: true,
			DebounceMS:  100,
		},
	}
}

// DefaultPath returns ~/.config/proseline/config.toml, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "proseline", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "proseline", "config.toml")
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.decode(path, bytes.NewReader(data)); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Environ()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML from r over the defaults and validates it.
// Environment overrides are not applied.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode("<reader>", r); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(source string, r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return &ParseError{Path: source, Err: err}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags. Failures wrap ErrValidationFailed and
// name every offending field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fieldPath(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrValidationFailed, strings.Join(msgs, "; "))
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
