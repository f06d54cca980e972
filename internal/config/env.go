package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// envSetters maps each override variable to the field it sets.
var envSetters = map[string]func(c *Config, v string) error{
	"PROSELINE_SCHEMA": func(c *Config, v string) error {
		c.Schema = v
		return nil
	},
	"PROSELINE_SNAPSHOT": func(c *Config, v string) error {
		c.Snapshot = v
		return nil
	},
	"PROSELINE_LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = strings.ToLower(v)
		return nil
	},
	"PROSELINE_LOG_FILE": func(c *Config, v string) error {
		c.Log.File = v
		return nil
	},
	"PROSELINE_HANDLER_PATHS": func(c *Config, v string) error {
		c.Handlers.Paths = splitList(v)
		return nil
	},
	"PROSELINE_HANDLER_TIMEOUT_MS": func(c *Config, v string) error {
		return setInt(&c.Handlers.TimeoutMS, v)
	},
	"PROSELINE_HANDLERS_DISABLED": func(c *Config, v string) error {
		return setBool(&c.Handlers.Disabled, v)
	},
	"PROSELINE_METRICS_ADDR": func(c *Config, v string) error {
		c.Metrics.Addr = v
		return nil
	},
	"PROSELINE_WATCH_SCHEMA": func(c *Config, v string) error {
		return setBool(&c.Editor.WatchSchema, v)
	},
	"PROSELINE_DEBOUNCE_MS": func(c *Config, v string) error {
		return setInt(&c.Editor.DebounceMS, v)
	},
}

// EnvVars returns the recognized override variable names, sorted.
func EnvVars() []string {
	return slices.Sorted(maps.Keys(envSetters))
}

// ApplyEnv applies PROSELINE_* entries from environ, given in os.Environ
// form. Unknown PROSELINE_ variables are ignored.
// Empty values are treated as set, not as unset.
func (c *Config) ApplyEnv(environ []string) error {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		set, known := envSetters[name]
		if !known {
			continue
		}
		if err := set(c, value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidEnv, name, err)
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

// splitList splits a path list on the OS list separator.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
