// Package engineconfig loads and resolves engine-wide settings, the way the
// teacher codebase layers a YAML file under a Config struct and then lets a
// handful of environment variables override specific fields.
package engineconfig

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Casheeew/lesen-tan/internal/transform"
)

// Config holds the settings a lesentan.Engine needs beyond the descriptor
// itself.
type Config struct {
	// MaxTraceDepth bounds how many rule applications a single chain may
	// accumulate (transform.DefaultMaxTraceDepth if zero).
	MaxTraceDepth int `yaml:"maxTraceDepth"`

	// VisitedSetHint sizes the engine's initial visited-set allocation. It
	// is an optimization hint only; it never changes Transform's result.
	VisitedSetHint int `yaml:"visitedSetHint"`

	// DescriptorPaths lists descriptor files to load at startup, in order.
	DescriptorPaths []string `yaml:"descriptorPaths"`
}

// DefaultConfig returns the engine's out-of-the-box settings.
func DefaultConfig() Config {
	return Config{
		MaxTraceDepth:  transform.DefaultMaxTraceDepth,
		VisitedSetHint: 128,
	}
}

// Load reads a YAML config file at path (DefaultConfig if path is empty),
// then applies environment overrides. A missing or malformed file is
// reported; a missing path is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("engineconfig: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("engineconfig: parse %s: %w", path, err)
		}
		if cfg.MaxTraceDepth == 0 {
			cfg.MaxTraceDepth = transform.DefaultMaxTraceDepth
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides mirrors the teacher's env-override pattern: each
// variable only takes effect when set, and is validated before use so a
// malformed value falls back to whatever the struct already held.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LESENTAN_MAX_TRACE_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxTraceDepth = n
		}
	}
	if v := os.Getenv("LESENTAN_DESCRIPTOR"); v != "" {
		c.DescriptorPaths = append([]string{v}, c.DescriptorPaths...)
	}
}
