// Package config holds the runtime configuration for deckhound. The
// configuration is an explicit value threaded through the entry point, not
// process-wide state: commands build it from defaults, an optional TOML
// file, and flags, then hand it to whatever needs it.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/deckhound/deckhound/internal/extract"
)

// Config is the full runtime configuration.
type Config struct {
	// Database is the path of the SQLite index file.
	Database string `toml:"database"`

	// HiresDir is the directory for high-resolution slide renders. Empty
	// disables hi-res storage.
	HiresDir string `toml:"hires_dir"`

	// Workers is the number of documents extracted concurrently during an
	// indexing run. 1 means strictly sequential.
	Workers int `toml:"workers"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`

	Extract Extract `toml:"extract"`
}

// Extract configures the slide extractor.
type Extract struct {
	// ThumbHeight is the pixel height of slide thumbnails.
	ThumbHeight int `toml:"thumb_height"`

	// HiresHeight is the pixel height of hi-res renders.
	HiresHeight int `toml:"hires_height"`

	// NonTextShapes is the classification policy: shape kinds that make a
	// slide count as not text-only. Nil selects the built-in default.
	NonTextShapes []string `toml:"non_text_shapes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: "deckhound.db3",
		HiresDir: "hires",
		Workers:  1,
		Extract: Extract{
			ThumbHeight:   240,
			HiresHeight:   1080,
			NonTextShapes: extract.DefaultNonTextShapes,
		},
	}
}

// Load reads a TOML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadIfPresent reads the config file if it exists, returning defaults
// otherwise.
func LoadIfPresent(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
