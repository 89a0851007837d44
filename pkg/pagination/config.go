// Package pagination provides deterministic page slicing for result sets.
package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// EnvPageSize overrides the configured page size.
const EnvPageSize = "PAGINATION_PAGE_SIZE"

// Config holds pagination settings. PageSize is a deployment-level constant
// applied to every paginated response.
type Config struct {
	PageSize int `toml:"page_size"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.PageSize != 0 {
		c.PageSize = overlay.PageSize
	}
}

func (c *Config) loadDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
}

func (c *Config) validate() error {
	if c.PageSize < 1 || c.PageSize > 1000 {
		return fmt.Errorf("page_size must be between 1 and 1000")
	}
	return nil
}
