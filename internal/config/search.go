package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// EnvSearchAllowWildcard overrides whether bare wildcard queries are permitted.
	EnvSearchAllowWildcard = "SEARCH_ALLOW_WILDCARD"

	// EnvSearchDefaultRanking overrides the default ranking strategy.
	EnvSearchDefaultRanking = "SEARCH_DEFAULT_RANKING"
)

// SearchConfig contains search pipeline configuration. A bare "*" query
// matches the entire scope, which can be extremely expensive, so wildcard
// searches are rejected unless explicitly allowed.
type SearchConfig struct {
	AllowWildcard  bool   `toml:"allow_wildcard"`
	DefaultRanking string `toml:"default_ranking"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *SearchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *SearchConfig) Merge(overlay *SearchConfig) {
	if overlay.AllowWildcard {
		c.AllowWildcard = true
	}
	if overlay.DefaultRanking != "" {
		c.DefaultRanking = overlay.DefaultRanking
	}
}

func (c *SearchConfig) loadDefaults() {
	if c.DefaultRanking == "" {
		c.DefaultRanking = "bm25"
	}
}

func (c *SearchConfig) loadEnv() {
	if v := os.Getenv(EnvSearchAllowWildcard); v != "" {
		if allow, err := strconv.ParseBool(v); err == nil {
			c.AllowWildcard = allow
		}
	}
	if v := os.Getenv(EnvSearchDefaultRanking); v != "" {
		c.DefaultRanking = v
	}
}

func (c *SearchConfig) validate() error {
	switch strings.ToLower(c.DefaultRanking) {
	case "none", "bm25", "simple":
		return nil
	default:
		return fmt.Errorf("invalid default_ranking: %s (must be none, bm25, or simple)", c.DefaultRanking)
	}
}
