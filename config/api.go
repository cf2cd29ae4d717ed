package config

import (
	"fmt"
	"net"
)

// APIConfig configures the HTTP server started by "rotation serve".
type APIConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on every API request.
	Token string `json:"token"`
	// MaxBodyKB bounds the size of a posted team.
	MaxBodyKB int `json:"max_body_kb"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxBodyKB <= 0 {
		c.MaxBodyKB = 256
	}
}

// Validate checks the listen address.
func (c APIConfig) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", c.Addr, err)
	}
	return nil
}
