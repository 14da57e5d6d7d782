package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks cross-field constraints that tag-level validation cannot
// express. Required fields are enforced by cleanenv's env-required tags.
func (c *Config) Validate() error {
	if c.Dispatcher.Workers < 1 {
		return fmt.Errorf("dispatcher.workers must be >= 1, got %d", c.Dispatcher.Workers)
	}
	if c.Broker.Prefetch < 1 {
		return fmt.Errorf("broker.prefetch must be >= 1, got %d", c.Broker.Prefetch)
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if _, err := url.ParseRequestURI(c.Mail.ServiceURI); err != nil {
		return fmt.Errorf("mail.service_uri: %w", err)
	}
	if _, err := url.ParseRequestURI(c.Link.BaseURL); err != nil {
		return fmt.Errorf("link.base_url: %w", err)
	}
	if strings.HasSuffix(c.Link.BaseURL, "/") {
		return fmt.Errorf("link.base_url must not end with a slash")
	}

	if len(c.Crypto.TokenSecret) < 16 {
		return fmt.Errorf("crypto.token_secret must be at least 16 bytes")
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}

	return nil
}
