package client

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Supported URL schemes.
const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

// Config holds the client configuration for connecting to the Worldbook API.
type Config struct {
	// BaseURL is the origin every API path is resolved against
	// (e.g., "https://worldbook.it.com"). Trailing slashes are ignored.
	BaseURL string

	// Timeout is the maximum duration of one request.
	Timeout time.Duration
}

// Validate validates the configuration and returns an error if any field is invalid.
//
// Validation rules:
//   - BaseURL must not be empty
//   - BaseURL must start with http:// or https:// and name a host
//   - Timeout must be positive
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("invalid configuration: base URL cannot be empty")
	}

	if !strings.HasPrefix(c.BaseURL, schemeHTTP) && !strings.HasPrefix(c.BaseURL, schemeHTTPS) {
		return fmt.Errorf("invalid configuration: base URL must have http:// or https:// scheme, got %q", c.BaseURL)
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid configuration: base URL %q: %w", c.BaseURL, err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid configuration: base URL %q has no host", c.BaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid configuration: timeout must be positive, got %v", c.Timeout)
	}

	return nil
}

func (c Config) normalizedBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}
