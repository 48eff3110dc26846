package counter

import (
	"fmt"
	"net/url"
)

// DefaultElementID is the id of the element the count is written into.
const DefaultElementID = "visitor-count"

// Config is fixed for the lifetime of a Widget.
type Config struct {
	// EndpointURL is the absolute URL of the counting service.
	EndpointURL string `yaml:"endpoint_url"`

	// ElementID identifies the element that displays the count.
	ElementID string `yaml:"element_id"`
}

// DefaultConfig returns a Config with the default element id and no endpoint.
func DefaultConfig() Config {
	return Config{ElementID: DefaultElementID}
}

// Validate checks that EndpointURL is an absolute http(s) URL and fills in
// the default element id.
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("endpoint url is required")
	}
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return fmt.Errorf("parse endpoint url: %w", err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint url %q must be an absolute http(s) url", c.EndpointURL)
	}
	if c.ElementID == "" {
		c.ElementID = DefaultElementID
	}
	return nil
}
