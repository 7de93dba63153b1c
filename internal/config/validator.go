package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return fmt.Errorf("server config error: %w", err)
	}
	if err := c.validateKnowledge(); err != nil {
		return fmt.Errorf("knowledge config error: %w", err)
	}
	if err := c.validateEmbedding(); err != nil {
		return fmt.Errorf("embedding config error: %w", err)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed_origins is required")
	}
	return nil
}

func (c *Config) validateKnowledge() error {
	if c.Knowledge.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	if !c.Embedding.Enabled {
		return nil
	}
	if c.Embedding.BaseURL != "" {
		u, err := url.Parse(c.Embedding.BaseURL)
		if err != nil || !strings.HasPrefix(u.Scheme, "http") {
			return fmt.Errorf("invalid base_url: %s", c.Embedding.BaseURL)
		}
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}
