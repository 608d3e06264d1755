package config

import (
	"fmt"
	"strings"
)

// Validate performs rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB.Path) == "" {
		return fmt.Errorf("db.path is required")
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if err := c.Translate.validate(); err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	if err := c.Scorer.validate(); err != nil {
		return fmt.Errorf("scorer: %w", err)
	}

	return nil
}

func (t *TranslateConfig) validate() error {
	switch t.Provider {
	case ProviderMock:
	case ProviderHTTP:
		if t.URL == "" {
			return fmt.Errorf("url is required for provider %q", t.Provider)
		}
	case ProviderOpenAI:
		if t.APIKey == "" {
			return fmt.Errorf("api_key is required for provider %q", t.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q (want mock, http or openai)", t.Provider)
	}

	if t.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", t.Timeout)
	}
	if t.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be >= 0 (got %d)", t.MaxRetries)
	}
	if t.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be >= 0 (got %v)", t.RetryDelay)
	}
	return nil
}

func (s *ScorerConfig) validate() error {
	if s.Threshold <= 0 {
		return fmt.Errorf("threshold must be > 0 (got %d)", s.Threshold)
	}
	return nil
}
