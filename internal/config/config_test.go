package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "mila.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
db:
  path: "/tmp/mila-test.db"

log:
  level: "debug"
  format: "json"

lexicon:
  path: "/opt/lexicon"

translate:
  provider: "http"
  url: "http://localhost:8787/api/translate"
  timeout: "5s"
  max_retries: 1
  retry_delay: "10ms"
  cache_ttl: "1h"

scorer:
  definite_article: 4
  threshold: 3
`

func TestLoad_ValidYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("MILA_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/mila-test.db", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/opt/lexicon", cfg.Lexicon.Path)

	assert.Equal(t, ProviderHTTP, cfg.Translate.Provider)
	assert.Equal(t, "http://localhost:8787/api/translate", cfg.Translate.URL)
	assert.Equal(t, 5*time.Second, cfg.Translate.Timeout)
	assert.Equal(t, 1, cfg.Translate.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, cfg.Translate.RetryDelay)
	assert.Equal(t, time.Hour, cfg.Translate.CacheTTL)
	assert.Equal(t, "he", cfg.Translate.SourceLang, "default kept")
	assert.Equal(t, "gpt-4o-mini", cfg.Translate.Model, "default kept")

	assert.Equal(t, 4, cfg.Scorer.DefiniteArticle)
	assert.Equal(t, 3, cfg.Scorer.Threshold)
	assert.Equal(t, -1, cfg.Scorer.PluralPenalty, "default kept")
}

func TestLoad_ZeroScorerWeights(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeYAML(t, t.TempDir(), `
db:
  path: "/tmp/mila-test.db"
scorer:
  plural_penalty: 0
  definite_article: 0
`)
	t.Setenv("MILA_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Scorer.PluralPenalty)
	assert.Equal(t, 0, cfg.Scorer.DefiniteArticle)
	assert.Equal(t, 3, cfg.Scorer.Pronoun, "unset weights keep their default")
	assert.Equal(t, 2, cfg.Scorer.Threshold)
}

func TestLoad_ZeroScorerWeightFromENV(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MILA_CONFIG", "")
	t.Setenv("MILA_SCORER_VERB_AFFIX", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Scorer.VerbAffix)
	assert.Equal(t, 2, cfg.Scorer.Infinitive)
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("MILA_CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("MILA_SCORER_THRESHOLD", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Scorer.Threshold)
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MILA_CONFIG", "")
	t.Setenv("MILA_DB", "/tmp/env-only.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env-only.db", cfg.DB.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ProviderMock, cfg.Translate.Provider)
	assert.Equal(t, 30*time.Second, cfg.Translate.Timeout)
	assert.Equal(t, 2, cfg.Translate.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Translate.RetryDelay)
	assert.Equal(t, 24*time.Hour, cfg.Translate.CacheTTL)
	assert.Equal(t, "en", cfg.Translate.TargetLang)
	assert.Equal(t, 3, cfg.Scorer.DefiniteArticle)
	assert.Equal(t, 2, cfg.Scorer.Infinitive)
	assert.Equal(t, 3, cfg.Scorer.Pronoun)
	assert.Equal(t, 2, cfg.Scorer.VerbAffix)
	assert.Equal(t, -1, cfg.Scorer.PluralPenalty)
	assert.Equal(t, 3, cfg.Scorer.ShortBaseMin)
	assert.Equal(t, 2, cfg.Scorer.Threshold)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MILA_CONFIG", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MILA_DB=/tmp/from-dotenv.db\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("MILA_DB") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.db", cfg.DB.Path)
}

func TestLoad_ExpandsHome(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MILA_CONFIG", "")
	t.Setenv("MILA_DB", "~/mila/test.db")

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "mila", "test.db"), cfg.DB.Path)
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("MILA_CONFIG", "/nonexistent/mila.yaml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: file")
}

func TestLoad_InvalidProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MILA_CONFIG", "")
	t.Setenv("MILA_TRANSLATE_PROVIDER", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: validate")
	assert.Contains(t, err.Error(), "unknown provider")
}

func validConfig() Config {
	return Config{
		DB:  DBConfig{Path: "/tmp/x.db"},
		Log: LogConfig{Level: "info", Format: "text"},
		Translate: TranslateConfig{
			Provider:   ProviderMock,
			Timeout:    time.Second,
			MaxRetries: 1,
		},
		Scorer: ScorerConfig{Threshold: 2},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty db path", func(c *Config) { c.DB.Path = " " }, "db.path"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"http without url", func(c *Config) { c.Translate.Provider = ProviderHTTP }, "url is required"},
		{"http with url", func(c *Config) {
			c.Translate.Provider = ProviderHTTP
			c.Translate.URL = "http://x"
		}, ""},
		{"openai without key", func(c *Config) { c.Translate.Provider = ProviderOpenAI }, "api_key is required"},
		{"unknown provider", func(c *Config) { c.Translate.Provider = "x" }, "unknown provider"},
		{"zero timeout", func(c *Config) { c.Translate.Timeout = 0 }, "timeout"},
		{"negative retries", func(c *Config) { c.Translate.MaxRetries = -1 }, "max_retries"},
		{"negative retry delay", func(c *Config) { c.Translate.RetryDelay = -time.Second }, "retry_delay"},
		{"zero threshold", func(c *Config) { c.Scorer.Threshold = 0 }, "threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	got, err := ExpandHome("/abs/path.db")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path.db", got)

	got, err = ExpandHome("rel~/x")
	require.NoError(t, err)
	assert.Equal(t, "rel~/x", got)
}
