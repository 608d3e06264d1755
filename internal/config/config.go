// Package config loads application settings from an optional YAML file,
// environment variables and defaults.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Translate TranslateConfig `yaml:"translate"`
	Scorer    ScorerConfig    `yaml:"scorer"`
}

// DBConfig holds the SQLite location.
type DBConfig struct {
	Path string `yaml:"path" env:"MILA_DB" env-default:"~/.mila/mila.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// LexiconConfig points at an external lexicon directory. Empty means the
// embedded data.
type LexiconConfig struct {
	Path string `yaml:"path" env:"MILA_LEXICON_DIR"`
}

// Translation providers.
const (
	ProviderMock   = "mock"
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

// TranslateConfig holds translation collaborator settings.
type TranslateConfig struct {
	Provider   string        `yaml:"provider"    env:"MILA_TRANSLATE_PROVIDER"    env-default:"mock"`
	URL        string        `yaml:"url"         env:"MILA_TRANSLATE_URL"`
	APIKey     string        `yaml:"api_key"     env:"OPENAI_API_KEY"`
	Model      string        `yaml:"model"       env:"MILA_TRANSLATE_MODEL"       env-default:"gpt-4o-mini"`
	Timeout    time.Duration `yaml:"timeout"     env:"MILA_TRANSLATE_TIMEOUT"     env-default:"30s"`
	MaxRetries int           `yaml:"max_retries" env:"MILA_TRANSLATE_MAX_RETRIES" env-default:"2"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"MILA_TRANSLATE_RETRY_DELAY" env-default:"500ms"`
	CacheTTL   time.Duration `yaml:"cache_ttl"   env:"MILA_TRANSLATE_CACHE_TTL"   env-default:"24h"`
	SourceLang string        `yaml:"source_lang" env:"MILA_TRANSLATE_SOURCE_LANG" env-default:"he"`
	TargetLang string        `yaml:"target_lang" env:"MILA_TRANSLATE_TARGET_LANG" env-default:"en"`
}

// ScorerConfig holds the clitic-split weights. Zero is a meaningful weight,
// so defaults come from DefaultScorerConfig rather than env-default tags.
type ScorerConfig struct {
	DefiniteArticle int `yaml:"definite_article" env:"MILA_SCORER_DEFINITE_ARTICLE"`
	Infinitive      int `yaml:"infinitive"       env:"MILA_SCORER_INFINITIVE"`
	Pronoun         int `yaml:"pronoun"          env:"MILA_SCORER_PRONOUN"`
	VerbAffix       int `yaml:"verb_affix"       env:"MILA_SCORER_VERB_AFFIX"`
	PluralPenalty   int `yaml:"plural_penalty"   env:"MILA_SCORER_PLURAL_PENALTY"`
	ShortBaseMin    int `yaml:"short_base_min"   env:"MILA_SCORER_SHORT_BASE_MIN"`
	Threshold       int `yaml:"threshold"        env:"MILA_SCORER_THRESHOLD"`
}

// DefaultScorerConfig returns the baseline clitic-split weights.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		DefiniteArticle: 3,
		Infinitive:      2,
		Pronoun:         3,
		VerbAffix:       2,
		PluralPenalty:   -1,
		ShortBaseMin:    3,
		Threshold:       2,
	}
}
