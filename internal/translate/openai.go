package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/michaperki/mila/internal/model"
)

// DefaultOpenAIModel is the chat model used when none is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

const systemPrompt = `You translate Hebrew study texts for a learner.
You receive a JSON object {"sourceLang", "targetLang", "sentences": [...], "tokens": [[...], ...]}.
Return ONLY a JSON object {"sentenceTranslations": [...], "tokenGlosses": [[...], ...]} where
sentenceTranslations has exactly one natural translation per sentence, and tokenGlosses has
exactly one short dictionary gloss per token, in the same order. A token may be a one-letter
clitic (ו, ה, ב, כ, ל, מ, ש); gloss it as the word it stands for ("and", "the", "in" ...).
Use "—" for a token you cannot gloss. No additional text.`

// OpenAIConfig configures an OpenAITranslator.
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// OpenAITranslator asks a chat model for translations in JSON mode.
type OpenAITranslator struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

// NewOpenAITranslator creates an OpenAITranslator.
func NewOpenAITranslator(cfg OpenAIConfig, logger *slog.Logger) (*OpenAITranslator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("translate openai: API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}

	return &OpenAITranslator{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      modelName,
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: cfg.RetryDelay,
		log:        logger.With("component", "translate.openai"),
	}, nil
}

// Translate sends req to the chat model, retrying with exponential backoff.
// The answer must be parallel to req.
func (t *OpenAITranslator) Translate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("translate openai: encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			t.log.WarnContext(ctx, "translate retry",
				slog.Int("attempt", attempt+1),
				slog.String("error", lastErr.Error()),
			)
			if err := sleep(ctx, calculateBackoff(t.retryDelay, attempt)); err != nil {
				return nil, fmt.Errorf("translate openai: %w", err)
			}
		}

		resp, err := t.complete(ctx, string(payload))
		if err == nil {
			err = checkShape(req, resp)
		}
		if err == nil {
			return resp, nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)

		if ctx.Err() != nil {
			return nil, fmt.Errorf("translate openai: %w", ctx.Err())
		}
	}

	t.log.ErrorContext(ctx, "translate failed", slog.String("error", lastErr.Error()))
	return nil, fmt.Errorf("translate openai: failed after %d attempts: %w: %w", t.maxRetries+1, model.ErrUnavailable, lastErr)
}

func (t *OpenAITranslator) complete(ctx context.Context, payload string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.log.DebugContext(ctx, "chat completion request", slog.String("model", t.model))

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: payload},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no completion choices returned")
	}

	var out Response
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return &out, nil
}
