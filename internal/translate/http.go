package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/michaperki/mila/internal/model"
)

// HTTPTranslator posts requests as JSON to a translation endpoint that answers
// with a Response document.
type HTTPTranslator struct {
	url        string
	httpClient *http.Client
	retryDelay time.Duration
	maxRetries int
	log        *slog.Logger
}

// NewHTTPTranslator creates an HTTPTranslator for url. maxRetries < 0 is
// treated as 0.
func NewHTTPTranslator(url string, timeout, retryDelay time.Duration, maxRetries int, logger *slog.Logger) *HTTPTranslator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &HTTPTranslator{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: retryDelay,
		maxRetries: maxRetries,
		log:        logger.With("component", "translate.http"),
	}
}

// Translate sends req and decodes the answer. Network errors and 5xx answers
// are retried up to maxRetries times; if every attempt fails the error wraps
// model.ErrUnavailable.
func (t *HTTPTranslator) Translate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("translate http: encode request: %w", err)
	}

	t.log.DebugContext(ctx, "translate request", slog.Int("sentences", len(req.Sentences)))

	resp, err := t.doWithRetry(ctx, body)
	if err != nil {
		t.log.ErrorContext(ctx, "translate request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("translate http: request failed: %w: %w", model.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("translate http: status %d: %w", resp.StatusCode, model.ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("translate http: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("translate http: decode json: %w", err)
	}
	if err := checkShape(req, &out); err != nil {
		return nil, fmt.Errorf("translate http: %w", err)
	}

	t.log.DebugContext(ctx, "translate response",
		slog.Int("status", resp.StatusCode),
		slog.Int("translations", len(out.SentenceTranslations)),
	)
	return &out, nil
}

// doWithRetry executes the request, retrying on 5xx or network errors with
// backoff between attempts.
func (t *HTTPTranslator) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	for attempt := 1; ; attempt++ {
		resp, err := t.do(ctx, body)

		shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
		if !shouldRetry || attempt > t.maxRetries {
			return resp, err
		}

		// Don't retry if context is already cancelled.
		if ctx.Err() != nil {
			return resp, err
		}

		reason := "network error"
		if err == nil && resp != nil {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		t.log.WarnContext(ctx, "translate retry", slog.String("reason", reason), slog.Int("attempt", attempt))

		// Close body from the failed attempt before retrying.
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}

		if err := sleep(ctx, calculateBackoff(t.retryDelay, attempt)); err != nil {
			return nil, err
		}
	}
}

func (t *HTTPTranslator) do(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return t.httpClient.Do(req)
}
