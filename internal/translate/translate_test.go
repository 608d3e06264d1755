package translate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaperki/mila/internal/config"
	"github.com/michaperki/mila/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubTranslator struct {
	calls atomic.Int32
	resp  *Response
	err   error
}

func (s *stubTranslator) Translate(_ context.Context, _ Request) (*Response, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return cloneResponse(s.resp), nil
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{name: "ok", req: Request{Sentences: []string{"a"}}},
		{name: "with tokens", req: Request{Sentences: []string{"a"}, Tokens: [][]string{{"a"}}}},
		{name: "no sentences", req: Request{}, wantErr: true},
		{name: "token mismatch", req: Request{Sentences: []string{"a", "b"}, Tokens: [][]string{{"a"}}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestNewRequest(t *testing.T) {
	chunks := []model.Chunk{
		{ID: "a", Text: "שלום עולם", Tokens: []model.Token{{Idx: 0, Surface: "שלום"}, {Idx: 1, Surface: "עולם"}}},
		{ID: "b", Text: "ספר", Tokens: []model.Token{{Idx: 0, Surface: "ספר"}}},
	}
	req := NewRequest(chunks, "he", "en")
	assert.Equal(t, "he", req.SourceLang)
	assert.Equal(t, "en", req.TargetLang)
	assert.Equal(t, []string{"שלום עולם", "ספר"}, req.Sentences)
	assert.Equal(t, [][]string{{"שלום", "עולם"}, {"ספר"}}, req.Tokens)
}

func TestApply(t *testing.T) {
	chunks := []model.Chunk{
		{Text: "x", Tokens: []model.Token{{Surface: "a", Gloss: "old"}, {Surface: "b"}, {Surface: "c"}}},
		{Text: "y", Tokens: []model.Token{{Surface: "d"}}},
		{Text: "z"},
	}
	Apply(chunks, &Response{
		SentenceTranslations: []string{"X", ""},
		TokenGlosses:         [][]string{{Placeholder, "bee"}},
	})

	assert.Equal(t, "X", chunks[0].Translation)
	assert.Equal(t, "old", chunks[0].Tokens[0].Gloss, "placeholder keeps the existing gloss")
	assert.Equal(t, "bee", chunks[0].Tokens[1].Gloss)
	assert.Empty(t, chunks[0].Tokens[2].Gloss, "tokens beyond the gloss list are skipped")
	assert.Empty(t, chunks[1].Translation)
	assert.Empty(t, chunks[2].Translation)

	Apply(chunks, nil)
	assert.Equal(t, "X", chunks[0].Translation)
}

func TestMock_Sentence(t *testing.T) {
	m := NewMock(nil)
	tests := []struct {
		in   string
		want string
	}{
		{"שלום עולם", "Hello world"},
		{"שָׁלוֹם עוֹלָם.", "Hello world"},
		{"מה שלומך?", "How are you?"},
		{"ספר גדול", "Book big."},
		{"ספר ספר", "Book."},
		{"ספר xyz", "Book xyz."},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Sentence(tt.in))
		})
	}
}

func TestMock_Gloss(t *testing.T) {
	m := NewMock(nil)
	tests := []struct {
		token string
		want  string
	}{
		{"ו", "and"},
		{"ספר", "book"},
		{"ספר,", "book"},
		{"הבית", "house"},
		{"וספר", "(and-)book"},
		{"קקקק", Placeholder},
		{"...", Placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Gloss(tt.token))
		})
	}
}

func TestMock_Translate(t *testing.T) {
	m := NewMock(nil)
	req := Request{
		SourceLang: "he",
		TargetLang: "en",
		Sentences:  []string{"שלום עולם"},
		Tokens:     [][]string{{"ו", "ספר"}},
	}
	resp, err := m.Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello world"}, resp.SentenceTranslations)
	assert.Equal(t, [][]string{{"and", "book"}}, resp.TokenGlosses)

	_, err = m.Translate(context.Background(), Request{})
	assert.ErrorIs(t, err, model.ErrValidation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Translate(ctx, req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPTranslator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := Response{SentenceTranslations: make([]string, len(req.Sentences))}
		for i := range req.Sentences {
			resp.SentenceTranslations[i] = "translated"
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, time.Second, time.Millisecond, 1, discardLogger())
	resp, err := tr.Translate(context.Background(), Request{Sentences: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"translated", "translated"}, resp.SentenceTranslations)
}

func TestHTTPTranslator_RetriesOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"sentenceTranslations":["ok"]}`))
	}))
	defer srv.Close()

	tr := NewHTTPTranslator(srv.URL, time.Second, time.Millisecond, 1, discardLogger())
	resp, err := tr.Translate(context.Background(), Request{Sentences: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, resp.SentenceTranslations)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPTranslator_MaxRetries(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		failures   int32
		wantCalls  int32
		wantErr    bool
	}{
		{name: "no retries", maxRetries: 0, failures: 1, wantCalls: 1, wantErr: true},
		{name: "recovers on third retry", maxRetries: 3, failures: 3, wantCalls: 4},
		{name: "gives up", maxRetries: 2, failures: 5, wantCalls: 3, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) <= tt.failures {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = w.Write([]byte(`{"sentenceTranslations":["ok"]}`))
			}))
			defer srv.Close()

			tr := NewHTTPTranslator(srv.URL, time.Second, time.Millisecond, tt.maxRetries, discardLogger())
			_, err := tr.Translate(context.Background(), Request{Sentences: []string{"a"}})
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrUnavailable)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestHTTPTranslator_Errors(t *testing.T) {
	tests := []struct {
		name            string
		status          int
		body            string
		wantUnavailable bool
	}{
		{name: "server error", status: http.StatusInternalServerError, wantUnavailable: true},
		{name: "bad request", status: http.StatusBadRequest, body: "nope"},
		{name: "wrong shape", status: http.StatusOK, body: `{"sentenceTranslations":[]}`},
		{name: "bad json", status: http.StatusOK, body: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tr := NewHTTPTranslator(srv.URL, time.Second, time.Millisecond, 1, discardLogger())
			_, err := tr.Translate(context.Background(), Request{Sentences: []string{"a"}})
			require.Error(t, err)
			assert.Equal(t, tt.wantUnavailable, errors.Is(err, model.ErrUnavailable))
		})
	}
}

func TestHTTPTranslator_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tr := NewHTTPTranslator(url, time.Second, time.Millisecond, 1, discardLogger())
	_, err := tr.Translate(context.Background(), Request{Sentences: []string{"a"}})
	assert.ErrorIs(t, err, model.ErrUnavailable)
}

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func TestOpenAITranslator(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "json_object", body.ResponseFormat.Type)
		require.Len(t, body.Messages, 2)

		var req Request
		require.NoError(t, json.Unmarshal([]byte(body.Messages[1].Content), &req))
		assert.Equal(t, []string{"שלום עולם"}, req.Sentences)

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"sentenceTranslations":["Hello world"],"tokenGlosses":[["hello","world"]]}`))
	}))
	defer srv.Close()

	tr, err := NewOpenAITranslator(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		Timeout:    time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, discardLogger())
	require.NoError(t, err)

	resp, err := tr.Translate(context.Background(), Request{
		SourceLang: "he",
		TargetLang: "en",
		Sentences:  []string{"שלום עולם"},
		Tokens:     [][]string{{"שלום", "עולם"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello world"}, resp.SentenceTranslations)
	assert.Equal(t, [][]string{{"hello", "world"}}, resp.TokenGlosses)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAITranslator_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"sentenceTranslations":[]}`))
	}))
	defer srv.Close()

	tr, err := NewOpenAITranslator(OpenAIConfig{
		APIKey:     "k",
		BaseURL:    srv.URL + "/v1",
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	}, discardLogger())
	require.NoError(t, err)

	_, err = tr.Translate(context.Background(), Request{Sentences: []string{"a"}})
	assert.ErrorIs(t, err, model.ErrUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewOpenAITranslator_RequiresKey(t *testing.T) {
	_, err := NewOpenAITranslator(OpenAIConfig{}, discardLogger())
	assert.Error(t, err)
}

func TestCached(t *testing.T) {
	stub := &stubTranslator{resp: &Response{SentenceTranslations: []string{"one"}}}
	c := NewCached(stub, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	req := Request{Sentences: []string{"a"}}
	first, err := c.Translate(context.Background(), req)
	require.NoError(t, err)
	first.SentenceTranslations[0] = "mutated"

	second, err := c.Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "one", second.SentenceTranslations[0])
	assert.Equal(t, int32(1), stub.calls.Load())
	assert.Equal(t, 1, c.Len())

	_, err = c.Translate(context.Background(), Request{Sentences: []string{"b"}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = c.Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(3), stub.calls.Load(), "expired entries are refetched")
	assert.Equal(t, 1, c.Prune())
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	stub := &stubTranslator{err: model.ErrUnavailable}
	c := NewCached(stub, 0)

	for range 2 {
		_, err := c.Translate(context.Background(), Request{Sentences: []string{"a"}})
		assert.ErrorIs(t, err, model.ErrUnavailable)
	}
	assert.Equal(t, int32(2), stub.calls.Load())
	assert.Zero(t, c.Len())
}

func TestFallback(t *testing.T) {
	secondary := &stubTranslator{resp: &Response{SentenceTranslations: []string{"fallback"}}}

	t.Run("primary ok", func(t *testing.T) {
		primary := &stubTranslator{resp: &Response{SentenceTranslations: []string{"primary"}}}
		resp, err := NewFallback(primary, secondary, discardLogger()).Translate(context.Background(), Request{Sentences: []string{"a"}})
		require.NoError(t, err)
		assert.Equal(t, "primary", resp.SentenceTranslations[0])
	})

	t.Run("primary unavailable", func(t *testing.T) {
		primary := &stubTranslator{err: model.ErrUnavailable}
		resp, err := NewFallback(primary, secondary, discardLogger()).Translate(context.Background(), Request{Sentences: []string{"a"}})
		require.NoError(t, err)
		assert.Equal(t, "fallback", resp.SentenceTranslations[0])
	})

	t.Run("validation is not retried", func(t *testing.T) {
		primary := &stubTranslator{err: model.NewValidationError("sentences", "required")}
		before := secondary.calls.Load()
		_, err := NewFallback(primary, secondary, discardLogger()).Translate(context.Background(), Request{})
		assert.ErrorIs(t, err, model.ErrValidation)
		assert.Equal(t, before, secondary.calls.Load())
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.TranslateConfig
		want    any
		wantErr bool
	}{
		{name: "mock", cfg: config.TranslateConfig{Provider: config.ProviderMock}, want: &Mock{}},
		{name: "empty is mock", cfg: config.TranslateConfig{}, want: &Mock{}},
		{name: "http", cfg: config.TranslateConfig{Provider: config.ProviderHTTP, URL: "http://localhost:1"}, want: &Fallback{}},
		{name: "openai", cfg: config.TranslateConfig{Provider: config.ProviderOpenAI, APIKey: "k"}, want: &Fallback{}},
		{name: "openai without key", cfg: config.TranslateConfig{Provider: config.ProviderOpenAI}, wantErr: true},
		{name: "unknown", cfg: config.TranslateConfig{Provider: "carrier-pigeon"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(tt.cfg, nil, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, tr)
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	assert.Zero(t, calculateBackoff(time.Second, 0))
	assert.Zero(t, calculateBackoff(0, 3))

	d := calculateBackoff(100*time.Millisecond, 1)
	assert.GreaterOrEqual(t, d, 150*time.Millisecond)
	assert.Less(t, d, 250*time.Millisecond)

	assert.LessOrEqual(t, calculateBackoff(time.Second, 40), 30*time.Second+30*time.Second/4)
}
