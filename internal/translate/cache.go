package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type cacheEntry struct {
	resp      *Response
	expiresAt time.Time
}

// Cached memoizes another Translator's answers by request. It is safe for
// concurrent use. Errors are never cached.
type Cached struct {
	next Translator
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCached wraps next. ttl <= 0 keeps entries for the life of the process.
func NewCached(next Translator, ttl time.Duration) *Cached {
	return &Cached{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Translate returns a cached answer for req or asks the wrapped Translator.
func (c *Cached) Translate(ctx context.Context, req Request) (*Response, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("translate cache: encode key: %w", err)
	}
	key := string(b)

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && (c.ttl <= 0 || c.now().Before(e.expiresAt)) {
		return cloneResponse(e.resp), nil
	}

	resp, err := c.next.Translate(ctx, req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{resp: cloneResponse(resp), expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return resp, nil
}

// Len returns the number of cached answers, expired ones included.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune drops expired answers and returns how many were removed.
func (c *Cached) Prune() int {
	if c.ttl <= 0 {
		return 0
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func cloneResponse(r *Response) *Response {
	if r == nil {
		return nil
	}
	out := &Response{SentenceTranslations: append([]string(nil), r.SentenceTranslations...)}
	if r.TokenGlosses != nil {
		out.TokenGlosses = make([][]string, len(r.TokenGlosses))
		for i, g := range r.TokenGlosses {
			out.TokenGlosses[i] = append([]string(nil), g...)
		}
	}
	return out
}
