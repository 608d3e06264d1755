package store

import (
	"context"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/michaperki/mila/internal/model"
)

// ReviewParams holds parameters for assembling a review set.
type ReviewParams struct {
	Root   string
	Budget int // max characters of rendered lines
}

// ReviewItem is a scored vocabulary item in a review set.
type ReviewItem struct {
	model.StarredItem
	Line    string  `json:"line"`
	Score   float64 `json:"score"`
	Excerpt bool    `json:"excerpt,omitempty"`
}

// ReviewResult is an assembled review set.
type ReviewResult struct {
	Budget int          `json:"budget"`
	Used   int          `json:"used"`
	Items  []ReviewItem `json:"items"`
}

// Review ranks vocabulary by frequency, recency and whether a root is known,
// then packs the rendered lines greedily into a character budget.
func (s *SQLiteStore) Review(ctx context.Context, p ReviewParams) (*ReviewResult, error) {
	budget := p.Budget
	if budget <= 0 {
		budget = 2000
	}

	items, err := s.ListVocab(ctx, ListVocabParams{Root: p.Root, Limit: 500})
	if err != nil {
		return nil, err
	}

	result := &ReviewResult{Budget: budget, Items: []ReviewItem{}}
	if len(items) == 0 {
		return result, nil
	}

	now := time.Now()
	candidates := make([]ReviewItem, 0, len(items))
	for _, v := range items {
		candidates = append(candidates, ReviewItem{
			StarredItem: v,
			Line:        reviewLine(v),
			Score:       reviewScore(v, now),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	used := 0
	for _, c := range candidates {
		n := utf8.RuneCountInString(c.Line)
		if used+n <= budget {
			result.Items = append(result.Items, c)
			used += n
			continue
		}
		if remaining := budget - used; remaining >= 20 {
			c.Line = string([]rune(c.Line)[:remaining-1]) + "…"
			c.Excerpt = true
			result.Items = append(result.Items, c)
			used += remaining
		}
		break
	}
	result.Used = used

	return result, nil
}

func reviewScore(v model.StarredItem, now time.Time) float64 {
	// Frequency: log scale, saturating at 20 stars.
	freq := math.Log(float64(v.Frequency)+1) / math.Log(21)
	if freq > 1 {
		freq = 1
	}

	// Recency: exponential decay over days since last starred.
	age := now.Sub(v.CreatedAt).Hours() / 24.0
	if age < 0 {
		age = 0
	}
	recency := math.Exp(-0.1 * age)

	rooted := 0.0
	if v.Root != "" {
		rooted = 1
	}

	score := freq*0.5 + recency*0.3 + rooted*0.2
	return math.Round(score*100) / 100
}

func reviewLine(v model.StarredItem) string {
	line := v.Lemma
	if v.Root != "" && v.Root != v.Lemma {
		line += " (" + v.Root + ")"
	}
	if v.Gloss != "" {
		line += ": " + v.Gloss
	}
	return line
}
