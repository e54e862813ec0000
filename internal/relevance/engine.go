// Package relevance implements in-process scoring of blogs against a free
// text query and against a reference blog. Scoring is deterministic and has
// no side effects, so repeated calls over the same corpus rank identically.
package relevance

import (
	"sort"
	"strings"

	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/domain"
)

// Engine ranks blogs by weighted term matching.
type Engine struct {
	titleWeight      float64
	tagWeight        float64
	bodyWeight       float64
	categoryWeight   float64
	tagOverlapWeight float64
}

// New builds an engine from the configured field weights.
func New(cfg *config.RelevanceConfig) *Engine {
	return &Engine{
		titleWeight:      cfg.TitleWeight,
		tagWeight:        cfg.TagWeight,
		bodyWeight:       cfg.BodyWeight,
		categoryWeight:   cfg.CategoryWeight,
		tagOverlapWeight: cfg.TagOverlapWeight,
	}
}

// Search scores each blog against the query and returns the top matches,
// highest score first. Blogs that match no term are excluded. Ties break by
// views descending, then creation time descending, then ID ascending.
func (e *Engine) Search(query string, blogs []*domain.Blog, limit int) []domain.RankedResult {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	var results []domain.RankedResult
	for _, blog := range blogs {
		score := e.scoreQuery(terms, blog)
		if score > 0 {
			results = append(results, domain.RankedResult{Blog: blog, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Blog.Views != b.Blog.Views {
			return a.Blog.Views > b.Blog.Views
		}
		if !a.Blog.CreatedAt.Equal(b.Blog.CreatedAt) {
			return a.Blog.CreatedAt.After(b.Blog.CreatedAt)
		}
		return a.Blog.ID < b.Blog.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Related scores candidates by similarity to the target blog and returns the
// closest matches. The target itself and blogs with nothing in common are
// excluded. Ties break by views descending, then ID ascending.
func (e *Engine) Related(target *domain.Blog, candidates []*domain.Blog, limit int) []domain.RankedResult {
	var results []domain.RankedResult
	for _, blog := range candidates {
		if blog.ID == target.ID {
			continue
		}
		score := e.scoreSimilarity(target, blog)
		if score > 0 {
			results = append(results, domain.RankedResult{Blog: blog, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Blog.Views != b.Blog.Views {
			return a.Blog.Views > b.Blog.Views
		}
		return a.Blog.ID < b.Blog.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreQuery accumulates the weighted contribution of every query term.
func (e *Engine) scoreQuery(terms []string, blog *domain.Blog) float64 {
	title := strings.ToLower(blog.Title)
	body := strings.ToLower(blog.Content)
	tags := make([]string, len(blog.Tags))
	for i, tag := range blog.Tags {
		tags[i] = strings.ToLower(tag)
	}

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += e.titleWeight
		}
		for _, tag := range tags {
			if strings.Contains(tag, term) {
				score += e.tagWeight
				break
			}
		}
		score += e.bodyWeight * float64(strings.Count(body, term))
	}
	return score
}

// scoreSimilarity measures how close a candidate is to the target blog.
func (e *Engine) scoreSimilarity(target, candidate *domain.Blog) float64 {
	var score float64
	if target.Category != "" && candidate.Category == target.Category {
		score += e.categoryWeight
	}
	score += e.tagOverlapWeight * float64(tagOverlap(target.Tags, candidate.Tags))
	return score
}

// tagOverlap counts tags present in both sets, case-insensitively.
func tagOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[strings.ToLower(tag)] = struct{}{}
	}
	count := 0
	for _, tag := range b {
		if _, ok := set[strings.ToLower(tag)]; ok {
			count++
		}
	}
	return count
}

// Tokenize lowercases the query and splits it into whitespace-separated
// terms, dropping surrounding punctuation.
func Tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		term := strings.Trim(field, ".,!?;:\"'()[]")
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}
