package search

import (
	"strings"

	"github.com/Adetisola/Rater/internal/catalog"
)

// Limits caps the number of results per section of SearchAll.
type Limits struct {
	Designers  int
	Posts      int
	Categories int
}

// DefaultLimits matches the search dropdown's section sizes.
func DefaultLimits() Limits {
	return Limits{Designers: 3, Posts: 10, Categories: 3}
}

// PostResult is one post hit with its relevance score (lower is better) and
// the raw matches needed for highlighting.
type PostResult struct {
	Post    catalog.Post
	Score   float64
	Matches []Match
}

// DesignerResult is one designer hit.
type DesignerResult struct {
	Avatar  catalog.Avatar
	Score   float64
	Matches []Match
}

// CategoryResult is one category hit.
type CategoryResult struct {
	Category catalog.Category
	Score    float64
	Matches  []Match
}

// SectionedResults groups hits by entity type for the search dropdown.
type SectionedResults struct {
	Designers  []DesignerResult
	Posts      []PostResult
	Categories []CategoryResult
}

// prepareQuery normalizes the raw query and returns its tokens, or nil when
// the query is below the minimum meaningful length (including queries that
// normalize to nothing, e.g. pure punctuation).
func (ix *Indexes) prepareQuery(query string) []string {
	norm := NormalizeText(query)
	if len(norm) < ix.minQueryLength {
		return nil
	}
	return strings.Fields(norm)
}

// SearchAll queries the three indexes and returns sectioned results, each
// section capped by its limit. Short queries return all-empty sections.
func (ix *Indexes) SearchAll(query string, limits Limits) SectionedResults {
	out := SectionedResults{
		Designers:  []DesignerResult{},
		Posts:      []PostResult{},
		Categories: []CategoryResult{},
	}
	tokens := ix.prepareQuery(query)
	if tokens == nil {
		return out
	}

	for _, r := range capResults(ix.designers.search(tokens), limits.Designers) {
		out.Designers = append(out.Designers, DesignerResult{
			Avatar:  ix.avatarByID[r.id],
			Score:   r.score,
			Matches: r.matches,
		})
	}
	for _, r := range capResults(ix.posts.search(tokens), limits.Posts) {
		out.Posts = append(out.Posts, PostResult{
			Post:    ix.postByID[r.id],
			Score:   r.score,
			Matches: r.matches,
		})
	}
	for _, r := range capResults(ix.categories.search(tokens), limits.Categories) {
		out.Categories = append(out.Categories, CategoryResult{
			Category: catalog.Category(r.id),
			Score:    r.score,
			Matches:  r.matches,
		})
	}
	return out
}

// SearchPosts returns a flat relevance-ranked post list. Active-search mode
// feeds the grid from this directly, bypassing the curated scheduler, so the
// order here is final: relevance, never date or rating.
func (ix *Indexes) SearchPosts(query string, limit int) []PostResult {
	results := []PostResult{}
	tokens := ix.prepareQuery(query)
	if tokens == nil {
		return results
	}
	for _, r := range capResults(ix.posts.search(tokens), limit) {
		results = append(results, PostResult{
			Post:    ix.postByID[r.id],
			Score:   r.score,
			Matches: r.matches,
		})
	}
	return results
}

func capResults(results []indexResult, limit int) []indexResult {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// FilterByCategory keeps only post results whose category is in the allowed
// set. An empty allowed set means no filtering.
func FilterByCategory(results []PostResult, allowed []catalog.Category) []PostResult {
	if len(allowed) == 0 {
		return results
	}
	allowedSet := make(map[catalog.Category]bool, len(allowed))
	for _, c := range allowed {
		allowedSet[c] = true
	}
	filtered := []PostResult{}
	for _, r := range results {
		if allowedSet[r.Post.Category] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
