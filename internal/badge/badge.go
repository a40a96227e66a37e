// Package badge implements the badge engine: the pure computation that
// decides which post in the whole catalog earns the Top Rated distinction
// and which earns Most Discussed. Badges are global (not per category),
// there are at most two of them in total, and a post never holds both.
package badge

import (
	"sort"
	"time"

	"github.com/Adetisola/Rater/internal/catalog"
)

// Kind identifies a badge.
type Kind string

const (
	// KindTopRated marks the single highest-rated eligible post.
	KindTopRated Kind = "top-rated"
	// KindMostDiscussed marks the eligible post with the most recent-window
	// review activity, excluding the Top Rated winner.
	KindMostDiscussed Kind = "most-discussed"
)

// Params are the eligibility knobs. Both gates are evaluated against review
// data, never against the post's own creation time.
type Params struct {
	// MinReviews is the minimum aggregate review count for candidacy.
	MinReviews int
	// RecentWindow is the lookback over review timestamps; a candidate needs
	// at least one review inside it, and Most Discussed ranks by the count
	// inside it.
	RecentWindow time.Duration
}

// DefaultParams returns the production eligibility gates.
func DefaultParams() Params {
	return Params{
		MinReviews:   5,
		RecentWindow: 7 * 24 * time.Hour,
	}
}

// Compute assigns badges using the default eligibility parameters.
func Compute(posts []catalog.Post, now time.Time) map[string]Kind {
	return ComputeWithParams(posts, now, DefaultParams())
}

// ComputeWithParams assigns badges over the full post set. The result maps
// post ID to badge kind; posts without a badge are absent. An empty or fully
// ineligible input yields an empty map, never an error.
//
// The function is pure: it reads the snapshot, allocates its own candidate
// slices, and never mutates the input.
func ComputeWithParams(posts []catalog.Post, now time.Time, params Params) map[string]Kind {
	badges := make(map[string]Kind)

	candidates := make([]*catalog.Post, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if !eligible(p, now, params) {
			continue
		}
		candidates = append(candidates, p)
	}
	if len(candidates) == 0 {
		return badges
	}

	topRated := pickTopRated(candidates)
	badges[topRated.ID] = KindTopRated

	// No stacking: Most Discussed is selected from the remaining pool.
	remaining := make([]*catalog.Post, 0, len(candidates)-1)
	for _, p := range candidates {
		if p.ID != topRated.ID {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) > 0 {
		mostDiscussed := pickMostDiscussed(remaining, now, params.RecentWindow)
		badges[mostDiscussed.ID] = KindMostDiscussed
	}

	return badges
}

func eligible(p *catalog.Post, now time.Time, params Params) bool {
	if p.Rating.ReviewCount < params.MinReviews {
		return false
	}
	if p.Rating.IsLocked {
		return false
	}
	return p.RecentReviewCount(now, params.RecentWindow) > 0
}

// pickTopRated resolves the Top Rated winner with the full tie-break chain:
// higher average, then higher review count, then more recent latest review,
// then older post. Post ID is the final fallback so the order stays total
// even for true duplicates.
func pickTopRated(candidates []*catalog.Post) *catalog.Post {
	sorted := append([]*catalog.Post(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Rating.Average != b.Rating.Average {
			return a.Rating.Average > b.Rating.Average
		}
		if a.Rating.ReviewCount != b.Rating.ReviewCount {
			return a.Rating.ReviewCount > b.Rating.ReviewCount
		}
		aLatest, bLatest := a.LatestReviewAt(), b.LatestReviewAt()
		if !aLatest.Equal(bLatest) {
			return aLatest.After(bLatest)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return sorted[0]
}

// pickMostDiscussed resolves the Most Discussed winner: most reviews inside
// the recent window, then most recent latest review, then older post.
func pickMostDiscussed(candidates []*catalog.Post, now time.Time, window time.Duration) *catalog.Post {
	sorted := append([]*catalog.Post(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		aRecent := a.RecentReviewCount(now, window)
		bRecent := b.RecentReviewCount(now, window)
		if aRecent != bRecent {
			return aRecent > bRecent
		}
		aLatest, bLatest := a.LatestReviewAt(), b.LatestReviewAt()
		if !aLatest.Equal(bLatest) {
			return aLatest.After(bLatest)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return sorted[0]
}
