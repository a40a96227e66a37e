package api

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Adetisola/Rater/internal/badge"
	"github.com/Adetisola/Rater/internal/catalog"
	"github.com/Adetisola/Rater/internal/feed"
	"github.com/Adetisola/Rater/internal/ranking"
	"github.com/Adetisola/Rater/internal/tracing"
)

// Feed sort modes.
const (
	SortCurated  = "curated"
	SortNewest   = "newest"
	SortTopRated = "top-rated"
)

// FeedHandlers holds dependencies for the feed and badge HTTP handlers.
// The clock and shuffle source are injectable so tests can pin the feed
// order to a known day and sequence.
type FeedHandlers struct {
	repo      *catalog.Repository
	tuning    *ranking.Tuning
	now       func() time.Time
	newSource feed.SourceFactory
}

// NewFeedHandlers creates a new FeedHandlers instance with the real clock
// and the day-seeded LCG shuffle source.
func NewFeedHandlers(repo *catalog.Repository, tuning *ranking.Tuning) *FeedHandlers {
	return &FeedHandlers{
		repo:      repo,
		tuning:    tuning,
		now:       time.Now,
		newSource: feed.NewLCG,
	}
}

// FeedResponse represents the response for the composed feed.
type FeedResponse struct {
	Posts []PostView `json:"posts"`
	Sort  string     `json:"sort"`
	Count int        `json:"count"`
}

// BadgesResponse maps post IDs to their badge kind. At most two entries.
type BadgesResponse struct {
	Badges map[string]string `json:"badges"`
}

// CategoriesResponse lists the fixed category set in display order.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// PostResponse represents the response for a single post with its reviews.
type PostResponse struct {
	Post    PostView     `json:"post"`
	Reviews []ReviewView `json:"reviews"`
}

// badgeParams converts day-denominated badge tuning into engine parameters.
func badgeParams(tun ranking.BadgeTuning) badge.Params {
	return badge.Params{
		MinReviews:   tun.MinReviews,
		RecentWindow: time.Duration(tun.RecentWindowDays) * 24 * time.Hour,
	}
}

// parseCategories reads repeated category query parameters and validates each
// against the fixed set. An empty list means no filtering.
func parseCategories(r *http.Request) ([]catalog.Category, error) {
	var cats []catalog.Category
	for _, raw := range r.URL.Query()["category"] {
		c := catalog.Category(raw)
		if !c.Valid() {
			return nil, fmt.Errorf("unknown category: %s", raw)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

func filterPostsByCategory(posts []catalog.Post, allowed []catalog.Category) []catalog.Post {
	if len(allowed) == 0 {
		return posts
	}
	allowedSet := make(map[catalog.Category]bool, len(allowed))
	for _, c := range allowed {
		allowedSet[c] = true
	}
	filtered := make([]catalog.Post, 0, len(posts))
	for _, p := range posts {
		if allowedSet[p.Category] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Feed handles GET /feed - returns the composed feed in the requested order.
//
// Query parameters:
//   - sort: curated (default), newest, or top-rated
//   - category: repeatable category filter; badges stay global even when the
//     feed is filtered down to one category
func (h *FeedHandlers) Feed(w http.ResponseWriter, r *http.Request) {
	sortMode := r.URL.Query().Get("sort")
	if sortMode == "" {
		sortMode = SortCurated
	}
	switch sortMode {
	case SortCurated, SortNewest, SortTopRated:
	default:
		WriteError(w, r, http.StatusBadRequest, ErrCodeValidation,
			fmt.Sprintf("sort must be one of: %s, %s, %s", SortCurated, SortNewest, SortTopRated))
		return
	}

	cats, err := parseCategories(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeInvalidCategory, err.Error())
		return
	}

	_, endSpan := tracing.StartRankingSpan(r.Context(), "compose_feed", 0)
	defer endSpan(nil)

	now := h.now()
	snap := h.repo.Snapshot()

	// Badges are computed over the whole catalog before any filtering so a
	// category view shows the same badge holders as the full feed.
	badges := badge.ComputeWithParams(snap.Posts, now, badgeParams(h.tuning.Badge))

	posts := filterPostsByCategory(snap.Posts, cats)
	switch sortMode {
	case SortCurated:
		posts = feed.CuratedSort(posts, badges, now, h.newSource, h.tuning.Feed)
	case SortNewest:
		posts = append([]catalog.Post(nil), posts...)
		sort.SliceStable(posts, func(i, j int) bool {
			a, b := posts[i], posts[j]
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		})
	case SortTopRated:
		posts = append([]catalog.Post(nil), posts...)
		sort.SliceStable(posts, func(i, j int) bool {
			a, b := posts[i], posts[j]
			if a.Rating.Average != b.Rating.Average {
				return a.Rating.Average > b.Rating.Average
			}
			if a.Rating.ReviewCount != b.Rating.ReviewCount {
				return a.Rating.ReviewCount > b.Rating.ReviewCount
			}
			return a.ID < b.ID
		})
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toPostView(p, snap.Avatars, badges))
	}

	writeJSON(w, r, FeedResponse{
		Posts: views,
		Sort:  sortMode,
		Count: len(views),
	})
}

// Badges handles GET /badges - returns the current global badge assignments.
func (h *FeedHandlers) Badges(w http.ResponseWriter, r *http.Request) {
	snap := h.repo.Snapshot()
	badges := badge.ComputeWithParams(snap.Posts, h.now(), badgeParams(h.tuning.Badge))

	out := make(map[string]string, len(badges))
	for id, kind := range badges {
		out[id] = string(kind)
	}
	writeJSON(w, r, BadgesResponse{Badges: out})
}

// Categories handles GET /categories - returns the fixed category set.
func (h *FeedHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats := catalog.Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, string(c))
	}
	writeJSON(w, r, CategoriesResponse{Categories: names})
}

// PostDetail handles GET /posts/{id} - returns one post with its reviews.
func (h *FeedHandlers) PostDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, ErrCodeValidation, "post id is required")
		return
	}

	p, err := h.repo.GetPost(id)
	if err != nil {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Post not found")
		return
	}

	snap := h.repo.Snapshot()
	badges := badge.ComputeWithParams(snap.Posts, h.now(), badgeParams(h.tuning.Badge))

	writeJSON(w, r, PostResponse{
		Post:    toPostView(p, snap.Avatars, badges),
		Reviews: toReviewViews(p.Reviews),
	})
}
