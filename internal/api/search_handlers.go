package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Adetisola/Rater/internal/catalog"
	"github.com/Adetisola/Rater/internal/color"
	"github.com/Adetisola/Rater/internal/ranking"
	"github.com/Adetisola/Rater/internal/search"
	"github.com/Adetisola/Rater/internal/tracing"
)

// Constants for search pagination.
const (
	MaxSearchLimit     = 50 // Max post results per request
	DefaultSearchLimit = 20 // Default post results if not specified
)

// SearchHandlers holds dependencies for search HTTP handlers. The built
// index set is cached and rebuilt lazily whenever the catalog snapshot
// version moves past the cached one.
type SearchHandlers struct {
	repo    *catalog.Repository
	tuning  *ranking.Tuning
	metrics *search.Metrics
	limits  search.Limits

	mu     sync.Mutex
	cached *search.Indexes
}

// NewSearchHandlers creates a new SearchHandlers instance. metrics may be
// nil, in which case no search metrics are recorded.
func NewSearchHandlers(repo *catalog.Repository, tuning *ranking.Tuning, metrics *search.Metrics) *SearchHandlers {
	return &SearchHandlers{
		repo:    repo,
		tuning:  tuning,
		metrics: metrics,
		limits:  search.DefaultLimits(),
	}
}

// indexes returns the current index set, rebuilding when the catalog has
// changed since the last build.
func (h *SearchHandlers) indexes() *search.Indexes {
	version := h.repo.Version()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cached == nil || h.cached.Version != version {
		h.cached = search.Build(h.repo.Snapshot(), h.tuning.Search)
		h.metrics.RecordBuild(h.cached)
	}
	return h.cached
}

// SegmentView is one run of highlighted or plain text. Concatenating the
// Text of all segments reproduces the original field exactly.
type SegmentView struct {
	Text    string `json:"text"`
	IsMatch bool   `json:"is_match"`
}

// SearchPostView is one post hit with relevance score and title highlighting.
type SearchPostView struct {
	Post          PostView      `json:"post"`
	Score         float64       `json:"score"`
	TitleSegments []SegmentView `json:"title_segments"`
}

// SearchDesignerView is one designer hit with name highlighting.
type SearchDesignerView struct {
	Designer     DesignerView  `json:"designer"`
	Score        float64       `json:"score"`
	NameSegments []SegmentView `json:"name_segments"`
}

// SearchCategoryView is one category hit with name highlighting.
type SearchCategoryView struct {
	Category     string        `json:"category"`
	Score        float64       `json:"score"`
	NameSegments []SegmentView `json:"name_segments"`
}

// SearchResponse represents the sectioned response for the search dropdown.
type SearchResponse struct {
	Query      string               `json:"query"`
	Designers  []SearchDesignerView `json:"designers"`
	Posts      []SearchPostView     `json:"posts"`
	Categories []SearchCategoryView `json:"categories"`
}

// SearchPostsResponse represents the flat relevance-ranked post results.
type SearchPostsResponse struct {
	Query   string           `json:"query"`
	Results []SearchPostView `json:"results"`
	Count   int              `json:"count"`
}

func toSegmentViews(segments []search.Segment) []SegmentView {
	views := make([]SegmentView, 0, len(segments))
	for _, s := range segments {
		views = append(views, SegmentView{Text: s.Text, IsMatch: s.IsMatch})
	}
	return views
}

// Search handles GET /search - queries all three indexes and returns the
// sectioned dropdown results. Queries below the minimum length return empty
// sections rather than an error so type-ahead callers need no special case.
func (h *SearchHandlers) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	_, endSpan := tracing.StartSearchSpan(r.Context(), "all", len(q))
	defer endSpan(nil)

	start := time.Now()
	ix := h.indexes()
	results := ix.SearchAll(q, h.limits)
	h.metrics.RecordQuery("all", time.Since(start))

	snap := h.repo.Snapshot()

	resp := SearchResponse{
		Query:      q,
		Designers:  []SearchDesignerView{},
		Posts:      []SearchPostView{},
		Categories: []SearchCategoryView{},
	}
	for _, dr := range results.Designers {
		resp.Designers = append(resp.Designers, SearchDesignerView{
			Designer: DesignerView{
				ID:        dr.Avatar.ID,
				Name:      dr.Avatar.Name,
				AvatarURL: dr.Avatar.AvatarURL,
				BgColor:   dr.Avatar.BgColor,
				TextColor: color.GlyphColor(dr.Avatar.BgColor),
			},
			Score:        dr.Score,
			NameSegments: toSegmentViews(search.HighlightMatches(dr.Avatar.Name, dr.Matches, search.KeyName)),
		})
	}
	for _, pr := range results.Posts {
		resp.Posts = append(resp.Posts, SearchPostView{
			Post:          toPostView(pr.Post, snap.Avatars, nil),
			Score:         pr.Score,
			TitleSegments: toSegmentViews(search.HighlightMatches(pr.Post.Title, pr.Matches, search.KeyTitle)),
		})
	}
	for _, cr := range results.Categories {
		resp.Categories = append(resp.Categories, SearchCategoryView{
			Category:     string(cr.Category),
			Score:        cr.Score,
			NameSegments: toSegmentViews(search.HighlightMatches(string(cr.Category), cr.Matches, search.KeyName)),
		})
	}

	writeJSON(w, r, resp)
}

// SearchPosts handles GET /search/posts - the active-search grid feed. The
// result order is pure relevance; the curated scheduler never touches it.
//
// Query parameters:
//   - q: the search query (results are empty below the minimum length)
//   - category: repeatable category filter, applied after relevance ranking
//   - limit: positive integer, capped at MaxSearchLimit
func (h *SearchHandlers) SearchPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	cats, err := parseCategories(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, ErrCodeInvalidCategory, err.Error())
		return
	}

	limit := DefaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			WriteError(w, r, http.StatusBadRequest, ErrCodeValidation, "limit must be a positive integer")
			return
		}
		if limit > MaxSearchLimit {
			limit = MaxSearchLimit
		}
	}

	_, endSpan := tracing.StartSearchSpan(r.Context(), "posts", len(q))
	defer endSpan(nil)

	start := time.Now()
	ix := h.indexes()
	// Filter after ranking but before the cap so a narrow category still
	// fills its page.
	results := search.FilterByCategory(ix.SearchPosts(q, 0), cats)
	if len(results) > limit {
		results = results[:limit]
	}
	h.metrics.RecordQuery("posts", time.Since(start))

	snap := h.repo.Snapshot()

	views := make([]SearchPostView, 0, len(results))
	for _, pr := range results {
		views = append(views, SearchPostView{
			Post:          toPostView(pr.Post, snap.Avatars, nil),
			Score:         pr.Score,
			TitleSegments: toSegmentViews(search.HighlightMatches(pr.Post.Title, pr.Matches, search.KeyTitle)),
		})
	}

	writeJSON(w, r, SearchPostsResponse{
		Query:   q,
		Results: views,
		Count:   len(views),
	})
}
