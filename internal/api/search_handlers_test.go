package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Adetisola/Rater/internal/catalog"
	"github.com/Adetisola/Rater/internal/ranking"
)

func newTestSearchHandlers(t *testing.T) (*SearchHandlers, *catalog.Repository) {
	t.Helper()
	repo := newTestRepo(t)
	return NewSearchHandlers(repo, ranking.DefaultTuning(), nil), repo
}

func getSearch(t *testing.T, h *SearchHandlers, target string) (*httptest.ResponseRecorder, SearchResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	var resp SearchResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding search response: %v", err)
		}
	}
	return rec, resp
}

func getSearchPosts(t *testing.T, h *SearchHandlers, target string) (*httptest.ResponseRecorder, SearchPostsResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.SearchPosts(rec, req)

	var resp SearchPostsResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding search posts response: %v", err)
		}
	}
	return rec, resp
}

func TestSearchSectionedResponse(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	rec, resp := getSearch(t, h, "/search?q=poster")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if resp.Query != "poster" {
		t.Errorf("query = %q, want poster", resp.Query)
	}
	if len(resp.Posts) == 0 || resp.Posts[0].Post.ID != "p1" {
		t.Fatalf("posts = %+v, want p1 first", resp.Posts)
	}
	if resp.Posts[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", resp.Posts[0].Score)
	}

	foundCategory := false
	for _, c := range resp.Categories {
		if c.Category == "Poster Design" {
			foundCategory = true
		}
	}
	if !foundCategory {
		t.Errorf("categories = %+v, want Poster Design present", resp.Categories)
	}
}

func TestSearchDesignerSection(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	_, resp := getSearch(t, h, "/search?q=adeyemi")

	if len(resp.Designers) != 1 || resp.Designers[0].Designer.Name != "Timi Adeyemi" {
		t.Fatalf("designers = %+v, want Timi Adeyemi", resp.Designers)
	}

	joined := ""
	for _, s := range resp.Designers[0].NameSegments {
		joined += s.Text
	}
	if joined != "Timi Adeyemi" {
		t.Errorf("name segments concatenate to %q, want original name", joined)
	}
}

func TestSearchBlockedDesignerHidden(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	_, resp := getSearch(t, h, "/search?q=blocked")

	if len(resp.Designers) != 0 {
		t.Errorf("designers = %+v, want blocked identity hidden", resp.Designers)
	}
	for _, p := range resp.Posts {
		if p.Post.ID == "p3" {
			t.Errorf("post by blocked designer surfaced via designer name match")
		}
	}
}

func TestSearchShortQueryEmptySections(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	rec, resp := getSearch(t, h, "/search?q=p")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(resp.Designers) != 0 || len(resp.Posts) != 0 || len(resp.Categories) != 0 {
		t.Errorf("sections not empty for short query: %+v", resp)
	}
	// Empty sections must serialize as arrays, not null, so type-ahead
	// clients can iterate without nil checks.
	body := rec.Body.String()
	for _, field := range []string{`"designers":[]`, `"posts":[]`, `"categories":[]`} {
		if !strings.Contains(body, field) {
			t.Errorf("body missing %s: %s", field, body)
		}
	}
}

func TestSearchTitleSegmentsRoundTrip(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	_, resp := getSearch(t, h, "/search?q=neon")

	if len(resp.Posts) == 0 {
		t.Fatal("no post results for neon")
	}
	hit := resp.Posts[0]
	joined := ""
	matched := false
	for _, s := range hit.TitleSegments {
		joined += s.Text
		if s.IsMatch {
			matched = true
		}
	}
	if joined != hit.Post.Title {
		t.Errorf("segments concatenate to %q, want %q", joined, hit.Post.Title)
	}
	if !matched {
		t.Error("no matched segment in title highlighting")
	}
}

func TestSearchPostsFlat(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	rec, resp := getSearchPosts(t, h, "/search/posts?q=poster")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if resp.Count != len(resp.Results) {
		t.Errorf("count = %d with %d results", resp.Count, len(resp.Results))
	}
	if len(resp.Results) == 0 || resp.Results[0].Post.ID != "p1" {
		t.Fatalf("results = %+v, want p1 first", resp.Results)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i].Score < resp.Results[i-1].Score {
			t.Errorf("results not in ascending distance order at %d", i)
		}
	}
}

func TestSearchPostsCategoryFilter(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	_, resp := getSearchPosts(t, h, "/search/posts?q=poster&category=Web+Design")

	if len(resp.Results) == 0 {
		t.Fatal("no results; expected p2 via its poster-inspired description")
	}
	for _, r := range resp.Results {
		if r.Post.Category != "Web Design" {
			t.Errorf("result %s has category %q, want Web Design only", r.Post.ID, r.Post.Category)
		}
	}
}

func TestSearchPostsInvalidCategory(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	rec, _ := getSearchPosts(t, h, "/search/posts?q=poster&category=Knitting")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, rec); resp.Error.Code != ErrCodeInvalidCategory {
		t.Errorf("error code = %q, want %q", resp.Error.Code, ErrCodeInvalidCategory)
	}
}

func TestSearchPostsLimitValidation(t *testing.T) {
	h, _ := newTestSearchHandlers(t)

	for _, bad := range []string{"0", "-1", "abc"} {
		rec, _ := getSearchPosts(t, h, "/search/posts?q=poster&limit="+bad)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d, want %d", bad, rec.Code, http.StatusBadRequest)
			continue
		}
		if resp := decodeError(t, rec); resp.Error.Code != ErrCodeValidation {
			t.Errorf("limit=%s error code = %q, want %q", bad, resp.Error.Code, ErrCodeValidation)
		}
	}
}

func TestSearchPostsLimitApplied(t *testing.T) {
	h, _ := newTestSearchHandlers(t)
	_, resp := getSearchPosts(t, h, "/search/posts?q=design&limit=1")

	if len(resp.Results) > 1 {
		t.Errorf("results = %d, want at most 1", len(resp.Results))
	}
}

func TestSearchIndexRebuildsWhenCatalogChanges(t *testing.T) {
	h, repo := newTestSearchHandlers(t)

	_, before := getSearchPosts(t, h, "/search/posts?q=gradient")
	if len(before.Results) != 0 {
		t.Fatalf("unexpected hits before insert: %+v", before.Results)
	}

	if _, err := repo.AddPost(catalog.Post{
		ID:         "p4",
		Title:      "Gradient Logo Sketches",
		Category:   catalog.CategoryLogoDesign,
		DesignerID: "a1",
		CreatedAt:  fixedNow().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("AddPost: %v", err)
	}

	_, after := getSearchPosts(t, h, "/search/posts?q=gradient")
	if len(after.Results) != 1 || after.Results[0].Post.ID != "p4" {
		t.Fatalf("results after insert = %+v, want p4", after.Results)
	}
}
