package search

import (
	"testing"
	"time"

	"github.com/Adetisola/Rater/internal/catalog"
	"github.com/Adetisola/Rater/internal/ranking"
)

func testSnapshot() catalog.Snapshot {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return catalog.Snapshot{
		Version: 7,
		Avatars: map[string]catalog.Avatar{
			"d1": {ID: "d1", Name: "Timi Adeyemi", BgColor: "#FF6B6B"},
			"d2": {ID: "d2", Name: "Noah Parker", BgColor: "#4ECDC4"},
			"d3": {ID: "d3", Name: "Spammer", IsBlocked: true},
		},
		Posts: []catalog.Post{
			{
				ID:          "p1",
				Title:       "Neon Poster Series",
				Description: "A bold set of event posters",
				Category:    catalog.CategoryPosterDesign,
				DesignerID:  "d1",
				CreatedAt:   now,
			},
			{
				ID:          "p2",
				Title:       "Minimal Landing Page",
				Description: "Clean poster-inspired hero section",
				Category:    catalog.CategoryWebDesign,
				DesignerID:  "d2",
				CreatedAt:   now,
			},
			{
				ID:          "p3",
				Title:       "Spam Giveaway",
				Description: "Totally real offer",
				Category:    catalog.CategoryFlyerDesign,
				DesignerID:  "d3",
				CreatedAt:   now,
			},
		},
		Categories: catalog.Categories(),
	}
}

func buildTestIndexes(t *testing.T) *Indexes {
	t.Helper()
	return Build(testSnapshot(), ranking.DefaultTuning().Search)
}

func TestBuildCarriesSnapshotVersion(t *testing.T) {
	ix := buildTestIndexes(t)
	if ix.Version != 7 {
		t.Errorf("Version = %d, want 7", ix.Version)
	}
}

func TestSearchAllTypoToleratesOneEdit(t *testing.T) {
	ix := buildTestIndexes(t)

	results := ix.SearchAll("postr", DefaultLimits())
	if len(results.Posts) == 0 {
		t.Fatal("expected post hits for a one-edit typo")
	}
	if results.Posts[0].Post.ID != "p1" {
		t.Errorf("best post = %s, want p1 (title hit beats description hit)", results.Posts[0].Post.ID)
	}
}

func TestSearchAllShortQueryReturnsEmptySections(t *testing.T) {
	ix := buildTestIndexes(t)

	for _, q := range []string{"", "p", "  !  "} {
		results := ix.SearchAll(q, DefaultLimits())
		if results.Designers == nil || results.Posts == nil || results.Categories == nil {
			t.Fatalf("query %q: sections must be empty, not nil", q)
		}
		if len(results.Designers)+len(results.Posts)+len(results.Categories) != 0 {
			t.Errorf("query %q: expected no results, got %+v", q, results)
		}
	}
}

func TestSearchAllTitleOutranksDescription(t *testing.T) {
	ix := buildTestIndexes(t)

	results := ix.SearchAll("poster", DefaultLimits())
	if len(results.Posts) < 2 {
		t.Fatalf("expected both poster-matching posts, got %d", len(results.Posts))
	}
	// p1 matches "poster" in the title (weight 1.0), p2 only in the
	// description (weight 0.5); the title hit must rank first.
	if results.Posts[0].Post.ID != "p1" || results.Posts[1].Post.ID != "p2" {
		t.Errorf("order = [%s %s], want [p1 p2]",
			results.Posts[0].Post.ID, results.Posts[1].Post.ID)
	}
	if results.Posts[0].Score >= results.Posts[1].Score {
		t.Errorf("scores not strictly improving: %v >= %v",
			results.Posts[0].Score, results.Posts[1].Score)
	}
}

func TestSearchAllCategorySection(t *testing.T) {
	ix := buildTestIndexes(t)

	results := ix.SearchAll("poster", DefaultLimits())
	if len(results.Categories) == 0 {
		t.Fatal("expected a category hit for 'poster'")
	}
	if results.Categories[0].Category != catalog.CategoryPosterDesign {
		t.Errorf("category = %q, want %q", results.Categories[0].Category, catalog.CategoryPosterDesign)
	}
}

func TestSearchAllBlockedDesignerExcluded(t *testing.T) {
	ix := buildTestIndexes(t)

	results := ix.SearchAll("spammer", DefaultLimits())
	if len(results.Designers) != 0 {
		t.Errorf("blocked designer surfaced in results: %+v", results.Designers)
	}
}

func TestSearchAllFindsPostByDesignerName(t *testing.T) {
	ix := buildTestIndexes(t)

	results := ix.SearchAll("adeyemi", DefaultLimits())

	foundPost := false
	for _, pr := range results.Posts {
		if pr.Post.ID == "p1" {
			foundPost = true
		}
	}
	if !foundPost {
		t.Error("post not findable by its designer's name")
	}

	foundDesigner := false
	for _, dr := range results.Designers {
		if dr.Avatar.ID == "d1" {
			foundDesigner = true
		}
	}
	if !foundDesigner {
		t.Error("designer not findable by name")
	}
}

func TestSearchAllBlockedDesignerNameNotDenormalized(t *testing.T) {
	ix := buildTestIndexes(t)

	// p3 belongs to the blocked designer; its posts must not be findable
	// through the blocked name.
	results := ix.SearchAll("spammer", DefaultLimits())
	for _, pr := range results.Posts {
		if pr.Post.ID == "p3" {
			t.Error("post findable via blocked designer name")
		}
	}
}

func TestSearchAllSectionLimits(t *testing.T) {
	ix := buildTestIndexes(t)

	results := ix.SearchAll("design", Limits{Designers: 1, Posts: 1, Categories: 2})
	if len(results.Posts) > 1 {
		t.Errorf("posts = %d, want at most 1", len(results.Posts))
	}
	if len(results.Categories) > 2 {
		t.Errorf("categories = %d, want at most 2", len(results.Categories))
	}
}

func TestSearchPostsFlatOrder(t *testing.T) {
	ix := buildTestIndexes(t)

	results := ix.SearchPosts("poster", 0)
	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score > results[i].Score {
			t.Errorf("relevance order violated at %d", i)
		}
	}
}

func TestSearchPostsShortQuery(t *testing.T) {
	ix := buildTestIndexes(t)
	if got := ix.SearchPosts("p", 0); len(got) != 0 {
		t.Errorf("single-character query returned %d results, want 0", len(got))
	}
}

func TestFilterByCategory(t *testing.T) {
	ix := buildTestIndexes(t)
	results := ix.SearchPosts("poster", 0)

	filtered := FilterByCategory(results, []catalog.Category{catalog.CategoryWebDesign})
	for _, pr := range filtered {
		if pr.Post.Category != catalog.CategoryWebDesign {
			t.Errorf("post %s has category %q after filtering", pr.Post.ID, pr.Post.Category)
		}
	}

	// Empty allowed set is the identity
	if got := FilterByCategory(results, nil); len(got) != len(results) {
		t.Errorf("nil filter dropped results: %d != %d", len(got), len(results))
	}
}
