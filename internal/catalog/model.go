// Package catalog provides the canonical data model and in-memory repository
// for posts, designers, and categories consumed by the ranking and search
// engine. The engine itself never mutates catalog data; it reads immutable
// snapshots produced by the repository.
package catalog

import (
	"math"
	"time"
)

// Category is one of the fixed set of design categories.
type Category string

// The closed set of categories. Posts outside this set are rejected.
const (
	CategoryWebDesign           Category = "Web Design"
	CategoryMobileAppDesign     Category = "Mobile App Design"
	CategoryBrandIdentityDesign Category = "Brand Identity Design"
	CategoryLogoDesign          Category = "Logo Design"
	CategoryPosterDesign        Category = "Poster Design"
	CategoryFlyerDesign         Category = "Flyer Design"
	CategorySocialMediaDesign   Category = "Social Media Design"
)

// Categories returns the full category set in display order.
func Categories() []Category {
	return []Category{
		CategoryWebDesign,
		CategoryMobileAppDesign,
		CategoryBrandIdentityDesign,
		CategoryLogoDesign,
		CategoryPosterDesign,
		CategoryFlyerDesign,
		CategorySocialMediaDesign,
	}
}

// Valid reports whether c is a member of the fixed category set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ReviewRatings holds the three 1-5 criteria scores of a single review.
type ReviewRatings struct {
	Clarity    int `json:"clarity"`
	Purpose    int `json:"purpose"`
	Aesthetics int `json:"aesthetics"`
}

// Mean returns the average of the three criteria scores.
func (r ReviewRatings) Mean() float64 {
	return float64(r.Clarity+r.Purpose+r.Aesthetics) / 3.0
}

// Review is the single canonical review shape seen by the engine.
// Upstream sources carry reviews in more than one shape (RFC 3339 created_at
// vs. precomputed unix timestamps); all of them are resolved into this type
// at the data-access boundary before ranking or search ever runs.
type Review struct {
	ID           string        `json:"id"`
	PostID       string        `json:"post_id"`
	Ratings      ReviewRatings `json:"ratings"`
	Comment      string        `json:"comment,omitempty"`
	ReviewerName string        `json:"reviewer_name,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// RatingSummary is the aggregated rating state attached to a post.
type RatingSummary struct {
	Average     float64 `json:"average"`
	ReviewCount int     `json:"review_count"`
	IsLocked    bool    `json:"is_locked"`
}

// Avatar represents a designer identity. Blocked avatars are excluded from
// search and attribution.
type Avatar struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	BgColor   string `json:"bg_color"`
	IsBlocked bool   `json:"is_blocked"`
}

// Post is a design submission with its attached review aggregate.
type Post struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    Category      `json:"category"`
	ImageURL    string        `json:"image_url"`
	DesignerID  string        `json:"designer_id"`
	CreatedAt   time.Time     `json:"created_at"`
	Rating      RatingSummary `json:"rating"`
	Reviews     []Review      `json:"reviews,omitempty"`
}

// LatestReviewAt returns the most recent review timestamp on the post,
// or the zero time when the post has no reviews.
func (p *Post) LatestReviewAt() time.Time {
	var latest time.Time
	for _, rv := range p.Reviews {
		if rv.CreatedAt.After(latest) {
			latest = rv.CreatedAt
		}
	}
	return latest
}

// RecentReviewCount returns how many reviews on the post fall inside the
// window ending at now.
func (p *Post) RecentReviewCount(now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	count := 0
	for _, rv := range p.Reviews {
		if !rv.CreatedAt.Before(cutoff) && !rv.CreatedAt.After(now) {
			count++
		}
	}
	return count
}

// ratingLockThreshold is the review count below which a post's aggregate
// stays locked in the detail/attribution flow. This is intentionally a
// different threshold than badge eligibility uses; the two rules evolved
// independently upstream and are preserved as given.
const ratingLockThreshold = 3

// RecomputeRating derives the aggregate rating summary from a post's
// attached reviews. The average is the mean of each review's per-criteria
// mean, rounded to one decimal place.
func RecomputeRating(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{IsLocked: true}
	}

	var sum float64
	for _, rv := range reviews {
		sum += rv.Ratings.Mean()
	}
	avg := sum / float64(len(reviews))

	return RatingSummary{
		Average:     math.Round(avg*10) / 10,
		ReviewCount: len(reviews),
		IsLocked:    len(reviews) < ratingLockThreshold,
	}
}
