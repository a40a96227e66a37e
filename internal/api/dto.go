package api

import (
	"time"

	"github.com/Adetisola/Rater/internal/badge"
	"github.com/Adetisola/Rater/internal/catalog"
	"github.com/Adetisola/Rater/internal/color"
)

// DesignerView is the public projection of a designer identity. TextColor is
// the glyph color with the better contrast over BgColor, precomputed so tile
// renderers need no color math.
type DesignerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	BgColor   string `json:"bg_color"`
	TextColor string `json:"text_color"`
}

// RatingView is the public projection of a post's rating aggregate.
type RatingView struct {
	Average     float64 `json:"average"`
	ReviewCount int     `json:"review_count"`
	IsLocked    bool    `json:"is_locked"`
}

// PostView is the public projection of a post. Designer is nil when the
// author is blocked so blocked identities never surface in responses.
type PostView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	ImageURL    string        `json:"image_url"`
	Designer    *DesignerView `json:"designer,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	Rating      RatingView    `json:"rating"`
	Badge       string        `json:"badge,omitempty"`
}

// ReviewView is the public projection of a single review.
type ReviewView struct {
	ID           string    `json:"id"`
	Clarity      int       `json:"clarity"`
	Purpose      int       `json:"purpose"`
	Aesthetics   int       `json:"aesthetics"`
	Comment      string    `json:"comment,omitempty"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// toDesignerView resolves a designer ID against the avatar table. Returns nil
// for unknown or blocked designers.
func toDesignerView(avatars map[string]catalog.Avatar, id string) *DesignerView {
	a, ok := avatars[id]
	if !ok || a.IsBlocked {
		return nil
	}
	return &DesignerView{
		ID:        a.ID,
		Name:      a.Name,
		AvatarURL: a.AvatarURL,
		BgColor:   a.BgColor,
		TextColor: color.GlyphColor(a.BgColor),
	}
}

// toPostView builds the public projection of a post with its badge, if any.
func toPostView(p catalog.Post, avatars map[string]catalog.Avatar, badges map[string]badge.Kind) PostView {
	return PostView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
		Designer:    toDesignerView(avatars, p.DesignerID),
		CreatedAt:   p.CreatedAt,
		Rating: RatingView{
			Average:     p.Rating.Average,
			ReviewCount: p.Rating.ReviewCount,
			IsLocked:    p.Rating.IsLocked,
		},
		Badge: string(badges[p.ID]),
	}
}

// toReviewViews builds the public projections of a post's attached reviews.
func toReviewViews(reviews []catalog.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for _, rv := range reviews {
		views = append(views, ReviewView{
			ID:           rv.ID,
			Clarity:      rv.Ratings.Clarity,
			Purpose:      rv.Ratings.Purpose,
			Aesthetics:   rv.Ratings.Aesthetics,
			Comment:      rv.Comment,
			ReviewerName: rv.ReviewerName,
			CreatedAt:    rv.CreatedAt,
		})
	}
	return views
}
