package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

//go:embed seed.json
var defaultSeed []byte

// seedReview is the wire shape of a seed review. Upstream fixtures are not
// consistent about timestamps: some carry an RFC 3339 created_at, some a unix
// millisecond timestamp, and the bundled fixtures use an age relative to load
// time so they never go stale. Exactly one of the three should be set.
type seedReview struct {
	ID           string        `json:"id,omitempty"`
	Ratings      ReviewRatings `json:"ratings"`
	Comment      string        `json:"comment,omitempty"`
	ReviewerName string        `json:"reviewer_name,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`
	TimestampMS  int64         `json:"timestamp,omitempty"`
	AgeHours     float64       `json:"age_hours,omitempty"`
}

type seedPost struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    Category       `json:"category"`
	ImageURL    string         `json:"image_url"`
	DesignerID  string         `json:"designer_id"`
	AgeHours    float64        `json:"age_hours"`
	Rating      *RatingSummary `json:"rating,omitempty"`
	Reviews     []seedReview   `json:"reviews,omitempty"`
}

type seedFile struct {
	Avatars []Avatar   `json:"avatars"`
	Posts   []seedPost `json:"posts"`
}

// resolveReviewTime collapses the three possible seed timestamp shapes into
// one canonical time.
func resolveReviewTime(rv seedReview, now time.Time) (time.Time, error) {
	switch {
	case rv.CreatedAt != "":
		t, err := time.Parse(time.RFC3339, rv.CreatedAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid review created_at %q: %w", rv.CreatedAt, err)
		}
		return t, nil
	case rv.TimestampMS != 0:
		return time.UnixMilli(rv.TimestampMS), nil
	default:
		return now.Add(-time.Duration(rv.AgeHours * float64(time.Hour))), nil
	}
}

// LoadSeed populates the repository from seed JSON. Post and review ages are
// resolved against now so relative fixtures stay meaningful.
func LoadSeed(r *Repository, data []byte, now time.Time) error {
	var sf seedFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("failed to parse seed data: %w", err)
	}

	for _, a := range sf.Avatars {
		r.AddAvatar(a)
	}

	for _, sp := range sf.Posts {
		post := Post{
			ID:          sp.ID,
			Title:       sp.Title,
			Description: sp.Description,
			Category:    sp.Category,
			ImageURL:    sp.ImageURL,
			DesignerID:  sp.DesignerID,
			CreatedAt:   now.Add(-time.Duration(sp.AgeHours * float64(time.Hour))),
		}
		if sp.Rating != nil {
			post.Rating = *sp.Rating
		}
		for _, srv := range sp.Reviews {
			created, err := resolveReviewTime(srv, now)
			if err != nil {
				return err
			}
			post.Reviews = append(post.Reviews, Review{
				ID:           srv.ID,
				Ratings:      srv.Ratings,
				Comment:      srv.Comment,
				ReviewerName: srv.ReviewerName,
				CreatedAt:    created,
			})
		}
		if _, err := r.AddPost(post); err != nil {
			return fmt.Errorf("failed to seed post %q: %w", sp.Title, err)
		}
	}

	return nil
}

// LoadDefaultSeed populates the repository from the embedded seed catalog.
func LoadDefaultSeed(r *Repository, now time.Time) error {
	return LoadSeed(r, defaultSeed, now)
}

// LoadSeedFile populates the repository from a seed JSON file on disk.
func LoadSeedFile(r *Repository, path string, now time.Time) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return LoadSeed(r, data, now)
}
