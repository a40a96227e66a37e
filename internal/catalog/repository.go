package catalog

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Adetisola/Rater/internal/color"
	"github.com/Adetisola/Rater/internal/validate"
)

// Common errors for catalog operations.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrAvatarNotFound  = errors.New("avatar not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPost     = errors.New("invalid post")
	ErrInvalidReview   = errors.New("invalid review")
)

// Snapshot is an immutable copy of the catalog handed to the engine.
// The Version increases on every mutation, which lets callers detect when a
// cached search index built from an older snapshot must be rebuilt.
type Snapshot struct {
	Version    uint64
	Posts      []Post
	Avatars    map[string]Avatar
	Categories []Category
}

// Repository is a thread-safe in-memory catalog.
// It owns all entity mutation; the engine only ever sees snapshots.
type Repository struct {
	mu      sync.RWMutex
	posts   map[string]*Post
	avatars map[string]*Avatar
	order   []string // post IDs in insertion order, for stable snapshots
	version uint64
}

// NewRepository creates an empty catalog repository.
func NewRepository() *Repository {
	return &Repository{
		posts:   make(map[string]*Post),
		avatars: make(map[string]*Avatar),
	}
}

// AddAvatar inserts or replaces a designer avatar. A missing ID is
// generated; a malformed background color falls back to the default.
func (r *Repository) AddAvatar(a Avatar) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.BgColor = color.Normalize(a.BgColor)
	copied := a
	r.avatars[a.ID] = &copied
	r.version++
	return a.ID
}

// AddPost inserts a new post. The designer must already exist and the
// category must be a member of the fixed set. When the post carries reviews
// but no aggregate, the aggregate is recomputed from the reviews.
func (r *Repository) AddPost(p Post) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !p.Category.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	if _, ok := r.avatars[p.DesignerID]; !ok {
		return "", fmt.Errorf("%w: %q", ErrAvatarNotFound, p.DesignerID)
	}

	title, err := validate.Title(p.Title)
	if err != nil {
		return "", fmt.Errorf("%w: title: %w", ErrInvalidPost, err)
	}
	p.Title = title
	desc, err := validate.Description(p.Description)
	if err != nil {
		return "", fmt.Errorf("%w: description: %w", ErrInvalidPost, err)
	}
	p.Description = desc
	imageURL, err := validate.ImageURL(p.ImageURL)
	if err != nil {
		return "", fmt.Errorf("%w: image_url: %w", ErrInvalidPost, err)
	}
	p.ImageURL = imageURL

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Rating == (RatingSummary{}) {
		p.Rating = RecomputeRating(p.Reviews)
	}

	copied := p
	copied.Reviews = append([]Review(nil), p.Reviews...)
	for i := range copied.Reviews {
		copied.Reviews[i].PostID = copied.ID
	}

	r.posts[copied.ID] = &copied
	r.order = append(r.order, copied.ID)
	r.version++
	return copied.ID, nil
}

// AddReview attaches a review to a post and updates the aggregate
// incrementally. The stored review count is authoritative and may exceed the
// number of attached review records, so the running average is folded in
// rather than recomputed from scratch.
func (r *Repository) AddReview(postID string, rv Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return ErrPostNotFound
	}

	comment, err := validate.Comment(rv.Comment)
	if err != nil {
		return fmt.Errorf("%w: comment: %w", ErrInvalidReview, err)
	}
	rv.Comment = comment
	name, err := validate.DisplayName(rv.ReviewerName)
	if err != nil {
		return fmt.Errorf("%w: reviewer_name: %w", ErrInvalidReview, err)
	}
	rv.ReviewerName = name

	if rv.ID == "" {
		rv.ID = uuid.New().String()
	}
	rv.PostID = postID
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now()
	}
	post.Reviews = append(post.Reviews, rv)

	prev := post.Rating
	count := prev.ReviewCount + 1
	avg := (prev.Average*float64(prev.ReviewCount) + rv.Ratings.Mean()) / float64(count)
	post.Rating = RatingSummary{
		Average:     math.Round(avg*10) / 10,
		ReviewCount: count,
		IsLocked:    count < ratingLockThreshold,
	}

	r.version++
	return nil
}

// GetPost returns a copy of the post with the given ID.
func (r *Repository) GetPost(id string) (Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return Post{}, ErrPostNotFound
	}
	return copyPost(post), nil
}

// GetAvatar returns a copy of the avatar with the given ID.
func (r *Repository) GetAvatar(id string) (Avatar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.avatars[id]
	if !ok {
		return Avatar{}, ErrAvatarNotFound
	}
	return *a, nil
}

// Version returns the current catalog version.
func (r *Repository) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Snapshot returns an immutable copy of the whole catalog.
// Posts appear in insertion order; callers impose their own ordering.
func (r *Repository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		Version:    r.version,
		Posts:      make([]Post, 0, len(r.order)),
		Avatars:    make(map[string]Avatar, len(r.avatars)),
		Categories: Categories(),
	}
	for _, id := range r.order {
		snap.Posts = append(snap.Posts, copyPost(r.posts[id]))
	}
	for id, a := range r.avatars {
		snap.Avatars[id] = *a
	}
	return snap
}

// copyPost makes a deep copy so snapshot holders cannot observe later
// repository mutations.
func copyPost(p *Post) Post {
	copied := *p
	copied.Reviews = append([]Review(nil), p.Reviews...)
	return copied
}
