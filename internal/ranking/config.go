// Package ranking provides centralized tuning knobs for the discovery
// engine (badges, curated feed, fuzzy search) with calibration support.
//
// The calibration system allows deploy-time tuning via a JSON file loaded at
// startup. Partial configurations merge with defaults so a calibration file
// only needs to name the values it changes.
package ranking

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// BadgeTuning controls badge eligibility.
type BadgeTuning struct {
	MinReviews       int `json:"min_reviews"`        // Minimum review count for candidacy (default: 5)
	RecentWindowDays int `json:"recent_window_days"` // Review lookback in days (default: 7)
}

// FeedTuning controls the curated freshness scheduler.
type FeedTuning struct {
	StandoutSpacing  int `json:"standout_spacing"`   // Minimum cards between standout posts (default: 7)
	ActiveWindowDays int `json:"active_window_days"` // Age cutoff for the active bucket in days (default: 17)
}

// SearchTuning controls the fuzzy search indexes.
type SearchTuning struct {
	Threshold         float64 `json:"threshold"`          // Fuzzy distance threshold, 0 exact .. 1 anything (default: 0.35)
	MinQueryLength    int     `json:"min_query_length"`   // Minimum normalized query length (default: 2)
	TitleWeight       float64 `json:"title_weight"`       // Post title field weight (default: 1.0)
	CategoryWeight    float64 `json:"category_weight"`    // Post category field weight (default: 0.7)
	DescriptionWeight float64 `json:"description_weight"` // Post description field weight (default: 0.5)
	DesignerWeight    float64 `json:"designer_weight"`    // Denormalized designer name field weight (default: 0.3)
}

// Tuning holds all engine tuning configurations.
type Tuning struct {
	Badge  BadgeTuning  `json:"badge"`
	Feed   FeedTuning   `json:"feed"`
	Search SearchTuning `json:"search"`
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string `json:"version"` // Config version for future compatibility
	Tuning  Tuning `json:"tuning"`  // Tuning configurations
}

// DefaultTuning returns the default engine tuning.
//
// Badge gates follow the eligibility rules of the badge engine; feed values
// sit in the middle of the product's documented ranges (spacing 6-8, active
// window 14-21 days); search values tolerate roughly 2-3 character edits on
// longer words.
func DefaultTuning() *Tuning {
	return &Tuning{
		Badge: BadgeTuning{
			MinReviews:       5,
			RecentWindowDays: 7,
		},
		Feed: FeedTuning{
			StandoutSpacing:  7,
			ActiveWindowDays: 17,
		},
		Search: SearchTuning{
			Threshold:         0.35,
			MinQueryLength:    2,
			TitleWeight:       1.0,
			CategoryWeight:    0.7,
			DescriptionWeight: 0.5,
			DesignerWeight:    0.3,
		},
	}
}

// LoadCalibration loads engine tuning from a JSON calibration file.
// If the file doesn't exist or can't be parsed, returns default tuning with
// an error so startup can degrade gracefully. Partial configurations are
// merged with defaults.
func LoadCalibration(filePath string) (*Tuning, error) {
	if filePath == "" {
		return DefaultTuning(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultTuning(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultTuning(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultTuning()
	merged := MergeCalibration(defaults, &config.Tuning)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override tuning with base tuning.
// Only non-zero values from the override are applied, which allows partial
// overrides in the calibration file.
func MergeCalibration(base *Tuning, override *Tuning) *Tuning {
	if base == nil {
		return DefaultTuning()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.Badge.MinReviews != 0 {
		result.Badge.MinReviews = override.Badge.MinReviews
	}
	if override.Badge.RecentWindowDays != 0 {
		result.Badge.RecentWindowDays = override.Badge.RecentWindowDays
	}

	if override.Feed.StandoutSpacing != 0 {
		result.Feed.StandoutSpacing = override.Feed.StandoutSpacing
	}
	if override.Feed.ActiveWindowDays != 0 {
		result.Feed.ActiveWindowDays = override.Feed.ActiveWindowDays
	}

	if override.Search.Threshold != 0 {
		result.Search.Threshold = override.Search.Threshold
	}
	if override.Search.MinQueryLength != 0 {
		result.Search.MinQueryLength = override.Search.MinQueryLength
	}
	if override.Search.TitleWeight != 0 {
		result.Search.TitleWeight = override.Search.TitleWeight
	}
	if override.Search.CategoryWeight != 0 {
		result.Search.CategoryWeight = override.Search.CategoryWeight
	}
	if override.Search.DescriptionWeight != 0 {
		result.Search.DescriptionWeight = override.Search.DescriptionWeight
	}
	if override.Search.DesignerWeight != 0 {
		result.Search.DesignerWeight = override.Search.DesignerWeight
	}

	return &result
}

// logCalibrationOverrides logs which tuning values were overridden from defaults.
func logCalibrationOverrides(defaults *Tuning, loaded *Tuning) {
	var overrides []string

	if loaded.Badge.MinReviews != defaults.Badge.MinReviews {
		overrides = append(overrides, fmt.Sprintf("badge.min_reviews: %d -> %d",
			defaults.Badge.MinReviews, loaded.Badge.MinReviews))
	}
	if loaded.Badge.RecentWindowDays != defaults.Badge.RecentWindowDays {
		overrides = append(overrides, fmt.Sprintf("badge.recent_window_days: %d -> %d",
			defaults.Badge.RecentWindowDays, loaded.Badge.RecentWindowDays))
	}
	if loaded.Feed.StandoutSpacing != defaults.Feed.StandoutSpacing {
		overrides = append(overrides, fmt.Sprintf("feed.standout_spacing: %d -> %d",
			defaults.Feed.StandoutSpacing, loaded.Feed.StandoutSpacing))
	}
	if loaded.Feed.ActiveWindowDays != defaults.Feed.ActiveWindowDays {
		overrides = append(overrides, fmt.Sprintf("feed.active_window_days: %d -> %d",
			defaults.Feed.ActiveWindowDays, loaded.Feed.ActiveWindowDays))
	}
	if loaded.Search.Threshold != defaults.Search.Threshold {
		overrides = append(overrides, fmt.Sprintf("search.threshold: %.2f -> %.2f",
			defaults.Search.Threshold, loaded.Search.Threshold))
	}
	if loaded.Search.MinQueryLength != defaults.Search.MinQueryLength {
		overrides = append(overrides, fmt.Sprintf("search.min_query_length: %d -> %d",
			defaults.Search.MinQueryLength, loaded.Search.MinQueryLength))
	}
	if loaded.Search.TitleWeight != defaults.Search.TitleWeight {
		overrides = append(overrides, fmt.Sprintf("search.title_weight: %.2f -> %.2f",
			defaults.Search.TitleWeight, loaded.Search.TitleWeight))
	}
	if loaded.Search.CategoryWeight != defaults.Search.CategoryWeight {
		overrides = append(overrides, fmt.Sprintf("search.category_weight: %.2f -> %.2f",
			defaults.Search.CategoryWeight, loaded.Search.CategoryWeight))
	}
	if loaded.Search.DescriptionWeight != defaults.Search.DescriptionWeight {
		overrides = append(overrides, fmt.Sprintf("search.description_weight: %.2f -> %.2f",
			defaults.Search.DescriptionWeight, loaded.Search.DescriptionWeight))
	}
	if loaded.Search.DesignerWeight != defaults.Search.DesignerWeight {
		overrides = append(overrides, fmt.Sprintf("search.designer_weight: %.2f -> %.2f",
			defaults.Search.DesignerWeight, loaded.Search.DesignerWeight))
	}

	if len(overrides) > 0 {
		slog.Info("loaded engine calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded engine calibration (using all defaults)")
	}
}
