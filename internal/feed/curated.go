// Package feed implements the curated freshness scheduler: the default feed
// ordering that blends badge-holding standouts, recently active posts, and
// archive posts into one stable-but-varied stream. The ordering is re-derived
// from the snapshot on every call; no rank state is persisted.
package feed

import (
	"sort"
	"time"

	"github.com/Adetisola/Rater/internal/badge"
	"github.com/Adetisola/Rater/internal/catalog"
	"github.com/Adetisola/Rater/internal/ranking"
)

// CuratedFreshnessSort orders posts with default tuning, badges computed
// internally, and the day-seeded LCG shuffle. It is the convenience entry
// point; CuratedSort exposes every injection seam for tests.
func CuratedFreshnessSort(posts []catalog.Post, now time.Time) []catalog.Post {
	badges := badge.Compute(posts, now)
	return CuratedSort(posts, badges, now, NewLCG, ranking.DefaultTuning().Feed)
}

// CuratedSort produces a total ordering of the input set: the result is a
// permutation of posts, never fewer or more. Empty input yields an empty
// slice and a dataset with no badges degrades to pure recency-with-shuffle.
//
// The pipeline: partition into standout/active/archive buckets, order each
// bucket, shuffle the non-standout buckets within calendar-day groups using
// a source seeded from the current day, then interleave standouts under the
// spacing constraint.
func CuratedSort(
	posts []catalog.Post,
	badges map[string]badge.Kind,
	now time.Time,
	newSource SourceFactory,
	tun ranking.FeedTuning,
) []catalog.Post {
	if len(posts) == 0 {
		return []catalog.Post{}
	}

	activeWindow := time.Duration(tun.ActiveWindowDays) * 24 * time.Hour

	var standout, active, archive []catalog.Post
	for _, p := range posts {
		switch {
		case badges[p.ID] != "":
			standout = append(standout, p)
		case now.Sub(p.CreatedAt) <= activeWindow:
			active = append(active, p)
		default:
			archive = append(archive, p)
		}
	}

	sortStandout(standout, badges)
	sortActive(active)
	sortArchive(archive)

	seed := DaySeed(now)
	active = shuffleWithinDays(active, newSource(seed))
	archive = shuffleWithinDays(archive, newSource(seed))

	regular := make([]catalog.Post, 0, len(active)+len(archive))
	regular = append(regular, active...)
	regular = append(regular, archive...)

	return interleave(standout, regular, tun.StandoutSpacing)
}

// sortStandout orders badge holders: top-rated before most-discussed, then
// newest first, post ID as the final fallback.
func sortStandout(posts []catalog.Post, badges map[string]badge.Kind) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		aTop := badges[a.ID] == badge.KindTopRated
		bTop := badges[b.ID] == badge.KindTopRated
		if aTop != bTop {
			return aTop
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// sortActive orders the active bucket newest first; posts sharing a calendar
// day are ranked by review count as a light engagement signal.
func sortActive(posts []catalog.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if dayKey(a.CreatedAt) == dayKey(b.CreatedAt) {
			if a.Rating.ReviewCount != b.Rating.ReviewCount {
				return a.Rating.ReviewCount > b.Rating.ReviewCount
			}
			return a.ID < b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// sortArchive orders the archive bucket newest first.
func sortArchive(posts []catalog.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// dayKey is the UTC calendar day of a timestamp, matching the ISO date
// prefix the original comparison used.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// shuffleWithinDays groups posts by calendar day, Fisher-Yates shuffles each
// group with the supplied source, and reassembles with the newest day first.
// Groups are visited newest-day-first so the source is consumed in a
// deterministic order.
func shuffleWithinDays(posts []catalog.Post, random Source) []catalog.Post {
	if len(posts) == 0 {
		return posts
	}

	groups := make(map[string][]catalog.Post)
	var days []string
	for _, p := range posts {
		key := dayKey(p.CreatedAt)
		if _, seen := groups[key]; !seen {
			days = append(days, key)
		}
		groups[key] = append(groups[key], p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	result := make([]catalog.Post, 0, len(posts))
	for _, day := range days {
		group := groups[day]
		for i := len(group) - 1; i > 0; i-- {
			j := int(random() * float64(i+1))
			group[i], group[j] = group[j], group[i]
		}
		result = append(result, group...)
	}
	return result
}

// interleave merges standouts into the regular stream allowing at most one
// standout per spacing consecutive positions. The counter starts saturated
// so a standout may lead the feed. Whichever stream empties first, the other
// drains unconditionally, so every post appears exactly once.
func interleave(standouts, regular []catalog.Post, spacing int) []catalog.Post {
	result := make([]catalog.Post, 0, len(standouts)+len(regular))
	sinceStandout := spacing

	si, ri := 0, 0
	for si < len(standouts) || ri < len(regular) {
		switch {
		case si < len(standouts) && sinceStandout >= spacing:
			result = append(result, standouts[si])
			si++
			sinceStandout = 0
		case ri < len(regular):
			result = append(result, regular[ri])
			ri++
			sinceStandout++
		default:
			result = append(result, standouts[si])
			si++
		}
	}
	return result
}
