package feed

import "time"

// Source yields a deterministic sequence of floats in [0, 1).
type Source func() float64

// SourceFactory builds a Source from a seed. The scheduler restarts the
// sequence for each day-grouped shuffle so output depends only on the seed,
// never on how many posts preceded the group.
type SourceFactory func(seed int64) Source

// NewLCG returns a linear congruential generator Source. The constants match
// the product's original shuffle generator so day-seeded orderings survive
// the reimplementation unchanged.
func NewLCG(seed int64) Source {
	state := seed
	return func() float64 {
		state = (state*9301 + 49297) % 233280
		if state < 0 {
			state += 233280
		}
		return float64(state) / 233280
	}
}

// DaySeed derives the shuffle seed from the wall clock: the number of whole
// days since the unix epoch. Every user sees the same ordering within a
// calendar day and a fresh one the next day.
func DaySeed(now time.Time) int64 {
	return now.UnixMilli() / (24 * time.Hour).Milliseconds()
}
