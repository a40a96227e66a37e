package search

import "strings"

// tokenScore returns the fuzzy distance between a query token and a
// candidate word on a 0 (exact) to 1 (no similarity) scale. Substring hits
// score near-exact with a small penalty for the unmatched remainder; other
// pairs score by normalized edit distance.
func tokenScore(query, word string) float64 {
	if query == word {
		return 0
	}
	if len(query) >= 2 && strings.Contains(word, query) {
		return 0.3 * float64(len(word)-len(query)) / float64(len(word))
	}
	longer := len(query)
	if len(word) > longer {
		longer = len(word)
	}
	if longer == 0 {
		return 1
	}
	return float64(levenshtein(query, word)) / float64(longer)
}

// levenshtein computes the edit distance between two ASCII-normalized
// strings using the two-row dynamic programming form.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// wordPos is a word of a normalized field with its byte offsets
// ([start, end] inclusive, matching the match index convention).
type wordPos struct {
	word  string
	start int
	end   int
}

// fieldWords splits a normalized field into words with offsets. Normalized
// text is single-space separated so a linear scan suffices.
func fieldWords(s string) []wordPos {
	var words []wordPos
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			if start >= 0 {
				words = append(words, wordPos{word: s[start:i], start: start, end: i - 1})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, wordPos{word: s[start:], start: start, end: len(s) - 1})
	}
	return words
}

// matchField matches every query token against every word of a normalized
// field, collecting all hits under the threshold (exhaustive, so several
// words of one field can contribute to highlighting). The field score is the
// mean of each query token's best score, with unmatched tokens counted at
// the maximum distance of 1.
func matchField(queryTokens []string, field string, threshold float64) (score float64, spans [][2]int, words []string, ok bool) {
	if field == "" || len(queryTokens) == 0 {
		return 1, nil, nil, false
	}

	fw := fieldWords(field)
	seenWord := make(map[string]bool)
	seenPos := make(map[int]bool)
	var total float64

	for _, q := range queryTokens {
		best := 1.0
		for wi, w := range fw {
			s := tokenScore(q, w.word)
			if s > threshold {
				continue
			}
			if s < best {
				best = s
			}
			if !seenWord[w.word] {
				seenWord[w.word] = true
				words = append(words, w.word)
			}
			if !seenPos[wi] {
				seenPos[wi] = true
				spans = append(spans, [2]int{w.start, w.end})
			}
			ok = true
		}
		total += best
	}
	if !ok {
		return 1, nil, nil, false
	}
	return total / float64(len(queryTokens)), spans, words, true
}
