package search

import "strings"

// Segment is a fragment of original display text with its match state.
// Concatenating a highlight result's segment texts reproduces the input
// exactly, so rendering never loses casing or punctuation.
type Segment struct {
	Text    string `json:"text"`
	IsMatch bool   `json:"is_match"`
}

// HighlightMatches splits original display text into match/non-match
// segments using the matches recorded for the given field key.
//
// Normalization changes string lengths and token boundaries, so the match
// spans cannot be reused as character indices into the original text.
// Instead the matched normalized words are collected into a set and the
// original text is walked word by word: a word is a match if its lowercase
// form, or its normalized (stripped and stemmed) form, is in the set.
// Interstitial whitespace is preserved and adjacent segments with the same
// state are merged.
func HighlightMatches(text string, matches []Match, key string) []Segment {
	if text == "" {
		return []Segment{}
	}

	matched := make(map[string]bool)
	for _, m := range matches {
		if m.Key != key {
			continue
		}
		for _, w := range m.Words {
			matched[w] = true
		}
	}
	if len(matched) == 0 {
		return []Segment{{Text: text, IsMatch: false}}
	}

	var segments []Segment
	appendSegment := func(text string, isMatch bool) {
		if text == "" {
			return
		}
		if n := len(segments); n > 0 && segments[n-1].IsMatch == isMatch {
			segments[n-1].Text += text
			return
		}
		segments = append(segments, Segment{Text: text, IsMatch: isMatch})
	}

	i := 0
	for i < len(text) {
		j := i
		if isSpace(text[i]) {
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			appendSegment(text[i:j], false)
		} else {
			for j < len(text) && !isSpace(text[j]) {
				j++
			}
			word := text[i:j]
			appendSegment(word, wordMatches(word, matched))
		}
		i = j
	}
	return segments
}

// wordMatches checks a raw word of original text against the matched-word
// set, both as plain lowercase and in normalized form (which strips attached
// punctuation and stems, so "Posters," matches a "poster" hit).
func wordMatches(word string, matched map[string]bool) bool {
	lower := strings.ToLower(word)
	if matched[lower] {
		return true
	}
	for _, tok := range strings.Fields(NormalizeText(word)) {
		if matched[tok] {
			return true
		}
	}
	return false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
