package search

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"poster", "poster", 0},
		{"poster", "", 6},
		{"", "abc", 3},
		{"postr", "poster", 1},
		{"kitten", "sitting", 3},
		{"web", "mobile", 6},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenScore(t *testing.T) {
	const eps = 1e-9

	tests := []struct {
		name  string
		query string
		word  string
		want  float64
	}{
		{"exact match", "poster", "poster", 0},
		// substring bonus: 0.3 * unmatched/total
		{"substring", "post", "poster", 0.3 * 2.0 / 6.0},
		{"full-word substring", "er", "poster", 0.3 * 4.0 / 6.0},
		// one edit over six characters
		{"typo", "postr", "poster", 1.0 / 6.0},
		// single char never gets the substring bonus
		{"single char", "p", "poster", 5.0 / 6.0},
		{"unrelated", "xyz", "ab", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenScore(tt.query, tt.word)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("tokenScore(%q, %q) = %v, want %v", tt.query, tt.word, got, tt.want)
			}
		})
	}
}

func TestFieldWords(t *testing.T) {
	words := fieldWords("neon poster series")
	want := []wordPos{
		{word: "neon", start: 0, end: 3},
		{word: "poster", start: 5, end: 10},
		{word: "series", start: 12, end: 17},
	}
	if len(words) != len(want) {
		t.Fatalf("words = %d, want %d", len(words), len(want))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word[%d] = %+v, want %+v", i, words[i], want[i])
		}
	}

	if got := fieldWords(""); len(got) != 0 {
		t.Errorf("fieldWords(\"\") = %v, want empty", got)
	}
}

func TestMatchField(t *testing.T) {
	const threshold = 0.35

	t.Run("exact token", func(t *testing.T) {
		score, spans, words, ok := matchField([]string{"poster"}, "neon poster series", threshold)
		if !ok {
			t.Fatal("expected a match")
		}
		if score != 0 {
			t.Errorf("score = %v, want 0", score)
		}
		if len(spans) != 1 || spans[0] != [2]int{5, 10} {
			t.Errorf("spans = %v, want [[5 10]]", spans)
		}
		if len(words) != 1 || words[0] != "poster" {
			t.Errorf("words = %v, want [poster]", words)
		}
	})

	t.Run("typo within threshold", func(t *testing.T) {
		score, _, _, ok := matchField([]string{"postr"}, "neon poster series", threshold)
		if !ok {
			t.Fatal("expected a match")
		}
		if want := 1.0 / 6.0; math.Abs(score-want) > 1e-9 {
			t.Errorf("score = %v, want %v", score, want)
		}
	})

	t.Run("no word under threshold", func(t *testing.T) {
		_, _, _, ok := matchField([]string{"mobile"}, "neon poster series", threshold)
		if ok {
			t.Error("expected no match")
		}
	})

	t.Run("unmatched token dilutes the mean", func(t *testing.T) {
		score, _, _, ok := matchField([]string{"poster", "zzzzz"}, "neon poster series", threshold)
		if !ok {
			t.Fatal("expected a match from the first token")
		}
		// (0 + 1) / 2
		if score != 0.5 {
			t.Errorf("score = %v, want 0.5", score)
		}
	})

	t.Run("empty field never matches", func(t *testing.T) {
		_, _, _, ok := matchField([]string{"poster"}, "", threshold)
		if ok {
			t.Error("expected no match on empty field")
		}
	})

	t.Run("duplicate hits collapse", func(t *testing.T) {
		// Both tokens hit the same word; the span and word appear once
		_, spans, words, ok := matchField([]string{"poster", "poste"}, "neon poster series", threshold)
		if !ok {
			t.Fatal("expected a match")
		}
		if len(spans) != 1 {
			t.Errorf("spans = %v, want a single span", spans)
		}
		if len(words) != 1 {
			t.Errorf("words = %v, want a single word", words)
		}
	})
}
