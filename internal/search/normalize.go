// Package search implements the fuzzy, typo-tolerant search index over
// designers, posts, and categories, with weighted multi-field matching and
// token-level highlight reconstruction. Index construction and querying are
// pure and synchronous; callers debounce upstream and rebuild when the
// catalog snapshot version changes.
package search

import (
	"regexp"
	"strings"
)

// nonWord strips everything except word characters, whitespace, apostrophes,
// and hyphens; stripped runs collapse into a single space.
var nonWord = regexp.MustCompile(`[^\w\s'-]+`)

// NormalizeText lowercases, strips punctuation, splits on whitespace, stems
// each token, and re-joins with single spaces. It runs on both indexed
// content and live queries so stemmed tokens match regardless of inflection
// ("poster" matches "posters"). The function is idempotent.
func NormalizeText(s string) string {
	lowered := strings.ToLower(s)
	cleaned := nonWord.ReplaceAllString(lowered, " ")
	tokens := strings.Fields(cleaned)
	for i, tok := range tokens {
		tokens[i] = StemToken(tok)
	}
	return strings.Join(tokens, " ")
}

// StemToken applies the lightweight suffix stemmer to a single lowercase
// token. Rules are tried in order and the first that applies wins:
//
//	-ies            -> -y     (stories -> story)
//	-(ss|x|z|ch|sh)es -> drop es (boxes -> box, classes -> class)
//	-s (not -ss)    -> drop s  (posters -> poster)
//	-ing            -> drop    (designing -> design)
//	-ed             -> drop    (layered -> layer)
//
// Short tokens are left alone so words like "is" or "red" survive.
// Stemming repeats until it reaches a fixpoint; a single pass can expose a
// new strippable suffix (housing -> hous -> hou) and NormalizeText must be
// idempotent.
func StemToken(tok string) string {
	for {
		next := stemOnce(tok)
		if next == tok {
			return tok
		}
		tok = next
	}
}

func stemOnce(tok string) string {
	switch {
	case len(tok) > 3 && strings.HasSuffix(tok, "ies"):
		return tok[:len(tok)-3] + "y"
	case len(tok) > 3 && strings.HasSuffix(tok, "es") && sibilantStem(tok[:len(tok)-2]):
		return tok[:len(tok)-2]
	case len(tok) > 2 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss"):
		return tok[:len(tok)-1]
	case len(tok) > 4 && strings.HasSuffix(tok, "ing"):
		return tok[:len(tok)-3]
	case len(tok) > 3 && strings.HasSuffix(tok, "ed"):
		return tok[:len(tok)-2]
	default:
		return tok
	}
}

// sibilantStem reports whether the remainder after dropping "es" ends in a
// sibilant cluster, i.e. the plural was formed with "-es".
func sibilantStem(stem string) bool {
	return strings.HasSuffix(stem, "ss") ||
		strings.HasSuffix(stem, "x") ||
		strings.HasSuffix(stem, "z") ||
		strings.HasSuffix(stem, "ch") ||
		strings.HasSuffix(stem, "sh")
}
