package search

import (
	"math"
	"sort"

	"github.com/Adetisola/Rater/internal/catalog"
	"github.com/Adetisola/Rater/internal/ranking"
)

// Match records where a query hit one indexed field of one item. Value is
// the normalized field text the spans index into; Words are the normalized
// matched words used for highlight reconstruction against the original text.
type Match struct {
	Key     string
	Value   string
	Indices [][2]int
	Words   []string
}

// fieldKey is a weighted index field.
type fieldKey struct {
	name   string
	weight float64
}

// indexDoc is one item's normalized projection.
type indexDoc struct {
	id     string
	fields map[string]string
}

// fuzzyIndex is a weighted multi-key fuzzy index over one entity type.
type fuzzyIndex struct {
	keys      []fieldKey
	docs      []indexDoc
	threshold float64
}

// scoreEpsilon keeps exact field matches from collapsing the weighted
// product to zero, so additional matching fields still improve the score.
const scoreEpsilon = 1e-3

type indexResult struct {
	id      string
	score   float64
	matches []Match
}

// search runs the query tokens over every document. Relevance scores are in
// (0, 1]; lower is better. An item's score is the product over its matching
// fields of fieldScore^weight, so high-weight fields dominate and matching
// several fields compounds.
func (ix *fuzzyIndex) search(queryTokens []string) []indexResult {
	var results []indexResult
	for _, doc := range ix.docs {
		score := 1.0
		var matches []Match
		for _, key := range ix.keys {
			fieldScore, spans, words, ok := matchField(queryTokens, doc.fields[key.name], ix.threshold)
			if !ok {
				continue
			}
			if fieldScore < scoreEpsilon {
				fieldScore = scoreEpsilon
			}
			score *= math.Pow(fieldScore, key.weight)
			matches = append(matches, Match{
				Key:     key.name,
				Value:   doc.fields[key.name],
				Indices: spans,
				Words:   words,
			})
		}
		if len(matches) == 0 {
			continue
		}
		results = append(results, indexResult{id: doc.id, score: score, matches: matches})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score < results[j].score
		}
		return results[i].id < results[j].id
	})
	return results
}

// Field key names for the post index. HighlightMatches takes these to pick
// which field's matches to render.
const (
	KeyTitle       = "title"
	KeyCategory    = "category"
	KeyDescription = "description"
	KeyDesigner    = "designer"
	KeyName        = "name"
)

// Indexes holds the three built fuzzy indexes plus the lookup tables needed
// to resolve results back to catalog entities. An Indexes value is immutable
// after Build and safe for concurrent readers. Version echoes the snapshot
// version it was built from so callers know when a rebuild is due.
type Indexes struct {
	Version uint64

	designers  *fuzzyIndex
	posts      *fuzzyIndex
	categories *fuzzyIndex

	postByID   map[string]catalog.Post
	avatarByID map[string]catalog.Avatar

	minQueryLength int
}

// Build constructs the three indexes from a catalog snapshot using the given
// search tuning. Blocked designers are excluded from the designer index and
// from post designer-name denormalization. Building is the only expensive
// step; reuse the result across queries until the snapshot version moves.
func Build(snap catalog.Snapshot, tun ranking.SearchTuning) *Indexes {
	ix := &Indexes{
		Version:        snap.Version,
		postByID:       make(map[string]catalog.Post, len(snap.Posts)),
		avatarByID:     make(map[string]catalog.Avatar, len(snap.Avatars)),
		minQueryLength: tun.MinQueryLength,
	}

	ix.designers = &fuzzyIndex{
		keys:      []fieldKey{{name: KeyName, weight: 1.0}},
		threshold: tun.Threshold,
	}
	for _, a := range snap.Avatars {
		if a.IsBlocked {
			continue
		}
		ix.avatarByID[a.ID] = a
		ix.designers.docs = append(ix.designers.docs, indexDoc{
			id:     a.ID,
			fields: map[string]string{KeyName: NormalizeText(a.Name)},
		})
	}
	sort.Slice(ix.designers.docs, func(i, j int) bool {
		return ix.designers.docs[i].id < ix.designers.docs[j].id
	})

	ix.posts = &fuzzyIndex{
		keys: []fieldKey{
			{name: KeyTitle, weight: tun.TitleWeight},
			{name: KeyCategory, weight: tun.CategoryWeight},
			{name: KeyDescription, weight: tun.DescriptionWeight},
			{name: KeyDesigner, weight: tun.DesignerWeight},
		},
		threshold: tun.Threshold,
	}
	for _, p := range snap.Posts {
		ix.postByID[p.ID] = p
		// Designer name is denormalized onto the post at build time so a
		// post is findable by its author without a join at query time.
		designerName := ""
		if a, ok := ix.avatarByID[p.DesignerID]; ok {
			designerName = NormalizeText(a.Name)
		}
		ix.posts.docs = append(ix.posts.docs, indexDoc{
			id: p.ID,
			fields: map[string]string{
				KeyTitle:       NormalizeText(p.Title),
				KeyCategory:    NormalizeText(string(p.Category)),
				KeyDescription: NormalizeText(p.Description),
				KeyDesigner:    designerName,
			},
		})
	}

	ix.categories = &fuzzyIndex{
		keys:      []fieldKey{{name: KeyName, weight: 1.0}},
		threshold: tun.Threshold,
	}
	for _, c := range snap.Categories {
		ix.categories.docs = append(ix.categories.docs, indexDoc{
			id:     string(c),
			fields: map[string]string{KeyName: NormalizeText(string(c))},
		})
	}

	return ix
}
