package matcher

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Scorer rates how well candidate matches query on a 0-100 scale.
type Scorer interface {
	Score(query, candidate string) int
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc func(query, candidate string) int

func (f ScorerFunc) Score(query, candidate string) int { return f(query, candidate) }

// indel scores two strings by insert/delete edit distance: a substitution
// costs two, so similarity is (len(a)+len(b)-distance)/(len(a)+len(b)).
type indel struct {
	lev *metrics.Levenshtein
}

func newIndel() *indel {
	return &indel{lev: &metrics.Levenshtein{
		CaseSensitive: true,
		InsertCost:    1,
		DeleteCost:    1,
		ReplaceCost:   2,
	}}
}

// Compare implements strutil.StringMetric.
func (m *indel) Compare(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 1
	}
	return float64(total-m.lev.Distance(a, b)) / float64(total)
}

// WeightedRatio is the default Scorer. Both strings are reduced to lowercase
// alphanumeric tokens, then scored as the best of a plain ratio, ratios over
// sorted and de-duplicated tokens, and (when lengths differ a lot) partial
// ratios against the best-aligned substring. Token and partial variants are
// scaled down so an exact ratio always wins a tie.
type WeightedRatio struct {
	metric strutil.StringMetric
}

// NewWeightedRatio returns the default scorer.
func NewWeightedRatio() *WeightedRatio {
	return &WeightedRatio{metric: newIndel()}
}

const (
	tokenScale        = 0.95
	partialScale      = 0.90
	longPartialScale  = 0.60
	partialLenRatio   = 1.5
	longPartialLength = 8
)

// Score implements Scorer.
func (w *WeightedRatio) Score(query, candidate string) int {
	a, b := process(query), process(candidate)
	if a == "" || b == "" {
		return 0
	}

	base := w.ratio(a, b)

	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	if lenRatio < partialLenRatio {
		tsor := w.ratio(sortTokens(a), sortTokens(b)) * tokenScale
		tser := w.tokenSetRatio(a, b, w.ratio) * tokenScale
		return int(math.Round(max(base, tsor, tser)))
	}

	scale := partialScale
	if lenRatio >= longPartialLength {
		scale = longPartialScale
	}
	partial := w.partialRatio(a, b) * scale
	ptsor := w.partialRatio(sortTokens(a), sortTokens(b)) * tokenScale * scale
	ptser := w.tokenSetRatio(a, b, w.partialRatio) * tokenScale * scale
	return int(math.Round(max(base, partial, ptsor, ptser)))
}

func (w *WeightedRatio) ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return 100 * strutil.Similarity(a, b, w.metric)
}

// partialRatio is the best ratio of the shorter string against every
// equal-length window of the longer one.
func (w *WeightedRatio) partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	short := string(ra)

	var best float64
	for i := 0; i+len(ra) <= len(rb); i++ {
		r := w.ratio(short, string(rb[i:i+len(ra)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// tokenSetRatio compares the shared tokens with each side's full token set,
// so extra words on one side cost little.
func (w *WeightedRatio) tokenSetRatio(a, b string, score func(a, b string) float64) float64 {
	ta := strutil.UniqueSlice(strings.Fields(a))
	tb := strutil.UniqueSlice(strings.Fields(b))

	var common, onlyA, onlyB []string
	for _, t := range ta {
		if strutil.SliceContains(tb, t) {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range tb {
		if !strutil.SliceContains(ta, t) {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	sect := strings.Join(common, " ")
	combinedA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	return max(
		score(sect, combinedA),
		score(sect, combinedB),
		score(combinedA, combinedB),
	)
}

// process lowercases s and replaces every non-alphanumeric rune with a space.
func process(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(mapped)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
