package engine

import (
	"strings"
	"unicode"

	"github.com/anatolykoptev/go-kit/strutil"
)

// tokenStopWords filters short connective words that add noise to
// token-overlap matching of degree, eligibility, and skill names.
var tokenStopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "from": true,
	"major": true, "minor": true, "degree": true, "course": true,
	"level": true, "basic": true, "professional": true,
}

// NormalizeText lowercases s, collapses every punctuation run to a single
// space, and trims. This is the shared normalization used by the taxonomy
// index, canonicalizer, and skill matcher — two strings that normalize
// equal are treated as the same text everywhere in the engine.
func NormalizeText(s string) string {
	var b strings.Builder
	prevSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
		} else if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Tokenize splits s into normalized word tokens, dropping tokens of
// length <= 2 and the stopword set.
func Tokenize(s string) []string {
	var out []string
	for _, tok := range strings.Fields(NormalizeText(s)) {
		if len([]rune(tok)) <= 2 || tokenStopWords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// TokenSet returns Tokenize(s) as a membership set.
func TokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokenize(s) {
		set[tok] = true
	}
	return set
}

// TokenOverlap computes the Jaccard ratio of normalized tokens shared
// between a and b, in [0,1]. Empty token sets yield 0.
func TokenOverlap(a, b string) float64 {
	as, bs := TokenSet(a), TokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for tok := range as {
		if bs[tok] {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	return float64(inter) / float64(union)
}

// StringSimilarity computes a Levenshtein-based similarity between a and b,
// normalized to 0–100 against the longer of the two strings. Case,
// punctuation, and whitespace are ignored. Identical non-empty strings
// score 100; an empty string scores 0 against anything.
func StringSimilarity(a, b string) float64 {
	na, nb := NormalizeText(a), NormalizeText(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}
	dist := levenshtein(na, nb)
	longer := len([]rune(na))
	if l := len([]rune(nb)); l > longer {
		longer = l
	}
	return (1 - float64(dist)/float64(longer)) * 100
}

// levenshtein computes the edit distance between two strings using a
// two-row DP over runes.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8.
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
