// Package transform holds the deterministic, network-free text rewrites that
// are layered on top of model output: dash normalization and synthetic typos.
package transform

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"
)

// Typo level bounds.
const (
	MinTypoLevel = 0
	MaxTypoLevel = 5
)

// typoChancePerLevel is the per-token probability added by each level.
// Level 5 caps at 10%.
const typoChancePerLevel = 0.02

// minTypoRunes is the length a token must exceed to be corrupted.
const minTypoRunes = 4

// space mirrors unicode.IsSpace closely enough for collapsing and padding.
const space = `[\s\v\x{85}\p{Z}]`

var (
	dashRun  = regexp.MustCompile(space + `*-` + space + `*`)
	spaceRun = regexp.MustCompile(space + `+`)

	dashReplacer = strings.NewReplacer("—", "-", "–", "-")
)

// Rand is the random source used by InjectTypos.
// *rand.Rand from math/rand/v2 satisfies it; tests inject a seeded one.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// globalRand delegates to the auto-seeded top-level math/rand/v2 functions.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// DefaultRand returns a non-deterministic source safe for concurrent use.
func DefaultRand() Rand {
	return globalRand{}
}

// NewSeededRand returns a deterministic source. Not safe for concurrent use.
func NewSeededRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NormalizeDashes replaces em and en dashes with an ASCII hyphen padded by
// one space on each side, collapses whitespace runs and trims the result.
// It is idempotent.
func NormalizeDashes(text string) string {
	text = dashReplacer.Replace(text)
	text = dashRun.ReplaceAllLiteralString(text, " - ")
	text = spaceRun.ReplaceAllLiteralString(text, " ")
	return strings.TrimFunc(text, unicode.IsSpace)
}

// TypoChance returns the per-token corruption probability for level.
// Levels outside 0..5 are clamped.
func TypoChance(level int) float64 {
	return float64(ClampTypoLevel(level)) * typoChancePerLevel
}

// ClampTypoLevel bounds level to MinTypoLevel..MaxTypoLevel.
func ClampTypoLevel(level int) int {
	return min(max(level, MinTypoLevel), MaxTypoLevel)
}

// InjectTypos splits text on single spaces and, for each token longer than
// four characters, corrupts it with probability TypoChance(level) by swapping
// two adjacent characters, deleting one, or doubling one.
// Level 0 returns text unchanged. The token count never changes.
func InjectTypos(text string, level int, rng Rand) string {
	chance := TypoChance(level)
	if chance == 0 || text == "" {
		return text
	}
	if rng == nil {
		rng = DefaultRand()
	}

	tokens := strings.Split(text, " ")
	for i, tok := range tokens {
		runes := []rune(tok)
		if len(runes) <= minTypoRunes {
			continue
		}
		if rng.Float64() >= chance {
			continue
		}
		tokens[i] = corrupt(runes, rng)
	}
	return strings.Join(tokens, " ")
}

// corrupt applies exactly one of swap (40%), delete (30%) or double (30%).
func corrupt(runes []rune, rng Rand) string {
	kind := rng.Float64()
	switch {
	case kind < 0.4:
		pos := rng.IntN(len(runes) - 1)
		runes[pos], runes[pos+1] = runes[pos+1], runes[pos]
		return string(runes)
	case kind < 0.7:
		pos := rng.IntN(len(runes))
		return string(runes[:pos]) + string(runes[pos+1:])
	default:
		pos := rng.IntN(len(runes))
		return string(runes[:pos+1]) + string(runes[pos:])
	}
}

// Flags selects the local transformations applied on top of upstream text.
type Flags struct {
	RemoveDashes bool
	TypoLevel    int
}

// IsZero reports whether no transformation is requested.
func (f Flags) IsZero() bool {
	return !f.RemoveDashes && f.TypoLevel == 0
}

// Apply re-derives output from base: dash normalization first, then typos.
// Callers always pass the upstream text, never a previous Apply result, so
// toggling a flag never compounds earlier corruption.
func Apply(base string, f Flags, rng Rand) string {
	out := base
	if f.RemoveDashes {
		out = NormalizeDashes(out)
	}
	if f.TypoLevel > 0 {
		out = InjectTypos(out, f.TypoLevel, rng)
	}
	return out
}
