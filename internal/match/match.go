// Package match judges a typed guess against a canonical species name.
package match

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// MinRatio is the lowest fuzzy match ratio accepted as correct.
const MinRatio = 0.75

var genderSuffix = regexp.MustCompile(`-(f|m)$`)

// Result is the verdict for one guess.
type Result struct {
	Correct bool
	Ratio   float64
}

// Evaluate compares guess with name. With exact set, the normalized strings
// must be identical; otherwise the edit-distance ratio must reach MinRatio.
func Evaluate(name, guess string, exact bool) Result {
	want := NormalizeName(name)
	got := NormalizeGuess(guess)

	if exact {
		if want == got {
			return Result{Correct: true, Ratio: 1}
		}
		return Result{Correct: false, Ratio: 0}
	}

	ratio := Ratio(want, got)
	return Result{Correct: ratio >= MinRatio, Ratio: ratio}
}

// Ratio returns (maxLen - distance) / maxLen over runes; two empty strings match fully.
func Ratio(a, b string) float64 {
	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// NormalizeName strips the gender suffix, whitespace and hyphens, then lower-cases.
func NormalizeName(name string) string {
	name = genderSuffix.ReplaceAllString(strings.TrimSpace(name), "")
	return squash(name, false)
}

// NormalizeGuess strips whitespace, hyphens and periods, then lower-cases.
func NormalizeGuess(guess string) string {
	return squash(guess, true)
}

func squash(s string, dropPeriods bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || (dropPeriods && r == '.') {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// DisplayName formats a canonical name for humans: "mr-mime" becomes "Mr Mime".
func DisplayName(name string) string {
	name = genderSuffix.ReplaceAllString(name, "")
	words := strings.Fields(strings.ReplaceAll(name, "-", " "))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
