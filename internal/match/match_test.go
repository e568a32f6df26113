package match

import (
	"math"
	"testing"
)

func TestEvaluateExact(t *testing.T) {
	cases := []struct {
		name  string
		guess string
		want  bool
	}{
		{name: "charizard", guess: "charizard", want: true},
		{name: "charizard", guess: " Chari-Zard ", want: true},
		{name: "mr-mime", guess: "Mr. Mime", want: true},
		{name: "tapu-koko", guess: "tapukoko", want: true},
		{name: "charizard", guess: "charizrd", want: false},
		{name: "meowstic-f", guess: "meowstic", want: true},
		{name: "nidoran-m", guess: "nidoran", want: true},
	}
	for _, tc := range cases {
		got := Evaluate(tc.name, tc.guess, true)
		if got.Correct != tc.want {
			t.Fatalf("Evaluate(%q, %q, exact) = %v, want %v", tc.name, tc.guess, got.Correct, tc.want)
		}
	}
}

func TestEvaluateExactMatchesNormalizedEquality(t *testing.T) {
	pairs := [][2]string{
		{"pikachu", "PIKACHU"},
		{"ho-oh", "ho oh"},
		{"porygon-z", "porygonz"},
		{"eevee", "evee"},
		{"type-null", "type: null"},
	}
	for _, p := range pairs {
		got := Evaluate(p[0], p[1], true).Correct
		want := NormalizeName(p[0]) == NormalizeGuess(p[1])
		if got != want {
			t.Fatalf("exact verdict for %q/%q = %v, normalized equality = %v", p[0], p[1], got, want)
		}
	}
}

func TestEvaluateFuzzy(t *testing.T) {
	res := Evaluate("charizard", "charizard", false)
	if !res.Correct || res.Ratio != 1 {
		t.Fatalf("expected exact fuzzy match, got %+v", res)
	}

	res = Evaluate("charizard", "charizrd", false)
	if !res.Correct {
		t.Fatalf("expected near miss to be accepted, got %+v", res)
	}
	if math.Abs(res.Ratio-0.888) > 0.02 && math.Abs(res.Ratio-0.875) > 0.02 {
		t.Fatalf("unexpected ratio %.3f", res.Ratio)
	}

	res = Evaluate("charizard", "bulbasaur", false)
	if res.Correct || res.Ratio >= 0.5 {
		t.Fatalf("expected unrelated guess to be rejected, got %+v", res)
	}
}

func TestEvaluateGenderSuffixOnlyStrippedFromName(t *testing.T) {
	for _, exact := range []bool{true, false} {
		if !Evaluate("meowstic-f", "meowstic", exact).Correct {
			t.Fatalf("expected suffix to be ignored (exact=%v)", exact)
		}
	}
	if got := NormalizeGuess("meowstic-f"); got != "meowsticf" {
		t.Fatalf("guess suffix should not be stripped, got %q", got)
	}
}

func TestRatioEmptyStrings(t *testing.T) {
	if got := Ratio("", ""); got != 1 {
		t.Fatalf("expected 1 for empty strings, got %v", got)
	}
	if got := Ratio("abc", ""); got != 0 {
		t.Fatalf("expected 0 for empty guess, got %v", got)
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"mr-mime":    "Mr Mime",
		"meowstic-f": "Meowstic",
		"pikachu":    "Pikachu",
		"tapu-koko":  "Tapu Koko",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}
