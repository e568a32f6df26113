package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/pokeguess/internal/model"
)

func TestSummarize(t *testing.T) {
	sum := Summarize(model.Stats{BestTime: 53, TotalGuesses: 8, CorrectGuesses: 6})
	if sum.BestTime != "5.3s" {
		t.Fatalf("unexpected best time %q", sum.BestTime)
	}
	if sum.Accuracy != "75.0%" {
		t.Fatalf("unexpected accuracy %q", sum.Accuracy)
	}

	sum = Summarize(model.DefaultStats())
	if sum.BestTime != "--.--" {
		t.Fatalf("expected placeholder best time, got %q", sum.BestTime)
	}
	if sum.Accuracy != "0.0%" {
		t.Fatalf("expected zero accuracy, got %q", sum.Accuracy)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, model.Stats{BestTime: 120, TotalGuesses: 10, CorrectGuesses: 4}); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "Summary" {
		t.Fatalf("unexpected heading %q", lines[0])
	}
	if lines[1] != "Best time 12.0s" {
		t.Fatalf("unexpected best time line %q", lines[1])
	}
	if lines[4] != "Accuracy  40.0%" {
		t.Fatalf("unexpected accuracy line %q", lines[4])
	}
}
