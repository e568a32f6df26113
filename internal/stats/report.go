package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/pokeguess/internal/model"
	"github.com/verte-zerg/pokeguess/internal/timer"
)

// Summary holds display-ready stats values.
type Summary struct {
	BestTime string
	Guesses  string
	Correct  string
	Accuracy string
}

// Summarize formats stats the way the footer and the stats command show them.
func Summarize(s model.Stats) Summary {
	best := timer.Format(s.BestTime)
	if s.BestTime >= 0 {
		best += "s"
	}
	return Summary{
		BestTime: best,
		Guesses:  fmt.Sprintf("%d", s.TotalGuesses),
		Correct:  fmt.Sprintf("%d", s.CorrectGuesses),
		Accuracy: fmt.Sprintf("%.1f%%", s.Accuracy()*100),
	}
}

// RenderSummary prints a two-column stats table.
func RenderSummary(w io.Writer, s model.Stats) error {
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	sum := Summarize(s)
	rows := [][]string{
		{"Best time", sum.BestTime},
		{"Guesses", sum.Guesses},
		{"Correct", sum.Correct},
		{"Accuracy", sum.Accuracy},
	}
	for _, line := range formatTable(nil, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
