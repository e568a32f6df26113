package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	r     rune
	width int
}

// wrapText splits s into lines no wider than width display cells. Lines
// break after a space or a slash when possible, otherwise mid-token.
func wrapText(s string, width int) []string {
	if s == "" {
		return nil
	}
	if width <= 0 {
		return []string{s}
	}
	var out []string
	line := make([]cell, 0, width)
	lineWidth := 0
	lastBreak := -1

	for _, r := range s {
		item := cell{r: r, width: runewidth.RuneWidth(r)}
		for lineWidth+item.width > width && len(line) > 0 {
			if lastBreak >= 0 && lastBreak < len(line)-1 {
				out = append(out, renderCells(line[:lastBreak+1]))
				line = append([]cell{}, line[lastBreak+1:]...)
			} else {
				out = append(out, renderCells(line))
				line = line[:0]
			}
			lineWidth = cellsWidth(line)
			lastBreak = lastBreakIndex(line)
		}
		if len(line) == 0 && r == ' ' {
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if isBreak(r) {
			lastBreak = len(line) - 1
		}
	}
	if len(line) > 0 {
		out = append(out, renderCells(line))
	}
	return out
}

func isBreak(r rune) bool {
	return r == ' ' || r == '/'
}

func renderCells(line []cell) string {
	var b strings.Builder
	for _, c := range line {
		b.WriteRune(c.r)
	}
	return strings.TrimRight(b.String(), " ")
}

func cellsWidth(line []cell) int {
	total := 0
	for _, c := range line {
		total += c.width
	}
	return total
}

func lastBreakIndex(line []cell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if isBreak(line[i].r) {
			return i
		}
	}
	return -1
}
