package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var plain = lipgloss.NewStyle()

func TestBuildStyledRunesAccentsBlanks(t *testing.T) {
	runes := buildStyledRunes("畫？添足", promptStyle, blankStyle)
	if len(runes) != 4 {
		t.Fatalf("expected 4 runes, got %d", len(runes))
	}
	if runes[0].s != promptStyle.Render("畫") {
		t.Fatalf("expected prompt style for first rune")
	}
	if runes[1].s != blankStyle.Render("？") {
		t.Fatalf("expected blank style for masked rune")
	}
	if runes[0].width != 2 {
		t.Fatalf("expected wide rune width 2, got %d", runes[0].width)
	}
}

func TestWrapBreaksAtSpaces(t *testing.T) {
	runes := buildStyledRunes("one two three", plain, plain)
	got := wrapStyledRunes(runes, 8)
	if got != "one two\nthree" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapBreaksWideTextAnywhere(t *testing.T) {
	runes := buildStyledRunes("一二三四五", plain, plain)
	got := wrapStyledRunes(runes, 4)
	if got != "一二\n三四\n五" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapKeepsExplicitBreaks(t *testing.T) {
	runes := buildStyledRunes("畫？添足\n(多此一舉)", plain, plain)
	got := wrapStyledRunes(runes, 40)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || lines[0] != "畫？添足" || lines[1] != "(多此一舉)" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapZeroWidthDoesNotWrap(t *testing.T) {
	runes := buildStyledRunes("a b c", plain, plain)
	if got := wrapStyledRunes(runes, 0); got != "a b c" {
		t.Fatalf("unexpected output: %q", got)
	}
}
