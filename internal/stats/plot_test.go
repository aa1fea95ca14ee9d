package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestHistorySeries(t *testing.T) {
	series := HistorySeries([]bool{true, false, true, true})
	if len(series) != 2 {
		t.Fatalf("expected answered and correct series, got %d", len(series))
	}
	wantAnswered := []float64{1, 2, 3, 4}
	wantCorrect := []float64{1, 1, 2, 3}
	for i := range wantAnswered {
		if series[0].Values[i] != wantAnswered[i] || series[1].Values[i] != wantCorrect[i] {
			t.Fatalf("point %d: got answered=%v correct=%v", i, series[0].Values[i], series[1].Values[i])
		}
	}
	if HistorySeries(nil) != nil {
		t.Fatalf("expected no series for empty history")
	}
}

func TestPlotHistory(t *testing.T) {
	var buf bytes.Buffer
	history := []bool{true, true, false, true, false, true}
	if err := PlotHistory(&buf, history, 12, 4, false); err != nil {
		t.Fatalf("PlotHistory failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Last 6 answers") {
		t.Fatalf("expected title in output:\n%s", out)
	}
	if !strings.Contains(out, "Legend:") || !strings.Contains(out, "correct") {
		t.Fatalf("expected legend in output:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected title, 4 rows and legend, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "6"+axisSeparator) || !strings.HasPrefix(lines[4], "0"+axisSeparator) {
		t.Fatalf("expected 0..6 axis labels:\n%s", out)
	}
	for _, row := range lines[1:5] {
		if got := runewidth.StringWidth(row); got != 1+runewidth.StringWidth(axisSeparator)+12 {
			t.Fatalf("row width %d: %q", got, row)
		}
	}
}

func TestPlotHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotHistory(&buf, nil, 20, 4, false); err != nil {
		t.Fatalf("PlotHistory failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	sep := runewidth.StringWidth(axisSeparator)
	if got := PlotWidthFor(80, 3); got != 80-3-sep {
		t.Fatalf("expected width %d, got %d", 80-3-sep, got)
	}
	if got := PlotWidthFor(0, 3); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if AxisLabelWidth(200) != 3 || AxisLabelWidth(0) != 1 {
		t.Fatalf("unexpected axis label widths")
	}
}
