package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Series is a named line on a chart. All series share one vertical scale.
type Series struct {
	Name   string
	Values []float64
}

type dash struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	axisSeparator     = " │ "
)

var dashes = []dash{
	{name: "solid", period: 1, on: 1},
	{name: "dotted", period: 4, on: 1},
	{name: "dashed", period: 6, on: 3},
}

var seriesColors = []lipgloss.Color{"#5FAFD7", "#C89A3A", "#87AF5F"}

// HistorySeries turns answer results into the running answered and correct
// totals, one point per answer.
func HistorySeries(history []bool) []Series {
	if len(history) == 0 {
		return nil
	}
	answered := make([]float64, len(history))
	correct := make([]float64, len(history))
	total := 0.0
	for i, ok := range history {
		if ok {
			total++
		}
		answered[i] = float64(i + 1)
		correct[i] = total
	}
	return []Series{
		{Name: "answered", Values: answered},
		{Name: "correct", Values: correct},
	}
}

// PlotHistory charts the running totals of the recent answers. Nothing is
// written when there is no history.
func PlotHistory(w io.Writer, history []bool, width, height int, color bool) error {
	title := fmt.Sprintf("Last %d answers", len(history))
	return PlotSeries(w, title, HistorySeries(history), width, height, color)
}

// PlotSeries draws the series as braille lines on a shared 0..max scale.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, color bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	top := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			top = math.Max(top, v)
		}
	}
	if top <= 0 {
		top = 1
	}

	grids := make([][][]uint8, len(series))
	for i, s := range series {
		grids[i] = makeCells(height, width)
		drawSeries(grids[i], resample(s.Values, width), top, dashes[i%len(dashes)])
	}

	labels := axisLabels(top, height)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}

	lines := make([]string, 0, height+2)
	if title != "" {
		lines = append(lines, title)
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(padCell(labels[y], labelWidth, true))
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := composeCell(grids, x, y)
			ch := string(brailleFromMask(mask))
			if color && owner >= 0 {
				ch = lipgloss.NewStyle().Foreground(seriesColors[owner%len(seriesColors)]).Render(ch)
			}
			row.WriteString(ch)
		}
		lines = append(lines, row.String())
	}
	lines = append(lines, legend(series, color))
	return writeLines(w, lines)
}

// PlotWidthFor returns the chart width that fits totalWidth next to an axis
// label of labelWidth cells.
func PlotWidthFor(totalWidth, labelWidth int) int {
	width := totalWidth - labelWidth - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

// AxisLabelWidth is the widest label used for a chart topping out at top.
func AxisLabelWidth(top int) int {
	return len(strconv.Itoa(max(top, 1)))
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func axisLabels(top float64, height int) []string {
	labels := make([]string, height)
	labels[0] = strconv.Itoa(int(math.Round(top)))
	if height > 2 {
		labels[height/2] = strconv.Itoa(int(math.Round(top / 2)))
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

func drawSeries(cells [][]uint8, values []float64, top float64, style dash) {
	dots := len(cells) * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, valueToDot(v, top, dots)
		if prevX < 0 {
			setBrailleDot(cells, px, py)
		} else {
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				if style.period <= 1 || dx%style.period < style.on {
					setBrailleDot(cells, dx, dy)
				}
			})
		}
		prevX, prevY = px, py
	}
}

// valueToDot maps v on 0..top to a dot row, 0 being the top edge.
func valueToDot(v, top float64, dots int) int {
	if dots <= 1 {
		return 0
	}
	row := int(math.Round((1 - v/top) * float64(dots-1)))
	return min(max(row, 0), dots-1)
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := max((i+1)*n/width, start+1)
			sum := 0.0
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func legend(series []Series, color bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", brailleFromMask(0x01), s.Name, dashes[i%len(dashes)].name)
		if color {
			label = lipgloss.NewStyle().Foreground(seriesColors[i%len(seriesColors)]).Render(label)
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges the dots of every grid and reports the first series
// that drew in the cell, or -1.
func composeCell(grids [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, cells := range grids {
		m := cells[y][x]
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

// drawLine walks the Bresenham line between two dot positions.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask follows the Unicode braille dot numbering.
func brailleDotMask(x, y int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if x == 0 {
		return left[y]
	}
	return right[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
