package tui

import (
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/muralis/pkg/core"
)

// One terminal cell covers this many board units.
const (
	UnitsPerCol = 10.0
	UnitsPerRow = 20.0
)

// camera is the board point shown at the top-left cell of the canvas.
type camera struct {
	X, Y float64
}

// toBoard maps a canvas cell to the board point at its centre.
func (c camera) toBoard(col, row int) core.Point {
	return core.Point{
		X: c.X + (float64(col)+0.5)*UnitsPerCol,
		Y: c.Y + (float64(row)+0.5)*UnitsPerRow,
	}
}

// span returns the cells whose centres fall in [from, to) along one axis.
func span(from, to, origin, unit float64) (int, int) {
	first := int(math.Ceil((from-origin)/unit - 0.5))
	last := int(math.Ceil((to-origin)/unit - 0.5))
	return first, last
}

// rect returns the cell rectangle [c0,c1) x [r0,r1) covered by a note.
func (c camera) rect(n core.Note) (c0, r0, c1, r1 int) {
	c0, c1 = span(n.Position.X, n.Position.X+n.Size.Width, c.X, UnitsPerCol)
	r0, r1 = span(n.Position.Y, n.Position.Y+n.Size.Height, c.Y, UnitsPerRow)
	return
}

type cell struct {
	ch   rune
	bg   string
	bold bool
}

var (
	inkColor    = lipgloss.Color("#3A3A3A")
	canvasColor = lipgloss.Color("#5A5A5A")
)

// renderCanvas draws notes back to front onto a width x height grid.
func renderCanvas(notes []core.Note, cam camera, width, height int, selected string) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{ch: ' '}
		}
	}

	for _, n := range notes {
		drawNote(grid, n, cam, n.ID == selected)
	}

	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		writeRow(&b, row)
	}
	return b.String()
}

func drawNote(grid [][]cell, n core.Note, cam camera, selected bool) {
	c0, r0, c1, r1 := cam.rect(n)
	height := len(grid)
	width := len(grid[0])

	put := func(col, row int, ch rune, bold bool) {
		if row < 0 || row >= height || col < 0 || col >= width {
			return
		}
		grid[row][col] = cell{ch: ch, bg: n.Color, bold: bold}
	}

	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			put(col, row, ' ', false)
		}
	}

	inner := c1 - c0 - 2
	if inner <= 0 {
		return
	}

	// Handle row: grip and tags.
	header := "≡"
	if len(n.Tags) > 0 {
		header += " #" + strings.Join(n.Tags, " #")
	}
	for i, ch := range clip(header, inner) {
		put(c0+1+i, r0, ch, selected)
	}

	// Body: wrapped content, keeping the last row for the resize grip.
	lines := wrap(n.Content, inner)
	for i, line := range lines {
		row := r0 + 1 + i
		if row >= r1-1 {
			break
		}
		for j, ch := range []rune(line) {
			put(c0+1+j, row, ch, false)
		}
	}

	put(c1-1, r1-1, '◢', false)
}

func writeRow(b *strings.Builder, row []cell) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && sameStyle(row[i], row[start]) {
			continue
		}
		run := make([]rune, 0, i-start)
		for _, c := range row[start:i] {
			run = append(run, c.ch)
		}
		b.WriteString(styleFor(row[start]).Render(string(run)))
		start = i
	}
}

func sameStyle(a, b cell) bool {
	return a.bg == b.bg && a.bold == b.bold
}

func styleFor(c cell) lipgloss.Style {
	if c.bg == "" {
		return lipgloss.NewStyle().Foreground(canvasColor)
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.bg)).
		Foreground(inkColor).
		Bold(c.bold)
}

// clip truncates s to n runes.
func clip(s string, n int) []rune {
	r := []rune(s)
	if len(r) > n {
		if n > 1 {
			return append(r[:n-1], '…')
		}
		return r[:n]
	}
	return r
}

// wrap breaks text into lines of at most width runes, splitting on spaces
// where it can.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := []rune{}
		for _, word := range strings.FieldsFunc(para, unicode.IsSpace) {
			w := []rune(word)
			for len(w) > width {
				if len(line) > 0 {
					out = append(out, string(line))
					line = line[:0]
				}
				out = append(out, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(line) == 0:
				line = append(line, w...)
			case len(line)+1+len(w) <= width:
				line = append(append(line, ' '), w...)
			default:
				out = append(out, string(line))
				line = append([]rune{}, w...)
			}
		}
		out = append(out, string(line))
	}
	return out
}
