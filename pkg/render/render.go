// Package render paints the label band onto the terminal surface and
// provides the text measurement the protocol exposes.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/csm10495/deskband/pkg/store"
)

// MeasureText returns the size of text in surface cells: the widest line
// by display width, and the line count. Deterministic for identical input.
func MeasureText(text string) (width, height int) {
	return lipgloss.Width(text), lipgloss.Height(text)
}

// Renderer owns the drawing surface (the daemon's tty) and the repaint
// queue. Invalidate may be called from any goroutine; paints happen on the
// single goroutine draining Repaint.
type Renderer struct {
	output *termenv.Output
	tty    *os.File

	mu             sync.Mutex
	fallbackWidth  int
	fallbackHeight int
	painted        bool

	repaint chan struct{}
}

// New creates a renderer writing to tty. The fallback geometry is used
// when tty is nil or not a terminal.
func New(tty *os.File, fallbackWidth, fallbackHeight int) *Renderer {
	var out io.Writer = io.Discard
	if tty != nil {
		out = tty
	}
	return &Renderer{
		output:         termenv.NewOutput(out),
		tty:            tty,
		fallbackWidth:  fallbackWidth,
		fallbackHeight: fallbackHeight,
		repaint:        make(chan struct{}, 1),
	}
}

// SurfaceSize reports the surface dimensions: live terminal width when the
// surface is a terminal, the configured band height always (the band is a
// fixed-height strip).
func (r *Renderer) SurfaceSize() (width, height int) {
	r.mu.Lock()
	width, height = r.fallbackWidth, r.fallbackHeight
	r.mu.Unlock()
	if r.tty != nil {
		if w, _, err := term.GetSize(int(r.tty.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return width, height
}

// SetFallbackSize updates the fallback geometry (config reload).
func (r *Renderer) SetFallbackSize(width, height int) {
	r.mu.Lock()
	if width > 0 {
		r.fallbackWidth = width
	}
	if height > 0 {
		r.fallbackHeight = height
	}
	r.mu.Unlock()
}

// Invalidate queues a repaint. Pending requests coalesce; the call never
// blocks.
func (r *Renderer) Invalidate() {
	select {
	case r.repaint <- struct{}{}:
	default:
	}
}

// Repaint is the channel the paint goroutine drains.
func (r *Renderer) Repaint() <-chan struct{} {
	return r.repaint
}

// Paint composites the labels and writes the band in place, rewinding over
// the previous paint.
func (r *Renderer) Paint(labels []store.Label) {
	width, height := r.SurfaceSize()
	lines := ComposeBand(labels, width, height)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.painted {
		r.output.CursorPrevLine(len(lines))
	}
	for _, line := range lines {
		r.output.ClearLine()
		r.output.WriteString(line + "\n")
	}
	r.painted = true
}

type cell struct {
	r     rune
	color string
}

// ComposeBand renders labels onto a width×height cell grid at their X/Y
// offsets, later labels painting over earlier ones, and returns one styled
// string per band line. Out-of-surface cells are clipped.
func ComposeBand(labels []store.Label, width, height int) []string {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	grid := make([][]cell, height)
	for y := range grid {
		grid[y] = make([]cell, width)
		for x := range grid[y] {
			grid[y][x] = cell{r: ' '}
		}
	}

	for _, label := range labels {
		color := HexColor(label.Red, label.Green, label.Blue)
		x, y := label.X, label.Y
		for _, ch := range label.Text {
			if ch == '\n' {
				y++
				x = label.X
				continue
			}
			cw := runewidth.RuneWidth(ch)
			if cw == 0 || y < 0 || y >= height {
				continue
			}
			if x >= 0 && x < width {
				grid[y][x] = cell{r: ch, color: color}
			}
			// a wide rune's second cell is a continuation marker
			if cw == 2 && x+1 >= 0 && x+1 < width {
				grid[y][x+1] = cell{r: 0, color: color}
			}
			x += cw
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		var run []rune
		runColor := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			text := string(run)
			if runColor != "" {
				text = lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(text)
			}
			b.WriteString(text)
			run = run[:0]
		}
		for _, c := range row {
			if c.r == 0 {
				continue
			}
			if c.color != runColor {
				flush()
				runColor = c.color
			}
			run = append(run, c.r)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

// HexColor formats label channels as a hex color. Channels are passed
// through modulo 256, matching how out-of-range protocol values have
// always been truncated at paint time.
func HexColor(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", uint8(r), uint8(g), uint8(b))
}
