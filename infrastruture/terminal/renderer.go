package terminal

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/beka-birhanu/vinom-dwarfs/game"
	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/charmbracelet/lipgloss"
)

const clearScreen = "\033[H\033[2J"

var _ game.Renderer = &Renderer{}

// Options tune the terminal output.
type Options struct {
	NoClear bool            // NoClear appends frames instead of repainting.
	Styles  map[rune]string // Styles colours dwarf symbols, keyed by symbol, valued by ANSI palette index.
	Header  string          // Header replaces the status block title.
}

// Renderer repaints the maze with dwarf overlays and a status block on every
// frame. A frame is assembled in memory and written with a single Write.
type Renderer struct {
	out    io.Writer
	opts   Options
	styles map[rune]lipgloss.Style
	buf    bytes.Buffer
	sync.Mutex
}

// NewRenderer draws to out.
func NewRenderer(out io.Writer, opts Options) *Renderer {
	if opts.Header == "" {
		opts.Header = "Current dwarf positions:"
	}
	r := &Renderer{out: out, opts: opts, styles: make(map[rune]lipgloss.Style, len(opts.Styles))}
	for symbol, color := range opts.Styles {
		r.styles[symbol] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	}
	return r
}

// Draw implements game.Renderer.
func (r *Renderer) Draw(f game.Frame) error {
	r.Lock()
	defer r.Unlock()

	r.buf.Reset()
	if !r.opts.NoClear {
		r.buf.WriteString(clearScreen)
	}
	if f.Grid != nil {
		r.writeMaze(f.Grid, f.Overlays)
	}
	if f.Tick > 0 {
		r.buf.WriteString(r.opts.Header)
		r.buf.WriteByte('\n')
		for _, line := range f.StatusLines() {
			r.buf.WriteString(line)
			r.buf.WriteByte('\n')
		}
	}

	if _, err := r.out.Write(r.buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame %d: %w", f.Tick, err)
	}
	return nil
}

// Finish prints the closing line once every dwarf has arrived.
func (r *Renderer) Finish() error {
	r.Lock()
	defer r.Unlock()
	_, err := io.WriteString(r.out, "All dwarfs reached the goal!\n")
	return err
}

func (r *Renderer) writeMaze(g *maze.Grid, overlays []game.Overlay) {
	rows := g.Rows()
	styled := make(map[maze.Position]string, len(overlays))
	for _, o := range overlays {
		if g.Kind(o.Position) == maze.Wall {
			continue
		}
		rows[o.Position.Y][o.Position.X] = o.Symbol
		if style, ok := r.styles[o.Symbol]; ok {
			styled[o.Position] = style.Render(string(o.Symbol))
		} else {
			delete(styled, o.Position)
		}
	}

	for y, row := range rows {
		for x, code := range row {
			if s, ok := styled[maze.Position{X: x, Y: y}]; ok {
				r.buf.WriteString(s)
				continue
			}
			r.buf.WriteRune(code)
		}
		r.buf.WriteByte('\n')
	}
}
