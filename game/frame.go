package game

import (
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/google/uuid"
)

// Overlay is a symbol drawn on top of a maze cell.
type Overlay struct {
	Position maze.Position
	Symbol   rune
}

// DwarfView is a read-only snapshot of one dwarf.
type DwarfView struct {
	ID       uuid.UUID
	Name     string
	Symbol   rune
	Position maze.Position
	Active   bool
	Arrived  bool
}

// Status renders the per-dwarf status text.
func (v DwarfView) Status() string {
	switch {
	case !v.Active:
		return "not yet started"
	case v.Arrived:
		return fmt.Sprintf("%s - arrived", v.Position)
	default:
		return v.Position.String()
	}
}

// Frame is everything a renderer needs to draw one state of the run.
// Frames are values; renderers may keep them after Draw returns.
type Frame struct {
	RunID    uuid.UUID
	Tick     int
	Elapsed  time.Duration
	Grid     *maze.Grid
	Overlays []Overlay
	Dwarfs   []DwarfView
	Finished bool
}

// StatusLines returns one " - name: status" line per dwarf in roster order.
func (f Frame) StatusLines() []string {
	lines := make([]string, 0, len(f.Dwarfs))
	for _, d := range f.Dwarfs {
		lines = append(lines, fmt.Sprintf(" - %s: %s", d.Name, d.Status()))
	}
	return lines
}

// Renderer draws frames. The simulation calls it only from its tick loop.
type Renderer interface {
	Draw(frame Frame) error
}

// Encoder serializes frames for sinks that ship them elsewhere.
type Encoder interface {
	MarshalFrame(frame Frame) ([]byte, error)
}
