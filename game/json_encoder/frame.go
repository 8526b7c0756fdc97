package jsonenc

import (
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/game"
	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/google/uuid"
)

// Frame is the wire form of game.Frame.
type Frame struct {
	RunID     uuid.UUID `json:"run_id"`
	Tick      int       `json:"tick"`
	ElapsedMS int64     `json:"elapsed_ms"`
	Finished  bool      `json:"finished"`
	Maze      []string  `json:"maze,omitempty"`
	Overlays  []Overlay `json:"overlays"`
	Dwarfs    []Dwarf   `json:"dwarfs"`
}

// Elapsed converts ElapsedMS back to a duration.
func (f *Frame) Elapsed() time.Duration {
	return time.Duration(f.ElapsedMS) * time.Millisecond
}

type Overlay struct {
	maze.Position
	Symbol string `json:"symbol"`
}

type Dwarf struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Symbol   string        `json:"symbol"`
	Position maze.Position `json:"position"`
	Active   bool          `json:"active"`
	Arrived  bool          `json:"arrived"`
	Status   string        `json:"status"`
}

func dwarfFromView(v game.DwarfView) Dwarf {
	return Dwarf{
		ID:       v.ID,
		Name:     v.Name,
		Symbol:   string(v.Symbol),
		Position: v.Position,
		Active:   v.Active,
		Arrived:  v.Arrived,
		Status:   v.Status(),
	}
}
