package game

import (
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/google/uuid"
)

// Dwarf is one agent of the simulation: a strategy walking from the start
// towards the goal once its start delay has elapsed.
type Dwarf struct {
	ID         uuid.UUID     // ID identifies the dwarf in published frames.
	Name       string        // Name is shown in the status block.
	Symbol     rune          // Symbol is drawn over the maze at Position.
	StartDelay time.Duration // StartDelay is measured from simulation start.

	position maze.Position
	goal     maze.Position
	strategy Strategy
	active   bool
}

// NewDwarf places a new, inactive dwarf on start.
func NewDwarf(name string, symbol rune, start, goal maze.Position, strategy Strategy, startDelay time.Duration) *Dwarf {
	return &Dwarf{
		ID:         uuid.New(),
		Name:       name,
		Symbol:     symbol,
		StartDelay: startDelay,
		position:   start,
		goal:       goal,
		strategy:   strategy,
	}
}

// Position returns the current cell.
func (d *Dwarf) Position() maze.Position { return d.position }

// Goal returns the target cell.
func (d *Dwarf) Goal() maze.Position { return d.goal }

// Active reports whether the dwarf has started moving.
func (d *Dwarf) Active() bool { return d.active }

// activate is one-way; a dwarf never goes back to waiting.
func (d *Dwarf) activate() { d.active = true }

// IsAtFinish reports exact equality of position and goal.
func (d *Dwarf) IsAtFinish() bool {
	return d.position == d.goal
}

// Tick asks the strategy for the next cell. Inactive or arrived dwarfs stay put.
func (d *Dwarf) Tick(grid *maze.Grid) {
	if !d.active || d.IsAtFinish() {
		return
	}
	d.position = d.strategy.Move(d.position, grid)
}

// view snapshots the dwarf for a frame.
func (d *Dwarf) view() DwarfView {
	return DwarfView{
		ID:       d.ID,
		Name:     d.Name,
		Symbol:   d.Symbol,
		Position: d.position,
		Active:   d.active,
		Arrived:  d.IsAtFinish(),
	}
}
