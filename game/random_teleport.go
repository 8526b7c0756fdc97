package game

import (
	"fmt"
	"math/rand"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/beka-birhanu/vinom-dwarfs/service/i"
)

// RandomTeleport jumps to a uniformly random open cell on every move,
// avoiding its previous target when it can.
type RandomTeleport struct {
	rng    *rand.Rand
	last   *maze.Position
	logger i.Logger
}

// NewRandomTeleport samples from rng; logger receives the stall warning.
func NewRandomTeleport(rng *rand.Rand, logger i.Logger) *RandomTeleport {
	return &RandomTeleport{rng: rng, logger: logger}
}

// Move picks the next target. A sample equal to the previous target is
// redrawn until 2*len(open) draws have been made, then accepted.
func (t *RandomTeleport) Move(current maze.Position, grid *maze.Grid) maze.Position {
	open := grid.OpenCells()
	if len(open) == 0 {
		if t.logger != nil {
			t.logger.Warning(fmt.Sprintf("no open cell to teleport to, staying at %s", current))
		}
		return current
	}

	limit := 2 * len(open)
	var next maze.Position
	for tries := 0; ; {
		next = open[t.rng.Intn(len(open))]
		tries++
		if t.last == nil || next != *t.last || tries >= limit {
			break
		}
	}

	t.last = &next
	return next
}
