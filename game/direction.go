package game

import "github.com/beka-birhanu/vinom-dwarfs/maze"

// Direction is a unit step on the 4-connected grid.
type Direction struct {
	DX int
	DY int
}

// The four movement directions. Y grows downwards.
var (
	Up    = Direction{DX: 0, DY: -1}
	Down  = Direction{DX: 0, DY: 1}
	Left  = Direction{DX: -1, DY: 0}
	Right = Direction{DX: 1, DY: 0}
)

// searchOrder is the neighbour expansion order of the shortest path search.
// It decides which of several equally short paths is returned.
var searchOrder = [4]Direction{Up, Left, Down, Right}

// RotateLeft turns d by 90 degrees: (dx, dy) -> (-dy, dx).
func (d Direction) RotateLeft() Direction {
	return Direction{DX: -d.DY, DY: d.DX}
}

// RotateRight turns d by 90 degrees the other way: (dx, dy) -> (dy, -dx).
func (d Direction) RotateRight() Direction {
	return Direction{DX: d.DY, DY: -d.DX}
}

// From returns the cell one step from p in direction d.
func (d Direction) From(p maze.Position) maze.Position {
	return p.Add(d.DX, d.DY)
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}
