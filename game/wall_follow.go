package game

import "github.com/beka-birhanu/vinom-dwarfs/maze"

// Hand selects which wall a WallFollow keeps touching.
type Hand int

const (
	LeftHand Hand = iota
	RightHand
)

func (h Hand) String() string {
	if h == RightHand {
		return "right"
	}
	return "left"
}

// WallFollow is the hand-on-wall maze solver. It prefers turning towards its
// wall, then going straight, then turning away. It does not detect loops.
type WallFollow struct {
	hand      Hand
	direction Direction
}

// NewWallFollow returns a follower heading down.
func NewWallFollow(hand Hand) *WallFollow {
	return &WallFollow{hand: hand, direction: Down}
}

// Direction is the heading after the last move.
func (w *WallFollow) Direction() Direction { return w.direction }

func (w *WallFollow) towardWall(d Direction) Direction {
	if w.hand == LeftHand {
		return d.RotateLeft()
	}
	return d.RotateRight()
}

func (w *WallFollow) awayFromWall(d Direction) Direction {
	if w.hand == LeftHand {
		return d.RotateRight()
	}
	return d.RotateLeft()
}

// Move resolves the heading and steps once along it if possible.
// A blocked heading leaves the dwarf where it is.
func (w *WallFollow) Move(current maze.Position, grid *maze.Grid) maze.Position {
	wallDirection := w.towardWall(w.direction)

	switch {
	case grid.Passable(wallDirection.From(current)):
		w.direction = wallDirection
	case grid.Passable(w.direction.From(current)):
		// straight ahead is open, keep heading
	default:
		w.direction = w.awayFromWall(w.direction)
	}

	if next := w.direction.From(current); grid.Passable(next) {
		return next
	}
	return current
}
