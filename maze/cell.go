package maze

import "fmt"

// CellKind classifies a single cell of the maze.
type CellKind int

const (
	Open  CellKind = iota // Open is walkable floor.
	Wall                  // Wall blocks movement.
	Start                 // Start is where every dwarf begins.
	Goal                  // Goal is where every dwarf is heading.
)

// Cell codes used by maze files. Any other character is open floor.
const (
	WallCode  = '#'
	StartCode = 'S'
	GoalCode  = 'F'
)

func kindOf(code rune) CellKind {
	switch code {
	case WallCode:
		return Wall
	case StartCode:
		return Start
	case GoalCode:
		return Goal
	default:
		return Open
	}
}

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Start:
		return "start"
	case Goal:
		return "goal"
	default:
		return "open"
	}
}

// Position is a cell coordinate: X is the column, Y the row (growing downwards).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p shifted by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String renders the position as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}
