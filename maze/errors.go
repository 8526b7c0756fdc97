package maze

import (
	"errors"
	"fmt"
)

// Maze construction errors.
var (
	ErrMazeFormat    = errors.New("maze: invalid format")
	ErrMissingMarker = errors.New("maze: missing start or goal marker")
)

// MazeFormatError reports a maze that is empty or whose rows differ in length.
// Line is 1-based; it is zero for an empty maze.
type MazeFormatError struct {
	Line     int
	Expected int
	Found    int
}

func (e *MazeFormatError) Error() string {
	if e.Line == 0 {
		return "maze: no rows to load"
	}
	return fmt.Sprintf("maze: line %d: expected %d characters, found %d", e.Line, e.Expected, e.Found)
}

// Unwrap lets errors.Is match ErrMazeFormat.
func (e *MazeFormatError) Unwrap() error { return ErrMazeFormat }

// MissingMarkerError reports which markers a maze lacks.
type MissingMarkerError struct {
	MissingStart bool
	MissingGoal  bool
}

func (e *MissingMarkerError) Error() string {
	switch {
	case e.MissingStart && e.MissingGoal:
		return fmt.Sprintf("maze: missing start %q and goal %q", StartCode, GoalCode)
	case e.MissingStart:
		return fmt.Sprintf("maze: missing start %q", StartCode)
	default:
		return fmt.Sprintf("maze: missing goal %q", GoalCode)
	}
}

// Unwrap lets errors.Is match ErrMissingMarker.
func (e *MissingMarkerError) Unwrap() error { return ErrMissingMarker }
