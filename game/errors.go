package game

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
)

// Simulation setup errors.
var (
	ErrNoPath          = errors.New("no path from start to goal")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrEmptyRoster     = errors.New("simulation needs at least one dwarf")
	ErrRosterOrder     = errors.New("dwarf start delays must be strictly increasing")
	ErrNilRenderer     = errors.New("simulation needs a renderer")
	ErrNilGrid         = errors.New("simulation needs a grid")
	ErrNilDwarf        = errors.New("simulation roster holds a nil dwarf")
)

// NoPathError is returned when the goal cannot be reached from the start.
type NoPathError struct {
	Start maze.Position
	Goal  maze.Position
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path from %s to %s", e.Start, e.Goal)
}

// Unwrap lets errors.Is match ErrNoPath.
func (e *NoPathError) Unwrap() error { return ErrNoPath }

// UnknownStrategyError is returned for a strategy identifier nobody implements.
type UnknownStrategyError struct {
	Kind string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q", e.Kind)
}

// Unwrap lets errors.Is match ErrUnknownStrategy.
func (e *UnknownStrategyError) Unwrap() error { return ErrUnknownStrategy }
