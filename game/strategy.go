package game

import (
	"math/rand"
	"strings"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/beka-birhanu/vinom-dwarfs/service/i"
)

// Strategy decides where a dwarf goes next. Implementations keep their own
// state and are never shared between dwarfs.
type Strategy interface {
	Move(current maze.Position, grid *maze.Grid) maze.Position
}

// Strategy identifiers accepted by NewStrategy.
const (
	LeftWallKind   = "leftwall"
	RightWallKind  = "rightwall"
	RandomPortKind = "randomport"
	PathFollowKind = "pathfollow"
)

// StrategyDeps carries what the strategies may need at construction.
type StrategyDeps struct {
	Grid   *maze.Grid
	Start  maze.Position
	Goal   maze.Position
	Rand   *rand.Rand
	Logger i.Logger
}

// NewStrategy builds the strategy named by kind (case-insensitive).
// Path following computes its route here, so an unreachable goal fails now
// rather than mid-run.
func NewStrategy(kind string, deps StrategyDeps) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case LeftWallKind:
		return NewWallFollow(LeftHand), nil
	case RightWallKind:
		return NewWallFollow(RightHand), nil
	case RandomPortKind:
		return NewRandomTeleport(deps.Rand, deps.Logger), nil
	case PathFollowKind:
		return NewPathFollow(deps.Grid, deps.Start, deps.Goal)
	default:
		return nil, &UnknownStrategyError{Kind: kind}
	}
}
