package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionRotation(t *testing.T) {
	cases := []struct {
		from, left, right Direction
	}{
		{Down, Left, Right},
		{Left, Up, Down},
		{Up, Right, Left},
		{Right, Down, Up},
	}
	for _, tc := range cases {
		t.Run(tc.from.String(), func(t *testing.T) {
			assert.Equal(t, tc.left, tc.from.RotateLeft())
			assert.Equal(t, tc.right, tc.from.RotateRight())
			assert.Equal(t, tc.from, tc.from.RotateLeft().RotateRight())
		})
	}
}

func TestWallFollow(t *testing.T) {
	g := loadGrid(t, openMaze)
	start, goal := markers(t, g)

	t.Run("Left hand", func(t *testing.T) {
		moves := walk(NewWallFollow(LeftHand), g, start, 4)
		assert.Equal(t, []maze.Position{pos(1, 2), pos(1, 3), pos(2, 3), goal}, moves)
	})

	t.Run("Right hand", func(t *testing.T) {
		moves := walk(NewWallFollow(RightHand), g, start, 4)
		assert.Equal(t, []maze.Position{pos(2, 1), pos(3, 1), pos(3, 2), goal}, moves)
	})

	t.Run("Hands diverge at a junction", func(t *testing.T) {
		junction := loadGrid(t, "#######\n#..S..#\n###.###\n###F###\n#######")
		from, _ := markers(t, junction)

		left, right := NewWallFollow(LeftHand), NewWallFollow(RightHand)
		var leftDirs, rightDirs []Direction
		lp, rp := from, from
		for k := 0; k < 6; k++ {
			lp = left.Move(lp, junction)
			rp = right.Move(rp, junction)
			leftDirs = append(leftDirs, left.Direction())
			rightDirs = append(rightDirs, right.Direction())
		}
		assert.NotEqual(t, leftDirs, rightDirs)
		assert.Equal(t, Left, leftDirs[0])
		assert.Equal(t, Right, rightDirs[0])
	})

	t.Run("Boxed in stalls and turns away", func(t *testing.T) {
		box := loadGrid(t, "###\n#S#\n###")
		w := NewWallFollow(LeftHand)
		assert.Equal(t, pos(1, 1), w.Move(pos(1, 1), box))
		assert.Equal(t, Right, w.Direction())
	})

	t.Run("Never steps onto a wall", func(t *testing.T) {
		corridor := loadGrid(t, "#########\n#S..#..F#\n#.#...#.#\n#########")
		from, _ := markers(t, corridor)
		for _, hand := range []Hand{LeftHand, RightHand} {
			for _, p := range walk(NewWallFollow(hand), corridor, from, 50) {
				assert.True(t, corridor.Passable(p), "%s hand stepped on %s", hand, p)
			}
		}
	})
}

func TestRandomTeleport(t *testing.T) {
	g := loadGrid(t, openMaze)
	start, _ := markers(t, g)

	t.Run("Lands on open cells without immediate repeats", func(t *testing.T) {
		tp := NewRandomTeleport(rand.New(rand.NewSource(7)), &testLogger{})
		moves := walk(tp, g, start, 1000)
		for k, p := range moves {
			require.True(t, g.Passable(p), "teleported onto wall %s", p)
			if k > 0 {
				require.NotEqual(t, moves[k-1], p, "repeated target at move %d", k)
			}
		}
	})

	t.Run("Same seed same sequence", func(t *testing.T) {
		a := walk(NewRandomTeleport(rand.New(rand.NewSource(42)), nil), g, start, 50)
		b := walk(NewRandomTeleport(rand.New(rand.NewSource(42)), nil), g, start, 50)
		assert.Equal(t, a, b)
	})

	t.Run("Single open cell is accepted after retries", func(t *testing.T) {
		single := loadGrid(t, "###\n#S#\n###")
		tp := NewRandomTeleport(rand.New(rand.NewSource(1)), nil)
		assert.Equal(t, pos(1, 1), tp.Move(pos(1, 1), single))
		assert.Equal(t, pos(1, 1), tp.Move(pos(1, 1), single))
	})

	t.Run("No open cell stalls with a warning", func(t *testing.T) {
		solid := loadGrid(t, "###\n###")
		logger := &testLogger{}
		tp := NewRandomTeleport(rand.New(rand.NewSource(1)), logger)
		assert.Equal(t, pos(1, 1), tp.Move(pos(1, 1), solid))
		assert.Len(t, logger.warnings, 1)
	})
}

func TestShortestPath(t *testing.T) {
	t.Run("Open room takes the first shortest path", func(t *testing.T) {
		g := loadGrid(t, openMaze)
		start, goal := markers(t, g)

		path, err := ShortestPath(g, start, goal)
		require.NoError(t, err)
		assert.Equal(t, []maze.Position{pos(1, 1), pos(1, 2), pos(1, 3), pos(2, 3), pos(3, 3)}, path)
		assert.Equal(t, 4, len(path)-1)
	})

	cases := []struct {
		name     string
		text     string
		distance int
	}{
		{"Straight corridor", "S.....F", 6},
		{"Vertical corridor", "S\n.\n.\nF", 3},
		{"Winding maze", "#######\n#S#...#\n#.#.#.#\n#...#F#\n#######", 10},
		{"Adjacent", "SF", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := loadGrid(t, tc.text)
			start, goal := markers(t, g)

			path, err := ShortestPath(g, start, goal)
			require.NoError(t, err)
			assert.Equal(t, tc.distance, len(path)-1)
			assert.Equal(t, start, path[0])
			assert.Equal(t, goal, path[len(path)-1])
			for k := 1; k < len(path); k++ {
				dx, dy := path[k].X-path[k-1].X, path[k].Y-path[k-1].Y
				assert.Equal(t, 1, dx*dx+dy*dy, "non-adjacent step %s -> %s", path[k-1], path[k])
				assert.True(t, g.Passable(path[k]))
			}
		})
	}

	t.Run("Length matches a distance map on generated mazes", func(t *testing.T) {
		for seed := int64(1); seed <= 8; seed++ {
			rows, err := maze.Generate(12, 9, rand.New(rand.NewSource(seed)))
			require.NoError(t, err)
			g, err := maze.New(rows)
			require.NoError(t, err)
			start, goal := markers(t, g)

			path, err := ShortestPath(g, start, goal)
			require.NoError(t, err)
			want, ok := distances(g, start)[goal]
			require.True(t, ok, "seed %d: goal unreachable in distance map", seed)
			assert.Equal(t, want, len(path)-1, "seed %d", seed)
		}
	})

	t.Run("Unreachable goal", func(t *testing.T) {
		g := loadGrid(t, "#####\n#S#F#\n#####")
		start, goal := markers(t, g)

		_, err := ShortestPath(g, start, goal)
		assert.True(t, errors.Is(err, ErrNoPath))

		var noPath *NoPathError
		require.True(t, errors.As(err, &noPath))
		assert.Equal(t, start, noPath.Start)
		assert.Equal(t, goal, noPath.Goal)
	})
}

func TestPathFollow(t *testing.T) {
	g := loadGrid(t, openMaze)
	start, goal := markers(t, g)

	pf, err := NewPathFollow(g, start, goal)
	require.NoError(t, err)
	assert.Len(t, pf.Path(), 5)

	moves := walk(pf, g, start, 6)
	assert.Equal(t, []maze.Position{pos(1, 2), pos(1, 3), pos(2, 3), goal, goal, goal}, moves)

	again, err := NewPathFollow(g, start, goal)
	require.NoError(t, err)
	assert.Equal(t, moves, walk(again, g, start, 6))
}

func TestNewStrategy(t *testing.T) {
	g := loadGrid(t, openMaze)
	start, goal := markers(t, g)
	deps := StrategyDeps{Grid: g, Start: start, Goal: goal, Rand: rand.New(rand.NewSource(1))}

	kinds := map[string]interface{}{
		"leftwall":   &WallFollow{},
		"RightWall":  &WallFollow{},
		"randomport": &RandomTeleport{},
		"pathfollow": &PathFollow{},
	}
	for kind, want := range kinds {
		t.Run(kind, func(t *testing.T) {
			s, err := NewStrategy(kind, deps)
			require.NoError(t, err)
			assert.IsType(t, want, s)
		})
	}

	t.Run("Unknown kind", func(t *testing.T) {
		_, err := NewStrategy("teleporter", deps)
		assert.True(t, errors.Is(err, ErrUnknownStrategy))
		assert.EqualError(t, err, `unknown strategy "teleporter"`)
	})

	t.Run("Path strategy fails on unreachable goal", func(t *testing.T) {
		blocked := loadGrid(t, "S#F")
		s, f := markers(t, blocked)
		_, err := NewStrategy(PathFollowKind, StrategyDeps{Grid: blocked, Start: s, Goal: f})
		assert.True(t, errors.Is(err, ErrNoPath))
	})
}

// distances floods the grid from origin and records every reachable cell's
// step count.
func distances(g *maze.Grid, origin maze.Position) map[maze.Position]int {
	dist := map[maze.Position]int{origin: 0}
	frontier := []maze.Position{origin}
	for len(frontier) > 0 {
		var next []maze.Position
		for _, p := range frontier {
			for _, n := range []maze.Position{p.Add(1, 0), p.Add(-1, 0), p.Add(0, 1), p.Add(0, -1)} {
				if _, seen := dist[n]; seen || !g.Passable(n) {
					continue
				}
				dist[n] = dist[p] + 1
				next = append(next, n)
			}
		}
		frontier = next
	}
	return dist
}
