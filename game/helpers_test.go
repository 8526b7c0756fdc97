package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/stretchr/testify/require"
)

// openMaze is the 5x5 walled room with S at (1,1) and F at (3,3).
const openMaze = `
#####
#S..#
#...#
#..F#
#####
`

func loadGrid(t *testing.T, text string) *maze.Grid {
	t.Helper()
	g, err := maze.Load(maze.StringSource(text))
	require.NoError(t, err)
	return g
}

func markers(t *testing.T, g *maze.Grid) (maze.Position, maze.Position) {
	t.Helper()
	start, goal, err := g.FindStartAndGoal()
	require.NoError(t, err)
	return start, goal
}

func pos(x, y int) maze.Position { return maze.Position{X: x, Y: y} }

// fakeClock advances only when slept on.
type fakeClock struct {
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps++
	c.now = c.now.Add(d)
	return nil
}

// recordingRenderer keeps every frame it is asked to draw.
type recordingRenderer struct {
	frames []Frame
	err    error
}

func (r *recordingRenderer) Draw(f Frame) error {
	r.frames = append(r.frames, f)
	return r.err
}

func (r *recordingRenderer) last() Frame { return r.frames[len(r.frames)-1] }

var errDraw = errors.New("draw failed")

// testLogger records messages per level.
type testLogger struct {
	debugs, infos, warnings, errors []string
}

func (l *testLogger) Debug(msg string)   { l.debugs = append(l.debugs, msg) }
func (l *testLogger) Info(msg string)    { l.infos = append(l.infos, msg) }
func (l *testLogger) Warning(msg string) { l.warnings = append(l.warnings, msg) }
func (l *testLogger) Error(msg string)   { l.errors = append(l.errors, msg) }

// walk calls Move n times, feeding each result back in.
func walk(s Strategy, g *maze.Grid, from maze.Position, n int) []maze.Position {
	moves := make([]maze.Position, 0, n)
	for k := 0; k < n; k++ {
		from = s.Move(from, g)
		moves = append(moves, from)
	}
	return moves
}
