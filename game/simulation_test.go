package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type simFixture struct {
	grid     *maze.Grid
	start    maze.Position
	goal     maze.Position
	renderer *recordingRenderer
	clock    *fakeClock
	logger   *testLogger
}

func newSimFixture(t *testing.T, text string) *simFixture {
	g := loadGrid(t, text)
	start, goal := markers(t, g)
	return &simFixture{
		grid:     g,
		start:    start,
		goal:     goal,
		renderer: &recordingRenderer{},
		clock:    newFakeClock(),
		logger:   &testLogger{},
	}
}

func (f *simFixture) dwarf(t *testing.T, kind, name string, symbol rune, delay time.Duration) *Dwarf {
	t.Helper()
	s, err := NewStrategy(kind, StrategyDeps{
		Grid:  f.grid,
		Start: f.start,
		Goal:  f.goal,
		Rand:  rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	return NewDwarf(name, symbol, f.start, f.goal, s, delay)
}

func (f *simFixture) simulation(t *testing.T, clearArrived bool, dwarfs ...*Dwarf) *Simulation {
	t.Helper()
	sim, err := NewSimulation(Config{
		Grid:           f.grid,
		Dwarfs:         dwarfs,
		Renderer:       f.renderer,
		Clock:          f.clock,
		ClearOnArrival: clearArrived,
		Logger:         f.logger,
	})
	require.NoError(t, err)
	return sim
}

func TestNewSimulation(t *testing.T) {
	f := newSimFixture(t, openMaze)
	first := f.dwarf(t, LeftWallKind, "L", 'L', 0)
	second := f.dwarf(t, RightWallKind, "R", 'R', 5*time.Second)

	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"Missing grid", Config{Renderer: f.renderer, Dwarfs: []*Dwarf{first}}, ErrNilGrid},
		{"Missing renderer", Config{Grid: f.grid, Dwarfs: []*Dwarf{first}}, ErrNilRenderer},
		{"Empty roster", Config{Grid: f.grid, Renderer: f.renderer}, ErrEmptyRoster},
		{"Delays out of order", Config{Grid: f.grid, Renderer: f.renderer, Dwarfs: []*Dwarf{second, first}}, ErrRosterOrder},
		{"Equal delays", Config{Grid: f.grid, Renderer: f.renderer, Dwarfs: []*Dwarf{first, first}}, ErrRosterOrder},
		{"Nil dwarf", Config{Grid: f.grid, Renderer: f.renderer, Dwarfs: []*Dwarf{first, nil}}, ErrNilDwarf},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sim, err := NewSimulation(tc.cfg)
			assert.Nil(t, sim)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	t.Run("Defaults", func(t *testing.T) {
		sim, err := NewSimulation(Config{Grid: f.grid, Renderer: f.renderer, Dwarfs: []*Dwarf{first, second}})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, sim.RunID())
		assert.Equal(t, defaultTickInterval, sim.tickInterval)
		assert.Equal(t, Running, sim.State())
		assert.Equal(t, 0, sim.Ticks())
	})
}

func TestSimulationRun(t *testing.T) {
	t.Run("Path follower finishes in four ticks", func(t *testing.T) {
		f := newSimFixture(t, openMaze)
		sim := f.simulation(t, true, f.dwarf(t, PathFollowKind, "PathFollowerDwarf", 'P', 0))

		require.NoError(t, sim.Run(context.Background()))
		assert.Equal(t, Finished, sim.State())
		assert.Equal(t, 4, sim.Ticks())

		// bare maze plus one redraw per move
		require.Len(t, f.renderer.frames, 5)
		bare := f.renderer.frames[0]
		assert.Equal(t, 0, bare.Tick)
		assert.Empty(t, bare.Overlays)
		assert.Equal(t, []string{" - PathFollowerDwarf: not yet started"}, bare.StatusLines())

		first := f.renderer.frames[1]
		assert.Equal(t, []Overlay{{Position: pos(1, 2), Symbol: 'P'}}, first.Overlays)
		assert.False(t, first.Finished)

		last := f.renderer.last()
		assert.True(t, last.Finished)
		assert.Empty(t, last.Overlays)
		assert.Equal(t, []string{" - PathFollowerDwarf: (3, 3) - arrived"}, last.StatusLines())
		assert.Equal(t, 300*time.Millisecond, last.Elapsed)

		assert.Equal(t, 3, f.clock.sleeps)
		assert.NotEmpty(t, f.logger.infos)
		require.Len(t, f.logger.debugs, 4)
		assert.True(t, strings.HasPrefix(f.logger.debugs[0], "tick 1 at 0s: "), f.logger.debugs[0])
	})

	t.Run("Arrived dwarfs stay visible when clearing is off", func(t *testing.T) {
		f := newSimFixture(t, openMaze)
		sim := f.simulation(t, false, f.dwarf(t, PathFollowKind, "P", 'P', 0))

		require.NoError(t, sim.Run(context.Background()))
		assert.Equal(t, []Overlay{{Position: f.goal, Symbol: 'P'}}, f.renderer.last().Overlays)
	})

	t.Run("Staggered wall followers", func(t *testing.T) {
		f := newSimFixture(t, openMaze)
		left := f.dwarf(t, LeftWallKind, "L", 'L', 0)
		right := f.dwarf(t, RightWallKind, "R", 'R', 200*time.Millisecond)
		sim := f.simulation(t, true, left, right)

		require.NoError(t, sim.Run(context.Background()))
		// L arrives on tick 4; R starts on tick 3 (elapsed 200ms) and needs four moves.
		assert.Equal(t, 6, sim.Ticks())
		assert.True(t, left.IsAtFinish())
		assert.True(t, right.IsAtFinish())
		assert.Len(t, f.renderer.frames, 7)
	})

	t.Run("Cancelled context stops the loop", func(t *testing.T) {
		f := newSimFixture(t, openMaze)
		sim := f.simulation(t, true, f.dwarf(t, PathFollowKind, "P", 'P', 0))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := sim.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, Running, sim.State())
		assert.Equal(t, 1, sim.Ticks())
	})

	t.Run("Renderer errors are logged and do not stop the run", func(t *testing.T) {
		f := newSimFixture(t, openMaze)
		f.renderer.err = errDraw
		sim := f.simulation(t, true, f.dwarf(t, PathFollowKind, "P", 'P', 0))

		require.NoError(t, sim.Run(context.Background()))
		assert.Equal(t, Finished, sim.State())
		assert.Len(t, f.logger.errors, 5)
		assert.True(t, strings.Contains(f.logger.errors[0], errDraw.Error()))
	})
}

func TestSimulationStep(t *testing.T) {
	corridor := "S" + strings.Repeat(".", 29) + "F"

	t.Run("Activation follows the start delay", func(t *testing.T) {
		f := newSimFixture(t, corridor)
		d := f.dwarf(t, PathFollowKind, "P", 'P', 5*time.Second)
		sim := f.simulation(t, true, d)

		for elapsed := time.Duration(0); elapsed <= 7*time.Second; elapsed += 100 * time.Millisecond {
			sim.Step(elapsed)
			assert.Equal(t, elapsed >= 5*time.Second, d.Active(), "at %v", elapsed)
		}
		// one frame per move from 5000ms through 7000ms
		assert.Len(t, f.renderer.frames, 21)
	})

	t.Run("Frames only on change", func(t *testing.T) {
		f := newSimFixture(t, corridor)
		d := f.dwarf(t, PathFollowKind, "P", 'P', 300*time.Millisecond)
		sim := f.simulation(t, true, d)

		for k := 0; k < 3; k++ {
			assert.False(t, sim.Step(time.Duration(k)*100*time.Millisecond))
		}
		assert.Empty(t, f.renderer.frames)

		sim.Step(300 * time.Millisecond)
		require.Len(t, f.renderer.frames, 1)
		assert.Equal(t, 4, f.renderer.frames[0].Tick)
		assert.Equal(t, pos(1, 0), d.Position())
	})

	t.Run("Finished simulation ignores further steps", func(t *testing.T) {
		f := newSimFixture(t, "SF")
		sim := f.simulation(t, true, f.dwarf(t, RightWallKind, "R", 'R', 0))

		assert.True(t, sim.Step(0))
		assert.True(t, sim.Step(100*time.Millisecond))
		assert.Equal(t, 1, sim.Ticks())
		assert.Len(t, f.renderer.frames, 1)
	})

	t.Run("Same inputs replay identically", func(t *testing.T) {
		run := func() []maze.Position {
			f := newSimFixture(t, openMaze)
			teleporter := f.dwarf(t, RandomPortKind, "T", 'T', 0)
			walker := f.dwarf(t, LeftWallKind, "L", 'L', 100*time.Millisecond)
			sim := f.simulation(t, true, teleporter, walker)

			var trace []maze.Position
			for k := 0; k < 40 && !sim.Step(time.Duration(k)*100*time.Millisecond); k++ {
				trace = append(trace, teleporter.Position(), walker.Position())
			}
			return trace
		}
		assert.Equal(t, run(), run())
	})
}

func TestSimulationConcurrentReaders(t *testing.T) {
	f := newSimFixture(t, "S"+strings.Repeat(".", 398)+"F")
	sim, err := NewSimulation(Config{
		Grid:         f.grid,
		Dwarfs:       []*Dwarf{f.dwarf(t, PathFollowKind, "P", 'P', 0)},
		Renderer:     f.renderer,
		TickInterval: time.Millisecond,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		last := 0
		for {
			select {
			case <-done:
				return
			default:
			}
			ticks := sim.Ticks()
			assert.GreaterOrEqual(t, ticks, last)
			last = ticks
			_ = sim.State()
		}
	}()

	require.NoError(t, sim.Run(context.Background()))
	close(done)
	wg.Wait()
	assert.Equal(t, Finished, sim.State())
	assert.Equal(t, 399, sim.Ticks())
}
