package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/game"
	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/beka-birhanu/vinom-dwarfs/service/i"
	"github.com/google/uuid"
)

// SessionConfig carries what is needed to set up one simulation run.
type SessionConfig struct {
	Grid           *maze.Grid
	Roster         []RosterEntry
	Renderer       game.Renderer
	Clock          game.Clock
	Tick           time.Duration
	Seed           int64 // Seed feeds the teleport strategies; 0 picks one from the clock.
	ClearOnArrival bool
	Logger         i.Logger
}

// Session owns one simulation run and remembers its latest frame for
// readers outside the tick loop.
type Session struct {
	sim      *game.Simulation
	renderer game.Renderer
	seed     int64
	logger   i.Logger

	latest game.Frame
	sync.RWMutex
}

// NewSession locates the markers, builds a strategy per roster entry and
// wires the simulation to draw through the session.
func NewSession(c SessionConfig) (*Session, error) {
	if c.Grid == nil {
		return nil, game.ErrNilGrid
	}
	if c.Renderer == nil {
		return nil, game.ErrNilRenderer
	}

	start, goal, err := c.Grid.FindStartAndGoal()
	if err != nil {
		return nil, err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dwarfs := make([]*game.Dwarf, 0, len(c.Roster))
	for _, entry := range c.Roster {
		strategy, err := game.NewStrategy(entry.Kind, game.StrategyDeps{
			Grid:   c.Grid,
			Start:  start,
			Goal:   goal,
			Rand:   rng,
			Logger: c.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", entry.Name, err)
		}
		dwarfs = append(dwarfs, game.NewDwarf(entry.Name, entry.Symbol, start, goal, strategy, entry.StartDelay))
	}

	s := &Session{
		renderer: c.Renderer,
		seed:     seed,
		logger:   c.Logger,
	}
	sim, err := game.NewSimulation(game.Config{
		RunID:          uuid.New(),
		Grid:           c.Grid,
		Dwarfs:         dwarfs,
		Renderer:       s,
		Clock:          c.Clock,
		TickInterval:   c.Tick,
		ClearOnArrival: c.ClearOnArrival,
		Logger:         c.Logger,
	})
	if err != nil {
		return nil, err
	}
	s.sim = sim
	s.latest = sim.Frame(0)

	if s.logger != nil {
		s.logger.Info(fmt.Sprintf("session %s: %d dwarfs, start %s, goal %s, seed %d", sim.RunID(), len(dwarfs), start, goal, seed))
	}
	return s, nil
}

// ID is the run ID stamped on every frame.
func (s *Session) ID() uuid.UUID { return s.sim.RunID() }

// Seed is the teleport seed actually used, for replaying a run.
func (s *Session) Seed() int64 { return s.seed }

// Simulation exposes the underlying scheduler.
func (s *Session) Simulation() *game.Simulation { return s.sim }

// Run blocks until every dwarf has arrived or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	return s.sim.Run(ctx)
}

// Draw implements game.Renderer: it records f and forwards it.
func (s *Session) Draw(f game.Frame) error {
	s.Lock()
	s.latest = f
	s.Unlock()
	return s.renderer.Draw(f)
}

// Latest returns the most recently drawn frame.
func (s *Session) Latest() game.Frame {
	s.RLock()
	defer s.RUnlock()
	return s.latest
}
