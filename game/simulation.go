package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
	"github.com/beka-birhanu/vinom-dwarfs/service/i"
	"github.com/google/uuid"
)

// State is the lifecycle of a simulation run.
type State int

const (
	Running  State = iota // Running until every dwarf has arrived.
	Finished              // Finished is terminal.
)

func (s State) String() string {
	if s == Finished {
		return "finished"
	}
	return "running"
}

const defaultTickInterval = 100 * time.Millisecond

// Config carries the dependencies of a Simulation.
type Config struct {
	RunID          uuid.UUID     // RunID tags every frame; generated when zero.
	Grid           *maze.Grid    // Grid is shared read-only by all dwarfs.
	Dwarfs         []*Dwarf      // Dwarfs in roster order; start delays strictly increase.
	Renderer       Renderer      // Renderer receives a frame on every change.
	Clock          Clock         // Clock defaults to WallClock.
	TickInterval   time.Duration // TickInterval defaults to 100ms.
	ClearOnArrival bool          // ClearOnArrival hides arrived dwarfs from the overlay.
	Logger         i.Logger      // Logger is optional.
}

// Simulation advances every dwarf once per tick on a single timeline.
// Only the tick loop mutates it; State and Ticks may be read from anywhere.
type Simulation struct {
	runID          uuid.UUID
	grid           *maze.Grid
	dwarfs         []*Dwarf
	renderer       Renderer
	clock          Clock
	tickInterval   time.Duration
	clearOnArrival bool
	logger         i.Logger

	mu       sync.RWMutex // guards state and ticks
	state    State
	ticks    int
	start    time.Time
	previous []maze.Position
}

// NewSimulation validates c and returns a simulation ready to Run.
func NewSimulation(c Config) (*Simulation, error) {
	if c.Grid == nil {
		return nil, ErrNilGrid
	}
	if c.Renderer == nil {
		return nil, ErrNilRenderer
	}
	if len(c.Dwarfs) == 0 {
		return nil, ErrEmptyRoster
	}
	for k, d := range c.Dwarfs {
		if d == nil {
			return nil, fmt.Errorf("%w: roster entry %d", ErrNilDwarf, k)
		}
	}
	for k := 1; k < len(c.Dwarfs); k++ {
		if c.Dwarfs[k].StartDelay <= c.Dwarfs[k-1].StartDelay {
			return nil, fmt.Errorf("%w: %s starts at %v, after %s at %v", ErrRosterOrder,
				c.Dwarfs[k].Name, c.Dwarfs[k].StartDelay, c.Dwarfs[k-1].Name, c.Dwarfs[k-1].StartDelay)
		}
	}

	if c.RunID == uuid.Nil {
		c.RunID = uuid.New()
	}
	if c.Clock == nil {
		c.Clock = WallClock()
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}

	return &Simulation{
		runID:          c.RunID,
		grid:           c.Grid,
		dwarfs:         c.Dwarfs,
		renderer:       c.Renderer,
		clock:          c.Clock,
		tickInterval:   c.TickInterval,
		clearOnArrival: c.ClearOnArrival,
		logger:         c.Logger,
		state:          Running,
		previous:       positions(c.Dwarfs),
	}, nil
}

// RunID identifies this run.
func (s *Simulation) RunID() uuid.UUID { return s.runID }

// State reports whether the run has finished.
func (s *Simulation) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ticks returns how many ticks have been executed.
func (s *Simulation) Ticks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticks
}

// Run draws the bare maze, then ticks until every dwarf has arrived or ctx
// is cancelled. Between ticks it sleeps whatever is left of the tick budget.
func (s *Simulation) Run(ctx context.Context) error {
	s.start = s.clock.Now()
	s.draw(s.frame(0))

	for s.state == Running {
		tickStart := s.clock.Now()
		if s.Step(tickStart.Sub(s.start)) {
			break
		}

		wait := s.tickInterval - s.clock.Now().Sub(tickStart)
		if wait <= 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		if err := s.clock.Sleep(ctx, wait); err != nil {
			return err
		}
	}

	s.info(fmt.Sprintf("run %s finished after %d ticks", s.runID, s.ticks))
	return nil
}

// Step executes one tick at the given elapsed time and reports whether every
// dwarf has arrived. Once finished, further calls do nothing.
func (s *Simulation) Step(elapsed time.Duration) bool {
	if s.state == Finished {
		return true
	}
	s.mu.Lock()
	s.ticks++
	s.mu.Unlock()

	for _, d := range s.dwarfs {
		if !d.Active() && elapsed >= d.StartDelay {
			d.activate()
			s.info(fmt.Sprintf("%s started at %v", d.Name, elapsed.Round(time.Millisecond)))
		}
	}

	for _, d := range s.dwarfs {
		d.Tick(s.grid)
	}

	current := positions(s.dwarfs)
	changed := false
	for k := range current {
		if current[k] != s.previous[k] {
			changed = true
			break
		}
	}
	s.previous = current

	if s.allArrived() {
		s.mu.Lock()
		s.state = Finished
		s.mu.Unlock()
	}
	if changed {
		s.debug(fmt.Sprintf("tick %d at %v: %v", s.ticks, elapsed.Round(time.Millisecond), current))
		s.draw(s.frame(elapsed))
	}

	return s.state == Finished
}

// Frame snapshots the current state.
func (s *Simulation) Frame(elapsed time.Duration) Frame {
	return s.frame(elapsed)
}

func (s *Simulation) frame(elapsed time.Duration) Frame {
	f := Frame{
		RunID:    s.runID,
		Tick:     s.ticks,
		Elapsed:  elapsed,
		Grid:     s.grid,
		Overlays: make([]Overlay, 0, len(s.dwarfs)),
		Dwarfs:   make([]DwarfView, 0, len(s.dwarfs)),
		Finished: s.state == Finished,
	}
	for _, d := range s.dwarfs {
		v := d.view()
		f.Dwarfs = append(f.Dwarfs, v)
		if !v.Active || (v.Arrived && s.clearOnArrival) {
			continue
		}
		f.Overlays = append(f.Overlays, Overlay{Position: v.Position, Symbol: v.Symbol})
	}
	return f
}

func (s *Simulation) draw(f Frame) {
	if err := s.renderer.Draw(f); err != nil && s.logger != nil {
		s.logger.Error(fmt.Sprintf("drawing tick %d: %v", f.Tick, err))
	}
}

func (s *Simulation) allArrived() bool {
	for _, d := range s.dwarfs {
		if !d.IsAtFinish() {
			return false
		}
	}
	return true
}

func (s *Simulation) debug(msg string) {
	if s.logger != nil {
		s.logger.Debug(msg)
	}
}

func (s *Simulation) info(msg string) {
	if s.logger != nil {
		s.logger.Info(msg)
	}
}

func positions(dwarfs []*Dwarf) []maze.Position {
	ps := make([]maze.Position, len(dwarfs))
	for k, d := range dwarfs {
		ps[k] = d.Position()
	}
	return ps
}
