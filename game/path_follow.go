package game

import (
	"slices"

	"github.com/beka-birhanu/vinom-dwarfs/maze"
)

// PathFollow replays a breadth-first shortest path computed at construction.
type PathFollow struct {
	path   []maze.Position
	cursor int
}

// NewPathFollow searches a route from start to goal. It returns a
// *NoPathError when the goal is unreachable.
func NewPathFollow(grid *maze.Grid, start, goal maze.Position) (*PathFollow, error) {
	path, err := ShortestPath(grid, start, goal)
	if err != nil {
		return nil, err
	}
	// path[0] is the start cell the dwarf already stands on
	return &PathFollow{path: path, cursor: 1}, nil
}

// Path returns a copy of the route, start and goal included.
func (p *PathFollow) Path() []maze.Position {
	return slices.Clone(p.path)
}

// Move returns the next waypoint, or current once the route is exhausted.
func (p *PathFollow) Move(current maze.Position, _ *maze.Grid) maze.Position {
	if p.cursor < len(p.path) {
		next := p.path[p.cursor]
		p.cursor++
		return next
	}
	return current
}

// walker holds mutable search state.
type walker struct {
	grid    *maze.Grid
	queue   []maze.Position
	visited map[maze.Position]bool
	parent  map[maze.Position]maze.Position
}

// ShortestPath runs a breadth-first search over the 4-connected grid and
// returns the cells from start to goal inclusive. Neighbours are expanded
// up, left, down, right; the first shortest path found wins.
func ShortestPath(grid *maze.Grid, start, goal maze.Position) ([]maze.Position, error) {
	n := grid.Width() * grid.Height()
	w := &walker{
		grid:    grid,
		queue:   make([]maze.Position, 0, n),
		visited: make(map[maze.Position]bool, n),
		parent:  make(map[maze.Position]maze.Position, n),
	}

	w.enqueue(start, start)
	for len(w.queue) > 0 {
		cell := w.dequeue()
		if cell == goal {
			return w.trace(start, goal), nil
		}
		w.enqueueNeighbors(cell)
	}

	return nil, &NoPathError{Start: start, Goal: goal}
}

func (w *walker) enqueue(cell, from maze.Position) {
	w.visited[cell] = true
	if cell != from {
		w.parent[cell] = from
	}
	w.queue = append(w.queue, cell)
}

func (w *walker) dequeue() maze.Position {
	cell := w.queue[0]
	w.queue = w.queue[1:]
	return cell
}

func (w *walker) enqueueNeighbors(cell maze.Position) {
	for _, d := range searchOrder {
		next := d.From(cell)
		if w.grid.Passable(next) && !w.visited[next] {
			w.enqueue(next, cell)
		}
	}
}

// trace walks parent links back from goal and reverses them.
func (w *walker) trace(start, goal maze.Position) []maze.Position {
	path := []maze.Position{goal}
	for cell := goal; cell != start; {
		cell = w.parent[cell]
		path = append(path, cell)
	}
	slices.Reverse(path)
	return path
}
