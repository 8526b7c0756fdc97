/*
Package maze holds the immutable grid the dwarfs walk on.

A Grid is built from rows of single-character cell codes: '#' is a wall,
'S' the start, 'F' the goal and anything else open floor. Once built, a Grid
never changes, so it is safe to share by reference between the scheduler,
the strategies and every renderer.
*/
package maze

import (
	"slices"
	"strings"
)

// Grid is a rectangular, read-only classification of maze cells.
type Grid struct {
	width  int
	height int
	codes  [][]rune     // original characters, used for drawing
	cells  [][]CellKind // classification of codes
	open   []Position   // every non-wall cell in row-major order
}

// New validates rows and builds a Grid from a deep copy of them.
// It returns a *MazeFormatError when rows is empty or ragged.
func New(rows [][]rune) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &MazeFormatError{}
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, &MazeFormatError{Line: i + 1, Expected: width, Found: len(row)}
		}
	}

	g := &Grid{
		width:  width,
		height: len(rows),
		codes:  make([][]rune, len(rows)),
		cells:  make([][]CellKind, len(rows)),
	}
	for y, row := range rows {
		g.codes[y] = slices.Clone(row)
		g.cells[y] = make([]CellKind, width)
		for x, code := range row {
			kind := kindOf(code)
			g.cells[y][x] = kind
			if kind != Wall {
				g.open = append(g.open, Position{X: x, Y: y})
			}
		}
	}

	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBound reports whether p lies inside the grid.
func (g *Grid) InBound(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Kind returns the classification of p. Out-of-bound positions are walls.
func (g *Grid) Kind(p Position) CellKind {
	if !g.InBound(p) {
		return Wall
	}
	return g.cells[p.Y][p.X]
}

// Code returns the original character at p, or WallCode outside the grid.
func (g *Grid) Code(p Position) rune {
	if !g.InBound(p) {
		return WallCode
	}
	return g.codes[p.Y][p.X]
}

// Passable reports whether p is inside the grid and not a wall.
func (g *Grid) Passable(p Position) bool {
	return g.Kind(p) != Wall
}

// FindStartAndGoal scans the grid once in row-major order.
// When a marker appears more than once, the first occurrence wins.
func (g *Grid) FindStartAndGoal() (start, goal Position, err error) {
	var foundStart, foundGoal bool
	for y, row := range g.cells {
		for x, kind := range row {
			switch {
			case kind == Start && !foundStart:
				start, foundStart = Position{X: x, Y: y}, true
			case kind == Goal && !foundGoal:
				goal, foundGoal = Position{X: x, Y: y}, true
			}
		}
	}

	if !foundStart || !foundGoal {
		return Position{}, Position{}, &MissingMarkerError{MissingStart: !foundStart, MissingGoal: !foundGoal}
	}
	return start, goal, nil
}

// OpenCells returns every non-wall cell, start and goal included, in row-major order.
func (g *Grid) OpenCells() []Position {
	return slices.Clone(g.open)
}

// Rows returns a fresh copy of the original characters, one slice per row.
func (g *Grid) Rows() [][]rune {
	rows := make([][]rune, g.height)
	for y := range g.codes {
		rows[y] = slices.Clone(g.codes[y])
	}
	return rows
}

// String returns the maze as it was loaded.
func (g *Grid) String() string {
	var sb strings.Builder
	for _, row := range g.codes {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
