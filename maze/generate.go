package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

const maxGeneratedDimension = 60

var ErrInvalidDimensions = errors.New("maze: invalid generated maze dimensions")

// cellDeltas is the fixed neighbour order used by the generator, so a seed
// always yields the same maze.
var cellDeltas = [4]Position{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: -1, Y: 0}}

// GeneratedSource builds a perfect maze of Width x Height rooms with
// Wilson's algorithm. The start is the top-left room and the goal the
// bottom-right one.
type GeneratedSource struct {
	Width  int
	Height int
	Seed   int64
}

// Load generates the rows.
func (gs GeneratedSource) Load() ([][]rune, error) {
	return Generate(gs.Width, gs.Height, rand.New(rand.NewSource(gs.Seed)))
}

// Generate carves a maze of width x height rooms into a character grid of
// (2*width+1) x (2*height+1) cells. Room (c, r) sits at (2c+1, 2r+1) and the
// cell between two rooms is opened when they are joined.
func Generate(width, height int, rng *rand.Rand) ([][]rune, error) {
	if min(width, height) <= 0 || max(width, height) > maxGeneratedDimension {
		return nil, fmt.Errorf("%w: %dx%d, each side must be within 1..%d", ErrInvalidDimensions, width, height, maxGeneratedDimension)
	}

	rows := make([][]rune, 2*height+1)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(string(WallCode), 2*width+1))
	}
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			rows[2*r+1][2*c+1] = '.'
		}
	}

	rooms := width * height
	inTree := make([]bool, rooms)
	next := make([]int, rooms)
	inTree[rng.Intn(rooms)] = true

	for remaining := rooms - 1; remaining > 0; {
		start := rng.Intn(rooms)
		for inTree[start] {
			start = rng.Intn(rooms)
		}

		// Walk until the tree is hit; revisiting a room overwrites its exit,
		// which erases the loop.
		for room := start; !inTree[room]; room = next[room] {
			neighbours := roomNeighbours(room, width, height)
			next[room] = neighbours[rng.Intn(len(neighbours))]
		}

		for room := start; !inTree[room]; room = next[room] {
			carve(rows, room, next[room], width)
			inTree[room] = true
			remaining--
		}
	}

	rows[1][1] = StartCode
	if rooms == 1 {
		// one room cannot hold both markers; the goal replaces its east wall
		rows[1][2] = GoalCode
	} else {
		rows[2*height-1][2*width-1] = GoalCode
	}
	return rows, nil
}

func roomNeighbours(room, width, height int) []int {
	c, r := room%width, room/width
	result := make([]int, 0, len(cellDeltas))
	for _, d := range cellDeltas {
		nc, nr := c+d.X, r+d.Y
		if nc >= 0 && nc < width && nr >= 0 && nr < height {
			result = append(result, nr*width+nc)
		}
	}
	return result
}

// carve opens the wall cell between two adjacent rooms.
func carve(rows [][]rune, from, to, width int) {
	fc, fr := from%width, from/width
	tc, tr := to%width, to/width
	rows[fr+tr+1][fc+tc+1] = '.'
}

// ParseSize reads a "WIDTHxHEIGHT" room count such as "20x10".
func ParseSize(s string) (width, height int, err error) {
	if _, err := fmt.Sscanf(strings.ToLower(strings.TrimSpace(s)), "%dx%d", &width, &height); err != nil {
		return 0, 0, fmt.Errorf("%w: %q is not WIDTHxHEIGHT", ErrInvalidDimensions, s)
	}
	if min(width, height) <= 0 || max(width, height) > maxGeneratedDimension {
		return 0, 0, fmt.Errorf("%w: %dx%d, each side must be within 1..%d", ErrInvalidDimensions, width, height, maxGeneratedDimension)
	}
	return width, height, nil
}
