package maze

import (
	"fmt"
	"os"
	"strings"
)

// Source supplies raw maze rows.
type Source interface {
	Load() ([][]rune, error)
}

// FileSource reads a maze from a text file, one row per line.
type FileSource struct {
	Path string
}

// Load reads and splits the file.
func (fs FileSource) Load() ([][]rune, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		return nil, fmt.Errorf("reading maze file %s: %w", fs.Path, err)
	}
	return Parse(string(data)), nil
}

// StringSource serves a maze held in memory.
type StringSource string

// Load splits the string.
func (ss StringSource) Load() ([][]rune, error) {
	return Parse(string(ss)), nil
}

// Parse splits text into rows. A trailing '\r' is stripped from every line
// and empty lines around the maze are dropped. Spaces are kept: they are
// open floor like any other character.
func Parse(text string) [][]rune {
	lines := strings.Split(text, "\n")
	for k := range lines {
		lines[k] = strings.TrimSuffix(lines[k], "\r")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}

	rows := make([][]rune, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []rune(line))
	}
	return rows
}

// Load reads src and builds a Grid from it.
func Load(src Source) (*Grid, error) {
	rows, err := src.Load()
	if err != nil {
		return nil, err
	}
	return New(rows)
}
