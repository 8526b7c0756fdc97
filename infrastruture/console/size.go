package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("console: output is not a terminal")

// SizeFunc reports the current console width and height in cells.
type SizeFunc func() (width, height int, err error)

// TerminalSize measures the terminal behind f.
func TerminalSize(f *os.File) SizeFunc {
	return func() (int, int, error) {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			return 0, 0, ErrNotTerminal
		}
		return term.GetSize(fd)
	}
}

// Gate blocks until the console is large enough to show a maze.
type Gate struct {
	size SizeFunc
	in   *bufio.Reader
	out  io.Writer
}

// NewGate reads confirmations from in and writes prompts to out.
func NewGate(size SizeFunc, in io.Reader, out io.Writer) *Gate {
	return &Gate{size: size, in: bufio.NewReader(in), out: out}
}

// Required is the minimum console size for a maze of width x height cells:
// ten spare columns and five spare rows for the status block.
func Required(width, height int) (int, int) {
	return width + 10, height + 5
}

// EnsureSize prompts and waits for Enter while the console is smaller than
// minWidth x minHeight. Without a terminal there is nothing to check.
func (g *Gate) EnsureSize(minWidth, minHeight int) error {
	for {
		width, height, err := g.size()
		if errors.Is(err, ErrNotTerminal) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("measuring console: %w", err)
		}
		if width >= minWidth && height >= minHeight {
			return nil
		}

		fmt.Fprintf(g.out, "\n===========================\n")
		fmt.Fprintf(g.out, "The console is too small!\n")
		fmt.Fprintf(g.out, "===========================\n\n")
		fmt.Fprintf(g.out, "Required size:\n  - Width: %d\n  - Height: %d\n\n", minWidth, minHeight)
		fmt.Fprintf(g.out, "Current size:\n  - Width: %d\n  - Height: %d\n\n", width, height)
		fmt.Fprintf(g.out, "Resize the console and press Enter to continue...\n")

		if _, err := g.in.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("console still %dx%d, need %dx%d: %w", width, height, minWidth, minHeight, io.ErrUnexpectedEOF)
			}
			return fmt.Errorf("waiting for confirmation: %w", err)
		}
	}
}
