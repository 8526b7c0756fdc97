package render

import (
	"errors"

	"github.com/beka-birhanu/vinom-dwarfs/game"
)

var _ game.Renderer = Multi{}

// Multi draws every frame to each sink in order. A failing sink does not
// keep the frame from the others; all failures are joined.
type Multi []game.Renderer

// Draw implements game.Renderer.
func (m Multi) Draw(f game.Frame) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Draw(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
