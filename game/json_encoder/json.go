package jsonenc

import (
	"encoding/json"

	"github.com/beka-birhanu/vinom-dwarfs/game"
)

var _ game.Encoder = &JSON{}

// JSON encodes frames for the spectator stream and the frame publisher.
type JSON struct {
	// OmitMaze drops the maze rows from every frame but the bare one (tick 0).
	OmitMaze bool
}

// MarshalFrame implements game.Encoder.
func (j *JSON) MarshalFrame(f game.Frame) ([]byte, error) {
	return json.Marshal(j.frameFromGame(f))
}

// UnmarshalFrame decodes a frame produced by MarshalFrame.
func (j *JSON) UnmarshalFrame(b []byte) (*Frame, error) {
	frame := &Frame{}
	if err := json.Unmarshal(b, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

func (j *JSON) frameFromGame(f game.Frame) *Frame {
	frame := &Frame{
		RunID:     f.RunID,
		Tick:      f.Tick,
		ElapsedMS: f.Elapsed.Milliseconds(),
		Finished:  f.Finished,
		Overlays:  make([]Overlay, 0, len(f.Overlays)),
		Dwarfs:    make([]Dwarf, 0, len(f.Dwarfs)),
	}
	if f.Grid != nil && (!j.OmitMaze || f.Tick == 0) {
		for _, row := range f.Grid.Rows() {
			frame.Maze = append(frame.Maze, string(row))
		}
	}
	for _, o := range f.Overlays {
		frame.Overlays = append(frame.Overlays, Overlay{Position: o.Position, Symbol: string(o.Symbol)})
	}
	for _, d := range f.Dwarfs {
		frame.Dwarfs = append(frame.Dwarfs, dwarfFromView(d))
	}
	return frame
}
