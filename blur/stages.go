package blur

import "gl-blur/libio"

// Stages is a rendering backend for the blur pipeline.
// A backend owns one full resolution scene target and a ping pong pair of reduced targets.
// After Downsample and after every BlurPass the pair is swapped, Composite always reads the last result.
type Stages interface {
	// Resize releases the current targets and allocates new ones for a canvas of width x height
	Resize(width, height, reductionRate int) error
	// RenderDirect draws the scene straight to the output
	RenderDirect()
	// RenderScene draws the scene to the full resolution target
	RenderScene()
	// Downsample copies the scene target into the reduced targets with linear filtering
	Downsample()
	BlurPass(dir Direction, sampleStep int)
	// Composite stretches the blurred result over the output with linear filtering
	Composite()
	Release()
}

type State int

const (
	StateDisabled State = iota
	StateEnabled
)

func (s State) String() string {
	if s == StateEnabled {
		return "enabled"
	}
	return "disabled"
}

// Snapshotter is implemented by backends that can read back their output, origin bottom left
type Snapshotter interface {
	Snapshot() (*libio.FloatImage, error)
}
