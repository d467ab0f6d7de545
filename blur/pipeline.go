package blur

import (
	"fmt"
	"log"
)

// Controller drives a Stages backend once per frame and reallocates it when the canvas or the reduction rate change.
// A frame is requested from the scheduler after every completed frame, so at most one frame is ever in flight.
type Controller struct {
	stages    Stages
	scheduler *FrameScheduler
	params    Params
	width     int
	height    int
	request   FrameID
	frames    uint64

	// incremented by every stop, a frame that sees it change does not continue the loop
	stops uint64
}

func NewController(stages Stages, scheduler *FrameScheduler, params Params) (*Controller, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		stages:    stages,
		scheduler: scheduler,
		params:    params,
	}, nil
}

func (c *Controller) Params() Params {
	return c.params
}

func (c *Controller) State() State {
	if c.params.Apply {
		return StateEnabled
	}
	return StateDisabled
}

// Frames is the number of frames rendered since creation
func (c *Controller) Frames() uint64 {
	return c.frames
}

func (c *Controller) Size() (width, height int) {
	return c.width, c.height
}

// BlurSize is the size of the reduced targets
func (c *Controller) BlurSize() (width, height int) {
	return TargetSize(c.width, c.height, c.params.ReductionRate)
}

// Running reports whether a frame is requested
func (c *Controller) Running() bool {
	return c.request != 0
}

// SetParams applies new parameters starting with the next frame.
// The targets are only reallocated when the reduction rate changes,
// if that fails the previous parameters stay in effect.
func (c *Controller) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	old := c.params
	c.params = p
	if old.ReductionRate != p.ReductionRate && c.width > 0 && c.height > 0 {
		if err := c.Reset(); err != nil {
			c.params = old
			return err
		}
	}
	return nil
}

func (c *Controller) SetApply(apply bool) {
	c.params.Apply = apply
}

// Resize resets the pipeline for a new canvas size.
// A zero sized canvas, for example a minimized window, stops the loop until the next resize.
func (c *Controller) Resize(width, height int) error {
	c.width, c.height = width, height
	if width <= 0 || height <= 0 {
		c.stop()
		return nil
	}
	return c.Reset()
}

// Reset cancels the pending frame, reallocates all targets and restarts the frame loop
func (c *Controller) Reset() error {
	c.stop()
	if c.width <= 0 || c.height <= 0 {
		return fmt.Errorf("cannot reset with a canvas of %dx%d", c.width, c.height)
	}
	if err := c.stages.Resize(c.width, c.height, c.params.ReductionRate); err != nil {
		return fmt.Errorf("failed to allocate blur targets: %w", err)
	}
	bw, bh := c.BlurSize()
	log.Printf("Blur targets: scene %dx%d, blur %dx%d\n", c.width, c.height, bw, bh)
	c.request = c.scheduler.Request(c.loop)
	return nil
}

// Stop cancels the pending frame
func (c *Controller) Stop() {
	c.stop()
}

func (c *Controller) stop() {
	c.scheduler.Cancel(c.request)
	c.request = 0
	c.stops++
}

func (c *Controller) loop() {
	stops := c.stops
	c.request = 0
	c.Frame()
	// a stop or reset during the frame owns the loop from here on
	if c.stops == stops {
		c.request = c.scheduler.Request(c.loop)
	}
}

// Frame renders a single frame with the current parameters
func (c *Controller) Frame() {
	if c.params.Apply {
		c.stages.RenderScene()
		c.stages.Downsample()
		for i := 0; i < c.params.BlurCount; i++ {
			c.stages.BlurPass(Horizontal, c.params.SampleStep)
			c.stages.BlurPass(Vertical, c.params.SampleStep)
		}
		c.stages.Composite()
	} else {
		c.stages.RenderDirect()
	}
	c.frames++
}

// Release stops the loop and frees the backend
func (c *Controller) Release() {
	c.stop()
	c.stages.Release()
}
