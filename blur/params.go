package blur

import (
	"fmt"
)

const (
	MinReductionRate = 1
	MaxReductionRate = 16
	MinBlurCount     = 1
	MaxBlurCount     = 16
	MinSampleStep    = 1
	MaxSampleStep    = 4
)

// Params are the user adjustable blur settings.
// Only a change of ReductionRate requires the targets to be reallocated.
type Params struct {
	Apply         bool `toml:"apply"`
	ReductionRate int  `toml:"reduction_rate"`
	BlurCount     int  `toml:"blur_count"`
	SampleStep    int  `toml:"sample_step"`
}

func DefaultParams() Params {
	return Params{
		Apply:         true,
		ReductionRate: 1,
		BlurCount:     1,
		SampleStep:    1,
	}
}

func (p Params) Validate() error {
	if p.ReductionRate < MinReductionRate || p.ReductionRate > MaxReductionRate {
		return fmt.Errorf("reduction rate %d out of range [%d, %d]", p.ReductionRate, MinReductionRate, MaxReductionRate)
	}
	if p.BlurCount < MinBlurCount || p.BlurCount > MaxBlurCount {
		return fmt.Errorf("blur count %d out of range [%d, %d]", p.BlurCount, MinBlurCount, MaxBlurCount)
	}
	if p.SampleStep < MinSampleStep || p.SampleStep > MaxSampleStep {
		return fmt.Errorf("sample step %d out of range [%d, %d]", p.SampleStep, MinSampleStep, MaxSampleStep)
	}
	return nil
}

// Clamp forces every value into its valid range
func (p Params) Clamp() Params {
	p.ReductionRate = clampInt(p.ReductionRate, MinReductionRate, MaxReductionRate)
	p.BlurCount = clampInt(p.BlurCount, MinBlurCount, MaxBlurCount)
	p.SampleStep = clampInt(p.SampleStep, MinSampleStep, MaxSampleStep)
	return p
}

// TargetSize is the size of the blur buffers for a canvas of width x height.
// Partial pixels are rounded up so the whole canvas is covered.
func TargetSize(width, height, reductionRate int) (int, int) {
	return (width+reductionRate-1)/reductionRate, (height+reductionRate-1)/reductionRate
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
