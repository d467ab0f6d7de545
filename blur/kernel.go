package blur

// 9-tap discrete gaussian, Weights[0] is the center and the others are applied on both sides
var Weights = [5]float32{0.2270270, 0.1945945, 0.1216216, 0.0540540, 0.0162162}

// Taps on each side of the center
const KernelRadius = len(Weights) - 1

type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Offset is the texel offset of the i-th tap
func (d Direction) Offset(i, sampleStep int) (dx, dy int) {
	if d == Horizontal {
		return i * sampleStep, 0
	}
	return 0, i * sampleStep
}

// ClampCoord keeps c inside [0, size-1]
func ClampCoord(c, size int) int {
	if c >= size {
		c = size - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// KernelSum is the total weight of the full symmetric window
func KernelSum() float32 {
	sum := Weights[0]
	for i := 1; i < len(Weights); i++ {
		sum += 2 * Weights[i]
	}
	return sum
}

// KernelVariance is the variance, in texels², one pass adds along its axis
func KernelVariance(sampleStep int) float64 {
	var v float64
	for i := 1; i < len(Weights); i++ {
		d := float64(i * sampleStep)
		v += 2 * float64(Weights[i]) * d * d
	}
	return v
}
