package blur

// PingPong holds two equally sized targets, one is read while the other is written.
type PingPong[T comparable] struct {
	read, write T
}

func NewPingPong[T comparable](a, b T) *PingPong[T] {
	if a == b {
		panic("ping pong targets must be distinct")
	}
	return &PingPong[T]{read: a, write: b}
}

func (pp *PingPong[T]) Read() T {
	return pp.read
}

func (pp *PingPong[T]) Write() T {
	return pp.write
}

// Swap must be called after every pass that wrote to Write
func (pp *PingPong[T]) Swap() {
	pp.read, pp.write = pp.write, pp.read
}

// Both returns the targets in no particular order
func (pp *PingPong[T]) Both() [2]T {
	return [2]T{pp.read, pp.write}
}
