package blur

// FrameID identifies a frame request, it is never 0
type FrameID uint64

type frameRequest struct {
	id FrameID
	fn func()
}

// FrameScheduler runs requested callbacks once on the next Tick.
// Callbacks requested while a tick is running wait for the following tick.
// It is not safe for concurrent use, everything runs on the render thread.
type FrameScheduler struct {
	lastID  FrameID
	pending []frameRequest
	// the batch of the tick in progress
	running []frameRequest
	ticking bool
}

func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

func (s *FrameScheduler) Request(fn func()) FrameID {
	s.lastID++
	s.pending = append(s.pending, frameRequest{id: s.lastID, fn: fn})
	return s.lastID
}

// Cancel drops a pending request, cancelling an unknown or completed request does nothing
func (s *FrameScheduler) Cancel(id FrameID) {
	if id == 0 {
		return
	}
	for i := range s.running {
		if s.running[i].id == id {
			s.running[i].fn = nil
			return
		}
	}
	for i, r := range s.pending {
		if r.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Pending is the number of callbacks that will run on the next Tick
func (s *FrameScheduler) Pending() int {
	return len(s.pending)
}

// Tick runs all callbacks requested before it was called and returns how many ran
func (s *FrameScheduler) Tick() int {
	if s.ticking {
		panic("FrameScheduler.Tick is not re-entrant")
	}
	s.ticking = true
	s.running = s.pending
	s.pending = nil
	defer func() {
		s.running = nil
		s.ticking = false
	}()

	ran := 0
	for i := range s.running {
		fn := s.running[i].fn
		if fn == nil {
			continue
		}
		s.running[i].fn = nil
		fn()
		ran++
	}
	return ran
}
