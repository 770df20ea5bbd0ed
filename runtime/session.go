package runtime

import (
	"sync"

	"bulletin-lab/contract"

	"github.com/google/uuid"
)

// Session is the server-side state for one connected client. The username
// is assigned once during bootstrap and never changes; usernames are not
// required to be unique, so the registry keys sessions by ID instead.
type Session struct {
	ID       string
	Username string

	out  chan string
	done chan struct{}
	once sync.Once
}

var _ contract.LineSink = (*Session)(nil)

func NewSession(bufferSize int) *Session {
	return &Session{
		ID:   uuid.NewString(),
		out:  make(chan string, bufferSize),
		done: make(chan struct{}),
	}
}

// Send queues one line for delivery to the client. It never blocks: when
// the outbound buffer is full or the session is closed the line is dropped
// and Send reports false. A stalled member loses lines instead of stalling
// the broadcaster.
func (s *Session) Send(line string) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- line:
		return true
	default:
		return false
	}
}

// SendAll queues the lines in order, stopping at the first drop.
func (s *Session) SendAll(lines ...string) {
	for _, line := range lines {
		if !s.Send(line) {
			return
		}
	}
}

// Lines is drained by the session's write pump.
func (s *Session) Lines() <-chan string {
	return s.out
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close is idempotent; queued lines not yet written are discarded.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}
