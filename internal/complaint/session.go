package complaint

import "sync"

// State is the submission pipeline state for one session.
type State string

const (
	StateIdle        State = "IDLE"
	StateValidating  State = "VALIDATING"
	StateClassifying State = "CLASSIFYING"
	StatePersisting  State = "PERSISTING"
)

// Session owns the pipeline state for one user-facing submit control.
// At most one submission may be in flight per session; a concurrent submit
// is rejected immediately rather than queued.
type Session struct {
	mu    sync.Mutex
	state State
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current pipeline state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin moves the session from IDLE to VALIDATING, or reports ErrBusy when
// a submission is already in flight.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrBusy
	}
	s.state = StateValidating
	return nil
}

func (s *Session) set(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// finish returns the session to IDLE so the next submission can start,
// whatever the outcome of the current one.
func (s *Session) finish() {
	s.set(StateIdle)
}
