package cartstate

import "sync"

// Store holds the current State and notifies subscribers after every change.
//
// Subscribers run synchronously, in dispatch order, and must not call Dispatch.
type Store struct {
	dispatchMu sync.Mutex

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
	closed  bool
}

func NewStore() *Store {
	return &Store{subs: map[int]func(State){}}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Dispatch applies events in order as one change. It returns false when the
// store is closed, in which case the events are dropped.
func (s *Store) Dispatch(events ...Event) bool {
	_, open := s.DispatchIf(nil, events...)
	return open
}

// DispatchIf applies events only when cond holds for the current state,
// checked atomically with the change. A nil cond always holds.
func (s *Store) DispatchIf(cond func(State) bool, events ...Event) (applied, open bool) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, false
	}
	if cond != nil && !cond(s.state) {
		s.mu.Unlock()
		return false, true
	}
	next := s.state
	for _, ev := range events {
		next = Reduce(next, ev)
	}
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next.clone())
	}
	return true, true
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close detaches the store from its view. Results of requests still in flight
// are discarded instead of being applied.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	clear(s.subs)
}

func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
