package exception

import "sync"

// Sink is a thread-local accumulator for in-flight exceptions: normally
// at most one, but Assimilate can merge another sink's chain in when
// catching a cross-program-context exception (spec §4.8).
type Sink struct {
	mu   sync.Mutex
	head *Exception
}

// NewSink returns an empty sink.
func NewSink() *Sink { return &Sink{} }

// Raise installs e as the sink's current exception, chaining any
// previously-raised exception as its Next.
func (s *Sink) Raise(e *Exception) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head != nil {
		e.Next = s.head
	}
	s.head = e
}

// Current returns the sink's head exception, or nil if empty.
func (s *Sink) Current() *Exception {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head
}

// Clear empties the sink (after a catch block has consumed it).
func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.head = nil
}

// PushFrame enriches every exception currently held by the sink with a
// unwind frame, called once per evaluator frame as the stack unwinds.
func (s *Sink) PushFrame(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head != nil {
		s.head.PushFrame(f)
	}
}

// Assimilate merges other's exception chain into s, appending it after
// s's own chain (used when catching an exception raised in a different
// program context, spec §4.8).
func (s *Sink) Assimilate(other *Sink) {
	other.mu.Lock()
	otherHead := other.head
	other.head = nil
	other.mu.Unlock()

	if otherHead == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head == nil {
		s.head = otherHead
		return
	}
	tail := s.head
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = otherHead
}
