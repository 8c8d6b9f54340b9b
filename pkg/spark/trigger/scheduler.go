package trigger

import (
	"sort"
	"sync"
	"time"
)

// Scheduler abstracts timer scheduling so the controller never touches
// native timers directly and tests can advance virtual time.
type Scheduler interface {
	Now() time.Time
	// AfterFunc runs fn after d and returns a cancel func. Cancel after
	// firing is a no-op.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// RealScheduler delegates to the runtime clock.
type RealScheduler struct{}

func NewRealScheduler() *RealScheduler {
	return &RealScheduler{}
}

func (s *RealScheduler) Now() time.Time {
	return time.Now()
}

func (s *RealScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// ManualScheduler is a virtual-time scheduler for tests and the simulator.
// Callbacks fire synchronously inside Advance, in deadline order.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	nextId  int
	pending map[int]*manualTimer
}

type manualTimer struct {
	id       int
	deadline time.Time
	fn       func()
}

func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{
		now:     start,
		pending: make(map[int]*manualTimer),
	}
}

func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextId++
	id := s.nextId
	s.pending[id] = &manualTimer{
		id:       id,
		deadline: s.now.Add(d),
		fn:       fn,
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.pending, id)
	}
}

// Advance moves virtual time forward, firing due timers in deadline order.
// Timers scheduled by fired callbacks run too if they fall inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		timer := s.popDue(target)
		if timer == nil {
			break
		}
		timer.fn()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

func (s *ManualScheduler) popDue(target time.Time) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]*manualTimer, 0)
	for _, t := range s.pending {
		if !t.deadline.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].id < due[j].id
		}
		return due[i].deadline.Before(due[j].deadline)
	})

	next := due[0]
	if next.deadline.After(s.now) {
		s.now = next.deadline
	}
	delete(s.pending, next.id)
	return next
}
