package concurrency

import "sync"

// Dispatcher decides on which goroutine a callback runs.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (d DispatcherFunc) Dispatch(fn func()) { d(fn) }

// Immediate runs callbacks on the calling goroutine.
var Immediate Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// Serial runs callbacks one at a time, in submission order, on a single goroutine.
// It stands in for a UI-affine delivery context: consumers never see concurrent calls.
type Serial struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

// NewSerial starts the delivery goroutine. Call Close to stop it.
func NewSerial() *Serial {
	s := &Serial{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go s.loop()
	return s
}

// Dispatch enqueues fn. Callbacks dispatched after Close are dropped.
func (s *Serial) Dispatch(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Close stops accepting callbacks, drains what is queued and waits for the loop to exit.
func (s *Serial) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	<-s.done
}

func (s *Serial) loop() {
	defer close(s.done)
	for range s.wake {
		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				closed := s.closed
				s.mu.Unlock()
				if closed {
					return
				}
				break
			}
			fn := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()

			fn()
		}
	}
}
