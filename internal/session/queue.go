package session

import "sync"

// EventQueue hands events to a flow in arrival order without blocking the
// producer. A host reading user input pushes into it and exposes Events.
type EventQueue struct {
	out chan Event

	mu     sync.Mutex
	queue  []Event
	closed bool
	wake   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewEventQueue starts an empty queue
func NewEventQueue() *EventQueue {
	q := &EventQueue{
		out:  make(chan Event),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.pump()
	return q
}

// Events is closed after Close
func (q *EventQueue) Events() <-chan Event {
	return q.out
}

// Push queues ev; it is dropped once the queue is closed
func (q *EventQueue) Push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.queue = append(q.queue, ev)
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Close drops pending events and closes Events
func (q *EventQueue) Close() {
	q.once.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.queue = nil
		q.mu.Unlock()
		close(q.done)
	})
}

func (q *EventQueue) pump() {
	defer close(q.out)
	for {
		q.mu.Lock()
		if len(q.queue) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-q.done:
				return
			}
		}
		ev := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()

		select {
		case q.out <- ev:
		case <-q.done:
			return
		}
	}
}
