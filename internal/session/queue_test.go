package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventQueueOrder(t *testing.T) {
	q := NewEventQueue()

	for i := 0; i < 100; i++ {
		q.Push(ActionActivated{ID: i})
	}
	for i := 0; i < 100; i++ {
		select {
		case ev := <-q.Events():
			assert.Equal(t, ActionActivated{ID: i}, ev)
		case <-time.After(time.Second):
			t.Fatalf("event %d not delivered", i)
		}
	}

	q.Close()
	q.Close()
	q.Push(ActionActivated{ID: -1})

	select {
	case _, ok := <-q.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events not closed")
	}
}
