package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyThatEmployee(t *testing.T) {
	h := NewHub()
	a, cleanupA := h.Subscribe("emp-1")
	defer cleanupA()
	b, cleanupB := h.Subscribe("emp-2")
	defer cleanupB()

	h.Publish("emp-1", Event{EmployeeID: "emp-1", Event: "attendance.updated"})

	require.Len(t, a, 1)
	assert.Equal(t, "attendance.updated", (<-a).Event)
	assert.Len(t, b, 0)
}

func TestHub_PublishDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("emp-1")
	defer cleanup()

	for i := 0; i < defaultBufferSize+5; i++ {
		h.Publish("emp-1", Event{Event: "attendance.updated"})
	}

	assert.Len(t, ch, defaultBufferSize)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("emp-1")
	assert.Equal(t, 1, h.SubscriberCount("emp-1"))

	cleanup()
	cleanup()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.SubscriberCount("emp-1"))
	assert.Equal(t, 0, h.TotalSubscribers())
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("emp-1")

	h.Close()
	cleanup()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := h.Subscribe("emp-2")
	_, ok = <-late
	assert.False(t, ok)
}
