package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/showring/backend/internal/domain/shared"
)

// RecordingHandler is an event handler that remembers what it saw.
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingHandler subscribes to eventTypes (all events when empty).
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

// EventTypes implements shared.EventHandler.
func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle implements shared.EventHandler.
func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the events seen so far.
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// SetError makes later Handle calls fail with err.
func (h *RecordingHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// WaitForEvents polls until the handler has seen n events or timeout passes.
func WaitForEvents(t *testing.T, h *RecordingHandler, n int, timeout time.Duration) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(h.Handled()) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
