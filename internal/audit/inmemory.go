package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type inMemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

// NewInMemory builds an in-memory recorder for development and testing.
func NewInMemory() Recorder {
	return &inMemoryRecorder{}
}

func (r *inMemoryRecorder) Record(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	r.events = append(r.events, event)
	return nil
}
