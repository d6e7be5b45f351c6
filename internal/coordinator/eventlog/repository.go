package eventlog

import (
	"context"
	"sync"
)

// Repository persists log entries. The log is append-only.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	// ListByOrder returns the entries of one order, oldest first.
	ListByOrder(ctx context.Context, orderID string) ([]Entry, error)
}

// MemoryRepository keeps the log in process. Used by tests and by the
// in-memory store mode.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(_ context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *MemoryRepository) ListByOrder(_ context.Context, orderID string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Entry{}
	for _, e := range r.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}
