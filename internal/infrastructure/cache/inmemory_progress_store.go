package cache

import (
	"context"
	"sync"

	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
)

// InMemoryProgressStore implements ProgressStore inside one process.
// Watchers connected to another instance never see its imports.
type InMemoryProgressStore struct {
	mu          sync.Mutex
	latest      *sheetimport.Progress
	subscribers map[int]chan sheetimport.Progress
	nextID      int
	closed      bool
}

// NewInMemoryProgressStore creates a new in-memory progress store
func NewInMemoryProgressStore() *InMemoryProgressStore {
	return &InMemoryProgressStore{
		subscribers: make(map[int]chan sheetimport.Progress),
	}
}

// Publish implements ProgressStore. A subscriber whose buffer is full loses
// its oldest pending snapshot rather than blocking the import.
func (s *InMemoryProgressStore) Publish(_ context.Context, p sheetimport.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := p
	s.latest = &snapshot
	for _, ch := range s.subscribers {
		select {
		case ch <- p:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- p
		}
	}
	return nil
}

// Latest implements ProgressStore
func (s *InMemoryProgressStore) Latest(context.Context) (*sheetimport.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.latest == nil {
		return nil, nil
	}
	p := *s.latest
	return &p, nil
}

// Subscribe implements ProgressStore
func (s *InMemoryProgressStore) Subscribe(ctx context.Context) (<-chan sheetimport.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan sheetimport.Progress, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, nil
	}
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch

	go func() {
		<-ctx.Done()
		s.unsubscribe(id)
	}()
	return ch, nil
}

func (s *InMemoryProgressStore) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

// Close closes every subscriber channel
func (s *InMemoryProgressStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
	return nil
}

// Ensure InMemoryProgressStore implements ProgressStore
var _ ProgressStore = (*InMemoryProgressStore)(nil)
