package contact

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	messages map[string]*Message
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		messages: make(map[string]*Message),
		now:      time.Now,
	}
}

func (r *MemoryRepository) List(ctx context.Context) ([]*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := make([]*Message, 0, len(r.messages))
	for _, m := range r.messages {
		cp := *m
		messages = append(messages, &cp)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

func (r *MemoryRepository) Create(ctx context.Context, m *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.CreatedAt = r.now()
	m.Read = false
	cp := *m
	r.messages[m.ID] = &cp
	return nil
}

func (r *MemoryRepository) MarkRead(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.messages[id]
	if !ok {
		return ErrNotFound
	}
	m.Read = true
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[id]; !ok {
		return ErrNotFound
	}
	delete(r.messages, id)
	return nil
}
