package listing

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps listings in process memory. It backs the example
// catalog when no database is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	listings map[string]*Listing
	now      func() time.Time
}

func NewMemoryRepository(seed []*Listing) *MemoryRepository {
	r := &MemoryRepository{
		listings: make(map[string]*Listing, len(seed)),
		now:      time.Now,
	}
	for _, l := range seed {
		r.listings[l.ID] = l.clone()
	}
	return r
}

func (r *MemoryRepository) List(ctx context.Context, c Criteria) ([]*Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Listing
	for _, l := range r.listings {
		if c.Matches(l) {
			result = append(result, l.clone())
		}
	}
	SortPublic(result)
	return result, nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]*Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Listing, 0, len(r.listings))
	for _, l := range r.listings {
		result = append(result, l.clone())
	}
	SortNewest(result)
	return result, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	return l.clone(), nil
}

func (r *MemoryRepository) Create(ctx context.Context, l *Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.syncCover()
	r.listings[l.ID] = l.clone()
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, l *Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.listings[l.ID]
	if !ok {
		return ErrNotFound
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = r.now()
	l.syncCover()
	r.listings[l.ID] = l.clone()
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return ErrNotFound
	}
	delete(r.listings, id)
	return nil
}
