package logic

import (
	"slices"
	"sort"
	"sync"

	"liftdesk/internal/domain"
)

// MemoryItemStore is an in-memory implementation of ItemStore
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[string][]domain.Item
}

// NewMemoryItemStore creates an empty store
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{
		items: make(map[string][]domain.Item),
	}
}

// Items returns a copy of the screen's item slice. The items themselves are
// shared and must be treated as read-only.
func (s *MemoryItemStore) Items(screen string) []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items[screen])
}

func (s *MemoryItemStore) Replace(screen string, items []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[screen] = slices.Clone(items)
}

func (s *MemoryItemStore) Clear(screen string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, screen)
}

// Screens lists the screens holding a loaded collection
func (s *MemoryItemStore) Screens() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.items))
	for name := range s.items {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
