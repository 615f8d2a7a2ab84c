package catalog

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"livesell/internal/cartengine"
)

// Store is the in-memory catalog of sellable items.
type Store struct {
	mu    sync.RWMutex
	items map[string]cartengine.CatalogItem
}

func NewStore() *Store {
	return &Store{items: make(map[string]cartengine.CatalogItem)}
}

// Create registers an item, assigning an id when none is given.
func (s *Store) Create(item cartengine.CatalogItem) cartengine.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.items[item.ID] = item
	return item
}

func (s *Store) Get(id string) (cartengine.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// List returns every item, name-sorted for stable admin listings.
func (s *Store) List() []cartengine.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]cartengine.CatalogItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Sellable returns available, in-stock items only.
func (s *Store) Sellable() []cartengine.CatalogItem {
	all := s.List()
	out := all[:0]
	for _, item := range all {
		if item.IsAvailable && item.Stock > 0 {
			out = append(out, item)
		}
	}
	return out
}

// Update replaces an item's mutable fields, keeping its id.
func (s *Store) Update(id string, item cartengine.CatalogItem) (cartengine.CatalogItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return cartengine.CatalogItem{}, false
	}
	item.ID = id
	s.items[id] = item
	return item, true
}

// SetAvailability toggles an item on or off the sellable catalog.
func (s *Store) SetAvailability(id string, available bool) (cartengine.CatalogItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return cartengine.CatalogItem{}, false
	}
	item.IsAvailable = available
	s.items[id] = item
	return item, true
}

// Deduct lowers an item's stock after a completed sale, flooring at zero.
// Stock never goes negative even if a broadcast is replayed.
func (s *Store) Deduct(id string, quantity int) (cartengine.CatalogItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || quantity <= 0 {
		return item, ok
	}
	item.Stock -= quantity
	if item.Stock < 0 {
		item.Stock = 0
	}
	s.items[id] = item
	return item, true
}
