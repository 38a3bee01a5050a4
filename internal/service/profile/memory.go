package profile

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	core "github.com/MitroiBogdan/NEXAR/internal/profile"
)

// MemoryStore keeps profiles and listings in process memory. It backs unit
// tests and the "memory" store backend.
type MemoryStore struct {
	mu        sync.RWMutex
	profiles  map[string]*core.Profile // by profile id
	listings  map[string][]core.ListingSummary
	updateErr error
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*core.Profile),
		listings: make(map[string][]core.ListingSummary),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PutProfile inserts or replaces a profile.
func (m *MemoryStore) PutProfile(p *core.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p.Clone()
}

// PutListings replaces the listings of a seller.
func (m *MemoryStore) PutListings(profileID string, listings ...core.ListingSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[profileID] = slices.Clone(listings)
}

// FailUpdates makes every following UpdateProfile fail with err. Pass nil to
// restore normal behaviour.
func (m *MemoryStore) FailUpdates(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateErr = err
}

func (m *MemoryStore) GetProfile(_ context.Context, key core.LookupKey) (*core.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := m.find(key)
	if p == nil {
		return nil, core.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *MemoryStore) find(key core.LookupKey) *core.Profile {
	switch key.By {
	case core.ByID:
		return m.profiles[key.Value]
	case core.ByOwnerID:
		for _, p := range m.profiles {
			if p.OwnerID == key.Value {
				return p
			}
		}
	}
	return nil
}

func (m *MemoryStore) ListListingsBySeller(_ context.Context, profileID string) ([]core.ListingSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.listings[profileID])
	slices.SortStableFunc(out, func(a, b core.ListingSummary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryStore) UpdateProfile(_ context.Context, ownerID string, f core.Fields) (*core.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, core.NewStoreError(m.updateErr)
	}
	p := m.find(core.LookupKey{By: core.ByOwnerID, Value: ownerID})
	if p == nil {
		return nil, core.NewStoreError(core.ErrNotFound)
	}
	p.Name = f.Name
	p.Phone = f.Phone
	p.Location = f.Location
	p.Description = f.Description
	p.Website = f.Website
	p.UpdatedAt = m.now()
	return p.Clone(), nil
}

// Clear removes all data.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = make(map[string]*core.Profile)
	m.listings = make(map[string][]core.ListingSummary)
	m.updateErr = nil
}

var _ Store = (*MemoryStore)(nil)
