package repository

import "sync"

// ExposureStore accumulates playing time per entity so totals can be
// normalized to rates at read time. Minutes arrive with match appearance
// records; entities never seen here simply have no known exposure.
type ExposureStore struct {
	mu      sync.RWMutex
	minutes map[string]float64
}

// NewExposureStore constructs an empty exposure store.
func NewExposureStore() *ExposureStore {
	return &ExposureStore{minutes: make(map[string]float64)}
}

// Add credits minutes of playing time to an entity.
func (s *ExposureStore) Add(entityID string, minutes float64) {
	if minutes <= 0 {
		return
	}
	s.mu.Lock()
	s.minutes[entityID] += minutes
	s.mu.Unlock()
}

// Minutes returns the accumulated playing time for an entity, 0 if unknown.
func (s *ExposureStore) Minutes(entityID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.minutes[entityID]
}

// Count returns the number of entities with known exposure.
func (s *ExposureStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.minutes)
}
