package repository

import (
	"context"
	"sync"

	"github.com/vibast-solutions/ms-go-pricing/app/entity"
)

// MemoryRegionPreferenceRepository keeps preferences in process. It backs the
// service when no MySQL DSN is configured.
type MemoryRegionPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string]entity.RegionPreference
}

func NewMemoryRegionPreferenceRepository() *MemoryRegionPreferenceRepository {
	return &MemoryRegionPreferenceRepository{prefs: map[string]entity.RegionPreference{}}
}

func (r *MemoryRegionPreferenceRepository) FindByUserID(_ context.Context, userID string) (*entity.RegionPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pref, ok := r.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &pref, nil
}

func (r *MemoryRegionPreferenceRepository) Upsert(_ context.Context, pref *entity.RegionPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *pref
	if existing, ok := r.prefs[pref.UserID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	r.prefs[pref.UserID] = stored
	return nil
}
