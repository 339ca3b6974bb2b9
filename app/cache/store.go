package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/vibast-solutions/ms-go-pricing/app/entity"
)

var ErrCorruptPayload = errors.New("corrupt pricing cache payload")

// Store persists a single pricing cache entry. Implementations do not check
// staleness; Get returns nil, nil when nothing is stored.
type Store interface {
	Get(ctx context.Context) (*entity.CacheData, error)
	Set(ctx context.Context, data entity.CacheData) error
	Remove(ctx context.Context) error
}

func Encode(data entity.CacheData) ([]byte, error) {
	return json.Marshal(data)
}

func Decode(payload []byte) (*entity.CacheData, error) {
	data := &entity.CacheData{}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if data.Matrix == nil || data.Timestamp <= 0 {
		return nil, fmt.Errorf("%w: missing matrix or timestamp", ErrCorruptPayload)
	}
	return data, nil
}

// MemoryStore keeps the encoded entry in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (*entity.CacheData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return nil, nil
	}
	return Decode(s.payload)
}

func (s *MemoryStore) Set(_ context.Context, data entity.CacheData) error {
	payload, err := Encode(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Remove(_ context.Context) error {
	s.mu.Lock()
	s.payload = nil
	s.mu.Unlock()
	return nil
}

// SetRaw stores an arbitrary payload. Used to simulate corrupted entries.
func (s *MemoryStore) SetRaw(payload []byte) {
	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
}
