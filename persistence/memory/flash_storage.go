package memory

import (
	"context"
	"time"

	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/persistence"
	c "github.com/patrickmn/go-cache"
)

var _ persistence.FlashStorage = new(memoryFlashStorage)

type memoryFlashStorage struct {
	cache *c.Cache
}

func NewFlashStorage(cleanupInterval time.Duration) *memoryFlashStorage {
	return &memoryFlashStorage{
		cache: c.New(c.NoExpiration, cleanupInterval),
	}
}

func (m *memoryFlashStorage) SaveFlashMaps(ctx context.Context, sessionId string, flashMaps []*model.FlashMap, ttl time.Duration) error {
	if len(flashMaps) == 0 {
		m.cache.Delete(sessionId)
		return nil
	}
	m.cache.Set(sessionId, flashMaps, ttl)
	return nil
}

func (m *memoryFlashStorage) GetFlashMaps(ctx context.Context, sessionId string) ([]*model.FlashMap, error) {
	val, found := m.cache.Get(sessionId)
	if !found {
		return nil, nil
	}
	return val.([]*model.FlashMap), nil
}
