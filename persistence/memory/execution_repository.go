package memory

import (
	"context"
	"time"

	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/persistence"
	c "github.com/patrickmn/go-cache"
)

var _ persistence.ExecutionRepository = new(memoryExecutionRepository)

type memoryExecutionRepository struct {
	cache *c.Cache
}

// NewExecutionRepository keeps snapshots in process, each one expiring after timeout.
func NewExecutionRepository(timeout time.Duration, cleanupInterval time.Duration) *memoryExecutionRepository {
	return &memoryExecutionRepository{
		cache: c.New(timeout, cleanupInterval),
	}
}

func (m *memoryExecutionRepository) SaveExecution(ctx context.Context, snapshot *model.FlowExecutionSnapshot) error {
	m.cache.Set(snapshot.Key, *snapshot, c.DefaultExpiration)
	return nil
}

func (m *memoryExecutionRepository) GetExecution(ctx context.Context, key string) (*model.FlowExecutionSnapshot, error) {
	val, found := m.cache.Get(key)
	if !found {
		return nil, persistence.NotFoundError{Kind: "flow execution", Key: key}
	}
	snapshot := val.(model.FlowExecutionSnapshot)
	return &snapshot, nil
}

func (m *memoryExecutionRepository) RemoveExecution(ctx context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
