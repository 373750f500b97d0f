package memory

import (
	"sort"

	"github.com/mohitkumar/flowmvc/metadata"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/persistence"
	c "github.com/patrickmn/go-cache"
)

var _ metadata.MetadataStorage = new(memoryMetadataStorage)

type memoryMetadataStorage struct {
	cache *c.Cache
}

func NewMetadataStorage() *memoryMetadataStorage {
	return &memoryMetadataStorage{
		cache: c.New(c.NoExpiration, 0),
	}
}

func (m *memoryMetadataStorage) SaveFlowDefinition(def model.FlowDefinition) error {
	m.cache.Set(def.Name, def, c.NoExpiration)
	return nil
}

func (m *memoryMetadataStorage) DeleteFlowDefinition(name string) error {
	m.cache.Delete(name)
	return nil
}

func (m *memoryMetadataStorage) GetFlowDefinition(name string) (*model.FlowDefinition, error) {
	val, found := m.cache.Get(name)
	if !found {
		return nil, persistence.NotFoundError{Kind: "flow definition", Key: name}
	}
	def := val.(model.FlowDefinition)
	return &def, nil
}

func (m *memoryMetadataStorage) ListFlowDefinitions() ([]string, error) {
	items := m.cache.Items()
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
