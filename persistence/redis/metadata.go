package redis

import (
	"context"
	"errors"
	"sort"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/metadata"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/persistence"
	"github.com/mohitkumar/flowmvc/util"
	"go.uber.org/zap"
)

var _ metadata.MetadataStorage = new(redisMetadataStorage)

type redisMetadataStorage struct {
	*baseDao
	flowEncoderDecoder util.EncoderDecoder[model.FlowDefinition]
}

func NewRedisMetadataStorage(conf Config) *redisMetadataStorage {
	return &redisMetadataStorage{
		baseDao:            newBaseDao(conf),
		flowEncoderDecoder: util.NewJsonEncoderDecoder[model.FlowDefinition](),
	}
}

func (rfd *redisMetadataStorage) SaveFlowDefinition(def model.FlowDefinition) error {
	data, err := rfd.flowEncoderDecoder.Encode(def)
	if err != nil {
		return err
	}
	key := rfd.getNamespaceKey(persistence.FLOW_DEF_PREFIX)
	if err := rfd.redisClient.HSet(context.Background(), key, []string{def.Name, string(data)}).Err(); err != nil {
		logger.Error("error in saving flow definition", zap.String("flow", def.Name), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rfd *redisMetadataStorage) DeleteFlowDefinition(name string) error {
	key := rfd.getNamespaceKey(persistence.FLOW_DEF_PREFIX)
	if err := rfd.redisClient.HDel(context.Background(), key, name).Err(); err != nil {
		logger.Error("error in deleting flow definition", zap.String("flow", name), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rfd *redisMetadataStorage) GetFlowDefinition(name string) (*model.FlowDefinition, error) {
	key := rfd.getNamespaceKey(persistence.FLOW_DEF_PREFIX)
	val, err := rfd.redisClient.HGet(context.Background(), key, name).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "flow definition", Key: name}
		}
		logger.Error("error in getting flow definition", zap.String("flow", name), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rfd.flowEncoderDecoder.Decode([]byte(val))
}

func (rfd *redisMetadataStorage) ListFlowDefinitions() ([]string, error) {
	key := rfd.getNamespaceKey(persistence.FLOW_DEF_PREFIX)
	names, err := rfd.redisClient.HKeys(context.Background(), key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	sort.Strings(names)
	return names, nil
}
