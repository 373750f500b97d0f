package redis

import (
	"context"
	"errors"
	"time"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/persistence"
	"github.com/mohitkumar/flowmvc/util"
	"go.uber.org/zap"
)

var _ persistence.ExecutionRepository = new(redisExecutionRepository)

type redisExecutionRepository struct {
	*baseDao
	timeout        time.Duration
	encoderDecoder util.EncoderDecoder[model.FlowExecutionSnapshot]
}

func NewRedisExecutionRepository(conf Config, timeout time.Duration) *redisExecutionRepository {
	return &redisExecutionRepository{
		baseDao:        newBaseDao(conf),
		timeout:        timeout,
		encoderDecoder: util.NewJsonEncoderDecoder[model.FlowExecutionSnapshot](),
	}
}

func (r *redisExecutionRepository) SaveExecution(ctx context.Context, snapshot *model.FlowExecutionSnapshot) error {
	key := r.getNamespaceKey(persistence.EXECUTION_PREFIX, snapshot.Key)
	data, err := r.encoderDecoder.Encode(*snapshot)
	if err != nil {
		return err
	}
	if err := r.redisClient.Set(ctx, key, data, r.timeout).Err(); err != nil {
		logger.Error("error in saving flow execution", zap.String("flowId", snapshot.FlowId), zap.String("execution", snapshot.Key), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisExecutionRepository) GetExecution(ctx context.Context, key string) (*model.FlowExecutionSnapshot, error) {
	val, err := r.redisClient.Get(ctx, r.getNamespaceKey(persistence.EXECUTION_PREFIX, key)).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, persistence.NotFoundError{Kind: "flow execution", Key: key}
		}
		logger.Error("error in getting flow execution", zap.String("execution", key), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.Decode([]byte(val))
}

func (r *redisExecutionRepository) RemoveExecution(ctx context.Context, key string) error {
	if err := r.redisClient.Del(ctx, r.getNamespaceKey(persistence.EXECUTION_PREFIX, key)).Err(); err != nil {
		logger.Error("error in removing flow execution", zap.String("execution", key), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
