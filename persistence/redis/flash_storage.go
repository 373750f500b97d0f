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

var _ persistence.FlashStorage = new(redisFlashStorage)

type redisFlashStorage struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[[]*model.FlashMap]
}

func NewRedisFlashStorage(conf Config) *redisFlashStorage {
	return &redisFlashStorage{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[[]*model.FlashMap](),
	}
}

func (r *redisFlashStorage) SaveFlashMaps(ctx context.Context, sessionId string, flashMaps []*model.FlashMap, ttl time.Duration) error {
	key := r.getNamespaceKey(persistence.FLASH_PREFIX, sessionId)
	if len(flashMaps) == 0 {
		if err := r.redisClient.Del(ctx, key).Err(); err != nil {
			return persistence.StorageLayerError{Message: err.Error()}
		}
		return nil
	}
	data, err := r.encoderDecoder.Encode(flashMaps)
	if err != nil {
		return err
	}
	if err := r.redisClient.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Error("error in saving flash maps", zap.String("session", sessionId), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisFlashStorage) GetFlashMaps(ctx context.Context, sessionId string) ([]*model.FlashMap, error) {
	val, err := r.redisClient.Get(ctx, r.getNamespaceKey(persistence.FLASH_PREFIX, sessionId)).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, nil
		}
		logger.Error("error in getting flash maps", zap.String("session", sessionId), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	flashMaps, err := r.encoderDecoder.Decode([]byte(val))
	if err != nil {
		return nil, err
	}
	return *flashMaps, nil
}
