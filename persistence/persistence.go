package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/mohitkumar/flowmvc/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type NotFoundError struct {
	Kind string
	Key  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

const EXECUTION_PREFIX string = "EXECUTION"
const FLASH_PREFIX string = "FLASH"
const FLOW_DEF_PREFIX string = "FLOW_DEF"

// ExecutionRepository stores paused flow executions by execution key.
type ExecutionRepository interface {
	SaveExecution(ctx context.Context, snapshot *model.FlowExecutionSnapshot) error
	// GetExecution returns a NotFoundError when the key is unknown or expired.
	GetExecution(ctx context.Context, key string) (*model.FlowExecutionSnapshot, error)
	RemoveExecution(ctx context.Context, key string) error
}

// FlashStorage keeps the pending flash maps of one session.
type FlashStorage interface {
	SaveFlashMaps(ctx context.Context, sessionId string, flashMaps []*model.FlashMap, ttl time.Duration) error
	GetFlashMaps(ctx context.Context, sessionId string) ([]*model.FlashMap, error)
}
