package redis

import (
	"context"
	"testing"
	"time"

	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/persistence"
	"github.com/stretchr/testify/require"
)

var testConf = Config{
	Addrs:     []string{"localhost:6379"},
	Namespace: "flowmvc-test",
}

func requireRedis(t *testing.T, dao *baseDao) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := dao.Ping(ctx); err != nil {
		t.Skipf("redis not available: %v", err)
	}
}

func TestRedisExecutionRepository(t *testing.T) {
	repo := NewRedisExecutionRepository(testConf, time.Minute)
	requireRedis(t, repo.baseDao)
	defer repo.Close()
	ctx := context.Background()

	snapshot := &model.FlowExecutionSnapshot{
		Key:       "eabcs1",
		FlowId:    "booking",
		Scope:     map[string]any{"count": 1.0},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.SaveExecution(ctx, snapshot))

	res, err := repo.GetExecution(ctx, "eabcs1")
	require.NoError(t, err)
	require.Equal(t, snapshot, res)

	require.NoError(t, repo.RemoveExecution(ctx, "eabcs1"))
	_, err = repo.GetExecution(ctx, "eabcs1")
	require.IsType(t, persistence.NotFoundError{}, err)
}

func TestRedisFlashStorage(t *testing.T) {
	storage := NewRedisFlashStorage(testConf)
	requireRedis(t, storage.baseDao)
	defer storage.Close()
	ctx := context.Background()

	fm := model.NewFlashMap()
	fm.Put("bar", "baz")
	fm.TargetRequestPath = "/springtravel/app/home"
	require.NoError(t, storage.SaveFlashMaps(ctx, "session-1", []*model.FlashMap{fm}, time.Minute))

	res, err := storage.GetFlashMaps(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, "/springtravel/app/home", res[0].TargetRequestPath)
	require.Equal(t, "baz", res[0].Attributes.GetString("bar"))

	require.NoError(t, storage.SaveFlashMaps(ctx, "session-1", nil, time.Minute))
	res, err = storage.GetFlashMaps(ctx, "session-1")
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestRedisMetadataStorage(t *testing.T) {
	storage := NewRedisMetadataStorage(testConf)
	requireRedis(t, storage.baseDao)
	defer storage.Close()

	def := model.FlowDefinition{Name: "booking", Script: "function start() {}"}
	require.NoError(t, storage.SaveFlowDefinition(def))
	res, err := storage.GetFlowDefinition("booking")
	require.NoError(t, err)
	require.Equal(t, def, *res)

	names, err := storage.ListFlowDefinitions()
	require.NoError(t, err)
	require.Contains(t, names, "booking")

	require.NoError(t, storage.DeleteFlowDefinition("booking"))
	_, err = storage.GetFlowDefinition("booking")
	require.IsType(t, persistence.NotFoundError{}, err)
}
