package executor

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mohitkumar/flowmvc/analytics"
	api "github.com/mohitkumar/flowmvc/api/v1"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/mvc"
	"github.com/mohitkumar/flowmvc/persistence"
	"go.uber.org/zap"
)

// FlowDefinition is an executable flow. Both methods return a nil outcome when the
// flow pauses to wait for the next request, scope is carried across pauses.
type FlowDefinition interface {
	Id() string
	Start(ec model.ExternalContext, input *model.AttributeMap, scope map[string]any) (*model.FlowExecutionOutcome, error)
	Resume(ec model.ExternalContext, scope map[string]any) (*model.FlowExecutionOutcome, error)
}

type FlowDefinitionLocator interface {
	// GetFlowDefinition returns a NoSuchFlowDefinitionError for unknown ids.
	GetFlowDefinition(flowId string) (FlowDefinition, error)
}

var _ mvc.FlowExecutor = new(FlowExecutorImpl)

type FlowExecutorImpl struct {
	locator    FlowDefinitionLocator
	repository persistence.ExecutionRepository
	collector  analytics.FlowDataCollector
}

func NewFlowExecutor(locator FlowDefinitionLocator, repository persistence.ExecutionRepository, collector analytics.FlowDataCollector) *FlowExecutorImpl {
	if collector == nil {
		collector = analytics.NoopDataCollector{}
	}
	return &FlowExecutorImpl{
		locator:    locator,
		repository: repository,
		collector:  collector,
	}
}

func (ex *FlowExecutorImpl) LaunchExecution(flowId string, input *model.AttributeMap, ec model.ExternalContext) (model.FlowExecutionResult, error) {
	def, err := ex.locator.GetFlowDefinition(flowId)
	if err != nil {
		return nil, err
	}
	ex.collector.RecordLaunched(flowId, input.AsMap())
	scope := make(map[string]any)
	outcome, err := def.Start(ec, input, scope)
	if err != nil {
		return nil, ex.failed(flowId, err)
	}
	key := model.FlowExecutionKey{ExecutionId: uuid.New().String(), SnapshotId: 1}
	return ex.pauseOrEnd(ec, flowId, key, scope, outcome)
}

func (ex *FlowExecutorImpl) ResumeExecution(flowExecutionKey string, ec model.ExternalContext) (model.FlowExecutionResult, error) {
	key, err := model.ParseFlowExecutionKey(flowExecutionKey)
	if err != nil {
		return nil, &api.NoSuchFlowExecutionError{Key: flowExecutionKey, Cause: err}
	}
	snapshot, err := ex.repository.GetExecution(ec.Context(), flowExecutionKey)
	if err != nil {
		var notFound persistence.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &api.NoSuchFlowExecutionError{Key: flowExecutionKey, Cause: err}
		}
		return nil, api.NewFlowError("could not restore flow execution "+flowExecutionKey, err)
	}
	def, err := ex.locator.GetFlowDefinition(snapshot.FlowId)
	if err != nil {
		return nil, err
	}
	scope := make(map[string]any, len(snapshot.Scope))
	for k, v := range snapshot.Scope {
		scope[k] = v
	}
	outcome, err := def.Resume(ec, scope)
	if err != nil {
		return nil, ex.failed(snapshot.FlowId, err)
	}
	result, err := ex.pauseOrEnd(ec, snapshot.FlowId, key.Next(), scope, outcome)
	if err != nil {
		return nil, err
	}
	if err := ex.repository.RemoveExecution(ec.Context(), flowExecutionKey); err != nil {
		logger.Warn("could not remove previous flow execution snapshot", zap.String("execution", flowExecutionKey), zap.Error(err))
	}
	return result, nil
}

func (ex *FlowExecutorImpl) pauseOrEnd(ec model.ExternalContext, flowId string, key model.FlowExecutionKey, scope map[string]any, outcome *model.FlowExecutionOutcome) (model.FlowExecutionResult, error) {
	if outcome != nil {
		logger.Debug("flow execution ended", zap.String("flowId", flowId), zap.String("outcome", outcome.Name))
		ex.collector.RecordEnded(flowId, outcome.Name, outcome.Output.AsMap())
		return model.NewEndedResult(flowId, *outcome), nil
	}
	snapshot := &model.FlowExecutionSnapshot{
		Key:       key.String(),
		FlowId:    flowId,
		Scope:     scope,
		CreatedAt: time.Now().UTC(),
	}
	if err := ex.repository.SaveExecution(ec.Context(), snapshot); err != nil {
		return nil, api.NewFlowError("could not save flow execution "+snapshot.Key, err)
	}
	logger.Debug("flow execution paused", zap.String("flowId", flowId), zap.String("execution", snapshot.Key))
	ex.collector.RecordPaused(flowId, snapshot.Key)
	return model.NewPausedResult(flowId, snapshot.Key), nil
}

func (ex *FlowExecutorImpl) failed(flowId string, err error) error {
	logger.Error("error executing flow", zap.String("flowId", flowId), zap.Error(err))
	ex.collector.RecordFailed(flowId, err.Error())
	if api.IsFlowError(err) {
		return err
	}
	return &api.FlowExecutionError{FlowId: flowId, Cause: err}
}
