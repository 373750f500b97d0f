package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlowExecutionOutcome is the terminal outcome of an ended flow.
type FlowExecutionOutcome struct {
	Name   string        `json:"name"`
	Output *AttributeMap `json:"output"`
}

// FlowExecutionResult is either a PausedResult or an EndedResult.
type FlowExecutionResult interface {
	flowExecutionResult()
}

type PausedResult struct {
	FlowId       string
	ExecutionKey string
}

type EndedResult struct {
	FlowId  string
	Outcome FlowExecutionOutcome
}

func (PausedResult) flowExecutionResult() {}
func (EndedResult) flowExecutionResult()  {}

func NewPausedResult(flowId string, executionKey string) FlowExecutionResult {
	return PausedResult{FlowId: flowId, ExecutionKey: executionKey}
}

func NewEndedResult(flowId string, outcome FlowExecutionOutcome) FlowExecutionResult {
	return EndedResult{FlowId: flowId, Outcome: outcome}
}

// FlowExecutionKey identifies one snapshot of a paused flow execution.
type FlowExecutionKey struct {
	ExecutionId string
	SnapshotId  int
}

func (k FlowExecutionKey) String() string {
	return fmt.Sprintf("e%ss%d", k.ExecutionId, k.SnapshotId)
}

func (k FlowExecutionKey) Next() FlowExecutionKey {
	return FlowExecutionKey{ExecutionId: k.ExecutionId, SnapshotId: k.SnapshotId + 1}
}

func ParseFlowExecutionKey(key string) (FlowExecutionKey, error) {
	idx := strings.LastIndex(key, "s")
	if !strings.HasPrefix(key, "e") || idx <= 1 {
		return FlowExecutionKey{}, fmt.Errorf("badly formatted flow execution key %q", key)
	}
	snapshot, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return FlowExecutionKey{}, fmt.Errorf("badly formatted flow execution key %q", key)
	}
	return FlowExecutionKey{ExecutionId: key[1:idx], SnapshotId: snapshot}, nil
}

// FlowExecutionSnapshot is the persisted state of a paused flow execution.
type FlowExecutionSnapshot struct {
	Key       string         `json:"key"`
	FlowId    string         `json:"flowId"`
	Scope     map[string]any `json:"scope"`
	CreatedAt time.Time      `json:"createdAt"`
}

// FlowDefinition is a stored, scripted flow together with its request mapping.
type FlowDefinition struct {
	Name              string            `json:"name"`
	Script            string            `json:"script"`
	InputParams       map[string]any    `json:"inputParams,omitempty"`
	OutcomeRedirects  map[string]string `json:"outcomeRedirects,omitempty"`
	ExceptionRedirect string            `json:"exceptionRedirect,omitempty"`
}
