package mvc

import (
	"net/http"

	"github.com/mohitkumar/flowmvc/model"
)

// FlowHandler customizes how the adapter launches one flow and what it does once
// the flow ended or failed. Returning an empty location from the handle methods
// selects the adapter's default behavior.
type FlowHandler interface {
	// FlowId may be empty, the flow id is then taken from the request URL.
	FlowId() string
	// CreateExecutionInputMap may return nil, all request parameters are then used as input.
	CreateExecutionInputMap(r *http.Request) *model.AttributeMap
	HandleExecutionOutcome(outcome model.FlowExecutionOutcome, w http.ResponseWriter, r *http.Request) string
	HandleException(err error, w http.ResponseWriter, r *http.Request) string
}

// AbstractFlowHandler is meant to be embedded by handlers overriding a subset of FlowHandler.
type AbstractFlowHandler struct{}

func (AbstractFlowHandler) FlowId() string {
	return ""
}

func (AbstractFlowHandler) CreateExecutionInputMap(r *http.Request) *model.AttributeMap {
	return nil
}

func (AbstractFlowHandler) HandleExecutionOutcome(outcome model.FlowExecutionOutcome, w http.ResponseWriter, r *http.Request) string {
	return ""
}

func (AbstractFlowHandler) HandleException(err error, w http.ResponseWriter, r *http.Request) string {
	return ""
}
