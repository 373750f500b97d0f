package rest

import (
	"net/http"

	api "github.com/mohitkumar/flowmvc/api/v1"
	"github.com/mohitkumar/flowmvc/flash"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/mohitkumar/flowmvc/mvc"
	"github.com/mohitkumar/flowmvc/util"
)

var _ mvc.FlowHandler = new(DefinitionFlowHandler)

// DefinitionFlowHandler applies the request mapping of a stored flow definition. A
// nil definition behaves like mvc.AbstractFlowHandler.
type DefinitionFlowHandler struct {
	mvc.AbstractFlowHandler
	def *model.FlowDefinition
}

func NewDefinitionFlowHandler(def *model.FlowDefinition) *DefinitionFlowHandler {
	return &DefinitionFlowHandler{def: def}
}

func (h *DefinitionFlowHandler) FlowId() string {
	if h.def == nil {
		return ""
	}
	return h.def.Name
}

// CreateExecutionInputMap resolves the definition's input params against
// {"params": ..., "flash": ..., "headers": ...}.
func (h *DefinitionFlowHandler) CreateExecutionInputMap(r *http.Request) *model.AttributeMap {
	if h.def == nil || len(h.def.InputParams) == 0 {
		return nil
	}
	data := map[string]any{
		"params":  requestParams(r),
		"flash":   map[string]any{},
		"headers": requestHeaders(r),
	}
	if fm := flash.InputFlashMap(r.Context()); fm != nil {
		data["flash"] = fm.Attributes.AsMap()
	}
	return model.AttributeMapFromMap(util.ResolveInputParams(data, h.def.InputParams))
}

func (h *DefinitionFlowHandler) HandleExecutionOutcome(outcome model.FlowExecutionOutcome, w http.ResponseWriter, r *http.Request) string {
	if h.def == nil {
		return ""
	}
	return h.def.OutcomeRedirects[outcome.Name]
}

// HandleException leaves missing executions to the adapter, which restarts the flow.
func (h *DefinitionFlowHandler) HandleException(err error, w http.ResponseWriter, r *http.Request) string {
	if h.def == nil || api.IsNoSuchFlowExecution(err) {
		return ""
	}
	return h.def.ExceptionRedirect
}

func requestParams(r *http.Request) map[string]any {
	params := make(map[string]any)
	if err := r.ParseForm(); err != nil {
		return params
	}
	for name, values := range r.Form {
		if len(values) == 1 {
			params[name] = values[0]
		} else {
			all := make([]any, 0, len(values))
			for _, v := range values {
				all = append(all, v)
			}
			params[name] = all
		}
	}
	return params
}

func requestHeaders(r *http.Request) map[string]any {
	headers := make(map[string]any, len(r.Header))
	for name := range r.Header {
		headers[name] = r.Header.Get(name)
	}
	return headers
}
