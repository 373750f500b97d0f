package mvc

import (
	"context"
	"errors"
	"net/http"

	"github.com/mohitkumar/flowmvc/model"
)

// ErrResponseComplete is returned when a flow asks for a second redirect, or for a
// redirect after the response was completed.
var ErrResponseComplete = errors.New("response already complete, no further redirect can be requested")

var _ model.ExternalContext = new(HttpExternalContext)

type HttpExternalContext struct {
	request          *http.Request
	response         http.ResponseWriter
	ajaxRequest      bool
	redirect         model.RedirectRequest
	redirectInPopup  bool
	responseComplete bool
}

func NewHttpExternalContext(w http.ResponseWriter, r *http.Request, ajaxHandler AjaxHandler) *HttpExternalContext {
	return &HttpExternalContext{
		request:     r,
		response:    w,
		ajaxRequest: ajaxHandler != nil && ajaxHandler.IsAjaxRequest(r),
	}
}

func (c *HttpExternalContext) Context() context.Context {
	return c.request.Context()
}

func (c *HttpExternalContext) Request() *http.Request {
	return c.request
}

func (c *HttpExternalContext) Response() http.ResponseWriter {
	return c.response
}

func (c *HttpExternalContext) RequestParameter(name string) string {
	return c.request.FormValue(name)
}

// RequestParameters holds single valued parameters as strings and repeated ones as []string.
func (c *HttpExternalContext) RequestParameters() map[string]any {
	params := make(map[string]any)
	if err := c.request.ParseForm(); err != nil {
		return params
	}
	for name, values := range c.request.Form {
		if len(values) == 1 {
			params[name] = values[0]
		} else {
			params[name] = values
		}
	}
	return params
}

func (c *HttpExternalContext) IsAjaxRequest() bool {
	return c.ajaxRequest
}

func (c *HttpExternalContext) SetAjaxRequest(ajax bool) {
	c.ajaxRequest = ajax
}

func (c *HttpExternalContext) RequestFlowExecutionRedirect() error {
	return c.requestRedirect(model.FlowExecutionRedirect{})
}

func (c *HttpExternalContext) RequestFlowDefinitionRedirect(flowId string, input *model.AttributeMap) error {
	return c.requestRedirect(model.FlowDefinitionRedirect{FlowId: flowId, Input: input})
}

func (c *HttpExternalContext) RequestExternalRedirect(location string) error {
	return c.requestRedirect(model.ExternalRedirect{Location: location})
}

func (c *HttpExternalContext) requestRedirect(redirect model.RedirectRequest) error {
	if c.responseComplete {
		return ErrResponseComplete
	}
	c.redirect = redirect
	c.responseComplete = true
	return nil
}

func (c *HttpExternalContext) RequestRedirectInPopup() {
	c.redirectInPopup = true
}

func (c *HttpExternalContext) RedirectRequest() model.RedirectRequest {
	return c.redirect
}

func (c *HttpExternalContext) RedirectInPopup() bool {
	return c.redirectInPopup
}

func (c *HttpExternalContext) RecordResponseComplete() {
	c.responseComplete = true
}

func (c *HttpExternalContext) IsResponseComplete() bool {
	return c.responseComplete
}
