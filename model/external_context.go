package model

import (
	"context"
	"net/http"
)

// ExternalContext is the view a flow execution has of the HTTP request it runs in.
// Flows use it to ask for redirects instead of writing to the response directly.
type ExternalContext interface {
	Context() context.Context
	Request() *http.Request
	Response() http.ResponseWriter
	RequestParameter(name string) string
	RequestParameters() map[string]any
	IsAjaxRequest() bool

	RequestFlowExecutionRedirect() error
	RequestFlowDefinitionRedirect(flowId string, input *AttributeMap) error
	RequestExternalRedirect(location string) error
	RequestRedirectInPopup()

	// RedirectRequest returns the redirect asked for, or nil.
	RedirectRequest() RedirectRequest
	RedirectInPopup() bool

	RecordResponseComplete()
	IsResponseComplete() bool
}
