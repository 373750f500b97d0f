package model

// RedirectRequest is the redirect a flow asked for while it was handling a request:
// FlowExecutionRedirect, FlowDefinitionRedirect or ExternalRedirect.
type RedirectRequest interface {
	redirectRequest()
}

// FlowExecutionRedirect asks to redirect back to the current flow execution.
type FlowExecutionRedirect struct{}

// FlowDefinitionRedirect asks to launch a new execution of FlowId.
type FlowDefinitionRedirect struct {
	FlowId string
	Input  *AttributeMap
}

// ExternalRedirect asks to redirect to an arbitrary location. The location may carry
// one of the servletRelative:, contextRelative: or serverRelative: prefixes.
type ExternalRedirect struct {
	Location string
}

func (FlowExecutionRedirect) redirectRequest()  {}
func (FlowDefinitionRedirect) redirectRequest() {}
func (ExternalRedirect) redirectRequest()       {}
