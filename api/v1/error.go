package api_v1

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

func withMessage(code codes.Code, msg string) *status.Status {
	st := status.New(code, msg)
	d := &errdetails.LocalizedMessage{
		Locale:  "en-US",
		Message: msg,
	}
	std, err := st.WithDetails(d)
	if err != nil {
		return st
	}
	return std
}

// FlowError is the root of the errors raised while launching or resuming a flow.
type FlowError struct {
	Message string
	Cause   error
}

func (e *FlowError) GRPCStatus() *status.Status {
	return withMessage(codes.Internal, e.Error())
}

func (e *FlowError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Cause
}

func NewFlowError(message string, cause error) *FlowError {
	return &FlowError{Message: message, Cause: cause}
}

// NoSuchFlowExecutionError is returned when the execution key of a resume request
// does not point to a live flow execution.
type NoSuchFlowExecutionError struct {
	Key   string
	Cause error
}

func (e *NoSuchFlowExecutionError) GRPCStatus() *status.Status {
	return withMessage(codes.NotFound, e.Error())
}

func (e *NoSuchFlowExecutionError) Error() string {
	return fmt.Sprintf("no flow execution was found with key %q, it may have ended or expired", e.Key)
}

func (e *NoSuchFlowExecutionError) Unwrap() error {
	return e.Cause
}

type NoSuchFlowDefinitionError struct {
	FlowId string
}

func (e *NoSuchFlowDefinitionError) GRPCStatus() *status.Status {
	return withMessage(codes.NotFound, e.Error())
}

func (e *NoSuchFlowDefinitionError) Error() string {
	return fmt.Sprintf("no flow definition %q found", e.FlowId)
}

// FlowExecutionError wraps a failure raised by a flow definition while it was executing.
type FlowExecutionError struct {
	FlowId string
	Cause  error
}

func (e *FlowExecutionError) GRPCStatus() *status.Status {
	return withMessage(codes.Internal, e.Error())
}

func (e *FlowExecutionError) Error() string {
	return fmt.Sprintf("exception thrown in flow %q: %v", e.FlowId, e.Cause)
}

func (e *FlowExecutionError) Unwrap() error {
	return e.Cause
}

// IsFlowError reports whether err belongs to the flow error family.
func IsFlowError(err error) bool {
	var fe *FlowError
	var nse *NoSuchFlowExecutionError
	var nsd *NoSuchFlowDefinitionError
	var fee *FlowExecutionError
	return errors.As(err, &fe) || errors.As(err, &nse) || errors.As(err, &nsd) || errors.As(err, &fee)
}

func IsNoSuchFlowExecution(err error) bool {
	var nse *NoSuchFlowExecutionError
	return errors.As(err, &nse)
}
