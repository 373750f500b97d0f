package mvc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	api "github.com/mohitkumar/flowmvc/api/v1"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/model"
	"go.uber.org/zap"
)

const (
	SERVLET_RELATIVE_LOCATION_PREFIX = "servletRelative:"
	CONTEXT_RELATIVE_LOCATION_PREFIX = "contextRelative:"
	SERVER_RELATIVE_LOCATION_PREFIX  = "serverRelative:"
)

// FlowExecutor launches and resumes flow executions. Failures are reported with the
// error types of the api package.
type FlowExecutor interface {
	LaunchExecution(flowId string, input *model.AttributeMap, ec model.ExternalContext) (model.FlowExecutionResult, error)
	ResumeExecution(flowExecutionKey string, ec model.ExternalContext) (model.FlowExecutionResult, error)
}

type FlashMapManager interface {
	SaveOutputFlashMap(flashMap *model.FlashMap, w http.ResponseWriter, r *http.Request) error
}

// FlowHandlerAdapter dispatches HTTP requests to flow executions and turns the
// result of each execution into a redirect, an ajax redirect or an error.
type FlowHandlerAdapter struct {
	flowExecutor                     FlowExecutor
	flowUrlHandler                   FlowUrlHandler
	ajaxHandler                      AjaxHandler
	flashMapManager                  FlashMapManager
	redirectHttp10Compatible         bool
	saveOutputToFlashScopeOnRedirect bool
	hosts                            []string
}

type Option func(*FlowHandlerAdapter)

func WithFlowUrlHandler(h FlowUrlHandler) Option {
	return func(a *FlowHandlerAdapter) { a.flowUrlHandler = h }
}

func WithAjaxHandler(h AjaxHandler) Option {
	return func(a *FlowHandlerAdapter) { a.ajaxHandler = h }
}

func WithFlashMapManager(m FlashMapManager) Option {
	return func(a *FlowHandlerAdapter) { a.flashMapManager = m }
}

// WithRedirectHttp10Compatible selects 302 redirects when true (the default) and
// 303 redirects with an explicit Location header when false.
func WithRedirectHttp10Compatible(compatible bool) Option {
	return func(a *FlowHandlerAdapter) { a.redirectHttp10Compatible = compatible }
}

func WithSaveOutputToFlashScopeOnRedirect(save bool) Option {
	return func(a *FlowHandlerAdapter) { a.saveOutputToFlashScopeOnRedirect = save }
}

// WithHosts sets the hosts redirects may target without being considered remote.
func WithHosts(hosts ...string) Option {
	return func(a *FlowHandlerAdapter) { a.hosts = hosts }
}

func NewFlowHandlerAdapter(flowExecutor FlowExecutor, opts ...Option) *FlowHandlerAdapter {
	a := &FlowHandlerAdapter{
		flowExecutor:             flowExecutor,
		flowUrlHandler:           &DefaultFlowUrlHandler{},
		ajaxHandler:              &JavascriptAjaxHandler{},
		redirectHttp10Compatible: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *FlowHandlerAdapter) FlowUrlHandler() FlowUrlHandler {
	return a.flowUrlHandler
}

// Handle launches or resumes a flow for the request. A nil error with nothing written
// means the paused flow renders inline. Flow errors the handler does not redirect,
// other than a missing execution, are returned unchanged.
func (a *FlowHandlerAdapter) Handle(w http.ResponseWriter, r *http.Request, handler FlowHandler) error {
	ec := NewHttpExternalContext(w, r, a.ajaxHandler)
	var result model.FlowExecutionResult
	var err error
	if key := a.flowUrlHandler.FlowExecutionKey(r); key != "" {
		logger.Debug("resuming flow execution", zap.String("execution", key))
		result, err = a.flowExecutor.ResumeExecution(key, ec)
	} else {
		flowId := a.getFlowId(handler, r)
		logger.Debug("launching new execution of flow", zap.String("flowId", flowId))
		result, err = a.flowExecutor.LaunchExecution(flowId, a.createInput(handler, r), ec)
	}
	if err != nil {
		if api.IsFlowError(err) {
			return a.handleFlowError(err, ec, handler)
		}
		return err
	}
	return a.handleFlowExecutionResult(result, ec, handler)
}

// Handler serves every request with the same flow handler.
func (a *FlowHandlerAdapter) Handler(handler FlowHandler) http.Handler {
	return a.HandlerFunc(func(*http.Request) FlowHandler { return handler })
}

// HandlerFunc serves each request with the flow handler resolve returns for it. Errors
// returned by Handle become a JSON 500 response, an ajax redirect gets 200 and a paused
// flow rendering inline gets 204 No Content.
func (a *FlowHandlerAdapter) HandlerFunc(resolve func(r *http.Request) FlowHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		if err := a.Handle(tw, r, resolve(r)); err != nil {
			logger.Error("error handling flow request", zap.String("path", r.URL.Path), zap.Error(err))
			if !tw.written {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			}
			return
		}
		switch {
		case tw.written:
		case tw.ajaxRedirect:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

type trackingWriter struct {
	http.ResponseWriter
	written      bool
	ajaxRedirect bool
}

func (w *trackingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		w.written = true
		f.Flush()
	}
}

func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *trackingWriter) WriteHeader(code int) {
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

func (a *FlowHandlerAdapter) createInput(handler FlowHandler, r *http.Request) *model.AttributeMap {
	if input := handler.CreateExecutionInputMap(r); input != nil {
		return input
	}
	if err := r.ParseForm(); err != nil || len(r.Form) == 0 {
		return nil
	}
	params := make(map[string]any, len(r.Form))
	for name, values := range r.Form {
		if name == EXECUTION_PARAM {
			continue
		}
		if len(values) == 1 {
			params[name] = values[0]
		} else {
			params[name] = values
		}
	}
	return model.AttributeMapFromMap(params)
}

func (a *FlowHandlerAdapter) handleFlowExecutionResult(result model.FlowExecutionResult, ec *HttpExternalContext, handler FlowHandler) error {
	switch res := result.(type) {
	case model.PausedResult:
		switch redirect := ec.RedirectRequest().(type) {
		case model.FlowExecutionRedirect:
			url := a.flowUrlHandler.CreateFlowExecutionUrl(res.FlowId, res.ExecutionKey, ec.Request())
			logger.Debug("sending flow execution redirect", zap.String("url", url))
			return a.sendRedirect(url, ec)
		case model.ExternalRedirect:
			return a.sendExternalRedirect(redirect.Location, ec)
		case model.FlowDefinitionRedirect:
			return a.sendFlowDefinitionRedirect(redirect, ec)
		}
		return nil
	case model.EndedResult:
		switch redirect := ec.RedirectRequest().(type) {
		case model.FlowDefinitionRedirect:
			return a.sendFlowDefinitionRedirect(redirect, ec)
		case model.ExternalRedirect:
			return a.sendExternalRedirect(redirect.Location, ec)
		}
		if ec.RedirectRequest() == nil && ec.IsResponseComplete() {
			logger.Debug("response already complete, skipping outcome handling", zap.String("flowId", res.FlowId))
			return nil
		}
		location := handler.HandleExecutionOutcome(res.Outcome, ec.Response(), ec.Request())
		if location != "" {
			return a.sendOutcomeRedirect(location, res.Outcome, ec)
		}
		return a.defaultHandleExecutionOutcome(res.FlowId, res.Outcome, ec)
	}
	return fmt.Errorf("unsupported flow execution result %T", result)
}

// defaultHandleExecutionOutcome starts the flow over with the output as input.
func (a *FlowHandlerAdapter) defaultHandleExecutionOutcome(flowId string, outcome model.FlowExecutionOutcome, ec *HttpExternalContext) error {
	url := a.flowUrlHandler.CreateFlowDefinitionUrl(flowId, outcome.Output, ec.Request())
	return a.sendRedirect(url, ec)
}

func (a *FlowHandlerAdapter) sendOutcomeRedirect(location string, outcome model.FlowExecutionOutcome, ec *HttpExternalContext) error {
	target := ResolveLocation(location, ec.Request())
	if a.saveOutputToFlashScopeOnRedirect && !a.IsRemoteHost(target) {
		if err := a.saveFlashOutput(target, outcome, ec); err != nil {
			return err
		}
		return a.sendRedirect(target, ec)
	}
	return a.sendRedirect(AppendQueryParameters(target, outcome.Output), ec)
}

func (a *FlowHandlerAdapter) saveFlashOutput(target string, outcome model.FlowExecutionOutcome, ec *HttpExternalContext) error {
	if a.flashMapManager == nil {
		logger.Warn("flash output requested but no flash map manager configured", zap.String("target", target))
		return nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return err
	}
	flashMap := model.NewFlashMap()
	flashMap.TargetRequestPath = u.Path
	if query := u.Query(); len(query) > 0 {
		flashMap.TargetRequestParams = query
	}
	flashMap.Attributes.PutAll(outcome.Output)
	return a.flashMapManager.SaveOutputFlashMap(flashMap, ec.Response(), ec.Request())
}

func (a *FlowHandlerAdapter) handleFlowError(err error, ec *HttpExternalContext, handler FlowHandler) error {
	if location := handler.HandleException(err, ec.Response(), ec.Request()); location != "" {
		return a.sendExternalRedirect(location, ec)
	}
	flowId := a.getFlowId(handler, ec.Request())
	if api.IsNoSuchFlowExecution(err) && flowId != "" {
		logger.Debug("restarting flow after missing execution", zap.String("flowId", flowId), zap.Error(err))
		url := a.flowUrlHandler.CreateFlowDefinitionUrl(flowId, nil, ec.Request())
		return a.sendRedirect(url, ec)
	}
	return err
}

func (a *FlowHandlerAdapter) sendFlowDefinitionRedirect(redirect model.FlowDefinitionRedirect, ec *HttpExternalContext) error {
	url := a.flowUrlHandler.CreateFlowDefinitionUrl(redirect.FlowId, redirect.Input, ec.Request())
	logger.Debug("sending flow definition redirect", zap.String("url", url))
	return a.sendRedirect(url, ec)
}

func (a *FlowHandlerAdapter) sendExternalRedirect(location string, ec *HttpExternalContext) error {
	url := ResolveLocation(location, ec.Request())
	if a.IsRemoteHost(url) {
		logger.Info("redirecting to remote host", zap.String("url", url))
	}
	return a.sendRedirect(url, ec)
}

func (a *FlowHandlerAdapter) sendRedirect(url string, ec *HttpExternalContext) error {
	if ec.RedirectRequest() == nil && ec.IsResponseComplete() {
		logger.Debug("response already complete, skipping redirect", zap.String("url", url))
		return nil
	}
	w, r := ec.Response(), ec.Request()
	if ec.IsAjaxRequest() {
		a.ajaxHandler.SendAjaxRedirect(url, w, r, ec.RedirectInPopup())
		if tw, ok := w.(*trackingWriter); ok {
			tw.ajaxRedirect = true
		}
		return nil
	}
	if a.redirectHttp10Compatible {
		http.Redirect(w, r, url, http.StatusFound)
		return nil
	}
	w.Header().Set("Location", url)
	w.WriteHeader(http.StatusSeeOther)
	return nil
}

func (a *FlowHandlerAdapter) getFlowId(handler FlowHandler, r *http.Request) string {
	if flowId := handler.FlowId(); flowId != "" {
		return flowId
	}
	return a.flowUrlHandler.FlowId(r)
}

// IsRemoteHost reports whether targetUrl points to a host outside the configured
// hosts. Relative URLs are never remote. With no hosts configured every URL with a
// host is remote.
func (a *FlowHandlerAdapter) IsRemoteHost(targetUrl string) bool {
	u, err := url.Parse(targetUrl)
	if err != nil || u.Host == "" {
		return false
	}
	for _, host := range a.hosts {
		if strings.EqualFold(u.Hostname(), host) {
			return false
		}
	}
	return true
}

// ResolveLocation turns a redirect location into a URL the client can follow.
//
//	https://host/x        unchanged
//	servletRelative:x     <context><servlet>/x
//	contextRelative:x     <context>/x
//	serverRelative:x      /x
//	x                     servlet relative when the request has path info, context relative otherwise
func ResolveLocation(location string, r *http.Request) string {
	path := RequestPathOf(r)
	switch {
	case strings.HasPrefix(location, SERVLET_RELATIVE_LOCATION_PREFIX):
		return servletRelative(path, location[len(SERVLET_RELATIVE_LOCATION_PREFIX):])
	case strings.HasPrefix(location, CONTEXT_RELATIVE_LOCATION_PREFIX):
		return contextRelative(path, location[len(CONTEXT_RELATIVE_LOCATION_PREFIX):])
	case strings.HasPrefix(location, SERVER_RELATIVE_LOCATION_PREFIX):
		return "/" + strings.TrimPrefix(location[len(SERVER_RELATIVE_LOCATION_PREFIX):], "/")
	case hasScheme(location):
		return location
	case path.PathInfo != "":
		return servletRelative(path, location)
	default:
		return contextRelative(path, location)
	}
}

func servletRelative(path RequestPath, location string) string {
	return path.Base() + "/" + strings.TrimPrefix(location, "/")
}

func contextRelative(path RequestPath, location string) string {
	return path.ContextPath + "/" + strings.TrimPrefix(location, "/")
}

func hasScheme(location string) bool {
	u, err := url.Parse(location)
	return err == nil && u.Scheme != ""
}
