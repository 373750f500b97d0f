package mvc

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/mohitkumar/flowmvc/api/v1"
	"github.com/mohitkumar/flowmvc/model"
	"github.com/stretchr/testify/require"
)

type executorCall struct {
	launch bool
	flowId string
	input  *model.AttributeMap
	key    string
	onCall func(ec model.ExternalContext)
	result model.FlowExecutionResult
	err    error
}

func (c *executorCall) andReturn(result model.FlowExecutionResult) *executorCall {
	c.result = result
	return c
}

func (c *executorCall) andFail(err error) *executorCall {
	c.err = err
	return c
}

// andDo runs fn against the external context while the flow executes.
func (c *executorCall) andDo(fn func(ec model.ExternalContext)) *executorCall {
	c.onCall = fn
	return c
}

type mockFlowExecutor struct {
	t        *testing.T
	expected *executorCall
	calls    int
}

func (m *mockFlowExecutor) expectLaunch(flowId string, input *model.AttributeMap) *executorCall {
	m.expected = &executorCall{launch: true, flowId: flowId, input: input}
	return m.expected
}

func (m *mockFlowExecutor) expectResume(key string) *executorCall {
	m.expected = &executorCall{key: key}
	return m.expected
}

func (m *mockFlowExecutor) LaunchExecution(flowId string, input *model.AttributeMap, ec model.ExternalContext) (model.FlowExecutionResult, error) {
	m.calls++
	require.NotNil(m.t, m.expected, "unexpected launch of %s", flowId)
	require.True(m.t, m.expected.launch, "expected resume but got launch")
	require.Equal(m.t, m.expected.flowId, flowId)
	require.Equal(m.t, m.expected.input, input)
	return m.answer(ec)
}

func (m *mockFlowExecutor) ResumeExecution(key string, ec model.ExternalContext) (model.FlowExecutionResult, error) {
	m.calls++
	require.NotNil(m.t, m.expected, "unexpected resume of %s", key)
	require.False(m.t, m.expected.launch, "expected launch but got resume")
	require.Equal(m.t, m.expected.key, key)
	return m.answer(ec)
}

func (m *mockFlowExecutor) answer(ec model.ExternalContext) (model.FlowExecutionResult, error) {
	if m.expected.onCall != nil {
		m.expected.onCall(ec)
	}
	return m.expected.result, m.expected.err
}

func (m *mockFlowExecutor) verify() {
	require.Equal(m.t, 1, m.calls, "flow executor should be called exactly once")
}

type testFlowHandler struct {
	t                      *testing.T
	request                *http.Request
	input                  *model.AttributeMap
	handleExecutionOutcome bool
	handleException        bool
	exceptions             []error
}

func (h *testFlowHandler) FlowId() string {
	return "foo"
}

func (h *testFlowHandler) CreateExecutionInputMap(r *http.Request) *model.AttributeMap {
	require.Same(h.t, h.request, r)
	return h.input
}

func (h *testFlowHandler) HandleExecutionOutcome(outcome model.FlowExecutionOutcome, w http.ResponseWriter, r *http.Request) string {
	if h.handleExecutionOutcome {
		return "/home"
	}
	return ""
}

func (h *testFlowHandler) HandleException(err error, w http.ResponseWriter, r *http.Request) string {
	h.exceptions = append(h.exceptions, err)
	if h.handleException {
		return "error"
	}
	return ""
}

type mockFlashMapManager struct {
	flashMap *model.FlashMap
}

func (m *mockFlashMapManager) SaveOutputFlashMap(flashMap *model.FlashMap, w http.ResponseWriter, r *http.Request) error {
	m.flashMap = flashMap
	return nil
}

type adapterFixture struct {
	t            *testing.T
	flowExecutor *mockFlowExecutor
	flowHandler  *testFlowHandler
	flashManager *mockFlashMapManager
	flowInput    *model.AttributeMap
	options      []Option
	request      *http.Request
	response     *httptest.ResponseRecorder
}

func newAdapterFixture(t *testing.T) *adapterFixture {
	flowInput := model.NewAttributeMap()
	return &adapterFixture{
		t:            t,
		flowExecutor: &mockFlowExecutor{t: t},
		flowHandler:  &testFlowHandler{t: t, input: flowInput},
		flashManager: &mockFlashMapManager{},
		flowInput:    flowInput,
		response:     httptest.NewRecorder(),
	}
}

func (f *adapterFixture) setupRequest(contextPath string, servletPath string, pathInfo string, method string, query string) {
	target := contextPath + servletPath + pathInfo
	if query != "" {
		target += "?" + query
	}
	r := httptest.NewRequest(method, target, nil)
	f.request = WithRequestPath(r, RequestPath{ContextPath: contextPath, ServletPath: servletPath, PathInfo: pathInfo})
	f.flowHandler.request = f.request
}

func (f *adapterFixture) handle() error {
	options := append([]Option{WithFlashMapManager(f.flashManager)}, f.options...)
	adapter := NewFlowHandlerAdapter(f.flowExecutor, options...)
	return adapter.Handle(f.response, f.request, f.flowHandler)
}

func (f *adapterFixture) redirectedUrl() string {
	return f.response.Header().Get("Location")
}

func finishOutcome() model.FlowExecutionOutcome {
	return model.FlowExecutionOutcome{Name: "finish", Output: model.NewAttributeMap().Put("bar", "baz")}
}

func TestLaunchFlowRequest(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/whatever", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andReturn(model.NewPausedResult("foo", "12345"))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Empty(t, f.redirectedUrl())
	require.Equal(t, http.StatusOK, f.response.Code)
}

func TestLaunchFlowRequestEndsAfterProcessing(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/whatever", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andReturn(model.NewEndedResult("foo", finishOutcome()))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "/springtravel/app/foo?bar=baz", f.redirectedUrl())
	require.Equal(t, http.StatusFound, f.response.Code)
}

func TestLaunchFlowRequestEndsAfterProcessingAjaxRequest(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/whatever", http.MethodGet, "")
	f.request.Header.Set("Accept", "text/html;type=ajax")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andReturn(model.NewEndedResult("foo", finishOutcome()))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "/springtravel/app/foo?bar=baz", f.response.Header().Get(REDIRECT_URL_HEADER))
	require.Empty(t, f.redirectedUrl())
	require.Equal(t, http.StatusOK, f.response.Code)
}

func TestAjaxRedirectInPopup(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "ajaxSource=link")
	f.flowExecutor.expectLaunch("foo", f.flowInput).
		andDo(func(ec model.ExternalContext) {
			ec.RequestRedirectInPopup()
			require.NoError(t, ec.RequestFlowExecutionRedirect())
		}).
		andReturn(model.NewPausedResult("foo", "12345"))

	require.NoError(t, f.handle())
	require.Equal(t, "/springtravel/app/foo?execution=12345", f.response.Header().Get(REDIRECT_URL_HEADER))
	require.Equal(t, "true", f.response.Header().Get(POPUP_VIEW_HEADER))
}

func TestResumeFlowRequest(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodPost, "execution=12345")
	f.flowExecutor.expectResume("12345").andReturn(model.NewPausedResult("foo", "123456"))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Empty(t, f.redirectedUrl())
}

func TestResumeFlowRequestEndsAfterProcessing(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodPost, "execution=12345")
	f.flowExecutor.expectResume("12345").andReturn(model.NewEndedResult("foo", finishOutcome()))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "/springtravel/app/foo?bar=baz", f.redirectedUrl())
}

func TestResumeFlowRequestEndsAfterProcessingFlowCommittedResponse(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodPost, "execution=12345")
	f.flowExecutor.expectResume("12345").
		andDo(func(ec model.ExternalContext) { ec.RecordResponseComplete() }).
		andReturn(model.NewEndedResult("foo", finishOutcome()))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Empty(t, f.redirectedUrl())
	require.Equal(t, http.StatusOK, f.response.Code)
}

func TestLaunchFlowWithExecutionRedirect(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).
		andDo(func(ec model.ExternalContext) { require.NoError(t, ec.RequestFlowExecutionRedirect()) }).
		andReturn(model.NewPausedResult("foo", "12345"))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "/springtravel/app/foo?execution=12345", f.redirectedUrl())
}

func TestLaunchFlowWithDefinitionRedirect(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	input := model.NewAttributeMap().Put("baz", "boop")
	f.flowExecutor.expectLaunch("foo", f.flowInput).
		andDo(func(ec model.ExternalContext) { require.NoError(t, ec.RequestFlowDefinitionRedirect("bar", input)) }).
		andReturn(model.NewEndedResult("foo", finishOutcome()))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "/springtravel/app/bar?baz=boop", f.redirectedUrl())
}

func TestLaunchFlowWithExternalRedirect(t *testing.T) {
	for scenario, tc := range map[string]struct {
		location string
		expected string
	}{
		"http":                        {location: "http://www.paypal.com", expected: "http://www.paypal.com"},
		"https":                       {location: "https://www.paypal.com", expected: "https://www.paypal.com"},
		"servlet relative":            {location: "servletRelative:bar", expected: "/springtravel/app/bar"},
		"servlet relative with slash": {location: "servletRelative:/bar", expected: "/springtravel/app/bar"},
		"context relative":            {location: "contextRelative:bar", expected: "/springtravel/bar"},
		"context relative with slash": {location: "contextRelative:/bar", expected: "/springtravel/bar"},
		"server relative":             {location: "serverRelative:bar", expected: "/bar"},
		"server relative with slash":  {location: "serverRelative:/bar", expected: "/bar"},
		"bare path":                   {location: "bar", expected: "/springtravel/app/bar"},
	} {
		t.Run(scenario, func(t *testing.T) {
			f := newAdapterFixture(t)
			f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
			f.flowExecutor.expectLaunch("foo", f.flowInput).
				andDo(func(ec model.ExternalContext) { require.NoError(t, ec.RequestExternalRedirect(tc.location)) }).
				andReturn(model.NewPausedResult("foo", "12345"))

			require.NoError(t, f.handle())
			f.flowExecutor.verify()
			require.Equal(t, tc.expected, f.redirectedUrl())
			require.Equal(t, http.StatusFound, f.response.Code)
		})
	}
}

func TestLaunchFlowWithExternalRedirectNotHttp10Compatible(t *testing.T) {
	f := newAdapterFixture(t)
	f.options = append(f.options, WithRedirectHttp10Compatible(false))
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).
		andDo(func(ec model.ExternalContext) { require.NoError(t, ec.RequestExternalRedirect("serverRelative:/bar")) }).
		andReturn(model.NewPausedResult("foo", "12345"))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, http.StatusSeeOther, f.response.Code)
	require.Equal(t, "/bar", f.response.Header().Get("Location"))
}

func TestDefaultServletExternalRedirect(t *testing.T) {
	for scenario, tc := range map[string]struct {
		servletPath string
		pathInfo    string
		location    string
		expected    string
	}{
		"default servlet mapping": {servletPath: "/foo", location: "/bar", expected: "/springtravel/bar"},
		// some containers leave the servlet path empty and put the rest of the URI in the path info
		"empty servlet path with path info":     {servletPath: "", pathInfo: "/foo", location: "/bar", expected: "/springtravel/bar"},
		"servlet relative with default mapping": {servletPath: "/foo", location: "servletRelative:bar", expected: "/springtravel/foo/bar"},
	} {
		t.Run(scenario, func(t *testing.T) {
			f := newAdapterFixture(t)
			f.setupRequest("/springtravel", tc.servletPath, tc.pathInfo, http.MethodGet, "")
			f.flowExecutor.expectLaunch("foo", f.flowInput).
				andDo(func(ec model.ExternalContext) { require.NoError(t, ec.RequestExternalRedirect(tc.location)) }).
				andReturn(model.NewPausedResult("foo", "12345"))

			require.NoError(t, f.handle())
			f.flowExecutor.verify()
			require.Equal(t, tc.expected, f.redirectedUrl())
		})
	}
}

func TestRemoteHost(t *testing.T) {
	adapter := NewFlowHandlerAdapter(&mockFlowExecutor{t: t})
	require.False(t, adapter.IsRemoteHost("/path"))
	require.True(t, adapter.IsRemoteHost("https://url.somewhere.com"))
	require.True(t, adapter.IsRemoteHost("http://url.somewhereelse.com"))

	adapter = NewFlowHandlerAdapter(&mockFlowExecutor{t: t}, WithHosts("url.somewhere.com"))
	require.False(t, adapter.IsRemoteHost("https://url.somewhere.com"))
	require.False(t, adapter.IsRemoteHost("https://url.somewhere.com:8443/x"))
	require.False(t, adapter.IsRemoteHost("/path"))
	require.True(t, adapter.IsRemoteHost("http://url.somewhereelse.com"))
}

func TestDefaultHandleFlowException(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	flowErr := api.NewFlowError("Error", nil)
	f.flowExecutor.expectLaunch("foo", f.flowInput).andFail(flowErr)

	err := f.handle()
	require.Error(t, err)
	require.Same(t, flowErr, err)
	f.flowExecutor.verify()
	require.Empty(t, f.redirectedUrl())
	require.Len(t, f.flowHandler.exceptions, 1)
}

func TestNonFlowErrorIsNotHandled(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	f.flowHandler.handleException = true
	boom := errors.New("boom")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andFail(boom)

	require.ErrorIs(t, f.handle(), boom)
	require.Empty(t, f.flowHandler.exceptions)
	require.Empty(t, f.redirectedUrl())
}

func TestDefaultHandleNoSuchFlowExecutionException(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "execution=12345")
	f.flowExecutor.expectResume("12345").andFail(&api.NoSuchFlowExecutionError{Key: "12345"})

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "/springtravel/app/foo", f.redirectedUrl())
}

func TestDefaultHandleNoSuchFlowExecutionExceptionAjaxRequest(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "execution=12345")
	f.request.Header.Set("Accept", "text/html;type=ajax")
	f.flowExecutor.expectResume("12345").andFail(&api.NoSuchFlowExecutionError{Key: "12345"})

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "/springtravel/app/foo", f.response.Header().Get(REDIRECT_URL_HEADER))
	require.Equal(t, http.StatusOK, f.response.Code)
}

func TestHandleFlowExceptionCustomFlowHandler(t *testing.T) {
	f := newAdapterFixture(t)
	f.flowHandler.handleException = true
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andFail(api.NewFlowError("Error", nil))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "/springtravel/app/error", f.redirectedUrl())
}

func doHandleFlowServletRedirectOutcome(t *testing.T, f *adapterFixture) {
	f.flowHandler.handleExecutionOutcome = true
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andReturn(model.NewEndedResult("foo", finishOutcome()))
	require.NoError(t, f.handle())
	f.flowExecutor.verify()
}

func TestHandleFlowServletRedirectOutcomeWithoutFlash(t *testing.T) {
	f := newAdapterFixture(t)
	doHandleFlowServletRedirectOutcome(t, f)
	require.Nil(t, f.flashManager.flashMap)
	require.Equal(t, "/springtravel/app/home?bar=baz", f.redirectedUrl())
}

func TestHandleFlowServletRedirectOutcomeWithFlash(t *testing.T) {
	f := newAdapterFixture(t)
	f.options = append(f.options, WithSaveOutputToFlashScopeOnRedirect(true))
	doHandleFlowServletRedirectOutcome(t, f)

	require.NotNil(t, f.flashManager.flashMap)
	bar, ok := f.flashManager.flashMap.Get("bar")
	require.True(t, ok)
	require.Equal(t, "baz", bar)
	require.Equal(t, "/springtravel/app/home", f.flashManager.flashMap.TargetRequestPath)
	require.Equal(t, "/springtravel/app/home", f.redirectedUrl())
}

type remoteOutcomeHandler struct {
	AbstractFlowHandler
}

func (remoteOutcomeHandler) FlowId() string {
	return "foo"
}

func (remoteOutcomeHandler) HandleExecutionOutcome(outcome model.FlowExecutionOutcome, w http.ResponseWriter, r *http.Request) string {
	return "https://www.paypal.com/return"
}

func TestFlashOutputIsNotSavedForRemoteHosts(t *testing.T) {
	executor := &mockFlowExecutor{t: t}
	executor.expectLaunch("foo", nil).andReturn(model.NewEndedResult("foo", finishOutcome()))
	flash := &mockFlashMapManager{}
	adapter := NewFlowHandlerAdapter(executor, WithFlashMapManager(flash), WithSaveOutputToFlashScopeOnRedirect(true))

	r := WithRequestPath(httptest.NewRequest(http.MethodGet, "/springtravel/app/foo", nil), RequestPath{ContextPath: "/springtravel", ServletPath: "/app", PathInfo: "/foo"})
	w := httptest.NewRecorder()
	require.NoError(t, adapter.Handle(w, r, remoteOutcomeHandler{}))
	executor.verify()
	require.Nil(t, flash.flashMap)
	require.Equal(t, "https://www.paypal.com/return?bar=baz", w.Header().Get("Location"))
}

type urlFlowHandler struct {
	AbstractFlowHandler
}

func TestFlowIdAndInputFallBackToRequest(t *testing.T) {
	executor := &mockFlowExecutor{t: t}
	expectedInput := model.NewAttributeMap().Put("a", "1").Put("b", []string{"2", "3"})
	executor.expectLaunch("booking", expectedInput).andReturn(model.NewPausedResult("booking", "e1s1"))
	adapter := NewFlowHandlerAdapter(executor)

	r := WithRequestPath(httptest.NewRequest(http.MethodGet, "/ctx/app/booking?b=2&a=1&b=3", nil), RequestPath{ContextPath: "/ctx", ServletPath: "/app", PathInfo: "/booking"})
	require.NoError(t, adapter.Handle(httptest.NewRecorder(), r, urlFlowHandler{}))
	executor.verify()
}

func TestResolveLocationPathSymmetry(t *testing.T) {
	for _, contextPath := range []string{"", "/springtravel", "/a/b"} {
		for _, segment := range []string{"/foo", "/booking", "/x.htm"} {
			for _, location := range []string{"/bar", "bar", "bar/baz?q=1"} {
				standard := WithRequestPath(httptest.NewRequest(http.MethodGet, "/", nil), RequestPath{ContextPath: contextPath, ServletPath: segment})
				deviation := WithRequestPath(httptest.NewRequest(http.MethodGet, "/", nil), RequestPath{ContextPath: contextPath, PathInfo: segment})
				require.Equal(t, ResolveLocation(location, standard), ResolveLocation(location, deviation), "%s %s %s", contextPath, segment, location)
			}
		}
	}
}

func TestHandlerRespondsWithErrorJson(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/whatever", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andFail(errors.New("storage down"))

	adapter := NewFlowHandlerAdapter(f.flowExecutor)
	adapter.Handler(f.flowHandler).ServeHTTP(f.response, f.request)
	f.flowExecutor.verify()
	require.Equal(t, http.StatusInternalServerError, f.response.Code)
	require.JSONEq(t, `{"error": "storage down"}`, f.response.Body.String())
}

func TestHandlerInlinePausedFlow(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/whatever", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andReturn(model.NewPausedResult("foo", "12345"))

	adapter := NewFlowHandlerAdapter(f.flowExecutor)
	adapter.Handler(f.flowHandler).ServeHTTP(f.response, f.request)
	f.flowExecutor.verify()
	require.Equal(t, http.StatusNoContent, f.response.Code)
}

func TestHandlerKeepsRedirect(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/whatever", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andReturn(model.NewEndedResult("foo", finishOutcome()))

	adapter := NewFlowHandlerAdapter(f.flowExecutor)
	adapter.Handler(f.flowHandler).ServeHTTP(f.response, f.request)
	f.flowExecutor.verify()
	require.Equal(t, http.StatusFound, f.response.Code)
	require.Equal(t, "/springtravel/app/foo?bar=baz", f.redirectedUrl())
}

func TestHandlerAjaxRedirectKeepsStatusOK(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/whatever", http.MethodGet, "")
	f.request.Header.Set("Accept", "text/html;type=ajax")
	f.flowExecutor.expectLaunch("foo", f.flowInput).andReturn(model.NewEndedResult("foo", finishOutcome()))

	adapter := NewFlowHandlerAdapter(f.flowExecutor)
	adapter.Handler(f.flowHandler).ServeHTTP(f.response, f.request)
	f.flowExecutor.verify()
	require.Equal(t, http.StatusOK, f.response.Code)
	require.Equal(t, "/springtravel/app/foo?bar=baz", f.response.Header().Get(REDIRECT_URL_HEADER))
	require.Empty(t, f.redirectedUrl())
}

func TestCommittedResponseSkipsFlashOutput(t *testing.T) {
	f := newAdapterFixture(t)
	f.options = append(f.options, WithSaveOutputToFlashScopeOnRedirect(true))
	f.flowHandler.handleExecutionOutcome = true
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).
		andDo(func(ec model.ExternalContext) { ec.RecordResponseComplete() }).
		andReturn(model.NewEndedResult("foo", finishOutcome()))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Nil(t, f.flashManager.flashMap)
	require.Empty(t, f.redirectedUrl())
}

func TestExternalRedirectIgnoresHostAllowList(t *testing.T) {
	f := newAdapterFixture(t)
	f.options = append(f.options, WithHosts("url.somewhere.com"))
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).
		andDo(func(ec model.ExternalContext) {
			require.NoError(t, ec.RequestExternalRedirect("https://www.paypal.com"))
		}).
		andReturn(model.NewPausedResult("foo", "12345"))

	require.NoError(t, f.handle())
	f.flowExecutor.verify()
	require.Equal(t, "https://www.paypal.com", f.redirectedUrl())
	require.Equal(t, http.StatusFound, f.response.Code)
}

func TestHandlerForwardsFlush(t *testing.T) {
	f := newAdapterFixture(t)
	f.setupRequest("/springtravel", "/app", "/foo", http.MethodGet, "")
	f.flowExecutor.expectLaunch("foo", f.flowInput).
		andDo(func(ec model.ExternalContext) {
			flusher, ok := ec.Response().(http.Flusher)
			require.True(t, ok)
			flusher.Flush()
			ec.RecordResponseComplete()
		}).
		andReturn(model.NewPausedResult("foo", "12345"))

	adapter := NewFlowHandlerAdapter(f.flowExecutor)
	adapter.Handler(f.flowHandler).ServeHTTP(f.response, f.request)
	f.flowExecutor.verify()
	require.True(t, f.response.Flushed)
	require.Equal(t, http.StatusOK, f.response.Code)
}
