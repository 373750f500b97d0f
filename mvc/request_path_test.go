package mvc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitRequestPath(t *testing.T) {
	for scenario, tc := range map[string]struct {
		path        string
		contextPath string
		servletPath string
		expected    RequestPath
	}{
		"mapped servlet":     {path: "/springtravel/app/foo", contextPath: "/springtravel", servletPath: "/app", expected: RequestPath{ContextPath: "/springtravel", ServletPath: "/app", PathInfo: "/foo"}},
		"servlet only":       {path: "/springtravel/app", contextPath: "/springtravel", servletPath: "/app", expected: RequestPath{ContextPath: "/springtravel", ServletPath: "/app"}},
		"default mapping":    {path: "/springtravel/foo", contextPath: "/springtravel", servletPath: "", expected: RequestPath{ContextPath: "/springtravel", ServletPath: "/foo"}},
		"no context path":    {path: "/app/foo", servletPath: "/app", expected: RequestPath{ServletPath: "/app", PathInfo: "/foo"}},
		"outside servlet":    {path: "/springtravel/other", contextPath: "/springtravel", servletPath: "/app", expected: RequestPath{ContextPath: "/springtravel", ServletPath: "/other"}},
		"prefix not segment": {path: "/springtravel/application/x", contextPath: "/springtravel", servletPath: "/app", expected: RequestPath{ContextPath: "/springtravel", ServletPath: "/application/x"}},
	} {
		t.Run(scenario, func(t *testing.T) {
			require.Equal(t, tc.expected, SplitRequestPath(tc.path, tc.contextPath, tc.servletPath))
		})
	}
}

func TestPathMiddleware(t *testing.T) {
	var seen RequestPath
	handler := PathMiddleware("/springtravel", "/app")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestPathOf(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/springtravel/app/foo?x=1", nil))
	require.Equal(t, RequestPath{ContextPath: "/springtravel", ServletPath: "/app", PathInfo: "/foo"}, seen)
	require.Equal(t, "/springtravel/app", seen.Base())
	require.Equal(t, "/springtravel/app/foo", seen.URI())
}

func TestRequestPathFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/foo/bar", nil)
	require.Equal(t, RequestPath{PathInfo: "/foo/bar"}, RequestPathOf(r))
}
