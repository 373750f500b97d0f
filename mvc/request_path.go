package mvc

import (
	"context"
	"net/http"
	"strings"
)

// RequestPath splits a request path the way a servlet container does: the context
// path the application is mounted under, the path the flow dispatcher is mapped to and
// the remainder. An empty PathInfo means the request carried no path info.
type RequestPath struct {
	ContextPath string
	ServletPath string
	PathInfo    string
}

// Base is the context path followed by the servlet path.
func (p RequestPath) Base() string {
	return p.ContextPath + p.ServletPath
}

func (p RequestPath) URI() string {
	return p.ContextPath + p.ServletPath + p.PathInfo
}

type requestPathKey struct{}

func WithRequestPath(r *http.Request, path RequestPath) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), requestPathKey{}, path))
}

// RequestPathOf returns the path recorded by PathMiddleware or WithRequestPath. Requests
// that went through neither are treated as mapped at the root with the whole URL path
// as path info.
func RequestPathOf(r *http.Request) RequestPath {
	if p, ok := r.Context().Value(requestPathKey{}).(RequestPath); ok {
		return p
	}
	return RequestPath{PathInfo: r.URL.Path}
}

// SplitRequestPath maps path onto contextPath and servletPath. An empty servletPath is
// the default mapping: everything after the context path is the servlet path.
func SplitRequestPath(path string, contextPath string, servletPath string) RequestPath {
	contextPath = strings.TrimSuffix(contextPath, "/")
	servletPath = strings.TrimSuffix(servletPath, "/")
	rest := path
	if contextPath != "" && (path == contextPath || strings.HasPrefix(path, contextPath+"/")) {
		rest = path[len(contextPath):]
	} else {
		contextPath = ""
	}
	if servletPath != "" && (rest == servletPath || strings.HasPrefix(rest, servletPath+"/")) {
		return RequestPath{ContextPath: contextPath, ServletPath: servletPath, PathInfo: rest[len(servletPath):]}
	}
	return RequestPath{ContextPath: contextPath, ServletPath: rest}
}

func PathMiddleware(contextPath string, servletPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := SplitRequestPath(r.URL.Path, contextPath, servletPath)
			next.ServeHTTP(w, WithRequestPath(r, path))
		})
	}
}
