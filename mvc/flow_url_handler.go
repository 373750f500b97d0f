package mvc

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mohitkumar/flowmvc/model"
)

const EXECUTION_PARAM = "execution"

// FlowUrlHandler extracts flow request information from a request and builds
// the URLs that launch and resume flows.
type FlowUrlHandler interface {
	FlowExecutionKey(r *http.Request) string
	FlowId(r *http.Request) string
	CreateFlowExecutionUrl(flowId string, flowExecutionKey string, r *http.Request) string
	CreateFlowDefinitionUrl(flowId string, input *model.AttributeMap, r *http.Request) string
}

var _ FlowUrlHandler = new(DefaultFlowUrlHandler)

// DefaultFlowUrlHandler expects flow URLs of the form <context><servlet>/<flowId> and
// carries the execution key in the "execution" request parameter.
type DefaultFlowUrlHandler struct{}

func (h *DefaultFlowUrlHandler) FlowExecutionKey(r *http.Request) string {
	return r.FormValue(EXECUTION_PARAM)
}

func (h *DefaultFlowUrlHandler) FlowId(r *http.Request) string {
	path := RequestPathOf(r)
	if path.PathInfo != "" {
		return strings.TrimPrefix(path.PathInfo, "/")
	}
	servletPath := strings.TrimPrefix(path.ServletPath, "/")
	if dot := strings.LastIndex(servletPath, "."); dot != -1 {
		return servletPath[:dot]
	}
	return servletPath
}

func (h *DefaultFlowUrlHandler) CreateFlowExecutionUrl(flowId string, flowExecutionKey string, r *http.Request) string {
	return RequestPathOf(r).URI() + "?" + EXECUTION_PARAM + "=" + url.QueryEscape(flowExecutionKey)
}

func (h *DefaultFlowUrlHandler) CreateFlowDefinitionUrl(flowId string, input *model.AttributeMap, r *http.Request) string {
	return AppendQueryParameters(RequestPathOf(r).Base()+"/"+flowId, input)
}

// AppendQueryParameters appends params to target in map order. Slice values repeat
// the parameter once per element.
func AppendQueryParameters(target string, params *model.AttributeMap) string {
	if params.Len() == 0 {
		return target
	}
	var pairs []string
	params.Each(func(name string, value any) {
		for _, v := range queryValues(value) {
			pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(v))
		}
	})
	if len(pairs) == 0 {
		return target
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + strings.Join(pairs, "&")
}

func queryValues(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{""}
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		res := make([]string, 0, len(v))
		for _, e := range v {
			res = append(res, fmt.Sprintf("%v", e))
		}
		return res
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}
