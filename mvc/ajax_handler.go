package mvc

import (
	"net/http"
	"strings"
)

const (
	AJAX_ACCEPT_CONTENT_TYPE = "text/html;type=ajax"
	AJAX_SOURCE_PARAM        = "ajaxSource"
	REDIRECT_URL_HEADER      = "Spring-Redirect-URL"
	POPUP_VIEW_HEADER        = "Spring-Modal-View"
)

// AjaxHandler detects requests issued by a client side script and tells such
// clients where to go next without a real HTTP redirect.
type AjaxHandler interface {
	IsAjaxRequest(r *http.Request) bool
	SendAjaxRedirect(targetUrl string, w http.ResponseWriter, r *http.Request, popup bool)
}

var _ AjaxHandler = new(JavascriptAjaxHandler)

type JavascriptAjaxHandler struct{}

func (h *JavascriptAjaxHandler) IsAjaxRequest(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), AJAX_ACCEPT_CONTENT_TYPE) {
		return true
	}
	return r.FormValue(AJAX_SOURCE_PARAM) != ""
}

// SendAjaxRedirect leaves the status untouched, the client script reads the header.
func (h *JavascriptAjaxHandler) SendAjaxRedirect(targetUrl string, w http.ResponseWriter, r *http.Request, popup bool) {
	if popup {
		w.Header().Set(POPUP_VIEW_HEADER, "true")
	}
	w.Header().Set(REDIRECT_URL_HEADER, targetUrl)
}
