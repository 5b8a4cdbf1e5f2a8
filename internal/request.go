package internal

import (
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Request parameter keys.
const (
	APIKey        = "api"
	APIVersionKey = "version"
	ControllerKey = "controller"
	ActionKey     = "action"
)

// Request holds the parsed input of one run.
// Get is the superset used for controller and action resolution:
// matched route parameters are folded into it.
type Request struct {
	Get    map[string]string
	Post   map[string]string
	Route  map[string]string
	Method string
	URI    string
	Path   string
	Ajax   bool
}

// NewRequest returns an empty request with initialized maps.
func NewRequest() *Request {
	return &Request{
		Get:   map[string]string{},
		Post:  map[string]string{},
		Route: map[string]string{},
	}
}

// GetParam returns the GET-equivalent value under key.
func (r *Request) GetParam(key string) (string, bool) {
	v, ok := r.Get[key]
	return v, ok
}

// PostParam returns the POST-equivalent value under key.
func (r *Request) PostParam(key string) (string, bool) {
	v, ok := r.Post[key]
	return v, ok
}

// foldRoute stores route params and merges them into Get.
func (r *Request) foldRoute(params map[string]string) {
	r.Route = maps.Clone(params)
	if r.Route == nil {
		r.Route = map[string]string{}
	}
	maps.Copy(r.Get, params)
}

func (r *Request) is(method string) bool {
	return strings.EqualFold(r.Method, method)
}

func (r *Request) IsGet() bool     { return r.is(http.MethodGet) }
func (r *Request) IsPost() bool    { return r.is(http.MethodPost) }
func (r *Request) IsPut() bool     { return r.is(http.MethodPut) }
func (r *Request) IsPatch() bool   { return r.is(http.MethodPatch) }
func (r *Request) IsDelete() bool  { return r.is(http.MethodDelete) }
func (r *Request) IsHead() bool    { return r.is(http.MethodHead) }
func (r *Request) IsOptions() bool { return r.is(http.MethodOptions) }
func (r *Request) IsAjax() bool    { return r.Ajax }

// QueryURL builds a query-string URL addressing controller and action.
// Extra params are appended in key order.
func QueryURL(controller, action string, params map[string]string) string {
	var b strings.Builder
	b.WriteString("?")
	b.WriteString(ControllerKey + "=" + url.QueryEscape(controller))
	b.WriteString("&" + ActionKey + "=" + url.QueryEscape(action))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		if k == ControllerKey || k == ActionKey {
			continue
		}
		b.WriteString("&" + url.QueryEscape(k) + "=" + url.QueryEscape(params[k]))
	}
	return b.String()
}

// flattenValues keeps the first value of each key.
func flattenValues(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}
