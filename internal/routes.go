package internal

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
)

// RouteHandler turns matched URL placeholders into request parameters.
type RouteHandler func(params RouteParams) map[string]string

// Route is one entry of the route table.
type Route struct {
	// Pattern is a path template with typed placeholders, e.g. /post/{id:[0-9]+}.
	Pattern string `yaml:"urlPattern"`

	// Method is one or more verbs separated by "|", e.g. "GET|POST".
	Method string `yaml:"method"`

	// Name is the reverse-routing key.
	Name string `yaml:"name"`

	// Handler resolves the parameters of a match. When nil, the match
	// yields Defaults overlaid by the URL placeholders.
	Handler RouteHandler `yaml:"-"`

	// Defaults are static parameters of the route.
	Defaults map[string]string `yaml:"defaults"`
}

// RouteParams are the placeholder values of a match in pattern order.
type RouteParams struct {
	Keys   []string
	Values []string
}

// Get returns the value of placeholder key.
func (p RouteParams) Get(key string) string {
	for i, k := range p.Keys {
		if k == key {
			return p.Values[i]
		}
	}
	return ""
}

// Map returns the placeholders as a map.
func (p RouteParams) Map() map[string]string {
	m := make(map[string]string, len(p.Keys))
	for i, k := range p.Keys {
		m[k] = p.Values[i]
	}
	return m
}

// RouteMatch is the outcome of a successful Match.
type RouteMatch struct {
	Route  *Route
	Params RouteParams
}

// Resolve runs the route handler and returns the request parameters.
func (m RouteMatch) Resolve() map[string]string {
	if m.Route.Handler != nil {
		return m.Route.Handler(m.Params)
	}
	out := maps.Clone(m.Route.Defaults)
	if out == nil {
		out = map[string]string{}
	}
	maps.Copy(out, m.Params.Map())
	return out
}

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
	http.MethodConnect: true,
	http.MethodTrace:   true,
}

type matchSlot struct {
	match *RouteMatch
}

type matchSlotKey struct{}

// Router matches request lines against a route table.
type Router struct {
	mux    *chi.Mux
	routes []*Route
	named  map[string]*Route
}

// NewRouter maps the route table onto a path matcher.
func NewRouter(routes []Route) (r *Router, err error) {
	r = &Router{
		mux:   chi.NewRouter(),
		named: make(map[string]*Route),
	}

	// chi panics on malformed patterns.
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("%w: %v", ErrInvalidRoute, rec)
		}
	}()

	routes = slices.Clone(routes)
	seen := make(map[string]bool)
	for i := range routes {
		route := &routes[i]
		if !strings.HasPrefix(route.Pattern, "/") {
			return nil, fmt.Errorf("%w: pattern %q must start with /", ErrInvalidRoute, route.Pattern)
		}

		methods, err := splitMethods(route.Method)
		if err != nil {
			return nil, err
		}

		for _, m := range methods {
			key := m + " " + route.Pattern
			if seen[key] {
				continue
			}
			seen[key] = true
			r.mux.MethodFunc(m, route.Pattern, captureMatch(route))
		}

		r.routes = append(r.routes, route)
		if route.Name != "" {
			if _, dup := r.named[route.Name]; !dup {
				r.named[route.Name] = route
			}
		}
	}

	return r, nil
}

func splitMethods(list string) ([]string, error) {
	var methods []string
	for _, m := range strings.Split(list, "|") {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if !supportedMethods[m] {
			return nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidRoute, m)
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: no method declared", ErrInvalidRoute)
	}
	return methods, nil
}

func captureMatch(route *Route) http.HandlerFunc {
	return func(_ http.ResponseWriter, req *http.Request) {
		slot, ok := req.Context().Value(matchSlotKey{}).(*matchSlot)
		if !ok {
			return
		}

		var params RouteParams
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			params.Keys = append(params.Keys, rctx.URLParams.Keys...)
			params.Values = append(params.Values, rctx.URLParams.Values...)
		}
		slot.match = &RouteMatch{Route: route, Params: params}
	}
}

// Match finds the route for method and path.
func (r *Router) Match(ctx context.Context, method, path string) (RouteMatch, bool) {
	if path == "" {
		path = "/"
	}

	// A fresh route context keeps an enclosing chi router's state out of the match.
	slot := &matchSlot{}
	ctx = context.WithValue(ctx, matchSlotKey{}, slot)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, chi.NewRouteContext())
	req, err := http.NewRequestWithContext(ctx, method, "/", nil)
	if err != nil {
		return RouteMatch{}, false
	}
	req.URL.Path = path

	r.mux.ServeHTTP(discardWriter{}, req)
	if slot.match == nil {
		return RouteMatch{}, false
	}
	return *slot.match, true
}

// Routes returns the mapped routes in declaration order.
func (r *Router) Routes() []*Route {
	return r.routes
}

var placeholderRe = regexp.MustCompile(`\{([^}:]+)(:[^}]*)?\}`)

// URL builds the path of the named route.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	route, ok := r.named[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}

	var missing string
	path := placeholderRe.ReplaceAllStringFunc(route.Pattern, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := params[key]
		if !ok && missing == "" {
			missing = key
		}
		return url.PathEscape(v)
	})
	if missing != "" {
		return "", fmt.Errorf("%w: %s in route %s", ErrMissingRouteParam, missing, name)
	}

	if strings.HasSuffix(path, "*") {
		path = strings.TrimSuffix(path, "*") + params["*"]
	}
	return path, nil
}

type discardWriter struct{}

func (discardWriter) Header() http.Header         { return http.Header{} }
func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }
func (discardWriter) WriteHeader(int)             {}
