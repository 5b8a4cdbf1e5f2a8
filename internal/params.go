package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Parameter keys understood by the dispatch engine.
const (
	KeyCleanURL                   = "isCleanUrlApply"
	KeyWebControllerNamespace     = "webControllerNameSpace"
	KeyConsoleControllerNamespace = "consoleControllerNameSpace"
	KeyDefaultControllerName      = "defaultControllerName"
	KeyDefaultActionName          = "defaultActionName"
	KeyExceptionControllerName    = "exceptionControllerName"
	KeyExceptionActionName        = "exceptionMethodName"
	KeyAPINamespace               = "apiNameSpace"
	KeyAPIControllerNamespace     = "apiControllerNameSpace"
	KeyAPIExceptionNamespace      = "apiExceptionControllerNameSpace"
	KeyRoutes                     = "routes"
	KeyLogger                     = "callableLogger"
)

var ErrInvalidParams = errors.New("viewcontroller: invalid params document")

type notSet struct{}

func (notSet) String() string { return "<not set>" }

// NotSet is returned by Params.Get for keys that have no value.
var NotSet any = notSet{}

// DefaultParams returns the built-in parameter values.
func DefaultParams() map[string]any {
	return map[string]any{
		KeyCleanURL:                   false,
		KeyWebControllerNamespace:     `\app\controller\`,
		KeyConsoleControllerNamespace: `\admin\console\`,
		KeyDefaultControllerName:      "Index",
		KeyDefaultActionName:          "index",
		KeyExceptionControllerName:    "Exception",
		KeyExceptionActionName:        "handle",
		KeyAPINamespace:               `\app\api\`,
		KeyAPIControllerNamespace:     `\controller\`,
		KeyAPIExceptionNamespace:      `\app\api\`,
		KeyRoutes:                     []Route{},
	}
}

// Params is an immutable key/value store of application settings.
type Params struct {
	values map[string]any
}

// NewParams merges overrides over DefaultParams.
// Nested maps are merged key by key; everything else is replaced.
func NewParams(overrides map[string]any) *Params {
	return &Params{values: mergeParams(DefaultParams(), overrides)}
}

func mergeParams(dst, src map[string]any) map[string]any {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		if cur, ok := dst[k].(map[string]any); ok {
			dst[k] = mergeParams(maps.Clone(cur), sub)
			continue
		}
		dst[k] = mergeParams(map[string]any{}, sub)
	}
	return dst
}

// Get returns the value stored under key or NotSet.
func (p *Params) Get(key string) any {
	if v, ok := p.values[key]; ok {
		return v
	}
	return NotSet
}

// Lookup returns the value stored under key and whether it was set.
func (p *Params) Lookup(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key holds a value.
func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// String returns the value under key formatted as a string.
// Unset keys yield an empty string.
func (p *Params) String(key string) string {
	switch v := p.Get(key).(type) {
	case notSet:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the value under key as a boolean.
func (p *Params) Bool(key string) bool {
	switch v := p.Get(key).(type) {
	case bool:
		return v
	case string:
		return v == "1" || v == "true" || v == "on" || v == "yes"
	case int:
		return v != 0
	default:
		return false
	}
}

// Routes returns the configured route table.
func (p *Params) Routes() []Route {
	switch v := p.Get(KeyRoutes).(type) {
	case []Route:
		return v
	case []*Route:
		routes := make([]Route, 0, len(v))
		for _, r := range v {
			if r != nil {
				routes = append(routes, *r)
			}
		}
		return routes
	default:
		return nil
	}
}

// All returns a copy of every parameter.
func (p *Params) All() map[string]any {
	return maps.Clone(p.values)
}

// LoadParams decodes a YAML params document.
// Route entries are decoded into Route values so they can be passed straight to NewParams.
func LoadParams(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidParams, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrInvalidParams, err)
	}

	if _, ok := raw[KeyRoutes]; ok {
		var doc struct {
			Routes []Route `yaml:"routes"`
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(false)
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Join(ErrInvalidParams, err)
		}
		raw[KeyRoutes] = doc.Routes
	}

	return raw, nil
}

// LoadParamsFile reads a YAML params document from disk.
func LoadParamsFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidParams, err)
	}
	defer f.Close()

	return LoadParams(f)
}
