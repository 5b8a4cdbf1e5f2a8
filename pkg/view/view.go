package view

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"maps"
	"regexp"
	"strings"
)

var (
	ErrNoTemplates  = errors.New("view: no template file system configured")
	ErrViewNotFound = errors.New("view: template not found")
	ErrRender       = errors.New("view: render failed")
)

// RouteFunc builds the URL of a named route.
type RouteFunc func(name string, params map[string]string) (string, error)

// Option configures a View.
type Option func(*View)

// WithLayout sets the layout template used by Render. Default "layout".
func WithLayout(name string) Option {
	return func(v *View) {
		if name != "" {
			v.layout = name
		}
	}
}

// WithExtension sets the file extension appended to template names. Default ".html".
func WithExtension(ext string) Option {
	return func(v *View) {
		v.ext = ext
	}
}

// WithRouteFunc exposes fn to templates as {{route "name" "key" "value"}}.
func WithRouteFunc(fn RouteFunc) Option {
	return func(v *View) {
		v.route = fn
	}
}

// WithFuncs adds template functions.
func WithFuncs(funcs template.FuncMap) Option {
	return func(v *View) {
		maps.Copy(v.funcs, funcs)
	}
}

// View renders templates from a file system, optionally inside a layout.
type View struct {
	fsys   fs.FS
	route  RouteFunc
	funcs  template.FuncMap
	params map[string]any
	layout string
	ext    string
	title  string
	cache  *Cache
}

// New creates a view over the templates in fsys.
func New(fsys fs.FS, opts ...Option) *View {
	v := &View{
		fsys:   fsys,
		funcs:  template.FuncMap{},
		params: map[string]any{},
		layout: "layout",
		ext:    ".html",
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *View) SetTitle(title string) { v.title = title }
func (v *View) Title() string         { return v.title }

// SetParam sets a value available to every template rendered by v.
func (v *View) SetParam(key string, value any) { v.params[key] = value }

func (v *View) Param(key string) (any, bool) {
	val, ok := v.params[key]
	return val, ok
}

// RenderPart renders one template without the layout.
func (v *View) RenderPart(name string, data map[string]any) (string, error) {
	return v.RenderFile(v.file(name), data)
}

// Render renders name and places the result into the layout as .Content.
func (v *View) Render(name string, data map[string]any) (string, error) {
	content, err := v.RenderPart(name, data)
	if err != nil {
		return "", err
	}

	layoutData := maps.Clone(data)
	if layoutData == nil {
		layoutData = map[string]any{}
	}
	layoutData["Content"] = template.HTML(content)
	return v.RenderFile(v.file(v.layout), layoutData)
}

// RenderFile renders the template at file, a path inside the file system.
func (v *View) RenderFile(file string, data map[string]any) (string, error) {
	if v.fsys == nil {
		return "", ErrNoTemplates
	}

	tmpl, err := v.template(file)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v.data(data)); err != nil {
		return "", errors.Join(ErrRender, err)
	}
	return buf.String(), nil
}

// template parses file, or clones the cached parse and rebinds the
// functions of this view to it.
func (v *View) template(file string) (*template.Template, error) {
	funcs := v.templateFuncs()
	if v.cache == nil {
		return parse(v.fsys, file, funcs)
	}

	cached, err := v.cache.load(v.fsys, file, funcs)
	if err != nil {
		return nil, err
	}
	tmpl, err := cached.Clone()
	if err != nil {
		return nil, errors.Join(ErrRender, err)
	}
	return tmpl.Funcs(funcs), nil
}

func (v *View) file(name string) string {
	if v.ext != "" && !strings.HasSuffix(name, v.ext) {
		return name + v.ext
	}
	return name
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// data merges view params, the title and data. Keys that are not
// identifiers are dropped since templates cannot address them.
func (v *View) data(data map[string]any) map[string]any {
	out := make(map[string]any, len(v.params)+len(data)+1)
	for k, val := range v.params {
		if identRe.MatchString(k) {
			out[k] = val
		}
	}
	for k, val := range data {
		if identRe.MatchString(k) {
			out[k] = val
		}
	}
	if _, ok := out["Title"]; !ok {
		out["Title"] = v.title
	}
	return out
}

func (v *View) templateFuncs() template.FuncMap {
	funcs := maps.Clone(v.funcs)
	if _, ok := funcs["markdown"]; !ok {
		funcs["markdown"] = Markdown
	}
	funcs["route"] = func(name string, pairs ...string) (string, error) {
		if v.route == nil {
			return "", errors.New("view: no route function configured")
		}
		params := make(map[string]string, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			params[pairs[i]] = pairs[i+1]
		}
		return v.route(name, params)
	}
	return funcs
}
