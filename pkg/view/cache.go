package view

import (
	"errors"
	"html/template"
	"io/fs"
	"path"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache keeps parsed templates so they are read and parsed once per file.
// Share one Cache between the Views of a single file system.
type Cache struct {
	items map[string]*template.Template
	group singleflight.Group
	mu    sync.RWMutex
}

// NewCache creates an empty template cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*template.Template)}
}

// WithCache makes the view reuse templates parsed through c.
func WithCache(c *Cache) Option {
	return func(v *View) {
		v.cache = c
	}
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Reset drops every cached template.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
}

// load returns the parsed template for file. Concurrent misses on the
// same file share one parse.
func (c *Cache) load(fsys fs.FS, file string, funcs template.FuncMap) (*template.Template, error) {
	c.mu.RLock()
	tmpl, ok := c.items[file]
	c.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	v, err, _ := c.group.Do(file, func() (any, error) {
		tmpl, err := parse(fsys, file, funcs)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[file] = tmpl
		c.mu.Unlock()
		return tmpl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

func parse(fsys fs.FS, file string, funcs template.FuncMap) (*template.Template, error) {
	if _, err := fs.Stat(fsys, file); err != nil {
		return nil, errors.Join(ErrViewNotFound, err)
	}
	tmpl, err := template.New(path.Base(file)).Funcs(funcs).ParseFS(fsys, file)
	if err != nil {
		return nil, errors.Join(ErrRender, err)
	}
	return tmpl, nil
}
