package internal

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ControllerSuffix is appended to every controller name.
const ControllerSuffix = "Controller"

// Descriptor identifies the controller and action of a run.
type Descriptor struct {
	Namespace string
	ShortName string
	Action    string
}

// NewDescriptor derives a descriptor from a controller name without suffix.
func NewDescriptor(namespace, controller, action string) Descriptor {
	return Descriptor{
		Namespace: namespace,
		ShortName: controller + ControllerSuffix,
		Action:    action,
	}
}

// ClassName is the fully qualified controller name.
func (d Descriptor) ClassName() string {
	return d.Namespace + d.ShortName
}

func (d Descriptor) String() string {
	return d.ClassName() + "::" + d.Action
}

const initMethod = "Init"

// Initializer is implemented by controllers that need setup after construction.
type Initializer interface {
	Init() error
}

type controllerEntry struct {
	typ     reflect.Type
	factory func(Host) any
}

// Registry resolves controller class names to factories.
// Controllers are registered by type; instances are only built on dispatch.
type Registry struct {
	entries map[string]controllerEntry
	mu      sync.RWMutex
}

// NewRegistry creates an empty controller registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]controllerEntry)}
}

// Register binds className to a controller factory.
// T is usually a pointer to the controller struct.
func Register[T any](r *Registry, className string, factory func(Host) T) {
	if factory == nil {
		panic("viewcontroller: nil controller factory for " + className)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[className] = controllerEntry{
		typ:     reflect.TypeFor[T](),
		factory: func(h Host) any { return factory(h) },
	}
}

// Has reports whether className is registered.
func (r *Registry) Has(className string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[className]
	return ok
}

// Names returns the registered class names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes className.
func (r *Registry) Unregister(className string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, className)
}

// HasAction reports whether the controller registered under className
// exposes action as an invocable member. Nothing is instantiated.
func (r *Registry) HasAction(className, action string) bool {
	r.mu.RLock()
	entry, ok := r.entries[className]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	m, ok := lookupAction(entry.typ, action)
	if !ok {
		return false
	}
	return validActionType(m.Type, entry.typ.Kind() != reflect.Interface) == nil
}

// Actions lists the action method names of className.
func (r *Registry) Actions(className string) []string {
	r.mu.RLock()
	entry, ok := r.entries[className]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	withReceiver := entry.typ.Kind() != reflect.Interface
	var names []string
	for i := range entry.typ.NumMethod() {
		m := entry.typ.Method(i)
		if m.Name != initMethod && validActionType(m.Type, withReceiver) == nil {
			names = append(names, m.Name)
		}
	}
	return slices.Clip(names)
}

func (r *Registry) create(className string, h Host) (any, error) {
	r.mu.RLock()
	entry, ok := r.entries[className]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, className)
	}
	return entry.factory(h), nil
}

// ActionMethodName maps an action name to its Go method name.
func ActionMethodName(action string) string {
	return cases.Title(language.Und, cases.NoLower).String(action)
}

// lookupAction finds the method backing action on t. An exact match on the
// title-cased name wins; otherwise names are compared case-insensitively.
func lookupAction(t reflect.Type, action string) (reflect.Method, bool) {
	name := ActionMethodName(action)
	if strings.EqualFold(name, initMethod) {
		return reflect.Method{}, false
	}
	if m, ok := t.MethodByName(name); ok {
		return m, true
	}
	for i := range t.NumMethod() {
		if m := t.Method(i); strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return reflect.Method{}, false
}

var errorType = reflect.TypeFor[error]()

// validActionType accepts func(), func() error, func() T and func() (T, error).
func validActionType(t reflect.Type, withReceiver bool) error {
	in := 0
	if withReceiver {
		in = 1
	}
	if t.NumIn() != in || t.IsVariadic() {
		return ErrInvalidAction
	}
	switch t.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if t.Out(1) == errorType {
			return nil
		}
	}
	return ErrInvalidAction
}

// invokeAction calls the action method on controller.
func invokeAction(controller any, action string) (any, error) {
	rv := reflect.ValueOf(controller)
	if !rv.IsValid() {
		return nil, ErrActionNotFound
	}
	meth, ok := lookupAction(rv.Type(), action)
	if !ok {
		return nil, ErrActionNotFound
	}
	m := rv.Method(meth.Index)
	if err := validActionType(m.Type(), false); err != nil {
		return nil, err
	}

	out := m.Call(nil)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if m.Type().Out(0) == errorType {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		return out[0].Interface(), asError(out[1])
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}
