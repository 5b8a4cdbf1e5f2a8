package record

import "fmt"

// List is a query result keyed by primary key, in result order.
type List[T any] struct {
	keys  []string
	items map[string]*T
}

func newList[T any](n int) *List[T] {
	return &List[T]{
		keys:  make([]string, 0, n),
		items: make(map[string]*T, n),
	}
}

// put appends rec under key. A repeated key keeps its first position.
func (l *List[T]) put(key any, rec *T) {
	k := fmt.Sprint(key)
	if _, ok := l.items[k]; !ok {
		l.keys = append(l.keys, k)
	}
	l.items[k] = rec
}

// Keys returns the primary keys in result order, formatted as strings.
func (l *List[T]) Keys() []string {
	return append([]string(nil), l.keys...)
}

// Get returns the record with the given primary key.
func (l *List[T]) Get(key any) (*T, bool) {
	rec, ok := l.items[fmt.Sprint(key)]
	return rec, ok
}

// Items returns the records in result order.
func (l *List[T]) Items() []*T {
	out := make([]*T, 0, len(l.keys))
	for _, k := range l.keys {
		out = append(out, l.items[k])
	}
	return out
}

func (l *List[T]) Len() int { return len(l.keys) }

// First returns the first record, or nil if the list is empty.
func (l *List[T]) First() *T {
	if len(l.keys) == 0 {
		return nil
	}
	return l.items[l.keys[0]]
}
