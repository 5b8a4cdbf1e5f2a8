package record

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ListParams are raw SQL fragments for List. They are spliced into the
// query as given; callers must not pass untrusted input. Values for
// placeholders inside the fragments go in Args.
type ListParams struct {
	Fields string
	Join   string
	Where  string
	Group  string
	Having string
	Order  string
	Limit  string
	Offset string
	Args   []any
}

// BeforeInserter is called by Insert before the statement is built.
type BeforeInserter interface {
	BeforeInsert(ctx context.Context, conn *Conn) error
}

// BeforeUpdater is called by Update, and by UpdateFields unless disabled.
type BeforeUpdater interface {
	BeforeUpdate(ctx context.Context, conn *Conn) error
}

// BeforeDeleter is called by Delete.
type BeforeDeleter interface {
	BeforeDelete(ctx context.Context, conn *Conn) error
}

// Mapper maps records of type T to rows of one table.
// Every read issues a fresh query; nothing is cached.
type Mapper[T any] struct {
	reg  *Registry
	meta *meta
}

// For builds the mapper for T. T must be a struct whose value or pointer
// implements Record.
func For[T any](reg *Registry) (*Mapper[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrNotARecord, typ)
	}

	var zero T
	rec, ok := any(&zero).(Record)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotARecord, typ)
	}

	m, err := newMeta(typ, rec.Schema())
	if err != nil {
		return nil, err
	}
	return &Mapper[T]{reg: reg, meta: m}, nil
}

// MustFor is like For but panics on error.
func MustFor[T any](reg *Registry) *Mapper[T] {
	m, err := For[T](reg)
	if err != nil {
		panic(err)
	}
	return m
}

// Table returns the table name.
func (m *Mapper[T]) Table() string { return m.meta.table }

// PrimaryKeyName returns the primary key column.
func (m *Mapper[T]) PrimaryKeyName() string { return m.meta.pk }

// Attributes returns the declared attributes in order.
func (m *Mapper[T]) Attributes() []Attribute { return slices.Clone(m.meta.attrs) }

// Label returns the label of column, or "" if it is not declared.
func (m *Mapper[T]) Label(column string) string { return m.meta.label(column) }

// New returns an empty record.
func (m *Mapper[T]) New() *T { return new(T) }

// PrimaryKey returns the record's key, or nil while it is unset.
func (m *Mapper[T]) PrimaryKey(rec *T) any {
	f, _ := m.meta.field(reflect.ValueOf(rec).Elem(), m.meta.pk)
	return keyValue(f)
}

// IsNew reports whether the record has no primary key yet.
func (m *Mapper[T]) IsNew(rec *T) bool {
	return m.PrimaryKey(rec) == nil
}

// Hydrate builds a record from a row map. Unmapped columns are ignored.
func (m *Mapper[T]) Hydrate(row map[string]any) (*T, error) {
	rec := new(T)
	v := reflect.ValueOf(rec).Elem()
	for col, val := range row {
		f, ok := m.meta.field(v, col)
		if !ok {
			continue
		}
		if err := assign(f, val); err != nil {
			return nil, fmt.Errorf("record: column %q: %w", col, err)
		}
	}
	return rec, nil
}

// Primary loads the record with the given key, or nil if there is none.
func (m *Mapper[T]) Primary(ctx context.Context, key any) (*T, error) {
	conn, err := m.reg.Connection()
	if err != nil {
		return nil, err
	}
	d := conn.Dialect()
	st := &statement{d: d}
	q := "SELECT * FROM " + d.Quote(m.meta.table) +
		" WHERE " + d.Quote(m.meta.pk) + " = " + st.bind("pk", key)

	row, err := conn.Fetch(ctx, q, st.args...)
	if err != nil || row == nil {
		return nil, err
	}
	return m.Hydrate(row)
}

// List runs a select assembled from p and returns the rows keyed by
// primary key in result order.
func (m *Mapper[T]) List(ctx context.Context, p ListParams) (*List[T], error) {
	conn, err := m.reg.Connection()
	if err != nil {
		return nil, err
	}

	rows, err := conn.FetchAll(ctx, m.selectSQL(conn.Dialect(), p), p.Args...)
	if err != nil {
		return nil, err
	}

	list := newList[T](len(rows))
	for _, row := range rows {
		rec, err := m.Hydrate(row)
		if err != nil {
			return nil, err
		}
		list.put(m.PrimaryKey(rec), rec)
	}
	return list, nil
}

func (m *Mapper[T]) selectSQL(d Dialect, p ListParams) string {
	var b strings.Builder
	fields := p.Fields
	if fields == "" {
		fields = "*"
	}
	b.WriteString("SELECT " + fields + " FROM " + d.Quote(m.meta.table))
	if p.Join != "" {
		b.WriteString(" " + p.Join)
	}
	if p.Where != "" {
		b.WriteString(" WHERE " + p.Where)
	}
	if p.Group != "" {
		b.WriteString(" GROUP BY " + p.Group)
	}
	if p.Having != "" {
		b.WriteString(" HAVING " + p.Having)
	}
	if p.Order != "" {
		b.WriteString(" ORDER BY " + p.Order)
	}
	if p.Limit != "" {
		b.WriteString(" LIMIT " + p.Limit)
		if p.Offset != "" {
			b.WriteString(" OFFSET " + p.Offset)
		}
	}
	return b.String()
}

// One returns the first record List would return, or nil.
func (m *Mapper[T]) One(ctx context.Context, p ListParams) (*T, error) {
	list, err := m.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return list.First(), nil
}

// Count counts the rows matching p.Where.
func (m *Mapper[T]) Count(ctx context.Context, p ListParams) (int, error) {
	conn, err := m.reg.Connection()
	if err != nil {
		return 0, err
	}
	q := "SELECT COUNT(*) FROM " + conn.Dialect().Quote(m.meta.table)
	if p.Where != "" {
		q += " WHERE " + p.Where
	}

	var n int64
	if err := conn.queryRow(ctx, q, p.Args, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// Insert writes the declared attributes of rec as a new row. Unless the
// schema uses a manual key, the generated key is stored back into rec.
func (m *Mapper[T]) Insert(ctx context.Context, rec *T) (bool, error) {
	conn, err := m.reg.Connection()
	if err != nil {
		return false, err
	}
	if h, ok := any(rec).(BeforeInserter); ok {
		if err := h.BeforeInsert(ctx, conn); err != nil {
			return false, err
		}
	}
	if len(m.meta.attrs) == 0 {
		return false, ErrNoAttributesDeclared
	}

	d := conn.Dialect()
	v := reflect.ValueOf(rec).Elem()
	st := &statement{d: d}
	names := make([]string, 0, len(m.meta.attrs)+1)
	if m.meta.manualKey {
		names = append(names, m.meta.pk)
	}
	for _, a := range m.meta.attrs {
		names = append(names, a.Column)
	}

	cols := make([]string, 0, len(names))
	vals := make([]string, 0, len(names))
	for _, name := range names {
		f, _ := m.meta.field(v, name)
		cols = append(cols, d.Quote(name))
		vals = append(vals, st.bind(name, f.Interface()))
	}

	q := "INSERT INTO " + d.Quote(m.meta.table) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ")"

	if m.meta.manualKey {
		if _, err := conn.Exec(ctx, q, st.args...); err != nil {
			return false, err
		}
		return true, nil
	}

	pk, _ := m.meta.field(v, m.meta.pk)
	if d.Returning() {
		var id any
		if err := conn.queryRow(ctx, q+" RETURNING "+d.Quote(m.meta.pk), st.args, &id); err != nil {
			return false, err
		}
		return true, assignKey(pk, id)
	}

	res, err := conn.Exec(ctx, q, st.args...)
	if err != nil {
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	return true, assignKey(pk, id)
}

// Update writes every declared attribute of rec to the row with its key.
func (m *Mapper[T]) Update(ctx context.Context, rec *T) (bool, error) {
	conn, err := m.reg.Connection()
	if err != nil {
		return false, err
	}
	if h, ok := any(rec).(BeforeUpdater); ok {
		if err := h.BeforeUpdate(ctx, conn); err != nil {
			return false, err
		}
	}
	if len(m.meta.attrs) == 0 {
		return false, ErrNoAttributesDeclared
	}

	v := reflect.ValueOf(rec).Elem()
	fields := make([]column, 0, len(m.meta.attrs))
	for _, a := range m.meta.attrs {
		f, _ := m.meta.field(v, a.Column)
		fields = append(fields, column{a.Column, f.Interface()})
	}
	return m.update(ctx, conn, fields, m.PrimaryKey(rec))
}

// UpdateFields writes only the given columns of the row with rec's key.
// The BeforeUpdate hook runs when runHook is true.
func (m *Mapper[T]) UpdateFields(ctx context.Context, rec *T, data map[string]any, runHook bool) (bool, error) {
	conn, err := m.reg.Connection()
	if err != nil {
		return false, err
	}
	if runHook {
		if h, ok := any(rec).(BeforeUpdater); ok {
			if err := h.BeforeUpdate(ctx, conn); err != nil {
				return false, err
			}
		}
	}

	names := make([]string, 0, len(data))
	for name := range data {
		if !ValidFieldName(name) {
			return false, fmt.Errorf("%w: %q", ErrInvalidFieldName, name)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return false, nil
	}
	slices.Sort(names)

	fields := make([]column, 0, len(names))
	for _, name := range names {
		fields = append(fields, column{name, data[name]})
	}
	return m.update(ctx, conn, fields, m.PrimaryKey(rec))
}

type column struct {
	name  string
	value any
}

func (m *Mapper[T]) update(ctx context.Context, conn *Conn, fields []column, key any) (bool, error) {
	d := conn.Dialect()
	st := &statement{d: d}
	set := make([]string, 0, len(fields))
	for _, c := range fields {
		set = append(set, d.Quote(c.name)+" = "+st.bind(c.name, c.value))
	}
	q := "UPDATE " + d.Quote(m.meta.table) + " SET " + strings.Join(set, ", ") +
		" WHERE " + d.Quote(m.meta.pk) + " = " + st.bind("primaryKey", key)

	if _, err := conn.Exec(ctx, q, st.args...); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the row with rec's key.
func (m *Mapper[T]) Delete(ctx context.Context, rec *T) (bool, error) {
	conn, err := m.reg.Connection()
	if err != nil {
		return false, err
	}
	if h, ok := any(rec).(BeforeDeleter); ok {
		if err := h.BeforeDelete(ctx, conn); err != nil {
			return false, err
		}
	}

	d := conn.Dialect()
	st := &statement{d: d}
	q := "DELETE FROM " + d.Quote(m.meta.table) +
		" WHERE " + d.Quote(m.meta.pk) + " = " + st.bind("pk", m.PrimaryKey(rec))
	if _, err := conn.Exec(ctx, q, st.args...); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAll removes the rows with the given keys.
// An empty ids slice returns false without touching the database.
func (m *Mapper[T]) DeleteAll(ctx context.Context, ids []any) (bool, error) {
	return m.deleteWhereIn(ctx, m.meta.pk, ids)
}

// DeleteAllWhereField removes the rows whose field is one of ids.
// field must be a plain identifier.
func (m *Mapper[T]) DeleteAllWhereField(ctx context.Context, field string, ids []any) (bool, error) {
	if !ValidFieldName(field) {
		return false, fmt.Errorf("%w: %q", ErrInvalidFieldName, field)
	}
	return m.deleteWhereIn(ctx, field, ids)
}

func (m *Mapper[T]) deleteWhereIn(ctx context.Context, field string, ids []any) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	conn, err := m.reg.Connection()
	if err != nil {
		return false, err
	}

	d := conn.Dialect()
	st := &statement{d: d}
	ph := make([]string, len(ids))
	for i, id := range ids {
		ph[i] = st.bind("id"+strconv.Itoa(i), id)
	}
	q := "DELETE FROM " + d.Quote(m.meta.table) +
		" WHERE " + d.Quote(field) + " IN (" + strings.Join(ph, ", ") + ")"
	if _, err := conn.Exec(ctx, q, st.args...); err != nil {
		return false, err
	}
	return true, nil
}

// Save updates rec if it has a key and inserts it otherwise.
func (m *Mapper[T]) Save(ctx context.Context, rec *T) (bool, error) {
	if m.IsNew(rec) {
		return m.Insert(ctx, rec)
	}
	return m.Update(ctx, rec)
}
