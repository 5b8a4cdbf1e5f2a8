package record

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/muir/reflectutils"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPrimaryKey is the primary key column used when a schema names none.
const DefaultPrimaryKey = "id"

// Attribute is a mapped column and its human readable label.
type Attribute struct {
	Column string
	Label  string
}

// Attrs builds attributes from column, label pairs.
func Attrs(pairs ...string) []Attribute {
	attrs := make([]Attribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		attrs = append(attrs, Attribute{Column: pairs[i], Label: pairs[i+1]})
	}
	return attrs
}

// Schema declares how a record type maps to a table.
type Schema struct {
	// Table defaults to the lowercased type name.
	Table string

	// PrimaryKey defaults to "id". It is never part of Attributes.
	PrimaryKey string

	// Attributes are the columns written by Insert and Update, in order.
	Attributes []Attribute

	// ManualKey marks tables whose key is not assigned by the database.
	ManualKey bool
}

// Record is implemented by structs mapped with a Mapper. Fields are bound
// to columns with `db:"column"` tags; untagged fields use their lowercased name.
type Record interface {
	Schema() Schema
}

var fieldNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidFieldName reports whether name is safe to splice into SQL as a column.
func ValidFieldName(name string) bool {
	return fieldNameRe.MatchString(name)
}

// meta is the resolved mapping of one record type.
type meta struct {
	typ       reflect.Type
	table     string
	pk        string
	attrs     []Attribute
	manualKey bool
	fields    map[string][]int
}

func newMeta(typ reflect.Type, s Schema) (*meta, error) {
	m := &meta{
		typ:       typ,
		table:     s.Table,
		pk:        s.PrimaryKey,
		manualKey: s.ManualKey,
		fields:    make(map[string][]int),
	}
	if m.table == "" {
		m.table = cases.Lower(language.Und).String(typ.Name())
	}
	if m.pk == "" {
		m.pk = DefaultPrimaryKey
	}
	for _, a := range s.Attributes {
		if a.Column != m.pk {
			m.attrs = append(m.attrs, a)
		}
	}

	reflectutils.WalkStructElements(typ, func(f reflect.StructField) bool {
		if f.Anonymous {
			return f.Type.Kind() == reflect.Struct
		}
		if !f.IsExported() {
			return false
		}
		col, ok := f.Tag.Lookup("db")
		if !ok {
			col = strings.ToLower(f.Name)
		}
		col, _, _ = strings.Cut(col, ",")
		if col == "-" || col == "" {
			return false
		}
		if _, dup := m.fields[col]; !dup {
			m.fields[col] = f.Index
		}
		return false
	})

	if _, ok := m.fields[m.pk]; !ok {
		return nil, fmt.Errorf("%w: primary key %q of %s", ErrUnknownColumn, m.pk, typ)
	}
	for _, a := range m.attrs {
		if _, ok := m.fields[a.Column]; !ok {
			return nil, fmt.Errorf("%w: %q of %s", ErrUnknownColumn, a.Column, typ)
		}
	}
	return m, nil
}

func (m *meta) field(rec reflect.Value, column string) (reflect.Value, bool) {
	idx, ok := m.fields[column]
	if !ok {
		return reflect.Value{}, false
	}
	return rec.FieldByIndex(idx), true
}

func (m *meta) label(column string) string {
	for _, a := range m.attrs {
		if a.Column == column {
			return a.Label
		}
	}
	return ""
}
