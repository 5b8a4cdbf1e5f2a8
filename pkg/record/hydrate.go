package record

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/muir/reflectutils"
)

// assign stores a driver value into field, converting where needed.
// NULL resets the field to its zero value.
func assign(field reflect.Value, src any) error {
	if src == nil {
		field.SetZero()
		return nil
	}

	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), src); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if b, ok := src.([]byte); ok && field.Type() != reflect.TypeOf(b) {
		src = string(b)
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(field.Type()) {
		field.Set(sv)
		return nil
	}
	if isNumeric(sv.Kind()) && isNumeric(field.Kind()) {
		field.Set(sv.Convert(field.Type()))
		return nil
	}

	setter, err := reflectutils.MakeStringSetter(field.Type())
	if err != nil {
		return fmt.Errorf("record: cannot assign %T to %s: %w", src, field.Type(), err)
	}
	return setter(field, fmt.Sprint(src))
}

// assignKey stores a generated key. Fields without a numeric or string
// type receive the key's decimal string form.
func assignKey(field reflect.Value, id any) error {
	if field.Kind() == reflect.Interface {
		if n, ok := id.(int64); ok {
			field.Set(reflect.ValueOf(strconv.FormatInt(n, 10)))
			return nil
		}
		field.Set(reflect.ValueOf(fmt.Sprint(id)))
		return nil
	}
	return assign(field, id)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// keyValue returns the value of a key field or nil when it is unset.
func keyValue(field reflect.Value) any {
	if field.Kind() == reflect.Pointer || field.Kind() == reflect.Interface {
		if field.IsNil() {
			return nil
		}
		return keyValue(field.Elem())
	}
	if field.IsZero() {
		return nil
	}
	return field.Interface()
}
