package record

import "errors"

var (
	ErrNoAttributesDeclared = errors.New("record: no attributes declared")
	ErrInvalidFieldName     = errors.New("record: invalid field name")
	ErrNoConnection         = errors.New("record: connection is not initialized")
	ErrNotARecord           = errors.New("record: type does not implement Record")
	ErrUnknownColumn        = errors.New("record: column is not mapped to a field")
	ErrUnknownDriver        = errors.New("record: no dialect for driver")
)
