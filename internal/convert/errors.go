package convert

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidValue is matched by every conversion failure.
var ErrInvalidValue = errors.New("invalid value")

// ConversionError reports a raw value that a converter accepted by type but
// could not parse.
type ConversionError struct {
	Value  any
	Target reflect.Type
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("invalid value %s for %s", quote(e.Value), typeName(e.Target))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying parse error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidValue) hold for every ConversionError.
func (e *ConversionError) Is(target error) bool {
	return target == ErrInvalidValue
}

func newError(value any, target reflect.Type, err error) error {
	return &ConversionError{Value: value, Target: target, Err: err}
}

func quote(v any) string {
	switch s := v.(type) {
	case string:
		return fmt.Sprintf("%q", s)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", s)
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
