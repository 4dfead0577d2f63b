package mapper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/specialistvlad/tfsutils/internal/config"
	"github.com/specialistvlad/tfsutils/internal/convert"
	"github.com/specialistvlad/tfsutils/internal/ctxlog"
)

// ErrNotConstructible is returned when the target type has no zero-value
// construction path, e.g. it is nil, an interface or not a struct.
var ErrNotConstructible = errors.New("type cannot be constructed")

// FieldError reports a property whose value could not be converted to the
// type of its field.
type FieldError struct {
	Field  string
	Target reflect.Type
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q of %s: %v", e.Field, e.Target, e.Err)
}

// Unwrap returns the conversion error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Mapper maps raw properties onto structs. It holds no mutable state and is
// safe for concurrent use.
type Mapper struct {
	chain *convert.Chain
}

// New creates a mapper using chain, or the default chain when chain is nil.
func New(chain *convert.Chain) *Mapper {
	if chain == nil {
		chain = convert.DefaultChain()
	}
	return &Mapper{chain: chain}
}

// Default returns a mapper backed by convert.DefaultChain.
func Default() *Mapper {
	return New(nil)
}

// MapTo allocates a T and populates it from props. T may be a struct type or
// a pointer to one.
func MapTo[T any](ctx context.Context, m *Mapper, props *config.Properties) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()
	base := t
	if t.Kind() == reflect.Pointer {
		base = t.Elem()
		if base.Kind() == reflect.Pointer {
			return zero, fmt.Errorf("%w: %s has more than one level of indirection", ErrNotConstructible, t)
		}
	}

	out, err := m.Map(ctx, props, base)
	if err != nil {
		return zero, err
	}
	if t.Kind() == reflect.Pointer {
		return out.(T), nil
	}
	return reflect.ValueOf(out).Elem().Interface().(T), nil
}

// Map allocates a zero value of target (a struct type, or a pointer to one)
// and populates it from props. The result is always a pointer to the struct.
func (m *Mapper) Map(ctx context.Context, props *config.Properties, target reflect.Type) (any, error) {
	base, err := structType(target)
	if err != nil {
		return nil, err
	}
	ptr := reflect.New(base)
	if err := m.populate(ctx, props, ptr.Elem()); err != nil {
		return nil, err
	}
	return ptr.Interface(), nil
}

// MapInto populates the struct dst points to. It is used with targets built
// by registered factories.
func (m *Mapper) MapInto(ctx context.Context, props *config.Properties, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: destination must be a non-nil pointer to a struct, got %T", ErrNotConstructible, dst)
	}
	return m.populate(ctx, props, rv.Elem())
}

func structType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrNotConstructible)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrNotConstructible, t)
	}
	return t, nil
}

func (m *Mapper) populate(ctx context.Context, props *config.Properties, target reflect.Value) error {
	t := target.Type()
	logger := ctxlog.FromContext(ctx).With("target", t.String())
	logger.Debug("Mapping properties.", "count", props.Len())

	var mapErr error
	props.Range(func(name string, raw any) bool {
		sf, ok := t.FieldByName(name)
		if !ok || !sf.IsExported() {
			logger.Debug("Ignoring property without a matching field.", "property", name)
			return true
		}
		field, err := target.FieldByIndexErr(sf.Index)
		if err != nil || !field.CanSet() {
			logger.Debug("Ignoring property for unreachable field.", "property", name)
			return true
		}

		conv, matched := m.chain.Match(raw, sf.Type)
		if !matched {
			passthrough(logger, field, name, raw)
			return true
		}

		converted, err := conv.Convert(raw, sf.Type)
		if err != nil {
			mapErr = &FieldError{Field: name, Target: t, Err: err}
			return false
		}
		if err := assign(field, converted); err != nil {
			mapErr = &FieldError{Field: name, Target: t, Err: err}
			return false
		}
		logger.Debug("Mapped property.", "property", name, "converter", fmt.Sprintf("%T", conv))
		return true
	})
	return mapErr
}

func assign(field reflect.Value, value any) error {
	if value == nil {
		field.SetZero()
		return nil
	}
	rv := reflect.ValueOf(value)
	if !rv.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("converter produced %s, want %s", rv.Type(), field.Type())
	}
	field.Set(rv)
	return nil
}

// passthrough stores a value no converter claimed. Go cannot hold a
// mismatched type in a typed field, so incompatible values are dropped with
// a warning and the failure shows up where the zero value is used.
func passthrough(logger *slog.Logger, field reflect.Value, name string, raw any) {
	if raw == nil {
		return
	}
	rv := reflect.ValueOf(raw)
	ft := field.Type()
	switch {
	case rv.Type().AssignableTo(ft):
		field.Set(rv)
	case compatible(rv.Type(), ft):
		field.Set(rv.Convert(ft))
	default:
		logger.Warn("No converter for property; leaving field unset.",
			"property", name, "field_type", ft.String(), "value_type", rv.Type().String())
		return
	}
	logger.Debug("Assigned raw property value.", "property", name)
}

// compatible limits reflect conversions to ones that keep the value intact,
// e.g. string to a named string type or string to []byte.
func compatible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if from.Kind() == to.Kind() {
		return true
	}
	if from.Kind() == reflect.String && to.Kind() == reflect.Slice {
		k := to.Elem().Kind()
		return k == reflect.Uint8 || k == reflect.Int32
	}
	return false
}
