package convert

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	errUnsupportedSource = errors.New("unsupported source value")
	errUnsupportedTarget = errors.New("unsupported target type")
)

var timeType = reflect.TypeOf(time.Time{})

// timeLayouts are tried in order by parseTime. The slash layouts follow the
// invariant month/day/year convention.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// indirect strips one level of pointer, which is how nullable fields are
// declared.
func indirect(t reflect.Type) (reflect.Type, bool) {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem(), true
	}
	return t, false
}

// wrap returns v as an interface value of target, allocating a pointer when
// target is nullable.
func wrap(v reflect.Value, target reflect.Type) any {
	if target.Kind() == reflect.Pointer {
		p := reflect.New(target.Elem())
		p.Elem().Set(v)
		return p.Interface()
	}
	return v.Interface()
}

// textOf returns the textual form of a raw value.
func textOf(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	case nil:
		return "", false
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(value), true
	}
	return "", false
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// convertScalar parses value into a new value of type t using invariant
// rules. t must not be a pointer.
func convertScalar(value any, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	if value != nil {
		if rv := reflect.ValueOf(value); rv.Type().AssignableTo(t) {
			out.Set(rv)
			return out, nil
		}
	}

	s, ok := textOf(value)
	if !ok {
		return out, errUnsupportedSource
	}

	switch {
	case t == timeType:
		tm, err := parseTime(s)
		if err != nil {
			return out, err
		}
		out.Set(reflect.ValueOf(tm))
	case t.Kind() == reflect.String:
		out.SetString(s)
	case t.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return out, err
		}
		out.SetBool(b)
	case isSigned(t.Kind()):
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetInt(n)
	case isUnsigned(t.Kind()):
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetUint(n)
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), t.Bits())
		if err != nil {
			return out, err
		}
		out.SetFloat(f)
	default:
		return out, errUnsupportedTarget
	}
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if tm, err := time.Parse(layout, s); err == nil {
			return tm, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/time %q", s)
}
