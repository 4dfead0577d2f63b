package convert

import "reflect"

// Scalar converts text to booleans, integers, floats and time.Time using
// invariant parsing rules. It leaves enumerations, identifiers and
// durations to their dedicated converters. Strings are not scalars here:
// a raw string already fits a string field.
type Scalar struct{}

// Order implements Converter.
func (Scalar) Order() int { return 500 }

// CanConvert implements Converter.
func (Scalar) CanConvert(_ any, target reflect.Type) bool {
	base, _ := indirect(target)
	if base == nil || base == uuidType || base == durationType || isEnum(base) {
		return false
	}
	if base == timeType {
		return true
	}
	switch base.Kind() {
	case reflect.Bool, reflect.Float32, reflect.Float64:
		return true
	}
	return isInteger(base.Kind())
}

// Convert implements Converter.
func (Scalar) Convert(value any, target reflect.Type) (any, error) {
	base, _ := indirect(target)
	v, err := convertScalar(value, base)
	if err != nil {
		return nil, newError(value, target, err)
	}
	return wrap(v, target), nil
}
