package convert

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Enum is implemented by named integer types that expose their members by
// name. The method must have a value receiver.
//
//	type Mode int
//
//	const (
//		ModeFast Mode = iota
//		ModeSafe
//	)
//
//	func (Mode) EnumMembers() map[string]int64 {
//		return map[string]int64{"Fast": int64(ModeFast), "Safe": int64(ModeSafe)}
//	}
type Enum interface {
	EnumMembers() map[string]int64
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

// isEnum reports whether t, or the type t points to, is an enumeration.
func isEnum(t reflect.Type) bool {
	base, _ := indirect(t)
	return base != nil && isInteger(base.Kind()) && base.Implements(enumType)
}

// Enumeration converts member names to values of an Enum type. Pointer
// targets are treated as nullable enumerations.
type Enumeration struct{}

// Order implements Converter.
func (Enumeration) Order() int { return 100 }

// CanConvert implements Converter. Blank values are left to the rest of the
// chain.
func (Enumeration) CanConvert(value any, target reflect.Type) bool {
	if value == nil || !isEnum(target) {
		return false
	}
	return strings.TrimSpace(fmt.Sprint(value)) != ""
}

// Convert implements Converter. Names match exactly and case-sensitively;
// an integer literal is accepted when it equals a defined member value.
func (Enumeration) Convert(value any, target reflect.Type) (any, error) {
	base, _ := indirect(target)
	v, err := parseEnum(value, base)
	if err != nil {
		return nil, newError(value, target, err)
	}
	return wrap(v, target), nil
}

func parseEnum(value any, base reflect.Type) (reflect.Value, error) {
	out := reflect.New(base).Elem()
	members := reflect.Zero(base).Interface().(Enum).EnumMembers()
	s := strings.TrimSpace(fmt.Sprint(value))

	n, ok := members[s]
	if !ok {
		if parsed, err := strconv.ParseInt(s, 10, 64); err == nil && definesValue(members, parsed) {
			n, ok = parsed, true
		}
	}
	if !ok {
		return out, fmt.Errorf("not a member of %s (%s)", base.Name(), strings.Join(memberNames(members), ", "))
	}

	if isSigned(base.Kind()) {
		if out.OverflowInt(n) {
			return out, fmt.Errorf("member value %d overflows %s", n, base)
		}
		out.SetInt(n)
	} else {
		if n < 0 || out.OverflowUint(uint64(n)) {
			return out, fmt.Errorf("member value %d overflows %s", n, base)
		}
		out.SetUint(uint64(n))
	}
	return out, nil
}

func definesValue(members map[string]int64, n int64) bool {
	for _, v := range members {
		if v == n {
			return true
		}
	}
	return false
}

func memberNames(members map[string]int64) []string {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
