package convert

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
)

var uuidType = reflect.TypeOf(uuid.UUID{})

// Identifier converts canonical strings and 16-byte slices to uuid.UUID.
// A *uuid.UUID target is a nullable identifier.
type Identifier struct{}

// Order implements Converter.
func (Identifier) Order() int { return 100 }

// CanConvert implements Converter.
func (Identifier) CanConvert(_ any, target reflect.Type) bool {
	base, _ := indirect(target)
	return base == uuidType
}

// Convert implements Converter.
func (Identifier) Convert(value any, target reflect.Type) (any, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch v := value.(type) {
	case uuid.UUID:
		id = v
	case string:
		id, err = uuid.Parse(strings.TrimSpace(v))
	case []byte:
		id, err = uuid.FromBytes(v)
	default:
		err = errUnsupportedSource
	}
	if err != nil {
		return nil, newError(value, target, err)
	}
	return wrap(reflect.ValueOf(id), target), nil
}
