package convert

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Sequence builds slices. Each source element goes through the scalar
// conversion of the slice's element type.
type Sequence struct{}

// Order implements Converter.
func (Sequence) Order() int { return 1000 }

// CanConvert implements Converter. Byte slices are not sequences.
func (Sequence) CanConvert(_ any, target reflect.Type) bool {
	return target != nil && target.Kind() == reflect.Slice && target.Elem().Kind() != reflect.Uint8
}

// Convert implements Converter. The source may be a []string, a []any or
// any other slice; a string holding markup such as
// "<string>a</string><string>b</string>" yields the text of each child
// element; a blank string yields an empty slice and any other scalar a
// single-element slice.
func (Sequence) Convert(value any, target reflect.Type) (any, error) {
	if value == nil {
		return nil, nil
	}
	elems, err := sequenceElements(value)
	if err != nil {
		return nil, newError(value, target, err)
	}

	out := reflect.MakeSlice(target, 0, len(elems))
	for i, elem := range elems {
		v, err := convertElement(elem, target.Elem())
		if err != nil {
			return nil, newError(value, target, fmt.Errorf("element %d: %w", i, err))
		}
		out = reflect.Append(out, v)
	}
	return out.Interface(), nil
}

func sequenceElements(value any) ([]any, error) {
	switch v := value.(type) {
	case []string:
		elems := make([]any, len(v))
		for i, s := range v {
			elems[i] = s
		}
		return elems, nil
	case []any:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		switch {
		case trimmed == "":
			return []any{}, nil
		case strings.HasPrefix(trimmed, "<"):
			return markupItems(trimmed)
		default:
			return []any{v}, nil
		}
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return elems, nil
	}
	return []any{value}, nil
}

// markupItems returns the text content of every top-level element of an XML
// fragment.
func markupItems(fragment string) ([]any, error) {
	dec := xml.NewDecoder(strings.NewReader("<items>" + fragment + "</items>"))
	var (
		items []any
		text  strings.Builder
		depth int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed sequence markup: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				text.Reset()
			}
		case xml.CharData:
			if depth >= 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				items = append(items, text.String())
			}
			depth--
		}
	}
	return items, nil
}

func convertElement(elem any, t reflect.Type) (reflect.Value, error) {
	for _, conv := range []Converter{Identifier{}, Enumeration{}, Duration{}} {
		if conv.CanConvert(elem, t) {
			v, err := conv.Convert(elem, t)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(v), nil
		}
	}
	if t.Kind() == reflect.Pointer {
		v, err := convertScalar(elem, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(wrap(v, t)), nil
	}
	return convertScalar(elem, t)
}
