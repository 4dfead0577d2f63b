package convert

import (
	"reflect"
	"sort"
)

// Converter converts raw values to a requested Go type.
type Converter interface {
	// Order is the position of the converter in a Chain. Lower runs first.
	Order() int

	// CanConvert reports whether the converter handles value for target.
	CanConvert(value any, target reflect.Type) bool

	// Convert returns value converted to target. The result is assignable
	// to target, or nil for the target's zero value.
	Convert(value any, target reflect.Type) (any, error)
}

// Chain is an immutable, ordered set of converters.
type Chain struct {
	converters []Converter
}

// NewChain creates a chain from converters, stable-sorted by Order so that
// converters sharing an order keep the order they were passed in.
func NewChain(converters ...Converter) *Chain {
	sorted := make([]Converter, len(converters))
	copy(sorted, converters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})
	return &Chain{converters: sorted}
}

// DefaultChain returns the chain of built-in converters.
func DefaultChain() *Chain {
	return NewChain(
		Identifier{},
		Enumeration{},
		Duration{},
		Scalar{},
		Sequence{},
	)
}

// Converters returns the converters in evaluation order.
func (c *Chain) Converters() []Converter {
	out := make([]Converter, len(c.converters))
	copy(out, c.converters)
	return out
}

// Match returns the first converter able to convert value to target.
func (c *Chain) Match(value any, target reflect.Type) (Converter, bool) {
	for _, conv := range c.converters {
		if conv.CanConvert(value, target) {
			return conv, true
		}
	}
	return nil, false
}

// Convert runs the first matching converter. Without a match value is
// returned unchanged.
func (c *Chain) Convert(value any, target reflect.Type) (any, error) {
	conv, ok := c.Match(value, target)
	if !ok {
		return value, nil
	}
	return conv.Convert(value, target)
}
