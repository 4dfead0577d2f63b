// Package convert implements the ordered chain of value converters that
// bridges raw configuration text to the Go types of settings fields.
//
// A Chain holds converters sorted by ascending Order. For a given raw value
// and target type the first converter whose CanConvert returns true performs
// the conversion; when none matches the value is returned unchanged and the
// caller decides what to do with it. The built-in converters cover
// identifiers (uuid.UUID), enumerations, durations, scalar value types and
// slices, in that order.
package convert
