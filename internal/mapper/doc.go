// Package mapper populates typed settings structs from raw property maps.
//
// Each property is matched to the exported struct field of the same name and
// its raw value is run through a convert.Chain. Properties without a field
// are ignored so that configuration stays forward compatible, and fields
// without a property keep their zero value. A value that no converter
// claims is assigned as-is when Go allows it; otherwise the field is left
// untouched and a warning is logged.
package mapper
