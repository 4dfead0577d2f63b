package config

import "sort"

// Properties is an insertion-ordered map of field name to raw value. A raw
// value is either a string or, for formats with native lists, a []string.
// The zero value is ready to use.
type Properties struct {
	keys   []string
	values map[string]any
}

// NewProperties creates an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]any)}
}

// PropertiesFromMap builds a property map from a plain Go map. Keys are
// inserted in sorted order because map iteration order is random.
func PropertiesFromMap(m map[string]any) *Properties {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewProperties()
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Set adds or replaces the value stored under name. Replacing keeps the
// original position.
func (p *Properties) Set(name string, value any) {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = value
}

// Get returns the value stored under name.
func (p *Properties) Get(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Has reports whether name is present.
func (p *Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the property names in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Range calls fn for every property in insertion order until fn returns false.
func (p *Properties) Range(fn func(name string, value any) bool) {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		if !fn(k, p.values[k]) {
			return
		}
	}
}

// Clone returns a copy that shares no mutable state with p.
func (p *Properties) Clone() *Properties {
	out := NewProperties()
	p.Range(func(name string, value any) bool {
		if list, ok := value.([]string); ok {
			value = append([]string(nil), list...)
		}
		out.Set(name, value)
		return true
	})
	return out
}
