// Package ordered provides an insertion-ordered string-to-string map.
//
// Record construction in the assembler needs a container that accepts any
// header field name — including names like "__proto__" or "constructor" —
// as an ordinary key, with no risk of reinterpreting it as something else.
// A plain Go map already has that property (Go has no shared object
// prototype to pollute), but it loses the header's column order on
// iteration. Map keeps both: safe arbitrary string keys, and iteration in
// first-insertion order, the same role the spec's host-language
// construction note (§4.3 "Record key safety") asks for.
package ordered

// Map is an insertion-ordered string-to-string map. The zero value is not
// ready for use; construct one with New.
type Map struct {
	index  map[string]int
	keys   []string
	values []string
}

// New returns an empty Map with room for size entries.
func New(size int) *Map {
	return &Map{
		index:  make(map[string]int, size),
		keys:   make([]string, 0, size),
		values: make([]string, 0, size),
	}
}

// Set stores value under key, appending key to the iteration order the
// first time it is seen and overwriting in place on subsequent calls.
func (m *Map) Set(key, value string) {
	if i, ok := m.index[key]; ok {
		m.values[i] = value
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// Get returns the value stored under key and whether key is present.
func (m *Map) Get(key string) (string, bool) {
	i, ok := m.index[key]
	if !ok {
		return "", false
	}
	return m.values[i], true
}

// Keys returns the map's keys in insertion order. The returned slice must
// not be mutated by the caller.
func (m *Map) Keys() []string {
	return m.keys
}

// Len returns the number of entries in the map.
func (m *Map) Len() int {
	return len(m.keys)
}

// HasDuplicates reports whether names contains any repeated value,
// independent of any Map instance. Used by header-capture validation.
func HasDuplicates(names []string) (dup string, ok bool) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, exists := seen[n]; exists {
			return n, true
		}
		seen[n] = struct{}{}
	}
	return "", false
}
