package connector

import "strconv"

// Params is an ordered string-keyed parameter store. It backs the
// loosely-typed boundary between callers and gateway connectors: keys are
// unique, values are strings, and iteration follows insertion order so that
// anything rendered from a Params (redirect forms in particular) is
// deterministic.
//
// Typed reads follow the package's soft-read convention: a value that does
// not parse yields the zero result and ok=false (or plain false for
// booleans) instead of an error.
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams creates an empty parameter store.
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// ParamsFrom creates a parameter store from a plain map. Key order is
// unspecified, matching Go map iteration.
func ParamsFrom(m map[string]string) *Params {
	p := NewParams()
	for k, v := range m {
		p.Set(k, v)
	}
	return p
}

// Set stores a value under key, keeping the key's original position if it
// already exists.
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key, or the empty string.
func (p *Params) Get(key string) string {
	return p.values[key]
}

// Has reports whether key is present.
func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Delete removes key from the store.
func (p *Params) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// GetInt parses the value under key as an integer.
func (p *Params) GetInt(key string) (int, bool) {
	n, err := strconv.Atoi(p.values[key])
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetFloat parses the value under key as a float.
func (p *Params) GetFloat(key string) (float64, bool) {
	f, err := strconv.ParseFloat(p.values[key], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// GetBool parses the value under key as a boolean. Unparseable or missing
// values read as false.
func (p *Params) GetBool(key string) bool {
	b, err := strconv.ParseBool(p.values[key])
	if err != nil {
		return false
	}
	return b
}

// Merge copies every entry of other into p, overwriting existing keys.
func (p *Params) Merge(other *Params) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		p.Set(k, other.values[k])
	}
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len returns the number of entries.
func (p *Params) Len() int {
	return len(p.keys)
}

// Copy returns an independent copy of the store.
func (p *Params) Copy() *Params {
	out := NewParams()
	out.Merge(p)
	return out
}

// Map returns the entries as a plain map.
func (p *Params) Map() map[string]string {
	out := make(map[string]string, len(p.keys))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
