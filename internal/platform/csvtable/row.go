package csvtable

import "strings"

// Row is one header-keyed record. Keys missing from a short record are absent
// rather than empty.
type Row struct {
	values map[string]string
}

// NewRow builds a row from alternating key/value pairs. A trailing key without
// a value is ignored.
func NewRow(pairs ...string) Row {
	row := Row{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		row.set(pairs[i], pairs[i+1])
	}
	return row
}

func (r *Row) set(key, value string) {
	if r.values == nil {
		r.values = map[string]string{}
	}
	r.values[key] = value
}

// Get returns the raw value stored under key.
func (r Row) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the trimmed value under key, or "" when the key is absent.
func (r Row) Value(key string) string {
	return strings.TrimSpace(r.values[key])
}

// Blank reports whether every value is empty after trimming.
func (r Row) Blank() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
