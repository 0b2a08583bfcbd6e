package patch

import (
	"maps"
	"strconv"
	"strings"
)

// Meta holds the type-specific properties of a unit as strings, the way
// they are written to project files. Typed accessors fall back to a
// default when a key is missing or malformed.
type Meta map[string]string

// Clone returns a copy of m. A nil Meta clones to an empty one.
func (m Meta) Clone() Meta {
	out := make(Meta, len(m))
	maps.Copy(out, m)
	return out
}

// String returns m[key] or def.
func (m Meta) String(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// Float parses m[key] as a float64.
func (m Meta) Float(key string, def float64) float64 {
	v, ok := m[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Int parses m[key] as an int.
func (m Meta) Int(key string, def int) int {
	v, ok := m[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Bool parses m[key]. "True", "true" and "1" are true; "False", "false"
// and "0" are false.
func (m Meta) Bool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(m[key])) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return def
}

// SetFloat stores f with the shortest exact representation.
func (m Meta) SetFloat(key string, f float64) {
	m[key] = strconv.FormatFloat(f, 'g', -1, 64)
}

// SetInt stores n.
func (m Meta) SetInt(key string, n int) { m[key] = strconv.Itoa(n) }

// SetBool stores b as "True" or "False".
func (m Meta) SetBool(key string, b bool) {
	if b {
		m[key] = "True"
		return
	}
	m[key] = "False"
}
