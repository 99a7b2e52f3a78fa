package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Snapshot is a JSON-compatible capture of the editor model at one instant.
// The tree only contains map[string]any, []any, string, float64, bool and
// nil. Values handed out by Resolve share memory with the snapshot and must
// be treated as read-only.
type Snapshot struct {
	root  any
	valid bool
}

// New normalises v through a JSON round trip so that Go literals and decoded
// browser output compare equal.
func New(v any) (Snapshot, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: marshal: %w", err)
	}
	return Parse(data)
}

// MustNew is New for test fixtures; it panics when v is not JSON-compatible.
func MustNew(v any) Snapshot {
	s, err := New(v)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse decodes a JSON document into a Snapshot.
func Parse(data []byte) (Snapshot, error) {
	var root any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	if dec.More() {
		return Snapshot{}, fmt.Errorf("snapshot: decode: trailing data after document")
	}
	return Snapshot{root: root, valid: true}, nil
}

// Normalize converts a Go value to the representation used inside
// snapshots (e.g. int becomes float64, structs become maps).
func Normalize(v any) (any, error) {
	s, err := New(v)
	if err != nil {
		return nil, err
	}
	return s.root, nil
}

// IsZero reports whether the snapshot was never populated.
func (s Snapshot) IsZero() bool {
	return !s.valid
}

// Root returns the whole tree.
func (s Snapshot) Root() any {
	return s.root
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.root)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Resolve walks p from the root. The boolean is false when the path does not
// resolve (Absent). A JSON null or an empty collection is a found value.
func (s Snapshot) Resolve(p Path) (any, bool) {
	if !s.valid {
		return nil, false
	}
	return Resolve(s.root, p)
}

// Resolve walks p through an arbitrary decoded JSON tree. It never panics.
func Resolve(root any, p Path) (any, bool) {
	cur := root
	for _, elem := range p {
		next, ok := step(cur, elem)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func step(container any, elem any) (any, bool) {
	switch c := container.(type) {
	case map[string]any:
		key, ok := elem.(string)
		if !ok {
			return nil, false
		}
		v, ok := c[key]
		return v, ok
	case []any:
		idx, ok := elem.(int)
		if !ok || idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}

// Has reports whether p resolves.
func (s Snapshot) Has(p Path) bool {
	_, ok := s.Resolve(p)
	return ok
}

// Keys returns the sorted keys of the mapping at p, or nil when p does not
// resolve to a mapping.
func (s Snapshot) Keys(p Path) []string {
	v, ok := s.Resolve(p)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String resolves p and returns the value when it is a string.
func (s Snapshot) String(p Path) (string, bool) {
	v, ok := s.Resolve(p)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}
