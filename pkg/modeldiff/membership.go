package modeldiff

import (
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/threagile/editor-e2e/pkg/errors"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

// AssertElementPresent fails unless the collection at p contains element.
// Mappings are searched by value and, for string elements, by key.
// Sequences are searched by item.
func AssertElementPresent(s snapshot.Snapshot, p snapshot.Path, element any) error {
	el, err := snapshot.Normalize(element)
	if err != nil {
		return fmt.Errorf("normalize element: %w", err)
	}
	v, ok := s.Resolve(p)
	if ok && contains(v, el) {
		return nil
	}
	return errors.NewElementNotFoundError(p.String(), element, v)
}

// AssertElementAbsent confirms that element is gone from the collection
// reached by p. Any structural failure while walking p (missing key, index
// out of range, stepping into a scalar) counts as proof of removal, as does
// meeting element itself on an ancestor. Once p fully resolves:
//
//   - a sequence fails when one of its items equals element
//   - a mapping fails when element is one of its keys or values
//   - any other value fails, since p then names the element itself
func AssertElementAbsent(s snapshot.Snapshot, p snapshot.Path, element any) error {
	el, err := snapshot.Normalize(element)
	if err != nil {
		return fmt.Errorf("normalize element: %w", err)
	}
	if s.IsZero() {
		return nil
	}

	cur := s.Root()
	for i := range p {
		if i > 0 && equal(cur, el) {
			return nil
		}
		next, ok := snapshot.Resolve(cur, p[i:i+1])
		if !ok {
			return nil
		}
		cur = next
	}

	switch c := cur.(type) {
	case []any, map[string]any:
		if !contains(c, el) {
			return nil
		}
	}
	return errors.NewElementStillPresentError(p.String(), element)
}

// AssertValue fails unless the value at p equals want.
func AssertValue(s snapshot.Snapshot, p snapshot.Path, want any) error {
	w, err := snapshot.Normalize(want)
	if err != nil {
		return fmt.Errorf("normalize expected value: %w", err)
	}
	v, ok := s.Resolve(p)
	if !ok {
		return errors.NewValueMismatchError(p.String(), want, nil, true)
	}
	if !equal(v, w) {
		return errors.NewValueMismatchError(p.String(), want, v, false)
	}
	return nil
}

// AssertKeyPresent fails unless the mapping at p has key.
func AssertKeyPresent(s snapshot.Snapshot, p snapshot.Path, key string) error {
	v, ok := s.Resolve(p)
	if m, isMap := v.(map[string]any); ok && isMap {
		if _, found := m[key]; found {
			return nil
		}
	}
	return errors.NewElementNotFoundError(p.String(), key, keysOf(v))
}

func contains(collection any, el any) bool {
	switch c := collection.(type) {
	case []any:
		for _, item := range c {
			if equal(item, el) {
				return true
			}
		}
	case map[string]any:
		if key, ok := el.(string); ok {
			if _, found := c[key]; found {
				return true
			}
		}
		for _, item := range c {
			if equal(item, el) {
				return true
			}
		}
	}
	return false
}

func equal(a, b any) bool {
	return cmp.Equal(a, b)
}

func keysOf(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
