package snapshot

import (
	"fmt"
	"strconv"
	"strings"
)

// Path locates a value inside a Snapshot. Elements are either string keys
// (mappings) or int indices (sequences). Any other element type never
// resolves.
type Path []any

type wildcard struct{}

// Wildcard stands for any single key or index in MatchesPrefix. It never
// resolves.
var Wildcard any = wildcard{}

// P builds a Path from its elements.
func P(elems ...any) Path {
	return Path(elems)
}

// ParsePath parses the textual form produced by Path.String:
//
//	technical_assets.foo.tags[2]
//	communication_links["Customer Traffic"].data_assets_sent
//
// Dots separate keys, [n] is a sequence index, ["..."] a quoted key and [*]
// the Wildcard.
func ParsePath(s string) (Path, error) {
	var p Path
	i := 0
	expectKey := true
	for i < len(s) {
		switch s[i] {
		case '.':
			if expectKey {
				return nil, fmt.Errorf("invalid path %q: empty key at offset %d", s, i)
			}
			expectKey = true
			i++
		case '[':
			end := i + 1
			if end < len(s) && s[end] == '"' {
				j := end + 1
				for j < len(s) && s[j] != '"' {
					if s[j] == '\\' {
						j++
					}
					j++
				}
				if j+1 >= len(s) || s[j+1] != ']' {
					return nil, fmt.Errorf("invalid path %q: unterminated quoted key at offset %d", s, i)
				}
				key, err := strconv.Unquote(s[end : j+1])
				if err != nil {
					return nil, fmt.Errorf("invalid path %q: %w", s, err)
				}
				p = append(p, key)
				i = j + 2
			} else if strings.HasPrefix(s[i:], "[*]") {
				p = append(p, Wildcard)
				i += 3
			} else {
				j := strings.IndexByte(s[i:], ']')
				if j < 0 {
					return nil, fmt.Errorf("invalid path %q: missing ']' at offset %d", s, i)
				}
				idx, err := strconv.Atoi(s[i+1 : i+j])
				if err != nil {
					return nil, fmt.Errorf("invalid path %q: bad index %q", s, s[i+1:i+j])
				}
				p = append(p, idx)
				i += j + 1
			}
			expectKey = false
		default:
			if !expectKey {
				return nil, fmt.Errorf("invalid path %q: unexpected %q at offset %d", s, s[i], i)
			}
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			p = append(p, s[i:j])
			i = j
			expectKey = false
		}
	}
	if expectKey && len(s) > 0 {
		return nil, fmt.Errorf("invalid path %q: trailing separator", s)
	}
	return p, nil
}

// MustParsePath is ParsePath for literals; it panics on malformed input.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	var b strings.Builder
	for i, e := range p {
		switch v := e.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", v)
		case string:
			if v == "" || strings.ContainsAny(v, ".[]\"") {
				b.WriteByte('[')
				b.WriteString(strconv.Quote(v))
				b.WriteByte(']')
				continue
			}
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v)
		case wildcard:
			b.WriteString("[*]")
		default:
			fmt.Fprintf(&b, "[<%T %v>]", e, e)
		}
	}
	return b.String()
}

// Append returns a new Path; p is left untouched.
func (p Path) Append(elems ...any) Path {
	out := make(Path, 0, len(p)+len(elems))
	out = append(out, p...)
	return append(out, elems...)
}

// HasPrefix reports whether q is a leading part of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// MatchesPrefix is HasPrefix where Wildcard elements of q match any element
// of p.
func (p Path) MatchesPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	for i := range q {
		if q[i] == Wildcard {
			continue
		}
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Parent drops the last element. The parent of the empty path is itself.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1 : len(p)-1]
}

// Last returns the last element, or nil for the empty path.
func (p Path) Last() any {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}
