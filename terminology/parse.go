package terminology

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePointer parses the textual pointer form written by Pointer.String:
//
//	person[1].first_name
//	person{first_name="Tim", last_name="Berners-Lee"}
//	name{"oxns:namePart[@type='date']"="2010"}
//
// Input starting with '/' or '(' is treated as a raw query.
func ParsePointer(s string) (Pointer, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Pointer{}, nil
	}
	if s[0] == '/' || s[0] == '(' {
		return Raw(s), nil
	}

	sc := &pointerScanner{src: s}
	var p Pointer
	for {
		el, err := sc.element()
		if err != nil {
			return Pointer{}, err
		}
		p.elements = append(p.elements, el)
		if sc.done() {
			return p, nil
		}
		switch sc.peek() {
		case '.':
			sc.pos++
		case '{':
			constraints, err := sc.constraints()
			if err != nil {
				return Pointer{}, err
			}
			if !sc.done() {
				return Pointer{}, sc.errorf("unexpected %q after constraints", sc.src[sc.pos:])
			}
			p.constraints = constraints
			return p, nil
		default:
			return Pointer{}, sc.errorf("unexpected %q", sc.peek())
		}
	}
}

// MustParsePointer is like ParsePointer but panics on error.
func MustParsePointer(s string) Pointer {
	p, err := ParsePointer(s)
	if err != nil {
		panic(err)
	}
	return p
}

type pointerScanner struct {
	src string
	pos int
}

func (sc *pointerScanner) done() bool { return sc.pos >= len(sc.src) }
func (sc *pointerScanner) peek() byte { return sc.src[sc.pos] }

func (sc *pointerScanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %q at offset %d: %s", ErrInvalidPointer, sc.src, sc.pos, fmt.Sprintf(format, args...))
}

func (sc *pointerScanner) skipSpace() {
	for !sc.done() && sc.peek() == ' ' {
		sc.pos++
	}
}

func isNameByte(c byte) bool {
	return c == '_' || c == '-' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (sc *pointerScanner) name() (string, error) {
	if !sc.done() && sc.peek() == ':' {
		sc.pos++
	}
	start := sc.pos
	for !sc.done() && isNameByte(sc.peek()) {
		sc.pos++
	}
	if start == sc.pos {
		return "", sc.errorf("expected a term name")
	}
	return sc.src[start:sc.pos], nil
}

func (sc *pointerScanner) element() (Element, error) {
	name, err := sc.name()
	if err != nil {
		return Element{}, err
	}
	if sc.done() || sc.peek() != '[' {
		return Name(name), nil
	}
	sc.pos++
	end := strings.IndexByte(sc.src[sc.pos:], ']')
	if end < 0 {
		return Element{}, sc.errorf("unterminated index")
	}
	index, err := strconv.Atoi(strings.TrimSpace(sc.src[sc.pos : sc.pos+end]))
	if err != nil || index < 0 {
		return Element{}, sc.errorf("index must be a non-negative integer")
	}
	sc.pos += end + 1
	return At(name, index), nil
}

func (sc *pointerScanner) quoted() (string, error) {
	rest := sc.src[sc.pos:]
	q, err := strconv.QuotedPrefix(rest)
	if err != nil {
		return "", sc.errorf("bad quoted string")
	}
	sc.pos += len(q)
	return strconv.Unquote(q)
}

func (sc *pointerScanner) constraints() ([]Constraint, error) {
	sc.pos++ // {
	var out []Constraint
	for {
		sc.skipSpace()
		if sc.done() {
			return nil, sc.errorf("unterminated constraints")
		}
		if sc.peek() == '}' {
			sc.pos++
			return out, nil
		}

		var c Constraint
		if sc.peek() == '"' {
			path, err := sc.quoted()
			if err != nil {
				return nil, err
			}
			c.Path = path
		} else {
			term, err := sc.name()
			if err != nil {
				return nil, err
			}
			c.Term = term
		}

		sc.skipSpace()
		if sc.done() || sc.peek() != '=' {
			return nil, sc.errorf("expected '='")
		}
		sc.pos++
		sc.skipSpace()
		if sc.done() {
			return nil, sc.errorf("expected a value")
		}
		if sc.peek() == '"' {
			v, err := sc.quoted()
			if err != nil {
				return nil, err
			}
			c.Value = v
		} else {
			start := sc.pos
			for !sc.done() && sc.peek() != ',' && sc.peek() != '}' {
				sc.pos++
			}
			c.Value = strings.TrimSpace(sc.src[start:sc.pos])
		}
		out = append(out, c)

		sc.skipSpace()
		if !sc.done() && sc.peek() == ',' {
			sc.pos++
		}
	}
}

// PointerFromValues normalizes loosely typed pointer input, such as values
// decoded from JSON or YAML, into a Pointer:
//
//   - a single string is a raw query;
//   - a string element is a term name (a leading ':' is dropped);
//   - a single-entry map is a name with an index (int or numeric string);
//   - a final map of a multi-element pointer is a constraint map, unless it
//     has exactly one entry whose value is an int.
//
// Constraint keys starting with ':' or made only of name characters refer
// to child terms; anything else is a literal sub-path.
func PointerFromValues(values ...any) (Pointer, error) {
	if len(values) == 1 {
		if s, ok := values[0].(string); ok {
			return Raw(s), nil
		}
	}

	var p Pointer
	for i, v := range values {
		last := i == len(values)-1
		switch el := v.(type) {
		case string:
			name := strings.TrimPrefix(el, ":")
			if name == "" {
				return Pointer{}, fmt.Errorf("%w: empty name at position %d", ErrInvalidPointer, i)
			}
			p.elements = append(p.elements, Name(name))
		case Element:
			p.elements = append(p.elements, el)
		case map[string]any:
			if last && len(values) > 1 && !isIndexMap(el) {
				constraints, err := constraintsFromMap(el)
				if err != nil {
					return Pointer{}, err
				}
				p.constraints = constraints
				continue
			}
			e, err := elementFromMap(el)
			if err != nil {
				return Pointer{}, fmt.Errorf("position %d: %w", i, err)
			}
			p.elements = append(p.elements, e)
		case map[string]string:
			m := make(map[string]any, len(el))
			for k, s := range el {
				m[k] = s
			}
			rest := append(append([]any(nil), values[:i]...), m)
			rest = append(rest, values[i+1:]...)
			return PointerFromValues(rest...)
		case map[string]int:
			m := make(map[string]any, len(el))
			for k, n := range el {
				m[k] = n
			}
			rest := append(append([]any(nil), values[:i]...), m)
			rest = append(rest, values[i+1:]...)
			return PointerFromValues(rest...)
		default:
			return Pointer{}, fmt.Errorf("%w: unsupported element %T at position %d", ErrInvalidPointer, v, i)
		}
	}
	return p, nil
}

func isIndexMap(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for _, v := range m {
		_, ok := v.(int)
		return ok
	}
	return false
}

func elementFromMap(m map[string]any) (Element, error) {
	if len(m) != 1 {
		return Element{}, fmt.Errorf("%w: indexed element needs exactly one entry, got %d", ErrInvalidPointer, len(m))
	}
	for k, v := range m {
		name := strings.TrimPrefix(k, ":")
		index, err := toIndex(v)
		if err != nil {
			return Element{}, fmt.Errorf("%w: %s: %v", ErrInvalidPointer, name, err)
		}
		return At(name, index), nil
	}
	return Element{}, ErrInvalidPointer
}

func toIndex(v any) (int, error) {
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if x != float64(int(x)) {
			return 0, fmt.Errorf("index %v is not an integer", x)
		}
		n = int(x)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("index %q is not an integer", x)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("unsupported index type %T", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("index %d is negative", n)
	}
	return n, nil
}

func constraintsFromMap(m map[string]any) ([]Constraint, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Constraint, 0, len(keys))
	for _, k := range keys {
		value := fmt.Sprint(m[k])
		if strings.HasPrefix(k, ":") || isName(k) {
			out = append(out, Contains(strings.TrimPrefix(k, ":"), value))
			continue
		}
		out = append(out, PathContains(k, value))
	}
	return out, nil
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}
