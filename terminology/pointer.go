package terminology

import (
	"strconv"
	"strings"
)

// Element is one step of a Pointer: a term name with an optional 0-based index.
type Element struct {
	Name     string
	Index    int
	HasIndex bool
}

// Name returns an element without an index.
func Name(name string) Element {
	return Element{Name: name}
}

// At returns an element selecting the index-th match (0-based).
func At(name string, index int) Element {
	return Element{Name: name, Index: index, HasIndex: true}
}

// Constraint requires the text below a sub-path to contain Value. Term names
// a child of the pointer's last term; Path is a literal sub-path used when
// Term is empty.
type Constraint struct {
	Term  string
	Path  string
	Value string
}

// Contains returns a constraint on the named child term.
func Contains(term, value string) Constraint {
	return Constraint{Term: term, Value: value}
}

// PathContains returns a constraint on a literal sub-path.
func PathContains(path, value string) Constraint {
	return Constraint{Path: path, Value: value}
}

// Pointer identifies a term and an optional positional or value filter.
// A pointer built with Raw carries an already compiled query instead.
// The zero Pointer addresses the root term.
type Pointer struct {
	raw         string
	elements    []Element
	constraints []Constraint
}

// NewPointer returns a pointer over the given elements.
func NewPointer(elements ...Element) Pointer {
	return Pointer{elements: append([]Element(nil), elements...)}
}

// Names returns a pointer of plain names.
func Names(names ...string) Pointer {
	elements := make([]Element, len(names))
	for i, n := range names {
		elements[i] = Name(n)
	}
	return Pointer{elements: elements}
}

// Raw returns a pointer that passes query through unchanged.
func Raw(query string) Pointer {
	return Pointer{raw: query}
}

// Where returns a copy of p with constraints appended.
func (p Pointer) Where(constraints ...Constraint) Pointer {
	out := p.clone()
	out.constraints = append(out.constraints, constraints...)
	return out
}

// IsRaw reports whether p carries a precompiled query.
func (p Pointer) IsRaw() bool {
	return p.raw != ""
}

// RawQuery returns the precompiled query of a raw pointer.
func (p Pointer) RawQuery() string {
	return p.raw
}

// IsZero reports whether p has no elements, constraints or raw query.
func (p Pointer) IsZero() bool {
	return p.raw == "" && len(p.elements) == 0 && len(p.constraints) == 0
}

// Elements returns a copy of the pointer's elements.
func (p Pointer) Elements() []Element {
	return append([]Element(nil), p.elements...)
}

// Constraints returns a copy of the trailing constraints.
func (p Pointer) Constraints() []Constraint {
	return append([]Constraint(nil), p.constraints...)
}

// Len returns the number of elements.
func (p Pointer) Len() int {
	return len(p.elements)
}

// TermNames returns the element names without indexes.
func (p Pointer) TermNames() []string {
	out := make([]string, len(p.elements))
	for i, e := range p.elements {
		out[i] = e.Name
	}
	return out
}

// Template returns the pointer reduced to plain names, identifying the term
// whose node-construction rule builds new nodes.
func (p Pointer) Template() Pointer {
	return Names(p.TermNames()...)
}

// Parent returns p without its last element and without constraints.
func (p Pointer) Parent() Pointer {
	if p.IsRaw() || len(p.elements) == 0 {
		return Pointer{}
	}
	return Pointer{elements: append([]Element(nil), p.elements[:len(p.elements)-1]...)}
}

// String renders p as `person[1].first_name{date="2010"}`, or the raw query.
// Parse accepts the same form.
func (p Pointer) String() string {
	if p.IsRaw() {
		return p.raw
	}
	var sb strings.Builder
	for i, e := range p.elements {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(e.Name)
		if e.HasIndex {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(e.Index))
			sb.WriteByte(']')
		}
	}
	p.writeConstraints(&sb)
	return sb.String()
}

func (p Pointer) writeConstraints(sb *strings.Builder) {
	if len(p.constraints) == 0 {
		return
	}
	sb.WriteByte('{')
	for i, c := range p.constraints {
		if i > 0 {
			sb.WriteString(", ")
		}
		if c.Term != "" {
			sb.WriteString(c.Term)
		} else {
			sb.WriteString(strconv.Quote(c.Path))
		}
		sb.WriteByte('=')
		sb.WriteString(strconv.Quote(c.Value))
	}
	sb.WriteByte('}')
}

// FieldKey returns the hierarchical field name, e.g. "person_1_first_name".
// Constraints follow in their String form, so pointers that differ only in
// constraints get distinct keys.
func (p Pointer) FieldKey() string {
	if p.IsRaw() {
		return p.raw
	}
	parts := make([]string, 0, len(p.elements)*2)
	for _, e := range p.elements {
		parts = append(parts, e.Name)
		if e.HasIndex {
			parts = append(parts, strconv.Itoa(e.Index))
		}
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(parts, "_"))
	p.writeConstraints(&sb)
	return sb.String()
}

func (p Pointer) clone() Pointer {
	return Pointer{
		raw:         p.raw,
		elements:    append([]Element(nil), p.elements...),
		constraints: append([]Constraint(nil), p.constraints...),
	}
}
