package terminology

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PathKind distinguishes the two shapes a term path can take.
type PathKind int

// Path kinds. PathUnset only appears in specs, where the builder replaces it
// with a segment equal to the term name.
const (
	PathUnset PathKind = iota
	PathSegment
	PathAttribute
)

// textFunction is the path treated as the XPath text node test.
const textFunction = "text()"

// Path is the step a term contributes to a query: a literal element segment
// or an attribute reference.
type Path struct {
	Kind  PathKind
	Value string
}

// Segment returns a literal element path.
func Segment(s string) Path {
	return Path{Kind: PathSegment, Value: s}
}

// Attribute returns a path that addresses the named attribute.
func Attribute(name string) Path {
	return Path{Kind: PathAttribute, Value: name}
}

// IsAttribute reports whether the path references an attribute.
func (p Path) IsAttribute() bool {
	return p.Kind == PathAttribute
}

// IsText reports whether the path is the text() node test.
func (p Path) IsText() bool {
	return p.Kind == PathSegment && p.Value == textFunction
}

// Validate checks that the path has a usable shape.
func (p Path) Validate() error {
	switch p.Kind {
	case PathSegment, PathAttribute:
		if p.Value == "" {
			return fmt.Errorf("%w: empty value", ErrInvalidPath)
		}
		return nil
	default:
		return fmt.Errorf("%w: kind %d", ErrInvalidPath, p.Kind)
	}
}

// String returns the path as it would appear in a definition file.
func (p Path) String() string {
	if p.Kind == PathAttribute {
		return "{attribute: " + p.Value + "}"
	}
	return p.Value
}

// UnmarshalYAML accepts either a scalar segment or an {attribute: name} mapping.
func (p *Path) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*p = Segment(value.Value)
		return nil
	case yaml.MappingNode:
		var m map[string]string
		if err := value.Decode(&m); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		name, ok := m["attribute"]
		if !ok || len(m) != 1 {
			return fmt.Errorf("%w: line %d: expected a string or {attribute: name}", ErrInvalidPath, value.Line)
		}
		*p = Attribute(name)
		return nil
	default:
		return fmt.Errorf("%w: line %d: expected a string or {attribute: name}", ErrInvalidPath, value.Line)
	}
}

// MarshalYAML writes the inverse of UnmarshalYAML.
func (p Path) MarshalYAML() (interface{}, error) {
	switch p.Kind {
	case PathAttribute:
		return map[string]string{"attribute": p.Value}, nil
	case PathSegment:
		return p.Value, nil
	default:
		return nil, nil
	}
}

// AttributePredicate constrains a step by one attribute. Absent predicates
// require the attribute to be missing.
type AttributePredicate struct {
	Name   string
	Value  string
	Absent bool
}

// Attributes is an ordered list of attribute predicates. In YAML it is a
// mapping whose null values mark absent attributes; declaration order is kept.
type Attributes []AttributePredicate

// UnmarshalYAML decodes a mapping while preserving key order.
func (a *Attributes) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("attributes: line %d: expected a mapping", value.Line)
	}
	out := make(Attributes, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("attributes: line %d: value of %q must be a scalar", v.Line, k.Value)
		}
		if v.ShortTag() == "!!null" {
			out = append(out, AttributePredicate{Name: k.Value, Absent: true})
			continue
		}
		out = append(out, AttributePredicate{Name: k.Value, Value: v.Value})
	}
	*a = out
	return nil
}

// MarshalYAML writes the attributes back as an ordered mapping.
func (a Attributes) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, attr := range a {
		val := &yaml.Node{Kind: yaml.ScalarNode, Value: attr.Value}
		if attr.Absent {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: attr.Name}, val)
	}
	return node, nil
}
