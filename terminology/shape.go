package terminology

import "strings"

// ShapeAttribute is a literal attribute set on a newly built element.
type ShapeAttribute struct {
	Name  string
	Value string
}

// NodeShape is the node-construction rule of a term: what to build when a
// value for the term is inserted into a document.
type NodeShape struct {
	// Prefix and Name describe the element to build. Both are empty for
	// attribute and text shapes.
	Prefix string
	Name   string

	// Attribute is set when the term addresses an attribute of the parent.
	Attribute string

	// Text is set for the text() node test.
	Text bool

	Attributes []ShapeAttribute

	// Content nests the element that receives the value, following the
	// default content path or a proxy chain.
	Content *NodeShape
}

// IsAttribute reports whether the shape sets an attribute on the parent.
func (s NodeShape) IsAttribute() bool {
	return s.Attribute != ""
}

// QualifiedName returns prefix:name, or name when there is no prefix.
func (s NodeShape) QualifiedName() string {
	if s.Prefix == "" {
		return s.Name
	}
	return s.Prefix + ":" + s.Name
}

// Shape returns the node-construction rule of t. Absence predicates do not
// produce attributes.
func (t *Term) Shape() NodeShape {
	switch {
	case t.Path.IsAttribute():
		return NodeShape{Attribute: t.Path.Value}
	case t.Path.IsText():
		return NodeShape{Text: true}
	}

	shape := NodeShape{Prefix: t.NamespacePrefix, Name: t.Path.Value}
	for _, a := range t.Attributes {
		if a.Absent {
			continue
		}
		shape.Attributes = append(shape.Attributes, ShapeAttribute{Name: a.Name, Value: a.Value})
	}
	if t.DefaultContentPath != "" {
		leaf := &shape
		for _, step := range strings.Split(t.DefaultContentPath, "/") {
			if step == "" || step == "." {
				continue
			}
			leaf.Content = &NodeShape{Prefix: t.NamespacePrefix, Name: step}
			leaf = leaf.Content
		}
	}
	return shape
}

// ShapeOf returns the construction rule of an entry. A proxy builds the
// whole chain of its target terms, nesting each in the previous one.
func ShapeOf(e Entry) (NodeShape, bool) {
	switch v := e.(type) {
	case *Term:
		return v.Shape(), true
	case *Proxy:
		chain, ok := v.Resolve()
		if !ok {
			return NodeShape{}, false
		}
		shape := chain[0].Shape()
		leaf := &shape
		for leaf.Content != nil {
			leaf = leaf.Content
		}
		for _, term := range chain[1:] {
			next := term.Shape()
			if leaf.IsAttribute() || leaf.Text {
				return NodeShape{}, false
			}
			leaf.Content = &next
			for leaf.Content != nil {
				leaf = leaf.Content
			}
		}
		return shape, true
	}
	return NodeShape{}, false
}
