package xmltree

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/c360studio/termxml/terminology"
)

func xmlName(space, local string) xml.Name {
	return xml.Name{Space: space, Local: local}
}

// Text returns the text content of n: all descendant text for elements, the
// value for attributes.
func Text(n *Node) string {
	if n == nil {
		return ""
	}
	return n.InnerText()
}

// IsAttribute reports whether n is an attribute view returned by Select.
func IsAttribute(n *Node) bool {
	return n != nil && n.Type == xmlquery.AttributeNode
}

// Children returns the element children of n.
func Children(n *Node) []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Build constructs the node described by shape below parent, with value as
// its text content, and returns it. Element shapes are inserted as the last
// child of parent; attribute shapes set the attribute on parent; text
// shapes append a text node.
func (e *Engine) Build(parent *Node, shape terminology.NodeShape, value string) (*Node, error) {
	if parent == nil {
		return nil, ErrNoParent
	}
	if IsAttribute(parent) {
		return nil, fmt.Errorf("%w: cannot build below attribute %q", ErrInvalidShape, parent.Data)
	}

	switch {
	case shape.IsAttribute():
		parent.SetAttr(shape.Attribute, value)
		return attributeView(parent, shape.Attribute, value), nil
	case shape.Text:
		text := &Node{Type: xmlquery.TextNode, Data: value}
		xmlquery.AddChild(parent, text)
		return text, nil
	case shape.Name == "":
		return nil, fmt.Errorf("%w: element shape without a name", ErrInvalidShape)
	}

	el, err := e.element(parent, shape)
	if err != nil {
		return nil, err
	}
	xmlquery.AddChild(parent, el)

	if shape.Content == nil {
		setText(el, value)
		return el, nil
	}
	if _, err := e.Build(el, *shape.Content, value); err != nil {
		xmlquery.RemoveFromTree(el)
		return nil, err
	}
	return el, nil
}

// element creates a detached element for shape, choosing the prefix the
// document already uses for the shape's namespace.
func (e *Engine) element(parent *Node, shape terminology.NodeShape) (*Node, error) {
	el := &Node{Type: xmlquery.ElementNode, Data: shape.Name}
	if shape.Prefix != "" {
		uri, ok := e.namespaces[shape.Prefix]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPrefix, shape.Prefix)
		}
		el.NamespaceURI = uri
		prefix, declared := declaredPrefix(parent, uri)
		if !declared {
			prefix = shape.Prefix
			el.Attr = append(el.Attr, xmlquery.Attr{Name: xmlName("xmlns", prefix), Value: uri})
		}
		el.Prefix = prefix
	} else if parent.Type == xmlquery.ElementNode && parent.Prefix == "" {
		// Unprefixed elements stay in the default namespace in scope.
		el.NamespaceURI = parent.NamespaceURI
	}
	for _, a := range shape.Attributes {
		el.SetAttr(a.Name, a.Value)
	}
	return el, nil
}

// declaredPrefix finds the prefix bound to uri in scope at n. The empty
// prefix is returned for the default namespace.
func declaredPrefix(n *Node, uri string) (string, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != xmlquery.ElementNode {
			continue
		}
		if cur.NamespaceURI == uri {
			return cur.Prefix, true
		}
		for _, a := range cur.Attr {
			if a.Value != uri {
				continue
			}
			switch {
			case a.Name.Space == "" && a.Name.Local == "xmlns":
				return "", true
			case a.Name.Space == "xmlns":
				return a.Name.Local, true
			}
		}
	}
	return "", false
}

// AppendChild moves child to the last position below parent.
func (e *Engine) AppendChild(parent, child *Node) error {
	if parent == nil {
		return ErrNoParent
	}
	if child.Parent != nil {
		xmlquery.RemoveFromTree(child)
	}
	xmlquery.AddChild(parent, child)
	return nil
}

// SetText replaces the text content of n. Element children are replaced by
// a single text node; attributes are rewritten on their owner.
func (e *Engine) SetText(n *Node, value string) error {
	switch n.Type {
	case xmlquery.AttributeNode:
		if n.Parent == nil {
			return fmt.Errorf("%w: detached attribute %q", ErrNoParent, n.Data)
		}
		i := attrIndex(n.Parent, n)
		if i < 0 {
			return fmt.Errorf("%w: attribute %q", ErrNoParent, attrKey(n))
		}
		n.Parent.Attr[i].Value = value
		text := &Node{Type: xmlquery.TextNode, Data: value}
		n.FirstChild, n.LastChild = text, text
	case xmlquery.TextNode, xmlquery.CharDataNode:
		n.Data = value
	case xmlquery.ElementNode:
		setText(n, value)
	default:
		return fmt.Errorf("%w: cannot set text of node type %d", ErrInvalidShape, n.Type)
	}
	return nil
}

// Remove detaches n from the tree. Attributes are removed from their owner.
// It reports whether anything was removed; removing a detached node is a
// no-op.
func (e *Engine) Remove(n *Node) bool {
	if n == nil || n.Parent == nil {
		return false
	}
	if n.Type == xmlquery.AttributeNode {
		owner := n.Parent
		i := attrIndex(owner, n)
		if i < 0 {
			return false
		}
		owner.Attr = append(owner.Attr[:i], owner.Attr[i+1:]...)
		n.Parent = nil
		return true
	}
	xmlquery.RemoveFromTree(n)
	n.Parent = nil
	return true
}

func setText(n *Node, value string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		xmlquery.RemoveFromTree(c)
		c = next
	}
	n.FirstChild, n.LastChild = nil, nil
	if value != "" {
		xmlquery.AddChild(n, &Node{Type: xmlquery.TextNode, Data: value})
	}
}

func attributeView(owner *Node, name, value string) *Node {
	text := &Node{Type: xmlquery.TextNode, Data: value}
	attr := &Node{Type: xmlquery.AttributeNode, Data: name, Parent: owner, FirstChild: text, LastChild: text}
	if i := strings.IndexByte(name, ':'); i > 0 {
		attr.Prefix, attr.Data = name[:i], name[i+1:]
	}
	return attr
}

func attrKey(n *Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

// attrIndex finds the entry of owner that the attribute view attr stands
// for: same local name, and the same prefix or namespace URI.
func attrIndex(owner *Node, attr *Node) int {
	for i, a := range owner.Attr {
		if a.Name.Local != attr.Data {
			continue
		}
		if a.Name.Space == attr.Prefix {
			return i
		}
		if attr.NamespaceURI != "" && a.NamespaceURI == attr.NamespaceURI {
			return i
		}
	}
	return -1
}

// IndexOf returns the position in nodes of target, or of the first node
// built below it, or -1. Attribute views match when they name the same
// attribute of the same owner.
func IndexOf(nodes []*Node, target *Node) int {
	if target == nil {
		return -1
	}
	if IsAttribute(target) {
		if target.Parent == nil {
			return -1
		}
		want := attrIndex(target.Parent, target)
		for i, n := range nodes {
			if IsAttribute(n) && n.Parent == target.Parent && want >= 0 && attrIndex(n.Parent, n) == want {
				return i
			}
		}
		return -1
	}
	for i, n := range nodes {
		if n == target {
			return i
		}
	}
	for i, n := range nodes {
		for cur := n.Parent; cur != nil; cur = cur.Parent {
			if cur == target {
				return i
			}
		}
	}
	return -1
}
