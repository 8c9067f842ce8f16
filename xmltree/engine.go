// Package xmltree is the XML tree engine: it parses and serializes
// documents, evaluates namespaced XPath queries and performs the node
// mutations used by the document value operators.
package xmltree

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html/charset"

	"github.com/c360studio/termxml/terminology"
)

// Node is a node of the tree. Attribute nodes returned by Select are
// detached views whose Parent is the owning element.
type Node = xmlquery.Node

// Engine owns one document and the namespace mapping its queries are
// evaluated with. It is not safe for concurrent use.
type Engine struct {
	doc        *Node
	namespaces map[string]string
}

// ParseOptions controls parsing.
type ParseOptions struct {
	// Charset transcodes the input from the named encoding (for example
	// "iso-8859-1") before parsing. Empty means the document's own
	// declaration decides.
	Charset string
}

// Parse reads a document from r.
func Parse(r io.Reader, namespaces map[string]string) (*Engine, error) {
	return ParseWithOptions(r, namespaces, ParseOptions{})
}

// ParseWithOptions reads a document from r using opts.
func ParseWithOptions(r io.Reader, namespaces map[string]string, opts ParseOptions) (*Engine, error) {
	if opts.Charset != "" {
		converted, err := charset.NewReaderLabel(opts.Charset, r)
		if err != nil {
			return nil, fmt.Errorf("charset %q: %w", opts.Charset, err)
		}
		r = stripDeclaredEncoding(converted)
	}
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Engine{doc: doc, namespaces: copyNamespaces(namespaces)}, nil
}

// ParseString parses a document held in s.
func ParseString(s string, namespaces map[string]string) (*Engine, error) {
	return Parse(strings.NewReader(s), namespaces)
}

// ParseFile parses the document stored at path.
func ParseFile(path string, namespaces map[string]string, opts ParseOptions) (*Engine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	e, err := ParseWithOptions(f, namespaces, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// NewDocument creates a document holding only the root element of root,
// declaring its namespace and schema location.
func NewDocument(root *terminology.Term, namespaces map[string]string) (*Engine, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: no root term", ErrInvalidShape)
	}
	shape := root.Shape()
	if shape.IsAttribute() || shape.Text {
		return nil, fmt.Errorf("%w: root term %q is not an element", ErrInvalidShape, root.Name)
	}

	e := &Engine{
		doc:        &Node{Type: xmlquery.DocumentNode},
		namespaces: copyNamespaces(namespaces),
	}
	decl := &Node{
		Type: xmlquery.DeclarationNode,
		Data: "xml",
		Attr: []xmlquery.Attr{
			{Name: xmlName("", "version"), Value: "1.0"},
			{Name: xmlName("", "encoding"), Value: "UTF-8"},
		},
	}
	xmlquery.AddChild(e.doc, decl)

	el := &Node{Type: xmlquery.ElementNode, Data: shape.Name}
	uri := root.XMLNS
	if uri == "" && shape.Prefix != "" {
		uri = e.namespaces[shape.Prefix]
	}
	if uri != "" {
		el.NamespaceURI = uri
		el.Attr = append(el.Attr, xmlquery.Attr{Name: xmlName("", "xmlns"), Value: uri})
	}
	if root.Schema != "" {
		el.Attr = append(el.Attr,
			xmlquery.Attr{Name: xmlName("xmlns", "xsi"), Value: xsiNamespace},
			xmlquery.Attr{Name: xmlName("xsi", "schemaLocation"), Value: strings.TrimSpace(uri + " " + root.Schema)},
		)
	}
	for _, a := range shape.Attributes {
		el.SetAttr(a.Name, a.Value)
	}
	xmlquery.AddChild(e.doc, el)
	return e, nil
}

const xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Document returns the document node.
func (e *Engine) Document() *Node {
	return e.doc
}

// Root returns the document element, or nil for an empty document.
func (e *Engine) Root() *Node {
	for n := e.doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

// Namespaces returns a copy of the query namespace mapping.
func (e *Engine) Namespaces() map[string]string {
	return copyNamespaces(e.namespaces)
}

// Select evaluates query and returns the matches in document order.
func (e *Engine) Select(query string) ([]*Node, error) {
	expr, err := xpath.CompileWithNS(query, e.namespaces)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidQuery, query, err)
	}
	var nodes []*Node
	it := expr.Select(xmlquery.CreateXPathNavigator(e.doc))
	for it.MoveNext() {
		nav := it.Current().(*xmlquery.NodeNavigator)
		if nav.NodeType() != xpath.AttributeNode {
			nodes = append(nodes, nav.Current())
			continue
		}
		// xmlquery drops the prefix from attribute views; keep it so the
		// view still names one entry of its owner.
		attr := attributeView(nav.Current(), nav.LocalName(), nav.Value())
		attr.Prefix = nav.Prefix()
		attr.NamespaceURI = nav.NamespaceURL()
		nodes = append(nodes, attr)
	}
	return nodes, nil
}

// Count returns the number of nodes matched by query.
func (e *Engine) Count(query string) (int, error) {
	nodes, err := e.Select(query)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// XML serializes the whole document.
func (e *Engine) XML() string {
	return e.doc.OutputXML(true)
}

// WriteTo writes the serialized document to w.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.XML())
	return int64(n), err
}

func copyNamespaces(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// stripDeclaredEncoding wraps a transcoded stream so the XML declaration no
// longer names the original encoding, which would make the decoder try to
// convert a second time.
func stripDeclaredEncoding(r io.Reader) io.Reader {
	data, err := io.ReadAll(r)
	if err != nil {
		return errReader{err}
	}
	s := string(data)
	if strings.HasPrefix(s, "<?xml") {
		if end := strings.Index(s, "?>"); end > 0 {
			decl := s[:end]
			if i := strings.Index(decl, "encoding="); i > 0 {
				quote := decl[i+len("encoding=")]
				if j := strings.IndexByte(decl[i+len("encoding=")+1:], quote); j >= 0 {
					decl = decl[:i] + `encoding="UTF-8"` + decl[i+len("encoding=")+2+j:]
					s = decl + s[end:]
				}
			}
		}
	}
	return strings.NewReader(s)
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
