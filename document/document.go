// Package document applies compiled terminology queries to a live XML
// document: reading term values and appending, updating or deleting nodes.
//
// Operators are synchronous and assume exclusive access to the document for
// the duration of a call. A Document carries no lock; callers sharing one
// across goroutines must serialize access.
package document

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/c360studio/termxml/compiler"
	"github.com/c360studio/termxml/metrics"
	"github.com/c360studio/termxml/terminology"
	"github.com/c360studio/termxml/xmltree"
)

// Engine is the tree engine the operators delegate to.
type Engine interface {
	Select(query string) ([]*xmltree.Node, error)
	Build(parent *xmltree.Node, shape terminology.NodeShape, value string) (*xmltree.Node, error)
	SetText(n *xmltree.Node, value string) error
	Remove(n *xmltree.Node) bool
	XML() string
}

// Operation names used in logs and metrics.
const (
	OpFind   = "find"
	OpValues = "term_values"
	OpUpdate = "update_values"
	OpAppend = "append"
	OpSet    = "update"
	OpDelete = "delete"
)

// Document binds a tree to the compiler of its terminology.
type Document struct {
	engine   Engine
	compiler *compiler.Compiler
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// WithMetrics records operations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Document) { d.metrics = m }
}

// New wraps an engine.
func New(engine Engine, c *compiler.Compiler, opts ...Option) *Document {
	d := &Document{engine: engine, compiler: c}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Parse reads a document from r, evaluating queries with the compiler's
// namespace mapping.
func Parse(r io.Reader, c *compiler.Compiler, opts ...Option) (*Document, error) {
	e, err := xmltree.Parse(r, c.Namespaces())
	if err != nil {
		return nil, err
	}
	return New(e, c, opts...), nil
}

// Open reads the document stored at path.
func Open(path string, c *compiler.Compiler, parse xmltree.ParseOptions, opts ...Option) (*Document, error) {
	e, err := xmltree.ParseFile(path, c.Namespaces(), parse)
	if err != nil {
		return nil, err
	}
	return New(e, c, opts...), nil
}

// NewBlank creates a document holding only the terminology's root element.
func NewBlank(c *compiler.Compiler, opts ...Option) (*Document, error) {
	e, err := xmltree.NewDocument(c.Terminology().RootTerm(), c.Namespaces())
	if err != nil {
		return nil, err
	}
	return New(e, c, opts...), nil
}

// Engine returns the underlying tree engine.
func (d *Document) Engine() Engine {
	return d.engine
}

// Compiler returns the pointer compiler.
func (d *Document) Compiler() *compiler.Compiler {
	return d.compiler
}

// XML serializes the document.
func (d *Document) XML() string {
	return d.engine.XML()
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.engine.XML())
	return int64(n), err
}

// FindByTerm returns the nodes matched by p. ok is false when p does not
// resolve against the terminology.
func (d *Document) FindByTerm(p terminology.Pointer) ([]*xmltree.Node, bool, error) {
	_, nodes, ok, err := d.selectPointer(p)
	d.record(OpFind, ok, err)
	return nodes, ok, err
}

// FindByTerms normalizes loosely typed pointer values with
// terminology.PointerFromValues and calls FindByTerm.
func (d *Document) FindByTerms(values ...any) ([]*xmltree.Node, bool, error) {
	p, err := terminology.PointerFromValues(values...)
	if err != nil {
		return nil, false, err
	}
	return d.FindByTerm(p)
}

// FindWithValue returns the nodes matched by p whose content contains
// value. The content searched is the default content path of the term p
// addresses, or the node itself. An empty value matches like FindByTerm.
func (d *Document) FindWithValue(p terminology.Pointer, value string) ([]*xmltree.Node, bool, error) {
	if value == "" || p.IsRaw() {
		return d.FindByTerm(p)
	}
	term, ok := d.targetTerm(p)
	if !ok {
		d.record(OpFind, false, nil)
		return nil, false, nil
	}
	query, ok, err := d.compiler.Compile(p)
	if err != nil || !ok {
		d.record(OpFind, ok, err)
		return nil, false, err
	}
	nodes, err := d.engine.Select(terminology.AddPredicate(query, term.ContentPredicate(value)))
	d.record(OpFind, err == nil, err)
	if err != nil {
		return nil, false, err
	}
	return nodes, true, nil
}

// TermValues returns the text of every node matched by p, in document
// order. ok is false when p does not resolve.
func (d *Document) TermValues(p terminology.Pointer) ([]string, bool, error) {
	_, nodes, ok, err := d.selectPointer(p)
	d.record(OpValues, ok, err)
	if err != nil || !ok {
		return nil, false, err
	}
	values := make([]string, len(nodes))
	for i, n := range nodes {
		values[i] = xmltree.Text(n)
	}
	return values, true, nil
}

// record counts one operation outcome.
func (d *Document) record(op string, ok bool, err error) {
	switch {
	case err != nil:
		d.metrics.Operation(op, metrics.OutcomeError)
	case !ok:
		d.metrics.Operation(op, metrics.OutcomeNoMatch)
	default:
		d.metrics.Operation(op, metrics.OutcomeOK)
	}
}

// targetTerm returns the term whose content p addresses; for a proxy this
// is the last term of its chain.
func (d *Document) targetTerm(p terminology.Pointer) (*terminology.Term, bool) {
	e, ok := d.compiler.Entry(p)
	if !ok {
		return nil, false
	}
	switch v := e.(type) {
	case *terminology.Term:
		return v, true
	case *terminology.Proxy:
		return v.Target()
	}
	return nil, false
}

// selectPointer compiles and evaluates p. ok is false when p does not
// resolve.
func (d *Document) selectPointer(p terminology.Pointer) (string, []*xmltree.Node, bool, error) {
	query, ok, err := d.compiler.Compile(p)
	if err != nil {
		return "", nil, false, err
	}
	if !ok {
		return "", nil, false, nil
	}
	nodes, err := d.engine.Select(query)
	if err != nil {
		return query, nil, false, fmt.Errorf("select %s: %w", query, err)
	}
	return query, nodes, true, nil
}
