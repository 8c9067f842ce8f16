package terminology

import "strings"

// noParent marks an entry without a parent term.
const noParent = -1

// Entry is a node of the terminology: a *Term or a *Proxy.
type Entry interface {
	entryName() string
	entryID() int
	parentID() int
}

// Term describes one addressable step of the tree.
type Term struct {
	Name               string
	Path               Path
	NamespacePrefix    string
	Attributes         Attributes
	DefaultContentPath string
	Label              string
	DataType           string

	// Root terms carry the document namespace and schema.
	IsRoot bool
	XMLNS  string
	Schema string

	id          int
	parent      int
	children    map[string]Entry
	order       []string
	terminology *Terminology

	xpath         string
	xpathRelative string
	constrained   *QueryTemplate
}

func (t *Term) entryName() string { return t.Name }
func (t *Term) entryID() int      { return t.id }
func (t *Term) parentID() int     { return t.parent }

// Parent returns the enclosing term, or nil for a top-level term.
func (t *Term) Parent() *Term {
	return t.terminology.termByID(t.parent)
}

// Terminology returns the registry that owns the term.
func (t *Term) Terminology() *Terminology {
	return t.terminology
}

// Child returns the direct child entry with the given name.
func (t *Term) Child(name string) (Entry, bool) {
	e, ok := t.children[name]
	return e, ok
}

// Children returns the direct children in declaration order.
func (t *Term) Children() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.children[name])
	}
	return out
}

// RetrieveTerm walks nested children by name starting below t.
func (t *Term) RetrieveTerm(names ...string) (Entry, bool) {
	return t.terminology.walk(t, names)
}

// HasChildren reports whether the term declares any children.
func (t *Term) HasChildren() bool {
	return len(t.children) > 0
}

// XPath returns the absolute query computed when the terminology was built.
func (t *Term) XPath() string {
	return t.xpath
}

// XPathRelative returns the relative query computed when the terminology was built.
func (t *Term) XPathRelative() string {
	return t.xpathRelative
}

// XPathConstrained returns the contains() query template computed when the
// terminology was built.
func (t *Term) XPathConstrained() *QueryTemplate {
	return t.constrained
}

// ContentPredicate returns a contains() predicate matching value against
// the term's default content path, or the node itself.
func (t *Term) ContentPredicate(value string) string {
	return "contains(" + t.contentTarget() + ", " + Literal(value) + ")"
}

func (t *Term) contentTarget() string {
	if t.DefaultContentPath == "" {
		return "."
	}
	return t.namespacedPath(t.DefaultContentPath)
}

// QualifiedName is the dotted chain of names from the top level down to t.
func (t *Term) QualifiedName() string {
	return t.terminology.qualifiedName(t)
}

// namespacedPath prefixes p with the term namespace when one is set.
func (t *Term) namespacedPath(p string) string {
	if t.NamespacePrefix == "" {
		return p
	}
	parts := strings.Split(p, "/")
	for i, part := range parts {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, ":@(") {
			continue
		}
		parts[i] = t.NamespacePrefix + ":" + part
	}
	return strings.Join(parts, "/")
}

// Proxy is an alias whose query is the concatenation of the terms named by
// its pointer, resolved from the proxy's location.
type Proxy struct {
	Name         string
	ProxyPointer []string
	Label        string

	id          int
	parent      int
	terminology *Terminology
}

func (p *Proxy) entryName() string { return p.Name }
func (p *Proxy) entryID() int      { return p.id }
func (p *Proxy) parentID() int     { return p.parent }

// Parent returns the enclosing term, or nil for a top-level proxy.
func (p *Proxy) Parent() *Term {
	return p.terminology.termByID(p.parent)
}

// QualifiedName is the dotted chain of names from the top level down to p.
func (p *Proxy) QualifiedName() string {
	return p.terminology.qualifiedName(p)
}

// Resolve returns the chain of terms named by the proxy pointer. ok is false
// when any name fails to resolve.
func (p *Proxy) Resolve() ([]*Term, bool) {
	return p.terminology.resolveProxy(p, nil)
}

// Target returns the last term of the proxy chain.
func (p *Proxy) Target() (*Term, bool) {
	chain, ok := p.Resolve()
	if !ok || len(chain) == 0 {
		return nil, false
	}
	return chain[len(chain)-1], true
}
