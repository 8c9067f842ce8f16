package terminology

import (
	"fmt"
	"strings"
)

// DefaultNamespacePrefix is the prefix bound to the root term's namespace
// unless the builder is told otherwise.
const DefaultNamespacePrefix = "oxns"

// defaultDataType is recorded for terms that do not declare one.
const defaultDataType = "string"

// Builder collects term specs and builds a Terminology.
type Builder struct {
	specs         []TermSpec
	namespaces    map[string]string
	defaultPrefix string
}

// NewBuilder creates a builder using DefaultNamespacePrefix.
func NewBuilder() *Builder {
	return &Builder{
		namespaces:    make(map[string]string),
		defaultPrefix: DefaultNamespacePrefix,
	}
}

// Add appends top-level term specs.
func (b *Builder) Add(specs ...TermSpec) *Builder {
	for _, s := range specs {
		b.specs = append(b.specs, s.clone())
	}
	return b
}

// Namespace maps a prefix to a namespace URI for query evaluation.
func (b *Builder) Namespace(prefix, uri string) *Builder {
	b.namespaces[prefix] = uri
	return b
}

// DefaultPrefix sets the prefix bound to the root term's namespace and
// applied to terms without their own prefix. An empty prefix disables it.
func (b *Builder) DefaultPrefix(prefix string) *Builder {
	b.defaultPrefix = prefix
	return b
}

// Build resolves references, registers every term and proxy and compiles
// the cached queries of every term. Configuration errors are returned
// immediately.
func (b *Builder) Build() (*Terminology, error) {
	t := &Terminology{
		top:        make(map[string]Entry),
		registry:   make(map[string]Entry),
		namespaces: make(map[string]string, len(b.namespaces)+1),
	}
	for k, v := range b.namespaces {
		t.namespaces[k] = v
	}

	prefix := ""
	if b.defaultPrefix != "" {
		for _, s := range b.specs {
			if s.Root && s.XMLNS != "" {
				if _, ok := t.namespaces[b.defaultPrefix]; !ok {
					t.namespaces[b.defaultPrefix] = s.XMLNS
				}
				break
			}
		}
		if t.namespaces[b.defaultPrefix] != "" {
			prefix = b.defaultPrefix
		}
	}

	for _, s := range b.specs {
		expanded, err := b.expand(s, nil)
		if err != nil {
			return nil, err
		}
		if _, err := t.add(expanded, nil, prefix); err != nil {
			return nil, err
		}
	}

	for _, term := range t.Terms() {
		if err := term.compile(); err != nil {
			return nil, fmt.Errorf("term %s: %w", term.QualifiedName(), err)
		}
	}
	return t, nil
}

// MustBuild is like Build but panics on error. It is meant for terminologies
// declared in Go source.
func (b *Builder) MustBuild() *Terminology {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

// expand replaces Ref with the referenced definition, recursively.
func (b *Builder) expand(spec TermSpec, stack []string) (TermSpec, error) {
	out := spec.clone()
	if len(spec.Ref) > 0 {
		key := strings.Join(spec.Ref, ".")
		for _, s := range stack {
			if s == key {
				return TermSpec{}, fmt.Errorf("%w: %s -> %s", ErrRefCycle, strings.Join(stack, " -> "), key)
			}
		}
		target, ok := findSpec(b.specs, spec.Ref)
		if !ok {
			return TermSpec{}, fmt.Errorf("term %q: %w: %s", spec.Name, ErrUnknownRef, key)
		}
		resolved, err := b.expand(target, append(stack, key))
		if err != nil {
			return TermSpec{}, err
		}
		out = mergeRef(spec, resolved)
	}
	for i, c := range out.Children {
		expanded, err := b.expand(c, stack)
		if err != nil {
			return TermSpec{}, err
		}
		out.Children[i] = expanded
	}
	return out, nil
}

// mergeRef overlays own on the referenced spec.
func mergeRef(own, target TermSpec) TermSpec {
	out := target.clone()
	if own.Path.Kind != PathUnset {
		out.Path = own.Path
	} else if out.Path.Kind == PathUnset {
		out.Path = Segment(target.Name)
	}
	out.Name = own.Name
	out.Ref = nil
	out.Root = own.Root
	out.XMLNS = own.XMLNS
	out.Schema = own.Schema
	if own.NamespacePrefix != "" || own.NoNamespace {
		out.NamespacePrefix = own.NamespacePrefix
		out.NoNamespace = own.NoNamespace
	}
	if len(own.Attributes) > 0 {
		out.Attributes = append(Attributes(nil), own.Attributes...)
	}
	if own.DefaultContentPath != "" {
		out.DefaultContentPath = own.DefaultContentPath
	}
	out.Label = own.Label
	if own.DataType != "" {
		out.DataType = own.DataType
	}
	if len(own.Proxy) > 0 {
		out.Proxy = append([]string(nil), own.Proxy...)
	}
	for _, c := range own.Children {
		replaced := false
		for i := range out.Children {
			if out.Children[i].Name == c.Name {
				out.Children[i] = c.clone()
				replaced = true
				break
			}
		}
		if !replaced {
			out.Children = append(out.Children, c.clone())
		}
	}
	return out
}

func findSpec(specs []TermSpec, names []string) (TermSpec, bool) {
	level := specs
	var found TermSpec
	for _, name := range names {
		ok := false
		for _, s := range level {
			if s.Name == name {
				found, ok = s, true
				break
			}
		}
		if !ok {
			return TermSpec{}, false
		}
		level = found.Children
	}
	return found, true
}

// add registers spec (and its children) below parent.
func (t *Terminology) add(spec TermSpec, parent *Term, prefix string) (Entry, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidTerm)
	}

	siblings, order := t.top, &t.topOrder
	parentID := noParent
	if parent != nil {
		siblings, order = parent.children, &parent.order
		parentID = parent.id
	}
	if _, dup := siblings[spec.Name]; dup {
		where := "top level"
		if parent != nil {
			where = parent.QualifiedName()
		}
		return nil, fmt.Errorf("%w: %q under %s", ErrDuplicateTerm, spec.Name, where)
	}

	if len(spec.Proxy) > 0 {
		if len(spec.Children) > 0 {
			return nil, fmt.Errorf("%w: proxy %q cannot declare children", ErrInvalidTerm, spec.Name)
		}
		p := &Proxy{
			Name:         spec.Name,
			ProxyPointer: append([]string(nil), spec.Proxy...),
			Label:        spec.Label,
			id:           len(t.entries),
			parent:       parentID,
			terminology:  t,
		}
		t.register(p, siblings, order)
		return p, nil
	}

	path := spec.Path
	if path.Kind == PathUnset {
		path = Segment(spec.Name)
	}
	if path.IsAttribute() && len(spec.Children) > 0 {
		return nil, fmt.Errorf("term %q: %w", spec.Name, ErrAttributeChildren)
	}

	ns := prefix
	switch {
	case spec.NoNamespace:
		ns = ""
	case spec.NamespacePrefix != "":
		ns = spec.NamespacePrefix
	}

	label := spec.Label
	if label == "" {
		label = strings.ReplaceAll(spec.Name, "_", " ")
	}
	dataType := spec.DataType
	if dataType == "" {
		dataType = defaultDataType
	}

	term := &Term{
		Name:               spec.Name,
		Path:               path,
		NamespacePrefix:    ns,
		Attributes:         append(Attributes(nil), spec.Attributes...),
		DefaultContentPath: spec.DefaultContentPath,
		Label:              label,
		DataType:           dataType,
		IsRoot:             spec.Root,
		XMLNS:              spec.XMLNS,
		Schema:             spec.Schema,
		id:                 len(t.entries),
		parent:             parentID,
		children:           make(map[string]Entry),
		terminology:        t,
	}
	t.register(term, siblings, order)
	if spec.Root {
		t.roots = append(t.roots, term)
	}

	for _, c := range spec.Children {
		if _, err := t.add(c, term, prefix); err != nil {
			return nil, err
		}
	}
	return term, nil
}

func (t *Terminology) register(e Entry, siblings map[string]Entry, order *[]string) {
	t.entries = append(t.entries, e)
	siblings[e.entryName()] = e
	*order = append(*order, e.entryName())
	t.registry[t.qualifiedName(e)] = e
}

// compile caches the term's generated queries.
func (t *Term) compile() error {
	rel, err := RelativeXPath(t)
	if err != nil {
		return err
	}
	abs, err := AbsoluteXPath(t)
	if err != nil {
		return err
	}
	constrained, err := ConstrainedXPath(t)
	if err != nil {
		return err
	}
	t.xpathRelative = rel
	t.xpath = abs
	t.constrained = constrained
	return nil
}
