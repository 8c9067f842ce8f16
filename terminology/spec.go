package terminology

// TermSpec declares one term (or proxy) before the terminology is built.
// It is the data shape produced by definition files.
type TermSpec struct {
	Name string `yaml:"name"`

	// Path defaults to a segment equal to Name.
	Path Path `yaml:"path,omitempty"`

	// NamespacePrefix overrides the builder's default prefix. NoNamespace
	// suppresses any prefix.
	NamespacePrefix string `yaml:"namespace_prefix,omitempty"`
	NoNamespace     bool   `yaml:"no_namespace,omitempty"`

	Attributes         Attributes `yaml:"attributes,omitempty"`
	DefaultContentPath string     `yaml:"default_content_path,omitempty"`
	Label              string     `yaml:"label,omitempty"`
	DataType           string     `yaml:"type,omitempty"`

	// Ref copies the path, namespace, default content path and children of
	// the term at this pointer. Fields set on the spec itself win.
	Ref []string `yaml:"ref,omitempty"`

	// Proxy turns the spec into a Proxy over these names.
	Proxy []string `yaml:"proxy,omitempty"`

	Root   bool   `yaml:"root,omitempty"`
	XMLNS  string `yaml:"xmlns,omitempty"`
	Schema string `yaml:"schema,omitempty"`

	Children []TermSpec `yaml:"children,omitempty"`
}

// Option customises a TermSpec created with Define.
type Option func(*TermSpec)

// Define declares a term.
func Define(name string, opts ...Option) TermSpec {
	spec := TermSpec{Name: name}
	for _, opt := range opts {
		opt(&spec)
	}
	return spec
}

// DefineProxy declares a proxy that splices the named terms in place of name.
func DefineProxy(name string, pointer ...string) TermSpec {
	return TermSpec{Name: name, Proxy: append([]string(nil), pointer...)}
}

// DefineRoot declares the document root term.
func DefineRoot(name string, opts ...Option) TermSpec {
	spec := Define(name, opts...)
	spec.Root = true
	return spec
}

// WithPath sets a literal element path.
func WithPath(segment string) Option {
	return func(s *TermSpec) { s.Path = Segment(segment) }
}

// WithAttributePath makes the term address an attribute.
func WithAttributePath(name string) Option {
	return func(s *TermSpec) { s.Path = Attribute(name) }
}

// WithNamespace sets the namespace prefix of the term.
func WithNamespace(prefix string) Option {
	return func(s *TermSpec) {
		s.NamespacePrefix = prefix
		s.NoNamespace = false
	}
}

// WithoutNamespace suppresses any namespace prefix on the term.
func WithoutNamespace() Option {
	return func(s *TermSpec) {
		s.NamespacePrefix = ""
		s.NoNamespace = true
	}
}

// WithAttribute adds an attribute equality predicate.
func WithAttribute(name, value string) Option {
	return func(s *TermSpec) {
		s.Attributes = append(s.Attributes, AttributePredicate{Name: name, Value: value})
	}
}

// WithoutAttribute adds a predicate requiring the attribute to be absent.
func WithoutAttribute(name string) Option {
	return func(s *TermSpec) {
		s.Attributes = append(s.Attributes, AttributePredicate{Name: name, Absent: true})
	}
}

// WithDefaultContentPath sets the sub-path searched by constrained queries.
func WithDefaultContentPath(p string) Option {
	return func(s *TermSpec) { s.DefaultContentPath = p }
}

// WithLabel sets a human readable label.
func WithLabel(label string) Option {
	return func(s *TermSpec) { s.Label = label }
}

// WithDataType records the data type of the term's values.
func WithDataType(dataType string) Option {
	return func(s *TermSpec) { s.DataType = dataType }
}

// WithRef makes the term inherit the definition found at the given pointer.
func WithRef(pointer ...string) Option {
	return func(s *TermSpec) { s.Ref = append([]string(nil), pointer...) }
}

// WithChildren nests term specs below the term.
func WithChildren(children ...TermSpec) Option {
	return func(s *TermSpec) { s.Children = append(s.Children, children...) }
}

// WithXMLNS sets the namespace URI declared by a root term.
func WithXMLNS(uri string) Option {
	return func(s *TermSpec) { s.XMLNS = uri }
}

// WithSchema sets the schema location declared by a root term.
func WithSchema(location string) Option {
	return func(s *TermSpec) { s.Schema = location }
}

// clone deep-copies the spec so refs can be expanded without aliasing.
func (s TermSpec) clone() TermSpec {
	out := s
	out.Attributes = append(Attributes(nil), s.Attributes...)
	out.Ref = append([]string(nil), s.Ref...)
	out.Proxy = append([]string(nil), s.Proxy...)
	if s.Children != nil {
		out.Children = make([]TermSpec, len(s.Children))
		for i, c := range s.Children {
			out.Children[i] = c.clone()
		}
	}
	return out
}
