// Package compiler compiles terminology pointers into XPath queries and
// caches the results.
package compiler

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/c360studio/termxml/metrics"
	"github.com/c360studio/termxml/terminology"
)

// DefaultCacheSize is the number of compiled pointers kept by default.
const DefaultCacheSize = 1024

type compiled struct {
	query string
	ok    bool
}

// Compiler turns pointers into queries against one terminology. It is safe
// for concurrent use.
type Compiler struct {
	terms     *terminology.Terminology
	cacheSize int
	cache     *lru.Cache[string, compiled]
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCacheSize sets the number of cached compilations. Zero disables the
// cache.
func WithCacheSize(n int) Option {
	return func(c *Compiler) { c.cacheSize = n }
}

// WithMetrics records compilations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Compiler) { c.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// New creates a compiler for terms.
func New(terms *terminology.Terminology, opts ...Option) (*Compiler, error) {
	if terms == nil {
		return nil, fmt.Errorf("compiler: terminology is required")
	}
	c := &Compiler{terms: terms, cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.cacheSize < 0 {
		return nil, fmt.Errorf("compiler: negative cache size %d", c.cacheSize)
	}
	if c.cacheSize > 0 {
		cache, err := lru.New[string, compiled](c.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("compiler: create cache: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// Terminology returns the terminology the compiler was built for.
func (c *Compiler) Terminology() *terminology.Terminology {
	return c.terms
}

// Namespaces returns the prefix mapping needed to evaluate compiled queries.
func (c *Compiler) Namespaces() map[string]string {
	return c.terms.Namespaces()
}

// Compile returns the query for p. ok is false when the pointer does not
// resolve against the terminology. Raw pointers pass through unchanged.
func (c *Compiler) Compile(p terminology.Pointer) (string, bool, error) {
	if p.IsRaw() {
		return p.RawQuery(), true, nil
	}

	key := p.String()
	if c.cache != nil {
		if hit, found := c.cache.Get(key); found {
			c.metrics.Compiled(metrics.ResultHit)
			return hit.query, hit.ok, nil
		}
	}

	query, ok, err := terminology.XPathWithIndexes(c.terms, p)
	if err != nil {
		c.metrics.Compiled(metrics.ResultError)
		return "", false, fmt.Errorf("compile %s: %w", key, err)
	}
	if !ok {
		c.metrics.Compiled(metrics.ResultNoMatch)
		c.logger.Debug("Pointer did not resolve", slog.String("pointer", key))
	} else {
		c.metrics.Compiled(metrics.ResultMiss)
	}
	if c.cache != nil {
		c.cache.Add(key, compiled{query: query, ok: ok})
	}
	return query, ok, nil
}

// CompileString parses s with terminology.ParsePointer and compiles it.
func (c *Compiler) CompileString(s string) (string, bool, error) {
	p, err := terminology.ParsePointer(s)
	if err != nil {
		return "", false, err
	}
	return c.Compile(p)
}

// Template returns the constrained query template of the term reached by
// names.
func (c *Compiler) Template(names ...string) (*terminology.QueryTemplate, bool) {
	e, ok := c.terms.RetrieveTerm(names...)
	if !ok {
		return nil, false
	}
	term, ok := e.(*terminology.Term)
	if !ok {
		return nil, false
	}
	return term.XPathConstrained(), true
}

// Entry returns the term or proxy addressed by p, ignoring indexes and
// constraints.
func (c *Compiler) Entry(p terminology.Pointer) (terminology.Entry, bool) {
	if p.IsRaw() || p.Len() == 0 {
		if root := c.terms.RootTerm(); root != nil && !p.IsRaw() {
			return root, true
		}
		return nil, false
	}
	return c.terms.RetrieveTerm(p.TermNames()...)
}

// Shape returns the node-construction rule of the entry addressed by p.
func (c *Compiler) Shape(p terminology.Pointer) (terminology.NodeShape, bool) {
	e, ok := c.Entry(p)
	if !ok {
		return terminology.NodeShape{}, false
	}
	return terminology.ShapeOf(e)
}

// Len returns the number of cached compilations.
func (c *Compiler) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// Purge drops every cached compilation.
func (c *Compiler) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}
