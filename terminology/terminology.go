package terminology

import (
	"sort"
	"strings"
)

// Terminology is a registry of terms and proxies, indexed by name.
// It is immutable once built and safe for concurrent reads.
type Terminology struct {
	entries    []Entry
	top        map[string]Entry
	topOrder   []string
	roots      []*Term
	registry   map[string]Entry
	namespaces map[string]string
}

// RootTerms returns the terms flagged as document roots, in declaration order.
func (t *Terminology) RootTerms() []*Term {
	out := make([]*Term, len(t.roots))
	copy(out, t.roots)
	return out
}

// RootTerm returns the first root term, or nil when none is declared.
func (t *Terminology) RootTerm() *Term {
	if len(t.roots) == 0 {
		return nil
	}
	return t.roots[0]
}

// TopLevel returns the top-level entries in declaration order.
func (t *Terminology) TopLevel() []Entry {
	out := make([]Entry, 0, len(t.topOrder))
	for _, name := range t.topOrder {
		out = append(out, t.top[name])
	}
	return out
}

// Child returns the top-level entry with the given name.
func (t *Terminology) Child(name string) (Entry, bool) {
	e, ok := t.top[name]
	return e, ok
}

// RetrieveTerm walks nested children by name from the top level. Walking
// through a proxy continues from the proxy's target term. ok is false when
// any name is unknown.
func (t *Terminology) RetrieveTerm(names ...string) (Entry, bool) {
	return t.walk(nil, names)
}

// HasTerm reports whether RetrieveTerm would succeed.
func (t *Terminology) HasTerm(names ...string) bool {
	_, ok := t.RetrieveTerm(names...)
	return ok
}

// Lookup returns the entry registered under a dotted qualified name such as
// "name.first_name".
func (t *Terminology) Lookup(qualified string) (Entry, bool) {
	e, ok := t.registry[qualified]
	return e, ok
}

// Names returns every qualified name in the registry, sorted.
func (t *Terminology) Names() []string {
	out := make([]string, 0, len(t.registry))
	for name := range t.registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Terms returns every term depth-first in declaration order.
func (t *Terminology) Terms() []*Term {
	var out []*Term
	var visit func(entries []Entry)
	visit = func(entries []Entry) {
		for _, e := range entries {
			if term, ok := e.(*Term); ok {
				out = append(out, term)
				visit(term.Children())
			}
		}
	}
	visit(t.TopLevel())
	return out
}

// Namespaces returns the prefix to URI mapping used to evaluate queries.
func (t *Terminology) Namespaces() map[string]string {
	out := make(map[string]string, len(t.namespaces))
	for k, v := range t.namespaces {
		out[k] = v
	}
	return out
}

// scope is a location names are resolved against.
type scope interface {
	Child(name string) (Entry, bool)
}

func (t *Terminology) walk(from *Term, names []string) (Entry, bool) {
	if len(names) == 0 {
		return nil, false
	}
	var current scope = t
	if from != nil {
		current = from
	}
	var entry Entry
	for i, name := range names {
		e, ok := current.Child(name)
		if !ok {
			return nil, false
		}
		entry = e
		if i == len(names)-1 {
			break
		}
		switch v := e.(type) {
		case *Term:
			current = v
		case *Proxy:
			target, ok := v.Target()
			if !ok {
				return nil, false
			}
			current = target
		}
	}
	return entry, true
}

// location returns where an entry's names are resolved: its parent term or
// the terminology itself.
func (t *Terminology) location(e Entry) scope {
	if parent := t.termByID(e.parentID()); parent != nil {
		return parent
	}
	return t
}

// resolveProxy expands a proxy pointer. seen guards against proxies that
// lead back to themselves.
func (t *Terminology) resolveProxy(p *Proxy, seen map[int]bool) ([]*Term, bool) {
	if seen == nil {
		seen = make(map[int]bool)
	}
	if seen[p.id] {
		return nil, false
	}
	seen[p.id] = true

	current := t.location(p)
	chain := make([]*Term, 0, len(p.ProxyPointer))
	for _, name := range p.ProxyPointer {
		e, ok := current.Child(name)
		if !ok {
			return nil, false
		}
		switch v := e.(type) {
		case *Term:
			chain = append(chain, v)
			current = v
		case *Proxy:
			nested, ok := t.resolveProxy(v, seen)
			if !ok || len(nested) == 0 {
				return nil, false
			}
			chain = append(chain, nested...)
			current = nested[len(nested)-1]
		}
	}
	return chain, len(chain) > 0
}

func (t *Terminology) termByID(id int) *Term {
	if id < 0 || id >= len(t.entries) {
		return nil
	}
	term, _ := t.entries[id].(*Term)
	return term
}

func (t *Terminology) qualifiedName(e Entry) string {
	names := []string{e.entryName()}
	for parent := t.termByID(e.parentID()); parent != nil; parent = parent.Parent() {
		names = append(names, parent.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}
