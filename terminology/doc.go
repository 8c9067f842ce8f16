// Package terminology describes named, hierarchical terms over an XML tree
// and compiles references to them into XPath queries.
//
// A Terminology is built once from TermSpec values (declared in Go with
// Define/DefineProxy or decoded from a YAML Definition) and is read-only
// afterwards, so it can be shared between goroutines for lookups.
//
// # Terms
//
// Each Term names one step in the tree. Its Path is either a literal
// element segment or a reference to an attribute:
//
//	Define("title_info", WithPath("titleInfo"), WithChildren(
//	    Define("main_title", WithPath("title")),
//	    Define("language", WithAttributePath("lang")),
//	))
//
// Attribute predicates narrow a step (`name[@type="personal"]`), absence
// predicates require an attribute to be missing (`not(@type)`), and a
// default content path names the sub-element searched by constrained
// queries.
//
// A Proxy is an alias that splices the paths of other terms in place of its
// own name. A term spec may also Ref another term, inheriting its path and
// children.
//
// # Pointers
//
// Callers address terms with a Pointer: an ordered list of names, each
// optionally carrying a 0-based index, with an optional trailing list of
// constraints compiled into contains() predicates:
//
//	p := NewPointer(At("person", 1), Name("first_name"))
//	query, ok, err := XPathWithIndexes(t, p)
//	// query == `//name[@type="personal"][2]/namePart[@type="given"]`
//
// A pointer that names an unknown term is not an error; XPathWithIndexes
// reports it with ok == false so optional fields can be skipped.
//
// # Registry
//
// Named terminologies can be registered process-wide with Register and
// looked up with Lookup. Built-in vocabularies register themselves in
// init().
package terminology
