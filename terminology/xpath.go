package terminology

import (
	"fmt"
	"strconv"
	"strings"
)

// RootSentinel is returned for an empty pointer when no root term is declared.
const RootSentinel = "/"

// RelativeXPath returns the query step of a single term: `@lang` for
// attribute terms, `text()[normalize-space(.)]` for the text node test and
// otherwise the (namespaced) segment, followed by one bracket holding the
// attribute predicates.
func RelativeXPath(t *Term) (string, error) {
	if err := t.Path.Validate(); err != nil {
		return "", fmt.Errorf("term %q: %w", t.Name, err)
	}

	var sb strings.Builder
	switch {
	case t.Path.IsAttribute():
		sb.WriteString("@")
		sb.WriteString(t.Path.Value)
	case t.Path.IsText():
		sb.WriteString(textFunction)
		sb.WriteString("[normalize-space(.)]")
	default:
		if t.NamespacePrefix != "" {
			sb.WriteString(t.NamespacePrefix)
			sb.WriteByte(':')
		}
		sb.WriteString(t.Path.Value)
	}

	if len(t.Attributes) > 0 {
		predicates := make([]string, 0, len(t.Attributes))
		for _, a := range t.Attributes {
			if a.Absent {
				predicates = append(predicates, "not(@"+a.Name+")")
				continue
			}
			predicates = append(predicates, "@"+a.Name+"="+Literal(a.Value))
		}
		sb.WriteByte('[')
		sb.WriteString(strings.Join(predicates, " and "))
		sb.WriteByte(']')
	}
	return sb.String(), nil
}

// AbsoluteXPath composes the relative queries of t and its ancestors,
// rooted with "//".
func AbsoluteXPath(t *Term) (string, error) {
	relative, err := RelativeXPath(t)
	if err != nil {
		return "", err
	}
	parent := t.Parent()
	if parent == nil {
		return "//" + relative, nil
	}
	prefix, err := AbsoluteXPath(parent)
	if err != nil {
		return "", err
	}
	return prefix + "/" + relative, nil
}

// ConstrainedXPath returns the absolute query of t with a contains()
// predicate whose value is left as a substitution slot. The searched path is
// the term's default content path, or the node itself.
func ConstrainedXPath(t *Term) (*QueryTemplate, error) {
	absolute, err := AbsoluteXPath(t)
	if err != nil {
		return nil, err
	}
	return newQueryTemplate(absolute, t.contentTarget()), nil
}

// AddPredicate conjoins predicate with the trailing bracket of query, or
// appends a new bracket when query does not end with one. A trailing bracket
// holding a bare position such as [2] is rewritten to position()=2 so the
// conjunction keeps its positional meaning.
func AddPredicate(query, predicate string) string {
	start, ok := trailingPredicate(query)
	if !ok {
		return query + "[" + predicate + "]"
	}
	existing := query[start+1 : len(query)-1]
	if isDigits(existing) {
		existing = "position()=" + existing
	}
	return query[:start+1] + existing + " and " + predicate + "]"
}

// AddNodeIndexPredicate appends a 1-based positional bracket for a 0-based
// index: AddNodeIndexPredicate("//titleInfo", 0) == "//titleInfo[1]".
func AddNodeIndexPredicate(query string, index int) string {
	return query + "[" + strconv.Itoa(index+1) + "]"
}

// AddPositionPredicate conjoins position()=index+1 using AddPredicate:
// AddPositionPredicate(`//titleInfo[@lang="fi"]`, 0) ==
// `//titleInfo[@lang="fi" and position()=1]`.
func AddPositionPredicate(query string, index int) string {
	return AddPredicate(query, "position()="+strconv.Itoa(index+1))
}

// Literal quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so values holding both quote kinds become a concat() call.
func Literal(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	args := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if part != "" {
			args = append(args, `"`+part+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

// XPathWithIndexes compiles a pointer against a terminology. ok is false
// when any name in the pointer (or in an expanded proxy, or a constraint
// term) does not resolve; err is reserved for configuration errors.
func XPathWithIndexes(t *Terminology, p Pointer) (query string, ok bool, err error) {
	if p.IsRaw() {
		return p.raw, true, nil
	}

	if len(p.elements) == 0 {
		root := t.RootTerm()
		if root == nil {
			return RootSentinel, true, nil
		}
		query, err = AbsoluteXPath(root)
		if err != nil {
			return "", false, err
		}
		if len(p.constraints) == 0 {
			return query, true, nil
		}
		return applyConstraints(query, root, p.constraints)
	}

	var sb strings.Builder
	sb.WriteString("//")
	keys := make([]string, 0, len(p.elements))
	var last *Term
	for i, el := range p.elements {
		keys = append(keys, el.Name)
		entry, found := t.RetrieveTerm(keys...)
		if !found {
			return "", false, nil
		}

		var relative string
		switch e := entry.(type) {
		case *Proxy:
			chain, resolved := e.Resolve()
			if !resolved {
				return "", false, nil
			}
			relative, err = chainXPath(chain)
			if err != nil {
				return "", false, err
			}
			last = chain[len(chain)-1]
		case *Term:
			relative, err = RelativeXPath(e)
			if err != nil {
				return "", false, err
			}
			if el.HasIndex {
				relative = AddNodeIndexPredicate(relative, el.Index)
			}
			last = e
		}

		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(relative)
	}

	query = sb.String()
	if len(p.constraints) == 0 {
		return query, true, nil
	}
	return applyConstraints(query, last, p.constraints)
}

// chainXPath joins the relative queries of a proxy chain with '/'.
func chainXPath(chain []*Term) (string, error) {
	parts := make([]string, 0, len(chain))
	for _, term := range chain {
		rel, err := RelativeXPath(term)
		if err != nil {
			return "", err
		}
		parts = append(parts, rel)
	}
	return strings.Join(parts, "/"), nil
}

// applyConstraints adds one contains() predicate per constraint, resolving
// constraint terms against the children of last.
func applyConstraints(query string, last *Term, constraints []Constraint) (string, bool, error) {
	functions := make([]string, 0, len(constraints))
	for _, c := range constraints {
		path := c.Path
		if c.Term != "" {
			child, found := last.Child(c.Term)
			if !found {
				return "", false, nil
			}
			switch e := child.(type) {
			case *Term:
				rel, err := RelativeXPath(e)
				if err != nil {
					return "", false, err
				}
				path = rel
			case *Proxy:
				chain, resolved := e.Resolve()
				if !resolved {
					return "", false, nil
				}
				rel, err := chainXPath(chain)
				if err != nil {
					return "", false, err
				}
				path = rel
			}
		}
		functions = append(functions, "contains("+path+", "+Literal(c.Value)+")")
	}
	return AddPredicate(query, strings.Join(functions, " and ")), true, nil
}

// trailingPredicate returns the index of the '[' matching a final ']'.
// Brackets inside quoted literals are ignored.
func trailingPredicate(query string) (int, bool) {
	if !strings.HasSuffix(query, "]") {
		return 0, false
	}
	depth := 0
	var quote byte
	for i := len(query) - 1; i >= 0; i-- {
		c := query[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case ']':
			depth++
		case '[':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
