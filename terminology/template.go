package terminology

import "strings"

// ConstraintSlot names the substitution slot of constrained query templates.
const ConstraintSlot = "constraint_value"

// slotMarker never occurs in generated queries; it is only used to split
// the template around the slot.
const slotMarker = "\x00" + ConstraintSlot + "\x00"

// QueryTemplate is a compiled query with one value slot. Apply fills the
// slot with a quoted literal, so callers never splice raw values into
// query text.
type QueryTemplate struct {
	head string
	tail string
}

func newQueryTemplate(absolute, target string) *QueryTemplate {
	q := AddPredicate(absolute, "contains("+target+", "+slotMarker+")")
	i := strings.Index(q, slotMarker)
	return &QueryTemplate{head: q[:i], tail: q[i+len(slotMarker):]}
}

// Slot returns the name of the substitution slot.
func (q *QueryTemplate) Slot() string {
	return ConstraintSlot
}

// Apply returns the query with value substituted as an XPath literal.
func (q *QueryTemplate) Apply(value string) string {
	return q.head + Literal(value) + q.tail
}

// String renders the template with a visible `{constraint_value}` slot.
func (q *QueryTemplate) String() string {
	return q.head + "{" + ConstraintSlot + "}" + q.tail
}
