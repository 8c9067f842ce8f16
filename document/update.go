package document

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/c360studio/termxml/terminology"
	"github.com/c360studio/termxml/xmltree"
)

// AppendIndex requests that a value be appended after the existing matches.
// Any negative index, or one at or past the match count, appends a new node.
const AppendIndex = -1

// IndexedValue is one value for a field, addressed by its 0-based position
// among the field's current matches.
type IndexedValue struct {
	Index int
	Value string

	// Delete removes the node at Index instead of updating it.
	Delete bool
}

// FieldUpdate carries the values for the nodes addressed by one pointer.
type FieldUpdate struct {
	Pointer terminology.Pointer
	Values  []IndexedValue
}

// Set returns an update writing value to the first match of p.
func Set(p terminology.Pointer, value string) FieldUpdate {
	return FieldUpdate{Pointer: p, Values: []IndexedValue{{Index: 0, Value: value}}}
}

// SetAll returns an update writing values to the matches of p in order,
// appending past the last existing match.
func SetAll(p terminology.Pointer, values ...string) FieldUpdate {
	u := FieldUpdate{Pointer: p}
	for i, v := range values {
		u.Values = append(u.Values, IndexedValue{Index: i, Value: v})
	}
	return u
}

// Append returns an update appending values after the matches of p.
func Append(p terminology.Pointer, values ...string) FieldUpdate {
	u := FieldUpdate{Pointer: p}
	for _, v := range values {
		u.Values = append(u.Values, IndexedValue{Index: AppendIndex, Value: v})
	}
	return u
}

// Remove returns an update deleting the matches of p at the given indexes.
func Remove(p terminology.Pointer, indexes ...int) FieldUpdate {
	u := FieldUpdate{Pointer: p}
	for _, i := range indexes {
		u.Values = append(u.Values, IndexedValue{Index: i, Delete: true})
	}
	return u
}

// Result maps each updated field key (see terminology.Pointer.FieldKey) to
// the index actually used, as a string, and the value applied there.
// Updates naming the same pointer share one entry.
type Result map[string]map[string]string

// UpdateValues applies updates in order. Indexes address the field's
// matches as they were before the update. Values at an existing index
// rewrite that node's text; values at AppendIndex or past the match count
// are appended below the first match of the pointer's parent, built from
// the pointer's term. Values equal to the current text are reported without
// touching the node. Every value is reported under the index its node holds
// among the field's matches once the update is done.
//
// A pointer that does not resolve, and a raw query pointer, are skipped and
// contribute nothing to the result. Deletions are applied after the other
// values of the same field and are not reported.
func (d *Document) UpdateValues(updates ...FieldUpdate) (Result, error) {
	result := make(Result)
	for _, u := range updates {
		applied, ok, err := d.updateField(u)
		if err != nil {
			d.record(OpUpdate, false, err)
			return result, fmt.Errorf("update %s: %w", u.Pointer.String(), err)
		}
		if !ok {
			continue
		}
		key := u.Pointer.FieldKey()
		if prev, seen := result[key]; seen {
			for k, v := range applied {
				prev[k] = v
			}
			continue
		}
		result[key] = applied
	}
	d.record(OpUpdate, true, nil)
	return result, nil
}

func (d *Document) updateField(u FieldUpdate) (map[string]string, bool, error) {
	if u.Pointer.IsRaw() {
		d.logger.Warn("Skipping update for raw query pointer", slog.String("query", u.Pointer.RawQuery()))
		return nil, false, nil
	}
	query, current, ok, err := d.selectPointer(u.Pointer)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		d.logger.Warn("Skipping update for unresolved pointer", slog.String("pointer", u.Pointer.String()))
		return nil, false, nil
	}

	type landed struct {
		node  *xmltree.Node
		value string
	}
	var written []landed
	var doomed []*xmltree.Node
	for _, iv := range u.Values {
		if iv.Delete {
			if iv.Index >= 0 && iv.Index < len(current) {
				doomed = append(doomed, current[iv.Index])
			}
			continue
		}

		if iv.Index < 0 || iv.Index >= len(current) {
			res, err := d.TermValuesAppend(AppendParams{
				ParentSelect: u.Pointer.Parent(),
				ParentIndex:  First,
				Template:     u.Pointer.Template(),
				Values:       []string{iv.Value},
			})
			if err != nil {
				return nil, false, err
			}
			written = append(written, landed{res.Inserted[0], iv.Value})
			continue
		}

		node := current[iv.Index]
		if xmltree.Text(node) != iv.Value {
			if err := d.engine.SetText(node, iv.Value); err != nil {
				return nil, false, err
			}
			d.metrics.Mutated(OpSet, 1)
			d.logger.Debug("Updated value", slog.String("query", query), slog.Int("index", iv.Index))
		}
		written = append(written, landed{node, iv.Value})
	}

	removed := 0
	for _, n := range doomed {
		if d.engine.Remove(n) {
			removed++
		}
	}
	if removed > 0 {
		d.metrics.Mutated(OpDelete, removed)
		d.logger.Debug("Deleted values", slog.String("query", query), slog.Int("count", removed))
	}

	// Report each value at the position it holds in the final document.
	final, err := d.engine.Select(query)
	if err != nil {
		return nil, false, err
	}
	applied := make(map[string]string, len(written))
	for _, w := range written {
		if i := xmltree.IndexOf(final, w.node); i >= 0 {
			applied[strconv.Itoa(i)] = w.value
		}
	}
	return applied, true, nil
}

// TermValueUpdate replaces the text of the node at index among the matches
// of selector. Unlike UpdateValues it never appends: a missing node is
// ErrNodeNotFound and an unresolved selector is ErrUnresolvedPointer.
func (d *Document) TermValueUpdate(selector terminology.Pointer, index int, value string) error {
	query, nodes, ok, err := d.selectPointer(selector)
	if err == nil && !ok {
		err = fmt.Errorf("%w: %s", ErrUnresolvedPointer, selector.String())
	}
	if err == nil && (index < 0 || index >= len(nodes)) {
		err = fmt.Errorf("%w: index %d of %s (%d matches)", ErrNodeNotFound, index, query, len(nodes))
	}
	if err == nil {
		err = d.engine.SetText(nodes[index], value)
	}
	d.record(OpSet, err == nil, err)
	if err != nil {
		return err
	}
	d.metrics.Mutated(OpSet, 1)
	d.logger.Debug("Updated value", slog.String("query", query), slog.Int("index", index))
	return nil
}

// Indexes returns the sorted indexes of a result entry, for callers that
// want to walk it in order.
func (r Result) Indexes(field string) []int {
	var out []int
	for k := range r[field] {
		if n, err := strconv.Atoi(k); err == nil {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}
