package document

import (
	"log/slog"

	"github.com/c360studio/termxml/terminology"
	"github.com/c360studio/termxml/xmltree"
)

// DeleteParams selects the nodes to remove: either every match of Select,
// or the child at ChildIndex below the parent picked by ParentIndex from
// the matches of ParentSelect.
type DeleteParams struct {
	Select terminology.Pointer

	ParentSelect terminology.Pointer
	ParentIndex  NodeIndex
	ChildIndex   NodeIndex

	// ParentRoot uses the root term as the parent select. A zero
	// ParentSelect alone means no parent was given.
	ParentRoot bool
}

// TermValueDelete removes the selected nodes and returns how many were
// removed. Deleting a target that does not exist, or whose pointer does not
// resolve, removes nothing and is not an error.
func (d *Document) TermValueDelete(params DeleteParams) (int, error) {
	n, err := d.termValueDelete(params)
	d.record(OpDelete, err == nil, err)
	return n, err
}

func (d *Document) termValueDelete(params DeleteParams) (int, error) {
	var targets []*xmltree.Node
	switch {
	case !params.Select.IsZero():
		_, nodes, ok, err := d.selectPointer(params.Select)
		if err != nil {
			return 0, err
		}
		if !ok {
			d.logger.Debug("Delete select did not resolve", slog.String("pointer", params.Select.String()))
			return 0, nil
		}
		targets = nodes
	case !params.ParentSelect.IsZero() || params.ParentRoot:
		parentSelect := params.ParentSelect
		if params.ParentRoot {
			parentSelect = terminology.Pointer{}
		}
		_, parents, ok, err := d.selectPointer(parentSelect)
		if err != nil {
			return 0, err
		}
		if !ok {
			d.logger.Debug("Delete parent select did not resolve", slog.String("pointer", parentSelect.String()))
			return 0, nil
		}
		parent := params.ParentIndex.Pick(parents)
		if parent == nil {
			return 0, nil
		}
		if child := params.ChildIndex.Pick(xmltree.Children(parent)); child != nil {
			targets = []*xmltree.Node{child}
		}
	default:
		return 0, ErrNoSelection
	}

	removed := 0
	for _, n := range targets {
		if d.engine.Remove(n) {
			removed++
		}
	}
	d.metrics.Mutated(OpDelete, removed)
	if removed > 0 {
		d.logger.Debug("Deleted nodes", slog.Int("count", removed))
	}
	return removed, nil
}
