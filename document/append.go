package document

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/termxml/terminology"
	"github.com/c360studio/termxml/xmltree"
)

// AppendParams describes new nodes to insert.
type AppendParams struct {
	// ParentSelect is resolved to a candidate parent set; a raw query
	// pointer is used as is.
	ParentSelect terminology.Pointer

	// ParentIndex picks the parent from that set.
	ParentIndex NodeIndex

	// Template addresses the term whose node-construction rule builds
	// each new node.
	Template terminology.Pointer

	// Values holds one value per node to build.
	Values []string
}

// AppendResult reports where the nodes went.
type AppendResult struct {
	Parent   *xmltree.Node
	Inserted []*xmltree.Node
}

// TermValuesAppend builds one node per value from the template term and
// inserts each as the last child of the selected parent. A parent selection
// that matches nothing is ErrParentNotFound; an unresolved parent select or
// template is ErrUnresolvedPointer.
func (d *Document) TermValuesAppend(params AppendParams) (AppendResult, error) {
	res, err := d.termValuesAppend(params)
	d.record(OpAppend, err == nil, err)
	return res, err
}

func (d *Document) termValuesAppend(params AppendParams) (AppendResult, error) {
	query, parents, ok, err := d.selectPointer(params.ParentSelect)
	if err != nil {
		return AppendResult{}, err
	}
	if !ok {
		return AppendResult{}, fmt.Errorf("%w: parent select %s", ErrUnresolvedPointer, params.ParentSelect.String())
	}
	parent := params.ParentIndex.Pick(parents)
	if parent == nil {
		return AppendResult{}, fmt.Errorf("%w: %s at %s (%d matches)", ErrParentNotFound, query, params.ParentIndex, len(parents))
	}

	shape, ok := d.compiler.Shape(params.Template)
	if !ok {
		return AppendResult{}, fmt.Errorf("%w: template %s", ErrUnresolvedPointer, params.Template.String())
	}

	res := AppendResult{Parent: parent}
	for _, v := range params.Values {
		n, err := d.engine.Build(parent, shape, v)
		if err != nil {
			return res, fmt.Errorf("build %s: %w", params.Template.String(), err)
		}
		res.Inserted = append(res.Inserted, n)
	}
	d.metrics.Mutated(OpAppend, len(res.Inserted))
	d.logger.Debug("Appended values",
		slog.String("parent", query),
		slog.String("template", params.Template.String()),
		slog.Int("count", len(res.Inserted)))
	return res, nil
}
