package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/termxml/xmltree"
)

type indexKind int

const (
	indexFirst indexKind = iota
	indexLast
	indexOrdinal
)

// NodeIndex picks one node out of a node set: the first, the last, or the
// node at a 0-based ordinal. The zero value is First.
type NodeIndex struct {
	kind indexKind
	n    int
}

// Node selection sentinels.
var (
	First = NodeIndex{kind: indexFirst}
	Last  = NodeIndex{kind: indexLast}
)

// Ordinal selects the node at the 0-based position n.
func Ordinal(n int) NodeIndex {
	return NodeIndex{kind: indexOrdinal, n: n}
}

// ParseNodeIndex accepts "first", "last" or a non-negative integer.
func ParseNodeIndex(s string) (NodeIndex, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, ":"))) {
	case "", "first":
		return First, nil
	case "last":
		return Last, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return NodeIndex{}, fmt.Errorf("node index %q: want first, last or a non-negative integer", s)
	}
	return Ordinal(n), nil
}

// Pick returns the selected node, or nil when the set has no such node.
func (i NodeIndex) Pick(nodes []*xmltree.Node) *xmltree.Node {
	if len(nodes) == 0 {
		return nil
	}
	switch i.kind {
	case indexLast:
		return nodes[len(nodes)-1]
	case indexOrdinal:
		if i.n < 0 || i.n >= len(nodes) {
			return nil
		}
		return nodes[i.n]
	default:
		return nodes[0]
	}
}

func (i NodeIndex) String() string {
	switch i.kind {
	case indexLast:
		return "last"
	case indexOrdinal:
		return strconv.Itoa(i.n)
	default:
		return "first"
	}
}
