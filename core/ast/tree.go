package ast

import (
	"sort"

	"fortio.org/safecast"
)

// Tree is an immutable syntax tree over one source buffer. Nodes are stored in
// document pre-order, so iterating Nodes visits every node exactly once.
type Tree struct {
	source string
	nodes  []Node
	// dropped counts payloads rejected for malformed spans.
	dropped int
}

// NewTree orders the payloads in document order and links each node to the
// innermost node whose span contains it. A Program root covering the whole
// source is added when the caller did not supply one. Payloads whose span is
// inverted or reaches past the end of source are dropped.
func NewTree(source string, payloads []Payload) *Tree {
	srcLen, err := safecast.Conv[uint32](len(source))
	if err != nil {
		srcLen = ^uint32(0)
	}

	type entry struct {
		p     Payload
		order int
	}
	entries := make([]entry, 0, len(payloads)+1)
	hasRoot := false
	dropped := 0
	for i, p := range payloads {
		if p == nil {
			dropped++
			continue
		}
		sp := p.NodeSpan()
		if !sp.Valid() || sp.End > srcLen {
			dropped++
			continue
		}
		if p.Kind() == KindProgram {
			if hasRoot {
				dropped++
				continue
			}
			hasRoot = true
		}
		entries = append(entries, entry{p: p, order: i + 1})
	}
	if !hasRoot {
		entries = append(entries, entry{p: &Program{Span: Span{Start: 0, End: srcLen}}, order: 0})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].p, entries[j].p
		ra, rb := kindRank(a.Kind()), kindRank(b.Kind())
		if ra == 0 || rb == 0 {
			return ra < rb
		}
		sa, sb := a.NodeSpan(), b.NodeSpan()
		if sa.Start != sb.Start {
			return sa.Start < sb.Start
		}
		if sa.End != sb.End {
			return sa.End > sb.End
		}
		if ra != rb {
			return ra < rb
		}
		return entries[i].order < entries[j].order
	})

	t := &Tree{source: source, nodes: make([]Node, len(entries)), dropped: dropped}
	var stack []NodeID
	for i, e := range entries {
		id := NodeID(i)
		parent := NoParent
		if i > 0 {
			sp := e.p.NodeSpan()
			for len(stack) > 1 && !t.nodes[stack[len(stack)-1]].Span().Contains(sp) {
				stack = stack[:len(stack)-1]
			}
			parent = stack[len(stack)-1]
		}
		t.nodes[i] = Node{ID: id, Parent: parent, Data: e.p}
		stack = append(stack, id)
	}
	return t
}

// kindRank puts the root first and a chain before the expression it wraps.
func kindRank(k Kind) int {
	switch k {
	case KindProgram:
		return 0
	case KindChainExpression:
		return 1
	}
	return 2
}

func (t *Tree) Source() string {
	return t.source
}

// Nodes returns the nodes in document order. The slice must not be modified.
func (t *Tree) Nodes() []Node {
	return t.nodes
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) Dropped() int {
	return t.dropped
}

func (t *Tree) Root() *Node {
	return &t.nodes[0]
}

func (t *Tree) Node(id NodeID) (*Node, bool) {
	if int(id) >= len(t.nodes) {
		return nil, false
	}
	return &t.nodes[id], true
}

func (t *Tree) Parent(id NodeID) (*Node, bool) {
	n, ok := t.Node(id)
	if !ok || n.Parent == NoParent {
		return nil, false
	}
	return t.Node(n.Parent)
}

func (t *Tree) ParentKind(id NodeID) (Kind, bool) {
	p, ok := t.Parent(id)
	if !ok {
		return 0, false
	}
	return p.Kind(), true
}

// SourceRange returns the exact source text covered by sp, or "" when the
// span is malformed or out of range.
func (t *Tree) SourceRange(sp Span) string {
	if !sp.Valid() || int(sp.End) > len(t.source) {
		return ""
	}
	return t.source[sp.Start:sp.End]
}
