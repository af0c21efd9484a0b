package boxtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

// BoxIndex addresses a box within its owning arena.
type BoxIndex int32

// NullIndex marks the absence of a link.
const NullIndex BoxIndex = -1

// Arena is the single owning store for all boxes of one document. Boxes
// reference parent, children and siblings by index into the arena, never
// by pointer, so tearing down a box tree is a single drop of the arena
// and no box reference can outlive its tree.
//
// The generation counter separates the lifetimes of successive trees
// built into the same arena. Asynchronous clients capture a Ref and must
// re-validate it with Live before mutating a box: a fetch completing
// after the document has been replaced finds its reference stale and
// backs off.
//
// Arenas are owned by the content thread; access is single-threaded.
type Arena struct {
	nodes      []BoxNode
	generation uint32
}

// NewArena creates an empty arena, at generation 1.
func NewArena() *Arena {
	return &Arena{generation: 1}
}

// Reset drops all boxes and advances the generation. Weak references
// into the previous tree go stale.
func (a *Arena) Reset() {
	a.nodes = a.nodes[:0]
	a.generation++
}

// Generation returns the arena's current generation.
func (a *Arena) Generation() uint32 {
	return a.generation
}

// Len returns the number of boxes the arena owns, including boxes which
// have been unlinked from the tree.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Box accesses the box at a given index, or nil for an invalid index.
// The returned pointer is valid until the next call to NewBox, which may
// relocate the arena's backing store.
func (a *Arena) Box(i BoxIndex) *BoxNode {
	if i < 0 || int(i) >= len(a.nodes) {
		return nil
	}
	return &a.nodes[i]
}

// NewBox appends a fresh unlinked box to the arena and returns its index.
func (a *Arena) NewBox(kind Kind) BoxIndex {
	i := BoxIndex(len(a.nodes))
	a.nodes = append(a.nodes, BoxNode{
		Kind:       kind,
		Parent:     NullIndex,
		FirstChild: NullIndex,
		LastChild:  NullIndex,
		PrevSib:    NullIndex,
		NextSib:    NullIndex,
	})
	initBoxGeometry(&a.nodes[i])
	return i
}

// AppendChild links box child as the last child of parent. The child
// must be unlinked.
func (a *Arena) AppendChild(parent, child BoxIndex) {
	c := a.Box(child)
	p := a.Box(parent)
	if c == nil || p == nil {
		return
	}
	c.Parent = parent
	if p.FirstChild == NullIndex {
		p.FirstChild = child
		p.LastChild = child
		return
	}
	last := p.LastChild
	c.PrevSib = last
	a.Box(last).NextSib = child
	p.LastChild = child
}

// InsertBefore links box child directly before box sibling, which must
// already be a child of parent. The child must be unlinked.
func (a *Arena) InsertBefore(parent, sibling, child BoxIndex) {
	c := a.Box(child)
	s := a.Box(sibling)
	p := a.Box(parent)
	if c == nil || s == nil || p == nil || s.Parent != parent {
		return
	}
	c.Parent = parent
	c.NextSib = sibling
	c.PrevSib = s.PrevSib
	if s.PrevSib == NullIndex {
		p.FirstChild = child
	} else {
		a.Box(s.PrevSib).NextSib = child
	}
	s.PrevSib = child
}

// Unlink detaches a box from its parent and siblings. The box and its
// descendents stay owned by the arena; an unlinked box is simply no
// longer reachable from the tree root.
func (a *Arena) Unlink(child BoxIndex) {
	c := a.Box(child)
	if c == nil || c.Parent == NullIndex {
		return
	}
	p := a.Box(c.Parent)
	if c.PrevSib == NullIndex {
		p.FirstChild = c.NextSib
	} else {
		a.Box(c.PrevSib).NextSib = c.NextSib
	}
	if c.NextSib == NullIndex {
		p.LastChild = c.PrevSib
	} else {
		a.Box(c.NextSib).PrevSib = c.PrevSib
	}
	c.Parent = NullIndex
	c.PrevSib = NullIndex
	c.NextSib = NullIndex
}

// Children collects the child indices of a box, in document order.
func (a *Arena) Children(i BoxIndex) []BoxIndex {
	n := a.Box(i)
	if n == nil {
		return nil
	}
	var children []BoxIndex
	for ci := n.FirstChild; ci != NullIndex; ci = a.Box(ci).NextSib {
		children = append(children, ci)
	}
	return children
}

// ChildCount returns the number of children of a box.
func (a *Arena) ChildCount(i BoxIndex) int {
	n := a.Box(i)
	if n == nil {
		return 0
	}
	count := 0
	for ci := n.FirstChild; ci != NullIndex; ci = a.Box(ci).NextSib {
		count++
	}
	return count
}

// Walk calls visit for every box of the subtree rooted at start: parents
// before children, siblings in document order.
func (a *Arena) Walk(start BoxIndex, visit func(BoxIndex)) {
	if a.Box(start) == nil {
		return
	}
	visit(start)
	for ci := a.Box(start).FirstChild; ci != NullIndex; ci = a.Box(ci).NextSib {
		a.Walk(ci, visit)
	}
}

// Ref is a weak reference to a box, for hand-out to asynchronous clients.
// It stays copyable and comparable after the box tree is gone.
type Ref struct {
	Gen   uint32
	Index BoxIndex
}

// Ref creates a weak reference to a box of the current tree.
func (a *Arena) Ref(i BoxIndex) Ref {
	return Ref{Gen: a.generation, Index: i}
}

// Live checks whether a weak reference still points into the current
// tree. Callers must not touch a box through a reference which is not
// live; the box may belong to a discarded document.
func (a *Arena) Live(r Ref) bool {
	return r.Gen == a.generation && r.Index >= 0 && int(r.Index) < len(a.nodes)
}
