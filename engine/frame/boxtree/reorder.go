package boxtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

// reorderOutOfFlow moves boxes out of normal flow to the box which
// establishes their containing block: fixed boxes to the tree root,
// absolutely positioned boxes to their nearest positioned ancestor.
// The subtree of a moved box moves with it, pseudo-element boxes
// included.
//
// Floats are not moved. They keep their document-order position and
// layout pulls them into per-formatting-context float lists.
func reorderOutOfFlow(arena *Arena, root BoxIndex) {
	type move struct {
		box BoxIndex
		to  BoxIndex
	}
	var moves []move
	arena.Walk(root, func(i BoxIndex) {
		if i == root {
			return
		}
		n := arena.Box(i)
		if n.Computed == nil {
			return
		}
		pos := n.Computed.Flow.Position
		switch {
		case pos.IsFixed():
			moves = append(moves, move{box: i, to: root})
		case pos.IsAbsolute():
			moves = append(moves, move{box: i, to: positionedAncestor(arena, i, root)})
		}
	})
	for _, m := range moves {
		if m.to == arena.Box(m.box).Parent {
			continue
		}
		tracer().Debugf("box %s re-anchors at %s", arena.Box(m.box), arena.Box(m.to))
		arena.Unlink(m.box)
		arena.AppendChild(m.to, m.box)
	}
}

// positionedAncestor finds the nearest ancestor box with a positioning
// other than static, or the tree root.
func positionedAncestor(arena *Arena, i BoxIndex, root BoxIndex) BoxIndex {
	for p := arena.Box(i).Parent; p != NullIndex; p = arena.Box(p).Parent {
		if p == root {
			break
		}
		n := arena.Box(p)
		if n.Computed != nil && n.Computed.Flow.Position.IsPositioned() {
			return p
		}
	}
	return root
}
