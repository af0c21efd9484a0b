package boxtree_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/engine/frame/boxtree"
)

func TestArenaLinksChildrenInOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.box")
	defer teardown()
	//
	arena := boxtree.NewArena()
	parent := arena.NewBox(boxtree.KindBlock)
	b := arena.NewBox(boxtree.KindText)
	c := arena.NewBox(boxtree.KindText)
	arena.AppendChild(parent, b)
	arena.AppendChild(parent, c)
	children := arena.Children(parent)
	if len(children) != 2 || children[0] != b || children[1] != c {
		t.Fatalf("expected children [%d %d], have %v", b, c, children)
	}
	if arena.Box(parent).FirstChild != b || arena.Box(parent).LastChild != c {
		t.Errorf("expected parent to link first child %d and last child %d", b, c)
	}
	if arena.Box(b).NextSib != c || arena.Box(c).PrevSib != b {
		t.Errorf("expected siblings %d and %d to link each other", b, c)
	}
	if arena.Box(b).Parent != parent || arena.Box(c).Parent != parent {
		t.Errorf("expected children to link back to parent %d", parent)
	}
}

func TestArenaInsertBefore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.box")
	defer teardown()
	//
	arena := boxtree.NewArena()
	parent := arena.NewBox(boxtree.KindBlock)
	b := arena.NewBox(boxtree.KindText)
	c := arena.NewBox(boxtree.KindText)
	arena.AppendChild(parent, b)
	arena.AppendChild(parent, c)
	d := arena.NewBox(boxtree.KindText)
	arena.InsertBefore(parent, c, d)
	children := arena.Children(parent)
	if len(children) != 3 || children[0] != b || children[1] != d || children[2] != c {
		t.Fatalf("expected children [%d %d %d], have %v", b, d, c, children)
	}
	front := arena.NewBox(boxtree.KindText)
	arena.InsertBefore(parent, b, front)
	if arena.Box(parent).FirstChild != front {
		t.Errorf("expected insertion before the first child to update the parent link")
	}
}

func TestArenaUnlinkKeepsBoxOwned(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.box")
	defer teardown()
	//
	arena := boxtree.NewArena()
	parent := arena.NewBox(boxtree.KindBlock)
	b := arena.NewBox(boxtree.KindText)
	c := arena.NewBox(boxtree.KindText)
	d := arena.NewBox(boxtree.KindText)
	arena.AppendChild(parent, b)
	arena.AppendChild(parent, c)
	arena.AppendChild(parent, d)
	arena.Unlink(c)
	children := arena.Children(parent)
	if len(children) != 2 || children[0] != b || children[1] != d {
		t.Fatalf("expected children [%d %d] after unlinking, have %v", b, d, children)
	}
	un := arena.Box(c)
	if un.Parent != boxtree.NullIndex || un.PrevSib != boxtree.NullIndex || un.NextSib != boxtree.NullIndex {
		t.Errorf("expected the unlinked box to carry no links")
	}
	if arena.Len() != 4 {
		t.Errorf("expected the unlinked box to stay arena-owned, have %d boxes", arena.Len())
	}
}

func TestArenaWalkIsPreOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.box")
	defer teardown()
	//
	arena := boxtree.NewArena()
	root := arena.NewBox(boxtree.KindBlock)
	a := arena.NewBox(boxtree.KindBlock)
	b := arena.NewBox(boxtree.KindBlock)
	aa := arena.NewBox(boxtree.KindText)
	arena.AppendChild(root, a)
	arena.AppendChild(root, b)
	arena.AppendChild(a, aa)
	var visited []boxtree.BoxIndex
	arena.Walk(root, func(i boxtree.BoxIndex) {
		visited = append(visited, i)
	})
	want := []boxtree.BoxIndex{root, a, aa, b}
	if len(visited) != len(want) {
		t.Fatalf("expected %d boxes visited, have %d", len(want), len(visited))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("expected visit %d to reach box %d, have %d", i, want[i], visited[i])
		}
	}
}

func TestArenaRefGoesStaleOnReset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.box")
	defer teardown()
	//
	arena := boxtree.NewArena()
	b := arena.NewBox(boxtree.KindReplaced)
	ref := arena.Ref(b)
	if !arena.Live(ref) {
		t.Fatalf("expected a fresh reference to be live")
	}
	arena.Reset()
	if arena.Live(ref) {
		t.Errorf("expected the reference to go stale after a reset")
	}
	// a new tree re-uses the index, but the generation separates them
	b2 := arena.NewBox(boxtree.KindReplaced)
	if b2 != b {
		t.Fatalf("expected the arena to re-use index %d, have %d", b, b2)
	}
	if arena.Live(ref) {
		t.Errorf("expected the old reference to stay stale for the new tree")
	}
	if !arena.Live(arena.Ref(b2)) {
		t.Errorf("expected a reference into the new tree to be live")
	}
}

func TestArenaRefOutOfBoundsIsNotLive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.frame.box")
	defer teardown()
	//
	arena := boxtree.NewArena()
	arena.NewBox(boxtree.KindBlock)
	if arena.Live(boxtree.Ref{Gen: arena.Generation(), Index: 99}) {
		t.Errorf("expected a reference beyond the arena to be dead")
	}
	if arena.Live(boxtree.Ref{Gen: arena.Generation(), Index: boxtree.NullIndex}) {
		t.Errorf("expected the null reference to be dead")
	}
}
