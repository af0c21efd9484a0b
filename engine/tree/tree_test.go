package tree_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/weft/engine/tree"
)

// buildTree creates this tree:
//
//	1
//	+--- 2
//	|    +--- 4
//	|    +--- 5
//	+--- 3
func buildTree() (root, n2, n3, n4, n5 *tree.Node[int]) {
	root = tree.NewNode(1)
	n2, n3 = tree.NewNode(2), tree.NewNode(3)
	n4, n5 = tree.NewNode(4), tree.NewNode(5)
	root.AddChild(n2).AddChild(n3)
	n2.AddChild(n4).AddChild(n5)
	return
}

func TestNodeChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.tree")
	defer teardown()
	//
	root, n2, n3, _, _ := buildTree()
	if root.ChildCount() != 2 {
		t.Errorf("expected root to have 2 children, has %d", root.ChildCount())
	}
	if ch, ok := root.Child(1); !ok || ch != n3 {
		t.Errorf("expected child #1 of root to be node 3, is %v", ch)
	}
	if root.IndexOfChild(n2) != 0 {
		t.Errorf("expected node 2 to be child #0 of root")
	}
	n2.Isolate()
	if _, ok := root.Child(0); ok {
		t.Errorf("expected child-slot #0 of root to be empty after isolating node 2")
	}
	if len(root.Children(true)) != 1 {
		t.Errorf("expected root to have 1 remaining child, has %d", len(root.Children(true)))
	}
}

func TestNodeInsertChild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.tree")
	defer teardown()
	//
	root := tree.NewNode(1)
	root.AddChild(tree.NewNode(2)).AddChild(tree.NewNode(4))
	root.InsertChildAt(1, tree.NewNode(3))
	values := []int{}
	for _, ch := range root.Children(true) {
		values = append(values, ch.Payload)
	}
	if len(values) != 3 || values[0] != 2 || values[1] != 3 || values[2] != 4 {
		t.Errorf("expected children to be [2 3 4], are %v", values)
	}
}

func TestWalkerEmptyTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.tree")
	defer teardown()
	//
	var empty *tree.Node[int]
	future := tree.NewWalker(empty).AllDescendents().Promise()
	nodes, err := future()
	if err != tree.ErrEmptyTree {
		t.Errorf("expected ErrEmptyTree, got %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("expected empty node selection, got %d nodes", len(nodes))
	}
}

func TestWalkerAllDescendents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.tree")
	defer teardown()
	//
	root, _, _, _, _ := buildTree()
	future := tree.NewWalker(root).AllDescendents().Promise()
	nodes, err := future()
	if err != nil {
		t.Error(err)
	}
	if len(nodes) != 4 { // start node is not part of the selection
		t.Errorf("expected walker to find 4 descendents, found %d", len(nodes))
	}
}

func TestWalkerTopDownOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.tree")
	defer teardown()
	//
	root, _, _, _, _ := buildTree()
	var visited []int
	action := func(n *tree.Node[int], parent *tree.Node[int], position int) (*tree.Node[int], error) {
		visited = append(visited, n.Payload)
		return n, nil
	}
	nodes, err := tree.NewWalker(root).TopDown(action).Promise()()
	if err != nil {
		t.Error(err)
	}
	if len(nodes) != 5 {
		t.Fatalf("expected 5 nodes from top-down walk, got %d", len(nodes))
	}
	if visited[0] != 1 {
		t.Errorf("expected root to be visited first, was %d", visited[0])
	}
	pos := map[int]int{}
	for i, v := range visited {
		pos[v] = i
	}
	if pos[2] > pos[4] || pos[2] > pos[5] || pos[1] > pos[3] {
		t.Errorf("parents must be visited before their children, order is %v", visited)
	}
}

func TestWalkerBottomUpRank(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.tree")
	defer teardown()
	//
	root, n2, _, _, _ := buildTree()
	future := tree.NewWalker(root).
		DescendentsWith(tree.NodeIsLeaf[int]()).
		BottomUp(tree.CalcRank[int]).
		Promise()
	if _, err := future(); err != nil {
		t.Error(err)
	}
	if n2.Rank != 3 {
		t.Errorf("expected node 2 to have rank 3, has %d", n2.Rank)
	}
	if root.Rank != 5 {
		t.Errorf("expected root to have rank 5 = total node count, has %d", root.Rank)
	}
}

func TestWalkerAncestorWith(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.tree")
	defer teardown()
	//
	root, _, _, n4, _ := buildTree()
	isRoot := func(test *tree.Node[int], node *tree.Node[int]) (*tree.Node[int], error) {
		if test.Parent() == nil {
			return test, nil
		}
		return nil, nil
	}
	nodes, err := tree.NewWalker(n4).AncestorWith(isRoot).Promise()()
	if err != nil {
		t.Error(err)
	}
	if len(nodes) != 1 || nodes[0] != root {
		t.Errorf("expected to find root as matching ancestor of node 4")
	}
}

func TestWalkerFilter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "weft.tree")
	defer teardown()
	//
	root, _, _, _, _ := buildTree()
	even := func(test *tree.Node[int], node *tree.Node[int]) (*tree.Node[int], error) {
		if test.Payload%2 == 0 {
			return test, nil
		}
		return nil, nil
	}
	nodes, err := tree.NewWalker(root).AllDescendents().Filter(even).Promise()()
	if err != nil {
		t.Error(err)
	}
	if len(nodes) != 2 {
		t.Errorf("expected 2 nodes with even payload, got %d", len(nodes))
	}
}
