package stacking

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"sort"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/style/css"
	"github.com/npillmayer/weft/engine/frame/boxtree"
)

// Entry is one paint candidate of a stacking context: a box reference,
// its stacking level and its offset relative to the context root's
// content box.
type Entry struct {
	Box    boxtree.BoxIndex
	Z      int32
	Offset dimen.Point
}

// Context collects the paint candidates of one stacking context. The
// zero value is an empty context ready for use.
type Context struct {
	entries []Entry
	sorted  bool
}

// Add appends a paint candidate. Insertion order is document order and
// breaks z-index ties.
func (ctx *Context) Add(box boxtree.BoxIndex, z int32, offset dimen.Point) {
	ctx.entries = append(ctx.entries, Entry{Box: box, Z: z, Offset: offset})
	ctx.sorted = false
}

// Len returns the number of collected entries.
func (ctx *Context) Len() int {
	return len(ctx.entries)
}

// Sort brings the entries into paint order: ascending by stacking
// level, every negative level before every non-negative one, ties in
// insertion order. Sorting is stable and idempotent; empty and
// single-entry contexts are fine.
func (ctx *Context) Sort() {
	if !ctx.sorted {
		sort.SliceStable(ctx.entries, func(i, j int) bool {
			return ctx.entries[i].Z < ctx.entries[j].Z
		})
		ctx.sorted = true
	}
}

// Entries returns the collected entries, in paint order after Sort.
// The slice is owned by the context and valid for one paint pass.
func (ctx *Context) Entries() []Entry {
	return ctx.entries
}

// Establishes reports whether a box establishes a stacking context of
// its own: a positioned box with a numeric z-index, a box with opacity
// below one, or a transformed box.
func Establishes(n *boxtree.BoxNode) bool {
	if n == nil || n.Computed == nil {
		return false
	}
	if n.Computed.Flow.Position.IsPositioned() && n.Computed.Flow.ZIndex.IsSet {
		return true
	}
	if n.Computed.Visual.Opacity < css.FactorBase {
		return true
	}
	return n.Computed.Visual.Transform != nil
}

// zLevel returns the stacking level of a box within its context. Boxes
// without a numeric z-index paint at level zero.
func zLevel(n *boxtree.BoxNode) int32 {
	if n.Computed != nil && n.Computed.Flow.ZIndex.IsSet {
		return n.Computed.Flow.ZIndex.Z
	}
	return 0
}

// PaintOrder flattens the subtree rooted at root into one paint list.
// Nested stacking contexts are sorted on their own and spliced into the
// parent's order at their root's stacking level. The skip callback lets
// the caller drop voided subtrees; it may be nil.
func PaintOrder(arena *boxtree.Arena, root boxtree.BoxIndex, skip func(boxtree.BoxIndex) bool) []Entry {
	if arena == nil || arena.Box(root) == nil {
		return nil
	}
	order := paintContext(arena, root, skip)
	tracer().Debugf("paint order holds %d boxes", len(order))
	return order
}

// paintContext paints one stacking context: its root first, then its
// collected entries in sorted order, each entry either a plain box or a
// nested context expanded in place.
func paintContext(arena *boxtree.Arena, root boxtree.BoxIndex, skip func(boxtree.BoxIndex) bool) []Entry {
	ctx := &Context{}
	ctx.Add(root, 0, arena.Box(root).Box.TopL)
	for ci := arena.Box(root).FirstChild; ci != boxtree.NullIndex; ci = arena.Box(ci).NextSib {
		collect(arena, ci, arena.Box(root).Box.TopL, ctx, skip)
	}
	ctx.Sort()
	var order []Entry
	for _, e := range ctx.Entries() {
		if e.Box == root || !Establishes(arena.Box(e.Box)) {
			order = append(order, e)
			continue
		}
		for _, sub := range paintContext(arena, e.Box, skip) {
			sub.Offset.X += e.Offset.X - arena.Box(e.Box).Box.TopL.X
			sub.Offset.Y += e.Offset.Y - arena.Box(e.Box).Box.TopL.Y
			order = append(order, sub)
		}
	}
	return order
}

// collect gathers the boxes of one stacking context: plain boxes recurse,
// boxes establishing a nested context enter as a single entry and keep
// their subtree to themselves.
func collect(arena *boxtree.Arena, i boxtree.BoxIndex, origin dimen.Point, ctx *Context, skip func(boxtree.BoxIndex) bool) {
	n := arena.Box(i)
	if n == nil || (skip != nil && skip(i)) {
		return
	}
	offset := dimen.Point{X: origin.X + n.Box.TopL.X, Y: origin.Y + n.Box.TopL.Y}
	ctx.Add(i, zLevel(n), offset)
	if Establishes(n) {
		return
	}
	for ci := n.FirstChild; ci != boxtree.NullIndex; ci = arena.Box(ci).NextSib {
		collect(arena, ci, offset, ctx, skip)
	}
}
