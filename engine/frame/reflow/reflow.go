package reflow

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/locate/resources"
	"github.com/npillmayer/weft/engine/dom/style/css"
	"github.com/npillmayer/weft/engine/frame"
	"github.com/npillmayer/weft/engine/frame/boxtree"
	"github.com/npillmayer/weft/engine/frame/layout"
)

// Config bundles the collaborators of a coordinator.
type Config struct {
	// View is the viewport the document was laid out for.
	View layout.View

	// Layout carries the measurement and allocation parameters of layout
	// passes the coordinator triggers.
	Layout layout.Params

	// Fetcher starts resource fetches for replaced boxes. A nil fetcher
	// disables fetching; events may still be pushed from outside.
	Fetcher resources.Fetcher

	// BaseURL anchors relative resource locations of the document.
	BaseURL string

	// Repaint is called for every box which needs repainting after an
	// event, on the content thread. May be nil.
	Repaint func(boxtree.BoxIndex)
}

// Coordinator owns the reflow decision for one laid-out document: per
// completion event, either the box's reserved geometry stands and only a
// repaint is scheduled, or one re-layout pass runs, scoped to the box's
// nearest ancestor with explicit dimensions.
//
// All methods except the fetch callbacks must run on the content thread.
type Coordinator struct {
	arena    *boxtree.Arena
	root     boxtree.BoxIndex
	cfg      Config
	queue    *Queue
	result   *layout.Result
	pending  map[resources.Handle]boxtree.Ref
	resolved map[boxtree.Ref]bool
}

// New creates a coordinator for the box tree rooted at root. The tree is
// expected to have been laid out already; res is the result of that pass.
func New(arena *boxtree.Arena, root boxtree.BoxIndex, res *layout.Result, cfg Config) *Coordinator {
	return &Coordinator{
		arena:    arena,
		root:     root,
		cfg:      cfg,
		queue:    NewQueue(),
		result:   res,
		pending:  make(map[resources.Handle]boxtree.Ref),
		resolved: make(map[boxtree.Ref]bool),
	}
}

// Result returns the current layout result, including the outcomes of
// scoped re-layout passes.
func (co *Coordinator) Result() *layout.Result {
	return co.result
}

// Queue returns the coordinator's event inbox, for clients which deliver
// events of their own (font loading, external fetch subsystems).
func (co *Coordinator) Queue() *Queue {
	return co.queue
}

// FetchResources starts fetches for all replaced boxes of the tree which
// carry a resource location. Completion lands in the event queue; call
// Process to apply. Returns the number of fetches started.
func (co *Coordinator) FetchResources() int {
	if co.cfg.Fetcher == nil {
		return 0
	}
	started := 0
	co.arena.Walk(co.root, func(i boxtree.BoxIndex) {
		n := co.arena.Box(i)
		if n.Kind != boxtree.KindReplaced || n.Src == "" {
			return
		}
		ref := co.arena.Ref(i)
		if co.resolved[ref] {
			return
		}
		for _, inflight := range co.pending {
			if inflight == ref {
				return
			}
		}
		h := co.cfg.Fetcher.Retrieve(n.Src, co.cfg.BaseURL, func(ev resources.Event) {
			// fetch goroutine: only the queue may be touched here
			co.enqueueFetchEvent(ref, ev)
		})
		co.pending[h] = ref
		started++
	})
	tracer().Debugf("started %d resource fetches", started)
	return started
}

func (co *Coordinator) enqueueFetchEvent(ref boxtree.Ref, ev resources.Event) {
	if ev.Kind == resources.FetchFailed {
		co.queue.Push(Event{Kind: EvResourceFailed, Box: ref, Err: ev.Err})
		return
	}
	co.queue.Push(Event{Kind: EvResourceDone, Box: ref, Data: ev.Data})
}

// Pending returns the number of resource fetches in flight.
func (co *Coordinator) Pending() int {
	return len(co.pending)
}

// clearPending removes the fetch bookkeeping for a box whose completion
// event arrived.
func (co *Coordinator) clearPending(ref boxtree.Ref) {
	for h, inflight := range co.pending {
		if inflight == ref {
			delete(co.pending, h)
			return
		}
	}
}

// FontLoaded announces a newly registered font family. Boxes whose
// resolved font family references it will be scheduled for repaint on the
// next Process call. Font arrival is a paint-level correction: lines
// measured with a fallback font keep their breaks.
func (co *Coordinator) FontLoaded(family string) {
	co.queue.Push(Event{Kind: EvFontLoaded, Family: family})
}

// Teardown cancels all in-flight fetches. Queued events are dropped; the
// generation check makes late callbacks harmless anyway.
func (co *Coordinator) Teardown() {
	if co.cfg.Fetcher != nil {
		for h := range co.pending {
			co.cfg.Fetcher.Cancel(h)
		}
	}
	co.pending = make(map[resources.Handle]boxtree.Ref)
	co.queue.Drain()
}

// Process drains the event queue and applies each event. Must run on the
// content thread. Returns the number of events applied.
func (co *Coordinator) Process() int {
	events := co.queue.Drain()
	for _, ev := range events {
		co.apply(ev)
	}
	return len(events)
}

func (co *Coordinator) apply(ev Event) {
	tracer().Debugf("reflow event %s", ev.Kind)
	switch ev.Kind {
	case EvFontLoaded:
		co.repaintFontUsers(ev.Family)
	case EvResourceDone, EvResourceFailed:
		co.clearPending(ev.Box)
		if !co.arena.Live(ev.Box) {
			tracer().Infof("resource event for stale box dropped")
			return
		}
		if co.resolved[ev.Box] {
			return // second completion for a resolved box is a no-op
		}
		co.resolved[ev.Box] = true
		n := co.arena.Box(ev.Box.Index)
		if ev.Kind == EvResourceFailed {
			// fallback geometry stands, paint shows the placeholder
			tracer().Infof("resource for %v unavailable: %v", n, ev.Err)
			co.schedRepaint(ev.Box.Index)
			return
		}
		if n.Flags.Contains(boxtree.FlagDimensionKnown) {
			// reserved geometry stands, the resource draws into it
			co.schedRepaint(ev.Box.Index)
			return
		}
		w, h, _, err := resources.ProbeImage(ev.Data)
		if err != nil {
			tracer().Infof("resource for %v undecodable: %v", n, err)
			co.schedRepaint(ev.Box.Index)
			return
		}
		n.Box.FixContentWidth(dimen.Dimen(w) * dimen.PX)
		n.Box.FixContentHeight(dimen.Dimen(h) * dimen.PX)
		co.relayoutAround(ev.Box.Index)
	}
}

// relayoutAround runs exactly one layout pass scoped to the nearest
// ancestor of box i with explicit dimensions. Geometry above the scope
// root cannot change: the scope root's outer size is pinned by its
// specified dimensions (or it is the document root, whose containing
// block is the viewport).
func (co *Coordinator) relayoutAround(i boxtree.BoxIndex) {
	scope := co.scopeRoot(i)
	view := co.scopeView(scope)
	co.resetSubtree(scope, i)
	tracer().Debugf("scoped re-layout at %v", co.arena.Box(scope))
	res, err := layout.Layout(co.arena, scope, view, co.cfg.Layout)
	if err != nil {
		tracer().Errorf("scoped re-layout: %v", err)
	}
	if co.result != nil {
		co.result.Merge(res)
	} else {
		co.result = res
	}
	co.schedRepaintSubtree(scope)
}

// scopeRoot climbs the ancestor chain to the nearest box with explicit
// width and height, falling back to the document root.
func (co *Coordinator) scopeRoot(i boxtree.BoxIndex) boxtree.BoxIndex {
	for a := co.arena.Box(i).Parent; a != boxtree.NullIndex; a = co.arena.Box(a).Parent {
		if a == co.root || co.explicitDims(a) {
			return a
		}
	}
	return co.root
}

// explicitDims reports whether a box has specified, non-auto, non-percent
// width and height. Such a box isolates its interior: content changes
// below it cannot alter its outer size.
func (co *Coordinator) explicitDims(i boxtree.BoxIndex) bool {
	n := co.arena.Box(i)
	if n.Flags.Contains(boxtree.FlagDimensionKnown) {
		return true
	}
	if n.Computed == nil {
		return false
	}
	return n.Computed.Dimens.W.IsAbsolute() && n.Computed.Dimens.H.IsAbsolute()
}

// scopeView reconstructs the containing block for a scoped pass.
func (co *Coordinator) scopeView(scope boxtree.BoxIndex) layout.View {
	if scope == co.root {
		return co.cfg.View
	}
	parent := co.arena.Box(scope).Parent
	view := layout.View{Width: co.cfg.View.Width, Height: co.cfg.View.Height}
	if parent != boxtree.NullIndex {
		pbox := &co.arena.Box(parent).Box
		if w := pbox.ContentWidth(); w.IsAbsolute() {
			view.Width = w.Unwrap()
		}
		if h := pbox.ContentHeight(); h.IsAbsolute() {
			view.Height = h.Unwrap()
		}
	}
	return view
}

// resetSubtree sets the subtree below scope back to unmeasured so a new
// pass will descend into it. The replaced box which triggered the pass
// keeps its state and its just-set intrinsic geometry.
func (co *Coordinator) resetSubtree(scope boxtree.BoxIndex, keep boxtree.BoxIndex) {
	co.arena.Walk(scope, func(ci boxtree.BoxIndex) {
		if ci == keep {
			return
		}
		n := co.arena.Box(ci)
		n.State = boxtree.Unmeasured
		resetGeometry(n)
	})
}

// resetGeometry re-opens the dimensions layout fixed in a previous pass,
// from the computed style. Specified values survive; auto goes back to
// auto.
func resetGeometry(n *boxtree.BoxNode) {
	if n.Computed == nil {
		n.Box.W = css.Auto()
		n.Box.H = css.Auto()
		return
	}
	n.Box.W = n.Computed.Dimens.W
	n.Box.H = n.Computed.Dimens.H
	n.Box.Min = frame.Size{W: n.Computed.Dimens.MinW, H: n.Computed.Dimens.MinH}
	n.Box.Max = frame.Size{W: n.Computed.Dimens.MaxW, H: n.Computed.Dimens.MaxH}
	for dir := 0; dir < 4; dir++ {
		n.Box.Margins[dir] = n.Computed.Spacing.Margins[dir]
		n.Box.Padding[dir] = n.Computed.Spacing.Padding[dir]
		n.Box.BorderWidth[dir] = n.Computed.Spacing.BorderWidth[dir]
	}
}

// repaintFontUsers schedules a repaint for every box whose font family
// list references the loaded family. No layout runs: line breaks made
// with the fallback font stand.
func (co *Coordinator) repaintFontUsers(family string) {
	family = strings.ToLower(strings.TrimSpace(family))
	if family == "" {
		return
	}
	co.arena.Walk(co.root, func(i boxtree.BoxIndex) {
		n := co.arena.Box(i)
		if n.Computed == nil {
			return
		}
		if fontFamilyListed(n.Computed.Text.FontFamily, family) {
			co.schedRepaint(i)
		}
	})
}

// fontFamilyListed checks a CSS font-family list for a family name,
// case-insensitively.
func fontFamilyListed(list string, family string) bool {
	for _, name := range strings.Split(list, ",") {
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if strings.EqualFold(name, family) {
			return true
		}
	}
	return false
}

func (co *Coordinator) schedRepaint(i boxtree.BoxIndex) {
	if co.cfg.Repaint != nil {
		co.cfg.Repaint(i)
	}
}

func (co *Coordinator) schedRepaintSubtree(scope boxtree.BoxIndex) {
	if co.cfg.Repaint == nil {
		return
	}
	co.arena.Walk(scope, func(ci boxtree.BoxIndex) {
		co.cfg.Repaint(ci)
	})
}
