package boxtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strconv"
	"strings"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/styledtree"
	"golang.org/x/net/html"
)

// replaced builds the box for a replaced element. Replaced boxes are
// atomic: the element's document children, if any, never produce boxes.
//
// The intrinsic-size pre-pass runs here, before any resource fetch: if
// the computed style supplies both a fixed, non-percentage width and
// height — from an author rule or from an equivalent width=/height=
// markup attribute — the box is flagged dimension-known and its geometry
// is reserved on the spot. Percentage dimensions never set the flag;
// their pixel value still depends on an ancestor's layout. The flag,
// once set, never depends on the fetch outcome.
//
// For img elements the source to fetch is selected here as well, once,
// and is not re-evaluated later.
func (b *builder) replaced(n *styledtree.StyNode, parent BoxIndex) {
	styles := n.Styles()
	self := b.arena.NewBox(KindReplaced)
	box := b.arena.Box(self)
	box.Display = styles.Display
	box.Computed = styles
	box.Styled = n
	attributeBox(box, styles)
	h := n.HTMLNode()
	box.Src = selectImageSource(h, targetWidth(styles, b.params.Viewport))
	if styles.Dimens.W.IsAbsolute() && styles.Dimens.H.IsAbsolute() {
		box.Flags |= FlagDimensionKnown
		tracer().Debugf("replaced <%s> has known dimensions %v x %v", h.Data,
			styles.Dimens.W, styles.Dimens.H)
	}
	b.arena.AppendChild(parent, self)
}

// targetWidth is the layout width responsive image selection aims for:
// the explicit width if styling fixes one, the viewport width otherwise.
func targetWidth(styles *cssom.Style, viewport dimen.Point) dimen.Dimen {
	if styles.Dimens.W.IsAbsolute() {
		return styles.Dimens.W.Unwrap()
	}
	return viewport.X
}

// srcCandidate is one parsed entry of an img srcset attribute.
type srcCandidate struct {
	url   string
	width dimen.Dimen // from the width descriptor, e.g. "480w"
}

// selectImageSource returns the image URL to fetch for an element: the
// srcset candidate whose width descriptor is the closest at or above
// target, the largest candidate when none reaches the target, or the
// plain src attribute when no candidate parses or none is supplied.
func selectImageSource(h *html.Node, target dimen.Dimen) string {
	src := attrValue(h, "src")
	candidates := parseSrcset(attrValue(h, "srcset"))
	if len(candidates) == 0 {
		return src
	}
	best := -1
	largest := 0
	for i, c := range candidates {
		if c.width > candidates[largest].width {
			largest = i
		}
		if c.width < target {
			continue
		}
		if best < 0 || c.width < candidates[best].width {
			best = i
		}
	}
	if best < 0 {
		best = largest
	}
	tracer().Debugf("srcset picks %q for a target width of %s",
		candidates[best].url, target)
	return candidates[best].url
}

// parseSrcset parses a srcset attribute: comma-separated candidates of
// the form "url <n>w". Only width descriptors are understood; candidates
// with a missing, malformed or density descriptor are skipped.
func parseSrcset(val string) []srcCandidate {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	var candidates []srcCandidate
	for _, entry := range strings.Split(val, ",") {
		fields := strings.Fields(entry)
		if len(fields) != 2 {
			continue
		}
		desc := fields[1]
		if !strings.HasSuffix(desc, "w") {
			continue
		}
		w, err := strconv.Atoi(strings.TrimSuffix(desc, "w"))
		if err != nil || w <= 0 {
			continue
		}
		candidates = append(candidates, srcCandidate{
			url:   fields[0],
			width: dimen.Dimen(w) * dimen.PX,
		})
	}
	return candidates
}

func attrValue(h *html.Node, key string) string {
	for _, attr := range h.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}
