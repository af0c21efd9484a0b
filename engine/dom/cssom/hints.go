package cssom

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
	"github.com/npillmayer/weft/core/percent"
	"github.com/npillmayer/weft/engine/dom/style"
	"github.com/npillmayer/weft/engine/dom/style/css"
	"golang.org/x/net/html"
)

// Presentational hints are style assignments carried by markup attributes,
// e.g. width="320" on an img element. They rank above user agent styles
// and below every author style. Hints never pass through the style
// program machinery; they are written into the accumulated style
// directly.

// ApplyHints scans the attributes of an element for presentational hints
// and applies them to the accumulated style of the element's node.
func (c *Cascaded) ApplyHints(n *html.Node, seq uint32) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		val := strings.TrimSpace(attr.Val)
		if val == "" {
			continue
		}
		switch key {
		case "width":
			if !elementSizable(n.Data) {
				continue
			}
			if d, ok := attrDimen(val); ok {
				c.hint(PropWidth, seq, func(s *Style) { s.Dimens.W = d })
			}
		case "height":
			if !elementSizable(n.Data) {
				continue
			}
			if d, ok := attrDimen(val); ok {
				c.hint(PropHeight, seq, func(s *Style) { s.Dimens.H = d })
			}
		case "bgcolor":
			col := style.Property(val).Color()
			c.hint(PropBackgroundColor, seq, func(s *Style) { s.Visual.BgColor = col })
		case "align":
			if n.Data != "img" {
				continue
			}
			switch strings.ToLower(val) {
			case "left":
				c.hint(PropFloat, seq, func(s *Style) { s.Flow.Float = FloatLeft })
			case "right":
				c.hint(PropFloat, seq, func(s *Style) { s.Flow.Float = FloatRight })
			}
		case "border":
			if n.Data != "img" && n.Data != "table" {
				continue
			}
			if px, err := strconv.Atoi(val); err == nil && px >= 0 {
				d := css.SomeDimen(dimen.Dimen(px) * dimen.PX)
				c.hint(PropBorderTopWidth, seq, func(s *Style) { s.Spacing.BorderWidth[0] = d })
				c.hint(PropBorderRightWidth, seq, func(s *Style) { s.Spacing.BorderWidth[1] = d })
				c.hint(PropBorderBottomWidth, seq, func(s *Style) { s.Spacing.BorderWidth[2] = d })
				c.hint(PropBorderLeftWidth, seq, func(s *Style) { s.Spacing.BorderWidth[3] = d })
			}
		case "hspace":
			if n.Data != "img" {
				continue
			}
			if px, err := strconv.Atoi(val); err == nil && px >= 0 {
				d := css.SomeDimen(dimen.Dimen(px) * dimen.PX)
				c.hint(PropMarginLeft, seq, func(s *Style) { s.Spacing.Margins[3] = d })
				c.hint(PropMarginRight, seq, func(s *Style) { s.Spacing.Margins[1] = d })
			}
		case "vspace":
			if n.Data != "img" {
				continue
			}
			if px, err := strconv.Atoi(val); err == nil && px >= 0 {
				d := css.SomeDimen(dimen.Dimen(px) * dimen.PX)
				c.hint(PropMarginTop, seq, func(s *Style) { s.Spacing.Margins[0] = d })
				c.hint(PropMarginBottom, seq, func(s *Style) { s.Spacing.Margins[2] = d })
			}
		case "color":
			if n.Data != "font" {
				continue
			}
			col := style.Property(val).Color()
			c.hint(PropColor, seq, func(s *Style) { s.Text.Color = col })
		case "face":
			if n.Data != "font" {
				continue
			}
			if family := firstFontFamily(val); family != "" {
				c.hint(PropFontFamily, seq, func(s *Style) { s.Text.FontFamily = family })
			}
		}
	}
}

// hint writes one property directly, ranked at hints priority.
func (c *Cascaded) hint(prop PropertyID, seq uint32, write func(s *Style)) {
	pri := packPriority(OriginHints, false, [3]int{}, seq)
	if !pri.outranks(c.prio[prop]) {
		return
	}
	write(c.style)
	c.inherit[prop] = false
	c.prio[prop] = pri
}

// attrDimen parses an HTML attribute dimension: a bare count of pixels
// or a percentage.
func attrDimen(val string) (css.DimenT, bool) {
	if strings.HasSuffix(val, "%") {
		p, err := percent.FromString(val)
		if err != nil {
			return css.Dimen(), false
		}
		return css.Percentage(p), true
	}
	px, err := strconv.Atoi(val)
	if err != nil || px < 0 {
		return css.Dimen(), false
	}
	return css.SomeDimen(dimen.Dimen(px) * dimen.PX), true
}

var sizableElements = map[string]bool{
	"img":    true,
	"table":  true,
	"td":     true,
	"th":     true,
	"iframe": true,
	"video":  true,
	"canvas": true,
	"embed":  true,
	"object": true,
}

func elementSizable(tag string) bool {
	return sizableElements[strings.ToLower(tag)]
}
