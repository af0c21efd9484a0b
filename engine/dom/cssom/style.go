package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"image/color"
	"strconv"

	"github.com/npillmayer/weft/core"
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/style/css"
)

// ZIndexT is the value of CSS property "z-index". The zero value is "auto".
type ZIndexT struct {
	Z     int32
	IsSet bool
}

// ZIndex wraps an integer stacking level.
func ZIndex(z int32) ZIndexT {
	return ZIndexT{Z: z, IsSet: true}
}

func (z ZIndexT) String() string {
	if !z.IsSet {
		return "auto"
	}
	return strconv.Itoa(int(z.Z))
}

// ContentT is the value of CSS property "content". It only matters for the
// ::before and ::after pseudo-elements: a set content generates a box, the
// zero value ("normal" or "none") generates none. An empty but set text
// still generates an (empty) box.
type ContentT struct {
	Text  string
	IsSet bool
}

// Content wraps a generated-content string.
func Content(text string) ContentT {
	return ContentT{Text: text, IsSet: true}
}

func (ct ContentT) String() string {
	if !ct.IsSet {
		return "normal"
	}
	return strconv.Quote(ct.Text)
}

// GridLine denotes a grid placement for one side of an item. Explicit lines
// are numbered 1-based; Auto requests auto-placement for this side.
type GridLine struct {
	Line int32
	Auto bool
}

// AutoLine is the auto-placement request.
func AutoLine() GridLine {
	return GridLine{Auto: true}
}

// AtLine returns an explicit 1-based grid line.
func AtLine(n int32) GridLine {
	return GridLine{Line: n}
}

// TrackSize is one entry of a grid track list. Either D carries a fixed or
// percentage size, or Fr carries a positive fractional share.
type TrackSize struct {
	D  css.DimenT
	Fr css.Factor
}

// IsFr returns true for fractional (flexible) tracks.
func (t TrackSize) IsFr() bool {
	return t.Fr > 0
}

// Transform2D is an affine transformation given by CSS property "transform".
// Factors a..d scale and shear, tx/ty translate. Transforms affect painting
// only, never layout geometry.
type Transform2D struct {
	A, B, C, D css.Factor
	Tx, Ty     dimen.Dimen
}

// IdentityTransform returns the neutral transformation.
func IdentityTransform() *Transform2D {
	return &Transform2D{A: css.FactorBase, D: css.FactorBase}
}

// --- Property groups -------------------------------------------------------

// FlowStyles groups the properties which govern placement of a box within
// the normal flow, or its removal from it.
type FlowStyles struct {
	Position css.PositionT
	Float    FloatMode
	Clear    ClearMode
	ZIndex   ZIndexT
}

// DimenStyles groups the sizing properties of a box.
type DimenStyles struct {
	W         css.DimenT
	H         css.DimenT
	MinW      css.DimenT
	MinH      css.DimenT
	MaxW      css.DimenT
	MaxH      css.DimenT
	BorderBox bool // box-sizing: border-box ?
}

// SpacingStyles groups margins, padding and border widths, each in
// top/right/bottom/left order.
type SpacingStyles struct {
	Margins     [4]css.DimenT
	Padding     [4]css.DimenT
	BorderWidth [4]css.DimenT
}

// TextStyles groups the inherited text properties. This is the only group
// which propagates from parent to child during composition.
type TextStyles struct {
	FontFamily string
	FontSize   css.DimenT
	FontStyle  string
	FontWeight int32
	LineHeight css.DimenT
	Color      color.Color
}

// VisualStyles groups painting properties without influence on layout.
type VisualStyles struct {
	BgColor         color.Color
	BackgroundImage string // URL; empty = none
	Opacity         css.Factor
	ObjectFit       ObjectFit
	Transform       *Transform2D // nil = none
}

// FlexStyles groups the properties of flex containers and flex items.
type FlexStyles struct {
	Direction  FlexDirection
	Wrap       FlexWrap
	Grow       css.Factor
	Shrink     css.Factor
	Basis      css.DimenT
	Justify    Justify
	AlignItems Align
	AlignSelf  Align
}

// GridStyles groups the properties of grid containers and grid items.
type GridStyles struct {
	TemplateCols []TrackSize
	TemplateRows []TrackSize
	AutoFlow     GridFlow
	RowStart     GridLine
	RowEnd       GridLine
	ColStart     GridLine
	ColEnd       GridLine
}

// Style is the computed style set of a single document node. Clients will
// get one from the cascade and hand it over to box generation. Fields are
// grouped by concern; only the Text group inherits.
type Style struct {
	Display css.DisplayMode
	Content ContentT
	Flow    FlowStyles
	Dimens  DimenStyles
	Spacing SpacingStyles
	Text    TextStyles
	Visual  VisualStyles
	Flex    FlexStyles
	Grid    GridStyles
}

// InitialStyle returns a style set with every property at its initial
// value. Note that the zero value of Style is not a legal style: several
// initial values are non-zero (opacity, flex-shrink, auto dimensions).
func InitialStyle() *Style {
	return &Style{
		Display: css.InlineMode | css.InnerInlineMode,
		Flow: FlowStyles{
			Position: css.Static(),
		},
		Dimens: DimenStyles{
			W:    css.Auto(),
			H:    css.Auto(),
			MinW: css.SomeDimen(0),
			MinH: css.SomeDimen(0),
			MaxW: css.Dimen(),
			MaxH: css.Dimen(),
		},
		Spacing: SpacingStyles{
			Margins:     [4]css.DimenT{css.SomeDimen(0), css.SomeDimen(0), css.SomeDimen(0), css.SomeDimen(0)},
			Padding:     [4]css.DimenT{css.SomeDimen(0), css.SomeDimen(0), css.SomeDimen(0), css.SomeDimen(0)},
			BorderWidth: [4]css.DimenT{css.SomeDimen(0), css.SomeDimen(0), css.SomeDimen(0), css.SomeDimen(0)},
		},
		Text: TextStyles{
			FontFamily: "serif",
			FontSize:   css.SomeDimen(12 * dimen.PT),
			FontStyle:  "normal",
			FontWeight: 400,
			LineHeight: css.Dimen(), // normal: lines advance proportionally to the font size
			Color:      color.Black,
		},
		Visual: VisualStyles{
			BgColor: color.Transparent,
			Opacity: css.FactorBase,
		},
		Flex: FlexStyles{
			Shrink:     css.FactorBase,
			Basis:      css.Auto(),
			AlignItems: AlignStretch,
		},
		Grid: GridStyles{
			RowStart: AutoLine(),
			RowEnd:   AutoLine(),
			ColStart: AutoLine(),
			ColEnd:   AutoLine(),
		},
	}
}

// Allocator bounds the memory the cascade may claim for styles. A nil
// allocator is unbounded. Composition of a styled subtree stops as soon as
// the budget is exhausted; the resulting error carries core.ENOMEM and
// voids the whole subtree, not just the node which hit the limit.
type Allocator struct {
	budget int64 // remaining bytes
}

// NewAllocator creates an allocator with a byte budget.
func NewAllocator(budget int64) *Allocator {
	return &Allocator{budget: budget}
}

const styleFootprint = 512 // coarse per-style accounting unit

// Claim reserves n bytes of the budget. A nil allocator always grants.
// Claim is used by the cascade for style sets and track lists, and by
// layout for grid bookkeeping arrays; a failed claim carries core.ENOMEM.
func (a *Allocator) Claim(n int64) error {
	if a == nil {
		return nil
	}
	if a.budget < n {
		return core.Error(core.ENOMEM, "style allocation exceeds budget")
	}
	a.budget -= n
	return nil
}

func (a *Allocator) claim(n int64) error {
	return a.Claim(n)
}

// Clone produces a deep copy of a style set, claiming space from alloc.
// Slices and pointer fields are duplicated, never shared, so that cascade
// and composition on the copy cannot write through to the original.
func (s *Style) Clone(alloc *Allocator) (*Style, error) {
	if s == nil {
		return nil, nil
	}
	if err := alloc.claim(styleFootprint); err != nil {
		return nil, err
	}
	c := *s
	if n := len(s.Grid.TemplateCols); n > 0 {
		if err := alloc.claim(int64(n) * 16); err != nil {
			return nil, err
		}
		c.Grid.TemplateCols = make([]TrackSize, n)
		copy(c.Grid.TemplateCols, s.Grid.TemplateCols)
	}
	if n := len(s.Grid.TemplateRows); n > 0 {
		if err := alloc.claim(int64(n) * 16); err != nil {
			return nil, err
		}
		c.Grid.TemplateRows = make([]TrackSize, n)
		copy(c.Grid.TemplateRows, s.Grid.TemplateRows)
	}
	if s.Visual.Transform != nil {
		t := *s.Visual.Transform
		c.Visual.Transform = &t
	}
	return &c, nil
}

// Styler is an interface for entities which carry a computed style set.
// Concrete tree implementations (styled tree, box tree) wrap their payload
// types to implement it.
type Styler interface {
	Styles() *Style
}
