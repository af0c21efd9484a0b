package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/style/css"
)

// Origin classifies the source of a style rule. The cascade weighs
// declarations from different origins differently.
type Origin uint8

// Enum values for type Origin
const (
	OriginUserAgent Origin = iota + 1
	OriginUser
	OriginHints // presentational hints from markup attributes
	OriginAuthor
)

func (o Origin) String() string {
	switch o {
	case OriginUserAgent:
		return "user agent"
	case OriginUser:
		return "user"
	case OriginHints:
		return "markup hints"
	case OriginAuthor:
		return "author"
	}
	return "<unknown origin>"
}

// Priority is the rank of a declaration in the cascade, packed into a
// single word for cheap comparison:
//
//	bits 56…63  origin level, with importance folded in
//	bits 24…55  selector specificity
//	bits  0…23  source order
//
// A later declaration of equal rank wins, so "outranks" means >=.
type Priority uint64

func packPriority(origin Origin, important bool, spec [3]int, seq uint32) Priority {
	var level uint64
	switch origin {
	case OriginUserAgent:
		level = 1
		if important {
			level = 7
		}
	case OriginUser:
		level = 2
		if important {
			level = 6
		}
	case OriginHints:
		level = 3
	default:
		level = 4
		if important {
			level = 5
		}
	}
	s := clamp8(spec[0])<<16 | clamp8(spec[1])<<8 | clamp8(spec[2])
	if seq > 0xffffff {
		seq = 0xffffff
	}
	return Priority(level<<56 | s<<24 | uint64(seq))
}

func clamp8(n int) uint64 {
	if n < 0 {
		return 0
	}
	if n > 0xff {
		return 0xff
	}
	return uint64(n)
}

func (pri Priority) outranks(other Priority) bool {
	return pri >= other
}

// initial style singleton, read-only
var initialStyle = InitialStyle()

// Cascaded accumulates the declared values for a single document node
// while style rules are applied to it, in any order. It tracks, per
// property, the priority of the declaration which currently holds the
// property, so a later rule only takes a property it outranks it for.
//
// After all rules have been applied, Compose finalizes the node's style
// against the composed style of its parent.
type Cascaded struct {
	style   *Style
	alloc   *Allocator
	prio    [NumProperties]Priority
	inherit [NumProperties]bool
}

// StartCascade begins style accumulation for one document node. All
// properties start out at their initial values. alloc may be nil for
// unbounded allocation.
func StartCascade(alloc *Allocator) (*Cascaded, error) {
	if err := alloc.claim(styleFootprint); err != nil {
		return nil, err
	}
	return &Cascaded{style: InitialStyle(), alloc: alloc}, nil
}

// Style exposes the current accumulated style. Before Compose has run,
// inherited properties still hold initial values.
func (c *Cascaded) Style() *Style {
	return c.style
}

// Apply runs a compiled program against the accumulated style. origin and
// spec rank the program's declarations; seq is the source position of the
// rule, counted across all sheets of the document.
//
// Records which fail value decoding are dropped one by one, without
// affecting their neighbors. An exhausted allocation budget aborts the
// application and is returned to the caller.
func (c *Cascaded) Apply(prog *Program, origin Origin, spec [3]int, seq uint32) error {
	r := reader(prog)
	for {
		rec, ok := r.next()
		if !ok {
			break
		}
		if rec.prop <= PropNone || rec.prop >= NumProperties {
			tracer().Debugf("cascade drops record for unknown property %d", rec.prop)
			continue
		}
		pri := packPriority(origin, rec.important(), spec, seq)
		if !pri.outranks(c.prio[rec.prop]) {
			continue
		}
		applied, err := c.applyRecord(prog, rec)
		if err != nil {
			return err
		}
		if !applied {
			tracer().Debugf("cascade drops malformed record for %s", rec.prop)
			continue
		}
		c.prio[rec.prop] = pri
	}
	return nil
}

// applyRecord decodes one record's value and writes it into the style.
// Decoding is all-or-nothing: on a malformed value the style is left
// untouched and false is returned. The only error condition is an
// exhausted allocation budget.
func (c *Cascaded) applyRecord(prog *Program, rec record) (bool, error) {
	switch rec.tag {
	case tagInherit:
		c.inherit[rec.prop] = true
		return true, nil
	case tagInitial:
		c.inherit[rec.prop] = false
		return true, copyProperty(c.style, initialStyle, rec.prop, c.alloc)
	}
	s := c.style
	switch rec.prop {
	case PropDisplay:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok {
			return false, nil
		}
		s.Display = css.DisplayMode(v)
	case PropContent:
		switch rec.tag {
		case tagNone:
			s.Content = ContentT{}
		case tagString:
			v, ok := rec.word(0)
			if !ok {
				return false, nil
			}
			s.Content = Content(prog.lookup(v))
		default:
			return false, nil
		}
	case PropPosition:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > kwPositionSticky {
			return false, nil
		}
		off := s.Flow.Position.Offsets
		s.Flow.Position = positionForKeyword(v, off)
	case PropTop, PropRight, PropBottom, PropLeft:
		d, ok := dimenValue(rec)
		if !ok {
			return false, nil
		}
		s.Flow.Position.Offsets[sideIndex(rec.prop)] = d
	case PropFloat:
		v, ok := rec.word(0)
		if rec.tag == tagNone {
			v, ok = uint32(FloatNone), true
		} else if rec.tag != tagKeyword {
			ok = false
		}
		if !ok || v > uint32(FloatRight) {
			return false, nil
		}
		s.Flow.Float = FloatMode(v)
	case PropClear:
		v, ok := rec.word(0)
		if rec.tag == tagNone {
			v, ok = uint32(ClearNone), true
		} else if rec.tag != tagKeyword {
			ok = false
		}
		if !ok || v > uint32(ClearBoth) {
			return false, nil
		}
		s.Flow.Clear = ClearMode(v)
	case PropZIndex:
		switch rec.tag {
		case tagAuto:
			s.Flow.ZIndex = ZIndexT{}
		case tagInteger:
			v, ok := rec.word(0)
			if !ok {
				return false, nil
			}
			s.Flow.ZIndex = ZIndex(int32(v))
		default:
			return false, nil
		}
	case PropWidth:
		return c.setDimen(&s.Dimens.W, rec)
	case PropHeight:
		return c.setDimen(&s.Dimens.H, rec)
	case PropMinWidth:
		return c.setDimen(&s.Dimens.MinW, rec)
	case PropMinHeight:
		return c.setDimen(&s.Dimens.MinH, rec)
	case PropMaxWidth:
		return c.setDimen(&s.Dimens.MaxW, rec)
	case PropMaxHeight:
		return c.setDimen(&s.Dimens.MaxH, rec)
	case PropBoxSizing:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > 1 {
			return false, nil
		}
		s.Dimens.BorderBox = v == 1
	case PropMarginTop, PropMarginRight, PropMarginBottom, PropMarginLeft:
		return c.setDimen(&s.Spacing.Margins[sideIndex(rec.prop)], rec)
	case PropPaddingTop, PropPaddingRight, PropPaddingBottom, PropPaddingLeft:
		return c.setDimen(&s.Spacing.Padding[sideIndex(rec.prop)], rec)
	case PropBorderTopWidth, PropBorderRightWidth, PropBorderBottomWidth, PropBorderLeftWidth:
		return c.setDimen(&s.Spacing.BorderWidth[sideIndex(rec.prop)], rec)
	case PropColor:
		v, ok := rec.word(0)
		if rec.tag != tagColor || !ok {
			return false, nil
		}
		s.Text.Color = unpackRGBA(v)
	case PropBackgroundColor:
		v, ok := rec.word(0)
		if rec.tag != tagColor || !ok {
			return false, nil
		}
		s.Visual.BgColor = unpackRGBA(v)
	case PropBackgroundImage:
		switch rec.tag {
		case tagNone:
			s.Visual.BackgroundImage = ""
		case tagString:
			v, ok := rec.word(0)
			if !ok {
				return false, nil
			}
			s.Visual.BackgroundImage = prog.lookup(v)
		default:
			return false, nil
		}
	case PropOpacity:
		v, ok := rec.word(0)
		if rec.tag != tagFactor || !ok {
			return false, nil
		}
		f := css.Factor(int32(v))
		if f < 0 {
			f = 0
		} else if f > css.FactorBase {
			f = css.FactorBase
		}
		s.Visual.Opacity = f
	case PropObjectFit:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > uint32(FitScaleDown) {
			return false, nil
		}
		s.Visual.ObjectFit = ObjectFit(v)
	case PropTransform:
		switch rec.tag {
		case tagNone:
			s.Visual.Transform = nil
		case tagTransform:
			if len(rec.args) < 6 {
				return false, nil
			}
			s.Visual.Transform = &Transform2D{
				A:  css.Factor(int32(rec.args[0])),
				B:  css.Factor(int32(rec.args[1])),
				C:  css.Factor(int32(rec.args[2])),
				D:  css.Factor(int32(rec.args[3])),
				Tx: dimen.Dimen(int32(rec.args[4])),
				Ty: dimen.Dimen(int32(rec.args[5])),
			}
		default:
			return false, nil
		}
	case PropFontFamily:
		v, ok := rec.word(0)
		if rec.tag != tagString || !ok {
			return false, nil
		}
		s.Text.FontFamily = prog.lookup(v)
	case PropFontSize:
		d, ok := rec.dimenArg(0)
		if rec.tag != tagDimen || !ok {
			return false, nil
		}
		s.Text.FontSize = d
	case PropFontStyle:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || int(v) >= len(fontStyleNames) {
			return false, nil
		}
		s.Text.FontStyle = fontStyleNames[v]
	case PropFontWeight:
		v, ok := rec.word(0)
		if rec.tag != tagInteger || !ok {
			return false, nil
		}
		w := int32(v)
		if w < 100 || w > 900 {
			return false, nil
		}
		s.Text.FontWeight = w
	case PropLineHeight:
		d, ok := rec.dimenArg(0)
		if rec.tag != tagDimen || !ok {
			return false, nil
		}
		s.Text.LineHeight = d
	case PropFlexDirection:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > uint32(FlexColumnReverse) {
			return false, nil
		}
		s.Flex.Direction = FlexDirection(v)
	case PropFlexWrap:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > uint32(WrapReverse) {
			return false, nil
		}
		s.Flex.Wrap = FlexWrap(v)
	case PropFlexGrow:
		f, ok := factorValue(rec)
		if !ok {
			return false, nil
		}
		s.Flex.Grow = f
	case PropFlexShrink:
		f, ok := factorValue(rec)
		if !ok {
			return false, nil
		}
		s.Flex.Shrink = f
	case PropFlexBasis:
		return c.setDimen(&s.Flex.Basis, rec)
	case PropJustifyContent:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > uint32(JustifySpaceEvenly) {
			return false, nil
		}
		s.Flex.Justify = Justify(v)
	case PropAlignItems:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > uint32(AlignBaseline) {
			return false, nil
		}
		s.Flex.AlignItems = Align(v)
	case PropAlignSelf:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > uint32(AlignBaseline) {
			return false, nil
		}
		s.Flex.AlignSelf = Align(v)
	case PropGridTemplateColumns:
		tracks, ok, err := c.trackList(rec)
		if !ok || err != nil {
			return ok, err
		}
		s.Grid.TemplateCols = tracks
	case PropGridTemplateRows:
		tracks, ok, err := c.trackList(rec)
		if !ok || err != nil {
			return ok, err
		}
		s.Grid.TemplateRows = tracks
	case PropGridAutoFlow:
		v, ok := rec.word(0)
		if rec.tag != tagKeyword || !ok || v > uint32(GridFlowColumnDense) {
			return false, nil
		}
		s.Grid.AutoFlow = GridFlow(v)
	case PropGridRowStart:
		return c.setGridLine(&s.Grid.RowStart, rec)
	case PropGridRowEnd:
		return c.setGridLine(&s.Grid.RowEnd, rec)
	case PropGridColumnStart:
		return c.setGridLine(&s.Grid.ColStart, rec)
	case PropGridColumnEnd:
		return c.setGridLine(&s.Grid.ColEnd, rec)
	default:
		return false, nil
	}
	c.inherit[rec.prop] = false
	return true, nil
}

// Position keyword codes, in program argument order
const (
	kwPositionStatic uint32 = iota
	kwPositionRelative
	kwPositionAbsolute
	kwPositionFixed
	kwPositionSticky
)

func positionForKeyword(v uint32, offsets [4]css.DimenT) css.PositionT {
	switch v {
	case kwPositionRelative:
		return css.Relative(offsets)
	case kwPositionAbsolute:
		return css.Absolute(offsets)
	case kwPositionFixed:
		return css.Fixed(offsets)
	case kwPositionSticky:
		return css.Sticky(offsets)
	}
	pos := css.Static()
	pos.Offsets = offsets
	return pos
}

var fontStyleNames = []string{"normal", "italic", "oblique"}

// dimenValue decodes a dimension-valued record.
func dimenValue(rec record) (css.DimenT, bool) {
	switch rec.tag {
	case tagAuto:
		return css.Auto(), true
	case tagNone:
		return css.Dimen(), true
	case tagDimen:
		return rec.dimenArg(0)
	}
	return css.Dimen(), false
}

func (c *Cascaded) setDimen(field *css.DimenT, rec record) (bool, error) {
	d, ok := dimenValue(rec)
	if !ok {
		return false, nil
	}
	*field = d
	c.inherit[rec.prop] = false
	return true, nil
}

// factorValue decodes a non-negative factor.
func factorValue(rec record) (css.Factor, bool) {
	v, ok := rec.word(0)
	if rec.tag != tagFactor || !ok {
		return 0, false
	}
	f := css.Factor(int32(v))
	if f < 0 {
		return 0, false
	}
	return f, true
}

func (c *Cascaded) setGridLine(field *GridLine, rec record) (bool, error) {
	switch rec.tag {
	case tagAuto:
		*field = AutoLine()
	case tagGridLine:
		v, ok := rec.word(0)
		if !ok || int32(v) == 0 {
			return false, nil
		}
		*field = AtLine(int32(v))
	default:
		return false, nil
	}
	c.inherit[rec.prop] = false
	return true, nil
}

// trackList decodes a grid track list record: a count word, then per
// track a 3-word dimension and a factor word. Tracks carry either the
// dimension or a positive fraction.
func (c *Cascaded) trackList(rec record) ([]TrackSize, bool, error) {
	if rec.tag != tagTracks || len(rec.args) < 1 {
		return nil, false, nil
	}
	n := int(rec.args[0])
	if n < 0 || len(rec.args) != 1+4*n {
		return nil, false, nil
	}
	if err := c.alloc.claim(int64(n) * 16); err != nil {
		return nil, false, err
	}
	tracks := make([]TrackSize, n)
	for i := 0; i < n; i++ {
		base := 1 + 4*i
		d, ok := rec.dimenArg(base)
		if !ok {
			return nil, false, nil
		}
		tracks[i] = TrackSize{
			D:  d,
			Fr: css.Factor(int32(rec.args[base+3])),
		}
	}
	return tracks, true, nil
}

// --- Composition -----------------------------------------------------------

// ComposeEnv carries the document-global quantities needed to resolve
// relative dimensions during composition.
type ComposeEnv struct {
	RootFontSize dimen.Dimen
	Viewport     dimen.Point
}

// Compose finalizes the cascaded style of a node against the composed
// style of its parent, which may be nil for the document root. Inherited
// and explicitly `inherit`ed properties are copied over from the parent,
// then font- and viewport-relative dimensions are resolved to absolute
// ones. Percentages stay relative; only layout can resolve them.
//
// The result is a fresh style set; the receiver stays usable, e.g. for
// re-composition against a changed parent. An exhausted allocation budget
// aborts the composition, voiding the node and all of its descendents.
func (c *Cascaded) Compose(parent *Style, env ComposeEnv, alloc *Allocator) (*Style, error) {
	if parent == nil {
		parent = initialStyle
	}
	result, err := c.style.Clone(alloc)
	if err != nil {
		return nil, err
	}
	for prop := PropNone + 1; prop < NumProperties; prop++ {
		if c.inherit[prop] || (inheritedProperties[prop] && c.prio[prop] == 0) {
			if err := copyProperty(result, parent, prop, alloc); err != nil {
				return nil, err
			}
		}
	}
	// font size first, the other dimensions scale against it
	parentFontSize := absoluteFontSize(parent.Text.FontSize)
	fs := result.Text.FontSize
	switch {
	case fs.IsRootRelative():
		fs = fs.ScaleFont(env.RootFontSize)
	case fs.IsFontScaled():
		fs = fs.ScaleFont(parentFontSize)
	case fs.IsViewScaled():
		fs = fs.ScaleViewport(env.Viewport)
	case fs.IsPercent() || fs.IsCalc():
		fs = css.SomeDimen(fs.Resolve(parentFontSize))
	}
	result.Text.FontSize = fs
	fontSize := absoluteFontSize(fs)

	rel := func(d css.DimenT) css.DimenT {
		switch {
		case d.IsRootRelative():
			return d.ScaleFont(env.RootFontSize)
		case d.IsFontScaled():
			return d.ScaleFont(fontSize)
		case d.IsViewScaled():
			return d.ScaleViewport(env.Viewport)
		}
		return d
	}
	for i := 0; i < 4; i++ {
		result.Flow.Position.Offsets[i] = rel(result.Flow.Position.Offsets[i])
		result.Spacing.Margins[i] = rel(result.Spacing.Margins[i])
		result.Spacing.Padding[i] = rel(result.Spacing.Padding[i])
		result.Spacing.BorderWidth[i] = rel(result.Spacing.BorderWidth[i])
	}
	result.Dimens.W = rel(result.Dimens.W)
	result.Dimens.H = rel(result.Dimens.H)
	result.Dimens.MinW = rel(result.Dimens.MinW)
	result.Dimens.MinH = rel(result.Dimens.MinH)
	result.Dimens.MaxW = rel(result.Dimens.MaxW)
	result.Dimens.MaxH = rel(result.Dimens.MaxH)
	result.Text.LineHeight = rel(result.Text.LineHeight)
	result.Flex.Basis = rel(result.Flex.Basis)
	for i := range result.Grid.TemplateCols {
		result.Grid.TemplateCols[i].D = rel(result.Grid.TemplateCols[i].D)
	}
	for i := range result.Grid.TemplateRows {
		result.Grid.TemplateRows[i].D = rel(result.Grid.TemplateRows[i].D)
	}
	return result, nil
}

func absoluteFontSize(d css.DimenT) dimen.Dimen {
	if d.IsAbsolute() {
		return d.Unwrap()
	}
	return 12 * dimen.PT
}

// CopyProperty transfers a single property value between style sets,
// duplicating any heap-allocated parts.
func CopyProperty(dst *Style, src *Style, prop PropertyID) {
	copyProperty(dst, src, prop, nil) // never fails unbounded
}
