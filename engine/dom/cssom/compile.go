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
	"github.com/npillmayer/weft/engine/dom/style"
	"github.com/npillmayer/weft/engine/dom/style/css"
)

// CompileDeclaration compiles a single CSS declaration into the program.
// Shorthand properties are expanded into their parts. Declarations for
// unknown properties and declarations with unparsable values are dropped;
// compilation never fails.
func (prog *Program) CompileDeclaration(key string, value style.Property, important bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	val := style.Property(strings.TrimSpace(string(value)))
	if kv, err := style.SplitCompoundProperty(key, val); err == nil {
		for _, item := range kv {
			prog.CompileDeclaration(item.Key, item.Value, important)
		}
		return
	}
	flags := uint8(0)
	if important {
		flags = flagImportant
	}
	switch key {
	case "flex":
		prog.compileFlexShorthand(val, flags)
		return
	case "grid-row":
		prog.compileGridSpan(PropGridRowStart, PropGridRowEnd, val, flags)
		return
	case "grid-column":
		prog.compileGridSpan(PropGridColumnStart, PropGridColumnEnd, val, flags)
		return
	case "background":
		prog.compileBackground(val, flags)
		return
	}
	prop, ok := PropertyByName(key)
	if !ok {
		tracer().Debugf("style compiler drops unknown property %q", key)
		return
	}
	lower := strings.ToLower(string(val))
	switch lower {
	case "inherit":
		prog.emit(prop, flags, tagInherit)
		return
	case "initial", "revert":
		prog.emit(prop, flags, tagInitial)
		return
	case "unset":
		if inheritedProperties[prop] {
			prog.emit(prop, flags, tagInherit)
		} else {
			prog.emit(prop, flags, tagInitial)
		}
		return
	}
	prog.compileValue(prop, flags, lower, string(val))
}

// compileValue encodes one longhand declaration's value. lower is the
// value in lower case for keyword matching, raw preserves case for URLs
// and font family names.
func (prog *Program) compileValue(prop PropertyID, flags uint8, lower string, raw string) {
	switch prop {
	case PropDisplay:
		mode, err := css.ParseDisplay(lower)
		if err != nil {
			break
		}
		prog.emit(prop, flags, tagKeyword, uint32(mode))
		return
	case PropContent:
		prog.compileContentValue(flags, raw)
		return
	case PropPosition:
		if kw, ok := positionKeywords[lower]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropTop, PropRight, PropBottom, PropLeft,
		PropWidth, PropHeight, PropMinWidth, PropMinHeight,
		PropMarginTop, PropMarginRight, PropMarginBottom, PropMarginLeft,
		PropPaddingTop, PropPaddingRight, PropPaddingBottom, PropPaddingLeft,
		PropFlexBasis:
		if prog.emitDimen(prop, flags, lower, false) {
			return
		}
	case PropMaxWidth, PropMaxHeight:
		if prog.emitDimen(prop, flags, lower, true) {
			return
		}
	case PropBoxSizing:
		switch lower {
		case "content-box":
			prog.emit(prop, flags, tagKeyword, 0)
			return
		case "border-box":
			prog.emit(prop, flags, tagKeyword, 1)
			return
		}
	case PropBorderTopWidth, PropBorderRightWidth, PropBorderBottomWidth, PropBorderLeftWidth:
		if w, ok := borderWidthKeywords[lower]; ok {
			prog.emit(prop, flags, tagDimen, encodeDimen(css.SomeDimen(w))...)
			return
		}
		if prog.emitDimen(prop, flags, lower, false) {
			return
		}
	case PropFloat:
		if kw, ok := floatKeywords[lower]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropClear:
		if kw, ok := clearKeywords[lower]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropZIndex:
		if lower == "auto" {
			prog.emit(prop, flags, tagAuto)
			return
		}
		if z, err := strconv.ParseInt(lower, 10, 32); err == nil {
			prog.emit(prop, flags, tagInteger, uint32(int32(z)))
			return
		}
	case PropColor, PropBackgroundColor:
		prog.emit(prop, flags, tagColor, packRGBA(style.Property(lower).Color()))
		return
	case PropBackgroundImage:
		prog.compileImageValue(prop, flags, raw)
		return
	case PropOpacity:
		if f, ok := css.ParseFactor(lower); ok {
			prog.emit(prop, flags, tagFactor, uint32(int32(f)))
			return
		}
	case PropObjectFit:
		if kw, ok := objectFitKeywords[lower]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropTransform:
		prog.compileTransform(flags, lower)
		return
	case PropFontFamily:
		if family := firstFontFamily(raw); family != "" {
			prog.emit(prop, flags, tagString, prog.intern(family))
			return
		}
	case PropFontSize:
		if d, ok := fontSizeKeywords[lower]; ok {
			prog.emit(prop, flags, tagDimen, encodeDimen(css.SomeDimen(d))...)
			return
		}
		if d := css.DimenOption(style.Property(lower)); !d.IsNone() && !d.IsAuto() && !d.IsContentDependent() {
			prog.emit(prop, flags, tagDimen, encodeDimen(d)...)
			return
		}
	case PropFontStyle:
		for code, name := range fontStyleNames {
			if lower == name {
				prog.emit(prop, flags, tagKeyword, uint32(code))
				return
			}
		}
	case PropFontWeight:
		if w, ok := fontWeightValue(lower); ok {
			prog.emit(prop, flags, tagInteger, uint32(w))
			return
		}
	case PropLineHeight:
		if lower == "normal" {
			prog.emit(prop, flags, tagInitial)
			return
		}
		v := lower
		if _, ok := css.ParseFactor(lower); ok && !strings.ContainsAny(lower, "%abcdefghijklmnopqrstuvwxyz") {
			// unitless number scales with the font size
			v = lower + "em"
		}
		if d := css.DimenOption(style.Property(v)); !d.IsNone() && !d.IsAuto() {
			prog.emit(prop, flags, tagDimen, encodeDimen(d)...)
			return
		}
	case PropFlexDirection:
		if kw, ok := flexDirectionKeywords[lower]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropFlexWrap:
		if kw, ok := flexWrapKeywords[lower]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropFlexGrow, PropFlexShrink:
		if f, ok := css.ParseFactor(lower); ok && f >= 0 {
			prog.emit(prop, flags, tagFactor, uint32(int32(f)))
			return
		}
	case PropJustifyContent:
		if kw, ok := justifyKeywords[lower]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropAlignItems, PropAlignSelf:
		if kw, ok := alignKeywords[lower]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropGridTemplateColumns, PropGridTemplateRows:
		if args, ok := compileTrackList(lower); ok {
			prog.emit(prop, flags, tagTracks, args...)
			return
		}
	case PropGridAutoFlow:
		if kw, ok := gridFlowKeywords[normalizeSpace(lower)]; ok {
			prog.emit(prop, flags, tagKeyword, kw)
			return
		}
	case PropGridRowStart, PropGridRowEnd, PropGridColumnStart, PropGridColumnEnd:
		if lower == "auto" {
			prog.emit(prop, flags, tagAuto)
			return
		}
		if n, err := strconv.ParseInt(lower, 10, 32); err == nil && n != 0 {
			prog.emit(prop, flags, tagGridLine, uint32(int32(n)))
			return
		}
	}
	tracer().Debugf("style compiler drops %s with illegal value %q", prop, raw)
}

// emitDimen encodes a dimension-valued declaration, including `auto` and
// the content-dependent keywords. A `none` keyword is only legal where
// allowNone says so (max-width, max-height).
func (prog *Program) emitDimen(prop PropertyID, flags uint8, lower string, allowNone bool) bool {
	if lower == "none" {
		if allowNone {
			prog.emit(prop, flags, tagNone)
			return true
		}
		return false
	}
	d := css.DimenOption(style.Property(lower))
	switch {
	case d.IsAuto():
		prog.emit(prop, flags, tagAuto)
		return true
	case d.IsNone():
		return false
	}
	prog.emit(prop, flags, tagDimen, encodeDimen(d)...)
	return true
}

func encodeDimen(d css.DimenT) []uint32 {
	w := d.Encode()
	return w[:]
}

// --- Shorthands ------------------------------------------------------------

// compileFlexShorthand expands `flex: <grow> <shrink>? <basis>?` and its
// keyword forms.
func (prog *Program) compileFlexShorthand(val style.Property, flags uint8) {
	lower := strings.ToLower(strings.TrimSpace(string(val)))
	switch lower {
	case "none":
		prog.emit(PropFlexGrow, flags, tagFactor, 0)
		prog.emit(PropFlexShrink, flags, tagFactor, 0)
		prog.emit(PropFlexBasis, flags, tagAuto)
		return
	case "auto":
		prog.emit(PropFlexGrow, flags, tagFactor, uint32(int32(css.FactorBase)))
		prog.emit(PropFlexShrink, flags, tagFactor, uint32(int32(css.FactorBase)))
		prog.emit(PropFlexBasis, flags, tagAuto)
		return
	case "initial":
		prog.emit(PropFlexGrow, flags, tagInitial)
		prog.emit(PropFlexShrink, flags, tagInitial)
		prog.emit(PropFlexBasis, flags, tagInitial)
		return
	}
	fields := strings.Fields(lower)
	if len(fields) == 0 || len(fields) > 3 {
		return
	}
	grow, ok := css.ParseFactor(fields[0])
	if !ok || grow < 0 {
		// a lone width becomes the basis
		if len(fields) == 1 && prog.emitDimen(PropFlexBasis, flags, fields[0], false) {
			prog.emit(PropFlexGrow, flags, tagFactor, uint32(int32(css.FactorBase)))
			prog.emit(PropFlexShrink, flags, tagFactor, uint32(int32(css.FactorBase)))
		}
		return
	}
	shrink := css.FactorBase
	basis := "0%"
	if len(fields) >= 2 {
		s, ok := css.ParseFactor(fields[1])
		if !ok || s < 0 {
			return
		}
		shrink = s
	}
	if len(fields) == 3 {
		basis = fields[2]
	}
	prog.emit(PropFlexGrow, flags, tagFactor, uint32(int32(grow)))
	prog.emit(PropFlexShrink, flags, tagFactor, uint32(int32(shrink)))
	if !prog.emitDimen(PropFlexBasis, flags, basis, false) {
		prog.emit(PropFlexBasis, flags, tagAuto)
	}
}

// compileGridSpan expands `grid-row: <start> / <end>` (and grid-column).
// A missing end line stays on auto-placement.
func (prog *Program) compileGridSpan(start PropertyID, end PropertyID, val style.Property, flags uint8) {
	parts := strings.SplitN(string(val), "/", 2)
	prog.CompileDeclaration(start.String(), style.Property(strings.TrimSpace(parts[0])), flags&flagImportant > 0)
	if len(parts) == 2 {
		prog.CompileDeclaration(end.String(), style.Property(strings.TrimSpace(parts[1])), flags&flagImportant > 0)
	}
}

// compileBackground handles the common single-value forms of the
// `background` shorthand: a color, an image URL, or a gradient.
func (prog *Program) compileBackground(val style.Property, flags uint8) {
	lower := strings.ToLower(strings.TrimSpace(string(val)))
	if lower == "none" {
		prog.emit(PropBackgroundImage, flags, tagNone)
		return
	}
	if strings.HasPrefix(lower, "url(") || isGradient(lower) {
		prog.compileImageValue(PropBackgroundImage, flags, string(val))
		return
	}
	prog.emit(PropBackgroundColor, flags, tagColor, packRGBA(val.Color()))
}

// compileImageValue encodes an image-valued declaration. Gradient
// functions are consumed whole and degrade to `none`; the painter cannot
// synthesize them.
func (prog *Program) compileImageValue(prop PropertyID, flags uint8, raw string) {
	val := strings.TrimSpace(raw)
	lower := strings.ToLower(val)
	switch {
	case lower == "none":
		prog.emit(prop, flags, tagNone)
	case isGradient(lower):
		if !balancedParens(val) {
			tracer().Debugf("style compiler drops unbalanced gradient %q", raw)
			return
		}
		tracer().Debugf("gradient degrades to none: %q", raw)
		prog.emit(prop, flags, tagNone)
	case strings.HasPrefix(lower, "url(") && strings.HasSuffix(val, ")"):
		url := strings.TrimSpace(val[4 : len(val)-1])
		url = strings.Trim(url, `"'`)
		if url == "" {
			prog.emit(prop, flags, tagNone)
			return
		}
		prog.emit(prop, flags, tagString, prog.intern(url))
	default:
		tracer().Debugf("style compiler drops image value %q", raw)
	}
}

// compileContentValue encodes generated content for pseudo-elements. A
// single quoted string is the only supported form of actual content;
// counter() and attr() degrade to `none`, which generates no box.
func (prog *Program) compileContentValue(flags uint8, raw string) {
	val := strings.TrimSpace(raw)
	lower := strings.ToLower(val)
	switch {
	case lower == "none" || lower == "normal":
		prog.emit(PropContent, flags, tagNone)
	case len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0]:
		prog.emit(PropContent, flags, tagString, prog.intern(val[1:len(val)-1]))
	case strings.HasPrefix(lower, "counter(") || strings.HasPrefix(lower, "attr(") ||
		strings.HasPrefix(lower, "counters("):
		tracer().Debugf("content value degrades to none: %q", raw)
		prog.emit(PropContent, flags, tagNone)
	default:
		tracer().Debugf("style compiler drops content value %q", raw)
	}
}

func isGradient(lower string) bool {
	for _, prefix := range []string{
		"linear-gradient(", "radial-gradient(", "conic-gradient(",
		"repeating-linear-gradient(", "repeating-radial-gradient(",
	} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func balancedParens(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// compileTransform encodes the transform functions the painter supports.
// The resulting arguments are the 6 coefficients of an affine matrix.
func (prog *Program) compileTransform(flags uint8, lower string) {
	if lower == "none" {
		prog.emit(PropTransform, flags, tagNone)
		return
	}
	i := strings.IndexByte(lower, '(')
	if i < 0 || !strings.HasSuffix(lower, ")") {
		return
	}
	fn := strings.TrimSpace(lower[:i])
	args := strings.Split(lower[i+1:len(lower)-1], ",")
	for j := range args {
		args[j] = strings.TrimSpace(args[j])
	}
	one := uint32(int32(css.FactorBase))
	matrix := [6]uint32{one, 0, 0, one, 0, 0}
	switch fn {
	case "matrix":
		if len(args) != 6 {
			return
		}
		for j := 0; j < 4; j++ {
			f, ok := css.ParseFactor(args[j])
			if !ok {
				return
			}
			matrix[j] = uint32(int32(f))
		}
		for j := 4; j < 6; j++ {
			d, _, err := dimen.ParseDimen(args[j] + "px")
			if err != nil {
				return
			}
			matrix[j] = uint32(int32(d))
		}
	case "translate", "translatex", "translatey":
		x, y := "0px", "0px"
		switch {
		case fn == "translatey":
			if len(args) != 1 {
				return
			}
			y = args[0]
		case len(args) == 1:
			x = args[0]
		case len(args) == 2:
			x, y = args[0], args[1]
		default:
			return
		}
		dx := css.DimenOption(style.Property(x))
		dy := css.DimenOption(style.Property(y))
		if !dx.IsAbsolute() || !dy.IsAbsolute() {
			return
		}
		matrix[4] = uint32(int32(dx.Unwrap()))
		matrix[5] = uint32(int32(dy.Unwrap()))
	case "scale":
		if len(args) < 1 || len(args) > 2 {
			return
		}
		sx, ok := css.ParseFactor(args[0])
		if !ok {
			return
		}
		sy := sx
		if len(args) == 2 {
			if sy, ok = css.ParseFactor(args[1]); !ok {
				return
			}
		}
		matrix[0] = uint32(int32(sx))
		matrix[3] = uint32(int32(sy))
	default:
		tracer().Debugf("style compiler drops transform %q", lower)
		return
	}
	prog.emit(PropTransform, flags, tagTransform, matrix[:]...)
}

// compileTrackList encodes a grid track list, expanding simple
// `repeat(n, …)` groups. Tracks are fixed dimensions, percentages or
// `<n>fr` fractions.
func compileTrackList(lower string) ([]uint32, bool) {
	fields, ok := splitTracks(lower)
	if !ok || len(fields) == 0 {
		return nil, false
	}
	args := make([]uint32, 1, 1+4*len(fields))
	for _, f := range fields {
		var track TrackSize
		if strings.HasSuffix(f, "fr") {
			fr, ok := css.ParseFactor(strings.TrimSuffix(f, "fr"))
			if !ok || fr <= 0 {
				return nil, false
			}
			track.Fr = fr
		} else {
			d := css.DimenOption(style.Property(f))
			if d.IsNone() || d.IsAuto() || d.IsContentDependent() {
				return nil, false
			}
			track.D = d
		}
		w := track.D.Encode()
		args = append(args, w[0], w[1], w[2], uint32(int32(track.Fr)))
	}
	args[0] = uint32(len(fields))
	return args, true
}

// splitTracks tokenizes a track list, flattening repeat() groups.
func splitTracks(lower string) ([]string, bool) {
	var fields []string
	rest := strings.TrimSpace(lower)
	for rest != "" {
		if strings.HasPrefix(rest, "repeat(") {
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return nil, false
			}
			inner := rest[len("repeat("):end]
			rest = strings.TrimSpace(rest[end+1:])
			parts := strings.SplitN(inner, ",", 2)
			if len(parts) != 2 {
				return nil, false
			}
			n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
			if err != nil || n < 1 || n > 1000 {
				return nil, false
			}
			repeated := strings.Fields(parts[1])
			if len(repeated) == 0 {
				return nil, false
			}
			for i := 0; i < n; i++ {
				fields = append(fields, repeated...)
			}
			continue
		}
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			fields = append(fields, rest)
			break
		}
		fields = append(fields, rest[:i])
		rest = strings.TrimSpace(rest[i:])
	}
	return fields, true
}

// --- Keyword tables --------------------------------------------------------

var positionKeywords = map[string]uint32{
	"static":   kwPositionStatic,
	"relative": kwPositionRelative,
	"absolute": kwPositionAbsolute,
	"fixed":    kwPositionFixed,
	"sticky":   kwPositionSticky,
}

var floatKeywords = map[string]uint32{
	"none":  uint32(FloatNone),
	"left":  uint32(FloatLeft),
	"right": uint32(FloatRight),
}

var clearKeywords = map[string]uint32{
	"none":  uint32(ClearNone),
	"left":  uint32(ClearLeft),
	"right": uint32(ClearRight),
	"both":  uint32(ClearBoth),
}

var objectFitKeywords = map[string]uint32{
	"fill":       uint32(FitFill),
	"contain":    uint32(FitContain),
	"cover":      uint32(FitCover),
	"none":       uint32(FitNone),
	"scale-down": uint32(FitScaleDown),
}

var flexDirectionKeywords = map[string]uint32{
	"row":            uint32(FlexRow),
	"row-reverse":    uint32(FlexRowReverse),
	"column":         uint32(FlexColumn),
	"column-reverse": uint32(FlexColumnReverse),
}

var flexWrapKeywords = map[string]uint32{
	"nowrap":       uint32(NoWrap),
	"wrap":         uint32(Wrap),
	"wrap-reverse": uint32(WrapReverse),
}

var justifyKeywords = map[string]uint32{
	"flex-start":    uint32(JustifyStart),
	"start":         uint32(JustifyStart),
	"flex-end":      uint32(JustifyEnd),
	"end":           uint32(JustifyEnd),
	"center":        uint32(JustifyCenter),
	"space-between": uint32(JustifySpaceBetween),
	"space-around":  uint32(JustifySpaceAround),
	"space-evenly":  uint32(JustifySpaceEvenly),
}

var alignKeywords = map[string]uint32{
	"auto":       uint32(AlignAuto),
	"stretch":    uint32(AlignStretch),
	"flex-start": uint32(AlignStart),
	"start":      uint32(AlignStart),
	"flex-end":   uint32(AlignEnd),
	"end":        uint32(AlignEnd),
	"center":     uint32(AlignCenter),
	"baseline":   uint32(AlignBaseline),
}

var gridFlowKeywords = map[string]uint32{
	"row":          uint32(GridFlowRow),
	"column":       uint32(GridFlowColumn),
	"dense":        uint32(GridFlowRowDense),
	"row dense":    uint32(GridFlowRowDense),
	"column dense": uint32(GridFlowColumnDense),
}

var borderWidthKeywords = map[string]dimen.Dimen{
	"thin":   1 * dimen.PX,
	"medium": 3 * dimen.PX,
	"thick":  5 * dimen.PX,
}

var fontSizeKeywords = map[string]dimen.Dimen{
	"xx-small": 7 * dimen.PT,
	"x-small":  8 * dimen.PT,
	"small":    10 * dimen.PT,
	"medium":   12 * dimen.PT,
	"large":    14 * dimen.PT,
	"x-large":  18 * dimen.PT,
	"xx-large": 24 * dimen.PT,
}

func fontWeightValue(lower string) (int32, bool) {
	switch lower {
	case "normal":
		return 400, true
	case "bold":
		return 700, true
	}
	w, err := strconv.ParseInt(lower, 10, 32)
	if err != nil || w < 100 || w > 900 {
		return 0, false
	}
	return int32(w), true
}

// firstFontFamily picks the first family of a font-family list, unquoted.
func firstFontFamily(raw string) string {
	first := raw
	if i := strings.IndexByte(raw, ','); i >= 0 {
		first = raw[:i]
	}
	first = strings.TrimSpace(first)
	first = strings.Trim(first, `"'`)
	return strings.TrimSpace(first)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
