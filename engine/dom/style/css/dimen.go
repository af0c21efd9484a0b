package css

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/percent"
	"github.com/npillmayer/weft/engine/dom/style"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	dimenCalc     uint32 = 0x0005
	kindMask      uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenCH      uint32 = 0x0300
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenVMIN    uint32 = 0x0700
	dimenVMAX    uint32 = 0x0800
	dimenPercent uint32 = 0x0900
	unitMask     uint32 = 0xff00
)

// DimenT is an option type for CSS dimensions.
//
//	type DimenT
//	    = Auto
//	    | Inherit
//	    | Initial
//	    | JustDimen dimen
//	    | Percentage percent
//	    | Calc percent dimen
//	    | FontRel unit
//	    | ViewRel unit
//	    | ContentRel min/max/fit
type DimenT struct {
	d     dimen.Dimen
	pcnt  percent.Percent
	flags uint32
}

// Dimen creates an optional dimen without an initial value.
func Dimen() DimenT {
	return DimenT{}
}

// SomeDimen creates an optional dimen with an initial value of x.
func SomeDimen(x dimen.Dimen) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Auto creates a dimension of value `auto`.
func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

// Inherit creates a dimension of value `inherit`.
func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

// Initial creates a dimension of value `initial`.
func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// Percentage creates a dimension with a %-relative value.
func Percentage(p percent.Percent) DimenT {
	return DimenT{pcnt: p, flags: dimenPercent}
}

// Calc creates a dimension of the form calc(p + offset), the only
// calc()-combination the layouters support. offset may be negative.
func Calc(p percent.Percent, offset dimen.Dimen) DimenT {
	return DimenT{pcnt: p, d: offset, flags: dimenCalc | dimenPercent}
}

// ContentDependent creates a dimension for `min-content`, `max-content`
// or `fit-content`, given one of the DimenContent… flags.
func ContentDependent(flag uint32) DimenT {
	return DimenT{flags: flag & contentMask}
}

// --- Predicates ------------------------------------------------------------

// IsNone returns true if o is unset.
func (o DimenT) IsNone() bool {
	return o.flags == dimenNone
}

// IsAbsolute returns true if o represents a fixed dimension.
func (o DimenT) IsAbsolute() bool {
	return o.flags&kindMask == dimenAbsolute
}

// IsAuto returns true if o represents value `auto`.
func (o DimenT) IsAuto() bool {
	return o.flags&kindMask == dimenAuto
}

// IsInherit returns true if o represents value `inherit`.
func (o DimenT) IsInherit() bool {
	return o.flags&kindMask == dimenInherit
}

// IsInitial returns true if o represents value `initial`.
func (o DimenT) IsInitial() bool {
	return o.flags&kindMask == dimenInitial
}

// IsPercent returns true if o is a pure percentage value.
func (o DimenT) IsPercent() bool {
	return o.flags&unitMask == dimenPercent && o.flags&kindMask != dimenCalc
}

// IsCalc returns true if o is a calc(percentage + offset) combination.
func (o DimenT) IsCalc() bool {
	return o.flags&kindMask == dimenCalc
}

// IsRelative returns true if o represents a relative dimension
// (`%`, `em`, `vw`, calc(), etc.).
func (o DimenT) IsRelative() bool {
	return o.flags&unitMask > 0
}

// IsFontScaled returns true if o is scaled relative to a font size
// (`em`, `ex`, `ch`, `rem`).
func (o DimenT) IsFontScaled() bool {
	switch o.flags & unitMask {
	case dimenEM, dimenEX, dimenCH, dimenREM:
		return true
	}
	return false
}

// IsRootRelative returns true if o is scaled relative to the root
// element's font size (`rem`).
func (o DimenT) IsRootRelative() bool {
	return o.flags&unitMask == dimenREM
}

// IsViewScaled returns true if o is scaled relative to the viewport.
func (o DimenT) IsViewScaled() bool {
	switch o.flags & unitMask {
	case dimenVW, dimenVH, dimenVMIN, dimenVMAX:
		return true
	}
	return false
}

// IsContentDependent returns true if o is one of `min-content`,
// `max-content` or `fit-content`.
func (o DimenT) IsContentDependent() bool {
	return o.flags&contentMask > 0
}

// --- Accessors -------------------------------------------------------------

// Unwrap returns the underlying dimension of o.
// For relative dimensions this is the raw (unresolved) count.
func (o DimenT) Unwrap() dimen.Dimen {
	return o.d
}

// Percent returns the percentage part of o, valid for percentages
// and calc()-values.
func (o DimenT) Percent() percent.Percent {
	return o.pcnt
}

// Resolve computes the definite dimension of o against an enclosing
// dimension. Percentages and calc()-values scale with the enclosing
// dimension, absolute values return themselves. Resolving `auto` or an
// unset dimension yields 0; callers are expected to test for these
// beforehand.
func (o DimenT) Resolve(enclosing dimen.Dimen) dimen.Dimen {
	switch {
	case o.IsAbsolute():
		return o.d
	case o.IsCalc():
		return o.pcnt.Of(enclosing) + o.d
	case o.IsPercent():
		return o.pcnt.Of(enclosing)
	}
	return 0
}

// ScaleFont resolves a font-relative dimension against a font size,
// returning absolute dimensions unchanged.
func (o DimenT) ScaleFont(fontsize dimen.Dimen) DimenT {
	if !o.IsFontScaled() {
		return o
	}
	switch o.flags & unitMask {
	case dimenEM, dimenREM:
		return SomeDimen(dimen.Dimen(int64(o.d) * int64(fontsize) / int64(dimen.BP)))
	case dimenEX:
		// height of 'x' approximated as half the font size
		return SomeDimen(dimen.Dimen(int64(o.d) * int64(fontsize) / 2 / int64(dimen.BP)))
	case dimenCH:
		// advance of '0' approximated as half the font size
		return SomeDimen(dimen.Dimen(int64(o.d) * int64(fontsize) / 2 / int64(dimen.BP)))
	}
	return o
}

// ScaleViewport resolves a viewport-relative dimension against a
// viewport, returning absolute dimensions unchanged.
func (o DimenT) ScaleViewport(view dimen.Point) DimenT {
	if !o.IsViewScaled() {
		return o
	}
	min, max := view.X, view.Y
	if min > max {
		min, max = max, min
	}
	var base dimen.Dimen
	switch o.flags & unitMask {
	case dimenVW:
		base = view.X
	case dimenVH:
		base = view.Y
	case dimenVMIN:
		base = min
	case dimenVMAX:
		base = max
	}
	// o.d counts hundredths of the base dimension, at BP scale
	return SomeDimen(dimen.Dimen(int64(o.d) * int64(base) / 100 / int64(dimen.BP)))
}

func (o DimenT) String() string {
	if o.IsNone() {
		return "DimenT.None"
	}
	switch o.flags & kindMask {
	case dimenAuto:
		return "auto"
	case dimenInitial:
		return "initial"
	case dimenInherit:
		return "inherit"
	case dimenCalc:
		if o.d < 0 {
			return fmt.Sprintf("calc(%v - %.2fpx)", o.pcnt, (-o.d).Pixels())
		}
		return fmt.Sprintf("calc(%v + %.2fpx)", o.pcnt, o.d.Pixels())
	}
	switch o.flags & contentMask {
	case DimenContentMax:
		return "max-content"
	case DimenContentMin:
		return "min-content"
	case DimenContentFit:
		return "fit-content"
	}
	if o.flags&unitMask == dimenPercent {
		return o.pcnt.String()
	}
	if unit, ok := relUnitMap[o.flags&unitMask]; ok {
		return fmt.Sprintf("%d%s", o.d/dimen.BP, unit)
	}
	return fmt.Sprintf("%dsp", o.d)
}

var relUnitMap map[uint32]string = map[uint32]string{
	dimenEM:   "em",
	dimenEX:   "ex",
	dimenCH:   "ch",
	dimenREM:  "rem",
	dimenVW:   "vw",
	dimenVH:   "vh",
	dimenVMIN: "vmin",
	dimenVMAX: "vmax",
}

var relUnitStringMap map[string]uint32 = map[string]uint32{
	"em":   dimenEM,
	"ex":   dimenEX,
	"ch":   dimenCH,
	"rem":  dimenREM,
	"vw":   dimenVW,
	"vh":   dimenVH,
	"vmin": dimenVMIN,
	"vmax": dimenVMAX,
}

// DimenOption returns an optional dimension type from a property string.
// It will never return an error, even with illegal input, but instead will
// then return an unset dimension.
func DimenOption(p style.Property) DimenT {
	p = style.Property(strings.ToLower(strings.TrimSpace(string(p))))
	switch p {
	case style.NullStyle:
		return Dimen()
	case "auto":
		return Auto()
	case "initial":
		return Initial()
	case "inherit":
		return Inherit()
	case "max-content":
		return ContentDependent(DimenContentMax)
	case "min-content":
		return ContentDependent(DimenContentMin)
	case "fit-content":
		return ContentDependent(DimenContentFit)
	}
	if strings.HasPrefix(string(p), "calc(") {
		if d, ok := parseCalc(string(p)); ok {
			return d
		}
		return Dimen()
	}
	d, err := ParseDimen(string(p))
	if err != nil {
		return Dimen()
	}
	return d
}

// ParseDimen parses a string to return an optional dimension.
// Syntax is CSS units:
//
//	15px
//	33.33%
//	-2.5rem
func ParseDimen(s string) (DimenT, error) {
	d, ispcnt, err := dimen.ParseDimen(s)
	if err != nil {
		return Dimen(), err
	}
	if ispcnt {
		return Percentage(percent.Percent(d)), nil
	}
	if unit := relUnit(s); unit != 0 {
		return DimenT{d: d, flags: unit}, nil
	}
	return SomeDimen(d), nil
}

func relUnit(s string) uint32 {
	for suffix, unit := range relUnitStringMap {
		if strings.HasSuffix(s, suffix) {
			// 'em' must not shadow 'rem'
			if suffix == "em" && strings.HasSuffix(s, "rem") {
				continue
			}
			return unit
		}
	}
	return 0
}

// parseCalc parses the calc()-combinations the layouters support:
//
//	calc(33.33% - 10px)
//	calc(50% + 2em)    (scaled later)
//	calc(20px)
//	calc(7%)
//
// Nested or multiplicative expressions are not supported and yield false.
func parseCalc(s string) (DimenT, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "calc("), ")")
	inner = strings.TrimSpace(inner)
	neg := false
	var lhs, rhs string
	if i := strings.Index(inner, " + "); i >= 0 {
		lhs, rhs = inner[:i], inner[i+3:]
	} else if i := strings.Index(inner, " - "); i >= 0 {
		lhs, rhs = inner[:i], inner[i+3:]
		neg = true
	} else {
		d, err := ParseDimen(inner)
		return d, err == nil
	}
	l, err := ParseDimen(strings.TrimSpace(lhs))
	if err != nil {
		return Dimen(), false
	}
	r, err := ParseDimen(strings.TrimSpace(rhs))
	if err != nil {
		return Dimen(), false
	}
	if !l.IsPercent() || !r.IsAbsolute() {
		return Dimen(), false
	}
	offset := r.Unwrap()
	if neg {
		offset = -offset
	}
	return Calc(l.Percent(), offset), true
}

// MaxDimen returns the greater of two dimensions. Unset dimensions are
// treated as the neutral element.
func MaxDimen(d1, d2 DimenT) DimenT {
	switch {
	case d1.IsNone():
		return d2
	case d2.IsNone():
		return d1
	}
	return SomeDimen(dimen.Max(d1.Unwrap(), d2.Unwrap()))
}

// MinDimen returns the lesser of two dimensions. Unset dimensions are
// treated as the neutral element.
func MinDimen(d1, d2 DimenT) DimenT {
	switch {
	case d1.IsNone():
		return d2
	case d2.IsNone():
		return d1
	}
	return SomeDimen(dimen.Min(d1.Unwrap(), d2.Unwrap()))
}

// Encode returns the wire form of o, 3 words wide. Compiled style programs
// store dimension operands in this form.
func (o DimenT) Encode() [3]uint32 {
	return [3]uint32{uint32(int32(o.d)), uint32(int32(o.pcnt)), o.flags}
}

// DecodeDimen reconstructs a dimension from its wire form.
func DecodeDimen(w [3]uint32) DimenT {
	return DimenT{
		d:     dimen.Dimen(int32(w[0])),
		pcnt:  percent.Percent(int32(w[1])),
		flags: w[2],
	}
}
