package css

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/npillmayer/weft/engine/dom/style"
)

// position is an enum type for the CSS position property.
type position uint16

const (
	positionUnset    position = iota
	positionStatic            // CSS static (default)
	positionRelative          // CSS relative
	positionAbsolute          // CSS absolute
	positionFixed             // CSS fixed
	positionSticky            // CSS sticky, treated as relative by the layouters
)

// PosDir is either Top, Right, Bottom or Left.
type PosDir uint8

// Enum values for type PosDir
const (
	Top PosDir = iota
	Right
	Bottom
	Left
)

// PositionT is an option type for CSS positions.
//
//	type PositionT
//	    = Unset
//	    | Static
//	    | Relative top right bottom left
//	    | Absolute top right bottom left
//	    | Fixed    top right bottom left
//	    | Sticky   top right bottom left
type PositionT struct {
	kind    position
	Offsets [4]DimenT // indexed by PosDir
}

// Static creates a CSS position of value `static`.
func Static() PositionT {
	return PositionT{kind: positionStatic}
}

// Relative creates a CSS position of value `relative`, given offsets.
func Relative(offsets [4]DimenT) PositionT {
	return PositionT{kind: positionRelative, Offsets: offsets}
}

// Absolute creates a CSS position of value `absolute`, given offsets.
func Absolute(offsets [4]DimenT) PositionT {
	return PositionT{kind: positionAbsolute, Offsets: offsets}
}

// Fixed creates a CSS position of value `fixed`, given offsets.
func Fixed(offsets [4]DimenT) PositionT {
	return PositionT{kind: positionFixed, Offsets: offsets}
}

// Sticky creates a CSS position of value `sticky`, given offsets.
func Sticky(offsets [4]DimenT) PositionT {
	return PositionT{kind: positionSticky, Offsets: offsets}
}

var positionMap map[position]string = map[position]string{
	positionStatic:   "static",
	positionRelative: "relative",
	positionAbsolute: "absolute",
	positionFixed:    "fixed",
	positionSticky:   "sticky",
}

var positionStringMap map[string]position = map[string]position{
	"static":   positionStatic,
	"relative": positionRelative,
	"absolute": positionAbsolute,
	"fixed":    positionFixed,
	"sticky":   positionSticky,
}

// Position returns an optional position type from a property string.
// It will never return an error, even with illegal input, but instead will
// then return an unset position.
func Position(p style.Property) PositionT {
	p = style.Property(strings.ToLower(strings.TrimSpace(string(p))))
	if kind, ok := positionStringMap[string(p)]; ok {
		return PositionT{kind: kind}
	}
	return PositionT{}
}

func (p PositionT) String() string {
	if s, ok := positionMap[p.kind]; ok {
		return s
	}
	return "PositionT.None"
}

// IsUnset returns true if p is unset.
func (p PositionT) IsUnset() bool {
	return p.kind == positionUnset
}

// IsStatic returns true if p represents a static (unpositioned) box.
func (p PositionT) IsStatic() bool {
	return p.kind == positionStatic
}

// IsRelative returns true if p represents a relative position.
// Sticky positioning is folded into relative.
func (p PositionT) IsRelative() bool {
	return p.kind == positionRelative || p.kind == positionSticky
}

// IsAbsolute returns true if p represents an absolute position.
func (p PositionT) IsAbsolute() bool {
	return p.kind == positionAbsolute
}

// IsFixed returns true if p represents a fixed position.
func (p PositionT) IsFixed() bool {
	return p.kind == positionFixed
}

// IsPositioned returns true for every position except static and unset.
// Positioned boxes with a z-index establish stacking contexts and are
// offset from their normal-flow location.
func (p PositionT) IsPositioned() bool {
	return !p.IsUnset() && !p.IsStatic()
}

// IsOutOfFlow returns true if boxes with this position are taken out of
// normal flow (absolute and fixed positioning).
func (p PositionT) IsOutOfFlow() bool {
	return p.kind == positionAbsolute || p.kind == positionFixed
}
