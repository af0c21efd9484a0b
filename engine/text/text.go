package text

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/core/font"
	"golang.org/x/text/language"
)

// Direction is the direction to set text in.
type Direction int8

// Enum values for type Direction
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

func (dir Direction) String() string {
	switch dir {
	case LeftToRight:
		return "left-to-right"
	case RightToLeft:
		return "right-to-left"
	case TopToBottom:
		return "top-to-bottom"
	case BottomToTop:
		return "bottom-to-top"
	}
	return "<unknown direction>"
}

// Params collects the context of a measurement: the face to measure
// against, writing direction and language. The zero value is legal and
// lets the measurer fall back to its defaults.
type Params struct {
	Font      *font.TypeCase // face at a point size, may be nil
	Direction Direction
	Language  language.Tag // BCP 47 language tag
}

// faceKey condenses the measurement context into a cache key component.
func (params Params) faceKey() string {
	if params.Font == nil {
		return ""
	}
	name := "?"
	if sf := params.Font.ScalableFontParent(); sf != nil {
		name = sf.Fontname
	}
	return fmt.Sprintf("%s@%.1f", name, params.Font.PtSize())
}

// Measurer is the measurement primitive layout calls through. Widths are
// in scaled points.
//
// Split returns the byte offset of the longest prefix of frag not wider
// than budget, without ever splitting a grapheme cluster; 0 means not
// even the first cluster fits.
type Measurer interface {
	Width(frag string, params Params) dimen.Dimen
	Split(frag string, budget dimen.Dimen, params Params) int
}
