package inline

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/weft/core/dimen"
	"github.com/npillmayer/weft/engine/dom/cssom"
)

// Parshape describes the shape of a paragraph as the line breaker sees
// it: for every line number it yields a left indent and a usable width.
// Floats flowing beside a paragraph notch its shape.
type Parshape interface {
	LineLength(l int) dimen.Dimen // usable width of line l, counting from 0
	LineIndent(l int) dimen.Dimen // left offset of line l
}

// --- Rectangular shapes ----------------------------------------------------

type rectShape struct {
	width dimen.Dimen
}

// Rectangle returns the shape of an unobstructed paragraph: every line
// has the full width and no indent.
func Rectangle(width dimen.Dimen) Parshape {
	return rectShape{width: width}
}

func (r rectShape) LineLength(int) dimen.Dimen { return r.width }

func (r rectShape) LineIndent(int) dimen.Dimen { return 0 }

// --- Shapes notched by floats ----------------------------------------------

// FloatRect is the margin box of a float, positioned relative to the
// origin of the paragraph's content box.
type FloatRect struct {
	X, Y dimen.Dimen
	W, H dimen.Dimen
	Side cssom.FloatMode
}

type floatShape struct {
	width    dimen.Dimen
	lineskip dimen.Dimen
	floats   []FloatRect
}

// ShapeAroundFloats returns a paragraph shape which notches every line
// overlapping a float. Lines map to vertical bands of height lineskip:
// a left float within a line's band pushes the line's start to its
// right edge, a right float pulls the line's end to its left edge.
// A non-positive lineskip falls back to the default baseline distance.
func ShapeAroundFloats(width dimen.Dimen, lineskip dimen.Dimen, floats []FloatRect) Parshape {
	if lineskip <= 0 {
		lineskip = defaultFontSize * 6 / 5
	}
	return &floatShape{width: width, lineskip: lineskip, floats: floats}
}

func (fs *floatShape) band(l int) (left, right dimen.Dimen) {
	top := dimen.Dimen(l) * fs.lineskip
	bot := top + fs.lineskip
	left, right = 0, fs.width
	for _, f := range fs.floats {
		if f.Y >= bot || f.Y+f.H <= top {
			continue // float does not reach into this line's band
		}
		switch f.Side {
		case cssom.FloatLeft:
			if edge := f.X + f.W; edge > left {
				left = edge
			}
		case cssom.FloatRight:
			if f.X < right {
				right = f.X
			}
		}
	}
	if right < left {
		right = left
	}
	return left, right
}

// LineLength is part of interface Parshape.
func (fs *floatShape) LineLength(l int) dimen.Dimen {
	left, right := fs.band(l)
	return right - left
}

// LineIndent is part of interface Parshape.
func (fs *floatShape) LineIndent(l int) dimen.Dimen {
	left, _ := fs.band(l)
	return left
}
