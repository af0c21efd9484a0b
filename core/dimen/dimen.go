// Package dimen implements dimensions and units.
//
/*
BSD License

Copyright (c) 2017–2023, Norbert Pillmayer (norbert@pillmayer.com)

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.  */
package dimen

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Dimen is a dimension type.
// Values are in scaled points, with 65536 scaled points to a pixel.
// All geometry in the engine is calculated in scaled points; conversion
// to device pixels happens at the paint boundary.
type Dimen int32

// Some pre-defined dimensions
const (
	Zero Dimen = 0
	SP   Dimen = 1       // scaled point = PX / 65536
	BP   Dimen = 65536   // big point (PDF) = 1/72 inch
	PX   Dimen = 65536   // CSS pixel
	PT   Dimen = 65291   // printers point 1/72.27 inch
	MM   Dimen = 185771  // millimeters
	CM   Dimen = 1857710 // centimeters
	IN   Dimen = 4718592 // inch
)

// Infinity is the largest possible dimension.
const Infinity = math.MaxInt32

// PermyriadBase is the denominator for per-myriad fractions. Percentages
// carry two fraction digits, i.e. 33.33% is 3333 per-myriad.
const PermyriadBase = 10000

// Stringer implementation.
func (d Dimen) String() string {
	return fmt.Sprintf("%dsp", int32(d))
}

// Pixels returns a dimension in (fractional) CSS pixels.
func (d Dimen) Pixels() float64 {
	return float64(d) / float64(PX)
}

// Permyriad scales a dimension by pm/10000, using 64-bit intermediate
// arithmetic. This is the resolution step for percentage values.
func (d Dimen) Permyriad(pm int32) Dimen {
	return Dimen(int64(d) * int64(pm) / PermyriadBase)
}

// Point is a point on the canvas.
type Point struct {
	X, Y Dimen
}

// Origin is origin
var Origin = Point{0, 0}

// Shift a point along a vector.
func (p *Point) Shift(vector Point) *Point {
	p.X += vector.X
	p.Y += vector.Y
	return p
}

// Some common viewport sizes
var (
	SVGA = Point{800 * PX, 600 * PX}
	HD   = Point{1280 * PX, 720 * PX}
	FHD  = Point{1920 * PX, 1080 * PX}
)

// Rect is a rectangle on the canvas.
type Rect struct {
	TopL, BotR Point
}

// Width returns the width of a rectangle, i.e. the difference between
// x-coordinates of bottom-right and top-left corner.
func (r Rect) Width() Dimen {
	return r.BotR.X - r.TopL.X
}

// Height returns the height of a rectangle, i.e. the difference between
// y-coordinates of bottom-right and top-left corner.
func (r Rect) Height() Dimen {
	return r.BotR.Y - r.TopL.Y
}

// ---------------------------------------------------------------------------

var dimenPattern = regexp.MustCompile(`^([+\-]?)([0-9]+)(?:\.([0-9]+))?(%|[a-z]{1,4})?$`)

// ParseDimen parses a string to return a dimension. Syntax is CSS Unit;
// decimal fractions are accepted ("1.5px", "33.33%").
// If a percentage value is given, the second return value will be true and
// the returned dimension is a raw per-myriad count ("33.33%" → 3333), to be
// resolved against a basis with Dimen.Permyriad.
func ParseDimen(s string) (Dimen, bool, error) {
	d := dimenPattern.FindStringSubmatch(s)
	if len(d) < 5 {
		return 0, false, errors.New("format error parsing dimension")
	}
	scale := SP
	ispcnt := false
	switch d[4] {
	case "pt":
		scale = PT
	case "mm":
		scale = MM
	case "bp", "px":
		scale = BP
	case "cm":
		scale = CM
	case "in":
		scale = IN
	case "em", "rem", "ex", "ch", "vw", "vh", "vmin", "vmax": // relative units resolve upstream
		scale = BP
	case "sp", "":
		scale = SP
	case "%":
		ispcnt = true
	default:
		return 0, false, errors.New("format error parsing dimension")
	}
	n, err := strconv.ParseInt(d[2], 10, 32)
	if err != nil {
		return 0, false, errors.New("format error parsing dimension")
	}
	var value int64
	if ispcnt {
		value = n * 100 // per-myriad integer part
		if d[3] != "" {
			frac := (d[3] + "00")[:2] // two fraction digits carry
			f, _ := strconv.ParseInt(frac, 10, 32)
			value += f
		}
	} else {
		value = n * int64(scale)
		if d[3] != "" {
			denom := int64(1)
			for range d[3] {
				denom *= 10
			}
			f, _ := strconv.ParseInt(d[3], 10, 64)
			value += f * int64(scale) / denom
		}
	}
	if d[1] == "-" {
		value = -value
	}
	if value > Infinity || value < -Infinity {
		return 0, false, errors.New("dimension out of range")
	}
	return Dimen(value), ispcnt, nil
}

// ---------------------------------------------------------------------------

// Min returns the smaller of two dimensions.
func Min(a, b Dimen) Dimen {
	if a < b {
		return a
	}
	return b
}

// Max returns the greater of two dimensions.
func Max(a, b Dimen) Dimen {
	if a > b {
		return a
	}
	return b
}
