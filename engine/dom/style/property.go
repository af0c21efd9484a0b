package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.dom'.
func tracer() tracing.Trace {
	return tracing.Select("weft.dom")
}

// Property is a raw value for a CSS property. For example, with
//
//	color: black
//
// a property value of "black" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient type conversion functions and other helpers.
//
// Raw property values are what the style sheet compiler consumes. The
// compiled, typed representation of a declaration lives in package cssom.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial".
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit".
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// --- Colors ----------------------------------------------------------------

// basic CSS color keywords, plus a handful of common aliases
var colorNames = map[Property]color.RGBA{
	"black":   {0x00, 0x00, 0x00, 0xff},
	"silver":  {0xc0, 0xc0, 0xc0, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
	"grey":    {0x80, 0x80, 0x80, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"maroon":  {0x80, 0x00, 0x00, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"purple":  {0x80, 0x00, 0x80, 0xff},
	"fuchsia": {0xff, 0x00, 0xff, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"lime":    {0x00, 0xff, 0x00, 0xff},
	"olive":   {0x80, 0x80, 0x00, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
	"navy":    {0x00, 0x00, 0x80, 0xff},
	"blue":    {0x00, 0x00, 0xff, 0xff},
	"teal":    {0x00, 0x80, 0x80, 0xff},
	"aqua":    {0x00, 0xff, 0xff, 0xff},
	"orange":  {0xff, 0xa5, 0x00, 0xff},
}

// Color converts a property value to a color. Named colors and
// hex notations `#rgb` and `#rrggbb` are understood; everything
// else maps to black.
func (p Property) Color() color.Color {
	p = Property(strings.ToLower(strings.TrimSpace(string(p))))
	if p == "transparent" {
		return color.RGBA{}
	}
	if c, ok := colorNames[p]; ok {
		return c
	}
	if strings.HasPrefix(string(p), "#") {
		if c, ok := hexColor(string(p[1:])); ok {
			return c
		}
	}
	return color.Black
}

func hexColor(hex string) (color.RGBA, bool) {
	var r, g, b uint64
	var err error
	switch len(hex) {
	case 3:
		r, err = strconv.ParseUint(hex[0:1]+hex[0:1], 16, 8)
		if err == nil {
			g, err = strconv.ParseUint(hex[1:2]+hex[1:2], 16, 8)
		}
		if err == nil {
			b, err = strconv.ParseUint(hex[2:3]+hex[2:3], 16, 8)
		}
	case 6:
		r, err = strconv.ParseUint(hex[0:2], 16, 8)
		if err == nil {
			g, err = strconv.ParseUint(hex[2:4], 16, 8)
		}
		if err == nil {
			b, err = strconv.ParseUint(hex[4:6], 16, 8)
		}
	default:
		return color.RGBA{}, false
	}
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 0xff}, true
}

// --- Compound properties ---------------------------------------------------

// SplitCompoundProperty splits up a shorthand property into its individual
// components. Returns a slice of key-value pairs representing the
// individual (fine grained) style properties.
// Example:
//
//	SplitCompoundProperty("padding", "3px")
//
// will return
//
//	"padding-top"    => "3px"
//	"padding-right"  => "3px"
//	"padding-bottom" => "3px"
//	"padding-left"   => "3px"
func SplitCompoundProperty(key string, value Property) ([]KeyValue, error) {
	fields := strings.Fields(value.String())
	switch key {
	case "margin":
		return feazeCompound4("margin", "", fourDirs, fields)
	case "padding":
		return feazeCompound4("padding", "", fourDirs, fields)
	case "border-color":
		return feazeCompound4("border", "color", fourDirs, fields)
	case "border-width":
		return feazeCompound4("border", "width", fourDirs, fields)
	case "border-style":
		return feazeCompound4("border", "style", fourDirs, fields)
	case "inset":
		return feazeCompound4("", "", fourDirs, fields)
	}
	return nil, fmt.Errorf("not recognized as compound property: %s", key)
}

// CSS logic to distribute individual values from compound shorthands:
// 1 value covers all four directions, 2 values cover vertical/horizontal,
// 3 values leave the left side to mirror the right.
func feazeCompound4(pre string, suf string, dirs [4]string, fields []string) ([]KeyValue, error) {
	l := len(fields)
	if l == 0 || l > 4 {
		return nil, fmt.Errorf("expecting 1-4 values for %s-%s", pre, suf)
	}
	r := make([]KeyValue, 4)
	r[0] = KeyValue{p(pre, suf, dirs[0]), Property(fields[0])}
	if l >= 2 {
		r[1] = KeyValue{p(pre, suf, dirs[1]), Property(fields[1])}
		if l >= 3 {
			r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[2])}
			if l == 4 {
				r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[3])}
			} else {
				r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[1])}
			}
		} else {
			r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[0])}
			r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[1])}
		}
	} else {
		r[1] = KeyValue{p(pre, suf, dirs[1]), Property(fields[0])}
		r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[0])}
		r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[0])}
	}
	return r, nil
}

var fourDirs = [4]string{"top", "right", "bottom", "left"}

func p(prefix string, suffix string, tag string) string {
	if prefix == "" && suffix == "" {
		return tag
	}
	if suffix == "" {
		return prefix + "-" + tag
	}
	if prefix == "" {
		return tag + "-" + suffix
	}
	return prefix + "-" + tag + "-" + suffix
}
