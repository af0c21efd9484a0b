/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size for
a certain script and language. The name is reminiscend on the wooden
boxes of typesetters in the aera of metal type.
An example is "Helvetica regular 11pt, Latin, en_US".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

Fonts enter the engine as raw bytes, either from a file or from a
downloadable font-face fetch, and leave it as opaque typecase handles.
Glyph shaping never happens here; measurement and shaping live behind
the platform text boundary.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import (
	"os"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	xfont "golang.org/x/image/font"
)

// tracer traces with key 'weft.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("weft.fonts")
}

// ScalableFont is a font variant of a typeface, not yet scaled to a size.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path, empty for downloaded or embedded fonts
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// TypeCase is a scaled font, the opaque handle the engine measures with.
type TypeCase struct {
	scalableFontParent *ScalableFont
	face               xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size               float64
}

// NullTypeCase returns an empty typecase handle.
func NullTypeCase() *TypeCase {
	return &TypeCase{
		face: nil,
		size: 10,
	}
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err == nil {
		f.Filepath = fontfile
	}
	return f, err
}

// ParseOpenTypeFont registers raw font bytes: bytes in, scalable font
// handle out. This is the registration half of the platform text
// boundary; downloaded font-face bytes pass through here.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// PrepareCase scales a font to a size, in points. Sizes outside of
// 5pt…500pt fall back to 10pt.
//
// TODO: check if font supports script of the intended text run
func (sf *ScalableFont) PrepareCase(fontsize float64) (*TypeCase, error) {
	typecase := &TypeCase{}
	typecase.scalableFontParent = sf
	if fontsize < 5.0 || fontsize > 500.0 {
		tracer().Infof("font size must be 5pt < size < 500pt, is %g (set to 10pt)", fontsize)
		fontsize = 10.0
	}
	options := &opentype.FaceOptions{
		Size: fontsize,
		DPI:  600,
	}
	f, err := opentype.NewFace(sf.SFNT, options)
	if err == nil {
		typecase.face = f
		typecase.size = fontsize
	}
	return typecase, err
}

// ScalableFontParent returns the unscaled font a typecase was derived from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// PtSize returns the point size of a typecase.
func (tc *TypeCase) PtSize() float64 {
	return tc.size
}

// Face exposes the underlying Go font face, for metric queries at the
// paint boundary.
func (tc *TypeCase) Face() xfont.Face {
	return tc.face
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// --- Font descriptors ------------------------------------------------------

// Descriptor describes a font variant some provider (fontconfig, a web
// service, a stylesheet's font-face rule) can deliver, without the font
// being loaded yet.
type Descriptor struct {
	Family   string   // font family name
	Path     string   // file path or URL to fetch from
	Variants []string // variant names, e.g. "regular", "bold", "400italic"
}

// CSSWeight converts a numeric CSS font-weight to the x/image scale.
func CSSWeight(w int32) xfont.Weight {
	if w <= 0 {
		return xfont.WeightNormal
	}
	return xfont.Weight(w/100 - 4)
}

// CSSStyle converts a CSS font-style keyword to the x/image scale.
func CSSStyle(s string) xfont.Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "italic":
		return xfont.StyleItalic
	case "oblique":
		return xfont.StyleOblique
	}
	return xfont.StyleNormal
}
