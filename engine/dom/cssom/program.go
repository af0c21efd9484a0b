package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"image/color"

	"github.com/npillmayer/weft/engine/dom/style/css"
)

// Style sheets are compiled into programs. A program is a flat run of
// records, one per declaration, over a word stream:
//
//	word 0:  property | flags | value tag
//	word 1:  argument count n
//	word 2…: n argument words
//
// Records are self-delimiting through the count word. A reader which fails
// to decode a record's arguments rewinds to the start of the record and
// skips it whole, so one malformed record never desynchronizes the rest of
// the stream. Strings (font families, image URLs) live in a side table and
// are referenced by index.

// Program is a compiled run of style declarations. The zero value is an
// empty program, ready for use.
type Program struct {
	code    []uint32
	strings []string
}

// Declaration flags
const (
	flagImportant uint8 = 0x01
)

// Value tags. Every record carries exactly one of these; the argument
// layout is fixed per tag.
const (
	tagInherit   uint8 = iota + 1 // no args
	tagInitial                    // no args
	tagNone                       // no args
	tagAuto                       // no args
	tagKeyword                    // 1 arg: enum code
	tagDimen                      // 3 args: dimension wire form
	tagFactor                     // 1 arg: scaled factor
	tagColor                      // 1 arg: packed RGBA
	tagString                     // 1 arg: string table index
	tagInteger                    // 1 arg: signed integer
	tagTracks                     // 1+4n args: track count n, then per track dimen+factor
	tagTransform                  // 6 args: 4 factors + 2 dimensions
	tagGridLine                   // 1 arg: 1-based line number
)

// Empty returns true if the program contains no records.
func (prog *Program) Empty() bool {
	return prog == nil || len(prog.code) == 0
}

// Records returns the number of declaration records in the program.
func (prog *Program) Records() int {
	r := reader(prog)
	n := 0
	for {
		if _, ok := r.next(); !ok {
			break
		}
		n++
	}
	return n
}

func (prog *Program) String() string {
	if prog.Empty() {
		return "style program <empty>"
	}
	return fmt.Sprintf("style program with %d declarations", prog.Records())
}

// emit appends one record.
func (prog *Program) emit(prop PropertyID, flags uint8, tag uint8, args ...uint32) {
	prog.code = append(prog.code, uint32(prop)<<16|uint32(flags)<<8|uint32(tag))
	prog.code = append(prog.code, uint32(len(args)))
	prog.code = append(prog.code, args...)
}

// intern puts s into the string side table, re-using an existing entry.
func (prog *Program) intern(s string) uint32 {
	for i, t := range prog.strings {
		if t == s {
			return uint32(i)
		}
	}
	prog.strings = append(prog.strings, s)
	return uint32(len(prog.strings) - 1)
}

// lookup resolves a string table index. Out-of-range indexes yield the
// empty string.
func (prog *Program) lookup(i uint32) string {
	if int(i) >= len(prog.strings) {
		return ""
	}
	return prog.strings[i]
}

// --- Reading ---------------------------------------------------------------

// record is one decoded declaration.
type record struct {
	prop  PropertyID
	flags uint8
	tag   uint8
	args  []uint32
}

func (rec record) important() bool {
	return rec.flags&flagImportant > 0
}

// word returns argument i.
func (rec record) word(i int) (uint32, bool) {
	if i >= len(rec.args) {
		return 0, false
	}
	return rec.args[i], true
}

// dimenArg decodes a 3-word dimension operand starting at args[i].
func (rec record) dimenArg(i int) (css.DimenT, bool) {
	if i+3 > len(rec.args) {
		return css.Dimen(), false
	}
	return css.DecodeDimen([3]uint32{rec.args[i], rec.args[i+1], rec.args[i+2]}), true
}

// progReader walks a program record by record.
type progReader struct {
	prog *Program
	pc   int
}

func reader(prog *Program) *progReader {
	return &progReader{prog: prog}
}

// mark returns the current cursor position.
func (r *progReader) mark() int {
	return r.pc
}

// rewind resets the cursor to a previous mark.
func (r *progReader) rewind(pc int) {
	r.pc = pc
}

// next decodes the record under the cursor and advances past it by the
// record's advertised length. Decoding is all-or-nothing: a record whose
// arguments run past the end of the stream leaves the cursor at the record
// start and ends the iteration. Argument values are not interpreted here;
// a record which later fails value decoding has still been skipped whole,
// so the records after it stay in sync.
func (r *progReader) next() (record, bool) {
	if r.prog == nil {
		return record{}, false
	}
	code := r.prog.code
	start := r.mark()
	if start+2 > len(code) {
		return record{}, false
	}
	head := code[start]
	n := int(code[start+1])
	if start+2+n > len(code) {
		return record{}, false
	}
	rec := record{
		prop:  PropertyID(head >> 16),
		flags: uint8(head >> 8),
		tag:   uint8(head),
		args:  code[start+2 : start+2+n],
	}
	r.pc = start + 2 + n
	return rec, true
}

// --- Operand packing -------------------------------------------------------

func packRGBA(c color.Color) uint32 {
	if c == nil {
		return 0
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return uint32(rgba.R)<<24 | uint32(rgba.G)<<16 | uint32(rgba.B)<<8 | uint32(rgba.A)
}

func unpackRGBA(w uint32) color.Color {
	return color.RGBA{
		R: uint8(w >> 24),
		G: uint8(w >> 16),
		B: uint8(w >> 8),
		A: uint8(w),
	}
}
