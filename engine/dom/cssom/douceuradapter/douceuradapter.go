/*
Package douceuradapter feeds CSS parsed by douceur into the style
machinery: every rule's declarations are compiled into a cssom.Program,
every selector is parsed by cascadia and wrapped as a cssom.Matcher.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/weft/engine/dom/cssom"
	"github.com/npillmayer/weft/engine/dom/style"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'weft.dom'.
func tracer() tracing.Trace {
	return tracing.Select("weft.dom")
}

// StyleSheet is a compiled style sheet: rules ready for the cascade, plus
// any font face requests the sheet declared.
type StyleSheet struct {
	rules     []cssom.Rule
	fontFaces []FontFace
	nextSeq   uint32
}

// FontFace is one @font-face declaration of a sheet.
type FontFace struct {
	Family string
	Source string // URL of the font resource
	Style  string
	Weight int32
}

// ParseCSS parses and compiles a style sheet. Rules are numbered from
// seqBase onward; a document stitching multiple sheets together chains
// the numbering with NextSeq. Parse errors of single selectors drop that
// selector only; a syntactically broken sheet returns an error.
func ParseCSS(source string, origin cssom.Origin, seqBase uint32) (*StyleSheet, error) {
	parsed, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	sheet := &StyleSheet{nextSeq: seqBase}
	sheet.compileRules(parsed.Rules, origin)
	return sheet, nil
}

// Empty checks if this stylesheet contains any rules.
func (sheet *StyleSheet) Empty() bool {
	return sheet == nil || len(sheet.rules) == 0
}

// Rules returns the compiled rules of the sheet.
func (sheet *StyleSheet) Rules() []cssom.Rule {
	if sheet == nil {
		return nil
	}
	return sheet.rules
}

// FontFaces returns the @font-face requests of the sheet.
func (sheet *StyleSheet) FontFaces() []FontFace {
	if sheet == nil {
		return nil
	}
	return sheet.fontFaces
}

// NextSeq returns the first rule number after this sheet.
func (sheet *StyleSheet) NextSeq() uint32 {
	return sheet.nextSeq
}

func (sheet *StyleSheet) compileRules(rules []*css.Rule, origin cssom.Origin) {
	for _, r := range rules {
		switch r.Kind {
		case css.QualifiedRule:
			sheet.compileQualified(r, origin)
		case css.AtRule:
			switch r.Name {
			case "@media":
				if mediaApplies(r.Prelude) {
					sheet.compileRules(r.Rules, origin)
				}
			case "@font-face":
				sheet.compileFontFace(r)
			default:
				tracer().Debugf("stylesheet skips %s rule", r.Name)
			}
		}
	}
}

// compileQualified compiles one rule. All selectors of the rule share the
// compiled declaration program, each with its own specificity.
func (sheet *StyleSheet) compileQualified(r *css.Rule, origin cssom.Origin) {
	prog := &cssom.Program{}
	for _, d := range r.Declarations {
		prog.CompileDeclaration(d.Property, style.Property(d.Value), d.Important)
	}
	if prog.Empty() {
		return
	}
	seq := sheet.nextSeq
	sheet.nextSeq++
	for _, selText := range r.Selectors {
		sel, err := cascadia.ParseWithPseudoElement(strings.TrimSpace(selText))
		if err != nil {
			tracer().Debugf("stylesheet drops selector %q: %v", selText, err)
			continue
		}
		sheet.rules = append(sheet.rules, cssom.Rule{
			Match:  selector{sel},
			Prog:   prog,
			Origin: origin,
			Seq:    seq,
		})
	}
}

func (sheet *StyleSheet) compileFontFace(r *css.Rule) {
	face := FontFace{Style: "normal", Weight: 400}
	for _, d := range r.Declarations {
		val := strings.TrimSpace(d.Value)
		switch strings.ToLower(d.Property) {
		case "font-family":
			face.Family = strings.Trim(val, `"'`)
		case "src":
			face.Source = firstFontSource(val)
		case "font-style":
			face.Style = strings.ToLower(val)
		case "font-weight":
			if strings.EqualFold(val, "bold") {
				face.Weight = 700
			}
		}
	}
	if face.Family == "" || face.Source == "" {
		tracer().Debugf("stylesheet drops incomplete @font-face")
		return
	}
	sheet.fontFaces = append(sheet.fontFaces, face)
}

// firstFontSource extracts the first url(…) of an @font-face src list.
func firstFontSource(val string) string {
	lower := strings.ToLower(val)
	i := strings.Index(lower, "url(")
	if i < 0 {
		return ""
	}
	rest := val[i+4:]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return ""
	}
	return strings.Trim(strings.TrimSpace(rest[:end]), `"'`)
}

// mediaApplies decides whether an @media prelude targets a screen-like
// medium. Only medium types are inspected; feature queries (width etc.)
// are taken to apply.
func mediaApplies(prelude string) bool {
	q := strings.ToLower(strings.TrimSpace(prelude))
	if q == "" || strings.Contains(q, "all") || strings.Contains(q, "screen") {
		return !strings.Contains(q, "not screen") && !strings.Contains(q, "not all")
	}
	if strings.Contains(q, "print") || strings.Contains(q, "speech") {
		return false
	}
	return true
}

// selector adapts a cascadia selector to interface cssom.Matcher.
type selector struct {
	sel cascadia.Sel
}

func (s selector) Match(n *html.Node) bool {
	return s.sel.Match(n)
}

func (s selector) Specificity() [3]int {
	return [3]int(s.sel.Specificity())
}

func (s selector) PseudoElement() string {
	return s.sel.PseudoElement()
}

var _ cssom.Matcher = selector{}

// InlineStyle compiles the style attribute of an element, if present.
func InlineStyle(n *html.Node) *cssom.Program {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) != "style" {
			continue
		}
		// douceur's declaration parser needs a terminated final
		// declaration; style attributes routinely omit the semicolon
		val := strings.TrimSpace(attr.Val)
		if !strings.HasSuffix(val, ";") {
			val += ";"
		}
		decls, err := parser.ParseDeclarations(val)
		if err != nil {
			tracer().Debugf("element drops unparsable style attribute: %v", err)
			return nil
		}
		prog := &cssom.Program{}
		for _, d := range decls {
			prog.CompileDeclaration(d.Property, style.Property(d.Value), d.Important)
		}
		if prog.Empty() {
			return nil
		}
		return prog
	}
	return nil
}

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the compiled
// content of the style elements, numbered from seqBase onward.
func ExtractStyleElements(htmldoc *html.Node, seqBase uint32) []*StyleSheet {
	var sheets []*StyleSheet
	seq := seqBase
	for _, root := range []*html.Node{
		findElement(atom.Head, htmldoc),
		findElement(atom.Body, htmldoc),
	} {
		if root == nil {
			continue
		}
		for ch := root.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.DataAtom != atom.Style || ch.FirstChild == nil {
				continue
			}
			sheet, err := ParseCSS(ch.FirstChild.Data, cssom.OriginAuthor, seq)
			if err != nil {
				tracer().Errorf("skipping unparsable style element: %v", err)
				continue
			}
			seq = sheet.NextSeq()
			sheets = append(sheets, sheet)
		}
	}
	return sheets
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := findElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}
