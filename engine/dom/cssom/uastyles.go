package cssom

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"
	"sync"

	"github.com/npillmayer/weft/engine/dom/style"
)

// The user agent's default style sheet. Defaults are keyed by element
// name only, so they compile into one program per element, matched
// without selector machinery. The table is compiled on first use and
// then shared process-wide.

type uaRule struct {
	tags  string // comma-separated element names
	key   string
	value string
}

var uaRuleTable = []uaRule{
	{"html", "display", "block"},
	{"body", "display", "block"},
	{"body", "margin", "8px"},
	{"div,p,blockquote,pre,ol,ul,dl,dd,dt,fieldset,form,hr,figure,figcaption", "display", "block"},
	{"main,header,footer,section,article,aside,nav,address,center", "display", "block"},
	{"p", "margin", "1em 0"},
	{"blockquote", "margin", "1em 40px"},
	{"figure", "margin", "1em 40px"},
	{"h1,h2,h3,h4,h5,h6", "display", "block"},
	{"h1,h2,h3,h4,h5,h6", "font-weight", "bold"},
	{"h1", "font-size", "2em"},
	{"h1", "margin", "0.67em 0"},
	{"h2", "font-size", "1.5em"},
	{"h2", "margin", "0.75em 0"},
	{"h3", "font-size", "1.17em"},
	{"h3", "margin", "0.83em 0"},
	{"h4", "margin", "1.12em 0"},
	{"h5", "font-size", "0.83em"},
	{"h5", "margin", "1.5em 0"},
	{"h6", "font-size", "0.75em"},
	{"h6", "margin", "1.67em 0"},
	{"pre,code,kbd,samp,tt", "font-family", "monospace"},
	{"pre", "margin", "1em 0"},
	{"ol,ul", "margin", "1em 0"},
	{"ol,ul", "padding-left", "40px"},
	{"li", "display", "list-item"},
	{"b,strong", "font-weight", "bold"},
	{"i,em,cite,var,dfn", "font-style", "italic"},
	{"a", "color", "#0000ee"},
	{"small", "font-size", "0.83em"},
	{"big", "font-size", "1.17em"},
	{"sub,sup", "font-size", "0.83em"},
	{"hr", "display", "block"},
	{"hr", "margin", "0.5em auto"},
	{"hr", "border-width", "1px"},
	{"table,tr", "display", "block"},
	{"td,th", "display", "inline-block"},
	{"td,th", "padding", "1px"},
	{"th", "font-weight", "bold"},
	{"head,style,script,title,meta,link,base,template,datalist,param", "display", "none"},
}

var uaOnce sync.Once
var uaPrograms map[string]*Program

func uaDefaults() map[string]*Program {
	uaOnce.Do(func() {
		uaPrograms = make(map[string]*Program)
		for _, rule := range uaRuleTable {
			for _, tag := range strings.Split(rule.tags, ",") {
				prog := uaPrograms[tag]
				if prog == nil {
					prog = &Program{}
					uaPrograms[tag] = prog
				}
				prog.CompileDeclaration(rule.key, style.Property(rule.value), false)
			}
		}
	})
	return uaPrograms
}

// ApplyUADefaults applies the user agent's default style for the given
// element name to the accumulated style.
func (c *Cascaded) ApplyUADefaults(tag string) error {
	prog := uaDefaults()[strings.ToLower(tag)]
	if prog == nil {
		return nil
	}
	return c.Apply(prog, OriginUserAgent, [3]int{0, 0, 1}, 0)
}
