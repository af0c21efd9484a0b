/*
Package framedebug produces debugging output for box trees.

Two renderings are supported: a GraphViz DOT file for graphical
inspection, and an indented text tree for dumping into trace logs and
test output. Both operate on a box arena and follow the structural
links, so they may be used at any stage, before or after layout.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package framedebug

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/schuko/tracing"
	tp "github.com/xlab/treeprint"

	"github.com/npillmayer/weft/engine/frame/boxtree"
)

// tracer traces with key 'weft.frame'.
func tracer() tracing.Trace {
	return tracing.Select("weft.frame")
}

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname string
	BoxTmpl  *template.Template
	EdgeTmpl *template.Template
	cnt      int
}

// ToGraphViz creates a graphical representation of a box tree. It
// produces DOT file format suitable as input for GraphViz, given a
// Writer.
func ToGraphViz(arena *boxtree.Arena, root boxtree.BoxIndex, w io.Writer) {
	header, err := template.New("boxTree").Parse(graphHeadTmpl)
	if err != nil {
		panic(err)
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.BoxTmpl = template.Must(template.New("box").Parse(boxTmpl))
	gparams.EdgeTmpl = template.Must(template.New("boxedge").Parse(edgeTmpl))
	if err = header.Execute(w, gparams); err != nil {
		panic(err)
	}
	boxes(arena, root, w, &gparams)
	w.Write([]byte("}\n"))
}

func boxes(arena *boxtree.Arena, i boxtree.BoxIndex, w io.Writer, gparams *graphParamsType) {
	gparams.cnt++
	if gparams.cnt == 3000 {
		return // guard against erroneous cycles
	}
	box(arena, i, w, gparams)
	tracer().Debugf("box = %v", arena.Box(i))
	for _, child := range arena.Children(i) {
		boxes(arena, child, w, gparams)
		edge(i, child, w, gparams)
	}
}

func box(arena *boxtree.Arena, i boxtree.BoxIndex, w io.Writer, gparams *graphParamsType) {
	n := arena.Box(i)
	b := cbox{
		Name:  nodeName(i),
		Label: dotEscape(label(n)),
		Fill:  "fillcolor=lightblue3",
	}
	switch {
	case n.Kind == boxtree.KindText:
		b.Fill = "fillcolor=grey95"
		b.Font = `fontname="Courier" fontsize=11.0`
	case n.IsAnonymous():
		b.Fill = "fillcolor=grey90"
		b.Font = `fontname="Courier" fontsize=11.0`
	}
	// boxes whose width layout has not fixed yet get a double border
	if !n.Box.HasFixedBorderBoxWidth(true) {
		b.Border = "peripheries=2"
	}
	if err := gparams.BoxTmpl.Execute(w, b); err != nil {
		panic(err)
	}
}

// Helper structs for the templates.
type cbox struct {
	Name   string
	Label  string
	Fill   string
	Font   string
	Border string
}

type cedge struct {
	Name1, Name2 string
}

func nodeName(i boxtree.BoxIndex) string {
	return fmt.Sprintf("node%05d", i)
}

func edge(i1, i2 boxtree.BoxIndex, w io.Writer, gparams *graphParamsType) {
	e := cedge{nodeName(i1), nodeName(i2)}
	if err := gparams.EdgeTmpl.Execute(w, e); err != nil {
		panic(err)
	}
}

// label produces the node caption: the box description, with the fixed
// border box dimensions appended once layout has set them.
func label(n *boxtree.BoxNode) string {
	s := n.String()
	if w, h := n.Box.BorderBoxWidth(), n.Box.BorderBoxHeight(); w.IsAbsolute() && h.IsAbsolute() {
		s += fmt.Sprintf(" %.1f x %.1f", w.Unwrap().Pixels(), h.Unwrap().Pixels())
	}
	return s
}

func dotEscape(s string) string {
	s = strings.Replace(s, `"`, `\"`, -1)
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	return s
}

// --- Templates -------------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [{{ .Fontname }} = "helvetica" fontsize=12] ;
   node [fontname = "{{ .Fontname }}" fontsize=12] ;
   edge [fontname = "{{ .Fontname }}" fontsize=12] ;
`

const boxTmpl = `{{ .Name }}	[ label="{{ .Label }}" shape=box style=filled {{ .Fill }} {{ .Font }} {{ .Border }}] ;
`

const edgeTmpl = `{{ .Name1 }} -> {{ .Name2 }} [weight=1] ;
`

// --- Text tree -------------------------------------------------------------

// FormatTree renders a box tree as an indented text tree, one box per
// line, suitable for trace logs and test output.
func FormatTree(arena *boxtree.Arena, root boxtree.BoxIndex) string {
	p := tp.New()
	ppt(p, arena, root)
	return p.String()
}

func ppt(p tp.Tree, arena *boxtree.Arena, i boxtree.BoxIndex) {
	n := arena.Box(i)
	children := arena.Children(i)
	if len(children) == 0 {
		p.AddNode(label(n))
		return
	}
	branch := p.AddBranch(label(n))
	for _, child := range children {
		ppt(branch, arena, child)
	}
}
