/*
Package cssom implements the style machinery of the engine: style
properties, compiled style programs, the cascade and style composition.

Style sheets do not stay in their textual form. Each rule's declarations
are compiled into a compact program of records (see Program), which the
cascade then runs against the accumulated style of a document node:

	c, _ := cssom.StartCascade(nil)
	c.ApplyUADefaults("p")
	c.Apply(prog, cssom.OriginAuthor, specificity, seq)
	styles, err := c.Compose(parentStyles, env, nil)

Competing declarations for a property are ranked by origin, importance,
selector specificity and source order, packed into a single Priority
word. Composition finalizes a node's style against its parent's: text
properties inherit, font- and viewport-relative lengths resolve to
absolute ones. Percentages survive composition; they can only be
resolved during layout.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cssom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'weft.dom'.
func tracer() tracing.Trace {
	return tracing.Select("weft.dom")
}
