/*
Package reflow coordinates asynchronous resource completion with layout.

Resource fetches (image bytes, font-face bytes) finish on goroutines of
the fetch subsystem. Their completion events are queued and drained on
the content thread, which is the only place box trees may be mutated.
The coordinator decides, per event, whether a box's existing geometry
may stand or whether a re-layout pass, scoped to the box's ancestor
chain, is required.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package reflow

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'weft.frame.reflow'.
func tracer() tracing.Trace {
	return tracing.Select("weft.frame.reflow")
}
