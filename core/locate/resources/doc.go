/*
Package resources resolves and fetches external resources for a document.

As resource loading may be a time-consuming task, some functions in this
package will work in an async/await fashion by returning a promise.
Functions named

   Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then block
until loading has completed.

For document content (images, font-faces) a callback-style fetch boundary
exists as well, see type Fetcher. Fetches complete on their own goroutine;
completion events carry the raw bytes and are meant to be forwarded to a
reflow queue, never applied to engine state directly from the callback.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'weft.resources'.
func tracer() tracing.Trace {
	return tracing.Select("weft.resources")
}
