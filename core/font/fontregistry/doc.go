/*
Package fontregistry manages a registry for loaded fonts.

Besides caching scalable fonts and derived typecases, the registry tracks
in-flight font-face downloads. Download slots are bounded; a document
pulling in more font-faces than slots exist will have the excess faces
fall back silently.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'weft.fonts'
func tracer() tracing.Trace {
	return tracing.Select("weft.fonts")
}
