package frame

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/cords/styled"
	"github.com/npillmayer/weft/engine/dom/cssom"
)

// StyleSet makes a computed style attachable to runs of styled text
// (type styled.Text). Boxes of equally styled text share one computed
// style instance, which is why Equals compares pointers.
type StyleSet struct {
	Props *cssom.Style
}

var _ styled.Style = StyleSet{}

func (set StyleSet) String() string {
	return "<style>"
}

// Equals is part of interface styled.Style.
func (set StyleSet) Equals(other styled.Style) bool {
	o, ok := other.(StyleSet)
	return ok && o.Props == set.Props
}

// Styles returns the computed style wrapped by set. May be nil for text
// without a styled origin.
func (set StyleSet) Styles() *cssom.Style {
	return set.Props
}
