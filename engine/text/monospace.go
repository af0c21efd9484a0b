package text

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
	"github.com/npillmayer/weft/core/dimen"
	"golang.org/x/text/unicode/norm"
)

type monospace struct {
	em      dimen.Dimen
	context *uax11.Context
}

// Monospace creates the deterministic fallback measurer: every grapheme
// cluster advances by one em, East Asian wide clusters by two.
//
// An em dimension may be given which will then be used for all runs. If
// it is zero, the em is derived from the face passed with each call.
func Monospace(em dimen.Dimen, context *uax11.Context) Measurer {
	ms := &monospace{
		em:      em,
		context: context,
	}
	if context == nil {
		ms.context = uax11.LatinContext
	}
	grapheme.SetupGraphemeClasses()
	return ms
}

func (ms *monospace) Width(frag string, params Params) dimen.Dimen {
	em := ms.advance(params)
	if em == 0 || frag == "" {
		return 0
	}
	gstr := grapheme.StringFromString(frag)
	var w dimen.Dimen
	for i, l := 0, gstr.Len(); i < l; i++ {
		w += ms.clusterAdvance(gstr.Nth(i), em)
	}
	return w
}

func (ms *monospace) Split(frag string, budget dimen.Dimen, params Params) int {
	em := ms.advance(params)
	if em == 0 || frag == "" {
		return 0
	}
	gstr := grapheme.StringFromString(frag)
	offset := 0
	var w dimen.Dimen
	for i, l := 0, gstr.Len(); i < l; i++ {
		cluster := gstr.Nth(i)
		w += ms.clusterAdvance(cluster, em)
		if w > budget {
			break
		}
		offset += len(cluster)
	}
	return offset
}

// advance finds the em to advance by: the fixed one, or the point size of
// the face measured against.
func (ms *monospace) advance(params Params) dimen.Dimen {
	if ms.em != 0 {
		return ms.em
	}
	if params.Font == nil {
		tracer().Errorf("monospace measurer has em=0 and no font provided => no output")
		return 0
	}
	return dimen.Dimen(params.Font.PtSize() * float64(dimen.PT))
}

// clusterAdvance classifies one grapheme cluster, NFC-normalized, by its
// East Asian width.
func (ms *monospace) clusterAdvance(cluster string, em dimen.Dimen) dimen.Dimen {
	w := uax11.Width(norm.NFC.Bytes([]byte(cluster)), ms.context)
	return dimen.Dimen(w) * em
}

var _ Measurer = &monospace{}
