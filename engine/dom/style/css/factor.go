package css

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2023 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strconv"
	"strings"

	"github.com/npillmayer/weft/core/dimen"
)

// Factor is a unitless scalar with two fractional digits, as used by
// flex-grow, flex-shrink, opacity and fractional grid tracks. A value
// of 1.0 is represented as FactorBase.
type Factor int32

// FactorBase is the representation of factor 1.0.
const FactorBase Factor = 10000

// SomeFactor converts a float to a factor, truncating excess precision.
func SomeFactor(f float64) Factor {
	return Factor(f * float64(FactorBase))
}

// ParseFactor parses a decimal number string like "1", "2.5" or ".7".
func ParseFactor(s string) (Factor, bool) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != f { // reject NaN
		return 0, false
	}
	return SomeFactor(f), true
}

// Float returns the factor as a float64.
func (f Factor) Float() float64 {
	return float64(f) / float64(FactorBase)
}

// Scale multiplies a dimension by the factor.
func (f Factor) Scale(d dimen.Dimen) dimen.Dimen {
	return dimen.Dimen(int64(d) * int64(f) / int64(FactorBase))
}

func (f Factor) String() string {
	return strconv.FormatFloat(f.Float(), 'f', -1, 64)
}
