// Package percent implements a simple and straightforward type for percentage
// values. Percentages carry two fractional digits, i.e. they are stored as
// 1/10000ths (per-myriad). This is fine grained enough for style sheets found
// in the wild, which rarely use more than two digits (as in `width: 33.33%`).
package percent

import (
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/weft/core/dimen"
)

// Percent is a percentage value with two fractional digits.
// 100% is represented as 10000.
type Percent int32

// Base is the representation of 100%.
const Base Percent = 10000

// FromInt converts whole percentage points, i.e. FromInt(50) is 50%.
func FromInt(n int) Percent {
	return Percent(n) * Base / 100
}

// FromFloat converts fractional percentage points, i.e. FromFloat(33.33)
// is 33.33%. NaN and infinities map to 0%.
func FromFloat(f float64) Percent {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Percent(math.Round(f * 100))
}

// FromString converts a numeric string with an optional trailing '%'.
func FromString(s string) (Percent, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return FromFloat(f), nil
}

func (p Percent) String() string {
	if p%100 == 0 {
		return strconv.Itoa(int(p/100)) + "%"
	}
	return strconv.FormatFloat(float64(p)/100, 'f', -1, 64) + "%"
}

// Of scales a dimension by p.
func (p Percent) Of(d dimen.Dimen) dimen.Dimen {
	return d.Permyriad(int32(p))
}
