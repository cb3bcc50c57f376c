// Package movement provides fixed-point movement-point quantities.
//
// A quantity is stored as an integer count of 1/30 movement-point units.
// Base 30 represents both the 1/3 road cost and the 1/10 railroad cost
// exactly, so repeated movement arithmetic never accumulates rounding
// error the way a float representation would.
package movement

import (
	"fmt"
	"math"
)

// Scale is the number of fixed-point units in one movement point.
const Scale = 30

// Max is the largest representable quantity: 511/30 ≈ 17.03 movement
// points. It matches the widest field holding a Points value in the
// routing layer's packed node word; conversions saturate here rather
// than overflow.
const Max = Points(511)

// Points is a movement quantity in 1/30 movement-point units.
//
// Arithmetic on Points is plain integer arithmetic and does not clamp;
// callers summing many edges must apply AtMost/AtLeast/Clamp before
// handing a result to anything with a bounded field.
type Points int32

// FromFloat converts movement points to fixed point, rounding half up.
// Values beyond Max saturate; negative values saturate at zero.
func FromFloat(mp float64) Points {
	p := Points(math.Floor(mp*Scale + 0.5))
	if p < 0 {
		return 0
	}
	if p > Max {
		return Max
	}
	return p
}

// FromInt converts whole movement points to fixed point, saturating at
// Max.
func FromInt(mp int) Points {
	if mp < 0 {
		return 0
	}
	p := Points(mp) * Scale
	if p > Max {
		return Max
	}
	return p
}

// Thirtieths constructs a quantity from raw base-30 units, saturating
// at Max.
func Thirtieths(n int) Points {
	if n < 0 {
		return 0
	}
	if n > int(Max) {
		return Max
	}
	return Points(n)
}

// Float converts back to movement points for display.
func (p Points) Float() float64 {
	return float64(p) / Scale
}

// AtMost returns the smaller of p and limit.
func (p Points) AtMost(limit Points) Points {
	if p > limit {
		return limit
	}
	return p
}

// AtLeast returns the larger of p and floor.
func (p Points) AtLeast(floor Points) Points {
	if p < floor {
		return floor
	}
	return p
}

// Clamp restricts p to [lo, hi].
func (p Points) Clamp(lo, hi Points) Points {
	return p.AtLeast(lo).AtMost(hi)
}

// String formats the quantity as movement points, e.g. "2.50 MP".
func (p Points) String() string {
	if p%Scale == 0 {
		return fmt.Sprintf("%d MP", int(p)/Scale)
	}
	return fmt.Sprintf("%.2f MP", p.Float())
}
