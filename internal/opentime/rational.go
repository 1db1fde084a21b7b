package opentime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RationalTime is an instant (or a length) of Value/Rate seconds.
// The zero value is zero seconds.
type RationalTime struct {
	Value int64 `json:"value" yaml:"value"`
	Rate  int64 `json:"rate" yaml:"rate"`
}

// NewRationalTime creates a RationalTime. A non-positive rate is treated as 1.
func NewRationalTime(value, rate int64) RationalTime {
	if rate <= 0 {
		rate = 1
	}
	return RationalTime{Value: value, Rate: rate}
}

// FromFrames converts a frame count at fpsNum/fpsDen frames per second.
//
//	FromFrames(24, 24000, 1001) // 24 NTSC film frames: 24024/24000s
func FromFrames(frames, fpsNum, fpsDen int64) RationalTime {
	if fpsDen <= 0 {
		fpsDen = 1
	}
	return NewRationalTime(frames*fpsDen, fpsNum)
}

func (t RationalTime) rate() int64 {
	if t.Rate <= 0 {
		return 1
	}
	return t.Rate
}

// Validate rejects a negative rate, and a zero rate on anything but the
// zero value. Arithmetic reads such rates as 1, which silently rescales the
// time.
func (t RationalTime) Validate() error {
	if t.Rate < 0 || (t.Rate == 0 && t.Value != 0) {
		return NewInvalidRangeError("invalid rate %d in time %d/%d", t.Rate, t.Value, t.Rate)
	}
	return nil
}

// IsZero reports whether t denotes zero seconds at any rate.
func (t RationalTime) IsZero() bool {
	return t.Value == 0
}

// RescaledTo expresses t at the given rate. Fails with ErrCodeInexactRescale
// if t is not a whole number of ticks at that rate.
func (t RationalTime) RescaledTo(rate int64) (RationalTime, error) {
	if rate <= 0 {
		return RationalTime{}, NewInvalidRangeError("rate must be positive, got %d", rate)
	}
	num := t.Value * rate
	if num%t.rate() != 0 {
		return RationalTime{}, &RangeError{
			Code:    ErrCodeInexactRescale,
			Message: fmt.Sprintf("%s is not a whole number of 1/%d ticks", t, rate),
		}
	}
	return RationalTime{Value: num / t.rate(), Rate: rate}, nil
}

// common returns both values expressed at lcm(rateA, rateB). When that
// does not fit in int64 it retries with both operands reduced, and panics
// with ErrCodeOverflow if they still do not fit.
func common(a, b RationalTime) (av, bv, rate int64) {
	if av, bv, rate, ok := scale(a, b); ok {
		return av, bv, rate
	}
	if av, bv, rate, ok := scale(a.Reduced(), b.Reduced()); ok {
		return av, bv, rate
	}
	panic(overflow("%s and %s have no common rate within int64", a, b))
}

func scale(a, b RationalTime) (av, bv, rate int64, ok bool) {
	ra, rb := a.rate(), b.rate()
	if ra == rb {
		return a.Value, b.Value, ra, true
	}
	l, ok := mul(ra/gcd(ra, rb), rb)
	if !ok {
		return 0, 0, 0, false
	}
	if av, ok = mul(a.Value, l/ra); !ok {
		return 0, 0, 0, false
	}
	if bv, ok = mul(b.Value, l/rb); !ok {
		return 0, 0, 0, false
	}
	return av, bv, l, true
}

// Add returns t+o at the least common multiple of both rates. It panics
// with ErrCodeOverflow if the sum is not representable.
func (t RationalTime) Add(o RationalTime) RationalTime {
	av, bv, rate := common(t, o)
	sum := av + bv
	if (av > 0 && bv > 0 && sum < 0) || (av < 0 && bv < 0 && sum >= 0) {
		return t.Reduced().addReduced(o.Reduced())
	}
	return RationalTime{Value: sum, Rate: rate}
}

func (t RationalTime) addReduced(o RationalTime) RationalTime {
	av, bv, rate := common(t, o)
	sum := av + bv
	if (av > 0 && bv > 0 && sum < 0) || (av < 0 && bv < 0 && sum >= 0) {
		panic(overflow("%s + %s overflows int64", t, o))
	}
	return RationalTime{Value: sum, Rate: rate}
}

// Sub returns t-o at the least common multiple of both rates.
func (t RationalTime) Sub(o RationalTime) RationalTime {
	return t.Add(o.Neg())
}

// Neg returns -t.
func (t RationalTime) Neg() RationalTime {
	return RationalTime{Value: -t.Value, Rate: t.rate()}
}

// Compare returns -1, 0 or +1 as t is before, equal to or after o.
func (t RationalTime) Compare(o RationalTime) int {
	av, bv, _ := common(t, o)
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

// Equal reports whether t and o denote the same instant.
func (t RationalTime) Equal(o RationalTime) bool { return t.Compare(o) == 0 }

// Before reports whether t < o.
func (t RationalTime) Before(o RationalTime) bool { return t.Compare(o) < 0 }

// After reports whether t > o.
func (t RationalTime) After(o RationalTime) bool { return t.Compare(o) > 0 }

// Min returns the earlier of a and b (a when equal).
func Min(a, b RationalTime) RationalTime {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b (a when equal).
func Max(a, b RationalTime) RationalTime {
	if b.After(a) {
		return b
	}
	return a
}

// Reduced returns t with Value/Rate divided by their greatest common divisor.
func (t RationalTime) Reduced() RationalTime {
	if t.Value == 0 {
		return RationalTime{Value: 0, Rate: 1}
	}
	g := gcd(abs(t.Value), t.rate())
	return RationalTime{Value: t.Value / g, Rate: t.rate() / g}
}

// Seconds returns t as floating seconds. For display only.
func (t RationalTime) Seconds() float64 {
	return float64(t.Value) / float64(t.rate())
}

// String formats t as "value/rates", or "values" when the rate is 1.
// Zero is "0s".
func (t RationalTime) String() string {
	if t.Value == 0 {
		return "0s"
	}
	if t.rate() == 1 {
		return strconv.FormatInt(t.Value, 10) + "s"
	}
	return fmt.Sprintf("%d/%ds", t.Value, t.rate())
}

// ParseRationalTime parses the String form ("1001/24000s", "5s", "0s").
// The trailing "s" is optional.
func ParseRationalTime(s string) (RationalTime, error) {
	body := strings.TrimSuffix(strings.TrimSpace(s), "s")
	if body == "" {
		return RationalTime{}, NewInvalidRangeError("empty time %q", s)
	}
	num, den, hasDen := strings.Cut(body, "/")
	value, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return RationalTime{}, NewInvalidRangeError("invalid time %q: %v", s, err)
	}
	rate := int64(1)
	if hasDen {
		rate, err = strconv.ParseInt(den, 10, 64)
		if err != nil || rate <= 0 {
			return RationalTime{}, NewInvalidRangeError("invalid rate in time %q", s)
		}
	}
	return RationalTime{Value: value, Rate: rate}, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// mul returns a*b and whether it fit in int64.
func mul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return p, true
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
