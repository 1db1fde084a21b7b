package opentime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRationalTimeCompareAcrossRates(t *testing.T) {
	tests := []struct {
		name string
		a, b RationalTime
		want int
	}{
		{"same rate equal", NewRationalTime(24, 24), NewRationalTime(24, 24), 0},
		{"different rate equal", NewRationalTime(1, 1), NewRationalTime(48, 48), 0},
		{"ntsc frame vs 24000 base", FromFrames(1, 24000, 1001), NewRationalTime(1001, 24000), 0},
		{"before", NewRationalTime(23, 24), NewRationalTime(1, 1), -1},
		{"after", NewRationalTime(25, 25), NewRationalTime(23, 24), 1},
		{"ntsc vs film", FromFrames(24, 24000, 1001), NewRationalTime(24, 24), 1},
		{"zero rates", RationalTime{}, NewRationalTime(0, 30), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.want, tt.b.Compare(tt.a))
		})
	}
}

func TestRationalTimeArithmeticIsExact(t *testing.T) {
	frame := FromFrames(1, 24000, 1001)
	sum := RationalTime{}
	for i := 0; i < 24000; i++ {
		sum = sum.Add(frame)
	}
	// 24000 NTSC frames are exactly 1001 seconds.
	assert.True(t, sum.Equal(NewRationalTime(1001, 1)))

	diff := NewRationalTime(1, 2).Sub(NewRationalTime(1, 3))
	assert.Equal(t, RationalTime{Value: 1, Rate: 6}, diff)
	assert.True(t, NewRationalTime(5, 24).Add(NewRationalTime(5, 24).Neg()).IsZero())
}

func TestRationalTimeArithmeticAvoidsOverflow(t *testing.T) {
	const p1, p2 = 2147483647, 2147483629

	// One second at each rate; lcm(2*p1, 3*p2) does not fit in int64.
	sum := NewRationalTime(2*p1, 2*p1).Add(NewRationalTime(3*p2, 3*p2))
	assert.True(t, sum.Equal(NewRationalTime(2, 1)), "got %s", sum)

	diff := NewRationalTime(4*p1, 2*p1).Sub(NewRationalTime(3*p2, 3*p2))
	assert.True(t, diff.Equal(NewRationalTime(1, 1)), "got %s", diff)

	big := NewRationalTime(math.MaxInt64-1, 2).Add(NewRationalTime(4, 2))
	assert.True(t, big.Equal(NewRationalTime(1<<62+1, 1)), "got %s", big)

	assert.Panics(t, func() { NewRationalTime(1, 2*p1).Add(NewRationalTime(1, 3*p2)) })
	assert.Panics(t, func() { NewRationalTime(math.MaxInt64, 1).Add(NewRationalTime(1, 1)) })
}

func TestRescaledTo(t *testing.T) {
	got, err := NewRationalTime(2, 4).RescaledTo(48)
	require.NoError(t, err)
	assert.Equal(t, RationalTime{Value: 24, Rate: 48}, got)

	_, err = NewRationalTime(1, 3).RescaledTo(2)
	require.Error(t, err)
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInexactRescale, re.Code)

	_, err = NewRationalTime(1, 3).RescaledTo(0)
	assert.True(t, IsInvalidRange(err))
}

func TestReduced(t *testing.T) {
	assert.Equal(t, RationalTime{Value: 1, Rate: 2}, NewRationalTime(12, 24).Reduced())
	assert.Equal(t, RationalTime{Value: 0, Rate: 1}, NewRationalTime(0, 24).Reduced())
	assert.Equal(t, RationalTime{Value: -1, Rate: 2}, NewRationalTime(-12, 24).Reduced())
}

func TestStringAndParse(t *testing.T) {
	tests := []struct {
		in   RationalTime
		text string
	}{
		{NewRationalTime(0, 24), "0s"},
		{NewRationalTime(5, 1), "5s"},
		{NewRationalTime(1001, 24000), "1001/24000s"},
		{NewRationalTime(-3, 25), "-3/25s"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.in.String())
			parsed, err := ParseRationalTime(tt.text)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(tt.in))
		})
	}

	for _, bad := range []string{"", "s", "abc", "1/0s", "1/xs"} {
		_, err := ParseRationalTime(bad)
		assert.True(t, IsInvalidRange(err), "input %q", bad)
	}
}

func TestNewTimeRangeRejectsNegativeDuration(t *testing.T) {
	_, err := NewTimeRange(NewRationalTime(0, 24), NewRationalTime(-1, 24))
	require.Error(t, err)
	assert.True(t, IsInvalidRange(err))

	r, err := NewTimeRange(NewRationalTime(0, 24), NewRationalTime(0, 24))
	require.NoError(t, err)
	assert.True(t, r.IsEmpty())
}

func TestValidateRejectsBadRates(t *testing.T) {
	tests := []struct {
		name  string
		start RationalTime
		dur   RationalTime
		ok    bool
	}{
		{"zero value start", RationalTime{}, NewRationalTime(48, 24), true},
		{"zero value duration", NewRationalTime(0, 24), RationalTime{}, true},
		{"zero rate duration", NewRationalTime(0, 24), RationalTime{Value: 48}, false},
		{"negative rate duration", NewRationalTime(0, 24), RationalTime{Value: 48, Rate: -24}, false},
		{"negative rate start", RationalTime{Value: 0, Rate: -24}, NewRationalTime(48, 24), false},
		{"zero rate start", RationalTime{Value: 10}, NewRationalTime(48, 24), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeRange(tt.start, tt.dur)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsInvalidRange(err))
			assert.Contains(t, err.Error(), "invalid rate")
		})
	}
}

func TestTimeRangeContainsIsHalfOpen(t *testing.T) {
	r := MustTimeRange(NewRationalTime(5, 1), NewRationalTime(5, 1))

	assert.True(t, r.Contains(NewRationalTime(5, 1)))
	assert.True(t, r.Contains(NewRationalTime(239, 24)))
	assert.False(t, r.Contains(NewRationalTime(10, 1)))
	assert.False(t, r.Contains(NewRationalTime(4, 1)))

	assert.True(t, r.ContainsRange(r))
	assert.True(t, r.ContainsRange(MustTimeRange(NewRationalTime(6, 1), NewRationalTime(4, 1))))
	assert.False(t, r.ContainsRange(MustTimeRange(NewRationalTime(6, 1), NewRationalTime(5, 1))))
}

func TestTimeRangeOverlapsAndIntersect(t *testing.T) {
	a := MustTimeRange(NewRationalTime(0, 1), NewRationalTime(5, 1))
	b := MustTimeRange(NewRationalTime(5, 1), NewRationalTime(5, 1))
	c := MustTimeRange(NewRationalTime(3, 1), NewRationalTime(4, 1))

	assert.False(t, a.Overlaps(b), "touching ranges do not overlap")
	assert.True(t, a.Overlaps(c))

	_, ok := a.Intersect(b)
	assert.False(t, ok)

	got, ok := a.Intersect(c)
	require.True(t, ok)
	assert.True(t, got.Equal(MustTimeRange(NewRationalTime(3, 1), NewRationalTime(2, 1))))
}

func TestExtendedBy(t *testing.T) {
	a := MustTimeRange(NewRationalTime(0, 24), NewRationalTime(24, 24))
	adjacent := MustTimeRange(NewRationalTime(1, 1), NewRationalTime(1, 1))
	overlapping := MustTimeRange(NewRationalTime(12, 24), NewRationalTime(48, 24))
	disjoint := MustTimeRange(NewRationalTime(3, 1), NewRationalTime(1, 1))

	got, err := a.ExtendedBy(adjacent)
	require.NoError(t, err)
	assert.True(t, got.Equal(MustTimeRange(NewRationalTime(0, 1), NewRationalTime(2, 1))))

	got, err = overlapping.ExtendedBy(a)
	require.NoError(t, err)
	assert.True(t, got.EndTimeExclusive().Equal(NewRationalTime(60, 24)))
	assert.True(t, got.StartTime.IsZero())

	_, err = a.ExtendedBy(disjoint)
	require.Error(t, err)
	assert.True(t, IsDisjointRange(err))
	assert.False(t, IsInvalidRange(err))
}
