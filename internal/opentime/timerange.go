package opentime

import "fmt"

// TimeRange is the half-open interval [StartTime, StartTime+Duration).
type TimeRange struct {
	StartTime RationalTime `json:"start_time" yaml:"start_time"`
	Duration  RationalTime `json:"duration" yaml:"duration"`
}

// NewTimeRange creates a TimeRange. Fails with ErrCodeInvalidRange if the
// duration is negative.
func NewTimeRange(start, duration RationalTime) (TimeRange, error) {
	r := TimeRange{StartTime: start, Duration: duration}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// MustTimeRange is like NewTimeRange but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTimeRange(start, duration RationalTime) TimeRange {
	r, err := NewTimeRange(start, duration)
	if err != nil {
		panic(err)
	}
	return r
}

// RangeFromStartEnd creates [start, end). Fails if end is before start.
func RangeFromStartEnd(start, end RationalTime) (TimeRange, error) {
	return NewTimeRange(start, end.Sub(start))
}

// Validate checks that both endpoints carry a usable rate and that the
// duration is not negative.
func (r TimeRange) Validate() error {
	if err := r.StartTime.Validate(); err != nil {
		return err
	}
	if err := r.Duration.Validate(); err != nil {
		return err
	}
	if r.Duration.Value < 0 {
		return NewInvalidRangeError("negative duration %s", r.Duration)
	}
	return nil
}

// EndTimeExclusive returns StartTime + Duration.
func (r TimeRange) EndTimeExclusive() RationalTime {
	return r.StartTime.Add(r.Duration)
}

// IsEmpty reports whether the range has zero duration.
func (r TimeRange) IsEmpty() bool {
	return r.Duration.Value == 0
}

// Equal reports whether both ranges denote the same interval.
func (r TimeRange) Equal(o TimeRange) bool {
	return r.StartTime.Equal(o.StartTime) && r.Duration.Equal(o.Duration)
}

// Contains reports whether t lies in [start, end).
func (r TimeRange) Contains(t RationalTime) bool {
	return !t.Before(r.StartTime) && t.Before(r.EndTimeExclusive())
}

// ContainsRange reports whether o lies entirely inside r.
func (r TimeRange) ContainsRange(o TimeRange) bool {
	return !o.StartTime.Before(r.StartTime) && !o.EndTimeExclusive().After(r.EndTimeExclusive())
}

// Overlaps reports whether r and o share at least one instant.
// Ranges that only touch at an endpoint do not overlap.
func (r TimeRange) Overlaps(o TimeRange) bool {
	return o.StartTime.Before(r.EndTimeExclusive()) && r.StartTime.Before(o.EndTimeExclusive())
}

// Intersect returns the overlap of r and o. ok is false when they do not
// overlap.
func (r TimeRange) Intersect(o TimeRange) (TimeRange, bool) {
	if !r.Overlaps(o) {
		return TimeRange{}, false
	}
	start := Max(r.StartTime, o.StartTime)
	end := Min(r.EndTimeExclusive(), o.EndTimeExclusive())
	return TimeRange{StartTime: start, Duration: end.Sub(start)}, true
}

// ExtendedBy returns the union of r and o. The ranges must touch or overlap,
// otherwise ErrCodeDisjointRange is returned.
func (r TimeRange) ExtendedBy(o TimeRange) (TimeRange, error) {
	if r.EndTimeExclusive().Before(o.StartTime) || o.EndTimeExclusive().Before(r.StartTime) {
		return TimeRange{}, &RangeError{
			Code:    ErrCodeDisjointRange,
			Message: fmt.Sprintf("%s and %s neither touch nor overlap", r, o),
		}
	}
	start := Min(r.StartTime, o.StartTime)
	end := Max(r.EndTimeExclusive(), o.EndTimeExclusive())
	return TimeRange{StartTime: start, Duration: end.Sub(start)}, nil
}

// String formats the range as "[start, end)".
func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.StartTime, r.EndTimeExclusive())
}
