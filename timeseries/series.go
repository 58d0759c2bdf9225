// Package timeseries provides core time series data structures and operations
// for epidemiological case-count data.
package timeseries

import (
	"errors"
	"math"
	"time"
)

// Series represents a time series with timestamps and values.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a new time series from values with synthetic hourly timestamps.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Now()
	for i := range timestamps {
		timestamps[i] = base.Add(time.Duration(i) * time.Hour)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// NewMonthly creates a monthly count series starting at the given month.
func NewMonthly(start time.Time, counts []int) *Series {
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	timestamps := make([]time.Time, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		timestamps[i] = start.AddDate(0, i, 0)
		values[i] = float64(c)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s.Values {
		sum += v
	}
	return sum / float64(len(s.Values))
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	mean := s.Mean()
	sumSq := 0.0
	for _, v := range s.Values {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(s.Values)-1)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Counts returns the series values as non-negative integer counts.
// Values are rounded to the nearest integer; negative values clamp to zero.
func (s *Series) Counts() []int {
	counts := make([]int, len(s.Values))
	for i, v := range s.Values {
		c := int(math.Round(v))
		if c < 0 {
			c = 0
		}
		counts[i] = c
	}
	return counts
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the n-th order difference of the series.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 || len(s.Values) <= n {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-n)
	for i := n; i < len(s.Values); i++ {
		result[i-n] = s.Values[i] - s.Values[i-n]
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) > n {
		copy(timestamps, s.Timestamps[n:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_diff",
	}
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	if m <= 0 || len(s.Values) <= m {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-m)
	for i := m; i < len(s.Values); i++ {
		result[i-m] = s.Values[i] - s.Values[i-m]
	}

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) > m {
		copy(timestamps, s.Timestamps[m:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_seasonal_diff",
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}
