package stats

import (
	"math"
	"testing"

	"github.com/sartorproj/gopomp/timeseries"
)

func TestDecompose(t *testing.T) {
	n := 120
	period := 12
	pattern := []float64{5, 8, 12, 9, 4, -2, -7, -10, -8, -5, -3, -3}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 100 + 0.5*float64(i) + pattern[i%period]
	}
	series := timeseries.New(values)

	res := Decompose(series, period)
	if res == nil {
		t.Fatal("Decompose returned nil")
	}
	if res.Period != period {
		t.Errorf("Expected period %d, got %d", period, res.Period)
	}
	if res.Trend.Len() != n || res.Seasonal.Len() != n || res.Residual.Len() != n {
		t.Fatal("Component lengths do not match the series")
	}

	// Seasonal effects sum to zero over one period.
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += res.Seasonal.Values[i]
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("Seasonal pattern sums to %g, want 0", sum)
	}

	// The recovered pattern matches the injected one up to its mean.
	patternMean := 0.0
	for _, v := range pattern {
		patternMean += v
	}
	patternMean /= float64(period)
	for i := 0; i < period; i++ {
		want := pattern[i] - patternMean
		if math.Abs(res.Seasonal.Values[i]-want) > 0.5 {
			t.Errorf("Seasonal[%d] = %f, want about %f", i, res.Seasonal.Values[i], want)
		}
	}

	// Where the trend is defined the components reassemble the series.
	for i := 0; i < n; i++ {
		if math.IsNaN(res.Trend.Values[i]) {
			continue
		}
		got := res.Trend.Values[i] + res.Seasonal.Values[i] + res.Residual.Values[i]
		if math.Abs(got-values[i]) > 1e-9 {
			t.Errorf("Components at %d reassemble to %f, want %f", i, got, values[i])
		}
	}

	// A linear trend is recovered exactly by the centered moving average.
	mid := n / 2
	wantTrend := 100 + 0.5*float64(mid)
	if math.Abs(res.Trend.Values[mid]-wantTrend) > 0.5 {
		t.Errorf("Trend at %d = %f, want about %f", mid, res.Trend.Values[mid], wantTrend)
	}
}

func TestDecomposeTooShort(t *testing.T) {
	series := timeseries.New(make([]float64, 20))
	if Decompose(series, 12) != nil {
		t.Error("Expected nil for a series shorter than two periods")
	}
	if Decompose(series, 1) != nil {
		t.Error("Expected nil for period below 2")
	}
}

func TestDecomposeTrendEdgesNaN(t *testing.T) {
	n := 48
	period := 12
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	res := Decompose(timeseries.New(values), period)
	if res == nil {
		t.Fatal("Decompose returned nil")
	}

	half := period / 2
	for i := 0; i < half; i++ {
		if !math.IsNaN(res.Trend.Values[i]) {
			t.Errorf("Expected NaN trend at leading edge %d", i)
		}
		if !math.IsNaN(res.Trend.Values[n-1-i]) {
			t.Errorf("Expected NaN trend at trailing edge %d", n-1-i)
		}
	}
	if math.IsNaN(res.Trend.Values[half]) {
		t.Error("Expected defined trend at the first full window")
	}
}
