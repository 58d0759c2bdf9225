package stats

import (
	"math"

	"github.com/sartorproj/gopomp/timeseries"
)

// DecompositionResult represents the seasonal decomposition of a time series.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
}

// Decompose performs classical additive seasonal decomposition
// (Y = T + S + R) with a centered moving average trend. Returns nil when the
// series is shorter than two full periods.
func Decompose(series *timeseries.Series, period int) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}

	trend := centeredTrend(series.Values, period)

	// Average the detrended values within each phase of the period.
	seasonalPattern := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(trend[i]) {
			continue
		}
		seasonalPattern[i%period] += series.Values[i] - trend[i]
		counts[i%period]++
	}
	mean := 0.0
	for i := range seasonalPattern {
		if counts[i] > 0 {
			seasonalPattern[i] /= float64(counts[i])
		}
		mean += seasonalPattern[i]
	}
	mean /= float64(period)
	for i := range seasonalPattern {
		seasonalPattern[i] -= mean // seasonal effects sum to zero
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal[i] = seasonalPattern[i%period]
		if math.IsNaN(trend[i]) {
			residual[i] = math.NaN()
		} else {
			residual[i] = series.Values[i] - trend[i] - seasonal[i]
		}
	}

	ts := series.Timestamps
	return &DecompositionResult{
		Original: series,
		Trend:    &timeseries.Series{Values: trend, Timestamps: ts, Name: "trend"},
		Seasonal: &timeseries.Series{Values: seasonal, Timestamps: ts, Name: "seasonal"},
		Residual: &timeseries.Series{Values: residual, Timestamps: ts, Name: "residual"},
		Period:   period,
	}
}

// centeredTrend computes the centered moving average of order period.
// Positions without a full window are NaN.
func centeredTrend(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		if period%2 == 0 {
			// 2xM moving average: half weight on the window edges.
			sum := values[i-half]/2 + values[i+half]/2
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		} else {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	}
	return trend
}
