// Package stats provides descriptive analysis for case-count time series.
//
// # Autocorrelation
//
// Analyze autocorrelation patterns, e.g. to spot annual seasonality in
// monthly surveillance data:
//
//	acf := stats.ACF(series, 24)
//	result := stats.ACFWithConfidence(series, 24)
//	significant := stats.SignificantLags(result.Values, result.ConfBounds)
//
// # Decomposition
//
// Separate trend, seasonal, and irregular components:
//
//	decomp := stats.Decompose(series, 12)
//	// decomp.Trend, decomp.Seasonal, decomp.Residual
package stats
