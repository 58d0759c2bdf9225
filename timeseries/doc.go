// Package timeseries provides time series data structures and utilities for
// epidemiological case-count data.
//
// # Series
//
// Series is the basic container: parallel slices of timestamps and values.
// Construct one directly, from integer monthly counts, or from a CSV file:
//
//	series := timeseries.NewMonthly(start, counts)
//	series, _ := timeseries.LoadCSV("cases.csv", nil)
//
// # Monthly Alignment
//
// Surveillance data often arrives as one row per reported case. FillMonthly
// bins raw event dates into calendar months and zero-fills months with no
// cases, which matters for count models where an absent month means zero
// observed cases, not missing data:
//
//	series, _ := timeseries.FillMonthly(dates, start, end)
//	counts := series.Counts()
//
// # Transformations
//
// Differencing operations support the ARIMA benchmark side of the analysis:
//
//	diff := series.Diff()
//	sdiff := series.SeasonalDiff(12)
package timeseries
