// Package sarima implements seasonal ARIMA models as a statistical benchmark
// for the mechanistic transmission model.
//
// # Fitting a Model
//
// Fit a SARIMA(p,d,q)(P,D,Q)[m] model using conditional sum of squares:
//
//	model := sarima.New(1, 0, 1, 1, 1, 1, 12)  // SARIMA(1,0,1)(1,1,1)[12]
//	err := model.Fit(series)
//	forecasts, _ := model.Predict(12)
//
// # Order Selection
//
// Search a bounded order grid, ranked by corrected AIC:
//
//	result := sarima.Search(series, sarima.DefaultSearchConfig())
//	fmt.Printf("best order %+v AICc %.1f\n", result.Order, result.AICc)
//
// A SARIMA fit captures the seasonal autocorrelation structure of the data
// without any epidemiological mechanism; comparing its held-out forecasts
// against simulations from the fitted SEIR model indicates how much the
// mechanism explains beyond the seasonality itself.
package sarima
