// Package gopomp provides simulation-based inference for partially observed
// Markov process (POMP) models of disease transmission.
//
// GoPOMP implements the full likelihood-based workflow for discrete-time
// stochastic compartmental models: a stochastic SEIR transition simulator, a
// particle filter (sequential Monte Carlo) likelihood estimator, and an
// iterated filtering optimizer that climbs a noisy likelihood surface with
// cooled random-walk perturbations. A seasonal ARIMA benchmark and
// descriptive tools round out the analysis side.
//
// # Quick Start
//
// Build a model and estimate its likelihood:
//
//	table, _ := covar.Seasonal(5, 12)
//	model, _ := pomp.NewModel(obs, table, pomp.DefaultModelConfig())
//	res, _ := pfilter.Run(model, params, 1000, 42)
//	fmt.Println(res.LogLik)
//
// Fit parameters by iterated filtering:
//
//	fit, _ := mif.Fit(model, start, mif.DefaultConfig(), 1)
//
// Run a parallel global search:
//
//	best, _ := search.Global(model, base, bounds, search.DefaultConfig())
//
// # Packages
//
// The library is organized into the following packages:
//
//   - pomp: model definition, stochastic SEIR simulator, trajectory integration
//   - pfilter: particle filter likelihood estimation
//   - mif: iterated filtering parameter optimization
//   - search: parallel local and global replicate searches
//   - covar: periodic seasonal covariate tables
//   - sarima: seasonal ARIMA benchmark models
//   - stats: autocorrelation and seasonal decomposition
//   - timeseries: time series data structures and utilities
//
// # References
//
//   - Ionides, E. L., Nguyen, D., Atchadé, Y., Stoev, S., & King, A. A. (2015).
//     Inference for dynamic and latent variable models via iterated, perturbed
//     Bayes maps. PNAS 112(3).
//   - King, A. A., Nguyen, D., & Ionides, E. L. (2016). Statistical inference
//     for partially observed Markov processes via the R package pomp. JSS 69(12).
package gopomp
