// Package pfilter estimates POMP model likelihoods by sequential Monte Carlo.
//
// # Single Pass
//
// Run propagates an ensemble of particles through the stochastic state
// process, reweights each particle by the measurement density at every
// observation, and resamples systematically:
//
//	res, err := pfilter.Run(model, params, 1000, 42)
//	fmt.Println(res.LogLik)
//
// The per-observation contribution is log(mean particle likelihood),
// accumulated with log-sum-exp; the total is an unbiased estimate of the
// likelihood. An observation that every particle finds impossible does not
// abort the pass: the contribution is floored and counted in
// DegenerateSteps.
//
// # Replicated Estimates
//
// A single pass is itself a Monte Carlo quantity. Replicated runs several
// independently seeded passes and combines them on the likelihood scale:
//
//	agg, err := pfilter.Replicated(model, params, 1000, 10, 42)
//	fmt.Printf("loglik %.2f +/- %.2f\n", agg.LogLik, agg.SE)
package pfilter
