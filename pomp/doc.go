// Package pomp defines the partially observed Markov process model: the
// stochastic SEIR state process, its Euler discretization, and the
// case-count measurement model.
//
// # State Process
//
// The hidden state is an SEIR compartment vector with integer occupancies
// and a reported-case accumulator. One Euler step of size dt draws
//
//	dSE    ~ Binomial(S, 1-exp(-lambda*dt))   new exposures
//	dEI    ~ Binomial(E, 1-exp(-muEI*dt))     latent progression
//	dIR    ~ Binomial(I, 1-exp(-gamma*dt))    recovery
//	births ~ Binomial(N, 1-exp(-r*dt))        population growth, into S
//	deaths ~ Binomial(X, 1-exp(-muH*dt))      per compartment X
//	imm    ~ Poisson(iota*dt)                 immigration, directly into I
//
// all from the pre-update state, applied simultaneously. The force of
// infection combines a log-linear seasonal spline, a background risk
// constant and multiplicative gamma white noise:
//
//	lambda = exp(b1*s1 + ... + b5*s5 + g) * (I + epsilon)/N * dW
//	dW ~ Gamma(mean 1, variance sigmaP^2/dt)
//
// The invariants S+E+I+R = N and non-negativity of every compartment hold
// at every step for any parameters and any seed.
//
// # Measurement
//
// Reported monthly cases are Poisson with mean rho*I (negative binomial
// when the overdispersion sigmaM is positive). The accumulator C collects
// rho-thinned E-to-I transitions within each inter-observation window and
// resets at every observation boundary.
//
// # Model Values
//
// A Model is an immutable value holding the observation series, the
// seasonal covariate table and the discretization; nothing in this package
// mutates shared state, so one Model serves any number of concurrent
// filter or search runs. Parameter constraints are handled by an explicit
// transform layer (ToUnconstrained/FromUnconstrained) so that random-walk
// searches move on an unconstrained scale.
package pomp
