package pomp

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Step advances the state by one Euler increment of size dt. All stochastic
// draws are taken from the pre-update state and the resulting deltas are
// applied simultaneously; sequencing the draws any other way would bias the
// discretization.
//
// The force of infection is
//
//	lambda = exp(b.s + g) * (I + epsilon) / N * dW
//
// where b.s is the seasonal covariate contraction and dW is multiplicative
// gamma white noise with mean 1 and variance SigmaP^2/dt. Transitions leave
// each compartment as binomial thinnings of its current occupancy, so no
// draw can exceed its source on its own; competing outflows from the same
// compartment are capped jointly below.
func Step(s State, p Params, cov []float64, dt float64, rng *rand.Rand) State {
	if dt <= 0 {
		return s
	}

	// Force of infection with multiplicative gamma white noise.
	var lambda float64
	if s.N > 0 {
		beta := math.Exp(p.B1*cov[0] + p.B2*cov[1] + p.B3*cov[2] + p.B4*cov[3] + p.B5*cov[4] + p.G)
		lambda = beta * (s.I + p.Epsilon) / s.N * gammaWhiteNoise(p.SigmaP, dt, rng)
	}

	// All draws from the pre-update state.
	dSE := rbinom(s.S, hazard(lambda, dt), rng)
	dEI := rbinom(s.E, hazard(p.MuEI, dt), rng)
	dIR := rbinom(s.I, hazard(p.Gamma, dt), rng)
	births := rbinom(s.N, hazard(p.R, dt), rng)

	pDeath := hazard(p.MuH, dt)
	deathS := rbinom(s.S, pDeath, rng)
	deathE := rbinom(s.E, pDeath, rng)
	deathI := rbinom(s.I, pDeath, rng)
	deathR := rbinom(s.R, pDeath, rng)

	var imm float64
	if p.Iota > 0 {
		imm = distuv.Poisson{Lambda: p.Iota * dt, Src: rng}.Rand()
	}

	// Independent outflow draws from one compartment can jointly exceed its
	// occupancy when dt is coarse; cap deaths first, then the transition.
	dSE, deathS = capOutflow(s.S, dSE, deathS)
	dEI, deathE = capOutflow(s.E, dEI, deathE)
	dIR, deathI = capOutflow(s.I, dIR, deathI)

	next := State{
		S: s.S - dSE + births - deathS,
		E: s.E + dSE - dEI - deathE,
		I: s.I + dEI - dIR - deathI + imm,
		R: s.R + dIR - deathR,
		C: s.C + p.Rho*dEI,
	}
	next.N = next.S + next.E + next.I + next.R
	return next
}

// hazard converts a rate into the per-step transition probability
// 1 - exp(-rate*dt), computed without cancellation for small arguments.
func hazard(rate, dt float64) float64 {
	if rate <= 0 {
		return 0
	}
	return -math.Expm1(-rate * dt)
}

// rbinom draws Binomial(n, p) as a float count. Degenerate probabilities
// short-circuit so that p=0 and p=1 are exact.
func rbinom(n, prob float64, rng *rand.Rand) float64 {
	if n < 1 || prob <= 0 {
		return 0
	}
	if prob >= 1 {
		return n
	}
	return distuv.Binomial{N: n, P: prob, Src: rng}.Rand()
}

// gammaWhiteNoise draws the increment of a gamma white-noise process with
// mean 1 and variance sigma^2/dt. With shape and rate both equal to
// dt/sigma^2 the stated moments hold exactly, and the discretization is
// consistent as dt shrinks. Zero sigma is the deterministic limit dW = 1.
func gammaWhiteNoise(sigma, dt float64, rng *rand.Rand) float64 {
	if sigma <= 0 {
		return 1
	}
	shape := dt / (sigma * sigma)
	return distuv.Gamma{Alpha: shape, Beta: shape, Src: rng}.Rand()
}

// capOutflow bounds transition+death outflow by the source occupancy,
// shedding deaths before transitions.
func capOutflow(source, transition, death float64) (float64, float64) {
	excess := transition + death - source
	if excess <= 0 {
		return transition, death
	}
	if excess <= death {
		return transition, death - excess
	}
	return transition - (excess - death), 0
}
