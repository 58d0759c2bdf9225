package pomp

import "math"

// State holds the compartment counts of the SEIR process at one instant.
// S, E, I, R and N are integer-valued; S+E+I+R = N holds at every step by
// construction. C is the reported-case accumulator: it accrues Rho-thinned
// E-to-I transitions within one inter-observation window and is reset at
// each observation boundary.
type State struct {
	S float64 // susceptible
	E float64 // exposed (latent)
	I float64 // infectious
	R float64 // recovered
	C float64 // reported cases accumulated since the last observation
	N float64 // total population, S+E+I+R
}

// Init builds the initial state from the nominal initial compartment sizes
// in p. Invalid nominal values never fail; they fall back to a safe state:
//
//   - any negative E0, I0, R0 or N0 yields the minimal state S=1, N=1;
//   - E0+I0+R0 exceeding N0 yields the degenerate state R=N0;
//   - otherwise S = N0-E0-I0-R0, rounded to whole individuals.
func Init(p Params) State {
	if p.E0 < 0 || p.I0 < 0 || p.R0 < 0 || p.N0 < 0 {
		return State{S: 1, N: 1}
	}

	e0 := math.Round(p.E0)
	i0 := math.Round(p.I0)
	r0 := math.Round(p.R0)
	n0 := math.Round(p.N0)

	if e0+i0+r0 > n0 {
		return State{R: n0, N: n0}
	}

	return State{
		S: n0 - e0 - i0 - r0,
		E: e0,
		I: i0,
		R: r0,
		C: math.Round(p.C0),
		N: n0,
	}
}
