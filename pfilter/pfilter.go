// Package pfilter implements particle filter likelihood estimation for POMP models.
package pfilter

import (
	"errors"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/gopomp/pomp"
)

// logLikFloor is the per-observation log-likelihood contribution assigned
// when every particle gives the observation zero probability. Finite so the
// filter keeps running and downstream optimization still sees a signal.
const logLikFloor = -1e3

// Result holds the outcome of a single particle filter pass.
type Result struct {
	LogLik          float64   // total log-likelihood estimate
	CondLogLik      []float64 // per-observation contributions
	DegenerateSteps int       // observations where all particle weights were zero
}

// Run executes one particle filter pass with np particles and returns the
// sequential Monte Carlo estimate of the data log-likelihood.
//
// Each particle owns an independently seeded random stream derived from
// (seed, particle index), so propagation is order-independent and the run is
// exactly reproducible for a fixed seed. At every observation the particles
// are propagated through the trajectory integrator, weighted by the
// measurement density, and resampled systematically; the per-step
// contribution log(mean weight) is accumulated via log-sum-exp.
func Run(m *pomp.Model, p pomp.Params, np int, seed uint64) (*Result, error) {
	if np < 1 {
		return nil, errors.New("pfilter: need at least one particle")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	states := make([]pomp.State, np)
	streams := make([]*rand.Rand, np)
	for i := range states {
		states[i] = pomp.Init(p)
		streams[i] = pomp.NewStream(seed, uint64(i))
	}
	// The resampler draws from its own stream so particle streams stay
	// untouched by the synchronization step.
	resampler := pomp.NewStream(seed, uint64(np))

	res := &Result{CondLogLik: make([]float64, m.NumObs())}
	logw := make([]float64, np)
	weights := make([]float64, np)
	ancestry := make([]int, np)
	resampled := make([]pomp.State, np)

	t := m.Config().T0
	for j := 0; j < m.NumObs(); j++ {
		o := m.Obs(j)

		for i := range states {
			s := m.Advance(states[i], p, t, o.Time, streams[i])
			s.C = 0 // accumulator window closes at the observation
			states[i] = s
			logw[i] = m.LogLikObs(o.Cases, s, p)
		}

		cond, ok := stepContribution(logw, weights)
		res.CondLogLik[j] = cond
		if !ok {
			// Every particle assigns zero probability: floor the
			// contribution, keep the ensemble, and continue.
			res.DegenerateSteps++
			t = o.Time
			continue
		}

		Systematic(weights, resampler.Float64(), ancestry)
		for i, a := range ancestry {
			resampled[i] = states[a]
		}
		copy(states, resampled)

		t = o.Time
	}

	res.LogLik = floats.Sum(res.CondLogLik)
	return res, nil
}

// stepContribution turns per-particle log-weights into the per-observation
// log-likelihood contribution log(mean weight) and fills weights with the
// normalized resampling weights. When the total weight is zero or undefined
// it returns the floor contribution with ok=false and leaves weights alone,
// so the ensemble survives the step unchanged.
func stepContribution(logw, weights []float64) (cond float64, ok bool) {
	lse := floats.LogSumExp(logw)
	if math.IsInf(lse, -1) || math.IsNaN(lse) {
		return logLikFloor, false
	}
	for i := range weights {
		weights[i] = math.Exp(logw[i] - lse)
	}
	return lse - math.Log(float64(len(logw))), true
}

// Systematic fills ancestry with particle indices drawn by systematic
// resampling: a single uniform offset u in [0,1) places len(ancestry)
// equally spaced pointers over the cumulative weight distribution. Lower
// variance than multinomial resampling for the same ensemble size.
func Systematic(weights []float64, u float64, ancestry []int) {
	n := len(ancestry)
	total := floats.Sum(weights)
	if total <= 0 {
		for i := range ancestry {
			ancestry[i] = i
		}
		return
	}

	cum := weights[0]
	a := 0
	for i := 0; i < n; i++ {
		target := total * (float64(i) + u) / float64(n)
		for cum < target && a < len(weights)-1 {
			a++
			cum += weights[a]
		}
		ancestry[i] = a
	}
}
