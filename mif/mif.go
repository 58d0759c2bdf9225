// Package mif implements iterated filtering (mif2-style) parameter optimization.
package mif

import (
	"errors"
	"fmt"
	"log"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gopomp/pfilter"
	"github.com/sartorproj/gopomp/pomp"
)

// coolingHorizon normalizes the cooling schedule: after this many iterations
// the perturbation scale has shrunk by exactly CoolingFraction.
const coolingHorizon = 50

// Config holds configuration for an iterated filtering run.
type Config struct {
	Np              int                // particles per filtering pass (default 500)
	Iterations      int                // number of filtering iterations (default 50)
	CoolingFraction float64            // perturbation shrink over 50 iterations (default 0.5)
	RWSD            map[string]float64 // random-walk sd per parameter, unconstrained scale
	EvalNp          int                // particles for the terminal evaluation (default Np)
	EvalReplicates  int                // terminal filter replicates (default 10)
	Trace           bool               // log per-iteration progress
}

// DefaultConfig returns the default iterated filtering configuration with
// random-walk perturbations on the transmission, reporting and process-noise
// parameters.
func DefaultConfig() *Config {
	return &Config{
		Np:              500,
		Iterations:      50,
		CoolingFraction: 0.5,
		EvalReplicates:  10,
		RWSD: map[string]float64{
			"b1": 0.02, "b2": 0.02, "b3": 0.02, "b4": 0.02, "b5": 0.02,
			"g": 0.02, "rho": 0.02, "sigmaP": 0.02,
		},
	}
}

// Validate checks the configuration before any simulation work begins.
func (c *Config) Validate() error {
	if c.Np < 1 {
		return errors.New("mif: particle count must be at least 1")
	}
	if c.Iterations < 1 {
		return errors.New("mif: iteration count must be at least 1")
	}
	if c.CoolingFraction <= 0 || c.CoolingFraction > 1 {
		return errors.New("mif: cooling fraction must lie in (0,1]")
	}
	if c.EvalReplicates < 1 {
		return errors.New("mif: terminal evaluation needs at least one replicate")
	}
	if len(c.RWSD) == 0 {
		return errors.New("mif: no random-walk standard deviations configured")
	}
	for name, sd := range c.RWSD {
		if _, ok := paramIndex(name); !ok {
			return fmt.Errorf("mif: unknown parameter %q in random-walk config", name)
		}
		if sd < 0 || math.IsNaN(sd) {
			return fmt.Errorf("mif: negative random-walk sd for %q", name)
		}
	}
	return nil
}

// FitResult is the outcome of one iterated filtering replicate.
type FitResult struct {
	Params          pomp.Params             // final point estimate
	LogLik          float64                 // terminal log-likelihood estimate at Params
	SE              float64                 // its Monte Carlo standard error
	Trace           [][pomp.NDim]float64    // parameter center per iteration, natural scale
	FailedEval      int                     // excluded terminal evaluation replicates
	DegenerateSteps int                     // all-zero-weight observations during optimization
}

// Fit runs iterated filtering from the given starting parameters.
//
// Each iteration runs a particle filter pass in which every particle carries
// its own parameter copy, perturbed on the unconstrained scale by Gaussian
// random-walk noise whose magnitude cools geometrically across iterations
// (CoolingFraction^(i/50)). Parameters are resampled together with states,
// so the surviving copies concentrate where the data are probable; the
// weighted particle average becomes the next iterate. The terminal
// log-likelihood is evaluated with fresh unperturbed filter replicates,
// since the wandered particle parameters are a biased sample of the final
// point.
func Fit(m *pomp.Model, start pomp.Params, cfg *Config, seed uint64) (*FitResult, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := start.Validate(); err != nil {
		return nil, err
	}

	sd := rwsdVector(cfg.RWSD)
	center := pomp.ToUnconstrained(start)
	for k := range sd {
		// A log-scale parameter starting at zero has no finite unconstrained
		// coordinate; a random walk cannot move it, only poison the average.
		if sd[k] > 0 && (math.IsInf(center[k], 0) || math.IsNaN(center[k])) {
			return nil, fmt.Errorf("mif: %s starts at a transform boundary and cannot be perturbed",
				pomp.ParamNames[k])
		}
	}

	res := &FitResult{
		Trace: make([][pomp.NDim]float64, 0, cfg.Iterations+1),
	}
	res.Trace = append(res.Trace, pomp.FromUnconstrained(center).Vector())

	for iter := 1; iter <= cfg.Iterations; iter++ {
		cool := math.Pow(cfg.CoolingFraction, float64(iter)/coolingHorizon)
		next, degenerate, err := perturbedPass(m, center, sd, cool, cfg.Np, pomp.DeriveSeed(seed, uint64(iter)))
		if err != nil {
			return nil, fmt.Errorf("mif: iteration %d: %w", iter, err)
		}
		res.DegenerateSteps += degenerate
		center = next
		res.Trace = append(res.Trace, pomp.FromUnconstrained(center).Vector())

		if cfg.Trace {
			log.Printf("mif: iteration %d/%d cooling %.4f", iter, cfg.Iterations, cool)
		}
	}

	res.Params = pomp.FromUnconstrained(center)

	evalNp := cfg.EvalNp
	if evalNp == 0 {
		evalNp = cfg.Np
	}
	eval, err := pfilter.Replicated(m, res.Params, evalNp, cfg.EvalReplicates,
		pomp.DeriveSeed(seed, uint64(cfg.Iterations)+1))
	if err != nil {
		return nil, fmt.Errorf("mif: terminal evaluation: %w", err)
	}
	res.LogLik = eval.LogLik
	res.SE = eval.SE
	res.FailedEval = eval.Failed
	return res, nil
}

// rwsdVector expands the named random-walk config into vector order.
func rwsdVector(rwsd map[string]float64) [pomp.NDim]float64 {
	var sd [pomp.NDim]float64
	for name, v := range rwsd {
		if idx, ok := paramIndex(name); ok {
			sd[idx] = v
		}
	}
	return sd
}

func paramIndex(name string) (int, bool) {
	for i, n := range pomp.ParamNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// perturbedPass runs one filtering iteration with per-particle parameter
// perturbation and returns the weighted particle-average parameter vector on
// the unconstrained scale, along with the count of degenerate observations.
func perturbedPass(m *pomp.Model, center, sd [pomp.NDim]float64, cool float64, np int, seed uint64) ([pomp.NDim]float64, int, error) {
	states := make([]pomp.State, np)
	thetas := make([][pomp.NDim]float64, np)
	streams := make([]*rand.Rand, np)

	for i := 0; i < np; i++ {
		streams[i] = pomp.NewStream(seed, uint64(i))
		thetas[i] = perturb(center, sd, cool, streams[i])
		states[i] = pomp.Init(pomp.FromUnconstrained(thetas[i]))
	}
	resampler := pomp.NewStream(seed, uint64(np))

	logw := make([]float64, np)
	weights := make([]float64, np)
	ancestry := make([]int, np)
	nextStates := make([]pomp.State, np)
	nextThetas := make([][pomp.NDim]float64, np)
	degenerate := 0

	t := m.Config().T0
	for j := 0; j < m.NumObs(); j++ {
		o := m.Obs(j)

		for i := 0; i < np; i++ {
			if j > 0 {
				// The random walk moves once per observation interval.
				thetas[i] = perturb(thetas[i], sd, cool, streams[i])
			}
			p := pomp.FromUnconstrained(thetas[i])
			s := m.Advance(states[i], p, t, o.Time, streams[i])
			s.C = 0
			states[i] = s
			logw[i] = m.LogLikObs(o.Cases, s, p)
		}

		lse := floats.LogSumExp(logw)
		if math.IsInf(lse, -1) || math.IsNaN(lse) {
			// Total weight collapse: keep the ensemble and move on, as the
			// plain filter does.
			degenerate++
			t = o.Time
			continue
		}

		for i := range weights {
			weights[i] = math.Exp(logw[i] - lse)
		}
		pfilter.Systematic(weights, resampler.Float64(), ancestry)
		for i, a := range ancestry {
			nextStates[i] = states[a]
			nextThetas[i] = thetas[a]
		}
		copy(states, nextStates)
		copy(thetas, nextThetas)

		t = o.Time
	}

	// New iterate: mean of the post-resampling parameter swarm, coordinate
	// by coordinate. Unperturbed coordinates are carried through unchanged,
	// so a parameter pinned at a transform boundary (log of zero) stays put.
	next := center
	col := make([]float64, np)
	for k := 0; k < pomp.NDim; k++ {
		if sd[k] <= 0 {
			continue
		}
		for i := range thetas {
			col[i] = thetas[i][k]
		}
		next[k] = stat.Mean(col, nil)
		if math.IsNaN(next[k]) || math.IsInf(next[k], 0) {
			return center, degenerate, fmt.Errorf("non-finite average for %s", pomp.ParamNames[k])
		}
	}
	return next, degenerate, nil
}

// perturb applies one Gaussian random-walk move on the unconstrained scale.
func perturb(theta, sd [pomp.NDim]float64, cool float64, rng *rand.Rand) [pomp.NDim]float64 {
	for k := range theta {
		if sd[k] > 0 {
			theta[k] += distuv.Normal{Mu: 0, Sigma: sd[k] * cool, Src: rng}.Rand()
		}
	}
	return theta
}
