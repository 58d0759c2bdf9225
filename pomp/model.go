package pomp

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gopomp/covar"
)

// obsJitter is added to every measurement rate purely to keep the Poisson
// density away from the zero-rate degeneracy.
const obsJitter = 1e-6

// Observation is one data point of the case-count series.
type Observation struct {
	Time  float64 // observation time, in months since the model origin
	Cases int     // reported case count, non-negative
}

// ModelConfig selects the model structure and discretization.
type ModelConfig struct {
	StepSize    float64 // Euler step in months (default 1/24)
	T0          float64 // simulation start time (default 0)
	Immigration bool    // enable the immigration variant (Iota takes effect)
}

// DefaultModelConfig returns the default model configuration.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		StepSize: 1.0 / 24,
	}
}

// Model ties together the observation series, the seasonal covariate table
// and the model configuration. A Model is immutable once built and safe to
// share across concurrent filter and search runs.
type Model struct {
	obs   []Observation
	covar *covar.Table
	cfg   ModelConfig
}

// NewModel builds a model definition. The covariate table must provide the
// five seasonal basis coordinates consumed by the transition simulator.
func NewModel(obs []Observation, table *covar.Table, cfg ModelConfig) (*Model, error) {
	if len(obs) == 0 {
		return nil, errors.New("pomp: empty observation series")
	}
	if table == nil {
		return nil, errors.New("pomp: nil covariate table")
	}
	if table.Dim() != 5 {
		return nil, fmt.Errorf("pomp: covariate table has dimension %d, want 5", table.Dim())
	}
	if cfg.StepSize <= 0 {
		return nil, errors.New("pomp: step size must be positive")
	}

	prev := cfg.T0
	for i, o := range obs {
		if o.Time <= prev {
			return nil, fmt.Errorf("pomp: observation %d at time %g is not after %g", i, o.Time, prev)
		}
		if o.Cases < 0 {
			return nil, fmt.Errorf("pomp: observation %d has negative case count", i)
		}
		prev = o.Time
	}

	own := make([]Observation, len(obs))
	copy(own, obs)
	return &Model{obs: own, covar: table, cfg: cfg}, nil
}

// Observations returns a copy of the observation series.
func (m *Model) Observations() []Observation {
	out := make([]Observation, len(m.obs))
	copy(out, m.obs)
	return out
}

// NumObs returns the number of observations.
func (m *Model) NumObs() int {
	return len(m.obs)
}

// Obs returns the i-th observation.
func (m *Model) Obs(i int) Observation {
	return m.obs[i]
}

// Config returns the model configuration.
func (m *Model) Config() ModelConfig {
	return m.cfg
}

// Advance integrates the state from time from to time to with fixed Euler
// increments of at most the configured step size, drawing all transition
// noise from rng. The case accumulator keeps accruing; resetting it at
// observation boundaries is the caller's business.
func (m *Model) Advance(s State, p Params, from, to float64, rng *rand.Rand) State {
	if !m.cfg.Immigration {
		p.Iota = 0
	}

	span := to - from
	if span <= 0 {
		return s
	}
	nsteps := int(math.Ceil(span/m.cfg.StepSize - 1e-9))
	if nsteps < 1 {
		nsteps = 1
	}
	dt := span / float64(nsteps)

	cov := make([]float64, m.covar.Dim())
	t := from
	for k := 0; k < nsteps; k++ {
		m.covar.ValueInto(cov, t)
		s = Step(s, p, cov, dt, rng)
		t += dt
	}
	return s
}

// SimulateObs draws a simulated case count for the state at an observation
// time. The measurement is Poisson with mean Rho*I, switching to an
// overdispersed gamma-Poisson mixture when SigmaM is positive.
func (m *Model) SimulateObs(s State, p Params, rng *rand.Rand) int {
	mean := p.Rho*s.I + obsJitter
	if p.SigmaM > 0 {
		// Gamma-Poisson mixture: a gamma-distributed rate with mean `mean`
		// and variance (mean*SigmaM)^2 makes the marginal negative binomial.
		shape := 1 / (p.SigmaM * p.SigmaM)
		mean = distuv.Gamma{Alpha: shape, Beta: shape / mean, Src: rng}.Rand()
	}
	return int(distuv.Poisson{Lambda: mean, Src: rng}.Rand())
}

// LogLikObs returns the log-likelihood of observing cases given the state.
func (m *Model) LogLikObs(cases int, s State, p Params) float64 {
	mean := p.Rho*s.I + obsJitter
	y := float64(cases)
	if p.SigmaM > 0 {
		return negBinomLogPMF(y, mean, p.SigmaM)
	}
	return distuv.Poisson{Lambda: mean}.LogProb(y)
}

// negBinomLogPMF is the negative binomial log-pmf parameterized by mean and
// overdispersion sigma, with variance mean + (mean*sigma)^2.
func negBinomLogPMF(y, mean, sigma float64) float64 {
	size := 1 / (sigma * sigma)
	lp := size * math.Log(size/(size+mean))
	lp += y * math.Log(mean/(size+mean))
	lg1, _ := math.Lgamma(y + size)
	lg2, _ := math.Lgamma(size)
	lg3, _ := math.Lgamma(y + 1)
	return lp + lg1 - lg2 - lg3
}

// Trajectory is one simulated realization sampled at the observation times.
type Trajectory struct {
	Times  []float64
	States []State // state at each observation time, before accumulator reset
	Cases  []int   // simulated observed case counts
}

// Simulate generates n independent trajectories from the model under p.
// Replicate i draws from the independently seeded stream (seed, i), so runs
// are reproducible and uncorrelated across replicates.
func (m *Model) Simulate(p Params, n int, seed uint64) ([]Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, errors.New("pomp: need at least one replicate")
	}

	out := make([]Trajectory, n)
	for i := range out {
		rng := NewStream(seed, uint64(i))
		s := Init(p)
		t := m.cfg.T0

		traj := Trajectory{
			Times:  make([]float64, len(m.obs)),
			States: make([]State, len(m.obs)),
			Cases:  make([]int, len(m.obs)),
		}
		for j, o := range m.obs {
			s = m.Advance(s, p, t, o.Time, rng)
			traj.Times[j] = o.Time
			traj.States[j] = s
			traj.Cases[j] = m.SimulateObs(s, p, rng)
			s.C = 0 // accumulator resets at each observation boundary
			t = o.Time
		}
		out[i] = traj
	}
	return out, nil
}
