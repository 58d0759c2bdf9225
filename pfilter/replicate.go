package pfilter

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/gopomp/pomp"
)

// ReplicatedResult aggregates several independent filter passes at the same
// parameters into a variance-reduced point estimate.
type ReplicatedResult struct {
	LogLik          float64   // log-mean-exp of the replicate estimates
	SE              float64   // jackknife Monte Carlo standard error
	Replicates      []float64 // individual replicate log-likelihoods
	Failed          int       // replicates excluded after a failure
	DegenerateSteps int       // total all-zero-weight observations across replicates
}

// Replicated runs the filter nrep times with independent seeds and combines
// the replicate estimates with LogMeanExp. A single filter run's likelihood
// is itself a noisy Monte Carlo quantity; log-mean-exp over replicates is
// the matching unbiased combination on the likelihood scale. Individual
// replicate failures are excluded and counted rather than aborting the run.
func Replicated(m *pomp.Model, p pomp.Params, np, nrep int, seed uint64) (*ReplicatedResult, error) {
	if nrep < 1 {
		return nil, errors.New("pfilter: need at least one replicate")
	}

	res := &ReplicatedResult{}
	for r := 0; r < nrep; r++ {
		one, err := Run(m, p, np, pomp.DeriveSeed(seed, uint64(r)))
		if err != nil {
			res.Failed++
			continue
		}
		res.Replicates = append(res.Replicates, one.LogLik)
		res.DegenerateSteps += one.DegenerateSteps
	}

	if len(res.Replicates) == 0 {
		return nil, errors.New("pfilter: all filter replicates failed")
	}

	res.LogLik, res.SE = LogMeanExp(res.Replicates)
	return res, nil
}

// LogMeanExp combines replicate log-likelihood estimates into
// log(mean(exp(ll))), computed stably, with a jackknife standard error.
// The exp-scale mean is the unbiased combination for SMC likelihood
// estimates; averaging on the log scale would bias the result downward.
func LogMeanExp(lls []float64) (est, se float64) {
	n := len(lls)
	if n == 0 {
		return math.Inf(-1), 0
	}
	est = floats.LogSumExp(lls) - math.Log(float64(n))
	if n == 1 {
		return est, 0
	}

	// Leave-one-out jackknife on the log-mean-exp statistic.
	jack := make([]float64, n)
	loo := make([]float64, 0, n-1)
	for i := range lls {
		loo = loo[:0]
		loo = append(loo, lls[:i]...)
		loo = append(loo, lls[i+1:]...)
		jack[i] = floats.LogSumExp(loo) - math.Log(float64(n-1))
	}
	mean := stat.Mean(jack, nil)
	var ss float64
	for _, v := range jack {
		d := v - mean
		ss += d * d
	}
	se = math.Sqrt(float64(n-1) / float64(n) * ss)
	return est, se
}
