// Package search orchestrates parallel replicate parameter searches.
package search

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/gopomp/mif"
	"github.com/sartorproj/gopomp/pomp"
)

// Config holds configuration for a replicated search.
type Config struct {
	Replicates int         // independent optimization replicates (default 10)
	Workers    int         // maximum parallel replicates; 0 selects NumCPU
	Seed       uint64      // master seed; replicate r uses stream (Seed, r)
	Mif        *mif.Config // optimizer settings shared by all replicates
	Trace      bool        // log per-replicate outcomes
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		Replicates: 10,
		Workers:    runtime.NumCPU(),
		Mif:        mif.DefaultConfig(),
	}
}

// Validate checks the configuration before any work is scheduled.
func (c *Config) Validate() error {
	if c.Replicates < 1 {
		return errors.New("search: need at least one replicate")
	}
	if c.Workers < 0 {
		return errors.New("search: worker count cannot be negative")
	}
	if c.Mif == nil {
		return errors.New("search: missing optimizer configuration")
	}
	return c.Mif.Validate()
}

// Range is a closed interval of admissible natural-scale parameter values.
type Range struct {
	Low, High float64
}

// Bounds maps parameter names to their global-search sampling ranges.
// Parameters not named keep the base value in every replicate.
type Bounds map[string]Range

// Validate checks the bounds against the model parameter names.
func (b Bounds) Validate() error {
	if len(b) == 0 {
		return errors.New("search: empty parameter bounds")
	}
	for name, r := range b {
		if !knownParam(name) {
			return fmt.Errorf("search: unknown parameter %q in bounds", name)
		}
		if !(r.Low <= r.High) {
			return fmt.Errorf("search: invalid bounds for %q: [%g, %g]", name, r.Low, r.High)
		}
	}
	return nil
}

// Replicate records one optimization replicate.
type Replicate struct {
	Index int
	Start pomp.Params
	Fit   *mif.FitResult // nil when the replicate failed
	Err   error
}

// Result aggregates all replicates of one search.
type Result struct {
	Best       *mif.FitResult // highest terminal log-likelihood
	BestIndex  int
	Replicates []Replicate // all replicates, ranked by log-likelihood
	Failed     int         // replicates excluded after a failure
}

// Local runs a local search: every replicate starts from the same
// expert-chosen parameter vector and differs only in its random seed. The
// spread of the resulting fits measures optimizer stability.
func Local(m *pomp.Model, start pomp.Params, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := start.Validate(); err != nil {
		return nil, err
	}

	starts := make([]pomp.Params, cfg.Replicates)
	for i := range starts {
		starts[i] = start
	}
	return run(m, starts, cfg)
}

// Global runs a global search: every replicate starts from an independently
// drawn random point within the stated bounds, exposing multiple likelihood
// modes if they exist. Parameters outside the bounds keep their base value.
func Global(m *pomp.Model, base pomp.Params, bounds Bounds, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	starts := make([]pomp.Params, cfg.Replicates)
	for i := range starts {
		// Draws come from a dedicated stream family so they never collide
		// with the optimizer streams.
		rng := pomp.NewStream(cfg.Seed, ^uint64(i))
		v := base.Vector()
		for k, name := range pomp.ParamNames {
			if r, ok := bounds[name]; ok {
				v[k] = distuv.Uniform{Min: r.Low, Max: r.High, Src: rng}.Rand()
			}
		}
		starts[i] = pomp.FromVector(v)
		if err := starts[i].Validate(); err != nil {
			return nil, fmt.Errorf("search: bounds produce invalid parameters: %w", err)
		}
	}
	return run(m, starts, cfg)
}

// run executes the replicates on a bounded worker pool and ranks the fits.
// Replicates share only the read-only model; each owns its seed stream, so
// no synchronization beyond the pool itself is needed.
func run(m *pomp.Model, starts []pomp.Params, cfg *Config) (*Result, error) {
	reps := make([]Replicate, len(starts))

	workers := cfg.Workers
	if workers < 1 {
		// SetLimit(0) would block every Go call forever.
		workers = runtime.NumCPU()
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range starts {
		i := i
		g.Go(func() error {
			fit, err := mif.Fit(m, starts[i], cfg.Mif, pomp.DeriveSeed(cfg.Seed, uint64(i)))
			reps[i] = Replicate{Index: i, Start: starts[i], Fit: fit, Err: err}
			if cfg.Trace {
				if err != nil {
					log.Printf("search: replicate %d failed: %v", i, err)
				} else {
					log.Printf("search: replicate %d loglik %.2f (se %.2f)", i, fit.LogLik, fit.SE)
				}
			}
			return nil // replicate failures are aggregated, not fatal
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Replicates: reps}
	for _, r := range reps {
		if r.Err != nil {
			res.Failed++
		}
	}
	if res.Failed == len(reps) {
		return nil, errors.New("search: all replicates failed")
	}

	// Rank successful fits first, best log-likelihood on top.
	sort.SliceStable(res.Replicates, func(a, b int) bool {
		ra, rb := res.Replicates[a], res.Replicates[b]
		switch {
		case ra.Err != nil:
			return false
		case rb.Err != nil:
			return true
		default:
			return ra.Fit.LogLik > rb.Fit.LogLik
		}
	})
	res.Best = res.Replicates[0].Fit
	res.BestIndex = res.Replicates[0].Index
	return res, nil
}

func knownParam(name string) bool {
	for _, n := range pomp.ParamNames {
		if n == name {
			return true
		}
	}
	return false
}
