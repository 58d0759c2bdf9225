package mif

import (
	"math"
	"testing"

	"github.com/sartorproj/gopomp/covar"
	"github.com/sartorproj/gopomp/pfilter"
	"github.com/sartorproj/gopomp/pomp"
)

func truthParams() pomp.Params {
	return pomp.Params{
		MuH:   1.0 / 840,
		MuEI:  2,
		Gamma: 1,
		R:     0.001,
		Rho:   0.3,
		B1:    1, B2: 1, B3: 1, B4: 1, B5: 1,
		G:       -0.5,
		SigmaP:  0.2,
		E0:      20,
		I0:      20,
		N0:      5000,
		Epsilon: 1,
	}
}

// syntheticModel simulates a case series from the truth parameters and wraps
// it as the data to fit, so the likelihood surface has a known good region.
func syntheticModel(t *testing.T, nobs int) *pomp.Model {
	t.Helper()
	table, err := covar.Seasonal(5, 12)
	if err != nil {
		t.Fatalf("Failed to build covariate table: %v", err)
	}

	obs := make([]pomp.Observation, nobs)
	for i := range obs {
		obs[i] = pomp.Observation{Time: float64(i + 1)}
	}
	m, err := pomp.NewModel(obs, table, pomp.DefaultModelConfig())
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}

	trajs, err := m.Simulate(truthParams(), 1, 20160101)
	if err != nil {
		t.Fatalf("Failed to simulate data: %v", err)
	}
	for i := range obs {
		obs[i].Cases = trajs[0].Cases[i]
	}
	m, err = pomp.NewModel(obs, table, pomp.DefaultModelConfig())
	if err != nil {
		t.Fatalf("Failed to rebuild model: %v", err)
	}
	return m
}

func smallConfig() *Config {
	cfg := DefaultConfig()
	cfg.Np = 100
	cfg.Iterations = 4
	cfg.EvalReplicates = 3
	return cfg
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Default configuration rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero particles", func(c *Config) { c.Np = 0 }},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"cooling zero", func(c *Config) { c.CoolingFraction = 0 }},
		{"cooling above one", func(c *Config) { c.CoolingFraction = 1.5 }},
		{"zero eval replicates", func(c *Config) { c.EvalReplicates = 0 }},
		{"empty random walk", func(c *Config) { c.RWSD = nil }},
		{"unknown parameter", func(c *Config) { c.RWSD = map[string]float64{"nope": 0.1} }},
		{"negative sd", func(c *Config) { c.RWSD = map[string]float64{"g": -0.1} }},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestRWSDVector(t *testing.T) {
	sd := rwsdVector(map[string]float64{"rho": 0.05, "g": 0.02, "muEI": 0.1})

	idx, ok := paramIndex("rho")
	if !ok || sd[idx] != 0.05 {
		t.Errorf("rho sd not mapped: %v", sd)
	}
	idx, _ = paramIndex("g")
	if sd[idx] != 0.02 {
		t.Errorf("g sd not mapped: %v", sd)
	}
	if _, ok := paramIndex("nothere"); ok {
		t.Error("Unknown name resolved to an index")
	}

	named := 0
	for _, v := range sd {
		if v != 0 {
			named++
		}
	}
	if named != 3 {
		t.Errorf("Expected 3 perturbed coordinates, got %d", named)
	}
}

func TestFitValidation(t *testing.T) {
	m := syntheticModel(t, 6)

	bad := truthParams()
	bad.N0 = 0
	if _, err := Fit(m, bad, smallConfig(), 1); err == nil {
		t.Error("Expected error for invalid starting parameters")
	}

	cfg := smallConfig()
	cfg.Np = 0
	if _, err := Fit(m, truthParams(), cfg, 1); err == nil {
		t.Error("Expected error for invalid configuration")
	}
}

func TestFitTraceAndDeterminism(t *testing.T) {
	m := syntheticModel(t, 12)
	cfg := smallConfig()

	a, err := Fit(m, truthParams(), cfg, 7)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if len(a.Trace) != cfg.Iterations+1 {
		t.Fatalf("Expected %d trace entries, got %d", cfg.Iterations+1, len(a.Trace))
	}
	start := truthParams().Vector()
	for k, v := range a.Trace[0] {
		if math.Abs(v-start[k]) > 1e-9*math.Max(1, math.Abs(start[k])) {
			t.Errorf("Trace[0][%s] = %g, want start value %g", pomp.ParamNames[k], v, start[k])
		}
	}
	for i, row := range a.Trace {
		for k, v := range row {
			if math.IsNaN(v) {
				t.Fatalf("Trace[%d][%s] is NaN", i, pomp.ParamNames[k])
			}
		}
	}
	if err := a.Params.Validate(); err != nil {
		t.Errorf("Fitted parameters invalid: %v", err)
	}

	b, err := Fit(m, truthParams(), cfg, 7)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if a.LogLik != b.LogLik || a.Params != b.Params {
		t.Error("Same seed gave a different fit")
	}
}

func TestFitStaysNearTruth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping optimization test in short mode")
	}

	m := syntheticModel(t, 24)
	cfg := smallConfig()
	cfg.Iterations = 6

	truthLL, err := pfilter.Replicated(m, truthParams(), cfg.Np, 4, 99)
	if err != nil {
		t.Fatalf("Truth likelihood failed: %v", err)
	}

	fit, err := Fit(m, truthParams(), cfg, 2016)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	t.Logf("Truth loglik %.2f (se %.2f), fitted %.2f (se %.2f)",
		truthLL.LogLik, truthLL.SE, fit.LogLik, fit.SE)

	// Starting at the truth, a short run must not wander off the likelihood
	// ridge. The margin is generous because both estimates are Monte Carlo.
	if fit.LogLik < truthLL.LogLik-30 {
		t.Errorf("Fit drifted far from the truth: %.2f vs %.2f", fit.LogLik, truthLL.LogLik)
	}
}

func TestFitRejectsPerturbedBoundaryStart(t *testing.T) {
	// Perturbing a log-scale parameter whose start is zero can never move it
	// off -Inf on the unconstrained scale; that is a configuration error and
	// must surface before any filtering work, not as a mid-run failure.
	m := syntheticModel(t, 6)
	start := truthParams()
	start.SigmaM = 0

	cfg := smallConfig()
	cfg.RWSD = map[string]float64{"sigmaM": 0.02, "g": 0.02}

	_, err := Fit(m, start, cfg, 3)
	if err == nil {
		t.Fatal("Expected error for a perturbed boundary-valued parameter")
	}
	t.Logf("Rejected with: %v", err)
}

func TestFitZeroBoundaryParameters(t *testing.T) {
	// Log-transformed parameters starting at zero stay pinned at zero when
	// they are not perturbed.
	m := syntheticModel(t, 8)
	start := truthParams()
	start.R0 = 0
	start.SigmaM = 0
	start.Iota = 0

	fit, err := Fit(m, start, smallConfig(), 5)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if fit.Params.R0 != 0 || fit.Params.SigmaM != 0 || fit.Params.Iota != 0 {
		t.Errorf("Pinned parameters moved: R0=%g SigmaM=%g Iota=%g",
			fit.Params.R0, fit.Params.SigmaM, fit.Params.Iota)
	}
}
