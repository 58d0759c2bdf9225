package pomp

import (
	"errors"
	"math"
)

// Params is the named parameter vector of the SEIR transmission model.
// Rates are per month; the seasonal coefficients B1..B5 weight the periodic
// spline basis supplied by the covariate table.
type Params struct {
	MuH   float64 // natural death rate
	MuEI  float64 // latent progression rate (E to I)
	Gamma float64 // recovery rate (I to R)
	R     float64 // population growth rate

	Rho float64 // reporting probability, in (0,1)

	B1, B2, B3, B4, B5 float64 // seasonal transmission coefficients
	G                  float64 // baseline log-transmission level

	SigmaP float64 // process noise intensity (gamma white noise)
	SigmaM float64 // measurement overdispersion; 0 selects Poisson measurement

	E0, I0, R0, N0 float64 // nominal initial compartment sizes
	C0             float64 // initial value of the case accumulator

	Epsilon float64 // background infection risk constant
	Iota    float64 // immigration intensity (extended model)
}

// NDim is the dimension of the parameter vector.
const NDim = 20

// ParamNames lists the parameter names in vector order.
var ParamNames = [NDim]string{
	"muH", "muEI", "gamma", "r", "rho",
	"b1", "b2", "b3", "b4", "b5", "g",
	"sigmaP", "sigmaM",
	"E0", "I0", "R0", "N0", "C0",
	"epsilon", "iota",
}

// Vector flattens the parameters into a fixed-order vector.
func (p Params) Vector() [NDim]float64 {
	return [NDim]float64{
		p.MuH, p.MuEI, p.Gamma, p.R, p.Rho,
		p.B1, p.B2, p.B3, p.B4, p.B5, p.G,
		p.SigmaP, p.SigmaM,
		p.E0, p.I0, p.R0, p.N0, p.C0,
		p.Epsilon, p.Iota,
	}
}

// FromVector rebuilds parameters from a fixed-order vector.
func FromVector(v [NDim]float64) Params {
	return Params{
		MuH: v[0], MuEI: v[1], Gamma: v[2], R: v[3], Rho: v[4],
		B1: v[5], B2: v[6], B3: v[7], B4: v[8], B5: v[9], G: v[10],
		SigmaP: v[11], SigmaM: v[12],
		E0: v[13], I0: v[14], R0: v[15], N0: v[16], C0: v[17],
		Epsilon: v[18], Iota: v[19],
	}
}

// Validate reports whether the parameters lie in their natural domain.
func (p Params) Validate() error {
	switch {
	case p.MuH < 0 || p.MuEI < 0 || p.Gamma < 0 || p.R < 0:
		return errors.New("pomp: rate parameters must be non-negative")
	case p.Rho <= 0 || p.Rho >= 1:
		return errors.New("pomp: reporting probability must lie in (0,1)")
	case p.SigmaP < 0 || p.SigmaM < 0:
		return errors.New("pomp: noise scales must be non-negative")
	case p.Epsilon < 0 || p.Iota < 0:
		return errors.New("pomp: epsilon and iota must be non-negative")
	case p.N0 <= 0:
		return errors.New("pomp: initial population must be positive")
	}
	return nil
}

// TransformKind selects the bijection that maps one parameter between its
// natural (constrained) scale and the unconstrained scale used by the
// random-walk search.
type TransformKind uint8

// Identity, Log and Logit are the available parameter transforms.
const (
	Identity TransformKind = iota
	Log
	Logit
)

// Transforms gives the transform kind of each parameter in vector order:
// positive parameters move on a log scale, probabilities on a logit scale,
// and the unbounded seasonal coefficients stay untransformed.
var Transforms = [NDim]TransformKind{
	Log, Log, Log, Log, Logit,
	Identity, Identity, Identity, Identity, Identity, Identity,
	Log, Log,
	Log, Log, Log, Log, Identity,
	Log, Log,
}

// ToUnconstrained maps a natural-scale value to the unconstrained scale.
func (k TransformKind) ToUnconstrained(x float64) float64 {
	switch k {
	case Log:
		return math.Log(x)
	case Logit:
		return math.Log(x / (1 - x))
	default:
		return x
	}
}

// FromUnconstrained maps an unconstrained-scale value back to the natural scale.
func (k TransformKind) FromUnconstrained(x float64) float64 {
	switch k {
	case Log:
		return math.Exp(x)
	case Logit:
		return 1 / (1 + math.Exp(-x))
	default:
		return x
	}
}

// ToUnconstrained maps the full parameter vector to the unconstrained scale.
func ToUnconstrained(p Params) [NDim]float64 {
	v := p.Vector()
	for i := range v {
		v[i] = Transforms[i].ToUnconstrained(v[i])
	}
	return v
}

// FromUnconstrained maps an unconstrained vector back to natural-scale parameters.
func FromUnconstrained(v [NDim]float64) Params {
	for i := range v {
		v[i] = Transforms[i].FromUnconstrained(v[i])
	}
	return FromVector(v)
}
