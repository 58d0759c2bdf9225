// Package sarima implements seasonal ARIMA benchmark models.
package sarima

import (
	"errors"
	"math"

	"github.com/sartorproj/gopomp/stats"
	"github.com/sartorproj/gopomp/timeseries"
)

// Order represents SARIMA model order (p, d, q) x (P, D, Q, m).
type Order struct {
	P int // Non-seasonal AR order
	D int // Non-seasonal differencing order
	Q int // Non-seasonal MA order
	// Seasonal components
	SP int // Seasonal AR order
	SD int // Seasonal differencing order
	SQ int // Seasonal MA order
	M  int // Seasonal period (12 for monthly data with yearly seasonality)
}

// Model represents a SARIMA model.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // Non-seasonal AR coefficients
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SARCoeffs []float64 // Seasonal AR coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64 // Corrected AIC for small sample sizes
	BIC       float64
	LogLik    float64

	fitted     bool
	data       *timeseries.Series
	diffData   *timeseries.Series
	residuals  []float64
	fittedVals []float64
}

// New creates a new SARIMA model with the specified order.
func New(p, d, q, sp, sd, sq, m int) *Model {
	return &Model{
		Order: Order{
			P: p, D: d, Q: q,
			SP: sp, SD: sd, SQ: sq, M: m,
		},
		ARCoeffs:  make([]float64, p),
		MACoeffs:  make([]float64, q),
		SARCoeffs: make([]float64, sp),
		SMACoeffs: make([]float64, sq),
	}
}

// Fit fits the SARIMA model to the given time series data using conditional
// sum of squares estimation.
func (m *Model) Fit(series *timeseries.Series) error {
	minLen := m.Order.P + m.Order.Q + m.Order.D +
		(m.Order.SP+m.Order.SD+m.Order.SQ)*m.Order.M + 20
	if series.Len() < minLen {
		return errors.New("insufficient data points for the specified order")
	}

	m.data = series

	diffSeries := series
	for i := 0; i < m.Order.D; i++ {
		diffSeries = diffSeries.Diff()
		if diffSeries.Len() == 0 {
			return errors.New("differencing resulted in empty series")
		}
	}
	for i := 0; i < m.Order.SD; i++ {
		diffSeries = diffSeries.SeasonalDiff(m.Order.M)
		if diffSeries.Len() == 0 {
			return errors.New("seasonal differencing resulted in empty series")
		}
	}
	m.diffData = diffSeries

	m.initCoeffs()
	m.optimizeCSS(diffSeries.Values)
	m.calculateIC()

	m.fitted = true
	return nil
}

// initCoeffs seeds the coefficient vectors from the sample ACF.
func (m *Model) initCoeffs() {
	m.Intercept = m.diffData.Mean()

	if m.Order.P > 0 {
		if acf := stats.ACF(m.diffData, m.Order.P); acf != nil {
			for i := 0; i < m.Order.P && i+1 < len(acf); i++ {
				m.ARCoeffs[i] = acf[i+1] * 0.5
			}
		}
	}
	if m.Order.SP > 0 {
		if acf := stats.ACF(m.diffData, m.Order.SP*m.Order.M); acf != nil {
			for i := 0; i < m.Order.SP; i++ {
				if idx := (i + 1) * m.Order.M; idx < len(acf) {
					m.SARCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}
}

// predictAt computes the one-step prediction at index t given values y and
// past residuals.
func (m *Model) predictAt(t int, y, residuals []float64) float64 {
	pred := m.Intercept

	for i := 0; i < m.Order.P && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < m.Order.SP; i++ {
		if lag := (i + 1) * m.Order.M; t-lag >= 0 {
			pred += m.SARCoeffs[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < m.Order.Q && t-i-1 >= 0; i++ {
		pred += m.MACoeffs[i] * residuals[t-i-1]
	}
	for i := 0; i < m.Order.SQ; i++ {
		if lag := (i + 1) * m.Order.M; t-lag >= 0 {
			pred += m.SMACoeffs[i] * residuals[t-lag]
		}
	}
	return pred
}

// optimizeCSS minimizes the conditional sum of squares by gradient descent
// with momentum, keeping the best coefficients seen.
func (m *Model) optimizeCSS(y []float64) {
	n := len(y)
	p, q, sp, sq := m.Order.P, m.Order.Q, m.Order.SP, m.Order.SQ
	period := m.Order.M

	maxIter := 200
	tolerance := 1e-8
	learningRate := 0.005
	momentum := 0.9
	decay := 0.99

	arMom := make([]float64, p)
	maMom := make([]float64, q)
	sarMom := make([]float64, sp)
	smaMom := make([]float64, sq)

	startIdx := max(max(p, q), max(sp*period, sq*period))
	if startIdx >= n-10 {
		startIdx = 0
	}

	bestSSE := math.Inf(1)
	bestAR := make([]float64, p)
	bestMA := make([]float64, q)
	bestSAR := make([]float64, sp)
	bestSMA := make([]float64, sq)
	noImprove := 0

	residuals := make([]float64, n)
	for iter := 0; iter < maxIter; iter++ {
		currentSSE := 0.0
		for t := startIdx; t < n; t++ {
			residuals[t] = y[t] - m.predictAt(t, y, residuals)
			currentSSE += residuals[t] * residuals[t]
		}

		if currentSSE < bestSSE {
			if math.Abs(bestSSE-currentSSE) < tolerance {
				break
			}
			bestSSE = currentSSE
			copy(bestAR, m.ARCoeffs)
			copy(bestMA, m.MACoeffs)
			copy(bestSAR, m.SARCoeffs)
			copy(bestSMA, m.SMACoeffs)
			noImprove = 0
		} else {
			noImprove++
		}
		if noImprove > 20 {
			break
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)

		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < sp; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < sq; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		step := func(coeffs, grad, mom []float64) {
			for i := range coeffs {
				mom[i] = momentum*mom[i] + learningRate*grad[i]/float64(n)
				coeffs[i] = clamp(coeffs[i]-mom[i], -0.99, 0.99)
			}
		}
		step(m.ARCoeffs, arGrad, arMom)
		step(m.SARCoeffs, sarGrad, sarMom)
		step(m.MACoeffs, maGrad, maMom)
		step(m.SMACoeffs, smaGrad, smaMom)

		learningRate *= decay
	}

	copy(m.ARCoeffs, bestAR)
	copy(m.MACoeffs, bestMA)
	copy(m.SARCoeffs, bestSAR)
	copy(m.SMACoeffs, bestSMA)

	// Final residuals, fitted values, and variance.
	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.fittedVals[t] = m.predictAt(t, y, m.residuals)
		m.residuals[t] = y[t] - m.fittedVals[t]
	}

	sse := 0.0
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	numParams := p + q + sp + sq + 1
	if count > numParams {
		m.Variance = sse / float64(count-numParams)
	} else {
		m.Variance = sse / float64(count)
	}
}

// calculateIC calculates AIC, AICc, and BIC from the Gaussian log-likelihood.
func (m *Model) calculateIC() {
	n := len(m.residuals)
	k := m.Order.P + m.Order.Q + m.Order.SP + m.Order.SQ + 1

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	if m.Variance > 0 {
		m.LogLik = -float64(n)/2*math.Log(2*math.Pi) - float64(n)/2*math.Log(m.Variance) - sse/(2*m.Variance)
	} else {
		m.LogLik = math.Inf(-1)
	}

	m.AIC = -2*m.LogLik + 2*float64(k)

	kf, nf := float64(k), float64(n)
	if nf-kf-1 > 0 {
		m.AICc = m.AIC + 2*kf*(kf+1)/(nf-kf-1)
	} else {
		m.AICc = math.Inf(1)
	}

	m.BIC = -2*m.LogLik + kf*math.Log(nf)
}

// Predict generates forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	y := m.diffData.Values
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.predictAt(t, extY, extResiduals)
		extY[t] = pred
		extResiduals[t] = 0 // expected future residual is zero
	}

	forecasts := make([]float64, steps)
	copy(forecasts, extY[n:])
	return m.integrate(forecasts), nil
}

// integrate undoes differencing to return forecasts on the original scale.
// Fit differences non-seasonally first, then seasonally, so integration
// undoes seasonal differencing first.
func (m *Model) integrate(forecasts []float64) []float64 {
	d, sd, period := m.Order.D, m.Order.SD, m.Order.M
	original := m.data.Values
	n := len(original)

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	nonSeasonalDiff := original
	for i := 0; i < d; i++ {
		if len(nonSeasonalDiff) <= 1 {
			break
		}
		next := make([]float64, len(nonSeasonalDiff)-1)
		for j := 1; j < len(nonSeasonalDiff); j++ {
			next[j-1] = nonSeasonalDiff[j] - nonSeasonalDiff[j-1]
		}
		nonSeasonalDiff = next
	}

	if sd > 0 && period > 0 {
		nDiff := len(nonSeasonalDiff)
		for i := 0; i < sd; i++ {
			for j := 0; j < len(result); j++ {
				if j < period {
					if idx := nDiff - period + j; idx >= 0 && idx < nDiff {
						result[j] += nonSeasonalDiff[idx]
					}
				} else {
					result[j] += result[j-period]
				}
			}
		}
	}

	for i := 0; i < d; i++ {
		lastVal := original[n-1]
		for j := 0; j < len(result); j++ {
			if j == 0 {
				result[j] += lastVal
			} else {
				result[j] += result[j-1]
			}
		}
	}

	return result
}

// Residuals returns the model residuals.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns the fitted values.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.fittedVals))
	copy(result, m.fittedVals)
	return result
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
