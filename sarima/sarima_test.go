package sarima

import (
	"math"
	"testing"

	"github.com/sartorproj/gopomp/timeseries"
)

func seasonalSeries(n, period int, amplitude float64) *timeseries.Series {
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		seasonal := amplitude * math.Sin(2*math.Pi*float64(i)/float64(period))
		noise := float64(i%5-2) / 2
		values[i] = 100 + seasonal + noise
	}
	return timeseries.New(values)
}

func TestNewSARIMA(t *testing.T) {
	model := New(1, 1, 1, 1, 1, 1, 12)

	if model.Order.P != 1 || model.Order.D != 1 || model.Order.Q != 1 {
		t.Errorf("Unexpected non-seasonal order: %+v", model.Order)
	}
	if model.Order.SP != 1 || model.Order.SD != 1 || model.Order.SQ != 1 {
		t.Errorf("Unexpected seasonal order: %+v", model.Order)
	}
	if model.Order.M != 12 {
		t.Errorf("Expected M=12, got %d", model.Order.M)
	}
}

func TestSARIMAFitMonthlyData(t *testing.T) {
	series := seasonalSeries(120, 12, 20)
	model := New(1, 0, 0, 1, 0, 0, 12)

	if err := model.Fit(series); err != nil {
		t.Fatalf("Failed to fit SARIMA model: %v", err)
	}

	if math.IsNaN(model.AIC) || math.IsInf(model.AIC, 0) {
		t.Errorf("AIC is not finite: %f", model.AIC)
	}
	if model.AICc < model.AIC {
		t.Errorf("AICc %f below AIC %f", model.AICc, model.AIC)
	}
	t.Logf("SARIMA(1,0,0)(1,0,0)[12] - AIC: %f, AICc: %f, BIC: %f", model.AIC, model.AICc, model.BIC)
	t.Logf("AR coeffs: %v, SAR coeffs: %v", model.ARCoeffs, model.SARCoeffs)
}

func TestSARIMAWithDifferencing(t *testing.T) {
	n := 144
	period := 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		trend := float64(i) * 0.3
		seasonal := 15 * math.Cos(2*math.Pi*float64(i)/float64(period))
		values[i] = 50 + trend + seasonal + float64(i%7-3)/3
	}

	model := New(1, 1, 0, 1, 1, 0, 12)
	if err := model.Fit(timeseries.New(values)); err != nil {
		t.Fatalf("Failed to fit SARIMA(1,1,0)(1,1,0)[12]: %v", err)
	}
	t.Logf("SARIMA(1,1,0)(1,1,0)[12] - AIC: %f, BIC: %f", model.AIC, model.BIC)
}

func TestSARIMAInsufficientData(t *testing.T) {
	model := New(1, 0, 0, 1, 1, 0, 12)
	if err := model.Fit(timeseries.New(make([]float64, 20))); err == nil {
		t.Error("Expected error for a series shorter than the order needs")
	}
}

func TestSARIMAPredict(t *testing.T) {
	series := seasonalSeries(96, 12, 10)
	model := New(0, 0, 0, 1, 0, 0, 12)

	if err := model.Fit(series); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	forecasts, err := model.Predict(12)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if len(forecasts) != 12 {
		t.Errorf("Expected 12 forecasts, got %d", len(forecasts))
	}
	for i, f := range forecasts {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Errorf("Forecast %d is NaN or Inf", i)
		}
		if f < 50 || f > 150 {
			t.Logf("Forecast %d may be unusual: %f", i, f)
		}
	}
	t.Logf("Forecasts for next 12 periods: %v", forecasts)
}

func TestSARIMAPredictValidation(t *testing.T) {
	model := New(1, 0, 0, 0, 0, 0, 12)
	if _, err := model.Predict(6); err == nil {
		t.Error("Expected error for prediction before fitting")
	}

	if err := model.Fit(seasonalSeries(60, 12, 5)); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if _, err := model.Predict(0); err == nil {
		t.Error("Expected error for zero steps")
	}
}

func TestSARIMAResidualsAndFitted(t *testing.T) {
	series := seasonalSeries(60, 12, 5)
	model := New(1, 0, 0, 1, 0, 0, 12)

	if model.Residuals() != nil || model.FittedValues() != nil {
		t.Error("Unfitted model should have no residuals or fitted values")
	}

	if err := model.Fit(series); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	residuals := model.Residuals()
	fitted := model.FittedValues()
	if residuals == nil || fitted == nil {
		t.Fatal("Residuals and fitted values should not be nil after fitting")
	}
	if len(residuals) != len(fitted) {
		t.Errorf("Residual and fitted lengths differ: %d vs %d", len(residuals), len(fitted))
	}

	sum := 0.0
	for _, r := range residuals {
		sum += r
	}
	t.Logf("Mean of residuals: %f", sum/float64(len(residuals)))
}

func TestSARIMAMultipleOrders(t *testing.T) {
	n := 96
	period := 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		trend := float64(i) * 0.2
		seasonal := 10 * math.Sin(2*math.Pi*float64(i)/float64(period))
		values[i] = 100 + trend + seasonal + float64(i%5-2)/3
	}
	series := timeseries.New(values)

	tests := []struct {
		name          string
		p, d, q       int
		sp, sd, sq, m int
	}{
		{"SARIMA(1,0,0)(1,0,0)12", 1, 0, 0, 1, 0, 0, 12},
		{"SARIMA(0,0,1)(0,0,1)12", 0, 0, 1, 0, 0, 1, 12},
		{"SARIMA(1,0,1)(1,0,1)12", 1, 0, 1, 1, 0, 1, 12},
		{"SARIMA(1,1,0)(1,1,0)12", 1, 1, 0, 1, 1, 0, 12},
		{"SARIMA(2,1,1)(1,0,1)12", 2, 1, 1, 1, 0, 1, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := New(tt.p, tt.d, tt.q, tt.sp, tt.sd, tt.sq, tt.m)
			if err := model.Fit(series); err != nil {
				t.Logf("Model %s failed: %v", tt.name, err)
				return
			}
			forecasts, err := model.Predict(6)
			if err != nil {
				t.Errorf("Prediction failed: %v", err)
				return
			}
			t.Logf("%s - AICc: %.2f, Forecasts: %v", tt.name, model.AICc, forecasts)
		})
	}
}

func TestSearchFindsSeasonalModel(t *testing.T) {
	series := seasonalSeries(120, 12, 20)

	res := Search(series, DefaultSearchConfig())
	if res.Model == nil {
		t.Fatal("Grid search found no model")
	}
	if res.ModelsEvaluated == 0 {
		t.Fatal("No models evaluated")
	}
	if math.IsInf(res.AICc, 0) || math.IsNaN(res.AICc) {
		t.Errorf("Best AICc not finite: %f", res.AICc)
	}
	if res.AICc != res.Model.AICc {
		t.Errorf("Result AICc %f disagrees with model %f", res.AICc, res.Model.AICc)
	}
	if res.Order.M != 12 {
		t.Errorf("Expected seasonal period 12, got %d", res.Order.M)
	}
	t.Logf("Best order (%d,%d,%d)(%d,%d,%d)[%d], AICc %.2f, %d models evaluated",
		res.Order.P, res.Order.D, res.Order.Q,
		res.Order.SP, res.Order.SD, res.Order.SQ, res.Order.M,
		res.AICc, res.ModelsEvaluated)
}

func TestSearchNilConfig(t *testing.T) {
	res := Search(seasonalSeries(120, 12, 10), nil)
	if res.Model == nil {
		t.Fatal("Grid search with default config found no model")
	}
}

func TestSearchBeatsWorseGrid(t *testing.T) {
	// The best model in a wider grid is never worse than the best of a
	// sub-grid, since the candidate set is a superset.
	series := seasonalSeries(120, 12, 15)

	narrow := Search(series, &SearchConfig{MaxP: 1, MaxQ: 0, SD: 1, M: 12})
	wide := Search(series, &SearchConfig{MaxP: 2, MaxQ: 2, MaxSP: 1, MaxSQ: 1, SD: 1, M: 12})
	if narrow.Model == nil || wide.Model == nil {
		t.Fatal("Grid search found no model")
	}
	if wide.AICc > narrow.AICc+1e-9 {
		t.Errorf("Wider grid AICc %f worse than narrow %f", wide.AICc, narrow.AICc)
	}
}
