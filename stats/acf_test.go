package stats

import (
	"math"
	"testing"

	"github.com/sartorproj/gopomp/timeseries"
)

func TestACFLagZero(t *testing.T) {
	series := timeseries.New([]float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3})
	acf := ACF(series, 5)
	if acf == nil {
		t.Fatal("ACF returned nil")
	}
	if len(acf) != 6 {
		t.Fatalf("Expected 6 lags, got %d", len(acf))
	}
	if math.Abs(acf[0]-1) > 1e-12 {
		t.Errorf("ACF at lag 0 = %f, want 1", acf[0])
	}
	for k, v := range acf {
		if v < -1-1e-9 || v > 1+1e-9 {
			t.Errorf("ACF at lag %d out of [-1,1]: %f", k, v)
		}
	}
}

func TestACFDetectsSeasonality(t *testing.T) {
	n := 96
	period := 12
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 50 + 10*math.Sin(2*math.Pi*float64(i)/float64(period))
	}
	series := timeseries.New(values)

	acf := ACF(series, 24)
	if acf == nil {
		t.Fatal("ACF returned nil")
	}
	if acf[12] < 0.5 {
		t.Errorf("Expected strong annual autocorrelation, got %f at lag 12", acf[12])
	}
	if acf[6] > 0 {
		t.Errorf("Expected negative half-period autocorrelation, got %f at lag 6", acf[6])
	}
}

func TestACFEdgeCases(t *testing.T) {
	if ACF(timeseries.New([]float64{5, 5, 5, 5}), 2) != nil {
		t.Error("Constant series should give nil ACF")
	}

	// maxLag beyond the series length clamps.
	acf := ACF(timeseries.New([]float64{1, 2, 3}), 10)
	if len(acf) != 3 {
		t.Errorf("Expected clamped length 3, got %d", len(acf))
	}
}

func TestACFWithConfidence(t *testing.T) {
	series := timeseries.New([]float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3})
	res := ACFWithConfidence(series, 8)
	if res == nil {
		t.Fatal("ACFWithConfidence returned nil")
	}
	if len(res.Lags) != len(res.Values) {
		t.Errorf("Lags and values lengths differ: %d vs %d", len(res.Lags), len(res.Values))
	}
	want := 1.96 / math.Sqrt(16)
	if math.Abs(res.ConfBounds-want) > 1e-12 {
		t.Errorf("Confidence bound %f, want %f", res.ConfBounds, want)
	}
}

func TestSignificantLags(t *testing.T) {
	values := []float64{1, 0.8, 0.1, -0.6, 0.05}
	sig := SignificantLags(values, 0.5)
	if len(sig) != 2 || sig[0] != 1 || sig[1] != 3 {
		t.Errorf("Expected lags [1 3], got %v", sig)
	}
	if SignificantLags(values, 2) != nil {
		t.Error("Expected no significant lags with a huge bound")
	}
}
