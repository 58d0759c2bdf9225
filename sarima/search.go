package sarima

import (
	"math"

	"github.com/sartorproj/gopomp/timeseries"
)

// SearchConfig bounds the order grid search.
type SearchConfig struct {
	MaxP  int // Maximum AR order (default: 2)
	MaxQ  int // Maximum MA order (default: 2)
	MaxSP int // Maximum seasonal AR order (default: 1)
	MaxSQ int // Maximum seasonal MA order (default: 1)
	D     int // Non-seasonal differencing order
	SD    int // Seasonal differencing order
	M     int // Seasonal period (required)
}

// DefaultSearchConfig returns the default grid for monthly data.
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		MaxP:  2,
		MaxQ:  2,
		MaxSP: 1,
		MaxSQ: 1,
		SD:    1,
		M:     12,
	}
}

// SearchResult represents the best model found by the grid search.
type SearchResult struct {
	Model           *Model
	Order           Order
	AICc            float64
	ModelsEvaluated int
}

// Search fits every order combination within the configured grid and keeps
// the model with the lowest corrected AIC. Orders that fail to fit are
// skipped rather than aborting the search.
func Search(series *timeseries.Series, config *SearchConfig) *SearchResult {
	if config == nil {
		config = DefaultSearchConfig()
	}

	best := &SearchResult{AICc: math.Inf(1)}
	for p := 0; p <= config.MaxP; p++ {
		for q := 0; q <= config.MaxQ; q++ {
			for sp := 0; sp <= config.MaxSP; sp++ {
				for sq := 0; sq <= config.MaxSQ; sq++ {
					model := New(p, config.D, q, sp, config.SD, sq, config.M)
					if err := model.Fit(series); err != nil {
						continue
					}
					best.ModelsEvaluated++

					if model.AICc < best.AICc {
						best.Model = model
						best.Order = model.Order
						best.AICc = model.AICc
					}
				}
			}
		}
	}
	return best
}
