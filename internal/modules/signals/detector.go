// Package signals implements the signal-detector family of spec §4.3: given
// an IndicatorFrame and config thresholds, each Detector emits zero or more
// domain.Signal values for its one category.
package signals

import (
	"sort"
	"sync"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/rs/zerolog"
)

// Detector produces Signals for exactly one domain.Category, reading only
// the IndicatorFrame columns and config thresholds that category needs.
type Detector interface {
	Name() string
	Category() domain.Category
	Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal
}

// Registry holds every registered Detector and runs them in the fixed,
// deterministic category order spec §4.3 requires. Grounded on the
// teacher's opportunities/calculators.CalculatorRegistry, trimmed down
// since detection has no enable/disable configuration or progress
// reporting, unlike opportunity identification.
type Registry struct {
	mu        sync.RWMutex
	detectors []Detector
	log       zerolog.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log.With().Str("component", "signals.registry").Logger()}
}

// Register adds a detector.
func (r *Registry) Register(d Detector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors = append(r.detectors, d)
}

// DetectAll runs every registered detector and returns all emitted signals
// ordered by category, then chronologically within category (spec §4.3's
// detect_all contract).
func (r *Registry) DetectAll(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	r.mu.RLock()
	detectors := make([]Detector, len(r.detectors))
	copy(detectors, r.detectors)
	r.mu.RUnlock()

	var out []domain.Signal
	for _, d := range detectors {
		signals := d.Detect(frame, cfg)
		r.log.Debug().Str("detector", d.Name()).Int("signals", len(signals)).Msg("detector ran")
		out = append(out, signals...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := domain.CategoryOrder(out[i].Category), domain.CategoryOrder(out[j].Category)
		if oi != oj {
			return oi < oj
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// NewPopulatedRegistry builds a Registry with every built-in detector
// registered, in the order spec §4.3 lists them.
func NewPopulatedRegistry(log zerolog.Logger) *Registry {
	r := NewRegistry(log)
	r.Register(MACrossDetector{})
	r.Register(MATrendDetector{})
	r.Register(RSIDetector{})
	r.Register(MACDDetector{})
	r.Register(BollingerDetector{})
	r.Register(StochasticDetector{})
	r.Register(VolumeDetector{})
	r.Register(TrendDetector{})
	r.Register(ADXDetector{})
	r.Register(PriceActionDetector{})
	return r
}

func last(col []float64, i int) (float64, bool) {
	if i < 0 || i >= len(col) {
		return 0, false
	}
	v := col[i]
	return v, domain.Defined(v)
}

func ptr(v float64) *float64 { return &v }
