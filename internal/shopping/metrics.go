package shopping

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchDuration tracks how long a full price search takes.
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopping_search_duration_seconds",
		Help:    "Time taken for a full ingredient price search",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	})

	// ingredientCount tracks the distribution of request sizes.
	ingredientCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopping_search_ingredients_count",
		Help:    "Number of ingredients per price search",
		Buckets: []float64{1, 2, 5, 10, 20, 50},
	})

	// productsFound tracks how many products a search returns.
	productsFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopping_search_products_found",
		Help:    "Number of selected products per price search",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	})

	// unavailableIngredients counts ingredients no platform could supply.
	unavailableIngredients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopping_search_unavailable_ingredients_total",
		Help: "Total ingredients that returned no products",
	})

	// skippedIngredients counts pantry staples skipped before searching.
	skippedIngredients = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopping_search_skipped_ingredients_total",
		Help: "Total pantry-staple ingredients skipped",
	})

	// holisticFallbacks counts whole-request degradations to the LLM.
	holisticFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopping_search_holistic_fallbacks_total",
		Help: "Total searches that degraded to the holistic LLM fallback",
	})
)

// MetricsRecorder records pipeline metrics. A value type so a zero recorder
// is usable in tests.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordSearch records the outcome of one full price search.
func (m *MetricsRecorder) RecordSearch(ingredients, found, unavailable, skipped int, elapsed time.Duration) {
	searchDuration.Observe(elapsed.Seconds())
	ingredientCount.Observe(float64(ingredients))
	productsFound.Observe(float64(found))
	unavailableIngredients.Add(float64(unavailable))
	skippedIngredients.Add(float64(skipped))
}

// RecordHolisticFallback records a whole-request degradation.
func (m *MetricsRecorder) RecordHolisticFallback() {
	holisticFallbacks.Inc()
}
