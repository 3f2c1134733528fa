package optimizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// calculationDuration tracks the time taken for pricing calculations.
	calculationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_calculation_duration_seconds",
		Help:    "Time taken for pricing calculation by type",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"type"}) // type: quote, rank, optimal, compare

	// basketSize tracks the distribution of basket sizes.
	basketSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_basket_items_count",
		Help:    "Number of lines in pricing requests",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// storeCount tracks the number of stores considered.
	storeCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_stores_considered_count",
		Help:    "Number of stores considered in a calculation",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 500},
	})

	// unknownTransport counts quotes and groups priced without a distance.
	unknownTransport = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_unknown_transport_total",
		Help: "Store quotes or groups whose transport cost could not be determined, by distance status",
	}, []string{"status"})

	// unallocatableItems tracks products no store could supply.
	unallocatableItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_unallocatable_items_count",
		Help:    "Number of unallocatable products per optimal allocation",
		Buckets: []float64{0, 1, 2, 5, 10, 20},
	})

	// storesVisited tracks how many stores an optimal split needs.
	storesVisited = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_optimal_stores_visited_count",
		Help:    "Number of stores visited by an optimal allocation",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	})
)

// MetricsRecorder provides methods to record optimizer metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordCalculationDuration records the duration of a pricing calculation.
func (m *MetricsRecorder) RecordCalculationDuration(calcType string, duration time.Duration) {
	calculationDuration.WithLabelValues(calcType).Observe(duration.Seconds())
}

// RecordBasketSize records the size of a basket.
func (m *MetricsRecorder) RecordBasketSize(size int) {
	basketSize.Observe(float64(size))
}

// RecordStoreCount records the number of stores considered.
func (m *MetricsRecorder) RecordStoreCount(count int) {
	storeCount.Observe(float64(count))
}

// RecordUnknownTransport records a transport charge with no usable distance.
func (m *MetricsRecorder) RecordUnknownTransport(status DistanceStatus) {
	unknownTransport.WithLabelValues(string(status)).Inc()
}

// RecordAllocation records the shape of an optimal allocation.
func (m *MetricsRecorder) RecordAllocation(groups, unallocatable int) {
	storesVisited.Observe(float64(groups))
	unallocatableItems.Observe(float64(unallocatable))
}
