package resolution

import "github.com/prometheus/client_golang/prometheus"

const (
	tablePartDetails = "part_details"
	tableBOMLines    = "bom_lines"

	resultHit  = "hit"
	resultMiss = "miss"

	outcomeSuccess = "success"
	outcomeFailed  = "failed"
)

var (
	resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordercalc_resolutions_total",
			Help: "Number of resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	resolutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ordercalc_resolution_duration_seconds",
			Help:    "Time taken to resolve a target set into an order list.",
			Buckets: prometheus.DefBuckets,
		},
	)

	subtreeFaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordercalc_subtree_faults_total",
			Help: "Number of recovered per-subtree faults by stage and error code.",
		},
		[]string{"stage", "code"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ordercalc_cache_lookups_total",
			Help: "Resolution cache lookups by table and result.",
		},
		[]string{"table", "result"},
	)

	orderLinesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ordercalc_order_lines_total",
			Help: "Total number of order lines produced.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		resolutionsTotal,
		resolutionDuration,
		subtreeFaultsTotal,
		cacheLookups,
		orderLinesTotal,
	)
}
