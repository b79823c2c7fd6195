package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SearchTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bairros_search_total",
		Help: "Total number of search requests",
	})
	SearchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bairros_search_duration_ms",
		Help:    "Search duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100},
	})
	SearchMatches = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bairros_search_matches",
		Help:    "Number of neighborhoods matched per search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
	})
	SearchNotReadyTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bairros_search_not_ready_total",
		Help: "Searches rejected because attributes were not loaded",
	})
	SearchCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bairros_search_cache_total",
		Help: "Redis search cache lookups by result",
	}, []string{"result"})
	HoverTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bairros_hover_total",
		Help: "Hover inspections by resulting state",
	}, []string{"result"})
	LookupMissTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bairros_lookup_miss_total",
		Help: "Polygon features whose name has no attribute record",
	})
	AttrsLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bairros_attrs_load_total",
		Help: "Attribute table loads by status",
	}, []string{"status"})
	HitCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bairros_hit_cache_total",
		Help: "Hit test cache lookups by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(SearchDurationMs)
	prometheus.MustRegister(SearchMatches)
	prometheus.MustRegister(SearchNotReadyTotal)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(HoverTotal)
	prometheus.MustRegister(LookupMissTotal)
	prometheus.MustRegister(AttrsLoadTotal)
	prometheus.MustRegister(HitCacheTotal)
}

// 文档注释：返回 Prometheus 指标处理器，在主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
