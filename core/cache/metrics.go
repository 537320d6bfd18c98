package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	resolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cxdash_cache_resolve_total",
			Help: "Total number of dataset reads, by the tier that served them",
		},
		[]string{"dataset", "source"}, // source: remote, cache, default
	)

	writeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cxdash_cache_write_total",
			Help: "Total number of two-sink writes, by outcome of the remote sink",
		},
		[]string{"dataset", "result"}, // result: persisted, cache_only
	)

	storeOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cxdash_cache_store_operations_total",
			Help: "Total number of cache store operations",
		},
		[]string{"backend", "operation", "result"}, // result: hit, miss, ok, error
	)
)

// RegisterMetrics registers the cache collectors. Already registered collectors are ignored.
func RegisterMetrics(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{resolveTotal, writeTotal, storeOperationsTotal} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
}

// RecordStoreOperation is called by Store implementations.
func RecordStoreOperation(backend, operation, result string) {
	storeOperationsTotal.WithLabelValues(backend, operation, result).Inc()
}

func recordResolve(dataset string, source Source) {
	resolveTotal.WithLabelValues(dataset, string(source)).Inc()
}

func recordWrite(dataset string, persisted bool) {
	result := "cache_only"
	if persisted {
		result = "persisted"
	}
	writeTotal.WithLabelValues(dataset, result).Inc()
}
