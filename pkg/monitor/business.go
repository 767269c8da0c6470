package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds the bridge-level metrics
type BusinessMetrics struct {
	RPCCallsTotal        *prometheus.CounterVec
	RPCCallDuration      *prometheus.HistogramVec
	GasFallbacksTotal    *prometheus.CounterVec
	FeeDataUnavailable   *prometheus.CounterVec
	BroadcastTotal       *prometheus.CounterVec
	HistoryRecordsMapped *prometheus.CounterVec
	HistoryCacheCalls    *prometheus.CounterVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics registers the bridge metrics
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		RPCCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_rpc_calls_total",
			Help: "Total number of node RPC calls",
		}, []string{"method", "status"}),
		RPCCallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bridge_rpc_call_duration_seconds",
			Help:    "Node RPC call latency distributions",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		GasFallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_gas_fallbacks_total",
			Help: "Gas estimations that fell back to the 21000 default",
		}, []string{"currency"}),
		FeeDataUnavailable: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_fee_data_unavailable_total",
			Help: "Fee-market queries that returned no usable data",
		}, []string{"currency"}),
		BroadcastTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_broadcast_total",
			Help: "Total number of broadcast attempts",
		}, []string{"currency", "status"}),
		HistoryRecordsMapped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_history_records_mapped_total",
			Help: "Explorer records mapped to operations, by outcome",
		}, []string{"outcome"}),
		HistoryCacheCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_history_cache_calls_total",
			Help: "History lookups, by cache outcome",
		}, []string{"outcome"}),
	}
}
