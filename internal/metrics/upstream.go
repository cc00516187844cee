// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream names used as label values.
const (
	UpstreamPubMed = "pubmed"
	UpstreamLLM    = "llm"
)

var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of calls to PubMed and the language model",
		},
		[]string{"upstream", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"upstream"},
	)

	ArticlesReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "articles_returned",
			Help:      "Articles returned per answered question",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

func init() {
	prometheus.MustRegister(UpstreamRequestsTotal, UpstreamRequestDuration, ArticlesReturned)
}

// ObserveUpstream records one upstream call that started at start.
func ObserveUpstream(upstream string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(upstream, status).Inc()
	UpstreamRequestDuration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
}
