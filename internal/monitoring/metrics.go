// Package monitoring holds the service's prometheus collectors.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsCreated counts payment-initiation outcomes by status
	// (success, validation_error, upstream_error, internal_error).
	PaymentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_created_total",
		Help: "Payment initiation requests by outcome.",
	}, []string{"status"})

	// CallbacksProcessed counts settlement callbacks by outcome
	// (processed, already_processed, not_found, notify_failed).
	CallbacksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callbacks_processed_total",
		Help: "Settlement callbacks by outcome.",
	}, []string{"outcome"})

	// GatewayRequestDuration observes fiscal gateway call latency.
	GatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Latency of fiscal gateway HTTP calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
