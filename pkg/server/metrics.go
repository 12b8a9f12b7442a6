package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terncalc_sessions_active",
		Help: "Calculator sessions currently held by the HTTP host",
	})

	sessionsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terncalc_sessions_evicted_total",
		Help: "Sessions dropped after exceeding the idle TTL",
	})

	requestsThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terncalc_requests_throttled_total",
		Help: "Requests refused by the rate limiter",
	})
)
