// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package metrics exposes Prometheus instrumentation for the HTTP surface.

It provides a request counter, a latency histogram and an in-flight gauge,
plus the middleware that feeds them and the /metrics handler that serves them.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-chi/chi/v5"
)

// Metrics bundles the HTTP collectors behind a private registry so tests can
// create instances without double-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// New creates the collector set and registers it on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency distribution.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being served.",
			},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.requestsInFlight)
	return m
}

// Instrument records counters and latency for every request.
//
// The route label uses the chi route pattern ("/api/v1/users/{userId}") rather
// than the raw path to keep label cardinality bounded.
func (m *Metrics) Instrument() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			m.requestsInFlight.Inc()
			defer m.requestsInFlight.Dec()

			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
			next.ServeHTTP(recorder, request)

			route := "unmatched"
			if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			m.requestsTotal.WithLabelValues(
				request.Method, route, strconv.Itoa(recorder.status),
			).Inc()
			m.requestDuration.WithLabelValues(
				request.Method, route,
			).Observe(time.Since(startTime).Seconds())
		})
	}
}

// Handler serves the Prometheus exposition endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}
