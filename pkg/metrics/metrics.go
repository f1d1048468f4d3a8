// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package metrics defines Prometheus metrics for the sample service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "relaypick"

var (
	// SampleRequestsTotal counts sample requests by outcome.
	SampleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_requests_total",
			Help:      "Total number of sample requests by status",
		},
		[]string{"status"},
	)

	// SampleDuration measures end-to-end sample request handling time.
	SampleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sample_duration_seconds",
			Help:      "Sample request handling duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		},
	)

	// RelaysLoaded tracks the number of relays in the loaded document.
	RelaysLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "relays_loaded",
			Help:      "Number of relays in the loaded document",
		},
	)

	// SampledHostnamesTotal counts hostnames returned across all requests.
	SampledHostnamesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sampled_hostnames_total",
			Help:      "Total number of hostnames returned across all sample requests",
		},
	)
)
