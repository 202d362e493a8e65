// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/IMTENANUR/Research-Toolkit/pkg/types"
)

var (
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_toolkit_searches_total",
			Help: "Search requests by outcome (ok, error, busy).",
		},
		[]string{"status"},
	)

	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "research_toolkit_search_duration_seconds",
			Help:    "End-to-end duration of completed searches.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	resultSetSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "research_toolkit_result_set_size",
			Help: "Number of articles in the current result set.",
		},
	)

	wordFrequency = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "research_toolkit_word_frequency",
			Help: "Frequency of each top word in the current result set.",
		},
		[]string{"word"},
	)
)

// updateWordMetrics replaces the word-frequency gauges with the
// current table. Reset first so words from the previous search drop out.
func updateWordMetrics(words types.FrequencyTable) {
	wordFrequency.Reset()
	for _, e := range words {
		wordFrequency.WithLabelValues(e.Term).Set(float64(e.Count))
	}
}
