/**
* Copyright 2018 Comcast Cable Communications Management, LLC
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You may obtain a copy of the License at
* http://www.apache.org/licenses/LICENSE-2.0
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
 */

// Package metrics instruments RepoScope's cache and walker operations
package metrics

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/util/log"
)

const (
	metricNamespace = "reposcope"
	cacheSubsystem  = "cache"
	walkerSubsystem = "walker"
)

// Default histogram buckets used by reposcope
var (
	defaultBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 10, 20}
)

// CacheObjectOperations is a Counter of operations (in # of objects) performed on a RepoScope cache
var CacheObjectOperations *prometheus.CounterVec

// CacheByteOperations is a Counter of operations (in # of bytes) performed on a RepoScope cache
var CacheByteOperations *prometheus.CounterVec

// CacheEvents is a Counter of events performed on a RepoScope cache
var CacheEvents *prometheus.CounterVec

// CacheObjects is a Gauge representing the number of objects in a RepoScope cache
var CacheObjects *prometheus.GaugeVec

// CacheBytes is a Gauge representing the number of bytes in a RepoScope cache
var CacheBytes *prometheus.GaugeVec

// WalkerFilesDiscovered is a Counter of files discovered during repository traversal
var WalkerFilesDiscovered *prometheus.CounterVec

// WalkerFilesProcessed is a Counter of files processed by analyzer agents
var WalkerFilesProcessed *prometheus.CounterVec

// WalkerBatchDuration is a Histogram of time required in seconds to process one batch of files
var WalkerBatchDuration *prometheus.HistogramVec

var initOnce sync.Once

// Init initializes the instrumented metrics and starts the listener endpoint
func Init() {
	initOnce.Do(initMetrics)
}

func initMetrics() {

	CacheObjectOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "operation_objects_total",
			Help:      "Count (in # of objects) of operations performed on a RepoScope cache.",
		},
		[]string{"cache_name", "cache_type", "operation", "status"},
	)

	CacheByteOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "operation_bytes_total",
			Help:      "Count (in bytes) of operations performed on a RepoScope cache.",
		},
		[]string{"cache_name", "cache_type", "operation", "status"},
	)

	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "events_total",
			Help:      "Count of events performed on a RepoScope cache.",
		},
		[]string{"cache_name", "cache_type", "event", "reason"},
	)

	CacheObjects = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "usage_objects",
			Help:      "Number of objects in a RepoScope cache.",
		},
		[]string{"cache_name", "cache_type"},
	)

	CacheBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: cacheSubsystem,
			Name:      "usage_bytes",
			Help:      "Number of bytes in a RepoScope cache.",
		},
		[]string{"cache_name", "cache_type"},
	)

	WalkerFilesDiscovered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: walkerSubsystem,
			Name:      "files_discovered_total",
			Help:      "Count of files discovered during repository traversal.",
		},
		[]string{"file_type"},
	)

	WalkerFilesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: walkerSubsystem,
			Name:      "files_processed_total",
			Help:      "Count of files processed by analyzer agents.",
		},
		[]string{"file_type", "status"},
	)

	WalkerBatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Subsystem: walkerSubsystem,
			Name:      "batch_duration_seconds",
			Help:      "Histogram of time required in seconds to process one batch of files.",
			Buckets:   defaultBuckets,
		},
		[]string{"file_type"},
	)

	// Register Metrics
	prometheus.MustRegister(CacheObjectOperations)
	prometheus.MustRegister(CacheByteOperations)
	prometheus.MustRegister(CacheEvents)
	prometheus.MustRegister(CacheObjects)
	prometheus.MustRegister(CacheBytes)
	prometheus.MustRegister(WalkerFilesDiscovered)
	prometheus.MustRegister(WalkerFilesProcessed)
	prometheus.MustRegister(WalkerBatchDuration)

	// Turn up the Metrics HTTP Server
	if config.Metrics != nil && config.Metrics.ListenPort > 0 {
		go func() {

			log.Info("metrics http endpoint starting", log.Pairs{"address": config.Metrics.ListenAddress, "port": fmt.Sprintf("%d", config.Metrics.ListenPort)})

			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(fmt.Sprintf("%s:%d", config.Metrics.ListenAddress, config.Metrics.ListenPort), nil); err != nil {
				log.Error("unable to start metrics http server", log.Pairs{"detail": err.Error()})
				os.Exit(1)
			}
		}()
	}
}
