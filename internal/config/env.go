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

package config

import (
	"os"
	"strconv"
)

const (
	// Environment variables
	evMetricsPort = "RSC_METRICS_PORT"
	evLogLevel    = "RSC_LOG_LEVEL"
	evBatchSize   = "RSC_BATCH_SIZE"
	evConcurrency = "RSC_MAX_CONCURRENT"
)

func (c *RepoScopeConfig) loadEnvVars() {
	// Metrics Port
	if x := os.Getenv(evMetricsPort); x != "" {
		if y, err := strconv.ParseInt(x, 10, 64); err == nil {
			c.Metrics.ListenPort = int(y)
		}
	}

	// LogLevel
	if x := os.Getenv(evLogLevel); x != "" {
		c.Logging.LogLevel = x
	}

	// Walker Batch Size
	if x := os.Getenv(evBatchSize); x != "" {
		if y, err := strconv.ParseInt(x, 10, 64); err == nil {
			c.Walker.BatchSize = int(y)
		}
	}

	// Walker Concurrency
	if x := os.Getenv(evConcurrency); x != "" {
		if y, err := strconv.ParseInt(x, 10, 64); err == nil {
			c.Walker.MaxConcurrent = int(y)
		}
	}
}
