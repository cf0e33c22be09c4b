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

package cache

import (
	"fmt"

	"github.com/Comcast/reposcope/internal/util/metrics"
)

// ObserveCacheMiss returns a cache miss error and increments the miss counter for the cache
func ObserveCacheMiss(cacheKey, cacheName, cacheType string) ([]byte, error) {
	ObserveCacheOperation(cacheName, cacheType, "get", "miss", 0)
	return nil, fmt.Errorf("value for key [%s] not in cache", cacheKey)
}

// CacheError returns an error and increments the error counter for the cache
func CacheError(cacheKey, cacheName, cacheType string, msg string) ([]byte, error) {
	ObserveCacheEvent(cacheName, cacheType, "error", msg)
	return nil, fmt.Errorf(msg, cacheKey)
}

// ObserveCacheOperation increments counters as cache operations occur
func ObserveCacheOperation(cache, cacheType, operation, status string, bytes float64) {
	if metrics.CacheObjectOperations == nil {
		return
	}
	metrics.CacheObjectOperations.WithLabelValues(cache, cacheType, operation, status).Inc()
	if bytes > 0 {
		metrics.CacheByteOperations.WithLabelValues(cache, cacheType, operation, status).Add(bytes)
	}
}

// ObserveCacheEvent increments counters as cache events occur
func ObserveCacheEvent(cache, cacheType, event, reason string) {
	if metrics.CacheEvents == nil {
		return
	}
	metrics.CacheEvents.WithLabelValues(cache, cacheType, event, reason).Inc()
}

// ObserveCacheDel records a cache deletion event
func ObserveCacheDel(cache, cacheType string, count float64) {
	ObserveCacheOperation(cache, cacheType, "del", "none", count)
}

// ObserveCacheSizeChange adjust counters and gauges as the cache size changes
func ObserveCacheSizeChange(cache, cacheType string, byteCount, objectCount int64) {
	if metrics.CacheObjects == nil {
		return
	}
	metrics.CacheObjects.WithLabelValues(cache, cacheType).Set(float64(objectCount))
	metrics.CacheBytes.WithLabelValues(cache, cacheType).Set(float64(byteCount))
}
