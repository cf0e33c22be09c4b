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

// Package cache defines the contract for the disk-tier caching fabrics
package cache

import (
	"time"

	"github.com/Comcast/reposcope/internal/config"
)

// Cache is the interface for the supported disk-tier caching fabrics
// When making new cache types, Retrieve() must return an error on cache miss
type Cache interface {
	Connect() error
	Store(cacheKey string, data []byte, ttl time.Duration) error
	Retrieve(cacheKey string) ([]byte, error)
	Remove(cacheKey string)
	BulkRemove(cacheKeys []string)
	Close() error
	Configuration() *config.CachingConfig
}

// Reaper is implemented by caches that enforce TTL expiry themselves and can
// report which keys a sweep removed. Caches with server-side expiry (redis)
// do not implement it.
type Reaper interface {
	ReapOnce() []string
}
