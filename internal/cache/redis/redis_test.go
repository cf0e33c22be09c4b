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

package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis"

	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/util/metrics"
)

func init() {
	metrics.Init()
}

const cacheKey = "cacheKey"

func setupRedisCache(t *testing.T) (*Cache, func()) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("could not start miniredis: %v", err)
	}
	cacheConfig := &config.CachingConfig{
		CacheType: "redis",
		Redis:     config.RedisCacheConfig{Protocol: "tcp", Endpoint: s.Addr()},
	}
	rc := &Cache{Config: cacheConfig}
	if err := rc.Connect(); err != nil {
		s.Close()
		t.Fatalf("could not connect to miniredis: %v", err)
	}
	return rc, func() {
		rc.Close()
		s.Close()
	}
}

func TestRedisCache_StoreRetrieve(t *testing.T) {
	rc, done := setupRedisCache(t)
	defer done()

	// it should store a value
	err := rc.Store(cacheKey, []byte("data"), 60*time.Second)
	if err != nil {
		t.Error(err)
	}

	// it should retrieve a value
	data, err := rc.Retrieve(cacheKey)
	if err != nil {
		t.Error(err)
	}
	if string(data) != "data" {
		t.Errorf("wanted \"%s\". got \"%s\".", "data", data)
	}

	// it should miss on an absent key
	if _, err := rc.Retrieve("absent"); err == nil {
		t.Error("expected error for cache miss")
	}
}

func TestRedisCache_Remove(t *testing.T) {
	rc, done := setupRedisCache(t)
	defer done()

	rc.Store(cacheKey, []byte("data"), 60*time.Second)
	rc.Remove(cacheKey)
	if _, err := rc.Retrieve(cacheKey); err == nil {
		t.Error("expected error for removed key")
	}

	rc.Store("k1", []byte("data"), 60*time.Second)
	rc.Store("k2", []byte("data"), 60*time.Second)
	rc.BulkRemove([]string{"k1", "k2"})
	if _, err := rc.Retrieve("k2"); err == nil {
		t.Error("expected error for bulk-removed key")
	}
}
