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

package badger

import (
	"testing"
	"time"

	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/util/metrics"
)

func init() {
	metrics.Init()
}

const cacheKey = "cacheKey"

func newCacheConfig(t *testing.T) config.CachingConfig {
	dir := t.TempDir()
	return config.CachingConfig{
		CacheType: "badger",
		Badger:    config.BadgerCacheConfig{Directory: dir, ValueDirectory: dir},
	}
}

func TestBadgerCache_Connect(t *testing.T) {
	cacheConfig := newCacheConfig(t)
	bc := Cache{Config: &cacheConfig}
	// it should connect
	if err := bc.Connect(); err != nil {
		t.Error(err)
	}
	bc.Close()
}

func TestBadgerCache_StoreRetrieve(t *testing.T) {
	cacheConfig := newCacheConfig(t)
	bc := Cache{Config: &cacheConfig}

	if err := bc.Connect(); err != nil {
		t.Error(err)
	}
	defer bc.Close()

	// it should store a value
	if err := bc.Store(cacheKey, []byte("data"), time.Minute); err != nil {
		t.Error(err)
	}

	// it should retrieve a value
	data, err := bc.Retrieve(cacheKey)
	if err != nil {
		t.Error(err)
	}
	if string(data) != "data" {
		t.Errorf("wanted \"%s\". got \"%s\".", "data", data)
	}

	// it should miss on an absent key
	if _, err := bc.Retrieve("absent"); err == nil {
		t.Error("expected error for cache miss")
	}
}

func TestBadgerCache_Expiration(t *testing.T) {
	cacheConfig := newCacheConfig(t)
	bc := Cache{Config: &cacheConfig}

	if err := bc.Connect(); err != nil {
		t.Error(err)
	}
	defer bc.Close()

	// badger enforces TTL natively; an expired entry must miss
	if err := bc.Store(cacheKey, []byte("data"), 50*time.Millisecond); err != nil {
		t.Error(err)
	}
	time.Sleep(100 * time.Millisecond)
	if _, err := bc.Retrieve(cacheKey); err == nil {
		t.Error("expected error for expired key")
	}
}

func TestBadgerCache_Remove(t *testing.T) {
	cacheConfig := newCacheConfig(t)
	bc := Cache{Config: &cacheConfig}

	if err := bc.Connect(); err != nil {
		t.Error(err)
	}
	defer bc.Close()

	bc.Store(cacheKey, []byte("data"), time.Minute)
	bc.Remove(cacheKey)
	if _, err := bc.Retrieve(cacheKey); err == nil {
		t.Error("expected error for removed key")
	}

	bc.Store("k1", []byte("data"), time.Minute)
	bc.Store("k2", []byte("data"), time.Minute)
	bc.BulkRemove([]string{"k1", "k2"})
	if _, err := bc.Retrieve("k1"); err == nil {
		t.Error("expected error for bulk-removed key")
	}
}
