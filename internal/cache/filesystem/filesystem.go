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

// Package filesystem provides a disk cache tier storing one file per cache key
package filesystem

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/Comcast/reposcope/internal/cache"
	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/util/locks"
	"github.com/Comcast/reposcope/internal/util/log"
)

// Cache describes a Filesystem Cache
type Cache struct {
	Name       string
	Config     *config.CachingConfig
	lockPrefix string
	stop       chan struct{}
}

// Configuration returns the Configuration for the Cache object
func (c *Cache) Configuration() *config.CachingConfig {
	return c.Config
}

// Connect creates the cache directory and starts the Expired Entry Reaper goroutine
func (c *Cache) Connect() error {
	log.Info("filesystem cache setup", log.Pairs{"name": c.Name, "cachePath": c.Config.Filesystem.CachePath})
	if err := makeDirectory(c.Config.Filesystem.CachePath); err != nil {
		return err
	}
	c.lockPrefix = c.Name + ".file."
	c.stop = make(chan struct{})
	if c.Config.ReapInterval > 0 {
		go c.reaper()
	}
	return nil
}

// Store places an object in the cache using the specified key and ttl.
// The on-disk layout is an 8-byte big-endian unix expiration timestamp
// followed by the snappy-compressed value.
func (c *Cache) Store(cacheKey string, data []byte, ttl time.Duration) error {

	if cacheKey == "" {
		return fmt.Errorf("cacheKey required")
	}

	cache.ObserveCacheOperation(c.Name, c.Config.CacheType, "set", "none", float64(len(data)))

	dataFile := c.getFileName(cacheKey)
	payload := make([]byte, 8, 8+len(data))
	binary.BigEndian.PutUint64(payload, uint64(time.Now().Add(ttl).Unix()))
	payload = append(payload, snappy.Encode(nil, data)...)

	locks.Acquire(c.lockPrefix + cacheKey)
	defer locks.Release(c.lockPrefix + cacheKey)

	if err := os.WriteFile(dataFile, payload, 0644); err != nil {
		return err
	}
	log.Debug("filesystem cache store", log.Pairs{"key": cacheKey, "dataFile": dataFile})
	return nil
}

// Retrieve looks for an object in cache and returns it (or an error if not found)
func (c *Cache) Retrieve(cacheKey string) ([]byte, error) {

	dataFile := c.getFileName(cacheKey)

	locks.Acquire(c.lockPrefix + cacheKey)

	payload, err := os.ReadFile(dataFile)
	if err != nil {
		log.Debug("filesystem cache miss", log.Pairs{"key": cacheKey, "dataFile": dataFile})
		locks.Release(c.lockPrefix + cacheKey)
		return cache.ObserveCacheMiss(cacheKey, c.Name, c.Config.CacheType)
	}

	if len(payload) < 8 {
		locks.Release(c.lockPrefix + cacheKey)
		return cache.CacheError(cacheKey, c.Name, c.Config.CacheType, "value for key [%s] could not be deserialized from cache")
	}

	expiration := int64(binary.BigEndian.Uint64(payload[:8]))
	if expiration < time.Now().Unix() {
		// Cache Object has been expired but not reaped, go ahead and delete it
		c.remove(cacheKey)
		locks.Release(c.lockPrefix + cacheKey)
		return cache.ObserveCacheMiss(cacheKey, c.Name, c.Config.CacheType)
	}

	data, err := snappy.Decode(nil, payload[8:])
	if err != nil {
		locks.Release(c.lockPrefix + cacheKey)
		return cache.CacheError(cacheKey, c.Name, c.Config.CacheType, "value for key [%s] could not be decompressed from cache")
	}

	log.Debug("filesystem cache retrieve", log.Pairs{"key": cacheKey, "dataFile": dataFile})
	cache.ObserveCacheOperation(c.Name, c.Config.CacheType, "get", "hit", float64(len(data)))
	locks.Release(c.lockPrefix + cacheKey)
	return data, nil
}

// Remove removes an object from the cache
func (c *Cache) Remove(cacheKey string) {
	locks.Acquire(c.lockPrefix + cacheKey)
	c.remove(cacheKey)
	locks.Release(c.lockPrefix + cacheKey)
}

func (c *Cache) remove(cacheKey string) {
	if err := os.Remove(c.getFileName(cacheKey)); err == nil {
		cache.ObserveCacheDel(c.Name, c.Config.CacheType, 0)
	}
}

// BulkRemove removes a list of objects from the cache
func (c *Cache) BulkRemove(cacheKeys []string) {
	for _, cacheKey := range cacheKeys {
		c.Remove(cacheKey)
	}
}

// reaper continually iterates through the cache to find expired elements and removes them
func (c *Cache) reaper() {
	for {
		select {
		case <-c.stop:
			return
		case <-time.After(c.Config.ReapInterval):
			c.ReapOnce()
		}
	}
}

// ReapOnce makes a single iteration through the cache directory to find and
// remove expired elements, returning the keys it removed
func (c *Cache) ReapOnce() []string {

	now := time.Now().Unix()
	removals := make([]string, 0)

	entries, err := os.ReadDir(c.Config.Filesystem.CachePath)
	if err != nil {
		log.Error("filesystem cache reap failure", log.Pairs{"cachePath": c.Config.Filesystem.CachePath, "reason": err.Error()})
		return removals
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".data") {
			continue
		}
		payload, err := os.ReadFile(filepath.Join(c.Config.Filesystem.CachePath, name))
		if err != nil || len(payload) < 8 {
			continue
		}
		if int64(binary.BigEndian.Uint64(payload[:8])) < now {
			removals = append(removals, strings.TrimSuffix(name, ".data"))
		}
	}

	for _, cacheKey := range removals {
		c.Remove(cacheKey)
		cache.ObserveCacheEvent(c.Name, c.Config.CacheType, "eviction", "ttl")
	}

	return removals
}

// Close stops the reaper; the filesystem tier holds no open handles
func (c *Cache) Close() error {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	return nil
}

func (c *Cache) getFileName(cacheKey string) string {
	return filepath.Join(c.Config.Filesystem.CachePath, cacheKey+".data")
}

// makeDirectory creates a directory on the filesystem and returns an error in the event of a failure.
func makeDirectory(path string) error {
	err := os.MkdirAll(path, 0755)
	if err != nil {
		return fmt.Errorf("[%s] directory is not writeable by reposcope: %v", path, err)
	}
	return nil
}
