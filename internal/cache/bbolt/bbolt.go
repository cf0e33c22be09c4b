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

// Package bbolt provides the default disk cache tier, backed by a BBolt database
package bbolt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang/snappy"
	bbolt "go.etcd.io/bbolt"

	"github.com/Comcast/reposcope/internal/cache"
	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/util/log"
)

// Cache describes a BBolt Cache
type Cache struct {
	Name   string
	Config *config.CachingConfig
	dbh    *bbolt.DB
	stop   chan struct{}
}

// Configuration returns the Configuration for the Cache object
func (c *Cache) Configuration() *config.CachingConfig {
	return c.Config
}

// Connect opens the configured BBolt database and starts the Expired Entry Reaper goroutine
func (c *Cache) Connect() error {
	log.Info("bbolt cache setup", log.Pairs{"cacheFile": c.Config.BBolt.Filename})

	var err error
	c.dbh, err = bbolt.Open(c.Config.BBolt.Filename, 0644, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return err
	}

	err = c.dbh.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(c.Config.BBolt.Bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.stop = make(chan struct{})
	if c.Config.ReapInterval > 0 {
		go c.reaper()
	}
	return nil
}

// Store places an object in the cache using the specified key and ttl
func (c *Cache) Store(cacheKey string, data []byte, ttl time.Duration) error {

	expKey, dataKey := c.getKeyNames(cacheKey)
	expiration := []byte(strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
	compressed := snappy.Encode(nil, data)

	err := c.dbh.Update(func(tx *bbolt.Tx) error {

		b := tx.Bucket([]byte(c.Config.BBolt.Bucket))

		err := b.Put([]byte(dataKey), compressed)
		if err != nil {
			return err
		}

		return b.Put([]byte(expKey), expiration)
	})
	if err != nil {
		return err
	}

	cache.ObserveCacheOperation(c.Name, c.Config.CacheType, "set", "none", float64(len(data)))
	log.Debug("bbolt cache store", log.Pairs{"key": dataKey, "expKey": expKey})

	return nil
}

// Retrieve looks for an object in cache and returns it (or an error if not found)
func (c *Cache) Retrieve(cacheKey string) ([]byte, error) {

	log.Debug("bbolt cache retrieve", log.Pairs{"key": cacheKey})

	_, dataKey := c.getKeyNames(cacheKey)

	c.checkExpiration(cacheKey)

	data, err := c.retrieve(dataKey)
	if err != nil {
		return cache.ObserveCacheMiss(cacheKey, c.Name, c.Config.CacheType)
	}

	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return cache.CacheError(cacheKey, c.Name, c.Config.CacheType, "value for key [%s] could not be decompressed from cache")
	}

	cache.ObserveCacheOperation(c.Name, c.Config.CacheType, "get", "hit", float64(len(decompressed)))
	return decompressed, nil
}

// retrieve looks for an object in cache and returns it (or an error if not found)
func (c *Cache) retrieve(cacheKey string) ([]byte, error) {

	var value []byte

	err := c.dbh.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(c.Config.BBolt.Bucket))
		v := b.Get([]byte(cacheKey))
		if v == nil {
			log.Debug("bbolt cache miss", log.Pairs{"key": cacheKey})
			return fmt.Errorf("value for key [%s] not in cache", cacheKey)
		}
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// checkExpiration removes the cacheKey if it is expired
func (c *Cache) checkExpiration(cacheKey string) {

	expKey, _ := c.getKeyNames(cacheKey)

	content, err := c.retrieve(expKey)
	if err == nil {
		// We found this key, let's see if it's expired
		expiration, err := strconv.ParseInt(string(content), 10, 64)
		if err != nil || expiration < time.Now().Unix() {
			c.Remove(cacheKey)
		}
	}
}

// Remove removes an object from the cache, if present
func (c *Cache) Remove(cacheKey string) {

	log.Debug("bbolt cache remove", log.Pairs{"key": cacheKey})

	expKey, dataKey := c.getKeyNames(cacheKey)

	c.dbh.Update(func(tx *bbolt.Tx) error {

		b := tx.Bucket([]byte(c.Config.BBolt.Bucket))

		if err := b.Delete([]byte(expKey)); err != nil {
			log.Error("bbolt cache key delete failure", log.Pairs{"key": expKey, "reason": err.Error()})
			return err
		}
		if err := b.Delete([]byte(dataKey)); err != nil {
			log.Error("bbolt cache key delete failure", log.Pairs{"key": dataKey, "reason": err.Error()})
			return err
		}
		return nil
	})

	cache.ObserveCacheDel(c.Name, c.Config.CacheType, 0)
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

// ReapOnce makes a single iteration through the cache to find and remove
// expired elements, returning the keys it removed
func (c *Cache) ReapOnce() []string {

	now := time.Now().Unix()
	expiredKeys := make([]string, 0)

	// Iterate through the cache to find any expiration keys and check their value
	c.dbh.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(c.Config.BBolt.Bucket))
		cursor := b.Cursor()

		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {

			expKey := string(k)

			if strings.HasSuffix(expKey, ".expiration") {

				expiration, err := strconv.ParseInt(string(v), 10, 64)
				if err != nil || expiration < now {
					expiredKeys = append(expiredKeys, strings.TrimSuffix(expKey, ".expiration"))
				}
			}
		}

		return nil
	})

	for _, cacheKey := range expiredKeys {
		c.Remove(cacheKey)
		cache.ObserveCacheEvent(c.Name, c.Config.CacheType, "eviction", "ttl")
	}

	return expiredKeys
}

// Close stops the reaper and closes the Cache
func (c *Cache) Close() error {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	return c.dbh.Close()
}

func (c *Cache) getKeyNames(cacheKey string) (string, string) {
	return cacheKey + ".expiration", cacheKey + ".data"
}
