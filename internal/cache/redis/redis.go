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

// Package redis provides a remote cache tier; expiration is enforced
// server-side so this tier has no reaper
package redis

import (
	"time"

	"github.com/go-redis/redis"

	"github.com/Comcast/reposcope/internal/cache"
	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/util/log"
)

// Cache represents a redis cache object that conforms to the Cache interface
type Cache struct {
	Name   string
	Config *config.CachingConfig
	client *redis.Client
}

// Configuration returns the Configuration for the Cache object
func (c *Cache) Configuration() *config.CachingConfig {
	return c.Config
}

// Connect connects to the configured Redis endpoint
func (c *Cache) Connect() error {
	log.Info("connecting to redis", log.Pairs{"protocol": c.Config.Redis.Protocol, "endpoint": c.Config.Redis.Endpoint})
	opts := &redis.Options{
		Network: c.Config.Redis.Protocol,
		Addr:    c.Config.Redis.Endpoint,
	}
	if c.Config.Redis.Password != "" {
		opts.Password = c.Config.Redis.Password
	}
	c.client = redis.NewClient(opts)
	return c.client.Ping().Err()
}

// Store places the data into the Redis Cache using the provided Key and TTL
func (c *Cache) Store(cacheKey string, data []byte, ttl time.Duration) error {
	cache.ObserveCacheOperation(c.Name, c.Config.CacheType, "set", "none", float64(len(data)))
	log.Debug("redis cache store", log.Pairs{"key": cacheKey})
	return c.client.Set(cacheKey, data, ttl).Err()
}

// Retrieve gets data from the Redis Cache using the provided Key
func (c *Cache) Retrieve(cacheKey string) ([]byte, error) {
	data, err := c.client.Get(cacheKey).Bytes()
	if err != nil {
		log.Debug("redis cache miss", log.Pairs{"key": cacheKey})
		return cache.ObserveCacheMiss(cacheKey, c.Name, c.Config.CacheType)
	}
	log.Debug("redis cache retrieve", log.Pairs{"key": cacheKey})
	cache.ObserveCacheOperation(c.Name, c.Config.CacheType, "get", "hit", float64(len(data)))
	return data, nil
}

// Remove removes an object from the cache, if present
func (c *Cache) Remove(cacheKey string) {
	log.Debug("redis cache remove", log.Pairs{"key": cacheKey})
	c.client.Del(cacheKey)
	cache.ObserveCacheDel(c.Name, c.Config.CacheType, 0)
}

// BulkRemove removes a list of objects from the cache
func (c *Cache) BulkRemove(cacheKeys []string) {
	log.Debug("redis cache bulk remove", log.Pairs{})
	c.client.Del(cacheKeys...)
	cache.ObserveCacheDel(c.Name, c.Config.CacheType, float64(len(cacheKeys)))
}

// Close disconnects from the Redis Cache
func (c *Cache) Close() error {
	log.Info("closing redis connection", log.Pairs{})
	return c.client.Close()
}
