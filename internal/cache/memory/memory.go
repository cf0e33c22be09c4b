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

// Package memory provides the fixed-capacity LRU memory cache tier
package memory

import (
	"container/list"
	"sync"
	"time"
)

// Entry represents a cached object as stored in the Memory Cache
type Entry struct {
	Key         string
	Value       []byte
	Created     time.Time
	LastAccess  time.Time
	AccessCount int64
	TTL         time.Duration // zero means the entry never expires
}

// Expired returns true if the Entry has a TTL and it has elapsed
func (e *Entry) Expired() bool {
	return e.TTL > 0 && time.Since(e.Created) > e.TTL
}

// Cache defines a fixed-capacity memory cache with strict
// least-recently-used eviction
type Cache struct {
	mtx     sync.Mutex
	maxSize int
	order   *list.List // front is most-recently-used
	entries map[string]*list.Element

	hits      int64
	misses    int64
	evictions int64
}

// Stats is a snapshot of the memory cache's counters
type Stats struct {
	Size          int     `json:"size"`
	MaxSize       int     `json:"maxsize"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	Evictions     int64   `json:"evictions"`
	TotalRequests int64   `json:"total_requests"`
	HitRate       float64 `json:"hit_rate"`
}

// New returns a memory Cache holding at most maxSize entries
func New(maxSize int) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get retrieves the value for the provided key. A hit refreshes the key's
// recency and access counters; a miss returns (nil, false) and never errors.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	e := el.Value.(*Entry)
	if e.Expired() {
		c.order.Remove(el)
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(el)
	e.LastAccess = time.Now()
	e.AccessCount++
	c.hits++
	return e.Value, true
}

// Set places the value in the cache under the provided key. An existing key
// is replaced in place and refreshed; a new key at capacity evicts the
// least-recently-used entry first.
func (c *Cache) Set(key string, value []byte) {
	c.SetTTL(key, value, 0)
}

// SetTTL is Set with a per-entry expiration duration
func (c *Cache) SetTTL(key string, value []byte, ttl time.Duration) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*Entry)
		e.Value = value
		e.Created = time.Now()
		e.LastAccess = e.Created
		e.TTL = ttl
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}

	now := time.Now()
	c.entries[key] = c.order.PushFront(&Entry{
		Key:        key,
		Value:      value,
		Created:    now,
		LastAccess: now,
		TTL:        ttl,
	})
}

// evictOldest removes the least-recently-used entry. Callers hold the lock.
func (c *Cache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	e := el.Value.(*Entry)
	c.order.Remove(el)
	delete(c.entries, e.Key)
	c.evictions++
}

// Delete removes the key from the cache, returning true if it was present
func (c *Cache) Delete(key string) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(el)
	delete(c.entries, key)
	return true
}

// Contains reports whether the key is present without affecting recency or counters
func (c *Cache) Contains(key string) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Clear removes all entries from the cache
func (c *Cache) Clear() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Len returns the number of entries currently in the cache
func (c *Cache) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache's counters
func (c *Cache) Stats() Stats {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	total := c.hits + c.misses
	s := Stats{
		Size:          c.order.Len(),
		MaxSize:       c.maxSize,
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
		TotalRequests: total,
	}
	if total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}
