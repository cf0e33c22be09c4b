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

// Package manager composes the LRU memory tier, a disk tier and the metadata
// index into the multi-layer cache used by analyzer agents. A Manager is
// constructed per analysis session and passed to its consumers explicitly;
// there is no process-wide instance.
package manager

import (
	"context"
	"sync"

	"github.com/Comcast/reposcope/internal/cache"
	"github.com/Comcast/reposcope/internal/cache/index"
	"github.com/Comcast/reposcope/internal/cache/memory"
	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/util/log"
)

// ComputeFunc produces the value to cache on an Analysis miss
type ComputeFunc func(ctx context.Context) ([]byte, error)

// AnalysisOptions adjust the behavior of a single Analysis call
type AnalysisOptions struct {
	// ForceRefresh bypasses the cache lookup and always recomputes
	ForceRefresh bool
	// Tags are stored in the metadata index alongside the cached value
	Tags []string
}

// Manager is a two-tier cache: a fixed-capacity LRU memory tier in front of
// a TTL-enforcing disk tier, with a durable metadata index tracking the disk
// tier's contents
type Manager struct {
	name string
	cfg  *config.CachingConfig
	mem  *memory.Cache
	disk cache.Cache
	idx  *index.Index

	mtx        sync.Mutex
	memoryHits int64
	diskHits   int64
	misses     int64
	sets       int64
}

// Statistics is a snapshot of the Manager's hit/miss accounting
type Statistics struct {
	MemoryHits     int64   `json:"memory_hits"`
	DiskHits       int64   `json:"disk_hits"`
	Misses         int64   `json:"misses"`
	Sets           int64   `json:"sets"`
	Evictions      int64   `json:"evictions"`
	OverallHitRate float64 `json:"overall_hit_rate"`
	MemoryHitRate  float64 `json:"memory_hit_rate"`
	DiskHitRate    float64 `json:"disk_hit_rate"`

	Memory memory.Stats `json:"memory"`

	DiskObjects int64 `json:"disk_objects"`
	DiskBytes   int64 `json:"disk_bytes"`
}

// New returns a Manager composing a fresh memory tier, the provided
// (already-connected) disk tier, and the metadata index named in the config
func New(cfg *config.CachingConfig, disk cache.Cache) (*Manager, error) {
	idx, err := index.Open(cfg.Index, cfg.Name, cfg.CacheType)
	if err != nil {
		return nil, err
	}
	return &Manager{
		name: cfg.Name,
		cfg:  cfg,
		mem:  memory.New(cfg.MaxSizeEntries),
		disk: disk,
		idx:  idx,
	}, nil
}

// Get retrieves the value for the provided key, consulting the memory tier
// first and falling back to the disk tier. A disk hit promotes the value
// into the memory tier. Disk failures degrade to a miss.
func (m *Manager) Get(key string) ([]byte, bool) {

	if data, ok := m.mem.Get(key); ok {
		m.count(&m.memoryHits)
		m.touch(key)
		return data, true
	}

	data, err := m.disk.Retrieve(key)
	if err != nil {
		m.count(&m.misses)
		// a metadata row without a retrievable blob is stale; drop it
		if _, lookupErr := m.idx.Object(key); lookupErr == nil {
			if removeErr := m.idx.RemoveObject(key); removeErr != nil {
				log.Warn("cache index stale row removal failed", log.Pairs{"cacheName": m.name, "key": key, "detail": removeErr.Error()})
			}
		}
		return nil, false
	}

	// promotion: repeated access converges to memory-tier speed
	m.mem.Set(key, data)
	m.count(&m.diskHits)
	m.touch(key)
	return data, true
}

// Set writes the value to both tiers unconditionally and upserts its
// metadata row. A disk or index failure is logged and the memory tier
// write stands, so the cache never becomes a hard dependency.
func (m *Manager) Set(key string, value []byte, tags ...string) {
	m.mem.Set(key, value)
	m.count(&m.sets)

	if err := m.disk.Store(key, value, m.cfg.TTL); err != nil {
		log.Warn("disk cache store failed", log.Pairs{"cacheName": m.name, "key": key, "detail": err.Error()})
		return
	}
	if err := m.idx.UpdateObject(key, int64(len(value)), tags); err != nil {
		log.Warn("cache index update failed", log.Pairs{"cacheName": m.name, "key": key, "detail": err.Error()})
	}
}

// Delete removes the key from both tiers and the metadata index, returning
// true if the key was present in either tier
func (m *Manager) Delete(key string) bool {
	present := m.mem.Delete(key)
	if _, err := m.idx.Object(key); err == nil {
		present = true
	}
	m.disk.Remove(key)
	if err := m.idx.RemoveObject(key); err != nil {
		log.Warn("cache index removal failed", log.Pairs{"cacheName": m.name, "key": key, "detail": err.Error()})
	}
	return present
}

// ClearExpired sweeps the disk tier for expired entries, removes their
// metadata rows and memory-tier copies, and returns the number removed
func (m *Manager) ClearExpired() int {
	reaper, ok := m.disk.(cache.Reaper)
	if !ok {
		return 0
	}
	keys := reaper.ReapOnce()
	for _, key := range keys {
		m.mem.Delete(key)
	}
	if len(keys) > 0 {
		if err := m.idx.RemoveObjects(keys); err != nil {
			log.Warn("cache index bulk removal failed", log.Pairs{"cacheName": m.name, "detail": err.Error()})
		}
	}
	return len(keys)
}

// Analysis is the memoize-on-miss entry point for calling code. Unless
// opts.ForceRefresh is set, a cache hit short-circuits the compute
// function. Concurrent callers with the same key during a cache-cold
// window may both compute; last write wins.
func (m *Manager) Analysis(ctx context.Context, key string, compute ComputeFunc, opts AnalysisOptions) ([]byte, error) {

	if !opts.ForceRefresh {
		if data, ok := m.Get(key); ok {
			return data, nil
		}
	}

	data, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	m.Set(key, data, opts.Tags...)
	return data, nil
}

// Statistics returns a snapshot of the Manager's counters. These are the
// primary observability surface for tuning cache size and TTL.
func (m *Manager) Statistics() Statistics {
	m.mtx.Lock()
	s := Statistics{
		MemoryHits: m.memoryHits,
		DiskHits:   m.diskHits,
		Misses:     m.misses,
		Sets:       m.sets,
	}
	m.mtx.Unlock()

	s.Memory = m.mem.Stats()
	s.Evictions = s.Memory.Evictions

	total := s.MemoryHits + s.DiskHits + s.Misses
	if total > 0 {
		s.OverallHitRate = float64(s.MemoryHits+s.DiskHits) / float64(total)
		s.MemoryHitRate = float64(s.MemoryHits) / float64(total)
		s.DiskHitRate = float64(s.DiskHits) / float64(total)
	}

	if n, err := m.idx.Count(); err == nil {
		s.DiskObjects = n
	}
	if n, err := m.idx.TotalSize(); err == nil {
		s.DiskBytes = n
	}

	return s
}

// Memory exposes the memory tier for direct inspection
func (m *Manager) Memory() *memory.Cache {
	return m.mem
}

// Index exposes the metadata index for direct inspection
func (m *Manager) Index() *index.Index {
	return m.idx
}

// Close closes the metadata index; the disk tier is owned and closed by its creator
func (m *Manager) Close() error {
	return m.idx.Close()
}

func (m *Manager) count(counter *int64) {
	m.mtx.Lock()
	*counter++
	m.mtx.Unlock()
}

// touch updates the metadata access row, best-effort
func (m *Manager) touch(key string) {
	if err := m.idx.UpdateObjectAccess(key); err != nil {
		log.Debug("cache index access update failed", log.Pairs{"cacheName": m.name, "key": key, "detail": err.Error()})
	}
}
