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

// Package agent defines the analyzer agent contract the walker dispatches to
package agent

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Comcast/reposcope/internal/cache/manager"
	"github.com/Comcast/reposcope/internal/scan"
)

// Agent is a per-file-type analyzer invoked by the walker. ProcessFile must
// be side-effect-free with respect to the walker's bookkeeping: the walker,
// not the agent, constructs the FileResult around the returned payload or
// error.
type Agent interface {
	// Name returns the agent's name, used in cache keys and tags
	Name() string
	// Supports reports whether the agent can handle the provided file
	Supports(fi scan.FileInfo) bool
	// ProcessFile analyzes one file and returns its result payload
	ProcessFile(ctx context.Context, fi scan.FileInfo) ([]byte, error)
}

// CachedStats is a snapshot of a Cached agent's local hit/miss counters
type CachedStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Cached decorates an Agent with multi-layer cache lookups so repeated
// analysis runs over an unchanged file short-circuit to a cache hit. Its
// hit/miss counters are local to the agent and independent of the cache
// manager's own statistics, giving two observability signals: per-agent
// efficiency and global cache health.
type Cached struct {
	agent  Agent
	cache  *manager.Manager
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached returns agt decorated with lookups against mgr
func NewCached(agt Agent, mgr *manager.Manager) *Cached {
	return &Cached{agent: agt, cache: mgr}
}

// Name returns the underlying agent's name
func (c *Cached) Name() string {
	return c.agent.Name()
}

// Supports reports whether the underlying agent can handle the provided file
func (c *Cached) Supports(fi scan.FileInfo) bool {
	return c.agent.Supports(fi)
}

// ProcessFile consults the cache under the key "{agent_name}:{rel_path}"
// before delegating to the underlying agent
func (c *Cached) ProcessFile(ctx context.Context, fi scan.FileInfo) ([]byte, error) {
	key := fmt.Sprintf("%s:%s", c.agent.Name(), fi.RelPath)

	if data, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return data, nil
	}
	c.misses.Add(1)

	data, err := c.agent.ProcessFile(ctx, fi)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, data, c.agent.Name(), fi.Type.String())
	return data, nil
}

// Stats returns the agent-local cache counters
func (c *Cached) Stats() CachedStats {
	return CachedStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
