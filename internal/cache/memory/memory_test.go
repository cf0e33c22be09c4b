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

package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New(4)

	// it should miss on an absent key without an error
	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}

	c.Set("k1", []byte("v1"))
	data, ok := c.Get("k1")
	if !ok {
		t.Error("expected hit for k1")
	}
	if string(data) != "v1" {
		t.Errorf("wanted \"%s\". got \"%s\"", "v1", data)
	}

	// it should replace in place on re-set
	c.Set("k1", []byte("v2"))
	data, _ = c.Get("k1")
	if string(data) != "v2" {
		t.Errorf("wanted \"%s\". got \"%s\"", "v2", data)
	}
	if c.Len() != 1 {
		t.Errorf("wanted 1 entry. got %d", c.Len())
	}
}

func TestCache_EvictionOrder(t *testing.T) {
	const n = 3
	c := New(n)

	// insert N+1 distinct keys with no intervening gets;
	// the first-inserted key must be evicted
	for i := 0; i <= n; i++ {
		c.Set(fmt.Sprintf("key%d", i), []byte("x"))
	}
	if c.Contains("key0") {
		t.Error("expected key0 to have been evicted")
	}
	for i := 1; i <= n; i++ {
		if !c.Contains(fmt.Sprintf("key%d", i)) {
			t.Errorf("expected key%d to survive", i)
		}
	}
}

func TestCache_EvictionRecencyRefresh(t *testing.T) {
	const n = 3
	c := New(n)

	for i := 0; i < n; i++ {
		c.Set(fmt.Sprintf("key%d", i), []byte("x"))
	}

	// a get on the oldest key refreshes its recency, so the
	// second-oldest is evicted instead
	if _, ok := c.Get("key0"); !ok {
		t.Error("expected hit for key0")
	}
	c.Set("key3", []byte("x"))

	if !c.Contains("key0") {
		t.Error("expected refreshed key0 to survive")
	}
	if c.Contains("key1") {
		t.Error("expected key1 to have been evicted")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New(2)
	c.Set("k", []byte("v"))

	// delete on a present key returns true
	if !c.Delete("k") {
		t.Error("expected delete to return true")
	}
	// delete on an absent key returns false, not an error
	if c.Delete("k") {
		t.Error("expected delete to return false")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(4)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("wanted 0 entries after clear. got %d", c.Len())
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(4)
	c.SetTTL("short", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCache_Stats(t *testing.T) {
	c := New(2)
	c.Set("a", []byte("1"))
	c.Get("a")
	c.Get("a")
	c.Get("nope")
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3")) // evicts

	s := c.Stats()
	if s.Hits != 2 {
		t.Errorf("wanted 2 hits. got %d", s.Hits)
	}
	if s.Misses != 1 {
		t.Errorf("wanted 1 miss. got %d", s.Misses)
	}
	if s.TotalRequests != 3 {
		t.Errorf("wanted 3 total requests. got %d", s.TotalRequests)
	}
	if s.Evictions != 1 {
		t.Errorf("wanted 1 eviction. got %d", s.Evictions)
	}
	if s.Size != 2 || s.MaxSize != 2 {
		t.Errorf("wanted size 2/2. got %d/%d", s.Size, s.MaxSize)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("unexpected hit rate %f", s.HitRate)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(32)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("key%d", j%16)
				c.Set(key, []byte("v"))
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
}
