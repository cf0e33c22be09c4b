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

// Package locks provides Named Locks functionality for managing
// mutexes by string name (e.g., cache keys)
package locks

import "sync"

type namedLock struct {
	sync.Mutex
	queueSize int
}

var locks = make(map[string]*namedLock)
var mapLock = sync.Mutex{}

// Acquire locks the named lock, and blocks until the lock is acquired
func Acquire(lockName string) {
	mapLock.Lock()
	nl, ok := locks[lockName]
	if !ok {
		nl = &namedLock{}
		locks[lockName] = nl
	}
	nl.queueSize++
	mapLock.Unlock()
	nl.Lock()
}

// Release unlocks and releases the named lock
func Release(lockName string) {
	mapLock.Lock()
	nl, ok := locks[lockName]
	if ok {
		nl.queueSize--
		if nl.queueSize == 0 {
			delete(locks, lockName)
		}
	}
	mapLock.Unlock()
	if ok {
		nl.Unlock()
	}
}
