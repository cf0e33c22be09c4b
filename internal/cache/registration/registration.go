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

// Package registration constructs disk cache tiers from their configurations
package registration

import (
	"fmt"

	"github.com/Comcast/reposcope/internal/cache"
	"github.com/Comcast/reposcope/internal/cache/badger"
	"github.com/Comcast/reposcope/internal/cache/bbolt"
	"github.com/Comcast/reposcope/internal/cache/filesystem"
	"github.com/Comcast/reposcope/internal/cache/redis"
	"github.com/Comcast/reposcope/internal/cache/types"
	"github.com/Comcast/reposcope/internal/config"
)

// NewCache returns a connected disk-tier Cache for the provided CachingConfig
func NewCache(cfg *config.CachingConfig) (cache.Cache, error) {

	var c cache.Cache

	t, ok := types.Names[cfg.CacheType]
	if !ok {
		return nil, fmt.Errorf("invalid cache type [%s]", cfg.CacheType)
	}

	switch t {
	case types.CacheTypeFilesystem:
		c = &filesystem.Cache{Name: cfg.Name, Config: cfg}
	case types.CacheTypeRedis:
		c = &redis.Cache{Name: cfg.Name, Config: cfg}
	case types.CacheTypeBadgerDB:
		c = &badger.Cache{Name: cfg.Name, Config: cfg}
	default:
		c = &bbolt.Cache{Name: cfg.Name, Config: cfg}
	}

	if err := c.Connect(); err != nil {
		return nil, err
	}
	return c, nil
}
