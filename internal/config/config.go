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

// Package config provides the RepoScope Application Configuration
package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the Running Configuration for the application
var Config *RepoScopeConfig

// Main is the Main subsection of the Running Configuration
var Main *MainConfig

// Walker is the Walker subsection of the Running Configuration
var Walker *WalkerConfig

// Caches is the Caches subsection of the Running Configuration
var Caches map[string]*CachingConfig

// Logging is the Logging subsection of the Running Configuration
var Logging *LoggingConfig

// Metrics is the Metrics subsection of the Running Configuration
var Metrics *MetricsConfig

// Flags is a collection of command line flags that affect the configuration
var Flags = RepoScopeFlags{}

// LoaderWarnings holds warnings generated during config load that should be
// logged once the logger is available
var LoaderWarnings = make([]string, 0)

// ApplicationName is the name of the Application
var ApplicationName string

// ApplicationVersion holds the version of the Application
var ApplicationVersion string

// RepoScopeConfig is the main configuration object
type RepoScopeConfig struct {
	// Main is the primary MainConfig section
	Main *MainConfig `toml:"main"`
	// Walker is the WalkerConfig section
	Walker *WalkerConfig `toml:"walker"`
	// Caches is a map of CachingConfigs
	Caches map[string]*CachingConfig `toml:"caches"`
	// Logging provides configurations for logging
	Logging *LoggingConfig `toml:"logging"`
	// Metrics provides configurations for collecting Metrics about the application
	Metrics *MetricsConfig `toml:"metrics"`

	activeCaches map[string]bool
}

// MainConfig is a collection of general configuration values
type MainConfig struct {
	// InstanceID represents a unique ID for the current instance, when multiple instances on the same host
	InstanceID int `toml:"instance_id"`
	// Hostname is populated for logging context when set
	Hostname string `toml:"hostname"`
}

// WalkerConfig is a collection of configurations for the streaming repository walker
type WalkerConfig struct {
	// BatchSize defines how many same-typed files are grouped into one unit of work
	BatchSize int `toml:"batch_size"`
	// MaxConcurrent caps how many files are actively processed by agents at once
	MaxConcurrent int `toml:"max_concurrent"`
	// MaxFileSizeBytes sets the discovery-time upper bound on file size
	MaxFileSizeBytes int64 `toml:"max_file_size_bytes"`
	// FileTimeoutMS bounds a single agent invocation; 0 disables the timeout
	FileTimeoutMS int `toml:"file_timeout_ms"`

	FileTimeout time.Duration `toml:"-"`
}

// CachingConfig is a collection of defining the RepoScope Caching Behavior
type CachingConfig struct {
	// CacheType defines what kind of cache RepoScope uses for the disk tier
	// Options are: bbolt, badger, filesystem, redis
	CacheType string `toml:"cache_type"`
	// TTLSecs is the disk-tier expiration duration applied on Store
	TTLSecs int `toml:"ttl_secs"`
	// MaxSizeEntries caps the number of entries held by the memory tier
	MaxSizeEntries int `toml:"max_size_entries"`
	// ReapIntervalSecs defines how long the disk-tier reaper sleeps between reap cycles
	ReapIntervalSecs int `toml:"reap_interval_secs"`

	// Index provides the SQLite metadata index configuration
	Index CacheIndexConfig `toml:"index"`
	// BBolt provides the BBolt cache configuration
	BBolt BBoltCacheConfig `toml:"bbolt"`
	// Badger provides the Badger cache configuration
	Badger BadgerCacheConfig `toml:"badger"`
	// Filesystem provides the Filesystem cache configuration
	Filesystem FilesystemCacheConfig `toml:"filesystem"`
	// Redis provides the Redis cache configuration
	Redis RedisCacheConfig `toml:"redis"`

	TTL          time.Duration `toml:"-"`
	ReapInterval time.Duration `toml:"-"`

	Name string `toml:"-"`
}

// CacheIndexConfig defines the operation of the Cache Metadata Index
type CacheIndexConfig struct {
	// Filename is the path to the SQLite database holding cache metadata
	Filename string `toml:"filename"`
}

// BBoltCacheConfig is a collection of BBolt Cache configurations
type BBoltCacheConfig struct {
	// Filename represents the filename (including path) of the BBolt database
	Filename string `toml:"filename"`
	// Bucket represents the name of the bucket within BBolt under which RepoScope's keys will be stored
	Bucket string `toml:"bucket"`
}

// BadgerCacheConfig is a collection of Badger Cache configurations
type BadgerCacheConfig struct {
	// Directory represents the path on disk where the Badger database resides
	Directory string `toml:"directory"`
	// ValueDirectory represents the path on disk where the Badger database's value log resides
	ValueDirectory string `toml:"value_directory"`
}

// FilesystemCacheConfig is a collection of Filesystem Cache configurations
type FilesystemCacheConfig struct {
	// CachePath represents the path on disk where the Cache will live
	CachePath string `toml:"cache_path"`
}

// RedisCacheConfig is a collection of Redis Cache configurations
type RedisCacheConfig struct {
	// Protocol represents the connection method (e.g., tcp, unix, etc.)
	Protocol string `toml:"protocol"`
	// Endpoint represents the host:port of the Redis endpoint
	Endpoint string `toml:"endpoint"`
	// Password can be set when using password protected redis instances
	Password string `toml:"password"`
}

// LoggingConfig is a collection of Logging configurations
type LoggingConfig struct {
	// LogFile provides the filepath to the instance's logfile. Set as empty string to Log to Console
	LogFile string `toml:"log_file"`
	// LogLevel provides the most granular level (e.g., DEBUG, INFO, ERROR) to log
	LogLevel string `toml:"log_level"`
}

// MetricsConfig is a collection of Metrics Collection configurations
type MetricsConfig struct {
	// ListenAddress is IP address from which the Application Metrics are available for pulling at /metrics
	ListenAddress string `toml:"listen_address"`
	// ListenPort is TCP Port from which the Application Metrics are available for pulling at /metrics
	ListenPort int `toml:"listen_port"`
}

// NewConfig returns a Config initialized with default values
func NewConfig() *RepoScopeConfig {
	return &RepoScopeConfig{
		Main: &MainConfig{},
		Walker: &WalkerConfig{
			BatchSize:        defaultWalkerBatchSize,
			MaxConcurrent:    defaultWalkerMaxConcurrent,
			MaxFileSizeBytes: defaultWalkerMaxFileSizeBytes,
			FileTimeoutMS:    defaultWalkerFileTimeoutMS,
		},
		Caches: map[string]*CachingConfig{
			"default": NewCacheConfig(),
		},
		Logging: &LoggingConfig{
			LogFile:  defaultLogFile,
			LogLevel: defaultLogLevel,
		},
		Metrics: &MetricsConfig{
			ListenPort: defaultMetricsListenPort,
		},
		activeCaches: map[string]bool{"default": true},
	}
}

// NewCacheConfig returns a CachingConfig with default values
func NewCacheConfig() *CachingConfig {
	return &CachingConfig{
		CacheType:        defaultCacheType,
		TTLSecs:          defaultCacheTTLSecs,
		MaxSizeEntries:   defaultCacheMaxSizeEntries,
		ReapIntervalSecs: defaultCacheIndexReap,
		Index:            CacheIndexConfig{Filename: defaultIndexFilename},
		BBolt:            BBoltCacheConfig{Filename: defaultBBoltFile, Bucket: defaultBBoltBucket},
		Badger:           BadgerCacheConfig{Directory: defaultCachePath, ValueDirectory: defaultCachePath},
		Filesystem:       FilesystemCacheConfig{CachePath: defaultCachePath},
		Redis:            RedisCacheConfig{Protocol: defaultRedisProtocol, Endpoint: defaultRedisEndpoint},
	}
}

func (c *RepoScopeConfig) loadFile() error {
	md, err := toml.DecodeFile(Flags.ConfigPath, c)
	if err != nil {
		return err
	}
	c.processCacheConfigs(&md)
	return nil
}

// processCacheConfigs ensures cache names and duration fields are set on any
// cache config provided by the TOML file
func (c *RepoScopeConfig) processCacheConfigs(md *toml.MetaData) {
	for k, v := range c.Caches {
		v.Name = k
		if !md.IsDefined("caches", k, "cache_type") {
			v.CacheType = defaultCacheType
		}
		if !md.IsDefined("caches", k, "ttl_secs") {
			v.TTLSecs = defaultCacheTTLSecs
		}
		if !md.IsDefined("caches", k, "max_size_entries") {
			v.MaxSizeEntries = defaultCacheMaxSizeEntries
		}
		if !md.IsDefined("caches", k, "reap_interval_secs") {
			v.ReapIntervalSecs = defaultCacheIndexReap
		}
		if !md.IsDefined("caches", k, "index", "filename") {
			v.Index.Filename = defaultIndexFilename
		}
	}
}

// setDerivedValues computes time.Duration fields from their *Secs/*MS counterparts
func (c *RepoScopeConfig) setDerivedValues() {
	c.Walker.FileTimeout = time.Duration(c.Walker.FileTimeoutMS) * time.Millisecond
	for _, v := range c.Caches {
		v.TTL = time.Duration(v.TTLSecs) * time.Second
		v.ReapInterval = time.Duration(v.ReapIntervalSecs) * time.Second
	}
}
