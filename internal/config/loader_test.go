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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfiguration(t *testing.T) {
	a := []string{"-batch-size", "25", "/tmp/repo"}
	// it should not error if config path is not set
	err := Load("reposcope-test", "0", a)
	if err != nil {
		t.Fatal(err)
	}

	if Config.Walker.BatchSize != 25 {
		t.Errorf("expected 25, got %d", Config.Walker.BatchSize)
	}

	if Config.Walker.MaxConcurrent != 10 {
		t.Errorf("expected 10, got %d", Config.Walker.MaxConcurrent)
	}

	if Config.Caches["default"].TTL != time.Duration(21600)*time.Second {
		t.Errorf("expected 21600s, got %s", Config.Caches["default"].TTL)
	}

	if Flags.RepoPath != "/tmp/repo" {
		t.Errorf("expected /tmp/repo, got %s", Flags.RepoPath)
	}
}

const testConfigFile = `
[main]
instance_id = 2

[walker]
batch_size = 10
max_concurrent = 4
file_timeout_ms = 1500

[logging]
log_level = "debug"

[metrics]
listen_port = 57822
listen_address = "metrics_test"

[caches]
  [caches.default]
  cache_type = "badger"
  ttl_secs = 300
  max_size_entries = 64
    [caches.default.badger]
    directory = "test_directory"
    value_directory = "test_value_directory"
    [caches.default.index]
    filename = "test_index.db"
`

func TestFullLoadConfiguration(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "reposcope_test_config.conf")
	if err := os.WriteFile(confFile, []byte(testConfigFile), 0600); err != nil {
		t.Fatal(err)
	}

	a := []string{"-config", confFile, "/tmp/repo"}
	err := Load("reposcope-test", "0", a)
	if err != nil {
		t.Fatal(err)
	}

	// Test Main
	if Main.InstanceID != 2 {
		t.Errorf("expected 2, got %d", Main.InstanceID)
	}

	// Test Walker
	if Walker.BatchSize != 10 {
		t.Errorf("expected 10, got %d", Walker.BatchSize)
	}

	if Walker.MaxConcurrent != 4 {
		t.Errorf("expected 4, got %d", Walker.MaxConcurrent)
	}

	if Walker.FileTimeout != time.Duration(1500)*time.Millisecond {
		t.Errorf("expected 1500ms, got %s", Walker.FileTimeout)
	}

	// Test Metrics Server
	if Metrics.ListenPort != 57822 {
		t.Errorf("expected 57822, got %d", Metrics.ListenPort)
	}

	if Metrics.ListenAddress != "metrics_test" {
		t.Errorf("expected metrics_test, got %s", Metrics.ListenAddress)
	}

	// Test Logging
	if Logging.LogLevel != "debug" {
		t.Errorf("expected debug, got %s", Logging.LogLevel)
	}

	// Test Caches

	c, ok := Caches["default"]
	if !ok {
		t.Fatalf("unable to find cache config: %s", "default")
	}

	if c.Name != "default" {
		t.Errorf("expected default, got %s", c.Name)
	}

	if c.CacheType != "badger" {
		t.Errorf("expected badger, got %s", c.CacheType)
	}

	if c.TTL != time.Duration(300)*time.Second {
		t.Errorf("expected 300s, got %s", c.TTL)
	}

	if c.MaxSizeEntries != 64 {
		t.Errorf("expected 64, got %d", c.MaxSizeEntries)
	}

	if c.Badger.Directory != "test_directory" {
		t.Errorf("expected test_directory, got %s", c.Badger.Directory)
	}

	if c.Badger.ValueDirectory != "test_value_directory" {
		t.Errorf("expected test_value_directory, got %s", c.Badger.ValueDirectory)
	}

	if c.Index.Filename != "test_index.db" {
		t.Errorf("expected test_index.db, got %s", c.Index.Filename)
	}

	// unspecified values fall back to defaults
	if c.ReapInterval != time.Duration(60)*time.Second {
		t.Errorf("expected 60s, got %s", c.ReapInterval)
	}

	if c.BBolt.Bucket != "reposcope" {
		t.Errorf("expected reposcope, got %s", c.BBolt.Bucket)
	}
}

func TestEmptyLoadConfiguration(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "empty.conf")
	if err := os.WriteFile(confFile, []byte("\n"), 0600); err != nil {
		t.Fatal(err)
	}

	a := []string{"-config", confFile}
	err := Load("reposcope-test", "0", a)
	if err != nil {
		t.Fatal(err)
	}

	c, ok := Caches["default"]
	if !ok {
		t.Fatalf("unable to find cache config: %s", "default")
	}

	if c.CacheType != "bbolt" {
		t.Errorf("expected bbolt, got %s", c.CacheType)
	}

	if c.BBolt.Filename != "reposcope.cache.db" {
		t.Errorf("expected reposcope.cache.db, got %s", c.BBolt.Filename)
	}

	if c.Filesystem.CachePath != "/tmp/reposcope" {
		t.Errorf("expected /tmp/reposcope, got %s", c.Filesystem.CachePath)
	}

	if c.Redis.Endpoint != "redis:6379" {
		t.Errorf("expected redis:6379, got %s", c.Redis.Endpoint)
	}

	if c.Badger.Directory != "/tmp/reposcope" {
		t.Errorf("expected /tmp/reposcope, got %s", c.Badger.Directory)
	}
}

func TestLoadConfigurationVersion(t *testing.T) {
	a := []string{"-version"}
	// it should not error if config path is not set
	err := Load("reposcope-test", "0", a)
	if err != nil {
		t.Fatal(err)
	}

	if !Flags.PrintVersion {
		t.Errorf("expected true got false")
	}
}

func TestLoadConfigurationBadPath(t *testing.T) {
	const badPath = "/afeas/aasdvasvasdf48/ag4a4gas"

	a := []string{"-config", badPath}
	err := Load("reposcope-test", "0", a)
	if err == nil {
		t.Errorf("expected error: open %s: no such file or directory", badPath)
	}
}
