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
	"testing"
)

func TestLoadFlags(t *testing.T) {
	c := NewConfig()
	a := []string{
		"-metrics-port",
		"9092",
		"-log-level",
		"debug",
		"-instance-id",
		"1",
		"-batch-size",
		"20",
		"-max-concurrent",
		"32",
		"/tmp/repo",
	}

	// it should read command line flags
	c.parseFlags("reposcope-test", a)
	c.loadFlags()

	if c.Metrics.ListenPort != 9092 {
		t.Errorf("wanted \"%d\". got \"%d\".", 9092, c.Metrics.ListenPort)
	}
	if c.Logging.LogLevel != "debug" {
		t.Errorf("wanted \"%s\". got \"%s\".", "debug", c.Logging.LogLevel)
	}
	if c.Main.InstanceID != 1 {
		t.Errorf("wanted \"%d\". got \"%d\".", 1, c.Main.InstanceID)
	}
	if c.Walker.BatchSize != 20 {
		t.Errorf("wanted \"%d\". got \"%d\".", 20, c.Walker.BatchSize)
	}
	if c.Walker.MaxConcurrent != 32 {
		t.Errorf("wanted \"%d\". got \"%d\".", 32, c.Walker.MaxConcurrent)
	}
	if Flags.RepoPath != "/tmp/repo" {
		t.Errorf("wanted \"%s\". got \"%s\".", "/tmp/repo", Flags.RepoPath)
	}
	if Flags.ConfigPath != DefaultConfigPath {
		t.Errorf("wanted \"%s\". got \"%s\".", DefaultConfigPath, Flags.ConfigPath)
	}
}
