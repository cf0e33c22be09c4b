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
	"strings"
	"testing"
)

func TestLoadEnvVars(t *testing.T) {

	os.Setenv(evMetricsPort, "4002")
	os.Setenv(evLogLevel, "info")
	os.Setenv(evBatchSize, "33")
	os.Setenv(evConcurrency, "12")

	a := []string{"/tmp/repo"}
	err := Load("reposcope-test", "0", a)
	if err != nil {
		t.Fatal(err)
	}

	if Metrics.ListenPort != 4002 {
		t.Errorf("expected %d got %d", 4002, Metrics.ListenPort)
	}

	if strings.ToUpper(Logging.LogLevel) != "INFO" {
		t.Errorf("expected %s got %s", "INFO", Logging.LogLevel)
	}

	if Walker.BatchSize != 33 {
		t.Errorf("expected %d got %d", 33, Walker.BatchSize)
	}

	if Walker.MaxConcurrent != 12 {
		t.Errorf("expected %d got %d", 12, Walker.MaxConcurrent)
	}

	os.Unsetenv(evMetricsPort)
	os.Unsetenv(evLogLevel)
	os.Unsetenv(evBatchSize)
	os.Unsetenv(evConcurrency)

}
