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
	"flag"
)

const (
	// Command-line flags
	cfConfig      = "config"
	cfVersion     = "version"
	cfLogLevel    = "log-level"
	cfInstanceID  = "instance-id"
	cfMetricsPort = "metrics-port"
	cfBatchSize   = "batch-size"
	cfConcurrency = "max-concurrent"

	// DefaultConfigPath defines the default location of the RepoScope config file
	DefaultConfigPath = "/etc/reposcope/reposcope.conf"
)

// RepoScopeFlags holds the values for whitelisted flags
type RepoScopeFlags struct {
	PrintVersion      bool
	ConfigPath        string
	customPath        bool
	MetricsListenPort int
	LogLevel          string
	InstanceID        int
	BatchSize         int
	MaxConcurrent     int

	// RepoPath is the positional repository-root argument
	RepoPath string
}

// parseFlags loads configuration from command line flags.
func (c *RepoScopeConfig) parseFlags(applicationName string, arguments []string) {

	Flags = RepoScopeFlags{}

	f := flag.NewFlagSet(applicationName, flag.ExitOnError)
	f.BoolVar(&Flags.PrintVersion, cfVersion, false, "Prints reposcope version")
	f.StringVar(&Flags.ConfigPath, cfConfig, "", "Path to RepoScope Config File")
	f.StringVar(&Flags.LogLevel, cfLogLevel, "", "Level of Logging to use (debug, info, warn, error)")
	f.IntVar(&Flags.InstanceID, cfInstanceID, 0, "Instance ID is for running multiple RepoScope processes from the same config while logging to their own files.")
	f.IntVar(&Flags.MetricsListenPort, cfMetricsPort, 0, "Port that the /metrics endpoint will listen on.")
	f.IntVar(&Flags.BatchSize, cfBatchSize, 0, "Number of same-typed files grouped into one unit of work.")
	f.IntVar(&Flags.MaxConcurrent, cfConcurrency, 0, "Maximum number of files processed by agents concurrently.")
	f.Parse(arguments)
	Flags.RepoPath = f.Arg(0)

	if Flags.ConfigPath != "" {
		Flags.customPath = true
	} else {
		Flags.ConfigPath = DefaultConfigPath
	}
}

func (c *RepoScopeConfig) loadFlags() {
	if Flags.MetricsListenPort > 0 {
		c.Metrics.ListenPort = Flags.MetricsListenPort
	}
	if Flags.LogLevel != "" {
		c.Logging.LogLevel = Flags.LogLevel
	}
	if Flags.InstanceID > 0 {
		c.Main.InstanceID = Flags.InstanceID
	}
	if Flags.BatchSize > 0 {
		c.Walker.BatchSize = Flags.BatchSize
	}
	if Flags.MaxConcurrent > 0 {
		c.Walker.MaxConcurrent = Flags.MaxConcurrent
	}
}
