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

package main

import (
	"fmt"
	"runtime"
)

const usageText = `
RepoScope Usage:

 You must provide -version or a repository path to analyze.

 Print Version Info:
 reposcope -version

 Analyze a repository:
  reposcope [-config /path/to/file.conf] [-log-level DEBUG|INFO|WARN|ERROR] [-metrics-port 8481] /path/to/repo

------

 Analyze with smaller batches and more concurrency:
   reposcope -batch-size 20 -max-concurrent 32 /path/to/repo

 Analyze with Debugging:
   reposcope -log-level DEBUG /path/to/repo

------

Analysis results are cached across runs, so re-analyzing an unchanged
repository is served from cache. Cache type, size and TTL are set in the
configuration file.

Default log level is INFO. Set in a config file, or override with -log-level.
`

func version() string {
	return fmt.Sprintf("RepoScope version: %s, buildInfo: %s %s, goVersion: %s © 2018 Comcast",
		applicationVersion,
		applicationBuildTime, applicationGitCommitID,
		runtime.Version(),
	)
}

func printVersion() {
	fmt.Println(version())
}

func printUsage() {
	fmt.Println()
	fmt.Println(version())
	fmt.Printf("%s\n", usageText)
}
