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

const (
	defaultLogFile  = ""
	defaultLogLevel = "INFO"

	defaultMetricsListenPort = 0

	defaultWalkerBatchSize        = 50
	defaultWalkerMaxConcurrent    = 10
	defaultWalkerMaxFileSizeBytes = 10 * 1024 * 1024
	defaultWalkerFileTimeoutMS    = 0

	defaultCacheType           = "bbolt"
	defaultCacheTTLSecs        = 21600
	defaultCacheMaxSizeEntries = 512
	defaultCacheIndexReap      = 60

	defaultCachePath     = "/tmp/reposcope"
	defaultBBoltFile     = "reposcope.cache.db"
	defaultBBoltBucket   = "reposcope"
	defaultIndexFilename = "reposcope.index.db"

	defaultRedisProtocol = "tcp"
	defaultRedisEndpoint = "redis:6379"
)
