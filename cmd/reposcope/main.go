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

// Package main is the main package for the RepoScope application
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Comcast/reposcope/internal/agent"
	"github.com/Comcast/reposcope/internal/agent/structure"
	"github.com/Comcast/reposcope/internal/cache/manager"
	"github.com/Comcast/reposcope/internal/cache/registration"
	"github.com/Comcast/reposcope/internal/classify"
	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/scan"
	"github.com/Comcast/reposcope/internal/util/log"
	"github.com/Comcast/reposcope/internal/util/metrics"
	"github.com/Comcast/reposcope/internal/walker"
)

var (
	applicationGitCommitID string
	applicationBuildTime   string
)

const (
	applicationName    = "reposcope"
	applicationVersion = "1.0.0"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {

	if err := config.Load(applicationName, applicationVersion, args); err != nil {
		fmt.Fprintf(os.Stderr, "could not load configuration: %v\n", err)
		printUsage()
		return 1
	}

	if config.Flags.PrintVersion {
		printVersion()
		return 0
	}

	root := config.Flags.RepoPath
	if root == "" {
		printUsage()
		return 1
	}

	log.Init()
	defer log.Logger.Close()
	for _, w := range config.LoaderWarnings {
		log.Warn(w, log.Pairs{})
	}
	metrics.Init()

	cfg, ok := config.Caches["default"]
	if !ok {
		log.Error("no default cache configured", log.Pairs{})
		return 1
	}

	disk, err := registration.NewCache(cfg)
	if err != nil {
		log.Error("could not connect cache", log.Pairs{"cacheType": cfg.CacheType, "detail": err.Error()})
		return 1
	}
	defer disk.Close()

	mgr, err := manager.New(cfg, disk)
	if err != nil {
		log.Error("could not open cache index", log.Pairs{"detail": err.Error()})
		return 1
	}
	defer mgr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := analyze(ctx, mgr, root)
	if err != nil {
		log.Error("repository analysis failed", log.Pairs{"repo": root, "detail": err.Error()})
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error("could not write report", log.Pairs{"detail": err.Error()})
		return 1
	}
	return 0
}

// typeSummary aggregates the outcomes for one file-type bucket
type typeSummary struct {
	Batches    int   `json:"batches"`
	Files      int   `json:"files"`
	Succeeded  int   `json:"succeeded"`
	Failed     int   `json:"failed"`
	TotalBytes int64 `json:"total_bytes"`
}

// report is the JSON document written to stdout after a full analysis run
type report struct {
	Repo       string                       `json:"repo"`
	Duration   time.Duration                `json:"duration_ns"`
	Batches    int                          `json:"batches"`
	Files      int                          `json:"files"`
	Succeeded  int                          `json:"succeeded"`
	Failed     int                          `json:"failed"`
	TotalBytes int64                        `json:"total_bytes"`
	Errors     []string                     `json:"errors,omitempty"`
	ByType     map[string]*typeSummary      `json:"by_type"`
	Cache      manager.Statistics           `json:"cache"`
	Agents     map[string]agent.CachedStats `json:"agents"`
}

// analyze walks the repository, streams the batch results and folds them
// into the final report
func analyze(ctx context.Context, mgr *manager.Manager, root string) (*report, error) {

	sa := agent.NewCached(structure.New(), mgr)

	w := walker.New(config.Walker)
	w.Register(classify.TypePython, sa)
	w.Register(classify.TypeJavaScript, sa)
	w.Register(classify.TypeScripts, sa)

	start := time.Now()
	ch, err := w.WalkRepository(ctx, root)
	if err != nil {
		return nil, err
	}

	r := &report{Repo: root, ByType: make(map[string]*typeSummary)}
	for b := range ch {
		foldBatch(r, b)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.Duration = time.Since(start)
	r.Cache = mgr.Statistics()
	r.Agents = map[string]agent.CachedStats{sa.Name(): sa.Stats()}

	log.Info("repository analysis complete", log.Pairs{
		"repo":     root,
		"files":    r.Files,
		"failed":   r.Failed,
		"batches":  r.Batches,
		"duration": r.Duration.String(),
	})
	return r, nil
}

func foldBatch(r *report, b scan.BatchResult) {
	ts, ok := r.ByType[b.Type.String()]
	if !ok {
		ts = &typeSummary{}
		r.ByType[b.Type.String()] = ts
	}

	success := 0
	for _, fr := range b.Results {
		if fr.Success {
			success++
		}
	}

	ts.Batches++
	ts.Files += b.FilesProcessed
	ts.TotalBytes += b.TotalBytes
	ts.Succeeded += success
	ts.Failed += b.FilesProcessed - success

	r.Batches++
	r.Files += b.FilesProcessed
	r.Succeeded += success
	r.Failed += b.FilesProcessed - success
	r.TotalBytes += b.TotalBytes
	r.Errors = append(r.Errors, b.Errors...)
}
