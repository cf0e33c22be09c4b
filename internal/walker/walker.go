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

// Package walker traverses a repository in a single pass, groups the
// discovered files into same-typed batches, and streams each batch's
// analysis results as soon as it completes
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Comcast/reposcope/internal/agent"
	"github.com/Comcast/reposcope/internal/classify"
	"github.com/Comcast/reposcope/internal/config"
	"github.com/Comcast/reposcope/internal/scan"
	"github.com/Comcast/reposcope/internal/util/log"
	"github.com/Comcast/reposcope/internal/util/metrics"
)

// Walker coordinates repository traversal and concurrent agent dispatch
type Walker struct {
	cfg    *config.WalkerConfig
	agents map[classify.FileType]agent.Agent

	// walkFn is swappable in tests to instrument the traversal
	walkFn func(root string, fn fs.WalkDirFunc) error
}

// New returns a Walker with no agents registered
func New(cfg *config.WalkerConfig) *Walker {
	return &Walker{
		cfg:    cfg,
		agents: make(map[classify.FileType]agent.Agent),
		walkFn: filepath.WalkDir,
	}
}

// Register binds an agent to a file-type bucket, replacing any prior binding
func (w *Walker) Register(t classify.FileType, agt agent.Agent) {
	w.agents[t] = agt
}

// WalkRepository traverses root once, buckets the surviving files by type,
// and returns a channel of batch results. Batches complete in an order
// determined by agent latency, not discovery order, and the channel is
// closed once every batch has resolved or the context is canceled.
func (w *Walker) WalkRepository(ctx context.Context, root string) (<-chan scan.BatchResult, error) {

	buckets, err := w.discover(root)
	if err != nil {
		return nil, err
	}

	maxConcurrent := w.cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	batchSize := w.cfg.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	out := make(chan scan.BatchResult)
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	// deterministic dispatch order; completion order still floats
	types := maps.Keys(buckets)
	slices.Sort(types)

	for _, t := range types {
		files := buckets[t]
		agt, ok := w.agents[t]
		if !ok {
			wg.Add(1)
			go func(t classify.FileType, n int) {
				defer wg.Done()
				b := scan.BatchResult{
					Type:   t,
					Errors: []string{fmt.Sprintf("no agent registered for file type %s (%d files skipped)", t, n)},
				}
				select {
				case out <- b:
				case <-ctx.Done():
				}
			}(t, len(files))
			continue
		}
		for start := 0; start < len(files); start += batchSize {
			end := start + batchSize
			if end > len(files) {
				end = len(files)
			}
			wg.Add(1)
			go w.processBatch(ctx, agt, t, files[start:end], sem, out, &wg)
		}
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// discover performs the single traversal pass, pruning denylisted
// directories before descending into them
func (w *Walker) discover(root string) (map[classify.FileType][]scan.FileInfo, error) {
	buckets := make(map[classify.FileType][]scan.FileInfo)
	err := w.walkFn(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// a nil entry means the root itself was unreadable
			if d == nil {
				return err
			}
			log.Warn("skipping unreadable path", log.Pairs{"path": path, "detail": err.Error()})
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && classify.SkipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if classify.SkipFile(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			log.Warn("skipping unstattable file", log.Pairs{"path": path, "detail": err.Error()})
			return nil
		}
		if !classify.AcceptSize(info.Size(), w.cfg.MaxFileSizeBytes) {
			return nil
		}
		fi := scan.NewFileInfo(root, path, info.Size())
		buckets[fi.Type] = append(buckets[fi.Type], fi)
		if metrics.WalkerFilesDiscovered != nil {
			metrics.WalkerFilesDiscovered.WithLabelValues(fi.Type.String()).Inc()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

func (w *Walker) processBatch(ctx context.Context, agt agent.Agent, t classify.FileType,
	files []scan.FileInfo, sem chan struct{}, out chan<- scan.BatchResult, wg *sync.WaitGroup) {
	defer wg.Done()
	start := time.Now()

	results := make([]scan.FileResult, len(files))
	var inner sync.WaitGroup
	for i := range files {
		inner.Add(1)
		go func(i int) {
			defer inner.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = scan.FileResult{File: files[i], Errors: []string{ctx.Err().Error()}}
				return
			}
			defer func() { <-sem }()
			results[i] = w.processFile(ctx, agt, files[i])
		}(i)
	}
	inner.Wait()

	b := scan.BatchResult{Type: t, Duration: time.Since(start), Results: results}
	for _, r := range results {
		b.FilesProcessed++
		b.TotalBytes += r.File.Size
		b.Errors = append(b.Errors, r.Errors...)
		if metrics.WalkerFilesProcessed != nil {
			status := "success"
			if !r.Success {
				status = "failed"
			}
			metrics.WalkerFilesProcessed.WithLabelValues(t.String(), status).Inc()
		}
	}
	if metrics.WalkerBatchDuration != nil {
		metrics.WalkerBatchDuration.WithLabelValues(t.String()).Observe(b.Duration.Seconds())
	}

	select {
	case out <- b:
	case <-ctx.Done():
	}
}

// processFile runs one agent invocation, converting panics, errors and
// timeouts into a failed FileResult so one bad file never aborts its batch
func (w *Walker) processFile(ctx context.Context, agt agent.Agent, fi scan.FileInfo) (fr scan.FileResult) {
	start := time.Now()
	fr = scan.FileResult{File: fi}
	defer func() {
		fr.Duration = time.Since(start)
		if r := recover(); r != nil {
			fr.Success = false
			fr.Payload = nil
			fr.Errors = append(fr.Errors, fmt.Sprintf("agent panic: %v", r))
			log.Error("agent panicked", log.Pairs{"agent": agt.Name(), "path": fi.RelPath, "detail": fmt.Sprintf("%v", r)})
		}
	}()

	// an agent declining a file is zero work, not an error
	if !agt.Supports(fi) {
		fr.Success = true
		return
	}

	fctx := ctx
	if w.cfg.FileTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, w.cfg.FileTimeout)
		defer cancel()
	}

	payload, err := agt.ProcessFile(fctx, fi)
	if err != nil {
		fr.Errors = append(fr.Errors, err.Error())
		return
	}
	fr.Success = true
	fr.Payload = payload
	return
}
