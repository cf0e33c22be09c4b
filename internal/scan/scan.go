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

// Package scan defines the records produced by repository traversal.
// All three record types are created once and never mutated afterward.
package scan

import (
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/Comcast/reposcope/internal/classify"
)

// FileInfo describes a file discovered during the single traversal pass
type FileInfo struct {
	// Path is the absolute path to the file
	Path string `json:"path"`
	// RelPath is the path relative to the repository root
	RelPath string `json:"rel_path"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
	// Ext is the lowercase file extension, including the dot
	Ext string `json:"ext"`
	// MIME is the best-effort detected MIME type, possibly empty
	MIME string `json:"mime,omitempty"`
	// Type is the coarse type bucket the file was classified into
	Type classify.FileType `json:"-"`
}

// NewFileInfo builds a FileInfo for the file at path under the provided root
func NewFileInfo(root, path string, size int64) FileInfo {
	ext := strings.ToLower(filepath.Ext(path))
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return FileInfo{
		Path:    path,
		RelPath: rel,
		Size:    size,
		Ext:     ext,
		MIME:    mime.TypeByExtension(ext),
		Type:    classify.Classify(ext),
	}
}

// FileResult is the per-file outcome of one agent invocation
type FileResult struct {
	// File is the FileInfo the result describes
	File FileInfo `json:"file"`
	// Success is false if the agent invocation failed or timed out
	Success bool `json:"success"`
	// Payload is the agent's result, semantic to the agent
	Payload []byte `json:"payload,omitempty"`
	// Duration is the wall-clock processing time for the file
	Duration time.Duration `json:"duration"`
	// Errors holds the failure detail when Success is false
	Errors []string `json:"errors,omitempty"`
}

// BatchResult aggregates the outcomes for one chunk of same-typed files
type BatchResult struct {
	// Type is the file-type bucket this batch belongs to
	Type classify.FileType `json:"-"`
	// FilesProcessed is the number of files the batch attempted
	FilesProcessed int `json:"files_processed"`
	// TotalBytes is the summed size of the batch's files
	TotalBytes int64 `json:"total_bytes"`
	// Duration is the wall-clock time from batch start to last file resolving
	Duration time.Duration `json:"duration"`
	// Results holds the per-file outcomes in gather order
	Results []FileResult `json:"results"`
	// Errors aggregates the per-file error strings plus any batch-level error
	Errors []string `json:"errors,omitempty"`
}
