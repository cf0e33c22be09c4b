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

// Package classify maps discovered files into coarse type buckets and
// decides which directories and files the walker should skip entirely
package classify

import (
	"path/filepath"
	"strconv"
	"strings"
)

// FileType enumerates the coarse type buckets for discovered files
type FileType int

const (
	// TypePython indicates Python source files
	TypePython = FileType(iota)
	// TypeJavaScript indicates JavaScript and TypeScript source files
	TypeJavaScript
	// TypeWeb indicates markup and stylesheet files
	TypeWeb
	// TypeConfig indicates configuration files
	TypeConfig
	// TypeDocumentation indicates documentation files
	TypeDocumentation
	// TypeData indicates structured data files
	TypeData
	// TypeCompiled indicates compiled artifacts
	TypeCompiled
	// TypeScripts indicates shell and batch scripts
	TypeScripts
	// TypeOther indicates files matching no other bucket
	TypeOther
)

// Names is a map of file types keyed by name
var Names = map[string]FileType{
	"python":        TypePython,
	"javascript":    TypeJavaScript,
	"web":           TypeWeb,
	"config":        TypeConfig,
	"documentation": TypeDocumentation,
	"data":          TypeData,
	"compiled":      TypeCompiled,
	"scripts":       TypeScripts,
	"other":         TypeOther,
}

// Values is a map of file types keyed by internal id
var Values = make(map[FileType]string)

func init() {
	for k, v := range Names {
		Values[v] = k
	}
	for t, exts := range typeExtensions {
		for _, ext := range exts {
			extTypes[ext] = t
		}
	}
}

func (t FileType) String() string {
	if v, ok := Values[t]; ok {
		return v
	}
	return strconv.Itoa(int(t))
}

// typeExtensions maps each bucket to its member extensions
var typeExtensions = map[FileType][]string{
	TypePython:        {".py", ".pyi", ".pyx", ".pyw"},
	TypeJavaScript:    {".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
	TypeWeb:           {".html", ".htm", ".css", ".scss", ".sass", ".less", ".vue", ".svelte"},
	TypeConfig:        {".json", ".yaml", ".yml", ".toml", ".ini", ".cfg", ".conf", ".properties"},
	TypeDocumentation: {".md", ".rst", ".txt", ".adoc"},
	TypeData:          {".csv", ".tsv", ".xml", ".sql", ".jsonl"},
	TypeCompiled:      {".so", ".dll", ".dylib", ".o", ".a", ".class", ".jar", ".wasm", ".exe"},
	TypeScripts:       {".sh", ".bash", ".zsh", ".fish", ".ps1", ".bat", ".cmd"},
}

var extTypes = make(map[string]FileType)

// skipDirs is the exact-match denylist of directory names pruned during
// traversal before descending into them
var skipDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	"node_modules":  true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".tox":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".ruff_cache":   true,
	"dist":          true,
	"build":         true,
	"target":        true,
	".idea":         true,
	".vscode":       true,
	"vendor":        true,
	".eggs":         true,
	"htmlcov":       true,
}

// skipFileGlobs is the glob denylist applied to filenames at the leaf level
var skipFileGlobs = []string{
	"*.pyc",
	"*.pyo",
	"*.swp",
	"*.swo",
	"*~",
	".DS_Store",
	"Thumbs.db",
	"*.min.js",
	"*.min.css",
}

// MaxFileSize is the discovery-time upper bound on file size; larger files
// are skipped to avoid pathological memory and time blowup on generated or
// binary-ish content
const MaxFileSize = 10 * 1024 * 1024

// Classify returns the type bucket for the provided file extension.
// Unmatched extensions fall into TypeOther rather than being dropped.
func Classify(ext string) FileType {
	if t, ok := extTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return TypeOther
}

// SkipDir returns true if the named directory should be pruned from the walk
func SkipDir(name string) bool {
	return skipDirs[name]
}

// SkipFile returns true if the named file matches the glob denylist
func SkipFile(name string) bool {
	for _, pattern := range skipFileGlobs {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// AcceptSize returns true if a file of the provided size should be analyzed.
// Zero-byte files and files above the limit are skipped at discovery time.
func AcceptSize(size, limit int64) bool {
	if limit <= 0 {
		limit = MaxFileSize
	}
	return size > 0 && size <= limit
}
