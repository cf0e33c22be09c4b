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

// Package structure provides an analyzer agent that summarizes the line-level
// structure of source files
package structure

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/Comcast/reposcope/internal/classify"
	"github.com/Comcast/reposcope/internal/scan"
)

// Summary is the structure agent's result payload, serialized as JSON
type Summary struct {
	Path       string `json:"path"`
	Lines      int    `json:"lines"`
	BlankLines int    `json:"blank_lines"`
	CodeLines  int    `json:"code_lines"`
	Functions  int    `json:"functions"`
	Classes    int    `json:"classes"`
	SizeBytes  int64  `json:"size_bytes"`
}

// Agent summarizes line counts and coarse declaration counts for source files
type Agent struct{}

// New returns a structure agent
func New() *Agent {
	return &Agent{}
}

// Name returns the agent's name
func (a *Agent) Name() string {
	return "structure"
}

// Supports reports whether the agent can summarize the provided file
func (a *Agent) Supports(fi scan.FileInfo) bool {
	switch fi.Type {
	case classify.TypePython, classify.TypeJavaScript, classify.TypeScripts:
		return true
	}
	return false
}

// funcPrefixes maps extensions to the line prefixes counted as function
// declarations. This is a heuristic, not a parse, and only needs to be
// stable, not exact.
var funcPrefixes = map[string][]string{
	".py":   {"def ", "async def "},
	".pyi":  {"def ", "async def "},
	".js":   {"function ", "async function "},
	".jsx":  {"function ", "async function "},
	".ts":   {"function ", "async function "},
	".tsx":  {"function ", "async function "},
	".mjs":  {"function ", "async function "},
	".cjs":  {"function ", "async function "},
	".sh":   {"function "},
	".bash": {"function "},
}

// ProcessFile reads the file and returns its structure summary as JSON
func (a *Agent) ProcessFile(ctx context.Context, fi scan.FileInfo) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(fi.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := Summary{Path: fi.RelPath, SizeBytes: fi.Size}
	prefixes := funcPrefixes[fi.Ext]

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			s.BlankLines++
			continue
		}
		s.CodeLines++
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				s.Functions++
				break
			}
		}
		if strings.HasPrefix(line, "class ") {
			s.Classes++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return json.Marshal(s)
}
