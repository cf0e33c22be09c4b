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

package classify

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		ext      string
		expected FileType
	}{
		{".py", TypePython},
		{".pyi", TypePython},
		{".PY", TypePython},
		{".ts", TypeJavaScript},
		{".html", TypeWeb},
		{".json", TypeConfig},
		{".yaml", TypeConfig},
		{".md", TypeDocumentation},
		{".csv", TypeData},
		{".so", TypeCompiled},
		{".sh", TypeScripts},
		{".xyz", TypeOther},
		{"", TypeOther},
	}
	for _, test := range tests {
		if got := Classify(test.ext); got != test.expected {
			t.Errorf("Classify(%q): wanted %s. got %s", test.ext, test.expected, got)
		}
	}
}

func TestSkipDir(t *testing.T) {
	for _, name := range []string{".git", "node_modules", "__pycache__", ".venv", "vendor"} {
		if !SkipDir(name) {
			t.Errorf("expected %q to be skipped", name)
		}
	}
	for _, name := range []string{"src", "internal", "docs"} {
		if SkipDir(name) {
			t.Errorf("expected %q not to be skipped", name)
		}
	}
}

func TestSkipFile(t *testing.T) {
	for _, name := range []string{"module.pyc", ".DS_Store", "file.swp", "notes~", "bundle.min.js"} {
		if !SkipFile(name) {
			t.Errorf("expected %q to be skipped", name)
		}
	}
	for _, name := range []string{"main.py", "config.json", "README.md"} {
		if SkipFile(name) {
			t.Errorf("expected %q not to be skipped", name)
		}
	}
}

func TestAcceptSize(t *testing.T) {
	if AcceptSize(0, 0) {
		t.Error("expected zero-byte file to be rejected")
	}
	if !AcceptSize(1024, 0) {
		t.Error("expected small file to be accepted")
	}
	if AcceptSize(MaxFileSize+1, 0) {
		t.Error("expected oversized file to be rejected")
	}
	if !AcceptSize(2048, 4096) {
		t.Error("expected file within custom limit to be accepted")
	}
	if AcceptSize(8192, 4096) {
		t.Error("expected file above custom limit to be rejected")
	}
}

func TestFileTypeString(t *testing.T) {
	if TypePython.String() != "python" {
		t.Errorf("wanted python. got %s", TypePython.String())
	}
	if FileType(99).String() != "99" {
		t.Errorf("wanted 99. got %s", FileType(99).String())
	}
}
