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

package keys

import "testing"

func TestChecksum(t *testing.T) {
	const expected = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Checksum("hello"); got != expected {
		t.Errorf("wanted %s. got %s", expected, got)
	}
	if len(Checksum("")) != 64 {
		t.Error("expected 64 hex characters")
	}
}

func TestForArgs_Deterministic(t *testing.T) {
	args := []interface{}{"repo", 42, true}
	kwargs := map[string]interface{}{
		"depth":   3,
		"exclude": []string{"vendor", "dist"},
		"opts":    map[string]interface{}{"b": 2, "a": 1},
	}

	// identical logical calls must produce identical keys, including
	// nested maps whose iteration order varies between runs
	k1 := ForArgs("analysis", args, kwargs)
	for i := 0; i < 50; i++ {
		if k2 := ForArgs("analysis", args, kwargs); k2 != k1 {
			t.Fatalf("nondeterministic key: %s vs %s", k1, k2)
		}
	}
}

func TestForArgs_Sensitivity(t *testing.T) {
	base := ForArgs("analysis", []interface{}{"repo", 1}, map[string]interface{}{"depth": 3})

	tests := []struct {
		name string
		key  string
	}{
		{"changed prefix", ForArgs("other", []interface{}{"repo", 1}, map[string]interface{}{"depth": 3})},
		{"changed arg", ForArgs("analysis", []interface{}{"repo", 2}, map[string]interface{}{"depth": 3})},
		{"changed kwarg value", ForArgs("analysis", []interface{}{"repo", 1}, map[string]interface{}{"depth": 4})},
		{"added kwarg", ForArgs("analysis", []interface{}{"repo", 1}, map[string]interface{}{"depth": 3, "x": 1})},
		{"dropped kwargs", ForArgs("analysis", []interface{}{"repo", 1}, nil)},
	}
	for _, test := range tests {
		if test.key == base {
			t.Errorf("%s: expected a different key", test.name)
		}
	}
}

func TestForArgs_KwargOrderIndependent(t *testing.T) {
	k1 := ForArgs("p", nil, map[string]interface{}{"a": 1, "b": 2, "c": 3})
	k2 := ForArgs("p", nil, map[string]interface{}{"c": 3, "b": 2, "a": 1})
	if k1 != k2 {
		t.Errorf("keys differ for identical kwargs: %s vs %s", k1, k2)
	}
}
