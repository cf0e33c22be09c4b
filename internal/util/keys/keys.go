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

// Package keys provides deterministic cache key generation
package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Checksum returns the sha256 checksum of the input string
func Checksum(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// ForArgs returns a deterministic cache key for the provided prefix,
// positional arguments and keyword arguments. Identical logical calls
// produce identical keys; any change to an argument changes the key.
func ForArgs(prefix string, args []interface{}, kwargs map[string]interface{}) string {

	parts := make([]string, 0, len(args)+len(kwargs)+1)
	if prefix != "" {
		parts = append(parts, prefix)
	}

	for _, a := range args {
		parts = append(parts, render(a))
	}

	if len(kwargs) > 0 {
		names := make([]string, 0, len(kwargs))
		for k := range kwargs {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			parts = append(parts, k+"="+render(kwargs[k]))
		}
	}

	return Checksum(strings.Join(parts, "|"))
}

// render produces a canonical string form of a value. Primitives are
// stringified directly; composite values are JSON-encoded, which sorts
// map keys and is therefore stable across calls.
func render(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%v", t)
	case []byte:
		return string(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
