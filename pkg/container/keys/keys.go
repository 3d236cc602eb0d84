// Copyright 2023 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package keys provides item types for chaintable.
package keys

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// String is hashed with xxhash. Half of all strings hash negative.
type String string

func (s String) Hash() int64 {
	return int64(xxhash.Sum64String(string(s)))
}

func (s String) Equal(other String) bool {
	return s == other
}

// Strings converts plain strings.
func Strings(vs ...string) []String {
	ret := make([]String, len(vs))
	for i, v := range vs {
		ret[i] = String(v)
	}
	return ret
}

// Int64 hashes to its own value.
type Int64 int64

func (i Int64) Hash() int64 {
	return int64(i)
}

func (i Int64) Equal(other Int64) bool {
	return i == other
}

// Ints converts any integer values.
func Ints[I constraints.Integer](vs ...I) []Int64 {
	ret := make([]Int64, len(vs))
	for i, v := range vs {
		ret[i] = Int64(v)
	}
	return ret
}

// Coded carries an explicit hash code, which lets callers decide bucket
// placement. Equality only looks at Value.
type Coded[V comparable] struct {
	Value V
	Code  int64
}

func (c Coded[V]) Hash() int64 {
	return c.Code
}

func (c Coded[V]) Equal(other Coded[V]) bool {
	return c.Value == other.Value
}

func (c Coded[V]) String() string {
	return fmt.Sprint(c.Value)
}
