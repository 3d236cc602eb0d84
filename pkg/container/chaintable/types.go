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

// Package chaintable implements a separate-chaining hash table that stores
// whole items, allows duplicates and grows itself when the projected load
// factor exceeds its maximum or, a bounded number of times, when a chain
// would grow past the configured maximum length.
//
// A Table is not safe for concurrent use.
package chaintable

import (
	"go.uber.org/zap"

	"github.com/matrixorigin/chaintable/pkg/logutil"
	"github.com/matrixorigin/chaintable/pkg/util/list"
)

// MaxChainLengthResize is the number of resizes a table may perform because
// a chain grew past its maximum length. Load factor resizes are unlimited.
const MaxChainLengthResize = 5

// Item is implemented by everything stored in a Table. Hash may return
// negative values. Equal decides membership for Lookup and Delete.
type Item[T any] interface {
	Hash() int64
	Equal(other T) bool
}

// Table is a separate-chaining hash table of T.
type Table[T Item[T]] struct {
	// nil means the bucket was never materialized
	buckets []*list.List[T]

	maxLoadFactor  float64
	maxChainLength int

	count        int
	loadFactor   float64
	chainResizes int
	resizes      int

	budgetWarned bool
	logger       *zap.Logger
}

// Stats is a snapshot of the table shape.
type Stats struct {
	Capacity     int
	Items        int
	LoadFactor   float64
	LongestChain int
	// EmptyChains counts buckets of length 0, materialized or not.
	EmptyChains int
	// AverageChainLength is taken over chains of length > 0 and is 0 when
	// there are none.
	AverageChainLength float64
}

type resizeTrigger int

const (
	loadFactorTrigger resizeTrigger = iota
	chainLengthTrigger
)

func (t resizeTrigger) String() string {
	switch t {
	case loadFactorTrigger:
		return "load_factor"
	case chainLengthTrigger:
		return "chain_length"
	default:
		return "unknown"
	}
}

type options struct {
	logger *zap.Logger
	name   string
}

// Option configures a Table.
type Option func(*options)

// WithLogger sets the logger used for resize traces.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName adds a table name to every log entry.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

var defaultLogger = func() *zap.Logger {
	return logutil.GetGlobalLogger().Named("chaintable")
}
