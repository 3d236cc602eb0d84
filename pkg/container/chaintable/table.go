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

package chaintable

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/matrixorigin/chaintable/pkg/common/moerr"
	"github.com/matrixorigin/chaintable/pkg/util/list"
	v2 "github.com/matrixorigin/chaintable/pkg/util/metric/v2"
)

// New creates an empty table with initialCapacity buckets. maxChainLength 0
// means chains are unbounded.
func New[T Item[T]](initialCapacity int, maxLoadFactor float64, maxChainLength int, opts ...Option) (*Table[T], error) {
	if initialCapacity < 0 {
		return nil, moerr.NewInvalidArgNoCtx("initial capacity", initialCapacity)
	}
	if !(maxLoadFactor > 0) {
		return nil, moerr.NewInvalidArgNoCtx("max load factor", maxLoadFactor)
	}
	if maxChainLength < 0 {
		return nil, moerr.NewInvalidArgNoCtx("max chain length", maxChainLength)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = defaultLogger()
	}
	if o.name != "" {
		o.logger = o.logger.With(zap.String("table", o.name))
	}

	return &Table[T]{
		buckets:        make([]*list.List[T], initialCapacity),
		maxLoadFactor:  maxLoadFactor,
		maxChainLength: maxChainLength,
		logger:         o.logger,
	}, nil
}

// Lookup returns the first stored item equal to item, in chain order.
func (t *Table[T]) Lookup(item T) (T, bool) {
	var zero T
	if t.count == 0 || isNil(item) {
		v2.ChainTableLookupMissCounter.Inc()
		return zero, false
	}
	idx, err := t.hash(item, len(t.buckets))
	if err != nil {
		v2.ChainTableLookupMissCounter.Inc()
		return zero, false
	}
	chain := t.buckets[idx]
	if chain == nil {
		v2.ChainTableLookupMissCounter.Inc()
		return zero, false
	}
	e, ok := chain.Find(item.Equal)
	if !ok {
		v2.ChainTableLookupMissCounter.Inc()
		return zero, false
	}
	v2.ChainTableLookupHitCounter.Inc()
	return e.Value, true
}

// Insert appends item to the end of its chain. Duplicates are allowed.
// The table resizes first if the chain would exceed the maximum chain
// length (while the chain resize budget lasts), and then, independently,
// if the load factor after the insert would exceed the maximum.
func (t *Table[T]) Insert(item T) error {
	if err := t.insert(item); err != nil {
		v2.ChainTableInsertErrorCounter.Inc()
		return err
	}
	v2.ChainTableInsertCounter.Inc()
	return nil
}

func (t *Table[T]) insert(item T) error {
	if isNil(item) {
		return moerr.NewNullValueNoCtx("cannot insert a nil item")
	}
	idx, err := t.hash(item, len(t.buckets))
	if err != nil {
		return err
	}

	if chain := t.buckets[idx]; chain != nil && chain.Len() > 0 &&
		t.maxChainLength > 0 && chain.Len()+1 > t.maxChainLength {
		if t.chainResizes < MaxChainLengthResize {
			t.chainResizes++
			t.resize(chainLengthTrigger)
			idx = bucketIndex(item.Hash(), len(t.buckets))
		} else if !t.budgetWarned {
			t.budgetWarned = true
			t.logger.Warn("chain resize budget exhausted, chains may exceed max length",
				zap.Int("max-chain-length", t.maxChainLength),
				zap.Int("chain-length", chain.Len()+1),
				zap.Int("capacity", len(t.buckets)))
		}
	}

	projected := float64(t.count+1) / float64(len(t.buckets))
	if projected > t.maxLoadFactor {
		t.resize(loadFactorTrigger)
		idx = bucketIndex(item.Hash(), len(t.buckets))
	}

	chain := t.buckets[idx]
	if chain == nil {
		chain = list.New[T]()
		t.buckets[idx] = chain
	}
	chain.PushBack(item)
	t.count++
	t.updateLoadFactor()
	return nil
}

// Delete removes the first stored item equal to item and returns it.
// Only one copy is removed when duplicates exist.
func (t *Table[T]) Delete(item T) (T, bool) {
	var zero T
	if t.count == 0 || isNil(item) {
		v2.ChainTableDeleteMissCounter.Inc()
		return zero, false
	}
	idx, err := t.hash(item, len(t.buckets))
	if err != nil {
		v2.ChainTableDeleteMissCounter.Inc()
		return zero, false
	}
	chain := t.buckets[idx]
	if chain == nil || chain.Len() == 0 {
		v2.ChainTableDeleteMissCounter.Inc()
		return zero, false
	}
	e, ok := chain.Find(item.Equal)
	if !ok {
		v2.ChainTableDeleteMissCounter.Inc()
		return zero, false
	}
	removed := chain.Remove(e)
	t.count--
	t.updateLoadFactor()
	v2.ChainTableDeleteHitCounter.Inc()
	return removed, true
}

// resize grows the table to 2*capacity+1 buckets and rehashes every item,
// scanning old buckets in index order and each chain front to back.
func (t *Table[T]) resize(trigger resizeTrigger) {
	oldCapacity := len(t.buckets)
	newCapacity := 2*oldCapacity + 1
	buckets := make([]*list.List[T], newCapacity)
	for _, chain := range t.buckets {
		if chain == nil {
			continue
		}
		chain.Iter(func(item T) bool {
			idx := bucketIndex(item.Hash(), newCapacity)
			if buckets[idx] == nil {
				buckets[idx] = list.New[T]()
			}
			buckets[idx].PushBack(item)
			return true
		})
	}
	t.buckets = buckets
	t.resizes++
	t.updateLoadFactor()

	switch trigger {
	case chainLengthTrigger:
		v2.ChainTableResizeChainLengthCounter.Inc()
	default:
		v2.ChainTableResizeLoadFactorCounter.Inc()
	}
	t.logger.Debug("resize",
		zap.Stringer("trigger", trigger),
		zap.Int("old-capacity", oldCapacity),
		zap.Int("new-capacity", newCapacity),
		zap.Int("items", t.count),
		zap.Int("chain-resize-budget", t.ChainResizeBudget()))
}

// hash maps item to a bucket of a table with the given capacity. The
// capacity is explicit so resize can place items before installing the
// new buckets.
func (t *Table[T]) hash(item T, capacity int) (int, error) {
	if capacity <= 0 {
		return 0, moerr.NewInvalidStateNoCtx("cannot hash into a table of capacity %d", capacity)
	}
	return bucketIndex(item.Hash(), capacity), nil
}

// bucketIndex requires capacity > 0.
func bucketIndex(h int64, capacity int) int {
	idx := h % int64(capacity)
	if idx < 0 {
		idx += int64(capacity)
	}
	return int(idx)
}

func (t *Table[T]) updateLoadFactor() {
	if len(t.buckets) == 0 {
		t.loadFactor = 0
		return
	}
	t.loadFactor = float64(t.count) / float64(len(t.buckets))
}

// Len returns the number of stored items.
func (t *Table[T]) Len() int {
	return t.count
}

// Cap returns the number of buckets.
func (t *Table[T]) Cap() int {
	return len(t.buckets)
}

func (t *Table[T]) LoadFactor() float64 {
	return t.loadFactor
}

func (t *Table[T]) MaxLoadFactor() float64 {
	return t.maxLoadFactor
}

func (t *Table[T]) MaxChainLength() int {
	return t.maxChainLength
}

// ChainResizeBudget returns how many chain length resizes are left.
func (t *Table[T]) ChainResizeBudget() int {
	return MaxChainLengthResize - t.chainResizes
}

// Resizes returns the number of resizes performed for any reason.
func (t *Table[T]) Resizes() int {
	return t.resizes
}

// ChainLen returns the length of bucket i, 0 if i is out of range.
func (t *Table[T]) ChainLen(i int) int {
	if i < 0 || i >= len(t.buckets) || t.buckets[i] == nil {
		return 0
	}
	return t.buckets[i].Len()
}

// Range calls fn on every item in bucket then chain order, stopping if fn
// returns false. fn must not modify the table.
func (t *Table[T]) Range(fn func(T) bool) {
	for _, chain := range t.buckets {
		if chain == nil {
			continue
		}
		stopped := false
		chain.Iter(func(item T) bool {
			if !fn(item) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
