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
	"bytes"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/matrixorigin/chaintable/pkg/util/metric/stats"
)

// Stats gathers the current table statistics.
func (t *Table[T]) Stats() Stats {
	s := Stats{
		Capacity:   len(t.buckets),
		Items:      t.count,
		LoadFactor: t.loadFactor,
	}
	nonEmpty, total := 0, 0
	for _, chain := range t.buckets {
		n := 0
		if chain != nil {
			n = chain.Len()
		}
		if n == 0 {
			s.EmptyChains++
			continue
		}
		if n > s.LongestChain {
			s.LongestChain = n
		}
		nonEmpty++
		total += n
	}
	if nonEmpty > 0 {
		s.AverageChainLength = float64(total) / float64(nonEmpty)
	}
	return s
}

// Dump writes every non-empty bucket as "index: [item, item]" in bucket
// order, items in chain order.
func (t *Table[T]) Dump(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("Hashtable contents:\n")
	for i, chain := range t.buckets {
		if chain == nil || chain.Len() == 0 {
			continue
		}
		fmt.Fprintf(&buf, "%d: [", i)
		first := true
		chain.Iter(func(item T) bool {
			if !first {
				buf.WriteString(", ")
			}
			first = false
			fmt.Fprint(&buf, item)
			return true
		})
		buf.WriteString("]\n")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// DisplayStats writes Stats in a human readable form.
func (t *Table[T]) DisplayStats(w io.Writer) error {
	s := t.Stats()
	_, err := fmt.Fprintf(w, "Hashtable statistics:\n"+
		"  Current table size: %d\n"+
		"  Number of items in table: %d\n"+
		"  Current load factor: %.4f\n"+
		"  Length of longest chain: %d\n"+
		"  Number of chains of length 0: %d\n"+
		"  Average length of chains of length >0: %.2f\n",
		s.Capacity, s.Items, s.LoadFactor, s.LongestChain, s.EmptyChains, s.AverageChainLength)
	return err
}

type statsLogExporter[T Item[T]] struct {
	table *Table[T]
}

// NewStatsLogExporter exports the table Stats as zap fields.
func NewStatsLogExporter[T Item[T]](t *Table[T]) stats.LogExporter {
	return &statsLogExporter[T]{table: t}
}

// Export returns the fields and its values in loggable format.
func (e *statsLogExporter[T]) Export() []zap.Field {
	s := e.table.Stats()
	return []zap.Field{
		zap.Int("capacity", s.Capacity),
		zap.Int("items", s.Items),
		zap.Float64("load-factor", s.LoadFactor),
		zap.Int("longest-chain", s.LongestChain),
		zap.Int("empty-chains", s.EmptyChains),
		zap.Float64("average-chain-length", s.AverageChainLength),
		zap.Int("resizes", e.table.Resizes()),
		zap.Int("chain-resize-budget", e.table.ChainResizeBudget()),
	}
}
