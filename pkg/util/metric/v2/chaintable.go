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

package v2

import "github.com/prometheus/client_golang/prometheus"

var (
	chainTableResizeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "chaintable",
			Name:      "resize_total",
			Help:      "Total number of chained hash table resizes.",
		}, []string{"trigger"})
	ChainTableResizeLoadFactorCounter  = chainTableResizeCounter.WithLabelValues("load_factor")
	ChainTableResizeChainLengthCounter = chainTableResizeCounter.WithLabelValues("chain_length")

	chainTableOpCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "chaintable",
			Name:      "op_total",
			Help:      "Total number of chained hash table operations.",
		}, []string{"op", "result"})
	ChainTableInsertCounter      = chainTableOpCounter.WithLabelValues("insert", "ok")
	ChainTableInsertErrorCounter = chainTableOpCounter.WithLabelValues("insert", "error")
	ChainTableDeleteHitCounter   = chainTableOpCounter.WithLabelValues("delete", "hit")
	ChainTableDeleteMissCounter  = chainTableOpCounter.WithLabelValues("delete", "miss")
	ChainTableLookupHitCounter   = chainTableOpCounter.WithLabelValues("lookup", "hit")
	ChainTableLookupMissCounter  = chainTableOpCounter.WithLabelValues("lookup", "miss")
)

func initChainTableMetrics() {
	registry.MustRegister(chainTableResizeCounter)
	registry.MustRegister(chainTableOpCounter)
}
