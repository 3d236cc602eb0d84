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

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/matrixorigin/chaintable/pkg/logutil"
)

var (
	registry = prometheus.NewRegistry()
)

func init() {
	initChainTableMetrics()
}

// GetPrometheusRegistry returns the registry all metrics of this package
// are registered with.
func GetPrometheusRegistry() prometheus.Registerer {
	return registry
}

// GetPrometheusGatherer returns the gatherer of the package registry.
func GetPrometheusGatherer() prometheus.Gatherer {
	return registry
}

// WriteText gathers every registered metric and writes it in the prometheus
// text exposition format.
func WriteText(w io.Writer) error {
	mfs, err := registry.Gather()
	if err != nil {
		logutil.Errorf("[Metric] gather error: %v", err)
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
