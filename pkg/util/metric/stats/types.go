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

package stats

import "go.uber.org/zap"

type LogExporter interface {
	Export() []zap.Field
}

// Family contains attributed related to a DevStats Family.
// Currently, it only has LogExporter
type Family struct {
	name        string
	logExporter LogExporter
}

func NewFamily(name string, exporter LogExporter) *Family {
	return &Family{
		name:        name,
		logExporter: exporter,
	}
}

func (f *Family) Name() string {
	return f.name
}

// Log writes one info entry carrying every exported field.
func (f *Family) Log(logger *zap.Logger) {
	logger.Info(f.name+" stats", f.logExporter.Export()...)
}
