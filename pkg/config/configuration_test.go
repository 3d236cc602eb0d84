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

package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/chaintable/pkg/common/moerr"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "chaintable.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 10, cfg.Table.InitialCapacity)
	assert.Equal(t, 0.85, cfg.Table.MaxLoadFactor)
	assert.Equal(t, 0, cfg.Table.MaxChainLength)
	assert.Equal(t, 4, cfg.Loader.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestParseConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
[table]
initial-capacity = 5
max-chain-length = 2

[loader]
workers = 8

[log]
level = "debug"
format = "json"
`)
	cfg, err := ParseConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Table.InitialCapacity)
	// untouched keys keep their defaults
	assert.Equal(t, 0.85, cfg.Table.MaxLoadFactor)
	assert.Equal(t, 2, cfg.Table.MaxChainLength)
	assert.Equal(t, 8, cfg.Loader.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestParseConfigFromFileErrors(t *testing.T) {
	_, err := ParseConfigFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, moerr.IsMoErrCode(err, moerr.ErrFileNotFound), "got %v", err)

	_, err = ParseConfigFromFile(writeConfig(t, "[table\n"))
	assert.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "got %v", err)

	_, err = ParseConfigFromFile(writeConfig(t, "[table]\ncapacity = 3\n"))
	assert.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "got %v", err)
	assert.Contains(t, err.Error(), "table.capacity")

	_, err = ParseConfigFromFile(writeConfig(t, "[table]\nmax-load-factor = 0.0\n"))
	assert.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "got %v", err)

	_, err = ParseConfigFromFile(writeConfig(t, "[log]\nlevel = \"verbose\"\n"))
	assert.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "got %v", err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "negative capacity", modify: func(c *Config) { c.Table.InitialCapacity = -1 }},
		{name: "zero load factor", modify: func(c *Config) { c.Table.MaxLoadFactor = 0 }},
		{name: "nan load factor", modify: func(c *Config) { c.Table.MaxLoadFactor = math.NaN() }},
		{name: "negative chain length", modify: func(c *Config) { c.Table.MaxChainLength = -3 }},
		{name: "no workers", modify: func(c *Config) { c.Loader.Workers = 0 }},
		{name: "log format", modify: func(c *Config) { c.Log.Format = "xml" }},
		{name: "log level", modify: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "stacktrace level", modify: func(c *Config) { c.Log.StacktraceLevel = "often" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			assert.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "got %v", err)
		})
	}

	cfg := NewConfig()
	cfg.Table.InitialCapacity = 0
	assert.NoError(t, cfg.Validate())
}
