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
	"errors"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/chaintable/pkg/common/moerr"
	"github.com/matrixorigin/chaintable/pkg/logutil"
)

const (
	defaultInitialCapacity = 10
	defaultMaxLoadFactor   = 0.85
	defaultMaxChainLength  = 0
	defaultWorkers         = 4
)

// Config is the toml configuration of the chaintable driver.
type Config struct {
	Table  TableConfig       `toml:"table"`
	Loader LoaderConfig      `toml:"loader"`
	Log    logutil.LogConfig `toml:"log"`
}

// TableConfig holds the construction parameters of the table.
type TableConfig struct {
	//number of buckets allocated up front. default: 10
	InitialCapacity int `toml:"initial-capacity"`

	//an insert that would push the load factor above this resizes first. default: 0.85
	MaxLoadFactor float64 `toml:"max-load-factor"`

	//0 means chains are unbounded. default: 0
	MaxChainLength int `toml:"max-chain-length"`
}

// LoaderConfig controls how input scripts are read.
type LoaderConfig struct {
	//number of files parsed concurrently. default: 4
	Workers int `toml:"workers"`
}

// NewConfig returns a Config filled with defaults.
func NewConfig() *Config {
	return &Config{
		Table: TableConfig{
			InitialCapacity: defaultInitialCapacity,
			MaxLoadFactor:   defaultMaxLoadFactor,
			MaxChainLength:  defaultMaxChainLength,
		},
		Loader: LoaderConfig{
			Workers: defaultWorkers,
		},
		Log: logutil.LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ParseConfigFromFile decodes path over the defaults and validates the
// result. Unknown keys are rejected.
func ParseConfigFromFile(path string) (*Config, error) {
	cfg := NewConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, moerr.NewFileNotFoundNoCtx(path)
		}
		return nil, moerr.NewBadConfigNoCtx("decode %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, moerr.NewBadConfigNoCtx("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate applies the same rules the table constructor does.
func (c *Config) Validate() error {
	if c.Table.InitialCapacity < 0 {
		return moerr.NewBadConfigNoCtx("initial-capacity must not be negative, got %d", c.Table.InitialCapacity)
	}
	if !(c.Table.MaxLoadFactor > 0) {
		return moerr.NewBadConfigNoCtx("max-load-factor must be positive, got %v", c.Table.MaxLoadFactor)
	}
	if c.Table.MaxChainLength < 0 {
		return moerr.NewBadConfigNoCtx("max-chain-length must not be negative, got %d", c.Table.MaxChainLength)
	}
	if c.Loader.Workers <= 0 {
		return moerr.NewBadConfigNoCtx("workers must be positive, got %d", c.Loader.Workers)
	}
	return c.Log.Validate()
}
