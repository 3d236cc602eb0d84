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

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/chaintable/pkg/config"
	"github.com/matrixorigin/chaintable/pkg/container/chaintable"
	"github.com/matrixorigin/chaintable/pkg/container/keys"
	"github.com/matrixorigin/chaintable/pkg/logutil"
	"github.com/matrixorigin/chaintable/pkg/util/metric/stats"
	v2 "github.com/matrixorigin/chaintable/pkg/util/metric/v2"
)

type rootArg struct {
	cfgFile    string
	capacity   int
	loadFactor float64
	maxChain   int
	dump       bool
	stats      bool
	metrics    bool
}

func newRootCommand() *cobra.Command {
	arg := new(rootArg)
	root := &cobra.Command{
		Use:          "chaintable",
		Short:        "Drive a chained hash table of words",
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&arg.cfgFile, "cfg", "", "toml configuration, defaults are used when empty")
	flags.IntVar(&arg.capacity, "capacity", 0, "initial capacity, overrides the configuration")
	flags.Float64Var(&arg.loadFactor, "load-factor", 0, "max load factor, overrides the configuration")
	flags.IntVar(&arg.maxChain, "max-chain", 0, "max chain length, 0 is unbounded, overrides the configuration")
	flags.BoolVar(&arg.dump, "dump", false, "print the table contents when done")
	flags.BoolVar(&arg.stats, "stats", false, "print the table statistics when done")
	flags.BoolVar(&arg.metrics, "metrics", false, "print the prometheus metrics when done")

	root.AddCommand(runCommand(root, arg), genCommand(root, arg))
	return root
}

// loadConfig reads the configuration file and applies the flags the user
// set explicitly on top of it.
func (arg *rootArg) loadConfig(root *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	if arg.cfgFile != "" {
		var err error
		if cfg, err = config.ParseConfigFromFile(arg.cfgFile); err != nil {
			return nil, err
		}
	}
	flags := root.PersistentFlags()
	if flags.Changed("capacity") {
		cfg.Table.InitialCapacity = arg.capacity
	}
	if flags.Changed("load-factor") {
		cfg.Table.MaxLoadFactor = arg.loadFactor
	}
	if flags.Changed("max-chain") {
		cfg.Table.MaxChainLength = arg.maxChain
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type driver struct {
	arg    *rootArg
	cfg    *config.Config
	table  *chaintable.Table[keys.String]
	out    io.Writer
	logger *zap.Logger
	start  time.Time
	ops    int
}

func newDriver(root *cobra.Command, cmd *cobra.Command, arg *rootArg) (*driver, error) {
	cfg, err := arg.loadConfig(root)
	if err != nil {
		return nil, err
	}
	logutil.SetupMOLogger(&cfg.Log)

	table, err := chaintable.New[keys.String](
		cfg.Table.InitialCapacity,
		cfg.Table.MaxLoadFactor,
		cfg.Table.MaxChainLength,
		chaintable.WithName(cmd.Name()))
	if err != nil {
		return nil, err
	}
	return &driver{
		arg:    arg,
		cfg:    cfg,
		table:  table,
		out:    cmd.OutOrStdout(),
		logger: logutil.GetGlobalLogger().Named("chaintable-cli"),
		start:  time.Now(),
	}, nil
}

func (d *driver) apply(ops []op) error {
	for _, o := range ops {
		d.ops++
		item := keys.String(o.word)
		switch o.kind {
		case opInsert:
			if err := d.table.Insert(item); err != nil {
				return err
			}
		case opLookup:
			_, ok := d.table.Lookup(item)
			fmt.Fprintf(d.out, "lookup %s: %s\n", o.word, found(ok))
		case opDelete:
			_, ok := d.table.Delete(item)
			fmt.Fprintf(d.out, "delete %s: %s\n", o.word, found(ok))
		}
	}
	return nil
}

func found(ok bool) string {
	if ok {
		return "found"
	}
	return "not found"
}

func (d *driver) finish() error {
	if d.arg.dump {
		if err := d.table.Dump(d.out); err != nil {
			return err
		}
	}
	if d.arg.stats {
		if err := d.table.DisplayStats(d.out); err != nil {
			return err
		}
	}
	if d.arg.metrics {
		if err := v2.WriteText(d.out); err != nil {
			return err
		}
	}
	stats.NewFamily("chaintable", chaintable.NewStatsLogExporter(d.table)).Log(d.logger)
	d.logger.Info("done",
		zap.Int("operations", d.ops),
		logutil.DurationField(time.Since(d.start)))
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
