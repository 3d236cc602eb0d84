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
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/chaintable/pkg/common/moerr"
	"github.com/matrixorigin/chaintable/pkg/logutil"
)

type opKind int

const (
	opInsert opKind = iota
	opDelete
	opLookup
)

type op struct {
	kind opKind
	word string
}

func runCommand(root *cobra.Command, arg *rootArg) *cobra.Command {
	return &cobra.Command{
		Use:   "run [file...]",
		Short: "Apply operation scripts, read from stdin when no file is given",
		Long: "Each script line is \"insert <w>\", \"delete <w>\", \"lookup <w>\" or a bare word,\n" +
			"which is inserted. Blank lines and lines starting with # are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver(root, cmd, arg)
			if err != nil {
				return err
			}
			var scripts [][]op
			if len(args) == 0 {
				logutil.Debug("reading operations from stdin")
				ops, err := parseScript(cmd.InOrStdin(), "stdin")
				if err != nil {
					return err
				}
				scripts = [][]op{ops}
			} else if scripts, err = loadScripts(args, d.cfg.Loader.Workers); err != nil {
				return err
			}
			for _, ops := range scripts {
				if err := d.apply(ops); err != nil {
					return err
				}
			}
			return d.finish()
		},
	}
}

// loadScripts parses files concurrently. The result keeps the order of
// files so that operations are applied deterministically.
func loadScripts(files []string, workers int) ([][]op, error) {
	start := time.Now()
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, moerr.NewInternalErrorNoCtx("create loader pool: %v", err)
	}
	defer pool.Release()

	scripts := make([][]op, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i, name := range files {
		i, name := i, name
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			scripts[i], errs[i] = parseFile(name)
		}); err != nil {
			wg.Done()
			errs[i] = moerr.NewInternalErrorNoCtx("submit %s: %v", name, err)
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			logutil.Error("failed to load script", zap.String("file", files[i]), zap.Error(err))
			return nil, err
		}
	}
	logutil.Info("scripts loaded",
		zap.Int("files", len(files)),
		zap.Int("workers", workers),
		logutil.DurationField(time.Since(start)))
	return scripts, nil
}

func parseFile(name string) ([]op, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, moerr.ConvertGoError(moerr.Context(), err)
	}
	defer f.Close()
	return parseScript(f, name)
}

func parseScript(r io.Reader, name string) ([]op, error) {
	var ops []op
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch len(fields) {
		case 1:
			ops = append(ops, op{kind: opInsert, word: fields[0]})
		case 2:
			var kind opKind
			switch fields[0] {
			case "insert":
				kind = opInsert
			case "delete":
				kind = opDelete
			case "lookup":
				kind = opLookup
			default:
				return nil, moerr.NewInvalidInputNoCtx("%s:%d: unknown operation %q", name, line, fields[0])
			}
			ops = append(ops, op{kind: kind, word: fields[1]})
		default:
			return nil, moerr.NewInvalidInputNoCtx("%s:%d: expected \"<operation> <word>\"", name, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, moerr.ConvertGoError(moerr.Context(), err)
	}
	return ops, nil
}
