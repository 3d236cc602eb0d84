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
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/chaintable/pkg/common/moerr"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunStdin(t *testing.T) {
	script := `
# fruits
apple
banana
insert apple
lookup apple
delete banana
delete banana
lookup cherry
`
	out, err := execute(t, script, "run", "--stats")
	require.NoError(t, err)
	require.Contains(t, out, "lookup apple: found\n")
	require.Contains(t, out, "delete banana: found\n")
	require.Contains(t, out, "delete banana: not found\n")
	require.Contains(t, out, "lookup cherry: not found\n")
	require.Contains(t, out, "Hashtable statistics:\n")
	require.Contains(t, out, "  Number of items in table: 2\n")
	require.Contains(t, out, "  Current table size: 10\n")
}

func TestRunFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 6; i++ {
		name := "w" + strconv.Itoa(i)
		files = append(files, writeFile(t, dir, name+".txt", name+"\nlookup "+name+"\n"))
	}
	// the last script removes what the first one inserted
	files = append(files, writeFile(t, dir, "tail.txt", "delete w0\nlookup w0\n"))

	out, err := execute(t, "", append([]string{"run", "--stats"}, files...)...)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "lookup w0: found\nlookup w1: found\n"), out)
	require.Contains(t, out, "lookup w5: found\ndelete w0: found\nlookup w0: not found\n")
	require.Contains(t, out, "  Number of items in table: 5\n")
}

func TestRunWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "chaintable.toml", `
[table]
initial-capacity = 5
max-load-factor = 10.0

[loader]
workers = 2
`)
	out, err := execute(t, "a\nb\nc\nd\ne\nf\n", "run", "--cfg", cfg, "--stats")
	require.NoError(t, err)
	require.Contains(t, out, "  Current table size: 5\n")
	require.Contains(t, out, "  Number of items in table: 6\n")

	// flags override the file
	out, err = execute(t, "a\nb\n", "run", "--cfg", cfg, "--capacity", "1", "--load-factor", "0.5", "--stats")
	require.NoError(t, err)
	require.Contains(t, out, "  Current table size: 7\n")
}

func TestRunDump(t *testing.T) {
	out, err := execute(t, "solo\n", "run", "--capacity", "1", "--load-factor", "2", "--dump")
	require.NoError(t, err)
	require.Equal(t, "Hashtable contents:\n0: [solo]\n", out)
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "upsert apple\n", "run")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput), "got %v", err)
	require.Contains(t, err.Error(), "stdin:1")

	_, err = execute(t, "insert a b\n", "run")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput), "got %v", err)

	_, err = execute(t, "", "run", filepath.Join(t.TempDir(), "missing.txt"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrFileNotFound), "got %v", err)

	_, err = execute(t, "a\n", "run", "--capacity", "-1")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "got %v", err)

	_, err = execute(t, "a\n", "run", "--capacity", "0")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState), "got %v", err)

	cfg := writeFile(t, t.TempDir(), "verbose.toml", "[log]\nlevel = \"verbose\"\n")
	require.NotPanics(t, func() {
		_, err = execute(t, "a\n", "run", "--cfg", cfg)
	})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig), "got %v", err)
}

func TestGen(t *testing.T) {
	n := 0
	stubs := gostub.Stub(&newItemName, func() string {
		n++
		return "item-" + strconv.Itoa(n)
	})
	defer stubs.Reset()

	out, err := execute(t, "", "gen", "--count", "20", "--capacity", "1", "--load-factor", "0.5", "--stats", "--dump")
	require.NoError(t, err)
	require.Equal(t, 20, n)
	require.Contains(t, out, "  Number of items in table: 20\n")
	// 1 -> 3 -> 7 -> 15 -> 31 -> 63
	require.Contains(t, out, "  Current table size: 63\n")
	for i := 1; i <= 20; i++ {
		require.Contains(t, out, "item-"+strconv.Itoa(i))
	}
}

func TestRunMetrics(t *testing.T) {
	out, err := execute(t, "a\nlookup a\n", "run", "--metrics")
	require.NoError(t, err)
	require.Contains(t, out, "# TYPE mo_chaintable_op_total counter\n")
	require.Contains(t, out, `mo_chaintable_op_total{op="lookup",result="hit"}`)
}

func TestRunLogsToFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "chaintable.log")
	cfg := writeFile(t, dir, "chaintable.toml", `
[table]
initial-capacity = 1
max-load-factor = 0.5

[log]
level = "debug"
format = "json"
filename = "`+logFile+`"
`)
	_, err := execute(t, "a\nb\n", "run", "--cfg", cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Regexp(t, `"msg":"resize".*"trigger":"load_factor"`, string(data))
	require.Regexp(t, `"msg":"chaintable stats".*"items":2`, string(data))
	require.Contains(t, string(data), `"msg":"done"`)
}

func TestGenNothing(t *testing.T) {
	out, err := execute(t, "", "gen", "--count", "-3", "--stats")
	require.NoError(t, err)
	require.Contains(t, out, "  Number of items in table: 0\n")
}
