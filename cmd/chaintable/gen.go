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
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matrixorigin/chaintable/pkg/logutil"
)

var newItemName = func() string {
	return uuid.NewString()
}

func genCommand(root *cobra.Command, arg *rootArg) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Insert random uuid strings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver(root, cmd, arg)
			if err != nil {
				return err
			}
			n := count
			if n <= 0 {
				logutil.Warn("nothing to generate", zap.Int("count", count))
				n = 0
			}
			ops := make([]op, 0, n)
			for i := 0; i < n; i++ {
				ops = append(ops, op{kind: opInsert, word: newItemName()})
			}
			if err := d.apply(ops); err != nil {
				return err
			}
			return d.finish()
		},
	}
	cmd.Flags().IntVar(&count, "count", 100, "number of strings to insert")
	return cmd
}
