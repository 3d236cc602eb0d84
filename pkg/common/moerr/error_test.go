// Copyright 2021 - 2022 Matrix Origin
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

package moerr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMoErrCode(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		err      error
		code     uint16
		expected bool
	}{
		{
			name:     "nil error is ok",
			err:      nil,
			code:     Ok,
			expected: true,
		},
		{
			name:     "nil error is not invalid arg",
			err:      nil,
			code:     ErrInvalidArg,
			expected: false,
		},
		{
			name:     "invalid arg",
			err:      NewInvalidArg(ctx, "capacity", -1),
			code:     ErrInvalidArg,
			expected: true,
		},
		{
			name:     "wrapped invalid state",
			err:      fmt.Errorf("insert: %w", NewInvalidStateNoCtx("zero capacity")),
			code:     ErrInvalidState,
			expected: true,
		},
		{
			name:     "null value is not invalid arg",
			err:      NewNullValueNoCtx("item"),
			code:     ErrInvalidArg,
			expected: false,
		},
		{
			name:     "standard error",
			err:      errors.New("some error"),
			code:     ErrInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMoErrCode(tt.err, tt.code))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewInvalidArgNoCtx("max load factor", 0.0)
	require.Equal(t, "invalid argument max load factor, bad value 0", err.Error())
	require.Equal(t, ErrInvalidArg, err.ErrorCode())
	require.False(t, err.Succeeded())

	err = NewBadConfigNoCtx("workers must be positive, got %d", 0)
	require.Equal(t, "invalid configuration: workers must be positive, got 0", err.Error())
	require.Equal(t, err.Error(), err.Display())

	err.WithDetail("loader.workers")
	require.Equal(t, "invalid configuration: workers must be positive, got 0: loader.workers", err.Display())
	require.Equal(t, "loader.workers", err.Detail())
}

func TestNewErrorUnknownCode(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		require.True(t, IsMoErrCode(r.(error), ErrInternal))
	}()
	_ = newError(context.Background(), 12345)
}

func TestConvertGoError(t *testing.T) {
	ctx := context.Background()
	require.Nil(t, ConvertGoError(ctx, nil))

	orig := NewInvalidStateNoCtx("x")
	require.Equal(t, error(orig), ConvertGoError(ctx, orig))

	_, err := os.Open(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	require.True(t, IsMoErrCode(ConvertGoError(ctx, err), ErrFileNotFound))

	require.True(t, IsMoErrCode(ConvertGoError(ctx, io.ErrUnexpectedEOF), ErrInvalidInput))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, errors.New("boom")), ErrInternal))
}
