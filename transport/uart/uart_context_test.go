// go-ba121
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-ba121.
//
// go-ba121 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-ba121 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ba121; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package uart

import (
	"errors"
	"testing"

	ba121 "github.com/ZaparooProject/go-ba121"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUARTNotOpen verifies operations on a closed transport fail fast with a
// permanent error instead of touching a port.
func TestUARTNotOpen(t *testing.T) {
	t.Parallel()

	transport := New("/dev/ttyUSB0")

	_, readErr := transport.Read(make([]byte, 6))
	ops := map[string]error{
		"read":  readErr,
		"write": transport.Write([]byte{0xA0}),
		"flush": transport.Flush(),
	}

	for op, err := range ops {
		require.ErrorIs(t, err, ErrNotOpen, op)
		assert.Equal(t, ba121.ErrorTypePermanent, ba121.GetErrorType(err), op)
		assert.False(t, ba121.IsRetryable(err), op)
	}
}

// TestUARTDeinitIdempotent verifies Deinit on a closed transport is a no-op
// and a failing close still releases the port.
func TestUARTDeinitIdempotent(t *testing.T) {
	t.Parallel()

	transport := New("/dev/ttyUSB0")
	require.NoError(t, transport.Deinit())

	fp := &fakePort{closeErr: errors.New("close failed")}
	tr, _ := newFakeTransport(fp)
	require.NoError(t, tr.Init())
	require.Error(t, tr.Deinit())
	assert.False(t, tr.IsConnected())
	require.NoError(t, tr.Deinit())
}
