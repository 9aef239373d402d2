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
	"time"

	ba121 "github.com/ZaparooProject/go-ba121"
	testutil "github.com/ZaparooProject/go-ba121/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// fakePort is an in-memory serial port. Reads deliver at most chunk bytes and
// return 0 once rx is drained, as a real port does after its read timeout.
type fakePort struct {
	readErr  error
	writeErr error
	closeErr error
	onWrite  func(p []byte) []byte
	rx       []byte
	tx       []byte
	timeout  time.Duration
	chunk    int
	resets   int
	closed   bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	n := len(f.rx)
	if f.chunk > 0 && n > f.chunk {
		n = f.chunk
	}
	n = copy(p, f.rx[:n])
	f.rx = f.rx[n:]
	return n, nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.tx = append(f.tx, p...)
	if f.onWrite != nil {
		f.rx = append(f.rx, f.onWrite(p)...)
	}
	return len(p), nil
}

func (f *fakePort) ResetInputBuffer() error {
	f.resets++
	f.rx = nil
	return nil
}

func (f *fakePort) SetReadTimeout(t time.Duration) error {
	f.timeout = t
	return nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return f.closeErr
}

func newFakeTransport(fp *fakePort) (*Transport, *serial.Mode) {
	var mode serial.Mode
	tr := New("/dev/ttyFAKE0", WithReadTimeout(10*time.Millisecond))
	tr.open = func(_ string, m *serial.Mode) (port, error) {
		mode = *m
		return fp, nil
	}
	return tr, &mode
}

// TestTransportCreation verifies basic transport creation and properties
func TestTransportCreation(t *testing.T) {
	t.Parallel()

	transport := New("/dev/ttyUSB0")
	assert.Equal(t, "/dev/ttyUSB0", transport.String())
	assert.Equal(t, ba121.TransportUART, transport.Type())
	assert.Equal(t, DefaultReadTimeout, transport.readTimeout)
	assert.False(t, transport.IsConnected())
}

func TestTransport_InitOpensAt9600(t *testing.T) {
	t.Parallel()

	fp := &fakePort{}
	tr, mode := newFakeTransport(fp)

	require.NoError(t, tr.Init())
	assert.True(t, tr.IsConnected())
	assert.Equal(t, serial.Mode{
		BaudRate: 9600,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}, *mode)
	assert.Equal(t, 10*time.Millisecond, fp.timeout)

	require.NoError(t, tr.Deinit())
	assert.True(t, fp.closed)
	assert.False(t, tr.IsConnected())
}

func TestTransport_InitErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		name     string
		wantType ba121.ErrorType
	}{
		{name: "Port_Busy", err: &serial.PortError{}, wantType: ba121.ErrorTypeTransient},
		{name: "Other", err: errors.New("boom"), wantType: ba121.ErrorTypeTransient},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := New("/dev/ttyNONE")
			tr.open = func(string, *serial.Mode) (port, error) { return nil, tt.err }

			err := tr.Init()
			var te *ba121.TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "/dev/ttyNONE", te.Port)
			assert.Equal(t, tt.wantType, te.Type)
			assert.False(t, tr.IsConnected())
		})
	}
}

func TestTransport_ReadAssemblesChunks(t *testing.T) {
	t.Parallel()

	resp := testutil.BuildDataResponse(400, 32768)
	fp := &fakePort{rx: append([]byte(nil), resp...), chunk: 2}
	tr, _ := newFakeTransport(fp)
	require.NoError(t, tr.Init())

	buf := make([]byte, 6)
	n, err := tr.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, resp, buf)
}

func TestTransport_ReadShortFrame(t *testing.T) {
	t.Parallel()

	fp := &fakePort{rx: []byte{0xAA, 0x01, 0x90}}
	tr, _ := newFakeTransport(fp)
	require.NoError(t, tr.Init())

	n, err := tr.Read(make([]byte, 6))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestTransport_ReadError(t *testing.T) {
	t.Parallel()

	fp := &fakePort{readErr: errors.New("input/output error")}
	tr, _ := newFakeTransport(fp)
	require.NoError(t, tr.Init())

	_, err := tr.Read(make([]byte, 6))
	require.Error(t, err)
	assert.True(t, ba121.IsRetryable(err))
}

func TestTransport_WriteAndFlush(t *testing.T) {
	t.Parallel()

	fp := &fakePort{rx: []byte{0xFF, 0xFF}}
	tr, _ := newFakeTransport(fp)
	require.NoError(t, tr.Init())

	require.NoError(t, tr.Flush())
	assert.Equal(t, 1, fp.resets)
	assert.Empty(t, fp.rx)

	req := []byte{0xA0, 0, 0, 0, 0, 0xA0}
	require.NoError(t, tr.Write(req))
	assert.Equal(t, req, fp.tx)
}

func TestTransport_DeviceRoundTrip(t *testing.T) {
	t.Parallel()

	sensor := testutil.NewVirtualSensor(750, 25)
	fp := &fakePort{chunk: 3, onWrite: func(p []byte) []byte {
		resp, err := sensor.Handle(p)
		if err != nil {
			return nil
		}
		return resp
	}}
	tr, _ := newFakeTransport(fp)

	device, err := ba121.New(tr, ba121.WithDelay(func(time.Duration) {}))
	require.NoError(t, err)
	require.NoError(t, device.Init())

	m, err := device.Read()
	require.NoError(t, err)
	assert.Equal(t, ba121.PPM(750), m.Concentration)

	require.NoError(t, device.Close())
	assert.True(t, fp.closed)
}
