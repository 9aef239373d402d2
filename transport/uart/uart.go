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

// Package uart provides a serial-port Transport for the BA121 using
// go.bug.st/serial.
package uart

import (
	"errors"
	"fmt"
	"time"

	ba121 "github.com/ZaparooProject/go-ba121"
	"github.com/ZaparooProject/go-ba121/internal/transport"
	"go.bug.st/serial"
)

const (
	// BaudRate is the BA121's fixed line speed (8N1).
	BaudRate = 9600
	// DefaultReadTimeout bounds one response frame. Six bytes take about
	// 6 ms at 9600 baud; the margin covers USB adapters.
	DefaultReadTimeout = 200 * time.Millisecond

	writeRetries = 3
)

// port is the part of serial.Port the transport uses.
type port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	ResetInputBuffer() error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// ErrNotOpen is returned when the transport is used before Init or after Deinit.
var ErrNotOpen = errors.New("serial port not open")

type openFunc func(name string, mode *serial.Mode) (port, error)

func openSerial(name string, mode *serial.Mode) (port, error) {
	return serial.Open(name, mode)
}

// Transport implements ba121.Transport over a serial port.
//
// Thread Safety: Transport is NOT thread-safe, matching the Device that owns it.
type Transport struct {
	port        port
	open        openFunc
	portName    string
	readTimeout time.Duration
}

// Option configures a Transport
type Option func(*Transport)

// WithReadTimeout sets how long a response read may wait for the line to go idle.
func WithReadTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.readTimeout = d
		}
	}
}

// New creates a UART transport for portName, e.g. "/dev/ttyUSB0" or "COM3".
// The port is opened by Init.
func New(portName string, opts ...Option) *Transport {
	t := &Transport{
		portName:    portName,
		open:        openSerial,
		readTimeout: DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init opens the port at 9600 baud, 8 data bits, no parity, 1 stop bit.
func (t *Transport) Init() error {
	if t.port != nil {
		return nil
	}
	p, err := t.open(t.portName, &serial.Mode{
		BaudRate: BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return t.wrap("open", err)
	}
	if err := p.SetReadTimeout(t.readTimeout); err != nil {
		_ = p.Close()
		return t.wrap("set read timeout", err)
	}
	t.port = p
	return nil
}

// Deinit closes the port.
func (t *Transport) Deinit() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	if err != nil {
		return t.wrap("close", err)
	}
	return nil
}

// Read fills buf until it is full or the line stays idle for the read timeout.
func (t *Transport) Read(buf []byte) (int, error) {
	if t.port == nil {
		return 0, t.wrap("read", ErrNotOpen)
	}
	n, err := transport.ReadFull(t.port.Read, buf, t.readTimeout*time.Duration(len(buf)+1))
	if err != nil {
		return n, t.wrap("read", err)
	}
	return n, nil
}

// Write writes all of data.
func (t *Transport) Write(data []byte) error {
	if t.port == nil {
		return t.wrap("write", ErrNotOpen)
	}
	if err := transport.WriteFull(t.port.Write, data, writeRetries); err != nil {
		return t.wrap("write", err)
	}
	return nil
}

// Flush discards unread input.
func (t *Transport) Flush() error {
	if t.port == nil {
		return t.wrap("flush", ErrNotOpen)
	}
	if err := t.port.ResetInputBuffer(); err != nil {
		return t.wrap("flush", err)
	}
	return nil
}

// IsConnected reports whether the port is open.
func (t *Transport) IsConnected() bool {
	return t.port != nil
}

// Type returns the transport type
func (*Transport) Type() ba121.TransportType {
	return ba121.TransportUART
}

// String returns the port name.
func (t *Transport) String() string {
	return t.portName
}

// wrap classifies err as a ba121.TransportError. Configuration and permission
// failures are permanent; anything else may clear on retry.
func (t *Transport) wrap(op string, err error) error {
	var te *ba121.TransportError
	if errors.As(err, &te) {
		return err
	}

	errType := ba121.ErrorTypeTransient
	if errors.Is(err, ErrNotOpen) {
		errType = ba121.ErrorTypePermanent
	}
	if code, ok := portErrorCode(err); ok {
		switch code {
		case serial.PortNotFound, serial.PermissionDenied, serial.InvalidSerialPort,
			serial.InvalidSpeed, serial.InvalidDataBits, serial.InvalidParity,
			serial.InvalidStopBits, serial.InvalidTimeoutValue, serial.FunctionNotImplemented:
			errType = ba121.ErrorTypePermanent
		case serial.PortBusy, serial.PortClosed, serial.ErrorEnumeratingPorts:
			errType = ba121.ErrorTypeTransient
		}
	}
	return ba121.NewTransportError(op, t.portName, fmt.Errorf("uart %s: %w", op, err), errType)
}

// portErrorCode extracts the code of a serial.PortError, which the library
// returns both by value and by pointer.
func portErrorCode(err error) (serial.PortErrorCode, bool) {
	var ptr *serial.PortError
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code(), true
	}
	var val serial.PortError
	if errors.As(err, &val) {
		return val.Code(), true
	}
	return 0, false
}

var _ ba121.Transport = (*Transport)(nil)
