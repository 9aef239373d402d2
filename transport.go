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

package ba121

import (
	"time"
)

// Transport is the byte-level serial link the Device drives. It is supplied
// by the platform (see transport/uart and transport/periph) and borrowed by
// the Device for its lifetime.
//
// All methods block. Timeouts are the transport's responsibility: a read that
// times out returns the bytes received so far, or an error.
type Transport interface {
	// Init opens the serial link
	Init() error

	// Deinit closes the serial link
	Deinit() error

	// Read reads up to len(buf) bytes and returns the number read
	Read(buf []byte) (int, error)

	// Write writes the whole of data or fails
	Write(data []byte) error

	// Flush discards any pending input
	Flush() error
}

// DelayFunc blocks for d. The Device uses it for protocol settle times.
type DelayFunc func(d time.Duration)

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents a serial port opened through go.bug.st/serial.
	TransportUART TransportType = "uart"
	// TransportPeriph represents a periph.io conn.Conn, e.g. a registered UART port.
	TransportPeriph TransportType = "periph"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// TransportTyper is implemented by transports that report their type.
type TransportTyper interface {
	Type() TransportType
}

// transportName returns a printable name for t, used in errors and logs.
func transportName(t Transport) string {
	if s, ok := t.(interface{ String() string }); ok {
		return s.String()
	}
	if tt, ok := t.(TransportTyper); ok {
		return string(tt.Type())
	}
	return "transport"
}
