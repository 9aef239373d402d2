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

// Package periph provides a BA121 Transport over a periph.io UART port or
// any conn.Conn.
package periph

import (
	"errors"
	"fmt"
	"sync"

	ba121 "github.com/ZaparooProject/go-ba121"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"
	"periph.io/x/conn/v3/uart/uartreg"
	"periph.io/x/host/v3"
)

// Frequency is the BA121 line speed.
const Frequency = 9600 * physic.Hertz

// ErrNotOpen is returned when the transport is used before Init or after Deinit.
var ErrNotOpen = errors.New("periph uart not open")

var hostInit = sync.OnceValue(func() error {
	_, err := host.Init()
	return err
})

// Transport implements ba121.Transport on a periph.io connection.
//
// Thread Safety: Transport is NOT thread-safe.
type Transport struct {
	conn  conn.Conn
	port  uart.PortCloser
	given conn.Conn
	name  string
}

// New creates a transport for the registered UART port name, e.g. "UART0".
// An empty name selects the first registered port. Init loads the host
// drivers and connects at 9600 8N1.
func New(name string) *Transport {
	return &Transport{name: name}
}

// NewConn creates a transport over an already configured connection. The
// connection is not closed by Deinit.
func NewConn(c conn.Conn) *Transport {
	return &Transport{given: c}
}

func (t *Transport) Init() error {
	if t.conn != nil {
		return nil
	}
	if t.given != nil {
		t.conn = t.given
		return nil
	}

	if err := hostInit(); err != nil {
		return t.wrap("host init", err, ba121.ErrorTypePermanent)
	}
	p, err := uartreg.Open(t.name)
	if err != nil {
		return t.wrap("open", err, ba121.ErrorTypePermanent)
	}
	c, err := p.Connect(Frequency, uart.One, uart.NoParity, uart.NoFlow, 8)
	if err != nil {
		_ = p.Close()
		return t.wrap("connect", err, ba121.ErrorTypePermanent)
	}
	t.port = p
	t.conn = c
	return nil
}

func (t *Transport) Deinit() error {
	t.conn = nil
	if t.port == nil {
		return nil
	}
	p := t.port
	t.port = nil
	if err := p.Close(); err != nil {
		return t.wrap("close", err, ba121.ErrorTypeTransient)
	}
	return nil
}

// Read reads exactly len(buf) bytes through conn.Conn.Tx.
func (t *Transport) Read(buf []byte) (int, error) {
	if t.conn == nil {
		return 0, t.wrap("read", ErrNotOpen, ba121.ErrorTypePermanent)
	}
	if err := t.conn.Tx(nil, buf); err != nil {
		return 0, t.wrap("read", err, ba121.ErrorTypeTransient)
	}
	return len(buf), nil
}

func (t *Transport) Write(data []byte) error {
	if t.conn == nil {
		return t.wrap("write", ErrNotOpen, ba121.ErrorTypePermanent)
	}
	if err := t.conn.Tx(data, nil); err != nil {
		return t.wrap("write", err, ba121.ErrorTypeTransient)
	}
	return nil
}

// Flush is a no-op: conn.Conn exposes no input buffer.
func (t *Transport) Flush() error {
	if t.conn == nil {
		return t.wrap("flush", ErrNotOpen, ba121.ErrorTypePermanent)
	}
	return nil
}

// Type returns the transport type
func (*Transport) Type() ba121.TransportType {
	return ba121.TransportPeriph
}

func (t *Transport) String() string {
	switch {
	case t.conn != nil:
		return t.conn.String()
	case t.given != nil:
		return t.given.String()
	case t.name != "":
		return t.name
	default:
		return string(ba121.TransportPeriph)
	}
}

func (t *Transport) wrap(op string, err error, errType ba121.ErrorType) error {
	return ba121.NewTransportError(op, t.String(), fmt.Errorf("periph %s: %w", op, err), errType)
}

var _ ba121.Transport = (*Transport)(nil)
