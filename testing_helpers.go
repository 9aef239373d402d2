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
	"sync"
)

// MockTransport is an in-memory Transport for tests. Responses are served
// either from a queue, one per Read, or by Handler, which sees every written
// request frame and returns the bytes the next Read delivers.
type MockTransport struct {
	Handler   func(request []byte) ([]byte, error)
	InitErr   error
	DeinitErr error
	ReadErr   error
	WriteErr  error
	FlushErr  error

	responses [][]byte
	pending   []byte
	written   [][]byte
	calls     map[string]int
	mu        sync.Mutex
}

// NewMockTransport creates a mock transport that serves responses in order.
func NewMockTransport(responses ...[]byte) *MockTransport {
	m := &MockTransport{calls: make(map[string]int)}
	for _, r := range responses {
		m.QueueResponse(r)
	}
	return m
}

// QueueResponse appends the bytes returned by a later Read.
func (m *MockTransport) QueueResponse(resp []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, append([]byte(nil), resp...))
}

func (m *MockTransport) count(op string) {
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

func (m *MockTransport) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("init")
	return m.InitErr
}

func (m *MockTransport) Deinit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("deinit")
	return m.DeinitErr
}

func (m *MockTransport) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("flush")
	if m.FlushErr != nil {
		return m.FlushErr
	}
	m.pending = nil
	return nil
}

func (m *MockTransport) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("write")
	if m.WriteErr != nil {
		return m.WriteErr
	}
	req := append([]byte(nil), data...)
	m.written = append(m.written, req)
	if m.Handler != nil {
		resp, err := m.Handler(req)
		if err != nil {
			return err
		}
		m.pending = resp
	}
	return nil
}

// Read copies the next response into buf. With no response available it
// returns 0 bytes, which the Device sees as a timeout.
func (m *MockTransport) Read(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count("read")
	if m.ReadErr != nil {
		return 0, m.ReadErr
	}
	if m.pending == nil && len(m.responses) > 0 {
		m.pending = m.responses[0]
		m.responses = m.responses[1:]
	}
	n := copy(buf, m.pending)
	m.pending = m.pending[n:]
	if len(m.pending) == 0 {
		m.pending = nil
	}
	return n, nil
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// Written returns a copy of every frame written so far.
func (m *MockTransport) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	for i, w := range m.written {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// CallCount returns how many times op ("init", "deinit", "read", "write",
// "flush") was called.
func (m *MockTransport) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (m *MockTransport) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}
