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

package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame errors
var (
	ErrLengthMismatch   = errors.New("frame length mismatch")
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
	ErrHeaderMismatch   = errors.New("frame header invalid")
	ErrPayloadLength    = errors.New("payload length invalid")
)

// Response is a frame that passed length and checksum validation. Header holds
// the opcode for request frames.
type Response struct {
	Header   byte
	Payload  [PayloadLength]byte
	Checksum byte
}

// Data returns the payload as a big-endian 32-bit word.
func (r *Response) Data() uint32 {
	return binary.BigEndian.Uint32(r.Payload[:])
}

// IsData reports whether the response is a measurement data frame.
func (r *Response) IsData() bool {
	return r.Header == HeaderData
}

// IsAck reports whether the response is a command acknowledge frame.
func (r *Response) IsAck() bool {
	return r.Header == HeaderAck
}

// Status returns the device status byte carried by an acknowledge frame.
func (r *Response) Status() byte {
	return r.Payload[0]
}

// Encode builds a command frame for opcode with data packed big-endian into the payload.
func Encode(opcode byte, data uint32) [Size]byte {
	var f [Size]byte
	f[OffsetHeader] = opcode
	binary.BigEndian.PutUint32(f[OffsetPayload:OffsetChecksum], data)
	f[OffsetChecksum] = Checksum(f[:OffsetChecksum])
	return f
}

// EncodePayload builds a command frame from a raw 4-byte payload.
func EncodePayload(opcode byte, payload []byte) ([]byte, error) {
	if len(payload) != PayloadLength {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrPayloadLength, len(payload), PayloadLength)
	}
	f := Encode(opcode, binary.BigEndian.Uint32(payload))
	return f[:], nil
}

// Decode validates a frame and extracts its fields. Only the length and the
// checksum are checked; the header and payload are returned as received, so
// Decode also reads back frames built by Encode.
func Decode(b []byte) (*Response, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrLengthMismatch, len(b), Size)
	}

	want := Checksum(b[:OffsetChecksum])
	if b[OffsetChecksum] != want {
		return nil, fmt.Errorf("%w: got 0x%02X, expected 0x%02X", ErrChecksumMismatch, b[OffsetChecksum], want)
	}

	resp := &Response{
		Header:   b[OffsetHeader],
		Checksum: b[OffsetChecksum],
	}
	copy(resp.Payload[:], b[OffsetPayload:OffsetChecksum])
	return resp, nil
}
