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

// Package testing provides frame builders and a simulated sensor for tests.
package testing

import (
	"github.com/ZaparooProject/go-ba121/internal/frame"
)

// Sensor status bytes carried in acknowledge frames
const (
	StatusOK                    = 0x00
	StatusFrameError            = 0x01
	StatusBusy                  = 0x02
	StatusCheckError            = 0x03
	StatusTemperatureOutOfRange = 0x04
)

// BuildDataResponse creates a measurement frame carrying the raw
// concentration and NTC counts.
func BuildDataResponse(concentration, ntc uint16) []byte {
	f := frame.Encode(frame.HeaderData, uint32(concentration)<<16|uint32(ntc))
	return f[:]
}

// BuildAckResponse creates an acknowledge frame with the given status byte.
func BuildAckResponse(status byte) []byte {
	f := frame.Encode(frame.HeaderAck, uint32(status)<<24)
	return f[:]
}

// CorruptChecksum returns a copy of f with its checksum byte inverted.
func CorruptChecksum(f []byte) []byte {
	out := append([]byte(nil), f...)
	if len(out) > 0 {
		out[len(out)-1] ^= 0xFF
	}
	return out
}

// Truncate returns the first n bytes of f.
func Truncate(f []byte, n int) []byte {
	if n > len(f) {
		n = len(f)
	}
	return append([]byte(nil), f[:n]...)
}
