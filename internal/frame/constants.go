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

// Package frame provides frame encoding, decoding and protocol constants for BA121 communication
package frame

// Size is the fixed length of every request and response frame.
// Layout: [opcode|header][d3][d2][d1][d0][checksum]
const Size = 6

// Frame field offsets
const (
	OffsetHeader   = 0
	OffsetPayload  = 1
	OffsetChecksum = 5
	PayloadLength  = 4
)

// Command opcodes sent from host to sensor
const (
	CmdRead          = 0xA0 // Read concentration and NTC counts
	CmdNTCResistance = 0xA3 // Set NTC nominal resistance (ohms, 32-bit)
	CmdNTCB          = 0xA5 // Set NTC B coefficient (16-bit, upper half of payload)
	CmdBaseline      = 0xA6 // Zero-point (baseline) calibration
)

// Response headers sent from sensor to host
const (
	HeaderData = 0xAA // Measurement data frame
	HeaderAck  = 0xAC // Command acknowledge frame, payload[0] is the status byte
)
