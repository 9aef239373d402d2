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

package testing

import (
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-ba121/calibration"
	"github.com/ZaparooProject/go-ba121/internal/frame"
	"periph.io/x/conn/v3/physic"
)

// ErrUnknownCommand is returned by Handle for an opcode the sensor does not implement.
var ErrUnknownCommand = errors.New("unknown command")

// VirtualSensor simulates a BA121 on the far side of the UART.
type VirtualSensor struct {
	// Concentration is the raw concentration reported by the next read.
	Concentration uint16
	// NTC is the raw thermistor counts reported by the next read.
	NTC uint16
	// Status, when non-zero, is returned as an acknowledge frame in place of
	// every response.
	Status byte
	// NTCResistance and NTCB hold the last configuration the sensor accepted.
	NTCResistance uint32
	NTCB          uint16
	Baselines     int
	Requests      int
	// Corrupt flips the checksum of every response.
	Corrupt bool
}

// NewVirtualSensor creates a sensor reading concentration at the given
// compensation temperature, with the default thermistor configuration.
func NewVirtualSensor(concentration uint16, celsius float64) *VirtualSensor {
	th := calibration.DefaultThermistor()
	return &VirtualSensor{
		Concentration: concentration,
		NTC:           th.Counts(celsius, calibration.DefaultReferenceResistor),
		NTCResistance: uint32(th.Nominal / physic.Ohm),
		NTCB:          th.B,
	}
}

// SetCelsius updates the raw thermistor counts to report celsius.
func (v *VirtualSensor) SetCelsius(celsius float64) {
	v.NTC = calibration.DefaultThermistor().Counts(celsius, calibration.DefaultReferenceResistor)
}

// Handle consumes one request frame and returns the response frame.
func (v *VirtualSensor) Handle(request []byte) ([]byte, error) {
	v.Requests++
	req, err := frame.Decode(request)
	if err != nil {
		return v.finish(BuildAckResponse(StatusFrameError)), nil
	}

	if v.Status != StatusOK {
		return v.finish(BuildAckResponse(v.Status)), nil
	}

	data := req.Data()
	switch opcode := req.Header; opcode {
	case frame.CmdRead:
		return v.finish(BuildDataResponse(v.Concentration, v.NTC)), nil
	case frame.CmdNTCResistance:
		v.NTCResistance = data
	case frame.CmdNTCB:
		v.NTCB = uint16(data >> 16)
	case frame.CmdBaseline:
		v.Baselines++
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownCommand, opcode)
	}
	return v.finish(BuildAckResponse(StatusOK)), nil
}

func (v *VirtualSensor) finish(resp []byte) []byte {
	if v.Corrupt {
		return CorruptChecksum(resp)
	}
	return resp
}
