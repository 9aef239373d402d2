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
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Status is the outcome of the most recent sensor exchange. Values match the
// status byte the sensor places in acknowledge frames.
type Status byte

const (
	StatusOK                    Status = 0x00
	StatusFrameError            Status = 0x01
	StatusBusy                  Status = 0x02
	StatusCheckError            Status = 0x03
	StatusTemperatureOutOfRange Status = 0x04
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFrameError:
		return "frame error"
	case StatusBusy:
		return "busy"
	case StatusCheckError:
		return "check error"
	case StatusTemperatureOutOfRange:
		return "temperature out of range"
	default:
		return fmt.Sprintf("Status(0x%02X)", byte(s))
	}
}

// ClassifyStatusByte maps a status byte from an acknowledge frame onto Status.
// Codes the sensor does not document are reported as StatusCheckError.
func ClassifyStatusByte(b byte) Status {
	switch s := Status(b); s {
	case StatusOK, StatusFrameError, StatusBusy, StatusCheckError, StatusTemperatureOutOfRange:
		return s
	default:
		return StatusCheckError
	}
}

// ClassifyError maps an operation error onto Status. Transport failures and
// frame validation failures are StatusFrameError.
func ClassifyError(err error) Status {
	if err == nil {
		return StatusOK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return StatusFrameError
}

// ClassifyTemperature reports StatusTemperatureOutOfRange when t lies outside
// the sensor's operating range.
func ClassifyTemperature(t physic.Temperature, info SensorInfo) Status {
	if t < info.TemperatureMin || t > info.TemperatureMax {
		return StatusTemperatureOutOfRange
	}
	return StatusOK
}
