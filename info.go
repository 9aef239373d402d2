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
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// DriverVersion is encoded as major*1000 + minor*100.
const DriverVersion = 1000

// SensorInfo describes the BA121 chip and this driver.
type SensorInfo struct {
	ChipName         string
	Manufacturer     string
	Interface        string
	SupplyVoltageMin physic.ElectricPotential
	SupplyVoltageMax physic.ElectricPotential
	MaxCurrent       physic.ElectricCurrent
	TemperatureMin   physic.Temperature
	TemperatureMax   physic.Temperature
	DriverVersion    uint32
}

var sensorInfo = SensorInfo{
	ChipName:         "AtomBit BA121",
	Manufacturer:     "AtomBit",
	Interface:        "UART",
	SupplyVoltageMin: 3300 * physic.MilliVolt,
	SupplyVoltageMax: 5 * physic.Volt,
	MaxCurrent:       3 * physic.MilliAmpere,
	TemperatureMin:   physic.ZeroCelsius - 10*physic.Celsius,
	TemperatureMax:   physic.ZeroCelsius + 75*physic.Celsius,
	DriverVersion:    DriverVersion,
}

// Info returns the static chip information. It performs no I/O.
func Info() SensorInfo {
	return sensorInfo
}

// Version returns the driver version as "major.minor".
func (i SensorInfo) Version() string {
	return fmt.Sprintf("%d.%d", i.DriverVersion/1000, (i.DriverVersion%1000)/100)
}
