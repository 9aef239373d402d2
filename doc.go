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

/*
Package ba121 provides a pure Go driver for the AtomBit BA121 NDIR CO2 sensor.

The BA121 reports a CO2 concentration and the raw reading of an external NTC
thermistor used for temperature compensation. It speaks a fixed 6-byte
request/response protocol over a 9600 baud 8N1 UART. This package encodes the
requests, validates the responses and turns the raw counts into a concentration
in PPM and a temperature.

Features:
  - Serial transport on go.bug.st/serial and a periph.io transport
  - NTC Beta-model temperature decoding with configurable nominal resistance and B
  - Baseline (zero) calibration
  - Sensor status classification: ok, frame error, busy, check error and
    temperature out of range
  - Caller-driven retry with configurable backoff
  - A monitor loop for periodic sampling

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-ba121"
	    "github.com/ZaparooProject/go-ba121/transport/uart"
	)

	device, err := ba121.New(uart.New("/dev/ttyUSB0"))
	if err != nil {
	    log.Fatal(err)
	}
	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	m, err := device.Read()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("%s at %s\n", m.Concentration, m.Temperature)

Configure the thermistor to match the part fitted to the board. The values
are used to decode every read, and pushed to the sensor on Init when asked:

	device, err := ba121.New(transport,
	    ba121.WithNTCResistance(10*physic.KiloOhm),
	    ba121.WithNTCB(3435),
	    ba121.WithSendConfigOnInit(true),
	)

Timing:

The sensor needs time to answer. Read waits 800 ms between request and
response, and configuration and calibration commands wait 500 ms. Every call
blocks for at least that long.

Error Handling:

A non-OK status byte from the sensor is returned as a *StatusError wrapping
ErrResponse. Frame and transport failures wrap ErrChecksumMismatch,
ErrLengthMismatch, ErrHeaderMismatch or a *TransportError. IsRetryable reports
which failures are worth retrying, and RetryWithConfig does the retrying:

	err := ba121.RetryWithConfig(ctx, nil, func() error {
	    m, err = device.Read()
	    return err
	})

Thread Safety:

Device operations are not thread-safe. If you need concurrent access,
implement appropriate synchronization in your application.
*/
package ba121
