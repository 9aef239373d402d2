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
	"math"
	"time"

	"github.com/ZaparooProject/go-ba121/calibration"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithLogger sets the debug sink. Without it the Device logs through the
// package logger enabled by SetDebugEnabled.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Device) error {
		l := logger.With().Str("device", "ba121").Logger()
		d.logger = &l
		return nil
	}
}

// WithDelay sets the blocking delay used for settle times. Defaults to time.Sleep.
func WithDelay(fn DelayFunc) Option {
	return func(d *Device) error {
		if fn == nil {
			return fmt.Errorf("%w: delay function is nil", ErrInvalidParameter)
		}
		d.delay = fn
		return nil
	}
}

// WithNTCResistance sets the initial NTC nominal resistance used to decode
// temperatures. It is sent to the sensor only with WithSendConfigOnInit.
func WithNTCResistance(r physic.ElectricResistance) Option {
	return func(d *Device) error {
		if _, err := ntcOhms(r); err != nil {
			return err
		}
		d.config.Thermistor.Nominal = r
		return nil
	}
}

// WithNTCB sets the initial NTC B coefficient used to decode temperatures.
// It is sent to the sensor only with WithSendConfigOnInit.
func WithNTCB(b uint16) Option {
	return func(d *Device) error {
		if b == 0 {
			return fmt.Errorf("%w: ntc b must be positive", ErrInvalidParameter)
		}
		d.config.Thermistor.B = b
		return nil
	}
}

// WithCurve sets the concentration calibration curve
func WithCurve(curve calibration.Curve) Option {
	return func(d *Device) error {
		if err := curve.Validate(); err != nil {
			return err
		}
		d.config.Curve = curve
		return nil
	}
}

// WithReferenceResistor sets the fixed divider resistor the NTC is measured against
func WithReferenceResistor(r physic.ElectricResistance) Option {
	return func(d *Device) error {
		if r <= 0 {
			return fmt.Errorf("%w: reference resistor %s must be positive", ErrInvalidParameter, r)
		}
		d.config.ReferenceResistor = r
		return nil
	}
}

// WithSendConfigOnInit pushes the configured NTC resistance and B value to the
// sensor as part of Init.
func WithSendConfigOnInit(enabled bool) Option {
	return func(d *Device) error {
		d.config.SendConfigOnInit = enabled
		return nil
	}
}

// WithSettleDelay sets the delay applied after the transport is opened
func WithSettleDelay(delay time.Duration) Option {
	return func(d *Device) error {
		if delay < 0 {
			return fmt.Errorf("%w: settle delay %v", ErrInvalidParameter, delay)
		}
		d.config.SettleDelay = delay
		return nil
	}
}

// WithResponseDelays sets the delays between writing a request and reading
// its response, for read requests and for command requests respectively.
func WithResponseDelays(read, command time.Duration) Option {
	return func(d *Device) error {
		if read < 0 || command < 0 {
			return fmt.Errorf("%w: response delays %v/%v", ErrInvalidParameter, read, command)
		}
		d.config.ReadDelay = read
		d.config.CommandDelay = command
		return nil
	}
}

// ntcOhms converts r to the whole-ohm value carried on the wire.
func ntcOhms(r physic.ElectricResistance) (uint32, error) {
	if r <= 0 {
		return 0, fmt.Errorf("%w: ntc resistance %s must be positive", ErrInvalidParameter, r)
	}
	if r%physic.Ohm != 0 {
		return 0, fmt.Errorf("%w: ntc resistance %s must be whole ohms", ErrInvalidParameter, r)
	}
	ohms := r / physic.Ohm
	if ohms > math.MaxUint32 {
		return 0, fmt.Errorf("%w: ntc resistance %s out of range", ErrInvalidParameter, r)
	}
	return uint32(ohms), nil
}
