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

// Package calibration converts raw BA121 counts into physical units.
//
// The sensor reports its NTC thermistor as a 16-bit ADC count taken across a
// divider: the thermistor is the low side and a fixed reference resistor the
// high side. The count is turned into a resistance and then into a temperature
// with the Beta-parameter equation
//
//	T = 1 / (1/T0 + (1/B) * ln(R/R0)) - 273.15
//
// where T0 is 298.15 K (25 °C), R0 the thermistor's nominal resistance and B
// its Beta coefficient. All arithmetic is float64.
package calibration

import (
	"errors"
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
)

// Calibration errors
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrADCRail          = errors.New("adc count at rail")
	ErrOutOfModel       = errors.New("temperature outside thermistor model")
)

const (
	// ADCFullScale is the largest count the 16-bit ADC reports.
	ADCFullScale = 65535

	// ReferenceKelvin is T0, the temperature at which the thermistor measures R0.
	ReferenceKelvin = 298.15

	kelvinOffset = 273.15
)

// DefaultReferenceResistor is the fixed high-side divider resistor.
const DefaultReferenceResistor = 10 * physic.KiloOhm

// Default thermistor parameters, matching common 10k NTC parts.
const (
	DefaultNominal = 10 * physic.KiloOhm
	DefaultB       = 3435
)

// Thermistor describes an NTC thermistor by its nominal resistance at 25 °C
// and its Beta coefficient.
type Thermistor struct {
	Nominal physic.ElectricResistance
	B       uint16
}

// DefaultThermistor returns a 10 kΩ, B=3435 thermistor.
func DefaultThermistor() Thermistor {
	return Thermistor{Nominal: DefaultNominal, B: DefaultB}
}

// Validate checks that both parameters are positive.
func (t Thermistor) Validate() error {
	if t.Nominal <= 0 {
		return fmt.Errorf("%w: nominal resistance %s must be positive", ErrInvalidParameter, t.Nominal)
	}
	if t.B == 0 {
		return fmt.Errorf("%w: B coefficient must be positive", ErrInvalidParameter)
	}
	return nil
}

// Resistance converts an ADC count into the thermistor resistance in ohms.
func Resistance(counts uint16, rref physic.ElectricResistance) (float64, error) {
	if rref <= 0 {
		return 0, fmt.Errorf("%w: reference resistor %s must be positive", ErrInvalidParameter, rref)
	}
	if counts == 0 || counts == ADCFullScale {
		return 0, fmt.Errorf("%w: %d", ErrADCRail, counts)
	}
	c := float64(counts)
	return ohms(rref) * c / (ADCFullScale - c), nil
}

// BetaCelsius applies the Beta-parameter equation to a measured resistance r
// against nominal r0, returning degrees Celsius.
func BetaCelsius(r, r0, b float64) float64 {
	return 1/(1/ReferenceKelvin+(1/b)*math.Log(r/r0)) - kelvinOffset
}

// DecodeTemperature converts a raw NTC count into degrees Celsius using the
// default reference resistor, the configured nominal resistance and B value.
func DecodeTemperature(counts uint16, nominal physic.ElectricResistance, b uint16) (float64, error) {
	return Thermistor{Nominal: nominal, B: b}.Celsius(counts, DefaultReferenceResistor)
}

// Celsius converts a raw NTC count into degrees Celsius. Results that are not
// finite or lie at or below absolute zero return ErrOutOfModel; a small B
// drives the Beta equation there.
func (t Thermistor) Celsius(counts uint16, rref physic.ElectricResistance) (float64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	r, err := Resistance(counts, rref)
	if err != nil {
		return 0, err
	}
	c := BetaCelsius(r, ohms(t.Nominal), float64(t.B))
	if math.IsNaN(c) || math.IsInf(c, 0) || c <= -kelvinOffset {
		return 0, fmt.Errorf("%w: %v °C from %d counts (B=%d)", ErrOutOfModel, c, counts, t.B)
	}
	return c, nil
}

// Temperature converts a raw NTC count into a physic.Temperature.
func (t Thermistor) Temperature(counts uint16, rref physic.ElectricResistance) (physic.Temperature, error) {
	c, err := t.Celsius(counts, rref)
	if err != nil {
		return 0, err
	}
	return FromCelsius(c), nil
}

// Counts is the inverse of Celsius: the ADC count the sensor would report at
// the given temperature. Results are clamped inside the rails.
func (t Thermistor) Counts(celsius float64, rref physic.ElectricResistance) uint16 {
	r := ohms(t.Nominal) * math.Exp(float64(t.B)*(1/(celsius+kelvinOffset)-1/ReferenceKelvin))
	c := math.Round(ADCFullScale * r / (r + ohms(rref)))
	switch {
	case c < 1:
		return 1
	case c > ADCFullScale-1:
		return ADCFullScale - 1
	default:
		return uint16(c)
	}
}

// FromCelsius converts degrees Celsius into a physic.Temperature.
func FromCelsius(c float64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(c*float64(physic.Celsius))
}

func ohms(r physic.ElectricResistance) float64 {
	return float64(r) / float64(physic.Ohm)
}
