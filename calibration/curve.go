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

package calibration

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
)

// PPM=Parts Per Million. Units of measure for CO2 concentration.
type PPM int

func (ppm PPM) String() string {
	return fmt.Sprintf("%d PPM", int(ppm))
}

// Curve is the linear factory calibration from concentration counts to PPM,
// optionally compensated by temperature around 25 °C:
//
//	ppm = (Slope*raw + Offset) / (1 + TempCoefficient*(T - 25))
type Curve struct {
	Slope           float64
	Offset          float64
	TempCoefficient float64 // fractional change per °C
}

// DefaultCurve reports the sensor's count as PPM unchanged. The BA121 applies
// its factory calibration on-chip.
var DefaultCurve = Curve{Slope: 1}

// Validate rejects curves that cannot produce a finite, increasing output.
func (c Curve) Validate() error {
	if math.IsNaN(c.Slope) || math.IsInf(c.Slope, 0) || c.Slope <= 0 {
		return fmt.Errorf("%w: curve slope %v must be positive", ErrInvalidParameter, c.Slope)
	}
	if math.IsNaN(c.Offset) || math.IsInf(c.Offset, 0) {
		return fmt.Errorf("%w: curve offset %v", ErrInvalidParameter, c.Offset)
	}
	if math.IsNaN(c.TempCoefficient) || math.IsInf(c.TempCoefficient, 0) {
		return fmt.Errorf("%w: curve temperature coefficient %v", ErrInvalidParameter, c.TempCoefficient)
	}
	return nil
}

// Concentration applies the curve to a raw count at temperature t.
// Negative results clamp to zero.
func (c Curve) Concentration(raw uint16, t physic.Temperature) PPM {
	v := c.Slope*float64(raw) + c.Offset
	if c.TempCoefficient != 0 {
		denom := 1 + c.TempCoefficient*(t.Celsius()-25)
		if denom <= 0 {
			return 0
		}
		v /= denom
	}
	if v <= 0 {
		return 0
	}
	return PPM(math.Round(v))
}

// DecodeConcentration applies DefaultCurve.
func DecodeConcentration(raw uint16, t physic.Temperature) PPM {
	return DefaultCurve.Concentration(raw, t)
}
