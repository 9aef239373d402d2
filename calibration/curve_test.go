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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurve_Concentration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		curve   Curve
		raw     uint16
		celsius float64
		want    PPM
	}{
		{name: "default identity", curve: DefaultCurve, raw: 400, celsius: 25, want: 400},
		{name: "default ignores temperature", curve: DefaultCurve, raw: 1234, celsius: 60, want: 1234},
		{name: "slope and offset", curve: Curve{Slope: 2, Offset: 10}, raw: 400, celsius: 25, want: 810},
		{name: "compensation at reference", curve: Curve{Slope: 1, TempCoefficient: 0.01}, raw: 500, celsius: 25, want: 500},
		{name: "compensation warm", curve: Curve{Slope: 1, TempCoefficient: 0.01}, raw: 550, celsius: 35, want: 500},
		{name: "rounding", curve: Curve{Slope: 0.5}, raw: 401, celsius: 25, want: 201},
		{name: "negative clamps", curve: Curve{Slope: 1, Offset: -1000}, raw: 400, celsius: 25, want: 0},
		{name: "degenerate denominator", curve: Curve{Slope: 1, TempCoefficient: -1}, raw: 400, celsius: 26, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.curve.Concentration(tt.raw, FromCelsius(tt.celsius)))
		})
	}
}

func TestDecodeConcentration(t *testing.T) {
	t.Parallel()
	assert.Equal(t, PPM(415), DecodeConcentration(415, FromCelsius(21.5)))
}

func TestCurve_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		curve   Curve
		wantErr bool
	}{
		{name: "default", curve: DefaultCurve},
		{name: "zero slope", curve: Curve{}, wantErr: true},
		{name: "negative slope", curve: Curve{Slope: -1}, wantErr: true},
		{name: "nan slope", curve: Curve{Slope: math.NaN()}, wantErr: true},
		{name: "inf offset", curve: Curve{Slope: 1, Offset: math.Inf(1)}, wantErr: true},
		{name: "nan coefficient", curve: Curve{Slope: 1, TempCoefficient: math.NaN()}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.curve.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParameter)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPPM_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "412 PPM", PPM(412).String())
}
