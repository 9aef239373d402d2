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

package monitor

import (
	"time"

	ba121 "github.com/ZaparooProject/go-ba121"
)

// State tracks the results of a monitoring run
type State struct {
	LastSampleTime  time.Time
	LastErr         error
	LastMeasurement ba121.Measurement
	Samples         int
	Failures        int
	// ConsecutiveFailures resets on every successful sample.
	ConsecutiveFailures int
	LastStatus          ba121.Status
	HasMeasurement      bool
}

func (s *State) recordSuccess(m ba121.Measurement, at time.Time) {
	s.Samples++
	s.LastSampleTime = at
	s.LastMeasurement = m
	s.HasMeasurement = true
	s.LastStatus = m.Status
	s.LastErr = nil
	s.ConsecutiveFailures = 0
}

func (s *State) recordFailure(err error, at time.Time) {
	s.Samples++
	s.Failures++
	s.ConsecutiveFailures++
	s.LastSampleTime = at
	s.LastStatus = ba121.ClassifyError(err)
	s.LastErr = err
}
