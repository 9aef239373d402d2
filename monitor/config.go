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

// Config contains monitoring configuration
type Config struct {
	// Retry controls how BUSY and CHECK_ERROR reads are retried. When nil a
	// ba121.DefaultRetryConfig with InitialBackoff set to BusySettle is used.
	Retry *ba121.RetryConfig
	// Interval is the time between the start of consecutive samples.
	Interval time.Duration
	// BusySettle is the first backoff after a BUSY or CHECK_ERROR read.
	BusySettle time.Duration
}

// DefaultConfig returns default monitoring configuration
func DefaultConfig() *Config {
	return &Config{
		Interval:   5 * time.Second,
		BusySettle: ba121.CommandResponseDelay,
	}
}

func (c *Config) retry() *ba121.RetryConfig {
	if c.Retry != nil {
		return c.Retry
	}
	r := ba121.DefaultRetryConfig()
	if c.BusySettle > 0 {
		r.InitialBackoff = c.BusySettle
	}
	return r
}
