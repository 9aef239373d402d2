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

// Package monitor samples a BA121 at a fixed interval.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ba121 "github.com/ZaparooProject/go-ba121"
	"github.com/rs/zerolog"
)

// Monitor handles periodic sampling of one sensor. Start runs on the calling
// goroutine; the Device must not be used elsewhere while it runs.
type Monitor struct {
	device        *ba121.Device
	config        *Config
	OnMeasurement func(m ba121.Measurement) error
	OnError       func(err error) error
	logger        zerolog.Logger
	state         State
	mu            sync.RWMutex
}

// New creates a new sensor monitor
func New(device *ba121.Device, config *Config) *Monitor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Monitor{
		device: device,
		config: config,
		logger: zerolog.Nop(),
	}
}

// SetLogger sets the logger used for sample results.
func (m *Monitor) SetLogger(logger zerolog.Logger) {
	m.logger = logger.With().Str("component", "monitor").Logger()
}

// Start samples until ctx is done, a callback returns an error, or the device
// leaves the initialized state. It returns ctx.Err() on cancellation.
func (m *Monitor) Start(ctx context.Context) error {
	if m.config.Interval <= 0 {
		return fmt.Errorf("%w: monitor interval %v", ba121.ErrInvalidParameter, m.config.Interval)
	}

	for {
		started := time.Now()
		if err := m.sample(ctx); err != nil {
			return err
		}

		wait := m.config.Interval - time.Since(started)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// GetState returns a copy of the current state
func (m *Monitor) GetState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// GetDevice returns the underlying device
func (m *Monitor) GetDevice() *ba121.Device {
	return m.device
}

// Close closes the underlying device
func (m *Monitor) Close() error {
	if err := m.device.Close(); err != nil {
		return fmt.Errorf("failed to close device: %w", err)
	}
	return nil
}

// sample takes one reading and delivers it. A returned error stops Start.
func (m *Monitor) sample(ctx context.Context) error {
	var meas ba121.Measurement
	err := ba121.RetryWithConfig(ctx, m.config.retry(), func() error {
		var readErr error
		meas, readErr = m.device.ReadContext(ctx)
		return readErr
	})

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		m.record(func(s *State) { s.recordFailure(err, time.Now()) })
		m.logger.Warn().Err(err).Msg("sample failed")

		if errors.Is(err, ba121.ErrInvalidState) {
			return fmt.Errorf("monitor stopped: %w", err)
		}
		if m.OnError != nil {
			if cbErr := m.OnError(err); cbErr != nil {
				return fmt.Errorf("error callback: %w", cbErr)
			}
		}
		return nil
	}

	m.record(func(s *State) { s.recordSuccess(meas, time.Now()) })
	m.logger.Debug().Int("co2_ppm", int(meas.Concentration)).Stringer("temperature", meas.Temperature).
		Stringer("status", meas.Status).Msg("sample")

	if m.OnMeasurement != nil {
		if cbErr := m.OnMeasurement(meas); cbErr != nil {
			return fmt.Errorf("measurement callback: %w", cbErr)
		}
	}
	return nil
}

func (m *Monitor) record(fn func(s *State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state)
}
