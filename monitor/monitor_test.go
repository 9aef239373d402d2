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
	"context"
	"errors"
	"testing"
	"time"

	ba121 "github.com/ZaparooProject/go-ba121"
	testutil "github.com/ZaparooProject/go-ba121/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStop = errors.New("stop")

func newTestMonitor(t *testing.T, sensor *testutil.VirtualSensor) (*Monitor, *ba121.Device) {
	t.Helper()
	mock := ba121.NewMockTransport()
	mock.Handler = sensor.Handle
	device, err := ba121.New(mock, ba121.WithDelay(func(time.Duration) {}))
	require.NoError(t, err)
	require.NoError(t, device.Init())

	return New(device, &Config{
		Interval: time.Millisecond,
		Retry: &ba121.RetryConfig{
			MaxAttempts:       3,
			InitialBackoff:    time.Millisecond,
			MaxBackoff:        time.Millisecond,
			BackoffMultiplier: 1,
		},
	}), device
}

func TestMonitor_DeliversMeasurements(t *testing.T) {
	t.Parallel()

	sensor := testutil.NewVirtualSensor(420, 25)
	m, _ := newTestMonitor(t, sensor)

	var got []ba121.Measurement
	m.OnMeasurement = func(meas ba121.Measurement) error {
		got = append(got, meas)
		if len(got) == 3 {
			return errStop
		}
		return nil
	}

	err := m.Start(context.Background())
	require.ErrorIs(t, err, errStop)
	require.Len(t, got, 3)
	for _, meas := range got {
		assert.Equal(t, ba121.PPM(420), meas.Concentration)
	}

	state := m.GetState()
	assert.Equal(t, 3, state.Samples)
	assert.Equal(t, 0, state.Failures)
	assert.True(t, state.HasMeasurement)
	assert.Equal(t, ba121.StatusOK, state.LastStatus)
	assert.Equal(t, got[2], state.LastMeasurement)
}

func TestMonitor_RetriesBusy(t *testing.T) {
	t.Parallel()

	sensor := testutil.NewVirtualSensor(500, 25)
	sensor.Status = testutil.StatusBusy
	m, _ := newTestMonitor(t, sensor)

	requests := 0
	mock := m.GetDevice().Transport().(*ba121.MockTransport)
	mock.Handler = func(req []byte) ([]byte, error) {
		requests++
		if requests == 2 {
			sensor.Status = testutil.StatusOK
		}
		return sensor.Handle(req)
	}

	m.OnMeasurement = func(ba121.Measurement) error { return errStop }
	m.OnError = func(err error) error {
		t.Errorf("unexpected error: %v", err)
		return err
	}

	err := m.Start(context.Background())
	require.ErrorIs(t, err, errStop)
	assert.Equal(t, 2, requests)
	assert.Equal(t, 0, m.GetState().Failures)
}

func TestMonitor_ReportsErrors(t *testing.T) {
	t.Parallel()

	sensor := testutil.NewVirtualSensor(500, 25)
	sensor.Status = testutil.StatusBusy
	m, _ := newTestMonitor(t, sensor)

	var errs []error
	m.OnError = func(err error) error {
		errs = append(errs, err)
		if len(errs) == 2 {
			return errStop
		}
		return nil
	}

	err := m.Start(context.Background())
	require.ErrorIs(t, err, errStop)
	require.Len(t, errs, 2)
	assert.True(t, ba121.IsStatus(errs[0], ba121.StatusBusy))
	assert.Equal(t, 6, sensor.Requests)

	state := m.GetState()
	assert.Equal(t, 2, state.Failures)
	assert.Equal(t, 2, state.ConsecutiveFailures)
	assert.Equal(t, ba121.StatusBusy, state.LastStatus)
	assert.False(t, state.HasMeasurement)
}

func TestMonitor_StopsOnCancel(t *testing.T) {
	t.Parallel()

	sensor := testutil.NewVirtualSensor(500, 25)
	m, _ := newTestMonitor(t, sensor)

	ctx, cancel := context.WithCancel(context.Background())
	m.OnMeasurement = func(ba121.Measurement) error {
		cancel()
		return nil
	}

	err := m.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, m.GetState().Samples)
}

func TestMonitor_StopsWhenDeviceClosed(t *testing.T) {
	t.Parallel()

	sensor := testutil.NewVirtualSensor(500, 25)
	m, device := newTestMonitor(t, sensor)
	require.NoError(t, m.Close())
	assert.Equal(t, ba121.StateDeinitialized, device.State())

	err := m.Start(context.Background())
	require.ErrorIs(t, err, ba121.ErrInvalidState)
}

func TestMonitor_InvalidInterval(t *testing.T) {
	t.Parallel()

	sensor := testutil.NewVirtualSensor(500, 25)
	m, _ := newTestMonitor(t, sensor)
	m.config.Interval = 0

	err := m.Start(context.Background())
	require.ErrorIs(t, err, ba121.ErrInvalidParameter)
}

func TestConfig_Retry(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	assert.Equal(t, ba121.CommandResponseDelay, config.retry().InitialBackoff)

	config.BusySettle = 2 * time.Second
	assert.Equal(t, 2*time.Second, config.retry().InitialBackoff)

	custom := &ba121.RetryConfig{MaxAttempts: 1}
	config.Retry = custom
	assert.Same(t, custom, config.retry())
}
