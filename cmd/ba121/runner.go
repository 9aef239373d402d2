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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	ba121 "github.com/ZaparooProject/go-ba121"
	"github.com/ZaparooProject/go-ba121/calibration"
	"github.com/ZaparooProject/go-ba121/monitor"
	"periph.io/x/conn/v3/physic"
)

var errDone = errors.New("done")

type runner struct {
	out      io.Writer
	open     func() (ba121.Transport, error)
	sleep    func(time.Duration)
	opts     []ba121.Option
	times    int
	interval time.Duration
}

func (r *runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, "ba121: "+format+"\n", args...)
}

func (r *runner) printInfo() {
	info := ba121.Info()
	r.printf("chip is %s.", info.ChipName)
	r.printf("manufacturer is %s.", info.Manufacturer)
	r.printf("interface is %s.", info.Interface)
	r.printf("driver version is %s.", info.Version())
	r.printf("min supply voltage is %s.", info.SupplyVoltageMin)
	r.printf("max supply voltage is %s.", info.SupplyVoltageMax)
	r.printf("max current is %s.", info.MaxCurrent)
	r.printf("max temperature is %0.1fC.", info.TemperatureMax.Celsius())
	r.printf("min temperature is %0.1fC.", info.TemperatureMin.Celsius())
}

func (r *runner) printPort() {
	r.printf("TX connected to the sensor RX.")
	r.printf("RX connected to the sensor TX.")
	r.printf("line is 9600 baud, 8 data bits, no parity, 1 stop bit.")
}

// openDevice creates and initializes a Device with extra options appended.
func (r *runner) openDevice(extra ...ba121.Option) (*ba121.Device, error) {
	transport, err := r.open()
	if err != nil {
		return nil, err
	}
	opts := append(append([]ba121.Option{}, r.opts...), extra...)
	device, err := ba121.New(transport, opts...)
	if err != nil {
		return nil, err
	}
	if err := device.Init(); err != nil {
		r.printf("init failed.")
		return nil, err
	}
	return device, nil
}

// basicInit mirrors the basic example: open and push the default NTC configuration.
func (r *runner) basicInit() (*ba121.Device, error) {
	return r.openDevice(
		ba121.WithNTCResistance(calibration.DefaultNominal),
		ba121.WithNTCB(calibration.DefaultB),
		ba121.WithSendConfigOnInit(true),
	)
}

func (r *runner) registerTest() error {
	r.printInfo()
	r.printf("start register test.")

	device, err := r.openDevice()
	if err != nil {
		return err
	}
	defer func() { _ = device.Deinit() }()

	r.printf("ba121_set_ntc_resistance test.")
	r.printf("set ntc resistance 10k.")
	if err := device.SetNTCResistance(10 * physic.KiloOhm); err != nil {
		r.printf("set ntc resistance failed.")
		return err
	}
	r.printf("check ntc resistance %s.", check(device.NTCResistance() == 10*physic.KiloOhm))

	r.printf("ba121_set_ntc_b test.")
	r.printf("set ntc b 3435.")
	if err := device.SetNTCB(3435); err != nil {
		r.printf("set ntc b failed.")
		return err
	}
	r.printf("check ntc b %s.", check(device.NTCB() == 3435))

	r.printf("ba121_baseline_calibration test.")
	r.printf("baseline calibration.")
	if err := device.BaselineCalibration(); err != nil {
		r.printf("baseline calibration failed.")
		return err
	}
	r.printf("check baseline calibration ok.")

	r.printf("ba121_get_last_status test.")
	status, err := device.LastStatus()
	if err != nil {
		r.printf("get last status failed.")
		return err
	}
	r.printf("last status is 0x%02X.", byte(status))

	r.printf("finish register test.")
	return nil
}

func check(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func (r *runner) readTest() error {
	r.printInfo()
	r.printf("start read test.")

	device, err := r.openDevice()
	if err != nil {
		return err
	}
	defer func() { _ = device.Deinit() }()

	for i := 0; i < r.times; i++ {
		r.sleep(r.interval)
		m, err := device.Read()
		if err != nil {
			r.printf("read failed.")
			return err
		}
		r.printMeasurement(m)
	}

	r.printf("finish read test.")
	return nil
}

func (r *runner) printMeasurement(m ba121.Measurement) {
	r.printf("co2 is %d ppm.", int(m.Concentration))
	r.printf("temperature is %0.2fC.", m.Temperature.Celsius())
	if m.Status != ba121.StatusOK {
		r.printf("status is %s.", m.Status)
	}
}

func (r *runner) readExample() error {
	device, err := r.basicInit()
	if err != nil {
		return err
	}
	defer func() { _ = device.Deinit() }()

	for i := 0; i < r.times; i++ {
		r.sleep(r.interval)
		m, err := device.Read()
		if err != nil {
			return err
		}
		r.printf("%d/%d.", i+1, r.times)
		r.printMeasurement(m)
	}
	return nil
}

func (r *runner) statusExample() error {
	device, err := r.basicInit()
	if err != nil {
		return err
	}
	defer func() { _ = device.Deinit() }()

	status, err := device.LastStatus()
	if err != nil {
		return err
	}
	r.printf("last status is 0x%02X.", byte(status))
	return nil
}

func (r *runner) baselineExample() error {
	device, err := r.basicInit()
	if err != nil {
		return err
	}
	defer func() { _ = device.Deinit() }()

	if err := device.BaselineCalibration(); err != nil {
		return err
	}
	r.printf("baseline calibration.")
	return nil
}

// monitorExample samples -times readings through the monitor package, retrying
// BUSY responses with backoff.
func (r *runner) monitorExample(ctx context.Context) error {
	device, err := r.basicInit()
	if err != nil {
		return err
	}

	interval := r.interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	m := monitor.New(device, &monitor.Config{Interval: interval, BusySettle: ba121.CommandResponseDelay})
	defer func() { _ = m.Close() }()

	samples := 0
	m.OnMeasurement = func(meas ba121.Measurement) error {
		samples++
		r.printf("%d/%d.", samples, r.times)
		r.printMeasurement(meas)
		if samples == r.times {
			return errDone
		}
		return nil
	}
	m.OnError = func(err error) error {
		r.printf("read failed: %v.", err)
		return nil
	}

	if err := m.Start(ctx); err != nil && !errors.Is(err, errDone) {
		return err
	}
	state := m.GetState()
	r.printf("%d samples, %d failures.", state.Samples, state.Failures)
	return nil
}
