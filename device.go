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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-ba121/calibration"
	"github.com/ZaparooProject/go-ba121/internal/frame"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Protocol settle times
const (
	// DefaultSettleDelay is waited after the transport is opened.
	DefaultSettleDelay = 100 * time.Millisecond
	// ReadResponseDelay is the sensor's processing time for a read request.
	ReadResponseDelay = 800 * time.Millisecond
	// CommandResponseDelay is the processing time for configuration and
	// baseline requests.
	CommandResponseDelay = 500 * time.Millisecond
)

// PPM is a CO2 concentration in parts per million.
type PPM = calibration.PPM

// State is the Device lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	// StateDeinitialized is terminal. Create a new Device to talk to the sensor again.
	StateDeinitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateDeinitialized:
		return "deinitialized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Measurement is one decoded reading.
type Measurement struct {
	Temperature      physic.Temperature
	Concentration    PPM
	ConcentrationRaw uint16
	TemperatureRaw   uint16
	// Status is StatusOK, or StatusTemperatureOutOfRange when the compensation
	// temperature is outside the operating range. The values are valid either way.
	Status Status
}

func (m Measurement) String() string {
	return fmt.Sprintf("CO2: %s Temperature: %s Status: %s", m.Concentration, m.Temperature, m.Status)
}

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	Curve             calibration.Curve
	Thermistor        calibration.Thermistor
	ReferenceResistor physic.ElectricResistance
	SettleDelay       time.Duration
	ReadDelay         time.Duration
	CommandDelay      time.Duration
	SendConfigOnInit  bool
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Curve:             calibration.DefaultCurve,
		Thermistor:        calibration.DefaultThermistor(),
		ReferenceResistor: calibration.DefaultReferenceResistor,
		SettleDelay:       DefaultSettleDelay,
		ReadDelay:         ReadResponseDelay,
		CommandDelay:      CommandResponseDelay,
	}
}

// Device represents a BA121 sensor session.
//
// Thread Safety: Device is NOT thread-safe. Only one request/response exchange
// may be in flight, and methods must not be called concurrently or
// reentrantly. Wrap the Device with a mutex if it must be shared.
type Device struct {
	transport  Transport
	config     *DeviceConfig
	delay      DelayFunc
	logger     *zerolog.Logger
	last       Measurement
	state      State
	lastStatus Status
	hasLast    bool
	rx         [frame.Size]byte
}

var _ conn.Resource = &Device{}

// New creates an uninitialized Device on transport. Call Init before use.
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: transport is nil", ErrInvalidParameter)
	}

	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
		delay:     time.Sleep,
		state:     StateUninitialized,
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

func (d *Device) log() *zerolog.Logger {
	if d.logger != nil {
		return d.logger
	}
	return defaultLogger()
}

func (d *Device) requireInitialized(op string) error {
	if d.state != StateInitialized {
		return fmt.Errorf("%s: %w: device is %s", op, ErrInvalidState, d.state)
	}
	return nil
}

// fail records the classified status of err and returns it.
func (d *Device) fail(op string, err error) error {
	d.lastStatus = ClassifyError(err)
	d.log().Debug().Str("op", op).Stringer("status", d.lastStatus).Err(err).Msg("operation failed")
	return err
}

// Init opens the transport and waits for the sensor to settle.
func (d *Device) Init() error {
	return d.InitContext(context.Background())
}

// InitContext is Init with a context checked before the transport is touched.
func (d *Device) InitContext(ctx context.Context) error {
	if d.state != StateUninitialized {
		return fmt.Errorf("init: %w: device is %s", ErrInvalidState, d.state)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := d.transport.Init(); err != nil {
		d.log().Debug().Err(err).Msg("uart init failed")
		return d.transportError("init", err, ErrTransportInit)
	}
	if d.config.SettleDelay > 0 {
		d.delay(d.config.SettleDelay)
	}

	d.state = StateInitialized
	d.lastStatus = StatusOK
	d.log().Debug().Str("transport", transportName(d.transport)).Msg("initialized")

	if d.config.SendConfigOnInit {
		if err := d.pushConfig(); err != nil {
			if deinitErr := d.Deinit(); deinitErr != nil {
				d.log().Debug().Err(deinitErr).Msg("deinit after failed config failed")
			}
			return fmt.Errorf("init: %w", err)
		}
	}
	return nil
}

func (d *Device) pushConfig() error {
	if err := d.SetNTCResistance(d.config.Thermistor.Nominal); err != nil {
		return err
	}
	return d.SetNTCB(d.config.Thermistor.B)
}

// Deinit closes the transport. Calling it on a Device that is not initialized
// returns ErrInvalidState. If the transport fails to close the Device stays
// initialized so Deinit can be retried.
func (d *Device) Deinit() error {
	if err := d.requireInitialized("deinit"); err != nil {
		return err
	}

	if err := d.transport.Flush(); err != nil {
		d.log().Debug().Err(err).Msg("flush before deinit failed")
	}
	if err := d.transport.Deinit(); err != nil {
		d.log().Debug().Err(err).Msg("uart deinit failed")
		return d.transportError("deinit", err, ErrTransportDeinit)
	}

	d.state = StateDeinitialized
	d.log().Debug().Msg("deinitialized")
	return nil
}

// Close deinitializes the Device if it is initialized and is a no-op otherwise.
func (d *Device) Close() error {
	if d.state != StateInitialized {
		return nil
	}
	return d.Deinit()
}

// Read requests one measurement.
func (d *Device) Read() (Measurement, error) {
	return d.ReadContext(context.Background())
}

// ReadContext requests one measurement. ctx is checked before the exchange
// starts; an exchange in progress always runs to completion.
//
// A compensation temperature outside the operating range is not an error: the
// measurement is returned with Status set to StatusTemperatureOutOfRange.
func (d *Device) ReadContext(ctx context.Context) (Measurement, error) {
	const op = "read"
	if err := d.requireInitialized(op); err != nil {
		return Measurement{}, err
	}
	if err := ctx.Err(); err != nil {
		return Measurement{}, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := d.exchange(op, frame.CmdRead, 0, d.config.ReadDelay)
	if err != nil {
		return Measurement{}, d.fail(op, err)
	}

	if !resp.IsData() && !resp.IsAck() {
		return Measurement{}, d.fail(op, fmt.Errorf("%s: %w: 0x%02X", op, ErrHeaderMismatch, resp.Header))
	}
	if resp.IsAck() {
		// The sensor answers a read it cannot serve with a status frame.
		status := ClassifyStatusByte(resp.Status())
		if status == StatusOK {
			return Measurement{}, d.fail(op, fmt.Errorf("%s: %w: acknowledge without data", op, ErrHeaderMismatch))
		}
		return Measurement{}, d.fail(op, &StatusError{Op: op, Status: status})
	}

	m, err := d.decode(resp.Data())
	if err != nil {
		return Measurement{}, d.fail(op, fmt.Errorf("%w: %w", &StatusError{Op: op, Status: StatusCheckError}, err))
	}

	d.lastStatus = m.Status
	d.last = m
	d.hasLast = true
	if m.Status != StatusOK {
		d.log().Warn().Stringer("temperature", m.Temperature).Msg("temperature out of range")
	}
	d.log().Debug().Uint16("co2_raw", m.ConcentrationRaw).Uint16("ntc_raw", m.TemperatureRaw).Msg("read")
	return m, nil
}

// decode turns a data frame payload into a Measurement using the current
// thermistor and curve configuration.
func (d *Device) decode(data uint32) (Measurement, error) {
	m := Measurement{
		ConcentrationRaw: uint16(data >> 16),
		TemperatureRaw:   uint16(data),
	}

	temp, err := d.config.Thermistor.Temperature(m.TemperatureRaw, d.config.ReferenceResistor)
	if err != nil {
		return Measurement{}, err
	}
	m.Temperature = temp
	m.Concentration = d.config.Curve.Concentration(m.ConcentrationRaw, temp)
	m.Status = ClassifyTemperature(temp, sensorInfo)
	return m, nil
}

// command sends a configuration or calibration request and checks the
// sensor's acknowledge status.
func (d *Device) command(op string, opcode byte, data uint32) error {
	resp, err := d.exchange(op, opcode, data, d.config.CommandDelay)
	if err != nil {
		return d.fail(op, err)
	}
	if !resp.IsAck() {
		return d.fail(op, fmt.Errorf("%s: %w: expected acknowledge, got 0x%02X", op, ErrHeaderMismatch, resp.Header))
	}

	status := ClassifyStatusByte(resp.Status())
	if status != StatusOK {
		return d.fail(op, &StatusError{Op: op, Status: status})
	}
	d.lastStatus = StatusOK
	return nil
}

// BaselineCalibration tells the sensor to re-zero against the air it is
// currently sampling. Only run it with the sensor in clean air.
func (d *Device) BaselineCalibration() error {
	const op = "baseline calibration"
	if err := d.requireInitialized(op); err != nil {
		return err
	}
	return d.command(op, frame.CmdBaseline, 0)
}

// SetNTCResistance sets the nominal resistance of the NTC thermistor. r must
// be a positive whole number of ohms. The value applies to subsequent reads
// and is kept only if the sensor acknowledges it.
func (d *Device) SetNTCResistance(r physic.ElectricResistance) error {
	const op = "set ntc resistance"
	if err := d.requireInitialized(op); err != nil {
		return err
	}
	ohms, err := ntcOhms(r)
	if err != nil {
		return err
	}
	if err := d.command(op, frame.CmdNTCResistance, ohms); err != nil {
		return err
	}
	d.config.Thermistor.Nominal = r
	return nil
}

// SetNTCB sets the Beta coefficient of the NTC thermistor. b must be positive.
// The value applies to subsequent reads and is kept only if the sensor
// acknowledges it.
func (d *Device) SetNTCB(b uint16) error {
	const op = "set ntc b"
	if err := d.requireInitialized(op); err != nil {
		return err
	}
	if b == 0 {
		return fmt.Errorf("%s: %w: b must be positive", op, ErrInvalidParameter)
	}
	if err := d.command(op, frame.CmdNTCB, uint32(b)<<16); err != nil {
		return err
	}
	d.config.Thermistor.B = b
	return nil
}

// LastStatus returns the status of the most recent exchange.
func (d *Device) LastStatus() (Status, error) {
	if err := d.requireInitialized("last status"); err != nil {
		return StatusOK, err
	}
	return d.lastStatus, nil
}

// LastMeasurement returns the most recent successful measurement.
func (d *Device) LastMeasurement() (Measurement, bool) {
	return d.last, d.hasLast
}

// SetBuffer flushes pending input and writes buf to the sensor unchanged.
func (d *Device) SetBuffer(buf []byte) error {
	const op = "set buffer"
	if err := d.requireInitialized(op); err != nil {
		return err
	}
	if err := d.transport.Flush(); err != nil {
		return d.transportError(op+" flush", err, ErrTransportRead)
	}
	if err := d.transport.Write(buf); err != nil {
		return d.transportError(op+" write", err, ErrTransportWrite)
	}
	return nil
}

// GetBuffer reads exactly len(buf) bytes from the sensor.
func (d *Device) GetBuffer(buf []byte) error {
	const op = "get buffer"
	if err := d.requireInitialized(op); err != nil {
		return err
	}
	n, err := d.transport.Read(buf)
	if err != nil {
		return d.transportError(op+" read", err, ErrTransportRead)
	}
	if n != len(buf) {
		return d.transportError(op+" read", fmt.Errorf("got %d of %d bytes", n, len(buf)), ErrShortRead)
	}
	return nil
}

// Info returns the static chip information.
func (*Device) Info() SensorInfo {
	return Info()
}

// State returns the lifecycle state.
func (d *Device) State() State {
	return d.state
}

// NTCResistance returns the configured thermistor nominal resistance.
func (d *Device) NTCResistance() physic.ElectricResistance {
	return d.config.Thermistor.Nominal
}

// NTCB returns the configured thermistor B coefficient.
func (d *Device) NTCB() uint16 {
	return d.config.Thermistor.B
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// String implements conn.Resource.
func (d *Device) String() string {
	return "ba121{" + transportName(d.transport) + "}"
}

// Halt implements conn.Resource. The Device never runs in the background, so
// there is nothing to stop.
func (*Device) Halt() error {
	return nil
}

// IsStatus reports whether err carries the given sensor status.
func IsStatus(err error, status Status) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
