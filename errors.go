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
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-ba121/calibration"
	"github.com/ZaparooProject/go-ba121/internal/frame"
)

// Session errors
var (
	// ErrInvalidState is returned when an operation is called in the wrong
	// lifecycle state, e.g. Read before Init or Deinit twice.
	ErrInvalidState = errors.New("invalid device state")
	// ErrInvalidParameter is returned for out-of-range configuration input.
	ErrInvalidParameter = calibration.ErrInvalidParameter
	// ErrResponse is wrapped by every StatusError: the sensor answered with a
	// non-OK status byte.
	ErrResponse = errors.New("sensor response error")
)

// Transport errors
var (
	ErrTransportInit    = errors.New("transport init failed")
	ErrTransportDeinit  = errors.New("transport deinit failed")
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrTransportTimeout = errors.New("transport timeout")
	ErrShortRead        = errors.New("short read")
)

// Frame errors
var (
	ErrLengthMismatch   = frame.ErrLengthMismatch
	ErrChecksumMismatch = frame.ErrChecksumMismatch
	ErrHeaderMismatch   = frame.ErrHeaderMismatch
)

// ErrorType classifies errors for retry decisions
type ErrorType int

const (
	// ErrorTypePermanent errors will not go away on retry
	ErrorTypePermanent ErrorType = iota
	// ErrorTypeTransient errors may succeed on retry
	ErrorTypeTransient
	// ErrorTypeTimeout errors are transport timeouts
	ErrorTypeTimeout
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypePermanent:
		return "permanent"
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// TransportError wraps a failure from the transport capability layer.
type TransportError struct {
	Err       error
	Op        string
	Port      string
	Type      ErrorType
	Retryable bool
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a TransportError. Transient and timeout errors are retryable.
func NewTransportError(op, port string, err error, errType ErrorType) *TransportError {
	return &TransportError{
		Err:       err,
		Op:        op,
		Port:      port,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a retryable timeout TransportError.
func NewTimeoutError(op, port string) *TransportError {
	return NewTransportError(op, port, ErrTransportTimeout, ErrorTypeTimeout)
}

// StatusError reports a non-OK status byte returned by the sensor.
type StatusError struct {
	Op     string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrResponse, e.Status)
}

func (*StatusError) Unwrap() error {
	return ErrResponse
}

// IsRetryable reports whether a caller may retry the operation that produced err.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Retryable
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Status == StatusBusy || se.Status == StatusCheckError
	}

	switch {
	case errors.Is(err, ErrTransportTimeout),
		errors.Is(err, ErrTransportRead),
		errors.Is(err, ErrTransportWrite),
		errors.Is(err, ErrShortRead),
		errors.Is(err, ErrLengthMismatch),
		errors.Is(err, ErrChecksumMismatch),
		errors.Is(err, ErrHeaderMismatch):
		return true
	default:
		return false
	}
}

// GetErrorType returns the ErrorType for err.
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ErrorTypePermanent
	}

	var te *TransportError
	if errors.As(err, &te) {
		return te.Type
	}

	switch {
	case errors.Is(err, ErrTransportTimeout):
		return ErrorTypeTimeout
	case IsRetryable(err):
		return ErrorTypeTransient
	default:
		return ErrorTypePermanent
	}
}
