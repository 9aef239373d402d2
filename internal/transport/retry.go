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

// Package transport provides internal transport utilities
package transport

import (
	"fmt"
	"time"

	ba121 "github.com/ZaparooProject/go-ba121"
)

// RetryOperation represents a function that can be retried
// Returns: data, shouldRetry, error
// - data: the result if successful
// - shouldRetry: true if the operation should be retried
// - error: any permanent error that should stop retries
type RetryOperation[T any] func() (T, bool, error)

// RetryConfig configures retry behavior
type RetryConfig struct {
	OnRetry     func() error
	Description string
	MaxRetries  int
	RetryDelay  time.Duration
}

// WithRetry executes an operation with retry logic
func WithRetry[T any](config RetryConfig, operation RetryOperation[T]) (T, error) {
	var zero T

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result, shouldRetry, err := operation()
		if err != nil {
			return zero, err
		}

		if !shouldRetry {
			return result, nil
		}

		if attempt >= config.MaxRetries {
			break
		}

		if config.OnRetry != nil {
			if err := config.OnRetry(); err != nil {
				return zero, err
			}
		}

		if config.RetryDelay > 0 {
			time.Sleep(config.RetryDelay)
		}
	}

	return zero, ba121.NewTransportError(config.Description, "",
		fmt.Errorf("%w: retries exhausted", ba121.ErrTransportWrite), ba121.ErrorTypeTransient)
}

// TimeoutRetry executes an operation with timeout-based retry logic
func TimeoutRetry[T any](timeout time.Duration, operation RetryOperation[T]) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		result, shouldRetry, err := operation()
		if err != nil {
			return zero, err
		}

		if !shouldRetry {
			return result, nil
		}

		time.Sleep(time.Millisecond)
	}

	return zero, ba121.NewTimeoutError("timeoutRetry", "")
}

// ReadFull calls read until buf is full, read returns no data, or timeout
// passes. A frame that stops short is not an error here: the caller sees the
// byte count and rejects the frame by length.
func ReadFull(read func([]byte) (int, error), buf []byte, timeout time.Duration) (int, error) {
	n := 0
	var readErr error
	// TimeoutRetry only fails on its own deadline once readErr is handled.
	_, _ = TimeoutRetry(timeout, func() (int, bool, error) {
		got, err := read(buf[n:])
		if got > 0 {
			n += got
		}
		if err != nil {
			readErr = err
			return n, false, err
		}
		return n, got > 0 && n < len(buf), nil
	})
	return n, readErr
}

// WriteFull calls write until all of data is written. An incomplete write is
// retried up to maxRetries times.
func WriteFull(write func([]byte) (int, error), data []byte, maxRetries int) error {
	written := 0
	_, err := WithRetry(RetryConfig{Description: "write", MaxRetries: maxRetries}, func() (int, bool, error) {
		n, err := write(data[written:])
		if n > 0 {
			written += n
		}
		if err != nil {
			return written, false, err
		}
		return written, written < len(data), nil
	})
	return err
}
