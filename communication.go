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
	"os"
	"time"

	"github.com/ZaparooProject/go-ba121/internal/frame"
)

// exchange performs one request/response round trip: flush pending input,
// write the command frame, wait for the sensor, read one response frame and
// validate it. The caller must already hold the Initialized state.
func (d *Device) exchange(op string, opcode byte, data uint32, settle time.Duration) (*frame.Response, error) {
	req := frame.Encode(opcode, data)

	if err := d.transport.Flush(); err != nil {
		d.log().Debug().Str("op", op).Err(err).Msg("uart flush failed")
		return nil, d.transportError(op+" flush", err, ErrTransportRead)
	}
	if err := d.transport.Write(req[:]); err != nil {
		d.log().Debug().Str("op", op).Err(err).Msg("uart write failed")
		return nil, d.transportError(op+" write", err, ErrTransportWrite)
	}
	d.log().Debug().Str("op", op).Hex("tx", req[:]).Msg("request sent")

	if settle > 0 {
		d.delay(settle)
	}

	d.rx = [frame.Size]byte{}
	n, err := d.transport.Read(d.rx[:])
	if err != nil {
		d.log().Debug().Str("op", op).Err(err).Msg("uart read failed")
		return nil, d.transportError(op+" read", err, ErrTransportRead)
	}
	if n < 0 || n > len(d.rx) {
		n = 0
	}
	d.log().Debug().Str("op", op).Hex("rx", d.rx[:n]).Msg("response received")

	resp, err := frame.Decode(d.rx[:n])
	if err != nil {
		d.log().Debug().Str("op", op).Err(err).Msg("frame error")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

// transportError wraps err from the capability layer as a TransportError.
// Errors that are already TransportErrors keep their classification.
func (d *Device) transportError(op string, err, kind error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return fmt.Errorf("%s: %w", op, err)
	}

	errType := ErrorTypeTransient
	if errors.Is(err, ErrTransportTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		errType = ErrorTypeTimeout
	}
	return NewTransportError(op, transportName(d.transport), fmt.Errorf("%w: %w", kind, err), errType)
}
