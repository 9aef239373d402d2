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

package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		opcode byte
		data   uint32
		want   [Size]byte
	}{
		{
			name:   "read",
			opcode: CmdRead,
			data:   0,
			want:   [Size]byte{0xA0, 0x00, 0x00, 0x00, 0x00, 0xA0},
		},
		{
			name:   "baseline",
			opcode: CmdBaseline,
			data:   0,
			want:   [Size]byte{0xA6, 0x00, 0x00, 0x00, 0x00, 0xA6},
		},
		{
			name:   "ntc resistance 10k",
			opcode: CmdNTCResistance,
			data:   10000,
			want:   [Size]byte{0xA3, 0x00, 0x00, 0x27, 0x10, 0xDA},
		},
		{
			name:   "ntc b 3435",
			opcode: CmdNTCB,
			data:   uint32(3435) << 16,
			want:   [Size]byte{0xA5, 0x0D, 0x6B, 0x00, 0x00, 0x1D},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Encode(tt.opcode, tt.data))
		})
	}
}

func TestEncodePayload(t *testing.T) {
	t.Parallel()

	f, err := EncodePayload(CmdNTCResistance, []byte{0x00, 0x00, 0x27, 0x10})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA3, 0x00, 0x00, 0x27, 0x10, 0xDA}, f)

	_, err = EncodePayload(CmdRead, []byte{0x01})
	require.ErrorIs(t, err, ErrPayloadLength)
}

func TestDecode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		wantErr error
		input   []byte
		header  byte
		data    uint32
	}{
		{
			name:   "data frame",
			input:  []byte{0xAA, 0x01, 0x90, 0x80, 0x00, 0xBB},
			header: HeaderData,
			data:   0x01908000,
		},
		{
			name:   "ack ok",
			input:  []byte{0xAC, 0x00, 0x00, 0x00, 0x00, 0xAC},
			header: HeaderAck,
		},
		{
			name:   "ack busy",
			input:  []byte{0xAC, 0x02, 0x00, 0x00, 0x00, 0xAE},
			header: HeaderAck,
			data:   0x02000000,
		},
		{
			name:    "empty",
			input:   []byte{},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "nil",
			input:   nil,
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "truncated",
			input:   []byte{0xAA, 0x01, 0x90},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "too long",
			input:   []byte{0xAA, 0x01, 0x90, 0x80, 0x00, 0xBB, 0x00},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "bad checksum",
			input:   []byte{0xAA, 0x01, 0x90, 0x80, 0x00, 0xBC},
			wantErr: ErrChecksumMismatch,
		},
		{
			name:   "request header returned as received",
			input:  []byte{0xA0, 0x00, 0x00, 0x00, 0x00, 0xA0},
			header: CmdRead,
		},
		{
			name:   "unknown header returned as received",
			input:  []byte{0x55, 0x00, 0x00, 0x00, 0x01, 0x56},
			header: 0x55,
			data:   0x00000001,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp, err := Decode(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.header, resp.Header)
			assert.Equal(t, tt.data, resp.Data())
			assert.Equal(t, tt.input[OffsetChecksum], resp.Checksum)
		})
	}
}

func TestDecode_AckStatus(t *testing.T) {
	t.Parallel()

	resp, err := Decode([]byte{0xAC, 0x03, 0x00, 0x00, 0x00, 0xAF})
	require.NoError(t, err)
	assert.True(t, resp.IsAck())
	assert.False(t, resp.IsData())
	assert.Equal(t, byte(0x03), resp.Status())
}

func TestDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	opcodes := []byte{CmdRead, CmdNTCResistance, CmdNTCB, CmdBaseline}
	payloads := []uint32{0, 1, 10000, 0xFFFFFFFF, uint32(3435) << 16, 0x12345678}

	for _, op := range opcodes {
		for _, data := range payloads {
			f := Encode(op, data)
			resp, err := Decode(f[:])
			require.NoError(t, err)
			assert.Equal(t, op, resp.Header)
			assert.Equal(t, data, resp.Data())
			assert.Equal(t, f[OffsetChecksum], resp.Checksum)
		}
	}
}

// TestDecode_SingleBitFlip verifies that flipping any single bit of a valid
// frame is detected.
func TestDecode_SingleBitFlip(t *testing.T) {
	t.Parallel()

	valid := []byte{0xAA, 0x01, 0x90, 0x80, 0x00, 0xBB}
	for i := range valid {
		for bit := 0; bit < 8; bit++ {
			corrupted := append([]byte(nil), valid...)
			corrupted[i] ^= 1 << bit
			_, err := Decode(corrupted)
			assert.ErrorIs(t, err, ErrChecksumMismatch, "byte %d bit %d", i, bit)
		}
	}

	f := Encode(CmdNTCB, uint32(3435)<<16)
	for i := range f {
		for bit := 0; bit < 8; bit++ {
			corrupted := f
			corrupted[i] ^= 1 << bit
			_, err := Decode(corrupted[:])
			assert.ErrorIs(t, err, ErrChecksumMismatch, "byte %d bit %d", i, bit)
		}
	}
}

func TestDecode_AnyLength(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 64)
	for n := 0; n <= len(buf); n++ {
		if n == Size {
			continue
		}
		_, err := Decode(buf[:n])
		require.ErrorIs(t, err, ErrLengthMismatch, "length %d", n)
	}
}
