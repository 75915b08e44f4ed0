// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsRoundTrip(t *testing.T) {
	for _, size := range []uint{1, 2, 3, 7, 8, 9, 15, 16, 17, 31, 32} {
		for _, bitpos := range []uint{0, 1, 3, 7, 8, 15, 31} {
			buf := make([]byte, 16)

			var value uint32
			if size < 32 {
				value = (uint32(1) << size) - 1
				value &= 0x5a5a5a5a
			} else {
				value = 0xa5a5a5a5
			}

			PutBits(buf, bitpos, size, value)
			got := GetBits(buf, bitpos, size)

			var want uint32
			if size < 32 {
				want = value & ((1 << size) - 1)
			} else {
				want = value
			}

			require.Equalf(t, want, got, "bitpos=%d size=%d", bitpos, size)
		}
	}
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int32(-1), SignExtend(0b1, 1))
	assert.Equal(t, int32(0), SignExtend(0b0, 1))
	assert.Equal(t, int32(-1), SignExtend(0xFF, 8))
	assert.Equal(t, int32(127), SignExtend(0x7F, 8))
	assert.Equal(t, int32(-128), SignExtend(0x80, 8))
	assert.Equal(t, int32(-2048), SignExtend(0x800, 12))
	assert.Equal(t, int32(2047), SignExtend(0x7FF, 12))
}

func TestGetBitsOutOfRange(t *testing.T) {
	buf := make([]byte, 2)
	assert.Equal(t, uint32(0), GetBits(buf, 100, 8))
}

func TestPutBitsOutOfRangeIsSilentNoop(t *testing.T) {
	buf := make([]byte, 2)
	require.NotPanics(t, func() {
		PutBits(buf, 100, 8, 0xFF)
	})
	assert.Equal(t, []byte{0, 0}, buf)
}

func TestGetSignedBits(t *testing.T) {
	buf := make([]byte, 4)
	PutBits(buf, 0, 16, uint32(uint16(-5)))
	assert.Equal(t, int32(-5), GetSignedBits(buf, 0, 16, true))
	assert.Equal(t, int32(65531), GetSignedBits(buf, 0, 16, false))
}

func TestBitsStraddleByteBoundary(t *testing.T) {
	buf := make([]byte, 4)
	PutBits(buf, 4, 12, 0xABC)
	assert.Equal(t, uint32(0xABC), GetBits(buf, 4, 12))
}
