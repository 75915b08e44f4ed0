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
)

func TestRLEncodeContiguousRuns(t *testing.T) {
	runs := RLEncode(map[Usage]bool{1: true, 2: true, 3: true, 5: true, 7: true, 8: true})

	assert.Equal(t, []UsageRun{
		{Start: 1, Count: 3},
		{Start: 5, Count: 1},
		{Start: 7, Count: 2},
	}, runs)
}

func TestRLEncodeSkipsZeroSentinel(t *testing.T) {
	runs := RLEncode(map[Usage]bool{0: true, 1: true})

	assert.Equal(t, []UsageRun{{Start: 1, Count: 1}}, runs)
}

func TestRLEncodeEmpty(t *testing.T) {
	assert.Nil(t, RLEncode(nil))
}
