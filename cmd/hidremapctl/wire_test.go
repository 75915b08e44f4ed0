// Host-side control plane for the HID remapper
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/f-secure-foundry/hidremap/remap"
)

func TestEncodeDecodeRunsRoundTrips(t *testing.T) {
	runs := []remap.UsageRun{
		{Start: 0x00070004, Count: 24},
		{Start: remap.VScrollUsage, Count: 1},
	}

	got, err := decodeRuns(encodeRuns(runs))
	require.NoError(t, err)

	if diff := cmp.Diff(runs, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRunsRejectsTruncatedData(t *testing.T) {
	_, err := decodeRuns([]byte{0x02, 0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestExpandRunsFlattensContiguousRanges(t *testing.T) {
	runs := []remap.UsageRun{{Start: 10, Count: 3}}

	got := expandRuns(runs)

	require.Equal(t, []remap.Usage{10, 11, 12}, got)
}
