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
	"encoding/binary"
	"fmt"

	"github.com/f-secure-foundry/hidremap/remap"
)

// Vendor-specific control requests carried on the default control pipe
// (bmRequestType: vendor, recipient device), mirroring the wire layout
// of the descriptor-derived usage tables in remap/rle.go.
const (
	usbVendorID  = 0x1209
	usbProductID = 0x2730

	reqPushConfig   = 0x01 // host -> device, data: YAML bytes
	reqPullConfig   = 0x02 // device -> host, data: YAML bytes
	reqOurUsages    = 0x03 // device -> host, data: encoded []remap.UsageRun
	reqTheirUsages  = 0x04 // device -> host, data: encoded []remap.UsageRun
	reqReadReport   = 0x05 // device -> host, data: reportID byte + payload
	maxControlBytes = 4096
)

// encodeRuns serializes a run-length-encoded usage list (remap.RLEncode's
// output) as a count-prefixed array of (start uint32, count uint32) pairs.
func encodeRuns(runs []remap.UsageRun) []byte {
	buf := make([]byte, 4+8*len(runs))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(runs)))

	for i, r := range runs {
		off := 4 + 8*i
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(r.Start))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], r.Count)
	}

	return buf
}

// decodeRuns is encodeRuns' inverse.
func decodeRuns(data []byte) ([]remap.UsageRun, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("hidremapctl: usage run list truncated")
	}

	n := binary.LittleEndian.Uint32(data[0:4])
	want := 4 + 8*int(n)

	if len(data) < want {
		return nil, fmt.Errorf("hidremapctl: usage run list truncated: want %d bytes, got %d", want, len(data))
	}

	runs := make([]remap.UsageRun, n)

	for i := range runs {
		off := 4 + 8*i
		runs[i] = remap.UsageRun{
			Start: remap.Usage(binary.LittleEndian.Uint32(data[off : off+4])),
			Count: binary.LittleEndian.Uint32(data[off+4 : off+8]),
		}
	}

	return runs, nil
}

// expandRuns turns a run list back into the flat, ascending usage list an
// operator reads off the terminal.
func expandRuns(runs []remap.UsageRun) []remap.Usage {
	var usages []remap.Usage

	for _, r := range runs {
		for i := uint32(0); i < r.Count; i++ {
			usages = append(usages, r.Start+remap.Usage(i))
		}
	}

	return usages
}
