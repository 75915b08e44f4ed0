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
	"fmt"

	"github.com/f-secure-foundry/hidremap/remap"
)

// simDevice is the --simulate backend: a ControlDevice with no USB
// underneath it, so the push/pull/usages/identify encode-decode paths
// can be driven by tests (and by an operator without hardware on hand)
// exactly the way they'd be driven against a real device.
type simDevice struct {
	config  []byte
	our     []remap.UsageRun
	their   []remap.UsageRun
	reports [][]byte
	nextID  uint8
}

// newSimDevice seeds a simulated device with a small, fixed sample of
// usage runs: keyboard keys 'a'..'x' on the "our" side, and mouse
// buttons 1-3, X/Y and the vertical wheel on the "their" side. The
// sample is hand-picked; it is not the full usage list a parse of
// hiddesc.CombinedReportDescriptor yields.
func newSimDevice() *simDevice {
	return &simDevice{
		our: []remap.UsageRun{
			{Start: 0x00070004, Count: 24}, // keyboard 'a'..'x'
		},
		their: []remap.UsageRun{
			{Start: 0x00090001, Count: 3}, // mouse buttons 1-3
			{Start: 0x00010030, Count: 2}, // X, Y
			{Start: remap.VScrollUsage, Count: 1},
		},
		reports: [][]byte{
			{0x02, 0x00, 0x00, 0x00, 0x00}, // a quiet mouse report to replay
		},
	}
}

func (s *simDevice) PushConfig(yamlBytes []byte) error {
	s.config = append([]byte(nil), yamlBytes...)
	return nil
}

func (s *simDevice) PullConfig() ([]byte, error) {
	if s.config == nil {
		return nil, fmt.Errorf("hidremapctl: simulated device has no configuration pushed yet")
	}
	return s.config, nil
}

func (s *simDevice) OurUsages() ([]remap.UsageRun, error) {
	return s.our, nil
}

func (s *simDevice) TheirUsages() ([]remap.UsageRun, error) {
	return s.their, nil
}

func (s *simDevice) ReadReport() (uint8, []byte, error) {
	if len(s.reports) == 0 {
		return 0, nil, fmt.Errorf("hidremapctl: simulated device has no reports queued")
	}

	r := s.reports[s.nextID%uint8(len(s.reports))]
	s.nextID++

	return r[0], r[1:], nil
}

func (s *simDevice) Close() error {
	return nil
}
