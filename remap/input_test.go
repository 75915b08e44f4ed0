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

func TestHandleReceivedReportAbsoluteOverwrites(t *testing.T) {
	e := NewEngine()
	e.Their.TheirUsages[0] = map[uint8]map[Usage]UsageDef{
		0: {usageA: {BitPos: 0, Size: 8}},
	}

	e.HandleReceivedReport(0, []byte{5})
	assert.Equal(t, int32(5), e.InputState[usageA])

	e.HandleReceivedReport(0, []byte{9})
	assert.Equal(t, int32(9), e.InputState[usageA], "absolute usages overwrite, never accumulate")
}

func TestHandleReceivedReportRelativeAccumulates(t *testing.T) {
	e := NewEngine()
	e.Their.TheirUsages[0] = map[uint8]map[Usage]UsageDef{
		0: {usageA: {BitPos: 0, Size: 8, IsRelative: true, LogicalMinimum: -127}},
	}

	e.HandleReceivedReport(0, []byte{3})
	e.HandleReceivedReport(0, []byte{4})

	assert.Equal(t, int32(7), e.InputState[usageA])
}

func TestHandleReceivedReportReportIDPrefix(t *testing.T) {
	e := NewEngine()
	e.Their.HasReportID[0] = true
	e.Their.TheirUsages[0] = map[uint8]map[Usage]UsageDef{
		2: {usageA: {BitPos: 0, Size: 8}},
	}

	e.HandleReceivedReport(0, []byte{2, 42})

	assert.Equal(t, int32(42), e.InputState[usageA])
}

func TestHandleReceivedReportArrayUsagePresence(t *testing.T) {
	e := NewEngine()
	e.Their.TheirUsages[0] = map[uint8]map[Usage]UsageDef{
		0: {usageA: {BitPos: 0, Size: 8, IsArray: true, Count: 3, Index: 4}},
	}

	e.HandleReceivedReport(0, []byte{1, 4, 0})
	assert.Equal(t, int32(1), e.InputState[usageA])

	e.HandleReceivedReport(0, []byte{1, 2, 0})
	assert.Equal(t, int32(0), e.InputState[usageA])
}

func TestHandleReceivedReportSetsReportPending(t *testing.T) {
	e := NewEngine()
	e.Their.TheirUsages[0] = map[uint8]map[Usage]UsageDef{0: {}}

	e.HandleReceivedReport(0, []byte{0})

	assert.True(t, e.consumeReportPending())
	assert.False(t, e.consumeReportPending())
}

func TestHandleReceivedReportCountsAndTogglesActivityLED(t *testing.T) {
	e := NewEngine()
	e.Their.TheirUsages[0] = map[uint8]map[Usage]UsageDef{0: {}}

	var states []bool
	e.ActivityLED = func(on bool) { states = append(states, on) }

	e.HandleReceivedReport(0, []byte{0})

	assert.Equal(t, uint64(1), e.ReportsReceived)
	assert.Equal(t, []bool{true, false}, states)
}
