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

func newTestEngine(t *testing.T, our map[uint8]map[Usage]UsageDef, sizes map[uint8]int, their map[Usage]UsageDef) *Engine {
	t.Helper()

	e := NewEngine()
	e.Our = BuildOurTables(our, sizes)
	e.Their.TheirUsages[0] = map[uint8]map[Usage]UsageDef{0: their}
	e.Their.RebuildRelativeUsages()

	var clock int64
	e.Clock = func() int64 { clock++; return clock }

	return e
}

func TestProcessMappingDirectKeyRemap(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8}}},
		map[uint8]int{0: 1},
		map[Usage]UsageDef{usageA: {BitPos: 0, Size: 8}},
	)

	e.RebuildReverseMapping(Config{Mappings: []Mapping{{SourceUsage: usageA, TargetUsage: usageB, Scaling: 1000}}})

	e.HandleReceivedReport(0, []byte{1})
	e.ProcessMapping(false)

	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, byte(1), payload[0])
}

func TestProcessMappingAbsoluteTargetCollapsesToOne(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8}}},
		map[uint8]int{0: 1},
		map[Usage]UsageDef{usageA: {BitPos: 0, Size: 8}},
	)

	e.RebuildReverseMapping(Config{Mappings: []Mapping{{SourceUsage: usageA, TargetUsage: usageB, Scaling: 1000}}})

	// a keycode value of 5, not a boolean, must still collapse to a flat
	// 1 in a narrow absolute field rather than corrupting its low bit.
	e.HandleReceivedReport(0, []byte{5})
	e.ProcessMapping(false)

	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, byte(1), payload[0])
}

func TestProcessMappingStickyRisingEdgeOnly(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8}}},
		map[uint8]int{0: 1},
		map[Usage]UsageDef{usageA: {BitPos: 0, Size: 8}},
	)

	e.RebuildReverseMapping(Config{Mappings: []Mapping{
		{SourceUsage: usageA, TargetUsage: usageB, Scaling: 1000, Flags: MappingFlagSticky},
	}})

	e.HandleReceivedReport(0, []byte{1})
	e.ProcessMapping(false)
	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, byte(1), payload[0], "first press latches on")

	e.HandleReceivedReport(0, []byte{1})
	e.ProcessMapping(false)
	assert.Equal(t, 0, e.Queue.Len(), "holding the key must not re-trigger the toggle")

	e.HandleReceivedReport(0, []byte{0})
	e.ProcessMapping(false)
	assert.Equal(t, 0, e.Queue.Len(), "release is not a rising edge either")

	e.HandleReceivedReport(0, []byte{1})
	e.ProcessMapping(false)
	_, payload, ok = e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, byte(0), payload[0], "second press latches off")
}

func TestProcessMappingLayerToggle(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {
			usageB: {BitPos: 0, Size: 8},
			usageC: {BitPos: 8, Size: 8},
		}},
		map[uint8]int{0: 2},
		map[Usage]UsageDef{
			usageA: {BitPos: 0, Size: 8},
			usageB: {BitPos: 8, Size: 8},
		},
	)

	e.RebuildReverseMapping(Config{Mappings: []Mapping{
		{SourceUsage: usageA, TargetUsage: LayerUsage(1), Scaling: 1000, Flags: MappingFlagSticky},
		{SourceUsage: usageB, TargetUsage: usageC, Scaling: 1000, Layer: 1},
	}})

	// layer-1 mapping is inactive before the layer toggles on.
	e.HandleReceivedReport(0, []byte{0, 9})
	e.ProcessMapping(false)
	assert.Equal(t, 0, e.Queue.Len())

	e.HandleReceivedReport(0, []byte{1, 0})
	e.ProcessMapping(false)
	assert.True(t, e.LayerState[1])
	assert.False(t, e.LayerState[0], "base layer must go inactive while layer 1 is engaged")

	e.HandleReceivedReport(0, []byte{0, 9})
	e.ProcessMapping(false)
	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, byte(1), payload[1], "absolute target collapses to 1, not the raw keycode")
}

func TestProcessMappingNonStickyLayerHoldActivatesLayer(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {
			usageB: {BitPos: 0, Size: 8},
			usageC: {BitPos: 8, Size: 8},
		}},
		map[uint8]int{0: 2},
		map[Usage]UsageDef{
			usageA: {BitPos: 0, Size: 8},
			usageB: {BitPos: 8, Size: 8},
		},
	)

	// usageA is a plain (non-sticky) hold-to-reach-layer-1 mapping.
	e.RebuildReverseMapping(Config{Mappings: []Mapping{
		{SourceUsage: usageA, TargetUsage: LayerUsage(1), Scaling: 1000},
		{SourceUsage: usageB, TargetUsage: usageC, Scaling: 1000, Layer: 1},
	}})

	e.HandleReceivedReport(0, []byte{1, 9})
	e.ProcessMapping(false)
	require.True(t, e.LayerState[1], "holding usageA must activate layer 1")

	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, byte(1), payload[1], "layer-1 mapping fires while the hold key is down")

	e.HandleReceivedReport(0, []byte{0, 9})
	e.ProcessMapping(false)
	assert.False(t, e.LayerState[1], "releasing usageA must deactivate layer 1 immediately")
}

func TestProcessMappingRelativeTargetAccumulates(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8, IsRelative: true, LogicalMinimum: -127}}},
		map[uint8]int{0: 1},
		map[Usage]UsageDef{usageA: {BitPos: 0, Size: 8, IsRelative: true, LogicalMinimum: -127}},
	)

	e.RebuildReverseMapping(Config{Mappings: []Mapping{{SourceUsage: usageA, TargetUsage: usageB, Scaling: 2000}}})

	e.HandleReceivedReport(0, []byte{3})
	e.ProcessMapping(false)

	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int32(6), SignExtend(uint32(payload[0]), 8))
}

func TestProcessMappingFractionalScalingAccumulatesAcrossTicks(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8, IsRelative: true, LogicalMinimum: -127}}},
		map[uint8]int{0: 1},
		map[Usage]UsageDef{usageA: {BitPos: 0, Size: 8}}, // held level source, not itself relative
	)

	// scaling=250 (0.25x): a held source contributes a quarter unit on
	// every autoRepeat tick, needing four ticks to reach a whole output
	// unit (S2).
	e.RebuildReverseMapping(Config{Mappings: []Mapping{{SourceUsage: usageA, TargetUsage: usageB, Scaling: 250}}})

	e.HandleReceivedReport(0, []byte{1})
	e.ProcessMapping(false)
	assert.Equal(t, 0, e.Queue.Len(), "a non-relative source only contributes on the tick pass, not on arrival")

	for i := 0; i < 3; i++ {
		e.ProcessMapping(true)
	}
	assert.Equal(t, 0, e.Queue.Len(), "three quarters alone must not round up to a whole output unit")

	e.ProcessMapping(true)

	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int32(1), SignExtend(uint32(payload[0]), 8), "four quarters accumulate to exactly one unit")
}

func TestProcessMappingStickySourceFeedsRelativeTargetLatchedValue(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8, IsRelative: true, LogicalMinimum: -127}}},
		map[uint8]int{0: 1},
		map[Usage]UsageDef{usageA: {BitPos: 0, Size: 8}},
	)

	e.RebuildReverseMapping(Config{Mappings: []Mapping{
		{SourceUsage: usageA, TargetUsage: usageB, Scaling: 1000, Flags: MappingFlagSticky},
	}})

	// the rising edge latches sticky_state on, but usageA is not itself a
	// relative "their" usage, so (like any non-relative source) it is
	// gated out of relative-target accumulation on the arrival pass.
	e.HandleReceivedReport(0, []byte{1})
	e.ProcessMapping(false)
	assert.Equal(t, 0, e.Queue.Len())

	// on the next tick the latched state (1, unscaled by nothing since
	// scaling here is 1000 = 1x) contributes to the relative target.
	e.ProcessMapping(true)

	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int32(1), SignExtend(uint32(payload[0]), 8))
}

func TestProcessMappingAutoRepeatGatesHeldLevelSource(t *testing.T) {
	e := newTestEngine(t,
		map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8, IsRelative: true, LogicalMinimum: -127}}},
		map[uint8]int{0: 1},
		map[Usage]UsageDef{usageA: {BitPos: 0, Size: 8}}, // not a relative "their" usage
	)

	e.RebuildReverseMapping(Config{Mappings: []Mapping{{SourceUsage: usageA, TargetUsage: usageB, Scaling: 1000}}})

	e.HandleReceivedReport(0, []byte{1})
	e.ProcessMapping(false)
	assert.Equal(t, 0, e.Queue.Len(), "a held non-relative source must not contribute on the data-arrival pass")

	e.ProcessMapping(true)
	_, payload, ok := e.Queue.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int32(1), SignExtend(uint32(payload[0]), 8), "the same held source contributes once autoRepeat is true")
}
