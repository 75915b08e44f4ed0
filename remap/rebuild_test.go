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

const usageA Usage = 0x00070004 // keyboard 'a'
const usageB Usage = 0x00070005 // keyboard 'b'
const usageC Usage = 0x00070006 // keyboard 'c'

func TestRebuildReverseMapping(t *testing.T) {
	e := NewEngine()
	e.Our = BuildOurTables(map[uint8]map[Usage]UsageDef{
		0: {
			usageA: {ReportID: 0, BitPos: 0, Size: 8},
			usageB: {ReportID: 0, BitPos: 8, Size: 8},
		},
	}, map[uint8]int{0: 2})

	cfg := Config{
		Mappings: []Mapping{
			{SourceUsage: usageA, TargetUsage: usageB, Scaling: 1},
			{SourceUsage: usageB, TargetUsage: LayerUsage(1), Scaling: 1, Flags: MappingFlagSticky},
		},
	}

	e.RebuildReverseMapping(cfg)

	require.Len(t, e.ReverseMapping[usageB], 1)
	assert.Equal(t, usageA, e.ReverseMapping[usageB][0].SourceUsage)

	require.Len(t, e.LayerTriggeringStickies, 1)
	assert.Equal(t, usageB, e.LayerTriggeringStickies[0])
	assert.Equal(t, uint8(1), e.LayerTriggerTarget[usageB])
}

func TestRebuildUnmappedPassthrough(t *testing.T) {
	e := NewEngine()
	e.Our = BuildOurTables(map[uint8]map[Usage]UsageDef{
		0: {
			usageA: {ReportID: 0, BitPos: 0, Size: 8},
			usageC: {ReportID: 0, BitPos: 8, Size: 8},
		},
	}, map[uint8]int{0: 2})

	cfg := Config{
		UnmappedPassthrough: true,
		Mappings: []Mapping{
			{SourceUsage: usageA, TargetUsage: usageA, Scaling: 1},
		},
	}

	e.RebuildReverseMapping(cfg)

	require.Len(t, e.ReverseMapping[usageC], 1)
	assert.Equal(t, usageC, e.ReverseMapping[usageC][0].SourceUsage)
}

func TestRebuildNonStickyLayerTriggerReachesReverseMapping(t *testing.T) {
	e := NewEngine()
	e.Our = BuildOurTables(nil, nil)

	cfg := Config{
		Mappings: []Mapping{
			{SourceUsage: usageA, TargetUsage: LayerUsage(1), Scaling: 1},
		},
	}

	e.RebuildReverseMapping(cfg)

	// a plain hold-to-layer mapping is not sticky, so it never lands in
	// LayerTriggeringStickies, but it must still appear in ReverseMapping
	// under the layer usage: resolveLayerState reads it from there.
	assert.Empty(t, e.LayerTriggeringStickies)
	require.Len(t, e.ReverseMapping[LayerUsage(1)], 1)
	assert.Equal(t, usageA, e.ReverseMapping[LayerUsage(1)][0].SourceUsage)
	assert.False(t, e.ReverseMapping[LayerUsage(1)][0].Sticky)
}

func TestRebuildNonStickySourceNotTracked(t *testing.T) {
	e := NewEngine()
	e.Our = BuildOurTables(nil, nil)

	cfg := Config{
		Mappings: []Mapping{
			{SourceUsage: usageA, TargetUsage: usageB, Scaling: 1},
		},
	}

	e.RebuildReverseMapping(cfg)

	assert.Empty(t, e.LayerTriggeringStickies)
	assert.Empty(t, e.StickyUsages)
}

func TestRebuildTheirDerivedRecomputesRelativeUsages(t *testing.T) {
	e := NewEngine()
	e.Our = BuildOurTables(nil, nil)
	e.Their.TheirUsages[0] = map[uint8]map[Usage]UsageDef{
		0: {
			usageA: {IsRelative: true},
			usageB: {IsRelative: false},
		},
	}

	all := e.RebuildTheirDerived()

	assert.True(t, all[usageA])
	assert.True(t, all[usageB])
	assert.True(t, e.Their.RelativeUsageSet[usageA])
	assert.False(t, e.Their.RelativeUsageSet[usageB])
}
