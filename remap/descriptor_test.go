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

func TestBuildOurTablesMasksPartitionFields(t *testing.T) {
	t1 := BuildOurTables(map[uint8]map[Usage]UsageDef{
		0: {
			usageA: {BitPos: 0, Size: 8, IsRelative: true},
			usageB: {BitPos: 8, Size: 8, IsRelative: false},
		},
	}, map[uint8]int{0: 2})

	rt := t1.Reports[0]
	require.NotNil(t, rt)

	assert.Equal(t, byte(0xFF), rt.RelativeMask[0])
	assert.Equal(t, byte(0), rt.RelativeMask[1])
	assert.Equal(t, byte(0), rt.AbsoluteMask[0])
	assert.Equal(t, byte(0xFF), rt.AbsoluteMask[1])

	assert.Equal(t, []uint8{0}, t1.ReportIDs)
}

func TestBuildOurTablesReportIDsSorted(t *testing.T) {
	ours := BuildOurTables(nil, map[uint8]int{5: 1, 1: 1, 3: 1})
	assert.Equal(t, []uint8{1, 3, 5}, ours.ReportIDs)
}

func TestUsageDefSigned(t *testing.T) {
	assert.True(t, UsageDef{LogicalMinimum: -1}.Signed())
	assert.False(t, UsageDef{LogicalMinimum: 0}.Signed())
}

func TestRebuildRelativeUsagesEmpty(t *testing.T) {
	tt := NewTheirTables()
	all := tt.RebuildRelativeUsages()

	assert.Empty(t, all)
	assert.Empty(t, tt.RelativeUsages)
}
