// HID report descriptor parsing
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hidparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f-secure-foundry/hidremap/hiddesc"
	"github.com/f-secure-foundry/hidremap/remap"
)

func TestParseCombinedDescriptorReportSizes(t *testing.T) {
	p := New()

	usages, hasReportID, sizes, err := p.ParseDescriptor(hiddesc.CombinedReportDescriptor(true))
	require.NoError(t, err)

	assert.True(t, hasReportID)
	assert.Equal(t, 8, sizes[hiddesc.KeyboardReportID])
	assert.Equal(t, 4, sizes[hiddesc.MouseReportID])

	_, ok := usages[hiddesc.KeyboardReportID][remap.Usage(0x000700E0)]
	assert.True(t, ok, "left control usage should be present")
}

func TestParseResolutionMultiplierDoesNotAffectInputSize(t *testing.T) {
	p := New()

	_, _, plainSizes, err := p.ParseDescriptor(hiddesc.MouseReportDescriptor(hiddesc.MouseReportID, false))
	require.NoError(t, err)

	_, _, multSizes, err := p.ParseDescriptor(hiddesc.MouseReportDescriptor(hiddesc.MouseReportID, true))
	require.NoError(t, err)

	assert.Equal(t, plainSizes[hiddesc.MouseReportID], multSizes[hiddesc.MouseReportID])
}

func TestParseMouseButtonsAreVariableNotArray(t *testing.T) {
	p := New()

	usages, _, _, err := p.ParseDescriptor(hiddesc.MouseReportDescriptor(hiddesc.MouseReportID, false))
	require.NoError(t, err)

	def, ok := usages[hiddesc.MouseReportID][remap.Usage(0x00090001)]
	require.True(t, ok, "button 1 usage should be present")
	assert.False(t, def.IsArray)
	assert.Equal(t, uint(1), def.Size)
}

func TestParseMouseWheelIsRelative(t *testing.T) {
	p := New()

	usages, _, _, err := p.ParseDescriptor(hiddesc.MouseReportDescriptor(hiddesc.MouseReportID, false))
	require.NoError(t, err)

	def, ok := usages[hiddesc.MouseReportID][remap.VScrollUsage]
	require.True(t, ok, "wheel usage should be present under the generic desktop page")
	assert.True(t, def.IsRelative)
	assert.Equal(t, int32(-127), def.LogicalMinimum)
	assert.True(t, def.Signed())
}

func TestParseKeyboardKeyArrayUsesIndexMatch(t *testing.T) {
	p := New()

	usages, _, _, err := p.ParseDescriptor(hiddesc.KeyboardReportDescriptor(hiddesc.KeyboardReportID))
	require.NoError(t, err)

	def, ok := usages[hiddesc.KeyboardReportID][remap.Usage(0x00070004)] // Keyboard 'a'
	require.True(t, ok)
	assert.True(t, def.IsArray)
	assert.Equal(t, uint(6), def.Count)
	assert.Equal(t, uint32(4), def.Index) // slot value selecting 'a'
}

func TestParseRejectsLongItem(t *testing.T) {
	p := New()

	_, _, _, err := p.ParseDescriptor([]byte{0xFE, 0x00, 0x00, 0x00})
	assert.Error(t, err)
}

func TestParseRejectsTruncatedItem(t *testing.T) {
	p := New()

	_, _, _, err := p.ParseDescriptor([]byte{0x95}) // Report Count, 1-byte data, but none follows
	assert.Error(t, err)
}
