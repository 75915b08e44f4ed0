// USB HID class descriptor support
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hiddesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorBytesLength(t *testing.T) {
	report := CombinedReportDescriptor(true)

	d := &Descriptor{}
	d.SetDefaults(len(report))

	b := d.Bytes()

	assert.Len(t, b, HID_DESCRIPTOR_LENGTH)
	assert.Equal(t, uint8(HID_DESCRIPTOR_TYPE), b[1])
	assert.Equal(t, uint16(len(report)), d.ReportDescriptorLength)
}

func TestKeyboardReportDescriptorCarriesReportID(t *testing.T) {
	desc := KeyboardReportDescriptor(KeyboardReportID)

	assert.Contains(t, string(desc), string([]byte{0x85, KeyboardReportID}))
}

func TestMouseReportDescriptorWithResolutionMultiplierIsLonger(t *testing.T) {
	plain := MouseReportDescriptor(MouseReportID, false)
	withMult := MouseReportDescriptor(MouseReportID, true)

	assert.Greater(t, len(withMult), len(plain))
}

func TestCombinedReportDescriptorConcatenatesBoth(t *testing.T) {
	kb := KeyboardReportDescriptor(KeyboardReportID)
	mouse := MouseReportDescriptor(MouseReportID, false)

	combined := CombinedReportDescriptor(false)

	assert.Len(t, combined, len(kb)+len(mouse))
}
