// USB HID class descriptor support
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package hiddesc builds the USB HID class descriptor and report
// descriptor bytes for the device-side ("our") HID interfaces the
// remapper exposes to the host: a composite boot-compatible keyboard
// and a mouse with a scroll wheel and an optional resolution-multiplier
// feature report.
package hiddesc

import (
	"bytes"
	"encoding/binary"
)

const (
	HID_DESCRIPTOR_LENGTH = 0x09

	// p22, Section 6.2.1 HID Descriptor, Device Class Definition for HID 1.11.
	HID_DESCRIPTOR_TYPE    = 0x21
	REPORT_DESCRIPTOR_TYPE = 0x22

	// bCountryCode: not localized.
	COUNTRY_CODE_NOT_SUPPORTED = 0
)

// Descriptor implements
// p22, Section 6.2.1 HID Descriptor, Device Class Definition for HID 1.11.
type Descriptor struct {
	Length                 uint8
	DescriptorType         uint8
	bcdHID                 uint16
	CountryCode            uint8
	NumDescriptors         uint8
	ReportDescriptorType   uint8
	ReportDescriptorLength uint16
}

// SetDefaults initializes default values for the HID class descriptor,
// pointing at a single report descriptor of the given length.
func (d *Descriptor) SetDefaults(reportDescriptorLength int) {
	d.Length = HID_DESCRIPTOR_LENGTH
	d.DescriptorType = HID_DESCRIPTOR_TYPE
	d.bcdHID = 0x0111
	d.CountryCode = COUNTRY_CODE_NOT_SUPPORTED
	d.NumDescriptors = 1
	d.ReportDescriptorType = REPORT_DESCRIPTOR_TYPE
	d.ReportDescriptorLength = uint16(reportDescriptorLength)
}

// Bytes converts the descriptor structure to byte array format, for
// embedding in an InterfaceDescriptor's ClassDescriptors.
func (d *Descriptor) Bytes() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, d)
	return buf.Bytes()
}
