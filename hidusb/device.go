// USB HID device-side adapter
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
//
// +build tamago,arm

// Package hidusb adapts the device-mode USB controller driver in imx6/usb
// to the remap.USBStack and remap.Persistence collaborator interfaces: it
// presents the composite keyboard/mouse HID descriptors built by hiddesc
// to the upstream host, drains the mapping engine's outgoing queue onto
// the IN endpoint, and feeds received OUT-endpoint reports back into the
// engine as "their" input.
package hidusb

import (
	"github.com/f-secure-foundry/hidremap/hiddesc"
	"github.com/f-secure-foundry/hidremap/imx6/usb"
)

// Product identification (http://pid.codes/1209/2730/).
const (
	vendorID  = 0x1209
	productID = 0x2730
)

// BuildDevice assembles the USB device, configuration, interface and
// endpoint descriptors for the composite HID device, embedding the HID
// class descriptor and report descriptor from hiddesc. inEP and outEP are
// wired with their Function callbacks by Transport.Configure.
func BuildDevice(withResolutionMultiplier bool) (dev *usb.Device, inEP, outEP *usb.EndpointDescriptor) {
	report := hiddesc.CombinedReportDescriptor(withResolutionMultiplier)

	hidDesc := &hiddesc.Descriptor{}
	hidDesc.SetDefaults(len(report))

	inEP = &usb.EndpointDescriptor{}
	inEP.SetDefaults()
	inEP.EndpointAddress = 0x81 // EP1 IN
	inEP.Attributes = usb.INTERRUPT
	inEP.MaxPacketSize = 8
	inEP.Interval = 1

	outEP = &usb.EndpointDescriptor{}
	outEP.SetDefaults()
	outEP.EndpointAddress = 0x01 // EP1 OUT
	outEP.Attributes = usb.INTERRUPT
	outEP.MaxPacketSize = 8
	outEP.Interval = 1

	iface := &usb.InterfaceDescriptor{}
	iface.SetDefaults()
	iface.InterfaceClass = 0x03 // HID
	iface.InterfaceSubClass = 0x00
	iface.InterfaceProtocol = 0x00
	iface.NumEndpoints = 2
	iface.Endpoints = []*usb.EndpointDescriptor{inEP, outEP}
	iface.ClassDescriptors = [][]byte{hidDesc.Bytes(), report}

	conf := &usb.ConfigurationDescriptor{}
	conf.SetDefaults()
	conf.Interfaces = []*usb.InterfaceDescriptor{iface}

	devDesc := &usb.DeviceDescriptor{}
	devDesc.SetDefaults()
	devDesc.VendorId = vendorID
	devDesc.ProductId = productID
	devDesc.DeviceClass = 0x00
	devDesc.DeviceSubClass = 0x00
	devDesc.DeviceProtocol = 0x00

	qualifier := &usb.DeviceQualifierDescriptor{}
	qualifier.SetDefaults()

	dev = &usb.Device{
		Descriptor:     devDesc,
		Qualifier:      qualifier,
		Configurations: []*usb.ConfigurationDescriptor{conf},
	}

	dev.SetLanguageCodes([]uint16{0x0409}) // English (United States)
	manufacturer, _ := dev.AddString("hidremap")
	product, _ := dev.AddString("USB HID remapper")

	devDesc.Manufacturer = manufacturer
	devDesc.Product = product

	return dev, inEP, outEP
}
