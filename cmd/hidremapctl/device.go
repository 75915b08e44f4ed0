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

	"github.com/google/gousb"

	"github.com/f-secure-foundry/hidremap/remap"
)

// ControlDevice is everything a subcommand needs from the attached
// device, whether that's a real one reached over USB or the --simulate
// in-memory stand-in. Keeping it this narrow is what lets every
// subcommand be exercised by its own tests without hardware.
type ControlDevice interface {
	PushConfig(yamlBytes []byte) error
	PullConfig() ([]byte, error)
	OurUsages() ([]remap.UsageRun, error)
	TheirUsages() ([]remap.UsageRun, error)
	ReadReport() (reportID uint8, payload []byte, err error)
	Close() error
}

// usbDevice implements ControlDevice over a real gousb.Device, issuing
// vendor-specific control transfers on the default control pipe.
type usbDevice struct {
	ctx *gousb.Context
	dev *gousb.Device
}

// openUSBDevice opens the first device matching vendorID/productID.
func openUSBDevice(vendorID, productID uint16) (*usbDevice, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vendorID), gousb.ID(productID))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("hidremapctl: open device: %w", err)
	}

	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("hidremapctl: no device matching %04x:%04x", vendorID, productID)
	}

	return &usbDevice{ctx: ctx, dev: dev}, nil
}

func (u *usbDevice) controlOut(request uint8, data []byte) error {
	_, err := u.dev.Control(
		gousb.ControlOut|gousb.ControlVendor|gousb.ControlDevice,
		request, 0, 0, data,
	)
	return err
}

func (u *usbDevice) controlIn(request uint8) ([]byte, error) {
	buf := make([]byte, maxControlBytes)

	n, err := u.dev.Control(
		gousb.ControlIn|gousb.ControlVendor|gousb.ControlDevice,
		request, 0, 0, buf,
	)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

func (u *usbDevice) PushConfig(yamlBytes []byte) error {
	return u.controlOut(reqPushConfig, yamlBytes)
}

func (u *usbDevice) PullConfig() ([]byte, error) {
	return u.controlIn(reqPullConfig)
}

func (u *usbDevice) OurUsages() ([]remap.UsageRun, error) {
	data, err := u.controlIn(reqOurUsages)
	if err != nil {
		return nil, err
	}
	return decodeRuns(data)
}

func (u *usbDevice) TheirUsages() ([]remap.UsageRun, error) {
	data, err := u.controlIn(reqTheirUsages)
	if err != nil {
		return nil, err
	}
	return decodeRuns(data)
}

func (u *usbDevice) ReadReport() (uint8, []byte, error) {
	data, err := u.controlIn(reqReadReport)
	if err != nil {
		return 0, nil, err
	}

	if len(data) < 1 {
		return 0, nil, fmt.Errorf("hidremapctl: empty report read")
	}

	return data[0], data[1:], nil
}

func (u *usbDevice) Close() error {
	err := u.dev.Close()
	u.ctx.Close()
	return err
}
