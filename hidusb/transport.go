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

package hidusb

import (
	"errors"

	"github.com/f-secure-foundry/hidremap/imx6/usb"
	"github.com/f-secure-foundry/hidremap/remap"
)

// TheirInterface is the interface index the engine's "their" tables are
// kept under for reports relayed inbound over the OUT endpoint. A real
// multi-port deployment would assign one per downstream device; this
// transport exposes a single one, since the i.MX6 controller driver in
// imx6/usb only implements device mode (§6, "USB device/host stack" is
// an external collaborator).
const TheirInterface = 0

// Transport implements remap.USBStack over a device-mode USB controller.
// It presents the composite HID device built by BuildDevice to the host,
// drains submitted reports onto the IN endpoint, and forwards whatever
// arrives on the OUT endpoint to the engine as incoming ("their") reports.
type Transport struct {
	hw  *usb.USB
	dev *usb.Device

	outbox chan []byte
}

// NewTransport prepares a Transport bound to the given controller
// instance (typically usb.USB1) and wires its endpoint functions to
// engine. Call Start to bring the controller up and begin serving it.
func NewTransport(hw *usb.USB, engine *remap.Engine, withResolutionMultiplier bool) *Transport {
	t := &Transport{
		hw:     hw,
		outbox: make(chan []byte, 1),
	}

	dev, inEP, outEP := BuildDevice(withResolutionMultiplier)
	t.dev = dev

	inEP.Function = func(_ []byte, _ error) ([]byte, error) {
		return <-t.outbox, nil
	}

	outEP.Function = func(out []byte, _ error) ([]byte, error) {
		buf := make([]byte, len(out))
		copy(buf, out)

		engine.HandleReceivedReport(TheirInterface, buf)

		return nil, nil
	}

	return t
}

// Start brings the controller up in device mode and serves its
// endpoints. It never returns and is meant to be run in its own
// goroutine alongside the main Engine.Step loop.
func (t *Transport) Start() {
	t.hw.DeviceMode()
	t.hw.Start(t.dev)
}

// HIDReady reports whether the host has completed enumeration (§4.G).
func (t *Transport) HIDReady() bool {
	return t.dev.ConfigurationValue != 0
}

// Suspended reports whether the bus is currently suspended (§4.G).
func (t *Transport) Suspended() bool {
	return t.hw.Suspended()
}

// SubmitReport hands payload, prefixed with reportID, to the IN endpoint
// goroutine for transmission. It is non-blocking: if a previous report is
// still in flight, the submission is rejected so the engine can retain
// and retry it on the next Step (§6 error taxonomy, "USB not ready").
func (t *Transport) SubmitReport(reportID uint8, payload []byte) error {
	wire := make([]byte, 0, len(payload)+1)
	wire = append(wire, reportID)
	wire = append(wire, payload...)

	select {
	case t.outbox <- wire:
		return nil
	default:
		return errors.New("hidusb: IN endpoint busy")
	}
}
