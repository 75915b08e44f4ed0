// HID remapper firmware entry point
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
//
// +build tamago,arm

package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/f-secure-foundry/hidremap/hiddesc"
	"github.com/f-secure-foundry/hidremap/hidusb"
	"github.com/f-secure-foundry/hidremap/hidusb/flashconfig"
	"github.com/f-secure-foundry/hidremap/imx6"
	"github.com/f-secure-foundry/hidremap/imx6/usb"
	"github.com/f-secure-foundry/hidremap/remap"
	"github.com/f-secure-foundry/hidremap/remap/hidparse"
	"github.com/f-secure-foundry/hidremap/usbarmory/mark-two"
)

const withResolutionMultiplier = true

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)

	if !imx6.Native {
		return
	}

	if err := imx6.SetARMFreq(900000000); err != nil {
		log.Printf("hidremap: WARNING: error setting ARM frequency: %v\n", err)
	}

	model := imx6.Model()
	log.Printf("hidremap: %s @ freq:%d MHz\n", model, imx6.ARMFreq()/1000000)
}

// ramConfig is a volatile stand-in for remap.Persistence. No NOR/eMMC
// block driver exists to back flashconfig.Storage in this tree, so
// boards without one keep their mapping configuration in RAM only: it
// survives warm Step-loop reconfiguration but not a power cycle. A
// board with real non-volatile storage replaces this with a
// flashconfig.Storage backed by its own block driver; nothing else
// in this file would need to change.
type ramConfig struct {
	data []byte
}

func (r *ramConfig) ReadAll() ([]byte, error) {
	if len(r.data) == 0 {
		return nil, fmt.Errorf("firmware: no configuration stored yet")
	}
	return r.data, nil
}

func (r *ramConfig) WriteAll(b []byte) error {
	r.data = append([]byte(nil), b...)
	return nil
}

func main() {
	usb.USB1.Init()

	engine := remap.NewEngine()
	engine.ActivityLED = func(on bool) {
		if err := usbarmory.LED("white", on); err != nil {
			log.Printf("hidremap: LED error: %v\n", err)
		}
	}

	store := flashconfig.New(&ramConfig{})
	descriptor := hiddesc.CombinedReportDescriptor(withResolutionMultiplier)

	if err := engine.Boot(hidparse.New(), descriptor, store); err != nil {
		log.Fatalf("hidremap: boot failed: %v\n", err)
	}

	transport := hidusb.NewTransport(usb.USB1, engine, withResolutionMultiplier)
	go transport.Start()

	// The controller driver in imx6/usb exposes no per-IRQ-line
	// enable/handler registration (arm/gic.go only performs global GIC
	// bring-up), so there is no SOF interrupt to hook SetTickPending
	// from. A free-running 1ms ticker is the honest substitute: it
	// drives the same scaling/decay cadence Step expects, just from a
	// goroutine instead of an interrupt vector.
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		engine.SetTickPending()
		engine.Step(transport, store)
	}
}
