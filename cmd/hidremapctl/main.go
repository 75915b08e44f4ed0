// Host-side control plane for the HID remapper
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command hidremapctl is the host-side counterpart to the firmware's
// control plane (§6): it pushes and pulls the YAML mapping
// configuration, lists the usage runs the device has derived from its
// descriptors, and offers a raw-terminal live view of incoming reports.
// Every subcommand runs equally well against a real device over USB
// (github.com/google/gousb) or, with --simulate, against an in-memory
// stand-in, which is also what this package's own tests exercise.
package main

import (
	"log"
)

var version = "dev"

func main() {
	if err := newRootCmd(version).Execute(); err != nil {
		log.Fatal(err)
	}
}
