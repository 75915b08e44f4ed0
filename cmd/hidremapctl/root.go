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
	"github.com/spf13/cobra"
)

// newRootCmd builds the hidremapctl command tree.
func newRootCmd(version string) *cobra.Command {
	var simulate bool
	var vendorID, productID uint16

	root := &cobra.Command{
		Use:     "hidremapctl",
		Short:   "control plane client for the USB HID remapper",
		Version: version,
	}

	root.PersistentFlags().BoolVar(&simulate, "simulate", false, "talk to an in-memory simulated device instead of real USB hardware")
	root.PersistentFlags().Uint16Var(&vendorID, "vendor", usbVendorID, "device vendor ID")
	root.PersistentFlags().Uint16Var(&productID, "product", usbProductID, "device product ID")
	root.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	open := func() (ControlDevice, error) {
		if simulate {
			return newSimDevice(), nil
		}
		return openUSBDevice(vendorID, productID)
	}

	root.AddCommand(newPushCmd(open))
	root.AddCommand(newPullCmd(open))
	root.AddCommand(newUsagesCmd(open))
	root.AddCommand(newIdentifyCmd(open))

	return root
}
