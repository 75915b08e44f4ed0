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

	"github.com/spf13/cobra"

	"github.com/f-secure-foundry/hidremap/remap"
)

// newUsagesCmd builds the "usages" subcommand: it lists the usage
// numbers the device has derived from either its own ("our") report
// descriptor or the attached input device's ("their") descriptor, over
// the same run-length-encoded wire format remap/rle.go produces.
func newUsagesCmd(open func() (ControlDevice, error)) *cobra.Command {
	return &cobra.Command{
		Use:       "usages [our|their]",
		Short:     "list the usage numbers the device has derived from a descriptor",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"our", "their"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := open()
			if err != nil {
				return err
			}
			defer dev.Close()

			var runs []remap.UsageRun

			if args[0] == "our" {
				runs, err = dev.OurUsages()
			} else {
				runs, err = dev.TheirUsages()
			}
			if err != nil {
				return err
			}

			for _, u := range expandRuns(runs) {
				fmt.Fprintf(cmd.OutOrStdout(), "%#010x\n", uint32(u))
			}

			return nil
		},
	}
}
