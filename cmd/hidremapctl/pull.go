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
	"os"

	"github.com/spf13/cobra"
)

// newPullCmd builds the "pull" subcommand: it retrieves the device's
// current mapping configuration and either prints it or writes it to a
// file, ready to be edited and pushed back.
func newPullCmd(open func() (ControlDevice, error)) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "pull the device's current mapping configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := open()
			if err != nil {
				return err
			}
			defer dev.Close()

			yamlBytes, err := dev.PullConfig()
			if err != nil {
				return err
			}

			if out == "" {
				cmd.Print(string(yamlBytes))
				return nil
			}

			return os.WriteFile(out, yamlBytes, 0o644)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "write the configuration to this file instead of stdout")

	return cmd
}
