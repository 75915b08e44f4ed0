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
	"gopkg.in/yaml.v3"

	"github.com/f-secure-foundry/hidremap/remap"
)

// newPushCmd builds the "push" subcommand: it validates a YAML mapping
// file against remap.Config before sending it, so a malformed file is
// rejected on the host rather than silently ignored by LoadConfig on
// the device.
func newPushCmd(open func() (ControlDevice, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "push <config.yaml>",
		Short: "push a mapping configuration to the device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var cfg remap.Config
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return err
			}

			canonical, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}

			dev, err := open()
			if err != nil {
				return err
			}
			defer dev.Close()

			if err := dev.PushConfig(canonical); err != nil {
				return err
			}

			cmd.Printf("pushed %d mapping(s)\n", len(cfg.Mappings))
			return nil
		},
	}
}
