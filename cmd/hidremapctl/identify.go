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
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newIdentifyCmd builds the "identify" subcommand: a live view of raw
// reports arriving from the downstream device, meant for an operator to
// press a key or move an axis and read off the report bytes it
// produces. The terminal is put in raw mode so a single keypress quits
// the loop without waiting on Enter.
func newIdentifyCmd(open func() (ControlDevice, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "identify",
		Short: "stream raw reports from the attached device until a key is pressed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := open()
			if err != nil {
				return err
			}
			defer dev.Close()

			fd := int(os.Stdin.Fd())

			var restore func()
			if term.IsTerminal(fd) {
				state, err := term.MakeRaw(fd)
				if err != nil {
					return err
				}
				restore = func() { term.Restore(fd, state) }
				defer restore()
			}

			quit := make(chan struct{})
			if restore != nil {
				go waitForKeypress(quit)
			}

			for {
				select {
				case <-quit:
					return nil
				default:
				}

				reportID, payload, err := dev.ReadReport()
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "report %d: % x\r\n", reportID, payload)

				if restore == nil {
					return nil
				}
			}
		},
	}
}

// waitForKeypress reads a single byte from stdin and closes quit,
// letting the raw-mode identify loop exit on any keypress.
func waitForKeypress(quit chan struct{}) {
	buf := make([]byte, 1)
	os.Stdin.Read(buf)
	close(quit)
}
