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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// Under `go test`, stdin is not a terminal, so the raw-mode branch is
// skipped and identify reads exactly one report before returning --
// exercising the decode/print path without needing a real keypress.
func TestIdentifyPrintsOneReportWithoutATerminal(t *testing.T) {
	sim := newSimDevice()
	open := func() (ControlDevice, error) { return sim, nil }

	var out bytes.Buffer
	cmd := newIdentifyCmd(open)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "report 2:")
}
