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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsagesListsOurUsages(t *testing.T) {
	sim := newSimDevice()
	open := func() (ControlDevice, error) { return sim, nil }

	var out bytes.Buffer
	cmd := newUsagesCmd(open)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"our"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 24)
	require.Equal(t, "0x00070004", lines[0])
}

func TestUsagesRejectsUnknownSide(t *testing.T) {
	sim := newSimDevice()
	open := func() (ControlDevice, error) { return sim, nil }

	cmd := newUsagesCmd(open)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"upstream"})

	require.Error(t, cmd.Execute())
}
