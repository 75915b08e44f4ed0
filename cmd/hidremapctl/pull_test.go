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

func TestPullPrintsConfigurationToStdout(t *testing.T) {
	sim := newSimDevice()
	require.NoError(t, sim.PushConfig([]byte("unmappedpassthrough: true\n")))
	open := func() (ControlDevice, error) { return sim, nil }

	var out bytes.Buffer
	pull := newPullCmd(open)
	pull.SetOut(&out)
	pull.SetArgs([]string{})

	require.NoError(t, pull.Execute())
	require.Equal(t, "unmappedpassthrough: true\n", out.String())
}

func TestPullFailsWithoutAConfiguration(t *testing.T) {
	sim := newSimDevice()
	open := func() (ControlDevice, error) { return sim, nil }

	pull := newPullCmd(open)
	pull.SetOut(&bytes.Buffer{})
	pull.SetArgs([]string{})

	require.Error(t, pull.Execute())
}
