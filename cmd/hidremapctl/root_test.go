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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommandWiresSubcommands(t *testing.T) {
	root := newRootCmd("test")

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	require.True(t, names["push"])
	require.True(t, names["pull"])
	require.True(t, names["usages"])
	require.True(t, names["identify"])
}

// --simulate replaces the USB-backed device with an in-memory one for
// the duration of a single invocation, so a full command-tree run never
// touches real hardware.
func TestSimulateFlagAvoidsOpeningRealHardware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unmappedpassthrough: true\n"), 0o644))

	root := newRootCmd("test")
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--simulate", "push", path})

	require.NoError(t, root.Execute())
}
