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
	"gopkg.in/yaml.v3"

	"github.com/f-secure-foundry/hidremap/remap"
)

func TestPushThenPullRoundTrips(t *testing.T) {
	sim := newSimDevice()
	open := func() (ControlDevice, error) { return sim, nil }

	cfg := remap.Config{
		Mappings: []remap.Mapping{
			{SourceUsage: 1, TargetUsage: 2, Scaling: 1, Layer: 0},
		},
		UnmappedPassthrough:  true,
		ResolutionMultiplier: 8,
	}

	raw, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	var out bytes.Buffer
	push := newPushCmd(open)
	push.SetOut(&out)
	push.SetArgs([]string{path})
	require.NoError(t, push.Execute())
	require.Contains(t, out.String(), "pushed 1 mapping")

	var pulled remap.Config
	require.NoError(t, yaml.Unmarshal(sim.config, &pulled))
	require.Equal(t, cfg, pulled)
}

func TestPushRejectsMissingFile(t *testing.T) {
	sim := newSimDevice()
	open := func() (ControlDevice, error) { return sim, nil }

	push := newPushCmd(open)
	push.SetOut(&bytes.Buffer{})
	push.SetArgs([]string{filepath.Join(t.TempDir(), "missing.yaml")})

	require.Error(t, push.Execute())
}
