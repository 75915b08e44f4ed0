// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package remap implements the mapping engine data plane of a USB HID
// remapper: it ingests input reports from attached HID devices, resolves
// them against a configured mapping table, and produces outgoing HID
// reports for the host endpoint.
//
// This package holds no hardware state: it is driven by the small set of
// collaborator interfaces defined in engine.go (DescriptorParser,
// Persistence, USBStack) and is safe to exercise with `go test` on any
// GOOS.
package remap

// Usage is a 32-bit HID usage identifier, (page << 16) | id.
type Usage uint32

// NLayers is the number of virtual layers, including the always-active
// layer 0.
const NLayers = 4

// LayersUsagePage is the reserved HID usage page encoding virtual "layer"
// usages as LayersUsagePage | L for L in [0, NLayers).
const LayersUsagePage Usage = 0xFFF10000

// LayerUsage returns the virtual usage that represents layer l being
// active. Layer values outside [0, NLayers) are not meaningful to the
// resolver, which only ever evaluates l in [1, NLayers).
func LayerUsage(l uint8) Usage {
	return LayersUsagePage | Usage(l)
}

// Scroll usages and their resolution-multiplier bitmasks (§6 wire
// constants).
const (
	VScrollUsage Usage = 0x00010038
	HScrollUsage Usage = 0x000C0238

	VResolutionBitmask uint8 = 1 << 0
	HResolutionBitmask uint8 = 1 << 2
)

// ResolutionMultiplier is the fixed hi-res wheel tick divisor used by the
// lo-res scroll synthesis path (§4.E).
const ResolutionMultiplier = 120

// ORBufSize is the capacity of the outgoing report queue (§4.F).
const ORBufSize = 8

// MappingFlagSticky is mapping flag bit 0: the mapping's source toggles a
// latch on a rising edge instead of driving the target directly.
const MappingFlagSticky uint8 = 0x01
