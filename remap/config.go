// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package remap

import "time"

// Mapping is one entry of the user-supplied mapping configuration (§3).
type Mapping struct {
	SourceUsage Usage
	TargetUsage Usage
	Scaling     int32
	Flags       uint8
	Layer       uint8
}

// Sticky reports whether the mapping's STICKY flag (bit 0) is set.
func (m Mapping) Sticky() bool {
	return m.Flags&MappingFlagSticky != 0
}

// clampedLayer returns m.Layer clamped to 0 when it names a layer
// outside [0, NLayers).
func (m Mapping) clampedLayer() uint8 {
	if int(m.Layer) >= NLayers {
		return 0
	}

	return m.Layer
}

// MapSource is one contributor to a target usage in the reverse mapping
// (§3).
type MapSource struct {
	SourceUsage Usage
	Scaling     int32
	Sticky      bool
	Layer       uint8
}

// Config is the full, host-editable mapping configuration (§3, §6).
// LoadConfig (the Persistence collaborator) populates it at boot.
type Config struct {
	Mappings             []Mapping
	UnmappedPassthrough  bool
	PartialScrollTimeout time.Duration
	// ResolutionMultiplier is the host-negotiated HID Resolution
	// Multiplier feature value (§6), read as a per-axis bitmask:
	// VResolutionBitmask set means the vertical wheel is hi-res (the
	// device already reports native-resolution units, so deltas pass
	// straight through); HResolutionBitmask does the same for the
	// horizontal wheel. A clear bit means that axis is lo-res and
	// HandleScroll synthesizes whole detents using the fixed
	// ResolutionMultiplier divisor instead.
	ResolutionMultiplier uint16
}
