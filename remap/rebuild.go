// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package remap

import "sort"

// packStickyUsage combines a layer and a usage into the single key used
// by stickyState/StickyUsages, mirroring the original's (layer << 32) |
// usage packing.
func packStickyUsage(layer uint8, usage Usage) uint64 {
	return uint64(layer)<<32 | uint64(usage)
}

// RebuildReverseMapping derives, from cfg and our.OurUsagesFlat, the
// reverse mapping (target usage -> contributing sources), the set of
// sticky sources that also trigger a layer, and the set of (layer,
// usage) pairs that are sticky on a non-layer-triggering target (§4.H,
// grounded on the original's set_mapping_from_config()).
func (e *Engine) RebuildReverseMapping(cfg Config) {
	e.Config = cfg
	e.ReverseMapping = make(map[Usage][]MapSource)
	e.LayerTriggeringStickies = nil
	e.LayerTriggerTarget = make(map[Usage]uint8)
	e.StickyUsages = make(map[uint64]bool)

	mapped := make(map[Usage]bool)

	for _, m := range cfg.Mappings {
		layer := m.clampedLayer()

		src := MapSource{
			SourceUsage: m.SourceUsage,
			Scaling:     m.Scaling,
			Sticky:      m.Sticky(),
			Layer:       layer,
		}

		e.ReverseMapping[m.TargetUsage] = append(e.ReverseMapping[m.TargetUsage], src)
		mapped[m.SourceUsage] = true

		if !src.Sticky {
			// A non-sticky layer-trigger mapping still lands in
			// ReverseMapping above; resolveLayerState reads a layer's
			// held, non-sticky trigger sources straight from there, so
			// it activates its layer while held with no toggle-list
			// bookkeeping needed here. LayerTriggeringStickies only
			// tracks the rising-edge-latch (sticky) case.
			continue
		}

		if m.TargetUsage&LayersUsagePage == LayersUsagePage {
			e.LayerTriggeringStickies = append(e.LayerTriggeringStickies, m.SourceUsage)
			e.LayerTriggerTarget[m.SourceUsage] = uint8(m.TargetUsage &^ LayersUsagePage)
		} else {
			e.StickyUsages[packStickyUsage(layer, m.SourceUsage)] = true
		}
	}

	sort.Slice(e.LayerTriggeringStickies, func(i, j int) bool {
		return e.LayerTriggeringStickies[i] < e.LayerTriggeringStickies[j]
	})

	if !cfg.UnmappedPassthrough || e.Our == nil {
		return
	}

	for usage := range e.Our.OurUsagesFlat {
		if mapped[usage] {
			continue
		}

		e.ReverseMapping[usage] = append(e.ReverseMapping[usage], MapSource{SourceUsage: usage})
	}
}

// RebuildTheirDerived recomputes the "their" relative-usage tables after
// a descriptor change and immediately rebuilds the reverse mapping from
// the current config (§4.H).
func (e *Engine) RebuildTheirDerived() map[Usage]bool {
	all := e.Their.RebuildRelativeUsages()
	e.RebuildReverseMapping(e.Config)
	return all
}
