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

// layerActive reports whether layer is presently active, as last
// computed by resolveLayerState.
func (e *Engine) layerActive(layer uint8) bool {
	if int(layer) >= NLayers {
		return false
	}

	return e.LayerState[layer]
}

func (e *Engine) risingEdge(usage Usage) bool {
	return e.InputState[usage] != 0 && e.PrevInputState[usage] == 0
}

// resolveLayerToggles implements the layer-triggering-sticky pass: a
// rising edge on a source configured as a sticky layer toggle flips
// that source's latched state, keyed by the bare source usage (§4.D
// step 1).
func (e *Engine) resolveLayerToggles() {
	for _, usage := range e.LayerTriggeringStickies {
		if !e.risingEdge(usage) {
			continue
		}

		e.StickyState[uint64(usage)] ^= 1
	}
}

// resolveLayerState recomputes, from scratch, which virtual layers are
// active this pass (§4.D step 2). Layer L>=1 is active iff any MapSource
// targeting LayerUsage(L) evaluates truthy right now: a sticky source's
// latched state (flipped by resolveLayerToggles), or a non-sticky
// source's raw held input level -- the first truthy source in
// declaration order wins, though only whether any is truthy matters
// here. Layer 0, the always-present base layer, is active iff no higher
// layer is: this makes it inactive while a higher layer is engaged.
func (e *Engine) resolveLayerState() {
	var anyHigher bool

	for layer := uint8(1); layer < NLayers; layer++ {
		var active bool

		for _, src := range e.ReverseMapping[LayerUsage(layer)] {
			var truthy bool

			if src.Sticky {
				truthy = e.StickyState[uint64(src.SourceUsage)] != 0
			} else {
				truthy = e.InputState[src.SourceUsage] != 0
			}

			if truthy {
				active = true
				break
			}
		}

		e.LayerState[layer] = active
		anyHigher = anyHigher || active
	}

	e.LayerState[0] = !anyHigher
}

// resolveStickyToggles flips the latched on/off state of every
// non-layer sticky source that both sits on a currently active layer
// and has just seen a rising edge.
func (e *Engine) resolveStickyToggles() {
	keys := make([]uint64, 0, len(e.StickyUsages))
	for k := range e.StickyUsages {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		layer := uint8(key >> 32)
		usage := Usage(key)

		if !e.layerActive(layer) || !e.risingEdge(usage) {
			continue
		}

		e.StickyState[key] ^= 1
	}
}

// absoluteContribution returns the value src contributes to an absolute
// target this pass, and whether it contributes at all (§4.D step 4). A
// sticky source's non-zero latched state counts directly and
// unconditionally (no layer gating); a non-sticky source on an active
// layer counts as a flat 1 whenever its scaled input is positive,
// regardless of magnitude, so a wide keycode can never overflow a
// narrow target field.
func (e *Engine) absoluteContribution(src MapSource) (int32, bool) {
	if src.Sticky {
		v := e.StickyState[packStickyUsage(src.Layer, src.SourceUsage)]
		return v, v != 0
	}

	if !e.layerActive(src.Layer) {
		return 0, false
	}

	if e.InputState[src.SourceUsage]*src.Scaling > 0 {
		return 1, true
	}

	return 0, false
}

// isRelativeUsage reports whether usage is itself a relative "their"
// usage (including the wheel usages), as opposed to a level/boolean
// source merely feeding a relative target.
func (e *Engine) isRelativeUsage(usage Usage) bool {
	if IsScrollUsage(usage) {
		return true
	}

	def, ok := e.theirUsageDef(usage)
	return ok && def.IsRelative
}

// relativeValue returns the scaled, sticky-aware value src contributes
// to a relative target this pass, ungated (§4.D step 4): a sticky
// source's latched state, scaled, or a non-sticky source's raw current
// input on an active layer, scaled.
func (e *Engine) relativeValue(src MapSource) int32 {
	if src.Sticky {
		return e.StickyState[packStickyUsage(src.Layer, src.SourceUsage)] * src.Scaling
	}

	if e.layerActive(src.Layer) {
		return e.InputState[src.SourceUsage] * src.Scaling
	}

	return 0
}

// theirUsageDef looks usage up across every known interface's "their"
// tables, returning the first match.
func (e *Engine) theirUsageDef(usage Usage) (UsageDef, bool) {
	for _, byReport := range e.Their.TheirUsages {
		for _, byUsage := range byReport {
			if def, ok := byUsage[usage]; ok {
				return def, true
			}
		}
	}

	return UsageDef{}, false
}

// resolveTargets writes every target usage's resolved value into its
// report's working buffer (§4.D step 4): relative targets accumulate
// scaled values from every gated-in contributing source into a
// milli-unit accumulator and flush only the whole-unit portion each
// pass (so a fractional Scaling takes several passes to produce one
// output unit), absolute targets take the value of the last active,
// non-zero source to be considered (ties broken by mapping declaration
// order), so a higher-priority mapping can shadow a lower one simply by
// being declared later.
//
// A source only contributes to a relative target when autoRepeat is
// true or the source is itself a relative "their" usage: a held
// level/boolean source re-contributes only on the tick pass, while a
// genuinely relative source's fresh delta is taken as soon as it
// arrives.
func (e *Engine) resolveTargets(now int64, autoRepeat bool) {
	targets := make([]Usage, 0, len(e.ReverseMapping))
	for t := range e.ReverseMapping {
		targets = append(targets, t)
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	for _, target := range targets {
		def, ok := e.Our.OurUsagesFlat[target]
		if !ok {
			continue
		}

		rt, ok := e.Our.Reports[def.ReportID]
		if !ok {
			continue
		}

		if def.IsRelative {
			isScrollTarget := IsScrollUsage(target)

			for _, src := range e.ReverseMapping[target] {
				if !autoRepeat && !e.isRelativeUsage(src.SourceUsage) {
					continue
				}

				value := e.relativeValue(src)

				if isScrollTarget {
					e.Accumulated[target] += e.HandleScroll(src.SourceUsage, target, value, now)
				} else {
					e.Accumulated[target] += value
				}
			}

			acc := e.Accumulated[target]
			if acc == 0 {
				continue
			}

			whole := acc / 1000
			e.Accumulated[target] = acc - whole*1000

			if whole == 0 {
				continue
			}

			cur := GetSignedBits(rt.Working, def.BitPos, def.Size, def.Signed())
			PutBits(rt.Working, def.BitPos, def.Size, uint32(cur+whole))

			continue
		}

		var resolved int32
		var found bool

		for _, src := range e.ReverseMapping[target] {
			v, ok := e.absoluteContribution(src)
			if !ok {
				continue
			}

			resolved = v
			found = true
		}

		if found {
			PutBits(rt.Working, def.BitPos, def.Size, uint32(resolved))
		}
	}
}

// consumeRelativeInput zeroes every "their" relative usage's
// accumulator, since ProcessMapping has just folded it into this pass's
// targets.
func (e *Engine) consumeRelativeInput() {
	for usage := range e.Their.RelativeUsageSet {
		e.InputState[usage] = 0
		e.PrevInputState[usage] = 0
	}
}

// ProcessMapping runs one pass of the remapping resolution: layer
// toggles, layer evaluation, sticky toggles, target resolution, and
// outgoing enqueue (§4.D). autoRepeat is true on the tick path and
// false on the data-arrival path; it both gates relative-target
// re-evaluation of held level sources (see resolveTargets) and, since
// edge-triggered toggles naturally stay quiet on a pass where
// InputState hasn't changed, still lets absolute and relative target
// resolution run so held state keeps being reasserted and scroll decay
// keeps advancing.
func (e *Engine) ProcessMapping(autoRepeat bool) {
	now := e.Clock()

	e.resolveLayerToggles()
	e.resolveLayerState()
	e.resolveStickyToggles()
	e.resolveTargets(now, autoRepeat)

	for _, reportID := range e.Our.ReportIDs {
		rt := e.Our.Reports[reportID]
		e.Queue.Enqueue(reportID, rt, e.Our.OurUsages[reportID])
	}

	e.consumeRelativeInput()

	for usage, v := range e.InputState {
		e.PrevInputState[usage] = v
	}
}
