// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package remap

// IsScrollUsage reports whether usage is one of the wheel usages that
// HandleScroll applies to.
func IsScrollUsage(usage Usage) bool {
	return usage == VScrollUsage || usage == HScrollUsage
}

// hiResBitmask returns the Config.ResolutionMultiplier bit that selects
// hi-res passthrough for target's scroll axis, or 0 if target is not a
// scroll usage.
func hiResBitmask(target Usage) uint16 {
	switch target {
	case VScrollUsage:
		return uint16(VResolutionBitmask)
	case HScrollUsage:
		return uint16(HResolutionBitmask)
	default:
		return 0
	}
}

// HandleScroll folds value -- the already layer/sticky/scaling-resolved
// contribution of source towards target -- into whole wheel detents
// (§4.E). source keys the per-axis accumulator/decay-timer pair, so two
// independent sources feeding the same scroll target decay on their own
// schedule; target's V/H identity selects which resolution-multiplier
// bit of Config.ResolutionMultiplier gates hi-res passthrough.
//
// Hi-res (bit set): value passes straight through, the host having
// already negotiated native-resolution reporting for that axis.
//
// Lo-res (bit clear, the default): value is scaled by the fixed
// ResolutionMultiplier divisor and accumulated until a whole detent
// (1000 milli-units) is available, any leftover carried forward. If
// more than Config.PartialScrollTimeout has elapsed since the last
// scroll event on this source, the carried remainder is considered
// stale and dropped, so a partial detent left over from one scroll
// gesture never leaks into an unrelated later one.
func (e *Engine) HandleScroll(source, target Usage, value int32, now int64) int32 {
	if bit := hiResBitmask(target); bit != 0 && e.Config.ResolutionMultiplier&bit != 0 {
		e.AccumulatedScroll[source] = 0
		e.LastScrollTick[source] = now
		return value
	}

	if last, ok := e.LastScrollTick[source]; ok {
		if e.Config.PartialScrollTimeout > 0 && now-last > e.Config.PartialScrollTimeout.Microseconds() {
			e.AccumulatedScroll[source] = 0
		}
	}

	if value == 0 {
		return 0
	}

	e.LastScrollTick[source] = now
	e.AccumulatedScroll[source] += value * ResolutionMultiplier

	const divisor int32 = 1000 * ResolutionMultiplier

	ticks := e.AccumulatedScroll[source] / divisor
	e.AccumulatedScroll[source] -= ticks * divisor

	return ticks * 1000
}
