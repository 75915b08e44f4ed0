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

// UsageRun is a run-length-encoded run of contiguous, ascending usage
// numbers, as published to the control plane for both "our" and "their"
// usage lists (§6, §4.B). Usage 0 is a sentinel and never appears in a
// run.
type UsageRun struct {
	Start Usage
	Count uint32
}

// RLEncode collapses a set of usages into ascending runs of contiguous
// usage numbers, matching the original rlencode().
func RLEncode(usages map[Usage]bool) []UsageRun {
	sorted := make([]Usage, 0, len(usages))

	for u := range usages {
		if u == 0 {
			continue
		}

		sorted = append(sorted, u)
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var runs []UsageRun

	var start Usage
	var count uint32

	for _, u := range sorted {
		if start == 0 {
			start = u
			count = 1
			continue
		}

		if u == start+Usage(count) {
			count++
			continue
		}

		runs = append(runs, UsageRun{Start: start, Count: count})
		start = u
		count = 1
	}

	if start != 0 {
		runs = append(runs, UsageRun{Start: start, Count: count})
	}

	return runs
}
