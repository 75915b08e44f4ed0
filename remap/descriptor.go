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

// UsageDef is the descriptor-derived record for a single usage (§3,
// §4.B): where it lives in its report, how wide it is, and how to
// interpret the bits.
type UsageDef struct {
	ReportID uint8
	BitPos   uint
	Size     uint

	// IsArray usages report their value as the first matching index
	// field out of Count fields of Size bits starting at BitPos; Index
	// is the value that counts as "pressed".
	IsArray bool
	Count   uint
	Index   uint32

	// LogicalMinimum mirrors the descriptor's logical minimum; a
	// negative value marks the field as signed (§4.A).
	LogicalMinimum int32

	IsRelative bool
}

// Signed reports whether this usage's field should be sign-extended on
// read.
func (u UsageDef) Signed() bool {
	return u.LogicalMinimum < 0
}

// ReportTable holds the per-report-id state on the outgoing ("ours")
// side: the live working buffer, the last buffer actually sent (for
// absolute-field change detection), and the two bitmasks partitioning
// the report into relative and absolute fields (§3).
type ReportTable struct {
	Size int

	Working []byte
	Prev    []byte

	RelativeMask []byte
	AbsoluteMask []byte
}

func newReportTable(size int) *ReportTable {
	return &ReportTable{
		Size:         size,
		Working:      make([]byte, size),
		Prev:         make([]byte, size),
		RelativeMask: make([]byte, size),
		AbsoluteMask: make([]byte, size),
	}
}

// OurTables are the descriptor-derived tables for "our" (outgoing)
// reports (§4.B): per-report usage maps, their flat projection, and the
// enumerated, stably-ordered list of report ids.
type OurTables struct {
	// OurUsages is report_id -> usage -> UsageDef.
	OurUsages map[uint8]map[Usage]UsageDef
	// OurUsagesFlat is the flat projection; last writer wins on
	// collisions across report ids (§4.B, §9 Open Question c).
	OurUsagesFlat map[Usage]UsageDef
	// ReportIDs is the stable, ascending list of enumerated report ids.
	ReportIDs []uint8
	// Reports is report_id -> ReportTable.
	Reports map[uint8]*ReportTable
}

// BuildOurTables derives OurTables from a parsed "our" descriptor:
// usages keyed by report id and usage, and the size in bytes of each
// report id. It builds the flat projection and the relative/absolute
// bitmasks, and establishes invariant: for every enumerated report id,
// RelativeMask & AbsoluteMask == 0 and their union covers exactly the
// bits occupied by usages of that report.
func BuildOurTables(usages map[uint8]map[Usage]UsageDef, reportSizes map[uint8]int) *OurTables {
	t := &OurTables{
		OurUsages:     usages,
		OurUsagesFlat: make(map[Usage]UsageDef),
		Reports:       make(map[uint8]*ReportTable),
	}

	for reportID, size := range reportSizes {
		t.Reports[reportID] = newReportTable(size)
		t.ReportIDs = append(t.ReportIDs, reportID)
	}

	sort.Slice(t.ReportIDs, func(i, j int) bool { return t.ReportIDs[i] < t.ReportIDs[j] })

	for reportID, usageMap := range usages {
		rt, ok := t.Reports[reportID]

		if !ok {
			continue
		}

		for usage, def := range usageMap {
			// last writer wins on flat collisions; range order over
			// a Go map is unspecified, so this policy is only
			// meaningful when combined with a deterministic outer
			// iteration -- callers that care about collisions
			// across report ids should resolve them before calling
			// BuildOurTables. See DESIGN.md Open Question (c).
			t.OurUsagesFlat[usage] = def

			mask := rt.RelativeMask
			if !def.IsRelative {
				mask = rt.AbsoluteMask
			}

			PutBits(mask, def.BitPos, def.Size, 0xFFFFFFFF)
		}
	}

	return t
}

// TheirTables are the per-interface descriptor-derived tables for
// incoming ("their") reports (§4.B).
type TheirTables struct {
	// TheirUsages is interface -> report_id -> usage -> UsageDef.
	TheirUsages map[uint16]map[uint8]map[Usage]UsageDef
	// HasReportID is interface -> whether reports on that interface
	// are prefixed with a report id byte.
	HasReportID map[uint16]bool

	RelativeUsages   []Usage
	RelativeUsageSet map[Usage]bool
}

// NewTheirTables returns an empty TheirTables, ready to be populated by
// the caller (typically the descriptor parser, §6) and then passed to
// RebuildRelativeUsages.
func NewTheirTables() *TheirTables {
	return &TheirTables{
		TheirUsages: make(map[uint16]map[uint8]map[Usage]UsageDef),
		HasReportID: make(map[uint16]bool),
	}
}

// RebuildRelativeUsages recomputes RelativeUsages/RelativeUsageSet from
// the current TheirUsages (§4.B, the "their descriptor updated" path of
// §4.H). It also returns the set of all "their" usages, for RLE
// publication to the control plane.
func (t *TheirTables) RebuildRelativeUsages() (all map[Usage]bool) {
	t.RelativeUsages = nil
	t.RelativeUsageSet = make(map[Usage]bool)
	all = make(map[Usage]bool)

	for _, byReport := range t.TheirUsages {
		for _, byUsage := range byReport {
			for usage, def := range byUsage {
				all[usage] = true

				if def.IsRelative {
					t.RelativeUsages = append(t.RelativeUsages, usage)
					t.RelativeUsageSet[usage] = true
				}
			}
		}
	}

	return all
}
