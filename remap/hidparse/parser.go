// HID report descriptor parsing
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package hidparse implements remap.DescriptorParser by walking a raw USB
// HID report descriptor (Device Class Definition for HID 1.11, §6.2.2)
// and recording every Input field as a remap.UsageDef. Output and Feature
// fields only advance the item state machine: they are never delivered
// to the mapping engine, which only ever sees the bytes that actually
// cross the IN endpoint in either direction of the remapper.
package hidparse

import (
	"errors"
	"fmt"

	"github.com/f-secure-foundry/hidremap/remap"
)

// item types, p27 Table 3, Device Class Definition for HID 1.11.
const (
	typeMain   = 0
	typeGlobal = 1
	typeLocal  = 2
)

// main item tags, p28 Table 4.
const (
	tagInput         = 0x8
	tagOutput        = 0x9
	tagCollection    = 0xA
	tagFeature       = 0xB
	tagEndCollection = 0xC
)

// global item tags, p35 Table 6.
const (
	tagUsagePage     = 0x0
	tagLogicalMin    = 0x1
	tagLogicalMax    = 0x2
	tagReportSize    = 0x7
	tagReportID      = 0x8
	tagReportCount   = 0x9
)

// local item tags, p39 Table 8.
const (
	tagUsage       = 0x0
	tagUsageMin    = 0x1
	tagUsageMax    = 0x2
)

// main item data byte bits, p30 Table 5.
const (
	bitConstant = 1 << 0
	bitVariable = 1 << 1
	bitRelative = 1 << 2
)

// Parser implements remap.DescriptorParser.
type Parser struct{}

// New returns a ready-to-use descriptor parser.
func New() *Parser {
	return &Parser{}
}

// global holds the HID global item state, which persists across items
// until overwritten (Push/Pop are not supported, as none of the
// descriptors this remapper builds or consumes use them).
type global struct {
	usagePage  uint32
	logicalMin int32
	reportSize uint
	reportCount uint
	reportID   uint8
	sawReportID bool
}

// local holds the HID local item state, which is cleared after every
// Main item.
type local struct {
	usages    []uint32
	usageMin  uint32
	usageMax  uint32
	haveRange bool
}

func (l *local) reset() {
	l.usages = nil
	l.haveRange = false
}

// ParseDescriptor walks descriptor and returns the Input usages keyed by
// report id, whether any Report ID item was present, and the byte size
// of the Input report for each report id.
func (p *Parser) ParseDescriptor(descriptor []byte) (usages map[uint8]map[remap.Usage]remap.UsageDef, hasReportID bool, reportSizes map[uint8]int, err error) {
	usages = make(map[uint8]map[remap.Usage]remap.UsageDef)
	bitOffset := make(map[uint8]uint)

	var g global
	var l local

	buf := descriptor

	for len(buf) > 0 {
		prefix := buf[0]
		buf = buf[1:]

		if prefix == 0xFE {
			return nil, false, nil, errors.New("hidparse: long items are not supported")
		}

		size := prefix & 0x3
		if size == 3 {
			size = 4
		}

		itemType := (prefix >> 2) & 0x3
		tag := (prefix >> 4) & 0xF

		if len(buf) < int(size) {
			return nil, false, nil, fmt.Errorf("hidparse: truncated item (tag %#x, size %d)", tag, size)
		}

		data := buf[:size]
		buf = buf[size:]

		unsigned := unsignedValue(data)

		switch itemType {
		case typeGlobal:
			switch tag {
			case tagUsagePage:
				g.usagePage = unsigned
			case tagLogicalMin:
				g.logicalMin = signedValue(data)
			case tagLogicalMax:
				// tracked implicitly via reportSize/Count; logical
				// maximum is not otherwise consulted by the engine.
			case tagReportSize:
				g.reportSize = uint(unsigned)
			case tagReportCount:
				g.reportCount = uint(unsigned)
			case tagReportID:
				g.reportID = uint8(unsigned)
				g.sawReportID = true
				hasReportID = true
			}
		case typeLocal:
			switch tag {
			case tagUsage:
				l.usages = append(l.usages, extendUsage(unsigned, size, g.usagePage))
			case tagUsageMin:
				l.usageMin = extendUsage(unsigned, size, g.usagePage)
				l.haveRange = true
			case tagUsageMax:
				l.usageMax = extendUsage(unsigned, size, g.usagePage)
				l.haveRange = true
			}
		case typeMain:
			switch tag {
			case tagInput:
				reportID := uint8(0)
				if g.sawReportID {
					reportID = g.reportID
				}

				if _, ok := usages[reportID]; !ok {
					usages[reportID] = make(map[remap.Usage]remap.UsageDef)
				}

				offset := bitOffset[reportID]
				flags := uint8(unsigned)

				recordInputField(usages[reportID], &l, g, flags, offset)

				bitOffset[reportID] = offset + g.reportSize*g.reportCount
			case tagOutput, tagFeature:
				// Output and Feature fields still consume report
				// bits on their own report id's stream, but that
				// stream never reaches the mapping engine: only
				// advance the local item state.
			case tagCollection, tagEndCollection:
				// nesting is irrelevant to bit layout; global state
				// is not collection-scoped without Push/Pop.
			}

			l.reset()
		}
	}

	reportSizes = make(map[uint8]int, len(bitOffset))
	for reportID, bits := range bitOffset {
		reportSizes[reportID] = int((bits + 7) / 8)
	}

	return usages, hasReportID, reportSizes, nil
}

// recordInputField registers zero or more UsageDef entries for one Input
// main item, starting at bit offset, consuming the current local usage
// list/range against the current global report size/count.
func recordInputField(into map[remap.Usage]remap.UsageDef, l *local, g global, flags uint8, offset uint) {
	isConstant := flags&bitConstant != 0
	if isConstant {
		return
	}

	isVariable := flags&bitVariable != 0
	isRelative := flags&bitRelative != 0

	if !isVariable {
		recordArrayField(into, l, g, offset, isRelative)
		return
	}

	usageList := l.usages
	if len(usageList) == 0 && l.haveRange {
		for u := l.usageMin; u <= l.usageMax; u++ {
			usageList = append(usageList, u)
		}
	}

	for i := uint(0); i < g.reportCount; i++ {
		bitPos := offset + i*g.reportSize

		var usage uint32
		switch {
		case i < uint(len(usageList)):
			usage = usageList[i]
		case len(usageList) > 0:
			// fewer usages than report count: repeat the last one,
			// matching HID's "last usage applies to the rest" rule.
			usage = usageList[len(usageList)-1]
		default:
			continue
		}

		into[remap.Usage(usage)] = remap.UsageDef{
			BitPos:         bitPos,
			Size:           g.reportSize,
			LogicalMinimum: g.logicalMin,
			IsRelative:     isRelative,
		}
	}
}

// recordArrayField registers one UsageDef per candidate usage in an
// array (selector) field: report_count slots of report_size bits each,
// any one of which may hold any usage in [usageMin, usageMax]. A slot
// selects usage u with the value logicalMin + (u - usageMin), which is
// what Index records.
func recordArrayField(into map[remap.Usage]remap.UsageDef, l *local, g global, offset uint, isRelative bool) {
	if !l.haveRange {
		return
	}

	for u := l.usageMin; u <= l.usageMax; u++ {
		into[remap.Usage(u)] = remap.UsageDef{
			BitPos:         offset,
			Size:           g.reportSize,
			Count:          g.reportCount,
			IsArray:        true,
			Index:          u - l.usageMin + uint32(g.logicalMin),
			LogicalMinimum: g.logicalMin,
			IsRelative:     isRelative,
		}
	}
}

// extendUsage combines a local usage value with the current usage page:
// a 4-byte item already carries its own page in the upper 16 bits, a 1-
// or 2-byte item is an id within the current global usage page.
func extendUsage(value uint32, size uint8, usagePage uint32) uint32 {
	if size == 4 {
		return value
	}

	return (usagePage << 16) | (value & 0xFFFF)
}

func unsignedValue(data []byte) uint32 {
	var v uint32
	for i, b := range data {
		v |= uint32(b) << (8 * i)
	}
	return v
}

func signedValue(data []byte) int32 {
	v := unsignedValue(data)

	switch len(data) {
	case 1:
		return int32(int8(v))
	case 2:
		return int32(int16(v))
	default:
		return int32(v)
	}
}
