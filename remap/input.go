// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package remap

// decodeUsage reads def's field out of buf. Array usages report
// presence: Count consecutive Size-bit slots starting at BitPos are
// scanned for Index, and the result is 1 if found, 0 otherwise. Normal
// usages are read as a single, possibly signed, field.
func decodeUsage(buf []byte, def UsageDef) int32 {
	if !def.IsArray {
		return GetSignedBits(buf, def.BitPos, def.Size, def.Signed())
	}

	for i := uint(0); i < def.Count; i++ {
		slot := GetBits(buf, def.BitPos+i*def.Size, def.Size)

		if slot == def.Index {
			return 1
		}
	}

	return 0
}

// HandleReceivedReport decodes an incoming report from the downstream
// device on the given interface into InputState (§4.C). Absolute usages
// overwrite their last value; relative usages accumulate, since more
// than one report may arrive between two ticks and ProcessMapping
// consumes (and clears) the accumulator once per pass. It sets the
// one-shot report-pending signal that causes Step to run the mapping
// pass regardless of tick, mirroring the original's always-process-on-
// report behaviour.
func (e *Engine) HandleReceivedReport(iface uint16, buf []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ActivityLED != nil {
		e.ActivityLED(true)
		defer e.ActivityLED(false)
	}

	e.ReportsReceived++

	var reportID uint8
	payload := buf

	if e.Their.HasReportID[iface] {
		if len(buf) == 0 {
			return
		}

		reportID = buf[0]
		payload = buf[1:]
	}

	usages := e.Their.TheirUsages[iface][reportID]

	for usage, def := range usages {
		value := decodeUsage(payload, def)

		if def.IsRelative {
			e.InputState[usage] += value
		} else {
			e.InputState[usage] = value
		}
	}

	e.reportPending = true
}
