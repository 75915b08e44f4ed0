// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package remap

import "log"

// outgoingSlot is one entry of the outgoing queue: an outgoing report id
// plus the payload bytes sent to the host for that report (§3).
type outgoingSlot struct {
	reportID uint8
	payload  []byte
}

// OutgoingQueue is the fixed-capacity ring of outgoing reports with
// relative deltas coalesced into the most recently queued entry (§4.F). Zero value is not usable;
// use NewOutgoingQueue.
type OutgoingQueue struct {
	slots [ORBufSize]outgoingSlot
	head  int
	tail  int
	items int

	Overflows uint32
}

// NewOutgoingQueue returns an empty outgoing queue.
func NewOutgoingQueue() *OutgoingQueue {
	return &OutgoingQueue{}
}

// Len reports the number of queued entries.
func (q *OutgoingQueue) Len() int {
	return q.items
}

// needsToBeSent reports whether report rt has any non-zero relative
// field, or any absolute field that differs from the last-sent snapshot
// (§4.F).
func needsToBeSent(rt *ReportTable) bool {
	for i := 0; i < rt.Size; i++ {
		if rt.Working[i]&rt.RelativeMask[i] != 0 {
			return true
		}

		if rt.Working[i]&rt.AbsoluteMask[i] != rt.Prev[i]&rt.AbsoluteMask[i] {
			return true
		}
	}

	return false
}

// differsOnAbsolute reports whether a and b disagree on any bit covered
// by absoluteMask.
func differsOnAbsolute(a, b, absoluteMask []byte) bool {
	for i := range absoluteMask {
		if a[i]&absoluteMask[i] != b[i]&absoluteMask[i] {
			return true
		}
	}

	return false
}

// aggregateRelative sums, for every relative usage of reportID, the
// signed fields of prevPayload and workingPayload back into prevPayload
// (§4.F coalescing step).
func aggregateRelative(prevPayload, workingPayload []byte, usages map[Usage]UsageDef) {
	for _, def := range usages {
		if !def.IsRelative {
			continue
		}

		v1 := GetSignedBits(workingPayload, def.BitPos, def.Size, def.Signed())

		if v1 == 0 {
			continue
		}

		v2 := GetSignedBits(prevPayload, def.BitPos, def.Size, def.Signed())

		PutBits(prevPayload, def.BitPos, def.Size, uint32(v1+v2))
	}
}

// Enqueue decides whether report reportID needs to be sent and, if so,
// enqueues it, coalescing into the current tail entry when possible
// (§4.F). It always clears rt.Working afterwards, matching the
// original's per-tick report reset. usages is our_usages[reportID],
// used to drive relative-field coalescing.
func (q *OutgoingQueue) Enqueue(reportID uint8, rt *ReportTable, usages map[Usage]UsageDef) {
	defer func() {
		for i := range rt.Working {
			rt.Working[i] = 0
		}
	}()

	if !needsToBeSent(rt) {
		return
	}

	if q.items > 0 {
		prevIdx := (q.tail + ORBufSize - 1) % ORBufSize
		prev := &q.slots[prevIdx]

		if prev.reportID == reportID && !differsOnAbsolute(prev.payload, rt.Working, rt.AbsoluteMask) {
			aggregateRelative(prev.payload, rt.Working, usages)
			return
		}
	}

	if q.items == ORBufSize {
		q.Overflows++
		log.Printf("hidremap: outgoing queue overflow, dropping report %d\n", reportID)
		return
	}

	payload := make([]byte, rt.Size)
	copy(payload, rt.Working)

	q.slots[q.tail] = outgoingSlot{reportID: reportID, payload: payload}
	q.tail = (q.tail + 1) % ORBufSize
	q.items++

	copy(rt.Prev, rt.Working)
}

// Dequeue removes and returns the head entry. ok is false if the queue
// is empty.
func (q *OutgoingQueue) Dequeue() (reportID uint8, payload []byte, ok bool) {
	if q.items == 0 {
		return 0, nil, false
	}

	slot := q.slots[q.head]
	q.head = (q.head + 1) % ORBufSize
	q.items--

	return slot.reportID, slot.payload, true
}
