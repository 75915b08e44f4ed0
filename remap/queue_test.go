// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package remap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReportTable() *ReportTable {
	rt := newReportTable(4)
	// bits 0-7 relative, bits 8-15 absolute.
	rt.RelativeMask[0] = 0xFF
	rt.AbsoluteMask[1] = 0xFF
	return rt
}

func TestQueueFIFO(t *testing.T) {
	q := NewOutgoingQueue()

	rt := newTestReportTable()
	rt.Working[0] = 1
	q.Enqueue(1, rt, nil)

	rt.Working[1] = 5
	q.Enqueue(1, rt, nil)

	require.Equal(t, 2, q.Len())

	id, payload, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, uint8(1), id)
	assert.Equal(t, byte(1), payload[0])

	id, payload, ok = q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, uint8(1), id)
	assert.Equal(t, byte(5), payload[1])

	_, _, ok = q.Dequeue()
	assert.False(t, ok)
}

func TestQueueNoEnqueueWhenUnchanged(t *testing.T) {
	q := NewOutgoingQueue()
	rt := newTestReportTable()

	q.Enqueue(1, rt, nil)

	assert.Equal(t, 0, q.Len())
}

func TestQueueRelativeClearedAfterEnqueue(t *testing.T) {
	q := NewOutgoingQueue()
	rt := newTestReportTable()

	rt.Working[0] = 3
	q.Enqueue(1, rt, nil)

	assert.Equal(t, byte(0), rt.Working[0])
}

func TestQueueCoalescesRelativeDeltas(t *testing.T) {
	q := NewOutgoingQueue()
	rt := newTestReportTable()

	usages := map[Usage]UsageDef{
		1: {BitPos: 0, Size: 8, IsRelative: true, LogicalMinimum: -127},
	}

	rt.Working[0] = 3
	q.Enqueue(1, rt, usages)
	require.Equal(t, 1, q.Len())

	rt.Working[0] = 2
	q.Enqueue(1, rt, usages)

	require.Equal(t, 1, q.Len(), "second enqueue should coalesce into the first")

	_, payload, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int32(5), SignExtend(uint32(payload[0]), 8))
}

func TestQueueOverflowDropsAndCounts(t *testing.T) {
	q := NewOutgoingQueue()

	for i := 0; i < ORBufSize; i++ {
		rt := newTestReportTable()
		rt.Working[1] = byte(i + 1)
		q.Enqueue(uint8(i), rt, nil)
	}

	require.Equal(t, ORBufSize, q.Len())

	rt := newTestReportTable()
	rt.Working[1] = 0xFF
	q.Enqueue(99, rt, nil)

	assert.Equal(t, ORBufSize, q.Len())
	assert.Equal(t, uint32(1), q.Overflows)
}
