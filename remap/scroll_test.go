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
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandleScrollHiResBitPassesThrough(t *testing.T) {
	e := NewEngine()
	e.Config.ResolutionMultiplier = VResolutionBitmask

	got := e.HandleScroll(VScrollUsage, VScrollUsage, 1000, 1000)

	assert.Equal(t, int32(1000), got)
}

func TestHandleScrollLoResAccumulatesPartialDetents(t *testing.T) {
	e := NewEngine()

	// values are milli-units: a detent is 1000, so these three calls
	// contribute 0.4, 0.3 and 0.3 of a detent.
	got := e.HandleScroll(VScrollUsage, VScrollUsage, 400, 1000)
	assert.Equal(t, int32(0), got, "a partial detent alone reports nothing yet")

	got = e.HandleScroll(VScrollUsage, VScrollUsage, 300, 2000)
	assert.Equal(t, int32(0), got)

	got = e.HandleScroll(VScrollUsage, VScrollUsage, 300, 3000)
	assert.Equal(t, int32(1000), got, "the third call completes exactly one detent")
	assert.Equal(t, int32(0), e.AccumulatedScroll[VScrollUsage])
}

func TestHandleScrollStaleRemainderDecays(t *testing.T) {
	e := NewEngine()
	e.Config.PartialScrollTimeout = time.Millisecond

	e.HandleScroll(VScrollUsage, VScrollUsage, 40, 0)
	assert.Equal(t, int32(40*ResolutionMultiplier), e.AccumulatedScroll[VScrollUsage])

	// well past the timeout: the stale remainder must be dropped, not
	// summed into the new movement.
	e.HandleScroll(VScrollUsage, VScrollUsage, 40, int64(2*time.Millisecond/time.Microsecond))

	assert.Equal(t, int32(40*ResolutionMultiplier), e.AccumulatedScroll[VScrollUsage])
}

func TestHandleScrollAxesAreIndependent(t *testing.T) {
	e := NewEngine()

	e.HandleScroll(VScrollUsage, VScrollUsage, 50, 0)
	e.HandleScroll(HScrollUsage, HScrollUsage, 50, 0)

	assert.Equal(t, e.AccumulatedScroll[VScrollUsage], e.AccumulatedScroll[HScrollUsage])
	assert.NotEqual(t, VScrollUsage, HScrollUsage)
}

func TestHandleScrollZeroValueIsNoop(t *testing.T) {
	e := NewEngine()
	e.AccumulatedScroll[VScrollUsage] = 10

	got := e.HandleScroll(VScrollUsage, VScrollUsage, 0, 0)

	assert.Equal(t, int32(0), got)
	assert.Equal(t, int32(10), e.AccumulatedScroll[VScrollUsage])
}

func TestHandleScrollGatesOnTargetAxisNotSource(t *testing.T) {
	e := NewEngine()
	e.Config.ResolutionMultiplier = HResolutionBitmask

	// source is an arbitrary key usage synthesizing H-scroll movement;
	// the H-axis hi-res bit alone must decide the passthrough, not
	// anything about the source usage itself.
	var keySource Usage = 0x00070005

	got := e.HandleScroll(keySource, HScrollUsage, 7, 500)

	assert.Equal(t, int32(7), got)
}

func TestHandleScrollDistinctSourcesDecayIndependently(t *testing.T) {
	e := NewEngine()
	e.Config.PartialScrollTimeout = time.Millisecond

	var sourceA, sourceB Usage = 0x00070005, 0x00070006

	e.HandleScroll(sourceA, VScrollUsage, 40, 0)
	e.HandleScroll(sourceB, VScrollUsage, 40, 0)

	assert.Equal(t, e.AccumulatedScroll[sourceA], e.AccumulatedScroll[sourceB])

	// sourceA goes stale and drops its remainder; sourceB keeps
	// contributing on its own schedule, unaffected by sourceA's state.
	e.HandleScroll(sourceA, VScrollUsage, 0, int64(2*time.Millisecond/time.Microsecond))
	e.HandleScroll(sourceB, VScrollUsage, 40, int64(2*time.Millisecond/time.Microsecond))

	assert.Equal(t, int32(0), e.AccumulatedScroll[sourceA])
	assert.Equal(t, int32(40*ResolutionMultiplier), e.AccumulatedScroll[sourceB])
}
