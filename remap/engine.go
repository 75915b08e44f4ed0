// HID remapper mapping engine
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package remap implements a USB HID report remapping engine: it parses
// the report descriptors exchanged between a host and a downstream HID
// device, applies a user-configured usage-to-usage mapping, and
// re-synthesizes outgoing reports towards the host. The package has no
// hardware dependency of its own; it is driven entirely through the
// DescriptorParser, Persistence and USBStack collaborator interfaces, so
// it can be exercised with `go test` on any platform and wired, on
// bare metal, to a concrete USB device stack.
package remap

import (
	"log"
	"sync"
	"time"
)

// DescriptorParser turns a raw HID report descriptor into the usage
// tables the engine operates on (§4.B, §6).
type DescriptorParser interface {
	ParseDescriptor(descriptor []byte) (usages map[uint8]map[Usage]UsageDef, hasReportID bool, reportSizes map[uint8]int, err error)
}

// Persistence loads and stores the mapping configuration across reboots
// (§6). Implementations are expected to validate/checksum their backing
// store and return an error (rather than a zero Config) on a corrupt or
// absent store, so the caller can fall back to an empty passthrough
// configuration.
type Persistence interface {
	LoadConfig() (Config, error)
	PersistConfig(Config) error
}

// USBStack is the downstream USB device-mode collaborator: it reports
// readiness to accept an IN transfer and accepts outgoing report bytes
// for the given report id (§4.G).
type USBStack interface {
	HIDReady() bool
	SubmitReport(reportID uint8, payload []byte) error
	// Suspended reports whether the host has suspended the bus; while
	// true the engine stops draining the outgoing queue, mirroring USB
	// suspend/remote-wakeup semantics.
	Suspended() bool
}

// Engine ties the descriptor tables, the reverse mapping and the
// runtime remapping state together and drives the main remapping loop
// (§4.G). The zero value is not usable; construct with NewEngine.
type Engine struct {
	Our   *OurTables
	Their *TheirTables

	Config                  Config
	ReverseMapping          map[Usage][]MapSource
	LayerTriggeringStickies []Usage
	// LayerTriggerTarget maps a layer-triggering sticky source usage to
	// the layer number it toggles, derived from its target's low byte
	// (the argument to LayerUsage) during rebuild.
	LayerTriggerTarget map[Usage]uint8
	StickyUsages       map[uint64]bool

	// InputState/PrevInputState hold the last and previous decoded value
	// of every "their" usage, keyed flat across interfaces (§4.C, §4.D).
	InputState     map[Usage]int32
	PrevInputState map[Usage]int32

	// StickyState holds the latched on/off value of every (layer,usage)
	// sticky source, keyed via packStickyUsage for per-layer stickies and
	// via the bare source usage for layer-triggering stickies (§4.D).
	StickyState map[uint64]int32

	// Accumulated carries relative-target values in milli-units (×1000)
	// across passes, keyed by target usage: only the integer portion is
	// flushed to the working report each pass, so a fractional Scaling
	// takes several passes to produce one whole output unit (§4.D step 6).
	Accumulated map[Usage]int32

	// AccumulatedScroll and LastScrollTick implement the partial-scroll
	// decay state machine of §4.E, keyed by the contributing source usage.
	AccumulatedScroll map[Usage]int32
	LastScrollTick     map[Usage]int64

	LayerState [NLayers]bool

	Queue *OutgoingQueue

	NeedToPersistConfig    bool
	TheirDescriptorUpdated bool

	ReportsReceived uint64
	ReportsSent     uint64

	// ActivityLED, when set, is toggled around inbound report handling,
	// mirroring the original firmware's activity indicator.
	ActivityLED func(on bool)

	// Clock returns monotonic microseconds; overridable for tests.
	Clock func() int64

	statsInterval  time.Duration
	lastStatsPrint time.Time
	nowWall        func() time.Time

	reportPending bool
	tickPending   bool

	// mu guards Their/TheirDescriptorUpdated against concurrent
	// modification by the descriptor/control-plane path while the main
	// loop runs, mirroring the original their_usages_mutex.
	mu sync.Mutex
}

// NewEngine returns an Engine with empty tables and a fresh outgoing
// queue, ready for Boot.
func NewEngine() *Engine {
	return &Engine{
		Their:             NewTheirTables(),
		InputState:        make(map[Usage]int32),
		PrevInputState:    make(map[Usage]int32),
		StickyState:       make(map[uint64]int32),
		Accumulated:       make(map[Usage]int32),
		AccumulatedScroll: make(map[Usage]int32),
		LastScrollTick:    make(map[Usage]int64),
		Queue:             NewOutgoingQueue(),
		Clock:             defaultClock,
		statsInterval:     10 * time.Second,
		nowWall:           time.Now,
	}
}

func defaultClock() int64 {
	return time.Now().UnixMicro()
}

// Boot parses descriptor with parser to populate Our, loads the mapping
// configuration via persistence (falling back to an empty, pass-through
// configuration on error), and builds the initial reverse mapping.
func (e *Engine) Boot(parser DescriptorParser, descriptor []byte, persistence Persistence) error {
	usages, _, sizes, err := parser.ParseDescriptor(descriptor)
	if err != nil {
		return err
	}

	e.Our = BuildOurTables(usages, sizes)

	cfg, err := persistence.LoadConfig()
	if err != nil {
		log.Printf("hidremap: no usable stored configuration (%v), starting unmapped\n", err)
		cfg = Config{UnmappedPassthrough: true}
	}

	e.RebuildReverseMapping(cfg)

	return nil
}

// SetTheirDescriptor records a freshly parsed "their" descriptor for
// interface iface and marks it for derived-table rebuild on the next
// Step. Safe to call concurrently with Step.
func (e *Engine) SetTheirDescriptor(iface uint16, usages map[uint8]map[Usage]UsageDef, hasReportID bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Their.TheirUsages[iface] = usages
	e.Their.HasReportID[iface] = hasReportID
	e.TheirDescriptorUpdated = true
}

// SetTickPending marks that a 1ms tick has elapsed. firmware/main.go
// calls it from a 1ms time.Ticker goroutine. It is deliberately not
// synchronized: losing or double-counting an occasional tick is
// harmless (§4.G, §9).
func (e *Engine) SetTickPending() {
	e.tickPending = true
}

func (e *Engine) consumeTickPending() bool {
	v := e.tickPending
	e.tickPending = false
	return v
}

func (e *Engine) consumeReportPending() bool {
	v := e.reportPending
	e.reportPending = false
	return v
}

// Step runs one iteration of the main remapping loop: it processes any
// report delivered since the last call, drives the scaling/mapping pass
// on tick, drains the outgoing queue into usb when ready, and handles
// any pending descriptor rebuild or configuration persistence (§4.G).
func (e *Engine) Step(usb USBStack, persistence Persistence) {
	if e.consumeReportPending() {
		e.ProcessMapping(false)
	}

	if !usb.Suspended() && usb.HIDReady() {
		if e.consumeTickPending() {
			e.ProcessMapping(true)
		}

		e.sendReport(usb)
	}

	e.mu.Lock()
	rebuild := e.TheirDescriptorUpdated
	e.TheirDescriptorUpdated = false
	e.mu.Unlock()

	if rebuild {
		e.RebuildTheirDerived()
	}

	if e.NeedToPersistConfig && persistence != nil {
		if err := persistence.PersistConfig(e.Config); err != nil {
			log.Printf("hidremap: failed to persist configuration: %v\n", err)
		}

		e.NeedToPersistConfig = false
	}

	e.printStats()
}

func (e *Engine) sendReport(usb USBStack) {
	if e.Queue.Len() == 0 {
		return
	}

	// the head entry stays queued until the USB stack accepts it, so a
	// rejected submission is retried on the next Step.
	head := e.Queue.slots[e.Queue.head]

	if err := usb.SubmitReport(head.reportID, head.payload); err != nil {
		log.Printf("hidremap: failed to submit report %d: %v\n", head.reportID, err)
		return
	}

	e.Queue.Dequeue()
	e.ReportsSent++
}

func (e *Engine) printStats() {
	now := e.nowWall()

	if now.Sub(e.lastStatsPrint) < e.statsInterval {
		return
	}

	e.lastStatsPrint = now

	log.Printf("hidremap: reports received=%d sent=%d queue_overflows=%d\n",
		e.ReportsReceived, e.ReportsSent, e.Queue.Overflows)
}
