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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	usages  map[uint8]map[Usage]UsageDef
	sizes   map[uint8]int
	hasID   bool
	failErr error
}

func (p *fakeParser) ParseDescriptor(_ []byte) (map[uint8]map[Usage]UsageDef, bool, map[uint8]int, error) {
	if p.failErr != nil {
		return nil, false, nil, p.failErr
	}

	return p.usages, p.hasID, p.sizes, nil
}

type fakePersistence struct {
	cfg      Config
	loadErr  error
	stored   Config
	storeErr error
}

func (p *fakePersistence) LoadConfig() (Config, error) {
	return p.cfg, p.loadErr
}

func (p *fakePersistence) PersistConfig(cfg Config) error {
	p.stored = cfg
	return p.storeErr
}

type fakeUSB struct {
	ready bool
	sent  []struct {
		id      uint8
		payload []byte
	}
}

func (u *fakeUSB) HIDReady() bool   { return u.ready }
func (u *fakeUSB) Suspended() bool  { return false }

func (u *fakeUSB) SubmitReport(reportID uint8, payload []byte) error {
	u.sent = append(u.sent, struct {
		id      uint8
		payload []byte
	}{reportID, payload})
	return nil
}

func TestEngineBootFallsBackOnPersistenceError(t *testing.T) {
	e := NewEngine()

	parser := &fakeParser{usages: map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8}}}, sizes: map[uint8]int{0: 1}}
	persistence := &fakePersistence{loadErr: errors.New("corrupt flash")}

	require.NoError(t, e.Boot(parser, nil, persistence))

	assert.True(t, e.Config.UnmappedPassthrough)
}

func TestEngineBootPropagatesParseError(t *testing.T) {
	e := NewEngine()
	parser := &fakeParser{failErr: errors.New("bad descriptor")}

	err := e.Boot(parser, nil, &fakePersistence{})

	assert.Error(t, err)
}

func TestEngineStepEndToEnd(t *testing.T) {
	e := NewEngine()

	parser := &fakeParser{
		usages: map[uint8]map[Usage]UsageDef{0: {usageB: {BitPos: 0, Size: 8}}},
		sizes:  map[uint8]int{0: 1},
	}
	persistence := &fakePersistence{cfg: Config{Mappings: []Mapping{
		{SourceUsage: usageA, TargetUsage: usageB, Scaling: 1},
	}}}

	require.NoError(t, e.Boot(parser, nil, persistence))

	e.SetTheirDescriptor(0, map[uint8]map[Usage]UsageDef{0: {usageA: {BitPos: 0, Size: 8}}}, false)

	usb := &fakeUSB{ready: true}
	e.Step(usb, persistence)
	assert.NotNil(t, e.Their.TheirUsages[0])

	e.HandleReceivedReport(0, []byte{7})
	e.Step(usb, persistence)

	require.Len(t, usb.sent, 1)
	assert.Equal(t, byte(7), usb.sent[0].payload[0])
}

func TestEngineStepPersistsConfigWhenRequested(t *testing.T) {
	e := NewEngine()
	e.Our = BuildOurTables(nil, nil)

	persistence := &fakePersistence{}
	e.NeedToPersistConfig = true
	e.Config = Config{UnmappedPassthrough: true}

	e.Step(&fakeUSB{}, persistence)

	assert.False(t, e.NeedToPersistConfig)
	assert.True(t, persistence.stored.UnmappedPassthrough)
}
