// Persisted mapping configuration storage
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package flashconfig implements remap.Persistence on top of a
// caller-supplied block store. The board's concrete non-volatile storage
// (NOR flash, eMMC boot partition, ...) is an external collaborator per
// §6 and is deliberately not modelled here: Store only owns the
// encoding -- YAML, the same format cmd/hidremapctl authors on the host
// side, wrapped with a CRC32 footer so a torn or corrupted write is
// detected rather than silently accepted as an empty configuration.
package flashconfig

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"

	"gopkg.in/yaml.v3"

	"github.com/f-secure-foundry/hidremap/remap"
)

// Storage is the minimal persistent block store Store requires. A single
// record is read and written in full on every load/save; callers with
// wear-leveling or journaling storage implement that underneath this
// interface.
type Storage interface {
	ReadAll() ([]byte, error)
	WriteAll([]byte) error
}

// ErrIntegrity is returned by LoadConfig when the stored record's CRC32
// footer does not match its payload.
var ErrIntegrity = errors.New("flashconfig: integrity check failed")

// Store implements remap.Persistence.
type Store struct {
	storage Storage
}

// New returns a Store backed by storage.
func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// LoadConfig reads, integrity-checks and decodes the stored
// configuration. A read error, a truncated record or a CRC mismatch are
// all reported as an error so the caller can fall back to an empty,
// pass-through configuration rather than silently accept corrupt state.
func (s *Store) LoadConfig() (remap.Config, error) {
	raw, err := s.storage.ReadAll()
	if err != nil {
		return remap.Config{}, err
	}

	if len(raw) < 4 {
		return remap.Config{}, errors.New("flashconfig: record too short")
	}

	payload, footer := raw[:len(raw)-4], raw[len(raw)-4:]

	want := binary.LittleEndian.Uint32(footer)
	got := crc32.ChecksumIEEE(payload)

	if want != got {
		return remap.Config{}, ErrIntegrity
	}

	var cfg remap.Config
	if err := yaml.Unmarshal(payload, &cfg); err != nil {
		return remap.Config{}, err
	}

	return cfg, nil
}

// PersistConfig encodes cfg as YAML, appends a CRC32 footer over the
// encoded bytes, and writes the result in full.
func (s *Store) PersistConfig(cfg remap.Config) error {
	payload, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	footer := make([]byte, 4)
	binary.LittleEndian.PutUint32(footer, crc32.ChecksumIEEE(payload))

	buf := bytes.NewBuffer(payload)
	buf.Write(footer)

	return s.storage.WriteAll(buf.Bytes())
}
