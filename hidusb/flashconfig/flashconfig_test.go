// Persisted mapping configuration storage
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package flashconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f-secure-foundry/hidremap/remap"
)

type memStorage struct {
	data    []byte
	readErr error
}

func (m *memStorage) ReadAll() ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.data, nil
}

func (m *memStorage) WriteAll(b []byte) error {
	m.data = append([]byte(nil), b...)
	return nil
}

func TestPersistThenLoadRoundTrips(t *testing.T) {
	storage := &memStorage{}
	s := New(storage)

	cfg := remap.Config{
		Mappings: []remap.Mapping{
			{SourceUsage: 1, TargetUsage: 2, Scaling: 1, Layer: 1},
		},
		UnmappedPassthrough:  true,
		ResolutionMultiplier: 8,
	}

	require.NoError(t, s.PersistConfig(cfg))

	loaded, err := s.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigRejectsCorruptRecord(t *testing.T) {
	storage := &memStorage{}
	s := New(storage)

	require.NoError(t, s.PersistConfig(remap.Config{UnmappedPassthrough: true}))
	storage.data[0] ^= 0xFF // corrupt the payload without touching the footer

	_, err := s.LoadConfig()
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestLoadConfigPropagatesStorageError(t *testing.T) {
	storage := &memStorage{readErr: errors.New("flash read timeout")}
	s := New(storage)

	_, err := s.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsTooShortRecord(t *testing.T) {
	storage := &memStorage{data: []byte{0x01, 0x02}}
	s := New(storage)

	_, err := s.LoadConfig()
	assert.Error(t, err)
}
