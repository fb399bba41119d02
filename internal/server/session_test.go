package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerEmpty(t *testing.T) {
	m := NewSessionManager()
	err := m.Use(func(s *Session, generation uint64) error { return nil })
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionManagerSwapBumpsGeneration(t *testing.T) {
	m := NewSessionManager()

	require.NoError(t, m.Swap(func() (*Session, error) {
		return &Session{ChunkCount: 3}, nil
	}))

	var gen1 uint64
	require.NoError(t, m.Use(func(s *Session, generation uint64) error {
		assert.Equal(t, 3, s.ChunkCount)
		gen1 = generation
		return nil
	}))

	require.NoError(t, m.Swap(func() (*Session, error) {
		return &Session{ChunkCount: 7}, nil
	}))

	require.NoError(t, m.Use(func(s *Session, generation uint64) error {
		assert.Equal(t, 7, s.ChunkCount)
		assert.Equal(t, gen1+1, generation, "swap must invalidate cache keys")
		return nil
	}))
}

func TestSessionManagerFailedSwapKeepsOldSession(t *testing.T) {
	m := NewSessionManager()
	require.NoError(t, m.Swap(func() (*Session, error) {
		return &Session{ChunkCount: 1}, nil
	}))

	err := m.Swap(func() (*Session, error) {
		return nil, errors.New("rebuild failed")
	})
	require.Error(t, err)

	require.NoError(t, m.Use(func(s *Session, generation uint64) error {
		assert.Equal(t, 1, s.ChunkCount, "failed rebuild must not clobber the active session")
		assert.Equal(t, uint64(1), generation)
		return nil
	}))
}
