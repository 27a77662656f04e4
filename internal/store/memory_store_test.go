package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetAbsent(t *testing.T) {
	s := NewMemorySessionStateStore()

	state, ok, err := s.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, state)
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	s := NewMemorySessionStateStore()
	ctx := context.Background()

	updates := []json.RawMessage{
		json.RawMessage(`{"bets":[]}`),
		json.RawMessage(`{"bets":["bet1"]}`),
		json.RawMessage(`{"bets":["bet1","bet2"]}`),
	}
	for _, u := range updates {
		require.NoError(t, s.Put(ctx, "abc", u))
	}

	state, ok, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"bets":["bet1","bet2"]}`, string(state))
}

func TestMemoryStore_SessionsAreIndependent(t *testing.T) {
	s := NewMemorySessionStateStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "s1", json.RawMessage(`{"v":1}`)))
	require.NoError(t, s.Put(ctx, "s2", json.RawMessage(`{"v":2}`)))

	state, ok, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":1}`, string(state))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryStore_CopiesOnPutAndGet(t *testing.T) {
	s := NewMemorySessionStateStore()
	ctx := context.Background()

	buf := []byte(`{"v":1}`)
	require.NoError(t, s.Put(ctx, "s1", buf))

	// Mutating the caller's buffer must not change the stored state.
	buf[5] = '9'

	state, ok, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"v":1}`, string(state))

	// Mutating a returned state must not change the stored state either.
	state[5] = '9'
	again, _, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(again))
}
