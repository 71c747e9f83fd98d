package ws

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	c := NewClient(nil, userID)

	_, ok := r.Lookup(userID)
	assert.False(t, ok)

	r.Register(userID, c)

	got, ok := r.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	first := NewClient(nil, userID)
	second := NewClient(nil, userID)

	r.Register(userID, first)
	r.Register(userID, second)

	got, ok := r.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryUnregisterGuardedByHandle(t *testing.T) {
	r := NewRegistry()
	userID := uuid.New()
	stale := NewClient(nil, userID)
	fresh := NewClient(nil, userID)

	r.Register(userID, stale)
	r.Register(userID, fresh)

	// The stale connection closing must not evict the fresh one, and the
	// caller hears that nothing was removed.
	assert.False(t, r.Unregister(userID, stale))

	got, ok := r.Lookup(userID)
	require.True(t, ok)
	assert.Same(t, fresh, got)

	assert.True(t, r.Unregister(userID, fresh))
	_, ok = r.Lookup(userID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryUnregisterUnknownUser(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Unregister(uuid.New(), NewClient(nil, uuid.New())))
	assert.Equal(t, 0, r.Len())
}
