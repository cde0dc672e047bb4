package datastore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockBookkeeping(t *testing.T) {
	h := Connect(nil)
	defer h.Disconnect()

	owner, err := h.IsLocked(DBRunning)
	require.NoError(t, err)
	require.EqualValues(t, 0, owner, "fresh registry must be unlocked")

	require.NoError(t, h.Lock(DBRunning, 5))
	owner, err = h.IsLocked(DBRunning)
	require.NoError(t, err)
	require.EqualValues(t, 5, owner)

	// Advisory: last writer wins, no exclusivity at this layer.
	require.NoError(t, h.Lock(DBRunning, 7))
	owner, _ = h.IsLocked(DBRunning)
	require.EqualValues(t, 7, owner)

	require.NoError(t, h.Unlock(DBRunning))
	owner, _ = h.IsLocked(DBRunning)
	require.EqualValues(t, 0, owner)
}

func TestUnlockAll(t *testing.T) {
	h := Connect(nil)
	defer h.Disconnect()

	require.NoError(t, h.Lock(DBRunning, 5))
	require.NoError(t, h.Lock(DBCandidate, 5))
	require.NoError(t, h.Lock(DBStartup, 9))

	h.UnlockAll(5)

	owner, _ := h.IsLocked(DBRunning)
	require.EqualValues(t, 0, owner)
	owner, _ = h.IsLocked(DBCandidate)
	require.EqualValues(t, 0, owner)
	owner, _ = h.IsLocked(DBStartup)
	require.EqualValues(t, 9, owner, "other owners' locks must survive")
}

func TestLockNamingErrors(t *testing.T) {
	h := Connect(nil)
	defer h.Disconnect()

	// tmp exists as a database but is never lockable.
	err := h.Lock(DBTmp, 5)
	require.Error(t, err)
	require.Equal(t, RetCNaming, CodeOf(err))

	err = h.Unlock("nosuchdb")
	require.Error(t, err)
	require.Equal(t, RetCNaming, CodeOf(err))

	_, err = h.IsLocked(DBTmp)
	require.Error(t, err)
	require.Equal(t, RetCNaming, CodeOf(err))
}

func TestSharedRegistry(t *testing.T) {
	locks := NewLockRegistry()
	h1 := Connect(locks)
	h2 := Connect(locks)
	defer h1.Disconnect()
	defer h2.Disconnect()

	require.NoError(t, h1.Lock(DBCandidate, 5))
	owner, err := h2.IsLocked(DBCandidate)
	require.NoError(t, err)
	require.EqualValues(t, 5, owner, "lock state is shared between handles")

	// A private registry sees nothing of it.
	h3 := Connect(nil)
	defer h3.Disconnect()
	owner, err = h3.IsLocked(DBCandidate)
	require.NoError(t, err)
	require.EqualValues(t, 0, owner)
}
