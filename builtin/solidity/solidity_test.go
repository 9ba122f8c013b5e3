// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/powerledger/lvldb"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
)

type record struct {
	A uint64
	B []byte
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.BytesToAddress([]byte("contract")), state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[thor.Address, *record](ctx, thor.BytesToBytes32([]byte("records")))
	key := thor.BytesToAddress([]byte("key"))

	val, exists, err := m.Get(key)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, val)

	require.NoError(t, m.Set(key, &record{A: 7, B: []byte{1, 2}}))
	val, exists, err = m.Get(key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, &record{A: 7, B: []byte{1, 2}}, val)

	ok, err := m.Exists(key)
	require.NoError(t, err)
	assert.True(t, ok)

	// same key under another base slot is a different entry
	other := NewMapping[thor.Address, *record](ctx, thor.BytesToBytes32([]byte("others")))
	ok, err = other.Exists(key)
	require.NoError(t, err)
	assert.False(t, ok)

	m.Delete(key)
	_, exists, err = m.Get(key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMappingSurvivesCommit(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[thor.Bytes32, uint64](ctx, thor.Bytes32{1})

	require.NoError(t, m.Set(thor.Bytes32{2}, 42))
	require.NoError(t, ctx.State().Commit())

	val, exists, err := m.Get(thor.Bytes32{2})
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, uint64(42), val)
}

func TestUint64(t *testing.T) {
	ctx := newContext(t)
	u := NewUint64(ctx, thor.BytesToBytes32([]byte("counter")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	for _, want := range []uint64{1, math.MaxUint64, 0} {
		u.Set(want)
		v, err = u.Get()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestConfigVariable(t *testing.T) {
	ctx := newContext(t)

	c := NewConfigVariable("delay", 5)
	assert.Equal(t, "delay", c.Name())
	assert.Equal(t, thor.BytesToBytes32([]byte("delay")), c.Slot())

	c.Override(ctx)
	assert.Equal(t, uint32(5), c.Get(), "default without stored value")

	NewConfigVariable("delay", 5).Store(ctx, 9)

	// already initialised, the stored value is not read again
	c.Override(ctx)
	assert.Equal(t, uint32(5), c.Get())

	fresh := NewConfigVariable("delay", 5)
	fresh.Override(ctx)
	assert.Equal(t, uint32(9), fresh.Get())
	assert.Equal(t, ctx.Address(), thor.BytesToAddress([]byte("contract")))
}
