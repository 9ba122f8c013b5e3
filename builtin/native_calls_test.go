// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/powerledger/builtin/miner"
	"github.com/vechain/powerledger/builtin/minerid"
	"github.com/vechain/powerledger/builtin/power"
	"github.com/vechain/powerledger/lvldb"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
	"github.com/vechain/powerledger/xenv"
)

var (
	owner    = thor.BytesToAddress([]byte("owner"))
	worker   = thor.BytesToAddress([]byte("worker"))
	stranger = thor.BytesToAddress([]byte("stranger"))
)

type ctest struct {
	t     *testing.T
	state *state.State
	block uint32
}

func newCtest(t *testing.T) *ctest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &ctest{t: t, state: state.New(db), block: 1}
}

func (c *ctest) call(signer thor.Address, clause *tx.Clause) (tx.Events, error) {
	m, ok := FindNativeMethod(clause.To(), clause.Method())
	require.True(c.t, ok, "method %s", clause.Method())

	env := xenv.New(
		c.state,
		&xenv.BlockContext{Number: c.block},
		&xenv.TransactionContext{Origin: signer},
		clause.Data())
	err := m.Call(env)
	return env.Events(), err
}

func TestContractAddresses(t *testing.T) {
	assert.Equal(t, thor.BytesToAddress([]byte("Power")), Power.Address)
	assert.Equal(t, thor.BytesToAddress([]byte("Miner")), Miner.Address)
	assert.Equal(t, "Miner", Miner.Name())
}

func TestFindNativeMethod(t *testing.T) {
	for _, name := range []string{"create", "changeWorkerAddress", "confirmUpdateWorkerKey", "changePeerID", "changeOwnerAddress"} {
		m, ok := FindNativeMethod(Miner.Address, name)
		assert.True(t, ok, name)
		assert.Equal(t, name, m.Name())
	}
	_, ok := FindNativeMethod(Power.Address, "updateClaim")
	assert.True(t, ok)

	_, ok = FindNativeMethod(Power.Address, "create")
	assert.False(t, ok, "methods are bound per contract")
	_, ok = FindNativeMethod(thor.Address{}, "create")
	assert.False(t, ok)
}

func TestMinerLifecycle(t *testing.T) {
	c := newCtest(t)
	addr := minerid.Derive(1)

	events, err := c.call(stranger, Miner.CreateClause(owner, worker, []byte("peer")))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, &miner.MinerCreated{MinerAddr: addr, Owner: owner}, events[0])

	newWorker := thor.BytesToAddress([]byte("worker2"))
	_, err = c.call(owner, Miner.ChangeWorkerAddressClause(addr, newWorker, []thor.Address{stranger}))
	require.NoError(t, err)

	_, err = c.call(stranger, Miner.ConfirmUpdateWorkerKeyClause(addr))
	assert.Equal(t, miner.ErrIneffectiveRequest, err)

	c.block += thor.WorkerKeyChangeDelay
	events, err = c.call(stranger, Miner.ConfirmUpdateWorkerKeyClause(addr))
	require.NoError(t, err)
	assert.Equal(t, &miner.WorkerChanged{MinerAddr: addr, NewWorker: newWorker}, events[0])

	// controller
	_, err = c.call(stranger, Miner.ChangePeerIDClause(addr, []byte("peer2")))
	require.NoError(t, err)

	newOwner := thor.BytesToAddress([]byte("owner2"))
	_, err = c.call(owner, Miner.ChangeOwnerAddressClause(addr, newOwner))
	require.NoError(t, err)
	events, err = c.call(newOwner, Miner.ChangeOwnerAddressClause(addr, newOwner))
	require.NoError(t, err)
	assert.Equal(t, &miner.OwnerChanged{MinerAddr: addr, NewOwner: newOwner}, events[0])

	info, err := Miner.WithState(c.state).Get(addr)
	require.NoError(t, err)
	assert.Equal(t, &miner.Info{
		Owner:       newOwner,
		Worker:      newWorker,
		Controllers: []thor.Address{stranger},
		PeerID:      []byte("peer2"),
	}, info)
}

func TestUpdateClaim(t *testing.T) {
	c := newCtest(t)
	addr := minerid.Derive(1)
	_, err := c.call(owner, Miner.CreateClause(owner, worker, nil))
	require.NoError(t, err)

	tests := []struct {
		name     string
		signer   thor.Address
		miner    thor.Address
		raw, qa  int64
		wantErr  error
		wantRaw  uint64
		wantQAdj uint64
	}{
		{"by worker", worker, addr, 100, 120, nil, 100, 120},
		{"by owner", owner, addr, -30, -20, nil, 70, 100},
		{"by stranger", stranger, addr, 1, 1, miner.ErrInvalidSigner, 70, 100},
		{"underflow", worker, addr, -71, 0, power.ErrClaimUnderflow, 70, 100},
		{"unknown miner", worker, minerid.Derive(2), 1, 1, miner.ErrNoSuchMiner, 70, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := c.call(tt.signer, Power.UpdateClaimClause(tt.miner, tt.raw, tt.qa))
			assert.Equal(t, tt.wantErr, err)
			assert.Empty(t, events)

			claim, err := Power.WithState(c.state).Claim(addr)
			require.NoError(t, err)
			assert.Equal(t, &power.Claim{RawBytePower: tt.wantRaw, QualityAdjPower: tt.wantQAdj}, claim)
		})
	}
}

func TestMalformedInput(t *testing.T) {
	c := newCtest(t)
	clause := tx.NewClause(Miner.Address, "create").WithData([]byte{0xff})

	events, err := c.call(owner, clause)
	assert.Error(t, err)
	assert.Empty(t, events)

	index, err := Miner.WithState(c.state).Index()
	require.NoError(t, err)
	assert.Zero(t, index)
}

func TestUpdateClaimArgsDeltas(t *testing.T) {
	clause := Power.UpdateClaimClause(thor.Address{1}, -5, 7)

	var args UpdateClaimArgs
	require.NoError(t, rlp.DecodeBytes(clause.Data(), &args))
	raw, qa := args.Deltas()
	assert.Equal(t, int64(-5), raw)
	assert.Equal(t, int64(7), qa)
}
