// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/powerledger/thor"
)

type peerArgs struct {
	Miner  thor.Address
	PeerID []byte
}

func newTestTx(t *testing.T, nonce uint64) *Transaction {
	clause, err := NewClause(thor.BytesToAddress([]byte("Miner")), "changePeerID").
		WithArgs(&peerArgs{thor.BytesToAddress([]byte("m")), []byte("peer")})
	require.NoError(t, err)
	return NewBuilder().Nonce(nonce).BlockRef(3).Clause(clause).Build()
}

func TestSignAndOrigin(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := thor.Address(crypto.PubkeyToAddress(key.PublicKey))

	unsigned := newTestTx(t, 1)
	_, err = unsigned.Origin()
	assert.Error(t, err)
	assert.True(t, unsigned.ID().IsZero())

	signed := MustSign(unsigned, key)
	origin, err := signed.Origin()
	require.NoError(t, err)
	assert.Equal(t, want, origin)
	assert.Equal(t, unsigned.SigningHash(), signed.SigningHash(), "signature is not part of signing hash")
	assert.Equal(t, thor.Blake2b(signed.SigningHash().Bytes(), origin.Bytes()), signed.ID())
	assert.NoError(t, signed.Validate())
}

func TestTransactionRLP(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	signed := MustSign(newTestTx(t, 7), key)
	data, err := rlp.EncodeToBytes(signed)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))

	assert.Equal(t, signed.ID(), decoded.ID())
	assert.Equal(t, uint64(len(data)), decoded.Size())
	assert.Equal(t, signed.Size(), decoded.Size())
	assert.Equal(t, uint64(7), decoded.Nonce())
	assert.Equal(t, uint32(3), decoded.BlockRef())

	clauses := decoded.Clauses()
	require.Len(t, clauses, 1)
	assert.Equal(t, "changePeerID", clauses[0].Method())

	var args peerArgs
	require.NoError(t, rlp.DecodeBytes(clauses[0].Data(), &args))
	assert.Equal(t, []byte("peer"), args.PeerID)
}

func TestValidate(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	clause := NewClause(thor.Address{}, "confirmUpdateWorkerKey")
	tooMany := NewBuilder()
	for range thor.MaxClausesPerTx + 1 {
		tooMany.Clause(clause)
	}
	huge := NewBuilder().Clause(clause.WithData(make([]byte, thor.MaxTxSize)))

	tests := []struct {
		name    string
		tx      *Transaction
		wantErr bool
	}{
		{"ok", MustSign(NewBuilder().Clause(clause).Build(), key), false},
		{"no clauses", MustSign(NewBuilder().Build(), key), true},
		{"too many clauses", MustSign(tooMany.Build(), key), true},
		{"too large", MustSign(huge.Build(), key), true},
		{"unsigned", NewBuilder().Clause(clause).Build(), true},
		{"bad signature", NewBuilder().Clause(clause).Build().WithSignature([]byte{1, 2, 3}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClauseCopy(t *testing.T) {
	c := NewClause(thor.Address{1}, "create").WithData([]byte{1, 2})
	data := c.Data()
	data[0] = 9
	assert.Equal(t, []byte{1, 2}, c.Data(), "Data returns a copy")
	assert.Equal(t, c.To(), c.Copy().To())
}
