// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/powerledger/builtin/miner"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

var (
	minerA = thor.BytesToAddress([]byte("minerA"))
	minerB = thor.BytesToAddress([]byte("minerB"))
	owner  = thor.BytesToAddress([]byte("owner"))
	origin = thor.BytesToAddress([]byte("origin"))
)

func newLogDB(t *testing.T) *LogDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func fill(t *testing.T, db *LogDB) {
	for n := uint32(1); n <= 3; n++ {
		receipts := tx.Receipts{
			{
				TxID:   thor.Bytes32{byte(n), 1},
				Origin: origin,
				Outputs: []*tx.Output{
					{Events: tx.Events{&miner.MinerCreated{MinerAddr: minerA, Owner: owner}}},
					{Events: tx.Events{&miner.PeerIDChanged{MinerAddr: minerA, NewPeerID: []byte{byte(n)}}}},
				},
			},
			{
				TxID:     thor.Bytes32{byte(n), 2},
				Origin:   origin,
				Reverted: true,
			},
			{
				TxID:   thor.Bytes32{byte(n), 3},
				Origin: origin,
				Outputs: []*tx.Output{
					{Events: tx.Events{&miner.OwnerChangeRequested{MinerAddr: minerB, NewOwner: owner}}},
				},
			},
		}
		require.NoError(t, db.Write(n, uint64(n)*10, receipts))
	}
}

func TestWriteAndFilter(t *testing.T) {
	db := newLogDB(t)
	fill(t, db)
	ctx := context.Background()

	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 9)

	first := all[0]
	assert.Equal(t, uint32(1), first.BlockNumber)
	assert.Equal(t, uint32(0), first.Index)
	assert.Equal(t, uint64(10), first.BlockTime)
	assert.Equal(t, thor.Bytes32{1, 1}, first.TxID)
	assert.Equal(t, origin, first.TxOrigin)
	assert.Equal(t, "MinerCreated", first.Name)
	assert.Equal(t, minerA, first.Miner)

	var created miner.MinerCreated
	require.NoError(t, json.Unmarshal(first.Data, &created))
	assert.Equal(t, miner.MinerCreated{MinerAddr: minerA, Owner: owner}, created)

	// index continues across transactions of a block, the clause index restarts per tx
	tests := []struct {
		index       uint32
		clauseIndex uint32
		txID        thor.Bytes32
		name        string
	}{
		{0, 0, thor.Bytes32{1, 1}, "MinerCreated"},
		{1, 1, thor.Bytes32{1, 1}, "PeerIdChanged"},
		{2, 0, thor.Bytes32{1, 3}, "OwnerChangeRequested"},
	}
	assert.Equal(t, &owner, all[0].Account)
	assert.Nil(t, all[1].Account, "peer id changes carry no account")
	for i, tt := range tests {
		assert.Equal(t, tt.index, all[i].Index)
		assert.Equal(t, tt.clauseIndex, all[i].ClauseIndex, tt.name)
		assert.Equal(t, tt.txID, all[i].TxID)
		assert.Equal(t, tt.name, all[i].Name)
	}

	newest, err := db.NewestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), newest)
}

func TestFilterEvents(t *testing.T) {
	db := newLogDB(t)
	fill(t, db)

	txID := thor.Bytes32{2, 1}
	tests := []struct {
		name      string
		filter    *EventFilter
		wantCount int
		wantFirst uint32
	}{
		{"by miner", &EventFilter{Miner: &minerB}, 3, 1},
		{"by account", &EventFilter{Account: &owner}, 6, 1},
		{"zero account", &EventFilter{Account: &thor.Address{}}, 0, 0},
		{"by name", &EventFilter{Name: "PeerIdChanged"}, 3, 1},
		{"by range", &EventFilter{Range: &Range{From: 2, To: 2}}, 3, 2},
		{"open range", &EventFilter{Range: &Range{From: 2}}, 6, 2},
		{"by tx", &EventFilter{TxID: &txID}, 2, 2},
		{"desc", &EventFilter{Order: DESC}, 9, 3},
		{"paged", &EventFilter{Options: &Options{Offset: 7, Limit: 10}}, 2, 3},
		{"combined", &EventFilter{Miner: &minerA, Name: "MinerCreated", Range: &Range{From: 3, To: 3}}, 1, 3},
		{"nothing", &EventFilter{Name: "OwnerChanged"}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, events, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, events[0].BlockNumber)
			}
		})
	}
}

func TestFilterEventsCanceled(t *testing.T) {
	db := newLogDB(t)
	fill(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := db.FilterEvents(ctx, &EventFilter{})
	assert.Error(t, err)
}

func TestEmptyDB(t *testing.T) {
	db := newLogDB(t)

	newest, err := db.NewestBlock(context.Background())
	require.NoError(t, err)
	assert.Zero(t, newest)

	events, err := db.FilterEvents(context.Background(), &EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotEmpty(t, db.DriverVersion())
	assert.Equal(t, ":memory:", db.Path())
}
