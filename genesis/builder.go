// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/runtime"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

// Builder helper to build genesis block.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller thor.Address
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call.
func (b *Builder) Call(clause *tx.Clause, caller thor.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// Build applies state processes and calls to st, in the order they were added.
// The state is left uncommitted. One receipt per call is returned, holding the events it emitted.
func (b *Builder) Build(st *state.State) (*chain.BlockSummary, tx.Receipts, error) {
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, 0, b.timestamp)
	receipts := make(tx.Receipts, 0, len(b.calls))
	for i, call := range b.calls {
		events, err := rt.Call(call.clause, call.caller, thor.Bytes32{})
		if err != nil {
			return nil, nil, errors.Wrapf(err, "call %d (%v)", i, call.clause)
		}
		receipts = append(receipts, &tx.Receipt{Origin: call.caller, Outputs: []*tx.Output{{Events: events}}})
	}

	return &chain.BlockSummary{
		Number:    0,
		Timestamp: b.timestamp,
	}, receipts, nil
}
