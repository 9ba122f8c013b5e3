// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/builtin"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/metrics"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
	Tx "github.com/vechain/powerledger/tx"
	"github.com/vechain/powerledger/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricClauseCount = metrics.LazyLoadCounterVec("runtime_clauses_count", []string{"method", "status"})
)

// Runtime is to support transaction execution.
type Runtime struct {
	state *state.State

	// block env
	blockNumber uint32
	blockTime   uint64
}

// New create a Runtime object.
func New(
	state *state.State,
	blockNumber uint32,
	blockTime uint64,
) *Runtime {
	return &Runtime{
		state:       state,
		blockNumber: blockNumber,
		blockTime:   blockTime,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) BlockNumber() uint32 { return rt.blockNumber }
func (rt *Runtime) BlockTime() uint64   { return rt.blockTime }

// Call executes single clause on behalf of origin.
// Events are returned only if the clause succeeds. State written by a failed clause is not reverted here.
func (rt *Runtime) Call(clause *Tx.Clause, txOrigin thor.Address, txID thor.Bytes32) (Tx.Events, error) {
	method, ok := builtin.FindNativeMethod(clause.To(), clause.Method())
	if !ok {
		return nil, errors.WithMessagef(builtin.ErrMethodNotFound, "%v.%s", clause.To(), clause.Method())
	}

	env := xenv.New(
		rt.state,
		&xenv.BlockContext{Number: rt.blockNumber, Time: rt.blockTime},
		&xenv.TransactionContext{ID: txID, Origin: txOrigin},
		clause.Data(),
	)
	if err := method.Call(env); err != nil {
		metricClauseCount().AddWithLabel(1, map[string]string{"method": method.Name(), "status": "reverted"})
		return nil, err
	}
	metricClauseCount().AddWithLabel(1, map[string]string{"method": method.Name(), "status": "success"})
	return env.Events(), nil
}

// ExecuteTransaction executes a transaction.
// If some clause failed, all executed clauses are reverted and receipt.Outputs is empty.
// The returned error is non-nil when the transaction itself is invalid or the state can not be accessed.
func (rt *Runtime) ExecuteTransaction(tx *Tx.Transaction) (*Tx.Receipt, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	origin, err := tx.Origin()
	if err != nil {
		return nil, err
	}

	// checkpoint to be reverted when clause failure.
	checkpoint := rt.state.NewCheckpoint()

	receipt := &Tx.Receipt{
		TxID:   tx.ID(),
		Origin: origin,
	}
	for i, clause := range tx.Clauses() {
		events, err := rt.Call(clause, origin, receipt.TxID)
		if err != nil {
			rt.state.RevertTo(checkpoint)

			var stateErr *state.Error
			if errors.As(err, &stateErr) {
				return nil, err
			}
			receipt.Reverted = true
			receipt.BadClauseIndex = i
			receipt.Error = err.Error()
			receipt.Outputs = nil

			logger.Debug("tx reverted", "id", receipt.TxID, "clause", i, "error", err)
			break
		}
		receipt.Outputs = append(receipt.Outputs, &Tx.Output{Events: events})
	}
	return receipt, nil
}
