// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     thor.Bytes32
	Origin thor.Address
}

type vmError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	input    []byte
	events   tx.Events
}

// New create a new env.
func New(
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	input []byte,
) *Environment {
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		input:    input,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }

// Signer returns the verified originator of the running transaction.
func (env *Environment) Signer() thor.Address { return env.txCtx.Origin }

// Number returns the current block number, the logical clock of the ledger.
func (env *Environment) Number() uint32 { return env.blockCtx.Number }

// Log records an event. Events are kept only if the clause succeeds.
func (env *Environment) Log(ev tx.Event) {
	env.events = append(env.events, ev)
}

// Events returns events recorded so far.
func (env *Environment) Events() tx.Events {
	return env.events
}

// ParseArgs decodes the RLP encoded clause input into val.
func (env *Environment) ParseArgs(val any) {
	if err := rlp.DecodeBytes(env.input, val); err != nil {
		// as vm error
		panic(&vmError{errors.WithMessage(err, "decode native input")})
	}
}

func (env *Environment) Stop(vmerr error) {
	panic(&vmError{vmerr})
}

// Call wraps proc so that a Stop or ParseArgs failure inside it is returned as error.
// On failure the recorded events are discarded.
func (env *Environment) Call(proc func(env *Environment) error) func() error {
	return func() (err error) {
		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					err = rec.cause
				} else {
					panic(e)
				}
			}
			if err != nil {
				env.events = nil
			}
		}()
		return proc(env)
	}
}
