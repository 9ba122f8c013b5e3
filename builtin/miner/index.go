// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/powerledger/builtin/solidity"
	"github.com/vechain/powerledger/thor"
)

var slotMinerIndex = thor.BytesToBytes32([]byte("miner-index"))

// indexAllocator hands out sequential miner indexes starting at 1.
// The counter holds the last allocated index, zero when none was.
type indexAllocator struct {
	counter *solidity.Uint64
}

func newIndexAllocator(sctx *solidity.Context) *indexAllocator {
	return &indexAllocator{solidity.NewUint64(sctx, slotMinerIndex)}
}

// Current returns the last allocated index.
func (a *indexAllocator) Current() (uint32, error) {
	v, err := a.counter.Get()
	if err != nil {
		return 0, errors.Wrap(err, "get miner index")
	}
	return uint32(v), nil
}

// peek returns the index the next allocation yields, without consuming it.
func (a *indexAllocator) peek() (uint32, error) {
	current, err := a.Current()
	if err != nil {
		return 0, err
	}
	if current == math.MaxUint32 {
		return 0, ErrOverflow
	}
	return current + 1, nil
}

func (a *indexAllocator) commit(index uint32) {
	a.counter.Set(uint64(index))
}

// Allocate consumes and returns the next index.
// The counter is left unchanged on overflow.
func (a *indexAllocator) Allocate() (uint32, error) {
	next, err := a.peek()
	if err != nil {
		return 0, err
	}
	a.commit(next)
	return next, nil
}
