// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/tx"
)

// Genesis to build genesis block.
type Genesis struct {
	builder       *Builder
	name          string
	blockInterval uint64
}

// Build build the genesis block.
func (g *Genesis) Build(st *state.State) (*chain.BlockSummary, tx.Receipts, error) {
	return g.builder.Build(st)
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// BlockInterval returns the seconds between two blocks.
func (g *Genesis) BlockInterval() uint64 {
	return g.blockInterval
}
