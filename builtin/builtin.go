// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/powerledger/builtin/miner"
	"github.com/vechain/powerledger/builtin/power"
	"github.com/vechain/powerledger/state"
)

// Builtin contracts binding.
var (
	Power = &powerContract{newContract("Power")}
	Miner = &minerContract{newContract("Miner")}
)

type (
	powerContract struct{ *contract }
	minerContract struct{ *contract }
)

func (p *powerContract) WithState(state *state.State) *power.Power {
	return power.New(p.Address, state)
}

// WithState binds the miner registry together with the power registry it registers claims in.
func (m *minerContract) WithState(state *state.State) *miner.Miner {
	return miner.New(m.Address, state, Power.WithState(state))
}
