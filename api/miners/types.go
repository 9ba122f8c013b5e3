// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miners

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/powerledger/builtin/miner"
	"github.com/vechain/powerledger/builtin/power"
	"github.com/vechain/powerledger/thor"
)

type PendingWorker struct {
	NewWorker   thor.Address `json:"newWorker"`
	EffectiveAt uint32       `json:"effectiveAt"`
}

type Miner struct {
	Address       thor.Address   `json:"address"`
	Index         uint32         `json:"index"`
	Owner         thor.Address   `json:"owner"`
	Worker        thor.Address   `json:"worker"`
	Controllers   []thor.Address `json:"controllers"`
	PeerID        hexutil.Bytes  `json:"peerID"`
	PendingWorker *PendingWorker `json:"pendingWorker"`
	PendingOwner  *thor.Address  `json:"pendingOwner"`
	Claim         *power.Claim   `json:"claim"`
}

func convertMiner(addr thor.Address, index uint32, info *miner.Info, claim *power.Claim) *Miner {
	m := &Miner{
		Address:      addr,
		Index:        index,
		Owner:        info.Owner,
		Worker:       info.Worker,
		Controllers:  info.Controllers,
		PeerID:       info.PeerID,
		PendingOwner: info.PendingOwner,
		Claim:        claim,
	}
	if m.Controllers == nil {
		m.Controllers = []thor.Address{}
	}
	if info.PendingWorker != nil {
		m.PendingWorker = &PendingWorker{
			NewWorker:   info.PendingWorker.NewWorker,
			EffectiveAt: info.PendingWorker.EffectiveAt,
		}
	}
	return m
}

type Index struct {
	Index uint32 `json:"index"`
}
