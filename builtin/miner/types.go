// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"github.com/vechain/powerledger/builtin/reverts"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

var (
	ErrOverflow           = reverts.New("miner: index overflow")
	ErrClaimsNotSet       = reverts.New("miner: claims not set")
	ErrNoSuchMiner        = reverts.New("miner: no such miner")
	ErrInvalidSigner      = reverts.New("miner: invalid signer")
	ErrNoRequest          = reverts.New("miner: no request")
	ErrIneffectiveRequest = reverts.New("miner: ineffective request")
)

// Env is what the registry needs from the executing transaction:
// the verified signer, the logical clock and an event sink.
type Env interface {
	Signer() thor.Address
	Number() uint32
	Log(ev tx.Event)
}

// WorkerKeyChange is a scheduled worker rotation.
type WorkerKeyChange struct {
	NewWorker   thor.Address `json:"newWorker"`
	EffectiveAt uint32       `json:"effectiveAt"`
}

// Info is the identity record of a miner.
type Info struct {
	Owner       thor.Address   `json:"owner"`
	Worker      thor.Address   `json:"worker"`
	Controllers []thor.Address `json:"controllers"`
	PeerID      []byte         `json:"peerID"`

	PendingWorker *WorkerKeyChange `json:"pendingWorker" rlp:"nil"`
	PendingOwner  *thor.Address    `json:"pendingOwner" rlp:"nil"`
}

// isController reports whether addr is one of the controllers.
func (i *Info) isController(addr thor.Address) bool {
	for _, c := range i.Controllers {
		if c == addr {
			return true
		}
	}
	return false
}
