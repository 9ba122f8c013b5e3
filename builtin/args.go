// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

// Clause arguments, RLP encoded into clause data.
type (
	CreateArgs struct {
		Owner  thor.Address
		Worker thor.Address
		PeerID []byte
	}

	ChangeWorkerAddressArgs struct {
		Miner       thor.Address
		NewWorker   thor.Address
		Controllers []thor.Address
	}

	ConfirmUpdateWorkerKeyArgs struct {
		Miner thor.Address
	}

	ChangePeerIDArgs struct {
		Miner  thor.Address
		PeerID []byte
	}

	ChangeOwnerAddressArgs struct {
		Miner    thor.Address
		NewOwner thor.Address
	}

	// UpdateClaimArgs carries signed deltas as two's complement, since RLP has no signed integers.
	UpdateClaimArgs struct {
		Miner           thor.Address
		RawBytePower    uint64
		QualityAdjPower uint64
	}
)

// Deltas returns the signed claim deltas.
func (a *UpdateClaimArgs) Deltas() (raw, qa int64) {
	return int64(a.RawBytePower), int64(a.QualityAdjPower)
}

func (m *minerContract) CreateClause(owner, worker thor.Address, peerID []byte) *tx.Clause {
	return m.clause("create", &CreateArgs{owner, worker, peerID})
}

func (m *minerContract) ChangeWorkerAddressClause(miner, newWorker thor.Address, controllers []thor.Address) *tx.Clause {
	return m.clause("changeWorkerAddress", &ChangeWorkerAddressArgs{miner, newWorker, controllers})
}

func (m *minerContract) ConfirmUpdateWorkerKeyClause(miner thor.Address) *tx.Clause {
	return m.clause("confirmUpdateWorkerKey", &ConfirmUpdateWorkerKeyArgs{miner})
}

func (m *minerContract) ChangePeerIDClause(miner thor.Address, peerID []byte) *tx.Clause {
	return m.clause("changePeerID", &ChangePeerIDArgs{miner, peerID})
}

func (m *minerContract) ChangeOwnerAddressClause(miner, newOwner thor.Address) *tx.Clause {
	return m.clause("changeOwnerAddress", &ChangeOwnerAddressArgs{miner, newOwner})
}

func (p *powerContract) UpdateClaimClause(miner thor.Address, deltaRaw, deltaQA int64) *tx.Clause {
	return p.clause("updateClaim", &UpdateClaimArgs{miner, uint64(deltaRaw), uint64(deltaQA)})
}
