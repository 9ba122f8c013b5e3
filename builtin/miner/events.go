// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

var (
	_ tx.Event = (*MinerCreated)(nil)
	_ tx.Event = (*WorkerChangeRequested)(nil)
	_ tx.Event = (*WorkerChanged)(nil)
	_ tx.Event = (*PeerIDChanged)(nil)
	_ tx.Event = (*OwnerChangeRequested)(nil)
	_ tx.Event = (*OwnerChanged)(nil)
)

type MinerCreated struct {
	MinerAddr thor.Address `json:"miner"`
	Owner     thor.Address `json:"owner"`
}

func (e *MinerCreated) Name() string           { return "MinerCreated" }
func (e *MinerCreated) Miner() thor.Address    { return e.MinerAddr }
func (e *MinerCreated) Account() *thor.Address { return &e.Owner }

type WorkerChangeRequested struct {
	MinerAddr      thor.Address   `json:"miner"`
	NewWorker      thor.Address   `json:"newWorker"`
	NewControllers []thor.Address `json:"newControllers"`
}

func (e *WorkerChangeRequested) Name() string           { return "WorkerChangeRequested" }
func (e *WorkerChangeRequested) Miner() thor.Address    { return e.MinerAddr }
func (e *WorkerChangeRequested) Account() *thor.Address { return &e.NewWorker }

type WorkerChanged struct {
	MinerAddr thor.Address `json:"miner"`
	NewWorker thor.Address `json:"newWorker"`
}

func (e *WorkerChanged) Name() string           { return "WorkerChanged" }
func (e *WorkerChanged) Miner() thor.Address    { return e.MinerAddr }
func (e *WorkerChanged) Account() *thor.Address { return &e.NewWorker }

type PeerIDChanged struct {
	MinerAddr thor.Address `json:"miner"`
	NewPeerID []byte       `json:"newPeerID"`
}

func (e *PeerIDChanged) Name() string           { return "PeerIdChanged" }
func (e *PeerIDChanged) Miner() thor.Address    { return e.MinerAddr }
func (e *PeerIDChanged) Account() *thor.Address { return nil }

// OwnerChangeRequested carries the proposed owner, or the current owner when a proposal is revoked.
type OwnerChangeRequested struct {
	MinerAddr thor.Address `json:"miner"`
	NewOwner  thor.Address `json:"newOwner"`
}

func (e *OwnerChangeRequested) Name() string           { return "OwnerChangeRequested" }
func (e *OwnerChangeRequested) Miner() thor.Address    { return e.MinerAddr }
func (e *OwnerChangeRequested) Account() *thor.Address { return &e.NewOwner }

type OwnerChanged struct {
	MinerAddr thor.Address `json:"miner"`
	NewOwner  thor.Address `json:"newOwner"`
}

func (e *OwnerChanged) Name() string           { return "OwnerChanged" }
func (e *OwnerChanged) Miner() thor.Address    { return e.MinerAddr }
func (e *OwnerChanged) Account() *thor.Address { return &e.NewOwner }
